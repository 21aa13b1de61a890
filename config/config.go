// Package config loads the gradebook configuration from the environment.
//
// Variables carry the GRADEBOOK_ prefix. The first underscore after the prefix
// separates the section from the key, so GRADEBOOK_DATABASE_SSL_MODE maps to
// database.ssl_mode. A .env file in the working directory is loaded first.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "GRADEBOOK_"

type Config struct {
	App      AppConfig      `koanf:"app" validate:"required"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	HTTP     HTTPConfig     `koanf:"http" validate:"required"`
	Seed     SeedConfig     `koanf:"seed"`
}

type AppConfig struct {
	Env      string `koanf:"env" validate:"required,oneof=local development production test"`
	LogLevel string `koanf:"log_level" validate:"required,oneof=trace debug info warn error"`
}

// DatabaseConfig holds either a full connection string (DSN) or its parts.
type DatabaseConfig struct {
	DSN             string        `koanf:"dsn"`
	Host            string        `koanf:"host" validate:"required_without=DSN"`
	Port            int           `koanf:"port" validate:"min=0,max=65535"`
	User            string        `koanf:"user" validate:"required_without=DSN"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name" validate:"required_without=DSN"`
	SSLMode         string        `koanf:"ssl_mode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	Timezone        string        `koanf:"timezone"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"min=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	PingBeforeQuery bool          `koanf:"ping_before_query"`
	MigrationsDir   string        `koanf:"migrations_dir" validate:"required"`
}

type HTTPConfig struct {
	Address      string        `koanf:"address" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
}

// SeedConfig.Value of 0 means a random seed per run.
type SeedConfig struct {
	Value uint64 `koanf:"value"`
}

func Default() *Config {
	return &Config{
		App: AppConfig{
			Env:      "local",
			LogLevel: "info",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Name:            "gradebook",
			SSLMode:         "disable",
			Timezone:        "UTC",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxIdleTime: 230 * time.Second,
			// https://github.com/golang/go/issues/41114
			ConnMaxLifetime: 30 * time.Minute,
			PingBeforeQuery: true,
			MigrationsDir:   "../migrations",
		},
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Load reads GRADEBOOK_* variables over the defaults and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(s, "_", ".", 1)
}

func (c DatabaseConfig) ConnectionString() string {
	if c.DSN != "" {
		return c.DSN
	}

	parts := []string{
		"host=" + c.Host,
		"port=" + strconv.Itoa(c.Port),
		"user=" + c.User,
		"dbname=" + c.Name,
	}
	if c.Password != "" {
		parts = append(parts, "password="+quoteValue(c.Password))
	}
	if c.SSLMode != "" {
		parts = append(parts, "sslmode="+c.SSLMode)
	}
	if c.Timezone != "" {
		parts = append(parts, "TimeZone="+c.Timezone)
	}

	return strings.Join(parts, " ")
}

// libpq keyword/value format: values with spaces or quotes must be single-quoted.
func quoteValue(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func (c *Config) IsLocal() bool {
	return c.App.Env == "local"
}
