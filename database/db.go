package database

import (
	"context"
	"fmt"

	"gradebook/config"
	"gradebook/utils/logging"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var logLevel = logger.Warn

// DB is the data-access handle shared by reports, seeding and migrations.
// Each operation takes its own session from the pool through Session or
// Transaction; the pool lives until Close.
type DB struct {
	con *gorm.DB
	log zerolog.Logger
}

func Open(cfg config.DatabaseConfig, log zerolog.Logger) (*DB, error) {
	con, err := gorm.Open(getDriverConnection(cfg), newGormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}

	internalDb, err := con.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnection, err)
	}
	internalDb.SetMaxOpenConns(cfg.MaxOpenConns)
	internalDb.SetMaxIdleConns(cfg.MaxIdleConns)
	internalDb.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	internalDb.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if cfg.PingBeforeQuery {
		err = con.Use(pingPluginSingleton)
		if err != nil {
			internalDb.Close()
			return nil, err
		}
	}

	log.Debug().Str("host", cfg.Host).Str("database", cfg.Name).Msg("connected to database")

	return New(con, log), nil
}

// New wraps an already opened gorm handle.
func New(con *gorm.DB, log zerolog.Logger) *DB {
	return &DB{con: con, log: log}
}

func getDriverConnection(cfg config.DatabaseConfig) gorm.Dialector {
	return postgres.New(postgres.Config{
		DSN:                  cfg.ConnectionString(),
		PreferSimpleProtocol: false,
	})
}

func newGormConfig(log zerolog.Logger) *gorm.Config {
	return &gorm.Config{
		NamingStrategy: schema.NamingStrategy{},
		Logger:         logging.NewGormLogger(log, logLevel),
		QueryFields:    true,
	}
}

// Session returns a handle scoped to one operation and bound to ctx.
func (d *DB) Session(ctx context.Context) *gorm.DB {
	return d.con.WithContext(ctx)
}

// Transaction runs fn in a single transaction: committed when fn returns nil,
// rolled back on error or panic.
func (d *DB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.con.WithContext(ctx).Transaction(fn)
}

func (d *DB) Logger() zerolog.Logger {
	return d.log
}

func (d *DB) Close() error {
	internalDb, err := d.con.DB()
	if err != nil {
		return err
	}
	return internalDb.Close()
}

// Ping checks that the database answers.
func (d *DB) Ping(ctx context.Context) error {
	internalDb, err := d.con.DB()
	if err != nil {
		return err
	}
	if err := internalDb.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
	return nil
}
