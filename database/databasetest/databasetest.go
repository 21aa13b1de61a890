// Package databasetest provides database handles for tests.
//
// DryRun never touches a server and is meant for inspecting generated SQL.
// Open connects to the PostgreSQL named by GRADEBOOK_TEST_DATABASE_DSN, drops
// and recreates the schema, and skips the test when the variable is unset.
// Tests using Open cannot run in parallel against the same database.
package databasetest

import (
	"testing"

	"gradebook/config"
	"gradebook/database"
	"gradebook/models"
	"gradebook/utils/env"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const DSNVariable = "GRADEBOOK_TEST_DATABASE_DSN"

func DryRun(t testing.TB) *database.DB {
	t.Helper()

	con, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=gradebook dbname=gradebook sslmode=disable",
	}), &gorm.Config{
		NamingStrategy:       schema.NamingStrategy{},
		Logger:               logger.Discard,
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("opening dry-run handle: %v", err)
	}

	return database.New(con, zerolog.Nop())
}

func Open(t testing.TB) *database.DB {
	t.Helper()

	dsn, err := env.GetStr(DSNVariable)
	if err != nil {
		t.Skipf("%s not set, skipping database test", DSNVariable)
	}

	cfg := config.Default().Database
	cfg.DSN = dsn
	cfg.PingBeforeQuery = true

	db, err := database.Open(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("database.Open() failed: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("db.Close() failed: %v", err)
		}
	})

	ResetSchema(t, db)
	return db
}

// ResetSchema drops every table and creates the schema again.
func ResetSchema(t testing.TB, db *database.DB) {
	t.Helper()

	all := models.All()
	migrator := db.Session(t.Context()).Migrator()

	for i := len(all) - 1; i >= 0; i-- {
		if err := migrator.DropTable(all[i]); err != nil {
			t.Fatalf("dropping table for %T: %v", all[i], err)
		}
	}
	for _, m := range all {
		if err := migrator.CreateTable(m); err != nil {
			t.Fatalf("creating table for %T: %v", m, err)
		}
	}
}
