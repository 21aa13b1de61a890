package migrations

import (
	"context"
	"os"
	"path/filepath"

	"gradebook/database"

	"github.com/ottomillrath/goose/v2"
)

// goose still wants a directory for SQL migrations even though every migration
// here is written in Go. Relative paths are resolved against the executable,
// which is expected to live in bin/ next to this folder.
const service = "gradebook"

var executable = os.Executable

func Run(ctx context.Context, db *database.DB, dir string) error {
	log := db.Logger()

	err := goose.SetDialect("postgres")
	if err != nil {
		return err
	}

	dir, err = resolveDir(dir)
	if err != nil {
		return err
	}
	log.Info().Str("dir", dir).Msg("running migrations")

	err = goose.Run("up", db.Session(ctx), service, dir)
	if err != nil {
		return database.Classify(err)
	}

	log.Info().Msg("database schema up to date")
	return nil
}

func resolveDir(dir string) (string, error) {
	if filepath.IsAbs(dir) {
		return dir, nil
	}

	// https://stackoverflow.com/a/18537419
	ex, err := executable()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(ex), dir), nil
}
