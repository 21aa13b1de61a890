package main

import (
	"gradebook/config"
	"gradebook/database"
	"gradebook/utils/logging"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once the configuration is loaded.
type app struct {
	cfg *config.Config
	log zerolog.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "gradebook",
		Short:        "Gradebook schema, demo data and reports",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logging.New(cfg.IsLocal(), cfg.App.LogLevel)
			return nil
		},
	}

	root.AddCommand(
		newMigrateCommand(a),
		newSeedCommand(a),
		newReportCommand(a),
		newServeCommand(a),
	)
	return root
}

func (a *app) openDatabase() (*database.DB, error) {
	return database.Open(a.cfg.Database, a.log)
}

func (a *app) closeDatabase(db *database.DB) {
	if err := db.Close(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close database")
	}
}
