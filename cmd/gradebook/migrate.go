package main

import (
	"gradebook/migrations"

	"github.com/spf13/cobra"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bring the database schema up to date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer a.closeDatabase(db)

			return migrations.Run(cmd.Context(), db, a.cfg.Database.MigrationsDir)
		},
	}
}
