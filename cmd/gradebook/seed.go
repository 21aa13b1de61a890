package main

import (
	"fmt"

	"gradebook/seed"

	"github.com/spf13/cobra"
)

func newSeedCommand(a *app) *cobra.Command {
	var seedValue uint64

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Wipe every table and fill it with random demo data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("seed") {
				seedValue = a.cfg.Seed.Value
			}

			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer a.closeDatabase(db)

			seeder := seed.New(db, a.log, seed.WithSeed(seedValue))
			summary, err := seeder.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"seeded %d groups, %d teachers, %d subjects, %d students, %d grades (seed %d)\n",
				summary.Groups, summary.Teachers, summary.Subjects, summary.Students, summary.Grades, seeder.Seed())
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seedValue, "seed", 0, "random seed, 0 picks one (default from GRADEBOOK_SEED_VALUE)")
	return cmd
}
