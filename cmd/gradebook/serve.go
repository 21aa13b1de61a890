package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gradebook/reports"
	"gradebook/rest"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the reports as JSON over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer a.closeDatabase(db)

			router := rest.NewRouter(reports.New(db), db, a.log)
			maybeEnableProfiling(router)
			server := rest.NewServer(a.cfg.HTTP, router)

			errCh := make(chan error, 1)
			go func() {
				a.log.Info().Str("address", server.Addr).Str("env", a.cfg.App.Env).Msg("starting server")
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			a.log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
}
