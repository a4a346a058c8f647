package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/venuegrid/internal/api"
)

const shutdownTimeout = 10 * time.Second

func (a *App) serveCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the booking database over HTTP",
		Long: `Expose the SQLite booking database as the JSON API that the "api" storage
backend talks to. Other venuegrid boards can then share one venue.

When [metrics] is enabled, Prometheus metrics are served at /metrics.`,
		Example: `  venuegrid serve --listen=:8080`,
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := a.requireStore()
			if err != nil {
				return err
			}
			if listen == "" {
				listen = a.config.API.Listen
			}

			var opts []api.ServerOption
			if a.config.Metrics.Enabled {
				opts = append(opts, api.WithMetrics(a.recorder.Handler()))
			}
			srv := &http.Server{
				Addr:              listen,
				Handler:           api.NewServer(store, a.log, opts...).Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.log.Info().Str("listen", listen).Bool("metrics", a.config.Metrics.Enabled).Msg("serving booking api")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("serving: %w", err)
			case <-ctx.Done():
			}

			a.log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutting down: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Address to listen on (default: api.listen from config)")
	return cmd
}
