package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/cadence/internal/cli"
	"github.com/aretw0/cadence/internal/control"
	httpAdapter "github.com/aretw0/cadence/pkg/adapters/http"
	"github.com/aretw0/cadence/pkg/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Loads every definition and exposes the engine as a JSON API over HTTP, with the OpenAPI
document on /openapi.yaml and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")

		metrics := observability.NewMetrics(nil)
		opts := options(cmd, "")
		opts.Hooks = metrics.Hooks()
		s, err := cli.NewSession(opts)
		if err != nil {
			return err
		}
		if _, err := s.Load(cmd.Context()); err != nil {
			s.Logger.Warn("some definitions were not loaded", "err", err)
		}

		handler, err := httpAdapter.NewHandler(control.New(s.Engine, s.Element),
			httpAdapter.WithLogger(s.Logger),
			httpAdapter.WithMetrics(metrics.Handler()),
		)
		if err != nil {
			return err
		}
		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			fmt.Fprintf(cmd.OutOrStdout(), "Starting Cadence Server on %s\n", srv.Addr)
			fmt.Fprintf(cmd.OutOrStdout(), "Serving definitions from: %s\n", opts.Dir)
			serverErrors <- srv.ListenAndServe()
		}()

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)
		case <-sigCtx.Done():
			fmt.Fprintf(cmd.OutOrStdout(), "\nStart shutdown... Signal: %v\n", sigCtx.Signal())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				if cerr := srv.Close(); cerr != nil {
					return fmt.Errorf("error killing server: %w", cerr)
				}
				return fmt.Errorf("graceful shutdown did not complete in %v: %w", 5*time.Second, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cadence Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
