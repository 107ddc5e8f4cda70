package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lessonkit/inversetrig"
	"github.com/lessonkit/inversetrig/internal/config"
)

func serveCmd(root *rootOptions) *cobra.Command {
	var (
		address string
		backend string
		metrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the lesson server",
		Long: `Start the lesson server.

Each visitor gets their own variables, kept in the configured session
backend (memory, redis or bolt) so a reload restores them.

Examples:
  lesson serve
  lesson serve --address=:3000
  lesson serve --backend=bolt --metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}

			// Apply command-line overrides
			if address != "" {
				cfg.Server.Address = address
			}
			if backend != "" {
				cfg.Session.Backend = backend
			}
			if metrics {
				cfg.Metrics.Enabled = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&address, "address", "a", "", "Address to listen on (default from config)")
	cmd.Flags().StringVar(&backend, "backend", "", "Session backend: memory, redis or bolt")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Serve Prometheus metrics on /metrics")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	logger := inversetrig.NewLogger(cmd.ErrOrStderr(), cfg.Log)

	app, err := inversetrig.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}
