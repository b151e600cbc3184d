package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	leadadmin "github.com/leadroute/leadadmin"
	"github.com/leadroute/leadadmin/internal/logger"
	"github.com/leadroute/leadadmin/internal/server"
	"github.com/leadroute/leadadmin/internal/server/config"
	"github.com/leadroute/leadadmin/internal/server/store"
	"github.com/spf13/cobra"
)

// newStubServerCmd runs an in-memory admin API for local development
func newStubServerCmd() *cobra.Command {
	var (
		port     int
		envelope string
	)

	cmd := &cobra.Command{
		Use:   "stub-server",
		Short: "Run an in-memory admin API for local development",
		Long: `stub-server serves the admin API from memory, seeded with sample data.
It is configured from the environment (PORT, ADMIN_API_TOKEN, ENVELOPE_STYLE, ALLOWED_ORIGINS, ...).
--envelope legacy serves the older resource-named response shapes.`,
		Args: cobra.NoArgs,
		// the client configuration is not needed here
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			serverCfg, corsMiddleware, err := config.NewServerConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				serverCfg.Port = port
			}
			if cmd.Flags().Changed("envelope") {
				serverCfg.EnvelopeStyle = envelope
			}
			if err := config.ValidateConfig(serverCfg); err != nil {
				return err
			}

			appLogger := logger.InitLogger(cmd.ErrOrStderr(), logger.ParseLogLevel(serverCfg.LogLevel), serverCfg.Environment)
			slog.SetDefault(appLogger)

			s := store.New()
			if serverCfg.SeedData {
				s.Seed()
			}

			if serverCfg.AdminToken == "" {
				appLogger.Warn("ADMIN_API_TOKEN is not set, admin routes are unauthenticated")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.NewServer(s, serverCfg, corsMiddleware, appLogger)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8787, "listen port (overrides PORT)")
	cmd.Flags().StringVar(&envelope, "envelope", leadadmin.EnvelopeCurrent, "response shapes: current or legacy (overrides ENVELOPE_STYLE)")
	return cmd
}
