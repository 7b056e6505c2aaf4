package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/voltdesk/voltdesk/internal/dashboard"
	"github.com/voltdesk/voltdesk/internal/notify"
	"github.com/voltdesk/voltdesk/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the persistence core and real-time dashboard server",
	Long: `Open the configured storage backend, bring the schema up to date,
seed demo accounts on first run, and serve dashboard clients over
WebSocket.

Connected clients receive <entity>:<action> events for every mutation
plus a periodic aggregate stats snapshot as a backstop.

Example usage:
  vd serve                           # sqlite, zero configuration
  VD_BACKEND=postgresql \
  VD_POSTGRES_DSN=postgres://... vd serve

Connect a dashboard:
  ws://localhost:8090/ws`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.DashboardPort = port
		}

		logger := newLogger(cfg, "[vd] ")

		st, err := store.Open(cfg.StoreConfig(), logger)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()
		if err := st.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("schema setup failed: %w", err)
		}

		if cfg.SeedDemo {
			if err := st.SeedAccounts(ctx, store.DefaultSeedAccounts, cfg.BcryptCost); err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}
		}

		hub := notify.NewHub(logger)
		defer hub.Close()

		server := dashboard.NewServer(&dashboard.Config{
			Port:          cfg.DashboardPort,
			StatsInterval: cfg.StatsInterval,
			Logger:        logger,
		}, hub, st)

		if err := server.Start(); err != nil {
			return fmt.Errorf("failed to start dashboard: %w", err)
		}

		fmt.Printf("voltdesk running (backend: %s)\n", st.Type())
		fmt.Printf("WebSocket endpoint: ws://localhost:%d/ws\n", cfg.DashboardPort)
		fmt.Printf("Health check: http://localhost:%d/health\n", cfg.DashboardPort)
		fmt.Println("\nPress Ctrl+C to stop...")

		sigCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		<-sigCtx.Done()

		fmt.Println("\nShutting down...")
		if err := server.Stop(); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "dashboard port (overrides config)")
}
