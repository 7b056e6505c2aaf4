// Command vd runs the voltdesk maintenance-portal persistence core:
// schema setup, demo seeding, and the real-time dashboard server.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/voltdesk/voltdesk/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "vd",
	Short: "voltdesk electrical-maintenance portal backend",
	Long: `voltdesk manages the persistence and real-time sync core of the
electrical-maintenance portal: staff reports, inventory, toolbox safety
forms, tasks, settings and login logs, stored in SQLite or PostgreSQL
and broadcast to dashboards over WebSocket.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ./voltdesk.yaml)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(dbCmd)
}

// loadConfig reads configuration for a subcommand run.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// newLogger routes logs to a rotating file when configured, stderr
// otherwise.
func newLogger(cfg *config.Config, prefix string) *log.Logger {
	if cfg.LogFile == "" {
		return log.New(os.Stderr, prefix, log.LstdFlags)
	}
	return log.New(&lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    20, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
	}, prefix, log.LstdFlags)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
