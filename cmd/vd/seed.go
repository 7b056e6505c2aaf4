package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voltdesk/voltdesk/internal/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the schema and seed demo accounts",
	Long: `Bring the configured database up to the current schema and upsert
the demo accounts (admin, tech1, tech2) keyed by staff ID. Existing
accounts keep their passwords; only role, name and email are refreshed.

Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger := newLogger(cfg, "[seed] ")

		st, err := store.Open(cfg.StoreConfig(), logger)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()
		if err := st.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("schema setup failed: %w", err)
		}
		if err := st.SeedAccounts(ctx, store.DefaultSeedAccounts, cfg.BcryptCost); err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}

		fmt.Printf("Seeded %d accounts (backend: %s)\n", len(store.DefaultSeedAccounts), st.Type())
		return nil
	},
}
