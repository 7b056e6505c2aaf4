package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voltdesk/voltdesk/internal/store"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Show the active backend and table row counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger := newLogger(cfg, "[db] ")

		st, err := store.Open(cfg.StoreConfig(), logger)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()
		fmt.Printf("Backend: %s\n", st.Type())
		for _, table := range store.TableNames() {
			fmt.Printf("  %-12s %d rows\n", table, st.CountRows(ctx, table))
		}
		return nil
	},
}
