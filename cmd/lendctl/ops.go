package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"microlend-engine/internal/adapter/repository/mysql"
	"microlend-engine/internal/app"
	"microlend-engine/internal/config"
	"microlend-engine/internal/infrastructure/db"
	"microlend-engine/internal/infrastructure/logging"
)

// openApp loads configuration from the environment; logs go to stderr so
// stdout stays machine readable.
func openApp() (*app.App, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return app.New(cfg, logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr))
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the engine's tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			gdb, err := db.Open(cfg.DBDriver, cfg.DSN())
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if sqlDB, err := gdb.DB(); err == nil {
				defer sqlDB.Close()
			}
			if err := mysql.AutoMigrate(gdb); err != nil {
				return fmt.Errorf("auto-migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %d tables on %s\n", len(mysql.Models()), cfg.DBDriver)
			return nil
		},
	}
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Escalate lateness flags and default loans unpaid past 60 days",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			res, err := a.Risk.Sweep(cmdContext(cmd))
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
}

func scoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score [borrower-id]",
		Short: "Recompute and print a borrower's credit score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			dto, err := a.Scoring.Get(cmdContext(cmd), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, dto)
		},
	}
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
