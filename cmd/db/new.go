package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/garrettladley/passbridge/internal/config"
	"github.com/spf13/cobra"
)

const migrationsRoot = "internal/migrations"

func newMigrationCmd() *cobra.Command {
	var driver string

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a new numbered migration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			switch config.Driver(driver) {
			case config.DriverPostgres, config.DriverSQLite:
			default:
				return fmt.Errorf("unknown driver %q (valid: postgres, sqlite)", driver)
			}

			dir := filepath.Join(migrationsRoot, driver, "sql")
			entries, err := os.ReadDir(dir)
			if err != nil {
				return fmt.Errorf("failed to read migrations directory: %w", err)
			}

			nextNum := getNextMigrationNum(entries)
			filename := filepath.Join(dir, fmt.Sprintf("%06d_%s.sql", nextNum, name))

			if _, err := os.Stat(filename); err == nil {
				return fmt.Errorf("migration file already exists: %s", filename)
			}

			content := fmt.Sprintf("-- Migration: %s\n\n", name)
			if err := os.WriteFile(filename, []byte(content), 0o600); err != nil {
				return fmt.Errorf("failed to create migration file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created migration: %s\n", filename)
			return nil
		},
	}

	cmd.Flags().StringVar(&driver, "driver", string(config.DriverPostgres), "migration set to extend (postgres or sqlite)")
	return cmd
}

func getNextMigrationNum(entries []os.DirEntry) int {
	var nextNum int
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		prefix, _, _ := strings.Cut(entry.Name(), "_")
		var num int
		if _, err := fmt.Sscanf(prefix, "%d", &num); err != nil {
			continue
		}
		if num > nextNum {
			nextNum = num
		}
	}
	return nextNum + 1
}
