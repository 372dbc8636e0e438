package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/garrettladley/passbridge/internal/config"
	"github.com/garrettladley/passbridge/internal/storage"
	"github.com/garrettladley/passbridge/internal/xslog"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations for the configured driver",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied successfully")
			return nil
		},
	}
}

// openStore reads DATABASE_* from the environment and opens the store,
// which applies migrations as a side effect.
func openStore(cmd *cobra.Command) (storage.CredentialStore, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if cfg.Database.Driver == config.DriverMemory {
		return nil, fmt.Errorf("DATABASE_DRIVER=memory has nothing to manage")
	}

	logger := xslog.NewLoggerFromEnv(os.Stderr)
	slog.SetDefault(logger)

	return storage.OpenCredentialStore(cmd.Context(), cfg.Database, logger)
}
