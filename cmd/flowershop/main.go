package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Skotchmaster/flower_shop/internal/config"
	"github.com/Skotchmaster/flower_shop/internal/db"
	"github.com/Skotchmaster/flower_shop/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "flowershop",
		Short:         "Flower shop marketplace backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), migrateCmd(), seedCategoriesCmd())
	return root
}

// bootstrap loads config, installs the default logger and opens the database.
func bootstrap(ctx context.Context) (*config.Config, *slog.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, logger, gdb, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			_, logger, gdb, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			if err := db.Migrate(ctx, gdb); err != nil {
				return err
			}
			logger.Info("migrate_done")
			return nil
		},
	}
}

func seedCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-categories",
		Short: "Insert the default flower categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			_, logger, gdb, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			if err := db.Migrate(ctx, gdb); err != nil {
				return err
			}
			n, err := db.SeedCategories(ctx, gdb)
			if err != nil {
				return err
			}
			logger.Info("seed_categories_done", "inserted", n)
			return nil
		},
	}
}
