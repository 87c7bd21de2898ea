package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/bluberry/internal/config"
	"github.com/donaldgifford/bluberry/internal/store"
	"github.com/donaldgifford/bluberry/pkg/logger"
)

func migrateCmd() *cobra.Command {
	var status bool

	c := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Example: `  bluberry migrate --config config.yaml
  bluberry migrate --status`,
		RunE: func(c *cobra.Command, _ []string) error {
			return runMigrate(c, status)
		},
	}
	c.Flags().BoolVar(&status, "status", false, "list applied migrations without running any")
	return c
}

func runMigrate(c *cobra.Command, status bool) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if !cfg.Database.Enabled() {
		return fmt.Errorf("database.host is not set in %s", cfgFile)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pg, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pg.Close()

	if status {
		applied, err := pg.AppliedMigrations(ctx)
		if err != nil {
			return fmt.Errorf("listing migrations: %w", err)
		}
		for _, v := range applied {
			fmt.Fprintln(c.OutOrStdout(), v)
		}
		return nil
	}

	log.Info("running migrations", "host", cfg.Database.Host)

	applied, err := pg.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	log.Info("migrations complete", "applied", len(applied))
	return nil
}
