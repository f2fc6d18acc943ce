package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/org-portal/db"
	"github.com/frahmantamala/org-portal/internal"
	"github.com/frahmantamala/org-portal/internal/store/sqlstore"
	"github.com/frahmantamala/org-portal/pkg/logger"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the storage_items migrations against the sqlite or postgres backend",
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "", "sql migrations directory on disk; the embedded migrations are used when empty")
}

func runMigration(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	switch cfg.Storage.Driver {
	case internal.StorageSQLite, internal.StoragePostgres:
	default:
		lg.Info("storage driver has no schema, nothing to migrate", "driver", cfg.Storage.Driver)
		return nil
	}

	gdb, err := sqlstore.Open(sqlstore.Options{
		Driver:       cfg.Storage.Driver,
		Source:       cfg.Storage.Source,
		MaxOpenConns: cfg.Storage.MaxOpenConns,
		MaxIdleConns: cfg.Storage.MaxIdleConns,
	})
	if err != nil {
		return fmt.Errorf("goose: failed to open DB: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	dir := migrateDir
	if dir == "" {
		goose.SetBaseFS(db.Migrations)
		dir = "migrations"
	} else {
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("migrations dir %s: %w", dir, err)
		}
		goose.SetBaseFS(nil)
	}

	if err := goose.SetDialect(sqlstore.GooseDialect(cfg.Storage.Driver)); err != nil {
		return fmt.Errorf("goose: %w", err)
	}
	goose.SetTableName("schema_migrations")

	if migrateRollback {
		if err := goose.DownContext(ctx, sqlDB, dir); err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
		lg.Info("rolled back latest migration", "driver", cfg.Storage.Driver)
		return nil
	}

	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	lg.Info("migrations applied", "driver", cfg.Storage.Driver)
	return nil
}
