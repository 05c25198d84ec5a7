package cmd

import (
	"context"
	"errors"
	"log"

	"github.com/frahmantamala/navguard/db"
	"github.com/frahmantamala/navguard/internal"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run db migration files under db/migrations directory",
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "", "sql migrations directory on disk (defaults to the embedded set)")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Storage.Driver == internal.StorageDriverRedis {
		return errors.New("migrate: the redis driver keeps no schema")
	}

	store, err := openStorage(cfg)
	if err != nil {
		log.Fatalf("goose: failed to open DB: %v\n", err)
	}
	defer store.Close()

	if err := goose.SetDialect(store.Dialect); err != nil {
		return err
	}
	goose.SetTableName("schema_migrations")

	dir := migrateDir
	if dir == "" {
		goose.SetBaseFS(db.Migrations)
		dir = "migrations"
	}

	command := "up"
	if migrateRollback {
		command = "down"
	}
	if err := goose.RunContext(ctx, command, store.SQL, dir); err != nil {
		log.Fatalf("goose %s: %v", command, err)
	}

	return nil
}
