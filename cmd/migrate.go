package cmd

import (
	"context"
	"log"

	"github.com/frahmantamala/intern-attendance/db/migrations"
	"github.com/frahmantamala/intern-attendance/internal/core/common/database"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "apply the embedded sql migrations for the configured driver",
	}
	migrateRollback bool
	migrateStatus   bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.Flags().BoolVarP(&migrateStatus, "status", "s", false, "print the applied state of every migration")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	db, err := goose.OpenDBWithDriver(database.SQLDriverName(cfg.Database.Driver), cfg.Database.Source)
	if err != nil {
		log.Fatalf("goose: failed to open DB: %v\n", err)
	}
	defer db.Close()

	switch {
	case migrateStatus:
		err = migrations.Status(ctx, db, cfg.Database.Driver)
	case migrateRollback:
		err = migrations.Down(ctx, db, cfg.Database.Driver)
	default:
		err = migrations.Up(ctx, db, cfg.Database.Driver)
	}
	if err != nil {
		log.Fatalf("goose: %v", err)
	}

	version, err := migrations.Version(ctx, db, cfg.Database.Driver)
	if err != nil {
		log.Fatalf("goose version: %v", err)
	}
	log.Printf("database at migration version %d", version)
	return nil
}
