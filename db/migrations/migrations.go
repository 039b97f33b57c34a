// Package migrations embeds the goose SQL migrations for each supported
// database dialect.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

const TableName = "schema_migrations"

// dialects maps the configured database driver to goose's dialect name and
// the embedded directory holding its migrations.
var dialects = map[string]string{
	"sqlite":   "sqlite3",
	"postgres": "postgres",
}

func setup(driver string) (string, error) {
	dialect, ok := dialects[driver]
	if !ok {
		return "", fmt.Errorf("no migrations for driver %q", driver)
	}
	goose.SetBaseFS(FS)
	goose.SetTableName(TableName)
	if err := goose.SetDialect(dialect); err != nil {
		return "", err
	}
	return driver, nil
}

func Up(ctx context.Context, db *sql.DB, driver string) error {
	dir, err := setup(driver)
	if err != nil {
		return err
	}
	return goose.UpContext(ctx, db, dir)
}

// Down rolls back the latest applied migration.
func Down(ctx context.Context, db *sql.DB, driver string) error {
	dir, err := setup(driver)
	if err != nil {
		return err
	}
	return goose.DownContext(ctx, db, dir)
}

func Status(ctx context.Context, db *sql.DB, driver string) error {
	dir, err := setup(driver)
	if err != nil {
		return err
	}
	return goose.StatusContext(ctx, db, dir)
}

func Version(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	if _, err := setup(driver); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, db)
}
