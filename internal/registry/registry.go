// Package registry keeps an audit trail of deployments and runs in a local
// sqlite database. It is bookkeeping only: mount resolution never consults
// it, the mapping file in the working directory stays authoritative.
package registry

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed migration/*.sql
var migrationFiles embed.FS

// Open opens (creating if necessary) the registry database at path and
// applies the schema.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create registry dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open registry db: %w", err)
	}

	if err := InitSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// InitSchema applies the embedded migration to the database.
func InitSchema(ctx context.Context, db *sql.DB) error {
	schema, err := migrationFiles.ReadFile("migration/001_initial.sql")
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}

	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("apply registry schema: %w", err)
	}
	return nil
}
