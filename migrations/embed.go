// Package migrations embeds the SQL migration files so they can be applied
// through the goose provider API by tests, the API server, and the CLI.
// Postgres and SQLite keep separate trees because their column types differ.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql
var postgresFS embed.FS

//go:embed sqlite/*.sql
var sqliteFS embed.FS

// PostgresFS returns the Postgres migrations rooted at the directory holding the *.sql files.
func PostgresFS() fs.FS {
	return mustSub(postgresFS, "postgres")
}

// SQLiteFS returns the SQLite migrations rooted at the directory holding the *.sql files.
func SQLiteFS() fs.FS {
	return mustSub(sqliteFS, "sqlite")
}

// NewProvider builds a goose provider for dialect over db, picking the
// matching migration tree.
func NewProvider(dialect goose.Dialect, db *sql.DB) (*goose.Provider, error) {
	var fsys fs.FS
	switch dialect {
	case goose.DialectPostgres:
		fsys = PostgresFS()
	case goose.DialectSQLite3:
		fsys = SQLiteFS()
	default:
		return nil, fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}
	return goose.NewProvider(dialect, db, fsys)
}

// Up applies every pending migration and returns how many were applied.
func Up(ctx context.Context, dialect goose.Dialect, db *sql.DB) (int, error) {
	provider, err := NewProvider(dialect, db)
	if err != nil {
		return 0, fmt.Errorf("migrations.Up: create provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("migrations.Up: %w", err)
	}
	return len(results), nil
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic("migrations: " + err.Error())
	}
	return sub
}
