package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteDSN builds the connection string used for the ledger database.
// Write transactions take the database lock at BEGIN so concurrent
// writers queue up instead of failing on upgrade.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
}

// NewSQLiteDB opens (creating if needed) the SQLite database at path.
func NewSQLiteDB(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", SQLiteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection serialises writers and keeps pragmas in effect.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.InfoContext(ctx, "Successfully opened SQLite database.", slog.String("path", path))
	return db, nil
}

// CloseSQLiteDB closes the SQLite handle.
func CloseSQLiteDB(db *sql.DB) {
	if db != nil {
		if err := db.Close(); err != nil {
			slog.Error("Error closing SQLite database", slog.String("error", err.Error()))
			return
		}
		slog.Info("SQLite database closed.")
	}
}
