// internal/common/database/sqlite.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"studio-site/internal/common/config"

	_ "modernc.org/sqlite"
)

// SQLiteClient wraps a file-backed SQLite database used in lite mode.
type SQLiteClient struct {
	DB *sql.DB
}

// NewSQLite opens the database file, creating it if needed.
func NewSQLite(cfg config.SQLiteConfig) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite", cfg.Path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", cfg.Path, err)
	}
	// single writer; SQLite serializes anyway
	db.SetMaxOpenConns(1)

	return &SQLiteClient{DB: db}, nil
}

func (c *SQLiteClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *SQLiteClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
