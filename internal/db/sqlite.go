package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory SQLite database.
const MemoryPath = ":memory:"

// SQLiteClient manages the connection to SQLite
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient opens the database at path with foreign keys enforced.
// An empty path opens an in-memory database.
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	if path == "" {
		path = MemoryPath
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	db, err := sql.Open("sqlite3", path+sep+"_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every new connection to :memory: would see an empty database.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteClient{db: db}, nil
}

// Apply executes stmts in one transaction.
func (c *SQLiteClient) Apply(ctx context.Context, stmts []string) error {
	return Apply(ctx, c.db, stmts)
}

// Inspector returns an inspector reading this database.
func (c *SQLiteClient) Inspector() *SQLiteInspector {
	return NewSQLiteInspector(c.db)
}

// Close closes the database connection
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// DB returns the underlying database connection
func (c *SQLiteClient) DB() *sql.DB {
	return c.db
}
