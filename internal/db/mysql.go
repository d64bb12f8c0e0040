package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// MySQLClient manages the connection to MySQL
type MySQLClient struct {
	db     *sql.DB
	dbName string
}

// NewMySQLClient creates a new MySQL client from a driver DSN
// (user:pass@tcp(host:port)/dbname).
func NewMySQLClient(ctx context.Context, dsn string) (*MySQLClient, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dsn: %w", err)
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &MySQLClient{db: db, dbName: cfg.DBName}, nil
}

// Inspector returns an inspector reading schemaName, or the database named
// in the DSN when schemaName is empty.
func (c *MySQLClient) Inspector(schemaName string) *MySQLInspector {
	if schemaName == "" {
		schemaName = c.dbName
	}
	return NewMySQLInspector(c.db, schemaName)
}

// Close closes the database connection
func (c *MySQLClient) Close() error {
	return c.db.Close()
}

// DB returns the underlying database connection
func (c *MySQLClient) DB() *sql.DB {
	return c.db
}
