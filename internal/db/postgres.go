package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// DefaultPostgresSchema is inspected when no schema is given.
const DefaultPostgresSchema = "public"

// PostgresClient manages the connection to PostgreSQL
type PostgresClient struct {
	conn *pgx.Conn
}

// NewPostgresClient creates a new PostgreSQL client
func NewPostgresClient(ctx context.Context, connString string) (*PostgresClient, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{conn: conn}, nil
}

// Inspector returns an inspector reading schemaName.
func (c *PostgresClient) Inspector(schemaName string) *PostgresInspector {
	return NewPostgresInspector(c.conn, schemaName)
}

// Close closes the database connection
func (c *PostgresClient) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}

// Conn returns the underlying connection
func (c *PostgresClient) Conn() *pgx.Conn {
	return c.conn
}
