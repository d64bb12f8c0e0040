// Package db connects to SQLite, PostgreSQL and MySQL databases, applies
// generated DDL and reads a live schema back into schema.Schema.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tordrt/tenantschema/internal/schema"
)

// Inspector reads the schema of a live database.
type Inspector interface {
	// Inspect returns the given tables, or every table when tables is empty.
	Inspect(ctx context.Context, tables []string) (*schema.Schema, error)
}

// Apply executes stmts in order inside one transaction. Nothing is
// committed unless every statement succeeds.
func Apply(ctx context.Context, db *sql.DB, stmts []string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for i, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to apply statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// inspectTables runs inspect for each table in order.
func inspectTables(ctx context.Context, names []string, inspect func(context.Context, string) (*schema.Table, error)) (*schema.Schema, error) {
	tables := make([]schema.Table, 0, len(names))
	for _, name := range names {
		table, err := inspect(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect table %s: %w", name, err)
		}
		tables = append(tables, *table)
	}
	return &schema.Schema{Tables: tables}, nil
}

// splitUniques moves single-column unique constraints onto their column
// and keeps the composite ones on the table.
func splitUniques(table *schema.Table, uniques [][]string) {
	for _, cols := range uniques {
		if len(cols) == 1 {
			if col, ok := table.FindColumn(cols[0]); ok {
				col.IsUnique = true
				continue
			}
		}
		table.Uniques = append(table.Uniques, schema.Unique{Columns: cols})
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
