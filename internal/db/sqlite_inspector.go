package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tordrt/tenantschema/internal/schema"
)

// SQLiteInspector reads the schema of a SQLite database
type SQLiteInspector struct {
	db *sql.DB
}

// NewSQLiteInspector creates an inspector over db
func NewSQLiteInspector(db *sql.DB) *SQLiteInspector {
	return &SQLiteInspector{db: db}
}

// Inspect returns the requested tables, or every user table by name
func (i *SQLiteInspector) Inspect(ctx context.Context, tables []string) (*schema.Schema, error) {
	names, err := i.tableNames(ctx, tables)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}
	return inspectTables(ctx, names, i.inspectTable)
}

func (i *SQLiteInspector) tableNames(ctx context.Context, requested []string) ([]string, error) {
	if len(requested) > 0 {
		return requested, nil
	}

	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`
	return queryStrings(ctx, i.db, query)
}

func (i *SQLiteInspector) inspectTable(ctx context.Context, name string) (*schema.Table, error) {
	table := &schema.Table{Name: name}

	if err := i.inspectColumns(ctx, table); err != nil {
		return nil, fmt.Errorf("failed to inspect columns: %w", err)
	}

	uniques, err := i.inspectUniques(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect unique constraints: %w", err)
	}
	splitUniques(table, uniques)

	if table.ForeignKeys, err = i.inspectForeignKeys(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to inspect foreign keys: %w", err)
	}

	if table.Triggers, err = i.inspectTriggers(ctx, name); err != nil {
		return nil, fmt.Errorf("failed to inspect triggers: %w", err)
	}

	return table, nil
}

func (i *SQLiteInspector) inspectColumns(ctx context.Context, table *schema.Table) error {
	rows, err := i.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table.Name)))
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var cid, notNull, pk int
		var name, colType string
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return err
		}

		col := schema.Column{
			Name:       name,
			Type:       colType,
			NotNull:    notNull == 1,
			PrimaryKey: pk > 0,
		}
		if defaultValue.Valid {
			col.DefaultValue = &defaultValue.String
		}
		if col.PrimaryKey {
			table.PrimaryKey = append(table.PrimaryKey, name)
		}
		table.Columns = append(table.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	// AUTOINCREMENT is only visible in the stored CREATE statement.
	if len(table.PrimaryKey) == 1 {
		var ddl sql.NullString
		query := `SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?`
		if err := i.db.QueryRowContext(ctx, query, table.Name).Scan(&ddl); err != nil {
			return err
		}
		if strings.Contains(strings.ToUpper(ddl.String), "AUTOINCREMENT") {
			col, _ := table.FindColumn(table.PrimaryKey[0])
			col.AutoIncrement = true
		}
	}
	return nil
}

// inspectUniques returns the columns of every unique index that is not
// the primary key.
func (i *SQLiteInspector) inspectUniques(ctx context.Context, tableName string) ([][]string, error) {
	rows, err := i.db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_list(%s)", quoteIdent(tableName)))
	if err != nil {
		return nil, err
	}

	var indexes []string
	for rows.Next() {
		var seq, unique, partial int
		var name, origin string

		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			_ = rows.Close()
			return nil, err
		}
		if unique == 1 && origin != "pk" {
			indexes = append(indexes, name)
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	// The connection must be free before the next PRAGMA runs.
	_ = rows.Close()

	// index_list reports the newest index first.
	uniques := make([][]string, 0, len(indexes))
	for n := len(indexes) - 1; n >= 0; n-- {
		cols, err := i.indexColumns(ctx, indexes[n])
		if err != nil {
			return nil, err
		}
		if len(cols) > 0 {
			uniques = append(uniques, cols)
		}
	}
	return uniques, nil
}

func (i *SQLiteInspector) indexColumns(ctx context.Context, index string) ([]string, error) {
	rows, err := i.db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_info(%s)", quoteIdent(index)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var cols []string
	for rows.Next() {
		var seqno, cid int
		var name sql.NullString

		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, err
		}
		if name.Valid {
			cols = append(cols, name.String)
		}
	}
	return cols, rows.Err()
}

func (i *SQLiteInspector) inspectForeignKeys(ctx context.Context, tableName string) ([]schema.ForeignKey, error) {
	rows, err := i.db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteIdent(tableName)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var fks []schema.ForeignKey
	for rows.Next() {
		var id, seq int
		var targetTable, fromCol, onUpdate, onDelete, match string
		var toCol sql.NullString

		if err := rows.Scan(&id, &seq, &targetTable, &fromCol, &toCol, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}

		fk := schema.ForeignKey{
			SourceColumn:    fromCol,
			TargetTable:     targetTable,
			TargetColumn:    toCol.String,
			OnDeleteCascade: strings.EqualFold(onDelete, "CASCADE"),
		}
		if !toCol.Valid {
			fk.TargetColumn = schema.BaseID
		}
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}

func (i *SQLiteInspector) inspectTriggers(ctx context.Context, tableName string) ([]schema.Trigger, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'trigger' AND tbl_name = ?
		ORDER BY name
	`
	names, err := queryStrings(ctx, i.db, query, tableName)
	if err != nil {
		return nil, err
	}

	triggers := make([]schema.Trigger, 0, len(names))
	for _, name := range names {
		triggers = append(triggers, schema.Trigger{Name: name, Table: tableName})
	}
	return triggers, nil
}

// queryStrings runs a query returning a single string column.
func queryStrings(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
