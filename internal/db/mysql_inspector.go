package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tordrt/tenantschema/internal/schema"
)

// MySQLInspector reads the schema of a MySQL database
type MySQLInspector struct {
	db         *sql.DB
	schemaName string
}

// NewMySQLInspector creates an inspector over one MySQL database
func NewMySQLInspector(db *sql.DB, schemaName string) *MySQLInspector {
	return &MySQLInspector{db: db, schemaName: schemaName}
}

// Inspect returns the requested tables, or every base table of the database
func (i *MySQLInspector) Inspect(ctx context.Context, tables []string) (*schema.Schema, error) {
	if i.schemaName == "" {
		return nil, fmt.Errorf("database name is required (set it in the DSN or the schema option)")
	}

	names, err := i.tableNames(ctx, tables)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}
	return inspectTables(ctx, names, i.inspectTable)
}

func (i *MySQLInspector) tableNames(ctx context.Context, requested []string) ([]string, error) {
	if len(requested) > 0 {
		return requested, nil
	}

	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`
	return queryStrings(ctx, i.db, query, i.schemaName)
}

func (i *MySQLInspector) inspectTable(ctx context.Context, name string) (*schema.Table, error) {
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

func (i *MySQLInspector) inspectColumns(ctx context.Context, table *schema.Table) error {
	query := `
		SELECT column_name, column_type, is_nullable, column_default, column_key, extra
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position
	`

	rows, err := i.db.QueryContext(ctx, query, i.schemaName, table.Name)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var col schema.Column
		var nullable, key, extra string
		var defaultVal sql.NullString

		if err := rows.Scan(&col.Name, &col.Type, &nullable, &defaultVal, &key, &extra); err != nil {
			return err
		}

		col.NotNull = nullable == "NO"
		col.PrimaryKey = key == "PRI"
		col.AutoIncrement = strings.Contains(strings.ToLower(extra), "auto_increment")
		if defaultVal.Valid {
			col.DefaultValue = &defaultVal.String
		}
		if col.PrimaryKey {
			table.PrimaryKey = append(table.PrimaryKey, col.Name)
		}
		table.Columns = append(table.Columns, col)
	}

	return rows.Err()
}

func (i *MySQLInspector) inspectUniques(ctx context.Context, tableName string) ([][]string, error) {
	query := `
		SELECT GROUP_CONCAT(s.column_name ORDER BY s.seq_in_index) AS column_names
		FROM information_schema.statistics s
		WHERE s.table_schema = ?
			AND s.table_name = ?
			AND s.index_name != 'PRIMARY'
			AND s.non_unique = 0
		GROUP BY s.index_name
		ORDER BY s.index_name
	`

	lists, err := queryStrings(ctx, i.db, query, i.schemaName, tableName)
	if err != nil {
		return nil, err
	}

	uniques := make([][]string, 0, len(lists))
	for _, list := range lists {
		uniques = append(uniques, strings.Split(list, ","))
	}
	return uniques, nil
}

func (i *MySQLInspector) inspectForeignKeys(ctx context.Context, tableName string) ([]schema.ForeignKey, error) {
	query := `
		SELECT
			kcu.column_name,
			kcu.referenced_table_name,
			kcu.referenced_column_name,
			rc.delete_rule
		FROM information_schema.key_column_usage kcu
		JOIN information_schema.referential_constraints rc
			ON rc.constraint_schema = kcu.table_schema
			AND rc.constraint_name = kcu.constraint_name
		WHERE kcu.table_schema = ?
			AND kcu.table_name = ?
			AND kcu.referenced_table_name IS NOT NULL
		ORDER BY kcu.ordinal_position
	`

	rows, err := i.db.QueryContext(ctx, query, i.schemaName, tableName)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var fks []schema.ForeignKey
	for rows.Next() {
		var fk schema.ForeignKey
		var deleteRule string
		if err := rows.Scan(&fk.SourceColumn, &fk.TargetTable, &fk.TargetColumn, &deleteRule); err != nil {
			return nil, err
		}
		fk.OnDeleteCascade = deleteRule == "CASCADE"
		fks = append(fks, fk)
	}

	return fks, rows.Err()
}

func (i *MySQLInspector) inspectTriggers(ctx context.Context, tableName string) ([]schema.Trigger, error) {
	query := `
		SELECT trigger_name
		FROM information_schema.triggers
		WHERE event_object_schema = ? AND event_object_table = ?
		ORDER BY trigger_name
	`

	names, err := queryStrings(ctx, i.db, query, i.schemaName, tableName)
	if err != nil {
		return nil, err
	}

	triggers := make([]schema.Trigger, 0, len(names))
	for _, name := range names {
		triggers = append(triggers, schema.Trigger{Name: name, Table: tableName})
	}
	return triggers, nil
}
