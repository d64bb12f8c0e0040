package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tordrt/tenantschema/internal/schema"
)

// PostgresInspector reads the schema of a PostgreSQL database
type PostgresInspector struct {
	conn   *pgx.Conn
	schema string
}

// NewPostgresInspector creates an inspector over one PostgreSQL schema
func NewPostgresInspector(conn *pgx.Conn, schemaName string) *PostgresInspector {
	if schemaName == "" {
		schemaName = DefaultPostgresSchema
	}
	return &PostgresInspector{conn: conn, schema: schemaName}
}

// Inspect returns the requested tables, or every base table of the schema
func (i *PostgresInspector) Inspect(ctx context.Context, tables []string) (*schema.Schema, error) {
	names, err := i.tableNames(ctx, tables)
	if err != nil {
		return nil, fmt.Errorf("failed to get table names: %w", err)
	}
	return inspectTables(ctx, names, i.inspectTable)
}

func (i *PostgresInspector) tableNames(ctx context.Context, requested []string) ([]string, error) {
	if len(requested) > 0 {
		return requested, nil
	}

	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`
	rows, err := i.conn.Query(ctx, query, i.schema)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (i *PostgresInspector) inspectTable(ctx context.Context, name string) (*schema.Table, error) {
	table := &schema.Table{Name: name}

	if err := i.inspectColumns(ctx, table); err != nil {
		return nil, fmt.Errorf("failed to inspect columns: %w", err)
	}

	pk, err := i.inspectPrimaryKey(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect primary key: %w", err)
	}
	table.PrimaryKey = pk
	for _, colName := range pk {
		if col, ok := table.FindColumn(colName); ok {
			col.PrimaryKey = true
		}
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

func (i *PostgresInspector) inspectColumns(ctx context.Context, table *schema.Table) error {
	query := `
		SELECT column_name, data_type, is_nullable, column_default, is_identity
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`

	rows, err := i.conn.Query(ctx, query, i.schema, table.Name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var col schema.Column
		var nullable, identity string
		var defaultVal *string

		if err := rows.Scan(&col.Name, &col.Type, &nullable, &defaultVal, &identity); err != nil {
			return err
		}

		col.NotNull = nullable == "NO"
		col.DefaultValue = defaultVal
		col.AutoIncrement = identity == "YES" || (defaultVal != nil && strings.HasPrefix(*defaultVal, "nextval("))
		table.Columns = append(table.Columns, col)
	}

	return rows.Err()
}

func (i *PostgresInspector) inspectPrimaryKey(ctx context.Context, tableName string) ([]string, error) {
	query := `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
			AND tc.table_name = kcu.table_name
		WHERE tc.table_schema = $1
			AND tc.table_name = $2
			AND tc.constraint_type = 'PRIMARY KEY'
		ORDER BY kcu.ordinal_position
	`

	rows, err := i.conn.Query(ctx, query, i.schema, tableName)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (i *PostgresInspector) inspectUniques(ctx context.Context, tableName string) ([][]string, error) {
	query := `
		SELECT tc.constraint_name, kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
			AND tc.table_name = kcu.table_name
		WHERE tc.table_schema = $1
			AND tc.table_name = $2
			AND tc.constraint_type = 'UNIQUE'
		ORDER BY tc.constraint_name, kcu.ordinal_position
	`

	rows, err := i.conn.Query(ctx, query, i.schema, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uniques [][]string
	last := ""
	for rows.Next() {
		var constraint, column string
		if err := rows.Scan(&constraint, &column); err != nil {
			return nil, err
		}
		if constraint != last || len(uniques) == 0 {
			uniques = append(uniques, nil)
			last = constraint
		}
		uniques[len(uniques)-1] = append(uniques[len(uniques)-1], column)
	}

	return uniques, rows.Err()
}

func (i *PostgresInspector) inspectForeignKeys(ctx context.Context, tableName string) ([]schema.ForeignKey, error) {
	query := `
		SELECT
			kcu.column_name,
			ccu.table_name AS foreign_table_name,
			ccu.column_name AS foreign_column_name,
			rc.delete_rule
		FROM information_schema.table_constraints AS tc
		JOIN information_schema.key_column_usage AS kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage AS ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		JOIN information_schema.referential_constraints AS rc
			ON rc.constraint_name = tc.constraint_name
			AND rc.constraint_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
			AND tc.table_schema = $1
			AND tc.table_name = $2
		ORDER BY kcu.ordinal_position
	`

	rows, err := i.conn.Query(ctx, query, i.schema, tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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

func (i *PostgresInspector) inspectTriggers(ctx context.Context, tableName string) ([]schema.Trigger, error) {
	query := `
		SELECT DISTINCT trigger_name
		FROM information_schema.triggers
		WHERE event_object_schema = $1 AND event_object_table = $2
		ORDER BY trigger_name
	`

	rows, err := i.conn.Query(ctx, query, i.schema, tableName)
	if err != nil {
		return nil, err
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}

	triggers := make([]schema.Trigger, 0, len(names))
	for _, name := range names {
		triggers = append(triggers, schema.Trigger{Name: name, Table: tableName})
	}
	return triggers, nil
}
