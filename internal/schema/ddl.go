// Package schema is the relational representation shared by the DDL
// generator, the database inspectors and the documentation formatters.
package schema

import (
	"fmt"
	"strings"
)

// Implicit columns of every entity table.
const (
	BaseID           = "id"
	CreatedAt        = "created_at"
	UpdatedAt        = "updated_at"
	CurrentTimestamp = "CURRENT_TIMESTAMP"
)

// NewColumn creates a nullable column of the given storage type.
func NewColumn(name string, t Type) Column {
	return Column{Name: name, Type: t.String()}
}

// NewBaseTable creates a table holding the surrogate key and the two audit columns.
func NewBaseTable(name string) Table {
	now := CurrentTimestamp
	return Table{
		Name: name,
		Columns: []Column{
			{
				Name:          BaseID,
				Type:          Integer.String(),
				PrimaryKey:    true,
				AutoIncrement: true,
			},
			{
				Name:         CreatedAt,
				Type:         DateTime.String(),
				DefaultValue: &now,
				NotNull:      true,
			},
			{
				Name:         UpdatedAt,
				Type:         DateTime.String(),
				DefaultValue: &now,
				NotNull:      true,
			},
		},
		PrimaryKey: []string{BaseID},
	}
}

// NewUpdateTrigger creates the trigger refreshing updated_at on table.
func NewUpdateTrigger(table string) Trigger {
	return Trigger{
		Name:      table + "_" + UpdatedAt,
		Table:     table,
		Column:    UpdatedAt,
		KeyColumn: BaseID,
		Value:     CurrentTimestamp,
	}
}

// ForeignKeyColumn returns the column name referencing the table of singular.
func ForeignKeyColumn(singular string) string {
	return singular + "_" + BaseID
}

// DDL renders the column definition.
func (c Column) DDL() string {
	parts := []string{c.Name, c.Type}
	if c.PrimaryKey {
		parts = append(parts, "PRIMARY KEY")
	}
	if c.AutoIncrement {
		parts = append(parts, "AUTOINCREMENT")
	}
	if c.IsUnique {
		parts = append(parts, "UNIQUE")
	}
	if c.DefaultValue != nil {
		if *c.DefaultValue == "" {
			parts = append(parts, "DEFAULT")
		} else {
			parts = append(parts, "DEFAULT "+*c.DefaultValue)
		}
	}
	if c.NotNull {
		parts = append(parts, "NOT NULL")
	}
	return strings.Join(parts, " ")
}

// DDL renders the table-level foreign key clause.
func (fk ForeignKey) DDL() string {
	onDelete := ""
	if fk.OnDeleteCascade {
		onDelete = " ON DELETE CASCADE"
	}
	return fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)%s",
		fk.SourceColumn, fk.TargetTable, fk.TargetColumn, onDelete)
}

// DDL renders the table-level unique clause.
func (u Unique) DDL() string {
	return fmt.Sprintf("UNIQUE (%s)", strings.Join(u.Columns, ", "))
}

// DDL renders the CREATE TABLE statement. Triggers are not included.
func (t Table) DDL() string {
	defs := make([]string, 0, len(t.Columns)+len(t.ForeignKeys)+len(t.Uniques))
	for _, c := range t.Columns {
		defs = append(defs, c.DDL())
	}
	for _, fk := range t.ForeignKeys {
		defs = append(defs, fk.DDL())
	}
	for _, u := range t.Uniques {
		defs = append(defs, u.DDL())
	}
	return fmt.Sprintf("CREATE TABLE %s(%s);", t.Name, strings.Join(defs, ", "))
}

// DDL renders the CREATE TRIGGER statement. The WHEN guard keeps the
// trigger from firing again on its own update.
func (tr Trigger) DDL() string {
	return fmt.Sprintf(
		"CREATE TRIGGER %s AFTER UPDATE ON %s WHEN old.%s < %s BEGIN UPDATE %s SET %s = %s WHERE %s = old.%s; END;",
		tr.Name, tr.Table, tr.Column, tr.Value, tr.Table, tr.Column, tr.Value, tr.KeyColumn, tr.KeyColumn)
}

// Statements renders every table followed by its triggers, in table order.
func (s *Schema) Statements() []string {
	var stmts []string
	for _, t := range s.Tables {
		stmts = append(stmts, t.DDL())
		for _, tr := range t.Triggers {
			stmts = append(stmts, tr.DDL())
		}
	}
	return stmts
}
