package schema

import "fmt"

// Schema represents a complete relational schema
type Schema struct {
	Tables []Table
}

// Table represents a database table
type Table struct {
	Name        string
	Comment     string
	Columns     []Column
	ForeignKeys []ForeignKey
	Uniques     []Unique
	Triggers    []Trigger
	PrimaryKey  []string
}

// Column represents a table column
type Column struct {
	Name          string
	Type          string
	NotNull       bool
	DefaultValue  *string
	IsUnique      bool
	PrimaryKey    bool
	AutoIncrement bool
}

// ForeignKey represents a column referencing another table
type ForeignKey struct {
	SourceColumn    string
	TargetTable     string
	TargetColumn    string
	OnDeleteCascade bool
}

// Unique represents a table-level uniqueness constraint
type Unique struct {
	Columns []string
}

// Trigger keeps Column refreshed to Value whenever a row of Table is updated.
type Trigger struct {
	Name      string
	Table     string
	Column    string
	KeyColumn string
	Value     string
}

// Type is a storage type of the target grammar.
type Type int

const (
	Integer Type = iota
	Real
	Text
	Boolean
	DateTime
)

func (t Type) String() string {
	switch t {
	case Integer:
		return "INTEGER"
	case Real:
		return "REAL"
	case Text:
		return "TEXT"
	case Boolean:
		return "BOOLEAN"
	case DateTime:
		return "DATETIME"
	}
	panic(fmt.Sprintf("schema: unknown storage type %d", int(t)))
}

// FindTable returns the table with the given name.
func (s *Schema) FindTable(name string) (*Table, bool) {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i], true
		}
	}
	return nil, false
}

// FindColumn returns the column with the given name.
func (t *Table) FindColumn(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}
