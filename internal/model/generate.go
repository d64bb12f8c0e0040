package model

import (
	"github.com/tordrt/tenantschema/internal/jsonschema"
	"github.com/tordrt/tenantschema/internal/schema"
)

// StorageSchema returns the relational schema of the model: entity tables
// in declaration order, then one join table per ManyToMany relation.
func (m *Model) StorageSchema() *schema.Schema {
	s := &schema.Schema{Tables: make([]schema.Table, 0, len(m.entities)+len(m.relations))}
	for _, e := range m.entities {
		s.Tables = append(s.Tables, m.entityTable(e))
	}
	for _, r := range m.relations {
		if r.Cardinality == ManyToMany {
			s.Tables = append(s.Tables, m.joinTable(r))
		}
	}
	return s
}

// GenerateSQL returns the DDL statements creating the model, each table
// followed by its trigger.
func (m *Model) GenerateSQL() []string {
	return m.StorageSchema().Statements()
}

// JSONSchemas returns one document per entity, then one per relation.
func (m *Model) JSONSchemas() ([]*jsonschema.Document, error) {
	docs := make([]*jsonschema.Document, 0, len(m.entities)+len(m.relations))
	for _, e := range m.entities {
		doc, err := e.JSONSchema()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	for _, r := range m.relations {
		doc, err := r.JSONSchema()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (m *Model) entityTable(e Entity) schema.Table {
	t := e.StorageTable()
	for _, r := range m.relations {
		if !r.IsDestination(e.URN, OneToMany) {
			continue
		}
		addReference(&t, m.entity(r.Origin))
	}
	for _, uc := range e.UniqueConstraints {
		t.Uniques = append(t.Uniques, schema.Unique{Columns: m.constraintColumns(uc)})
	}
	t.Triggers = []schema.Trigger{e.UpdateTrigger()}
	return t
}

func (m *Model) joinTable(r Relation) schema.Table {
	t := schema.Table{Name: m.joinTableName(r), Comment: r.Name}
	addReference(&t, m.entity(r.Origin))
	addReference(&t, m.entity(r.Destination))
	for _, a := range r.Attributes {
		t.Columns = append(t.Columns, a.Column())
	}
	return t
}

func (m *Model) joinTableName(r Relation) string {
	return m.entity(r.Origin).Singular + "_" + m.entity(r.Destination).Plural
}

// constraintColumns expands a unique constraint: attribute ids, then the
// foreign key column of each relation.
func (m *Model) constraintColumns(uc UniqueConstraint) []string {
	cols := make([]string, 0, len(uc.Attributes)+len(uc.Relations))
	cols = append(cols, uc.Attributes...)
	for _, ru := range uc.Relations {
		r := m.relations[m.relByURN[ru]]
		cols = append(cols, schema.ForeignKeyColumn(m.entity(r.Origin).Singular))
	}
	return cols
}

// addReference appends a required column and a cascading foreign key
// pointing at target.
func addReference(t *schema.Table, target *Entity) {
	col := schema.ForeignKeyColumn(target.Singular)
	t.Columns = append(t.Columns, schema.Column{Name: col, Type: schema.Integer.String(), NotNull: true})
	t.ForeignKeys = append(t.ForeignKeys, schema.ForeignKey{
		SourceColumn:    col,
		TargetTable:     target.Plural,
		TargetColumn:    schema.BaseID,
		OnDeleteCascade: true,
	})
}
