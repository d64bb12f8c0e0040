package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func partsSchema() *Schema {
	parts := NewBaseTable("parts")
	label := NewColumn("label", Text)
	label.NotNull = true
	label.IsUnique = true
	parts.Columns = append(parts.Columns, label)
	parts.Triggers = []Trigger{NewUpdateTrigger("parts")}

	prices := NewBaseTable("prices")
	prices.Columns = append(prices.Columns, Column{Name: "part_id", Type: "INTEGER", NotNull: true})
	prices.ForeignKeys = []ForeignKey{{SourceColumn: "part_id", TargetTable: "parts", TargetColumn: BaseID, OnDeleteCascade: true}}
	prices.Uniques = []Unique{{Columns: []string{"part_id", "created_at"}}}

	return &Schema{Tables: []Table{parts, prices}}
}

func TestDiffIdentical(t *testing.T) {
	assert.Empty(t, Diff(partsSchema(), partsSchema(), DiffOptions{Types: true, Triggers: true}))
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Schema)
		opts   DiffOptions
		want   []Drift
	}{
		{
			name:   "missing table",
			mutate: func(s *Schema) { s.Tables = s.Tables[:1] },
			want:   []Drift{{Kind: MissingTable, Table: "prices"}},
		},
		{
			name:   "extra table",
			mutate: func(s *Schema) { s.Tables = append(s.Tables, Table{Name: "audit_log"}) },
			want:   []Drift{{Kind: ExtraTable, Table: "audit_log"}},
		},
		{
			name:   "missing and extra column",
			mutate: func(s *Schema) { s.Tables[0].Columns[3].Name = "title" },
			want: []Drift{
				{Kind: MissingColumn, Table: "parts", Column: "label"},
				{Kind: ExtraColumn, Table: "parts", Column: "title"},
			},
		},
		{
			name:   "type ignored without option",
			mutate: func(s *Schema) { s.Tables[0].Columns[3].Type = "character varying" },
		},
		{
			name:   "type compared case-insensitively",
			mutate: func(s *Schema) { s.Tables[0].Columns[3].Type = "text" },
			opts:   DiffOptions{Types: true},
		},
		{
			name:   "type mismatch",
			mutate: func(s *Schema) { s.Tables[0].Columns[3].Type = "VARCHAR" },
			opts:   DiffOptions{Types: true},
			want:   []Drift{{Kind: TypeMismatch, Table: "parts", Column: "label", Detail: "want TEXT, got VARCHAR"}},
		},
		{
			name:   "primary key nullability ignored",
			mutate: func(s *Schema) { s.Tables[0].Columns[0].NotNull = true },
		},
		{
			name:   "null mismatch",
			mutate: func(s *Schema) { s.Tables[0].Columns[3].NotNull = false },
			want:   []Drift{{Kind: NullMismatch, Table: "parts", Column: "label", Detail: "want not null true, got false"}},
		},
		{
			name:   "unique mismatch",
			mutate: func(s *Schema) { s.Tables[0].Columns[3].IsUnique = false },
			want:   []Drift{{Kind: UniqueMismatch, Table: "parts", Column: "label", Detail: "want unique true, got false"}},
		},
		{
			name:   "missing foreign key",
			mutate: func(s *Schema) { s.Tables[1].ForeignKeys = nil },
			want:   []Drift{{Kind: MissingForeignKey, Table: "prices", Column: "part_id", Detail: "references parts"}},
		},
		{
			name:   "composite unique column order matters",
			mutate: func(s *Schema) { s.Tables[1].Uniques[0].Columns = []string{"created_at", "part_id"} },
			want:   []Drift{{Kind: MissingUnique, Table: "prices", Detail: "part_id, created_at"}},
		},
		{
			name:   "triggers ignored without option",
			mutate: func(s *Schema) { s.Tables[0].Triggers = nil },
		},
		{
			name:   "missing trigger",
			mutate: func(s *Schema) { s.Tables[0].Triggers = nil },
			opts:   DiffOptions{Triggers: true},
			want:   []Drift{{Kind: MissingTrigger, Table: "parts", Detail: "parts_updated_at"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := partsSchema()
			tt.mutate(actual)
			assert.Equal(t, tt.want, Diff(partsSchema(), actual, tt.opts))
		})
	}
}

func TestDriftString(t *testing.T) {
	assert.Equal(t, "missing_table parts", Drift{Kind: MissingTable, Table: "parts"}.String())
	assert.Equal(t, "type_mismatch parts.label: want TEXT, got VARCHAR",
		Drift{Kind: TypeMismatch, Table: "parts", Column: "label", Detail: "want TEXT, got VARCHAR"}.String())
}
