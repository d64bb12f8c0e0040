package schema

import (
	"fmt"
	"slices"
	"strings"
)

// DriftKind classifies a difference between an expected and an actual schema.
type DriftKind string

const (
	MissingTable      DriftKind = "missing_table"
	ExtraTable        DriftKind = "extra_table"
	MissingColumn     DriftKind = "missing_column"
	ExtraColumn       DriftKind = "extra_column"
	TypeMismatch      DriftKind = "type_mismatch"
	NullMismatch      DriftKind = "null_mismatch"
	UniqueMismatch    DriftKind = "unique_mismatch"
	MissingForeignKey DriftKind = "missing_foreign_key"
	MissingUnique     DriftKind = "missing_unique"
	MissingTrigger    DriftKind = "missing_trigger"
)

// Drift is one difference found by Diff.
type Drift struct {
	Kind   DriftKind
	Table  string
	Column string
	Detail string
}

func (d Drift) String() string {
	var b strings.Builder
	b.WriteString(string(d.Kind))
	b.WriteString(" ")
	b.WriteString(d.Table)
	if d.Column != "" {
		b.WriteString(".")
		b.WriteString(d.Column)
	}
	if d.Detail != "" {
		b.WriteString(": ")
		b.WriteString(d.Detail)
	}
	return b.String()
}

// DiffOptions selects the dialect-dependent checks of Diff. Names, foreign
// keys and composite uniques are always compared.
type DiffOptions struct {
	// Types compares column type names case-insensitively.
	Types bool
	// Triggers requires every expected trigger to exist by name.
	Triggers bool
}

// Diff reports how actual differs from expected. Tables are reported in
// expected order, followed by tables only present in actual.
func Diff(expected, actual *Schema, opts DiffOptions) []Drift {
	var drifts []Drift

	for i := range expected.Tables {
		want := &expected.Tables[i]
		got, ok := actual.FindTable(want.Name)
		if !ok {
			drifts = append(drifts, Drift{Kind: MissingTable, Table: want.Name})
			continue
		}
		drifts = append(drifts, diffTable(want, got, opts)...)
	}

	for _, t := range actual.Tables {
		if _, ok := expected.FindTable(t.Name); !ok {
			drifts = append(drifts, Drift{Kind: ExtraTable, Table: t.Name})
		}
	}

	return drifts
}

func diffTable(want, got *Table, opts DiffOptions) []Drift {
	var drifts []Drift

	for _, wc := range want.Columns {
		gc, ok := got.FindColumn(wc.Name)
		if !ok {
			drifts = append(drifts, Drift{Kind: MissingColumn, Table: want.Name, Column: wc.Name})
			continue
		}
		if opts.Types && !strings.EqualFold(wc.Type, gc.Type) {
			drifts = append(drifts, Drift{
				Kind: TypeMismatch, Table: want.Name, Column: wc.Name,
				Detail: fmt.Sprintf("want %s, got %s", wc.Type, gc.Type),
			})
		}
		// Primary keys are implicitly NOT NULL in some dialects only.
		if !wc.PrimaryKey && wc.NotNull != gc.NotNull {
			drifts = append(drifts, Drift{
				Kind: NullMismatch, Table: want.Name, Column: wc.Name,
				Detail: fmt.Sprintf("want not null %t, got %t", wc.NotNull, gc.NotNull),
			})
		}
		if wc.IsUnique != gc.IsUnique {
			drifts = append(drifts, Drift{
				Kind: UniqueMismatch, Table: want.Name, Column: wc.Name,
				Detail: fmt.Sprintf("want unique %t, got %t", wc.IsUnique, gc.IsUnique),
			})
		}
	}

	for _, gc := range got.Columns {
		if _, ok := want.FindColumn(gc.Name); !ok {
			drifts = append(drifts, Drift{Kind: ExtraColumn, Table: want.Name, Column: gc.Name})
		}
	}

	for _, fk := range want.ForeignKeys {
		found := slices.ContainsFunc(got.ForeignKeys, func(o ForeignKey) bool {
			return o.SourceColumn == fk.SourceColumn && o.TargetTable == fk.TargetTable
		})
		if !found {
			drifts = append(drifts, Drift{
				Kind: MissingForeignKey, Table: want.Name, Column: fk.SourceColumn,
				Detail: "references " + fk.TargetTable,
			})
		}
	}

	for _, u := range want.Uniques {
		found := slices.ContainsFunc(got.Uniques, func(o Unique) bool {
			return slices.Equal(o.Columns, u.Columns)
		})
		if !found {
			drifts = append(drifts, Drift{
				Kind: MissingUnique, Table: want.Name,
				Detail: strings.Join(u.Columns, ", "),
			})
		}
	}

	if opts.Triggers {
		for _, tr := range want.Triggers {
			found := slices.ContainsFunc(got.Triggers, func(o Trigger) bool {
				return o.Name == tr.Name
			})
			if !found {
				drifts = append(drifts, Drift{Kind: MissingTrigger, Table: want.Name, Detail: tr.Name})
			}
		}
	}

	return drifts
}
