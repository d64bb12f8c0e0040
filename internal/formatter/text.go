package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/tenantschema/internal/schema"
)

// TextFormatter formats schema as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the schema in compact text format
func (f *TextFormatter) Format(s *schema.Schema) error {
	for i, table := range s.Tables {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer) // Blank line between tables
		}
		f.FormatTable(table)
	}
	return nil
}

// FormatTable writes a single table
func (f *TextFormatter) FormatTable(table schema.Table) {
	header := "TABLE " + table.Name
	if len(table.PrimaryKey) > 0 {
		header += fmt.Sprintf(" (PK: %s)", strings.Join(table.PrimaryKey, ", "))
	}
	if table.Comment != "" {
		header += " -- " + table.Comment
	}
	_, _ = fmt.Fprintln(f.writer, header)

	for _, col := range table.Columns {
		_, _ = fmt.Fprintf(f.writer, "  %s\n", formatColumn(col))
	}

	if len(table.ForeignKeys) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  REFERENCES:")
		for _, fk := range table.ForeignKeys {
			_, _ = fmt.Fprintf(f.writer, "    %s → %s.%s%s\n", fk.SourceColumn, fk.TargetTable, fk.TargetColumn, onDelete(fk))
		}
	}

	if len(table.Uniques) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  UNIQUE:")
		for _, u := range table.Uniques {
			_, _ = fmt.Fprintf(f.writer, "    (%s)\n", strings.Join(u.Columns, ", "))
		}
	}

	if len(table.Triggers) > 0 {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintln(f.writer, "  TRIGGERS:")
		for _, tr := range table.Triggers {
			_, _ = fmt.Fprintf(f.writer, "    %s: %s = %s on update\n", tr.Name, tr.Column, tr.Value)
		}
	}
}

func formatColumn(col schema.Column) string {
	parts := []string{col.Name + ":", col.Type}
	parts = append(parts, columnFlags(col)...)
	return strings.Join(parts, " ")
}

func columnFlags(col schema.Column) []string {
	var flags []string
	if col.PrimaryKey {
		flags = append(flags, "PK")
	}
	if col.AutoIncrement {
		flags = append(flags, "AUTOINCREMENT")
	}
	if col.IsUnique {
		flags = append(flags, "UNIQUE")
	}
	if col.NotNull {
		flags = append(flags, "NOT NULL")
	}
	if col.DefaultValue != nil {
		flags = append(flags, "DEFAULT "+*col.DefaultValue)
	}
	return flags
}

func onDelete(fk schema.ForeignKey) string {
	if fk.OnDeleteCascade {
		return " (ON DELETE CASCADE)"
	}
	return ""
}
