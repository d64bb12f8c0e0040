package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/tenantschema/internal/naming"
	"github.com/tordrt/tenantschema/internal/schema"
)

// MarkdownFormatter formats schema as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the schema in markdown format
func (f *MarkdownFormatter) Format(s *schema.Schema) error {
	_, _ = fmt.Fprintln(f.writer, "# Database Schema")
	_, _ = fmt.Fprintln(f.writer)

	for _, table := range s.Tables {
		f.FormatTable(table)
	}
	return nil
}

// FormatTable formats a single table (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatTable(table schema.Table) {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", table.Name)

	title := table.Comment
	if title == "" {
		title = naming.Title(table.Name)
	}
	_, _ = fmt.Fprintf(f.writer, "_%s_\n\n", title)

	_, _ = fmt.Fprintln(f.writer, "### Columns")
	_, _ = fmt.Fprintln(f.writer)
	for _, col := range table.Columns {
		flags := columnFlags(col)
		if len(flags) > 0 {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s, %s\n", col.Name, col.Type, strings.Join(flags, ", "))
		} else {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s\n", col.Name, col.Type)
		}
	}
	_, _ = fmt.Fprintln(f.writer)

	if len(table.ForeignKeys) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### References")
		_, _ = fmt.Fprintln(f.writer)
		for _, fk := range table.ForeignKeys {
			_, _ = fmt.Fprintf(f.writer, "- %s → %s.%s%s\n", fk.SourceColumn, fk.TargetTable, fk.TargetColumn, onDelete(fk))
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	if len(table.Uniques) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Unique")
		_, _ = fmt.Fprintln(f.writer)
		for _, u := range table.Uniques {
			_, _ = fmt.Fprintf(f.writer, "- (%s)\n", strings.Join(u.Columns, ", "))
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	if len(table.Triggers) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Triggers")
		_, _ = fmt.Fprintln(f.writer)
		for _, tr := range table.Triggers {
			_, _ = fmt.Fprintf(f.writer, "- `%s` sets %s to %s after update\n", tr.Name, tr.Column, tr.Value)
		}
		_, _ = fmt.Fprintln(f.writer)
	}
}
