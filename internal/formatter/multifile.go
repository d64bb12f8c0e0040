package formatter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tordrt/tenantschema/internal/schema"
)

const (
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// MultiFileFormatter writes schema to multiple files in a directory
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "text" or "markdown"
	Workers      int    // concurrent file writes, 0 means unbounded
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string, workers int) *MultiFileFormatter {
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
		Workers:      workers,
	}
}

// Format writes an overview file and one file per table
func (f *MultiFileFormatter) Format(s *schema.Schema) error {
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeFile("_overview", func(w io.Writer) { f.writeOverview(w, s) }); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	var g errgroup.Group
	if f.Workers > 0 {
		g.SetLimit(f.Workers)
	}
	for _, table := range s.Tables {
		g.Go(func() error {
			incoming := findIncomingReferences(table.Name, s)
			if err := f.writeFile(table.Name, func(w io.Writer) { f.writeTable(w, table, incoming) }); err != nil {
				return fmt.Errorf("failed to write table file for %s: %w", table.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (f *MultiFileFormatter) writeFile(name string, write func(w io.Writer)) error {
	file, err := os.Create(filepath.Join(f.OutputDir, name+f.fileExtension()))
	if err != nil {
		return err
	}
	write(file)
	return file.Close()
}

func (f *MultiFileFormatter) writeOverview(w io.Writer, s *schema.Schema) {
	sorted := make([]schema.Table, len(s.Tables))
	copy(sorted, s.Tables)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	if f.OutputFormat == FormatMarkdown {
		_, _ = fmt.Fprintf(w, "# Schema Overview\n\n")
		_, _ = fmt.Fprintf(w, "Each table has a corresponding file: `<table_name>%s`\n\n", f.fileExtension())
		_, _ = fmt.Fprintf(w, "## Tables\n\n")
	} else {
		_, _ = fmt.Fprintf(w, "SCHEMA OVERVIEW\n")
		_, _ = fmt.Fprintf(w, "Each table has a file: <table_name>%s\n\n", f.fileExtension())
	}

	for _, table := range sorted {
		if f.OutputFormat == FormatMarkdown {
			_, _ = fmt.Fprintf(w, "- **%s**", table.Name)
		} else {
			_, _ = fmt.Fprint(w, table.Name)
		}
		if len(table.ForeignKeys) > 0 {
			targets := make([]string, 0, len(table.ForeignKeys))
			for _, fk := range table.ForeignKeys {
				targets = append(targets, fk.TargetTable)
			}
			_, _ = fmt.Fprintf(w, " (references: %s)", strings.Join(targets, ", "))
		}
		_, _ = fmt.Fprintln(w)
	}
}

func (f *MultiFileFormatter) writeTable(w io.Writer, table schema.Table, incoming []IncomingReference) {
	if f.OutputFormat == FormatMarkdown {
		NewMarkdownFormatter(w).FormatTable(table)
		if len(incoming) > 0 {
			_, _ = fmt.Fprintf(w, "### Referenced by\n\n")
			for _, ref := range incoming {
				_, _ = fmt.Fprintf(w, "- %s.%s → %s\n", ref.SourceTable, ref.SourceColumn, ref.TargetColumn)
			}
			_, _ = fmt.Fprintln(w)
		}
		return
	}

	NewTextFormatter(w).FormatTable(table)
	if len(incoming) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "  REFERENCED BY:")
		for _, ref := range incoming {
			_, _ = fmt.Fprintf(w, "    %s.%s → %s\n", ref.SourceTable, ref.SourceColumn, ref.TargetColumn)
		}
	}
}

// IncomingReference represents a foreign key pointing to a table
type IncomingReference struct {
	SourceTable  string
	SourceColumn string
	TargetColumn string
}

// findIncomingReferences finds all foreign keys pointing to this table
func findIncomingReferences(tableName string, s *schema.Schema) []IncomingReference {
	var incoming []IncomingReference
	for _, table := range s.Tables {
		for _, fk := range table.ForeignKeys {
			if fk.TargetTable == tableName {
				incoming = append(incoming, IncomingReference{
					SourceTable:  table.Name,
					SourceColumn: fk.SourceColumn,
					TargetColumn: fk.TargetColumn,
				})
			}
		}
	}
	return incoming
}

func (f *MultiFileFormatter) fileExtension() string {
	if f.OutputFormat == FormatMarkdown {
		return ".md"
	}
	return ".txt"
}
