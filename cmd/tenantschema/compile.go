package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tordrt/tenantschema"
	"github.com/tordrt/tenantschema/internal/jsonschema"
	"github.com/tordrt/tenantschema/internal/model"
)

var (
	outputFile string
	outputDir  string
	format     string
	workers    int
	schemaURN  string
)

func newSQLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sql MODEL",
		Short: "Print the DDL statements of a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(args[0])
			if err != nil {
				return err
			}
			return writeOutput(cmd, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, strings.Join(m.GenerateSQL(), "\n"))
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func newJSONSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jsonschema MODEL",
		Short: "Print the JSON Schema documents of a model",
		Long: `Print the JSON Schema documents of every entity and relation as a JSON array,
or the single document of --urn.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(args[0])
			if err != nil {
				return err
			}

			var out any
			if schemaURN != "" {
				doc, err := documentFor(m, schemaURN)
				if err != nil {
					return err
				}
				out = doc
			} else {
				docs, err := m.JSONSchemas()
				if err != nil {
					return err
				}
				out = docs
			}

			return writeOutput(cmd, func(w io.Writer) error {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			})
		},
	}
	cmd.Flags().StringVar(&schemaURN, "urn", "", "Only the document of this entity or relation urn")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func documentFor(m *model.Model, u string) (*jsonschema.Document, error) {
	if e, ok := m.Entity(u); ok {
		return e.JSONSchema()
	}
	if r, ok := m.Relation(u); ok {
		return r.JSONSchema()
	}
	return nil, &model.Error{Kind: model.NotFound, URN: u, Message: "no entity or relation with this urn"}
}

func newTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables MODEL",
		Short: "List the tables of a model with their unique columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, name := range m.TableNames() {
				if m.IsJoinTable(name) {
					_, _ = fmt.Fprintf(w, "%s (join)\n", name)
					continue
				}
				cols, _ := m.UniqueColumns(name)
				if len(cols) == 0 {
					_, _ = fmt.Fprintln(w, name)
					continue
				}
				_, _ = fmt.Fprintf(w, "%s unique: %s\n", name, strings.Join(cols, ", "))
			}
			return nil
		},
	}
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build MODEL",
		Short: "Write schema.sql and the JSON Schema documents into a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(args[0])
			if err != nil {
				return err
			}
			dir, n := artifactSettings(cmd)
			if err := tenantschema.WriteArtifacts(cmd.Context(), m, &tenantschema.ArtifactOptions{Dir: dir, Workers: n}); err != nil {
				return err
			}
			log.Info().Str("dir", dir).Int("tables", len(m.TableNames())).Msg("artifacts written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Output directory (default from config)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent file writes (default from config)")
	return cmd
}

func newDocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs MODEL",
		Short: "Document the tables of a model as text or markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(args[0])
			if err != nil {
				return err
			}

			if outputDir != "" && outputFile != "" {
				return fmt.Errorf("cannot use both --output-dir and --output flags")
			}

			f := format
			if !cmd.Flags().Changed("format") {
				f = cfg.Format
			}
			n := workers
			if !cmd.Flags().Changed("workers") {
				n = cfg.Workers
			}

			// Multi-file output
			if outputDir != "" {
				return tenantschema.FormatSchema(m, &tenantschema.OutputOptions{OutputDir: outputDir, Format: f, Workers: n})
			}

			// Single-file output
			return writeOutput(cmd, func(w io.Writer) error {
				return tenantschema.FormatSchema(m, &tenantschema.OutputOptions{Writer: w, Format: f})
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or markdown")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Output directory for multi-file output")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent file writes in multi-file mode (default from config)")
	return cmd
}

func loadModel(path string) (*model.Model, error) {
	m, err := tenantschema.LoadModel(path)
	if err != nil {
		return nil, err
	}
	log.Debug().
		Str("tenant", m.Tenant()).
		Int("entities", len(m.Entities())).
		Int("relations", len(m.Relations())).
		Msg("model compiled")
	return m, nil
}

// artifactSettings returns the output directory and worker count, falling
// back to the config for flags not given.
func artifactSettings(cmd *cobra.Command) (string, int) {
	dir, n := outputDir, workers
	if !cmd.Flags().Changed("output-dir") {
		dir = cfg.OutputDir
	}
	if !cmd.Flags().Changed("workers") {
		n = cfg.Workers
	}
	if dir == "" {
		dir = "."
	}
	return dir, n
}

// writeOutput runs write against --output, or stdout when it is not set.
func writeOutput(cmd *cobra.Command, write func(io.Writer) error) error {
	if outputFile == "" {
		return write(cmd.OutOrStdout())
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Str("file", outputFile).Msg("failed to close output file")
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
