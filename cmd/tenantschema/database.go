package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tordrt/tenantschema"
	"github.com/tordrt/tenantschema/internal/schema"
)

var (
	dbURL         string
	mysqlURL      string
	sqlitePath    string
	tables        string
	excludeTables string
	schemaName    string
)

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify MODEL",
		Short: "Apply the DDL to a scratch SQLite database and compare the result with the model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadModel(args[0])
			if err != nil {
				return err
			}

			drifts, err := tenantschema.Verify(cmd.Context(), m, sqlitePath)
			if err != nil {
				return fmt.Errorf("failed to verify: %w", err)
			}
			return reportDrifts(cmd.OutOrStdout(), drifts)
		},
	}
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database file to create (default: in-memory)")
	return cmd
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check MODEL",
		Short: "Compare a live database with the tables of a model",
		Long: `Compare the tables of a PostgreSQL, MySQL or SQLite database with the tables the model
expects and list every difference. The database is only read.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := databaseURL()
			if err != nil {
				return err
			}

			m, err := loadModel(args[0])
			if err != nil {
				return err
			}

			opts := &tenantschema.Options{
				Tables:        splitList(tables),
				ExcludeTables: splitList(excludeTables),
				SchemaName:    schemaName,
			}
			drifts, err := tenantschema.Check(cmd.Context(), url, m, opts)
			if err != nil {
				return fmt.Errorf("failed to check: %w", err)
			}
			return reportDrifts(cmd.OutOrStdout(), drifts)
		},
	}
	cmd.Flags().StringVar(&dbURL, "db-url", "", "PostgreSQL connection string")
	cmd.Flags().StringVar(&mysqlURL, "mysql-url", "", "MySQL connection string (user:pass@tcp(host:port)/db)")
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database file path")
	cmd.Flags().StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
	cmd.Flags().StringVar(&excludeTables, "exclude", "", "Tables to ignore (comma-separated, optional)")
	cmd.Flags().StringVarP(&schemaName, "schema", "s", "", "Database schema name (default: public for PostgreSQL, the DSN database for MySQL)")
	return cmd
}

// databaseURL turns the one database flag given into a URL Check accepts.
func databaseURL() (string, error) {
	dbCount := 0
	for _, v := range []string{dbURL, mysqlURL, sqlitePath} {
		if v != "" {
			dbCount++
		}
	}
	if dbCount == 0 {
		return "", fmt.Errorf("one of --db-url, --mysql-url, or --sqlite must be specified")
	}
	if dbCount > 1 {
		return "", fmt.Errorf("only one of --db-url, --mysql-url, or --sqlite can be specified")
	}

	switch {
	case sqlitePath != "":
		return "sqlite://" + sqlitePath, nil
	case mysqlURL != "":
		return "mysql://" + strings.TrimPrefix(mysqlURL, "mysql://"), nil
	default:
		return dbURL, nil
	}
}

// reportDrifts prints one line per drift and fails when there is any.
func reportDrifts(w io.Writer, drifts []schema.Drift) error {
	for _, d := range drifts {
		_, _ = fmt.Fprintln(w, d.String())
	}
	if len(drifts) > 0 {
		log.Warn().Int("drifts", len(drifts)).Msg("schema differs from model")
		return fmt.Errorf("schema differs from model in %d places", len(drifts))
	}
	log.Info().Msg("schema matches model")
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	list := strings.Split(s, ",")
	for i, t := range list {
		list[i] = strings.TrimSpace(t)
	}
	return list
}
