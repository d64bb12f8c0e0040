package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tordrt/tenantschema/internal/config"
	"github.com/tordrt/tenantschema/internal/logger"
)

var (
	configPath string
	logLevel   string
	logFormat  string

	cfg config.Config
	log = zerolog.Nop()
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tenantschema",
		Short: "Compile tenant data models into SQL DDL and JSON Schema",
		Long: `tenantschema validates a tenant data model (entities, relations and their attributes)
and generates SQLite DDL statements and draft-07 JSON Schema documents from it.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config: info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: console or json (default from config: console)")

	rootCmd.AddCommand(
		newSQLCmd(),
		newJSONSchemaCmd(),
		newTablesCmd(),
		newBuildCmd(),
		newDocsCmd(),
		newVerifyCmd(),
		newCheckCmd(),
		newServeCmd(),
		newWatchCmd(),
	)
	return rootCmd
}

// setup resolves the configuration and the logger before any command runs.
// Flags override the config file and the environment.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}

	log, err = logger.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
