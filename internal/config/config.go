// Package config resolves CLI and server settings from defaults, an
// optional YAML file and TENANTSCHEMA_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TENANTSCHEMA_"

// Config holds the settings shared by the CLI commands and the HTTP server.
type Config struct {
	Addr      string `yaml:"addr"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // console | json

	// Documentation output
	Format    string `yaml:"format"` // text | markdown
	Workers   int    `yaml:"workers"`
	OutputDir string `yaml:"output_dir"`
}

func def() Config {
	return Config{
		Addr:      ":8080",
		LogLevel:  "info",
		LogFormat: "console",
		Format:    "text",
		Workers:   4,
		OutputDir: "",
	}
}

// Default returns the built-in settings.
func Default() Config {
	return def()
}

func loadYAML(path string) (Config, error) {
	c := def()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("failed to parse config file: %w", err)
	}
	return c, nil
}

func getenv(k, fallback string) string {
	if v, ok := os.LookupEnv(EnvPrefix + k); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getenvInt(k string, fallback int) (int, error) {
	v := getenv(k, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s%s %q: %w", EnvPrefix, k, v, err)
	}
	return n, nil
}

// Load reads the YAML file at path when path is not empty, then applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := def()

	if path != "" {
		c, err := loadYAML(path)
		if err != nil {
			return cfg, err
		}
		cfg = c
	}

	cfg.Addr = getenv("ADDR", cfg.Addr)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getenv("LOG_FORMAT", cfg.LogFormat)
	cfg.Format = getenv("FORMAT", cfg.Format)
	cfg.OutputDir = getenv("OUTPUT_DIR", cfg.OutputDir)

	workers, err := getenvInt("WORKERS", cfg.Workers)
	if err != nil {
		return cfg, err
	}
	cfg.Workers = workers

	return cfg, cfg.Validate()
}

// Validate reports settings no command can run with.
func (c Config) Validate() error {
	switch c.Format {
	case "text", "markdown":
	default:
		return fmt.Errorf("invalid format %q (must be text or markdown)", c.Format)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q (must be console or json)", c.LogFormat)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}
