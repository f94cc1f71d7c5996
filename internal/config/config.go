// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name: FILE is read from CONTACTS_FILE.
const Prefix = "CONTACTS"

// Store backends.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// Config holds all configuration values for the contactbook CLI.
// Values are populated by Load from environment variables; command-line flags
// override them in cmd/contactbook.
type Config struct {
	// File is the flat file the file store reads and writes.
	File string `envconfig:"FILE" default:"./contacts.txt"`

	// Store selects the backend: file or postgres.
	Store string `envconfig:"STORE" default:"file"`

	// DatabaseURL is the Postgres connection string. Required when Store is postgres.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// LogLevel controls the minimum log level.
	// Valid values: debug, info, warn, error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"warn"`

	// LogFormat is text or json.
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// NoColor disables colored REPL output.
	NoColor bool `envconfig:"NO_COLOR"`
}

// Load reads configuration from environment variables and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the store selection and returns an error listing any
// required variables that are not set. It is called again after flags are
// applied.
func (c Config) Validate() error {
	var missing []string

	switch c.Store {
	case StoreFile:
		if c.File == "" {
			missing = append(missing, Prefix+"_FILE")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			missing = append(missing, Prefix+"_DATABASE_URL")
		}
	default:
		return fmt.Errorf("unsupported %s_STORE: %q (want %s or %s)", Prefix, c.Store, StoreFile, StorePostgres)
	}

	if len(missing) > 0 {
		return fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	return nil
}
