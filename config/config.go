// Package config loads the server configuration. Values layer in the
// usual order: built-in defaults, then an optional env-format config
// file, then environment variables.
package config

import (
	"errors"
	"strings"
)

// Config holds the complete server configuration.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Ledger      LedgerConfig
}

// ApplicationConfig contains general application settings.
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level string // debug, info, warn or error
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host     string
	Port     int
	ReadOnly bool // reject mutating endpoints
	Watch    bool // watch the ledger file and push reload events
}

// LedgerConfig contains the ledger file settings.
type LedgerConfig struct {
	Path     string // default ledger file, overridable per request
	Currency string // operating currency for new files and accounts
}

func (c *Config) validate() error {
	var problems []string

	if c.Server.Port <= 0 {
		problems = append(problems, "SERVER_PORT must be greater than 0")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, "LOG_LEVEL must be one of debug, info, warn, error")
	}

	if c.Ledger.Currency == "" {
		problems = append(problems, "LEDGER_CURRENCY is required")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, ", "))
	}
	return nil
}
