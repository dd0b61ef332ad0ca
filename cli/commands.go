package cli

import (
	"log/slog"
	"os"

	"github.com/sjlouji/friday/config"
	"github.com/sjlouji/friday/store"
)

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Config   string `help:"Config name to load from ./configs or the working directory." default:"friday"`
	LogLevel string `help:"Log level override (debug, info, warn, error)." default:""`
}

type Commands struct {
	Globals

	Serve  ServeCmd  `cmd:"" help:"Start the ledger web server."`
	Check  CheckCmd  `cmd:"" help:"Load a ledger file and report every error it contains."`
	Fmt    FmtCmd    `cmd:"" help:"Format a ledger file to canonical layout."`
	Import ImportCmd `cmd:"" help:"Import transactions from a CSV, TSV or Excel statement."`
	Init   InitCmd   `cmd:"" help:"Create a new ledger file seeded with a starter account catalog."`
}

// loadConfig reads the layered configuration and applies global
// overrides on top of it.
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}

	if g.LogLevel != "" {
		cfg.Logging.Level = g.LogLevel
	}

	return cfg, nil
}

// newLogger builds the process logger from the configured level.
// Development gets human-readable text, everything else JSON.
func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Application.Env == "development" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

// newStore builds a store from the configuration, preferring an
// explicit file argument over the configured ledger path.
func newStore(cfg *config.Config, file string, logger *slog.Logger) *store.Store {
	path := file
	if path == "" {
		path = cfg.Ledger.Path
	}

	return store.New(store.Config{
		DefaultPath:     path,
		DefaultCurrency: cfg.Ledger.Currency,
		Logger:          logger,
	})
}
