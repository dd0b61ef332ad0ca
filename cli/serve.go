package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/sjlouji/friday/store"
	"github.com/sjlouji/friday/web"
)

type ServeCmd struct {
	File     string `help:"Ledger file to serve (overrides the configured path)." arg:"" optional:""`
	Host     string `help:"Host to bind (overrides config)."`
	Port     int    `help:"Port to listen on (overrides config)."`
	Create   bool   `help:"Automatically create the file if it doesn't exist (no confirmation prompt)." short:"c"`
	ReadOnly bool   `help:"Enable read-only mode (no write operations allowed)." short:"r"`
	NoWatch  bool   `help:"Disable file watching and reload events."`
}

func (cmd *ServeCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}

	if cmd.Host != "" {
		cfg.Server.Host = cmd.Host
	}
	if cmd.Port != 0 {
		cfg.Server.Port = cmd.Port
	}
	if cmd.ReadOnly {
		cfg.Server.ReadOnly = true
	}
	if cmd.NoWatch {
		cfg.Server.Watch = false
	}

	logger := newLogger(cfg)
	st := newStore(cfg, cmd.File, logger)

	ledgerFile, err := st.ResolvePath("")
	if err != nil {
		return fmt.Errorf("no ledger file: pass one as an argument or set LEDGER_PATH")
	}

	if _, err := os.Stat(ledgerFile); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access file: %w", err)
		}

		shouldCreate := cmd.Create
		if !shouldCreate {
			confirmed, err := promptYesNo(fmt.Sprintf("File %q does not exist. Create it?", ledgerFile))
			if err != nil {
				return fmt.Errorf("failed to read confirmation: %w", err)
			}
			shouldCreate = confirmed
		}

		if !shouldCreate {
			return fmt.Errorf("file does not exist: %s", ledgerFile)
		}

		created, err := st.CreateFile(ledgerFile)
		if err != nil && !errors.Is(err, store.ErrExists) {
			return fmt.Errorf("failed to create file: %w", err)
		}

		printInfof(ctx.Stdout, "Created ledger file: %s", pathStyle.Render(created))
	}

	server := web.New(cfg.Server, st, logger)

	version := Version
	if version == "" {
		version = "dev"
	}

	printInfof(ctx.Stdout, "Starting friday %s on %s:%d", version, cfg.Server.Host, cfg.Server.Port)
	printInfof(ctx.Stdout, "Serving ledger: %s", pathStyle.Render(ledgerFile))

	if cfg.Server.ReadOnly {
		printInfof(ctx.Stdout, "Server running in READ-ONLY mode")
	}

	return server.Start(context.Background())
}
