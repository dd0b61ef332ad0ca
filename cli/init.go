package cli

import (
	"fmt"

	"github.com/alecthomas/kong"
)

type InitCmd struct {
	File     string `help:"Path of the ledger file to create." arg:""`
	Currency string `help:"Operating currency for the new ledger (overrides config)."`
}

func (cmd *InitCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}

	if cmd.Currency != "" {
		cfg.Ledger.Currency = cmd.Currency
	}

	st := newStore(cfg, cmd.File, newLogger(cfg))

	filename, err := st.ResolvePath(cmd.File)
	if err != nil {
		return err
	}

	created, err := st.CreateFile(filename)
	if err != nil {
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Created ledger file: %s", pathStyle.Render(created)))
	printInfof(ctx.Stdout, "Start the server with: friday serve %s", created)

	return nil
}
