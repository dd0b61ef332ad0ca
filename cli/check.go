package cli

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

type CheckCmd struct {
	File string `help:"Ledger file to check." arg:""`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}

	st := newStore(cfg, cmd.File, newLogger(cfg))

	filename, err := st.ResolvePath(cmd.File)
	if err != nil {
		return err
	}

	book, err := st.Load(filename)
	if err != nil {
		return err
	}

	if len(book.Errors) > 0 {
		for _, msg := range book.Errors {
			printError(ctx.Stderr, msg)
		}

		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, fmt.Sprintf("%d error(s) found", len(book.Errors)))
		os.Exit(1)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Check passed: %d transaction(s), %d account(s)",
		len(book.Transactions), len(book.Accounts)))

	return nil
}
