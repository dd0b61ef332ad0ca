package cli

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/sjlouji/friday/formatter"
	"github.com/sjlouji/friday/parser"
)

type FmtCmd struct {
	File           string `help:"Ledger file to format." arg:""`
	CurrencyColumn int    `help:"Column for currency alignment (auto if 0, canonical layout if unset)." default:"-1"`
	Write          bool   `help:"Rewrite the file in place instead of printing to stdout." short:"w"`
}

func (cmd *FmtCmd) Run(ctx *kong.Context) error {
	source, err := os.ReadFile(cmd.File)
	if err != nil {
		return err
	}

	result := parser.ParseBytes(source, cmd.File)

	var opts []formatter.Option
	switch {
	case cmd.CurrencyColumn == 0:
		opts = append(opts, formatter.WithCurrencyColumn(formatter.AutoCurrencyColumn(result.AST)))
	case cmd.CurrencyColumn > 0:
		opts = append(opts, formatter.WithCurrencyColumn(cmd.CurrencyColumn))
	}
	f := formatter.New(opts...)

	if cmd.Write {
		if err := os.WriteFile(cmd.File, []byte(f.FormatString(result.AST)), 0o644); err != nil {
			return err
		}
		printSuccess(ctx.Stdout, fmt.Sprintf("Formatted %s", pathStyle.Render(cmd.File)))
		return nil
	}

	return f.Format(result.AST, ctx.Stdout)
}
