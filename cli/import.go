package cli

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/sjlouji/friday/importer"
)

type ImportCmd struct {
	File   string `help:"Statement file to import (CSV, TSV, XLSX or XLS)." arg:""`
	Ledger string `help:"Ledger file to append to (overrides the configured path)."`

	Account  string `help:"Ledger account the statement belongs to." required:""`
	Category string `help:"Counter account for categorized rows (column name or literal account)."`

	DateColumn      string `help:"Column holding the transaction date." default:"Date"`
	NarrationColumn string `help:"Column holding the narration." default:"Narration"`
	AmountColumn    string `help:"Column holding the signed amount." default:"Amount"`
	PayeeColumn     string `help:"Column holding the payee, if any."`
	CurrencyColumn  string `help:"Column holding the currency, if any."`
	FlagColumn      string `help:"Column holding the flag, if any."`

	DefaultCurrency string `help:"Currency for rows without one (falls back to the configured currency)."`
	DefaultFlag     string `help:"Flag for rows without one." default:"*"`
}

func (cmd *ImportCmd) Run(ctx *kong.Context, globals *Globals) error {
	cfg, err := globals.loadConfig()
	if err != nil {
		return err
	}

	st := newStore(cfg, cmd.Ledger, newLogger(cfg))

	filename, err := st.ResolvePath("")
	if err != nil {
		return fmt.Errorf("no ledger file: pass --ledger or set LEDGER_PATH")
	}

	data, err := os.ReadFile(cmd.File)
	if err != nil {
		return err
	}

	table, err := importer.DecodeTable(data, cmd.File)
	if err != nil {
		return err
	}

	mapping := importer.Mapping{
		Date:            cmd.DateColumn,
		Narration:       cmd.NarrationColumn,
		Amount:          cmd.AmountColumn,
		Payee:           cmd.PayeeColumn,
		Currency:        cmd.CurrencyColumn,
		Flag:            cmd.FlagColumn,
		Account:         cmd.Account,
		Category:        cmd.Category,
		DefaultCurrency: cmd.DefaultCurrency,
		DefaultFlag:     cmd.DefaultFlag,
	}

	result, err := importer.New(st).Import(filename, table, mapping)
	if err != nil {
		return err
	}

	for _, msg := range result.Errors {
		printError(ctx.Stderr, msg)
	}

	if result.Imported > 0 {
		printSuccess(ctx.Stdout, fmt.Sprintf("Imported %d transaction(s) into %s",
			result.Imported, pathStyle.Render(filename)))
	} else {
		printInfof(ctx.Stdout, "Nothing to import")
	}

	if len(result.Errors) > 0 {
		os.Exit(1)
	}

	return nil
}
