package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sjlouji/friday/ast"
	"github.com/sjlouji/friday/formatter"
	"github.com/sjlouji/friday/ledger"
	"github.com/sjlouji/friday/store"
)

// Accounts a row falls back to when no category column is mapped.
const (
	uncategorizedIncome   = "Income:Uncategorized"
	uncategorizedExpenses = "Expenses:Uncategorized"
)

// batchMarker is the comment written before every imported batch.
const batchMarker = "; Transactions imported with mapping"

// Mapping names the table columns each transaction field comes from.
// Date, Narration, Account and Amount are required per row; the rest
// are optional with fallbacks. Account and Category also accept a
// literal account name: a value that matches no column is used as-is
// for every row, since bank statements rarely carry an account column.
type Mapping struct {
	Date      string `json:"date"`
	Narration string `json:"narration"`
	Account   string `json:"account"`
	Amount    string `json:"amount"`
	Payee     string `json:"payee"`
	Currency  string `json:"currency"`
	Category  string `json:"category"`
	Flag      string `json:"flag"`

	// DefaultCurrency applies when no currency column is mapped or
	// the cell is blank. Defaults to the store's currency.
	DefaultCurrency string `json:"defaultCurrency"`

	// DefaultFlag applies when the flag cell is blank or not one of
	// the import flags (*, !, ?). Defaults to *.
	DefaultFlag string `json:"defaultFlag"`
}

// Result reports one import run. Errors being non-empty does not mean
// the run failed: rows fail individually, accepted rows still land.
type Result struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors,omitempty"`
	Message  string   `json:"message"`
}

// Importer maps table rows onto ledger transactions.
type Importer struct {
	store     *store.Store
	formatter *formatter.Formatter
}

// New creates an Importer writing through the given store.
func New(st *store.Store) *Importer {
	return &Importer{store: st, formatter: formatter.New()}
}

// Import converts the table's rows into transactions and appends the
// accepted ones to the ledger at path in a single batch. Rows fail
// independently; duplicates of existing transactions or of earlier
// rows in the same batch are rejected. Row numbers in error messages
// are 1-indexed counting the header, so the first data row is row 2.
func (imp *Importer) Import(path string, table *Table, mapping Mapping) (*Result, error) {
	if mapping.DefaultCurrency == "" {
		mapping.DefaultCurrency = imp.store.DefaultCurrency()
	}
	if mapping.DefaultFlag == "" {
		mapping.DefaultFlag = "*"
	}

	columns := make(map[string]bool, len(table.Columns))
	for _, c := range table.Columns {
		columns[c] = true
	}

	seen := make(map[string]bool)
	if book, err := imp.store.Load(path); err == nil {
		for _, t := range book.Transactions {
			seen[imp.recordKey(t)] = true
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	var rendered []string
	var rowErrors []string

	for i, row := range table.Rows {
		rowNum := i + 2

		txn, err := imp.buildTransaction(row, columns, mapping)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %s", rowNum, err))
			continue
		}

		key := imp.transactionKey(txn)
		if seen[key] {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: duplicate transaction", rowNum))
			continue
		}
		seen[key] = true

		rendered = append(rendered, imp.formatter.FormatDirective(txn))
	}

	if len(rendered) > 0 {
		var b strings.Builder
		b.WriteByte('\n')
		b.WriteString(batchMarker)
		b.WriteByte('\n')
		for _, text := range rendered {
			b.WriteString(text)
			b.WriteByte('\n')
		}

		if err := imp.store.AppendRaw(path, b.String()); err != nil {
			return nil, err
		}
	}

	allErrors := rowErrors
	if book, err := imp.store.Load(path); err == nil {
		allErrors = append(allErrors, book.Errors...)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	return &Result{
		Imported: len(rendered),
		Errors:   allErrors,
		Message:  fmt.Sprintf("imported %d transaction(s), %d error(s)", len(rendered), len(allErrors)),
	}, nil
}

// buildTransaction maps one row onto a balanced transaction. The sign
// of the amount decides direction: non-negative debits the mapped
// account against the category (or Income:Uncategorized), negative
// debits the category (or Expenses:Uncategorized) against the account.
func (imp *Importer) buildTransaction(row Row, columns map[string]bool, mapping Mapping) (*ast.Transaction, error) {
	date := strings.TrimSpace(row[mapping.Date])
	narration := strings.TrimSpace(row[mapping.Narration])
	account := strings.TrimSpace(accountValue(row, columns, mapping.Account))
	amountCell := strings.TrimSpace(row[mapping.Amount])

	if date == "" || narration == "" || account == "" || amountCell == "" {
		return nil, errors.New("missing required fields")
	}

	dateNode, err := normalizeDate(date)
	if err != nil {
		return nil, errors.New("invalid date format")
	}

	amount, err := parseAmount(amountCell)
	if err != nil {
		return nil, errors.New("invalid amount")
	}

	payee := strings.TrimSpace(row[mapping.Payee])
	category := strings.TrimSpace(accountValue(row, columns, mapping.Category))

	currency := strings.TrimSpace(row[mapping.Currency])
	if currency == "" {
		currency = mapping.DefaultCurrency
	}

	flag := strings.TrimSpace(row[mapping.Flag])
	if flag != "*" && flag != "!" && flag != "?" {
		flag = mapping.DefaultFlag
	}

	account, err = ledger.NormalizeAccount(account)
	if err != nil {
		return nil, err
	}
	if category != "" {
		if category, err = ledger.NormalizeAccount(category); err != nil {
			return nil, err
		}
	}

	var debit, credit string
	if amount.IsNegative() {
		debit = category
		if debit == "" {
			debit = uncategorizedExpenses
		}
		credit = account
	} else {
		debit = account
		credit = category
		if credit == "" {
			credit = uncategorizedIncome
		}
	}

	abs := amount.Abs()
	postings := []*ast.Posting{
		ast.NewPosting(ast.Account(debit), ast.WithAmount(ledger.NumberString(abs), currency)),
		ast.NewPosting(ast.Account(credit), ast.WithAmount(ledger.NumberString(abs.Neg()), currency)),
	}

	opts := []ast.TransactionOption{ast.WithFlag(flag), ast.WithPostings(postings...)}
	if payee != "" {
		opts = append(opts, ast.WithPayee(payee))
	}

	return ast.NewTransaction(dateNode, narration, opts...), nil
}

// accountValue resolves an account-valued mapping entry: a name that
// matches a table column reads from the row, anything else is a
// literal account applied to every row.
func accountValue(row Row, columns map[string]bool, name string) string {
	if columns[name] {
		return row[name]
	}
	return name
}

// normalizeDate turns the cell into a ledger date. Slash dates are
// read as DD/MM/YYYY; dates without a dash go through a short list of
// common layouts; everything else must already be YYYY-MM-DD.
func normalizeDate(s string) (*ast.Date, error) {
	if strings.Contains(s, "/") {
		parts := strings.Split(s, "/")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid date %q", s)
		}

		day, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		month, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		year, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, fmt.Errorf("invalid date %q", s)
		}

		return ast.NewDate(fmt.Sprintf("%04d-%02d-%02d", year, month, day))
	}

	if !strings.Contains(s, "-") {
		for _, layout := range []string{"2 Jan 2006", "Jan 2, 2006", "20060102", "02.01.2006"} {
			if t, err := time.Parse(layout, s); err == nil {
				return ast.NewDate(t.Format("2006-01-02"))
			}
		}
		return nil, fmt.Errorf("invalid date %q", s)
	}

	return ast.NewDate(s)
}

// parseAmount strips thousands separators and currency glyphs before
// parsing the signed decimal.
func parseAmount(s string) (decimal.Decimal, error) {
	replacer := strings.NewReplacer(",", "", "₹", "", "$", "", "€", "")
	return decimal.NewFromString(strings.TrimSpace(replacer.Replace(s)))
}

// transactionKey is the duplicate-detection key of a built transaction:
// the date, the narration, and the canonical posting lines.
func (imp *Importer) transactionKey(t *ast.Transaction) string {
	var b strings.Builder
	b.WriteString(t.Date.String())
	b.WriteByte(0)
	b.WriteString(t.Narration)
	for _, p := range t.Postings {
		b.WriteByte(0)
		b.WriteString(imp.formatter.FormatPosting(p))
	}
	return b.String()
}

// recordKey computes the same key for an already-booked transaction by
// rebuilding its posting nodes.
func (imp *Importer) recordKey(t ledger.Transaction) string {
	var b strings.Builder
	b.WriteString(t.Date)
	b.WriteByte(0)
	b.WriteString(t.Narration)
	for _, p := range t.Postings {
		var opts []ast.PostingOption
		if p.Amount != nil {
			opts = append(opts, ast.WithAmount(p.Amount.Number, p.Amount.Currency))
		}
		b.WriteByte(0)
		b.WriteString(imp.formatter.FormatPosting(ast.NewPosting(ast.Account(p.Account), opts...)))
	}
	return b.String()
}
