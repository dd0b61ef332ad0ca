// Package ledger turns a parsed file into queryable records: the Book.
// Where the ast package mirrors the file text, the ledger package is
// the read model served over the API: transactions get stable
// identifiers, accounts fold in their close dates, elided posting
// amounts are inferred, and balance assertions are checked. Problems
// found while building the Book are collected as error strings next to
// the data instead of failing the load.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sjlouji/friday/ast"
	"github.com/sjlouji/friday/parser"
)

// Amount is a decimal number with its currency, as served over the API.
type Amount struct {
	Number   string `json:"number"`
	Currency string `json:"currency"`
}

// CostAmount is a posting cost annotation with its optional date.
type CostAmount struct {
	Number   string  `json:"number"`
	Currency string  `json:"currency"`
	Date     *string `json:"date"`
}

// Posting is one leg of a transaction record. Amount is nil only when
// it could not be inferred.
type Posting struct {
	Account string      `json:"account"`
	Amount  *Amount     `json:"amount"`
	Cost    *CostAmount `json:"cost,omitempty"`
	Price   *Amount     `json:"price,omitempty"`
}

// Transaction is the record view of a ledger transaction.
type Transaction struct {
	ID        string            `json:"id"`
	Date      string            `json:"date"`
	Flag      string            `json:"flag"`
	Payee     string            `json:"payee"`
	Narration string            `json:"narration"`
	Postings  []Posting         `json:"postings"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Account is the record view of an account: its open directive plus the
// close date folded in from a matching close directive.
type Account struct {
	Name       string            `json:"name"`
	Type       string            `json:"type"`
	OpenDate   string            `json:"openDate"`
	CloseDate  *string           `json:"closeDate"`
	Currencies []string          `json:"currencies,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// BalanceAssertion is the record view of a balance directive.
type BalanceAssertion struct {
	Account string `json:"account"`
	Date    string `json:"date"`
	Amount  Amount `json:"amount"`
}

// PricePoint is the record view of a price directive.
type PricePoint struct {
	Date     string `json:"date"`
	Currency string `json:"currency"`
	Amount   Amount `json:"amount"`
}

// Book is the queryable state of one ledger file.
type Book struct {
	Transactions []Transaction      `json:"transactions"`
	Accounts     []Account          `json:"accounts"`
	Balances     []BalanceAssertion `json:"balances"`
	Prices       []PricePoint       `json:"prices"`

	// Errors collects parse errors and bookkeeping violations. The
	// records above are still populated when Errors is non-empty.
	Errors []string `json:"errors,omitempty"`

	// OperatingCurrency is the operating_currency option, if set.
	OperatingCurrency string `json:"-"`
}

// AccountType classifies an account name into one of the five root
// categories. Names outside those categories count as Assets.
func AccountType(name string) string {
	switch ast.Account(name).Root() {
	case "Liabilities":
		return "Liabilities"
	case "Equity":
		return "Equity"
	case "Income":
		return "Income"
	case "Expenses":
		return "Expenses"
	default:
		return "Assets"
	}
}

// NewBook builds a Book from a parse result. Directives are partitioned
// by type in file order; close directives fold into their account's
// close date rather than becoming records of their own.
func NewBook(result *parser.Result) *Book {
	book := &Book{
		Transactions: []Transaction{},
		Accounts:     []Account{},
		Balances:     []BalanceAssertion{},
		Prices:       []PricePoint{},
	}

	for _, err := range result.Errors {
		book.Errors = append(book.Errors, err.Error())
	}

	tree := result.AST
	book.OperatingCurrency = tree.Option("operating_currency")

	closeDates := make(map[ast.Account]string)

	for _, directive := range tree.Directives {
		switch d := directive.(type) {
		case *ast.Transaction:
			record, errs := newTransaction(d)
			book.Transactions = append(book.Transactions, record)
			book.Errors = append(book.Errors, errs...)

		case *ast.Open:
			book.Accounts = append(book.Accounts, Account{
				Name:       string(d.Account),
				Type:       AccountType(string(d.Account)),
				OpenDate:   d.Date.String(),
				Currencies: d.ConstraintCurrencies,
				Metadata:   ast.MetadataMap(d.Metadata),
			})

		case *ast.Close:
			closeDates[d.Account] = d.Date.String()

		case *ast.Balance:
			book.Balances = append(book.Balances, BalanceAssertion{
				Account: string(d.Account),
				Date:    d.Date.String(),
				Amount:  Amount{Number: d.Amount.Value, Currency: d.Amount.Currency},
			})

		case *ast.Price:
			book.Prices = append(book.Prices, PricePoint{
				Date:     d.Date.String(),
				Currency: d.Commodity,
				Amount:   Amount{Number: d.Amount.Value, Currency: d.Amount.Currency},
			})
		}
	}

	for i := range book.Accounts {
		if date, ok := closeDates[ast.Account(book.Accounts[i].Name)]; ok {
			d := date
			book.Accounts[i].CloseDate = &d
		}
	}

	book.checkBalances(tree)

	return book
}

// NumberString renders a decimal keeping the scale it carries.
// Decimal's own String trims trailing fraction zeros, which would turn
// 1000.00 into 1000 and change how an amount is written back.
func NumberString(d decimal.Decimal) string {
	if d.Exponent() < 0 {
		return d.StringFixed(-d.Exponent())
	}
	return d.String()
}

// residualByCurrency sums the explicit posting amounts per currency
// and reports the index of the first posting without an amount, -1
// when every posting carries one. Balanced currencies are dropped so
// only a genuine residual remains.
func residualByCurrency(t *ast.Transaction) (map[string]decimal.Decimal, int) {
	residuals := make(map[string]decimal.Decimal)
	elided := -1

	for i, p := range t.Postings {
		if p.Amount == nil {
			if elided == -1 {
				elided = i
			}
			continue
		}
		if value, err := decimal.NewFromString(p.Amount.Value); err == nil {
			residuals[p.Amount.Currency] = residuals[p.Amount.Currency].Add(value)
		}
	}

	for currency, residual := range residuals {
		if residual.IsZero() {
			delete(residuals, currency)
		}
	}

	return residuals, elided
}

// newTransaction builds a transaction record, inferring the amount of
// at most one elided posting from the residual of the others.
func newTransaction(t *ast.Transaction) (Transaction, []string) {
	var errs []string

	record := Transaction{
		Date:      t.Date.String(),
		Flag:      t.Flag,
		Payee:     t.Payee,
		Narration: t.Narration,
		Postings:  make([]Posting, 0, len(t.Postings)),
		Metadata:  ast.MetadataMap(t.Metadata),
	}

	sawElided := false

	for _, p := range t.Postings {
		posting := Posting{Account: string(p.Account)}

		if p.Amount != nil {
			posting.Amount = &Amount{Number: p.Amount.Value, Currency: p.Amount.Currency}

			if _, err := decimal.NewFromString(p.Amount.Value); err != nil {
				errs = append(errs, fmt.Sprintf("%s: invalid amount %q: %v", position(t), p.Amount.Value, err))
			}
		} else if sawElided {
			errs = append(errs, fmt.Sprintf("%s: more than one posting without amount", position(t)))
		} else {
			sawElided = true
		}

		if p.Cost != nil {
			cost := &CostAmount{Number: p.Cost.Amount.Value, Currency: p.Cost.Amount.Currency}
			if p.Cost.Date != nil {
				date := p.Cost.Date.String()
				cost.Date = &date
			}
			posting.Cost = cost
		}
		if p.Price != nil {
			posting.Price = &Amount{Number: p.Price.Value, Currency: p.Price.Currency}
		}

		record.Postings = append(record.Postings, posting)
	}

	residuals, elided := residualByCurrency(t)

	if elided >= 0 {
		if len(residuals) == 1 {
			for currency, residual := range residuals {
				record.Postings[elided].Amount = &Amount{
					Number:   NumberString(residual.Neg()),
					Currency: currency,
				}
			}
		} else if len(residuals) > 1 {
			errs = append(errs, fmt.Sprintf("%s: cannot infer posting amount: residual in multiple currencies", position(t)))
		}
	} else if len(residuals) > 0 {
		for currency, residual := range residuals {
			errs = append(errs, fmt.Sprintf("%s: transaction does not balance: %s %s", position(t), NumberString(residual), currency))
		}
	}

	record.ID = TransactionID(t)

	return record, errs
}

// checkBalances verifies each balance assertion against the running
// account balance accumulated from the transactions before it. The
// replay walks directives in date order; mismatches are soft errors.
func (b *Book) checkBalances(tree *ast.AST) {
	directives := make(ast.Directives, len(tree.Directives))
	copy(directives, tree.Directives)
	ast.SortByDate(directives)

	type key struct {
		account  ast.Account
		currency string
	}
	running := make(map[key]decimal.Decimal)

	for _, directive := range directives {
		switch d := directive.(type) {
		case *ast.Transaction:
			for _, p := range d.Postings {
				if p.Amount == nil {
					continue
				}
				if value, err := decimal.NewFromString(p.Amount.Value); err == nil {
					k := key{p.Account, p.Amount.Currency}
					running[k] = running[k].Add(value)
				}
			}

			// An elided posting absorbs the residual, with the same
			// inference the record view applies.
			if residuals, elided := residualByCurrency(d); elided >= 0 && len(residuals) == 1 {
				for currency, residual := range residuals {
					k := key{d.Postings[elided].Account, currency}
					running[k] = running[k].Sub(residual)
				}
			}

		case *ast.Balance:
			expected, err := decimal.NewFromString(d.Amount.Value)
			if err != nil {
				continue
			}
			actual := running[key{d.Account, d.Amount.Currency}]
			if !actual.Equal(expected) {
				b.Errors = append(b.Errors, fmt.Sprintf(
					"%s: balance failed for %s: expected %s %s, accumulated %s %s",
					position(d), d.Account,
					NumberString(expected), d.Amount.Currency,
					NumberString(actual), d.Amount.Currency,
				))
			}
		}
	}
}

func position(d ast.Directive) string {
	type positioned interface{ Position() ast.Position }
	if p, ok := d.(positioned); ok {
		pos := p.Position()
		if pos.Filename != "" {
			return fmt.Sprintf("%s:%d", pos.Filename, pos.Line)
		}
		return fmt.Sprintf("line %d", pos.Line)
	}
	return "unknown position"
}
