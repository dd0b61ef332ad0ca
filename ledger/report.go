package ledger

import (
	"github.com/shopspring/decimal"
)

// Report aggregation over a Book. Sums are kept in decimals until the
// end and returned as float64 for the JSON layer. Currencies are mixed
// as plain numbers without conversion; single-currency ledgers are the
// expected case.

// Dashboard is the landing-page summary.
type Dashboard struct {
	NetWorth         float64       `json:"netWorth"`
	TotalAssets      float64       `json:"totalAssets"`
	TotalLiabilities float64       `json:"totalLiabilities"`
	Transactions     []Transaction `json:"transactions"`
	Accounts         []Account     `json:"accounts"`
	Errors           []string      `json:"errors,omitempty"`
}

// AccountBalance is one line of a balance sheet.
type AccountBalance struct {
	Account string  `json:"account"`
	Balance float64 `json:"balance"`
}

// BalanceSheet groups asserted balances by account type.
type BalanceSheet struct {
	Assets      []AccountBalance `json:"assets"`
	Liabilities []AccountBalance `json:"liabilities"`
	Equity      []AccountBalance `json:"equity"`
	Errors      []string         `json:"errors,omitempty"`
}

// AccountTotal is one line of an income statement.
type AccountTotal struct {
	Account string  `json:"account"`
	Total   float64 `json:"total"`
}

// IncomeStatement sums posting amounts per Income/Expenses account over
// an inclusive date range.
type IncomeStatement struct {
	Income   []AccountTotal `json:"income"`
	Expenses []AccountTotal `json:"expenses"`
	Errors   []string       `json:"errors,omitempty"`
}

// GetDashboard computes net worth from asserted balances of Assets and
// Liabilities accounts and returns the five most recent transactions.
func (b *Book) GetDashboard() Dashboard {
	assets := b.sumBalancesByType("Assets")
	liabilities := b.sumBalancesByType("Liabilities")

	recent := b.Transactions
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}

	totalAssets, _ := assets.Float64()
	totalLiabilities, _ := liabilities.Float64()
	netWorth, _ := assets.Sub(liabilities).Float64()

	return Dashboard{
		NetWorth:         netWorth,
		TotalAssets:      totalAssets,
		TotalLiabilities: totalLiabilities,
		Transactions:     recent,
		Accounts:         b.Accounts,
		Errors:           b.Errors,
	}
}

func (b *Book) sumBalancesByType(accountType string) decimal.Decimal {
	total := decimal.Zero
	for _, assertion := range b.Balances {
		if b.accountOfType(assertion.Account, accountType) {
			if value, err := decimal.NewFromString(assertion.Amount.Number); err == nil {
				total = total.Add(value)
			}
		}
	}
	return total
}

func (b *Book) accountOfType(name, accountType string) bool {
	for _, account := range b.Accounts {
		if account.Name == name && account.Type == accountType {
			return true
		}
	}
	return false
}

// GetBalanceSheet sums each account's balance assertions and groups the
// results by account type.
func (b *Book) GetBalanceSheet() BalanceSheet {
	sheet := BalanceSheet{
		Assets:      []AccountBalance{},
		Liabilities: []AccountBalance{},
		Equity:      []AccountBalance{},
		Errors:      b.Errors,
	}

	for _, account := range b.Accounts {
		total := decimal.Zero
		for _, assertion := range b.Balances {
			if assertion.Account == account.Name {
				if value, err := decimal.NewFromString(assertion.Amount.Number); err == nil {
					total = total.Add(value)
				}
			}
		}

		balance, _ := total.Float64()
		line := AccountBalance{Account: account.Name, Balance: balance}

		switch account.Type {
		case "Assets":
			sheet.Assets = append(sheet.Assets, line)
		case "Liabilities":
			sheet.Liabilities = append(sheet.Liabilities, line)
		case "Equity":
			sheet.Equity = append(sheet.Equity, line)
		}
	}

	return sheet
}

// GetIncomeStatement sums posting amounts per Income and Expenses
// account over transactions dated within [startDate, endDate]. Dates
// are ISO 8601 strings, so the range check is a string comparison.
func (b *Book) GetIncomeStatement(startDate, endDate string) IncomeStatement {
	statement := IncomeStatement{
		Income:   []AccountTotal{},
		Expenses: []AccountTotal{},
		Errors:   b.Errors,
	}

	for _, account := range b.Accounts {
		if account.Type != "Income" && account.Type != "Expenses" {
			continue
		}

		total := decimal.Zero
		for _, t := range b.Transactions {
			if t.Date < startDate || t.Date > endDate {
				continue
			}
			for _, p := range t.Postings {
				if p.Account == account.Name && p.Amount != nil {
					if value, err := decimal.NewFromString(p.Amount.Number); err == nil {
						total = total.Add(value)
					}
				}
			}
		}

		value, _ := total.Float64()
		line := AccountTotal{Account: account.Name, Total: value}

		if account.Type == "Income" {
			statement.Income = append(statement.Income, line)
		} else {
			statement.Expenses = append(statement.Expenses, line)
		}
	}

	return statement
}
