package ledger

import (
	"strings"

	"golang.org/x/exp/slices"
)

// FilterToken is one clause of the token filter DSL. Operators accept
// both the word form used in this API and the short form used by the
// web client: "contains"/":", "not-contains"/"!:", "equals"/"=",
// "not-equals"/"!=".
type FilterToken struct {
	PropertyKey string `json:"propertyKey"`
	Operator    string `json:"operator"`
	Value       string `json:"value"`
}

// Query describes one search over the transactions of a Book: an
// optional free-text filter, token filters combined with a single
// boolean mode, an optional sort, and 1-indexed pagination.
type Query struct {
	FreeText  string
	Tokens    []FilterToken
	Operation string // "and" (default) or "or"

	SortField      string // date, payee, narration or accounts
	SortDescending bool

	Page     int
	PageSize int
}

// Pagination describes the window a Page covers.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
	TotalPages  int `json:"totalPages"`
	TotalCount  int `json:"totalCount"`
}

// Page is one window of query results.
type Page struct {
	Transactions []Transaction `json:"transactions"`
	Pagination   Pagination    `json:"pagination"`
}

// Search filters, sorts and paginates the Book's transactions. It is
// pure: the Book is not modified and no I/O happens.
func (b *Book) Search(q Query) Page {
	matched := b.filter(q)

	if q.SortField != "" {
		sortTransactions(matched, q.SortField, q.SortDescending)
	}

	return paginate(matched, q.Page, q.PageSize)
}

func (b *Book) filter(q Query) []Transaction {
	matched := make([]Transaction, 0, len(b.Transactions))

	freeText := strings.ToLower(strings.TrimSpace(q.FreeText))

	for _, t := range b.Transactions {
		if freeText != "" && !matchesFreeText(t, freeText) {
			continue
		}
		if len(q.Tokens) > 0 && !matchesTokens(t, q.Tokens, q.Operation) {
			continue
		}
		matched = append(matched, t)
	}

	return matched
}

// matchesFreeText reports whether the text occurs in the payee, the
// narration or any posting account, case-insensitively.
func matchesFreeText(t Transaction, text string) bool {
	if strings.Contains(strings.ToLower(t.Payee), text) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Narration), text) {
		return true
	}
	for _, p := range t.Postings {
		if strings.Contains(strings.ToLower(p.Account), text) {
			return true
		}
	}
	return false
}

func matchesTokens(t Transaction, tokens []FilterToken, operation string) bool {
	if operation == "or" {
		for _, token := range tokens {
			if matchesToken(t, token) {
				return true
			}
		}
		return false
	}

	for _, token := range tokens {
		if !matchesToken(t, token) {
			return false
		}
	}
	return true
}

func matchesToken(t Transaction, token FilterToken) bool {
	var value string

	switch token.PropertyKey {
	case "payee":
		value = strings.ToLower(t.Payee)
	case "narration":
		value = strings.ToLower(t.Narration)
	case "account", "accounts":
		value = strings.ToLower(joinAccounts(t))
	case "type":
		value = transactionType(t)
	default:
		// Unknown keys match everything rather than filtering the
		// whole result away.
		return true
	}

	needle := strings.ToLower(token.Value)

	switch token.Operator {
	case "contains", ":":
		return strings.Contains(value, needle)
	case "not-contains", "!:":
		return !strings.Contains(value, needle)
	case "equals", "=":
		return value == needle
	case "not-equals", "!=":
		return value != needle
	}
	return true
}

// transactionType classifies a transaction by its posting accounts:
// income wins over expense when both are present.
func transactionType(t Transaction) string {
	isIncome, isExpense := false, false
	for _, p := range t.Postings {
		if strings.HasPrefix(p.Account, "Income") {
			isIncome = true
		}
		if strings.HasPrefix(p.Account, "Expenses") {
			isExpense = true
		}
	}
	switch {
	case isIncome:
		return "income"
	case isExpense:
		return "expense"
	default:
		return "other"
	}
}

func joinAccounts(t Transaction) string {
	accounts := make([]string, 0, len(t.Postings))
	for _, p := range t.Postings {
		accounts = append(accounts, p.Account)
	}
	return strings.Join(accounts, " ")
}

func sortTransactions(transactions []Transaction, field string, descending bool) {
	key := func(t Transaction) string {
		switch strings.ToLower(field) {
		case "date":
			return t.Date
		case "payee":
			return strings.ToLower(t.Payee)
		case "narration":
			return strings.ToLower(t.Narration)
		case "accounts":
			return strings.ToLower(joinAccounts(t))
		default:
			return ""
		}
	}

	slices.SortStableFunc(transactions, func(a, b Transaction) int {
		result := strings.Compare(key(a), key(b))
		if descending {
			return -result
		}
		return result
	})
}

// paginate slices the 1-indexed page window out of the transactions.
// Out-of-range pages yield an empty slice, never an error.
func paginate(transactions []Transaction, page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 25
	}

	totalCount := len(transactions)
	totalPages := 1
	if totalCount > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > totalCount {
		start = totalCount
	}
	if end > totalCount {
		end = totalCount
	}

	return Page{
		Transactions: transactions[start:end],
		Pagination: Pagination{
			CurrentPage: page,
			PageSize:    pageSize,
			TotalPages:  totalPages,
			TotalCount:  totalCount,
		},
	}
}
