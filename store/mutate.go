package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sjlouji/friday/ast"
	"github.com/sjlouji/friday/ledger"
	"github.com/sjlouji/friday/parser"
)

// AmountDraft is the incoming representation of a posting amount.
type AmountDraft struct {
	Number   string `json:"number"`
	Currency string `json:"currency"`
}

// PostingDraft is one leg of an incoming transaction. A nil or empty
// Amount renders as a bare account line, leaving the amount to be
// inferred on reload.
type PostingDraft struct {
	Account string       `json:"account"`
	Amount  *AmountDraft `json:"amount"`
}

// TransactionDraft is the incoming representation of a transaction to
// create or to replace an existing one with.
type TransactionDraft struct {
	Date      string         `json:"date"`
	Flag      string         `json:"flag"`
	Payee     string         `json:"payee"`
	Narration string         `json:"narration"`
	Postings  []PostingDraft `json:"postings"`
}

// MutationResult pairs the freshly reloaded transaction with the soft
// errors the reload surfaced. Errors being non-empty does not mean the
// mutation failed; the write landed, the book just has problems.
type MutationResult struct {
	Transaction *ledger.Transaction `json:"transaction"`
	Errors      []string            `json:"errors,omitempty"`
}

// draftTransaction validates the draft and builds its parse-tree node.
// Only the date and the posting accounts are checked here; whether the
// transaction balances or references open accounts is deliberately
// left to the reload, which reports such problems as soft errors.
func draftTransaction(draft TransactionDraft) (*ast.Transaction, error) {
	date, err := ast.NewDate(draft.Date)
	if err != nil {
		return nil, validationf("invalid transaction date %q", draft.Date)
	}

	postings := make([]*ast.Posting, 0, len(draft.Postings))
	for _, p := range draft.Postings {
		if p.Account == "" {
			return nil, validationf("posting account is required")
		}

		var opts []ast.PostingOption
		if p.Amount != nil && p.Amount.Number != "" {
			opts = append(opts, ast.WithAmount(p.Amount.Number, p.Amount.Currency))
		}
		postings = append(postings, ast.NewPosting(ast.Account(p.Account), opts...))
	}

	opts := []ast.TransactionOption{ast.WithPostings(postings...)}
	if draft.Flag != "" {
		opts = append(opts, ast.WithFlag(draft.Flag))
	}
	if draft.Payee != "" {
		opts = append(opts, ast.WithPayee(draft.Payee))
	}

	return ast.NewTransaction(date, draft.Narration, opts...), nil
}

// CreateTransaction renders the draft, appends it to the ledger, and
// reloads. The returned transaction is the last one of the reloaded
// book, carrying its derived identity.
func (s *Store) CreateTransaction(path string, draft TransactionDraft) (*MutationResult, error) {
	txn, err := draftTransaction(draft)
	if err != nil {
		return nil, err
	}

	filename, err := s.ResolvePath(path)
	if err != nil {
		return nil, err
	}

	lock := s.pathLock(filename)
	lock.Lock()
	err = s.appendLocked(filename, "\n"+s.formatter.FormatDirective(txn))
	lock.Unlock()
	if err != nil {
		return nil, err
	}

	s.logger.Info("transaction created", "path", filename, "date", draft.Date)

	return s.reload(filename, nil)
}

// UpdateTransaction replaces the transaction whose identity equals id:
// it is dropped from the tree, the remaining entries are re-rendered in
// their original order, and the new rendering is appended before the
// atomic rewrite. Errors from the pre-rewrite decode and from the
// reload are both returned.
func (s *Store) UpdateTransaction(path, id string, draft TransactionDraft) (*MutationResult, error) {
	txn, err := draftTransaction(draft)
	if err != nil {
		return nil, err
	}

	filename, err := s.ResolvePath(path)
	if err != nil {
		return nil, err
	}

	lock := s.pathLock(filename)
	lock.Lock()
	defer lock.Unlock()

	result, err := s.decode(filename)
	if err != nil {
		return nil, err
	}

	kept, removed := dropByID(result.AST.Directives, id)
	if !removed {
		return nil, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}

	result.AST.Directives = append(kept, txn)
	if err := s.rewriteLocked(filename, result.AST); err != nil {
		return nil, err
	}

	s.logger.Info("transaction updated", "path", filename, "id", id)

	return s.reload(filename, errorStrings(result.Errors))
}

// DeleteTransaction removes the transaction whose identity equals id
// and rewrites the remaining entries in their original order. An id
// that matches nothing is ErrNotFound and the file is left untouched.
func (s *Store) DeleteTransaction(path, id string) ([]string, error) {
	filename, err := s.ResolvePath(path)
	if err != nil {
		return nil, err
	}

	lock := s.pathLock(filename)
	lock.Lock()
	defer lock.Unlock()

	result, err := s.decode(filename)
	if err != nil {
		return nil, err
	}

	kept, removed := dropByID(result.AST.Directives, id)
	if !removed {
		return nil, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}

	result.AST.Directives = kept
	if err := s.rewriteLocked(filename, result.AST); err != nil {
		return nil, err
	}

	s.logger.Info("transaction deleted", "path", filename, "id", id)

	return errorStrings(result.Errors), nil
}

// dropByID removes the first transaction whose identity equals id.
// Explicit id metadata takes precedence over the derived identity, as
// TransactionID does.
func dropByID(directives ast.Directives, id string) (ast.Directives, bool) {
	kept := make(ast.Directives, 0, len(directives))
	removed := false

	for _, directive := range directives {
		if t, ok := directive.(*ast.Transaction); ok && !removed && ledger.TransactionID(t) == id {
			removed = true
			continue
		}
		kept = append(kept, directive)
	}

	return kept, removed
}

// AccountDraft is the incoming representation of an account to open.
type AccountDraft struct {
	Name     string `json:"name"`
	OpenDate string `json:"openDate"`
	Currency string `json:"currency"`
}

// CreateAccount appends an open directive for the account. The name
// must be colon-delimited and is normalized segment by segment; an
// account that already has an open directive is ErrExists.
func (s *Store) CreateAccount(path string, draft AccountDraft) (*ledger.Book, error) {
	if !containsColon(draft.Name) {
		return nil, validationf("account name %q must use colon separators, like Assets:Bank:Checking", draft.Name)
	}

	name, err := ledger.NormalizeAccount(draft.Name)
	if err != nil {
		return nil, validationf("%s", err)
	}

	date, err := ast.NewDate(draft.OpenDate)
	if err != nil {
		return nil, validationf("invalid open date %q", draft.OpenDate)
	}

	currency := draft.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	filename, err := s.ResolvePath(path)
	if err != nil {
		return nil, err
	}

	lock := s.pathLock(filename)
	lock.Lock()
	defer lock.Unlock()

	if result, err := s.decode(filename); err == nil {
		for _, directive := range result.AST.Directives {
			if open, ok := directive.(*ast.Open); ok && string(open.Account) == name {
				return nil, fmt.Errorf("account %s: %w", name, ErrExists)
			}
		}
	}

	open := ast.NewOpen(date, ast.Account(name), currency)
	if err := s.appendLocked(filename, s.formatter.FormatDirective(open)); err != nil {
		return nil, err
	}

	s.logger.Info("account created", "path", filename, "account", name)

	return s.Load(filename)
}

func containsColon(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return true
		}
	}
	return false
}

// CreateFile seeds a new ledger with the standard account catalog.
// An existing file is ErrExists, never overwritten.
func (s *Store) CreateFile(path string) (string, error) {
	filename, err := s.ResolvePath(path)
	if err != nil {
		return "", err
	}

	lock := s.pathLock(filename)
	lock.Lock()
	defer lock.Unlock()

	if _, err := os.Stat(filename); err == nil {
		return "", fmt.Errorf("file %s: %w", filename, ErrExists)
	}

	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	today := time.Now().Format("2006-01-02")
	if err := writeFileAtomic(filename, []byte(ledgerTemplate(today, s.defaultCurrency))); err != nil {
		return "", err
	}

	s.logger.Info("ledger file created", "path", filename)

	return filename, nil
}

// reload loads the book after a mutation and shapes the result: the
// last transaction of the reloaded book plus the union of preErrors
// and the reload's own errors.
func (s *Store) reload(filename string, preErrors []string) (*MutationResult, error) {
	book, err := s.Load(filename)
	if err != nil {
		return nil, err
	}

	result := &MutationResult{Errors: mergeErrors(preErrors, book.Errors)}
	if n := len(book.Transactions); n > 0 {
		last := book.Transactions[n-1]
		result.Transaction = &last
	}
	return result, nil
}

func errorStrings(errs []*parser.ParseError) []string {
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}

// mergeErrors concatenates and drops duplicates: entries broken before
// the mutation are usually still broken after the reload, and showing
// them twice helps no one.
func mergeErrors(pre, post []string) []string {
	if len(pre) == 0 {
		return post
	}

	seen := make(map[string]bool, len(pre))
	merged := make([]string, 0, len(pre)+len(post))
	for _, msg := range pre {
		seen[msg] = true
		merged = append(merged, msg)
	}
	for _, msg := range post {
		if !seen[msg] {
			merged = append(merged, msg)
		}
	}
	return merged
}
