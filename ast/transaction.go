package ast

// Transaction records a financial event: a date, a flag (`*` cleared,
// `!` pending, `?` unverified), an optional payee, a narration, and an
// ordered list of postings. The double-entry invariant (postings sum to
// zero per currency) is not enforced at construction time; the ledger
// package surfaces violations as non-fatal errors after a load.
//
// Example:
//
//	2024-05-05 * "Cafe Mogador" "Lamb tagine with wine"
//	  Liabilities:CreditCard  -3745.00 INR
//	  Expenses:Food:Restaurant
type Transaction struct {
	Pos       Position
	Date      *Date
	Flag      string
	Payee     string
	Narration string

	withMetadata

	Postings []*Posting
}

var _ Directive = &Transaction{}

func (t *Transaction) Position() Position { return t.Pos }
func (t *Transaction) date() *Date        { return t.Date }
func (t *Transaction) Directive() string  { return "transaction" }

// Posting is one account/amount leg of a transaction. A nil Amount is a
// posting whose amount is left to be inferred from the other legs. Cost
// and Price are optional annotations.
type Posting struct {
	Pos     Position
	Account Account
	Amount  *Amount
	Cost    *Cost
	Price   *Amount

	withMetadata
}

// ValidFlag reports whether s is an accepted transaction flag: one of
// the conventional `*`, `!`, `?`, or a single capital letter left open
// for tooling-generated entries.
func ValidFlag(s string) bool {
	if len(s) != 1 {
		return false
	}
	switch s[0] {
	case '*', '!', '?':
		return true
	}
	return s[0] >= 'A' && s[0] <= 'Z'
}
