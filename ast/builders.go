package ast

// Constructor helpers used by code that builds directives
// programmatically, such as the store mutations and the tabular
// importer. Complex nodes take functional options.

// NewAmount creates an Amount from a decimal string and a currency
// code. No validation is performed on either.
func NewAmount(value, currency string) *Amount {
	return &Amount{Value: value, Currency: currency}
}

// NewMetadata creates a metadata key/value pair. The value is rendered
// unquoted; use NewQuotedMetadata for string-typed values.
func NewMetadata(key, value string) *Metadata {
	return &Metadata{Key: key, Value: value}
}

// NewQuotedMetadata creates a metadata pair whose value is rendered as
// a double-quoted string.
func NewQuotedMetadata(key, value string) *Metadata {
	return &Metadata{Key: key, Value: value, Quoted: true}
}

// TransactionOption configures a Transaction built with NewTransaction.
type TransactionOption func(*Transaction)

// NewTransaction creates a Transaction with the given date and
// narration. The flag defaults to "*" (cleared).
//
// Example:
//
//	txn := ast.NewTransaction(date, "Groceries",
//	    ast.WithPayee("Whole Foods"),
//	    ast.WithPostings(
//	        ast.NewPosting(expenses, ast.WithAmount("45.60", "USD")),
//	        ast.NewPosting(checking),
//	    ),
//	)
func NewTransaction(date *Date, narration string, opts ...TransactionOption) *Transaction {
	txn := &Transaction{
		Date:      date,
		Flag:      "*",
		Narration: narration,
	}
	for _, opt := range opts {
		opt(txn)
	}
	return txn
}

// WithFlag sets the transaction flag.
func WithFlag(flag string) TransactionOption {
	return func(t *Transaction) { t.Flag = flag }
}

// WithPayee sets the transaction payee.
func WithPayee(payee string) TransactionOption {
	return func(t *Transaction) { t.Payee = payee }
}

// WithPostings sets the transaction postings.
func WithPostings(postings ...*Posting) TransactionOption {
	return func(t *Transaction) { t.Postings = postings }
}

// WithTransactionMetadata adds metadata entries to the transaction.
func WithTransactionMetadata(metadata ...*Metadata) TransactionOption {
	return func(t *Transaction) { t.AddMetadata(metadata...) }
}

// PostingOption configures a Posting built with NewPosting.
type PostingOption func(*Posting)

// NewPosting creates a Posting for the given account. Without a
// WithAmount option the posting's amount is left to be inferred.
func NewPosting(account Account, opts ...PostingOption) *Posting {
	posting := &Posting{Account: account}
	for _, opt := range opts {
		opt(posting)
	}
	return posting
}

// WithAmount sets the posting amount.
func WithAmount(value, currency string) PostingOption {
	return func(p *Posting) { p.Amount = NewAmount(value, currency) }
}

// WithCost sets the posting cost annotation.
func WithCost(cost *Cost) PostingOption {
	return func(p *Posting) { p.Cost = cost }
}

// WithPrice sets the posting price annotation (the @ syntax).
func WithPrice(price *Amount) PostingOption {
	return func(p *Posting) { p.Price = price }
}

// NewOpen creates an Open directive. constraintCurrencies may be nil.
func NewOpen(date *Date, account Account, constraintCurrencies ...string) *Open {
	return &Open{
		Date:                 date,
		Account:              account,
		ConstraintCurrencies: constraintCurrencies,
	}
}

// NewClose creates a Close directive.
func NewClose(date *Date, account Account) *Close {
	return &Close{Date: date, Account: account}
}

// NewBalance creates a Balance assertion directive.
func NewBalance(date *Date, account Account, amount *Amount) *Balance {
	return &Balance{Date: date, Account: account, Amount: amount}
}

// NewPrice creates a Price directive.
func NewPrice(date *Date, commodity string, amount *Amount) *Price {
	return &Price{Date: date, Commodity: commodity, Amount: amount}
}

// NewOption creates an Option header directive.
func NewOption(name, value string) *Option {
	return &Option{Name: name, Value: value}
}
