package ast

// Open declares the opening of an account at a specific date, with an
// optional list of currencies the account is constrained to.
//
// Example:
//
//	2024-01-01 open Assets:Bank:Checking INR
type Open struct {
	Pos                  Position
	Date                 *Date
	Account              Account
	ConstraintCurrencies []string

	withMetadata
}

var _ Directive = &Open{}

func (o *Open) Position() Position { return o.Pos }
func (o *Open) date() *Date        { return o.Date }
func (o *Open) Directive() string  { return "open" }

// Close declares the closing of an account. It is not a first-class
// queryable entity; the ledger package folds it into the close date of
// the matching Open.
//
// Example:
//
//	2025-09-23 close Assets:Bank:Checking
type Close struct {
	Pos     Position
	Date    *Date
	Account Account

	withMetadata
}

var _ Directive = &Close{}

func (c *Close) Position() Position { return c.Pos }
func (c *Close) date() *Date        { return c.Date }
func (c *Close) Directive() string  { return "close" }

// Balance asserts that an account holds a specific balance at the start
// of the given date. It is an assertion, not a transaction.
//
// Example:
//
//	2024-08-09 balance Assets:Bank:Checking 56200.00 INR
type Balance struct {
	Pos     Position
	Date    *Date
	Account Account
	Amount  *Amount

	withMetadata
}

var _ Directive = &Balance{}

func (b *Balance) Position() Position { return b.Pos }
func (b *Balance) date() *Date        { return b.Date }
func (b *Balance) Directive() string  { return "balance" }

// Price records an exchange-rate quote for a commodity at a date.
//
// Example:
//
//	2024-07-09 price USD 83.52 INR
type Price struct {
	Pos       Position
	Date      *Date
	Commodity string
	Amount    *Amount

	withMetadata
}

var _ Directive = &Price{}

func (p *Price) Position() Position { return p.Pos }
func (p *Price) date() *Date        { return p.Date }
func (p *Price) Directive() string  { return "price" }

// Option is a file-level configuration line such as the operating
// currency. Options are not dated and therefore not Directives.
//
// Example:
//
//	option "operating_currency" "INR"
type Option struct {
	Pos   Position
	Name  string
	Value string
}
