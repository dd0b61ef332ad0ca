package ast

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Amount is a numerical value with its currency. The value is stored as
// the exact decimal string from the input to avoid floating-point
// drift; arithmetic happens in the ledger package with decimals.
type Amount struct {
	Value    string
	Currency string
}

func (a *Amount) String() string {
	return a.Value + " " + a.Currency
}

// Cost is the acquisition-cost annotation of a posting, e.g.
// {518.73 USD} or {518.73 USD, 2024-05-01}.
type Cost struct {
	Amount *Amount
	Date   *Date
}

// Account is a colon-delimited hierarchical account name such as
// Assets:Bank:Checking. The first segment is the account root; roots
// outside the five conventional categories are accepted here and
// classified by the ledger package.
type Account string

// accountRegex validates the overall shape: at least two segments, each
// starting with an uppercase letter or digit.
var accountRegex = regexp.MustCompile(`^[A-Z][A-Za-z0-9-]*(:[A-Z0-9][A-Za-z0-9-]*)+$`)

// Valid reports whether the account name is well formed.
func (a Account) Valid() bool {
	return accountRegex.MatchString(string(a))
}

// Root returns the first segment of the account name.
func (a Account) Root() string {
	if i := strings.IndexByte(string(a), ':'); i >= 0 {
		return string(a)[:i]
	}
	return string(a)
}

// Date is a calendar date (no time component) in ISO 8601 form.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate parses an ISO 8601 date (YYYY-MM-DD).
func NewDate(s string) (*Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %s", s)
	}
	return &Date{Time: t}, nil
}

// MustDate parses a date and panics on failure. For tests and fixtures.
func MustDate(s string) *Date {
	d, err := NewDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// IsZero is nil-safe so optional dates can be checked without guards.
func (d *Date) IsZero() bool {
	return d == nil || d.Time.IsZero()
}

// Metadata is a key/value line attached to a directive or posting.
// Quoted records whether the value was a quoted string in the source,
// so re-encoding keeps the original type.
type Metadata struct {
	Key    string
	Value  string
	Quoted bool
}

// MetadataMap flattens metadata lines into a string map. Later keys win.
func MetadataMap(meta []*Metadata) map[string]string {
	if len(meta) == 0 {
		return nil
	}
	m := make(map[string]string, len(meta))
	for _, entry := range meta {
		m[entry.Key] = entry.Value
	}
	return m
}
