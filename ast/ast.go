// Package ast declares the node types that represent the entries of a
// Friday ledger file: transactions, account lifecycle directives, balance
// assertions, price points and options. Nodes are produced by the parser
// package or constructed programmatically via the builders, and rendered
// back to text by the formatter package.
//
// Unlike a compiler AST, directive order is significant: the slice order
// of AST.Directives mirrors the file, and mutations depend on that order
// being preserved through a decode/encode round trip.
package ast

import (
	"golang.org/x/exp/slices"
)

// Directives is an ordered slice of Directive. The order is the file
// order, never a date order.
type Directives []Directive

// AST is a decoded ledger file.
type AST struct {
	Options    []*Option
	Directives Directives
}

// WithMetadata is implemented by nodes that carry metadata lines.
type WithMetadata interface {
	AddMetadata(...*Metadata)
}

// withMetadata is an embeddable implementation of WithMetadata.
type withMetadata struct {
	Metadata []*Metadata
}

func (w *withMetadata) AddMetadata(m ...*Metadata) {
	w.Metadata = append(w.Metadata, m...)
}

// Directive is the closed set of dated ledger entries. The concrete
// types are *Transaction, *Open, *Close, *Balance and *Price; consumers
// dispatch with a type switch over exactly those five.
type Directive interface {
	WithMetadata

	date() *Date
	Directive() string
}

// SortByDate orders directives by date, keeping the relative order of
// same-date entries (file order). The parser never calls this; it exists
// for callers that build reports over a hand-assembled AST.
func SortByDate(d Directives) {
	slices.SortStableFunc(d, func(a, b Directive) int {
		if a.date().Before(b.date().Time) {
			return -1
		}
		if a.date().After(b.date().Time) {
			return 1
		}
		return 0
	})
}

// Transactions returns the transactions of the AST in file order.
func (a *AST) Transactions() []*Transaction {
	txns := make([]*Transaction, 0, len(a.Directives))
	for _, d := range a.Directives {
		if t, ok := d.(*Transaction); ok {
			txns = append(txns, t)
		}
	}
	return txns
}

// Option value lookup, empty string when unset.
func (a *AST) Option(name string) string {
	for _, opt := range a.Options {
		if opt.Name == name {
			return opt.Value
		}
	}
	return ""
}
