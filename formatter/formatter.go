// Package formatter renders an ast.AST back to ledger text.
//
// The default mode is canonical: every field is separated by a single
// space, accounts and amounts by exactly two. Canonical output is
// stable under a decode/encode round trip, which the store relies on
// when it rewrites a file after a mutation. An optional currency
// column aligns amounts the way bean-format does, for display and the
// fmt command.
package formatter

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/sjlouji/friday/ast"
)

const (
	// MinimumSpacing is the spacing between account and amount, and the
	// fixed spacing in canonical mode.
	MinimumSpacing = 2

	// DefaultIndentation is the indentation for postings and directive
	// metadata.
	DefaultIndentation = 2

	// DateWidth is the width of a formatted date (YYYY-MM-DD).
	DateWidth = 10

	// BalanceKeywordWidth is the width of "balance" plus one space.
	BalanceKeywordWidth = 8

	// PriceKeywordWidth is the width of "price" plus one space.
	PriceKeywordWidth = 6
)

// Formatter renders ledger files. The zero value produces canonical
// output.
type Formatter struct {
	// CurrencyColumn is the target column for currency alignment. Zero
	// means canonical mode with fixed two-space separation.
	CurrencyColumn int
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithCurrencyColumn aligns amounts so currencies start at the given
// column. Use AutoCurrencyColumn to derive a column from the content.
func WithCurrencyColumn(col int) Option {
	return func(f *Formatter) {
		f.CurrencyColumn = col
	}
}

// New creates a Formatter with the given options.
func New(opts ...Option) *Formatter {
	f := &Formatter{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// AutoCurrencyColumn computes a currency column wide enough for every
// amount in the tree. Account widths are measured in display cells, so
// wide Unicode segments stay aligned.
func AutoCurrencyColumn(tree *ast.AST) int {
	column := 0

	widen := func(prefix, value int) {
		if total := prefix + value; total > column {
			column = total
		}
	}

	for _, directive := range tree.Directives {
		switch d := directive.(type) {
		case *ast.Transaction:
			for _, posting := range d.Postings {
				if posting.Amount != nil {
					prefix := DefaultIndentation + runewidth.StringWidth(string(posting.Account)) + MinimumSpacing
					widen(prefix, len(posting.Amount.Value))
				}
			}
		case *ast.Balance:
			prefix := DateWidth + 1 + BalanceKeywordWidth + runewidth.StringWidth(string(d.Account)) + MinimumSpacing
			widen(prefix, len(d.Amount.Value))
		case *ast.Price:
			prefix := DateWidth + 1 + PriceKeywordWidth + runewidth.StringWidth(d.Commodity) + MinimumSpacing
			widen(prefix, len(d.Amount.Value))
		}
	}

	return column + MinimumSpacing
}

// Format renders the tree to w: options first, then directives in tree
// order. Transactions get a separating blank line; single-line
// directives run together. Options always render as a file header: an
// option written mid-file moves to the top on rewrite, since the tree
// keeps options apart from the directive stream.
func (f *Formatter) Format(tree *ast.AST, w io.Writer) error {
	var buf strings.Builder
	buf.Grow((len(tree.Options) + len(tree.Directives)) * 80)

	for _, opt := range tree.Options {
		f.formatOption(opt, &buf)
	}

	for i, directive := range tree.Directives {
		_, isTxn := directive.(*ast.Transaction)
		if isTxn && (i > 0 || len(tree.Options) > 0) {
			buf.WriteByte('\n')
		} else if !isTxn && i == 0 && len(tree.Options) > 0 {
			buf.WriteByte('\n')
		}
		f.formatDirective(directive, &buf)
	}

	_, err := io.WriteString(w, buf.String())
	return err
}

// FormatString renders the tree to a string.
func (f *Formatter) FormatString(tree *ast.AST) string {
	var buf strings.Builder
	_ = f.Format(tree, &buf)
	return buf.String()
}

// FormatDirective renders a single directive, without surrounding blank
// lines.
func (f *Formatter) FormatDirective(d ast.Directive) string {
	var buf strings.Builder
	f.formatDirective(d, &buf)
	return buf.String()
}

// FormatPosting renders a single posting line without its metadata.
// The importer uses this as the canonical posting text when building
// duplicate-detection keys.
func (f *Formatter) FormatPosting(p *ast.Posting) string {
	var buf strings.Builder
	f.formatPostingLine(p, &buf)
	return buf.String()
}

func (f *Formatter) formatDirective(d ast.Directive, buf *strings.Builder) {
	switch directive := d.(type) {
	case *ast.Open:
		f.formatOpen(directive, buf)
	case *ast.Close:
		f.formatClose(directive, buf)
	case *ast.Balance:
		f.formatBalance(directive, buf)
	case *ast.Price:
		f.formatPrice(directive, buf)
	case *ast.Transaction:
		f.formatTransaction(directive, buf)
	}
}

func (f *Formatter) formatOption(opt *ast.Option, buf *strings.Builder) {
	buf.WriteString("option \"")
	buf.WriteString(escapeString(opt.Name))
	buf.WriteString("\" \"")
	buf.WriteString(escapeString(opt.Value))
	buf.WriteString("\"\n")
}

func (f *Formatter) formatOpen(o *ast.Open, buf *strings.Builder) {
	buf.WriteString(o.Date.String())
	buf.WriteString(" open ")
	buf.WriteString(string(o.Account))

	if len(o.ConstraintCurrencies) > 0 {
		buf.WriteByte(' ')
		buf.WriteString(strings.Join(o.ConstraintCurrencies, ","))
	}

	buf.WriteByte('\n')
	f.formatMetadata(o.Metadata, DefaultIndentation, buf)
}

func (f *Formatter) formatClose(c *ast.Close, buf *strings.Builder) {
	buf.WriteString(c.Date.String())
	buf.WriteString(" close ")
	buf.WriteString(string(c.Account))
	buf.WriteByte('\n')
	f.formatMetadata(c.Metadata, DefaultIndentation, buf)
}

func (f *Formatter) formatBalance(b *ast.Balance, buf *strings.Builder) {
	buf.WriteString(b.Date.String())
	buf.WriteString(" balance ")
	buf.WriteString(string(b.Account))
	f.formatAmountAligned(b.Amount, lineWidth(buf), buf)
	buf.WriteByte('\n')
	f.formatMetadata(b.Metadata, DefaultIndentation, buf)
}

func (f *Formatter) formatPrice(p *ast.Price, buf *strings.Builder) {
	buf.WriteString(p.Date.String())
	buf.WriteString(" price ")
	buf.WriteString(p.Commodity)
	f.formatAmountAligned(p.Amount, lineWidth(buf), buf)
	buf.WriteByte('\n')
	f.formatMetadata(p.Metadata, DefaultIndentation, buf)
}

// formatTransaction renders the header line, transaction metadata, then
// each posting. Strings are re-quoted; the parser unquoted them.
func (f *Formatter) formatTransaction(t *ast.Transaction, buf *strings.Builder) {
	buf.WriteString(t.Date.String())
	buf.WriteByte(' ')
	buf.WriteString(t.Flag)

	if t.Payee != "" {
		buf.WriteString(" \"")
		buf.WriteString(escapeString(t.Payee))
		buf.WriteByte('"')
	}

	buf.WriteString(" \"")
	buf.WriteString(escapeString(t.Narration))
	buf.WriteString("\"\n")

	f.formatMetadata(t.Metadata, DefaultIndentation, buf)

	for _, posting := range t.Postings {
		f.formatPostingLine(posting, buf)
		f.formatMetadata(posting.Metadata, DefaultIndentation*2, buf)
	}
}

func (f *Formatter) formatPostingLine(p *ast.Posting, buf *strings.Builder) {
	buf.WriteString("  ")
	buf.WriteString(string(p.Account))

	if p.Amount != nil {
		f.formatAmountAligned(p.Amount, DefaultIndentation+runewidth.StringWidth(string(p.Account)), buf)

		if p.Cost != nil {
			buf.WriteString(" {")
			buf.WriteString(p.Cost.Amount.Value)
			buf.WriteByte(' ')
			buf.WriteString(p.Cost.Amount.Currency)
			if p.Cost.Date != nil {
				buf.WriteString(", ")
				buf.WriteString(p.Cost.Date.String())
			}
			buf.WriteByte('}')
		}

		if p.Price != nil {
			buf.WriteString(" @ ")
			buf.WriteString(p.Price.Value)
			buf.WriteByte(' ')
			buf.WriteString(p.Price.Currency)
		}
	}

	buf.WriteByte('\n')
}

// formatAmountAligned writes the amount after the current line prefix.
// Canonical mode uses fixed two-space separation; aligned mode pads so
// the currency starts at CurrencyColumn.
func (f *Formatter) formatAmountAligned(amount *ast.Amount, currentWidth int, buf *strings.Builder) {
	if amount == nil {
		return
	}

	padding := MinimumSpacing
	if f.CurrencyColumn > 0 {
		padding = f.CurrencyColumn - currentWidth - len(amount.Value)
		if padding < MinimumSpacing {
			padding = MinimumSpacing
		}
	}

	buf.WriteString(strings.Repeat(" ", padding))
	buf.WriteString(amount.Value)
	buf.WriteByte(' ')
	buf.WriteString(amount.Currency)
}

func (f *Formatter) formatMetadata(metadata []*ast.Metadata, indent int, buf *strings.Builder) {
	for _, m := range metadata {
		buf.WriteString(strings.Repeat(" ", indent))
		buf.WriteString(m.Key)
		buf.WriteString(": ")
		if m.Quoted {
			buf.WriteByte('"')
			buf.WriteString(escapeString(m.Value))
			buf.WriteByte('"')
		} else {
			buf.WriteString(m.Value)
		}
		buf.WriteByte('\n')
	}
}

// lineWidth returns the display width of the current (last) line in buf.
func lineWidth(buf *strings.Builder) int {
	s := buf.String()
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return runewidth.StringWidth(s)
}
