// Package parser implements a recursive descent parser for ledger
// files. The parser is error-recovering: a malformed entry is reported
// and skipped, and parsing resumes at the next entry, so one bad line
// never hides the rest of the file. Entries keep their file order; the
// parser never sorts.
package parser

import (
	"io"

	"github.com/sjlouji/friday/ast"
)

// Result is the outcome of a parse: the decoded tree plus any
// per-entry errors. Errors is empty for a clean file.
type Result struct {
	AST    *ast.AST
	Errors []*ParseError
}

// Parser is a recursive descent parser over the token stream produced
// by Lexer.
type Parser struct {
	source   []byte
	filename string
	tokens   []Token
	pos      int
	interner *Interner
	errors   []*ParseError
}

// NewParser creates a parser for the given source.
func NewParser(source []byte, filename string) *Parser {
	lexer := NewLexer(source, filename)
	return &Parser{
		source:   source,
		filename: filename,
		tokens:   lexer.ScanAll(),
		interner: lexer.Interner(),
	}
}

// Parse reads all of r and parses it.
func Parse(r io.Reader, filename string) (*Result, error) {
	source, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseBytes(source, filename), nil
}

// ParseBytes parses source bytes.
func ParseBytes(source []byte, filename string) *Result {
	return NewParser(source, filename).run()
}

// ParseString parses a source string.
func ParseString(source string) *Result {
	return ParseBytes([]byte(source), "")
}

// run is the top-level entry loop. Each iteration consumes one entry
// starting at column 1; a failed entry records its error and skips
// ahead to the next entry boundary.
func (p *Parser) run() *Result {
	tree := &ast.AST{}

	for !p.isAtEnd() {
		tok := p.peek()

		switch tok.Type {
		case OPTION:
			opt, err := p.parseOption()
			if err != nil {
				p.recordError(err)
				p.syncToNextEntry(tok.Line)
				continue
			}
			tree.Options = append(tree.Options, opt)

		case DATE:
			directive, err := p.parseDirective()
			if err != nil {
				p.recordError(err)
				p.syncToNextEntry(tok.Line)
				continue
			}
			tree.Directives = append(tree.Directives, directive)

		default:
			p.recordError(p.errorAtToken(tok, "unexpected %s %q at start of entry", tok.Type, tok.String(p.source)))
			p.syncToNextEntry(tok.Line)
		}
	}

	return &Result{AST: tree, Errors: p.errors}
}

// parseDirective parses one dated directive, dispatching on the keyword
// following the date.
func (p *Parser) parseDirective() (ast.Directive, error) {
	tok := p.peek()
	pos := tokenPosition(tok, p.filename)

	date, err := p.parseDate()
	if err != nil {
		return nil, err
	}

	switch p.peek().Type {
	case OPEN:
		return p.parseOpen(pos, date)
	case CLOSE:
		return p.parseClose(pos, date)
	case BALANCE:
		return p.parseBalance(pos, date)
	case PRICE:
		return p.parsePrice(pos, date)
	case TXN, ASTERISK, EXCLAIM, QUESTION:
		return p.parseTransaction(pos, date)
	default:
		next := p.peek()
		return nil, p.errorAtToken(next, "expected directive keyword or transaction flag, got %q", next.String(p.source))
	}
}

// parseOption parses: option "name" "value"
func (p *Parser) parseOption() (*ast.Option, error) {
	tok := p.consume(OPTION, "expected 'option'")

	name, err := p.parseString()
	if err != nil {
		return nil, err
	}

	value, err := p.parseString()
	if err != nil {
		return nil, err
	}

	return &ast.Option{
		Pos:   tokenPosition(tok, p.filename),
		Name:  name,
		Value: value,
	}, nil
}

func (p *Parser) recordError(err error) {
	if pe, ok := err.(*ParseError); ok {
		p.errors = append(p.errors, pe)
		return
	}
	p.errors = append(p.errors, newErrorf(tokenPosition(p.peek(), p.filename), "%v", err))
}

// syncToNextEntry skips tokens until the next entry boundary: a token
// at column 1 on a line after errLine. Indented continuation lines of
// the failed entry are discarded along with it.
func (p *Parser) syncToNextEntry(errLine int) {
	for !p.isAtEnd() {
		tok := p.peek()
		if tok.Line > errLine && tok.Column == 1 {
			return
		}
		p.advance()
	}
}
