package parser

import (
	"strconv"

	"github.com/sjlouji/friday/ast"
)

// Helper parsing methods shared by the directive parsers.

// parseDate parses a DATE token into *ast.Date.
func (p *Parser) parseDate() (*ast.Date, error) {
	tok := p.expect(DATE, "expected date")
	if tok.Type == ILLEGAL {
		return nil, p.error("expected date")
	}

	date, err := ast.NewDate(tok.String(p.source))
	if err != nil {
		return nil, p.errorAtToken(tok, "%v", err)
	}

	return date, nil
}

// parseAccount parses an ACCOUNT token into ast.Account. The account
// name is interned: ledgers repeat the same handful of accounts.
func (p *Parser) parseAccount() (ast.Account, error) {
	tok := p.expect(ACCOUNT, "expected account")
	if tok.Type == ILLEGAL {
		actual := p.peek()
		return "", p.errorAtToken(actual, "expected account but got %s %q", actual.Type, actual.String(p.source))
	}

	account := ast.Account(p.interner.InternBytes(tok.Bytes(p.source)))
	if !account.Valid() {
		return "", p.errorAtToken(tok, "invalid account name %q", string(account))
	}

	return account, nil
}

// parseAmount parses: NUMBER CURRENCY
func (p *Parser) parseAmount() (*ast.Amount, error) {
	numTok := p.expect(NUMBER, "expected number")
	if numTok.Type == ILLEGAL {
		return nil, p.error("expected number")
	}

	currTok := p.expect(IDENT, "expected currency")
	if currTok.Type == ILLEGAL {
		return nil, p.error("expected currency")
	}

	return &ast.Amount{
		Value:    numTok.String(p.source),
		Currency: p.interner.InternBytes(currTok.Bytes(p.source)),
	}, nil
}

// parseString parses a STRING token and unquotes it.
func (p *Parser) parseString() (string, error) {
	tok := p.expect(STRING, "expected string")
	if tok.Type == ILLEGAL {
		actual := p.peek()
		return "", p.errorAtToken(actual, "expected string but got %s %q", actual.Type, actual.String(p.source))
	}

	return unquoteString(tok.String(p.source)), nil
}

// parseIdent parses an IDENT token.
func (p *Parser) parseIdent() (string, error) {
	tok := p.expect(IDENT, "expected identifier")
	if tok.Type == ILLEGAL {
		return "", p.error("expected identifier")
	}

	return p.interner.InternBytes(tok.Bytes(p.source)), nil
}

// metadataKeyToken reports whether the token can start a metadata
// line. The lexer types keyword words before context is known, so keys
// like "price" or "balance" arrive as keyword tokens, not IDENT.
func metadataKeyToken(t TokenType) bool {
	switch t {
	case IDENT, TXN, OPEN, CLOSE, BALANCE, PRICE, OPTION:
		return true
	}
	return false
}

// parseMetadata parses indented metadata lines (key: value) following a
// directive or posting on line ownerLine. A key is an identifier-like
// token followed by a COLON on an indented line; anything else ends the
// metadata block.
func (p *Parser) parseMetadata(ownerLine int) []*ast.Metadata {
	var metadata []*ast.Metadata

	for {
		keyTok := p.peek()

		isKey := metadataKeyToken(keyTok.Type) &&
			keyTok.Line > ownerLine &&
			keyTok.Column > 1 &&
			p.peekAhead(1).Type == COLON &&
			p.peekAhead(1).Line == keyTok.Line

		if !isKey {
			break
		}

		p.advance()
		colon := p.advance()

		raw := p.parseRestOfLine(colon.End)
		value, quoted := unquoteStringDetect(raw)

		metadata = append(metadata, &ast.Metadata{
			Key:    p.interner.InternBytes(keyTok.Bytes(p.source)),
			Value:  value,
			Quoted: quoted,
		})

		ownerLine = keyTok.Line
	}

	return metadata
}

// parseRestOfLine consumes all tokens until end of line and returns the
// source text between them, with the literal spacing reconstructed.
// prevEnd is the end offset of the previously consumed token.
func (p *Parser) parseRestOfLine(prevEnd int) string {
	if p.isAtEnd() {
		return ""
	}

	currentLine := p.peek().Line
	lastEnd := prevEnd

	for !p.isAtEnd() && p.peek().Line == currentLine {
		tok := p.advance()
		lastEnd = tok.End
	}

	if lastEnd <= prevEnd {
		return ""
	}

	return trimSpace(string(p.source[prevEnd:lastEnd]))
}

func trimSpace(s string) string {
	start := 0
	for start < len(s) && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	end := len(s)
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t' || s[end-1] == '\r') {
		end--
	}
	return s[start:end]
}

// unquoteString removes surrounding quotes from a string literal.
func unquoteString(s string) string {
	v, _ := unquoteStringDetect(s)
	return v
}

// unquoteStringDetect unquotes s when it is a quoted literal and
// reports whether it was quoted, so metadata values keep their type
// through a round trip.
func unquoteStringDetect(s string) (string, bool) {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		if unquoted, err := strconv.Unquote(s); err == nil {
			return unquoted, true
		}
		return s[1 : len(s)-1], true
	}
	return s, false
}

// Token navigation

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAhead(n int) Token {
	pos := p.pos + n
	if pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[pos]
}

func (p *Parser) previous() Token {
	if p.pos == 0 {
		return Token{Type: ILLEGAL}
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == EOF
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Type == typ
}

func (p *Parser) match(types ...TokenType) bool {
	for _, typ := range types {
		if p.check(typ) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) consume(typ TokenType, message string) Token {
	if p.check(typ) {
		return p.advance()
	}
	return Token{Type: ILLEGAL}
}

func (p *Parser) expect(typ TokenType, message string) Token {
	return p.consume(typ, message)
}

// Error helpers

func (p *Parser) errorAtToken(tok Token, format string, args ...interface{}) error {
	return newErrorf(tokenPosition(tok, p.filename), format, args...)
}

func (p *Parser) error(format string, args ...interface{}) error {
	return p.errorAtToken(p.peek(), format, args...)
}

func tokenPosition(tok Token, filename string) ast.Position {
	return ast.Position{
		Filename: filename,
		Line:     tok.Line,
		Column:   tok.Column,
	}
}
