package parser

// Lexer implements a zero-copy lexer for ledger files.
//
// The zero-copy approach:
// - Tokens store byte offsets, not string values
// - String interning for repeated values
// - Pre-allocated token buffer

import (
	"bytes"
)

// Lexer tokenizes ledger source text.
type Lexer struct {
	source   []byte    // Source buffer
	filename string    // Filename for error reporting
	pos      int       // Current byte position
	line     int       // Current line (1-indexed)
	column   int       // Current column (1-indexed)
	tokens   []Token   // Token buffer (pre-allocated)
	interner *Interner // String interning pool
}

// NewLexer creates a new lexer for the given source.
func NewLexer(source []byte, filename string) *Lexer {
	// Roughly one token per 20 bytes; pre-allocation avoids most
	// slice growth during the scan.
	estimatedTokens := len(source)/20 + 64

	internerCap := len(source) / 40
	if internerCap < 256 {
		internerCap = 256
	}

	return &Lexer{
		source:   source,
		filename: filename,
		line:     1,
		column:   1,
		tokens:   make([]Token, 0, estimatedTokens),
		interner: NewInterner(internerCap),
	}
}

// Interner returns the string interner, shared with the parser.
func (l *Lexer) Interner() *Interner {
	return l.interner
}

// ScanAll lexes the entire source and returns all tokens. Single pass,
// no backtracking. Comments and whitespace produce no tokens; the
// parser relies on the line and column recorded on each token to group
// lines into entries.
func (l *Lexer) ScanAll() []Token {
	for l.pos < len(l.source) {
		l.skipWhitespace()

		if l.pos >= len(l.source) {
			break
		}

		if l.peek() == ';' {
			l.skipComment()
			continue
		}

		tok := l.scanToken()
		l.tokens = append(l.tokens, tok)
	}

	l.tokens = append(l.tokens, Token{
		Type:   EOF,
		Start:  l.pos,
		End:    l.pos,
		Line:   l.line,
		Column: l.column,
	})

	return l.tokens
}

// scanToken scans the next token from the current position.
func (l *Lexer) scanToken() Token {
	start := l.pos
	startLine := l.line
	startCol := l.column

	ch := l.advance()

	switch {
	// Dates first: YYYY-MM-DD starts with a digit, so this must come
	// before number scanning.
	case ch >= '0' && ch <= '9':
		if l.isDatePattern(start) {
			return l.scanDate(start, startLine, startCol)
		}
		return l.scanNumber(start, startLine, startCol)
	case ch == '-' && l.peekIsDigit():
		return l.scanNumber(start, startLine, startCol)

	case ch == '"':
		return l.scanString(start, startLine, startCol)

	// Accounts (contain colons) or identifiers such as currency codes.
	// Bytes >= 0x80 allow Unicode letters in account segments.
	case ch >= 'A' && ch <= 'Z' || ch >= 0x80:
		return l.scanAccountOrIdent(start, startLine, startCol)

	case ch >= 'a' && ch <= 'z':
		return l.scanKeywordOrIdent(start, startLine, startCol)

	case ch == '*':
		return Token{ASTERISK, start, l.pos, startLine, startCol}
	case ch == '!':
		return Token{EXCLAIM, start, l.pos, startLine, startCol}
	case ch == '?':
		return Token{QUESTION, start, l.pos, startLine, startCol}
	case ch == ':':
		return Token{COLON, start, l.pos, startLine, startCol}
	case ch == ',':
		return Token{COMMA, start, l.pos, startLine, startCol}
	case ch == '@':
		return Token{AT, start, l.pos, startLine, startCol}
	case ch == '{':
		return Token{LBRACE, start, l.pos, startLine, startCol}
	case ch == '}':
		return Token{RBRACE, start, l.pos, startLine, startCol}

	default:
		return Token{ILLEGAL, start, l.pos, startLine, startCol}
	}
}

// isDatePattern checks if the position starts a date pattern YYYY-MM-DD.
func (l *Lexer) isDatePattern(start int) bool {
	if start+10 > len(l.source) {
		return false
	}

	src := l.source[start:]
	return src[0] >= '0' && src[0] <= '9' &&
		src[1] >= '0' && src[1] <= '9' &&
		src[2] >= '0' && src[2] <= '9' &&
		src[3] >= '0' && src[3] <= '9' &&
		src[4] == '-' &&
		src[5] >= '0' && src[5] <= '9' &&
		src[6] >= '0' && src[6] <= '9' &&
		src[7] == '-' &&
		src[8] >= '0' && src[8] <= '9' &&
		src[9] >= '0' && src[9] <= '9'
}

// scanDate scans a date: YYYY-MM-DD. First digit already consumed.
func (l *Lexer) scanDate(start, line, col int) Token {
	for i := 0; i < 9; i++ {
		l.advance()
	}
	return Token{DATE, start, l.pos, line, col}
}

// scanNumber scans a number: [-]?[0-9]+(\.[0-9]+)?
func (l *Lexer) scanNumber(start, line, col int) Token {
	for l.pos < len(l.source) && l.source[l.pos] >= '0' && l.source[l.pos] <= '9' {
		l.advance()
	}

	if l.pos < len(l.source) && l.source[l.pos] == '.' {
		// Only consume the point when a digit follows.
		if l.pos+1 < len(l.source) && l.source[l.pos+1] >= '0' && l.source[l.pos+1] <= '9' {
			l.advance()
			for l.pos < len(l.source) && l.source[l.pos] >= '0' && l.source[l.pos] <= '9' {
				l.advance()
			}
		}
	}

	return Token{NUMBER, start, l.pos, line, col}
}

// scanString scans a quoted string: "...". Strings do not span lines.
func (l *Lexer) scanString(start, line, col int) Token {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch == '"' {
			l.advance()
			break
		}
		if ch == '\n' {
			break
		}
		if ch == '\\' && l.pos+1 < len(l.source) {
			l.advance()
			l.advance()
		} else {
			l.advance()
		}
	}

	return Token{STRING, start, l.pos, line, col}
}

// scanAccountOrIdent scans an account name or identifier starting with a
// capital letter or Unicode character. Accounts contain colons
// (Assets:Bank:Checking), identifiers don't (USD).
func (l *Lexer) scanAccountOrIdent(start, line, col int) Token {
	hasColon := false

	for l.pos < len(l.source) {
		ch := l.source[l.pos]

		isASCIILetter := (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z')
		isDigit := ch >= '0' && ch <= '9'
		isUTF8 := ch >= 0x80
		isSpecial := ch == ':' || ch == '-'

		if !isASCIILetter && !isDigit && !isUTF8 && !isSpecial {
			break
		}

		if ch == ':' {
			hasColon = true
		}
		l.advance()
	}

	if hasColon {
		return Token{ACCOUNT, start, l.pos, line, col}
	}

	return Token{IDENT, start, l.pos, line, col}
}

// scanKeywordOrIdent scans a keyword or identifier starting with a
// lowercase letter.
func (l *Lexer) scanKeywordOrIdent(start, line, col int) Token {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if (ch < 'a' || ch > 'z') && (ch < 'A' || ch > 'Z') &&
			(ch < '0' || ch > '9') && ch != '_' && ch != '-' {
			break
		}
		l.advance()
	}

	word := l.source[start:l.pos]
	tokType := l.keywordType(word)

	return Token{tokType, start, l.pos, line, col}
}

// keywordType returns the token type for a keyword, or IDENT otherwise.
// Byte comparison avoids allocating strings during the scan.
func (l *Lexer) keywordType(word []byte) TokenType {
	switch {
	case bytes.Equal(word, []byte("txn")):
		return TXN
	case bytes.Equal(word, []byte("open")):
		return OPEN
	case bytes.Equal(word, []byte("close")):
		return CLOSE
	case bytes.Equal(word, []byte("balance")):
		return BALANCE
	case bytes.Equal(word, []byte("price")):
		return PRICE
	case bytes.Equal(word, []byte("option")):
		return OPTION
	default:
		return IDENT
	}
}

// skipWhitespace skips whitespace and updates line/column tracking.
func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch != ' ' && ch != '\t' && ch != '\n' && ch != '\r' {
			break
		}
		if ch == '\n' {
			l.line++
			l.column = 1
			l.pos++
		} else {
			l.column++
			l.pos++
		}
	}
}

// skipComment skips a comment line (;...).
func (l *Lexer) skipComment() {
	for l.pos < len(l.source) && l.source[l.pos] != '\n' {
		l.pos++
	}
	if l.pos < len(l.source) && l.source[l.pos] == '\n' {
		l.pos++
		l.line++
		l.column = 1
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peekIsDigit() bool {
	if l.pos >= len(l.source) {
		return false
	}
	ch := l.source[l.pos]
	return ch >= '0' && ch <= '9'
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	ch := l.source[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}
