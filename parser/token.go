package parser

// TokenType represents the type of token scanned from the input.
type TokenType uint8

const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL

	// Keywords
	TXN     // txn
	OPEN    // open
	CLOSE   // close
	BALANCE // balance
	PRICE   // price
	OPTION  // option

	// Literals
	DATE    // YYYY-MM-DD
	ACCOUNT // Assets:Bank:Checking
	STRING  // "quoted string"
	NUMBER  // 123.45 or -123.45
	IDENT   // USD, currency codes, metadata keys

	// Symbols
	ASTERISK // *
	EXCLAIM  // !
	QUESTION // ?
	COLON    // :
	COMMA    // ,
	AT       // @
	LBRACE   // {
	RBRACE   // }
)

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",

	TXN:     "txn",
	OPEN:    "open",
	CLOSE:   "close",
	BALANCE: "balance",
	PRICE:   "price",
	OPTION:  "option",

	DATE:    "DATE",
	ACCOUNT: "ACCOUNT",
	STRING:  "STRING",
	NUMBER:  "NUMBER",
	IDENT:   "IDENT",

	ASTERISK: "*",
	EXCLAIM:  "!",
	QUESTION: "?",
	COLON:    ":",
	COMMA:    ",",
	AT:       "@",
	LBRACE:   "{",
	RBRACE:   "}",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token is a lexical token with zero-copy semantics. Instead of storing
// the token text as a string, it stores byte offsets into the source
// buffer; the text is materialized only when needed.
type Token struct {
	Type   TokenType
	Start  int // Byte offset into source buffer
	End    int // End offset (exclusive)
	Line   int // Line number (1-indexed)
	Column int // Column number (1-indexed)
}

// String materializes the token text from the source buffer.
func (t Token) String(source []byte) string {
	if t.Start >= len(source) || t.End > len(source) || t.Start > t.End {
		return ""
	}
	return string(source[t.Start:t.End])
}

// Bytes returns a zero-copy view of the token text.
func (t Token) Bytes(source []byte) []byte {
	if t.Start >= len(source) || t.End > len(source) || t.Start > t.End {
		return nil
	}
	return source[t.Start:t.End]
}
