package parser

import "github.com/sjlouji/friday/ast"

// Transaction parsing. Transactions are the one multi-line directive:
// the header line is followed by indented postings, and both the header
// and each posting can carry indented metadata lines.

// parseTransaction parses a transaction:
// DATE [txn] FLAG [PAYEE] NARRATION
//
//	POSTING*
func (p *Parser) parseTransaction(pos ast.Position, date *ast.Date) (*ast.Transaction, error) {
	txn := &ast.Transaction{
		Pos:  pos,
		Date: date,
	}

	// Optional 'txn' keyword before the flag.
	p.match(TXN)

	switch {
	case p.match(ASTERISK):
		txn.Flag = "*"
	case p.match(EXCLAIM):
		txn.Flag = "!"
	case p.match(QUESTION):
		txn.Flag = "?"
	default:
		return nil, p.error("expected transaction flag (*, ! or ?)")
	}

	// One string is the narration; two strings are payee then narration.
	if !p.check(STRING) {
		return nil, p.error("expected transaction payee or narration string")
	}

	first, err := p.parseString()
	if err != nil {
		return nil, err
	}

	if p.check(STRING) && p.peek().Line == pos.Line {
		second, err := p.parseString()
		if err != nil {
			return nil, err
		}
		txn.Payee = first
		txn.Narration = second
	} else {
		txn.Narration = first
	}

	txn.Metadata = p.parseMetadata(pos.Line)

	postings, err := p.parsePostings(pos.Line)
	if err != nil {
		return nil, err
	}
	txn.Postings = postings

	return txn, nil
}

// parsePostings parses all postings of a transaction. Postings are
// indented lines (column > 1) starting with an account; a token at
// column 1 ends the transaction.
func (p *Parser) parsePostings(headerLine int) ([]*ast.Posting, error) {
	postings := make([]*ast.Posting, 0, 4)

	for !p.isAtEnd() {
		tok := p.peek()

		if tok.Line == headerLine {
			return nil, p.errorAtToken(tok, "postings must start on a new line")
		}

		if tok.Column <= 1 || tok.Type != ACCOUNT {
			break
		}

		posting, err := p.parsePosting()
		if err != nil {
			return nil, err
		}

		postings = append(postings, posting)
	}

	return postings, nil
}

// parsePosting parses a single posting:
// ACCOUNT [AMOUNT] [COST] [PRICE]
//
//	[METADATA]*
func (p *Parser) parsePosting() (*ast.Posting, error) {
	tok := p.peek()
	posting := &ast.Posting{
		Pos: tokenPosition(tok, p.filename),
	}

	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}
	posting.Account = account

	// Optional amount
	if p.check(NUMBER) {
		amount, err := p.parseAmount()
		if err != nil {
			return nil, err
		}
		posting.Amount = amount
	}

	// Optional cost annotation
	if p.check(LBRACE) {
		cost, err := p.parseCost()
		if err != nil {
			return nil, err
		}
		posting.Cost = cost
	}

	// Optional price annotation
	if p.match(AT) {
		amount, err := p.parseAmount()
		if err != nil {
			return nil, err
		}
		posting.Price = amount
	}

	posting.Metadata = p.parseMetadata(tok.Line)

	return posting, nil
}

// parseCost parses a cost annotation: { AMOUNT [, DATE] }
func (p *Parser) parseCost() (*ast.Cost, error) {
	p.consume(LBRACE, "expected '{'")

	cost := &ast.Cost{}

	amount, err := p.parseAmount()
	if err != nil {
		return nil, err
	}
	cost.Amount = amount

	if p.match(COMMA) {
		date, err := p.parseDate()
		if err != nil {
			return nil, err
		}
		cost.Date = date
	}

	if tok := p.consume(RBRACE, "expected '}'"); tok.Type == ILLEGAL {
		return nil, p.error("expected '}' to close cost")
	}

	return cost, nil
}
