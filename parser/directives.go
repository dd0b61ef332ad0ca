package parser

import "github.com/sjlouji/friday/ast"

// Directive parsers for all non-transaction directives. These have a
// deterministic single-line structure plus optional metadata lines.

// parseOpen parses: DATE open ACCOUNT [CURRENCY[,CURRENCY]*]
func (p *Parser) parseOpen(pos ast.Position, date *ast.Date) (*ast.Open, error) {
	p.consume(OPEN, "expected 'open'")

	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	open := &ast.Open{
		Pos:     pos,
		Date:    date,
		Account: account,
	}

	// Optional constraint currencies
	if p.check(IDENT) {
		currency, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		open.ConstraintCurrencies = append(open.ConstraintCurrencies, currency)

		for p.match(COMMA) {
			currency, err := p.parseIdent()
			if err != nil {
				return nil, err
			}
			open.ConstraintCurrencies = append(open.ConstraintCurrencies, currency)
		}
	}

	open.Metadata = p.parseMetadata(pos.Line)

	return open, nil
}

// parseClose parses: DATE close ACCOUNT
func (p *Parser) parseClose(pos ast.Position, date *ast.Date) (*ast.Close, error) {
	p.consume(CLOSE, "expected 'close'")

	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	close := &ast.Close{
		Pos:     pos,
		Date:    date,
		Account: account,
	}
	close.Metadata = p.parseMetadata(pos.Line)

	return close, nil
}

// parseBalance parses: DATE balance ACCOUNT AMOUNT
func (p *Parser) parseBalance(pos ast.Position, date *ast.Date) (*ast.Balance, error) {
	p.consume(BALANCE, "expected 'balance'")

	account, err := p.parseAccount()
	if err != nil {
		return nil, err
	}

	amount, err := p.parseAmount()
	if err != nil {
		return nil, err
	}

	bal := &ast.Balance{
		Pos:     pos,
		Date:    date,
		Account: account,
		Amount:  amount,
	}
	bal.Metadata = p.parseMetadata(pos.Line)

	return bal, nil
}

// parsePrice parses: DATE price CURRENCY AMOUNT
func (p *Parser) parsePrice(pos ast.Position, date *ast.Date) (*ast.Price, error) {
	p.consume(PRICE, "expected 'price'")

	commodity, err := p.parseIdent()
	if err != nil {
		return nil, err
	}

	amount, err := p.parseAmount()
	if err != nil {
		return nil, err
	}

	price := &ast.Price{
		Pos:       pos,
		Date:      date,
		Commodity: commodity,
		Amount:    amount,
	}
	price.Metadata = p.parseMetadata(pos.Line)

	return price, nil
}
