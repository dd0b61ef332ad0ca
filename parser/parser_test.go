package parser

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/sjlouji/friday/ast"
)

func parseClean(t *testing.T, source string) *ast.AST {
	t.Helper()

	result := ParseString(source)
	for _, err := range result.Errors {
		t.Errorf("unexpected parse error: %v", err)
	}
	return result.AST
}

func TestParse_Open(t *testing.T) {
	t.Run("Simple", func(t *testing.T) {
		tree := parseClean(t, "2024-01-01 open Assets:Bank:Checking\n")

		assert.Equal(t, 1, len(tree.Directives))
		open, ok := tree.Directives[0].(*ast.Open)
		assert.True(t, ok)
		assert.Equal(t, "2024-01-01", open.Date.String())
		assert.Equal(t, ast.Account("Assets:Bank:Checking"), open.Account)
		assert.Zero(t, open.ConstraintCurrencies)
	})

	t.Run("ConstraintCurrencies", func(t *testing.T) {
		tree := parseClean(t, "2024-01-01 open Assets:Checking INR,USD\n")

		open := tree.Directives[0].(*ast.Open)
		assert.Equal(t, []string{"INR", "USD"}, open.ConstraintCurrencies)
	})
}

func TestParse_Close(t *testing.T) {
	tree := parseClean(t, "2025-09-23 close Assets:Bank:Checking\n")

	close, ok := tree.Directives[0].(*ast.Close)
	assert.True(t, ok)
	assert.Equal(t, ast.Account("Assets:Bank:Checking"), close.Account)
}

func TestParse_Balance(t *testing.T) {
	tree := parseClean(t, "2024-08-09 balance Assets:Checking 56200.00 INR\n")

	bal, ok := tree.Directives[0].(*ast.Balance)
	assert.True(t, ok)
	assert.Equal(t, "56200.00 INR", bal.Amount.String())
}

func TestParse_Price(t *testing.T) {
	tree := parseClean(t, "2024-07-09 price USD 83.52 INR\n")

	price, ok := tree.Directives[0].(*ast.Price)
	assert.True(t, ok)
	assert.Equal(t, "USD", price.Commodity)
	assert.Equal(t, "83.52 INR", price.Amount.String())
}

func TestParse_Option(t *testing.T) {
	tree := parseClean(t, "option \"operating_currency\" \"INR\"\noption \"title\" \"Main\"\n")

	assert.Equal(t, 2, len(tree.Options))
	assert.Equal(t, "INR", tree.Option("operating_currency"))
	assert.Equal(t, "Main", tree.Option("title"))
}

func TestParse_Transaction(t *testing.T) {
	t.Run("PayeeAndNarration", func(t *testing.T) {
		tree := parseClean(t, strings.Join([]string{
			`2024-05-05 * "Cafe Mogador" "Lamb tagine with wine"`,
			"  Liabilities:CreditCard  -3745.00 INR",
			"  Expenses:Food:Restaurant",
			"",
		}, "\n"))

		txn := tree.Directives[0].(*ast.Transaction)
		assert.Equal(t, "*", txn.Flag)
		assert.Equal(t, "Cafe Mogador", txn.Payee)
		assert.Equal(t, "Lamb tagine with wine", txn.Narration)
		assert.Equal(t, 2, len(txn.Postings))

		assert.Equal(t, ast.Account("Liabilities:CreditCard"), txn.Postings[0].Account)
		assert.Equal(t, "-3745.00 INR", txn.Postings[0].Amount.String())

		// Elided amount is left nil for inference.
		assert.Equal(t, ast.Account("Expenses:Food:Restaurant"), txn.Postings[1].Account)
		assert.Zero(t, txn.Postings[1].Amount)
	})

	t.Run("NarrationOnly", func(t *testing.T) {
		tree := parseClean(t, "2024-05-05 ! \"Transfer\"\n  Assets:Savings  100.00 INR\n  Assets:Checking  -100.00 INR\n")

		txn := tree.Directives[0].(*ast.Transaction)
		assert.Equal(t, "!", txn.Flag)
		assert.Equal(t, "", txn.Payee)
		assert.Equal(t, "Transfer", txn.Narration)
	})

	t.Run("TxnKeyword", func(t *testing.T) {
		tree := parseClean(t, "2024-05-05 txn * \"Coffee\"\n  Expenses:Food  5.00 INR\n  Assets:Cash  -5.00 INR\n")

		txn := tree.Directives[0].(*ast.Transaction)
		assert.Equal(t, "*", txn.Flag)
	})

	t.Run("UnverifiedFlag", func(t *testing.T) {
		tree := parseClean(t, "2024-05-05 ? \"Imported row\"\n  Expenses:Uncategorized  5.00 INR\n  Assets:Cash  -5.00 INR\n")

		txn := tree.Directives[0].(*ast.Transaction)
		assert.Equal(t, "?", txn.Flag)
	})

	t.Run("Metadata", func(t *testing.T) {
		tree := parseClean(t, strings.Join([]string{
			`2024-05-05 * "Payment"`,
			`  invoice: "INV-2024-001"`,
			"  confidence: 0.9",
			"  Assets:Checking  -100.00 INR",
			`    note: "first leg"`,
			"  Expenses:Services  100.00 INR",
			"",
		}, "\n"))

		txn := tree.Directives[0].(*ast.Transaction)
		assert.Equal(t, 2, len(txn.Metadata))
		assert.Equal(t, "invoice", txn.Metadata[0].Key)
		assert.Equal(t, "INV-2024-001", txn.Metadata[0].Value)
		assert.True(t, txn.Metadata[0].Quoted)
		assert.Equal(t, "0.9", txn.Metadata[1].Value)
		assert.False(t, txn.Metadata[1].Quoted)

		assert.Equal(t, 2, len(txn.Postings))
		assert.Equal(t, 1, len(txn.Postings[0].Metadata))
		assert.Equal(t, "first leg", txn.Postings[0].Metadata[0].Value)
	})

	t.Run("KeywordMetadataKeys", func(t *testing.T) {
		tree := parseClean(t, strings.Join([]string{
			`2024-05-05 * "Stock purchase"`,
			"  price: 518.73",
			`  balance: "pending"`,
			"  Assets:Broker  100.00 USD",
			"  Assets:Cash  -100.00 USD",
			"",
		}, "\n"))

		txn := tree.Directives[0].(*ast.Transaction)
		assert.Equal(t, 2, len(txn.Metadata))
		assert.Equal(t, "price", txn.Metadata[0].Key)
		assert.Equal(t, "518.73", txn.Metadata[0].Value)
		assert.Equal(t, "balance", txn.Metadata[1].Key)
		assert.Equal(t, "pending", txn.Metadata[1].Value)
	})

	t.Run("CostAndPrice", func(t *testing.T) {
		tree := parseClean(t, strings.Join([]string{
			`2024-05-05 * "Buy stock"`,
			"  Assets:Broker  10 HOOL {518.73 USD, 2024-05-01} @ 520.00 USD",
			"  Assets:Cash  -5187.30 USD",
			"",
		}, "\n"))

		posting := tree.Directives[0].(*ast.Transaction).Postings[0]
		assert.Equal(t, "518.73 USD", posting.Cost.Amount.String())
		assert.Equal(t, "2024-05-01", posting.Cost.Date.String())
		assert.Equal(t, "520.00 USD", posting.Price.String())
	})
}

func TestParse_FileOrderPreserved(t *testing.T) {
	tree := parseClean(t, strings.Join([]string{
		`2024-03-01 * "Later first"`,
		"  Expenses:Food  5.00 INR",
		"  Assets:Cash  -5.00 INR",
		"",
		`2024-01-01 * "Earlier second"`,
		"  Expenses:Food  5.00 INR",
		"  Assets:Cash  -5.00 INR",
		"",
	}, "\n"))

	txns := tree.Transactions()
	assert.Equal(t, 2, len(txns))
	assert.Equal(t, "Later first", txns[0].Narration)
	assert.Equal(t, "Earlier second", txns[1].Narration)
}

func TestParse_Comments(t *testing.T) {
	tree := parseClean(t, strings.Join([]string{
		"; ledger header comment",
		"2024-01-01 open Assets:Checking ; trailing comment",
		"; between entries",
		"2024-01-02 open Assets:Savings",
		"",
	}, "\n"))

	assert.Equal(t, 2, len(tree.Directives))
}

func TestParse_ErrorRecovery(t *testing.T) {
	t.Run("BadEntrySkipped", func(t *testing.T) {
		result := ParseString(strings.Join([]string{
			"2024-01-01 open Assets:Checking",
			"2024-01-02 open lowercase:account",
			"2024-01-03 open Assets:Savings",
			"",
		}, "\n"))

		assert.Equal(t, 1, len(result.Errors))
		assert.Equal(t, 2, result.Errors[0].Pos.Line)
		assert.Equal(t, 2, len(result.AST.Directives))
	})

	t.Run("BadTransactionDropsPostings", func(t *testing.T) {
		result := ParseString(strings.Join([]string{
			"2024-01-01 open Assets:Checking",
			"2024-05-05 * missing-narration",
			"  Assets:Checking  5.00 INR",
			"2024-01-03 open Assets:Savings",
			"",
		}, "\n"))

		assert.Equal(t, 1, len(result.Errors))
		// The indented posting of the failed entry is discarded with it.
		assert.Equal(t, 2, len(result.AST.Directives))
	})

	t.Run("UnknownKeyword", func(t *testing.T) {
		result := ParseString("2024-01-01 widget Assets:Checking\n")
		assert.Equal(t, 1, len(result.Errors))
		assert.Equal(t, 0, len(result.AST.Directives))
	})

	t.Run("GarbageLine", func(t *testing.T) {
		result := ParseString("hello world\n2024-01-01 open Assets:Checking\n")
		assert.Equal(t, 1, len(result.Errors))
		assert.Equal(t, 1, len(result.AST.Directives))
	})

	t.Run("ErrorPositionIncludesFilename", func(t *testing.T) {
		result := ParseBytes([]byte("garbage\n"), "main.friday")
		assert.Equal(t, 1, len(result.Errors))
		assert.Contains(t, result.Errors[0].Error(), "main.friday:1")
	})
}

func TestParse_Empty(t *testing.T) {
	result := ParseString("")
	assert.Equal(t, 0, len(result.Errors))
	assert.Equal(t, 0, len(result.AST.Directives))
}
