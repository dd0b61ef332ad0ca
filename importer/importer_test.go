package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/sjlouji/friday/store"
)

func newTestImporter(t *testing.T) (*Importer, *store.Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "main.friday")
	st := store.New(store.Config{DefaultPath: path, DefaultCurrency: "INR"})
	return New(st), st, path
}

func statementTable(rows ...Row) *Table {
	return &Table{
		Columns: []string{"Date", "Description", "Account", "Amount", "Category"},
		Rows:    rows,
	}
}

var statementMapping = Mapping{
	Date:      "Date",
	Narration: "Description",
	Account:   "Account",
	Amount:    "Amount",
	Category:  "Category",
}

func TestImport(t *testing.T) {
	imp, st, path := newTestImporter(t)

	table := statementTable(
		Row{"Date": "15/01/2024", "Description": "Salary credit", "Account": "assets:BANK:checking", "Amount": "₹50,000.00"},
		Row{"Date": "16/01/2024", "Description": "Weekly shop", "Account": "Assets:Bank:Checking", "Amount": "-450.00", "Category": "expenses:food"},
	)

	result, err := imp.Import("", table, statementMapping)
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, len(result.Errors))

	book, err := st.Load("")
	assert.NoError(t, err)
	assert.Equal(t, 2, len(book.Transactions))

	// Positive amount debits the account against Income:Uncategorized.
	credit := book.Transactions[0]
	assert.Equal(t, "2024-01-15", credit.Date)
	assert.Equal(t, "Assets:Bank:Checking", credit.Postings[0].Account)
	assert.Equal(t, "50000.00", credit.Postings[0].Amount.Number)
	assert.Equal(t, "Income:Uncategorized", credit.Postings[1].Account)
	assert.Equal(t, "-50000.00", credit.Postings[1].Amount.Number)

	// Negative amount debits the category against the account.
	shop := book.Transactions[1]
	assert.Equal(t, "Expenses:Food", shop.Postings[0].Account)
	assert.Equal(t, "450.00", shop.Postings[0].Amount.Number)
	assert.Equal(t, "Assets:Bank:Checking", shop.Postings[1].Account)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "; Transactions imported with mapping")
}

func TestImport_NegativeWithoutCategory(t *testing.T) {
	imp, st, _ := newTestImporter(t)

	table := statementTable(
		Row{"Date": "16/01/2024", "Description": "ATM withdrawal", "Account": "Assets:Bank:Checking", "Amount": "-2000"},
	)

	result, err := imp.Import("", table, statementMapping)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	book, err := st.Load("")
	assert.NoError(t, err)
	assert.Equal(t, "Expenses:Uncategorized", book.Transactions[0].Postings[0].Account)
}

func TestImport_RowErrors(t *testing.T) {
	imp, _, _ := newTestImporter(t)

	table := statementTable(
		Row{"Date": "", "Description": "No date", "Account": "Assets:Cash", "Amount": "10"},
		Row{"Date": "not a date", "Description": "Bad date", "Account": "Assets:Cash", "Amount": "10"},
		Row{"Date": "16/01/2024", "Description": "Bad amount", "Account": "Assets:Cash", "Amount": "ten"},
		Row{"Date": "16/01/2024", "Description": "Bad account", "Account": "Assets::Cash", "Amount": "10"},
		Row{"Date": "17/01/2024", "Description": "Good row", "Account": "Assets:Cash", "Amount": "10"},
	)

	result, err := imp.Import("", table, statementMapping)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 4, len(result.Errors))
	assert.Contains(t, result.Errors[0], "row 2: missing required fields")
	assert.Contains(t, result.Errors[1], "row 3: invalid date")
	assert.Contains(t, result.Errors[2], "row 4: invalid amount")
	assert.Contains(t, result.Errors[3], "row 5:")
}

func TestImport_FlagFallback(t *testing.T) {
	imp, st, _ := newTestImporter(t)

	mapping := statementMapping
	mapping.Flag = "Flag"
	mapping.DefaultFlag = "!"

	table := &Table{
		Columns: []string{"Date", "Description", "Account", "Amount", "Flag"},
		Rows: []Row{
			{"Date": "16/01/2024", "Description": "Checked", "Account": "Assets:Cash", "Amount": "10", "Flag": "*"},
			{"Date": "17/01/2024", "Description": "Odd flag", "Account": "Assets:Cash", "Amount": "10", "Flag": "x"},
		},
	}

	_, err := imp.Import("", table, mapping)
	assert.NoError(t, err)

	book, err := st.Load("")
	assert.NoError(t, err)
	assert.Equal(t, "*", book.Transactions[0].Flag)
	assert.Equal(t, "!", book.Transactions[1].Flag)
}

func TestImport_DuplicateRows(t *testing.T) {
	imp, _, _ := newTestImporter(t)

	row := Row{"Date": "16/01/2024", "Description": "Weekly shop", "Account": "Assets:Cash", "Amount": "-450.00"}
	table := statementTable(row, row)

	result, err := imp.Import("", table, statementMapping)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, len(result.Errors))
	assert.Contains(t, result.Errors[0], "row 3: duplicate transaction")
}

func TestImport_ReimportIsNoOp(t *testing.T) {
	imp, st, _ := newTestImporter(t)

	table := statementTable(
		Row{"Date": "16/01/2024", "Description": "Weekly shop", "Account": "Assets:Cash", "Amount": "-450.00"},
		Row{"Date": "17/01/2024", "Description": "Fuel", "Account": "Assets:Cash", "Amount": "-1200.00"},
	)

	first, err := imp.Import("", table, statementMapping)
	assert.NoError(t, err)
	assert.Equal(t, 2, first.Imported)

	second, err := imp.Import("", table, statementMapping)
	assert.NoError(t, err)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 2, len(second.Errors))

	book, err := st.Load("")
	assert.NoError(t, err)
	assert.Equal(t, 2, len(book.Transactions))
}

func TestImport_LiteralAccountMapping(t *testing.T) {
	imp, st, _ := newTestImporter(t)

	// Statements usually have no account column: the mapping names
	// the account and category directly.
	mapping := Mapping{
		Date:      "Date",
		Narration: "Description",
		Account:   "assets:BANK:checking",
		Amount:    "Amount",
		Category:  "Expenses:Food",
	}

	table := &Table{
		Columns: []string{"Date", "Description", "Amount"},
		Rows: []Row{
			{"Date": "15/01/2024", "Description": "Salary credit", "Amount": "₹50,000.00"},
			{"Date": "16/01/2024", "Description": "Weekly shop", "Amount": "-450.00"},
		},
	}

	result, err := imp.Import("", table, mapping)
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, len(result.Errors))

	book, err := st.Load("")
	assert.NoError(t, err)

	credit := book.Transactions[0]
	assert.Equal(t, "Assets:Bank:Checking", credit.Postings[0].Account)
	assert.Equal(t, "50000.00", credit.Postings[0].Amount.Number)

	debit := book.Transactions[1]
	assert.Equal(t, "Expenses:Food", debit.Postings[0].Account)
	assert.Equal(t, "Assets:Bank:Checking", debit.Postings[1].Account)
}

func TestImport_PayeeAndCurrencyColumns(t *testing.T) {
	imp, st, _ := newTestImporter(t)

	mapping := statementMapping
	mapping.Payee = "Payee"
	mapping.Currency = "Currency"

	table := &Table{
		Columns: []string{"Date", "Description", "Account", "Amount", "Payee", "Currency"},
		Rows: []Row{
			{"Date": "16/01/2024", "Description": "Lunch", "Account": "Assets:Cash", "Amount": "-300", "Payee": "Canteen", "Currency": "EUR"},
		},
	}

	_, err := imp.Import("", table, mapping)
	assert.NoError(t, err)

	book, err := st.Load("")
	assert.NoError(t, err)
	assert.Equal(t, "Canteen", book.Transactions[0].Payee)
	assert.Equal(t, "EUR", book.Transactions[0].Postings[0].Amount.Currency)
}

func TestImport_AppendsAfterExistingEntries(t *testing.T) {
	imp, st, path := newTestImporter(t)

	_, err := st.CreateTransaction("", store.TransactionDraft{
		Date:      "2024-01-10",
		Narration: "Existing entry",
		Postings: []store.PostingDraft{
			{Account: "Expenses:Food", Amount: &store.AmountDraft{Number: "100.00", Currency: "INR"}},
			{Account: "Assets:Cash", Amount: &store.AmountDraft{Number: "-100.00", Currency: "INR"}},
		},
	})
	assert.NoError(t, err)

	table := statementTable(
		Row{"Date": "16/01/2024", "Description": "Weekly shop", "Account": "Assets:Cash", "Amount": "-450.00"},
	)

	result, err := imp.Import("", table, statementMapping)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)

	content := string(data)
	assert.True(t, strings.Index(content, "Existing entry") < strings.Index(content, batchMarker))

	book, err := st.Load("")
	assert.NoError(t, err)
	assert.Equal(t, 2, len(book.Transactions))
}
