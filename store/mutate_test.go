package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func groceriesDraft(date, narration string) TransactionDraft {
	return TransactionDraft{
		Date:      date,
		Flag:      "*",
		Payee:     "Grocer",
		Narration: narration,
		Postings: []PostingDraft{
			{Account: "Expenses:Food", Amount: &AmountDraft{Number: "450.00", Currency: "INR"}},
			{Account: "Assets:Checking", Amount: &AmountDraft{Number: "-450.00", Currency: "INR"}},
		},
	}
}

func TestCreateTransaction(t *testing.T) {
	s, path := newTestStore(t)

	result, err := s.CreateTransaction("", groceriesDraft("2024-01-05", "Weekly shop"))
	assert.NoError(t, err)
	assert.NotZero(t, result.Transaction)
	assert.Equal(t, "Weekly shop", result.Transaction.Narration)
	assert.Equal(t, "Grocer", result.Transaction.Payee)
	assert.Equal(t, 2, len(result.Transaction.Postings))
	assert.NotEqual(t, "", result.Transaction.ID)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `2024-01-05 * "Grocer" "Weekly shop"`)
	assert.Contains(t, string(data), "  Expenses:Food  450.00 INR")
}

func TestCreateTransaction_ElidedAmount(t *testing.T) {
	s, _ := newTestStore(t)

	draft := groceriesDraft("2024-01-05", "Weekly shop")
	draft.Postings[1].Amount = nil

	result, err := s.CreateTransaction("", draft)
	assert.NoError(t, err)

	// The bare posting gets its amount inferred on reload.
	amount := result.Transaction.Postings[1].Amount
	assert.NotZero(t, amount)
	assert.Equal(t, "-450.00", amount.Number)
}

func TestCreateTransaction_InvalidDate(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.CreateTransaction("", groceriesDraft("05/01/2024", "Weekly shop"))

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestCreateTransaction_UnbalancedReportsSoftError(t *testing.T) {
	s, _ := newTestStore(t)

	draft := groceriesDraft("2024-01-05", "Weekly shop")
	draft.Postings[1].Amount.Number = "-400.00"

	result, err := s.CreateTransaction("", draft)
	assert.NoError(t, err)
	assert.NotZero(t, result.Transaction)
	assert.Equal(t, 1, len(result.Errors))
	assert.Contains(t, result.Errors[0], "does not balance")
}

func TestCreateTransaction_Concurrent(t *testing.T) {
	s, _ := newTestStore(t)

	const writers = 8

	var wg sync.WaitGroup
	errs := make(chan error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.CreateTransaction("", groceriesDraft("2024-01-05", fmt.Sprintf("shop %d", i)))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	book, err := s.Load("")
	assert.NoError(t, err)
	assert.Equal(t, writers, len(book.Transactions))
}

func TestUpdateTransaction(t *testing.T) {
	s, path := newTestStore(t)

	first, err := s.CreateTransaction("", groceriesDraft("2024-01-05", "Weekly shop"))
	assert.NoError(t, err)
	second, err := s.CreateTransaction("", groceriesDraft("2024-01-12", "Another shop"))
	assert.NoError(t, err)

	before, err := os.ReadFile(path)
	assert.NoError(t, err)

	updated, err := s.UpdateTransaction("", first.Transaction.ID, groceriesDraft("2024-01-06", "Corrected shop"))
	assert.NoError(t, err)
	assert.Equal(t, "Corrected shop", updated.Transaction.Narration)

	book, err := s.Load("")
	assert.NoError(t, err)
	assert.Equal(t, 2, len(book.Transactions))

	narrations := make([]string, 0, len(book.Transactions))
	for _, txn := range book.Transactions {
		narrations = append(narrations, txn.Narration)
	}
	assert.Equal(t, []string{"Another shop", "Corrected shop"}, narrations)

	// The untouched entry keeps its exact text; the updated one is
	// rendered last.
	after, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(after), renderedBlock(string(before), second.Transaction.ID, "Another shop"))
	assert.NotContains(t, string(after), "Weekly shop")
}

// renderedBlock extracts the transaction block with the given
// narration from source, header line through last posting.
func renderedBlock(source, id, narration string) string {
	lines := strings.Split(source, "\n")
	start := -1
	for i, line := range lines {
		if strings.Contains(line, fmt.Sprintf("%q", narration)) {
			start = i
			break
		}
	}
	if start < 0 {
		return "block not found: " + id
	}

	end := start + 1
	for end < len(lines) && strings.HasPrefix(lines[end], "  ") {
		end++
	}
	return strings.Join(lines[start:end], "\n")
}

func TestUpdateTransaction_NotFound(t *testing.T) {
	s, path := newTestStore(t)

	_, err := s.CreateTransaction("", groceriesDraft("2024-01-05", "Weekly shop"))
	assert.NoError(t, err)

	before, err := os.ReadFile(path)
	assert.NoError(t, err)

	_, err = s.UpdateTransaction("", "2024-01-05-ffffffffffffffff", groceriesDraft("2024-01-06", "Nope"))
	assert.IsError(t, err, ErrNotFound)

	after, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestUpdateTransaction_ExplicitID(t *testing.T) {
	s, path := newTestStore(t)

	source := strings.Join([]string{
		`2024-01-05 * "Weekly shop"`,
		"  id: txn-42",
		"  Expenses:Food  450.00 INR",
		"  Assets:Checking  -450.00 INR",
		"",
	}, "\n")
	assert.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	updated, err := s.UpdateTransaction("", "txn-42", groceriesDraft("2024-01-06", "Corrected shop"))
	assert.NoError(t, err)
	assert.Equal(t, "Corrected shop", updated.Transaction.Narration)

	after, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.NotContains(t, string(after), "txn-42")
}

func TestDeleteTransaction(t *testing.T) {
	s, _ := newTestStore(t)

	first, err := s.CreateTransaction("", groceriesDraft("2024-01-05", "Weekly shop"))
	assert.NoError(t, err)
	_, err = s.CreateTransaction("", groceriesDraft("2024-01-12", "Another shop"))
	assert.NoError(t, err)

	errs, err := s.DeleteTransaction("", first.Transaction.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(errs))

	book, err := s.Load("")
	assert.NoError(t, err)
	assert.Equal(t, 1, len(book.Transactions))
	assert.Equal(t, "Another shop", book.Transactions[0].Narration)
}

func TestDeleteTransaction_AbsentID(t *testing.T) {
	s, path := newTestStore(t)

	_, err := s.CreateTransaction("", groceriesDraft("2024-01-05", "Weekly shop"))
	assert.NoError(t, err)

	before, err := os.ReadFile(path)
	assert.NoError(t, err)

	_, err = s.DeleteTransaction("", "2024-01-05-ffffffffffffffff")
	assert.IsError(t, err, ErrNotFound)

	after, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestCreateAccount(t *testing.T) {
	s, path := newTestStore(t)

	book, err := s.CreateAccount("", AccountDraft{Name: "assets:BANK:checking", OpenDate: "2024-01-01"})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(book.Accounts))
	assert.Equal(t, "Assets:Bank:Checking", book.Accounts[0].Name)
	assert.Equal(t, []string{"INR"}, book.Accounts[0].Currencies)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "2024-01-01 open Assets:Bank:Checking INR")
}

func TestCreateAccount_Duplicate(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.CreateAccount("", AccountDraft{Name: "Assets:Cash", OpenDate: "2024-01-01"})
	assert.NoError(t, err)

	_, err = s.CreateAccount("", AccountDraft{Name: "assets:cash", OpenDate: "2024-02-01"})
	assert.IsError(t, err, ErrExists)
}

func TestCreateAccount_Invalid(t *testing.T) {
	s, _ := newTestStore(t)

	var verr *ValidationError

	_, err := s.CreateAccount("", AccountDraft{Name: "Savings", OpenDate: "2024-01-01"})
	assert.True(t, errors.As(err, &verr))

	_, err = s.CreateAccount("", AccountDraft{Name: "Assets::Cash", OpenDate: "2024-01-01"})
	assert.True(t, errors.As(err, &verr))

	_, err = s.CreateAccount("", AccountDraft{Name: "Assets:Cash", OpenDate: "not-a-date"})
	assert.True(t, errors.As(err, &verr))
}
