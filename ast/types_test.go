package ast

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestDate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		date, err := NewDate("2024-12-17")
		assert.NoError(t, err)
		assert.Equal(t, "2024-12-17", date.String())
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := NewDate("17/12/2024")
		assert.Error(t, err)

		_, err = NewDate("2024-13-01")
		assert.Error(t, err)
	})

	t.Run("NilIsZero", func(t *testing.T) {
		var date *Date
		assert.True(t, date.IsZero())
		assert.Equal(t, "", date.String())
	})

	t.Run("LeapYear", func(t *testing.T) {
		date, err := NewDate("2024-02-29")
		assert.NoError(t, err)
		assert.Equal(t, "2024-02-29", date.String())

		_, err = NewDate("2023-02-29")
		assert.Error(t, err)
	})
}

func TestAccount_Valid(t *testing.T) {
	tests := []struct {
		name    string
		account Account
		valid   bool
	}{
		{"TwoSegments", "Assets:Checking", true},
		{"Deep", "Assets:Bank:HDFC:Checking", true},
		{"DigitsAndHyphens", "Expenses:Food-2024:Sub1", true},
		{"DigitStart", "Assets:2024:Checking", true},
		{"NonStandardRoot", "Funds:Emergency", true},
		{"SingleSegment", "Assets", false},
		{"LowercaseRoot", "assets:Checking", false},
		{"LowercaseSegment", "Assets:checking", false},
		{"TrailingColon", "Assets:", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.account.Valid())
		})
	}
}

func TestAccount_Root(t *testing.T) {
	assert.Equal(t, "Assets", Account("Assets:Bank:Checking").Root())
	assert.Equal(t, "Expenses", Account("Expenses:Food").Root())
	assert.Equal(t, "Equity", Account("Equity").Root())
}

func TestAmount_String(t *testing.T) {
	assert.Equal(t, "45.60 USD", NewAmount("45.60", "USD").String())
	assert.Equal(t, "-3745.00 INR", NewAmount("-3745.00", "INR").String())
}

func TestMetadataMap(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		assert.Zero(t, MetadataMap(nil))
	})

	t.Run("LaterKeysWin", func(t *testing.T) {
		m := MetadataMap([]*Metadata{
			NewQuotedMetadata("invoice", "INV-1"),
			NewMetadata("confidence", "0.9"),
			NewQuotedMetadata("invoice", "INV-2"),
		})
		assert.Equal(t, map[string]string{
			"invoice":    "INV-2",
			"confidence": "0.9",
		}, m)
	})
}
