package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord_Valid(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
	}{
		{"ten digits", "1234567890"},
		{"thirteen digits", "9781234567897"},
		{"leading zeros", "0000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseRecord("Dune", "Herbert", tt.identifier)
			require.NoError(t, err)

			assert.Equal(t, "Dune", r.Title())
			assert.Equal(t, "Herbert", r.Author())
			assert.Equal(t, tt.identifier, r.Identifier())
			assert.True(t, r.Available())
		})
	}
}

func TestParseRecord_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		author     string
		identifier string
		field      string
		message    string
	}{
		{"empty title", "", "Herbert", "1234567890", "Title", "Title cannot be empty."},
		{"blank title", "   ", "Herbert", "1234567890", "Title", "Title cannot be empty."},
		{"empty author", "Dune", "", "1234567890", "Author", "Author cannot be empty."},
		{"blank author", "Dune", "\t", "1234567890", "Author", "Author cannot be empty."},
		{"empty identifier", "Dune", "Herbert", "", "Identifier", "ISBN cannot be empty."},
		{"blank identifier", "Dune", "Herbert", "  ", "Identifier", "ISBN cannot be empty."},
		{"nine digits", "Dune", "Herbert", "123456789", "Identifier", "ISBN must be 10 or 13 digits."},
		{"eleven digits", "Dune", "Herbert", "12345678901", "Identifier", "ISBN must be 10 or 13 digits."},
		{"twelve digits", "Dune", "Herbert", "123456789012", "Identifier", "ISBN must be 10 or 13 digits."},
		{"fourteen digits", "Dune", "Herbert", "12345678901234", "Identifier", "ISBN must be 10 or 13 digits."},
		{"hyphenated", "Dune", "Herbert", "123-456-789", "Identifier", "ISBN must be 10 or 13 digits."},
		{"check digit X", "Dune", "Herbert", "123456789X", "Identifier", "ISBN must be 10 or 13 digits."},
		{"surrounding space", "Dune", "Herbert", " 1234567890", "Identifier", "ISBN must be 10 or 13 digits."},
		{"signed", "Dune", "Herbert", "+123456789", "Identifier", "ISBN must be 10 or 13 digits."},
		{"non-ascii digits", "Dune", "Herbert", "١٢٣٤٥٦٧٨٩٠", "Identifier", "ISBN must be 10 or 13 digits."},
		{"title checked first", "", "", "x", "Title", "Title cannot be empty."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseRecord(tt.title, tt.author, tt.identifier)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrValidation)

			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.field, validation.Field)
			assert.Equal(t, tt.message, validation.Message)
			assert.Equal(t, Record{}, r)
		})
	}
}

func TestParseRecord_KeepsRawStrings(t *testing.T) {
	r, err := ParseRecord("  Dune ", "Frank Herbert ", "1234567890")
	require.NoError(t, err)

	assert.Equal(t, "  Dune ", r.Title())
	assert.Equal(t, "Frank Herbert ", r.Author())
}

func TestNewRecord_SkipsValidation(t *testing.T) {
	r := NewRecord("", "", "not-an-isbn", false)

	assert.Equal(t, "not-an-isbn", r.Identifier())
	assert.False(t, r.Available())
}

func TestRecord_ToggleAvailability(t *testing.T) {
	r := NewRecord("Dune", "Herbert", "1234567890", true)

	msg := r.ToggleAvailability(true)
	assert.Equal(t, "Book borrowed successfully.", msg)
	assert.False(t, r.Available())
	assert.Equal(t, "Borrowed", r.AvailabilityLabel())

	msg = r.ToggleAvailability(false)
	assert.Equal(t, "Book returned successfully.", msg)
	assert.True(t, r.Available())
	assert.Equal(t, "Available", r.AvailabilityLabel())
}

func TestRecord_String(t *testing.T) {
	r := NewRecord("Dune", "Herbert", "1234567890", true)
	assert.Equal(t, "Dune by Herbert (1234567890)", r.String())
}

func TestValidIdentifier(t *testing.T) {
	assert.True(t, ValidIdentifier("1234567890"))
	assert.True(t, ValidIdentifier("1234567890123"))
	assert.False(t, ValidIdentifier("12345678901"))
	assert.False(t, ValidIdentifier("1234567890\n"))
	assert.False(t, ValidIdentifier(""))
}
