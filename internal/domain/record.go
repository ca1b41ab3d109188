package domain

import "fmt"

// Record is one catalog entry. Its shape is fixed at construction; only
// availability changes afterwards, through ToggleAvailability.
type Record struct {
	title      string
	author     string
	identifier string
	available  bool
}

// NewRecord builds a record from trusted fields, such as ones restored from
// storage. No validation is performed.
func NewRecord(title, author, identifier string, available bool) Record {
	return Record{
		title:      title,
		author:     author,
		identifier: identifier,
		available:  available,
	}
}

// ParseRecord builds an available record from raw user input.
// It returns a *ValidationError naming the first rule broken; nothing is
// constructed on failure. Values are stored exactly as given.
func ParseRecord(title, author, identifier string) (Record, error) {
	err := validateInput(recordInput{Title: title, Author: author, Identifier: identifier})
	if err != nil {
		return Record{}, err
	}

	return NewRecord(title, author, identifier, true), nil
}

// Title returns the record title.
func (r Record) Title() string { return r.title }

// Author returns the record author.
func (r Record) Author() string { return r.author }

// Identifier returns the record's unique key.
func (r Record) Identifier() string { return r.identifier }

// Available reports whether the record can be borrowed.
func (r Record) Available() bool { return r.available }

// AvailabilityLabel returns "Available" or "Borrowed".
func (r Record) AvailabilityLabel() string {
	if r.available {
		return "Available"
	}

	return "Borrowed"
}

// ToggleAvailability flips availability and returns the notice to show the user.
func (r *Record) ToggleAvailability(isBorrowing bool) string {
	r.available = !r.available
	if isBorrowing {
		return "Book borrowed successfully."
	}

	return "Book returned successfully."
}

// String renders the record as "<title> by <author> (<identifier>)".
func (r Record) String() string {
	return fmt.Sprintf("%s by %s (%s)", r.title, r.author, r.identifier)
}
