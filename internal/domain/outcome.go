package domain

// OutcomeKind names the result of a catalog operation.
type OutcomeKind string

// Outcome kinds. The first group are successes.
const (
	OutcomeAdded    OutcomeKind = "added"
	OutcomeRemoved  OutcomeKind = "removed"
	OutcomeBorrowed OutcomeKind = "borrowed"
	OutcomeReturned OutcomeKind = "returned"
	OutcomeFound    OutcomeKind = "found"
	OutcomeListed   OutcomeKind = "listed"

	OutcomeAlreadyExists   OutcomeKind = "already_exists"
	OutcomeNotFound        OutcomeKind = "not_found"
	OutcomeAlreadyBorrowed OutcomeKind = "already_borrowed"
	OutcomeAlreadyReturned OutcomeKind = "already_returned"
	OutcomeInvalidQuery    OutcomeKind = "invalid_query"
	OutcomeNoResults       OutcomeKind = "no_results"
	OutcomeEmpty           OutcomeKind = "empty"
)

// User-facing messages for each outcome.
const (
	MsgAdded           = "Book added to library."
	MsgAlreadyExists   = "Book already exists in library."
	MsgRemoved         = "Book removed from library."
	MsgNotFound        = "Book not found in library."
	MsgAlreadyBorrowed = "Book is already borrowed."
	MsgAlreadyReturned = "Book is already returned."
	MsgInvalidQuery    = "Invalid query."
	MsgFound           = "The following books match your query:"
	MsgNoResults       = "No books matching query found."
	MsgListed          = "All books in the library:"
	MsgEmpty           = "No books in the library."
)

// Outcome is the tagged result of a catalog operation. Business conditions
// like "not found" are outcomes, not errors; callers report them and carry on.
type Outcome struct {
	Kind    OutcomeKind
	Message string

	// Records holds copies of matched or listed records for Found and Listed.
	Records []Record
}

// OK reports whether the operation did what was asked.
func (o Outcome) OK() bool {
	switch o.Kind {
	case OutcomeAdded, OutcomeRemoved, OutcomeBorrowed, OutcomeReturned, OutcomeFound, OutcomeListed:
		return true
	default:
		return false
	}
}

func outcome(kind OutcomeKind, msg string) Outcome {
	return Outcome{Kind: kind, Message: msg}
}
