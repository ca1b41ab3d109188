package domain

import "strings"

// Catalog owns every Record, keyed by identifier. It is the sole authority
// over the collection; callers only ever receive copies.
//
// Catalog is not safe for concurrent use.
type Catalog struct {
	entries map[string]*Record
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]*Record)}
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Get returns a copy of the record with the given identifier.
func (c *Catalog) Get(id string) (Record, bool) {
	r, ok := c.entries[id]
	if !ok {
		return Record{}, false
	}

	return *r, true
}

// Add inserts r unless its identifier is already present. Existing entries
// are never overwritten.
func (c *Catalog) Add(r Record) Outcome {
	if _, ok := c.entries[r.identifier]; ok {
		return outcome(OutcomeAlreadyExists, MsgAlreadyExists)
	}

	c.entries[r.identifier] = &r

	return outcome(OutcomeAdded, MsgAdded)
}

// Remove deletes the record with the given identifier.
func (c *Catalog) Remove(id string) Outcome {
	if _, ok := c.entries[id]; !ok {
		return outcome(OutcomeNotFound, MsgNotFound)
	}

	delete(c.entries, id)

	return outcome(OutcomeRemoved, MsgRemoved)
}

// Search returns every record whose title, author or identifier contains
// query. Matching is case-sensitive and result order is unspecified.
func (c *Catalog) Search(query string) Outcome {
	if strings.TrimSpace(query) == "" {
		return outcome(OutcomeInvalidQuery, MsgInvalidQuery)
	}

	var matches []Record
	for _, r := range c.entries {
		if strings.Contains(r.author, query) ||
			strings.Contains(r.title, query) ||
			strings.Contains(r.identifier, query) {
			matches = append(matches, *r)
		}
	}

	if len(matches) == 0 {
		return outcome(OutcomeNoResults, MsgNoResults)
	}

	return Outcome{Kind: OutcomeFound, Message: MsgFound, Records: matches}
}

// Borrow marks an available record as borrowed.
func (c *Catalog) Borrow(id string) Outcome {
	r, ok := c.entries[id]
	if !ok {
		return outcome(OutcomeNotFound, MsgNotFound)
	}

	if !r.available {
		return outcome(OutcomeAlreadyBorrowed, MsgAlreadyBorrowed)
	}

	return outcome(OutcomeBorrowed, r.ToggleAvailability(true))
}

// Return marks a borrowed record as available again.
func (c *Catalog) Return(id string) Outcome {
	r, ok := c.entries[id]
	if !ok {
		return outcome(OutcomeNotFound, MsgNotFound)
	}

	if r.available {
		return outcome(OutcomeAlreadyReturned, MsgAlreadyReturned)
	}

	return outcome(OutcomeReturned, r.ToggleAvailability(false))
}

// List returns every record in unspecified order.
func (c *Catalog) List() Outcome {
	if len(c.entries) == 0 {
		return outcome(OutcomeEmpty, MsgEmpty)
	}

	return Outcome{Kind: OutcomeListed, Message: MsgListed, Records: c.Snapshot()}
}

// Snapshot returns copies of all records, for serialization.
func (c *Catalog) Snapshot() []Record {
	out := make([]Record, 0, len(c.entries))
	for _, r := range c.entries {
		out = append(out, *r)
	}

	return out
}

// Replace discards all entries and loads records in their place. A later
// record with a repeated identifier replaces the earlier one.
func (c *Catalog) Replace(records []Record) {
	clear(c.entries)

	for i := range records {
		r := records[i]
		c.entries[r.identifier] = &r
	}
}

// Borrowed counts records currently not available.
func (c *Catalog) Borrowed() int {
	n := 0
	for _, r := range c.entries {
		if !r.available {
			n++
		}
	}

	return n
}
