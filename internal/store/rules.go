package store

import "fmt"

// Entry is the identity view of one stored record used by the shared
// upsert rules. Index addresses the record inside the backend's own
// collection.
type Entry struct {
	Index int
	ID    string
	Slug  string
}

// Target tells a backend where an upsert lands.
type Target struct {
	// Index of the record to update, meaningless when IsNew is true.
	Index int
	// IsNew reports that no existing record matched and one must be created.
	IsNew bool
}

// ResolveUpsert applies the uniqueness and conflict rules shared by both
// backends: match by id first, then by normalized slug.
//
// It fails with ErrConflict when the id match and the slug match point at
// different records, and with ErrDuplicate when the incoming record's slug
// is already owned by a record with a different id.
func ResolveUpsert(entries []Entry, id, slug string) (Target, error) {
	byID := -1
	bySlug := -1
	for _, entry := range entries {
		if id != "" && entry.ID == id && byID < 0 {
			byID = entry.Index
		}
		if entry.Slug == slug && bySlug < 0 {
			bySlug = entry.Index
		}
	}

	switch {
	case byID >= 0 && bySlug >= 0 && byID != bySlug:
		return Target{}, fmt.Errorf("%w: id %q and slug %q match different records", ErrConflict, id, slug)
	case byID >= 0:
		return Target{Index: byID}, nil
	case bySlug >= 0:
		owner := entryAt(entries, bySlug)
		if id != "" && owner.ID != "" && owner.ID != id {
			return Target{}, fmt.Errorf("%w: slug %q belongs to a different record", ErrDuplicate, slug)
		}
		return Target{Index: bySlug}, nil
	default:
		return Target{IsNew: true}, nil
	}
}

// CheckRevision compares the caller's expected revision against the stored
// one; an empty expectation always passes.
func CheckRevision(expected, current string) error {
	if expected != "" && expected != current {
		return fmt.Errorf("%w: revision changed since read", ErrConflict)
	}
	return nil
}

func entryAt(entries []Entry, index int) Entry {
	for _, entry := range entries {
		if entry.Index == index {
			return entry
		}
	}
	return Entry{Index: index}
}
