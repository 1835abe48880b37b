package store

import (
	"context"

	"stockroom/internal/catalog"
)

// Store is the record store contract. Two backends implement it: the CSV
// table file and the remote JSON snapshot; callers pick one by
// configuration.
type Store interface {
	// List returns every record plus the revision token per record id.
	List(ctx context.Context) ([]catalog.Record, map[string]string, error)

	// Get returns the record with the given normalized slug and its
	// revision token, or a nil record when absent.
	Get(ctx context.Context, slug string) (*catalog.Record, string, error)

	// Upsert creates or updates a record, matching by id first and
	// normalized slug second. When expectedRevision is non-empty and does
	// not match the stored revision the write fails with ErrConflict and
	// nothing is mutated. Returns the stored record and its new revision.
	Upsert(ctx context.Context, rec catalog.Record, expectedRevision string) (catalog.Record, string, error)

	// Delete removes the record with the given slug. Returns false, not an
	// error, when nothing matched.
	Delete(ctx context.Context, slug string) (bool, error)
}
