// Package store defines the record store contract shared by the table and
// snapshot backends, plus the conflict and uniqueness rules both apply.
//
// Absence is never an error: Get returns a nil record and Delete returns
// false when the slug does not exist. Errors are reserved for conflicts,
// duplicates, and transport or configuration failures.
package store
