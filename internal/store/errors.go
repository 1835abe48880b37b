package store

import "errors"

var (
	// ErrConflict signals a stale revision or disagreeing id/slug matches.
	// The caller must refetch and retry.
	ErrConflict = errors.New("record conflict")

	// ErrDuplicate signals a slug collision with a different record.
	ErrDuplicate = errors.New("duplicate slug")

	// ErrUnconfigured signals missing remote endpoint or credential settings.
	ErrUnconfigured = errors.New("snapshot backend not configured")

	// ErrRequestFailed signals a transport failure or non-success response.
	ErrRequestFailed = errors.New("snapshot request failed")

	// ErrInvalidResponse signals a malformed remote response body.
	ErrInvalidResponse = errors.New("invalid snapshot response")
)
