package submission

import (
	"errors"
	"fmt"
)

// ErrPackaging is the sentinel every packaging failure matches.
var ErrPackaging = errors.New("packaging failed")

// PackagingError names the offending product, row, and file so the caller
// can render an actionable message.
type PackagingError struct {
	Product string
	Row     int
	Path    string
	Reason  string
	Err     error
}

func (e *PackagingError) Error() string {
	msg := fmt.Sprintf("row %d: %q: %s", e.Row, e.Product, e.Reason)
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PackagingError) Is(target error) bool { return target == ErrPackaging }

func (e *PackagingError) Unwrap() error { return e.Err }

func packagingErr(row int, product, path, reason string, err error) *PackagingError {
	return &PackagingError{Product: product, Row: row, Path: path, Reason: reason, Err: err}
}
