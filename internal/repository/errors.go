// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrDuplicateKey signals that an insert hit a
// unique constraint (confirmation codes, venue slugs, emails).
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrDuplicateKey is returned when an insert or update violates a
// unique constraint. The booking engine maps this onto its retry
// path; handlers elsewhere translate it into an HTTP 409 response.
var ErrDuplicateKey = errors.New("duplicate key")

// Per-entity not-found sentinels.
var (
	ErrVenueNotFound   = errors.New("venue not found")
	ErrTableNotFound   = errors.New("table not found")
	ErrGameNotFound    = errors.New("game not found")
	ErrBookingNotFound = errors.New("booking not found")
)

// isDuplicateKey recognizes a MySQL duplicate-entry failure (error
// number 1062) from the driver's error text.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
