/*
errors.go - Centralized error types for the booth engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The boundary taxonomy is deliberately small: an operation either
  succeeds, silently does nothing (missing ids, dangling references),
  or rejects a sale commit with one of the errors below.

ERROR CATEGORIES:
  1. Commit preconditions - No event selected, empty basket
  2. Stock validation - A basket line failed the sellability check
  3. Persistence - Advisory blob-store write failures

USAGE:
  Callers classify with errors.Is():

    if errors.Is(err, pos.ErrNotSellable) {
        // show the shortage, leave state untouched
    }

SEE ALSO:
  - sale.go: Returns these from the commit protocol
  - api/handlers.go: Maps IsClientError to HTTP status codes
*/
package pos

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoEventSelected is returned when a sale is committed without a
	// currently selected event.
	ErrNoEventSelected = errors.New("no event selected")

	// ErrEmptyBasket is returned when a sale is committed with no basket lines.
	ErrEmptyBasket = errors.New("basket is empty")

	// ErrNotSellable is returned when any resolved basket line fails the
	// stock check. The whole sale is rejected; nothing is mutated.
	ErrNotSellable = errors.New("insufficient stock")

	// ErrPersistFailed wraps blob-store write failures. These are advisory:
	// the in-memory change has already been applied and is never rolled back.
	ErrPersistFailed = errors.New("persist failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// StockShortageError reports the first basket line that failed validation.
type StockShortageError struct {
	ProductID ProductID
	Name      string
	Requested int
	Available int
}

func (e *StockShortageError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d",
		e.Name, e.Requested, e.Available)
}

func (e *StockShortageError) Unwrap() error {
	return ErrNotSellable
}

// PersistError reports which blob failed to write.
type PersistError struct {
	Key string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %q: %v", e.Key, e.Err)
}

func (e *PersistError) Unwrap() error {
	return ErrPersistFailed
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to the caller's request
// rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNoEventSelected) ||
		errors.Is(err, ErrEmptyBasket) ||
		errors.Is(err, ErrNotSellable)
}

// IsPersistFailure returns true if the error is an advisory persistence
// failure: the in-memory outcome stands and should still be reported.
func IsPersistFailure(err error) bool {
	return errors.Is(err, ErrPersistFailed)
}
