// Package apperr defines the error kinds the API surfaces distinctly:
// validation, authorization, insufficient stock, commit failure, not found.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced record is missing so handlers
	// can respond with 404.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized is returned when the actor's role does not permit the
	// requested direction or catalog mutation. No retry.
	ErrUnauthorized = errors.New("action not permitted for this role")

	// ErrCommitFailed wraps a backend rejection during the group/line/stock
	// write sequence. The cart is left intact so the user can resubmit.
	ErrCommitFailed = errors.New("transaction commit failed")
)

// ValidationError covers malformed cart or request input. Recovered locally;
// a commit is never attempted.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf builds a ValidationError.
func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InsufficientStockError carries the available quantity so the user can
// reduce the requested amount instead of guessing.
type InsufficientStockError struct {
	ItemName  string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d", e.ItemName, e.Requested, e.Available)
}

// IsInsufficientStock reports whether err is an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var se *InsufficientStockError
	return errors.As(err, &se)
}

// CommitFailed wraps err with ErrCommitFailed unless it already carries one of
// the distinct kinds above (those must pass through untouched).
func CommitFailed(err error) error {
	if err == nil {
		return nil
	}
	if IsValidation(err) || IsInsufficientStock(err) ||
		errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrCommitFailed, err)
}
