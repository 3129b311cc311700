package models

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the ledger. Concrete errors wrap one of these,
// so callers classify with errors.Is.
var (
	ErrUnauthenticated  = errors.New("authentication required")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalid          = errors.New("invalid argument")
	ErrNotFound         = errors.New("not found")
)

// SplitMismatchError reports splits that do not add up to the expense amount.
type SplitMismatchError struct {
	Amount     float64
	SplitTotal float64
}

func (e *SplitMismatchError) Error() string {
	return fmt.Sprintf("split amounts must equal total expense: splits sum to %.2f, expense is %.2f (off by %.2f)",
		e.SplitTotal, e.Amount, e.Diff())
}

// Unwrap classifies the mismatch as a validation failure.
func (e *SplitMismatchError) Unwrap() error { return ErrInvalid }

// Diff is how far the splits overshoot the amount; negative when they fall short.
func (e *SplitMismatchError) Diff() float64 { return e.SplitTotal - e.Amount }
