package models

import (
	"fmt"
	"time"
)

// SplitType records which policy produced an expense's splits.
// The ledger never recomputes splits; the tag is informational.
type SplitType string

const (
	SplitEqual      SplitType = "equal"
	SplitPercentage SplitType = "percentage"
	SplitExact      SplitType = "exact"
)

// ParseSplitType validates a split type tag.
func ParseSplitType(s string) (SplitType, error) {
	switch t := SplitType(s); t {
	case SplitEqual, SplitPercentage, SplitExact:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown split type %q", ErrInvalid, s)
}

// DefaultCategory is assigned to expenses created without a category.
const DefaultCategory = "Other"

// Expense is a payment made by one user on behalf of the participants in Splits.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	Description string

	// Amount is the full expense total. Always positive.
	Amount float64

	Category string

	// Date is when the expense happened.
	Date time.Time

	// PayerID is the user who paid the full amount.
	PayerID string

	SplitType SplitType

	// Splits are the per-participant shares, in the order they were submitted.
	Splits []Split

	// GroupID is the owning group. Empty for 1-to-1 expenses.
	GroupID string

	// CreatedBy is the user who recorded the expense.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Split is one participant's owed share of an expense.
type Split struct {
	UserID string

	// Amount is the participant's share. Never negative.
	Amount float64

	// Paid marks a share that was already settled when the expense was
	// created (typically the payer's own share). Paid splits never enter
	// the ledger.
	Paid bool
}

// SplitFor returns the split of userID, if any.
func (e *Expense) SplitFor(userID string) (Split, bool) {
	for _, s := range e.Splits {
		if s.UserID == userID {
			return s, true
		}
	}
	return Split{}, false
}

// Involves reports whether userID paid for or participates in the expense.
func (e *Expense) Involves(userID string) bool {
	if e.PayerID == userID {
		return true
	}
	_, ok := e.SplitFor(userID)
	return ok
}

// IsOneToOne reports whether the expense is outside any group.
func (e *Expense) IsOneToOne() bool { return e.GroupID == "" }
