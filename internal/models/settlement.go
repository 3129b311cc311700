package models

import (
	"slices"
	"time"
)

// Settlement represents a payment from one user to another that pays down debt.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// Amount is the payment amount. Always positive.
	Amount float64

	// Note is an optional description for the settlement.
	Note string

	// Date is when the payment happened.
	Date time.Time

	// PayerID is the user who paid (debtor settling up).
	PayerID string

	// ReceiverID is the user who received payment (creditor being paid).
	ReceiverID string

	// GroupID is the group this settlement belongs to. Empty for 1-to-1 settlements.
	GroupID string

	// RelatedExpenseIDs are the expenses this payment is understood to cover.
	// When the last of them is deleted the settlement is deleted too.
	RelatedExpenseIDs []string

	// CreatedBy is the user ID who recorded this settlement.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64
}

// IsOneToOne reports whether the settlement is outside any group.
func (s *Settlement) IsOneToOne() bool { return s.GroupID == "" }

// Between reports whether the settlement was paid between a and b, in either direction.
func (s *Settlement) Between(a, b string) bool {
	return (s.PayerID == a && s.ReceiverID == b) || (s.PayerID == b && s.ReceiverID == a)
}

// Covers reports whether expenseID is in the related expense set.
func (s *Settlement) Covers(expenseID string) bool {
	return slices.Contains(s.RelatedExpenseIDs, expenseID)
}
