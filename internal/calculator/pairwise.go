package calculator

import (
	"slices"

	"github.com/mmynk/splitledger/internal/models"
)

// PairLedger is the 1-to-1 relationship between two users as seen by the first.
type PairLedger struct {
	// Expenses between the pair, newest first.
	Expenses []*models.Expense
	// Settlements between the pair, newest first.
	Settlements []*models.Settlement
	// Balance is positive when the other user owes me.
	Balance float64
}

// Pairwise restricts 1-to-1 records to those between me and other and
// reconciles them. An expense belongs to the pair when one of them paid it
// and the other is involved.
func Pairwise(me, other string, expenses []*models.Expense, settlements []*models.Settlement) PairLedger {
	var pl PairLedger
	for _, e := range expenses {
		if !e.IsOneToOne() {
			continue
		}
		if (e.PayerID == me && e.Involves(other)) || (e.PayerID == other && e.Involves(me)) {
			pl.Expenses = append(pl.Expenses, e)
		}
	}
	for _, s := range settlements {
		if s.IsOneToOne() && s.Between(me, other) {
			pl.Settlements = append(pl.Settlements, s)
		}
	}

	slices.SortStableFunc(pl.Expenses, func(a, b *models.Expense) int { return b.Date.Compare(a.Date) })
	slices.SortStableFunc(pl.Settlements, func(a, b *models.Settlement) int { return b.Date.Compare(a.Date) })

	pl.Balance = Reconcile(me, pl.Expenses, pl.Settlements).Nets()[other]
	return pl
}
