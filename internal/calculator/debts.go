package calculator

import (
	"cmp"
	"slices"
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

// Outstanding is a debt one user still owes a counterparty.
type Outstanding struct {
	CounterpartyID string
	Amount         float64
	// Since is the earliest expense date behind the debt, or the earliest
	// settlement date when the debt comes from settlements alone.
	Since time.Time
}

// UserDebts groups the outstanding debts of one user.
type UserDebts struct {
	UserID string
	Debts  []Outstanding
}

// OutstandingDebts reconciles every user against all of their 1-to-1
// relationships at once and keeps what each user still owes. Users without
// debts are omitted. Group records in the input are ignored.
func OutstandingDebts(userIDs []string, expenses []*models.Expense, settlements []*models.Settlement) []UserDebts {
	expenses = slices.DeleteFunc(slices.Clone(expenses), func(e *models.Expense) bool { return !e.IsOneToOne() })
	settlements = slices.DeleteFunc(slices.Clone(settlements), func(s *models.Settlement) bool { return !s.IsOneToOne() })

	var result []UserDebts
	for _, uid := range userIDs {
		bs := Reconcile(uid, expenses, settlements)

		var debts []Outstanding
		for cp, b := range bs {
			net := b.net()
			if !net.IsNegative() {
				continue
			}
			debts = append(debts, Outstanding{CounterpartyID: cp, Amount: net.Neg().InexactFloat64(), Since: b.Since})
		}
		if len(debts) == 0 {
			continue
		}
		slices.SortFunc(debts, func(a, b Outstanding) int {
			if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
				return c
			}
			return cmp.Compare(a.CounterpartyID, b.CounterpartyID)
		})
		result = append(result, UserDebts{UserID: uid, Debts: debts})
	}
	return result
}
