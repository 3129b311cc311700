package calculator

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// Summary is a user's netted position across all their 1-to-1 relationships.
type Summary struct {
	YouOwe       float64
	YouAreOwed   float64
	TotalBalance float64
	// YouOweList and YouAreOwedByList are sorted by amount, largest first.
	YouOweList       []Debt
	YouAreOwedByList []Debt
}

// Summarize splits reconciled balances into what the user owes and what
// they are owed. YouOwe and YouAreOwed add up the netted per-counterparty
// amounts, so a pair that owes in both directions only counts its
// difference. Gross directional sums would differ there, but TotalBalance
// is the same either way.
func Summarize(bs Balances) Summary {
	var s Summary
	owe, owed := decimal.Zero, decimal.Zero
	for id, b := range bs {
		net := b.net()
		switch {
		case isZeroDecimal(net):
			continue
		case net.IsPositive():
			owed = owed.Add(net)
			s.YouAreOwedByList = append(s.YouAreOwedByList, Debt{UserID: id, Amount: net.InexactFloat64()})
		default:
			owe = owe.Add(net.Neg())
			s.YouOweList = append(s.YouOweList, Debt{UserID: id, Amount: net.Neg().InexactFloat64()})
		}
	}
	s.YouOwe = owe.InexactFloat64()
	s.YouAreOwed = owed.InexactFloat64()
	s.TotalBalance = owed.Sub(owe).InexactFloat64()

	byAmount := func(a, b Debt) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	}
	slices.SortFunc(s.YouOweList, byAmount)
	slices.SortFunc(s.YouAreOwedByList, byAmount)
	return s
}
