package calculator

import (
	"github.com/mmynk/splitledger/internal/models"
)

// Debt is an amount owed to or by one counterparty.
type Debt struct {
	UserID string
	Amount float64
}

// MemberBalance is one member's netted position inside a group.
type MemberBalance struct {
	UserID string
	// TotalBalance is positive when the group owes the member overall.
	TotalBalance float64
	// Owes lists the people this member owes, after netting.
	Owes []Debt
	// OwedBy lists the people who owe this member, after netting.
	OwedBy []Debt
}

// GroupLedger builds the member x member debt matrix for one group's
// records, nets every unordered pair once and reports each member's
// position. Records must all belong to the group. Users that appear in
// records but are no longer members take part in netting, so debts towards
// them still show up in the members' lists.
func GroupLedger(memberIDs []string, expenses []*models.Expense, settlements []*models.Settlement) []MemberBalance {
	ids := participants(memberIDs, expenses, settlements)

	// owes[a][b] is what a owes b before netting.
	owes := make(map[string]sums, len(ids))
	for _, id := range ids {
		owes[id] = make(sums)
	}
	totals := make(sums, len(ids))

	for _, e := range expenses {
		for _, s := range e.Splits {
			if s.UserID == e.PayerID || s.Paid {
				continue
			}
			totals.add(e.PayerID, s.Amount)
			totals.add(s.UserID, -s.Amount)
			owes[s.UserID].add(e.PayerID, s.Amount)
		}
	}
	for _, st := range settlements {
		totals.add(st.PayerID, st.Amount)
		totals.add(st.ReceiverID, -st.Amount)
		owes[st.PayerID].add(st.ReceiverID, -st.Amount)
	}

	for i, a := range ids {
		for _, b := range ids[i+1:] {
			aToB, bToA := netDecimal(owes[a][b], owes[b][a])
			owes[a][b], owes[b][a] = aToB, bToA
		}
	}

	balances := make([]MemberBalance, 0, len(memberIDs))
	for _, m := range memberIDs {
		mb := MemberBalance{UserID: m}
		if total := totals[m]; !isZeroDecimal(total) {
			mb.TotalBalance = total.InexactFloat64()
		}
		for _, other := range ids {
			if other == m {
				continue
			}
			if amt := owes[m][other]; amt.IsPositive() {
				mb.Owes = append(mb.Owes, Debt{UserID: other, Amount: amt.InexactFloat64()})
			}
			if amt := owes[other][m]; amt.IsPositive() {
				mb.OwedBy = append(mb.OwedBy, Debt{UserID: other, Amount: amt.InexactFloat64()})
			}
		}
		balances = append(balances, mb)
	}
	return balances
}

// participants returns the members followed by any other user that appears
// in the records, in first-seen order.
func participants(memberIDs []string, expenses []*models.Expense, settlements []*models.Settlement) []string {
	seen := make(map[string]bool, len(memberIDs))
	var ids []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, m := range memberIDs {
		add(m)
	}
	for _, e := range expenses {
		add(e.PayerID)
		for _, s := range e.Splits {
			add(s.UserID)
		}
	}
	for _, s := range settlements {
		add(s.PayerID)
		add(s.ReceiverID)
	}
	return ids
}
