package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
)

func TestOutstandingDebts(t *testing.T) {
	jan := func(d int) time.Time { return time.Date(2026, time.January, d, 9, 0, 0, 0, time.UTC) }

	grouped := equalExpense("g1", "alice", 30, jan(1), "alice", "carol")
	grouped.GroupID = "trip"
	expenses := []*models.Expense{
		equalExpense("e1", "alice", 100, jan(10), "alice", "bob"),
		equalExpense("e2", "bob", 40, jan(5), "alice", "bob"),
		grouped,
	}
	settlements := []*models.Settlement{settlement("s1", "bob", "alice", 10, jan(12))}

	got := OutstandingDebts([]string{"alice", "bob", "carol"}, expenses, settlements)

	require.Equal(t, []UserDebts{{
		UserID: "bob",
		Debts:  []Outstanding{{CounterpartyID: "alice", Amount: 20, Since: jan(5)}},
	}}, got)
}

func TestOutstandingDebts_SortedLargestFirst(t *testing.T) {
	expenses := []*models.Expense{
		equalExpense("e1", "bob", 20, day(2), "alice", "bob"),
		equalExpense("e2", "carol", 60, day(1), "alice", "carol"),
	}

	got := OutstandingDebts([]string{"alice"}, expenses, nil)
	require.Len(t, got, 1)
	require.Equal(t, []Outstanding{
		{CounterpartyID: "carol", Amount: 30, Since: day(1)},
		{CounterpartyID: "bob", Amount: 10, Since: day(2)},
	}, got[0].Debts)
}

func TestOutstandingDebts_FullySettled(t *testing.T) {
	expenses := []*models.Expense{equalExpense("e1", "alice", 100, day(1), "alice", "bob")}
	settlements := []*models.Settlement{settlement("s1", "bob", "alice", 50, day(2))}

	require.Empty(t, OutstandingDebts([]string{"alice", "bob"}, expenses, settlements))
}

func TestOutstandingDebts_SettlementOnlySinceFirstPayment(t *testing.T) {
	settlements := []*models.Settlement{
		settlement("s2", "alice", "bob", 20, day(9)),
		settlement("s1", "alice", "bob", 30, day(4)),
	}

	got := OutstandingDebts([]string{"alice", "bob"}, nil, settlements)
	require.Equal(t, []UserDebts{{
		UserID: "bob",
		Debts:  []Outstanding{{CounterpartyID: "alice", Amount: 50, Since: day(4)}},
	}}, got)
}
