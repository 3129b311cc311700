package calculator

import (
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
)

var day = func(d int) time.Time { return time.Date(2026, time.March, d, 12, 0, 0, 0, time.UTC) }

func equalExpense(id, payer string, amount float64, date time.Time, participants ...string) *models.Expense {
	share := amount / float64(len(participants))
	e := &models.Expense{ID: id, Amount: amount, PayerID: payer, Date: date, SplitType: models.SplitEqual}
	for _, p := range participants {
		e.Splits = append(e.Splits, models.Split{UserID: p, Amount: share, Paid: p == payer})
	}
	return e
}

func settlement(id, payer, receiver string, amount float64, date time.Time) *models.Settlement {
	return &models.Settlement{ID: id, PayerID: payer, ReceiverID: receiver, Amount: amount, Date: date}
}

func TestPairwise_PayerSplitEqually(t *testing.T) {
	expenses := []*models.Expense{equalExpense("e1", "alice", 100, day(1), "alice", "bob")}

	pl := Pairwise("alice", "bob", expenses, nil)
	require.InDelta(t, 50, pl.Balance, 1e-9)
	require.Len(t, pl.Expenses, 1)

	pl = Pairwise("bob", "alice", expenses, nil)
	require.InDelta(t, -50, pl.Balance, 1e-9)
}

func TestPairwise_SettledUp(t *testing.T) {
	expenses := []*models.Expense{equalExpense("e1", "alice", 100, day(1), "alice", "bob")}
	settlements := []*models.Settlement{settlement("s1", "bob", "alice", 50, day(2))}

	pl := Pairwise("alice", "bob", expenses, settlements)
	require.Zero(t, pl.Balance)

	summary := Summarize(Reconcile("alice", expenses, settlements))
	require.Empty(t, summary.YouAreOwedByList)
	require.Empty(t, summary.YouOweList)
	require.Zero(t, summary.TotalBalance)
}

func TestPairwise_FiltersScopeAndSorts(t *testing.T) {
	grouped := equalExpense("g1", "alice", 60, day(3), "alice", "bob")
	grouped.GroupID = "trip"
	thirdParty := equalExpense("e3", "carol", 30, day(4), "alice", "bob", "carol")
	expenses := []*models.Expense{
		equalExpense("e1", "alice", 20, day(1), "alice", "bob"),
		grouped,
		thirdParty,
		equalExpense("e2", "bob", 10, day(5), "alice", "bob"),
		equalExpense("e4", "alice", 40, day(6), "alice", "dave"),
	}
	groupSettlement := settlement("s2", "bob", "alice", 30, day(7))
	groupSettlement.GroupID = "trip"
	settlements := []*models.Settlement{
		settlement("s1", "bob", "alice", 2, day(2)),
		groupSettlement,
		settlement("s3", "dave", "alice", 20, day(8)),
	}

	pl := Pairwise("alice", "bob", expenses, settlements)

	var ids []string
	for _, e := range pl.Expenses {
		ids = append(ids, e.ID)
	}
	require.Equal(t, []string{"e2", "e1"}, ids)
	require.Len(t, pl.Settlements, 1)
	require.Equal(t, "s1", pl.Settlements[0].ID)
	// alice is owed 10 from e1, owes 5 from e2, and bob paid 2.
	require.InDelta(t, 3, pl.Balance, 1e-9)
}

func TestReconcile_Symmetry(t *testing.T) {
	expenses := []*models.Expense{
		equalExpense("e1", "alice", 100, day(1), "alice", "bob"),
		equalExpense("e2", "bob", 36, day(2), "alice", "bob", "carol"),
		{ID: "e3", PayerID: "bob", Amount: 25, Date: day(3), Splits: []models.Split{
			{UserID: "alice", Amount: 20}, {UserID: "bob", Amount: 5},
		}},
	}
	settlements := []*models.Settlement{
		settlement("s1", "bob", "alice", 7.5, day(4)),
		settlement("s2", "alice", "bob", 1.25, day(5)),
	}

	for _, pair := range [][2]string{{"alice", "bob"}, {"alice", "carol"}, {"bob", "carol"}} {
		a, b := pair[0], pair[1]
		ab := Pairwise(a, b, expenses, settlements).Balance
		ba := Pairwise(b, a, expenses, settlements).Balance
		require.InDelta(t, ab, -ba, 1e-9, "%s/%s", a, b)
	}
}

func TestReconcile_OrderIndependent(t *testing.T) {
	expenses := []*models.Expense{
		equalExpense("e1", "alice", 100, day(1), "alice", "bob"),
		equalExpense("e2", "bob", 30, day(2), "alice", "bob", "carol"),
		equalExpense("e3", "carol", 45, day(3), "alice", "carol", "dave"),
		equalExpense("e4", "alice", 12.4, day(4), "alice", "dave"),
		equalExpense("e5", "dave", 80, day(5), "alice", "bob", "carol", "dave"),
	}
	settlements := []*models.Settlement{
		settlement("s1", "bob", "alice", 20, day(6)),
		settlement("s2", "alice", "carol", 5.1, day(7)),
		settlement("s3", "dave", "alice", 3.3, day(8)),
	}

	want := Reconcile("alice", expenses, settlements).Nets()
	wantSince := Reconcile("alice", expenses, settlements)["dave"].Since

	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 20; i++ {
		es := slices.Clone(expenses)
		ss := slices.Clone(settlements)
		rng.Shuffle(len(es), func(i, j int) { es[i], es[j] = es[j], es[i] })
		rng.Shuffle(len(ss), func(i, j int) { ss[i], ss[j] = ss[j], ss[i] })

		got := Reconcile("alice", es, ss)
		require.Equal(t, want, got.Nets())
		require.Equal(t, Summarize(Reconcile("alice", expenses, settlements)), Summarize(got))
		require.Equal(t, wantSince, got["dave"].Since)
	}
}

func TestReconcile_SumsAreExact(t *testing.T) {
	expenses := []*models.Expense{
		equalExpense("e1", "alice", 0.2, day(1), "alice", "bob"),
		equalExpense("e2", "alice", 0.4, day(2), "alice", "bob"),
		equalExpense("e3", "alice", 0.6, day(3), "alice", "bob"),
	}
	reversed := slices.Clone(expenses)
	slices.Reverse(reversed)

	forward := Reconcile("alice", expenses, nil)
	backward := Reconcile("alice", reversed, nil)

	require.Equal(t, Ledger{"bob": 0.6}, forward.Nets())
	require.Equal(t, forward.Nets(), backward.Nets())
	require.Equal(t, 0.6, backward.Total())
	require.Equal(t, -0.6, Pairwise("bob", "alice", reversed, nil).Balance)
}

func TestReconcile_PaidSplitsIgnored(t *testing.T) {
	e := &models.Expense{ID: "e1", PayerID: "alice", Amount: 90, Date: day(1), Splits: []models.Split{
		{UserID: "alice", Amount: 30, Paid: true},
		{UserID: "bob", Amount: 30, Paid: true},
		{UserID: "carol", Amount: 30},
	}}

	nets := Reconcile("alice", []*models.Expense{e}, nil).Nets()
	require.Equal(t, Ledger{"carol": 30}, nets)

	require.Empty(t, Reconcile("bob", []*models.Expense{e}, nil).Nets())
}

func TestSummarize(t *testing.T) {
	expenses := []*models.Expense{
		equalExpense("e1", "alice", 100, day(1), "alice", "bob"),
		equalExpense("e2", "alice", 30, day(2), "alice", "carol"),
		equalExpense("e3", "dave", 40, day(3), "alice", "dave"),
		equalExpense("e4", "bob", 20, day(4), "alice", "bob"),
	}

	s := Summarize(Reconcile("alice", expenses, nil))

	require.InDelta(t, 55, s.YouAreOwed, 1e-9)
	require.InDelta(t, 20, s.YouOwe, 1e-9)
	require.InDelta(t, 35, s.TotalBalance, 1e-9)
	require.Equal(t, []Debt{{UserID: "bob", Amount: 40}, {UserID: "carol", Amount: 15}}, s.YouAreOwedByList)
	require.Equal(t, []Debt{{UserID: "dave", Amount: 20}}, s.YouOweList)
}
