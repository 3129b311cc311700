package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

func TestMonthlySpend(t *testing.T) {
	now := time.Date(2026, time.October, 14, 15, 0, 0, 0, time.UTC)
	at := func(m time.Month, d int) time.Time { return time.Date(2026, m, d, 10, 0, 0, 0, time.UTC) }

	expenses := []*models.Expense{
		{ID: "e1", PayerID: "alice", Amount: 90, Date: at(time.January, 5), Splits: []models.Split{
			{UserID: "alice", Amount: 30, Paid: true}, {UserID: "bob", Amount: 30}, {UserID: "carol", Amount: 30},
		}},
		{ID: "e2", PayerID: "bob", Amount: 20, Date: at(time.March, 3), Splits: []models.Split{
			{UserID: "alice", Amount: 10}, {UserID: "bob", Amount: 10, Paid: true},
		}},
		{ID: "e3", PayerID: "bob", Amount: 8, Date: at(time.March, 20), Splits: []models.Split{
			{UserID: "alice", Amount: 2.5}, {UserID: "bob", Amount: 5.5, Paid: true},
		}},
		// last year
		{ID: "e4", PayerID: "alice", Amount: 50, Date: time.Date(2025, time.December, 31, 22, 0, 0, 0, time.UTC), Splits: []models.Split{
			{UserID: "alice", Amount: 50, Paid: true},
		}},
		// alice not involved
		{ID: "e5", PayerID: "bob", Amount: 40, Date: at(time.May, 1), Splits: []models.Split{
			{UserID: "carol", Amount: 40},
		}},
	}

	months := MonthlySpend("alice", expenses, now)
	if len(months) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(months))
	}
	if !months[0].Month.Equal(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first bucket = %v, want Jan 1 2026", months[0].Month)
	}
	if !months[11].Month.Equal(time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("last bucket = %v, want Dec 1 2026", months[11].Month)
	}

	want := map[time.Month]float64{time.January: 30, time.March: 12.5}
	for _, m := range months {
		if math.Abs(m.Total-want[m.Month.Month()]) > 1e-9 {
			t.Errorf("%s total = %v, want %v", m.Month.Month(), m.Total, want[m.Month.Month()])
		}
	}

	if total := TotalSpent("alice", expenses, now); math.Abs(total-42.5) > 1e-9 {
		t.Errorf("TotalSpent = %v, want 42.5", total)
	}
	if total := TotalSpent("carol", expenses, now); math.Abs(total-70) > 1e-9 {
		t.Errorf("carol TotalSpent = %v, want 70", total)
	}
}

func TestYearStart(t *testing.T) {
	loc := time.FixedZone("AEST", 10*60*60)
	now := time.Date(2026, time.June, 30, 23, 59, 0, 0, loc)
	got := YearStart(now)
	want := time.Date(2026, time.January, 1, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("YearStart = %v, want %v", got, want)
	}
}

func TestMonthlySpend_SumsAreExact(t *testing.T) {
	now := time.Date(2026, time.October, 14, 15, 0, 0, 0, time.UTC)
	var expenses []*models.Expense
	for i, amt := range []float64{0.1, 0.2, 0.3} {
		expenses = append(expenses, &models.Expense{
			PayerID: "bob", Amount: amt,
			Date:   time.Date(2026, time.April, i+1, 9, 0, 0, 0, time.UTC),
			Splits: []models.Split{{UserID: "alice", Amount: amt}},
		})
	}

	if got := MonthlySpend("alice", expenses, now)[time.April-1].Total; got != 0.6 {
		t.Errorf("April total = %v, want 0.6", got)
	}
	if got := TotalSpent("alice", expenses, now); got != 0.6 {
		t.Errorf("TotalSpent = %v, want 0.6", got)
	}
}
