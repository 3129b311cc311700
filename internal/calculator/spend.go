package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// MonthSpend is a user's own share of expenses in one calendar month.
type MonthSpend struct {
	Month time.Time
	Total float64
}

// YearStart returns midnight on January 1st of now's year, in now's location.
func YearStart(now time.Time) time.Time {
	return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
}

// TotalSpent sums userID's own split amounts over expenses dated in the
// calendar year of now. This is a spend report: paid flags are ignored and
// the payer is credited only with their own share.
func TotalSpent(userID string, expenses []*models.Expense, now time.Time) float64 {
	total := decimal.Zero
	for _, m := range MonthlySpend(userID, expenses, now) {
		total = total.Add(decimal.NewFromFloat(m.Total))
	}
	return total.InexactFloat64()
}

// MonthlySpend buckets userID's own split amounts by month for the calendar
// year of now. It always returns twelve buckets, January first.
func MonthlySpend(userID string, expenses []*models.Expense, now time.Time) []MonthSpend {
	start := YearStart(now)
	end := start.AddDate(1, 0, 0)

	var totals [12]decimal.Decimal
	for _, e := range expenses {
		d := e.Date.In(now.Location())
		if d.Before(start) || !d.Before(end) {
			continue
		}
		if s, ok := e.SplitFor(userID); ok {
			totals[d.Month()-1] = totals[d.Month()-1].Add(decimal.NewFromFloat(s.Amount))
		}
	}

	months := make([]MonthSpend, 12)
	for i := range months {
		months[i] = MonthSpend{Month: start.AddDate(0, i, 0), Total: totals[i].InexactFloat64()}
	}
	return months
}
