package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// Balance is the running position between a focal user and one counterparty.
type Balance struct {
	// Owed is what the counterparty owes the focal user.
	Owed decimal.Decimal
	// Owing is what the focal user owes the counterparty.
	Owing decimal.Decimal
	// Since is the date of the earliest expense that contributed to the pair.
	// Settlements never move it, except for a pair with no expenses at all,
	// where it is the earliest settlement.
	Since time.Time

	firstSettled time.Time
}

// Net returns the signed balance: positive when the counterparty owes the
// focal user, negative when the focal user owes the counterparty.
func (b *Balance) Net() float64 {
	return b.net().InexactFloat64()
}

func (b *Balance) net() decimal.Decimal {
	theyOwe, iOwe := netDecimal(b.Owed, b.Owing)
	return theyOwe.Sub(iOwe)
}

func (b *Balance) touch(date time.Time) {
	if b.Since.IsZero() || date.Before(b.Since) {
		b.Since = date
	}
}

func (b *Balance) settledOn(date time.Time) {
	if b.firstSettled.IsZero() || date.Before(b.firstSettled) {
		b.firstSettled = date
	}
}

// Balances maps counterparty ID to the focal user's position against them.
type Balances map[string]*Balance

func (bs Balances) entry(counterparty string) *Balance {
	b, ok := bs[counterparty]
	if !ok {
		b = &Balance{}
		bs[counterparty] = b
	}
	return b
}

// Nets returns the non-zero net balance per counterparty.
func (bs Balances) Nets() Ledger {
	l := make(Ledger, len(bs))
	for id, b := range bs {
		l.Accumulate(id, b.Net())
	}
	return l.Prune()
}

// Total is the sum of all net balances.
func (bs Balances) Total() float64 {
	total := decimal.Zero
	for _, b := range bs {
		total = total.Add(b.net())
	}
	return total.InexactFloat64()
}

// Reconcile folds expenses and settlements into the focal user's position
// against every counterparty they appear with. The records must already be
// restricted to one scope (1-to-1 or a single group). The result does not
// depend on record order.
func Reconcile(focal string, expenses []*models.Expense, settlements []*models.Settlement) Balances {
	bs := make(Balances)

	for _, e := range expenses {
		if e.PayerID == focal {
			for _, s := range e.Splits {
				if s.UserID == focal || s.Paid {
					continue
				}
				b := bs.entry(s.UserID)
				b.Owed = b.Owed.Add(decimal.NewFromFloat(s.Amount))
				b.touch(e.Date)
			}
			continue
		}
		if s, ok := e.SplitFor(focal); ok && !s.Paid {
			b := bs.entry(e.PayerID)
			b.Owing = b.Owing.Add(decimal.NewFromFloat(s.Amount))
			b.touch(e.Date)
		}
	}

	for _, st := range settlements {
		amount := decimal.NewFromFloat(st.Amount)
		switch focal {
		case st.PayerID:
			b := bs.entry(st.ReceiverID)
			b.Owing = b.Owing.Sub(amount)
			b.settledOn(st.Date)
		case st.ReceiverID:
			b := bs.entry(st.PayerID)
			b.Owed = b.Owed.Sub(amount)
			b.settledOn(st.Date)
		}
	}

	for _, b := range bs {
		if b.Since.IsZero() {
			b.Since = b.firstSettled
		}
	}
	return bs
}
