// Package calculator is the balance engine. It turns expense and settlement
// records into netted per-counterparty balances for a pair of users, a
// group, or one user against everyone.
//
// Everything here is pure arithmetic over records already fetched from the
// store: no I/O and no state kept between calls.
package calculator

import (
	"math"

	"github.com/shopspring/decimal"
)

// Tolerance is the absolute amount used for every comparison: balances
// smaller than it are settled, and splits must match their expense total
// to within it.
const Tolerance = 0.01

var tolerance = decimal.NewFromFloat(Tolerance)

// Ledger maps a counterparty ID to a signed running balance.
type Ledger map[string]float64

// Accumulate adds delta to the counterparty's balance, creating the entry if absent.
func (l Ledger) Accumulate(counterparty string, delta float64) {
	l[counterparty] += delta
}

// Prune removes settled entries and returns l.
func (l Ledger) Prune() Ledger {
	for k, v := range l {
		if IsZero(v) {
			delete(l, k)
		}
	}
	return l
}

// Net collapses two one-directional totals between the same pair into a
// single debt. Exactly one of the results is non-zero, or both are zero
// when the totals cancel out.
func Net(aOwesB, bOwesA float64) (aToB, bToA float64) {
	x, y := netDecimal(decimal.NewFromFloat(aOwesB), decimal.NewFromFloat(bOwesA))
	return x.InexactFloat64(), y.InexactFloat64()
}

func netDecimal(aOwesB, bOwesA decimal.Decimal) (aToB, bToA decimal.Decimal) {
	diff := aOwesB.Sub(bOwesA)
	switch {
	case isZeroDecimal(diff):
		return decimal.Zero, decimal.Zero
	case diff.IsPositive():
		return diff, decimal.Zero
	default:
		return decimal.Zero, diff.Neg()
	}
}

// IsZero reports whether v is a settled balance.
func IsZero(v float64) bool {
	return math.Abs(v) < Tolerance
}

func isZeroDecimal(v decimal.Decimal) bool {
	return v.Abs().LessThan(tolerance)
}

// sums keeps running totals per key in decimal, so the order amounts are
// added in never changes the result.
type sums map[string]decimal.Decimal

func (s sums) add(key string, delta float64) {
	s[key] = s[key].Add(decimal.NewFromFloat(delta))
}

// WithinTolerance reports whether |a-b| <= Tolerance. The difference is
// taken in decimal so the boundary is inclusive exactly, not up to float noise.
func WithinTolerance(a, b float64) bool {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Abs().LessThanOrEqual(tolerance)
}
