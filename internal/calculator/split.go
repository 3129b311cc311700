package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// SplitTotal sums split amounts in decimal arithmetic.
func SplitTotal(splits []models.Split) float64 {
	sum := decimal.Zero
	for _, s := range splits {
		sum = sum.Add(decimal.NewFromFloat(s.Amount))
	}
	return sum.InexactFloat64()
}

// CheckSplits validates an expense's shares against its amount: the amount
// is positive, every share names a distinct participant with a non-negative
// amount, and the shares add up to the amount within Tolerance.
func CheckSplits(amount float64, splits []models.Split) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %.2f", models.ErrInvalid, amount)
	}
	if len(splits) == 0 {
		return fmt.Errorf("%w: at least one split is required", models.ErrInvalid)
	}

	seen := make(map[string]bool, len(splits))
	for _, s := range splits {
		if s.UserID == "" {
			return fmt.Errorf("%w: split without participant", models.ErrInvalid)
		}
		if seen[s.UserID] {
			return fmt.Errorf("%w: duplicate split for %s", models.ErrInvalid, s.UserID)
		}
		seen[s.UserID] = true
		if s.Amount < 0 {
			return fmt.Errorf("%w: split for %s is negative", models.ErrInvalid, s.UserID)
		}
	}

	total := SplitTotal(splits)
	if !WithinTolerance(total, amount) {
		return &models.SplitMismatchError{Amount: amount, SplitTotal: total}
	}
	return nil
}
