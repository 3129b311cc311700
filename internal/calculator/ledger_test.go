package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/mmynk/splitledger/internal/models"
)

func TestNet(t *testing.T) {
	tests := []struct {
		name         string
		aOwesB       float64
		bOwesA       float64
		wantAToB     float64
		wantBToA     float64
	}{
		{name: "a owes more", aOwesB: 30, bOwesA: 10, wantAToB: 20, wantBToA: 0},
		{name: "b owes more", aOwesB: 5, bOwesA: 12.5, wantAToB: 0, wantBToA: 7.5},
		{name: "exactly equal", aOwesB: 10, bOwesA: 10, wantAToB: 0, wantBToA: 0},
		{name: "float noise is settled", aOwesB: 0.1 + 0.2, bOwesA: 0.3, wantAToB: 0, wantBToA: 0},
		{name: "one cent survives", aOwesB: 10.02, bOwesA: 10, wantAToB: 0.02, wantBToA: 0},
		{name: "negative directional total", aOwesB: -10, bOwesA: 0, wantAToB: 0, wantBToA: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aToB, bToA := Net(tt.aOwesB, tt.bOwesA)
			if math.Abs(aToB-tt.wantAToB) > 1e-9 {
				t.Errorf("aToB = %v, want %v", aToB, tt.wantAToB)
			}
			if math.Abs(bToA-tt.wantBToA) > 1e-9 {
				t.Errorf("bToA = %v, want %v", bToA, tt.wantBToA)
			}
		})
	}
}

func TestLedgerAccumulateAndPrune(t *testing.T) {
	l := make(Ledger)
	l.Accumulate("bob", 50)
	l.Accumulate("bob", -50)
	l.Accumulate("carol", 12)
	l.Accumulate("dave", -3)

	l.Prune()

	if _, ok := l["bob"]; ok {
		t.Error("expected settled entry for bob to be dropped")
	}
	if l["carol"] != 12 {
		t.Errorf("carol = %v, want 12", l["carol"])
	}
	if l["dave"] != -3 {
		t.Errorf("dave = %v, want -3", l["dave"])
	}
}

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		a, b float64
		want bool
	}{
		{90, 90, true},
		{89.99, 90, true},
		{90.01, 90, true},
		{89.98, 90, false},
		{90.02, 90, false},
		{0.1 + 0.2, 0.3, true},
	}
	for _, tt := range tests {
		if got := WithinTolerance(tt.a, tt.b); got != tt.want {
			t.Errorf("WithinTolerance(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCheckSplits(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		splits   []models.Split
		wantErr  bool
		mismatch bool
	}{
		{
			name:   "equal split",
			amount: 100,
			splits: []models.Split{{UserID: "alice", Amount: 50, Paid: true}, {UserID: "bob", Amount: 50}},
		},
		{
			name:   "thirds within tolerance",
			amount: 100,
			splits: []models.Split{{UserID: "a", Amount: 33.33}, {UserID: "b", Amount: 33.33}, {UserID: "c", Amount: 33.33}},
		},
		{
			name:   "boundary is inclusive",
			amount: 90,
			splits: []models.Split{{UserID: "a", Amount: 45}, {UserID: "b", Amount: 44.99}},
		},
		{
			name:     "two cents short",
			amount:   90,
			splits:   []models.Split{{UserID: "a", Amount: 45}, {UserID: "b", Amount: 44.98}},
			wantErr:  true,
			mismatch: true,
		},
		{
			name:     "over total",
			amount:   10,
			splits:   []models.Split{{UserID: "a", Amount: 11}},
			wantErr:  true,
			mismatch: true,
		},
		{
			name:    "zero amount",
			amount:  0,
			splits:  []models.Split{{UserID: "a", Amount: 0}},
			wantErr: true,
		},
		{
			name:    "negative share",
			amount:  10,
			splits:  []models.Split{{UserID: "a", Amount: 15}, {UserID: "b", Amount: -5}},
			wantErr: true,
		},
		{
			name:    "duplicate participant",
			amount:  10,
			splits:  []models.Split{{UserID: "a", Amount: 5}, {UserID: "a", Amount: 5}},
			wantErr: true,
		},
		{
			name:    "no splits",
			amount:  10,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSplits(tt.amount, tt.splits)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckSplits() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, models.ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
			var mm *models.SplitMismatchError
			if errors.As(err, &mm) != tt.mismatch {
				t.Errorf("mismatch error = %v, want %v", errors.As(err, &mm), tt.mismatch)
			}
		})
	}
}
