package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustUser(t *testing.T, store *SQLiteStore, name string) *models.User {
	t.Helper()
	u := models.NewUser(name+"@example.com", name, "")
	if err := store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", name, err)
	}
	return u
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustUser(t, store, "alice")
	bob := mustUser(t, store, "bob")
	carol := mustUser(t, store, "carol")

	march := func(d int) time.Time { return time.Date(2026, time.March, d, 12, 0, 0, 0, time.UTC) }

	group := &models.Group{
		Name:      "Flat",
		CreatedBy: alice.ID,
		Members: []models.Member{
			{UserID: alice.ID, Role: models.RoleAdmin},
			{UserID: bob.ID, Role: models.RoleMember},
		},
	}

	t.Run("CreateGroup and GetGroup round trip members", func(t *testing.T) {
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if group.ID == "" {
			t.Fatal("Expected group ID to be generated")
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Name != "Flat" {
			t.Errorf("Name mismatch: got %s, want Flat", got.Name)
		}
		if len(got.Members) != 2 {
			t.Fatalf("Members count mismatch: got %d, want 2", len(got.Members))
		}
		if got.Members[0].UserID != alice.ID || got.Members[0].Role != models.RoleAdmin {
			t.Errorf("unexpected first member: %+v", got.Members[0])
		}
		if !got.IsMember(bob.ID) || got.IsMember(carol.ID) {
			t.Error("membership mismatch")
		}

		groups, err := store.ListGroupsForUser(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListGroupsForUser failed: %v", err)
		}
		if len(groups) != 1 || groups[0].ID != group.ID {
			t.Errorf("expected bob to be in one group, got %d", len(groups))
		}
	})

	t.Run("GetGroup returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "nonexistent-id")
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	oneToOne := &models.Expense{
		Description: "Dinner",
		Amount:      100,
		Category:    "Food",
		Date:        march(1),
		PayerID:     alice.ID,
		SplitType:   models.SplitEqual,
		Splits: []models.Split{
			{UserID: alice.ID, Amount: 50, Paid: true},
			{UserID: bob.ID, Amount: 50},
		},
		CreatedBy: alice.ID,
	}
	grouped := &models.Expense{
		Description: "Groceries",
		Amount:      30,
		Category:    "Food",
		Date:        march(5),
		PayerID:     bob.ID,
		SplitType:   models.SplitExact,
		Splits: []models.Split{
			{UserID: bob.ID, Amount: 10, Paid: true},
			{UserID: alice.ID, Amount: 20},
		},
		GroupID:   group.ID,
		CreatedBy: bob.ID,
	}
	other := &models.Expense{
		Description: "Taxi",
		Amount:      12,
		Category:    "Transport",
		Date:        march(3),
		PayerID:     carol.ID,
		SplitType:   models.SplitEqual,
		Splits:      []models.Split{{UserID: carol.ID, Amount: 12, Paid: true}},
		CreatedBy:   carol.ID,
	}

	t.Run("CreateExpense and GetExpense keep split order and flags", func(t *testing.T) {
		for _, e := range []*models.Expense{oneToOne, grouped, other} {
			if err := store.CreateExpense(ctx, e); err != nil {
				t.Fatalf("CreateExpense failed: %v", err)
			}
		}

		got, err := store.GetExpense(ctx, grouped.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if !got.Date.Equal(march(5)) {
			t.Errorf("Date mismatch: got %v", got.Date)
		}
		if got.GroupID != group.ID {
			t.Errorf("GroupID mismatch: got %s", got.GroupID)
		}
		if len(got.Splits) != 2 || got.Splits[0].UserID != bob.ID || !got.Splits[0].Paid || got.Splits[1].Paid {
			t.Errorf("unexpected splits: %+v", got.Splits)
		}
	})

	t.Run("ListExpenses pushes filters down", func(t *testing.T) {
		tests := []struct {
			name   string
			filter storage.ExpenseFilter
			want   []string
		}{
			{"all newest first", storage.ExpenseFilter{}, []string{grouped.ID, other.ID, oneToOne.ID}},
			{"by group", storage.ExpenseFilter{GroupID: group.ID}, []string{grouped.ID}},
			{"one to one", storage.ExpenseFilter{OneToOne: true}, []string{other.ID, oneToOne.ID}},
			{"payer and scope", storage.ExpenseFilter{OneToOne: true, PayerIDs: []string{alice.ID, bob.ID}}, []string{oneToOne.ID}},
			{"involves bob", storage.ExpenseFilter{InvolvesUser: bob.ID}, []string{grouped.ID, oneToOne.ID}},
			{"from date", storage.ExpenseFilter{From: march(3)}, []string{grouped.ID, other.ID}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := store.ListExpenses(ctx, tt.filter)
				if err != nil {
					t.Fatalf("ListExpenses failed: %v", err)
				}
				if len(got) != len(tt.want) {
					t.Fatalf("got %d expenses, want %d", len(got), len(tt.want))
				}
				for i, e := range got {
					if e.ID != tt.want[i] {
						t.Errorf("expense %d: got %s, want %s", i, e.Description, tt.want[i])
					}
					if len(e.Splits) == 0 {
						t.Errorf("expense %s loaded without splits", e.Description)
					}
				}
			})
		}
	})

	settlement := &models.Settlement{
		Amount:            20,
		Note:              "cash",
		Date:              march(6),
		PayerID:           bob.ID,
		ReceiverID:        alice.ID,
		RelatedExpenseIDs: []string{oneToOne.ID, other.ID},
		CreatedBy:         bob.ID,
	}

	t.Run("Settlements round trip related expenses", func(t *testing.T) {
		if err := store.CreateSettlement(ctx, settlement); err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}

		got, err := store.GetSettlement(ctx, settlement.ID)
		if err != nil {
			t.Fatalf("GetSettlement failed: %v", err)
		}
		if got.Note != "cash" || got.GroupID != "" {
			t.Errorf("unexpected settlement: %+v", got)
		}
		if len(got.RelatedExpenseIDs) != 2 || got.RelatedExpenseIDs[0] != oneToOne.ID {
			t.Errorf("related mismatch: %v", got.RelatedExpenseIDs)
		}

		byExpense, err := store.ListSettlements(ctx, storage.SettlementFilter{RelatedExpenseID: other.ID})
		if err != nil {
			t.Fatalf("ListSettlements failed: %v", err)
		}
		if len(byExpense) != 1 {
			t.Errorf("expected 1 settlement covering expense, got %d", len(byExpense))
		}

		between, err := store.ListSettlements(ctx, storage.SettlementFilter{OneToOne: true, Between: [2]string{alice.ID, bob.ID}})
		if err != nil {
			t.Fatalf("ListSettlements failed: %v", err)
		}
		if len(between) != 1 {
			t.Errorf("expected 1 settlement between alice and bob, got %d", len(between))
		}

		none, err := store.ListSettlements(ctx, storage.SettlementFilter{Party: carol.ID})
		if err != nil {
			t.Fatalf("ListSettlements failed: %v", err)
		}
		if len(none) != 0 {
			t.Errorf("expected no settlements for carol, got %d", len(none))
		}
	})

	t.Run("SetSettlementExpenses replaces the set", func(t *testing.T) {
		if err := store.SetSettlementExpenses(ctx, settlement.ID, []string{other.ID}); err != nil {
			t.Fatalf("SetSettlementExpenses failed: %v", err)
		}
		got, err := store.GetSettlement(ctx, settlement.ID)
		if err != nil {
			t.Fatalf("GetSettlement failed: %v", err)
		}
		if len(got.RelatedExpenseIDs) != 1 || got.RelatedExpenseIDs[0] != other.ID {
			t.Errorf("related mismatch: %v", got.RelatedExpenseIDs)
		}
	})

	t.Run("InTx rolls back on error", func(t *testing.T) {
		sentinel := errors.New("boom")
		err := store.InTx(ctx, func(tx storage.Tx) error {
			if err := tx.DeleteExpense(ctx, other.ID); err != nil {
				return err
			}
			return sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected sentinel error, got %v", err)
		}
		if _, err := store.GetExpense(ctx, other.ID); err != nil {
			t.Errorf("expense should survive rollback: %v", err)
		}
	})

	t.Run("DeleteExpense and DeleteSettlement", func(t *testing.T) {
		if err := store.DeleteExpense(ctx, other.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if err := store.DeleteExpense(ctx, other.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
		if err := store.DeleteSettlement(ctx, settlement.ID); err != nil {
			t.Fatalf("DeleteSettlement failed: %v", err)
		}
		if _, err := store.GetSettlement(ctx, settlement.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Users lookups", func(t *testing.T) {
		users, err := store.GetUsersByIDs(ctx, []string{alice.ID, carol.ID, "missing"})
		if err != nil {
			t.Fatalf("GetUsersByIDs failed: %v", err)
		}
		if len(users) != 2 {
			t.Errorf("expected 2 users, got %d", len(users))
		}

		byEmail, err := store.GetUserByEmail(ctx, "bob@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if byEmail.ID != bob.ID {
			t.Errorf("GetUserByEmail returned %s", byEmail.ID)
		}
		if _, err := store.GetUser(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}

		bob.Name = "Robert"
		bob.AvatarURL = "https://example.com/bob.png"
		if err := store.UpdateUserProfile(ctx, bob); err != nil {
			t.Fatalf("UpdateUserProfile failed: %v", err)
		}
		got, err := store.GetUser(ctx, bob.ID)
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if got.Name != "Robert" || got.AvatarURL != bob.AvatarURL {
			t.Errorf("profile not updated: %+v", got)
		}

		all, err := store.ListUsers(ctx)
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("expected 3 users, got %d", len(all))
		}
	})

	t.Run("SchemaVersion reports the applied migration", func(t *testing.T) {
		version, dirty, err := store.SchemaVersion()
		if err != nil {
			t.Fatalf("SchemaVersion failed: %v", err)
		}
		if version != 1 || dirty {
			t.Errorf("got version %d dirty %v, want 1 clean", version, dirty)
		}
	})
}

func TestNew_ReopenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")
	store, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	mustUser(t, store, "alice")
	store.Close()

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	users, err := reopened.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("expected 1 user after reopen, got %d", len(users))
	}
}
