// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

// ExpenseFilter narrows an expense scan. Zero fields do not filter.
// Implementations push these predicates down to indexed lookups.
type ExpenseFilter struct {
	// GroupID restricts to one group's expenses.
	GroupID string

	// OneToOne restricts to expenses outside any group. Ignored when GroupID is set.
	OneToOne bool

	// PayerIDs restricts to expenses paid by any of these users.
	PayerIDs []string

	// InvolvesUser restricts to expenses the user paid or has a split in.
	InvolvesUser string

	// From restricts to expenses dated at or after From.
	From time.Time
}

// SettlementFilter narrows a settlement scan. Zero fields do not filter.
type SettlementFilter struct {
	// GroupID restricts to one group's settlements.
	GroupID string

	// OneToOne restricts to settlements outside any group. Ignored when GroupID is set.
	OneToOne bool

	// Party restricts to settlements the user paid or received.
	Party string

	// Between restricts to settlements between the two users, in either direction.
	Between [2]string

	// RelatedExpenseID restricts to settlements covering this expense.
	RelatedExpenseID string

	// From restricts to settlements dated at or after From.
	From time.Time
}

// Reader is the read side of the record store.
// Point lookups return an error wrapping models.ErrNotFound for missing keys.
type Reader interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUsersByIDs returns the users that exist, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)

	GetGroup(ctx context.Context, id string) (*models.Group, error)
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	GetExpense(ctx context.Context, id string) (*models.Expense, error)
	// ListExpenses returns matching expenses, newest first.
	ListExpenses(ctx context.Context, f ExpenseFilter) ([]*models.Expense, error)

	GetSettlement(ctx context.Context, id string) (*models.Settlement, error)
	// ListSettlements returns matching settlements, newest first.
	ListSettlements(ctx context.Context, f SettlementFilter) ([]*models.Settlement, error)
}

// Writer is the write side of the record store.
// Create methods assign ID and CreatedAt when they are unset.
type Writer interface {
	CreateUser(ctx context.Context, user *models.User) error
	// UpdateUserProfile syncs name, email and avatar from the identity provider.
	UpdateUserProfile(ctx context.Context, user *models.User) error

	CreateGroup(ctx context.Context, group *models.Group) error

	CreateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, id string) error

	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	// SetSettlementExpenses replaces a settlement's related expense set.
	SetSettlementExpenses(ctx context.Context, id string, expenseIDs []string) error
	DeleteSettlement(ctx context.Context, id string) error
}

// Tx is a unit of work against the store.
type Tx interface {
	Reader
	Writer
}

// Store defines the record store used by the service layer.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	Tx

	// InTx runs fn in a transaction. Everything fn does commits together
	// when it returns nil and is rolled back otherwise. Concurrent InTx
	// calls are serialised.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any resources held by the store.
	Close() error
}
