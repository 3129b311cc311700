package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

const expenseColumns = "e.id, e.description, e.amount, e.category, e.date, e.payer_id, e.split_type, e.group_id, e.created_by, e.created_at"

func scanExpense(row rowScanner) (*models.Expense, error) {
	e := &models.Expense{}
	var date int64
	var splitType string
	var groupID sql.NullString
	if err := row.Scan(&e.ID, &e.Description, &e.Amount, &e.Category, &date,
		&e.PayerID, &splitType, &groupID, &e.CreatedBy, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Date = time.UnixMilli(date).UTC()
	e.SplitType = models.SplitType(splitType)
	e.GroupID = groupID.String
	return e, nil
}

// CreateExpense persists a new expense and its splits.
func (s *queries) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	return s.atomic(ctx, func(q *queries) error {
		_, err := q.q.ExecContext(ctx,
			`INSERT INTO expenses (id, description, amount, category, date, payer_id, split_type, group_id, created_by, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			expense.ID, expense.Description, expense.Amount, expense.Category, expense.Date.UnixMilli(),
			expense.PayerID, string(expense.SplitType), nullString(expense.GroupID), expense.CreatedBy, expense.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		for i, split := range expense.Splits {
			_, err = q.q.ExecContext(ctx,
				"INSERT INTO expense_splits (expense_id, position, user_id, amount, paid) VALUES (?, ?, ?, ?, ?)",
				expense.ID, i, split.UserID, split.Amount, split.Paid,
			)
			if err != nil {
				return fmt.Errorf("failed to insert split: %w", err)
			}
		}
		return nil
	})
}

// GetExpense retrieves an expense by ID, including its splits.
func (s *queries) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	e, err := scanExpense(s.q.QueryRowContext(ctx, "SELECT "+expenseColumns+" FROM expenses e WHERE e.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: expense %s", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := s.loadSplits(ctx, []*models.Expense{e}); err != nil {
		return nil, err
	}
	return e, nil
}

// ListExpenses retrieves expenses matching f, newest first.
func (s *queries) ListExpenses(ctx context.Context, f storage.ExpenseFilter) ([]*models.Expense, error) {
	var w where
	switch {
	case f.GroupID != "":
		w.add("e.group_id = ?", f.GroupID)
	case f.OneToOne:
		w.add("e.group_id IS NULL")
	}
	if len(f.PayerIDs) > 0 {
		w.add("e.payer_id IN ("+placeholders(len(f.PayerIDs))+")", anySlice(f.PayerIDs)...)
	}
	if f.InvolvesUser != "" {
		w.add(`(e.payer_id = ? OR EXISTS (
			SELECT 1 FROM expense_splits sp WHERE sp.expense_id = e.id AND sp.user_id = ?))`,
			f.InvolvesUser, f.InvolvesUser)
	}
	if !f.From.IsZero() {
		w.add("e.date >= ?", f.From.UnixMilli())
	}

	rows, err := s.q.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses e"+w.String()+" ORDER BY e.date DESC, e.id",
		w.args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var expenses []*models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	if err := s.loadSplits(ctx, expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// loadSplits fills in the splits of each expense in submission order.
func (s *queries) loadSplits(ctx context.Context, expenses []*models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}
	byID := make(map[string]*models.Expense, len(expenses))
	ids := make([]string, len(expenses))
	for i, e := range expenses {
		byID[e.ID] = e
		ids[i] = e.ID
	}

	rows, err := s.q.QueryContext(ctx,
		`SELECT expense_id, user_id, amount, paid FROM expense_splits
		 WHERE expense_id IN (`+placeholders(len(ids))+`)
		 ORDER BY expense_id, position`,
		anySlice(ids)...,
	)
	if err != nil {
		return fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID string
		var split models.Split
		if err := rows.Scan(&expenseID, &split.UserID, &split.Amount, &split.Paid); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		e := byID[expenseID]
		e.Splits = append(e.Splits, split)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate splits: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense and its splits.
func (s *queries) DeleteExpense(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: expense %s", models.ErrNotFound, id)
	}
	return nil
}
