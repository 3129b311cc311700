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

const settlementColumns = "s.id, s.amount, s.note, s.date, s.payer_id, s.receiver_id, s.group_id, s.created_by, s.created_at"

func scanSettlement(row rowScanner) (*models.Settlement, error) {
	st := &models.Settlement{}
	var date int64
	var note, groupID sql.NullString
	if err := row.Scan(&st.ID, &st.Amount, &note, &date, &st.PayerID, &st.ReceiverID,
		&groupID, &st.CreatedBy, &st.CreatedAt); err != nil {
		return nil, err
	}
	st.Date = time.UnixMilli(date).UTC()
	st.Note = note.String
	st.GroupID = groupID.String
	return st, nil
}

// CreateSettlement persists a new settlement to the database.
func (s *queries) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	// Generate ID if not set
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	return s.atomic(ctx, func(q *queries) error {
		_, err := q.q.ExecContext(ctx,
			`INSERT INTO settlements (id, amount, note, date, payer_id, receiver_id, group_id, created_by, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			settlement.ID, settlement.Amount, nullString(settlement.Note), settlement.Date.UnixMilli(),
			settlement.PayerID, settlement.ReceiverID, nullString(settlement.GroupID),
			settlement.CreatedBy, settlement.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert settlement: %w", err)
		}
		return q.insertRelated(ctx, settlement.ID, settlement.RelatedExpenseIDs)
	})
}

func (s *queries) insertRelated(ctx context.Context, settlementID string, expenseIDs []string) error {
	for i, expenseID := range expenseIDs {
		_, err := s.q.ExecContext(ctx,
			"INSERT INTO settlement_expenses (settlement_id, position, expense_id) VALUES (?, ?, ?)",
			settlementID, i, expenseID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert related expense: %w", err)
		}
	}
	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *queries) GetSettlement(ctx context.Context, id string) (*models.Settlement, error) {
	st, err := scanSettlement(s.q.QueryRowContext(ctx, "SELECT "+settlementColumns+" FROM settlements s WHERE s.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: settlement %s", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	if err := s.loadRelated(ctx, []*models.Settlement{st}); err != nil {
		return nil, err
	}
	return st, nil
}

// ListSettlements retrieves settlements matching f, newest first.
func (s *queries) ListSettlements(ctx context.Context, f storage.SettlementFilter) ([]*models.Settlement, error) {
	var w where
	switch {
	case f.GroupID != "":
		w.add("s.group_id = ?", f.GroupID)
	case f.OneToOne:
		w.add("s.group_id IS NULL")
	}
	if f.Party != "" {
		w.add("(s.payer_id = ? OR s.receiver_id = ?)", f.Party, f.Party)
	}
	if a, b := f.Between[0], f.Between[1]; a != "" && b != "" {
		w.add("((s.payer_id = ? AND s.receiver_id = ?) OR (s.payer_id = ? AND s.receiver_id = ?))", a, b, b, a)
	}
	if f.RelatedExpenseID != "" {
		w.add(`EXISTS (SELECT 1 FROM settlement_expenses r WHERE r.settlement_id = s.id AND r.expense_id = ?)`, f.RelatedExpenseID)
	}
	if !f.From.IsZero() {
		w.add("s.date >= ?", f.From.UnixMilli())
	}

	rows, err := s.q.QueryContext(ctx,
		"SELECT "+settlementColumns+" FROM settlements s"+w.String()+" ORDER BY s.date DESC, s.id",
		w.args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}

	var settlements []*models.Settlement
	for rows.Next() {
		st, err := scanSettlement(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, st)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	if err := s.loadRelated(ctx, settlements); err != nil {
		return nil, err
	}
	return settlements, nil
}

// loadRelated fills in each settlement's related expense IDs.
func (s *queries) loadRelated(ctx context.Context, settlements []*models.Settlement) error {
	if len(settlements) == 0 {
		return nil
	}
	byID := make(map[string]*models.Settlement, len(settlements))
	ids := make([]string, len(settlements))
	for i, st := range settlements {
		byID[st.ID] = st
		ids[i] = st.ID
	}

	rows, err := s.q.QueryContext(ctx,
		`SELECT settlement_id, expense_id FROM settlement_expenses
		 WHERE settlement_id IN (`+placeholders(len(ids))+`)
		 ORDER BY settlement_id, position`,
		anySlice(ids)...,
	)
	if err != nil {
		return fmt.Errorf("failed to get related expenses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var settlementID, expenseID string
		if err := rows.Scan(&settlementID, &expenseID); err != nil {
			return fmt.Errorf("failed to scan related expense: %w", err)
		}
		st := byID[settlementID]
		st.RelatedExpenseIDs = append(st.RelatedExpenseIDs, expenseID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate related expenses: %w", err)
	}
	return nil
}

// SetSettlementExpenses replaces the related expense set of a settlement.
func (s *queries) SetSettlementExpenses(ctx context.Context, id string, expenseIDs []string) error {
	return s.atomic(ctx, func(q *queries) error {
		if err := q.settlementExists(ctx, id); err != nil {
			return err
		}
		if _, err := q.q.ExecContext(ctx, "DELETE FROM settlement_expenses WHERE settlement_id = ?", id); err != nil {
			return fmt.Errorf("failed to clear related expenses: %w", err)
		}
		return q.insertRelated(ctx, id, expenseIDs)
	})
}

// DeleteSettlement removes a settlement by ID.
func (s *queries) DeleteSettlement(ctx context.Context, id string) error {
	if err := s.settlementExists(ctx, id); err != nil {
		return err
	}

	// Delete settlement
	if _, err := s.q.ExecContext(ctx, "DELETE FROM settlements WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	return nil
}

func (s *queries) settlementExists(ctx context.Context, id string) error {
	var exists int
	err := s.q.QueryRowContext(ctx, "SELECT 1 FROM settlements WHERE id = ?", id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: settlement %s", models.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to check settlement existence: %w", err)
	}
	return nil
}
