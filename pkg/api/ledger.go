package api

import "time"

// Split is one participant's share of an expense.
type Split struct {
	UserID string  `json:"user_id"`
	Amount float64 `json:"amount"`
	// Paid marks a share that was settled when the expense was created,
	// normally the payer's own.
	Paid bool `json:"paid"`
}

// Expense is a stored expense. An empty GroupID means a 1-to-1 expense.
type Expense struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	PayerID     string    `json:"payer_id"`
	SplitType   string    `json:"split_type"`
	Splits      []Split   `json:"splits"`
	GroupID     string    `json:"group_id,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   int64     `json:"created_at"`
}

// Settlement is a payment from PayerID to ReceiverID, optionally covering
// specific expenses.
type Settlement struct {
	ID                string    `json:"id"`
	Amount            float64   `json:"amount"`
	Note              string    `json:"note,omitempty"`
	Date              time.Time `json:"date"`
	PayerID           string    `json:"payer_id"`
	ReceiverID        string    `json:"receiver_id"`
	GroupID           string    `json:"group_id,omitempty"`
	RelatedExpenseIDs []string  `json:"related_expense_ids,omitempty"`
	CreatedBy         string    `json:"created_by"`
	CreatedAt         int64     `json:"created_at"`
}

// CounterpartyBalance is an amount owed to or by one user.
type CounterpartyBalance struct {
	UserID string  `json:"user_id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// CreateExpenseRequest carries pre-computed splits. A zero Date means now;
// an empty Category becomes "Other".
type CreateExpenseRequest struct {
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category,omitempty"`
	Date        time.Time `json:"date,omitzero"`
	PayerID     string    `json:"payer_id"`
	SplitType   string    `json:"split_type"`
	Splits      []Split   `json:"splits"`
	GroupID     string    `json:"group_id,omitempty"`
}

// CreateExpenseResponse returns the new expense ID.
type CreateExpenseResponse struct {
	ExpenseID string `json:"expense_id"`
}

// DeleteExpenseRequest deletes an expense the caller created or paid.
type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

// DeleteExpenseResponse reports the settlement cascade.
type DeleteExpenseResponse struct {
	SettlementsDeleted int `json:"settlements_deleted"`
	SettlementsPatched int `json:"settlements_patched"`
}

// CreateSettlementRequest records a payment. The caller must be the payer
// or the receiver; a zero Date means now.
type CreateSettlementRequest struct {
	Amount            float64   `json:"amount"`
	Note              string    `json:"note,omitempty"`
	Date              time.Time `json:"date,omitzero"`
	PayerID           string    `json:"payer_id"`
	ReceiverID        string    `json:"receiver_id"`
	GroupID           string    `json:"group_id,omitempty"`
	RelatedExpenseIDs []string  `json:"related_expense_ids,omitempty"`
}

// CreateSettlementResponse returns the new settlement ID.
type CreateSettlementResponse struct {
	SettlementID string `json:"settlement_id"`
}

// GetPairwiseLedgerRequest names the other user of a 1-to-1 ledger.
type GetPairwiseLedgerRequest struct {
	CounterpartyID string `json:"counterparty_id"`
}

// GetPairwiseLedgerResponse lists the 1-to-1 records between the caller and
// the counterpart, newest first. Balance is positive when the counterpart
// owes the caller.
type GetPairwiseLedgerResponse struct {
	Counterpart *User         `json:"counterpart"`
	Expenses    []*Expense    `json:"expenses"`
	Settlements []*Settlement `json:"settlements"`
	Balance     float64       `json:"balance"`
}

// GetUserBalanceSummaryRequest asks for the caller's 1-to-1 summary.
type GetUserBalanceSummaryRequest struct{}

// GetUserBalanceSummaryResponse splits the caller's netted 1-to-1 balances
// into debts and credits, largest first.
type GetUserBalanceSummaryResponse struct {
	YouOwe       float64               `json:"you_owe"`
	YouAreOwed   float64               `json:"you_are_owed"`
	TotalBalance float64               `json:"total_balance"`
	YouOweList   []CounterpartyBalance `json:"you_owe_list"`
	YouAreOwedBy []CounterpartyBalance `json:"you_are_owed_by"`
}

// GetSpendReportRequest asks for the caller's spend in the current year.
type GetSpendReportRequest struct{}

// GetSpendReportResponse is the sum of the caller's own shares this year.
type GetSpendReportResponse struct {
	Year       int     `json:"year"`
	TotalSpent float64 `json:"total_spent"`
}

// GetMonthlySpendRequest asks for the caller's spend per month this year.
type GetMonthlySpendRequest struct{}

// MonthSpend is the caller's own share of expenses in the month starting at Month.
type MonthSpend struct {
	Month time.Time `json:"month"`
	Total float64   `json:"total"`
}

// GetMonthlySpendResponse always holds twelve months, January first.
type GetMonthlySpendResponse struct {
	Year   int          `json:"year"`
	Months []MonthSpend `json:"months"`
}
