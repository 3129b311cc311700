package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

// LedgerService implements the Connect LedgerService: validated writes of
// expenses and settlements, and the pairwise, summary and spend read models.
type LedgerService struct {
	apiconnect.UnimplementedLedgerServiceHandler
	store  storage.Store
	logger *slog.Logger
	now    func() time.Time
	loc    *time.Location
}

// LedgerOption configures a LedgerService.
type LedgerOption func(*LedgerService)

// WithClock sets the time source used for defaults and the spend year.
func WithClock(now func() time.Time) LedgerOption {
	return func(s *LedgerService) { s.now = now }
}

// WithLocation sets the time zone that calendar months are bucketed in.
func WithLocation(loc *time.Location) LedgerOption {
	return func(s *LedgerService) { s.loc = loc }
}

// NewLedgerService creates a LedgerService over the given store.
func NewLedgerService(store storage.Store, logger *slog.Logger, opts ...LedgerOption) *LedgerService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &LedgerService{store: store, logger: logger, now: time.Now, loc: time.UTC}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateExpense validates and records an expense. Group membership is
// checked before the split sum, and both happen before anything is written.
func (s *LedgerService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	expense, err := s.expenseFromRequest(uid, req.Msg)
	if err != nil {
		return nil, toConnectError(err)
	}

	err = s.store.InTx(ctx, func(tx storage.Tx) error {
		if err := checkExpenseScope(ctx, tx, uid, expense); err != nil {
			return err
		}
		if err := calculator.CheckSplits(expense.Amount, expense.Splits); err != nil {
			var mismatch *models.SplitMismatchError
			if errors.As(err, &mismatch) {
				splitValidationFailures.Inc()
			}
			return err
		}
		return tx.CreateExpense(ctx, expense)
	})
	if err != nil {
		s.logger.Warn("CreateExpense rejected", "user_id", uid, "group_id", expense.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Expense created", "expense_id", expense.ID, "group_id", expense.GroupID, "amount", expense.Amount)
	return connect.NewResponse(&api.CreateExpenseResponse{ExpenseID: expense.ID}), nil
}

func (s *LedgerService) expenseFromRequest(uid string, msg *api.CreateExpenseRequest) (*models.Expense, error) {
	description := strings.TrimSpace(msg.Description)
	if description == "" {
		return nil, invalidf("description is required")
	}
	if msg.PayerID == "" {
		return nil, invalidf("payer is required")
	}
	splitType, err := models.ParseSplitType(msg.SplitType)
	if err != nil {
		return nil, err
	}

	category := strings.TrimSpace(msg.Category)
	if category == "" {
		category = models.DefaultCategory
	}
	date := msg.Date
	if date.IsZero() {
		date = s.now()
	}

	splits := make([]models.Split, len(msg.Splits))
	for i, sp := range msg.Splits {
		splits[i] = models.Split{UserID: sp.UserID, Amount: sp.Amount, Paid: sp.Paid}
	}

	return &models.Expense{
		Description: description,
		Amount:      msg.Amount,
		Category:    category,
		Date:        date.UTC(),
		PayerID:     msg.PayerID,
		SplitType:   splitType,
		Splits:      splits,
		GroupID:     msg.GroupID,
		CreatedBy:   uid,
	}, nil
}

// checkExpenseScope enforces who may record the expense. Group expenses need
// the caller, the payer and every participant to be members; 1-to-1 expenses
// need the caller to be the payer or a participant.
func checkExpenseScope(ctx context.Context, tx storage.Reader, uid string, e *models.Expense) error {
	if e.GroupID != "" {
		group, err := tx.GetGroup(ctx, e.GroupID)
		if err != nil {
			return err
		}
		if !group.IsMember(uid) {
			return deniedf("you are not a member of this group")
		}
		if !group.IsMember(e.PayerID) {
			return deniedf("payer %s is not a member of this group", e.PayerID)
		}
		for _, sp := range e.Splits {
			if sp.UserID != "" && !group.IsMember(sp.UserID) {
				return invalidf("participant %s is not a member of this group", sp.UserID)
			}
		}
		return nil
	}

	if !e.Involves(uid) {
		return deniedf("you must be the payer or a participant to record this expense")
	}
	ids := []string{e.PayerID}
	for _, sp := range e.Splits {
		if sp.UserID != "" {
			ids = append(ids, sp.UserID)
		}
	}
	return requireUsers(ctx, tx, ids)
}

// requireUsers fails with ErrNotFound naming the first unknown user.
func requireUsers(ctx context.Context, tx storage.Reader, ids []string) error {
	found, err := tx.GetUsersByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return notFoundf("user %s", id)
		}
	}
	return nil
}

// DeleteExpense removes an expense and unwinds every settlement that
// referenced it, in one transaction. Settlements left with no related
// expenses are deleted; the rest lose the reference.
func (s *LedgerService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	id := req.Msg.ExpenseID
	if id == "" {
		return nil, toConnectError(invalidf("expense_id is required"))
	}

	var resp api.DeleteExpenseResponse
	err = s.store.InTx(ctx, func(tx storage.Tx) error {
		expense, err := tx.GetExpense(ctx, id)
		if err != nil {
			return err
		}
		if expense.CreatedBy != uid && expense.PayerID != uid {
			return deniedf("only the creator or payer may delete this expense")
		}

		related, err := tx.ListSettlements(ctx, storage.SettlementFilter{RelatedExpenseID: id})
		if err != nil {
			return err
		}
		for _, st := range related {
			remaining := slices.DeleteFunc(slices.Clone(st.RelatedExpenseIDs), func(x string) bool { return x == id })
			if len(remaining) == 0 {
				if err := tx.DeleteSettlement(ctx, st.ID); err != nil {
					return err
				}
				resp.SettlementsDeleted++
				continue
			}
			if err := tx.SetSettlementExpenses(ctx, st.ID, remaining); err != nil {
				return err
			}
			resp.SettlementsPatched++
		}

		return tx.DeleteExpense(ctx, id)
	})
	if err != nil {
		s.logger.Warn("DeleteExpense failed", "expense_id", id, "user_id", uid, "error", err)
		return nil, toConnectError(err)
	}

	settlementsCascaded.WithLabelValues("deleted").Add(float64(resp.SettlementsDeleted))
	settlementsCascaded.WithLabelValues("patched").Add(float64(resp.SettlementsPatched))
	s.logger.Info("Expense deleted",
		"expense_id", id,
		"settlements_deleted", resp.SettlementsDeleted,
		"settlements_patched", resp.SettlementsPatched,
	)
	return connect.NewResponse(&resp), nil
}

// CreateSettlement records a payment from payer to receiver. Related
// expenses are checked in the same transaction as the insert, so a
// concurrent DeleteExpense cannot leave the settlement pointing at a
// deleted expense.
func (s *LedgerService) CreateSettlement(ctx context.Context, req *connect.Request[api.CreateSettlementRequest]) (*connect.Response[api.CreateSettlementResponse], error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	msg := req.Msg
	switch {
	case msg.Amount <= 0:
		return nil, toConnectError(invalidf("amount must be positive, got %.2f", msg.Amount))
	case msg.PayerID == "" || msg.ReceiverID == "":
		return nil, toConnectError(invalidf("payer and receiver are required"))
	case msg.PayerID == msg.ReceiverID:
		return nil, toConnectError(invalidf("payer and receiver must differ"))
	case uid != msg.PayerID && uid != msg.ReceiverID:
		return nil, toConnectError(deniedf("you must be the payer or receiver to record this settlement"))
	}

	date := msg.Date
	if date.IsZero() {
		date = s.now()
	}
	settlement := &models.Settlement{
		Amount:            msg.Amount,
		Note:              strings.TrimSpace(msg.Note),
		Date:              date.UTC(),
		PayerID:           msg.PayerID,
		ReceiverID:        msg.ReceiverID,
		GroupID:           msg.GroupID,
		RelatedExpenseIDs: dedupe(msg.RelatedExpenseIDs),
		CreatedBy:         uid,
	}

	err = s.store.InTx(ctx, func(tx storage.Tx) error {
		if settlement.GroupID != "" {
			group, err := tx.GetGroup(ctx, settlement.GroupID)
			if err != nil {
				return err
			}
			if !group.IsMember(settlement.PayerID) || !group.IsMember(settlement.ReceiverID) {
				return deniedf("payer and receiver must both be members of this group")
			}
		} else if err := requireUsers(ctx, tx, []string{settlement.PayerID, settlement.ReceiverID}); err != nil {
			return err
		}

		for _, eid := range settlement.RelatedExpenseIDs {
			e, err := tx.GetExpense(ctx, eid)
			if err != nil {
				return err
			}
			if e.GroupID != settlement.GroupID {
				return invalidf("expense %s is outside the settlement's scope", eid)
			}
			if !e.Involves(settlement.PayerID) || !e.Involves(settlement.ReceiverID) {
				return invalidf("expense %s is not between the payer and receiver", eid)
			}
		}
		return tx.CreateSettlement(ctx, settlement)
	})
	if err != nil {
		s.logger.Warn("CreateSettlement rejected", "user_id", uid, "group_id", settlement.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("Settlement created", "settlement_id", settlement.ID, "group_id", settlement.GroupID, "amount", settlement.Amount)
	return connect.NewResponse(&api.CreateSettlementResponse{SettlementID: settlement.ID}), nil
}

// GetPairwiseLedger returns the 1-to-1 records between the caller and a
// counterpart with the netted balance.
func (s *LedgerService) GetPairwiseLedger(ctx context.Context, req *connect.Request[api.GetPairwiseLedgerRequest]) (*connect.Response[api.GetPairwiseLedgerResponse], error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	other := req.Msg.CounterpartyID
	switch other {
	case "":
		return nil, toConnectError(invalidf("counterparty_id is required"))
	case uid:
		return nil, toConnectError(invalidf("cannot query yourself"))
	}

	counterpart, err := s.store.GetUser(ctx, other)
	if err != nil {
		return nil, toConnectError(err)
	}
	expenses, err := s.store.ListExpenses(ctx, storage.ExpenseFilter{OneToOne: true, PayerIDs: []string{uid, other}})
	if err != nil {
		return nil, toConnectError(err)
	}
	settlements, err := s.store.ListSettlements(ctx, storage.SettlementFilter{OneToOne: true, Between: [2]string{uid, other}})
	if err != nil {
		return nil, toConnectError(err)
	}

	pl := calculator.Pairwise(uid, other, expenses, settlements)
	return connect.NewResponse(&api.GetPairwiseLedgerResponse{
		Counterpart: toAPIUser(counterpart),
		Expenses:    toAPIExpenses(pl.Expenses),
		Settlements: toAPISettlements(pl.Settlements),
		Balance:     pl.Balance,
	}), nil
}

// GetUserBalanceSummary nets the caller against every 1-to-1 counterparty.
func (s *LedgerService) GetUserBalanceSummary(ctx context.Context, req *connect.Request[api.GetUserBalanceSummaryRequest]) (*connect.Response[api.GetUserBalanceSummaryResponse], error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	expenses, err := s.store.ListExpenses(ctx, storage.ExpenseFilter{OneToOne: true, InvolvesUser: uid})
	if err != nil {
		return nil, toConnectError(err)
	}
	settlements, err := s.store.ListSettlements(ctx, storage.SettlementFilter{OneToOne: true, Party: uid})
	if err != nil {
		return nil, toConnectError(err)
	}

	summary := calculator.Summarize(calculator.Reconcile(uid, expenses, settlements))

	users := newUserCache(s.store)
	var ids []string
	for _, d := range slices.Concat(summary.YouOweList, summary.YouAreOwedByList) {
		ids = append(ids, d.UserID)
	}
	if err := users.load(ctx, ids); err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetUserBalanceSummaryResponse{
		YouOwe:       summary.YouOwe,
		YouAreOwed:   summary.YouAreOwed,
		TotalBalance: summary.TotalBalance,
		YouOweList:   toAPIBalances(summary.YouOweList, users),
		YouAreOwedBy: toAPIBalances(summary.YouAreOwedByList, users),
	}), nil
}

// GetSpendReport returns the caller's own share of this year's expenses.
func (s *LedgerService) GetSpendReport(ctx context.Context, req *connect.Request[api.GetSpendReportRequest]) (*connect.Response[api.GetSpendReportResponse], error) {
	uid, now, expenses, err := s.yearExpenses(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetSpendReportResponse{
		Year:       now.Year(),
		TotalSpent: calculator.TotalSpent(uid, expenses, now),
	}), nil
}

// GetMonthlySpend buckets the caller's own share of this year's expenses by month.
func (s *LedgerService) GetMonthlySpend(ctx context.Context, req *connect.Request[api.GetMonthlySpendRequest]) (*connect.Response[api.GetMonthlySpendResponse], error) {
	uid, now, expenses, err := s.yearExpenses(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	buckets := calculator.MonthlySpend(uid, expenses, now)
	months := make([]api.MonthSpend, len(buckets))
	for i, b := range buckets {
		months[i] = api.MonthSpend{Month: b.Month, Total: b.Total}
	}
	return connect.NewResponse(&api.GetMonthlySpendResponse{Year: now.Year(), Months: months}), nil
}

func (s *LedgerService) yearExpenses(ctx context.Context) (string, time.Time, []*models.Expense, error) {
	uid, err := callerID(ctx)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	now := s.now().In(s.loc)
	expenses, err := s.store.ListExpenses(ctx, storage.ExpenseFilter{
		InvolvesUser: uid,
		From:         calculator.YearStart(now),
	})
	if err != nil {
		return "", time.Time{}, nil, err
	}
	return uid, now, expenses, nil
}

// Reminder lists what one user still owes across their 1-to-1 relationships.
type Reminder struct {
	User  models.Profile
	Debts []ReminderDebt
}

// ReminderDebt is one outstanding amount towards a counterparty.
type ReminderDebt struct {
	Counterparty models.Profile
	Amount       float64
	Since        time.Time
}

// OutstandingDebts computes, for every user in the system, the strictly
// positive amounts they owe over 1-to-1 relationships. It feeds reminder
// delivery and is not exposed over RPC.
func (s *LedgerService) OutstandingDebts(ctx context.Context) ([]Reminder, error) {
	all, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpenses(ctx, storage.ExpenseFilter{OneToOne: true})
	if err != nil {
		return nil, err
	}
	settlements, err := s.store.ListSettlements(ctx, storage.SettlementFilter{OneToOne: true})
	if err != nil {
		return nil, err
	}

	users := newUserCache(s.store)
	ids := make([]string, len(all))
	for i, u := range all {
		ids[i] = u.ID
		users.users[u.ID] = u
	}

	var reminders []Reminder
	for _, ud := range calculator.OutstandingDebts(ids, expenses, settlements) {
		debtor, err := users.get(ctx, ud.UserID)
		if err != nil {
			return nil, err
		}
		r := Reminder{User: debtor.Profile()}
		for _, d := range ud.Debts {
			cp, err := users.get(ctx, d.CounterpartyID)
			if errors.Is(err, models.ErrNotFound) {
				cp = &models.User{ID: d.CounterpartyID}
			} else if err != nil {
				return nil, err
			}
			r.Debts = append(r.Debts, ReminderDebt{Counterparty: cp.Profile(), Amount: d.Amount, Since: d.Since})
		}
		reminders = append(reminders, r)
	}
	s.logger.Debug("Computed outstanding debts", "users", len(ids), "debtors", len(reminders))
	return reminders, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
