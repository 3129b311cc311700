package service

import (
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

func toAPIExpense(e *models.Expense) *api.Expense {
	splits := make([]api.Split, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = api.Split{UserID: s.UserID, Amount: s.Amount, Paid: s.Paid}
	}
	return &api.Expense{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount,
		Category:    e.Category,
		Date:        e.Date,
		PayerID:     e.PayerID,
		SplitType:   string(e.SplitType),
		Splits:      splits,
		GroupID:     e.GroupID,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}

func toAPIExpenses(es []*models.Expense) []*api.Expense {
	out := make([]*api.Expense, len(es))
	for i, e := range es {
		out[i] = toAPIExpense(e)
	}
	return out
}

func toAPISettlement(s *models.Settlement) *api.Settlement {
	return &api.Settlement{
		ID:                s.ID,
		Amount:            s.Amount,
		Note:              s.Note,
		Date:              s.Date,
		PayerID:           s.PayerID,
		ReceiverID:        s.ReceiverID,
		GroupID:           s.GroupID,
		RelatedExpenseIDs: s.RelatedExpenseIDs,
		CreatedBy:         s.CreatedBy,
		CreatedAt:         s.CreatedAt,
	}
}

func toAPISettlements(ss []*models.Settlement) []*api.Settlement {
	out := make([]*api.Settlement, len(ss))
	for i, s := range ss {
		out[i] = toAPISettlement(s)
	}
	return out
}

func toAPIGroup(g *models.Group, users *userCache) *api.Group {
	members := make([]api.Member, len(g.Members))
	for i, m := range g.Members {
		members[i] = api.Member{
			UserID:   m.UserID,
			Name:     users.name(m.UserID),
			Role:     string(m.Role),
			JoinedAt: m.JoinedAt,
		}
	}
	return &api.Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedBy:   g.CreatedBy,
		Members:     members,
		CreatedAt:   g.CreatedAt,
	}
}

func toAPIBalances(debts []calculator.Debt, users *userCache) []api.CounterpartyBalance {
	out := make([]api.CounterpartyBalance, len(debts))
	for i, d := range debts {
		out[i] = api.CounterpartyBalance{UserID: d.UserID, Name: users.name(d.UserID), Amount: d.Amount}
	}
	return out
}
