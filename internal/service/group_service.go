package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	apiconnect.UnimplementedGroupServiceHandler
	store  storage.Store
	logger *slog.Logger
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, logger *slog.Logger) *GroupService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GroupService{store: store, logger: logger}
}

// CreateGroup creates a group with the caller as its admin.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, toConnectError(invalidf("group name is required"))
	}

	group := &models.Group{
		Name:        name,
		Description: strings.TrimSpace(req.Msg.Description),
		CreatedBy:   uid,
		Members:     []models.Member{{UserID: uid, Role: models.RoleAdmin}},
	}
	for _, id := range dedupe(req.Msg.MemberIDs) {
		if id != uid {
			group.Members = append(group.Members, models.Member{UserID: id, Role: models.RoleMember})
		}
	}

	users := newUserCache(s.store)
	err = s.store.InTx(ctx, func(tx storage.Tx) error {
		if err := requireUsers(ctx, tx, group.MemberIDs()); err != nil {
			return err
		}
		return tx.CreateGroup(ctx, group)
	})
	if err != nil {
		s.logger.Warn("CreateGroup failed", "user_id", uid, "error", err)
		return nil, toConnectError(err)
	}
	if err := users.load(ctx, group.MemberIDs()); err != nil {
		return nil, toConnectError(err)
	}

	s.logger.Info("Group created", "group_id", group.ID, "members", len(group.Members))
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group, users)}), nil
}

// ListGroups returns the caller's groups with the caller's net balance in each.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	groups, err := s.store.ListGroupsForUser(ctx, uid)
	if err != nil {
		return nil, toConnectError(err)
	}

	users := newUserCache(s.store)
	resp := &api.ListGroupsResponse{Groups: make([]api.GroupBalance, 0, len(groups))}
	for _, g := range groups {
		expenses, settlements, err := s.groupRecords(ctx, g.ID)
		if err != nil {
			return nil, toConnectError(err)
		}
		if err := users.load(ctx, g.MemberIDs()); err != nil {
			return nil, toConnectError(err)
		}
		resp.Groups = append(resp.Groups, api.GroupBalance{
			Group:   toAPIGroup(g, users),
			Balance: calculator.Reconcile(uid, expenses, settlements).Total(),
		})
	}
	return connect.NewResponse(resp), nil
}

// GetGroup returns a group the caller belongs to.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	group, err := s.memberGroup(ctx, uid, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	users := newUserCache(s.store)
	if err := users.load(ctx, group.MemberIDs()); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group, users)}), nil
}

// GetGroupLedger returns a group's records and every member's netted
// position. Membership is checked before anything is scanned.
func (s *GroupService) GetGroupLedger(ctx context.Context, req *connect.Request[api.GetGroupLedgerRequest]) (*connect.Response[api.GetGroupLedgerResponse], error) {
	uid, err := callerID(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	group, err := s.memberGroup(ctx, uid, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	expenses, settlements, err := s.groupRecords(ctx, group.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	balances := calculator.GroupLedger(group.MemberIDs(), expenses, settlements)

	users := newUserCache(s.store)
	ids := group.MemberIDs()
	for _, b := range balances {
		for _, d := range b.Owes {
			ids = append(ids, d.UserID)
		}
		for _, d := range b.OwedBy {
			ids = append(ids, d.UserID)
		}
	}
	if err := users.load(ctx, ids); err != nil {
		return nil, toConnectError(err)
	}

	resp := &api.GetGroupLedgerResponse{
		Group:       toAPIGroup(group, users),
		Expenses:    toAPIExpenses(expenses),
		Settlements: toAPISettlements(settlements),
		Balances:    make([]api.MemberBalance, len(balances)),
	}
	for i, b := range balances {
		resp.Balances[i] = api.MemberBalance{
			UserID:       b.UserID,
			Name:         users.name(b.UserID),
			TotalBalance: b.TotalBalance,
			Owes:         toAPIBalances(b.Owes, users),
			OwedBy:       toAPIBalances(b.OwedBy, users),
		}
	}
	return connect.NewResponse(resp), nil
}

func (s *GroupService) memberGroup(ctx context.Context, uid, groupID string) (*models.Group, error) {
	if groupID == "" {
		return nil, invalidf("group_id is required")
	}
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsMember(uid) {
		return nil, deniedf("you are not a member of this group")
	}
	return group, nil
}

func (s *GroupService) groupRecords(ctx context.Context, groupID string) ([]*models.Expense, []*models.Settlement, error) {
	expenses, err := s.store.ListExpenses(ctx, storage.ExpenseFilter{GroupID: groupID})
	if err != nil {
		return nil, nil, err
	}
	settlements, err := s.store.ListSettlements(ctx, storage.SettlementFilter{GroupID: groupID})
	if err != nil {
		return nil, nil, err
	}
	return expenses, settlements, nil
}
