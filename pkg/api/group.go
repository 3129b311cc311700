package api

// Member is a user in a group with their role.
type Member struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	JoinedAt int64  `json:"joined_at"`
}

// Group is a set of members sharing expenses.
type Group struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	CreatedBy   string   `json:"created_by"`
	Members     []Member `json:"members"`
	CreatedAt   int64    `json:"created_at"`
}

// CreateGroupRequest creates a group with the caller as admin.
type CreateGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	MemberIDs   []string `json:"member_ids,omitempty"`
}

// CreateGroupResponse returns the created group.
type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

// ListGroupsRequest lists the groups the caller belongs to.
type ListGroupsRequest struct{}

// GroupBalance is a group together with the caller's net balance in it.
type GroupBalance struct {
	Group   *Group  `json:"group"`
	Balance float64 `json:"balance"`
}

// ListGroupsResponse holds the caller's groups with their balances.
type ListGroupsResponse struct {
	Groups []GroupBalance `json:"groups"`
}

// GetGroupRequest fetches one group the caller is a member of.
type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

// GetGroupResponse returns the group with its members.
type GetGroupResponse struct {
	Group *Group `json:"group"`
}

// GetGroupLedgerRequest asks for a group's records and netted balances.
type GetGroupLedgerRequest struct {
	GroupID string `json:"group_id"`
}

// MemberBalance is one member's netted position in a group.
type MemberBalance struct {
	UserID       string                `json:"user_id"`
	Name         string                `json:"name"`
	TotalBalance float64               `json:"total_balance"`
	Owes         []CounterpartyBalance `json:"owes"`
	OwedBy       []CounterpartyBalance `json:"owed_by"`
}

// GetGroupLedgerResponse lists the group's records, newest first, and every
// member's balance.
type GetGroupLedgerResponse struct {
	Group       *Group          `json:"group"`
	Expenses    []*Expense      `json:"expenses"`
	Settlements []*Settlement   `json:"settlements"`
	Balances    []MemberBalance `json:"balances"`
}
