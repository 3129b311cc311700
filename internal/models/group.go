package models

// Role is a member's role within a group.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Group is a named set of members that share expenses.
// Membership is the only authorization boundary: only members may view
// or record group expenses and settlements.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Work Lunch").
	Name string

	Description string

	// CreatedBy is the user who created the group.
	CreatedBy string

	// Members in join order.
	Members []Member

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Member is one user's membership in a group.
type Member struct {
	UserID string
	Role   Role
	// JoinedAt is the Unix timestamp when the user joined.
	JoinedAt int64
}

// IsMember reports whether userID belongs to the group.
func (g *Group) IsMember(userID string) bool {
	for _, m := range g.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// MemberIDs returns the member user IDs in join order.
func (g *Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.UserID
	}
	return ids
}
