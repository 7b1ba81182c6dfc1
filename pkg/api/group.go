package api

// Member is one entry of a group roster.
type Member struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Group is a group with its roster in join order.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Members   []*Member `json:"members"`
	CreatedBy string    `json:"created_by"`
	CreatedAt int64     `json:"created_at"`

	// Summary is the caller's own standing; only set by ListGroups.
	Summary *ViewerSummary `json:"summary,omitempty"`
}

// ViewerSummary is the caller's cumulative position in one group.
type ViewerSummary struct {
	Paid       float64 `json:"paid"`
	Share      float64 `json:"share"`
	Net        float64 `json:"net"` // Positive = the group owes the caller
	DisplayNet float64 `json:"display_net"`
	Text       string  `json:"text"` // e.g. "You are owed $22.25"
}

// Balance is the net between the caller and one other member.
type Balance struct {
	CounterpartID   string  `json:"counterpart_id"`
	CounterpartName string  `json:"counterpart_name"`
	Amount          float64 `json:"amount"` // Positive = counterpart owes the caller
	DisplayAmount   float64 `json:"display_amount"`
	Phrase          string  `json:"phrase"` // e.g. "owes you $50.00"
}

type CreateGroupRequest struct {
	Name string `json:"name"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type AddMemberRequest struct {
	GroupID string `json:"group_id"`
	Email   string `json:"email"`
}

type AddMemberResponse struct {
	Group *Group `json:"group"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupBalancesResponse struct {
	Balances []*Balance     `json:"balances"`
	Viewer   *ViewerSummary `json:"viewer"`
}
