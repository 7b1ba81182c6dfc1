package models

import "strings"

// Group represents a named collection of members sharing expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "March Vacation").
	Name string

	// Members is the roster in join order. The creator is always first.
	// Balances are split equally across this list as it stands at
	// computation time.
	Members []Member

	// CreatedBy is the user ID of the creator.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Member is one entry of a group roster.
type Member struct {
	// ID is the member's user ID.
	ID string

	// DisplayName is the member's user display name.
	DisplayName string
}

// HasMember reports whether userID is on the roster.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// Validate checks the fields required to create a group.
func (g *Group) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return &ValidationError{Field: "name", Reason: "group name is required"}
	}
	if g.CreatedBy == "" {
		return &ValidationError{Field: "created_by", Reason: "group creator is required"}
	}
	return nil
}
