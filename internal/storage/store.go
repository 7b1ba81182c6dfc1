// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitshare/internal/models"
)

// ErrNotFound is returned (wrapped) when a user, group or expense does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned (wrapped) when a user email is already registered.
var ErrAlreadyExists = errors.New("already exists")

// ErrPayerNotMember is returned (wrapped) when an expense names a payer
// who is not on the group's roster.
var ErrPayerNotMember = errors.New("payer is not a member of the group")

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser persists a new user. The ID must already be set.
	// Returns ErrAlreadyExists if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns ErrNotFound if no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns ErrNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs returns the users that exist, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// CountUsers returns the number of registered users.
	CountUsers(ctx context.Context) (int, error)
}

// GroupStore persists groups and their rosters.
type GroupStore interface {
	// CreateGroup persists a new group with its creator as the first member.
	// The group.ID, CreatedAt and Members fields are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup returns the group with its roster in join order.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsForUser returns every group the user belongs to, oldest first.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	// AddGroupMember appends a user to the roster. Adding an existing
	// member is a no-op.
	AddGroupMember(ctx context.Context, groupID, userID string) error

	// IsGroupMember reports whether the user is on the group's roster.
	IsGroupMember(ctx context.Context, groupID, userID string) (bool, error)
}

// ExpenseStore persists expenses.
type ExpenseStore interface {
	// CreateExpense validates and persists a new expense. The payer must
	// be on the group's roster. ID, CreatedAt, PayerName and a missing
	// OccurredAt are populated by the store.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListExpensesByGroup returns a group's expenses ordered by
	// occurred_at, then created_at.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// ListExpensesForUser returns the expenses of every group the user belongs to.
	ListExpensesForUser(ctx context.Context, userID string) ([]*models.Expense, error)
}

// Store defines the interface for all storage operations.
// This abstraction allows swapping storage backends (SQLite, in-memory)
// without changing the service layer.
type Store interface {
	UserStore
	GroupStore
	ExpenseStore

	// Close releases any resources held by the store.
	Close() error
}
