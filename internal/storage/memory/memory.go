// Package memory provides an in-memory implementation of the storage.Store interface.
//
// A single RWMutex serializes writers and lets readers proceed together.
// Every read hands out copies, so callers never hold references into the
// store's state.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitshare/internal/models"
	"github.com/mmynk/splitshare/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

type groupRecord struct {
	group   models.Group // Members left empty; derived from memberIDs
	members []string     // user IDs in join order
}

// Store keeps users, groups and expenses in maps.
type Store struct {
	mu       sync.RWMutex
	users    map[string]models.User
	byEmail  map[string]string
	groups   map[string]*groupRecord
	expenses []models.Expense // insertion order
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:   make(map[string]models.User),
		byEmail: make(map[string]string),
		groups:  make(map[string]*groupRecord),
	}
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// CreateUser stores a copy of the user.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[user.Email]; taken {
		return fmt.Errorf("user %s: %w", user.Email, storage.ErrAlreadyExists)
	}
	s.users[user.ID] = *user
	s.byEmail[user.Email] = user.ID
	return nil
}

// GetUserByEmail returns a copy of the user with that email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", email, storage.ErrNotFound)
	}
	u := s.users[id]
	return &u, nil
}

// GetUserByID returns a copy of the user.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	return &u, nil
}

// GetUsersByIDs returns copies of the users that exist.
func (s *Store) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make(map[string]*models.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			users[id] = &u
		}
	}
	return users, nil
}

// CountUsers returns the number of registered users.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

// CreateGroup stores a new group with its creator as the only member.
func (s *Store) CreateGroup(ctx context.Context, group *models.Group) error {
	if err := group.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	creator, ok := s.users[group.CreatedBy]
	if !ok {
		return fmt.Errorf("failed to resolve group creator: user %s: %w", group.CreatedBy, storage.ErrNotFound)
	}

	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	group.Members = []models.Member{creator.AsMember()}

	stored := *group
	stored.Members = nil
	s.groups[group.ID] = &groupRecord{group: stored, members: []string{creator.ID}}
	return nil
}

// GetGroup returns a snapshot of the group and its roster.
func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	return s.snapshot(rec), nil
}

// ListGroupsForUser returns snapshots of the user's groups, oldest first.
func (s *Store) ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var groups []*models.Group
	for _, rec := range s.groups {
		if contains(rec.members, userID) {
			groups = append(groups, s.snapshot(rec))
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].CreatedAt != groups[j].CreatedAt {
			return groups[i].CreatedAt < groups[j].CreatedAt
		}
		return groups[i].ID < groups[j].ID
	})
	return groups, nil
}

// AddGroupMember appends the user to the roster unless already present.
func (s *Store) AddGroupMember(ctx context.Context, groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return fmt.Errorf("user %s: %w", userID, storage.ErrNotFound)
	}
	rec, ok := s.groups[groupID]
	if !ok {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if !contains(rec.members, userID) {
		rec.members = append(rec.members, userID)
	}
	return nil
}

// IsGroupMember reports whether the user is on the group's roster.
func (s *Store) IsGroupMember(ctx context.Context, groupID, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.groups[groupID]
	return ok && contains(rec.members, userID), nil
}

// CreateExpense validates and appends an expense.
func (s *Store) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if err := expense.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.groups[expense.GroupID]
	if !ok {
		return fmt.Errorf("group %s: %w", expense.GroupID, storage.ErrNotFound)
	}
	if !contains(rec.members, expense.PayerID) {
		return fmt.Errorf("payer %s: %w", expense.PayerID, storage.ErrPayerNotMember)
	}

	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.OccurredAt == 0 {
		expense.OccurredAt = expense.CreatedAt
	}
	expense.PayerName = s.users[expense.PayerID].DisplayName

	s.expenses = append(s.expenses, *expense)
	return nil
}

// ListExpensesByGroup returns copies of the group's expenses in chronological order.
func (s *Store) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(e *models.Expense) bool { return e.GroupID == groupID }), nil
}

// ListExpensesForUser returns copies of the expenses of every group the user belongs to.
func (s *Store) ListExpensesForUser(ctx context.Context, userID string) ([]*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(e *models.Expense) bool {
		rec, ok := s.groups[e.GroupID]
		return ok && contains(rec.members, userID)
	}), nil
}

// collect must be called with the lock held.
func (s *Store) collect(match func(e *models.Expense) bool) []*models.Expense {
	var out []*models.Expense
	for i := range s.expenses {
		if match(&s.expenses[i]) {
			e := s.expenses[i]
			e.PayerName = s.users[e.PayerID].DisplayName
			out = append(out, &e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].OccurredAt != out[j].OccurredAt {
			return out[i].OccurredAt < out[j].OccurredAt
		}
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out
}

// snapshot must be called with the lock held.
func (s *Store) snapshot(rec *groupRecord) *models.Group {
	g := rec.group
	g.Members = make([]models.Member, 0, len(rec.members))
	for _, id := range rec.members {
		g.Members = append(g.Members, s.users[id].AsMember())
	}
	return &g
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
