// Package storetest holds behaviour tests shared by every storage.Store backend.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitshare/internal/models"
	"github.com/mmynk/splitshare/internal/storage"
)

// Run exercises a fresh store returned by newStore.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("Groups", func(t *testing.T) { testGroups(t, newStore(t)) })
	t.Run("Expenses", func(t *testing.T) { testExpenses(t, newStore(t)) })
	t.Run("ConcurrentWrites", func(t *testing.T) { testConcurrentWrites(t, newStore(t)) })
}

func mustUser(t *testing.T, s storage.Store, email, name string) *models.User {
	t.Helper()
	u := models.NewUser(email, name, "hash")
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func testUsers(t *testing.T, s storage.Store) {
	ctx := context.Background()

	alex := mustUser(t, s, "alex@example.com", "Alex Chen")

	got, err := s.GetUserByEmail(ctx, "alex@example.com")
	require.NoError(t, err)
	assert.Equal(t, alex.ID, got.ID)
	assert.Equal(t, "Alex Chen", got.DisplayName)
	assert.Equal(t, "hash", got.PasswordHash)

	got, err = s.GetUserByID(ctx, alex.ID)
	require.NoError(t, err)
	assert.Equal(t, "alex@example.com", got.Email)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	dup := models.NewUser("alex@example.com", "Other Alex", "hash")
	assert.ErrorIs(t, s.CreateUser(ctx, dup), storage.ErrAlreadyExists)

	taylor := mustUser(t, s, "taylor@example.com", "Taylor Kim")
	users, err := s.GetUsersByIDs(ctx, []string{alex.ID, taylor.ID, "missing"})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "Taylor Kim", users[taylor.ID].DisplayName)

	empty, err := s.GetUsersByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	n, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func testGroups(t *testing.T, s storage.Store) {
	ctx := context.Background()

	alex := mustUser(t, s, "alex@example.com", "Alex Chen")
	taylor := mustUser(t, s, "taylor@example.com", "Taylor Kim")
	jordan := mustUser(t, s, "jordan@example.com", "Jordan Smith")

	group := &models.Group{Name: "Roommates", CreatedBy: alex.ID}
	require.NoError(t, s.CreateGroup(ctx, group))
	assert.NotEmpty(t, group.ID)
	assert.NotZero(t, group.CreatedAt)
	assert.Equal(t, []models.Member{{ID: alex.ID, DisplayName: "Alex Chen"}}, group.Members)

	var verr *models.ValidationError
	assert.ErrorAs(t, s.CreateGroup(ctx, &models.Group{Name: " ", CreatedBy: alex.ID}), &verr)
	assert.ErrorIs(t, s.CreateGroup(ctx, &models.Group{Name: "Ghosts", CreatedBy: "missing"}), storage.ErrNotFound)

	require.NoError(t, s.AddGroupMember(ctx, group.ID, jordan.ID))
	require.NoError(t, s.AddGroupMember(ctx, group.ID, taylor.ID))
	require.NoError(t, s.AddGroupMember(ctx, group.ID, jordan.ID), "re-adding is a no-op")

	got, err := s.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, "Roommates", got.Name)
	assert.Equal(t, alex.ID, got.CreatedBy)
	assert.Equal(t, []models.Member{
		{ID: alex.ID, DisplayName: "Alex Chen"},
		{ID: jordan.ID, DisplayName: "Jordan Smith"},
		{ID: taylor.ID, DisplayName: "Taylor Kim"},
	}, got.Members, "roster keeps join order")

	assert.ErrorIs(t, s.AddGroupMember(ctx, "missing", taylor.ID), storage.ErrNotFound)
	assert.ErrorIs(t, s.AddGroupMember(ctx, group.ID, "missing"), storage.ErrNotFound)

	_, err = s.GetGroup(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	ok, err := s.IsGroupMember(ctx, group.ID, taylor.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	vacation := &models.Group{Name: "March Vacation", CreatedBy: taylor.ID}
	require.NoError(t, s.CreateGroup(ctx, vacation))

	ok, err = s.IsGroupMember(ctx, vacation.ID, alex.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	taylorGroups, err := s.ListGroupsForUser(ctx, taylor.ID)
	require.NoError(t, err)
	require.Len(t, taylorGroups, 2)

	alexGroups, err := s.ListGroupsForUser(ctx, alex.ID)
	require.NoError(t, err)
	require.Len(t, alexGroups, 1)
	assert.Equal(t, group.ID, alexGroups[0].ID)
	assert.Len(t, alexGroups[0].Members, 3)

	// Snapshots must not leak mutations back into the store
	got.Members[0].DisplayName = "Mutated"
	again, err := s.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alex Chen", again.Members[0].DisplayName)
}

func testExpenses(t *testing.T, s storage.Store) {
	ctx := context.Background()

	alex := mustUser(t, s, "alex@example.com", "Alex Chen")
	taylor := mustUser(t, s, "taylor@example.com", "Taylor Kim")
	outsider := mustUser(t, s, "jordan@example.com", "Jordan Smith")

	group := &models.Group{Name: "March Vacation", CreatedBy: alex.ID}
	require.NoError(t, s.CreateGroup(ctx, group))
	require.NoError(t, s.AddGroupMember(ctx, group.ID, taylor.ID))

	other := &models.Group{Name: "Project Phoenix", CreatedBy: outsider.ID}
	require.NoError(t, s.CreateGroup(ctx, other))

	dinner := &models.Expense{GroupID: group.ID, Description: "Dinner", Amount: 120, PayerID: taylor.ID, OccurredAt: 2000}
	require.NoError(t, s.CreateExpense(ctx, dinner))
	assert.NotEmpty(t, dinner.ID)
	assert.Equal(t, "Taylor Kim", dinner.PayerName)

	groceries := &models.Expense{GroupID: group.ID, Description: "Groceries", Amount: 75.5, PayerID: alex.ID, OccurredAt: 1000}
	require.NoError(t, s.CreateExpense(ctx, groceries))

	taxi := &models.Expense{GroupID: group.ID, Description: "Taxi", Amount: 25, PayerID: alex.ID}
	require.NoError(t, s.CreateExpense(ctx, taxi))
	assert.Equal(t, taxi.CreatedAt, taxi.OccurredAt, "occurred_at defaults to creation time")

	require.NoError(t, s.CreateExpense(ctx, &models.Expense{GroupID: other.ID, Description: "Kickoff", Amount: 10, PayerID: outsider.ID}))

	var verr *models.ValidationError
	assert.ErrorAs(t, s.CreateExpense(ctx, &models.Expense{GroupID: group.ID, Description: "", Amount: 5, PayerID: alex.ID}), &verr)
	assert.ErrorAs(t, s.CreateExpense(ctx, &models.Expense{GroupID: group.ID, Description: "Free", Amount: 0, PayerID: alex.ID}), &verr)
	assert.ErrorIs(t, s.CreateExpense(ctx, &models.Expense{GroupID: group.ID, Description: "Crash", Amount: 5, PayerID: outsider.ID}), storage.ErrPayerNotMember)
	assert.ErrorIs(t, s.CreateExpense(ctx, &models.Expense{GroupID: "missing", Description: "Lost", Amount: 5, PayerID: alex.ID}), storage.ErrNotFound)

	expenses, err := s.ListExpensesByGroup(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, expenses, 3)
	assert.Equal(t, "Groceries", expenses[0].Description)
	assert.Equal(t, "Dinner", expenses[1].Description)
	assert.Equal(t, "Taxi", expenses[2].Description)
	assert.Equal(t, 75.5, expenses[0].Amount)
	assert.Equal(t, "Alex Chen", expenses[0].PayerName)

	mine, err := s.ListExpensesForUser(ctx, alex.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	theirs, err := s.ListExpensesForUser(ctx, outsider.ID)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, "Kickoff", theirs[0].Description)

	none, err := s.ListExpensesByGroup(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testConcurrentWrites(t *testing.T, s storage.Store) {
	ctx := context.Background()

	owner := mustUser(t, s, "owner@example.com", "Owner")
	group := &models.Group{Name: "Busy", CreatedBy: owner.ID}
	require.NoError(t, s.CreateGroup(ctx, group))

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.CreateExpense(ctx, &models.Expense{
				GroupID:     group.ID,
				Description: fmt.Sprintf("Round %d", i),
				Amount:      float64(i + 1),
				PayerID:     owner.ID,
			})
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	expenses, err := s.ListExpensesByGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Len(t, expenses, writers)
}
