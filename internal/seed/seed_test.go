package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitshare/internal/auth"
	"github.com/mmynk/splitshare/internal/calculator"
	"github.com/mmynk/splitshare/internal/storage/memory"
)

func TestDemo(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2025, time.March, 30, 12, 0, 0, 0, time.UTC)

	seeded, err := Demo(ctx, store, authenticator, now, logger)
	require.NoError(t, err)
	require.True(t, seeded)

	alex, err := authenticator.Authenticate(ctx, "alex@example.com", DemoPassword)
	require.NoError(t, err, "demo accounts can log in")

	groups, err := store.ListGroupsForUser(ctx, alex.ID)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	var vacation string
	for _, g := range groups {
		if g.Name == "March Vacation" {
			vacation = g.ID
			assert.Len(t, g.Members, 2)
		} else {
			assert.Len(t, g.Members, 3)
		}
	}
	require.NotEmpty(t, vacation)

	group, err := store.GetGroup(ctx, vacation)
	require.NoError(t, err)
	expenses, err := store.ListExpensesByGroup(ctx, vacation)
	require.NoError(t, err)
	require.Len(t, expenses, 2)

	members := make([]calculator.Member, len(group.Members))
	for i, m := range group.Members {
		members[i] = calculator.Member{ID: m.ID, Name: m.DisplayName}
	}
	calc := make([]calculator.Expense, len(expenses))
	for i, e := range expenses {
		calc[i] = calculator.Expense{Amount: e.Amount, PayerID: e.PayerID}
	}
	balances := calculator.ComputeBalances(members, calc, alex.ID)
	require.Len(t, balances, 1)
	assert.Equal(t, "Taylor Kim", balances[0].CounterpartName)
	assert.InDelta(t, -22.25, balances[0].Amount, 1e-9)

	again, err := Demo(ctx, store, authenticator, now, logger)
	require.NoError(t, err)
	assert.False(t, again, "seeding is skipped once users exist")

	count, err := store.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
