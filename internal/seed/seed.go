// Package seed loads demo users, groups and expenses into an empty store.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/splitshare/internal/auth"
	"github.com/mmynk/splitshare/internal/models"
	"github.com/mmynk/splitshare/internal/storage"
)

// DemoPassword is the password of every demo account.
const DemoPassword = "password"

type demoUser struct {
	email, name string
}

type demoExpense struct {
	group, payer, description string
	amount                    float64
	daysAgo                   int
}

var (
	demoUsers = []demoUser{
		{"alex@example.com", "Alex Chen"},
		{"taylor@example.com", "Taylor Kim"},
		{"jordan@example.com", "Jordan Smith"},
	}

	// The first member creates the group.
	demoGroups = []struct {
		name    string
		members []string
	}{
		{"March Vacation", []string{"alex@example.com", "taylor@example.com"}},
		{"Roommates", []string{"alex@example.com", "taylor@example.com", "jordan@example.com"}},
	}

	demoExpenses = []demoExpense{
		{"March Vacation", "alex@example.com", "Groceries", 75.50, 2},
		{"March Vacation", "taylor@example.com", "Dinner", 120.00, 1},
		{"Roommates", "jordan@example.com", "Utilities", 89.75, 0},
	}
)

// Demo seeds the demo data unless the store already has users.
// It reports whether anything was written.
func Demo(ctx context.Context, store storage.Store, authenticator auth.Authenticator, now time.Time, logger *slog.Logger) (bool, error) {
	count, err := store.CountUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		logger.Debug("Store already has users, skipping demo seed", "users", count)
		return false, nil
	}

	users := make(map[string]*models.User, len(demoUsers))
	for _, u := range demoUsers {
		user, err := authenticator.Register(ctx, u.email, u.name, DemoPassword)
		if err != nil {
			return false, fmt.Errorf("register %s: %w", u.email, err)
		}
		users[u.email] = user
	}

	groups := make(map[string]string, len(demoGroups))
	for _, g := range demoGroups {
		group := &models.Group{Name: g.name, CreatedBy: users[g.members[0]].ID}
		if err := store.CreateGroup(ctx, group); err != nil {
			return false, fmt.Errorf("create group %s: %w", g.name, err)
		}
		for _, email := range g.members[1:] {
			if err := store.AddGroupMember(ctx, group.ID, users[email].ID); err != nil {
				return false, fmt.Errorf("add %s to %s: %w", email, g.name, err)
			}
		}
		groups[g.name] = group.ID
	}

	for _, e := range demoExpenses {
		expense := &models.Expense{
			GroupID:     groups[e.group],
			Description: e.description,
			Amount:      e.amount,
			PayerID:     users[e.payer].ID,
			OccurredAt:  now.AddDate(0, 0, -e.daysAgo).Unix(),
		}
		if err := store.CreateExpense(ctx, expense); err != nil {
			return false, fmt.Errorf("create expense %s: %w", e.description, err)
		}
	}

	logger.Info("Seeded demo data",
		"users", len(demoUsers),
		"groups", len(demoGroups),
		"expenses", len(demoExpenses),
	)
	return true, nil
}
