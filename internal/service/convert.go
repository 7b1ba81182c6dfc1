package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitshare/internal/calculator"
	"github.com/mmynk/splitshare/internal/format"
	"github.com/mmynk/splitshare/internal/middleware"
	"github.com/mmynk/splitshare/internal/models"
	"github.com/mmynk/splitshare/internal/storage"
	"github.com/mmynk/splitshare/pkg/api"
)

var (
	errGroupIDRequired = errors.New("group_id is required")
	errNotGroupMember  = errors.New("you are not a member of this group")
)

// Presentation controls how amounts and calendar days are rendered.
type Presentation struct {
	CurrencySymbol string
	Location       *time.Location
}

func (p Presentation) symbol() string {
	if p.CurrencySymbol == "" {
		return format.DefaultSymbol
	}
	return p.CurrencySymbol
}

func (p Presentation) location() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

// callerID returns the authenticated user or an Unauthenticated error.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errors.New("authentication required"))
	}
	return userID, nil
}

// storeError maps storage and validation failures onto Connect codes,
// logging internal failures at error and the rest at warn.
func storeError(logger *slog.Logger, msg string, err error, attrs ...any) error {
	var validation *models.ValidationError
	var code connect.Code
	switch {
	case errors.As(err, &validation):
		code = connect.CodeInvalidArgument
	case errors.Is(err, storage.ErrPayerNotMember):
		code = connect.CodeInvalidArgument
	case errors.Is(err, storage.ErrNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, storage.ErrAlreadyExists):
		code = connect.CodeAlreadyExists
	default:
		logger.Error(msg, append(attrs, "error", err)...)
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}
	logger.Warn(msg, append(attrs, "code", code, "error", err)...)
	return connect.NewError(code, err)
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPIGroup(g *models.Group) *api.Group {
	members := make([]*api.Member, len(g.Members))
	for i, m := range g.Members {
		members[i] = &api.Member{ID: m.ID, DisplayName: m.DisplayName}
	}
	return &api.Group{
		ID:        g.ID,
		Name:      g.Name,
		Members:   members,
		CreatedBy: g.CreatedBy,
		CreatedAt: g.CreatedAt,
	}
}

func toAPIExpense(e *models.Expense) *api.Expense {
	return &api.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      e.Amount,
		PayerID:     e.PayerID,
		PayerName:   e.PayerName,
		OccurredAt:  e.OccurredAt,
		CreatedAt:   e.CreatedAt,
	}
}

func toAPISummary(pos calculator.Position, symbol string) *api.ViewerSummary {
	return &api.ViewerSummary{
		Paid:       pos.Paid,
		Share:      pos.Share,
		Net:        pos.Net,
		DisplayNet: format.Round(pos.Net),
		Text:       format.SummaryPhrase(pos.Net, symbol),
	}
}

// calcInputs converts a roster and its expenses into calculator input.
func calcInputs(group *models.Group, expenses []*models.Expense) ([]calculator.Member, []calculator.Expense) {
	members := make([]calculator.Member, len(group.Members))
	for i, m := range group.Members {
		members[i] = calculator.Member{ID: m.ID, Name: m.DisplayName}
	}
	return members, calcExpenses(expenses)
}

func calcExpenses(expenses []*models.Expense) []calculator.Expense {
	out := make([]calculator.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = calculator.Expense{Amount: e.Amount, PayerID: e.PayerID, OccurredAt: e.OccurredAt}
	}
	return out
}
