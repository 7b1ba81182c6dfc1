package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitshare/internal/calculator"
	"github.com/mmynk/splitshare/internal/models"
	"github.com/mmynk/splitshare/internal/storage"
	"github.com/mmynk/splitshare/pkg/api"
	"github.com/mmynk/splitshare/pkg/api/apiconnect"
)

var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// defaultTrendDays is the spending window when the request leaves days unset.
const defaultTrendDays = 7

// maxTrendDays bounds the spending window.
const maxTrendDays = 366

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	store  storage.Store
	pres   Presentation
	logger *slog.Logger
	now    func() time.Time
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store, pres Presentation, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{store: store, pres: pres, logger: logger, now: time.Now}
}

// CreateExpense records a payment. The payer defaults to the caller.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := loadMemberGroup(ctx, s.store, s.logger, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}

	payerID := req.Msg.PayerID
	if payerID == "" {
		payerID = userID
	}
	expense := &models.Expense{
		GroupID:     req.Msg.GroupID,
		Description: strings.TrimSpace(req.Msg.Description),
		Amount:      req.Msg.Amount,
		PayerID:     payerID,
		OccurredAt:  req.Msg.OccurredAt,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, storeError(s.logger, "CreateExpense failed", err, "group_id", req.Msg.GroupID, "user_id", userID)
	}

	s.logger.Info("Expense created",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"payer_id", expense.PayerID,
		"amount", expense.Amount,
	)
	return connect.NewResponse(&api.CreateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// ListExpenses returns a group's expenses in chronological order.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := loadMemberGroup(ctx, s.store, s.logger, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, storeError(s.logger, "ListExpenses failed", err, "group_id", req.Msg.GroupID)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// GetSpendingTrend totals spending per calendar day over a trailing window,
// for one group or for every group the caller belongs to.
func (s *ExpenseService) GetSpendingTrend(ctx context.Context, req *connect.Request[api.GetSpendingTrendRequest]) (*connect.Response[api.GetSpendingTrendResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	days := int(req.Msg.Days)
	switch {
	case days == 0:
		days = defaultTrendDays
	case days < 0 || days > maxTrendDays:
		return nil, connect.NewError(connect.CodeInvalidArgument,
			&models.ValidationError{Field: "days", Reason: "days must be between 1 and 366"})
	}

	var expenses []*models.Expense
	if req.Msg.GroupID != "" {
		if _, err := loadMemberGroup(ctx, s.store, s.logger, req.Msg.GroupID, userID); err != nil {
			return nil, err
		}
		expenses, err = s.store.ListExpensesByGroup(ctx, req.Msg.GroupID)
	} else {
		expenses, err = s.store.ListExpensesForUser(ctx, userID)
	}
	if err != nil {
		return nil, storeError(s.logger, "GetSpendingTrend failed", err, "user_id", userID)
	}

	trend := calculator.DailySpending(calcExpenses(expenses), s.now().In(s.pres.location()), days)

	out := make([]*api.DayTotal, len(trend.Days))
	for i, d := range trend.Days {
		out[i] = &api.DayTotal{
			Date:  d.Date.Format(time.DateOnly),
			Label: d.Label,
			Total: d.Total,
		}
	}
	return connect.NewResponse(&api.GetSpendingTrendResponse{
		Days:      out,
		PeakIndex: int32(trend.PeakIndex),
	}), nil
}
