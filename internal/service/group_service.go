package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitshare/internal/auth"
	"github.com/mmynk/splitshare/internal/calculator"
	"github.com/mmynk/splitshare/internal/format"
	"github.com/mmynk/splitshare/internal/models"
	"github.com/mmynk/splitshare/internal/storage"
	"github.com/mmynk/splitshare/pkg/api"
	"github.com/mmynk/splitshare/pkg/api/apiconnect"
)

var _ apiconnect.GroupServiceHandler = (*GroupService)(nil)

// GroupService implements the Connect GroupService.
type GroupService struct {
	store  storage.Store
	pres   Presentation
	logger *slog.Logger
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, pres Presentation, logger *slog.Logger) *GroupService {
	return &GroupService{store: store, pres: pres, logger: logger}
}

// CreateGroup creates a new group with the caller as its first member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CreateGroup request received", "name", req.Msg.Name, "user_id", userID)

	group := &models.Group{
		Name:      strings.TrimSpace(req.Msg.Name),
		CreatedBy: userID,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, storeError(s.logger, "CreateGroup failed", err, "user_id", userID)
	}

	s.logger.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&api.CreateGroupResponse{Group: toAPIGroup(group)}), nil
}

// GetGroup returns a group the caller belongs to.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	group, err := s.memberGroup(ctx, req.Msg.GroupID, userID)
	if err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: toAPIGroup(group)}), nil
}

// ListGroups returns the caller's groups, each with the caller's own standing.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, storeError(s.logger, "ListGroups failed", err, "user_id", userID)
	}

	out := make([]*api.Group, len(groups))
	for i, group := range groups {
		expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
		if err != nil {
			return nil, storeError(s.logger, "ListGroups failed", err, "group_id", group.ID)
		}
		members, calc := calcInputs(group, expenses)

		out[i] = toAPIGroup(group)
		if pos, ok := calculator.ViewerPosition(members, calc, userID); ok {
			out[i].Summary = toAPISummary(pos, s.pres.symbol())
		}
	}

	s.logger.Debug("ListGroups successful", "user_id", userID, "count", len(out))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// AddMember adds a registered user, found by email, to a group the caller belongs to.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.memberGroup(ctx, req.Msg.GroupID, userID); err != nil {
		return nil, err
	}

	email := auth.NormalizeEmail(req.Msg.Email)
	if email == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("email is required"))
	}
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, storeError(s.logger, "AddMember failed", err, "group_id", req.Msg.GroupID)
	}

	if err := s.store.AddGroupMember(ctx, req.Msg.GroupID, user.ID); err != nil {
		return nil, storeError(s.logger, "AddMember failed", err, "group_id", req.Msg.GroupID)
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, storeError(s.logger, "AddMember failed", err, "group_id", req.Msg.GroupID)
	}

	s.logger.Info("Member added", "group_id", group.ID, "member_id", user.ID, "user_id", userID)
	return connect.NewResponse(&api.AddMemberResponse{Group: toAPIGroup(group)}), nil
}

// GetGroupBalances returns what each other member owes the caller, or is
// owed by them, across every expense in the group.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	groupID := req.Msg.GroupID
	s.logger.Info("GetGroupBalances request received", "group_id", groupID, "user_id", userID)

	group, err := s.memberGroup(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, storeError(s.logger, "GetGroupBalances failed", err, "group_id", groupID)
	}
	members, calc := calcInputs(group, expenses)

	ledger := calculator.Positions(members, calc)
	if ledger.Unattributed > 0 {
		s.logger.Warn("Expenses paid by non-members left out of balances",
			"group_id", groupID,
			"unattributed", ledger.Unattributed,
		)
	}

	symbol := s.pres.symbol()
	balances := ledger.Balances(userID)
	out := make([]*api.Balance, len(balances))
	for i, b := range balances {
		out[i] = &api.Balance{
			CounterpartID:   b.CounterpartID,
			CounterpartName: b.CounterpartName,
			Amount:          b.Amount,
			DisplayAmount:   format.Round(b.Amount),
			Phrase:          format.BalancePhrase(b.Amount, symbol),
		}
	}

	resp := &api.GetGroupBalancesResponse{Balances: out}
	if pos, ok := ledger.Position(userID); ok {
		resp.Viewer = toAPISummary(pos, symbol)
	}

	s.logger.Info("GetGroupBalances successful",
		"group_id", groupID,
		"expenses_count", len(expenses),
		"balances_count", len(out),
	)
	return connect.NewResponse(resp), nil
}

// memberGroup loads a group and checks that userID is on its roster.
func (s *GroupService) memberGroup(ctx context.Context, groupID, userID string) (*models.Group, error) {
	return loadMemberGroup(ctx, s.store, s.logger, groupID, userID)
}

func loadMemberGroup(ctx context.Context, store storage.GroupStore, logger *slog.Logger, groupID, userID string) (*models.Group, error) {
	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errGroupIDRequired)
	}
	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, storeError(logger, "Failed to load group", err, "group_id", groupID)
	}
	if !group.HasMember(userID) {
		logger.Warn("Group access denied", "group_id", groupID, "user_id", userID)
		return nil, connect.NewError(connect.CodePermissionDenied, errNotGroupMember)
	}
	return group, nil
}
