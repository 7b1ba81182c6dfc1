package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitshare/internal/auth"
	"github.com/mmynk/splitshare/internal/middleware"
	"github.com/mmynk/splitshare/internal/storage"
	"github.com/mmynk/splitshare/internal/storage/memory"
	"github.com/mmynk/splitshare/internal/storage/sqlite"
	"github.com/mmynk/splitshare/pkg/api"
	"github.com/mmynk/splitshare/pkg/api/apiconnect"
)

// testEnv is a running server wired the way cmd/server wires it.
type testEnv struct {
	url    string
	client *http.Client
	public apiconnect.AuthServiceClient
}

// session holds clients that send one user's bearer token.
type session struct {
	user     *api.User
	token    string
	auth     apiconnect.AuthServiceClient
	groups   apiconnect.GroupServiceClient
	expenses apiconnect.ExpenseServiceClient
}

func newTestEnv(t *testing.T, store storage.Store, now func() time.Time) *testEnv {
	t.Helper()
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pres := Presentation{CurrencySymbol: "$", Location: time.UTC}
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)

	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(logger),
		middleware.RequireAuth(jwtManager,
			apiconnect.AuthServiceRegisterProcedure,
			apiconnect.AuthServiceLoginProcedure,
		),
	)

	expenses := NewExpenseService(store, pres, logger)
	if now != nil {
		expenses.now = now
	}
	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, logger), interceptors))
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(store, pres, logger), interceptors))
	mux.Handle(apiconnect.NewExpenseServiceHandler(expenses, interceptors))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &testEnv{
		url:    srv.URL,
		client: srv.Client(),
		public: apiconnect.NewAuthServiceClient(srv.Client(), srv.URL),
	}
}

func newMemoryEnv(t *testing.T) *testEnv {
	return newTestEnv(t, memory.New(), nil)
}

func newSQLiteEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "service.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return newTestEnv(t, store, nil)
}

// register signs up a user and returns a session for them.
func (e *testEnv) register(t *testing.T, email, name string) *session {
	t.Helper()
	resp, err := e.public.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: name,
		Password:    "password",
	}))
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", email, err)
	}
	return e.session(resp.Msg.User, resp.Msg.Token)
}

func (e *testEnv) session(user *api.User, token string) *session {
	opt := connect.WithInterceptors(bearer(token))
	return &session{
		user:     user,
		token:    token,
		auth:     apiconnect.NewAuthServiceClient(e.client, e.url, opt),
		groups:   apiconnect.NewGroupServiceClient(e.client, e.url, opt),
		expenses: apiconnect.NewExpenseServiceClient(e.client, e.url, opt),
	}
}

func bearer(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set("Authorization", "Bearer "+token)
			return next(ctx, req)
		}
	}
}

func (s *session) createGroup(t *testing.T, name string) *api.Group {
	t.Helper()
	resp, err := s.groups.CreateGroup(context.Background(), connect.NewRequest(&api.CreateGroupRequest{Name: name}))
	if err != nil {
		t.Fatalf("CreateGroup(%s) failed: %v", name, err)
	}
	return resp.Msg.Group
}

func (s *session) addMember(t *testing.T, groupID, email string) *api.Group {
	t.Helper()
	resp, err := s.groups.AddMember(context.Background(), connect.NewRequest(&api.AddMemberRequest{GroupID: groupID, Email: email}))
	if err != nil {
		t.Fatalf("AddMember(%s) failed: %v", email, err)
	}
	return resp.Msg.Group
}

func (s *session) pay(t *testing.T, groupID, description string, amount float64) *api.Expense {
	t.Helper()
	resp, err := s.expenses.CreateExpense(context.Background(), connect.NewRequest(&api.CreateExpenseRequest{
		GroupID:     groupID,
		Description: description,
		Amount:      amount,
	}))
	if err != nil {
		t.Fatalf("CreateExpense(%s) failed: %v", description, err)
	}
	return resp.Msg.Expense
}

func requireCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected %v, got %v (%v)", want, got, err)
	}
}
