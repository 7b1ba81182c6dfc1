package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitshare/internal/auth"
	"github.com/mmynk/splitshare/internal/config"
	"github.com/mmynk/splitshare/internal/seed"
	"github.com/mmynk/splitshare/internal/service"
	"github.com/mmynk/splitshare/internal/storage/memory"
	"github.com/mmynk/splitshare/pkg/api"
	"github.com/mmynk/splitshare/pkg/api/apiconnect"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := memory.New()
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	_, err := seed.Demo(context.Background(), store, authenticator, time.Now(), logger)
	require.NoError(t, err)

	srv := httptest.NewServer(newRouter(deps{
		store:         store,
		authenticator: authenticator,
		jwtManager:    auth.NewJWTManager("test-secret", time.Hour),
		presentation:  service.Presentation{CurrencySymbol: "$", Location: time.UTC},
		registry:      prometheus.NewRegistry(),
		logger:        logger,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestDemoFlowAndMetrics(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	authClient := apiconnect.NewAuthServiceClient(srv.Client(), srv.URL)
	login, err := authClient.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Email:    "taylor@example.com",
		Password: seed.DemoPassword,
	}))
	require.NoError(t, err)

	groups := apiconnect.NewGroupServiceClient(srv.Client(), srv.URL)
	list := connect.NewRequest(&api.ListGroupsRequest{})
	list.Header().Set("Authorization", "Bearer "+login.Msg.Token)
	resp, err := groups.ListGroups(ctx, list)
	require.NoError(t, err)

	summaries := map[string]string{}
	for _, g := range resp.Msg.Groups {
		summaries[g.Name] = g.Summary.Text
	}
	assert.Equal(t, "You are owed $22.25", summaries["March Vacation"])
	assert.Equal(t, "You owe $29.92", summaries["Roommates"])

	_, err = groups.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	metrics, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer metrics.Body.Close()
	body, _ := io.ReadAll(metrics.Body)

	text := string(body)
	assert.True(t, strings.Contains(text,
		`splitshare_rpc_requests_total{code="ok",procedure="/splitshare.v1.GroupService/ListGroups"} 1`), text)
	assert.True(t, strings.Contains(text,
		`splitshare_rpc_requests_total{code="unauthenticated",procedure="/splitshare.v1.GroupService/ListGroups"} 1`), text)
}

func TestOpenStore(t *testing.T) {
	store, err := openStore(config.StorageConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)
	require.NoError(t, store.Close())

	store, err = openStore(config.StorageConfig{Driver: "sqlite", SQLitePath: t.TempDir() + "/server.db"})
	require.NoError(t, err)
	require.NoError(t, store.Close())
}
