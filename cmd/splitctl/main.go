// Command splitctl prints a user's groups, balances and recent spending
// from a running splitshare server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitshare/pkg/api"
	"github.com/mmynk/splitshare/pkg/api/apiconnect"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, http.DefaultClient); err != nil {
		fmt.Fprintln(os.Stderr, "splitctl:", err)
		os.Exit(1)
	}
}

type options struct {
	server   string
	email    string
	password string
	group    string
	days     int
	symbol   string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("splitctl", flag.ContinueOnError)
	fs.StringVar(&o.server, "server", "http://localhost:8080", "splitshare server URL")
	fs.StringVar(&o.email, "email", os.Getenv("SPLITCTL_EMAIL"), "account email (env SPLITCTL_EMAIL)")
	fs.StringVar(&o.password, "password", os.Getenv("SPLITCTL_PASSWORD"), "account password (env SPLITCTL_PASSWORD)")
	fs.StringVar(&o.group, "group", "", "group ID or name to show balances for")
	fs.IntVar(&o.days, "days", 7, "days of spending to chart, 0 to skip")
	fs.StringVar(&o.symbol, "symbol", "$", "currency symbol for the spending chart")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if o.email == "" || o.password == "" {
		return options{}, errors.New("-email and -password are required")
	}
	return o, nil
}

func run(ctx context.Context, args []string, out io.Writer, httpClient connect.HTTPClient) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}

	authClient := apiconnect.NewAuthServiceClient(httpClient, o.server)
	login, err := authClient.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: o.email, Password: o.password}))
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	withToken := connect.WithInterceptors(bearer(login.Msg.Token))
	groupClient := apiconnect.NewGroupServiceClient(httpClient, o.server, withToken)
	expenseClient := apiconnect.NewExpenseServiceClient(httpClient, o.server, withToken)

	groups, err := groupClient.ListGroups(ctx, connect.NewRequest(&api.ListGroupsRequest{}))
	if err != nil {
		return fmt.Errorf("list groups: %w", err)
	}
	fmt.Fprintln(out, renderGroups(groups.Msg.Groups))

	var selected *api.Group
	if o.group != "" {
		selected = findGroup(groups.Msg.Groups, o.group)
		if selected == nil {
			return fmt.Errorf("no group matching %q", o.group)
		}
		balances, err := groupClient.GetGroupBalances(ctx, connect.NewRequest(&api.GetGroupBalancesRequest{GroupID: selected.ID}))
		if err != nil {
			return fmt.Errorf("get balances: %w", err)
		}
		fmt.Fprintln(out, renderBalances(selected, balances.Msg))
	}

	if o.days > 0 {
		req := &api.GetSpendingTrendRequest{Days: int32(o.days)}
		if selected != nil {
			req.GroupID = selected.ID
		}
		trend, err := expenseClient.GetSpendingTrend(ctx, connect.NewRequest(req))
		if err != nil {
			return fmt.Errorf("get spending trend: %w", err)
		}
		fmt.Fprintln(out, renderTrend(trend.Msg, o.symbol))
	}
	return nil
}

// findGroup matches by ID first, then by case-insensitive name.
func findGroup(groups []*api.Group, key string) *api.Group {
	for _, g := range groups {
		if g.ID == key {
			return g
		}
	}
	for _, g := range groups {
		if strings.EqualFold(g.Name, key) {
			return g
		}
	}
	return nil
}

func bearer(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set("Authorization", "Bearer "+token)
			return next(ctx, req)
		}
	}
}
