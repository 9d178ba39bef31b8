package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/roletapro/roleta-client/internal/core/domain"
	"github.com/roletapro/roleta-client/pkg/apiclient"
	"github.com/roletapro/roleta-client/pkg/payload"
)

func (a *App) runAuth(ctx context.Context, args []string) error {
	cmd, args, err := subcommand("auth", args)
	if err != nil {
		return err
	}

	switch cmd {
	case "register":
		fs := a.flags("auth register")
		name := fs.String("name", "", "Display name")
		email := fs.String("email", "", "Account email")
		password := fs.String("password", "", "Account password")
		if err := parse(fs, args); err != nil {
			return err
		}
		if err := required(fs, map[string]string{"name": *name, "email": *email, "password": *password}); err != nil {
			return err
		}
		return a.showAuth(a.client.Register(ctx, *name, *email, *password))

	case "login":
		fs := a.flags("auth login")
		email := fs.String("email", "", "Account email")
		password := fs.String("password", "", "Account password")
		if err := parse(fs, args); err != nil {
			return err
		}
		if err := required(fs, map[string]string{"email": *email, "password": *password}); err != nil {
			return err
		}
		return a.showAuth(a.client.Login(ctx, *email, *password))

	case "logout":
		if err := parse(a.flags("auth logout"), args); err != nil {
			return err
		}
		err := a.client.Logout(ctx)
		fmt.Fprintln(a.stderr, "signed out")
		return err

	case "whoami":
		if err := parse(a.flags("auth whoami"), args); err != nil {
			return err
		}
		user, err := a.session.Restore(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrNotAuthenticated) {
				return fmt.Errorf("not signed in (roleta auth login): %w", err)
			}
			return err
		}
		return a.showAny(user)

	case "session":
		if err := parse(a.flags("auth session"), args); err != nil {
			return err
		}
		info, err := a.session.Inspect(ctx)
		if err != nil {
			return err
		}
		return a.showAny(info)

	default:
		return unknown("auth", cmd)
	}
}

// showAuth renders a login or register response and warns when it carried no
// access token, since nothing was stored for the profile then.
func (a *App) showAuth(resp payload.Value, err error) error {
	if err != nil {
		return err
	}
	if tok, derr := payload.As[domain.AuthToken](resp); derr != nil || tok.AccessToken == "" {
		fmt.Fprintln(a.stderr, "warning: no access_token in response; still signed out")
	}
	return a.out.Render(resp)
}

func (a *App) runStrategies(ctx context.Context, args []string) error {
	cmd, args, err := subcommand("strategies", args)
	if err != nil {
		return err
	}

	switch cmd {
	case "list":
		if err := parse(a.flags("strategies list"), args); err != nil {
			return err
		}
		return a.show(a.client.GetStrategies(ctx))

	case "get", "delete", "toggle":
		fs := a.flags("strategies " + cmd)
		if err := parse(fs, args, "id"); err != nil {
			return err
		}
		id, err := intArg(fs, 0, "id")
		if err != nil {
			return err
		}
		switch cmd {
		case "get":
			return a.show(a.client.GetStrategy(ctx, id))
		case "delete":
			return a.show(a.client.DeleteStrategy(ctx, id))
		default:
			return a.show(a.client.ToggleStrategy(ctx, id))
		}

	case "create":
		fs := a.flags("strategies create")
		name := fs.String("name", "", "Strategy name")
		typ := fs.String("type", "", "Strategy type, e.g. martingale")
		cfg := fs.String("config", "{}", "Strategy parameters as JSON, @file or -")
		active := fs.Bool("active", true, "Create the strategy enabled")
		if err := parse(fs, args); err != nil {
			return err
		}
		if err := required(fs, map[string]string{"name": *name, "type": *typ}); err != nil {
			return err
		}
		config, err := a.readBody(*cfg)
		if err != nil {
			return err
		}
		return a.show(a.client.CreateStrategy(ctx, *name, *typ, config, *active))

	case "update":
		fs := a.flags("strategies update")
		if err := parse(fs, args, "id", "body"); err != nil {
			return err
		}
		id, err := intArg(fs, 0, "id")
		if err != nil {
			return err
		}
		body, err := a.readBody(fs.Arg(1))
		if err != nil {
			return err
		}
		return a.show(a.client.UpdateStrategy(ctx, id, body))

	default:
		return unknown("strategies", cmd)
	}
}

func (a *App) runBankroll(ctx context.Context, args []string) error {
	cmd, args, err := subcommand("bankroll", args)
	if err != nil {
		return err
	}

	switch cmd {
	case "config":
		if err := parse(a.flags("bankroll config"), args); err != nil {
			return err
		}
		return a.show(a.client.GetBankrollConfig(ctx))

	case "save-config":
		fs := a.flags("bankroll save-config")
		if err := parse(fs, args, "body"); err != nil {
			return err
		}
		body, err := a.readBody(fs.Arg(0))
		if err != nil {
			return err
		}
		return a.show(a.client.SaveBankrollConfig(ctx, body))

	case "history":
		fs := a.flags("bankroll history")
		limit := fs.Int("limit", apiclient.DefaultBankrollHistoryLimit, "Maximum entries")
		if err := parse(fs, args); err != nil {
			return err
		}
		return a.show(a.client.GetBankrollHistory(ctx, *limit))

	case "stats":
		if err := parse(a.flags("bankroll stats"), args); err != nil {
			return err
		}
		return a.show(a.client.GetBankrollStats(ctx))

	default:
		return unknown("bankroll", cmd)
	}
}

func (a *App) runNotifications(ctx context.Context, args []string) error {
	cmd, args, err := subcommand("notifications", args)
	if err != nil {
		return err
	}

	switch cmd {
	case "list":
		fs := a.flags("notifications list")
		skip := fs.Int("skip", 0, "Entries to skip")
		limit := fs.Int("limit", apiclient.DefaultNotificationsLimit, "Maximum entries")
		if err := parse(fs, args); err != nil {
			return err
		}
		return a.show(a.client.GetNotifications(ctx, *skip, *limit))

	case "read":
		fs := a.flags("notifications read")
		if err := parse(fs, args, "id"); err != nil {
			return err
		}
		id, err := intArg(fs, 0, "id")
		if err != nil {
			return err
		}
		return a.show(a.client.MarkNotificationAsRead(ctx, id))

	case "create":
		fs := a.flags("notifications create")
		message := fs.String("message", "", "Notification text")
		typ := fs.String("type", apiclient.DefaultNotificationType, "Notification type")
		if err := parse(fs, args); err != nil {
			return err
		}
		if err := required(fs, map[string]string{"message": *message}); err != nil {
			return err
		}
		return a.show(a.client.CreateNotification(ctx, *message, *typ))

	default:
		return unknown("notifications", cmd)
	}
}

func (a *App) runProfile(ctx context.Context, args []string) error {
	cmd, args, err := subcommand("profile", args)
	if err != nil {
		return err
	}

	switch cmd {
	case "update":
		fs := a.flags("profile update")
		if err := parse(fs, args, "body"); err != nil {
			return err
		}
		body, err := a.readBody(fs.Arg(0))
		if err != nil {
			return err
		}
		return a.show(a.client.UpdateUserProfile(ctx, body))

	case "password":
		fs := a.flags("profile password")
		oldPassword := fs.String("old", "", "Current password")
		newPassword := fs.String("new", "", "New password")
		if err := parse(fs, args); err != nil {
			return err
		}
		if err := required(fs, map[string]string{"old": *oldPassword, "new": *newPassword}); err != nil {
			return err
		}
		return a.show(a.client.UpdateUserPassword(ctx, *oldPassword, *newPassword))

	default:
		return unknown("profile", cmd)
	}
}

func (a *App) runSubscriptions(ctx context.Context, args []string) error {
	cmd, args, err := subcommand("subscriptions", args)
	if err != nil {
		return err
	}

	switch cmd {
	case "plans", "active", "payments":
		if err := parse(a.flags("subscriptions "+cmd), args); err != nil {
			return err
		}
		switch cmd {
		case "plans":
			return a.show(a.client.GetSubscriptionPlans(ctx))
		case "active":
			return a.show(a.client.GetUserActiveSubscription(ctx))
		default:
			return a.show(a.client.GetUserPayments(ctx))
		}

	case "checkout":
		fs := a.flags("subscriptions checkout")
		if err := parse(fs, args, "plan_id"); err != nil {
			return err
		}
		planID, err := intArg(fs, 0, "plan_id")
		if err != nil {
			return err
		}
		return a.show(a.client.CreateCheckoutSession(ctx, planID))

	case "cancel":
		fs := a.flags("subscriptions cancel")
		if err := parse(fs, args, "id"); err != nil {
			return err
		}
		id, err := intArg(fs, 0, "id")
		if err != nil {
			return err
		}
		return a.show(a.client.CancelUserSubscription(ctx, id))

	case "reactivate":
		fs := a.flags("subscriptions reactivate")
		plan := fs.Int("plan", 0, "Plan to reactivate with")
		if err := parse(fs, args, "id"); err != nil {
			return err
		}
		id, err := intArg(fs, 0, "id")
		if err != nil {
			return err
		}
		if *plan <= 0 {
			return usagef("subscriptions reactivate: -plan required")
		}
		return a.show(a.client.ReactivateUserSubscription(ctx, id, *plan))

	default:
		return unknown("subscriptions", cmd)
	}
}

// headerFlags collects repeated -H key:value flags.
type headerFlags [][2]string

func (h *headerFlags) String() string { return fmt.Sprint(*h) }

func (h *headerFlags) Set(s string) error {
	key, value, ok := strings.Cut(s, ":")
	if !ok || strings.TrimSpace(key) == "" {
		return fmt.Errorf("header %q must be key:value", s)
	}
	*h = append(*h, [2]string{strings.TrimSpace(key), strings.TrimSpace(value)})
	return nil
}

// runCall sends an arbitrary request through Client.Request.
func (a *App) runCall(ctx context.Context, args []string) error {
	fs := a.flags("call")
	noAuth := fs.Bool("no-auth", false, "Omit the Authorization header")
	var headers headerFlags
	fs.Var(&headers, "H", "Extra header as key:value (repeatable)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() < 2 || fs.NArg() > 3 {
		return usagef("usage: roleta call [-no-auth] [-H key:value] METHOD PATH [BODY]")
	}

	method := strings.ToUpper(fs.Arg(0))
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
	default:
		return usagef("call: unsupported method %q", fs.Arg(0))
	}
	path := fs.Arg(1)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	opts := apiclient.RequestOptions{Method: method, SkipAuth: *noAuth}
	if fs.NArg() == 3 {
		body, err := a.readBody(fs.Arg(2))
		if err != nil {
			return err
		}
		opts.Body = []byte(body.String())
	}
	if len(headers) > 0 {
		opts.Header = http.Header{}
		for _, kv := range headers {
			opts.Header.Add(kv[0], kv[1])
		}
	}
	return a.show(a.client.Request(ctx, path, opts))
}
