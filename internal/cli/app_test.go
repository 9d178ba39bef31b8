package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/roletapro/roleta-client/internal/core/domain"
	"github.com/roletapro/roleta-client/internal/core/service"
	"github.com/roletapro/roleta-client/pkg/apiclient"
)

type seenRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   string
}

// backend records every request and answers with respond.
type backend struct {
	t       *testing.T
	mu      sync.Mutex
	seen    []seenRequest
	respond func(r seenRequest) (int, string)
}

func newBackend(t *testing.T, respond func(r seenRequest) (int, string)) (*backend, *httptest.Server) {
	t.Helper()
	b := &backend{t: t, respond: respond}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		req := seenRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
			Body:   string(body),
		}
		b.mu.Lock()
		b.seen = append(b.seen, req)
		b.mu.Unlock()

		code, out := http.StatusOK, `{"ok":true}`
		if b.respond != nil {
			code, out = b.respond(req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = io.WriteString(w, out)
	}))
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *backend) requests() []seenRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]seenRequest(nil), b.seen...)
}

type testApp struct {
	*App
	client *apiclient.Client
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestApp(t *testing.T, baseURL, output string, stdin io.Reader) *testApp {
	t.Helper()
	client, err := apiclient.New(baseURL, apiclient.NewMemoryTokenStore())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	app, err := New(client, service.NewSessionService(client, "default", zerolog.Nop()), Options{
		Output: output,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		Log:    zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return &testApp{App: app, client: client, stdout: stdout, stderr: stderr}
}

func TestApp_StrategiesGet(t *testing.T) {
	b, srv := newBackend(t, func(seenRequest) (int, string) {
		return http.StatusOK, `{"id":3,"name":"Martingale"}`
	})
	app := newTestApp(t, srv.URL, "", nil)

	if err := app.Run(context.Background(), []string{"strategies", "get", "3"}); err != nil {
		t.Fatalf("run: %v", err)
	}

	reqs := b.requests()
	if len(reqs) != 1 || reqs[0].Method != http.MethodGet || reqs[0].Path != "/api/strategies/3" {
		t.Fatalf("unexpected requests: %+v", reqs)
	}
	want := "{\n  \"id\": 3,\n  \"name\": \"Martingale\"\n}\n"
	if app.stdout.String() != want {
		t.Fatalf("unexpected output:\n%s", app.stdout.String())
	}
}

func TestApp_UsageErrors(t *testing.T) {
	_, srv := newBackend(t, nil)

	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown group", []string{"casino"}},
		{"unknown command", []string{"strategies", "burn"}},
		{"missing id", []string{"strategies", "get"}},
		{"bad id", []string{"strategies", "get", "abc"}},
		{"extra args", []string{"bets", "spin", "now"}},
		{"missing flag", []string{"auth", "login", "-email", "a@b.c"}},
		{"bad result", []string{"bets", "create", "-amount", "5", "-result", "draw"}},
		{"bad body", []string{"profile", "update", "{nope"}},
		{"bad method", []string{"call", "TRACE", "/x"}},
		{"unknown flag", []string{"bets", "history", "-size", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, srv.URL, "", nil)
			err := app.Run(context.Background(), tt.args)
			var ue *UsageError
			if !errors.As(err, &ue) {
				t.Fatalf("expected usage error, got %v", err)
			}
			if ExitCode(err) != 2 {
				t.Fatalf("expected exit code 2, got %d", ExitCode(err))
			}
		})
	}
}

func TestApp_LoginThenWhoami(t *testing.T) {
	b, srv := newBackend(t, func(r seenRequest) (int, string) {
		switch r.Path {
		case "/api/auth/login":
			return http.StatusOK, `{"access_token":"tok-1","token_type":"bearer"}`
		case "/api/auth/me":
			return http.StatusOK, `{"id":7,"name":"Ana","email":"ana@example.com","is_active":true}`
		}
		return http.StatusNotFound, `{"detail":"Not Found"}`
	})
	app := newTestApp(t, srv.URL, "", nil)
	ctx := context.Background()

	if err := app.Run(ctx, []string{"auth", "login", "-email", "ana@example.com", "-password", "pw"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if strings.Contains(app.stderr.String(), "warning") {
		t.Fatalf("unexpected warning after a successful login: %q", app.stderr.String())
	}
	app.stdout.Reset()
	if err := app.Run(ctx, []string{"auth", "whoami"}); err != nil {
		t.Fatalf("whoami: %v", err)
	}

	reqs := b.requests()
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requests, got %+v", reqs)
	}
	if reqs[0].Auth != "" {
		t.Fatalf("login must not send a token, got %q", reqs[0].Auth)
	}
	if reqs[1].Auth != "Bearer tok-1" {
		t.Fatalf("whoami must send the stored token, got %q", reqs[1].Auth)
	}

	var user domain.User
	if err := json.Unmarshal(app.stdout.Bytes(), &user); err != nil {
		t.Fatalf("invalid json %q: %v", app.stdout.String(), err)
	}
	if user.ID != 7 || user.Email != "ana@example.com" || !user.IsActive {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestApp_LoginWithoutTokenWarns(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing", body: `{"token_type":"bearer"}`},
		{name: "empty", body: `{"access_token":"","token_type":"bearer"}`},
		{name: "not a string", body: `{"access_token":42}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, srv := newBackend(t, func(seenRequest) (int, string) { return http.StatusOK, tt.body })
			app := newTestApp(t, srv.URL, "", nil)
			ctx := context.Background()

			if err := app.Run(ctx, []string{"auth", "register", "-name", "Ana", "-email", "ana@example.com", "-password", "pw"}); err != nil {
				t.Fatalf("register: %v", err)
			}
			if !strings.Contains(app.stderr.String(), "no access_token") {
				t.Fatalf("expected a warning, stderr = %q", app.stderr.String())
			}
			if tok, _ := app.client.Token(ctx); tok != "" {
				t.Fatalf("no token should be stored, got %q", tok)
			}
		})
	}
}

func TestApp_WhoamiRejectedClearsToken(t *testing.T) {
	_, srv := newBackend(t, func(seenRequest) (int, string) {
		return http.StatusUnauthorized, `{"detail":"Could not validate credentials"}`
	})
	app := newTestApp(t, srv.URL, "", nil)
	ctx := context.Background()
	if err := app.client.SetToken(ctx, "stale"); err != nil {
		t.Fatal(err)
	}

	err := app.Run(ctx, []string{"auth", "whoami"})
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if ExitCode(err) != 1 {
		t.Fatalf("expected exit code 1, got %d", ExitCode(err))
	}
	if token, _ := app.client.Token(ctx); token != "" {
		t.Fatalf("expected token cleared, got %q", token)
	}
}

func TestApp_Logout(t *testing.T) {
	b, srv := newBackend(t, func(seenRequest) (int, string) {
		return http.StatusOK, `{"message":"Logged out successfully"}`
	})
	app := newTestApp(t, srv.URL, "", nil)
	ctx := context.Background()
	_ = app.client.SetToken(ctx, "tok")

	if err := app.Run(ctx, []string{"auth", "logout"}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if reqs := b.requests(); len(reqs) != 1 || reqs[0].Path != "/api/auth/logout" || reqs[0].Auth != "Bearer tok" {
		t.Fatalf("unexpected requests: %+v", reqs)
	}
	if token, _ := app.client.Token(ctx); token != "" {
		t.Fatalf("expected token cleared, got %q", token)
	}
	if !strings.Contains(app.stderr.String(), "signed out") {
		t.Fatalf("expected confirmation on stderr, got %q", app.stderr.String())
	}
}

func TestApp_Session(t *testing.T) {
	_, srv := newBackend(t, nil)
	app := newTestApp(t, srv.URL, "", nil)
	ctx := context.Background()

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ana@example.com",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	_ = app.client.SetToken(ctx, token)

	if err := app.Run(ctx, []string{"auth", "session"}); err != nil {
		t.Fatalf("session: %v", err)
	}
	var info domain.SessionInfo
	if err := json.Unmarshal(app.stdout.Bytes(), &info); err != nil {
		t.Fatalf("invalid json %q: %v", app.stdout.String(), err)
	}
	if !info.Present || info.Subject != "ana@example.com" || info.Expired || !info.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected session: %+v", info)
	}
}

func TestApp_BodiesAndFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		stdin  string
		method string
		path   string
		query  string
		body   string
	}{
		{
			name:   "profile update from stdin",
			args:   []string{"profile", "update", "-"},
			stdin:  `{"name":"Ana"}`,
			method: http.MethodPut, path: "/api/users/me", body: `{"name":"Ana"}`,
		},
		{
			name:   "chat joins words",
			args:   []string{"ai", "chat", "what", "is", "martingale?"},
			method: http.MethodPost, path: "/api/ai/chat", body: `{"message":"what is martingale?"}`,
		},
		{
			name:   "strategy create",
			args:   []string{"strategies", "create", "-name", "M1", "-type", "martingale", "-config", `{"base_bet":1}`, "-active=false"},
			method: http.MethodPost, path: "/api/strategies/",
			body: `{"name":"M1","type":"martingale","config":{"base_bet":1},"is_active":false}`,
		},
		{
			name:   "notifications paging",
			args:   []string{"notifications", "list", "-skip", "20", "-limit", "10"},
			method: http.MethodGet, path: "/api/notifications/", query: "skip=20&limit=10",
		},
		{
			name:   "simulate",
			args:   []string{"ai", "simulate", "-strategy", "fibonacci", "-rounds", "50", "-params", `{"base":2}`},
			method: http.MethodPost, path: "/api/ai/simulate-bets",
			body: `{"initial_bankroll":1000,"num_rounds":50,"base_bet_amount":10,"strategy_name":"fibonacci","strategy_params":{"base":2}}`,
		},
		{
			name:   "reactivate",
			args:   []string{"subscriptions", "reactivate", "-plan", "2", "9"},
			method: http.MethodPost, path: "/api/subscriptions/user-subscriptions/9/reactivate", body: `{"new_plan_id":2}`,
		},
		{
			name:   "raw call",
			args:   []string{"call", "-no-auth", "post", "api/custom", `{"a":[1,2]}`},
			method: http.MethodPost, path: "/api/custom", body: `{"a":[1,2]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, srv := newBackend(t, nil)
			app := newTestApp(t, srv.URL, "", strings.NewReader(tt.stdin))

			if err := app.Run(context.Background(), tt.args); err != nil {
				t.Fatalf("run: %v", err)
			}
			reqs := b.requests()
			if len(reqs) != 1 {
				t.Fatalf("expected one request, got %+v", reqs)
			}
			got := reqs[0]
			if got.Method != tt.method || got.Path != tt.path || got.Query != tt.query {
				t.Fatalf("got %s %s?%s, want %s %s?%s", got.Method, got.Path, got.Query, tt.method, tt.path, tt.query)
			}
			if tt.body != "" && got.Body != tt.body {
				t.Fatalf("body %s, want %s", got.Body, tt.body)
			}
		})
	}
}

func TestApp_BackendErrorSurfacesDetail(t *testing.T) {
	_, srv := newBackend(t, func(seenRequest) (int, string) {
		return http.StatusBadRequest, `{"detail":"Saldo insuficiente"}`
	})
	app := newTestApp(t, srv.URL, "", nil)

	err := app.Run(context.Background(), []string{"bets", "spin"})
	if err == nil || err.Error() != "Saldo insuficiente" {
		t.Fatalf("expected backend detail, got %v", err)
	}
	if ExitCode(err) != 1 {
		t.Fatalf("expected exit code 1, got %d", ExitCode(err))
	}
	if app.stdout.Len() != 0 {
		t.Fatalf("nothing should be rendered on failure, got %q", app.stdout.String())
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{flag.ErrHelp, 0},
		{usagef("bad"), 2},
		{errors.New("boom"), 1},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
