package cli

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
)

// mainEnv isolates Main from the caller's environment and any .env file.
func mainEnv(t *testing.T, apiURL string) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("ROLETA_API_URL", apiURL)
	t.Setenv("ROLETA_PROFILE", "test")
	t.Setenv("ROLETA_OUTPUT", "json")
	t.Setenv("ROLETA_HTTP_TIMEOUT", "5s")
	t.Setenv("ROLETA_TOKEN_STORE", "file")
	t.Setenv("ROLETA_TOKEN_DIR", t.TempDir())
	t.Setenv("ROLETA_TOKEN_PASSPHRASE", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_PRETTY", "false")
}

func runMain(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := Main(context.Background(), args, strings.NewReader(""), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestMain_TokenPersistsBetweenRuns(t *testing.T) {
	b, srv := newBackend(t, func(r seenRequest) (int, string) {
		switch r.Path {
		case "/api/auth/login":
			return http.StatusOK, `{"access_token":"tok-1","token_type":"bearer"}`
		case "/api/auth/me":
			if r.Auth != "Bearer tok-1" {
				return http.StatusUnauthorized, `{"detail":"Not authenticated"}`
			}
			return http.StatusOK, `{"id":7,"name":"Ana","email":"ana@example.com"}`
		}
		return http.StatusNotFound, `{"detail":"Not Found"}`
	})
	mainEnv(t, srv.URL)

	if code, _, stderr := runMain("-q", "auth", "login", "-email", "ana@example.com", "-password", "pw"); code != 0 {
		t.Fatalf("login exit = %d, stderr = %q", code, stderr)
	}
	code, stdout, stderr := runMain("-q", "auth", "whoami")
	if code != 0 {
		t.Fatalf("whoami exit = %d, stderr = %q", code, stderr)
	}
	if !strings.Contains(stdout, `"email": "ana@example.com"`) {
		t.Errorf("whoami output = %q", stdout)
	}
	if n := len(b.requests()); n != 2 {
		t.Errorf("backend saw %d requests, want 2", n)
	}
}

func TestMain_ExitCodes(t *testing.T) {
	_, srv := newBackend(t, func(r seenRequest) (int, string) {
		if r.Path == "/health" {
			return http.StatusOK, `{"status":"ok"}`
		}
		return http.StatusInternalServerError, `{"detail":"boom"}`
	})

	tests := []struct {
		name     string
		args     []string
		want     int
		stdout   string
		stderrIn string
	}{
		{name: "health", args: []string{"health"}, want: 0, stdout: `"status": "ok"`},
		{name: "table output", args: []string{"-o", "table", "health"}, want: 0, stdout: "FIELD"},
		{name: "bad output format", args: []string{"-o", "xml", "health"}, want: 2, stderrIn: "roleta:"},
		{name: "unknown group", args: []string{"nope"}, want: 2, stderrIn: `unknown command "nope"`},
		{name: "backend failure", args: []string{"bets", "spin"}, want: 1, stderrIn: "roleta: boom"},
		{name: "help", args: []string{"help"}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mainEnv(t, srv.URL)
			code, stdout, stderr := runMain(tt.args...)
			if code != tt.want {
				t.Fatalf("exit = %d, want %d (stderr %q)", code, tt.want, stderr)
			}
			if tt.stdout != "" && !strings.Contains(stdout, tt.stdout) {
				t.Errorf("stdout = %q, want it to contain %q", stdout, tt.stdout)
			}
			if tt.stderrIn != "" && !strings.Contains(stderr, tt.stderrIn) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.stderrIn)
			}
		})
	}
}
