package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/roletapro/roleta-client/internal/infrastructure/scheduler"
)

type stubProbe struct {
	res scheduler.ProbeResult
	ok  bool
}

func (s stubProbe) Last() (scheduler.ProbeResult, bool) { return s.res, s.ok }

func serveHealth(t *testing.T, fn echo.HandlerFunc) (int, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	if err := fn(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec.Code, resp
}

func TestHealthHandler_Liveness(t *testing.T) {
	code, resp := serveHealth(t, NewHealthHandler(nil).Liveness)
	if code != http.StatusOK || resp["status"] != "ok" {
		t.Fatalf("unexpected response %d %v", code, resp)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	okPing := Dependency{Name: "redis", Ping: func(context.Context) error { return nil }}
	badPing := Dependency{Name: "mongodb", Ping: func(context.Context) error { return errors.New("no reachable servers") }}

	tests := []struct {
		name   string
		probe  ProbeReader
		deps   []Dependency
		code   int
		status string
	}{
		{"no probe no deps", nil, nil, http.StatusOK, "ok"},
		{"backend up", stubProbe{res: scheduler.ProbeResult{Up: true}, ok: true}, []Dependency{okPing}, http.StatusOK, "ok"},
		{"backend down", stubProbe{res: scheduler.ProbeResult{Error: "refused"}, ok: true}, nil, http.StatusServiceUnavailable, "degraded"},
		{"not probed yet", stubProbe{}, nil, http.StatusServiceUnavailable, "degraded"},
		{"dependency down", stubProbe{res: scheduler.ProbeResult{Up: true}, ok: true}, []Dependency{okPing, badPing}, http.StatusServiceUnavailable, "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := serveHealth(t, NewHealthHandler(tt.probe, tt.deps...).Readiness)
			if code != tt.code || resp["status"] != tt.status {
				t.Fatalf("got %d %v, want %d %s", code, resp, tt.code, tt.status)
			}
		})
	}
}

func TestHealthHandler_Readiness_ReportsDependencies(t *testing.T) {
	h := NewHealthHandler(nil, Dependency{Name: "redis", Ping: func(context.Context) error { return errors.New("dial tcp: refused") }})
	_, resp := serveHealth(t, h.Readiness)

	deps, ok := resp["dependencies"].(map[string]any)
	if !ok {
		t.Fatalf("expected dependencies in response: %v", resp)
	}
	redis, _ := deps["redis"].(map[string]any)
	if redis["status"] != "unhealthy" || redis["error"] != "dial tcp: refused" {
		t.Fatalf("unexpected redis status: %v", redis)
	}
}
