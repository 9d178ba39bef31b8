package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roletapro/roleta-client/internal/infrastructure/scheduler"
)

// ProbeReader exposes the last backend probe.
type ProbeReader interface {
	Last() (scheduler.ProbeResult, bool)
}

// Dependency is a named connectivity check for the readiness probe.
type Dependency struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	probe ProbeReader
	deps  []Dependency
}

// NewHealthHandler returns a HealthHandler. probe may be nil.
func NewHealthHandler(probe ProbeReader, deps ...Dependency) *HealthHandler {
	return &HealthHandler{probe: probe, deps: deps}
}

// Liveness handles GET /health.
//
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  statusResponse
// @Router   /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, statusResponse{Status: "ok"})
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Backend      *scheduler.ProbeResult      `json:"backend,omitempty"`
	Dependencies map[string]dependencyStatus `json:"dependencies,omitempty"`
}

// Readiness handles GET /health/ready. The relay is ready when the last backend
// probe succeeded and every configured dependency answers a ping.
//
// @Summary  Readiness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  readinessResponse
// @Failure  503  {object}  readinessResponse
// @Router   /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	resp := readinessResponse{Status: "ok"}
	healthy := true

	if h.probe != nil {
		last, ok := h.probe.Last()
		if !ok || !last.Up {
			healthy = false
		}
		if ok {
			resp.Backend = &last
		}
	}

	if len(h.deps) > 0 {
		resp.Dependencies = make(map[string]dependencyStatus, len(h.deps))
	}
	for _, d := range h.deps {
		if err := d.Ping(ctx); err != nil {
			resp.Dependencies[d.Name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		resp.Dependencies[d.Name] = dependencyStatus{Status: "ok"}
	}

	code := http.StatusOK
	if !healthy {
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, resp)
}
