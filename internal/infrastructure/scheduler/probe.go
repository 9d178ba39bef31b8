package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/roletapro/roleta-client/internal/api/metrics"
	"github.com/roletapro/roleta-client/internal/core/ports"
)

const (
	DefaultSchedule = "@every 30s"
	probeTimeout    = 5 * time.Second
)

// ProbeResult is the outcome of one backend health check.
type ProbeResult struct {
	Up        bool      `json:"up"`
	CheckedAt time.Time `json:"checked_at"`
	Latency   string    `json:"latency"`
	Error     string    `json:"error,omitempty"`
}

// Probe calls the backend's /health on a cron schedule and keeps the last result.
type Probe struct {
	cron     *cron.Cron
	checker  ports.HealthChecker
	schedule string
	log      zerolog.Logger

	mu   sync.RWMutex
	last *ProbeResult
}

// NewProbe creates a Probe. An empty schedule selects DefaultSchedule. Any
// schedule accepted by robfig/cron's standard parser works, including the
// "@every <duration>" form.
func NewProbe(checker ports.HealthChecker, schedule string, log zerolog.Logger) *Probe {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &Probe{
		cron:     cron.New(),
		checker:  checker,
		schedule: schedule,
		log:      log,
	}
}

// Start runs one probe right away, then schedules the rest. Probes stop when
// ctx is cancelled or Stop is called.
func (p *Probe) Start(ctx context.Context) error {
	if _, err := p.cron.AddFunc(p.schedule, func() { p.Run(ctx) }); err != nil {
		return fmt.Errorf("probe schedule %q: %w", p.schedule, err)
	}
	p.Run(ctx)
	p.cron.Start()
	p.log.Info().Str("schedule", p.schedule).Msg("backend probe started")
	return nil
}

// Stop halts the schedule and waits for a running probe to finish.
func (p *Probe) Stop() {
	<-p.cron.Stop().Done()
	p.log.Info().Msg("backend probe stopped")
}

// Run performs one probe and records it.
func (p *Probe) Run(ctx context.Context) ProbeResult {
	if ctx.Err() != nil {
		return ProbeResult{CheckedAt: time.Now().UTC(), Error: ctx.Err().Error()}
	}

	checkCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := time.Now()
	_, err := p.checker.HealthCheck(checkCtx)
	res := ProbeResult{
		Up:        err == nil,
		CheckedAt: start.UTC(),
		Latency:   time.Since(start).Round(time.Millisecond).String(),
	}
	if err != nil {
		res.Error = err.Error()
		p.log.Warn().Err(err).Msg("backend probe failed")
	} else {
		p.log.Debug().Str("latency", res.Latency).Msg("backend probe ok")
	}

	metrics.SetBackendUp(res.Up)

	p.mu.Lock()
	p.last = &res
	p.mu.Unlock()
	return res
}

// Last returns the most recent result; ok is false before the first probe.
func (p *Probe) Last() (res ProbeResult, ok bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.last == nil {
		return ProbeResult{}, false
	}
	return *p.last, true
}
