// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/carterperez-dev/hotel-maintenance/internal/core"
)

const defaultProbeTimeout = 2 * time.Second

type Checker interface {
	Ping(ctx context.Context) error
}

// Dependency is a backing service probed by /readyz. Optional dependencies
// are reported but never fail readiness.
type Dependency struct {
	Name     string
	Checker  Checker
	Optional bool
	// Timeout bounds one probe; zero uses two seconds.
	Timeout time.Duration
}

type phase int32

const (
	phaseServing phase = iota
	phaseNotReady
	phaseDraining
)

type Handler struct {
	deps  []Dependency
	phase atomic.Int32
}

func NewHandler(deps ...Dependency) *Handler {
	return &Handler{deps: deps}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

// SetReady toggles readiness while serving. It has no effect once
// draining has begun.
func (h *Handler) SetReady(ready bool) {
	from, to := phaseServing, phaseNotReady
	if ready {
		from, to = to, from
	}
	h.phase.CompareAndSwap(int32(from), int32(to))
}

// Drain fails both probes from now on.
func (h *Handler) Drain() {
	h.phase.Store(int32(phaseDraining))
}

func (h *Handler) current() phase {
	return phase(h.phase.Load())
}

func (h *Handler) Liveness(w http.ResponseWriter, _ *http.Request) {
	if h.current() == phaseDraining {
		writeProbe(w, http.StatusServiceUnavailable, StatusResponse{Status: "shutting_down"})
		return
	}
	writeProbe(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	switch h.current() {
	case phaseDraining:
		writeProbe(w, http.StatusServiceUnavailable, StatusResponse{Status: "shutting_down"})
		return
	case phaseNotReady:
		writeProbe(w, http.StatusServiceUnavailable, StatusResponse{Status: "not_ready"})
		return
	}

	checks := h.probeAll(r.Context())

	resp := ReadinessResponse{Status: "ok", Checks: checks}
	code := http.StatusOK
	for _, c := range checks {
		switch {
		case c.Healthy:
		case c.Optional:
			if resp.Status == "ok" {
				resp.Status = "degraded"
			}
		default:
			resp.Status = "unavailable"
			code = http.StatusServiceUnavailable
		}
	}

	writeProbe(w, code, resp)
}

func (h *Handler) probeAll(ctx context.Context) []HealthCheck {
	checks := make([]HealthCheck, len(h.deps))

	var g errgroup.Group
	for i, dep := range h.deps {
		g.Go(func() error {
			checks[i] = probe(ctx, dep)
			return nil
		})
	}
	_ = g.Wait()

	return checks
}

func probe(ctx context.Context, dep Dependency) HealthCheck {
	result := HealthCheck{Name: dep.Name, Optional: dep.Optional}

	if dep.Checker == nil {
		result.Message = "checker not configured"
		return result
	}

	timeout := dep.Timeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := dep.Checker.Ping(ctx)
	result.LatencyMS = float64(time.Since(start).Microseconds()) / 1000

	switch {
	case err == nil:
		result.Healthy = true
	case ctx.Err() != nil:
		result.Message = "timed out"
	default:
		result.Message = "ping failed"
	}
	return result
}

// writeProbe skips the response envelope; orchestrators read the bare body.
func writeProbe(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Cache-Control", "no-store")
	core.JSON(w, status, body)
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ReadinessResponse struct {
	Status string        `json:"status"`
	Checks []HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Name      string  `json:"name"`
	Healthy   bool    `json:"healthy"`
	Optional  bool    `json:"optional,omitempty"`
	LatencyMS float64 `json:"latency_ms"`
	Message   string  `json:"message,omitempty"`
}
