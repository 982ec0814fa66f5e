package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

// HealthChecker is implemented by every dependency the readiness probe
// consults (postgres, redis, minio, the catalog row store).
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthRecorder publishes component health. prometheus.AppMetrics
// satisfies it.
type HealthRecorder interface {
	SetHealth(component string, up bool)
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	checkers []HealthChecker
	recorder HealthRecorder
	version  string
	timeout  time.Duration
	startAt  time.Time
}

// NewHealthHandler creates a HealthHandler. recorder may be nil.
func NewHealthHandler(version string, recorder HealthRecorder, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{
		checkers: checkers,
		recorder: recorder,
		version:  version,
		timeout:  5 * time.Second,
		startAt:  time.Now(),
	}
}

// RegisterRoutes mounts /healthz and /readyz.
func (h *HealthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

// LivenessResponse is the response for the liveness probe.
type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the response for the readiness probe.
type ReadinessResponse struct {
	Status     common.HealthStatus       `json:"status"`
	Components map[string]ComponentCheck `json:"components,omitempty"`
}

// ComponentCheck represents the health of a single component.
type ComponentCheck struct {
	Status  common.HealthStatus `json:"status"`
	Latency string              `json:"latency,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// Liveness handles GET /healthz. It never consults dependencies.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status:  "alive",
		Version: h.version,
		Uptime:  time.Since(h.startAt).Truncate(time.Second).String(),
	})
}

// Readiness handles GET /readyz: 200 when every checker passes, 503 otherwise.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	components := h.checkAll(ctx)
	resp := ReadinessResponse{Status: common.HealthUp, Components: components}
	for _, c := range components {
		if c.Status != common.HealthUp {
			resp.Status = common.HealthDown
			break
		}
	}

	status := http.StatusOK
	if resp.Status != common.HealthUp {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// checkAll runs the checkers concurrently.
func (h *HealthHandler) checkAll(ctx context.Context) map[string]ComponentCheck {
	results := make(map[string]ComponentCheck, len(h.checkers))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, checker := range h.checkers {
		wg.Add(1)
		go func(c HealthChecker) {
			defer wg.Done()

			start := time.Now()
			err := c.Check(ctx)
			cc := ComponentCheck{
				Status:  common.HealthUp,
				Latency: time.Since(start).Truncate(time.Microsecond).String(),
			}
			if err != nil {
				cc.Status = common.HealthDown
				cc.Error = err.Error()
			}
			if h.recorder != nil {
				h.recorder.SetHealth(c.Name(), err == nil)
			}

			mu.Lock()
			results[c.Name()] = cc
			mu.Unlock()
		}(checker)
	}

	wg.Wait()
	return results
}

// CheckFunc adapts a name and a probe function to HealthChecker.
type CheckFunc struct {
	Component string
	Probe     func(ctx context.Context) error
}

// Name implements HealthChecker.
func (c CheckFunc) Name() string { return c.Component }

// Check implements HealthChecker.
func (c CheckFunc) Check(ctx context.Context) error { return c.Probe(ctx) }

//Personal.AI order the ending
