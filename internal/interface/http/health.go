package http

import (
	"context"
	"net/http"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH ENDPOINTS
// ══════════════════════════════════════════════════════════════════════════════

// checkTimeout bounds a single dependency probe.
const checkTimeout = 3 * time.Second

// ComponentHealth is one dependency's probe result.
type ComponentHealth struct {
	Name    string        `json:"name"`
	Healthy bool          `json:"healthy"`
	Error   string        `json:"error,omitempty"`
	Latency time.Duration `json:"latency_ns"`
}

// HealthReport aggregates the component probes.
type HealthReport struct {
	Healthy    bool              `json:"healthy"`
	CheckedAt  time.Time         `json:"checked_at"`
	Components []ComponentHealth `json:"components"`
}

// HealthChecker probes the server's backing dependencies.
type HealthChecker interface {
	Check(ctx context.Context) HealthReport
}

// HealthCheckFunc adapts a function to the HealthChecker interface.
type HealthCheckFunc func(ctx context.Context) HealthReport

// Check implements HealthChecker.
func (f HealthCheckFunc) Check(ctx context.Context) HealthReport {
	return f(ctx)
}

// Pinger is the probe shape shared by the Postgres and Redis clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewDependencyChecker builds a HealthChecker over named pingable backends.
func NewDependencyChecker(components map[string]Pinger) HealthChecker {
	return HealthCheckFunc(func(ctx context.Context) HealthReport {
		report := HealthReport{
			Healthy:   true,
			CheckedAt: time.Now().UTC(),
		}

		for name, p := range components {
			probeCtx, cancel := context.WithTimeout(ctx, checkTimeout)
			start := time.Now()
			err := p.Ping(probeCtx)
			cancel()

			ch := ComponentHealth{
				Name:    name,
				Healthy: err == nil,
				Latency: time.Since(start),
			}
			if err != nil {
				ch.Error = err.Error()
				report.Healthy = false
			}
			report.Components = append(report.Components, ch)
		}

		return report
	})
}

// handleHealth reports full dependency health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	report := s.deps.HealthChecker.Check(r.Context())
	status := http.StatusOK
	if !report.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// handleReady reports readiness: the server can serve traffic only when its
// dependencies respond.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	s.handleHealth(w, r)
}

// handleLive reports liveness: the process is up.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}
