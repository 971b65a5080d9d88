package http

import (
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// ReadinessProbe reports whether a dependency is ready to serve.
type ReadinessProbe func() error

// HealthHandler handles health and version endpoints
type HealthHandler struct {
	version string
	started time.Time
	probes  map[string]ReadinessProbe
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		version: version,
		started: time.Now(),
		probes:  make(map[string]ReadinessProbe),
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// AddProbe registers a named readiness probe. Probes run on every
// readiness check; any failure marks the service not ready.
func (h *HealthHandler) AddProbe(name string, probe ReadinessProbe) {
	h.probes[name] = probe
}

// Routes returns the health routes
func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HealthCheck)
	r.Get("/ready", h.ReadinessCheck)
	r.Get("/live", h.LivenessCheck)
	return r
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":     "healthy",
		"version":    h.version,
		"uptime":     time.Since(h.started).String(),
		"goroutines": runtime.NumGoroutine(),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck handles GET /api/health/ready
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string, len(h.probes))
	ready := true

	for name, probe := range h.probes {
		if err := probe(); err != nil {
			h.logger.WarnContext(r.Context(), "readiness probe failed",
				slog.String("probe", name),
				slog.String("error", err.Error()))
			checks[name] = err.Error()
			ready = false
			continue
		}
		checks[name] = "ok"
	}

	status := "ready"
	if !ready {
		status = "not ready"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	render.JSON(w, r, map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}

// LivenessCheck handles GET /api/health/live
func (h *HealthHandler) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status": "alive",
	})
}

// Version handles GET /api/version
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"version": h.version,
		"go":      runtime.Version(),
	})
}
