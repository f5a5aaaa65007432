package handlers

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"git.home.luguber.info/inful/mdwiki/internal/foundation/errors"
	"git.home.luguber.info/inful/mdwiki/internal/logfields"
	"git.home.luguber.info/inful/mdwiki/internal/server/responses"
	"git.home.luguber.info/inful/mdwiki/internal/version"
)

// MonitoringHandlers serves the health endpoint.
type MonitoringHandlers struct {
	startTime time.Time
	root      string
	lastBuild atomic.Pointer[responses.BuildStatus]
	logger    *slog.Logger
}

// NewMonitoringHandlers creates monitoring handlers for the tree served from root.
func NewMonitoringHandlers(root string, logger *slog.Logger) *MonitoringHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &MonitoringHandlers{startTime: time.Now(), root: root, logger: logger}
}

// SetLastBuild records the most recent build shown by the health endpoint.
func (h *MonitoringHandlers) SetLastBuild(status responses.BuildStatus) {
	h.lastBuild.Store(&status)
}

// HandleHealthCheck handles the health check endpoint.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	health := &responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
		Root:      h.root,
		LastBuild: h.lastBuild.Load(),
	}
	if lb := health.LastBuild; lb != nil && lb.Outcome == "failed" {
		health.Status = "degraded"
	}

	if err := writeJSONPretty(w, r, http.StatusOK, health); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write health response").Build()
		h.logger.Error("Health check failed", logfields.Error(internalErr))
	}
}
