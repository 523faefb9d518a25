package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/edgehive/tenant-directory/internal/store"
)

// HealthChecker provides liveness and readiness endpoints. Readiness
// requires a working round trip to the coordination store.
type HealthChecker struct {
	contentStore store.ContentStore
	logger       *zap.Logger
}

// HealthStatus represents the health status response.
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp int64             `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// NewHealthChecker creates a new health checker.
func NewHealthChecker(contentStore store.ContentStore, logger *zap.Logger) *HealthChecker {
	return &HealthChecker{contentStore: contentStore, logger: logger}
}

// LivenessHandler handles liveness probe requests.
func (h *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	writeStatus(w, http.StatusOK, HealthStatus{
		Status:    "alive",
		Timestamp: time.Now().Unix(),
	})
}

// ReadinessHandler handles readiness probe requests.
func (h *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now().Unix(),
		Checks:    make(map[string]string),
	}
	code := http.StatusOK

	if err := h.contentStore.Ping(ctx); err != nil {
		h.logger.Warn("Coordination store unreachable", zap.Error(err))
		status.Status = "not_ready"
		status.Checks["coordination_store"] = err.Error()
		code = http.StatusServiceUnavailable
	} else {
		status.Checks["coordination_store"] = "ok"
	}

	writeStatus(w, code, status)
}

func writeStatus(w http.ResponseWriter, code int, status HealthStatus) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}
