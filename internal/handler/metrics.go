package handler

import (
	"net/http"

	"github.com/linkcut/linkcut/internal/metrics"
)

// MetricsHandler exposes the in-process counters on an admin endpoint.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Snapshot handles GET /api/admin/metrics.
func (h *MetricsHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "metrics not enabled")
		return
	}
	writeJSON(w, http.StatusOK, h.snapshotter.Snapshot())
}
