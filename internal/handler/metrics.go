package handler

import (
	"fmt"
	"net/http"

	"github.com/userdir/userdir/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "userdir_users_created_total %d\n", snap.UsersCreated)
	writeMetric(w, "userdir_users_updated_total %d\n", snap.UsersUpdated)
	writeMetric(w, "userdir_users_deleted_total %d\n", snap.UsersDeleted)

	writeMetric(w, "userdir_welcome_mail_total{status=\"sent\"} %d\n", snap.WelcomeMailSent)
	writeMetric(w, "userdir_welcome_mail_total{status=\"failed\"} %d\n", snap.WelcomeMailFailed)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
