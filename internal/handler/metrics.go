package handler

import (
	"fmt"
	"net/http"

	"github.com/parley/parley/internal/metrics"
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
//
// GET /metricsz
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "parley_users_signed_up_total %d\n", snap.UsersSignedUp)
	writeMetric(w, "parley_login_attempts_total{status=\"success\"} %d\n", snap.LoginSuccesses)
	writeMetric(w, "parley_login_attempts_total{status=\"failed\"} %d\n", snap.LoginFailures)

	writeMetric(w, "parley_messages_sent_total %d\n", snap.MessagesSent)

	writeMetric(w, "parley_events_broadcast_total %d\n", snap.EventsBroadcast)
	writeMetric(w, "parley_ws_clients_dropped_total %d\n", snap.ClientsDropped)
	writeMetric(w, "parley_ws_connected_clients %d\n", snap.ConnectedClients)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
