package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/parley/parley/internal/metrics"
)

func TestMetricsHandler_Metrics(t *testing.T) {
	recorder := metrics.NewInMemory()
	recorder.IncUserSignedUp()
	recorder.IncLoginAttempt("success")
	recorder.IncLoginAttempt("failed")
	recorder.IncMessageSent()
	recorder.SetConnectedClients(3)

	h := NewMetricsHandler(recorder)

	req := httptest.NewRequest(http.MethodGet, "/metricsz", nil)
	rec := httptest.NewRecorder()
	h.Metrics(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"parley_users_signed_up_total 1",
		`parley_login_attempts_total{status="success"} 1`,
		`parley_login_attempts_total{status="failed"} 1`,
		"parley_messages_sent_total 1",
		"parley_ws_connected_clients 3",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("missing metric line %q in:\n%s", want, body)
		}
	}
}

func TestMetricsHandler_NilSnapshotter(t *testing.T) {
	h := NewMetricsHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/metricsz", nil)
	rec := httptest.NewRecorder()
	h.Metrics(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
}
