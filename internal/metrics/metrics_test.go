package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRecordRequest_Exposed(t *testing.T) {
	m := New()
	m.RecordRequest(http.MethodGet, "/libros", "200", 15*time.Millisecond)
	m.RecordRequest(http.MethodGet, "/libros", "200", 5*time.Millisecond)
	m.RecordRequest(http.MethodPost, "/prestamos", "400", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `biblioteca_http_requests_total{method="GET",route="/libros",status="200"} 2`) {
		t.Errorf("exposition missing GET /libros counter:\n%s", body)
	}
	if !strings.Contains(body, `biblioteca_http_requests_total{method="POST",route="/prestamos",status="400"} 1`) {
		t.Errorf("exposition missing POST /prestamos counter:\n%s", body)
	}
	if !strings.Contains(body, "biblioteca_http_request_duration_seconds") {
		t.Error("exposition missing duration histogram")
	}
}

func TestInFlightGauge(t *testing.T) {
	m := New()
	m.IncInFlight()
	m.IncInFlight()
	m.DecInFlight()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "biblioteca_http_inflight_requests 1") {
		t.Errorf("gauge not at 1:\n%s", rec.Body.String())
	}
}
