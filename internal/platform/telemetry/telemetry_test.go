package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveMutation(t *testing.T) {
	p := NewProvider("test")
	p.ObserveMutation("add_inventory_item")
	p.ObserveMutation("add_inventory_item")
	p.ObserveMutation("delete_bill")

	if got := testutil.ToFloat64(p.mutations.WithLabelValues("add_inventory_item")); got != 2 {
		t.Errorf("add_inventory_item count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(p.mutations.WithLabelValues("delete_bill")); got != 1 {
		t.Errorf("delete_bill count = %v, want 1", got)
	}
}

func TestObserveAssistantCall(t *testing.T) {
	p := NewProvider("test")
	p.ObserveAssistantCall("synthesize_bill", "failed")
	if got := testutil.ToFloat64(p.assistantCalls.WithLabelValues("synthesize_bill", "failed")); got != 1 {
		t.Errorf("count = %v, want 1", got)
	}
}

func TestMetricsMiddlewareRecordsRoutePattern(t *testing.T) {
	p := NewProvider("test")
	e := echo.New()
	e.Use(p.MetricsMiddleware())
	e.GET("/api/v1/patients/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/P1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if got := testutil.ToFloat64(p.activeRequests); got != 0 {
		t.Errorf("active requests = %v, want 0 after completion", got)
	}
	n := testutil.CollectAndCount(p.requestDuration, "http_server_request_duration_seconds")
	if n != 1 {
		t.Fatalf("expected 1 duration series, got %d", n)
	}
}

func TestHandlerServesExposition(t *testing.T) {
	p := NewProvider("test")
	p.SetEntityCount("inventory", 8)

	e := echo.New()
	e.GET("/metrics", p.Handler())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `snapshot_entities{entity="inventory",service="test"} 8`) {
		t.Errorf("exposition missing entity gauge:\n%s", body)
	}
}
