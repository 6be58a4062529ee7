package analytics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medchain/medchain/internal/domain/state"
)

type fixedSource struct {
	snap state.Snapshot
}

func (s fixedSource) Snapshot() state.Snapshot { return s.snap }

func newTestHandler(t *testing.T) *echo.Echo {
	t.Helper()
	h := NewHandler(fixedSource{snap: state.Fixture()}, func() time.Time { return march22 })
	e := echo.New()
	api := e.Group("/api/v1")
	h.RegisterRoutes(api, api)
	return e
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestOverviewEndpoint(t *testing.T) {
	rec := get(newTestHandler(t), "/api/v1/analytics/overview")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var ov Overview
	if err := json.Unmarshal(rec.Body.Bytes(), &ov); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(ov.LowStock) != 3 || len(ov.OnDutyStaff) != 6 {
		t.Errorf("overview = low %d, on duty %d", len(ov.LowStock), len(ov.OnDutyStaff))
	}
}

func TestDeficitsEndpointEmptySlice(t *testing.T) {
	// The fixture has no pending requests; the body must still be an array.
	rec := get(newTestHandler(t), "/api/v1/analytics/deficits")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", body)
	}
}

func TestVendorsEndpoint(t *testing.T) {
	rec := get(newTestHandler(t), "/api/v1/analytics/vendors")
	var out []VendorMetric
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 3 || out[0].OrderCount != 1 {
		t.Errorf("vendors = %+v", out)
	}
}

func TestBillsEndpoint(t *testing.T) {
	e := newTestHandler(t)

	rec := get(e, "/api/v1/analytics/bills?search=jane&window=weekly")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var bills []state.Bill
	if err := json.Unmarshal(rec.Body.Bytes(), &bills); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(bills) != 1 || bills[0].ID != "BILL-002" {
		t.Errorf("bills = %+v", bills)
	}

	if rec := get(e, "/api/v1/analytics/bills?window=quarterly"); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown window status = %d, want 400", rec.Code)
	}

	if rec := get(e, "/api/v1/analytics/bills?search=nobody"); rec.Body.String() != "[]\n" {
		t.Errorf("no-match body = %q, want empty JSON array", rec.Body.String())
	}
}

func TestPharmacyViews(t *testing.T) {
	e := newTestHandler(t)

	rec := get(e, "/api/v1/low-stock")
	var items []state.InventoryItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("low stock = %d, want 3", len(items))
	}

	rec = get(e, "/api/v1/expiring")
	items = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expiring = %d, want 2", len(items))
	}

	if rec := get(e, "/api/v1/wastage"); rec.Body.String() != "[]\n" {
		t.Errorf("wastage body = %q, want empty JSON array", rec.Body.String())
	}
}
