package reporting

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"github.com/medchain/medchain/internal/domain/state"
)

type staticSource struct{ snap state.Snapshot }

func (s staticSource) Snapshot() state.Snapshot { return s.snap }

func fixedClock() time.Time {
	return time.Date(2024, 3, 22, 10, 0, 0, 0, time.UTC)
}

func TestBuildWorkbookSheets(t *testing.T) {
	exp := NewExporter(staticSource{snap: state.Fixture()}, fixedClock)
	data, err := exp.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{"Inventory", "Deficits", "Bills", "PurchaseOrders"} {
		if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
			t.Errorf("missing sheet %s", sheet)
		}
	}

	rows, err := f.GetRows("Inventory")
	if err != nil {
		t.Fatalf("read inventory rows: %v", err)
	}
	// Header plus one row per item.
	if want := len(state.Fixture().Inventory) + 1; len(rows) != want {
		t.Errorf("inventory rows = %d, want %d", len(rows), want)
	}
	if rows[0][0] != "id" || rows[0][1] != "name" {
		t.Errorf("unexpected header %v", rows[0])
	}
}

func TestExportEndpoint(t *testing.T) {
	exp := NewExporter(staticSource{snap: state.Fixture()}, fixedClock)
	h := NewHandler(exp)

	e := echo.New()
	h.RegisterRoutes(e.Group("/api/v1/admin"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/reports/export", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("content type = %s", ct)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); cd != `attachment; filename="operations-20240322.xlsx"` {
		t.Errorf("content disposition = %s", cd)
	}
	if rec.Body.Len() == 0 {
		t.Error("empty body")
	}
}
