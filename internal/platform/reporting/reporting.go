// Package reporting exports the operational ledger as an xlsx workbook for
// offline review: one sheet per concern (inventory, deficits, bills, orders).
package reporting

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"github.com/medchain/medchain/internal/domain/analytics"
	"github.com/medchain/medchain/internal/domain/state"
)

// SnapshotSource yields the current state for export.
type SnapshotSource interface {
	Snapshot() state.Snapshot
}

// Exporter builds xlsx workbooks from snapshots.
type Exporter struct {
	source SnapshotSource
	now    func() time.Time
}

// NewExporter creates an Exporter. A nil clock defaults to time.Now.
func NewExporter(source SnapshotSource, clock func() time.Time) *Exporter {
	if clock == nil {
		clock = time.Now
	}
	return &Exporter{source: source, now: clock}
}

// Build renders the workbook for the current snapshot.
func (e *Exporter) Build() ([]byte, error) {
	snap := e.source.Snapshot()
	now := e.now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, "Inventory"); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := e.writeInventory(f, "Inventory", snap, now); err != nil {
		return nil, err
	}
	if err := e.writeDeficits(f, snap); err != nil {
		return nil, err
	}
	if err := e.writeBills(f, snap); err != nil {
		return nil, err
	}
	if err := e.writeOrders(f, snap); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) writeInventory(f *excelize.File, sheet string, snap state.Snapshot, now time.Time) error {
	header := []interface{}{
		"id", "name", "category", "stock_level", "critical_threshold",
		"cost_per_unit", "expiry_date", "location", "low_stock", "expiring_soon",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("inventory header: %w", err)
	}

	low := make(map[string]bool)
	for _, it := range analytics.LowStock(snap.Inventory) {
		low[it.ID] = true
	}
	expiring := make(map[string]bool)
	for _, it := range analytics.ExpiringSoon(snap.Inventory, now) {
		expiring[it.ID] = true
	}

	row := 2
	for _, it := range snap.Inventory {
		line := []interface{}{
			it.ID, it.Name, it.Category, it.StockLevel, it.CriticalThreshold,
			it.CostPerUnit, it.ExpiryDate.Format("2006-01-02"), it.Location,
			low[it.ID], expiring[it.ID],
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &line); err != nil {
			return fmt.Errorf("inventory row %d: %w", row, err)
		}
		row++
	}
	return nil
}

func (e *Exporter) writeDeficits(f *excelize.File, snap state.Snapshot) error {
	const sheet = "Deficits"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	header := []interface{}{"medicine_id", "name", "needed", "available", "deficit", "financial_impact"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("deficit header: %w", err)
	}
	row := 2
	for _, d := range analytics.Deficits(snap.Requests, snap.Inventory) {
		line := []interface{}{d.MedicineID, d.Name, d.Needed, d.Available, d.Deficit, d.FinancialImpact}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &line); err != nil {
			return fmt.Errorf("deficit row %d: %w", row, err)
		}
		row++
	}
	return nil
}

func (e *Exporter) writeBills(f *excelize.File, snap state.Snapshot) error {
	const sheet = "Bills"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	header := []interface{}{"id", "patient_id", "patient_name", "doctor_name", "date", "subtotal", "gst", "grand_total"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("bill header: %w", err)
	}
	row := 2
	for _, b := range snap.Bills {
		line := []interface{}{
			b.ID, b.PatientID, b.PatientName, b.DoctorName,
			b.Date.Format("2006-01-02"), b.Subtotal, b.GST, b.GrandTotal,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &line); err != nil {
			return fmt.Errorf("bill row %d: %w", row, err)
		}
		row++
	}
	return nil
}

func (e *Exporter) writeOrders(f *excelize.File, snap state.Snapshot) error {
	const sheet = "PurchaseOrders"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	header := []interface{}{"id", "item_name", "quantity", "vendor_name", "status", "priority", "order_date", "cost", "requested_by"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("order header: %w", err)
	}
	row := 2
	for _, o := range snap.Orders {
		line := []interface{}{
			o.ID, o.ItemName, o.Quantity, o.VendorName, o.Status, o.Priority,
			o.OrderDate.Format("2006-01-02"), o.Cost, o.RequestedBy,
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &line); err != nil {
			return fmt.Errorf("order row %d: %w", row, err)
		}
		row++
	}
	return nil
}

// Handler serves the export endpoint.
type Handler struct {
	exporter *Exporter
}

// NewHandler creates a reporting handler.
func NewHandler(exporter *Exporter) *Handler {
	return &Handler{exporter: exporter}
}

// RegisterRoutes mounts the export route on an already role-gated group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/reports/export", h.Export)
}

// Export streams the xlsx workbook.
func (h *Handler) Export(c echo.Context) error {
	data, err := h.exporter.Build()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "report generation failed")
	}
	filename := fmt.Sprintf("operations-%s.xlsx", h.exporter.now().Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
