package analytics

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medchain/medchain/internal/domain/state"
)

// SnapshotSource yields the current state for derivation.
type SnapshotSource interface {
	Snapshot() state.Snapshot
}

// Handler serves the derived read-only views. Every endpoint recomputes from
// the current snapshot; nothing here is cached or stored.
type Handler struct {
	source SnapshotSource
	now    func() time.Time
}

// NewHandler creates an analytics handler. A nil clock defaults to time.Now.
func NewHandler(source SnapshotSource, clock func() time.Time) *Handler {
	if clock == nil {
		clock = time.Now
	}
	return &Handler{source: source, now: clock}
}

// RegisterRoutes mounts the admin overview and the pharmacy views on their
// role-gated groups.
func (h *Handler) RegisterRoutes(admin, pharmacy *echo.Group) {
	admin.GET("/analytics/overview", h.Overview)
	admin.GET("/analytics/deficits", h.Deficits)
	admin.GET("/analytics/vendors", h.Vendors)
	admin.GET("/analytics/bills", h.Bills)

	pharmacy.GET("/low-stock", h.LowStock)
	pharmacy.GET("/expiring", h.Expiring)
	pharmacy.GET("/wastage", h.Wastage)
}

func (h *Handler) Overview(c echo.Context) error {
	return c.JSON(http.StatusOK, BuildOverview(h.source.Snapshot(), h.now()))
}

func (h *Handler) Deficits(c echo.Context) error {
	snap := h.source.Snapshot()
	out := Deficits(snap.Requests, snap.Inventory)
	if out == nil {
		out = []Deficit{}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) Vendors(c echo.Context) error {
	snap := h.source.Snapshot()
	return c.JSON(http.StatusOK, VendorMetrics(snap.Vendors, snap.Orders))
}

// Bills filters the bill registry by ?search= substring and ?window=
// all|weekly|monthly|yearly.
func (h *Handler) Bills(c echo.Context) error {
	window := c.QueryParam("window")
	switch window {
	case "", WindowAll, WindowWeekly, WindowMonthly, WindowYearly:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown window: "+window)
	}
	out := BillsInWindow(h.source.Snapshot().Bills, c.QueryParam("search"), window, h.now())
	if out == nil {
		out = []state.Bill{}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) LowStock(c echo.Context) error {
	out := LowStock(h.source.Snapshot().Inventory)
	if out == nil {
		out = []state.InventoryItem{}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) Expiring(c echo.Context) error {
	out := ExpiringSoon(h.source.Snapshot().Inventory, h.now())
	if out == nil {
		out = []state.InventoryItem{}
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) Wastage(c echo.Context) error {
	out := Wastage(h.source.Snapshot().Inventory, h.now())
	if out == nil {
		out = []state.InventoryItem{}
	}
	return c.JSON(http.StatusOK, out)
}
