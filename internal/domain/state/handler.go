package state

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medchain/medchain/pkg/pagination"
)

// BillSynthesizer produces a bill for a fulfillment, or nil when generation
// fails. Fulfillment tolerates nil and proceeds without a bill.
type BillSynthesizer interface {
	SynthesizeBill(ctx context.Context, patient Patient, doctorName string, lines []BillLine) *Bill
}

type noBill struct{}

func (noBill) SynthesizeBill(context.Context, Patient, string, []BillLine) *Bill { return nil }

// Handler exposes the entity lists and mutation operations over HTTP.
type Handler struct {
	store  *Store
	biller BillSynthesizer
}

// NewHandler creates a state handler. A nil biller disables bill generation;
// fulfillment still works without it.
func NewHandler(store *Store, biller BillSynthesizer) *Handler {
	if biller == nil {
		biller = noBill{}
	}
	return &Handler{store: store, biller: biller}
}

// RegisterRoutes mounts read routes on the shared group and mutations on the
// role-gated groups.
func (h *Handler) RegisterRoutes(shared, admin, pharmacy, frontdesk *echo.Group) {
	shared.GET("/inventory", h.ListInventory)
	shared.GET("/patients", h.ListPatients)
	shared.GET("/patients/:id", h.GetPatient)
	shared.GET("/doctors", h.ListDoctors)
	shared.GET("/staff", h.ListStaff)
	shared.GET("/vendors", h.ListVendors)
	shared.GET("/orders", h.ListOrders)
	shared.GET("/requests", h.ListRequests)
	shared.GET("/bills", h.ListBills)

	admin.POST("/inventory", h.AddInventoryItem)
	admin.POST("/staff", h.AddStaff)
	admin.POST("/doctors", h.AddDoctor)
	admin.POST("/vendors", h.AddVendor)
	admin.POST("/orders/:id/authorize", h.AuthorizeOrder)
	admin.DELETE("/bills/:id", h.DeleteBill)

	pharmacy.POST("/orders", h.RaisePurchaseOrder)
	pharmacy.POST("/requests/:id/fulfill", h.FulfillRequest)

	frontdesk.POST("/patients", h.AddPatient)
	frontdesk.POST("/requests", h.CreateRequest)
}

// httpError maps domain sentinels onto HTTP statuses.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInsufficientStock):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

// -- Reads --

func (h *Handler) ListInventory(c echo.Context) error {
	items := h.store.Snapshot().Inventory
	p := pagination.FromContext(c)
	start, end := p.Slice(len(items))
	return c.JSON(http.StatusOK, pagination.NewResponse(items[start:end], len(items), p.Limit, p.Offset))
}

func (h *Handler) ListPatients(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Snapshot().Patients)
}

func (h *Handler) GetPatient(c echo.Context) error {
	snap := h.store.Snapshot()
	p := snap.FindPatient(c.Param("id"))
	if p == nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Snapshot().Doctors)
}

func (h *Handler) ListStaff(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Snapshot().Staff)
}

func (h *Handler) ListVendors(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Snapshot().Vendors)
}

func (h *Handler) ListOrders(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Snapshot().Orders)
}

func (h *Handler) ListRequests(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Snapshot().Requests)
}

func (h *Handler) ListBills(c echo.Context) error {
	bills := h.store.Snapshot().Bills
	p := pagination.FromContext(c)
	start, end := p.Slice(len(bills))
	return c.JSON(http.StatusOK, pagination.NewResponse(bills[start:end], len(bills), p.Limit, p.Offset))
}

// -- Admin mutations --

func (h *Handler) AddInventoryItem(c echo.Context) error {
	var item InventoryItem
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.store.AddInventoryItem(item)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) AddStaff(c echo.Context) error {
	var m StaffMember
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.store.AddStaff(m)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) AddDoctor(c echo.Context) error {
	var d Doctor
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.store.AddDoctor(d)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) AddVendor(c echo.Context) error {
	var v Vendor
	if err := c.Bind(&v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.store.AddVendor(v)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

type authorizeOrderRequest struct {
	Action string `json:"action"`
}

func (h *Handler) AuthorizeOrder(c echo.Context) error {
	var req authorizeOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.store.AuthorizeOrder(c.Param("id"), req.Action); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DeleteBill(c echo.Context) error {
	if err := h.store.DeleteBill(c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Pharmacy mutations --

type raiseOrderRequest struct {
	ItemName   string  `json:"item_name"`
	Quantity   int     `json:"quantity"`
	VendorName string  `json:"vendor_name"`
	Priority   string  `json:"priority"`
	Cost       float64 `json:"cost"`
}

func (h *Handler) RaisePurchaseOrder(c echo.Context) error {
	var req raiseOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	order, err := h.store.RaisePurchaseOrder(req.ItemName, req.Quantity, req.VendorName, req.Priority, req.Cost)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, order)
}

type fulfillRequest struct {
	Emergency bool `json:"emergency"`
}

type fulfillResponse struct {
	Request MedicationRequest `json:"request"`
	Bill    *Bill             `json:"bill,omitempty"`
}

// FulfillRequest completes a pending medication request. The non-emergency
// path checks stock up front, asks the assistant for a bill, and tolerates a
// nil bill: stock is still decremented and the request still completes.
func (h *Handler) FulfillRequest(c echo.Context) error {
	reqID := c.Param("id")

	var body fulfillRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	snap := h.store.Snapshot()
	pending := snap.FindRequest(reqID)
	if pending == nil {
		return echo.NewHTTPError(http.StatusNotFound, "request not found")
	}

	var bill *Bill
	if !body.Emergency {
		// Check stock before spending an assistant call, with the same error
		// split as the reducer's atomic re-check: unknown medicine is NotFound,
		// a known medicine with too little stock is InsufficientStock.
		for _, line := range pending.Items {
			inv := snap.FindInventory(line.MedicineID)
			if inv == nil {
				return httpError(fmt.Errorf("medicine %s: %w", line.MedicineID, ErrNotFound))
			}
			if inv.StockLevel < line.Quantity {
				return httpError(fmt.Errorf("%s needs %d, have %d: %w", inv.Name, line.Quantity, inv.StockLevel, ErrInsufficientStock))
			}
		}

		patient := snap.FindPatient(pending.PatientID)
		doctorName := "Unknown"
		var lines []BillLine
		for _, line := range pending.Items {
			unitPrice := 0.0
			if inv := snap.FindInventory(line.MedicineID); inv != nil {
				unitPrice = inv.CostPerUnit
			}
			lines = append(lines, BillLine{
				MedicineName: line.MedicineName,
				Quantity:     line.Quantity,
				UnitPrice:    unitPrice,
			})
		}
		if patient != nil {
			if doc := snap.FindDoctor(patient.AssignedDoctorID); doc != nil {
				doctorName = doc.Name
			}
			bill = h.biller.SynthesizeBill(c.Request().Context(), *patient, doctorName, lines)
		}
	}

	if err := h.store.CompleteMedicationRequest(reqID, bill, body.Emergency); err != nil {
		return httpError(err)
	}

	updated := h.store.Snapshot().FindRequest(reqID)
	if updated == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "request vanished")
	}
	return c.JSON(http.StatusOK, fulfillResponse{Request: *updated, Bill: bill})
}

// -- Front-desk mutations --

func (h *Handler) AddPatient(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.store.AddPatient(p)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

type createRequestRequest struct {
	PatientID string        `json:"patient_id"`
	Items     []RequestItem `json:"items"`
}

func (h *Handler) CreateRequest(c echo.Context) error {
	var body createRequestRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	patientName := ""
	if p := h.store.Snapshot().FindPatient(body.PatientID); p != nil {
		patientName = p.Name
	}
	created, err := h.store.CreateMedicationRequest(body.PatientID, patientName, body.Items)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, created)
}
