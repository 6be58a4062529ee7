package assistant

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medchain/medchain/internal/domain/analytics"
	"github.com/medchain/medchain/internal/domain/state"
)

// SnapshotSource yields the current state used to build prompt context and to
// match suggestions against stock.
type SnapshotSource interface {
	Snapshot() state.Snapshot
}

// Handler serves the assistant-backed endpoints.
type Handler struct {
	client Client
	source SnapshotSource
	now    func() time.Time
}

// NewHandler creates an assistant handler. A nil clock defaults to time.Now.
func NewHandler(client Client, source SnapshotSource, clock func() time.Time) *Handler {
	if clock == nil {
		clock = time.Now
	}
	return &Handler{client: client, source: source, now: clock}
}

// RegisterRoutes mounts the query endpoint on the admin group, the voice
// endpoint on the shared group, and suggestions on the front-desk group.
func (h *Handler) RegisterRoutes(shared, admin, frontdesk *echo.Group) {
	admin.POST("/assistant/query", h.Query)
	shared.POST("/assistant/voice", h.Voice)
	frontdesk.GET("/patients/:id/suggestions", h.Suggestions)
}

type promptRequest struct {
	Text string `json:"text"`
}

type promptResponse struct {
	Answer string `json:"answer"`
}

func (h *Handler) Query(c echo.Context) error {
	var req promptRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}
	answer := h.client.AnswerOperationalQuery(c.Request().Context(), req.Text, h.opsContext())
	return c.JSON(http.StatusOK, promptResponse{Answer: answer})
}

func (h *Handler) Voice(c echo.Context) error {
	var req promptRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}
	answer := h.client.InterpretVoiceCommand(c.Request().Context(), req.Text, h.opsContext())
	return c.JSON(http.StatusOK, promptResponse{Answer: answer})
}

// MatchedSuggestion is a protocol suggestion joined against current stock by
// case-insensitive substring, so "Amoxicillin" matches "Amoxicillin 250mg".
type MatchedSuggestion struct {
	Suggestion
	MedicineID string `json:"medicine_id,omitempty"`
	InStock    bool   `json:"in_stock"`
}

func (h *Handler) Suggestions(c echo.Context) error {
	snap := h.source.Snapshot()
	patient := snap.FindPatient(c.Param("id"))
	if patient == nil {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}

	var history []string
	for _, log := range patient.MedicationHistory {
		history = append(history, fmt.Sprintf("%s x%d", log.MedicineName, log.Quantity))
	}

	suggestions := h.client.SuggestMedications(c.Request().Context(), patient.Diagnosis, strings.Join(history, ", "))

	out := make([]MatchedSuggestion, 0, len(suggestions))
	for _, s := range suggestions {
		m := MatchedSuggestion{Suggestion: s}
		if inv := matchInventory(snap.Inventory, s.Name); inv != nil {
			m.MedicineID = inv.ID
			m.InStock = inv.StockLevel > 0
		}
		out = append(out, m)
	}
	return c.JSON(http.StatusOK, out)
}

// matchInventory finds the first item whose name contains the suggestion, or
// whose name is contained in it, ignoring case.
func matchInventory(inventory []state.InventoryItem, name string) *state.InventoryItem {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}
	for i := range inventory {
		have := strings.ToLower(inventory[i].Name)
		if strings.Contains(have, needle) || strings.Contains(needle, have) {
			return &inventory[i]
		}
	}
	return nil
}

// opsContext summarizes the snapshot for prompt grounding.
func (h *Handler) opsContext() string {
	snap := h.source.Snapshot()
	now := h.now()

	var low []string
	for _, it := range analytics.LowStock(snap.Inventory) {
		low = append(low, fmt.Sprintf("%s (%d left)", it.Name, it.StockLevel))
	}
	var expiring []string
	for _, it := range analytics.ExpiringSoon(snap.Inventory, now) {
		expiring = append(expiring, it.Name)
	}

	return fmt.Sprintf(
		"Inventory items: %d. Patients: %d. Doctors: %d. Staff on duty: %d. "+
			"Pending orders: %d. Low stock: [%s]. Expiring soon: [%s]. "+
			"Inventory value: %.2f. Daily consumption: %.2f.",
		len(snap.Inventory), len(snap.Patients), len(snap.Doctors),
		len(analytics.OnDutyStaff(snap.Staff)),
		len(analytics.PendingOrders(snap.Orders)),
		strings.Join(low, ", "), strings.Join(expiring, ", "),
		analytics.InventoryValue(snap.Inventory),
		analytics.DailyConsumption(snap.Bills, now),
	)
}
