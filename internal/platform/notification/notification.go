// Package notification keeps an in-memory log of the user-facing notices
// produced by state mutations, with an HTTP surface for dashboards to poll.
package notification

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medchain/medchain/internal/domain/state"
)

const defaultMaxNotices = 500

// Record is a stored notice with identity and arrival time.
type Record struct {
	ID        string    `json:"id"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Center stores recent notices in a bounded ring buffer. It implements
// state.NoticeSink.
type Center struct {
	mu      sync.RWMutex
	records []Record
	max     int
	now     func() time.Time
}

// NewCenter creates a Center. A nil clock defaults to time.Now.
func NewCenter(clock func() time.Time) *Center {
	if clock == nil {
		clock = time.Now
	}
	return &Center{max: defaultMaxNotices, now: clock}
}

// Publish appends a notice, evicting the oldest once the buffer is full.
func (c *Center) Publish(n state.Notice) {
	rec := Record{
		ID:        uuid.New().String(),
		Severity:  n.Severity,
		Message:   n.Message,
		CreatedAt: c.now().UTC(),
	}

	c.mu.Lock()
	if len(c.records) >= c.max {
		c.records = c.records[1:]
	}
	c.records = append(c.records, rec)
	c.mu.Unlock()
}

// Recent returns up to limit notices, newest first.
func (c *Center) Recent(limit int) []Record {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := len(c.records)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Record, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, c.records[i])
	}
	return out
}

// Stats returns notice counts grouped by severity.
func (c *Center) Stats() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := make(map[string]int)
	for _, r := range c.records {
		stats[r.Severity]++
	}
	return stats
}

// Handler exposes the notice log over HTTP.
type Handler struct {
	center *Center
}

// NewHandler creates a notification Handler.
func NewHandler(center *Center) *Handler {
	return &Handler{center: center}
}

// RegisterRoutes binds the notice routes to the given group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/notices", h.List)
	g.GET("/notices/stats", h.Stats)
}

// List handles GET /notices?limit=n.
func (h *Handler) List(c echo.Context) error {
	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	recs := h.center.Recent(limit)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":  recs,
		"total": len(recs),
	})
}

// Stats handles GET /notices/stats.
func (h *Handler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.center.Stats())
}
