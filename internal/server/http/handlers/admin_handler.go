package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aquafit/pixreminder/internal/server/http/dto"
)

const defaultDispatchLimit = 50

// AdminHandler serves operator endpoints.
type AdminHandler struct {
	facade AdminFacade
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(facade AdminFacade) *AdminHandler {
	return &AdminHandler{facade: facade}
}

// Reminders handles GET /api/reminders.
func (h *AdminHandler) Reminders(c *gin.Context) {
	pending := h.facade.PendingReminders()
	if len(pending) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, pending)
}

// CancelReminder handles DELETE /api/reminders/:orderID.
func (h *AdminHandler) CancelReminder(c *gin.Context) {
	orderID := c.Param("orderID")
	if !h.facade.CancelReminder(orderID) {
		c.Status(http.StatusNotFound)
		return
	}
	c.Status(http.StatusOK)
}

// Dispatches handles GET /api/dispatches.
func (h *AdminHandler) Dispatches(c *gin.Context) {
	limit := defaultDispatchLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.Status(http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := h.facade.Dispatches(c.Request.Context(), c.Query("order"), limit)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(records) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.DispatchResponse, 0, len(records))
	for _, rec := range records {
		response = append(response, dto.DispatchResponse{
			ID:      rec.ID.String(),
			OrderID: rec.OrderID,
			Phone:   rec.Phone,
			Status:  string(rec.Status),
			Error:   rec.ErrorText,
			SentAt:  rec.SentAt,
		})
	}
	c.JSON(http.StatusOK, response)
}

// Health handles GET /api/health.
func (h *AdminHandler) Health(c *gin.Context) {
	if err := h.facade.Healthy(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
