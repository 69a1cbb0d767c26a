package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/aquafit/pixreminder/internal/domain/errors"
	"github.com/aquafit/pixreminder/internal/domain/model"
	"github.com/aquafit/pixreminder/internal/server/http/dto"
)

// WebhookHandler receives order lifecycle events from the shop and reply
// callbacks from the messaging gateway.
type WebhookHandler struct {
	events  EventFacade
	inbound InboundFacade
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(events EventFacade, inbound InboundFacade) *WebhookHandler {
	return &WebhookHandler{events: events, inbound: inbound}
}

// Orders handles POST /webhooks/shopify. Understood events are always
// acknowledged with 200 so the shop does not retry them; only malformed
// payloads get a 400.
func (h *WebhookHandler) Orders(c *gin.Context) {
	var payload dto.ShopifyOrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.String(http.StatusBadRequest, "Malformed payload")
		return
	}

	event, err := payload.Normalize(time.Now())
	if err != nil {
		if errors.Is(err, domainErrors.ErrMissingOrderID) {
			c.String(http.StatusBadRequest, "Missing order id")
			return
		}
		c.String(http.StatusInternalServerError, "Error")
		return
	}

	result := h.events.HandleOrderEvent(c.Request.Context(), event)
	switch result.Outcome {
	case model.OutcomeScheduled:
		c.String(http.StatusOK, "Scheduled")
	case model.OutcomeCancelled:
		c.String(http.StatusOK, "Cancelled")
	case model.OutcomeIgnored:
		c.String(http.StatusOK, "Ignored - "+result.Reason)
	default:
		c.String(http.StatusInternalServerError, "Error")
	}
}

// Inbound handles POST /webhooks/inbound, the gateway's callback for
// customer replies.
func (h *WebhookHandler) Inbound(c *gin.Context) {
	var req dto.InboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Sender == "" {
		c.Status(http.StatusBadRequest)
		return
	}
	if err := h.inbound.HandleInboundMessage(c.Request.Context(), req.Sender, req.Text); err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusNoContent)
}
