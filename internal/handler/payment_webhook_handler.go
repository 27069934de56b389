package handler

import (
	"errors"
	"io"
	"log"
	"net/http"

	"duka/internal/domain"
	"duka/internal/service"
	"duka/pkg/gateway"

	"github.com/gin-gonic/gin"
)

type PaymentWebhookHandler struct {
	settlement *service.SettlementService
	gw         gateway.Gateway
}

func NewPaymentWebhookHandler(settlement *service.SettlementService, gw gateway.Gateway) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{settlement: settlement, gw: gw}
}

// Handle verifies and dispatches one gateway event. Bad signatures are 400
// and never processed. Handler errors are 500 on purpose: the gateway
// redelivers on non-2xx, which is our retry mechanism for transient
// failures and out-of-order sessions.
func (h *PaymentWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	evt, err := h.gw.VerifyEvent(body, c.GetHeader("X-Gateway-Signature"))
	if err != nil {
		if errors.Is(err, gateway.ErrBadSignature) {
			log.Printf("[webhook] signature rejected from %s", c.ClientIP())
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event"})
		return
	}
	if err := h.settlement.HandleEvent(c.Request.Context(), evt); err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			log.Printf("[webhook] event=%s type=%s: %v — requesting redelivery", evt.ID, evt.Type, err)
		} else {
			log.Printf("[webhook] event=%s type=%s failed: %v", evt.ID, evt.Type, err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "event processing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
