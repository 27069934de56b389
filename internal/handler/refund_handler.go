package handler

import (
	"errors"
	"log"
	"net/http"

	"duka/internal/domain"
	"duka/internal/service"

	"github.com/gin-gonic/gin"
)

type RefundHandler struct {
	settlement *service.SettlementService
}

func NewRefundHandler(settlement *service.SettlementService) *RefundHandler {
	return &RefundHandler{settlement: settlement}
}

type refundRequest struct {
	GatewayPaymentRef string `json:"gateway_payment_ref" binding:"required"`
	AmountCents       int64  `json:"amount_cents"` // 0 = full refund
	Reason            string `json:"reason"`
}

// Create initiates a refund at the gateway and returns its refund object.
// Order/Payment state is not mutated here — the charge.refunded webhook
// applies the ledger update.
func (h *RefundHandler) Create(c *gin.Context) {
	var req refundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ref, err := h.settlement.Refund(c.Request.Context(), req.GatewayPaymentRef, req.AmountCents, req.Reason)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
			return
		}
		log.Printf("[refund] ref=%s err=%v", req.GatewayPaymentRef, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "refund failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"refund": ref})
}
