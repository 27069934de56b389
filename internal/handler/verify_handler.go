package handler

import (
	"errors"
	"log"
	"net/http"

	"duka/internal/domain"
	"duka/internal/middleware"
	"duka/internal/service"
	"duka/pkg/gateway"

	"github.com/gin-gonic/gin"
)

type VerifyHandler struct {
	settlement *service.SettlementService
}

func NewVerifyHandler(settlement *service.SettlementService) *VerifyHandler {
	return &VerifyHandler{settlement: settlement}
}

type verifyRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// Verify reconciles a session for the returning shopper. The browser lands
// here before the webhook is guaranteed to have arrived, so this path may
// backfill the payment row; it never touches stock or order status.
func (h *VerifyHandler) Verify(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	view, err := h.settlement.Verify(c.Request.Context(), req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, gateway.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		case errors.Is(err, domain.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		default:
			log.Printf("[verify] session=%s err=%v", req.SessionID, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "verification failed"})
		}
		return
	}
	if view.Order.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session": view.Session,
		"payment": view.Payment,
		"order":   view.Order,
	})
}
