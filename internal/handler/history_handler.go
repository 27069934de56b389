package handler

import (
	"errors"
	"log"
	"net/http"

	"duka/internal/domain"
	"duka/internal/middleware"
	"duka/internal/repository"

	"github.com/gin-gonic/gin"
)

// HistoryHandler serves read-only projections over the order and payment
// stores.
type HistoryHandler struct {
	orderRepo   *repository.OrderRepository
	paymentRepo *repository.PaymentRepository
}

func NewHistoryHandler(orderRepo *repository.OrderRepository, paymentRepo *repository.PaymentRepository) *HistoryHandler {
	return &HistoryHandler{orderRepo: orderRepo, paymentRepo: paymentRepo}
}

// Orders lists the caller's orders, newest first, items and refunds
// included. Stale pending orders (abandoned checkouts) show up here too;
// they are valid state, not errors.
func (h *HistoryHandler) Orders(c *gin.Context) {
	userID := middleware.GetUserID(c)
	orders, err := h.orderRepo.ListByUser(userID)
	if err != nil {
		log.Printf("[history] user=%d err=%v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "history lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// Payment returns one payment by its payment_id, ownership-checked.
func (h *HistoryHandler) Payment(c *gin.Context) {
	userID := middleware.GetUserID(c)
	p, err := h.paymentRepo.GetByPaymentID(c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
			return
		}
		log.Printf("[history] payment=%s err=%v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment lookup failed"})
		return
	}
	if p.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": p})
}
