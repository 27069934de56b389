package handler

import (
	"errors"
	"log"
	"net/http"

	"duka/internal/domain"
	"duka/internal/middleware"
	"duka/internal/service"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	svc *service.CheckoutService
}

func NewCheckoutHandler(svc *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

type checkoutItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

type checkoutRequest struct {
	Items           []checkoutItemRequest `json:"items" binding:"required,min=1,dive"`
	CustomerEmail   string                `json:"customer_email" binding:"required,email"`
	ShippingAddress string                `json:"shipping_address" binding:"required"`
	Metadata        map[string]string     `json:"metadata"`
}

// Create validates the cart and opens a hosted checkout session. The order
// is already persisted (pending) when the session handle comes back.
func (h *CheckoutHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	items := make([]service.CheckoutItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, service.CheckoutItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Size:      it.Size,
			Color:     it.Color,
		})
	}
	res, err := h.svc.Checkout(c.Request.Context(), userID, service.CheckoutInput{
		Items:           items,
		CustomerEmail:   req.CustomerEmail,
		ShippingAddress: req.ShippingAddress,
		Metadata:        req.Metadata,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrSessionFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": "checkout session failed"})
		default:
			log.Printf("[checkout] user=%d err=%v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"order_id":   res.OrderID,
		"session_id": res.SessionID,
		"url":        res.URL,
	})
}
