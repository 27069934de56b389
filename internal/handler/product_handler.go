package handler

import (
	"log"
	"net/http"

	"duka/internal/repository"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productRepo *repository.ProductRepository
}

func NewProductHandler(productRepo *repository.ProductRepository) *ProductHandler {
	return &ProductHandler{productRepo: productRepo}
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.productRepo.List()
	if err != nil {
		log.Printf("[products] list err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "product lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}
