package router

import (
	"time"

	"duka/config"
	"duka/internal/domain"
	"duka/internal/handler"
	"duka/internal/middleware"
	"duka/internal/repository"
	"duka/internal/service"
	"duka/pkg/gateway"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, gw gateway.Gateway) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	checkoutSvc := service.NewCheckoutService(orderRepo, productRepo, gw, &cfg.Gateway)
	settlementSvc := service.NewSettlementService(orderRepo, paymentRepo, gw)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	productHandler := handler.NewProductHandler(productRepo)
	checkoutHandler := handler.NewCheckoutHandler(checkoutSvc)
	verifyHandler := handler.NewVerifyHandler(settlementSvc)
	refundHandler := handler.NewRefundHandler(settlementSvc)
	historyHandler := handler.NewHistoryHandler(orderRepo, paymentRepo)
	webhookHandler := handler.NewPaymentWebhookHandler(settlementSvc, gw)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		api.GET("/products", authMw, productHandler.List)
		api.POST("/checkout", authMw, checkoutHandler.Create)
		api.POST("/checkout/verify", authMw, verifyHandler.Verify)
		api.GET("/orders/history", authMw, historyHandler.Orders)
		api.GET("/payments/:id", authMw, historyHandler.Payment)
		api.POST("/refunds", authMw, middleware.RequireRole(domain.RoleAdmin), refundHandler.Create)

		api.POST("/webhooks/payment", webhookHandler.Handle)
	}

	return r
}
