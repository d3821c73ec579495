package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/printdesk/internal/server/http/handlers"
	"github.com/polkiloo/printdesk/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.PrintdeskFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	healthHandler := handlers.NewHealthHandler(facade)
	authHandler := handlers.NewAuthHandler(facade)
	storefrontHandler := handlers.NewStorefrontHandler(facade)
	adminOrderHandler := handlers.NewAdminOrderHandler(facade)

	engine.GET("/healthz", healthHandler.Check)

	api := engine.Group("/api")
	api.POST("/checkout", storefrontHandler.Checkout)
	api.POST("/payments/callback", storefrontHandler.PaymentCallback)
	api.GET("/orders/:publicId", storefrontHandler.OrderStatus)

	admin := api.Group("/admin")
	admin.POST("/login", authHandler.Login)

	adminAuth := admin.Group("")
	adminAuth.Use(middleware.AdminRequired(facade))
	adminAuth.GET("/orders/:id", adminOrderHandler.Get)
	adminAuth.POST("/orders/:id/payment/poll", adminOrderHandler.PollPayment)
	adminAuth.PATCH("/orders/:id/status", adminOrderHandler.UpdateStatus)
	adminAuth.POST("/orders/:id/cancel", adminOrderHandler.Cancel)
	adminAuth.DELETE("/orders/:id", adminOrderHandler.Delete)
	adminAuth.GET("/orders/:id/print-job", adminOrderHandler.PrintJob)

	return engine
}
