package router

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/aquafit/pixreminder/internal/pkg/sig"
	"github.com/aquafit/pixreminder/internal/server/http/handlers"
	"github.com/aquafit/pixreminder/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.SchedulerFacade, verifier sig.Verifier, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	webhookHandler := handlers.NewWebhookHandler(facade, facade)
	adminHandler := handlers.NewAdminHandler(facade)

	webhooks := engine.Group("/webhooks")
	webhooks.POST("/shopify", middleware.VerifySignature(verifier), webhookHandler.Orders)
	webhooks.POST("/inbound", webhookHandler.Inbound)

	api := engine.Group("/api")
	api.Use(cors.Default())
	api.GET("/reminders", adminHandler.Reminders)
	api.DELETE("/reminders/:orderID", adminHandler.CancelReminder)
	api.GET("/dispatches", adminHandler.Dispatches)
	api.GET("/health", adminHandler.Health)

	return engine
}
