package main

import (
	"github.com/gin-gonic/gin"

	"github.com/errwatch/errwatch/internal/handlers"
	"github.com/errwatch/errwatch/internal/middleware"
	"github.com/errwatch/errwatch/internal/models"
	"github.com/errwatch/errwatch/internal/services"
	"github.com/errwatch/errwatch/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS(svc.cfg.CORS.AllowedOrigins))

	// Rate limiter for the public ingestion route
	ingestLimiter := middleware.NewRateLimiter(50, 100)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "errwatch"})
	})

	// Root-level ingestion route (API-key authenticated, rate limited)
	r.POST("/errors", ingestLimiter.Middleware(), svc.ingestHandler.Ingest)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", svc.authHandler.Login)
		}

		// SSE stream (public route with internal token validation)
		sseHandler := handlers.NewSSEHandler(services.GetEventsHub())
		api.GET("/events/errors", sseHandler.StreamEvents)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.PUT("/auth/notifications", svc.authHandler.SetNotifications)

			// Volume aggregation
			volumeHandler := handlers.NewVolumeHandler(models.GetDB())
			protected.GET("/logs/volume", volumeHandler.GetVolume)

			// Projects
			projectHandler := handlers.NewProjectHandler(models.GetDB())
			protected.GET("/projects", projectHandler.List)
			protected.GET("/projects/:id", projectHandler.Get)
			protected.POST("/projects", projectHandler.Create)
			protected.PUT("/projects/:id", projectHandler.Rename)
			protected.DELETE("/projects/:id", projectHandler.Delete)

			// Phone numbers
			phoneHandler := handlers.NewPhoneNumberHandler(models.GetDB())
			protected.GET("/phone-numbers", phoneHandler.List)
			protected.POST("/phone-numbers", phoneHandler.Create)
			protected.PUT("/phone-numbers/:id/primary", phoneHandler.SetPrimary)
			protected.DELETE("/phone-numbers/:id", phoneHandler.Delete)

			// Events
			eventHandler := handlers.NewEventHandler(models.GetDB())
			protected.GET("/events", eventHandler.List)
			protected.POST("/events/:id/resolve", eventHandler.Resolve)
			protected.POST("/events/:id/mute", eventHandler.Mute)
			protected.POST("/events/:id/unmute", eventHandler.Unmute)
		}
	}
}
