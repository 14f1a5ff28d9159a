package router

import (
	"github.com/gin-gonic/gin"

	"studylink/internal/handler"
	"studylink/internal/middleware"
	"studylink/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	resourceH *handler.ResourceHandler,
	newsH *handler.NewsHandler,
	groupH *handler.GroupHandler,
	thumbH *handler.ThumbnailHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// Internal write-back from the thumbnail generator. Reached only over
	// the private network; the edge never routes /internal.
	r.POST("/internal/thumbnails", thumbH.Attach)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)

	// Public feed
	v1.GET("/news", newsH.Feed)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	resources := protected.Group("/resources")
	resources.POST("", resourceH.Upload)
	resources.GET("", resourceH.List)
	resources.GET("/:id", resourceH.GetByID)
	resources.DELETE("/:id", resourceH.Delete)

	groups := protected.Group("/groups")
	groups.POST("", groupH.Create)
	groups.GET("", groupH.List)
	groups.GET("/:id", groupH.GetByID)

	protected.POST("/news", newsH.Publish)

	return r
}
