package handlers

import (
	"github.com/2025XRRPKOREA/api-server/cmd/docs"
	portssvc "github.com/2025XRRPKOREA/api-server/internal/core/ports/services"
	"github.com/2025XRRPKOREA/api-server/internal/middleware"
	"github.com/2025XRRPKOREA/api-server/internal/platform/config"
	"github.com/2025XRRPKOREA/api-server/pkg/metrics"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	collector *metrics.Collector,
) {
	// Health and metrics stay unauthenticated for probes and scrapers
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/metrics", gin.WrapH(collector.GetHandler()))

	// Register public authentication routes
	registerAuthRoutes(r, cfg, services.User, services.Token)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	// Delegate route registration to specific handlers, passing required services
	registerProfileRoutes(v1, services.User)
	RegisterSwapRoutes(v1, services.Swap, services.User)
	registerRateRoutes(v1, services.Rate)
	registerFeeRoutes(v1, services.Fee)

	// Operator-only surface
	admin := v1.Group("/admin", middleware.RequireAdmin())
	registerRateAdminRoutes(admin, services.Rate)
	registerFeeAdminRoutes(admin, services.Fee)
	registerAccessAdminRoutes(admin, services.Access)
	registerIssuanceAdminRoutes(admin, services.Issuance)
	registerUserAdminRoutes(admin, services.User)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
