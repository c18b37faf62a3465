package handlers

import (
	"fmt"

	"github.com/SscSPs/fx_backend/docs"
	portssvc "github.com/SscSPs/fx_backend/internal/core/ports/services"
	"github.com/SscSPs/fx_backend/internal/middleware"
	"github.com/SscSPs/fx_backend/internal/platform/config"
	"github.com/SscSPs/fx_backend/internal/utils"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// db may be nil, in which case /health only reports liveness.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	posthogClient *utils.PosthogClientWrapper,
	db Pinger,
) error {
	RegisterValidators()

	loginLimiter, err := middleware.NewMemoryLimiter(cfg.LoginRateLimit)
	if err != nil {
		return fmt.Errorf("login rate limit: %w", err)
	}
	convertLimiter, err := middleware.NewMemoryLimiter(cfg.ConvertRateLimit)
	if err != nil {
		return fmt.Errorf("convert rate limit: %w", err)
	}

	r.GET("/health", healthCheck(db))

	r.Use(middleware.PosthogMiddleware(posthogClient))

	v1 := r.Group("/api/v1")
	registerAuthRoutes(v1, services, loginLimiter)

	// Everything below requires a valid access token
	protected := v1.Group("", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	registerExchangeRateRoutes(v1, protected, services, posthogClient, middleware.RateLimit(convertLimiter))
	registerTransactionRoutes(protected, services.Transaction)

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
