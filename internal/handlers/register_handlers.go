package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/internal/platform/metrics"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// recorder and rateLimiter may be nil.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	recorder *metrics.Recorder,
	rateLimiter *limiter.Limiter,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	if recorder != nil {
		r.GET("/metrics", gin.WrapH(recorder.Handler()))
	}

	setupAPIV1Routes(r, cfg, services, rateLimiter)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	rateLimiter *limiter.Limiter,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	if rateLimiter != nil {
		v1.Use(middleware.RateLimit(rateLimiter))
	}

	orgs := v1.Group("/organizations/:orgID")

	registerAccountRoutes(orgs, v1, service.Account)
	registerExchangeRateRoutes(orgs, service.ExchangeRate)
	registerTransactionRoutes(orgs, v1, service.Ledger, service.FX)
	registerFXRoutes(orgs, service.FX)
	registerTaxRoutes(v1)
}
