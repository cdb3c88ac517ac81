// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"supplyspend/internal/infrastructure/http/v1/handlers"
	"supplyspend/internal/infrastructure/http/v1/middleware"
	"supplyspend/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	// Database backs the readiness and info probes
	Database handlers.Database

	// Reports computes category budget reports
	Reports handlers.CategoryReporter

	// Version is reported by /health/info
	Version string

	// Debug switches gin to debug mode
	Debug bool
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger.WithComponent("http")))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Database, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	v1 := router.Group("/api/v1")
	registerReportRoutes(v1, cfg)

	return router
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	reportsHandler := handlers.NewReportsHandler(handlers.NewBaseHandler(), cfg.Reports)

	reports := rg.Group("/reports")
	{
		reports.GET("/category-budget", reportsHandler.GetCategoryBudget)
		reports.GET("/category-budget/export", reportsHandler.ExportCategoryBudget)
	}
}
