package delivery

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"chartgo/internal/delivery/middleware"
	"chartgo/pkg/logger"
	"chartgo/pkg/metrics"
)

// RouterOptions bounds request handling.
type RouterOptions struct {
	RequestTimeout time.Duration
	MaxUploadBytes int64
}

type HTTPRouter struct {
	handlers *HTTPHandlers
	logger   *logger.Logger
	metrics  *metrics.Metrics
	opts     RouterOptions
}

func NewHTTPRouter(handlers *HTTPHandlers, logger *logger.Logger, metrics *metrics.Metrics, opts RouterOptions) *HTTPRouter {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	return &HTTPRouter{
		handlers: handlers,
		logger:   logger,
		metrics:  metrics,
		opts:     opts,
	}
}

func (r *HTTPRouter) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	if r.opts.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = r.opts.MaxUploadBytes
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.Recovery(r.logger))
	router.Use(middleware.Metrics(r.metrics))
	router.Use(middleware.Timeout(r.opts.RequestTimeout))

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Content-Type", middleware.RequestIDHeader}
	config.ExposeHeaders = []string{middleware.RequestIDHeader}

	router.Use(cors.New(config))

	// Health endpoint
	router.GET("/health", r.handlers.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/", r.handlers.GetAPIInfo)
		v1.GET("", r.handlers.GetAPIInfo)

		// Import endpoints
		imports := v1.Group("/import", middleware.BodyLimit(r.opts.MaxUploadBytes))
		{
			imports.POST("/text", r.handlers.ImportText)
			imports.POST("/file", r.handlers.ImportFile)
			imports.POST("/files", r.handlers.ImportFiles)
			imports.POST("/sheets", r.handlers.ListSheets)
		}

		// Shell session endpoints
		shells := v1.Group("/shells")
		{
			shells.POST("", r.handlers.BuildShells)
			shells.GET("", r.handlers.ListShells)
			shells.DELETE("", r.handlers.ResetShells)
			shells.GET("/summary", r.handlers.GetShellSummary)
			shells.GET("/:id", r.handlers.GetShell)
			shells.PATCH("/:id", r.handlers.UpdateShell)

			layers := shells.Group("/:id/layers")
			{
				layers.POST("", r.handlers.AddTargetingLayer)
				layers.POST("/:layerId/duplicate", r.handlers.DuplicateTargetingLayer)
				layers.PATCH("/:layerId", r.handlers.UpdateTargetingLayer)
				layers.DELETE("/:layerId", r.handlers.DeleteTargetingLayer)

				creatives := layers.Group("/:layerId/creatives")
				{
					creatives.POST("", r.handlers.AddCreative)
					creatives.POST("/:creativeId/duplicate", r.handlers.DuplicateCreative)
					creatives.PATCH("/:creativeId", r.handlers.UpdateCreative)
					creatives.DELETE("/:creativeId", r.handlers.DeleteCreative)
				}
			}
		}

		// Export endpoints
		export := v1.Group("/export")
		{
			export.GET("/rows", r.handlers.ExportRows)
			export.POST("/run", r.handlers.ExportRun)
		}
	}

	// Prometheus metrics endpoint
	router.GET("/metrics", middleware.PrometheusHandler())

	return router
}
