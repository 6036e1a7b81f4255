// Package api wires the HTTP surface of the dashboard and provides a client for it.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/jmagar/bookingcurve/docs"
	"github.com/jmagar/bookingcurve/internal/api/handlers"
	"github.com/jmagar/bookingcurve/internal/api/middleware"
	"github.com/jmagar/bookingcurve/internal/services"
)

const (
	APIBase = "/api/v1"
	Version = "1.0.0"
)

// RouterConfig holds what the router needs beyond the services
type RouterConfig struct {
	Production      bool
	JWTSecret       string
	ExportRateLimit int
}

// NewRouter builds the gin engine serving the page, the JSON API, metrics and docs.
func NewRouter(cfg RouterConfig, dashboard *services.DashboardService, reloads *services.ReloadRunner, exporter *services.Exporter, log *zap.Logger) *gin.Engine {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	dashboardHandler := handlers.NewDashboardHandler(dashboard, exporter, APIBase)
	adminHandler := handlers.NewAdminHandler(reloads)

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.ErrorHandler(log))
	router.Use(middleware.Metrics())
	router.Use(middleware.SecurityHeaders())

	router.GET("/", dashboardHandler.Page)
	router.GET("/health", middleware.HealthCheck(Version))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	docs.SwaggerInfo.BasePath = APIBase
	docs.SwaggerInfo.Version = Version
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	exportLimit := middleware.RateLimit(cfg.ExportRateLimit)

	v1 := router.Group(APIBase)
	{
		v1.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message": "Booking curve API v" + Version,
				"docs":    "/swagger/index.html",
			})
		})

		v1.GET("/groups", dashboardHandler.Groups)
		v1.GET("/thresholds", dashboardHandler.Thresholds)
		v1.GET("/summary", dashboardHandler.Summary)
		v1.GET("/scatter", dashboardHandler.Scatter)
		v1.GET("/bars", dashboardHandler.Bars)

		figures := v1.Group("/figures")
		{
			figures.GET("/scatter", dashboardHandler.ScatterFigure)
			figures.GET("/bars", dashboardHandler.BarFigure)
		}

		export := v1.Group("/export", exportLimit)
		{
			export.GET("/bars.png", dashboardHandler.ExportBarsPNG)
			export.GET("/scatter.png", dashboardHandler.ExportScatterPNG)
		}

		// Protected routes
		admin := v1.Group("/admin", middleware.JWTAuth(cfg.JWTSecret), middleware.NoCache())
		{
			admin.POST("/reload", exportLimit, adminHandler.Reload)
			admin.GET("/jobs", adminHandler.ListJobs)
			admin.GET("/jobs/:id", adminHandler.GetJob)
		}
	}

	return router
}
