package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/servis-automat/servis/internal/interfaces/http/handlers"
	"github.com/servis-automat/servis/internal/interfaces/http/middleware"
	"github.com/servis-automat/servis/internal/shared/authorization"
)

// ReportRouteConfig holds dependencies for dashboard and report routes.
type ReportRouteConfig struct {
	DashboardHandler *handlers.DashboardHandler
	ReportHandler    *handlers.ReportHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

func SetupReportRoutes(engine *gin.Engine, cfg *ReportRouteConfig) {
	engine.GET("/dashboard/stats", cfg.AuthMiddleware.RequireAuth(), cfg.DashboardHandler.GetStats)

	reports := engine.Group("/reports")
	reports.Use(cfg.AuthMiddleware.RequireAuth(), authorization.RequireAdmin())
	{
		reports.GET("/weekly", cfg.ReportHandler.WeeklyReport)
		reports.POST("/weekly/send", cfg.ReportHandler.SendWeeklyReport)
	}
}
