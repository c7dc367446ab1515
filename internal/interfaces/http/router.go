package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/servis-automat/servis/internal/infrastructure/ratelimit"
	"github.com/servis-automat/servis/internal/interfaces/http/middleware"
	"github.com/servis-automat/servis/internal/interfaces/http/routes"
	"github.com/servis-automat/servis/internal/shared/utils"
	"github.com/servis-automat/servis/internal/shared/version"
)

const healthCheckTimeout = 2 * time.Second

// SetupRoutes registers the global middleware chain and every route group.
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.AccessLogger(c.log))
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.SecurityHeaders())

	c.engine.GET("/health", c.healthCheck)
	c.engine.Static(c.blobs.PublicPath(), c.blobs.Root())

	routes.SetupAuthRoutes(c.engine, &routes.AuthRouteConfig{
		AuthHandler:    c.hdlrs.authHandler,
		AuthMiddleware: c.authMiddleware,
		LoginLimit:     c.loginLimit(),
	})

	routes.SetupTicketRoutes(c.engine, &routes.TicketRouteConfig{
		TicketHandler:  c.hdlrs.ticketHandler,
		AuthMiddleware: c.authMiddleware,
	})

	routes.SetupClubRoutes(c.engine, &routes.ClubRouteConfig{
		ClubHandler:    c.hdlrs.clubHandler,
		AuthMiddleware: c.authMiddleware,
	})

	routes.SetupReportRoutes(c.engine, &routes.ReportRouteConfig{
		DashboardHandler: c.hdlrs.dashboardHandler,
		ReportHandler:    c.hdlrs.reportHandler,
		AuthMiddleware:   c.authMiddleware,
	})

	routes.SetupUserRoutes(c.engine, &routes.UserRouteConfig{
		UserHandler:    c.hdlrs.userHandler,
		AuthMiddleware: c.authMiddleware,
	})
}

func (c *Container) loginLimit() gin.HandlerFunc {
	limit := c.cfg.Auth.LoginLimit
	window := ratelimit.Window{}
	if limit.Enabled {
		window = ratelimit.Window{
			Limit:    limit.MaxAttempts,
			Duration: time.Duration(limit.WindowSeconds) * time.Second,
		}
	}
	return middleware.RateLimit(c.loginLimiter, "login", window, c.log)
}

func (c *Container) healthCheck(ctx *gin.Context) {
	status := gin.H{
		"status":  "ok",
		"version": version.Version,
	}

	sqlDB, err := c.db.DB()
	if err == nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthCheckTimeout)
		defer cancel()
		err = sqlDB.PingContext(pingCtx)
	}
	if err != nil {
		c.log.Warnw("health check failed", "error", err)
		status["status"] = "degraded"
		status["database"] = "unreachable"
		ctx.JSON(http.StatusServiceUnavailable, status)
		return
	}

	utils.SuccessResponse(ctx, http.StatusOK, "", status)
}
