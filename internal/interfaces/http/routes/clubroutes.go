package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/servis-automat/servis/internal/interfaces/http/handlers"
	"github.com/servis-automat/servis/internal/interfaces/http/middleware"
)

// ClubRouteConfig holds dependencies for club and machine routes.
type ClubRouteConfig struct {
	ClubHandler    *handlers.ClubHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func SetupClubRoutes(engine *gin.Engine, cfg *ClubRouteConfig) {
	clubs := engine.Group("/clubs")
	clubs.Use(cfg.AuthMiddleware.RequireAuth())
	{
		clubs.GET("", cfg.ClubHandler.ListClubs)
		clubs.GET("/:id/machines", cfg.ClubHandler.ListMachines)
	}

	machines := engine.Group("/machines")
	machines.Use(cfg.AuthMiddleware.RequireAuth())
	{
		machines.GET("/:id/label", cfg.ClubHandler.MachineLabel)
	}
}
