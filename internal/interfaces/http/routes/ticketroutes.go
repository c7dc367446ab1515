package routes

import (
	"github.com/gin-gonic/gin"

	tickethandlers "github.com/servis-automat/servis/internal/interfaces/http/handlers/ticket"
	"github.com/servis-automat/servis/internal/interfaces/http/middleware"
)

type TicketRouteConfig struct {
	TicketHandler  *tickethandlers.TicketHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupTicketRoutes configures ticket routes. Role checks happen in the use
// cases since they depend on the ticket's club and assignee.
func SetupTicketRoutes(engine *gin.Engine, config *TicketRouteConfig) {
	tickets := engine.Group("/tickets")
	tickets.Use(config.AuthMiddleware.RequireAuth())
	{
		// Collection operations (no ID parameter)
		tickets.POST("", config.TicketHandler.CreateTicket)
		tickets.GET("", config.TicketHandler.ListTickets)

		// Action endpoints
		tickets.PATCH("/:id/status", config.TicketHandler.ChangeStatus)
		tickets.POST("/:id/assign", config.TicketHandler.AssignTicket)
		tickets.POST("/:id/comments", config.TicketHandler.AddComment)
		tickets.GET("/:id/history", config.TicketHandler.ListHistory)

		tickets.GET("/:id", config.TicketHandler.GetTicket)
	}
}
