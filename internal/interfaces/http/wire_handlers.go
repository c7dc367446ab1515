package http

import (
	"github.com/servis-automat/servis/internal/interfaces/http/handlers"
	ticketHandlers "github.com/servis-automat/servis/internal/interfaces/http/handlers/ticket"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	authHandler      *handlers.AuthHandler
	userHandler      *handlers.UserHandler
	clubHandler      *handlers.ClubHandler
	dashboardHandler *handlers.DashboardHandler
	reportHandler    *handlers.ReportHandler
	ticketHandler    *ticketHandlers.TicketHandler
}

func (c *Container) initHandlers() {
	u := c.ucs

	c.hdlrs = &allHandlers{
		authHandler:      handlers.NewAuthHandler(u.loginUC, u.refreshUC, u.currentUserUC, c.log),
		userHandler:      handlers.NewUserHandler(u.createUserUC, u.updateUserUC, u.deleteUserUC, u.listUsersUC, c.log),
		clubHandler:      handlers.NewClubHandler(u.listClubsUC, u.listMachinesUC, u.machineLabelUC, c.log),
		dashboardHandler: handlers.NewDashboardHandler(u.dashboardStatsUC, c.log),
		reportHandler:    handlers.NewReportHandler(u.weeklyReportUC, u.sendWeeklyReportUC, c.log),
		ticketHandler: ticketHandlers.NewTicketHandler(
			u.createTicketUC, u.changeStatusUC, u.assignTicketUC, u.addCommentUC,
			u.getTicketUC, u.listTicketsUC, u.listHistoryUC, c.log,
		),
	}
}
