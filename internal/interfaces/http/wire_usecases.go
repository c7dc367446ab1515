package http

import (
	clubUsecases "github.com/servis-automat/servis/internal/application/club/usecases"
	reportUsecases "github.com/servis-automat/servis/internal/application/report/usecases"
	ticketUsecases "github.com/servis-automat/servis/internal/application/ticket/usecases"
	"github.com/servis-automat/servis/internal/application/user/usecases"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// Auth / User
	loginUC       *usecases.LoginUseCase
	refreshUC     *usecases.RefreshTokenUseCase
	currentUserUC *usecases.GetCurrentUserUseCase
	createUserUC  *usecases.CreateUserUseCase
	updateUserUC  *usecases.UpdateUserUseCase
	deleteUserUC  *usecases.DeleteUserUseCase
	listUsersUC   *usecases.ListUsersUseCase

	// Ticket
	createTicketUC   *ticketUsecases.CreateTicketUseCase
	changeStatusUC   *ticketUsecases.ChangeStatusUseCase
	assignTicketUC   *ticketUsecases.AssignTicketUseCase
	addCommentUC     *ticketUsecases.AddCommentUseCase
	getTicketUC      *ticketUsecases.GetTicketUseCase
	listTicketsUC    *ticketUsecases.ListTicketsUseCase
	listHistoryUC    *ticketUsecases.ListHistoryUseCase
	dashboardStatsUC *ticketUsecases.DashboardStatsUseCase

	// Club
	listClubsUC    *clubUsecases.ListClubsUseCase
	listMachinesUC *clubUsecases.ListMachinesUseCase
	machineLabelUC *clubUsecases.MachineLabelUseCase

	// Report
	weeklyReportUC     *reportUsecases.WeeklyReportUseCase
	sendWeeklyReportUC *reportUsecases.SendWeeklyReportUseCase
}

func (c *Container) initUseCases() {
	r := c.repos
	policy := c.enforcer

	enricher := ticketUsecases.NewEnricher(r.clubRepo, r.userRepo, r.attachmentRepo)
	weekly := reportUsecases.NewWeeklyReportUseCase(r.ticketRepo, r.clubRepo, r.userRepo, policy, c.log)

	c.ucs = &allUseCases{
		loginUC:       usecases.NewLoginUseCase(r.userRepo, c.hasher, c.jwtSvc, c.log),
		refreshUC:     usecases.NewRefreshTokenUseCase(r.userRepo, c.jwtSvc, c.log),
		currentUserUC: usecases.NewGetCurrentUserUseCase(r.userRepo, r.clubRepo, c.log),
		createUserUC:  usecases.NewCreateUserUseCase(r.userRepo, r.clubRepo, c.hasher, policy, c.log),
		updateUserUC:  usecases.NewUpdateUserUseCase(r.userRepo, r.clubRepo, r.ticketRepo, c.hasher, policy, c.log),
		deleteUserUC:  usecases.NewDeleteUserUseCase(r.userRepo, r.ticketRepo, policy, c.log),
		listUsersUC:   usecases.NewListUsersUseCase(r.userRepo, r.clubRepo, policy, c.log),

		createTicketUC: ticketUsecases.NewCreateTicketUseCase(
			r.ticketRepo, r.historyRepo, r.attachmentRepo, r.clubRepo, r.userRepo,
			r.numbers, policy, r.txMgr, c.blobs, c.dispatcher, enricher,
			blobUploadTimeout, c.log,
		),
		changeStatusUC: ticketUsecases.NewChangeStatusUseCase(
			r.ticketRepo, r.historyRepo, policy, r.txMgr, c.dispatcher, enricher, c.log,
		),
		assignTicketUC:   ticketUsecases.NewAssignTicketUseCase(r.ticketRepo, r.userRepo, policy, c.dispatcher, enricher, c.log),
		addCommentUC:     ticketUsecases.NewAddCommentUseCase(r.ticketRepo, r.userRepo, policy, c.log),
		getTicketUC:      ticketUsecases.NewGetTicketUseCase(r.ticketRepo, r.historyRepo, policy, enricher, c.log),
		listTicketsUC:    ticketUsecases.NewListTicketsUseCase(r.ticketRepo, policy, enricher, c.log),
		listHistoryUC:    ticketUsecases.NewListHistoryUseCase(r.ticketRepo, r.historyRepo, policy, enricher, c.log),
		dashboardStatsUC: ticketUsecases.NewDashboardStatsUseCase(r.ticketRepo, r.clubRepo, policy, c.log),

		listClubsUC:    clubUsecases.NewListClubsUseCase(r.clubRepo, policy, c.log),
		listMachinesUC: clubUsecases.NewListMachinesUseCase(r.clubRepo, policy, c.log),
		machineLabelUC: clubUsecases.NewMachineLabelUseCase(r.clubRepo, c.labels, policy, c.log),

		weeklyReportUC:     weekly,
		sendWeeklyReportUC: reportUsecases.NewSendWeeklyReportUseCase(weekly, r.userRepo, c.renderer, c.mailer, c.log),
	}
}

// CreateUser is exposed for the create-admin command.
func (c *Container) CreateUser() *usecases.CreateUserUseCase {
	return c.ucs.createUserUC
}

// WeeklyReport is exposed for the report command.
func (c *Container) WeeklyReport() *reportUsecases.WeeklyReportUseCase {
	return c.ucs.weeklyReportUC
}

// SendWeeklyReport is exposed for the report command.
func (c *Container) SendWeeklyReport() *reportUsecases.SendWeeklyReportUseCase {
	return c.ucs.sendWeeklyReportUC
}
