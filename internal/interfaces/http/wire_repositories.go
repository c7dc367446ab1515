package http

import (
	"github.com/servis-automat/servis/internal/domain/club"
	"github.com/servis-automat/servis/internal/domain/ticket"
	"github.com/servis-automat/servis/internal/domain/user"
	"github.com/servis-automat/servis/internal/infrastructure/repository"
	"github.com/servis-automat/servis/internal/shared/db"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	userRepo       user.Repository
	clubRepo       club.Repository
	ticketRepo     ticket.TicketRepository
	historyRepo    ticket.HistoryRepository
	attachmentRepo ticket.AttachmentRepository
	numbers        ticket.NumberGenerator
	txMgr          *db.TransactionManager
}

func (c *Container) initRepositories() {
	timeout := c.cfg.Database.QueryTimeout()

	c.repos = &repositories{
		userRepo:       repository.NewUserRepository(c.db, timeout, c.log),
		clubRepo:       repository.NewClubRepository(c.db, timeout),
		ticketRepo:     repository.NewTicketRepository(c.db, timeout),
		historyRepo:    repository.NewHistoryRepository(c.db, timeout),
		attachmentRepo: repository.NewAttachmentRepository(c.db, timeout),
		numbers:        repository.NewRequestNumberGenerator(c.db, timeout),
		txMgr:          db.NewTransactionManager(c.db),
	}
}
