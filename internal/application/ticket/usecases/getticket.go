package usecases

import (
	"context"

	"github.com/servis-automat/servis/internal/application/ticket/dto"
	"github.com/servis-automat/servis/internal/domain/permission"
	"github.com/servis-automat/servis/internal/domain/ticket"
	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/errors"
	"github.com/servis-automat/servis/internal/shared/logger"
)

type GetTicketQuery struct {
	Identity authorization.Identity
	TicketID uint
}

type GetTicketUseCase struct {
	ticketRepo  ticket.TicketRepository
	historyRepo ticket.HistoryRepository
	policy      permission.Policy
	enricher    *Enricher
	logger      logger.Interface
}

func NewGetTicketUseCase(
	ticketRepo ticket.TicketRepository,
	historyRepo ticket.HistoryRepository,
	policy permission.Policy,
	enricher *Enricher,
	logger logger.Interface,
) *GetTicketUseCase {
	return &GetTicketUseCase{
		ticketRepo:  ticketRepo,
		historyRepo: historyRepo,
		policy:      policy,
		enricher:    enricher,
		logger:      logger,
	}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDetailDTO, error) {
	uc.logger.Infow("executing get ticket use case", "ticket_id", query.TicketID, "user_id", query.Identity.SubjectID)

	t, err := loadTicket(ctx, uc.ticketRepo, query.TicketID)
	if err != nil {
		return nil, err
	}

	if !uc.policy.CanPerform(query.Identity, permission.ActionViewTicket, permission.TicketResource(t)) {
		uc.logger.Warnw("ticket view denied", "ticket_id", t.ID(), "user_id", query.Identity.SubjectID)
		return nil, errors.NewForbiddenError("not allowed to view this ticket")
	}

	ticketDTO, err := uc.enricher.EnrichOne(ctx, t)
	if err != nil {
		uc.logger.Errorw("failed to enrich ticket", "ticket_id", t.ID(), "error", err)
		return nil, errors.FromStoreError(err, "failed to load ticket")
	}

	entries, err := uc.historyRepo.ListByTicket(ctx, t.ID())
	if err != nil {
		uc.logger.Errorw("failed to load ticket history", "ticket_id", t.ID(), "error", err)
		return nil, errors.FromStoreError(err, "failed to load ticket history")
	}
	history, err := uc.enricher.EnrichHistory(ctx, entries)
	if err != nil {
		return nil, errors.FromStoreError(err, "failed to load ticket history")
	}

	return &dto.TicketDetailDTO{TicketDTO: *ticketDTO, History: history}, nil
}
