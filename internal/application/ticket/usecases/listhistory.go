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

type ListHistoryQuery struct {
	Identity authorization.Identity
	TicketID uint
}

type ListHistoryUseCase struct {
	ticketRepo  ticket.TicketRepository
	historyRepo ticket.HistoryRepository
	policy      permission.Policy
	enricher    *Enricher
	logger      logger.Interface
}

func NewListHistoryUseCase(
	ticketRepo ticket.TicketRepository,
	historyRepo ticket.HistoryRepository,
	policy permission.Policy,
	enricher *Enricher,
	logger logger.Interface,
) *ListHistoryUseCase {
	return &ListHistoryUseCase{
		ticketRepo:  ticketRepo,
		historyRepo: historyRepo,
		policy:      policy,
		enricher:    enricher,
		logger:      logger,
	}
}

func (uc *ListHistoryUseCase) Execute(ctx context.Context, query ListHistoryQuery) ([]*dto.HistoryEntryDTO, error) {
	t, err := loadTicket(ctx, uc.ticketRepo, query.TicketID)
	if err != nil {
		return nil, err
	}

	if !uc.policy.CanPerform(query.Identity, permission.ActionViewTicket, permission.TicketResource(t)) {
		return nil, errors.NewForbiddenError("not allowed to view this ticket")
	}

	entries, err := uc.historyRepo.ListByTicket(ctx, t.ID())
	if err != nil {
		uc.logger.Errorw("failed to list ticket history", "ticket_id", t.ID(), "error", err)
		return nil, errors.FromStoreError(err, "failed to list ticket history")
	}

	out, err := uc.enricher.EnrichHistory(ctx, entries)
	if err != nil {
		return nil, errors.FromStoreError(err, "failed to list ticket history")
	}
	return out, nil
}
