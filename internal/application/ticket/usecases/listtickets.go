package usecases

import (
	"context"

	"github.com/servis-automat/servis/internal/application/ticket/dto"
	"github.com/servis-automat/servis/internal/domain/permission"
	"github.com/servis-automat/servis/internal/domain/ticket"
	vo "github.com/servis-automat/servis/internal/domain/ticket/valueobjects"
	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/errors"
	"github.com/servis-automat/servis/internal/shared/logger"
	"github.com/servis-automat/servis/internal/shared/utils"
)

type ListTicketsQuery struct {
	Identity authorization.Identity
	Status   string
	ClubID   *uint
	Page     int
	PageSize int
}

type ListTicketsResult struct {
	Tickets  []*dto.TicketDTO `json:"tickets"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

type ListTicketsUseCase struct {
	ticketRepo ticket.TicketRepository
	policy     permission.Policy
	enricher   *Enricher
	logger     logger.Interface
}

func NewListTicketsUseCase(
	ticketRepo ticket.TicketRepository,
	policy permission.Policy,
	enricher *Enricher,
	logger logger.Interface,
) *ListTicketsUseCase {
	return &ListTicketsUseCase{
		ticketRepo: ticketRepo,
		policy:     policy,
		enricher:   enricher,
		logger:     logger,
	}
}

func (uc *ListTicketsUseCase) Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error) {
	uc.logger.Infow("executing list tickets use case",
		"user_id", query.Identity.SubjectID,
		"role", query.Identity.Role,
		"status", query.Status,
	)

	if !uc.policy.CanPerform(query.Identity, permission.ActionListTickets, permission.Resource{Kind: permission.KindTicket}) {
		return nil, errors.NewForbiddenError("not allowed to list tickets")
	}

	filter, err := buildFilter(query)
	if err != nil {
		return nil, err
	}

	tickets, total, err := uc.ticketRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list tickets", "error", err)
		return nil, errors.FromStoreError(err, "failed to list tickets")
	}

	items, err := uc.enricher.Enrich(ctx, tickets)
	if err != nil {
		uc.logger.Errorw("failed to enrich tickets", "error", err)
		return nil, errors.FromStoreError(err, "failed to list tickets")
	}

	uc.logger.Infow("tickets listed successfully", "count", len(items), "total", total)

	return &ListTicketsResult{
		Tickets:  items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// buildFilter conjoins the caller's mandatory scope with the requested
// filters. The club filter is honored for admins only.
func buildFilter(query ListTicketsQuery) (ticket.TicketFilter, error) {
	p := utils.ValidatePagination(query.Page, query.PageSize)
	filter := ticket.TicketFilter{
		Scope:    ticket.ScopeFor(query.Identity),
		Page:     p.Page,
		PageSize: p.PageSize,
	}

	if query.Status != "" {
		status, err := vo.NewTicketStatus(query.Status)
		if err != nil {
			return filter, errors.NewValidationError("invalid status filter", err.Error())
		}
		filter.Status = &status
	}

	if query.ClubID != nil && query.Identity.Role.IsAdmin() {
		clubID := *query.ClubID
		filter.ClubID = &clubID
	}

	return filter, nil
}
