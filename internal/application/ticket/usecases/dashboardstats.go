package usecases

import (
	"context"
	"sort"

	"github.com/servis-automat/servis/internal/application/ticket/dto"
	"github.com/servis-automat/servis/internal/domain/club"
	"github.com/servis-automat/servis/internal/domain/permission"
	"github.com/servis-automat/servis/internal/domain/ticket"
	vo "github.com/servis-automat/servis/internal/domain/ticket/valueobjects"
	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/errors"
	"github.com/servis-automat/servis/internal/shared/logger"
)

type DashboardStatsQuery struct {
	Identity authorization.Identity
}

type DashboardStatsUseCase struct {
	ticketRepo ticket.TicketRepository
	clubRepo   club.Repository
	policy     permission.Policy
	logger     logger.Interface
}

func NewDashboardStatsUseCase(
	ticketRepo ticket.TicketRepository,
	clubRepo club.Repository,
	policy permission.Policy,
	logger logger.Interface,
) *DashboardStatsUseCase {
	return &DashboardStatsUseCase{
		ticketRepo: ticketRepo,
		clubRepo:   clubRepo,
		policy:     policy,
		logger:     logger,
	}
}

func (uc *DashboardStatsUseCase) Execute(ctx context.Context, query DashboardStatsQuery) (*dto.DashboardStatsDTO, error) {
	uc.logger.Infow("executing dashboard stats use case", "user_id", query.Identity.SubjectID, "role", query.Identity.Role)

	if !uc.policy.CanPerform(query.Identity, permission.ActionListTickets, permission.Resource{Kind: permission.KindTicket}) {
		return nil, errors.NewForbiddenError("not allowed to view ticket statistics")
	}

	counts, err := uc.ticketRepo.CountByStatus(ctx, ticket.TicketFilter{Scope: ticket.ScopeFor(query.Identity)})
	if err != nil {
		uc.logger.Errorw("failed to count tickets", "error", err)
		return nil, errors.FromStoreError(err, "failed to load ticket statistics")
	}

	stats := &dto.DashboardStatsDTO{ByStatus: emptyStatusCounts()}
	perClub := make(map[uint]*dto.ClubStatsDTO)
	for _, c := range counts {
		stats.Total += c.Count
		stats.ByStatus[c.Status.String()] += c.Count

		cs, ok := perClub[c.ClubID]
		if !ok {
			cs = &dto.ClubStatsDTO{ClubID: c.ClubID, ByStatus: emptyStatusCounts()}
			perClub[c.ClubID] = cs
		}
		cs.Total += c.Count
		cs.ByStatus[c.Status.String()] += c.Count
	}

	if !query.Identity.Role.IsAdmin() {
		return stats, nil
	}

	byClub, err := uc.clubBreakdown(ctx, perClub)
	if err != nil {
		return nil, err
	}
	stats.ByClub = byClub
	return stats, nil
}

func (uc *DashboardStatsUseCase) clubBreakdown(ctx context.Context, perClub map[uint]*dto.ClubStatsDTO) ([]dto.ClubStatsDTO, error) {
	out := make([]dto.ClubStatsDTO, 0, len(perClub))
	if len(perClub) == 0 {
		return out, nil
	}

	ids := make([]uint, 0, len(perClub))
	for id := range perClub {
		ids = append(ids, id)
	}
	clubs, err := uc.clubRepo.GetClubsByIDs(ctx, ids)
	if err != nil {
		uc.logger.Errorw("failed to load clubs", "error", err)
		return nil, errors.FromStoreError(err, "failed to load ticket statistics")
	}
	for _, c := range clubs {
		if cs, ok := perClub[c.ID]; ok {
			cs.ClubName = c.Name
		}
	}

	for _, cs := range perClub {
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].ClubID < out[j].ClubID
	})
	return out, nil
}

func emptyStatusCounts() map[string]int64 {
	m := make(map[string]int64, len(vo.AllStatuses))
	for _, s := range vo.AllStatuses {
		m[s.String()] = 0
	}
	return m
}
