package usecases

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/servis-automat/servis/internal/application/report/dto"
	"github.com/servis-automat/servis/internal/domain/club"
	"github.com/servis-automat/servis/internal/domain/permission"
	"github.com/servis-automat/servis/internal/domain/ticket"
	vo "github.com/servis-automat/servis/internal/domain/ticket/valueobjects"
	"github.com/servis-automat/servis/internal/domain/user"
	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/biztime"
	"github.com/servis-automat/servis/internal/shared/constants"
	"github.com/servis-automat/servis/internal/shared/errors"
	"github.com/servis-automat/servis/internal/shared/logger"
)

const reportWindow = 7 * 24 * time.Hour

const unknownName = "Unknown"

type WeeklyReportUseCase struct {
	ticketRepo ticket.TicketRepository
	clubRepo   club.Repository
	userRepo   user.Repository
	policy     permission.Policy
	logger     logger.Interface
	now        func() time.Time
}

func NewWeeklyReportUseCase(
	ticketRepo ticket.TicketRepository,
	clubRepo club.Repository,
	userRepo user.Repository,
	policy permission.Policy,
	logger logger.Interface,
) *WeeklyReportUseCase {
	return &WeeklyReportUseCase{
		ticketRepo: ticketRepo,
		clubRepo:   clubRepo,
		userRepo:   userRepo,
		policy:     policy,
		logger:     logger,
		now:        biztime.NowUTC,
	}
}

// Execute summarizes the tickets created during the last seven days.
func (uc *WeeklyReportUseCase) Execute(ctx context.Context, identity authorization.Identity) (*dto.WeeklyReportDTO, error) {
	uc.logger.Infow("executing weekly report use case", "user_id", identity.SubjectID)

	if !uc.policy.CanPerform(identity, permission.ActionViewReports, permission.ReportResource()) {
		return nil, errors.NewForbiddenError("only admins can view reports")
	}

	end := uc.now()
	start := end.Add(-reportWindow)

	tickets, err := uc.collect(ctx, start, end)
	if err != nil {
		uc.logger.Errorw("failed to load tickets for weekly report", "error", err)
		return nil, errors.FromStoreError(err, "failed to build weekly report")
	}

	clubNames, techNames, err := uc.names(ctx, tickets)
	if err != nil {
		uc.logger.Errorw("failed to resolve names for weekly report", "error", err)
		return nil, errors.FromStoreError(err, "failed to build weekly report")
	}

	report := summarize(tickets, start, end, clubNames, techNames)
	uc.logger.Infow("weekly report built", "total", report.Total, "closed", report.ClosedThisWeek)
	return report, nil
}

// collect reads every page of the window, newest first.
func (uc *WeeklyReportUseCase) collect(ctx context.Context, start, end time.Time) ([]*ticket.Ticket, error) {
	filter := ticket.TicketFilter{
		Scope:       ticket.AllTickets(),
		CreatedFrom: &start,
		CreatedTo:   &end,
		Page:        1,
		PageSize:    constants.MaxPageSize,
	}

	var all []*ticket.Ticket
	for {
		page, total, err := uc.ticketRepo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) == 0 || int64(len(all)) >= total {
			return all, nil
		}
		filter.Page++
	}
}

func (uc *WeeklyReportUseCase) names(ctx context.Context, tickets []*ticket.Ticket) (map[uint]string, map[uint]string, error) {
	clubNames := make(map[uint]string)
	techNames := make(map[uint]string)
	if len(tickets) == 0 {
		return clubNames, techNames, nil
	}

	var clubIDs, techIDs []uint
	for _, t := range tickets {
		if _, ok := clubNames[t.ClubID()]; !ok {
			clubNames[t.ClubID()] = unknownName
			clubIDs = append(clubIDs, t.ClubID())
		}
		if id := t.AssignedTechnicianID(); id != nil {
			if _, ok := techNames[*id]; !ok {
				techNames[*id] = unknownName
				techIDs = append(techIDs, *id)
			}
		}
	}

	clubs, err := uc.clubRepo.GetClubsByIDs(ctx, clubIDs)
	if err != nil {
		return nil, nil, err
	}
	for _, c := range clubs {
		clubNames[c.ID] = c.Name
	}

	if len(techIDs) > 0 {
		techs, err := uc.userRepo.GetByIDs(ctx, techIDs)
		if err != nil {
			return nil, nil, err
		}
		for _, u := range techs {
			techNames[u.ID()] = u.Name()
		}
	}
	return clubNames, techNames, nil
}

func summarize(tickets []*ticket.Ticket, start, end time.Time, clubNames, techNames map[uint]string) *dto.WeeklyReportDTO {
	report := &dto.WeeklyReportDTO{
		PeriodStart:  start,
		PeriodEnd:    end,
		Total:        int64(len(tickets)),
		ByStatus:     make(map[string]int64, len(vo.AllStatuses)),
		ByClub:       []dto.NamedCount{},
		ByTechnician: []dto.NamedCount{},
		Tickets:      make([]dto.ReportTicketRow, 0, len(tickets)),
	}
	for _, s := range vo.AllStatuses {
		report.ByStatus[s.String()] = 0
	}

	byClub := make(map[uint]int64)
	byTech := make(map[uint]int64)
	var resolved time.Duration
	var resolvedCount int64

	for _, t := range tickets {
		report.ByStatus[t.Status().String()]++
		byClub[t.ClubID()]++
		if !t.CreatedAt().Before(start) {
			report.CreatedThisWeek++
		}

		row := dto.ReportTicketRow{
			ID:            t.ID(),
			RequestNumber: t.RequestNumber(),
			Title:         t.Title(),
			Club:          clubNames[t.ClubID()],
			Status:        t.Status().String(),
			StatusLabel:   t.Status().Label(),
			EmployeeName:  t.EmployeeName(),
			CreatedAt:     t.CreatedAt(),
		}
		if id := t.AssignedTechnicianID(); id != nil {
			byTech[*id]++
			row.Technician = techNames[*id]
		}
		report.Tickets = append(report.Tickets, row)

		if closedAt := t.ClosedAt(); t.Status().IsClosed() && closedAt != nil {
			if !closedAt.Before(start) {
				report.ClosedThisWeek++
			}
			resolved += closedAt.Sub(t.CreatedAt())
			resolvedCount++
		}
	}

	if resolvedCount > 0 {
		hours := resolved.Hours() / float64(resolvedCount)
		report.AverageResolutionHours = math.Round(hours*10) / 10
	}
	report.ByClub = breakdown(byClub, clubNames)
	report.ByTechnician = breakdown(byTech, techNames)
	return report
}

// breakdown orders rows by count descending, then by name.
func breakdown(counts map[uint]int64, names map[uint]string) []dto.NamedCount {
	rows := make([]dto.NamedCount, 0, len(counts))
	for id, n := range counts {
		rows = append(rows, dto.NamedCount{ID: id, Name: names[id], Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}
