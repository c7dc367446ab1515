package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servis-automat/servis/internal/domain/club"
	"github.com/servis-automat/servis/internal/domain/ticket"
	vo "github.com/servis-automat/servis/internal/domain/ticket/valueobjects"
	"github.com/servis-automat/servis/internal/domain/user"
	"github.com/servis-automat/servis/internal/infrastructure/permission"
	"github.com/servis-automat/servis/internal/shared/authorization"
	apperrors "github.com/servis-automat/servis/internal/shared/errors"
	"github.com/servis-automat/servis/internal/shared/logger"
	"github.com/servis-automat/servis/internal/shared/services/markdown"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)            {}
func (nopLogger) Info(string, ...any)             {}
func (nopLogger) Warn(string, ...any)             {}
func (nopLogger) Error(string, ...any)            {}
func (nopLogger) Fatal(string, ...any)            {}
func (n nopLogger) With(...any) logger.Interface  { return n }
func (n nopLogger) Named(string) logger.Interface { return n }
func (nopLogger) Debugw(string, ...interface{})   {}
func (nopLogger) Infow(string, ...interface{})    {}
func (nopLogger) Warnw(string, ...interface{})    {}
func (nopLogger) Errorw(string, ...interface{})   {}
func (nopLogger) Fatalw(string, ...interface{})   {}

// pagedTicketRepository serves stored tickets through List in pages and
// records every filter it received.
type pagedTicketRepository struct {
	ticket.TicketRepository
	tickets []*ticket.Ticket
	filters []ticket.TicketFilter
	err     error
}

func (r *pagedTicketRepository) List(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	r.filters = append(r.filters, filter)
	if r.err != nil {
		return nil, 0, r.err
	}
	var matched []*ticket.Ticket
	for _, t := range r.tickets {
		if filter.Matches(t) {
			matched = append(matched, t)
		}
	}
	from := (filter.Page - 1) * filter.PageSize
	if from > len(matched) {
		from = len(matched)
	}
	to := from + filter.PageSize
	if to > len(matched) {
		to = len(matched)
	}
	return matched[from:to], int64(len(matched)), nil
}

type stubClubRepository struct {
	club.Repository
}

func (stubClubRepository) GetClubsByIDs(ctx context.Context, ids []uint) ([]*club.Club, error) {
	names := map[uint]string{3: "Centar", 4: "Jug"}
	var out []*club.Club
	for _, id := range ids {
		if n, ok := names[id]; ok {
			out = append(out, &club.Club{ID: id, Name: n})
		}
	}
	return out, nil
}

type stubUserRepository struct {
	user.Repository
	admins []*user.User
}

func (stubUserRepository) GetByIDs(ctx context.Context, ids []uint) ([]*user.User, error) {
	var out []*user.User
	for _, id := range ids {
		out = append(out, user.ReconstructUser(id, fmt.Sprintf("Tehničar %d", id), "t@servis.hr", "", authorization.RoleTechnician, nil, fixedNow, fixedNow))
	}
	return out, nil
}

func (s stubUserRepository) ListByRole(ctx context.Context, role authorization.UserRole) ([]*user.User, error) {
	return s.admins, nil
}

func uintPtr(v uint) *uint { return &v }

func storedTicket(t *testing.T, id, clubID uint, status vo.TicketStatus, tech *uint, createdAgo, closedAgo time.Duration) *ticket.Ticket {
	t.Helper()
	var closedAt *time.Time
	if status.IsClosed() {
		at := fixedNow.Add(-closedAgo)
		closedAt = &at
	}
	created := fixedNow.Add(-createdAgo)
	tk, err := ticket.ReconstructTicket(
		id, fmt.Sprintf("SA-20250310-%04d", id), clubID, 17,
		"Title | with pipe", "", status,
		"Ana", "EGT", "Burning Hot", vo.CanPlayNo,
		tech, 9, "", created, created, closedAt,
	)
	require.NoError(t, err)
	return tk
}

func newReportUseCase(t *testing.T, repo *pagedTicketRepository) *WeeklyReportUseCase {
	t.Helper()
	policy, err := permission.NewEnforcer(nopLogger{})
	require.NoError(t, err)
	uc := NewWeeklyReportUseCase(repo, stubClubRepository{}, stubUserRepository{}, policy, nopLogger{})
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func TestWeeklyReportUseCase_Execute(t *testing.T) {
	repo := &pagedTicketRepository{tickets: []*ticket.Ticket{
		storedTicket(t, 1, 3, vo.StatusClosed, uintPtr(5), 48*time.Hour, 24*time.Hour),
		storedTicket(t, 2, 3, vo.StatusClosed, uintPtr(5), 72*time.Hour, 70*time.Hour),
		storedTicket(t, 3, 4, vo.StatusInProgress, uintPtr(6), 24*time.Hour, 0),
		storedTicket(t, 4, 3, vo.StatusNew, nil, time.Hour, 0),
		// outside the window
		storedTicket(t, 5, 4, vo.StatusNew, nil, 8*24*time.Hour, 0),
	}}
	uc := newReportUseCase(t, repo)

	got, err := uc.Execute(context.Background(), authorization.SystemIdentity())
	require.NoError(t, err)

	assert.Equal(t, int64(4), got.Total)
	assert.Equal(t, int64(4), got.CreatedThisWeek)
	assert.Equal(t, int64(2), got.ClosedThisWeek)
	// (24h + 2h) / 2
	assert.InDelta(t, 13.0, got.AverageResolutionHours, 0.001)
	assert.Equal(t, int64(2), got.ByStatus["closed"])
	assert.Equal(t, int64(0), got.ByStatus["waiting_tax"])

	require.Len(t, got.ByClub, 2)
	assert.Equal(t, "Centar", got.ByClub[0].Name)
	assert.Equal(t, int64(3), got.ByClub[0].Count)

	require.Len(t, got.ByTechnician, 2)
	assert.Equal(t, "Tehničar 5", got.ByTechnician[0].Name)
	assert.Equal(t, int64(2), got.ByTechnician[0].Count)

	require.NotEmpty(t, repo.filters)
	assert.Equal(t, ticket.ScopeAll, repo.filters[0].Scope.Kind())
	assert.Equal(t, fixedNow.Add(-7*24*time.Hour), *repo.filters[0].CreatedFrom)
}

func TestWeeklyReportUseCase_Execute_Pages(t *testing.T) {
	var tickets []*ticket.Ticket
	for i := uint(1); i <= 230; i++ {
		tickets = append(tickets, storedTicket(t, i, 3, vo.StatusNew, nil, time.Hour, 0))
	}
	repo := &pagedTicketRepository{tickets: tickets}

	got, err := newReportUseCase(t, repo).Execute(context.Background(), authorization.SystemIdentity())
	require.NoError(t, err)
	assert.Equal(t, int64(230), got.Total)
	assert.Len(t, repo.filters, 3)
}

func TestWeeklyReportUseCase_Execute_Rejected(t *testing.T) {
	repo := &pagedTicketRepository{}
	technician := authorization.Identity{SubjectID: 5, Role: authorization.RoleTechnician}

	_, err := newReportUseCase(t, repo).Execute(context.Background(), technician)
	assert.True(t, apperrors.IsForbiddenError(err))
	assert.Empty(t, repo.filters)

	repo.err = context.DeadlineExceeded
	_, err = newReportUseCase(t, repo).Execute(context.Background(), authorization.SystemIdentity())
	assert.True(t, apperrors.IsDependencyTimeoutError(err))
}

type recordingMailer struct {
	to      []string
	subject string
	html    string
	failFor string
}

func (m *recordingMailer) Send(ctx context.Context, to []string, subject, plainBody, htmlBody string) error {
	if len(to) == 1 && to[0] == m.failFor {
		return errors.New("mailbox unavailable")
	}
	m.to = append(m.to, to...)
	m.subject = subject
	m.html = htmlBody
	return nil
}

func TestSendWeeklyReportUseCase_Execute(t *testing.T) {
	repo := &pagedTicketRepository{tickets: []*ticket.Ticket{
		storedTicket(t, 1, 3, vo.StatusClosed, uintPtr(5), 48*time.Hour, 24*time.Hour),
	}}
	builder := newReportUseCase(t, repo)
	users := stubUserRepository{admins: []*user.User{
		user.ReconstructUser(1, "Ivo", "ivo@servis.hr", "", authorization.RoleAdmin, nil, fixedNow, fixedNow),
		user.ReconstructUser(2, "Eva", "eva@servis.hr", "", authorization.RoleAdmin, nil, fixedNow, fixedNow),
	}}
	mailer := &recordingMailer{failFor: "eva@servis.hr"}
	uc := NewSendWeeklyReportUseCase(builder, users, markdown.NewRenderer(), mailer, nopLogger{})

	got, err := uc.Execute(context.Background(), authorization.SystemIdentity())
	require.NoError(t, err)
	assert.Equal(t, 2, got.Recipients)
	assert.Equal(t, 1, got.Sent)
	assert.Equal(t, []string{"eva@servis.hr"}, got.Failed)
	assert.Equal(t, []string{"ivo@servis.hr"}, mailer.to)
	assert.Equal(t, "Weekly report: repair requests (14.03.2025)", mailer.subject)
	assert.Contains(t, mailer.html, "<table>")
	assert.Contains(t, mailer.html, "SA-20250310-0001")
}

func TestRenderWeeklyMarkdown_EscapesCells(t *testing.T) {
	repo := &pagedTicketRepository{tickets: []*ticket.Ticket{
		storedTicket(t, 1, 3, vo.StatusNew, nil, time.Hour, 0),
	}}
	report, err := newReportUseCase(t, repo).Execute(context.Background(), authorization.SystemIdentity())
	require.NoError(t, err)

	md := RenderWeeklyMarkdown(report)
	assert.Contains(t, md, `Title \| with pipe`)
	assert.Contains(t, md, "| Unassigned |")
	assert.True(t, strings.HasPrefix(md, "# Weekly report"))
}
