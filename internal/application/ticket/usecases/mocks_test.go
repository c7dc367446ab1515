package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/servis-automat/servis/internal/domain/club"
	"github.com/servis-automat/servis/internal/domain/shared/events"
	"github.com/servis-automat/servis/internal/domain/ticket"
	vo "github.com/servis-automat/servis/internal/domain/ticket/valueobjects"
	"github.com/servis-automat/servis/internal/domain/user"
	"github.com/servis-automat/servis/internal/infrastructure/permission"
	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/logger"
)

type mockTicketRepository struct {
	GetByIDFunc           func(ctx context.Context, id uint) (*ticket.Ticket, error)
	CreateFunc            func(ctx context.Context, t *ticket.Ticket) error
	UpdateStatusFunc      func(ctx context.Context, t *ticket.Ticket, expected vo.TicketStatus) error
	UpdateAssigneeFunc    func(ctx context.Context, t *ticket.Ticket) error
	UpdateCommentsFunc    func(ctx context.Context, t *ticket.Ticket, previous string) error
	ListFunc              func(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error)
	CountByStatusFunc     func(ctx context.Context, filter ticket.TicketFilter) ([]ticket.StatusCount, error)
	CountByCreatorFunc    func(ctx context.Context, userID uint) (int64, error)
	CountByTechnicianFunc func(ctx context.Context, userID uint) (int64, error)
}

func (m *mockTicketRepository) GetByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockTicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	return t.SetID(1)
}

func (m *mockTicketRepository) UpdateStatus(ctx context.Context, t *ticket.Ticket, expected vo.TicketStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, t, expected)
	}
	return nil
}

func (m *mockTicketRepository) UpdateAssignee(ctx context.Context, t *ticket.Ticket) error {
	if m.UpdateAssigneeFunc != nil {
		return m.UpdateAssigneeFunc(ctx, t)
	}
	return nil
}

func (m *mockTicketRepository) UpdateComments(ctx context.Context, t *ticket.Ticket, previous string) error {
	if m.UpdateCommentsFunc != nil {
		return m.UpdateCommentsFunc(ctx, t, previous)
	}
	return nil
}

func (m *mockTicketRepository) List(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockTicketRepository) CountByStatus(ctx context.Context, filter ticket.TicketFilter) ([]ticket.StatusCount, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx, filter)
	}
	return nil, nil
}

func (m *mockTicketRepository) CountByCreator(ctx context.Context, userID uint) (int64, error) {
	if m.CountByCreatorFunc != nil {
		return m.CountByCreatorFunc(ctx, userID)
	}
	return 0, nil
}

func (m *mockTicketRepository) CountByTechnician(ctx context.Context, userID uint) (int64, error) {
	if m.CountByTechnicianFunc != nil {
		return m.CountByTechnicianFunc(ctx, userID)
	}
	return 0, nil
}

type mockHistoryRepository struct {
	AppendFunc       func(ctx context.Context, entry *ticket.StatusHistoryEntry) error
	ListByTicketFunc func(ctx context.Context, ticketID uint) ([]*ticket.StatusHistoryEntry, error)

	appended []*ticket.StatusHistoryEntry
}

func (m *mockHistoryRepository) Append(ctx context.Context, entry *ticket.StatusHistoryEntry) error {
	if m.AppendFunc != nil {
		if err := m.AppendFunc(ctx, entry); err != nil {
			return err
		}
	}
	m.appended = append(m.appended, entry)
	return nil
}

func (m *mockHistoryRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.StatusHistoryEntry, error) {
	if m.ListByTicketFunc != nil {
		return m.ListByTicketFunc(ctx, ticketID)
	}
	return nil, nil
}

type mockAttachmentRepository struct {
	CreateFunc          func(ctx context.Context, a *ticket.Attachment) error
	ListByTicketIDsFunc func(ctx context.Context, ticketIDs []uint) ([]*ticket.Attachment, error)

	created []*ticket.Attachment
}

func (m *mockAttachmentRepository) Create(ctx context.Context, a *ticket.Attachment) error {
	if m.CreateFunc != nil {
		if err := m.CreateFunc(ctx, a); err != nil {
			return err
		}
	}
	m.created = append(m.created, a)
	return nil
}

func (m *mockAttachmentRepository) ListByTicketIDs(ctx context.Context, ticketIDs []uint) ([]*ticket.Attachment, error) {
	if m.ListByTicketIDsFunc != nil {
		return m.ListByTicketIDsFunc(ctx, ticketIDs)
	}
	return nil, nil
}

type mockClubRepository struct {
	GetClubFunc          func(ctx context.Context, id uint) (*club.Club, error)
	GetClubsByIDsFunc    func(ctx context.Context, ids []uint) ([]*club.Club, error)
	ListClubsFunc        func(ctx context.Context) ([]*club.Club, error)
	GetMachineFunc       func(ctx context.Context, id uint) (*club.Machine, error)
	GetMachinesByIDsFunc func(ctx context.Context, ids []uint) ([]*club.Machine, error)
	ListMachinesFunc     func(ctx context.Context, clubID uint) ([]*club.Machine, error)
}

func (m *mockClubRepository) GetClub(ctx context.Context, id uint) (*club.Club, error) {
	if m.GetClubFunc != nil {
		return m.GetClubFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockClubRepository) GetClubsByIDs(ctx context.Context, ids []uint) ([]*club.Club, error) {
	if m.GetClubsByIDsFunc != nil {
		return m.GetClubsByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *mockClubRepository) ListClubs(ctx context.Context) ([]*club.Club, error) {
	if m.ListClubsFunc != nil {
		return m.ListClubsFunc(ctx)
	}
	return nil, nil
}

func (m *mockClubRepository) CreateClub(ctx context.Context, c *club.Club) error {
	return nil
}

func (m *mockClubRepository) GetMachine(ctx context.Context, id uint) (*club.Machine, error) {
	if m.GetMachineFunc != nil {
		return m.GetMachineFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockClubRepository) GetMachinesByIDs(ctx context.Context, ids []uint) ([]*club.Machine, error) {
	if m.GetMachinesByIDsFunc != nil {
		return m.GetMachinesByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *mockClubRepository) ListMachines(ctx context.Context, clubID uint) ([]*club.Machine, error) {
	if m.ListMachinesFunc != nil {
		return m.ListMachinesFunc(ctx, clubID)
	}
	return nil, nil
}

func (m *mockClubRepository) CreateMachine(ctx context.Context, machine *club.Machine) error {
	return nil
}

type mockUserRepository struct {
	GetByIDFunc  func(ctx context.Context, id uint) (*user.User, error)
	GetByIDsFunc func(ctx context.Context, ids []uint) ([]*user.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, u *user.User) error { return nil }

func (m *mockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepository) GetByIDs(ctx context.Context, ids []uint) ([]*user.User, error) {
	if m.GetByIDsFunc != nil {
		return m.GetByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, nil
}

func (m *mockUserRepository) Update(ctx context.Context, u *user.User) error { return nil }

func (m *mockUserRepository) Delete(ctx context.Context, id uint) error { return nil }

func (m *mockUserRepository) List(ctx context.Context, filter user.ListFilter) ([]*user.User, int64, error) {
	return nil, 0, nil
}

func (m *mockUserRepository) ListByRole(ctx context.Context, role authorization.UserRole) ([]*user.User, error) {
	return nil, nil
}

type mockNumberGenerator struct {
	GenerateFunc func(ctx context.Context, at time.Time) (string, error)
}

func (m *mockNumberGenerator) Generate(ctx context.Context, at time.Time) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, at)
	}
	return ticket.FormatRequestNumber(at, 1), nil
}

type mockTxManager struct {
	calls int
}

func (m *mockTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type mockBlobStore struct {
	PutFunc func(ctx context.Context, key string, data []byte, mimeType string) (string, error)

	keys []string
}

func (m *mockBlobStore) Put(ctx context.Context, key string, data []byte, mimeType string) (string, error) {
	if m.PutFunc != nil {
		if _, err := m.PutFunc(ctx, key, data, mimeType); err != nil {
			return "", err
		}
	}
	m.keys = append(m.keys, key)
	return "/uploads/" + key, nil
}

type mockPublisher struct {
	PublishFunc func(event events.DomainEvent) error

	published []events.DomainEvent
}

func (m *mockPublisher) Publish(event events.DomainEvent) error {
	if m.PublishFunc != nil {
		if err := m.PublishFunc(event); err != nil {
			return err
		}
	}
	m.published = append(m.published, event)
	return nil
}

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

var (
	fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	asAdmin           = authorization.Identity{SubjectID: 1, Email: "ivo@servis.hr", Role: authorization.RoleAdmin}
	asTechnician      = authorization.Identity{SubjectID: 5, Email: "tin@servis.hr", Role: authorization.RoleTechnician}
	asOtherTechnician = authorization.Identity{SubjectID: 6, Email: "marko@servis.hr", Role: authorization.RoleTechnician}
	asClub            = authorization.Identity{SubjectID: 9, Email: "centar@servis.hr", Role: authorization.RoleClub, ClubID: uintPtr(3)}
	asOtherClub       = authorization.Identity{SubjectID: 10, Email: "jug@servis.hr", Role: authorization.RoleClub, ClubID: uintPtr(4)}
)

func uintPtr(v uint) *uint { return &v }

func newPolicy(t *testing.T) *permission.Enforcer {
	t.Helper()
	p, err := permission.NewEnforcer(nopLogger{})
	require.NoError(t, err)
	return p
}

func newEnricher() *Enricher {
	return NewEnricher(&mockClubRepository{}, &mockUserRepository{}, &mockAttachmentRepository{})
}

// storedTicket rebuilds a persisted ticket of club 3 assigned to technician 5.
func storedTicket(t *testing.T, status vo.TicketStatus) *ticket.Ticket {
	t.Helper()
	var closedAt *time.Time
	if status.IsClosed() {
		at := fixedNow.Add(-time.Hour)
		closedAt = &at
	}
	tk, err := ticket.ReconstructTicket(
		42,
		"SA-20250313-0007",
		3, 17,
		"Bill acceptor jams",
		"Rejects every note",
		status,
		"Ana", "EGT", "Burning Hot",
		vo.CanPlayNo,
		uintPtr(5),
		9,
		"",
		fixedNow.Add(-24*time.Hour),
		fixedNow.Add(-24*time.Hour),
		closedAt,
	)
	require.NoError(t, err)
	return tk
}

func newUser(t *testing.T, id uint, name string, role authorization.UserRole, clubID *uint) *user.User {
	t.Helper()
	return user.ReconstructUser(id, name, name+"@servis.hr", "hash", role, clubID, fixedNow, fixedNow)
}
