package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/servis-automat/servis/internal/domain/club"
	"github.com/servis-automat/servis/internal/domain/ticket"
	vo "github.com/servis-automat/servis/internal/domain/ticket/valueobjects"
	"github.com/servis-automat/servis/internal/domain/user"
	"github.com/servis-automat/servis/internal/infrastructure/permission"
	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/logger"
)

type mockUserRepository struct {
	CreateFunc     func(ctx context.Context, u *user.User) error
	GetByIDFunc    func(ctx context.Context, id uint) (*user.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*user.User, error)
	UpdateFunc     func(ctx context.Context, u *user.User) error
	DeleteFunc     func(ctx context.Context, id uint) error
	ListFunc       func(ctx context.Context, filter user.ListFilter) ([]*user.User, int64, error)

	created []*user.User
	updated []*user.User
	deleted []uint
}

func (m *mockUserRepository) Create(ctx context.Context, u *user.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	m.created = append(m.created, u)
	return u.SetID(uint(100 + len(m.created)))
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepository) GetByIDs(ctx context.Context, ids []uint) ([]*user.User, error) {
	return nil, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepository) Update(ctx context.Context, u *user.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, u)
	}
	m.updated = append(m.updated, u)
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockUserRepository) List(ctx context.Context, filter user.ListFilter) ([]*user.User, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockUserRepository) ListByRole(ctx context.Context, role authorization.UserRole) ([]*user.User, error) {
	return nil, nil
}

type mockClubRepository struct {
	GetClubFunc       func(ctx context.Context, id uint) (*club.Club, error)
	GetClubsByIDsFunc func(ctx context.Context, ids []uint) ([]*club.Club, error)
}

func (m *mockClubRepository) GetClub(ctx context.Context, id uint) (*club.Club, error) {
	if m.GetClubFunc != nil {
		return m.GetClubFunc(ctx, id)
	}
	return &club.Club{ID: id, Name: "Centar"}, nil
}

func (m *mockClubRepository) GetClubsByIDs(ctx context.Context, ids []uint) ([]*club.Club, error) {
	if m.GetClubsByIDsFunc != nil {
		return m.GetClubsByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *mockClubRepository) ListClubs(ctx context.Context) ([]*club.Club, error) { return nil, nil }

func (m *mockClubRepository) CreateClub(ctx context.Context, c *club.Club) error { return nil }

func (m *mockClubRepository) GetMachine(ctx context.Context, id uint) (*club.Machine, error) {
	return nil, nil
}

func (m *mockClubRepository) GetMachinesByIDs(ctx context.Context, ids []uint) ([]*club.Machine, error) {
	return nil, nil
}

func (m *mockClubRepository) ListMachines(ctx context.Context, clubID uint) ([]*club.Machine, error) {
	return nil, nil
}

func (m *mockClubRepository) CreateMachine(ctx context.Context, machine *club.Machine) error {
	return nil
}

type mockTicketRepository struct {
	CountByCreatorFunc    func(ctx context.Context, userID uint) (int64, error)
	CountByTechnicianFunc func(ctx context.Context, userID uint) (int64, error)
}

func (m *mockTicketRepository) GetByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	return nil, nil
}

func (m *mockTicketRepository) Create(ctx context.Context, t *ticket.Ticket) error { return nil }

func (m *mockTicketRepository) UpdateStatus(ctx context.Context, t *ticket.Ticket, expected vo.TicketStatus) error {
	return nil
}

func (m *mockTicketRepository) UpdateAssignee(ctx context.Context, t *ticket.Ticket) error {
	return nil
}

func (m *mockTicketRepository) UpdateComments(ctx context.Context, t *ticket.Ticket, previous string) error {
	return nil
}

func (m *mockTicketRepository) List(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	return nil, 0, nil
}

func (m *mockTicketRepository) CountByStatus(ctx context.Context, filter ticket.TicketFilter) ([]ticket.StatusCount, error) {
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

// plainHasher stores "hashed:" + password so tests can assert on it.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Verify(password, hash string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

type mockTokenIssuer struct {
	IssueFunc func(identity authorization.Identity) (string, time.Time, error)
	issued    []authorization.Identity
}

func (m *mockTokenIssuer) Issue(identity authorization.Identity) (string, time.Time, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(identity)
	}
	m.issued = append(m.issued, identity)
	return "signed-token", fixedNow.Add(time.Hour), nil
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

	asAdmin      = authorization.Identity{SubjectID: 1, Email: "ivo@servis.hr", Role: authorization.RoleAdmin}
	asTechnician = authorization.Identity{SubjectID: 5, Email: "tin@servis.hr", Role: authorization.RoleTechnician}
	asClub       = authorization.Identity{SubjectID: 9, Email: "centar@servis.hr", Role: authorization.RoleClub, ClubID: uintPtr(3)}
)

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }

func newPolicy(t *testing.T) *permission.Enforcer {
	t.Helper()
	p, err := permission.NewEnforcer(nopLogger{})
	require.NoError(t, err)
	return p
}

// storedUser rebuilds a persisted user whose password is "lozinka123".
func storedUser(id uint, email string, role authorization.UserRole, clubID *uint) *user.User {
	return user.ReconstructUser(id, "Ana Kovač", email, "hashed:lozinka123", role, clubID, fixedNow, fixedNow)
}
