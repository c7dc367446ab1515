package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servis-automat/servis/internal/domain/club"
	"github.com/servis-automat/servis/internal/infrastructure/permission"
	"github.com/servis-automat/servis/internal/shared/authorization"
	apperrors "github.com/servis-automat/servis/internal/shared/errors"
	"github.com/servis-automat/servis/internal/shared/logger"
)

type fakeClubRepository struct {
	clubs    []*club.Club
	machines []*club.Machine
	err      error
}

func (f *fakeClubRepository) GetClub(ctx context.Context, id uint) (*club.Club, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.clubs {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeClubRepository) GetClubsByIDs(ctx context.Context, ids []uint) ([]*club.Club, error) {
	return nil, nil
}

func (f *fakeClubRepository) ListClubs(ctx context.Context) ([]*club.Club, error) {
	return f.clubs, f.err
}

func (f *fakeClubRepository) CreateClub(ctx context.Context, c *club.Club) error { return nil }

func (f *fakeClubRepository) GetMachine(ctx context.Context, id uint) (*club.Machine, error) {
	for _, m := range f.machines {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, f.err
}

func (f *fakeClubRepository) GetMachinesByIDs(ctx context.Context, ids []uint) ([]*club.Machine, error) {
	return nil, nil
}

func (f *fakeClubRepository) ListMachines(ctx context.Context, clubID uint) ([]*club.Machine, error) {
	var out []*club.Machine
	for _, m := range f.machines {
		if m.ClubID == clubID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeClubRepository) CreateMachine(ctx context.Context, m *club.Machine) error { return nil }

type fakeLabels struct {
	err error
}

func (f fakeLabels) PNG(clubID, machineID uint) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte{0x89, 'P', 'N', 'G'}, nil
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
	asAdmin      = authorization.Identity{SubjectID: 1, Role: authorization.RoleAdmin}
	asTechnician = authorization.Identity{SubjectID: 5, Role: authorization.RoleTechnician}
	asClub       = authorization.Identity{SubjectID: 9, Role: authorization.RoleClub, ClubID: uintPtr(3)}
	asClubless   = authorization.Identity{SubjectID: 11, Role: authorization.RoleClub}
)

func uintPtr(v uint) *uint { return &v }

func newFixture(t *testing.T) (*fakeClubRepository, *permission.Enforcer) {
	t.Helper()
	repo := &fakeClubRepository{
		clubs: []*club.Club{
			{ID: 3, Name: "Centar", City: "Zagreb"},
			{ID: 4, Name: "Jug", City: "Split"},
		},
		machines: []*club.Machine{
			{ID: 17, ClubID: 3, Number: "12", Model: "EGT Multigame"},
			{ID: 18, ClubID: 3, Number: "13", Model: "Novomatic"},
			{ID: 21, ClubID: 4, Number: "1", Model: "Amatic"},
		},
	}
	p, err := permission.NewEnforcer(nopLogger{})
	require.NoError(t, err)
	return repo, p
}

func TestListClubsUseCase_Execute(t *testing.T) {
	tests := []struct {
		name     string
		identity authorization.Identity
		wantIDs  []uint
		check    func(error) bool
	}{
		{name: "admin sees all", identity: asAdmin, wantIDs: []uint{3, 4}},
		{name: "technician sees all", identity: asTechnician, wantIDs: []uint{3, 4}},
		{name: "club sees own", identity: asClub, wantIDs: []uint{3}},
		{name: "club user without club", identity: asClubless, check: apperrors.IsForbiddenError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, policy := newFixture(t)
			uc := NewListClubsUseCase(repo, policy, nopLogger{})

			got, err := uc.Execute(context.Background(), tt.identity)
			if tt.check != nil {
				require.Error(t, err)
				assert.True(t, tt.check(err))
				return
			}
			require.NoError(t, err)
			ids := make([]uint, 0, len(got))
			for _, c := range got {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestListMachinesUseCase_Execute(t *testing.T) {
	tests := []struct {
		name     string
		identity authorization.Identity
		clubID   uint
		wantLen  int
		check    func(error) bool
	}{
		{name: "club reads own machines", identity: asClub, clubID: 3, wantLen: 2},
		{name: "technician reads any club", identity: asTechnician, clubID: 4, wantLen: 1},
		{name: "club reads other club", identity: asClub, clubID: 4, check: apperrors.IsForbiddenError},
		{name: "unknown club", identity: asAdmin, clubID: 99, check: apperrors.IsNotFoundError},
		{name: "missing club id", identity: asAdmin, clubID: 0, check: apperrors.IsValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, policy := newFixture(t)
			uc := NewListMachinesUseCase(repo, policy, nopLogger{})

			got, err := uc.Execute(context.Background(), tt.identity, tt.clubID)
			if tt.check != nil {
				require.Error(t, err)
				assert.True(t, tt.check(err))
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}

	t.Run("label is derived", func(t *testing.T) {
		repo, policy := newFixture(t)
		got, err := NewListMachinesUseCase(repo, policy, nopLogger{}).Execute(context.Background(), asAdmin, 3)
		require.NoError(t, err)
		assert.Equal(t, "#12 EGT Multigame", got[0].Label)
	})
}

func TestMachineLabelUseCase_Execute(t *testing.T) {
	repo, policy := newFixture(t)
	uc := NewMachineLabelUseCase(repo, fakeLabels{}, policy, nopLogger{})

	got, err := uc.Execute(context.Background(), asClub, 17)
	require.NoError(t, err)
	assert.Equal(t, "machine-17.png", got.Filename)
	assert.NotEmpty(t, got.PNG)

	_, err = uc.Execute(context.Background(), asClub, 21)
	assert.True(t, apperrors.IsForbiddenError(err))

	_, err = uc.Execute(context.Background(), asClub, 404)
	assert.True(t, apperrors.IsNotFoundError(err))

	failing := NewMachineLabelUseCase(repo, fakeLabels{err: errors.New("too long")}, policy, nopLogger{})
	_, err = failing.Execute(context.Background(), asAdmin, 17)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.GetAppError(err).Type)
}
