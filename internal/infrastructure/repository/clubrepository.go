package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/servis-automat/servis/internal/domain/club"
	"github.com/servis-automat/servis/internal/infrastructure/persistence/mappers"
	"github.com/servis-automat/servis/internal/infrastructure/persistence/models"
	"github.com/servis-automat/servis/internal/shared/db"
)

var _ club.Repository = (*ClubRepository)(nil)

// ClubRepository serves clubs and their machines.
type ClubRepository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewClubRepository(db *gorm.DB, timeout time.Duration) *ClubRepository {
	return &ClubRepository{db: db, timeout: timeout}
}

func (r *ClubRepository) GetClub(ctx context.Context, id uint) (*club.Club, error) {
	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	var model models.ClubModel
	if err := conn.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get club: %w", err)
	}
	return mappers.ClubToDomain(&model), nil
}

func (r *ClubRepository) GetClubsByIDs(ctx context.Context, ids []uint) ([]*club.Club, error) {
	if len(ids) == 0 {
		return []*club.Club{}, nil
	}
	return r.findClubs(ctx, "id IN ?", ids)
}

func (r *ClubRepository) ListClubs(ctx context.Context) ([]*club.Club, error) {
	return r.findClubs(ctx, "1 = 1")
}

func (r *ClubRepository) findClubs(ctx context.Context, cond string, args ...interface{}) ([]*club.Club, error) {
	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	var clubModels []*models.ClubModel
	if err := conn.Where(cond, args...).Order("name ASC").Find(&clubModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}

	clubs := make([]*club.Club, 0, len(clubModels))
	for _, model := range clubModels {
		clubs = append(clubs, mappers.ClubToDomain(model))
	}
	return clubs, nil
}

func (r *ClubRepository) CreateClub(ctx context.Context, c *club.Club) error {
	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	model := mappers.ClubToModel(c)
	if err := conn.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create club: %w", err)
	}
	c.ID = model.ID
	return nil
}

func (r *ClubRepository) GetMachine(ctx context.Context, id uint) (*club.Machine, error) {
	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	var model models.MachineModel
	if err := conn.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get machine: %w", err)
	}
	return mappers.MachineToDomain(&model), nil
}

func (r *ClubRepository) GetMachinesByIDs(ctx context.Context, ids []uint) ([]*club.Machine, error) {
	if len(ids) == 0 {
		return []*club.Machine{}, nil
	}
	return r.findMachines(ctx, "id IN ?", ids)
}

func (r *ClubRepository) ListMachines(ctx context.Context, clubID uint) ([]*club.Machine, error) {
	return r.findMachines(ctx, "club_id = ?", clubID)
}

func (r *ClubRepository) findMachines(ctx context.Context, cond string, args ...interface{}) ([]*club.Machine, error) {
	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	var machineModels []*models.MachineModel
	if err := conn.Where(cond, args...).Order("club_id ASC").Order("number ASC").Find(&machineModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}

	machines := make([]*club.Machine, 0, len(machineModels))
	for _, model := range machineModels {
		machines = append(machines, mappers.MachineToDomain(model))
	}
	return machines, nil
}

func (r *ClubRepository) CreateMachine(ctx context.Context, m *club.Machine) error {
	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	model := mappers.MachineToModel(m)
	if err := conn.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create machine: %w", err)
	}
	m.ID = model.ID
	return nil
}
