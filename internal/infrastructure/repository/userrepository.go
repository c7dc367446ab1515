package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/servis-automat/servis/internal/domain/user"
	"github.com/servis-automat/servis/internal/infrastructure/persistence/mappers"
	"github.com/servis-automat/servis/internal/infrastructure/persistence/models"
	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/constants"
	"github.com/servis-automat/servis/internal/shared/db"
	"github.com/servis-automat/servis/internal/shared/logger"
)

var _ user.Repository = (*UserRepository)(nil)

type UserRepository struct {
	db      *gorm.DB
	mapper  mappers.UserMapper
	timeout time.Duration
	logger  logger.Interface
}

func NewUserRepository(db *gorm.DB, timeout time.Duration, logger logger.Interface) *UserRepository {
	return &UserRepository{
		db:      db,
		mapper:  mappers.NewUserMapper(),
		timeout: timeout,
		logger:  logger,
	}
}

func (r *UserRepository) Create(ctx context.Context, userEntity *user.User) error {
	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	model := r.mapper.ToModel(userEntity)
	if err := conn.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if err := userEntity.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set user ID: %w", err)
	}

	r.logger.Infow("user created", "id", model.ID, "email", model.Email, "role", model.Role)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepository) first(ctx context.Context, cond string, args ...interface{}) (*user.User, error) {
	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	var model models.UserModel
	if err := conn.Where(cond, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		return nil, fmt.Errorf("failed to map user: %w", err)
	}
	return entity, nil
}

// GetByIDs skips rows that cannot be mapped so one corrupt account does not
// break ticket enrichment.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []uint) ([]*user.User, error) {
	if len(ids) == 0 {
		return []*user.User{}, nil
	}

	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	var userModels []*models.UserModel
	if err := conn.Where("id IN ?", ids).Find(&userModels).Error; err != nil {
		return nil, fmt.Errorf("failed to get users by IDs: %w", err)
	}

	users := make([]*user.User, 0, len(userModels))
	for _, model := range userModels {
		entity, err := r.mapper.ToEntity(model)
		if err != nil {
			r.logger.Warnw("failed to map user model to entity, skipping", "id", model.ID, "error", err)
			continue
		}
		users = append(users, entity)
	}

	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, userEntity *user.User) error {
	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	model := r.mapper.ToModel(userEntity)
	result := conn.Model(&models.UserModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":          model.Name,
			"email":         model.Email,
			"password_hash": model.PasswordHash,
			"role":          model.Role,
			"club_id":       model.ClubID,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d not found", model.ID)
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	result := conn.Delete(&models.UserModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user %d not found", id)
	}

	r.logger.Infow("user deleted", "id", id)
	return nil
}

func (r *UserRepository) List(ctx context.Context, filter user.ListFilter) ([]*user.User, int64, error) {
	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	query := conn.Model(&models.UserModel{})
	if filter.Role != nil {
		query = query.Where("role IN ?", storedRoleNames(*filter.Role))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var userModels []*models.UserModel
	if err := query.
		Order("name ASC").
		Order("id ASC").
		Scopes(db.Paginate(filter.Page, filter.PageSize, constants.DefaultPageSize)).
		Find(&userModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	users, err := r.mapper.ToEntities(userModels)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role authorization.UserRole) ([]*user.User, error) {
	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	var userModels []*models.UserModel
	if err := conn.
		Where("role IN ?", storedRoleNames(role)).
		Order("id ASC").
		Find(&userModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}

	return r.mapper.ToEntities(userModels)
}

// storedRoleNames lists the spellings a role may have in existing rows.
func storedRoleNames(role authorization.UserRole) []string {
	if role.IsClub() {
		return []string{role.String(), "hall"}
	}
	return []string{role.String()}
}
