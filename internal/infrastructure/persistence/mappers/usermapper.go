package mappers

import (
	"fmt"

	"github.com/servis-automat/servis/internal/domain/user"
	"github.com/servis-automat/servis/internal/infrastructure/persistence/models"
	"github.com/servis-automat/servis/internal/shared/authorization"
)

// UserMapper handles the conversion between domain entities and persistence models
type UserMapper interface {
	ToEntity(model *models.UserModel) (*user.User, error)
	ToModel(entity *user.User) *models.UserModel
	ToEntities(models []*models.UserModel) ([]*user.User, error)
}

// UserMapperImpl is the concrete implementation of UserMapper
type UserMapperImpl struct{}

// NewUserMapper creates a new user mapper
func NewUserMapper() UserMapper {
	return &UserMapperImpl{}
}

// ToEntity normalizes the legacy "hall" role to club.
func (m *UserMapperImpl) ToEntity(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}

	role, ok := authorization.ParseUserRole(model.Role)
	if !ok {
		return nil, fmt.Errorf("user %d: unknown role %q", model.ID, model.Role)
	}

	clubID := model.ClubID
	if !role.IsClub() {
		clubID = nil
	}

	return user.ReconstructUser(
		model.ID,
		model.Name,
		model.Email,
		model.PasswordHash,
		role,
		clubID,
		millisToTime(model.CreatedAt),
		millisToTime(model.UpdatedAt),
	), nil
}

func (m *UserMapperImpl) ToModel(entity *user.User) *models.UserModel {
	return &models.UserModel{
		ID:           entity.ID(),
		Name:         entity.Name(),
		Email:        entity.Email(),
		PasswordHash: entity.PasswordHash(),
		Role:         entity.Role().String(),
		ClubID:       entity.ClubID(),
		CreatedAt:    entity.CreatedAt().UnixMilli(),
		UpdatedAt:    entity.UpdatedAt().UnixMilli(),
	}
}

func (m *UserMapperImpl) ToEntities(list []*models.UserModel) ([]*user.User, error) {
	out := make([]*user.User, 0, len(list))
	for _, model := range list {
		u, err := m.ToEntity(model)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}
