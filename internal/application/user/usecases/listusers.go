package usecases

import (
	"context"

	"github.com/servis-automat/servis/internal/application/user/dto"
	"github.com/servis-automat/servis/internal/domain/club"
	"github.com/servis-automat/servis/internal/domain/permission"
	"github.com/servis-automat/servis/internal/domain/user"
	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/errors"
	"github.com/servis-automat/servis/internal/shared/logger"
	"github.com/servis-automat/servis/internal/shared/utils"
)

type ListUsersQuery struct {
	Identity authorization.Identity
	Role     string
	Page     int
	PageSize int
}

type ListUsersUseCase struct {
	userRepo user.Repository
	clubRepo club.Repository
	policy   permission.Policy
	logger   logger.Interface
}

func NewListUsersUseCase(
	userRepo user.Repository,
	clubRepo club.Repository,
	policy permission.Policy,
	logger logger.Interface,
) *ListUsersUseCase {
	return &ListUsersUseCase{
		userRepo: userRepo,
		clubRepo: clubRepo,
		policy:   policy,
		logger:   logger,
	}
}

func (uc *ListUsersUseCase) Execute(ctx context.Context, query ListUsersQuery) (*dto.ListUsersResponse, error) {
	if !uc.policy.CanPerform(query.Identity, permission.ActionManageUsers, permission.UserResource()) {
		return nil, errors.NewForbiddenError("only admins can manage users")
	}

	p := utils.ValidatePagination(query.Page, query.PageSize)
	filter := user.ListFilter{Page: p.Page, PageSize: p.PageSize}
	if query.Role != "" {
		role, ok := authorization.ParseUserRole(query.Role)
		if !ok {
			return nil, errors.NewValidationError("invalid fields: role", "role")
		}
		filter.Role = &role
	}

	users, total, err := uc.userRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list users", "error", err)
		return nil, errors.FromStoreError(err, "failed to list users")
	}

	names, err := uc.clubNames(ctx, users)
	if err != nil {
		uc.logger.Warnw("failed to load club names", "error", err)
	}

	resp := &dto.ListUsersResponse{
		Users:    make([]*dto.UserResponse, 0, len(users)),
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
	}
	for _, u := range users {
		r := dto.ToUserResponse(u)
		if id := u.ClubID(); id != nil {
			r.ClubName = names[*id]
		}
		resp.Users = append(resp.Users, r)
	}
	return resp, nil
}

func (uc *ListUsersUseCase) clubNames(ctx context.Context, users []*user.User) (map[uint]string, error) {
	seen := make(map[uint]bool)
	var ids []uint
	for _, u := range users {
		if id := u.ClubID(); id != nil && !seen[*id] {
			seen[*id] = true
			ids = append(ids, *id)
		}
	}
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	clubs, err := uc.clubRepo.GetClubsByIDs(ctx, ids)
	if err != nil {
		return names, err
	}
	for _, c := range clubs {
		names[c.ID] = c.Name
	}
	return names, nil
}
