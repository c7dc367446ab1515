package usecases

import (
	"context"

	"github.com/servis-automat/servis/internal/application/user/dto"
	"github.com/servis-automat/servis/internal/domain/club"
	"github.com/servis-automat/servis/internal/domain/user"
	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/errors"
	"github.com/servis-automat/servis/internal/shared/logger"
)

// RefreshTokenUseCase re-reads the caller so the new token reflects the
// current role and club.
type RefreshTokenUseCase struct {
	userRepo user.Repository
	tokens   TokenIssuer
	logger   logger.Interface
}

func NewRefreshTokenUseCase(userRepo user.Repository, tokens TokenIssuer, logger logger.Interface) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

func (uc *RefreshTokenUseCase) Execute(ctx context.Context, identity authorization.Identity) (*dto.TokenResponse, error) {
	u, err := currentUser(ctx, uc.userRepo, identity)
	if err != nil {
		return nil, err
	}

	resp, err := issueToken(uc.tokens, u)
	if err != nil {
		uc.logger.Errorw("failed to issue token", "user_id", u.ID(), "error", err)
		return nil, errors.NewInternalError("failed to refresh token")
	}

	uc.logger.Infow("token refreshed", "user_id", u.ID())
	return resp, nil
}

type GetCurrentUserUseCase struct {
	userRepo user.Repository
	clubRepo club.Repository
	logger   logger.Interface
}

func NewGetCurrentUserUseCase(userRepo user.Repository, clubRepo club.Repository, logger logger.Interface) *GetCurrentUserUseCase {
	return &GetCurrentUserUseCase{
		userRepo: userRepo,
		clubRepo: clubRepo,
		logger:   logger,
	}
}

func (uc *GetCurrentUserUseCase) Execute(ctx context.Context, identity authorization.Identity) (*dto.UserResponse, error) {
	u, err := currentUser(ctx, uc.userRepo, identity)
	if err != nil {
		return nil, err
	}

	resp := dto.ToUserResponse(u)
	if id := u.ClubID(); id != nil {
		c, err := uc.clubRepo.GetClub(ctx, *id)
		if err != nil {
			uc.logger.Warnw("failed to load club of current user", "user_id", u.ID(), "error", err)
		} else if c != nil {
			resp.ClubName = c.Name
		}
	}
	return resp, nil
}

// currentUser loads the caller. A token whose user was deleted no longer
// authenticates.
func currentUser(ctx context.Context, repo user.Repository, identity authorization.Identity) (*user.User, error) {
	u, err := repo.GetByID(ctx, identity.SubjectID)
	if err != nil {
		return nil, errors.FromStoreError(err, "failed to load user")
	}
	if u == nil {
		return nil, errors.NewUnauthorizedError("user no longer exists")
	}
	return u, nil
}
