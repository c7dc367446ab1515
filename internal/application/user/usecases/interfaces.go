package usecases

import (
	"context"
	"time"

	"github.com/servis-automat/servis/internal/application/user/dto"
	"github.com/servis-automat/servis/internal/shared/authorization"
)

// TokenIssuer signs access tokens for a verified identity.
type TokenIssuer interface {
	Issue(identity authorization.Identity) (string, time.Time, error)
}

type LoginExecutor interface {
	Execute(ctx context.Context, cmd LoginCommand) (*dto.TokenResponse, error)
}

type RefreshTokenExecutor interface {
	Execute(ctx context.Context, identity authorization.Identity) (*dto.TokenResponse, error)
}

type GetCurrentUserExecutor interface {
	Execute(ctx context.Context, identity authorization.Identity) (*dto.UserResponse, error)
}

type CreateUserExecutor interface {
	Execute(ctx context.Context, cmd CreateUserCommand) (*dto.UserResponse, error)
}

type UpdateUserExecutor interface {
	Execute(ctx context.Context, cmd UpdateUserCommand) (*dto.UserResponse, error)
}

type DeleteUserExecutor interface {
	Execute(ctx context.Context, cmd DeleteUserCommand) error
}

type ListUsersExecutor interface {
	Execute(ctx context.Context, query ListUsersQuery) (*dto.ListUsersResponse, error)
}
