package user

import (
	"context"

	"github.com/servis-automat/servis/internal/shared/authorization"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	// GetByID returns nil, nil when the user does not exist.
	GetByID(ctx context.Context, id uint) (*User, error)
	// GetByIDs returns the existing users among ids in unspecified order.
	GetByIDs(ctx context.Context, ids []uint) ([]*User, error)
	// GetByEmail returns nil, nil when no user has email.
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter ListFilter) ([]*User, int64, error)
	ListByRole(ctx context.Context, role authorization.UserRole) ([]*User, error)
}

type ListFilter struct {
	Role     *authorization.UserRole
	Page     int
	PageSize int
}
