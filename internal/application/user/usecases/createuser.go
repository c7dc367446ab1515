package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/servis-automat/servis/internal/application/user/dto"
	"github.com/servis-automat/servis/internal/domain/club"
	"github.com/servis-automat/servis/internal/domain/permission"
	"github.com/servis-automat/servis/internal/domain/user"
	vo "github.com/servis-automat/servis/internal/domain/user/valueobjects"
	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/biztime"
	"github.com/servis-automat/servis/internal/shared/errors"
	"github.com/servis-automat/servis/internal/shared/logger"
)

type CreateUserCommand struct {
	Identity authorization.Identity
	Name     string
	Email    string
	Password string
	Role     string
	ClubID   *uint
}

type CreateUserUseCase struct {
	userRepo user.Repository
	clubRepo club.Repository
	hasher   user.PasswordHasher
	policy   permission.Policy
	logger   logger.Interface
	now      func() time.Time
}

func NewCreateUserUseCase(
	userRepo user.Repository,
	clubRepo club.Repository,
	hasher user.PasswordHasher,
	policy permission.Policy,
	logger logger.Interface,
) *CreateUserUseCase {
	return &CreateUserUseCase{
		userRepo: userRepo,
		clubRepo: clubRepo,
		hasher:   hasher,
		policy:   policy,
		logger:   logger,
		now:      biztime.NowUTC,
	}
}

func (uc *CreateUserUseCase) Execute(ctx context.Context, cmd CreateUserCommand) (*dto.UserResponse, error) {
	uc.logger.Infow("executing create user use case", "email", cmd.Email, "role", cmd.Role, "by", cmd.Identity.SubjectID)

	if !uc.policy.CanPerform(cmd.Identity, permission.ActionManageUsers, permission.UserResource()) {
		return nil, errors.NewForbiddenError("only admins can manage users")
	}

	var invalid fieldErrors
	name, err := vo.NewName(cmd.Name)
	invalid.add("name", err)
	email, err := vo.NewEmail(cmd.Email)
	invalid.add("email", err)
	password, err := vo.NewPassword(cmd.Password)
	invalid.add("password", err)
	role, ok := authorization.ParseUserRole(cmd.Role)
	if !ok {
		invalid.add("role", user.ErrInvalidRole)
	}
	if err := invalid.err(); err != nil {
		return nil, err
	}

	now := uc.now()
	u, err := user.NewUser(name, email, role, cmd.ClubID, now)
	if err != nil {
		return nil, translateUserError(err)
	}
	if err := requireClub(ctx, uc.clubRepo, u.ClubID()); err != nil {
		return nil, err
	}

	existing, err := uc.userRepo.GetByEmail(ctx, u.Email())
	if err != nil {
		return nil, errors.FromStoreError(err, "failed to create user")
	}
	if existing != nil {
		return nil, errors.NewConflictError("email already in use", u.Email())
	}

	if err := u.SetPassword(password, uc.hasher, now); err != nil {
		uc.logger.Errorw("failed to hash password", "error", err)
		return nil, errors.NewInternalError("failed to create user")
	}

	if err := uc.userRepo.Create(ctx, u); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError("email already in use", u.Email())
		}
		uc.logger.Errorw("failed to persist user", "email", u.Email(), "error", err)
		return nil, errors.FromStoreError(err, "failed to create user")
	}

	uc.logger.Infow("user created successfully", "user_id", u.ID(), "role", u.Role())
	return dto.ToUserResponse(u), nil
}

// fieldErrors collects the names of rejected fields in input order.
type fieldErrors []string

func (f *fieldErrors) add(field string, err error) {
	if err != nil {
		*f = append(*f, field)
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return errors.NewValidationError("invalid fields: "+strings.Join(f, ", "), f...)
}

func translateUserError(err error) error {
	switch err {
	case user.ErrInvalidRole:
		return errors.NewValidationError("invalid fields: role", "role")
	case user.ErrClubRequired:
		return errors.NewValidationError("invalid fields: club_id", "club_id")
	}
	if errors.IsAppError(err) {
		return err
	}
	return errors.NewValidationError(err.Error())
}

// requireClub checks that a club user's club exists.
func requireClub(ctx context.Context, clubs club.Repository, clubID *uint) error {
	if clubID == nil {
		return nil
	}
	c, err := clubs.GetClub(ctx, *clubID)
	if err != nil {
		return errors.FromStoreError(err, "failed to load club")
	}
	if c == nil {
		return errors.NewValidationError("invalid fields: club_id", "club_id")
	}
	return nil
}
