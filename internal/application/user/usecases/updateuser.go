package usecases

import (
	"context"
	"time"

	"github.com/servis-automat/servis/internal/application/user/dto"
	"github.com/servis-automat/servis/internal/domain/club"
	"github.com/servis-automat/servis/internal/domain/permission"
	"github.com/servis-automat/servis/internal/domain/ticket"
	"github.com/servis-automat/servis/internal/domain/user"
	vo "github.com/servis-automat/servis/internal/domain/user/valueobjects"
	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/biztime"
	"github.com/servis-automat/servis/internal/shared/errors"
	"github.com/servis-automat/servis/internal/shared/logger"
)

// UpdateUserCommand changes only the non-nil fields. ClubID is read together
// with Role; when Role is nil the current role is kept with the new club.
type UpdateUserCommand struct {
	Identity authorization.Identity
	UserID   uint
	Name     *string
	Email    *string
	Password *string
	Role     *string
	ClubID   *uint
}

type UpdateUserUseCase struct {
	userRepo   user.Repository
	clubRepo   club.Repository
	ticketRepo ticket.TicketRepository
	hasher     user.PasswordHasher
	policy     permission.Policy
	logger     logger.Interface
	now        func() time.Time
}

func NewUpdateUserUseCase(
	userRepo user.Repository,
	clubRepo club.Repository,
	ticketRepo ticket.TicketRepository,
	hasher user.PasswordHasher,
	policy permission.Policy,
	logger logger.Interface,
) *UpdateUserUseCase {
	return &UpdateUserUseCase{
		userRepo:   userRepo,
		clubRepo:   clubRepo,
		ticketRepo: ticketRepo,
		hasher:     hasher,
		policy:     policy,
		logger:     logger,
		now:        biztime.NowUTC,
	}
}

func (uc *UpdateUserUseCase) Execute(ctx context.Context, cmd UpdateUserCommand) (*dto.UserResponse, error) {
	uc.logger.Infow("executing update user use case", "user_id", cmd.UserID, "by", cmd.Identity.SubjectID)

	if !uc.policy.CanPerform(cmd.Identity, permission.ActionManageUsers, permission.UserResource()) {
		return nil, errors.NewForbiddenError("only admins can manage users")
	}

	u, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, errors.FromStoreError(err, "failed to load user")
	}
	if u == nil {
		return nil, errors.NewNotFoundError("user not found")
	}

	var (
		invalid  fieldErrors
		name     *vo.Name
		email    *vo.Email
		password *vo.Password
		role     = u.Role()
	)
	if cmd.Name != nil {
		name, err = vo.NewName(*cmd.Name)
		invalid.add("name", err)
	}
	if cmd.Email != nil {
		email, err = vo.NewEmail(*cmd.Email)
		invalid.add("email", err)
	}
	if cmd.Password != nil {
		password, err = vo.NewPassword(*cmd.Password)
		invalid.add("password", err)
	}
	if cmd.Role != nil {
		var ok bool
		if role, ok = authorization.ParseUserRole(*cmd.Role); !ok {
			invalid.add("role", user.ErrInvalidRole)
		}
	}
	if err := invalid.err(); err != nil {
		return nil, err
	}

	now := uc.now()
	if name != nil {
		u.Rename(name, now)
	}
	if email != nil && email.String() != u.Email() {
		other, err := uc.userRepo.GetByEmail(ctx, email.String())
		if err != nil {
			return nil, errors.FromStoreError(err, "failed to update user")
		}
		if other != nil && other.ID() != u.ID() {
			return nil, errors.NewConflictError("email already in use", email.String())
		}
		u.ChangeEmail(email, now)
	}
	if u.IsTechnician() && role != authorization.RoleTechnician {
		if err := uc.ensureNoAssignedTickets(ctx, u); err != nil {
			return nil, err
		}
	}
	if cmd.Role != nil || cmd.ClubID != nil {
		clubID := cmd.ClubID
		if clubID == nil {
			clubID = u.ClubID()
		}
		if err := u.ChangeRole(role, clubID, now); err != nil {
			return nil, translateUserError(err)
		}
		if err := requireClub(ctx, uc.clubRepo, u.ClubID()); err != nil {
			return nil, err
		}
	}
	if password != nil {
		if err := u.SetPassword(password, uc.hasher, now); err != nil {
			uc.logger.Errorw("failed to hash password", "user_id", u.ID(), "error", err)
			return nil, errors.NewInternalError("failed to update user")
		}
	}

	if err := uc.userRepo.Update(ctx, u); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError("email already in use", u.Email())
		}
		uc.logger.Errorw("failed to update user", "user_id", u.ID(), "error", err)
		return nil, errors.FromStoreError(err, "failed to update user")
	}

	uc.logger.Infow("user updated successfully", "user_id", u.ID())
	return dto.ToUserResponse(u), nil
}

// ensureNoAssignedTickets keeps assigned_technician_id pointing at a
// technician: the role cannot change while tickets are assigned.
func (uc *UpdateUserUseCase) ensureNoAssignedTickets(ctx context.Context, u *user.User) error {
	assigned, err := uc.ticketRepo.CountByTechnician(ctx, u.ID())
	if err != nil {
		return errors.FromStoreError(err, "failed to update user")
	}
	if assigned > 0 {
		uc.logger.Warnw("technician role change blocked by assigned tickets", "user_id", u.ID(), "assigned", assigned)
		return errors.NewConflictError("technician still has assigned tickets", "reassign their tickets before changing the role")
	}
	return nil
}
