package usecases

import (
	"context"

	"github.com/servis-automat/servis/internal/domain/permission"
	"github.com/servis-automat/servis/internal/domain/ticket"
	"github.com/servis-automat/servis/internal/domain/user"
	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/errors"
	"github.com/servis-automat/servis/internal/shared/logger"
)

type DeleteUserCommand struct {
	Identity authorization.Identity
	UserID   uint
}

// DeleteUserUseCase refuses to delete a user still referenced by tickets so
// that ticket history keeps a valid creator and assignee.
type DeleteUserUseCase struct {
	userRepo   user.Repository
	ticketRepo ticket.TicketRepository
	policy     permission.Policy
	logger     logger.Interface
}

func NewDeleteUserUseCase(
	userRepo user.Repository,
	ticketRepo ticket.TicketRepository,
	policy permission.Policy,
	logger logger.Interface,
) *DeleteUserUseCase {
	return &DeleteUserUseCase{
		userRepo:   userRepo,
		ticketRepo: ticketRepo,
		policy:     policy,
		logger:     logger,
	}
}

func (uc *DeleteUserUseCase) Execute(ctx context.Context, cmd DeleteUserCommand) error {
	uc.logger.Infow("executing delete user use case", "user_id", cmd.UserID, "by", cmd.Identity.SubjectID)

	if !uc.policy.CanPerform(cmd.Identity, permission.ActionManageUsers, permission.UserResource()) {
		return errors.NewForbiddenError("only admins can manage users")
	}
	if cmd.UserID == cmd.Identity.SubjectID {
		return errors.NewForbiddenError("cannot delete your own account")
	}

	u, err := uc.userRepo.GetByID(ctx, cmd.UserID)
	if err != nil {
		return errors.FromStoreError(err, "failed to load user")
	}
	if u == nil {
		return errors.NewNotFoundError("user not found")
	}

	created, err := uc.ticketRepo.CountByCreator(ctx, u.ID())
	if err != nil {
		return errors.FromStoreError(err, "failed to delete user")
	}
	assigned, err := uc.ticketRepo.CountByTechnician(ctx, u.ID())
	if err != nil {
		return errors.FromStoreError(err, "failed to delete user")
	}
	if created+assigned > 0 {
		uc.logger.Warnw("user still referenced by tickets", "user_id", u.ID(), "created", created, "assigned", assigned)
		return errors.NewConflictError("user is referenced by tickets")
	}

	if err := uc.userRepo.Delete(ctx, u.ID()); err != nil {
		uc.logger.Errorw("failed to delete user", "user_id", u.ID(), "error", err)
		return errors.FromStoreError(err, "failed to delete user")
	}

	uc.logger.Infow("user deleted successfully", "user_id", u.ID())
	return nil
}
