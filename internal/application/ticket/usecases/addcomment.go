package usecases

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/servis-automat/servis/internal/domain/permission"
	"github.com/servis-automat/servis/internal/domain/ticket"
	"github.com/servis-automat/servis/internal/domain/user"
	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/biztime"
	"github.com/servis-automat/servis/internal/shared/errors"
	"github.com/servis-automat/servis/internal/shared/logger"
)

// maxCommentWriteAttempts is the first write plus one retry after a lost race.
const maxCommentWriteAttempts = 2

type AddCommentCommand struct {
	Identity authorization.Identity
	TicketID uint
	Text     string
}

type AddCommentResult struct {
	TicketID  uint      `json:"ticket_id"`
	Entry     string    `json:"entry"`
	Comments  string    `json:"comments"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AddCommentUseCase struct {
	ticketRepo ticket.TicketRepository
	userRepo   user.Repository
	policy     permission.Policy
	logger     logger.Interface
	now        func() time.Time
}

func NewAddCommentUseCase(
	ticketRepo ticket.TicketRepository,
	userRepo user.Repository,
	policy permission.Policy,
	logger logger.Interface,
) *AddCommentUseCase {
	return &AddCommentUseCase{
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
		policy:     policy,
		logger:     logger,
		now:        biztime.NowUTC,
	}
}

func (uc *AddCommentUseCase) Execute(ctx context.Context, cmd AddCommentCommand) (*AddCommentResult, error) {
	uc.logger.Infow("executing add comment use case", "ticket_id", cmd.TicketID, "user_id", cmd.Identity.SubjectID)

	author, err := uc.authorName(ctx, cmd.Identity)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		t, err := loadTicket(ctx, uc.ticketRepo, cmd.TicketID)
		if err != nil {
			return nil, err
		}

		if !uc.policy.CanPerform(cmd.Identity, permission.ActionCommentTicket, permission.TicketResource(t)) {
			uc.logger.Warnw("comment denied", "ticket_id", t.ID(), "user_id", cmd.Identity.SubjectID)
			return nil, errors.NewForbiddenError("not allowed to comment on this ticket")
		}

		previous := t.Comments()
		entry, err := t.AppendComment(author, cmd.Text, uc.now())
		if err != nil {
			return nil, translateTicketError(err)
		}

		err = uc.ticketRepo.UpdateComments(ctx, t, previous)
		if err == nil {
			uc.logger.Infow("comment added successfully", "ticket_id", t.ID())
			return &AddCommentResult{
				TicketID:  t.ID(),
				Entry:     entry,
				Comments:  t.Comments(),
				UpdatedAt: t.UpdatedAt(),
			}, nil
		}
		if !stderrors.Is(err, ticket.ErrConcurrentModification) {
			uc.logger.Errorw("failed to save comment", "ticket_id", t.ID(), "error", err)
			return nil, errors.FromStoreError(err, "failed to add comment")
		}
		if attempt >= maxCommentWriteAttempts {
			return nil, errors.NewConflictError("ticket was modified concurrently, please retry")
		}
	}
}

// authorName prefers the stored display name and falls back to the email in
// the token.
func (uc *AddCommentUseCase) authorName(ctx context.Context, identity authorization.Identity) (string, error) {
	u, err := uc.userRepo.GetByID(ctx, identity.SubjectID)
	if err != nil {
		uc.logger.Errorw("failed to load comment author", "user_id", identity.SubjectID, "error", err)
		return "", errors.FromStoreError(err, "failed to load user")
	}
	if u == nil {
		return identity.Email, nil
	}
	return u.Name(), nil
}
