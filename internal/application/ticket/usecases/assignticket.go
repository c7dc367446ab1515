package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/servis-automat/servis/internal/application/ticket/dto"
	"github.com/servis-automat/servis/internal/domain/permission"
	"github.com/servis-automat/servis/internal/domain/shared/events"
	"github.com/servis-automat/servis/internal/domain/ticket"
	"github.com/servis-automat/servis/internal/domain/user"
	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/biztime"
	"github.com/servis-automat/servis/internal/shared/errors"
	"github.com/servis-automat/servis/internal/shared/logger"
)

type AssignTicketCommand struct {
	Identity     authorization.Identity
	TicketID     uint
	TechnicianID uint
}

type AssignTicketResult struct {
	Ticket          *dto.TicketDTO       `json:"ticket"`
	PartialFailures []dto.PartialFailure `json:"partial_failures"`
}

type AssignTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	userRepo   user.Repository
	policy     permission.Policy
	publisher  events.EventPublisher
	enricher   *Enricher
	logger     logger.Interface
	now        func() time.Time
}

func NewAssignTicketUseCase(
	ticketRepo ticket.TicketRepository,
	userRepo user.Repository,
	policy permission.Policy,
	publisher events.EventPublisher,
	enricher *Enricher,
	logger logger.Interface,
) *AssignTicketUseCase {
	return &AssignTicketUseCase{
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
		policy:     policy,
		publisher:  publisher,
		enricher:   enricher,
		logger:     logger,
		now:        biztime.NowUTC,
	}
}

func (uc *AssignTicketUseCase) Execute(ctx context.Context, cmd AssignTicketCommand) (*AssignTicketResult, error) {
	uc.logger.Infow("executing assign ticket use case",
		"ticket_id", cmd.TicketID,
		"technician_id", cmd.TechnicianID,
		"user_id", cmd.Identity.SubjectID,
	)

	if cmd.TechnicianID == 0 {
		return nil, errors.NewValidationError("invalid fields: technician_id", "technician_id: is required")
	}

	t, err := loadTicket(ctx, uc.ticketRepo, cmd.TicketID)
	if err != nil {
		return nil, err
	}

	if !uc.policy.CanPerform(cmd.Identity, permission.ActionAssignTicket, permission.TicketResource(t)) {
		uc.logger.Warnw("ticket assignment denied", "ticket_id", t.ID(), "user_id", cmd.Identity.SubjectID)
		return nil, errors.NewForbiddenError("only admins can assign technicians")
	}

	technician, err := uc.userRepo.GetByID(ctx, cmd.TechnicianID)
	if err != nil {
		uc.logger.Errorw("failed to load technician", "user_id", cmd.TechnicianID, "error", err)
		return nil, errors.FromStoreError(err, "failed to load technician")
	}
	if technician == nil || !technician.IsTechnician() {
		return nil, errors.NewValidationError(
			"invalid fields: technician_id",
			fmt.Sprintf("technician_id: user %d is not a technician", cmd.TechnicianID),
		)
	}

	now := uc.now()
	if err := t.AssignTechnician(technician.ID(), now); err != nil {
		return nil, translateTicketError(err)
	}

	if err := uc.ticketRepo.UpdateAssignee(ctx, t); err != nil {
		if stderrors.Is(err, ticket.ErrConcurrentModification) {
			return nil, errors.NewInvalidTransitionError("ticket is closed")
		}
		uc.logger.Errorw("failed to update assignee", "ticket_id", t.ID(), "error", err)
		return nil, errors.FromStoreError(err, "failed to assign technician")
	}

	failures := []dto.PartialFailure{}
	if err := uc.publisher.Publish(ticket.NewTechnicianAssignedEvent(t, technician.ID(), cmd.Identity.SubjectID, now)); err != nil {
		uc.logger.Warnw("failed to publish technician assigned event", "ticket_id", t.ID(), "error", err)
		failures = append(failures, dto.PartialFailure{
			Kind:   dto.FailureKindNotification,
			Target: ticket.EventTypeTechnicianAssigned,
			Reason: err.Error(),
		})
	}

	ticketDTO, err := uc.enricher.EnrichOne(ctx, t)
	if err != nil {
		uc.logger.Warnw("failed to enrich ticket", "ticket_id", t.ID(), "error", err)
		ticketDTO = dto.FromTicket(t)
	}

	uc.logger.Infow("technician assigned successfully", "ticket_id", t.ID(), "technician_id", technician.ID())

	return &AssignTicketResult{Ticket: ticketDTO, PartialFailures: failures}, nil
}
