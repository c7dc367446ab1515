package usecases

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/servis-automat/servis/internal/application/ticket/dto"
	"github.com/servis-automat/servis/internal/domain/permission"
	"github.com/servis-automat/servis/internal/domain/shared/events"
	"github.com/servis-automat/servis/internal/domain/ticket"
	vo "github.com/servis-automat/servis/internal/domain/ticket/valueobjects"
	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/biztime"
	"github.com/servis-automat/servis/internal/shared/errors"
	"github.com/servis-automat/servis/internal/shared/logger"
)

// maxStatusWriteAttempts is the first write plus one retry after a lost race.
const maxStatusWriteAttempts = 2

type ChangeStatusCommand struct {
	Identity  authorization.Identity
	TicketID  uint
	NewStatus string
	Comment   string
}

type ChangeStatusResult struct {
	Ticket          *dto.TicketDTO       `json:"ticket"`
	History         *dto.HistoryEntryDTO `json:"history"`
	PartialFailures []dto.PartialFailure `json:"partial_failures"`
}

type ChangeStatusUseCase struct {
	ticketRepo  ticket.TicketRepository
	historyRepo ticket.HistoryRepository
	policy      permission.Policy
	txMgr       TxManager
	publisher   events.EventPublisher
	enricher    *Enricher
	logger      logger.Interface
	now         func() time.Time
}

func NewChangeStatusUseCase(
	ticketRepo ticket.TicketRepository,
	historyRepo ticket.HistoryRepository,
	policy permission.Policy,
	txMgr TxManager,
	publisher events.EventPublisher,
	enricher *Enricher,
	logger logger.Interface,
) *ChangeStatusUseCase {
	return &ChangeStatusUseCase{
		ticketRepo:  ticketRepo,
		historyRepo: historyRepo,
		policy:      policy,
		txMgr:       txMgr,
		publisher:   publisher,
		enricher:    enricher,
		logger:      logger,
		now:         biztime.NowUTC,
	}
}

func (uc *ChangeStatusUseCase) Execute(ctx context.Context, cmd ChangeStatusCommand) (*ChangeStatusResult, error) {
	uc.logger.Infow("executing change status use case",
		"ticket_id", cmd.TicketID,
		"new_status", cmd.NewStatus,
		"user_id", cmd.Identity.SubjectID,
	)

	newStatus, err := vo.NewTicketStatus(cmd.NewStatus)
	if err != nil {
		return nil, errors.NewValidationError("invalid status", err.Error())
	}

	var (
		t     *ticket.Ticket
		entry *ticket.StatusHistoryEntry
	)
	for attempt := 1; ; attempt++ {
		t, entry, err = uc.attempt(ctx, cmd, newStatus)
		if err == nil {
			break
		}
		if !stderrors.Is(err, ticket.ErrConcurrentModification) {
			return nil, err
		}
		if attempt >= maxStatusWriteAttempts {
			uc.logger.Warnw("status change lost the race twice", "ticket_id", cmd.TicketID)
			return nil, errors.NewConflictError("ticket was modified concurrently, please retry")
		}
		uc.logger.Infow("status change lost a race, re-reading ticket", "ticket_id", cmd.TicketID)
	}

	failures := []dto.PartialFailure{}
	if err := uc.publisher.Publish(ticket.NewStatusChangedEvent(t, entry)); err != nil {
		uc.logger.Warnw("failed to publish status changed event", "ticket_id", t.ID(), "error", err)
		failures = append(failures, dto.PartialFailure{
			Kind:   dto.FailureKindNotification,
			Target: ticket.EventTypeStatusChanged,
			Reason: err.Error(),
		})
	}

	ticketDTO, err := uc.enricher.EnrichOne(ctx, t)
	if err != nil {
		uc.logger.Warnw("failed to enrich ticket", "ticket_id", t.ID(), "error", err)
		ticketDTO = dto.FromTicket(t)
	}

	uc.logger.Infow("ticket status changed successfully",
		"ticket_id", t.ID(),
		"old_status", *entry.OldStatus,
		"new_status", entry.NewStatus,
	)

	return &ChangeStatusResult{
		Ticket:          ticketDTO,
		History:         dto.FromHistoryEntry(entry),
		PartialFailures: failures,
	}, nil
}

// attempt runs one read-check-write cycle. A lost race is returned as
// ticket.ErrConcurrentModification; every other failure is an AppError.
func (uc *ChangeStatusUseCase) attempt(ctx context.Context, cmd ChangeStatusCommand, newStatus vo.TicketStatus) (*ticket.Ticket, *ticket.StatusHistoryEntry, error) {
	t, err := loadTicket(ctx, uc.ticketRepo, cmd.TicketID)
	if err != nil {
		return nil, nil, err
	}

	if !uc.policy.CanPerform(cmd.Identity, permission.ActionChangeTicketStatus, permission.TicketResource(t)) {
		uc.logger.Warnw("status change denied",
			"ticket_id", t.ID(),
			"user_id", cmd.Identity.SubjectID,
			"role", cmd.Identity.Role,
		)
		return nil, nil, errors.NewForbiddenError("not allowed to change the status of this ticket")
	}

	expected := t.Status()
	entry, err := t.TransitionTo(newStatus, cmd.Comment, cmd.Identity.SubjectID, uc.now())
	if err != nil {
		return nil, nil, translateTicketError(err)
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.ticketRepo.UpdateStatus(txCtx, t, expected); err != nil {
			return err
		}
		return uc.historyRepo.Append(txCtx, entry)
	})
	if err != nil {
		if stderrors.Is(err, ticket.ErrConcurrentModification) {
			return nil, nil, err
		}
		uc.logger.Errorw("failed to persist status change", "ticket_id", t.ID(), "error", err)
		return nil, nil, errors.FromStoreError(err, "failed to change ticket status")
	}

	return t, entry, nil
}
