package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/servis-automat/servis/internal/application/ticket/dto"
	"github.com/servis-automat/servis/internal/domain/club"
	"github.com/servis-automat/servis/internal/domain/permission"
	"github.com/servis-automat/servis/internal/domain/shared/events"
	"github.com/servis-automat/servis/internal/domain/ticket"
	vo "github.com/servis-automat/servis/internal/domain/ticket/valueobjects"
	"github.com/servis-automat/servis/internal/domain/user"
	"github.com/servis-automat/servis/internal/infrastructure/storage"
	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/biztime"
	"github.com/servis-automat/servis/internal/shared/db"
	"github.com/servis-automat/servis/internal/shared/errors"
	"github.com/servis-automat/servis/internal/shared/logger"
)

// AttachmentInput is one uploaded file, already decoded.
type AttachmentInput struct {
	Filename string
	MimeType string
	Data     []byte
}

type CreateTicketCommand struct {
	Identity             authorization.Identity
	ClubID               uint
	MachineID            uint
	Title                string
	Description          string
	EmployeeName         string
	Manufacturer         string
	GameName             string
	CanPlay              string
	AssignedTechnicianID *uint
	Attachments          []AttachmentInput
}

type CreateTicketResult struct {
	Ticket          *dto.TicketDTO       `json:"ticket"`
	PartialFailures []dto.PartialFailure `json:"partial_failures"`
}

type CreateTicketUseCase struct {
	ticketRepo     ticket.TicketRepository
	historyRepo    ticket.HistoryRepository
	attachmentRepo ticket.AttachmentRepository
	clubRepo       club.Repository
	userRepo       user.Repository
	numbers        ticket.NumberGenerator
	policy         permission.Policy
	txMgr          TxManager
	blobs          BlobStore
	publisher      events.EventPublisher
	enricher       *Enricher
	blobTimeout    time.Duration
	logger         logger.Interface
	now            func() time.Time
}

func NewCreateTicketUseCase(
	ticketRepo ticket.TicketRepository,
	historyRepo ticket.HistoryRepository,
	attachmentRepo ticket.AttachmentRepository,
	clubRepo club.Repository,
	userRepo user.Repository,
	numbers ticket.NumberGenerator,
	policy permission.Policy,
	txMgr TxManager,
	blobs BlobStore,
	publisher events.EventPublisher,
	enricher *Enricher,
	blobTimeout time.Duration,
	logger logger.Interface,
) *CreateTicketUseCase {
	return &CreateTicketUseCase{
		ticketRepo:     ticketRepo,
		historyRepo:    historyRepo,
		attachmentRepo: attachmentRepo,
		clubRepo:       clubRepo,
		userRepo:       userRepo,
		numbers:        numbers,
		policy:         policy,
		txMgr:          txMgr,
		blobs:          blobs,
		publisher:      publisher,
		enricher:       enricher,
		blobTimeout:    blobTimeout,
		logger:         logger,
		now:            biztime.NowUTC,
	}
}

func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*CreateTicketResult, error) {
	uc.logger.Infow("executing create ticket use case",
		"user_id", cmd.Identity.SubjectID,
		"club_id", cmd.ClubID,
		"machine_id", cmd.MachineID,
	)

	now := uc.now()
	t, err := ticket.NewTicket(ticket.NewTicketParams{
		ClubID:          cmd.ClubID,
		MachineID:       cmd.MachineID,
		Title:           cmd.Title,
		Description:     cmd.Description,
		EmployeeName:    cmd.EmployeeName,
		Manufacturer:    cmd.Manufacturer,
		GameName:        cmd.GameName,
		CanPlay:         cmd.CanPlay,
		CreatedByUserID: cmd.Identity.SubjectID,
	}, now)
	if err != nil {
		uc.logger.Warnw("invalid create ticket command", "error", err)
		return nil, translateTicketError(err)
	}

	if !uc.policy.CanPerform(cmd.Identity, permission.ActionCreateTicket, permission.NewTicketResource(cmd.ClubID)) {
		uc.logger.Warnw("ticket creation denied",
			"user_id", cmd.Identity.SubjectID,
			"role", cmd.Identity.Role,
			"club_id", cmd.ClubID,
		)
		return nil, errors.NewForbiddenError("not allowed to create tickets for this club")
	}

	if err := uc.checkMachine(ctx, cmd.ClubID, cmd.MachineID); err != nil {
		return nil, err
	}

	if err := uc.preassign(ctx, t, cmd.AssignedTechnicianID); err != nil {
		return nil, err
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		number, err := uc.numbers.Generate(txCtx, now)
		if err != nil {
			return fmt.Errorf("failed to allocate request number: %w", err)
		}
		if err := t.SetRequestNumber(number); err != nil {
			return err
		}
		if err := uc.ticketRepo.Create(txCtx, t); err != nil {
			return err
		}
		entry := ticket.NewStatusHistoryEntry(t.ID(), nil, vo.StatusNew, ticket.CreationComment(t.Title()), t.CreatedByUserID(), now)
		return uc.historyRepo.Append(txCtx, entry)
	})
	if err != nil {
		uc.logger.Errorw("failed to create ticket", "club_id", cmd.ClubID, "error", err)
		return nil, errors.FromStoreError(err, "failed to create ticket")
	}

	failures := uc.storeAttachments(ctx, t.ID(), now, cmd.Attachments)

	if err := uc.publisher.Publish(ticket.NewTicketCreatedEvent(t, now)); err != nil {
		uc.logger.Warnw("failed to publish ticket created event", "ticket_id", t.ID(), "error", err)
		failures = append(failures, dto.PartialFailure{
			Kind:   dto.FailureKindNotification,
			Target: ticket.EventTypeTicketCreated,
			Reason: err.Error(),
		})
	}

	result, err := uc.enricher.EnrichOne(ctx, t)
	if err != nil {
		uc.logger.Warnw("failed to enrich created ticket", "ticket_id", t.ID(), "error", err)
		result = dto.FromTicket(t)
	}

	uc.logger.Infow("ticket created successfully",
		"ticket_id", t.ID(),
		"request_number", t.RequestNumber(),
		"partial_failures", len(failures),
	)

	return &CreateTicketResult{Ticket: result, PartialFailures: failures}, nil
}

func (uc *CreateTicketUseCase) checkMachine(ctx context.Context, clubID, machineID uint) error {
	m, err := uc.clubRepo.GetMachine(ctx, machineID)
	if err != nil {
		uc.logger.Errorw("failed to load machine", "machine_id", machineID, "error", err)
		return errors.FromStoreError(err, "failed to load machine")
	}
	if m == nil || m.ClubID != clubID {
		return errors.NewValidationError("invalid fields: machine_id", "machine_id: does not belong to the club")
	}
	return nil
}

// preassign keeps the requested technician only when that user exists and is
// a technician.
func (uc *CreateTicketUseCase) preassign(ctx context.Context, t *ticket.Ticket, technicianID *uint) error {
	if technicianID == nil || *technicianID == 0 {
		return nil
	}
	u, err := uc.userRepo.GetByID(ctx, *technicianID)
	if err != nil {
		uc.logger.Errorw("failed to load technician", "user_id", *technicianID, "error", err)
		return errors.FromStoreError(err, "failed to load technician")
	}
	if u == nil || !u.IsTechnician() {
		uc.logger.Infow("ignoring preassignment to non-technician", "user_id", *technicianID)
		return nil
	}
	t.PreassignTechnician(u.ID())
	return nil
}

func (uc *CreateTicketUseCase) storeAttachments(ctx context.Context, ticketID uint, now time.Time, inputs []AttachmentInput) []dto.PartialFailure {
	failures := []dto.PartialFailure{}
	for _, in := range inputs {
		if err := uc.storeAttachment(ctx, ticketID, now, in); err != nil {
			uc.logger.Warnw("failed to store attachment",
				"ticket_id", ticketID,
				"filename", in.Filename,
				"error", err,
			)
			failures = append(failures, dto.PartialFailure{
				Kind:   dto.FailureKindAttachment,
				Target: in.Filename,
				Reason: err.Error(),
			})
		}
	}
	return failures
}

func (uc *CreateTicketUseCase) storeAttachment(ctx context.Context, ticketID uint, now time.Time, in AttachmentInput) error {
	if len(in.Data) == 0 {
		return fmt.Errorf("attachment is empty")
	}
	filename := storage.SanitizeFilename(in.Filename)
	key := fmt.Sprintf("tickets/%d/%d-%s-%s", ticketID, now.UnixMilli(), uuid.NewString(), filename)

	putCtx, cancel := db.WithQueryTimeout(ctx, uc.blobTimeout)
	url, err := uc.blobs.Put(putCtx, key, in.Data, in.MimeType)
	cancel()
	if err != nil {
		return err
	}

	return uc.attachmentRepo.Create(ctx, &ticket.Attachment{
		TicketID:  ticketID,
		FileURL:   url,
		Filename:  filename,
		MimeType:  in.MimeType,
		SizeBytes: int64(len(in.Data)),
		CreatedAt: now,
	})
}
