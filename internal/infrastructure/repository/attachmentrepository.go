package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/servis-automat/servis/internal/domain/ticket"
	"github.com/servis-automat/servis/internal/infrastructure/persistence/mappers"
	"github.com/servis-automat/servis/internal/infrastructure/persistence/models"
	"github.com/servis-automat/servis/internal/shared/db"
)

var _ ticket.AttachmentRepository = (*AttachmentRepository)(nil)

type AttachmentRepository struct {
	db      *gorm.DB
	mapper  mappers.TicketMapper
	timeout time.Duration
}

func NewAttachmentRepository(db *gorm.DB, timeout time.Duration) *AttachmentRepository {
	return &AttachmentRepository{
		db:      db,
		mapper:  mappers.NewTicketMapper(),
		timeout: timeout,
	}
}

func (r *AttachmentRepository) Create(ctx context.Context, a *ticket.Attachment) error {
	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	model := r.mapper.AttachmentToModel(a)
	if err := conn.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create attachment: %w", err)
	}

	a.ID = model.ID
	a.CreatedAt = time.UnixMilli(model.CreatedAt).UTC()
	return nil
}

func (r *AttachmentRepository) ListByTicketIDs(ctx context.Context, ticketIDs []uint) ([]*ticket.Attachment, error) {
	if len(ticketIDs) == 0 {
		return []*ticket.Attachment{}, nil
	}

	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	var attachmentModels []*models.TicketAttachmentModel
	if err := conn.
		Where("ticket_id IN ?", ticketIDs).
		Order("id ASC").
		Find(&attachmentModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}

	attachments := make([]*ticket.Attachment, 0, len(attachmentModels))
	for _, model := range attachmentModels {
		attachments = append(attachments, r.mapper.AttachmentToDomain(model))
	}

	return attachments, nil
}
