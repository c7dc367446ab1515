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

var _ ticket.HistoryRepository = (*HistoryRepository)(nil)

// HistoryRepository stores the append-only status history of tickets.
type HistoryRepository struct {
	db      *gorm.DB
	mapper  mappers.TicketMapper
	timeout time.Duration
}

func NewHistoryRepository(db *gorm.DB, timeout time.Duration) *HistoryRepository {
	return &HistoryRepository{
		db:      db,
		mapper:  mappers.NewTicketMapper(),
		timeout: timeout,
	}
}

func (r *HistoryRepository) Append(ctx context.Context, entry *ticket.StatusHistoryEntry) error {
	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	model := r.mapper.HistoryToModel(entry)
	if err := conn.Create(model).Error; err != nil {
		return fmt.Errorf("failed to append status history: %w", err)
	}

	entry.ID = model.ID
	return nil
}

func (r *HistoryRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.StatusHistoryEntry, error) {
	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	var historyModels []*models.TicketStatusHistoryModel
	if err := conn.
		Where("ticket_id = ?", ticketID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&historyModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list status history: %w", err)
	}

	entries := make([]*ticket.StatusHistoryEntry, 0, len(historyModels))
	for _, model := range historyModels {
		entry, err := r.mapper.HistoryToDomain(model)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
