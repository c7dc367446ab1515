package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/servis-automat/servis/internal/domain/ticket"
	vo "github.com/servis-automat/servis/internal/domain/ticket/valueobjects"
	"github.com/servis-automat/servis/internal/infrastructure/persistence/mappers"
	"github.com/servis-automat/servis/internal/infrastructure/persistence/models"
	"github.com/servis-automat/servis/internal/shared/constants"
	"github.com/servis-automat/servis/internal/shared/db"
)

var _ ticket.TicketRepository = (*TicketRepository)(nil)

type TicketRepository struct {
	db      *gorm.DB
	mapper  mappers.TicketMapper
	timeout time.Duration
}

func NewTicketRepository(db *gorm.DB, timeout time.Duration) *TicketRepository {
	return &TicketRepository{
		db:      db,
		mapper:  mappers.NewTicketMapper(),
		timeout: timeout,
	}
}

func (r *TicketRepository) GetByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	var model models.TicketModel
	if err := conn.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	if t.RequestNumber() == "" {
		return fmt.Errorf("ticket has no request number")
	}

	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	model := r.mapper.ToModel(t)
	if err := conn.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	return t.SetID(model.ID)
}

func (r *TicketRepository) UpdateStatus(ctx context.Context, t *ticket.Ticket, expected vo.TicketStatus) error {
	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	updates := map[string]interface{}{
		"status":     t.Status().String(),
		"updated_at": t.UpdatedAt().UnixMilli(),
		"closed_at":  nil,
	}
	if t.ClosedAt() != nil {
		updates["closed_at"] = t.ClosedAt().UnixMilli()
	}

	result := conn.Model(&models.TicketModel{}).
		Where("id = ? AND status = ?", t.ID(), expected.String()).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update ticket status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ticket.ErrConcurrentModification
	}

	return nil
}

// UpdateAssignee refuses to touch a ticket that was closed in the meantime.
func (r *TicketRepository) UpdateAssignee(ctx context.Context, t *ticket.Ticket) error {
	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	result := conn.Model(&models.TicketModel{}).
		Where("id = ? AND status <> ?", t.ID(), vo.StatusClosed.String()).
		Updates(map[string]interface{}{
			"assigned_technician_id": t.AssignedTechnicianID(),
			"updated_at":             t.UpdatedAt().UnixMilli(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update ticket assignee: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ticket.ErrConcurrentModification
	}

	return nil
}

func (r *TicketRepository) UpdateComments(ctx context.Context, t *ticket.Ticket, previous string) error {
	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	result := conn.Model(&models.TicketModel{}).
		Where("id = ? AND comments = ?", t.ID(), previous).
		Updates(map[string]interface{}{
			"comments":   t.Comments(),
			"updated_at": t.UpdatedAt().UnixMilli(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update ticket comments: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ticket.ErrConcurrentModification
	}

	return nil
}

func (r *TicketRepository) List(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	query := applyTicketFilter(conn.Model(&models.TicketModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	if total == 0 {
		return []*ticket.Ticket{}, 0, nil
	}

	var ticketModels []*models.TicketModel
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Scopes(db.Paginate(filter.Page, filter.PageSize, constants.DefaultPageSize)).
		Find(&ticketModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}

	tickets, err := r.mapper.ToDomainList(ticketModels)
	if err != nil {
		return nil, 0, err
	}

	return tickets, total, nil
}

func (r *TicketRepository) CountByStatus(ctx context.Context, filter ticket.TicketFilter) ([]ticket.StatusCount, error) {
	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	var rows []struct {
		ClubID uint
		Status string
		Count  int64
	}
	if err := applyTicketFilter(conn.Model(&models.TicketModel{}), filter).
		Select("club_id, status, COUNT(*) AS count").
		Group("club_id, status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count tickets by status: %w", err)
	}

	counts := make([]ticket.StatusCount, 0, len(rows))
	for _, row := range rows {
		status, err := vo.NewTicketStatus(row.Status)
		if err != nil {
			return nil, err
		}
		counts = append(counts, ticket.StatusCount{ClubID: row.ClubID, Status: status, Count: row.Count})
	}

	return counts, nil
}

func (r *TicketRepository) CountByCreator(ctx context.Context, userID uint) (int64, error) {
	return r.countWhere(ctx, "created_by_user_id = ?", userID)
}

func (r *TicketRepository) CountByTechnician(ctx context.Context, userID uint) (int64, error) {
	return r.countWhere(ctx, "assigned_technician_id = ?", userID)
}

func (r *TicketRepository) countWhere(ctx context.Context, cond string, args ...interface{}) (int64, error) {
	conn, cancel := db.Conn(ctx, r.db, r.timeout)
	defer cancel()

	var n int64
	if err := conn.Model(&models.TicketModel{}).Where(cond, args...).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return n, nil
}

// applyTicketFilter translates a TicketFilter into parameterized conditions.
// The scope is always applied; an empty scope matches no rows.
func applyTicketFilter(query *gorm.DB, filter ticket.TicketFilter) *gorm.DB {
	switch filter.Scope.Kind() {
	case ticket.ScopeAll:
	case ticket.ScopeClub:
		query = query.Where("club_id = ?", filter.Scope.ID())
	case ticket.ScopeTechnician:
		query = query.Where("assigned_technician_id = ?", filter.Scope.ID())
	default:
		query = query.Where("1 = 0")
	}

	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.ClubID != nil {
		query = query.Where("club_id = ?", *filter.ClubID)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", filter.CreatedFrom.UnixMilli())
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at < ?", filter.CreatedTo.UnixMilli())
	}

	return query
}
