package mappers

import (
	"fmt"
	"time"

	"github.com/servis-automat/servis/internal/domain/ticket"
	vo "github.com/servis-automat/servis/internal/domain/ticket/valueobjects"
	"github.com/servis-automat/servis/internal/infrastructure/persistence/models"
)

// TicketMapper handles the conversion between ticket aggregates, history
// entries and attachments and their persistence models.
type TicketMapper interface {
	ToModel(t *ticket.Ticket) *models.TicketModel
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)
	ToDomainList(models []*models.TicketModel) ([]*ticket.Ticket, error)

	HistoryToModel(e *ticket.StatusHistoryEntry) *models.TicketStatusHistoryModel
	HistoryToDomain(model *models.TicketStatusHistoryModel) (*ticket.StatusHistoryEntry, error)

	AttachmentToModel(a *ticket.Attachment) *models.TicketAttachmentModel
	AttachmentToDomain(model *models.TicketAttachmentModel) *ticket.Attachment
}

// TicketMapperImpl is the concrete implementation of TicketMapper.
type TicketMapperImpl struct{}

// NewTicketMapper creates a new TicketMapper.
func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	model := &models.TicketModel{
		ID:                   t.ID(),
		RequestNumber:        t.RequestNumber(),
		ClubID:               t.ClubID(),
		MachineID:            t.MachineID(),
		Title:                t.Title(),
		Description:          t.Description(),
		Status:               t.Status().String(),
		EmployeeName:         t.EmployeeName(),
		Manufacturer:         t.Manufacturer(),
		GameName:             t.GameName(),
		CanPlay:              t.CanPlay().String(),
		AssignedTechnicianID: t.AssignedTechnicianID(),
		CreatedByUserID:      t.CreatedByUserID(),
		Comments:             t.Comments(),
		CreatedAt:            t.CreatedAt().UnixMilli(),
		UpdatedAt:            t.UpdatedAt().UnixMilli(),
	}

	if t.ClosedAt() != nil {
		closed := t.ClosedAt().UnixMilli()
		model.ClosedAt = &closed
	}

	return model
}

// ToDomain accepts legacy status and can_play spellings and normalizes them.
func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	if model == nil {
		return nil, nil
	}

	status, err := vo.NewTicketStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("ticket %d: %w", model.ID, err)
	}
	canPlay, err := vo.NewCanPlay(model.CanPlay)
	if err != nil {
		return nil, fmt.Errorf("ticket %d: %w", model.ID, err)
	}

	var closedAt *time.Time
	if model.ClosedAt != nil {
		c := millisToTime(*model.ClosedAt)
		closedAt = &c
	}

	return ticket.ReconstructTicket(
		model.ID,
		model.RequestNumber,
		model.ClubID,
		model.MachineID,
		model.Title,
		model.Description,
		status,
		model.EmployeeName,
		model.Manufacturer,
		model.GameName,
		canPlay,
		model.AssignedTechnicianID,
		model.CreatedByUserID,
		model.Comments,
		millisToTime(model.CreatedAt),
		millisToTime(model.UpdatedAt),
		closedAt,
	)
}

func (m *TicketMapperImpl) ToDomainList(list []*models.TicketModel) ([]*ticket.Ticket, error) {
	out := make([]*ticket.Ticket, 0, len(list))
	for _, model := range list {
		t, err := m.ToDomain(model)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *TicketMapperImpl) HistoryToModel(e *ticket.StatusHistoryEntry) *models.TicketStatusHistoryModel {
	model := &models.TicketStatusHistoryModel{
		ID:        e.ID,
		TicketID:  e.TicketID,
		NewStatus: e.NewStatus.String(),
		Comment:   e.Comment,
		ChangedBy: e.ChangedBy,
		CreatedAt: e.CreatedAt.UnixMilli(),
	}
	if e.OldStatus != nil {
		old := e.OldStatus.String()
		model.OldStatus = &old
	}
	return model
}

func (m *TicketMapperImpl) HistoryToDomain(model *models.TicketStatusHistoryModel) (*ticket.StatusHistoryEntry, error) {
	newStatus, err := vo.NewTicketStatus(model.NewStatus)
	if err != nil {
		return nil, fmt.Errorf("history entry %d: %w", model.ID, err)
	}

	var oldStatus *vo.TicketStatus
	if model.OldStatus != nil {
		old, err := vo.NewTicketStatus(*model.OldStatus)
		if err != nil {
			return nil, fmt.Errorf("history entry %d: %w", model.ID, err)
		}
		oldStatus = &old
	}

	entry := ticket.NewStatusHistoryEntry(model.TicketID, oldStatus, newStatus, model.Comment, model.ChangedBy, millisToTime(model.CreatedAt))
	entry.ID = model.ID
	return entry, nil
}

func (m *TicketMapperImpl) AttachmentToModel(a *ticket.Attachment) *models.TicketAttachmentModel {
	return &models.TicketAttachmentModel{
		ID:        a.ID,
		TicketID:  a.TicketID,
		FileURL:   a.FileURL,
		Filename:  a.Filename,
		MimeType:  a.MimeType,
		SizeBytes: a.SizeBytes,
	}
}

func (m *TicketMapperImpl) AttachmentToDomain(model *models.TicketAttachmentModel) *ticket.Attachment {
	return &ticket.Attachment{
		ID:        model.ID,
		TicketID:  model.TicketID,
		FileURL:   model.FileURL,
		Filename:  model.Filename,
		MimeType:  model.MimeType,
		SizeBytes: model.SizeBytes,
		CreatedAt: millisToTime(model.CreatedAt),
	}
}

func millisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
