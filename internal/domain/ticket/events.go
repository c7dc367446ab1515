package ticket

import (
	"strconv"
	"time"

	"github.com/servis-automat/servis/internal/domain/shared/events"
)

const (
	EventTypeTicketCreated      = "ticket.created"
	EventTypeStatusChanged      = "ticket.status_changed"
	EventTypeTechnicianAssigned = "ticket.technician_assigned"
)

type TicketCreatedEvent struct {
	events.Meta
	TicketID        uint   `json:"ticket_id"`
	RequestNumber   string `json:"request_number"`
	Title           string `json:"title"`
	ClubID          uint   `json:"club_id"`
	MachineID       uint   `json:"machine_id"`
	EmployeeName    string `json:"employee_name"`
	CreatedByUserID uint   `json:"created_by_user_id"`
	AssignedTo      *uint  `json:"assigned_technician_id,omitempty"`
}

func NewTicketCreatedEvent(t *Ticket, at time.Time) TicketCreatedEvent {
	return TicketCreatedEvent{
		Meta:            events.NewMeta(aggregateID(t.ID()), EventTypeTicketCreated, at),
		TicketID:        t.ID(),
		RequestNumber:   t.RequestNumber(),
		Title:           t.Title(),
		ClubID:          t.ClubID(),
		MachineID:       t.MachineID(),
		EmployeeName:    t.EmployeeName(),
		CreatedByUserID: t.CreatedByUserID(),
		AssignedTo:      t.AssignedTechnicianID(),
	}
}

type StatusChangedEvent struct {
	events.Meta
	TicketID        uint   `json:"ticket_id"`
	RequestNumber   string `json:"request_number"`
	Title           string `json:"title"`
	ClubID          uint   `json:"club_id"`
	OldStatus       string `json:"old_status"`
	NewStatus       string `json:"new_status"`
	Comment         string `json:"comment"`
	ChangedBy       uint   `json:"changed_by"`
	CreatedByUserID uint   `json:"created_by_user_id"`
	AssignedTo      *uint  `json:"assigned_technician_id,omitempty"`
}

func NewStatusChangedEvent(t *Ticket, entry *StatusHistoryEntry) StatusChangedEvent {
	old := ""
	if entry.OldStatus != nil {
		old = entry.OldStatus.String()
	}
	return StatusChangedEvent{
		Meta:            events.NewMeta(aggregateID(t.ID()), EventTypeStatusChanged, entry.CreatedAt),
		TicketID:        t.ID(),
		RequestNumber:   t.RequestNumber(),
		Title:           t.Title(),
		ClubID:          t.ClubID(),
		OldStatus:       old,
		NewStatus:       entry.NewStatus.String(),
		Comment:         entry.Comment,
		ChangedBy:       entry.ChangedBy,
		CreatedByUserID: t.CreatedByUserID(),
		AssignedTo:      t.AssignedTechnicianID(),
	}
}

type TechnicianAssignedEvent struct {
	events.Meta
	TicketID      uint   `json:"ticket_id"`
	RequestNumber string `json:"request_number"`
	Title         string `json:"title"`
	ClubID        uint   `json:"club_id"`
	TechnicianID  uint   `json:"technician_id"`
	AssignedBy    uint   `json:"assigned_by"`
}

func NewTechnicianAssignedEvent(t *Ticket, technicianID, assignedBy uint, at time.Time) TechnicianAssignedEvent {
	return TechnicianAssignedEvent{
		Meta:          events.NewMeta(aggregateID(t.ID()), EventTypeTechnicianAssigned, at),
		TicketID:      t.ID(),
		RequestNumber: t.RequestNumber(),
		Title:         t.Title(),
		ClubID:        t.ClubID(),
		TechnicianID:  technicianID,
		AssignedBy:    assignedBy,
	}
}

func aggregateID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
