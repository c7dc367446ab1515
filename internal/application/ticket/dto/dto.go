package dto

import (
	"time"

	"github.com/servis-automat/servis/internal/domain/club"
	"github.com/servis-automat/servis/internal/domain/ticket"
	"github.com/servis-automat/servis/internal/domain/user"
)

type ClubRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	City string `json:"city,omitempty"`
}

type MachineRef struct {
	ID     uint   `json:"id"`
	Number string `json:"number"`
	Model  string `json:"model"`
	Label  string `json:"label"`
}

type UserRef struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AttachmentDTO struct {
	ID        uint      `json:"id"`
	FileURL   string    `json:"file_url"`
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketDTO is a ticket with its related records resolved. A ref is nil when
// the related row no longer exists.
type TicketDTO struct {
	ID                   uint            `json:"id"`
	RequestNumber        string          `json:"request_number"`
	ClubID               uint            `json:"club_id"`
	MachineID            uint            `json:"machine_id"`
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	Status               string          `json:"status"`
	StatusLabel          string          `json:"status_label"`
	EmployeeName         string          `json:"employee_name"`
	Manufacturer         string          `json:"manufacturer"`
	GameName             string          `json:"game_name"`
	CanPlay              string          `json:"can_play"`
	AssignedTechnicianID *uint           `json:"assigned_technician_id"`
	CreatedByUserID      uint            `json:"created_by_user_id"`
	Comments             string          `json:"comments"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
	ClosedAt             *time.Time      `json:"closed_at"`
	Club                 *ClubRef        `json:"club"`
	Machine              *MachineRef     `json:"machine"`
	CreatedBy            *UserRef        `json:"created_by"`
	AssignedTechnician   *UserRef        `json:"assigned_technician"`
	Attachments          []AttachmentDTO `json:"attachments"`
}

// TicketDetailDTO adds the status history, newest first.
type TicketDetailDTO struct {
	TicketDTO
	History []*HistoryEntryDTO `json:"history"`
}

type HistoryEntryDTO struct {
	ID        uint      `json:"id"`
	TicketID  uint      `json:"ticket_id"`
	OldStatus *string   `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Comment   string    `json:"comment"`
	ChangedBy uint      `json:"changed_by"`
	Changer   *UserRef  `json:"changer"`
	CreatedAt time.Time `json:"created_at"`
}

// PartialFailure reports a side effect that failed after the primary write
// committed.
type PartialFailure struct {
	Kind   string `json:"kind"`
	Target string `json:"target"`
	Reason string `json:"reason"`
}

const (
	FailureKindAttachment   = "attachment"
	FailureKindNotification = "notification"
)

type ClubStatsDTO struct {
	ClubID   uint             `json:"club_id"`
	ClubName string           `json:"club_name"`
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
}

type DashboardStatsDTO struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"by_status"`
	ByClub   []ClubStatsDTO   `json:"by_club,omitempty"`
}

// FromTicket maps the ticket's own fields. Refs and attachments are filled by
// the enricher.
func FromTicket(t *ticket.Ticket) *TicketDTO {
	if t == nil {
		return nil
	}
	return &TicketDTO{
		ID:                   t.ID(),
		RequestNumber:        t.RequestNumber(),
		ClubID:               t.ClubID(),
		MachineID:            t.MachineID(),
		Title:                t.Title(),
		Description:          t.Description(),
		Status:               t.Status().String(),
		StatusLabel:          t.Status().Label(),
		EmployeeName:         t.EmployeeName(),
		Manufacturer:         t.Manufacturer(),
		GameName:             t.GameName(),
		CanPlay:              t.CanPlay().String(),
		AssignedTechnicianID: t.AssignedTechnicianID(),
		CreatedByUserID:      t.CreatedByUserID(),
		Comments:             t.Comments(),
		CreatedAt:            t.CreatedAt(),
		UpdatedAt:            t.UpdatedAt(),
		ClosedAt:             t.ClosedAt(),
		Attachments:          []AttachmentDTO{},
	}
}

func FromHistoryEntry(e *ticket.StatusHistoryEntry) *HistoryEntryDTO {
	if e == nil {
		return nil
	}
	out := &HistoryEntryDTO{
		ID:        e.ID,
		TicketID:  e.TicketID,
		NewStatus: e.NewStatus.String(),
		Comment:   e.Comment,
		ChangedBy: e.ChangedBy,
		CreatedAt: e.CreatedAt,
	}
	if e.OldStatus != nil {
		old := e.OldStatus.String()
		out.OldStatus = &old
	}
	return out
}

func FromHistory(entries []*ticket.StatusHistoryEntry) []*HistoryEntryDTO {
	out := make([]*HistoryEntryDTO, 0, len(entries))
	for _, e := range entries {
		if e != nil {
			out = append(out, FromHistoryEntry(e))
		}
	}
	return out
}

func FromAttachment(a *ticket.Attachment) AttachmentDTO {
	return AttachmentDTO{
		ID:        a.ID,
		FileURL:   a.FileURL,
		Filename:  a.Filename,
		MimeType:  a.MimeType,
		SizeBytes: a.SizeBytes,
		CreatedAt: a.CreatedAt,
	}
}

func NewClubRef(c *club.Club) *ClubRef {
	if c == nil {
		return nil
	}
	return &ClubRef{ID: c.ID, Name: c.Name, City: c.City}
}

func NewMachineRef(m *club.Machine) *MachineRef {
	if m == nil {
		return nil
	}
	return &MachineRef{ID: m.ID, Number: m.Number, Model: m.Model, Label: m.Label()}
}

func NewUserRef(u *user.User) *UserRef {
	if u == nil {
		return nil
	}
	return &UserRef{ID: u.ID(), Name: u.Name(), Email: u.Email()}
}
