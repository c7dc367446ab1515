package models

import (
	"github.com/servis-automat/servis/internal/shared/constants"
)

type TicketModel struct {
	ID                   uint   `gorm:"primaryKey"`
	RequestNumber        string `gorm:"uniqueIndex;size:32;not null"`
	ClubID               uint   `gorm:"not null;index"`
	MachineID            uint   `gorm:"not null;index"`
	Title                string `gorm:"size:200;not null"`
	Description          string `gorm:"type:text"`
	Status               string `gorm:"size:20;not null;index"`
	EmployeeName         string `gorm:"size:100;not null"`
	Manufacturer         string `gorm:"size:100;not null"`
	GameName             string `gorm:"size:100;not null"`
	CanPlay              string `gorm:"size:3;not null"`
	AssignedTechnicianID *uint  `gorm:"index"`
	CreatedByUserID      uint   `gorm:"not null;index"`
	Comments             string `gorm:"type:text"`
	CreatedAt            int64  `gorm:"not null;index"`
	UpdatedAt            int64  `gorm:"not null"`
	ClosedAt             *int64

	// Note: No foreign key constraints or associations.
	// All relationships are managed by application business logic.
}

func (TicketModel) TableName() string {
	return constants.TableTickets
}

// TicketStatusHistoryModel is append-only. OldStatus is NULL for the entry
// written at creation.
type TicketStatusHistoryModel struct {
	ID        uint    `gorm:"primaryKey"`
	TicketID  uint    `gorm:"not null;index:idx_history_ticket_created"`
	OldStatus *string `gorm:"size:20"`
	NewStatus string  `gorm:"size:20;not null"`
	Comment   string  `gorm:"type:text;not null"`
	ChangedBy uint    `gorm:"not null"`
	CreatedAt int64   `gorm:"not null;index:idx_history_ticket_created"`
}

func (TicketStatusHistoryModel) TableName() string {
	return constants.TableTicketStatusHistory
}

type TicketAttachmentModel struct {
	ID        uint   `gorm:"primaryKey"`
	TicketID  uint   `gorm:"not null;index"`
	FileURL   string `gorm:"size:500;not null"`
	Filename  string `gorm:"size:255;not null"`
	MimeType  string `gorm:"size:100"`
	SizeBytes int64  `gorm:"not null"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;not null"`
}

func (TicketAttachmentModel) TableName() string {
	return constants.TableTicketAttachments
}

// RequestNumberSequenceModel holds the last request number issued on a
// business day (YYYYMMDD).
type RequestNumberSequenceModel struct {
	Day       string `gorm:"primaryKey;size:8"`
	LastValue int64  `gorm:"not null"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (RequestNumberSequenceModel) TableName() string {
	return constants.TableRequestNumberSequences
}
