package ticket

import (
	"time"

	vo "github.com/servis-automat/servis/internal/domain/ticket/valueobjects"
)

// StatusHistoryEntry is an immutable record of one status change. OldStatus is
// nil only for the entry written at creation.
type StatusHistoryEntry struct {
	ID        uint
	TicketID  uint
	OldStatus *vo.TicketStatus
	NewStatus vo.TicketStatus
	Comment   string
	ChangedBy uint
	CreatedAt time.Time
}

func NewStatusHistoryEntry(ticketID uint, oldStatus *vo.TicketStatus, newStatus vo.TicketStatus, comment string, changedBy uint, at time.Time) *StatusHistoryEntry {
	return &StatusHistoryEntry{
		TicketID:  ticketID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Comment:   comment,
		ChangedBy: changedBy,
		CreatedAt: at.UTC(),
	}
}

// CreationComment is the history comment of the initial entry.
func CreationComment(title string) string {
	return "Ticket created: " + title
}

// ReplayStatuses returns the status sequence described by entries ordered
// oldest first, starting from the creation entry.
func ReplayStatuses(entries []*StatusHistoryEntry) []vo.TicketStatus {
	out := make([]vo.TicketStatus, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.NewStatus)
	}
	return out
}
