package ticket

import (
	"context"
	"errors"
	"time"

	vo "github.com/servis-automat/servis/internal/domain/ticket/valueobjects"
)

// ErrConcurrentModification is returned by conditional writes when the stored
// row no longer matches the state the caller read.
var ErrConcurrentModification = errors.New("ticket was modified concurrently")

type TicketRepository interface {
	// GetByID returns nil, nil when the ticket does not exist.
	GetByID(ctx context.Context, id uint) (*Ticket, error)
	// Create inserts t and sets its ID. The request number must already be set.
	Create(ctx context.Context, t *Ticket) error
	// UpdateStatus writes status, closed_at and updated_at only while the stored
	// status still equals expected. Otherwise it returns ErrConcurrentModification.
	UpdateStatus(ctx context.Context, t *Ticket, expected vo.TicketStatus) error
	UpdateAssignee(ctx context.Context, t *Ticket) error
	// UpdateComments writes the comment log only while the stored log equals
	// previous. Otherwise it returns ErrConcurrentModification.
	UpdateComments(ctx context.Context, t *Ticket, previous string) error
	// List returns one page of tickets matching filter, newest first, and the
	// total match count.
	List(ctx context.Context, filter TicketFilter) ([]*Ticket, int64, error)
	// CountByStatus groups the tickets matching filter by club and status.
	CountByStatus(ctx context.Context, filter TicketFilter) ([]StatusCount, error)
	CountByCreator(ctx context.Context, userID uint) (int64, error)
	CountByTechnician(ctx context.Context, userID uint) (int64, error)
}

type HistoryRepository interface {
	Append(ctx context.Context, entry *StatusHistoryEntry) error
	// ListByTicket returns the ticket's entries newest first.
	ListByTicket(ctx context.Context, ticketID uint) ([]*StatusHistoryEntry, error)
}

type AttachmentRepository interface {
	Create(ctx context.Context, a *Attachment) error
	ListByTicketIDs(ctx context.Context, ticketIDs []uint) ([]*Attachment, error)
}

// TicketFilter selects tickets. Scope is mandatory and is always conjoined
// with the optional fields.
type TicketFilter struct {
	Scope       Scope
	Status      *vo.TicketStatus
	ClubID      *uint
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Page        int
	PageSize    int
}

// Matches evaluates the filter against one ticket.
func (f TicketFilter) Matches(t *Ticket) bool {
	if !f.Scope.Permits(t) {
		return false
	}
	if f.Status != nil && t.Status() != *f.Status {
		return false
	}
	if f.ClubID != nil && t.ClubID() != *f.ClubID {
		return false
	}
	if f.CreatedFrom != nil && t.CreatedAt().Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && !t.CreatedAt().Before(*f.CreatedTo) {
		return false
	}
	return true
}

type StatusCount struct {
	ClubID uint
	Status vo.TicketStatus
	Count  int64
}
