package ticket

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	vo "github.com/servis-automat/servis/internal/domain/ticket/valueobjects"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 5000
	maxShortFieldLength  = 100
)

// Ticket is a repair request for one machine in one club. Its status only
// changes through TransitionTo, and closedAt is set exactly when the status is
// closed.
type Ticket struct {
	id                   uint
	requestNumber        string
	clubID               uint
	machineID            uint
	title                string
	description          string
	status               vo.TicketStatus
	employeeName         string
	manufacturer         string
	gameName             string
	canPlay              vo.CanPlay
	assignedTechnicianID *uint
	createdByUserID      uint
	comments             string
	createdAt            time.Time
	updatedAt            time.Time
	closedAt             *time.Time
}

// NewTicketParams carries the caller-supplied fields of a new ticket.
type NewTicketParams struct {
	ClubID          uint
	MachineID       uint
	Title           string
	Description     string
	EmployeeName    string
	Manufacturer    string
	GameName        string
	CanPlay         string
	CreatedByUserID uint
}

// NewTicket validates params and returns a ticket in status new. Every missing
// or malformed field is reported in a single *InvalidFieldsError.
func NewTicket(p NewTicketParams, now time.Time) (*Ticket, error) {
	verr := &InvalidFieldsError{}

	if p.ClubID == 0 {
		verr.add("club_id", "is required")
	}
	if p.MachineID == 0 {
		verr.add("machine_id", "is required")
	}
	title := strings.TrimSpace(p.Title)
	switch {
	case title == "":
		verr.add("title", "is required")
	case utf8.RuneCountInString(title) > maxTitleLength:
		verr.add("title", fmt.Sprintf("must be at most %d characters", maxTitleLength))
	}
	description := strings.TrimSpace(p.Description)
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		verr.add("description", fmt.Sprintf("must be at most %d characters", maxDescriptionLength))
	}
	employeeName := requireShort(verr, "employee_name", p.EmployeeName)
	manufacturer := requireShort(verr, "manufacturer", p.Manufacturer)
	gameName := requireShort(verr, "game_name", p.GameName)

	var canPlay vo.CanPlay
	if strings.TrimSpace(p.CanPlay) == "" {
		verr.add("can_play", "is required")
	} else if cp, err := vo.NewCanPlay(p.CanPlay); err != nil {
		verr.add("can_play", "must be yes or no")
	} else {
		canPlay = cp
	}
	if p.CreatedByUserID == 0 {
		verr.add("created_by_user_id", "is required")
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}

	now = now.UTC()
	return &Ticket{
		clubID:          p.ClubID,
		machineID:       p.MachineID,
		title:           title,
		description:     description,
		status:          vo.StatusNew,
		employeeName:    employeeName,
		manufacturer:    manufacturer,
		gameName:        gameName,
		canPlay:         canPlay,
		createdByUserID: p.CreatedByUserID,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

func requireShort(verr *InvalidFieldsError, field, value string) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		verr.add(field, "is required")
	case utf8.RuneCountInString(value) > maxShortFieldLength:
		verr.add(field, fmt.Sprintf("must be at most %d characters", maxShortFieldLength))
	}
	return value
}

// ReconstructTicket rebuilds a persisted ticket.
func ReconstructTicket(
	id uint,
	requestNumber string,
	clubID, machineID uint,
	title, description string,
	status vo.TicketStatus,
	employeeName, manufacturer, gameName string,
	canPlay vo.CanPlay,
	assignedTechnicianID *uint,
	createdByUserID uint,
	comments string,
	createdAt, updatedAt time.Time,
	closedAt *time.Time,
) (*Ticket, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if requestNumber == "" {
		return nil, fmt.Errorf("request number is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	return &Ticket{
		id:                   id,
		requestNumber:        requestNumber,
		clubID:               clubID,
		machineID:            machineID,
		title:                title,
		description:          description,
		status:               status,
		employeeName:         employeeName,
		manufacturer:         manufacturer,
		gameName:             gameName,
		canPlay:              canPlay,
		assignedTechnicianID: assignedTechnicianID,
		createdByUserID:      createdByUserID,
		comments:             comments,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
		closedAt:             closedAt,
	}, nil
}

func (t *Ticket) ID() uint                    { return t.id }
func (t *Ticket) RequestNumber() string       { return t.requestNumber }
func (t *Ticket) ClubID() uint                { return t.clubID }
func (t *Ticket) MachineID() uint             { return t.machineID }
func (t *Ticket) Title() string               { return t.title }
func (t *Ticket) Description() string         { return t.description }
func (t *Ticket) Status() vo.TicketStatus     { return t.status }
func (t *Ticket) EmployeeName() string        { return t.employeeName }
func (t *Ticket) Manufacturer() string        { return t.manufacturer }
func (t *Ticket) GameName() string            { return t.gameName }
func (t *Ticket) CanPlay() vo.CanPlay         { return t.canPlay }
func (t *Ticket) AssignedTechnicianID() *uint { return t.assignedTechnicianID }
func (t *Ticket) CreatedByUserID() uint       { return t.createdByUserID }
func (t *Ticket) Comments() string            { return t.comments }
func (t *Ticket) CreatedAt() time.Time        { return t.createdAt }
func (t *Ticket) UpdatedAt() time.Time        { return t.updatedAt }
func (t *Ticket) ClosedAt() *time.Time        { return t.closedAt }

// IsAssignedTo reports whether userID is the ticket's technician.
func (t *Ticket) IsAssignedTo(userID uint) bool {
	return t.assignedTechnicianID != nil && *t.assignedTechnicianID == userID
}

func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	return nil
}

// SetRequestNumber assigns the allocated request number once.
func (t *Ticket) SetRequestNumber(number string) error {
	if t.requestNumber != "" {
		return fmt.Errorf("request number is already set")
	}
	if number == "" {
		return fmt.Errorf("request number cannot be empty")
	}
	t.requestNumber = number
	return nil
}

// PreassignTechnician sets the technician chosen at creation. The caller has
// already checked that technicianID names a technician.
func (t *Ticket) PreassignTechnician(technicianID uint) {
	if technicianID == 0 {
		return
	}
	t.assignedTechnicianID = &technicianID
}

// TransitionTo moves the ticket along one workflow edge and returns the history
// entry describing the change. Nothing is modified on error.
func (t *Ticket) TransitionTo(newStatus vo.TicketStatus, comment string, changedBy uint, now time.Time) (*StatusHistoryEntry, error) {
	if !newStatus.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, newStatus)
	}
	if !t.status.CanTransitionTo(newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.status, newStatus)
	}
	if err := ValidateTransitionComment(comment); err != nil {
		return nil, err
	}

	now = now.UTC()
	oldStatus := t.status
	t.status = newStatus
	t.updatedAt = now
	if newStatus.IsClosed() {
		t.closedAt = &now
	}

	return NewStatusHistoryEntry(t.id, &oldStatus, newStatus, strings.TrimSpace(comment), changedBy, now), nil
}

// ValidateTransitionComment enforces the minimum comment length, counted in
// characters after trimming.
func ValidateTransitionComment(comment string) error {
	if utf8.RuneCountInString(strings.TrimSpace(comment)) < MinTransitionCommentLength {
		return ErrMissingComment
	}
	return nil
}

// AssignTechnician replaces the assigned technician. Status is unchanged.
func (t *Ticket) AssignTechnician(technicianID uint, now time.Time) error {
	if technicianID == 0 {
		return fmt.Errorf("technician ID cannot be zero")
	}
	if t.status.IsClosed() {
		return ErrTicketClosed
	}
	t.assignedTechnicianID = &technicianID
	t.updatedAt = now.UTC()
	return nil
}

// AppendComment adds a timestamped line to the comment log and returns the
// appended fragment.
func (t *Ticket) AppendComment(author, text string, now time.Time) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyComment
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return "", ErrCommentTooLong
	}

	now = now.UTC()
	entry := FormatCommentEntry(author, text, now)
	if t.comments == "" {
		t.comments = entry
	} else {
		t.comments += "\n\n" + entry
	}
	t.updatedAt = now
	return entry, nil
}

// FormatCommentEntry renders one comment log line.
func FormatCommentEntry(author, text string, at time.Time) string {
	return fmt.Sprintf("[%s] %s: %s", at.UTC().Format(time.RFC3339), author, text)
}
