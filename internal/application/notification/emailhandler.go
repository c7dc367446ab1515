// Package notification turns ticket domain events into outbound messages.
package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/servis-automat/servis/internal/domain/shared/events"
	"github.com/servis-automat/servis/internal/domain/ticket"
	vo "github.com/servis-automat/servis/internal/domain/ticket/valueobjects"
	"github.com/servis-automat/servis/internal/domain/user"
	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/logger"
	"github.com/servis-automat/servis/internal/shared/services/markdown"
)

// Mailer delivers one message to a list of recipients.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, plainBody, htmlBody string) error
}

// TicketEmailHandler emails the people involved in a ticket event:
// admins on creation; admins, the assignee and the creator on a status
// change; the technician on assignment. The actor is never notified of
// their own change.
type TicketEmailHandler struct {
	userRepo  user.Repository
	mailer    Mailer
	renderer  markdown.Renderer
	publicURL string
	logger    logger.Interface
}

var _ events.EventHandler = (*TicketEmailHandler)(nil)

func NewTicketEmailHandler(
	userRepo user.Repository,
	mailer Mailer,
	renderer markdown.Renderer,
	publicURL string,
	logger logger.Interface,
) *TicketEmailHandler {
	return &TicketEmailHandler{
		userRepo:  userRepo,
		mailer:    mailer,
		renderer:  renderer,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}
}

func (h *TicketEmailHandler) Name() string { return "ticket-email" }

func (h *TicketEmailHandler) CanHandle(eventType string) bool {
	switch eventType {
	case ticket.EventTypeTicketCreated, ticket.EventTypeStatusChanged, ticket.EventTypeTechnicianAssigned:
		return true
	}
	return false
}

func (h *TicketEmailHandler) Handle(ctx context.Context, event events.DomainEvent) error {
	msg, err := h.compose(ctx, event)
	if err != nil {
		return err
	}
	if msg == nil || len(msg.to) == 0 {
		h.logger.Debugw("no recipients for ticket event", "event_type", event.EventName(), "aggregate_id", event.Key())
		return nil
	}

	html, err := h.renderer.ToHTMLSanitized(msg.body)
	if err != nil {
		return fmt.Errorf("failed to render notification: %w", err)
	}
	if err := h.mailer.Send(ctx, msg.to, msg.subject, msg.body, html); err != nil {
		return fmt.Errorf("failed to send %s notification: %w", event.EventName(), err)
	}

	h.logger.Infow("ticket notification sent",
		"event_type", event.EventName(),
		"aggregate_id", event.Key(),
		"recipients", len(msg.to),
	)
	return nil
}

type message struct {
	to      []string
	subject string
	body    string
}

func (h *TicketEmailHandler) compose(ctx context.Context, event events.DomainEvent) (*message, error) {
	switch e := event.(type) {
	case ticket.TicketCreatedEvent:
		to, err := h.recipients(ctx, e.CreatedByUserID, true)
		if err != nil {
			return nil, err
		}
		return &message{
			to:      to,
			subject: fmt.Sprintf("New repair request %s: %s", e.RequestNumber, e.Title),
			body: fmt.Sprintf("A new repair request **%s** was filed by %s.\n\n**%s**\n\n[Open the request](%s)\n",
				e.RequestNumber, escape(e.EmployeeName), escape(e.Title), h.ticketURL(e.TicketID)),
		}, nil

	case ticket.StatusChangedEvent:
		to, err := h.recipients(ctx, e.ChangedBy, true, e.CreatedByUserID, derefID(e.AssignedTo))
		if err != nil {
			return nil, err
		}
		return &message{
			to:      to,
			subject: fmt.Sprintf("Request %s is now %s", e.RequestNumber, statusLabel(e.NewStatus)),
			body: fmt.Sprintf("Request **%s** (%s) moved from *%s* to *%s*.\n\n> %s\n\n[Open the request](%s)\n",
				e.RequestNumber, escape(e.Title), statusLabel(e.OldStatus), statusLabel(e.NewStatus),
				escape(e.Comment), h.ticketURL(e.TicketID)),
		}, nil

	case ticket.TechnicianAssignedEvent:
		to, err := h.recipients(ctx, e.AssignedBy, false, e.TechnicianID)
		if err != nil {
			return nil, err
		}
		return &message{
			to:      to,
			subject: fmt.Sprintf("Request %s was assigned to you", e.RequestNumber),
			body: fmt.Sprintf("You were assigned repair request **%s**: %s.\n\n[Open the request](%s)\n",
				e.RequestNumber, escape(e.Title), h.ticketURL(e.TicketID)),
		}, nil
	}

	h.logger.Warnw("unexpected event payload", "event_type", event.EventName())
	return nil, nil
}

// recipients resolves user IDs and optionally every admin to email
// addresses, dropping the actor, unknown users and duplicates.
func (h *TicketEmailHandler) recipients(ctx context.Context, actor uint, admins bool, ids ...uint) ([]string, error) {
	var users []*user.User
	if admins {
		list, err := h.userRepo.ListByRole(ctx, authorization.RoleAdmin)
		if err != nil {
			return nil, fmt.Errorf("failed to list admins: %w", err)
		}
		users = append(users, list...)
	}

	var lookup []uint
	for _, id := range ids {
		if id != 0 && id != actor {
			lookup = append(lookup, id)
		}
	}
	if len(lookup) > 0 {
		list, err := h.userRepo.GetByIDs(ctx, lookup)
		if err != nil {
			return nil, fmt.Errorf("failed to load recipients: %w", err)
		}
		users = append(users, list...)
	}

	seen := make(map[string]bool, len(users))
	to := make([]string, 0, len(users))
	for _, u := range users {
		if u.ID() == actor || u.Email() == "" || seen[u.Email()] {
			continue
		}
		seen[u.Email()] = true
		to = append(to, u.Email())
	}
	return to, nil
}

func (h *TicketEmailHandler) ticketURL(id uint) string {
	return fmt.Sprintf("%s/tickets/%d", h.publicURL, id)
}

func statusLabel(s string) string {
	if s == "" {
		return "-"
	}
	return vo.TicketStatus(s).Label()
}

func derefID(id *uint) uint {
	if id == nil {
		return 0
	}
	return *id
}

var escaper = strings.NewReplacer("*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`, "`", "\\`", "\n", " ")

func escape(s string) string {
	return escaper.Replace(s)
}
