package notification

import (
	"fmt"

	"github.com/servis-automat/servis/internal/domain/shared/events"
	"github.com/servis-automat/servis/internal/domain/ticket"
)

// TicketEventTypes lists every event the ticket use cases publish.
var TicketEventTypes = []string{
	ticket.EventTypeTicketCreated,
	ticket.EventTypeStatusChanged,
	ticket.EventTypeTechnicianAssigned,
}

// Register subscribes each handler to the ticket events it can handle.
func Register(subscriber events.EventSubscriber, handlers ...events.EventHandler) error {
	for _, h := range handlers {
		for _, eventType := range TicketEventTypes {
			if !h.CanHandle(eventType) {
				continue
			}
			if err := subscriber.Subscribe(eventType, h); err != nil {
				return fmt.Errorf("failed to subscribe %T to %s: %w", h, eventType, err)
			}
		}
	}
	return nil
}
