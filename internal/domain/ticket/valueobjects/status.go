package valueobjects

import (
	"fmt"
	"strings"
)

type TicketStatus string

const (
	StatusNew          TicketStatus = "new"
	StatusInProgress   TicketStatus = "in_progress"
	StatusWaitingParts TicketStatus = "waiting_parts"
	StatusWaitingTax   TicketStatus = "waiting_tax"
	StatusClosed       TicketStatus = "closed"
)

// AllStatuses lists every status in workflow order.
var AllStatuses = []TicketStatus{
	StatusNew,
	StatusInProgress,
	StatusWaitingParts,
	StatusWaitingTax,
	StatusClosed,
}

// ticketStatusTransitions is the complete edge set of the workflow graph.
// Closed is terminal and no status transitions to itself.
var ticketStatusTransitions = map[TicketStatus][]TicketStatus{
	StatusNew: {
		StatusInProgress,
	},
	StatusInProgress: {
		StatusWaitingParts,
		StatusWaitingTax,
		StatusClosed,
	},
	StatusWaitingParts: {
		StatusInProgress,
		StatusClosed,
	},
	StatusWaitingTax: {
		StatusInProgress,
		StatusClosed,
	},
}

// legacyStatuses maps labels stored by the previous system.
var legacyStatuses = map[string]TicketStatus{
	"novo":                 StatusNew,
	"u_tijeku":             StatusInProgress,
	"čeka se rezervni dio": StatusWaitingParts,
	"čeka se porezna":      StatusWaitingTax,
	"zatvoreno":            StatusClosed,
}

var statusLabels = map[TicketStatus]string{
	StatusNew:          "New",
	StatusInProgress:   "In progress",
	StatusWaitingParts: "Waiting for parts",
	StatusWaitingTax:   "Waiting for tax authority",
	StatusClosed:       "Closed",
}

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) Label() string {
	if l, ok := statusLabels[ts]; ok {
		return l
	}
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	_, ok := statusLabels[ts]
	return ok
}

func (ts TicketStatus) IsClosed() bool {
	return ts == StatusClosed
}

func (ts TicketStatus) CanTransitionTo(newStatus TicketStatus) bool {
	for _, allowed := range ticketStatusTransitions[ts] {
		if allowed == newStatus {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses reachable from ts in one step.
func (ts TicketStatus) AllowedTransitions() []TicketStatus {
	next := ticketStatusTransitions[ts]
	out := make([]TicketStatus, len(next))
	copy(out, next)
	return out
}

// NewTicketStatus parses a canonical status or a legacy label.
func NewTicketStatus(s string) (TicketStatus, error) {
	s = strings.TrimSpace(s)
	ts := TicketStatus(strings.ToLower(s))
	if ts.IsValid() {
		return ts, nil
	}
	if legacy, ok := legacyStatuses[strings.ToLower(s)]; ok {
		return legacy, nil
	}
	return "", fmt.Errorf("invalid ticket status: %s", s)
}
