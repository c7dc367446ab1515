// Package permission defines who may do what. The rules themselves live in
// the policy implementation; this package only names actions and resources.
package permission

import (
	"github.com/servis-automat/servis/internal/domain/ticket"
	"github.com/servis-automat/servis/internal/shared/authorization"
)

// Policy decides whether a caller may perform an action on a resource. It is
// pure: implementations never touch storage.
type Policy interface {
	CanPerform(identity authorization.Identity, action Action, resource Resource) bool
}

// Resource carries the attributes of the object the rules inspect. A zero
// ClubID or AssigneeID means none.
type Resource struct {
	Kind       ResourceKind
	ClubID     uint
	AssigneeID uint
}

// TicketResource describes an existing ticket.
func TicketResource(t *ticket.Ticket) Resource {
	r := Resource{Kind: KindTicket, ClubID: t.ClubID()}
	if id := t.AssignedTechnicianID(); id != nil {
		r.AssigneeID = *id
	}
	return r
}

// NewTicketResource describes a ticket about to be created for clubID.
func NewTicketResource(clubID uint) Resource {
	return Resource{Kind: KindTicket, ClubID: clubID}
}

// ClubResource describes a club and everything installed in it. A zero
// clubID stands for the whole club list.
func ClubResource(clubID uint) Resource {
	return Resource{Kind: KindClub, ClubID: clubID}
}

func UserResource() Resource {
	return Resource{Kind: KindUser}
}

func ReportResource() Resource {
	return Resource{Kind: KindReport}
}
