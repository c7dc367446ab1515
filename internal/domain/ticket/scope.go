package ticket

import (
	"github.com/servis-automat/servis/internal/shared/authorization"
)

type ScopeKind int

const (
	// ScopeNone matches nothing. It is the zero value so an unset scope fails closed.
	ScopeNone ScopeKind = iota
	ScopeAll
	ScopeClub
	ScopeTechnician
)

// Scope is the mandatory visibility restriction applied to every ticket query.
type Scope struct {
	kind ScopeKind
	id   uint
}

// ScopeFor derives the visibility of a caller: admins see everything,
// technicians their assigned tickets and club users their club's tickets.
func ScopeFor(identity authorization.Identity) Scope {
	switch identity.Role {
	case authorization.RoleAdmin:
		return Scope{kind: ScopeAll}
	case authorization.RoleTechnician:
		return Scope{kind: ScopeTechnician, id: identity.SubjectID}
	case authorization.RoleClub:
		if identity.ClubID != nil {
			return Scope{kind: ScopeClub, id: *identity.ClubID}
		}
	}
	return Scope{kind: ScopeNone}
}

// AllTickets is the scope of internal jobs such as the weekly report.
func AllTickets() Scope {
	return Scope{kind: ScopeAll}
}

func (s Scope) Kind() ScopeKind { return s.kind }

// ID is the club or technician the scope is restricted to.
func (s Scope) ID() uint { return s.id }

func (s Scope) Permits(t *Ticket) bool {
	switch s.kind {
	case ScopeAll:
		return true
	case ScopeClub:
		return t.ClubID() == s.id
	case ScopeTechnician:
		return t.IsAssignedTo(s.id)
	}
	return false
}
