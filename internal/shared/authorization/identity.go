package authorization

import (
	"context"
	"time"
)

// Identity is the verified caller of a request. It is derived from a signed
// credential only and never re-read from storage.
type Identity struct {
	SubjectID uint
	Email     string
	Role      UserRole
	ClubID    *uint
	ExpiresAt time.Time
}

// ClubIDValue returns the caller's club or 0 when the caller has none.
func (i Identity) ClubIDValue() uint {
	if i.ClubID == nil {
		return 0
	}
	return *i.ClubID
}

// BelongsToClub reports whether the caller is a club user of clubID.
func (i Identity) BelongsToClub(clubID uint) bool {
	return i.Role.IsClub() && i.ClubID != nil && *i.ClubID == clubID
}

type identityKey struct{}

// WithIdentity stores the caller in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// SystemIdentity is the caller used by CLI jobs such as the weekly report.
// It carries the admin role and no subject.
func SystemIdentity() Identity {
	return Identity{Role: RoleAdmin, Email: "system@localhost"}
}
