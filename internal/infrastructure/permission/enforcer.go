// Package permission evaluates the access rules with casbin. The model and the
// policy lines are embedded and loaded into memory once; checks never do I/O.
package permission

import (
	_ "embed"
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"

	"github.com/servis-automat/servis/internal/domain/permission"
	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/logger"
)

//go:embed model.conf
var modelText string

//go:embed policy.csv
var policyText string

var _ permission.Policy = (*Enforcer)(nil)

// subject and object are the attribute sets the policy rules address as
// r.sub.* and r.obj.*. Fields must stay exported for the expression engine.
type subject struct {
	ID      uint
	Role    string
	ClubID  uint
	HasClub bool
}

type object struct {
	Kind       string
	ClubID     uint
	AssigneeID uint
}

type Enforcer struct {
	enforcer *casbin.Enforcer
	logger   logger.Interface
}

// NewEnforcer builds an enforcer from the embedded model and policy.
func NewEnforcer(log logger.Interface) (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m, stringadapter.NewAdapter(policyText))
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	return &Enforcer{
		enforcer: enforcer,
		logger:   log,
	}, nil
}

// CanPerform reports whether identity may perform action on resource.
// Evaluation errors deny.
func (e *Enforcer) CanPerform(identity authorization.Identity, action permission.Action, resource permission.Resource) bool {
	sub := subject{
		ID:      identity.SubjectID,
		Role:    identity.Role.String(),
		ClubID:  identity.ClubIDValue(),
		HasClub: identity.ClubID != nil && *identity.ClubID != 0,
	}
	obj := object{
		Kind:       resource.Kind.String(),
		ClubID:     resource.ClubID,
		AssigneeID: resource.AssigneeID,
	}

	allowed, err := e.enforcer.Enforce(sub, obj, action.String())
	if err != nil {
		e.logger.Errorw("permission check failed",
			"error", err,
			"user_id", identity.SubjectID,
			"role", identity.Role,
			"resource", resource.Kind,
			"action", action,
		)
		return false
	}

	return allowed
}
