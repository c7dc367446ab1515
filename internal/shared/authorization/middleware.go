package authorization

import (
	"github.com/gin-gonic/gin"

	"github.com/servis-automat/servis/internal/shared/constants"
	"github.com/servis-automat/servis/internal/shared/errors"
	"github.com/servis-automat/servis/internal/shared/utils"
)

// RequireRole aborts with 403 unless the authenticated caller has one of roles.
// It must run after the auth middleware.
func RequireRole(roles ...UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := UserRole(c.GetString(constants.ContextKeyRole))
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		utils.ErrorResponseWithError(c, errors.NewForbiddenError("insufficient role for this operation"))
		c.Abort()
	}
}

// RequireAdmin is RequireRole(RoleAdmin).
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(RoleAdmin)
}

// GetIdentity returns the caller set by the auth middleware.
func GetIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(constants.ContextKeyIdentity)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
