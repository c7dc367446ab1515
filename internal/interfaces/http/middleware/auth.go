package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/constants"
	"github.com/servis-automat/servis/internal/shared/errors"
	"github.com/servis-automat/servis/internal/shared/logger"
	"github.com/servis-automat/servis/internal/shared/utils"
)

// IdentityResolver turns a bearer credential into the verified caller.
type IdentityResolver interface {
	Resolve(token string) (authorization.Identity, error)
}

type AuthMiddleware struct {
	resolver IdentityResolver
	logger   logger.Interface
}

func NewAuthMiddleware(resolver IdentityResolver, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		resolver: resolver,
		logger:   logger,
	}
}

// RequireAuth aborts with 401 unless the request carries a valid access
// token, either as "Authorization: Bearer <token>" or in X-User-Token.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractToken(c)
		if !ok {
			utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("invalid authorization header format"))
			c.Abort()
			return
		}

		identity, err := m.resolver.Resolve(token)
		if err != nil {
			if errors.ShouldLogAuthError(err) {
				m.logger.Warnw("failed to verify token",
					"error", err,
					"client_ip", c.ClientIP(),
					"security_event", errors.IsSecurityEvent(err),
				)
			}
			utils.ErrorResponseWithError(c, err)
			c.Abort()
			return
		}

		setIdentity(c, identity)
		c.Next()
	}
}

func setIdentity(c *gin.Context, identity authorization.Identity) {
	c.Set(constants.ContextKeyIdentity, identity)
	c.Set(constants.ContextKeyUserID, identity.SubjectID)
	c.Set(constants.ContextKeyRole, identity.Role.String())
	if identity.ClubID != nil {
		c.Set(constants.ContextKeyClubID, *identity.ClubID)
	}
	c.Request = c.Request.WithContext(authorization.WithIdentity(c.Request.Context(), identity))
}

// extractToken returns "" with ok=true when no credential is present so the
// resolver reports it as missing.
func extractToken(c *gin.Context) (string, bool) {
	if header := c.GetHeader(constants.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", false
		}
		return strings.TrimSpace(parts[1]), true
	}
	return strings.TrimSpace(c.GetHeader(constants.HeaderXUserToken)), true
}

// IdentityFrom is a convenience for handlers running behind RequireAuth.
func IdentityFrom(ctx context.Context) (authorization.Identity, bool) {
	return authorization.IdentityFromContext(ctx)
}
