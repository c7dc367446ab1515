// Package common provides shared HTTP handler utilities.
package common

import (
	"github.com/gin-gonic/gin"

	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/errors"
	"github.com/servis-automat/servis/internal/shared/utils"
)

// Caller returns the identity set by the auth middleware. When none is set it
// writes a 401 envelope and reports false.
func Caller(c *gin.Context) (authorization.Identity, bool) {
	identity, ok := authorization.GetIdentity(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("authentication required"))
		return authorization.Identity{}, false
	}
	return identity, true
}

// BindJSON decodes the body into req and writes a 400 envelope on failure.
func BindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.ErrorResponseWithError(c, utils.TranslateValidationError(err))
		return false
	}
	return true
}
