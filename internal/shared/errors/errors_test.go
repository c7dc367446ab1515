package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantCode int
	}{
		{"validation", NewValidationError("bad"), ErrorTypeValidation, http.StatusBadRequest},
		{"not found", NewNotFoundError("missing"), ErrorTypeNotFound, http.StatusNotFound},
		{"conflict", NewConflictError("stale"), ErrorTypeConflict, http.StatusConflict},
		{"unauthorized", NewUnauthorizedError("who"), ErrorTypeUnauthorized, http.StatusUnauthorized},
		{"forbidden", NewForbiddenError("no"), ErrorTypeForbidden, http.StatusForbidden},
		{"invalid transition", NewInvalidTransitionError("edge"), ErrorTypeInvalidTransition, http.StatusConflict},
		{"missing comment", NewMissingCommentError("short"), ErrorTypeMissingComment, http.StatusUnprocessableEntity},
		{"timeout", NewDependencyTimeoutError("slow"), ErrorTypeDependencyTimeout, http.StatusGatewayTimeout},
		{"internal", NewInternalError("boom"), ErrorTypeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantCode, tt.err.Code)
		})
	}
}

func TestAppError_ErrorIncludesDetails(t *testing.T) {
	err := NewValidationError("invalid input", "title is required")
	assert.Equal(t, "validation_error: invalid input (title is required)", err.Error())
	assert.Equal(t, "not_found: gone", NewNotFoundError("gone").Error())
}

func TestFromStoreError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, FromStoreError(nil, "x"))
	})

	t.Run("deadline becomes dependency timeout", func(t *testing.T) {
		err := FromStoreError(fmt.Errorf("query: %w", context.DeadlineExceeded), "failed to load ticket")
		assert.True(t, IsDependencyTimeoutError(err))
	})

	t.Run("app errors pass through", func(t *testing.T) {
		err := FromStoreError(fmt.Errorf("wrap: %w", NewConflictError("stale")), "failed")
		assert.True(t, IsConflictError(err))
	})

	t.Run("other errors are internal", func(t *testing.T) {
		err := FromStoreError(fmt.Errorf("connection reset"), "failed")
		appErr := GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, ErrorTypeInternal, appErr.Type)
		assert.Equal(t, "failed", appErr.Message)
	})
}

func TestAuthErrorUnwrapsToAppError(t *testing.T) {
	err := fmt.Errorf("login: %w", NewInvalidCredentialsError())

	assert.True(t, IsUnauthorizedError(err))
	assert.False(t, ShouldLogAuthError(err))
	assert.True(t, IsSecurityEvent(err))
	assert.True(t, ShouldLogAuthError(NewNotFoundError("x")))
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(fmt.Errorf("Error 1062: Duplicate entry 'a' for key 'uk_email'")))
	assert.True(t, IsDuplicateError(fmt.Errorf("UNIQUE constraint failed: users.email")))
	assert.False(t, IsDuplicateError(fmt.Errorf("syntax error")))
	assert.False(t, IsDuplicateError(nil))
}
