// Package testutil builds gin contexts and decodes envelopes for handler
// tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/servis-automat/servis/internal/shared/authorization"
	"github.com/servis-automat/servis/internal/shared/constants"
	"github.com/servis-automat/servis/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewTestContext returns a context for method and path. A string or []byte
// body is sent as is, anything else non-nil is encoded as JSON.
func NewTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	var (
		reader      io.Reader
		contentType string
	)
	switch b := body.(type) {
	case nil:
	case string:
		reader, contentType = bytes.NewBufferString(b), "application/json"
	case []byte:
		reader, contentType = bytes.NewReader(b), "application/json"
	default:
		buf := &bytes.Buffer{}
		_ = json.NewEncoder(buf).Encode(b)
		reader, contentType = buf, "application/json"
	}

	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

// SetIdentity stores the caller under the keys the auth middleware uses.
func SetIdentity(c *gin.Context, identity authorization.Identity) {
	c.Set(constants.ContextKeyIdentity, identity)
	c.Set(constants.ContextKeyUserID, identity.SubjectID)
	c.Set(constants.ContextKeyRole, identity.Role.String())
	if identity.ClubID != nil {
		c.Set(constants.ContextKeyClubID, *identity.ClubID)
	}
}

func Admin(id uint) authorization.Identity {
	return authorization.Identity{SubjectID: id, Email: "admin@example.com", Role: authorization.RoleAdmin}
}

func Technician(id uint) authorization.Identity {
	return authorization.Identity{SubjectID: id, Email: "tech@example.com", Role: authorization.RoleTechnician}
}

func Club(id, clubID uint) authorization.Identity {
	return authorization.Identity{SubjectID: id, Email: "club@example.com", Role: authorization.RoleClub, ClubID: &clubID}
}

func SetURLParam(c *gin.Context, key, value string) {
	c.Params = append(c.Params, gin.Param{Key: key, Value: value})
}

func SetQueryParams(c *gin.Context, params map[string]string) {
	q := c.Request.URL.Query()
	if q == nil {
		q = url.Values{}
	}
	for k, v := range params {
		q.Set(k, v)
	}
	c.Request.URL.RawQuery = q.Encode()
}

func ParseResponse(w *httptest.ResponseRecorder, target interface{}) error {
	return json.Unmarshal(w.Body.Bytes(), target)
}

// DecodeData unmarshals the envelope's data field into T.
func DecodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var resp APIResponse
	require.NoError(t, ParseResponse(w, &resp), w.Body.String())
	var out T
	require.NoError(t, json.Unmarshal(resp.Data, &out), string(resp.Data))
	return out
}

// RequireStatus fails the test with the body when the status differs.
func RequireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "%s %s", http.StatusText(w.Code), w.Body.String())
}

// APIResponse is the decoded response envelope.
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// NewMockLogger returns a logger that writes nowhere.
func NewMockLogger() logger.Interface {
	return logger.NewLoggerWithSlog(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
