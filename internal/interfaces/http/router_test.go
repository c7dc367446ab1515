package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/servis-automat/servis/internal/infrastructure/auth"
	"github.com/servis-automat/servis/internal/infrastructure/config"
	"github.com/servis-automat/servis/internal/infrastructure/persistence/models"
	"github.com/servis-automat/servis/internal/shared/logger"
)

const testPassword = "lozinka123"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(
		&models.ClubModel{},
		&models.MachineModel{},
		&models.UserModel{},
		&models.TicketModel{},
		&models.TicketStatusHistoryModel{},
		&models.TicketAttachmentModel{},
		&models.RequestNumberSequenceModel{},
	))
	seedFixtures(t, gdb)

	cfg := &config.Config{}
	cfg.Server.PublicURL = "http://servis.test"
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Auth.JWT.Secret = "test-secret-with-enough-entropy"
	cfg.Auth.JWT.AccessExpMinutes = 60
	cfg.Auth.BcryptCost = bcrypt.MinCost
	cfg.Storage.Root = t.TempDir()
	cfg.Storage.PublicPath = "/uploads"
	cfg.Storage.MaxFileBytes = 1 << 20
	cfg.Notification.BufferSize = 16

	c, err := NewContainer(gdb, cfg, logger.NewLogger())
	require.NoError(t, err)
	t.Cleanup(c.Shutdown)
	c.SetupRoutes()

	return &testServer{t: t, engine: c.Engine()}
}

// seedFixtures creates two clubs, one machine in club 1, an admin, a
// technician and one club account per club.
func seedFixtures(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	hash, err := auth.NewBcryptPasswordHasher(bcrypt.MinCost).Hash(testPassword)
	require.NoError(t, err)

	club1, club2 := uint(1), uint(2)
	require.NoError(t, gdb.Create(&[]models.ClubModel{
		{ID: club1, Name: "Centar", City: "Beograd"},
		{ID: club2, Name: "Novi Grad", City: "Novi Sad"},
	}).Error)
	require.NoError(t, gdb.Create(&models.MachineModel{ID: 10, ClubID: club1, Number: "12", Model: "EGT"}).Error)
	require.NoError(t, gdb.Create(&[]models.UserModel{
		{ID: 1, Name: "Admin", Email: "admin@servis.rs", PasswordHash: hash, Role: "admin"},
		{ID: 2, Name: "Marko", Email: "marko@servis.rs", PasswordHash: hash, Role: "technician"},
		{ID: 3, Name: "Klub Centar", Email: "centar@servis.rs", PasswordHash: hash, Role: "club", ClubID: &club1},
		{ID: 4, Name: "Klub Novi Grad", Email: "novigrad@servis.rs", PasswordHash: hash, Role: "club", ClubID: &club2},
	}).Error)
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w.Code, env
}

func (s *testServer) login(email string) string {
	s.t.Helper()
	code, env := s.do(http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": testPassword})
	require.Equal(s.t, http.StatusOK, code)

	var tok struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &tok))
	require.NotEmpty(s.t, tok.Token)
	return tok.Token
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
}

func TestRouter_RequiresAuthentication(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(http.MethodGet, "/tickets", "", nil)

	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)
}

func TestRouter_LoginRejectsWrongPassword(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "admin@servis.rs", "password": "pogresno123"})

	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_TicketLifecycle(t *testing.T) {
	s := newTestServer(t)
	clubToken := s.login("centar@servis.rs")
	otherClubToken := s.login("novigrad@servis.rs")
	adminToken := s.login("admin@servis.rs")
	techToken := s.login("marko@servis.rs")

	// Club 1 reports a fault with a photo.
	code, env := s.do(http.MethodPost, "/tickets", clubToken, map[string]interface{}{
		"club_id":       1,
		"machine_id":    10,
		"title":         "Screen flickers",
		"description":   "Left monitor flickers after warm-up",
		"employee_name": "Ana",
		"manufacturer":  "Novomatic",
		"game_name":     "Book of Ra",
		"can_play":      "no",
		"attachments": []map[string]string{
			{"file_name": "photo.png", "file_data": "data:image/png;base64,iVBORw0KGgo="},
		},
	})
	require.Equal(t, http.StatusCreated, code, "create failed: %+v", env.Error)

	var created struct {
		Ticket struct {
			ID            uint   `json:"id"`
			RequestNumber string `json:"request_number"`
			Status        string `json:"status"`
			Attachments   []struct {
				FileURL string `json:"file_url"`
			} `json:"attachments"`
		} `json:"ticket"`
		PartialFailures []interface{} `json:"partial_failures"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "new", created.Ticket.Status)
	assert.NotEmpty(t, created.Ticket.RequestNumber)
	assert.Empty(t, created.PartialFailures)
	assert.Len(t, created.Ticket.Attachments, 1)

	ticketPath := fmt.Sprintf("/tickets/%d", created.Ticket.ID)

	// Another club cannot see it; an unassigned technician cannot move it.
	code, _ = s.do(http.MethodGet, ticketPath, otherClubToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodPatch, ticketPath+"/status", techToken, map[string]string{
		"status": "in_progress", "comment": "Starting the diagnosis now",
	})
	assert.Equal(t, http.StatusForbidden, code)

	// Admin assigns the technician.
	code, env = s.do(http.MethodPost, ticketPath+"/assign", adminToken, map[string]uint{"technician_id": 2})
	require.Equal(t, http.StatusOK, code, "assign failed: %+v", env.Error)

	// A short comment is rejected, a proper one moves the ticket.
	code, env = s.do(http.MethodPatch, ticketPath+"/status", techToken, map[string]string{
		"status": "in_progress", "comment": "on it",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "missing_comment", env.Error.Type)

	code, env = s.do(http.MethodPatch, ticketPath+"/status", techToken, map[string]string{
		"status": "in_progress", "comment": "Starting the diagnosis now",
	})
	require.Equal(t, http.StatusOK, code, "status change failed: %+v", env.Error)

	// Going back to new is not an edge of the workflow.
	code, env = s.do(http.MethodPatch, ticketPath+"/status", techToken, map[string]string{
		"status": "new", "comment": "Reopening this one again",
	})
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid_transition", env.Error.Type)

	// The reporting club sees the history, newest first.
	code, env = s.do(http.MethodGet, ticketPath+"/history", clubToken, nil)
	require.Equal(t, http.StatusOK, code)

	var history []struct {
		OldStatus *string `json:"old_status"`
		NewStatus string  `json:"new_status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history, 2)
	assert.Equal(t, "in_progress", history[0].NewStatus)
	assert.Equal(t, "new", history[1].NewStatus)
	assert.Nil(t, history[1].OldStatus)
}

func TestRouter_ConcurrentCloseHasSingleWinner(t *testing.T) {
	s := newTestServer(t)
	clubToken := s.login("centar@servis.rs")
	adminToken := s.login("admin@servis.rs")
	techToken := s.login("marko@servis.rs")

	code, env := s.do(http.MethodPost, "/tickets", clubToken, map[string]interface{}{
		"club_id":       1,
		"machine_id":    10,
		"title":         "Bill acceptor jams",
		"employee_name": "Ana",
		"manufacturer":  "EGT",
		"game_name":     "40 Super Hot",
		"can_play":      "yes",
	})
	require.Equal(t, http.StatusCreated, code, "create failed: %+v", env.Error)

	var created struct {
		Ticket struct {
			ID uint `json:"id"`
		} `json:"ticket"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	ticketPath := fmt.Sprintf("/tickets/%d", created.Ticket.ID)

	code, env = s.do(http.MethodPost, ticketPath+"/assign", adminToken, map[string]uint{"technician_id": 2})
	require.Equal(t, http.StatusOK, code, "assign failed: %+v", env.Error)
	code, env = s.do(http.MethodPatch, ticketPath+"/status", techToken, map[string]string{
		"status": "in_progress", "comment": "Cleaning the acceptor path",
	})
	require.Equal(t, http.StatusOK, code, "status change failed: %+v", env.Error)

	type outcome struct {
		code int
		env  envelope
	}
	results := make([]outcome, 2)
	tokens := []string{techToken, adminToken}

	var wg sync.WaitGroup
	for i := range tokens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, e := s.do(http.MethodPatch, ticketPath+"/status", tokens[i], map[string]string{
				"status": "closed", "comment": "Acceptor replaced and tested",
			})
			results[i] = outcome{code: c, env: e}
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, r := range results {
		switch r.code {
		case http.StatusOK:
			won++
		case http.StatusConflict:
			lost++
			require.NotNil(t, r.env.Error)
			assert.Equal(t, "invalid_transition", r.env.Error.Type)
		default:
			t.Fatalf("unexpected status %d: %+v", r.code, r.env.Error)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)

	code, env = s.do(http.MethodGet, ticketPath, adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	var got struct {
		Status   string  `json:"status"`
		ClosedAt *string `json:"closed_at"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "closed", got.Status)
	assert.NotNil(t, got.ClosedAt)

	code, env = s.do(http.MethodGet, ticketPath+"/history", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	var history []struct {
		NewStatus string `json:"new_status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history, 3)
	assert.Equal(t, "closed", history[0].NewStatus)
	assert.Equal(t, "in_progress", history[1].NewStatus)
}

func TestRouter_UserManagementIsAdminOnly(t *testing.T) {
	s := newTestServer(t)
	clubToken := s.login("centar@servis.rs")
	adminToken := s.login("admin@servis.rs")

	code, _ := s.do(http.MethodGet, "/users", clubToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env := s.do(http.MethodGet, "/users?role=technician", adminToken, nil)
	require.Equal(t, http.StatusOK, code)

	var list struct {
		Items []struct {
			Email string `json:"email"`
		} `json:"items"`
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, int64(1), list.Total)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "marko@servis.rs", list.Items[0].Email)
}

func TestRouter_ClubScoping(t *testing.T) {
	s := newTestServer(t)
	clubToken := s.login("centar@servis.rs")

	code, env := s.do(http.MethodGet, "/clubs", clubToken, nil)
	require.Equal(t, http.StatusOK, code)

	var clubs []struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &clubs))
	require.Len(t, clubs, 1)
	assert.Equal(t, uint(1), clubs[0].ID)

	code, _ = s.do(http.MethodGet, "/clubs/2/machines", clubToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
}
