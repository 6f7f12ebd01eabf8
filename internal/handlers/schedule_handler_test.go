package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/home-scheduler/internal/audit"
	"github.com/BruksfildServices01/home-scheduler/internal/authz"
	domain "github.com/BruksfildServices01/home-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/home-scheduler/internal/httperr"
	"github.com/BruksfildServices01/home-scheduler/internal/middleware"
	"github.com/BruksfildServices01/home-scheduler/internal/models"
	"github.com/BruksfildServices01/home-scheduler/internal/notify"
	ucSchedule "github.com/BruksfildServices01/home-scheduler/internal/usecase/schedule"
	"github.com/BruksfildServices01/home-scheduler/internal/validators"
)

// ======================================================
// Fakes
// ======================================================

// stubRepo implementa só o que as transições usam; o resto entra em pânico
type stubRepo struct {
	domain.Repository

	mu        sync.Mutex
	schedules map[uint]models.Schedule
	users     map[uint]models.User
}

func (r *stubRepo) GetSchedule(ctx context.Context, id uint) (*models.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schedules[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (r *stubRepo) GetUser(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *stubRepo) CompareAndSetStatus(ctx context.Context, upd domain.StatusUpdate) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schedules[upd.ScheduleID]
	if !ok {
		return false, nil
	}
	for _, from := range upd.From {
		if domain.Status(s.Status) == from {
			s.Status = string(upd.To)
			if upd.ProviderID != nil {
				s.ProviderID = upd.ProviderID
			}
			r.schedules[s.ID] = s
			return true, nil
		}
	}
	return false, nil
}

type nopNotifier struct{}

func (nopNotifier) Enqueue(notify.Message) {}
func (nopNotifier) Skip(notify.Message, string) {}

type nopAuditor struct{}

func (nopAuditor) Dispatch(audit.Event) {}

// ======================================================
// Setup
// ======================================================

func phone(s string) *string { return &s }

func setupScheduleRouter(t *testing.T, caller authz.Caller) (*gin.Engine, *stubRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validators.Register())

	repo := &stubRepo{
		schedules: map[uint]models.Schedule{
			7: {
				ID:     7,
				Title:  "Reparo",
				Date:   time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
				Time:   "09:00",
				Status: string(domain.StatusAwaitingConfirmation),
				UserID: 3,
			},
		},
		users: map[uint]models.User{
			1: {ID: 1, Name: "Admin", Role: models.RoleAdmin, Notification: models.NotificationEnabled},
			2: {ID: 2, Name: "Carlos", Role: models.RoleProvider, Phone: phone("11988887777"), Notification: models.NotificationEnabled},
			3: {ID: 3, Name: "Maria", Role: models.RoleClient, Phone: phone("11977776666"), Notification: models.NotificationEnabled},
		},
	}

	engine := ucSchedule.NewEngine(repo, authz.NewGuard(), nopNotifier{}, nopAuditor{}, nil, zap.NewNop(), ucSchedule.EngineOptions{})
	h := NewScheduleHandler(engine, nil, nil, nil, nil, nil)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, caller.UserID)
		c.Set(middleware.ContextUserRole, caller.Role)
		c.Next()
	})
	r.PUT("/schedules/update-status/confirm/:id", h.Transition(domain.KindConfirm))
	r.PUT("/schedules/update-status/start/:id", h.Transition(domain.KindStart))
	r.PUT("/schedules/update-status/cancel/:id", h.Transition(domain.KindCancel))

	return r, repo
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httperr.HTTPError {
	t.Helper()
	var out httperr.HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

var adminCaller = authz.Caller{UserID: 1, Role: models.RoleAdmin}

// ======================================================
// Tests
// ======================================================

func TestConfirmEndpoint(t *testing.T) {
	r, repo := setupScheduleRouter(t, adminCaller)

	w := doJSON(r, http.MethodPut, "/schedules/update-status/confirm/7", gin.H{
		"status":     "AGENDADO",
		"providerId": 2,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.Schedule
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "AGENDADO", got.Status)
	require.NotNil(t, got.ProviderID)
	assert.Equal(t, uint(2), *got.ProviderID)

	assert.Equal(t, "AGENDADO", repo.schedules[7].Status)
}

func TestTransitionEndpointRejectsBadRequests(t *testing.T) {
	cases := []struct {
		name string
		path string
		body any
		code string
	}{
		{"status of another transition", "/schedules/update-status/start/7", gin.H{"status": "CONCLUIDO"}, "status_mismatch"},
		{"unknown status", "/schedules/update-status/start/7", gin.H{"status": "FEITO"}, "invalid_status"},
		{"missing status", "/schedules/update-status/cancel/7", gin.H{}, "missing_field"},
		{"confirm without provider", "/schedules/update-status/confirm/7", gin.H{"status": "AGENDADO"}, "missing_field"},
		{"non numeric id", "/schedules/update-status/cancel/abc", gin.H{"status": "CANCELADO"}, "invalid_id"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, repo := setupScheduleRouter(t, adminCaller)

			w := doJSON(r, http.MethodPut, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.code, decodeError(t, w).Code)
			assert.Equal(t, "A_CONFIRMAR", repo.schedules[7].Status)
		})
	}
}

func TestTransitionEndpointMapsBusinessErrors(t *testing.T) {
	t.Run("invalid source state", func(t *testing.T) {
		r, _ := setupScheduleRouter(t, adminCaller)
		w := doJSON(r, http.MethodPut, "/schedules/update-status/start/7", gin.H{"status": "EM_ANDAMENTO"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_state", decodeError(t, w).Code)
	})

	t.Run("not admin", func(t *testing.T) {
		r, _ := setupScheduleRouter(t, authz.Caller{UserID: 3, Role: models.RoleClient})
		w := doJSON(r, http.MethodPut, "/schedules/update-status/confirm/7", gin.H{"status": "AGENDADO", "providerId": 2})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "forbidden", decodeError(t, w).Code)
	})

	t.Run("unknown schedule", func(t *testing.T) {
		r, _ := setupScheduleRouter(t, adminCaller)
		w := doJSON(r, http.MethodPut, "/schedules/update-status/cancel/99", gin.H{"status": "CANCELADO"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "schedule_not_found", decodeError(t, w).Code)
	})

	t.Run("provider without phone", func(t *testing.T) {
		r, repo := setupScheduleRouter(t, adminCaller)
		u := repo.users[2]
		u.Phone = nil
		repo.users[2] = u

		w := doJSON(r, http.MethodPut, "/schedules/update-status/confirm/7", gin.H{"status": "AGENDADO", "providerId": 2})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "provider_without_phone", decodeError(t, w).Code)
		assert.Equal(t, "A_CONFIRMAR", repo.schedules[7].Status)
	})
}
