package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authdelivery "bookmark-backend/internal/auth/delivery"
	authdomain "bookmark-backend/internal/auth/domain"
	authusecase "bookmark-backend/internal/auth/usecase"
	"bookmark-backend/internal/reminder/domain"
	"bookmark-backend/internal/reminder/repository"
	"bookmark-backend/internal/reminder/usecase"
	sitedomain "bookmark-backend/internal/site/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct {
	users map[string]*authdomain.User
}

func (s *stubAuth) ValidateToken(_ context.Context, token string) (*authdomain.User, error) {
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, authusecase.ErrInvalidToken
}

type noUsers struct{}

func (noUsers) FindByID(context.Context, string) (*authdomain.User, error) { return nil, nil }

type noSites struct{}

func (noSites) FindByID(context.Context, string) (*sitedomain.Site, error) { return nil, nil }

type noMail struct{}

func (noMail) Send(context.Context, string, string, string, string) (string, error) {
	return "", errors.New("not configured")
}

func setupRouter(t *testing.T) (*gin.Engine, *repository.MemoryReminderRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := repository.NewMemoryReminderRepository()
	uc := usecase.NewReminderUsecase(repo, noUsers{}, noSites{}, noMail{})
	uc.SetClock(func() time.Time { return now })

	repo.Put(&domain.Reminder{ID: "r1", UserID: "u1", Channel: domain.ChannelEmail, DueAt: now.Add(-time.Minute)})
	repo.Put(&domain.Reminder{ID: "r2", UserID: "u1", Channel: domain.ChannelNotification, DueAt: now.Add(time.Hour)})
	repo.Put(&domain.Reminder{ID: "r3", UserID: "u1", Channel: domain.ChannelBoth, DueAt: now.Add(-time.Hour), Completed: true, EmailSent: true})

	auth := &stubAuth{users: map[string]*authdomain.User{
		"admin-token": {ID: "a1", Email: "ops@example.com", Role: authdomain.RoleAdmin},
		"user-token":  {ID: "u1", Email: "alice@example.com"},
	}}

	r := gin.New()
	h := NewReminderHandler(uc)
	admin := r.Group("/api/admin", authdelivery.AuthMiddleware(auth), authdelivery.RequireAdmin())
	admin.GET("/reminders/stats", h.GetStats)
	return r, repo
}

func TestGetStats_Admin(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/reminders/stats", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var stats domain.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.Due)
	assert.Equal(t, int64(1), stats.Upcoming)
	assert.Len(t, stats.Groups, 3)
	assert.False(t, stats.ScanRunning)
}

func TestGetStats_AccessControl(t *testing.T) {
	r, _ := setupRouter(t)

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"bad scheme", "Token admin-token", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"non-admin", "Bearer user-token", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/reminders/stats", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestGetStats_DoesNotMutateStore(t *testing.T) {
	r, repo := setupRouter(t)
	before := repo.All()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/reminders/stats", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, before, repo.All())
}
