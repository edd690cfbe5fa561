package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fitwise/fitness-client/internal/cache"
	"fitwise/fitness-client/internal/config"
	"fitwise/fitness-client/internal/domain"
	"fitwise/fitness-client/internal/gateway"
	"fitwise/fitness-client/internal/logger"
	"fitwise/fitness-client/internal/service"
	"fitwise/fitness-client/internal/session"
	"fitwise/fitness-client/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	gateway.Gateway
}

var member = domain.Profile{UserID: 9, Name: "Ravi", Email: "ravi@example.com"}

func (fakeGateway) Login(_ context.Context, email, _ string) (*domain.Profile, error) {
	if email != member.Email {
		return nil, &domain.RemoteError{Op: "login", Kind: domain.ErrRemoteRejected, Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	}
	p := member
	return &p, nil
}

func (fakeGateway) GeneratePlan(context.Context, domain.PlanRequest) (*domain.GeneratedPlan, error) {
	return nil, &domain.RemoteError{Op: "generate-plan", Kind: domain.ErrRemoteUnreachable, Err: errors.New("connection refused")}
}

func (fakeGateway) FetchGoal(context.Context, int64) (string, error) { return "muscle gain", nil }

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	log := logger.Discard()
	gw := fakeGateway{}

	checkers, err := session.DefaultCheckers(gw)
	require.NoError(t, err)
	sessions, err := session.NewStore(storage.NewMemoryStore(), session.Config{Secret: "test"}, checkers, log)
	require.NoError(t, err)
	local, err := cache.Open(ctx, storage.NewMemoryStore(), log)
	require.NoError(t, err)
	feedback, err := service.LoadFeedbackSnapshot()
	require.NoError(t, err)

	router := gin.New()
	SetupRoutes(router,
		service.NewAuthService(sessions, gw, log),
		service.NewMemberService(sessions, gw, log),
		service.NewAdminService(local.Users(), local.Plans(), feedback, log),
		service.NewDBManagerService(config.SourceLocal, local.Users(), local.Plans(), local.Status(), log),
	)
	return router
}

func do(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	return doFrom(router, "127.0.0.1:50000", method, path, body)
}

// doFrom is do with an explicit client address.
func doFrom(router *gin.Engine, remoteAddr, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = remoteAddr
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, router *gin.Engine, role domain.Role, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	return do(router, http.MethodPost, "/api/v1/session/login", gin.H{"role": role, "email": email, "password": password})
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestPageGate(t *testing.T) {
	router := setupRouter(t)

	t.Run("Should redirect anonymous visitors to the login page", func(t *testing.T) {
		for _, path := range []string{"/", "/admin", "/db-manager"} {
			w := do(router, http.MethodGet, path, nil)
			assert.Equal(t, http.StatusFound, w.Code, path)
			assert.Equal(t, "/login", w.Header().Get("Location"), path)
		}
	})
	t.Run("Should always open public pages", func(t *testing.T) {
		for _, path := range []string{"/login", "/signup", "/about-us"} {
			assert.Equal(t, http.StatusOK, do(router, http.MethodGet, path, nil).Code, path)
		}
	})
	t.Run("Should send unknown pages to the dashboard", func(t *testing.T) {
		w := do(router, http.MethodGet, "/settings", nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/v1/nope", nil).Code)
	})
	t.Run("Should open the admin page only as admin", func(t *testing.T) {
		require.Equal(t, http.StatusOK, login(t, router, domain.RoleAdmin, "admin@fitwise.com", "admin123").Code)
		assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/admin", nil).Code)

		w := do(router, http.MethodGet, "/db-manager", nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})
}

func TestSessionEndpoints(t *testing.T) {
	router := setupRouter(t)

	t.Run("Should log in as admin and land on the admin page", func(t *testing.T) {
		w := login(t, router, domain.RoleAdmin, "admin@fitwise.com", "admin123")
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[SessionResponse](t, w)
		assert.Equal(t, domain.RoleAdmin, resp.Session.Role)
		assert.Equal(t, "/admin", resp.Redirect)
	})
	t.Run("Should refuse a wrong password and keep the session", func(t *testing.T) {
		w := login(t, router, domain.RoleAdmin, "admin@fitwise.com", "nope")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		current := decode[SessionResponse](t, do(router, http.MethodGet, "/api/v1/session", nil))
		assert.Equal(t, domain.RoleAdmin, current.Session.Role)
	})
	t.Run("Should answer navigation probes", func(t *testing.T) {
		w := do(router, http.MethodGet, "/api/v1/navigate?path=/db-manager", nil)
		got := decode[map[string]any](t, w)
		assert.Equal(t, false, got["allowed"])
		assert.Equal(t, "/login", got["redirect"])
	})
	t.Run("Should log out", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/v1/session/logout", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, domain.RoleAnonymous, decode[SessionResponse](t, w).Session.Role)
		assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodGet, "/api/v1/admin/feedback", nil).Code)
	})
	t.Run("Should default to a member login", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/v1/session/login", gin.H{"email": "someone@example.com", "password": "pw"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid credentials", decode[map[string]string](t, w)["error"])

		w = do(router, http.MethodPost, "/api/v1/session/login", gin.H{"email": member.Email, "password": "pw"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "/", decode[SessionResponse](t, w).Redirect)
	})
	t.Run("Should reject unknown roles", func(t *testing.T) {
		w := login(t, router, "root", "a@b.c", "pw")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOnlyLocalClientsShareTheSession(t *testing.T) {
	router := setupRouter(t)
	require.Equal(t, http.StatusOK, login(t, router, domain.RoleAdmin, "admin@fitwise.com", "admin123").Code)

	t.Run("Should refuse a client on another host", func(t *testing.T) {
		for _, path := range []string{"/api/v1/admin/feedback", "/api/v1/session", "/admin", "/settings"} {
			w := doFrom(router, "192.168.1.77:41000", http.MethodGet, path, nil)
			assert.Equal(t, http.StatusForbidden, w.Code, path)
			assert.NotContains(t, w.Body.String(), "Priya", path)
		}
		w := doFrom(router, "192.168.1.77:41000", http.MethodPost, "/api/v1/session/logout", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
	t.Run("Should serve loopback clients", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, doFrom(router, "[::1]:41000", http.MethodGet, "/api/v1/admin/feedback", nil).Code)
		assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/v1/admin/feedback", nil).Code)
	})
	t.Run("Should keep health checks open", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, doFrom(router, "192.168.1.77:41000", http.MethodGet, "/ping", nil).Code)
	})
}

func TestAdminEndpoints(t *testing.T) {
	router := setupRouter(t)
	assert.Equal(t, http.StatusUnauthorized, do(router, http.MethodGet, "/api/v1/admin/stats", nil).Code)
	require.Equal(t, http.StatusOK, login(t, router, domain.RoleAdmin, "admin@fitwise.com", "admin123").Code)

	w := do(router, http.MethodGet, "/api/v1/admin/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	st := decode[cache.Stats](t, w)
	assert.Equal(t, 6, st.Users)
	assert.Equal(t, 3, st.UsersPerGender["female"])
	assert.Equal(t, 2, st.PlansPerGoal["general fitness"])
}

func TestMemberEndpoints(t *testing.T) {
	router := setupRouter(t)
	require.Equal(t, http.StatusOK, login(t, router, domain.RoleUser, member.Email, "pw").Code)

	w := do(router, http.MethodGet, "/api/v1/me/goal", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "muscle gain", decode[map[string]string](t, w)["goal"])

	w = do(router, http.MethodPost, "/api/v1/me/generate-plan", domain.PlanRequest{Name: "Ravi", Age: 30, Weight: 70, Height: 175, DaysPerWeek: 4})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	assert.Equal(t, http.StatusForbidden, do(router, http.MethodGet, "/api/v1/db/stats", nil).Code)
}

func TestDBManagerEndpoints(t *testing.T) {
	router := setupRouter(t)
	require.Equal(t, http.StatusOK, login(t, router, domain.RoleDBManager, "dbmanager@gmail.com", "db123").Code)

	t.Run("Should report the load notice", func(t *testing.T) {
		got := decode[map[string]string](t, do(router, http.MethodGet, "/api/v1/db/status", nil))
		assert.Equal(t, config.SourceLocal, got["source"])
		assert.NotEmpty(t, got["notice"])
	})
	t.Run("Should search users", func(t *testing.T) {
		users := decode[[]domain.User](t, do(router, http.MethodGet, "/api/v1/db/users?q=PRIYA", nil))
		require.Len(t, users, 1)
		assert.Equal(t, "Priya Sharma", users[0].Name)
	})
	t.Run("Should require name, email and password", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/v1/db/users", gin.H{"name": "A", "email": "a@b.c"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode[map[string]string](t, w)["error"], "password")
	})
	t.Run("Should add and delete a user", func(t *testing.T) {
		w := do(router, http.MethodPost, "/api/v1/db/users", gin.H{"name": "Zoya", "email": "zoya@example.com", "password": "pw"})
		require.Equal(t, http.StatusCreated, w.Code)
		u := decode[domain.User](t, w)
		assert.Empty(t, u.PasswordHash)
		assert.NotContains(t, w.Body.String(), "password")

		assert.Equal(t, http.StatusOK, do(router, http.MethodDelete, "/api/v1/db/users/"+jsonNumber(u.ID), nil).Code)
		assert.Equal(t, http.StatusNotFound, do(router, http.MethodDelete, "/api/v1/db/users/"+jsonNumber(u.ID), nil).Code)
		assert.Equal(t, http.StatusBadRequest, do(router, http.MethodDelete, "/api/v1/db/users/abc", nil).Code)
	})
	t.Run("Should count plans per goal", func(t *testing.T) {
		st := decode[cache.Stats](t, do(router, http.MethodGet, "/api/v1/db/stats", nil))
		assert.Equal(t, 2, st.PlansPerGoal["weight loss"])
	})
}

func jsonNumber(n int64) string {
	raw, _ := json.Marshal(n)
	return string(raw)
}
