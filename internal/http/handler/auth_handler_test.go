package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/sainam-co/jobtrack-api/internal/auth"
	"github.com/sainam-co/jobtrack-api/internal/config"
	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/sainam-co/jobtrack-api/internal/http/handler"
	"github.com/sainam-co/jobtrack-api/internal/repository"
	"github.com/sainam-co/jobtrack-api/internal/service"
	"github.com/sainam-co/jobtrack-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func jsonBody(t *testing.T, payload interface{}) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func newAuthHandler(t *testing.T) (*handler.AuthHandler, *service.UserService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	tokens := auth.NewTokenManager(&config.SecurityConfig{
		JWTSecret: "handler-test-secret",
		JWTIssuer: "jobtrack-test",
		TokenTTL:  3600,
	})
	userService := service.NewUserService(repository.NewUserRepository(db), tokens, zap.NewNop())
	return handler.NewAuthHandler(userService, zap.NewNop()), userService, db
}

func TestAuthHandler_Login(t *testing.T) {
	h, userService, _ := newAuthHandler(t)
	ctx := context.Background()
	require.NoError(t, userService.SeedUser(ctx, "admin", "Administrator", "s3cret", domain.RoleAdmin))

	t.Run("valid credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", jsonBody(t, domain.LoginRequest{
			Username: "admin",
			Password: "s3cret",
		}))
		w := httptest.NewRecorder()

		h.Login(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp domain.LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.False(t, resp.ExpiresAt.IsZero())
		assert.Equal(t, "admin", resp.User.Username)
		assert.Equal(t, domain.RoleAdmin, resp.User.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", jsonBody(t, domain.LoginRequest{
			Username: "admin",
			Password: "wrong",
		}))
		w := httptest.NewRecorder()

		h.Login(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown username looks like wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", jsonBody(t, domain.LoginRequest{
			Username: "nobody",
			Password: "s3cret",
		}))
		w := httptest.NewRecorder()

		h.Login(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", jsonBody(t, map[string]string{
			"username": "admin",
		}))
		w := httptest.NewRecorder()

		h.Login(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var apiErr domain.APIError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
		assert.Contains(t, apiErr.Errors, "password")
	})
}

func TestAuthHandler_Me(t *testing.T) {
	h, userService, db := newAuthHandler(t)
	ctx := context.Background()
	require.NoError(t, userService.SeedUser(ctx, "foreman", "Site Foreman", "s3cret", domain.RoleForeman))

	var seeded domain.User
	require.NoError(t, db.Where("username = ?", "foreman").First(&seeded).Error)

	t.Run("signed-in user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req = req.WithContext(auth.WithUserContext(context.Background(), &auth.UserContext{
			UserID:      seeded.ID,
			Username:    seeded.Username,
			DisplayName: seeded.DisplayName,
			Role:        seeded.Role,
		}))
		w := httptest.NewRecorder()

		h.Me(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp domain.UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, seeded.ID, resp.ID)
		assert.Equal(t, "Site Foreman", resp.DisplayName)
		assert.Equal(t, domain.RoleForeman, resp.Role)
	})

	t.Run("no actor", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		w := httptest.NewRecorder()

		h.Me(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token for a deleted user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req = req.WithContext(auth.WithUserContext(context.Background(), &auth.UserContext{
			UserID:   uuid.New(),
			Username: "ghost",
			Role:     domain.RoleAdmin,
		}))
		w := httptest.NewRecorder()

		h.Me(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
