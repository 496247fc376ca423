package auth_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sainam-co/jobtrack-api/internal/auth"
	"github.com/sainam-co/jobtrack-api/internal/config"
	"github.com/sainam-co/jobtrack-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(secret string, ttlSeconds int) *auth.TokenManager {
	return auth.NewTokenManager(&config.SecurityConfig{
		JWTSecret: secret,
		JWTIssuer: "jobtrack-test",
		TokenTTL:  ttlSeconds,
	})
}

func testUser(role domain.Role) *domain.User {
	user := &domain.User{
		Username:    "somchai",
		DisplayName: "Somchai J.",
		Role:        role,
	}
	user.ID = uuid.New()
	return user
}

func TestTokenManager_IssueAndValidate(t *testing.T) {
	manager := newTestManager("test-secret", 3600)
	user := testUser(domain.RoleAdmin)

	token, expiresAt, err := manager.Issue(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	got, err := manager.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, "somchai", got.Username)
	assert.Equal(t, "Somchai J.", got.DisplayName)
	assert.Equal(t, domain.RoleAdmin, got.Role)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	issuer := newTestManager("secret-a", 3600)
	validator := newTestManager("secret-b", 3600)

	token, _, err := issuer.Issue(testUser(domain.RoleAdmin))
	require.NoError(t, err)

	_, err = validator.Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	manager := newTestManager("test-secret", -60)

	token, _, err := manager.Issue(testUser(domain.RoleAdmin))
	require.NoError(t, err)

	_, err = manager.Validate(token)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestTokenManager_WrongIssuer(t *testing.T) {
	other := auth.NewTokenManager(&config.SecurityConfig{
		JWTSecret: "test-secret",
		JWTIssuer: "someone-else",
		TokenTTL:  3600,
	})
	manager := newTestManager("test-secret", 3600)

	token, _, err := other.Issue(testUser(domain.RoleAdmin))
	require.NoError(t, err)

	_, err = manager.Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_GarbageToken(t *testing.T) {
	manager := newTestManager("test-secret", 3600)

	_, err := manager.Validate("not.a.token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_UnknownRole(t *testing.T) {
	manager := newTestManager("test-secret", 3600)

	token, _, err := manager.Issue(testUser(domain.Role("intern")))
	require.NoError(t, err)

	_, err = manager.Validate(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
