package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))
	user := NewUser("Jordan Doe", "jordan@example.com", "hash", RoleStockManager)

	token, expiresAt, err := svc.GenerateAccessToken(user, "session-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	uc, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), uc.UserID)
	assert.Equal(t, "jordan@example.com", uc.Email)
	assert.Equal(t, "Jordan Doe", uc.Name)
	assert.Equal(t, RoleStockManager, uc.Role)
	assert.False(t, uc.IsAdmin)
	assert.Equal(t, "session-1", uc.SessionID)
}

func TestJWTService_AdminClaim(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))
	admin := NewUser("Root", "root@example.com", "hash", RoleAdmin)

	token, _, err := svc.GenerateAccessToken(admin, "session-1")
	require.NoError(t, err)

	uc, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, uc.IsAdmin)
	assert.Equal(t, RoleAdmin, uc.Role)
}

func TestJWTService_WrongSecret(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("secret-a"))
	verifier := NewJWTService(DefaultJWTConfig("secret-b"))
	user := NewUser("Jordan Doe", "jordan@example.com", "hash", RoleStockExecutive)

	token, _, err := issuer.GenerateAccessToken(user, "session-1")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	cfg := DefaultJWTConfig("test-secret")
	cfg.AccessTokenTTL = -time.Minute
	svc := NewJWTService(cfg)
	user := NewUser("Jordan Doe", "jordan@example.com", "hash", RoleStockExecutive)

	token, _, err := svc.GenerateAccessToken(user, "session-1")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_GarbageToken(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestJWTService_RejectsUnsignedToken(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "x"})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
