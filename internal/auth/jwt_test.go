package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "HS256", 30)
	userID := uuid.New()

	token, err := svc.Generate(userID, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice", claims.Subject)
}

func TestJWT_Expired(t *testing.T) {
	svc := NewJWTService("test-secret", "HS256", -1)
	token, err := svc.Generate(uuid.New(), "alice")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_WrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a", "HS256", 30).Generate(uuid.New(), "alice")
	require.NoError(t, err)

	_, err = NewJWTService("secret-b", "HS256", 30).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_AlgorithmMismatch(t *testing.T) {
	token, err := NewJWTService("test-secret", "HS512", 30).Generate(uuid.New(), "alice")
	require.NoError(t, err)

	_, err = NewJWTService("test-secret", "HS256", 30).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_UnknownAlgorithmFallsBackToHS256(t *testing.T) {
	svc := NewJWTService("test-secret", "none", 30)
	token, err := svc.Generate(uuid.New(), "alice")
	require.NoError(t, err)

	_, err = NewJWTService("test-secret", "HS256", 30).Validate(token)
	assert.NoError(t, err)
}

func TestJWT_Garbage(t *testing.T) {
	svc := NewJWTService("test-secret", "HS256", 30)
	_, err := svc.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
