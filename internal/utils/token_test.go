package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("secret", "user-1", "Kernlid", 10)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(10*time.Minute), tok.Exp, 2*time.Second)

	parsed, err := jwt.Parse(tok.Token, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "user-1", claims["sub"])
	assert.Equal(t, "Kernlid", claims["role"])
}

func TestOpaqueTokensAreUniqueAndHashed(t *testing.T) {
	a, err := NewRefreshToken(7)
	require.NoError(t, err)
	b, err := NewRefreshToken(7)
	require.NoError(t, err)

	assert.NotEqual(t, a.Raw, b.Raw)
	assert.Len(t, HashTokenRaw(a.Raw), 64) // sha256 hex
	assert.Equal(t, HashTokenRaw(a.Raw), HashTokenRaw(a.Raw))
	assert.NotEqual(t, HashTokenRaw(a.Raw), HashTokenRaw(b.Raw))
}

func TestLoginTokenExpiry(t *testing.T) {
	tok, err := NewLoginToken(15)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), tok.Exp, 2*time.Second)
	assert.NotEmpty(t, tok.Raw)
}

func TestPasswordHashVerify(t *testing.T) {
	hash, err := HashPassword("hunter2-but-longer", 4)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "hunter2-but-longer"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}
