package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTService(ttl time.Duration) *JWTService {
	return NewJWTService(&JWTConfig{
		SecretKey:       []byte("test-secret"),
		SessionDuration: ttl,
		Issuer:          "test",
	})
}

func TestJWTService_SessionTokens(t *testing.T) {
	s := testJWTService(15 * time.Minute)

	t.Run("valid_token_roundtrip", func(t *testing.T) {
		token, err := s.GenerateSessionToken(1, "Ryoma94")
		require.NoError(t, err)

		claims, err := s.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, int64(1), claims.AdminID)
		assert.Equal(t, "Ryoma94", claims.Username)
	})

	t.Run("expired_token", func(t *testing.T) {
		expired := testJWTService(-time.Minute)
		token, err := expired.GenerateSessionToken(1, "Ryoma94")
		require.NoError(t, err)

		_, err = s.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong_secret", func(t *testing.T) {
		other := NewJWTService(&JWTConfig{
			SecretKey:       []byte("other-secret"),
			SessionDuration: 15 * time.Minute,
			Issuer:          "test",
		})
		token, err := other.GenerateSessionToken(1, "Ryoma94")
		require.NoError(t, err)

		_, err = s.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage_token", func(t *testing.T) {
		_, err := s.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestExtractTokenFromBearer(t *testing.T) {
	assert.Equal(t, "abc123", ExtractTokenFromBearer("Bearer abc123"))
	assert.Equal(t, "", ExtractTokenFromBearer("abc123"))
	assert.Equal(t, "", ExtractTokenFromBearer(""))
	assert.Equal(t, "", ExtractTokenFromBearer("Bearer "))
}

func TestIsAuthorized(t *testing.T) {
	assert.True(t, IsAuthorized(&SessionContext{AdminID: 1, Username: "Ryoma94"}))
	assert.False(t, IsAuthorized(&SessionContext{}))
	assert.False(t, IsAuthorized(nil))
}
