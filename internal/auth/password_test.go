package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordService_HashAndVerify(t *testing.T) {
	s := NewPasswordService()

	t.Run("roundtrip", func(t *testing.T) {
		hash, err := s.HashPassword("DiegoPortaz7")
		require.NoError(t, err)

		// 32 hex chars of salt + 64 hex chars of SHA-256.
		assert.Len(t, hash, 96)
		assert.True(t, s.VerifyPassword(hash, "DiegoPortaz7"))
	})

	t.Run("wrong_password", func(t *testing.T) {
		hash, err := s.HashPassword("correct-password")
		require.NoError(t, err)
		assert.False(t, s.VerifyPassword(hash, "wrong-password"))
	})

	t.Run("unique_salts", func(t *testing.T) {
		first, err := s.HashPassword("same-password")
		require.NoError(t, err)
		second, err := s.HashPassword("same-password")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("short_digest_is_invalid_not_panic", func(t *testing.T) {
		assert.False(t, s.VerifyPassword("tooshort", "anything"))
		assert.False(t, s.VerifyPassword("", "anything"))
	})

	t.Run("empty_password_rejected", func(t *testing.T) {
		_, err := s.HashPassword("")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})
}

func TestIsValidPassword(t *testing.T) {
	assert.Error(t, IsValidPassword("short"))
	assert.NoError(t, IsValidPassword("longenough"))
}
