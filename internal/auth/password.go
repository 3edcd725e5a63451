package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// saltLength is the length of the hex-encoded salt prefix (16 random bytes).
const saltLength = 32

var ErrInvalidPassword = errors.New("invalid password")

// PasswordService produces and verifies salted SHA-256 password digests.
// A digest is the hex salt followed by hex(sha256(password + salt)).
type PasswordService struct{}

// NewPasswordService creates a new password service.
func NewPasswordService() *PasswordService {
	return &PasswordService{}
}

// HashPassword generates a salted digest for the given password.
func (s *PasswordService) HashPassword(password string) (string, error) {
	if len(password) == 0 {
		return "", ErrInvalidPassword
	}

	saltBytes := make([]byte, saltLength/2)
	if _, err := rand.Read(saltBytes); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	salt := hex.EncodeToString(saltBytes)

	digest := sha256.Sum256([]byte(password + salt))
	return salt + hex.EncodeToString(digest[:]), nil
}

// VerifyPassword checks a password against a stored digest. A digest too
// short to contain the salt is treated as invalid, never as an error.
func (s *PasswordService) VerifyPassword(storedHash, password string) bool {
	if len(storedHash) < saltLength {
		return false
	}

	salt := storedHash[:saltLength]
	expected := storedHash[saltLength:]

	digest := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(digest[:]) == expected
}

// IsValidPassword checks the password against basic length criteria.
func IsValidPassword(password string) error {
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters long")
	}

	if len(password) > 128 {
		return errors.New("password must be no more than 128 characters long")
	}

	return nil
}
