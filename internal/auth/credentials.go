package auth

import (
	"AutosValle-Backend/internal/domain"
	"AutosValle-Backend/internal/repository"
	"context"
	"errors"

	"go.uber.org/zap"
)

// CredentialService verifies admin credentials against the store.
type CredentialService struct {
	storage         repository.Storage
	passwordService *PasswordService
	log             *zap.Logger
}

// NewCredentialService creates a new credential service.
func NewCredentialService(storage repository.Storage, passwordService *PasswordService, log *zap.Logger) *CredentialService {
	return &CredentialService{
		storage:         storage,
		passwordService: passwordService,
		log:             log,
	}
}

// VerifyCredentials looks up the admin by username and checks the password.
// An unknown username and a wrong password are indistinguishable to callers.
func (s *CredentialService) VerifyCredentials(ctx context.Context, username, password string) (*domain.Admin, bool) {
	admin, err := s.storage.GetAdminByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repository.ErrAdminNotFound) {
			s.log.Error("failed to look up admin", zap.String("username", username), zap.Error(err))
		}
		return nil, false
	}

	if !s.passwordService.VerifyPassword(admin.PasswordHash, password) {
		return nil, false
	}

	return admin, true
}
