package service

import (
	"AutosValle-Backend/internal/domain"
	"AutosValle-Backend/internal/repository"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// PremiumService manages the time-bounded premium visibility windows.
type PremiumService struct {
	storage repository.Storage
	log     *zap.Logger
}

func NewPremiumService(storage repository.Storage, log *zap.Logger) *PremiumService {
	return &PremiumService{
		storage: storage,
		log:     log,
	}
}

// SetDuration grants months of premium visibility. An unexpired window is
// extended from its current expiry; an expired or absent window restarts
// from now. Months are approximated as 30 days.
func (s *PremiumService) SetDuration(ctx context.Context, vehicleID int64, months int) (*domain.Vehicle, error) {
	if months < 1 || months > 12 {
		return nil, ErrInvalidDuration
	}

	vehicle, err := s.storage.GetVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	base := now
	if vehicle.PremiumExpiresAt != nil && vehicle.PremiumExpiresAt.After(now) {
		base = *vehicle.PremiumExpiresAt
	}

	expiresAt := base.Add(time.Duration(months) * premiumMonth)
	vehicle.PremiumDurationMonths = months
	vehicle.PremiumExpiresAt = &expiresAt

	if err := s.storage.UpdateVehicle(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to update premium duration: %w", err)
	}

	s.log.Info("premium duration updated",
		zap.Int64("vehicle_id", vehicleID),
		zap.Int("months", months),
		zap.Time("expires_at", expiresAt))

	return vehicle, nil
}
