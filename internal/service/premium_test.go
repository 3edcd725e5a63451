package service

import (
	"AutosValle-Backend/internal/domain"
	"AutosValle-Backend/internal/repository"
	"AutosValle-Backend/internal/repository/memory"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedVehicle(t *testing.T, storage *memory.MemStorage, expiresAt *time.Time) *domain.Vehicle {
	t.Helper()
	vehicle := &domain.Vehicle{
		Title:            "Fiat Cronos 2022",
		Description:      "Como nuevo",
		Price:            12000000,
		Currency:         domain.CurrencyARS,
		IsActive:         true,
		IsPlus:           true,
		PremiumExpiresAt: expiresAt,
	}
	require.NoError(t, storage.CreateVehicle(context.Background(), vehicle))
	return vehicle
}

func TestPremiumService_SetDuration(t *testing.T) {
	ctx := context.Background()

	t.Run("active_window_extends_from_current_expiry", func(t *testing.T) {
		storage := memory.New()
		svc := NewPremiumService(storage, zap.NewNop())

		current := time.Now().UTC().Add(10 * 24 * time.Hour)
		vehicle := seedVehicle(t, storage, &current)

		updated, err := svc.SetDuration(ctx, vehicle.ID, 5)
		require.NoError(t, err)

		require.NotNil(t, updated.PremiumExpiresAt)
		expected := current.Add(5 * 30 * 24 * time.Hour)
		assert.WithinDuration(t, expected, *updated.PremiumExpiresAt, time.Second)
		assert.Equal(t, 5, updated.PremiumDurationMonths)
	})

	t.Run("expired_window_restarts_from_now", func(t *testing.T) {
		storage := memory.New()
		svc := NewPremiumService(storage, zap.NewNop())

		expired := time.Now().UTC().Add(-24 * time.Hour)
		vehicle := seedVehicle(t, storage, &expired)

		before := time.Now().UTC()
		updated, err := svc.SetDuration(ctx, vehicle.ID, 5)
		require.NoError(t, err)

		require.NotNil(t, updated.PremiumExpiresAt)
		expected := before.Add(5 * 30 * 24 * time.Hour)
		assert.WithinDuration(t, expected, *updated.PremiumExpiresAt, time.Minute)
	})

	t.Run("absent_window_starts_from_now", func(t *testing.T) {
		storage := memory.New()
		svc := NewPremiumService(storage, zap.NewNop())

		vehicle := seedVehicle(t, storage, nil)

		before := time.Now().UTC()
		updated, err := svc.SetDuration(ctx, vehicle.ID, 2)
		require.NoError(t, err)

		require.NotNil(t, updated.PremiumExpiresAt)
		expected := before.Add(2 * 30 * 24 * time.Hour)
		assert.WithinDuration(t, expected, *updated.PremiumExpiresAt, time.Minute)
	})

	t.Run("months_out_of_range", func(t *testing.T) {
		storage := memory.New()
		svc := NewPremiumService(storage, zap.NewNop())
		vehicle := seedVehicle(t, storage, nil)

		_, err := svc.SetDuration(ctx, vehicle.ID, 0)
		assert.ErrorIs(t, err, ErrInvalidDuration)
		_, err = svc.SetDuration(ctx, vehicle.ID, 13)
		assert.ErrorIs(t, err, ErrInvalidDuration)
	})

	t.Run("unknown_vehicle", func(t *testing.T) {
		storage := memory.New()
		svc := NewPremiumService(storage, zap.NewNop())

		_, err := svc.SetDuration(ctx, 42, 1)
		assert.ErrorIs(t, err, repository.ErrVehicleNotFound)
	})
}
