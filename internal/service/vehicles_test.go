package service

import (
	"AutosValle-Backend/internal/domain"
	"AutosValle-Backend/internal/repository"
	"AutosValle-Backend/internal/repository/memory"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validVehicleInput() *VehicleInput {
	return &VehicleInput{
		Title:        "Peugeot 208 2021",
		Description:  "Único dueño",
		Price:        9500000,
		Currency:     "ARS",
		Brand:        "Peugeot",
		Model:        "208",
		FuelType:     "nafta",
		Transmission: "manual",
		Color:        "gris",
		Images:       []string{"uploads/1.jpg", "uploads/2.jpg"},
		IsActive:     true,
		IsPlus:       true,
	}
}

func TestVehicleService_Create(t *testing.T) {
	storage := memory.New()
	svc := NewVehicleService(storage, zap.NewNop())
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		vehicle, err := svc.Create(ctx, validVehicleInput())
		require.NoError(t, err)

		assert.NotZero(t, vehicle.ID)
		assert.Equal(t, 1, vehicle.PremiumDurationMonths)
		assert.Equal(t, []string{"uploads/1.jpg", "uploads/2.jpg"}, vehicle.ImagesList())
	})

	t.Run("out_of_range_main_index_clamps_to_zero", func(t *testing.T) {
		input := validVehicleInput()
		input.MainImageIndex = 9
		vehicle, err := svc.Create(ctx, input)
		require.NoError(t, err)
		assert.Zero(t, vehicle.MainImageIndex)
	})

	t.Run("validation_failure", func(t *testing.T) {
		input := validVehicleInput()
		input.Title = ""
		input.Price = 0
		_, err := svc.Create(ctx, input)
		assert.Error(t, err)
	})
}

func TestVehicleService_Update(t *testing.T) {
	storage := memory.New()
	svc := NewVehicleService(storage, zap.NewNop())
	ctx := context.Background()

	vehicle, err := svc.Create(ctx, validVehicleInput())
	require.NoError(t, err)

	t.Run("empty_upload_keeps_images", func(t *testing.T) {
		input := validVehicleInput()
		input.Images = nil
		input.Title = "Peugeot 208 Allure 2021"

		updated, err := svc.Update(ctx, vehicle.ID, input)
		require.NoError(t, err)
		assert.Equal(t, "Peugeot 208 Allure 2021", updated.Title)
		assert.Equal(t, []string{"uploads/1.jpg", "uploads/2.jpg"}, updated.ImagesList())
	})

	t.Run("new_upload_replaces_images", func(t *testing.T) {
		input := validVehicleInput()
		input.Images = []string{"uploads/3.jpg"}

		updated, err := svc.Update(ctx, vehicle.ID, input)
		require.NoError(t, err)
		assert.Equal(t, []string{"uploads/3.jpg"}, updated.ImagesList())
	})

	t.Run("unknown_vehicle", func(t *testing.T) {
		_, err := svc.Update(ctx, 999, validVehicleInput())
		assert.ErrorIs(t, err, repository.ErrVehicleNotFound)
	})
}

func TestVehicleService_ToggleActive(t *testing.T) {
	storage := memory.New()
	svc := NewVehicleService(storage, zap.NewNop())
	ctx := context.Background()

	vehicle, err := svc.Create(ctx, validVehicleInput())
	require.NoError(t, err)
	require.True(t, vehicle.IsActive)

	paused, err := svc.ToggleActive(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.False(t, paused.IsActive)

	resumed, err := svc.ToggleActive(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.True(t, resumed.IsActive)
}

func TestVehicleService_Delete(t *testing.T) {
	storage := memory.New()
	svc := NewVehicleService(storage, zap.NewNop())
	ctx := context.Background()

	vehicle, err := svc.Create(ctx, validVehicleInput())
	require.NoError(t, err)

	// Attach engagement records that must cascade away.
	require.NoError(t, storage.CreateView(ctx, &domain.View{VehicleID: vehicle.ID}))
	require.NoError(t, storage.CreateClick(ctx, &domain.Click{VehicleID: vehicle.ID, ClickType: domain.ClickTypeWhatsApp}))

	refs, err := svc.Delete(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/1.jpg", "uploads/2.jpg"}, refs)

	_, err = storage.GetVehicle(ctx, vehicle.ID)
	assert.ErrorIs(t, err, repository.ErrVehicleNotFound)

	views, err := storage.CountViews(ctx)
	require.NoError(t, err)
	assert.Zero(t, views)

	clicks, err := storage.CountClicksByType(ctx, domain.ClickTypeWhatsApp)
	require.NoError(t, err)
	assert.Zero(t, clicks)

	t.Run("delete_missing", func(t *testing.T) {
		_, err := svc.Delete(ctx, vehicle.ID)
		assert.ErrorIs(t, err, repository.ErrVehicleNotFound)
	})
}
