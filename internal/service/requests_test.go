package service

import (
	"AutosValle-Backend/internal/domain"
	"AutosValle-Backend/internal/repository"
	"AutosValle-Backend/internal/repository/memory"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validSubmitInput() *SubmitRequestInput {
	return &SubmitRequestInput{
		FullName:        "Juan Pérez",
		DNI:             "30123456",
		PhoneNumber:     "+5491122334455",
		Location:        "Córdoba",
		Title:           "Toyota Corolla 2020",
		Description:     "Excelente estado",
		Price:           8500000,
		Currency:        "ARS",
		Brand:           "Toyota",
		Model:           "Corolla",
		FuelType:        "nafta",
		Transmission:    "manual",
		Color:           "blanco",
		Images:          []string{"uploads/a.jpg", "uploads/b.jpg"},
		PublicationType: domain.PublicationTypePlus,
	}
}

func TestRequestService_Submit(t *testing.T) {
	storage := memory.New()
	svc := NewRequestService(storage, zap.NewNop())
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		request, err := svc.Submit(ctx, validSubmitInput())
		require.NoError(t, err)

		assert.NotZero(t, request.ID)
		assert.Equal(t, domain.RequestStatusPending, request.Status)
		assert.Equal(t, []string{"uploads/a.jpg", "uploads/b.jpg"}, request.ImagesList())
	})

	t.Run("missing_required_fields", func(t *testing.T) {
		input := validSubmitInput()
		input.FullName = ""
		input.FuelType = ""

		_, err := svc.Submit(ctx, input)
		require.Error(t, err)

		var validationErrs validator.ValidationErrors
		require.ErrorAs(t, err, &validationErrs)
	})

	t.Run("invalid_currency", func(t *testing.T) {
		input := validSubmitInput()
		input.Currency = "EUR"
		_, err := svc.Submit(ctx, input)
		assert.Error(t, err)
	})

	t.Run("publication_type_defaults_to_plus", func(t *testing.T) {
		input := validSubmitInput()
		input.PublicationType = ""
		request, err := svc.Submit(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, domain.PublicationTypePlus, request.PublicationType)
	})
}

func TestRequestService_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("creates_vehicle_from_request", func(t *testing.T) {
		storage := memory.New()
		svc := NewRequestService(storage, zap.NewNop())

		request, err := svc.Submit(ctx, validSubmitInput())
		require.NoError(t, err)

		before := time.Now().UTC()
		vehicle, err := svc.Approve(ctx, request.ID, 1, 3)
		require.NoError(t, err)

		assert.Equal(t, "Toyota Corolla 2020", vehicle.Title)
		assert.Equal(t, int64(8500000), vehicle.Price)
		require.NotNil(t, vehicle.WhatsAppNumber)
		assert.Equal(t, "+5491122334455", *vehicle.WhatsAppNumber)
		assert.True(t, vehicle.IsPlus)
		assert.True(t, vehicle.IsActive)
		require.NotNil(t, vehicle.ClientRequestID)
		assert.Equal(t, request.ID, *vehicle.ClientRequestID)
		assert.Equal(t, []string{"uploads/a.jpg", "uploads/b.jpg"}, vehicle.ImagesList())

		// The premium window is durationMonths * 30 days from now.
		require.NotNil(t, vehicle.PremiumExpiresAt)
		expected := before.Add(3 * 30 * 24 * time.Hour)
		assert.WithinDuration(t, expected, *vehicle.PremiumExpiresAt, time.Minute)

		processed, err := storage.GetRequest(ctx, request.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RequestStatusApproved, processed.Status)
		assert.NotNil(t, processed.ProcessedAt)
		require.NotNil(t, processed.ProcessedByAdminID)
		assert.Equal(t, int64(1), *processed.ProcessedByAdminID)
	})

	t.Run("free_request_creates_free_vehicle", func(t *testing.T) {
		storage := memory.New()
		svc := NewRequestService(storage, zap.NewNop())

		input := validSubmitInput()
		input.PublicationType = domain.PublicationTypeFree
		request, err := svc.Submit(ctx, input)
		require.NoError(t, err)

		vehicle, err := svc.Approve(ctx, request.ID, 1, 1)
		require.NoError(t, err)
		assert.False(t, vehicle.IsPlus)
	})

	t.Run("invalid_duration", func(t *testing.T) {
		storage := memory.New()
		svc := NewRequestService(storage, zap.NewNop())

		request, err := svc.Submit(ctx, validSubmitInput())
		require.NoError(t, err)

		_, err = svc.Approve(ctx, request.ID, 1, 0)
		assert.ErrorIs(t, err, ErrInvalidDuration)
		_, err = svc.Approve(ctx, request.ID, 1, 13)
		assert.ErrorIs(t, err, ErrInvalidDuration)
	})

	t.Run("unknown_request", func(t *testing.T) {
		storage := memory.New()
		svc := NewRequestService(storage, zap.NewNop())

		_, err := svc.Approve(ctx, 999, 1, 1)
		assert.ErrorIs(t, err, repository.ErrRequestNotFound)
	})

	t.Run("already_processed_is_conflict", func(t *testing.T) {
		storage := memory.New()
		svc := NewRequestService(storage, zap.NewNop())

		request, err := svc.Submit(ctx, validSubmitInput())
		require.NoError(t, err)

		_, err = svc.Approve(ctx, request.ID, 1, 1)
		require.NoError(t, err)

		_, err = svc.Approve(ctx, request.ID, 1, 1)
		assert.ErrorIs(t, err, repository.ErrRequestProcessed)
	})

	t.Run("concurrent_approvals_create_one_vehicle", func(t *testing.T) {
		storage := memory.New()
		svc := NewRequestService(storage, zap.NewNop())

		request, err := svc.Submit(ctx, validSubmitInput())
		require.NoError(t, err)

		const racers = 10
		var wg sync.WaitGroup
		results := make(chan error, racers)

		for i := 0; i < racers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.Approve(ctx, request.ID, 1, 1)
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		succeeded := 0
		for err := range results {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, repository.ErrRequestProcessed)
			}
		}
		assert.Equal(t, 1, succeeded)

		count, err := storage.CountActiveVehicles(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestRequestService_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects_pending", func(t *testing.T) {
		storage := memory.New()
		svc := NewRequestService(storage, zap.NewNop())

		request, err := svc.Submit(ctx, validSubmitInput())
		require.NoError(t, err)

		require.NoError(t, svc.Reject(ctx, request.ID, 1))

		rejected, err := storage.GetRequest(ctx, request.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RequestStatusRejected, rejected.Status)

		count, err := storage.CountActiveVehicles(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("rejecting_approved_request_keeps_status", func(t *testing.T) {
		storage := memory.New()
		svc := NewRequestService(storage, zap.NewNop())

		request, err := svc.Submit(ctx, validSubmitInput())
		require.NoError(t, err)

		_, err = svc.Approve(ctx, request.ID, 1, 1)
		require.NoError(t, err)

		err = svc.Reject(ctx, request.ID, 1)
		assert.ErrorIs(t, err, repository.ErrRequestProcessed)

		unchanged, err := storage.GetRequest(ctx, request.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RequestStatusApproved, unchanged.Status)
	})
}

func TestRequestService_Edit(t *testing.T) {
	storage := memory.New()
	svc := NewRequestService(storage, zap.NewNop())
	ctx := context.Background()

	request, err := svc.Submit(ctx, validSubmitInput())
	require.NoError(t, err)

	edit := &EditRequestInput{
		FullName:     "Juan Pérez",
		DNI:          "30123456",
		PhoneNumber:  "+5491122334455",
		Location:     "Córdoba",
		Title:        "Toyota Corolla XEI 2020",
		Description:  "Excelente estado, service oficial",
		Price:        9000000,
		Currency:     "ARS",
		Brand:        "Toyota",
		Model:        "Corolla",
		FuelType:     "nafta",
		Transmission: "manual",
		Color:        "blanco",
	}

	t.Run("empty_upload_keeps_images", func(t *testing.T) {
		updated, err := svc.Edit(ctx, request.ID, edit)
		require.NoError(t, err)
		assert.Equal(t, "Toyota Corolla XEI 2020", updated.Title)
		assert.Equal(t, int64(9000000), updated.Price)
		assert.Equal(t, []string{"uploads/a.jpg", "uploads/b.jpg"}, updated.ImagesList())
	})

	t.Run("new_upload_wholly_replaces_images", func(t *testing.T) {
		withImages := *edit
		withImages.Images = []string{"uploads/c.jpg"}
		updated, err := svc.Edit(ctx, request.ID, &withImages)
		require.NoError(t, err)
		assert.Equal(t, []string{"uploads/c.jpg"}, updated.ImagesList())
	})

	t.Run("editing_processed_request_is_allowed", func(t *testing.T) {
		_, err := svc.Approve(ctx, request.ID, 1, 1)
		require.NoError(t, err)

		_, err = svc.Edit(ctx, request.ID, edit)
		assert.NoError(t, err)
	})
}
