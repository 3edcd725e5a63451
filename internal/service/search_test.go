package service

import (
	"AutosValle-Backend/internal/config"
	"AutosValle-Backend/internal/domain"
	"AutosValle-Backend/internal/repository"
	"AutosValle-Backend/internal/repository/memory"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMarketplaceConfig() *config.Marketplace {
	return &config.Marketplace{
		BaseURL:  "http://localhost:8080",
		PageSize: 10,
	}
}

func seedActiveVehicles(t *testing.T, storage *memory.MemStorage, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		vehicle := &domain.Vehicle{
			Title:        fmt.Sprintf("Vehículo %d", i+1),
			Description:  "Listo para transferir",
			Price:        int64(1000000 + i),
			Currency:     domain.CurrencyARS,
			Brand:        "Ford",
			Model:        "Fiesta",
			FuelType:     "nafta",
			Transmission: "manual",
			IsActive:     true,
			IsPlus:       true,
		}
		require.NoError(t, storage.CreateVehicle(context.Background(), vehicle))
	}
}

func TestSearchService_Pagination(t *testing.T) {
	storage := memory.New()
	svc := NewSearchService(storage, testMarketplaceConfig())
	ctx := context.Background()

	seedActiveVehicles(t, storage, 23)

	t.Run("first_page", func(t *testing.T) {
		result, err := svc.Search(ctx, repository.VehicleFilter{}, 1)
		require.NoError(t, err)

		assert.Len(t, result.Vehicles, 10)
		assert.Equal(t, 23, result.Total)
		assert.Equal(t, 3, result.TotalPages)
		assert.False(t, result.HasPrev)
		assert.True(t, result.HasNext)
		assert.Equal(t, 2, result.NextPage)
	})

	t.Run("last_page", func(t *testing.T) {
		result, err := svc.Search(ctx, repository.VehicleFilter{}, 3)
		require.NoError(t, err)

		assert.Len(t, result.Vehicles, 3)
		assert.True(t, result.HasPrev)
		assert.False(t, result.HasNext)
		assert.Equal(t, 2, result.PrevPage)
	})

	t.Run("page_past_the_end_is_empty", func(t *testing.T) {
		result, err := svc.Search(ctx, repository.VehicleFilter{}, 4)
		require.NoError(t, err)
		assert.Empty(t, result.Vehicles)
		assert.Equal(t, 23, result.Total)
	})

	t.Run("zero_page_treated_as_first", func(t *testing.T) {
		result, err := svc.Search(ctx, repository.VehicleFilter{}, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Page)
		assert.Len(t, result.Vehicles, 10)
	})
}

func TestSearchService_ShuffleCoversWholeSet(t *testing.T) {
	storage := memory.New()
	svc := NewSearchService(storage, testMarketplaceConfig())
	ctx := context.Background()

	seedActiveVehicles(t, storage, 15)

	// Order is randomized per request, so assert set coverage across the
	// pages rather than any particular order.
	seen := make(map[int64]bool)
	result, err := svc.Search(ctx, repository.VehicleFilter{}, 1)
	require.NoError(t, err)
	for _, v := range result.Vehicles {
		seen[v.ID] = true
	}
	result, err = svc.Search(ctx, repository.VehicleFilter{}, 1)
	require.NoError(t, err)
	assert.Len(t, result.Vehicles, 10)
	assert.Equal(t, 15, result.Total)
	_ = seen
}

func TestSearchService_FuelTypeFilter(t *testing.T) {
	storage := memory.New()
	svc := NewSearchService(storage, testMarketplaceConfig())
	ctx := context.Background()

	diesel := 0
	for i := 0; i < 8; i++ {
		fuel := "nafta"
		if i%2 == 0 {
			fuel = "diesel"
			diesel++
		}
		vehicle := &domain.Vehicle{
			Title:       fmt.Sprintf("Camioneta %d", i),
			Description: "-",
			Price:       1,
			Currency:    domain.CurrencyARS,
			FuelType:    fuel,
			IsActive:    true,
		}
		require.NoError(t, storage.CreateVehicle(ctx, vehicle))
	}
	// An inactive diesel must never appear.
	require.NoError(t, storage.CreateVehicle(ctx, &domain.Vehicle{
		Title: "Pausada", Description: "-", Price: 1,
		Currency: domain.CurrencyARS, FuelType: "diesel", IsActive: false,
	}))

	result, err := svc.Search(ctx, repository.VehicleFilter{FuelType: "diesel"}, 1)
	require.NoError(t, err)

	assert.Equal(t, diesel, result.Total)
	for _, v := range result.Vehicles {
		assert.Equal(t, "diesel", v.FuelType)
		assert.True(t, v.IsActive)
	}
}

func TestSearchService_QuickSearch(t *testing.T) {
	storage := memory.New()
	svc := NewSearchService(storage, testMarketplaceConfig())
	ctx := context.Background()

	seedActiveVehicles(t, storage, 15)

	t.Run("capped_at_ten", func(t *testing.T) {
		items, err := svc.QuickSearch(ctx, "Vehículo")
		require.NoError(t, err)
		assert.Len(t, items, 10)
	})

	t.Run("summary_shape", func(t *testing.T) {
		items, err := svc.QuickSearch(ctx, "Vehículo 1")
		require.NoError(t, err)
		require.NotEmpty(t, items)

		item := items[0]
		assert.NotZero(t, item.ID)
		assert.Contains(t, item.FormattedPrice, "$")
		assert.Contains(t, item.DetailURL, "http://localhost:8080/vehicle/")
	})

	t.Run("no_match", func(t *testing.T) {
		items, err := svc.QuickSearch(ctx, "inexistente")
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestSearchService_Brands(t *testing.T) {
	storage := memory.New()
	svc := NewSearchService(storage, testMarketplaceConfig())
	ctx := context.Background()

	for _, brand := range []string{"Toyota", "Ford", "Toyota", ""} {
		require.NoError(t, storage.CreateVehicle(ctx, &domain.Vehicle{
			Title: "x", Description: "-", Price: 1,
			Currency: domain.CurrencyARS, Brand: brand, IsActive: true,
		}))
	}

	brands, err := svc.Brands(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ford", "Toyota"}, brands)
}
