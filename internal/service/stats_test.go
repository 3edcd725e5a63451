package service

import (
	"AutosValle-Backend/internal/domain"
	"AutosValle-Backend/internal/repository/memory"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStatsService_Dashboard(t *testing.T) {
	storage := memory.New()
	svc := NewStatsService(storage)
	ctx := context.Background()

	vehicles := NewVehicleService(storage, zap.NewNop())
	active, err := vehicles.Create(ctx, validVehicleInput())
	require.NoError(t, err)

	paused, err := vehicles.Create(ctx, validVehicleInput())
	require.NoError(t, err)
	_, err = vehicles.ToggleActive(ctx, paused.ID)
	require.NoError(t, err)

	requests := NewRequestService(storage, zap.NewNop())
	_, err = requests.Submit(ctx, validSubmitInput())
	require.NoError(t, err)

	desktop := "desktop"
	mobile := "mobile"
	require.NoError(t, storage.CreateView(ctx, &domain.View{VehicleID: active.ID}))
	require.NoError(t, storage.CreateView(ctx, &domain.View{VehicleID: active.ID}))
	require.NoError(t, storage.CreateClick(ctx, &domain.Click{VehicleID: active.ID, ClickType: domain.ClickTypeWhatsApp, DeviceType: &desktop}))
	require.NoError(t, storage.CreateClick(ctx, &domain.Click{VehicleID: active.ID, ClickType: domain.ClickTypeOffer, DeviceType: &mobile}))
	require.NoError(t, storage.CreatePageVisit(ctx, &domain.PageVisit{Page: domain.PageIndex}))

	stats, err := svc.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.ActiveVehicles)
	assert.Equal(t, int64(1), stats.PendingRequests)
	assert.Equal(t, int64(2), stats.TotalViews)
	assert.Equal(t, int64(1), stats.WhatsAppClicks)
	assert.Equal(t, int64(1), stats.OfferClicks)
	assert.Equal(t, int64(1), stats.IndexVisits)
	assert.Equal(t, int64(1), stats.VisitsToday)
	assert.Equal(t, int64(1), stats.ClicksByDevice["desktop"])
	assert.Equal(t, int64(1), stats.ClicksByDevice["mobile"])

	require.Len(t, stats.MostViewed, 1)
	assert.Equal(t, active.ID, stats.MostViewed[0].Vehicle.ID)
	assert.Equal(t, int64(2), stats.MostViewed[0].ViewCount)
	assert.Equal(t, int64(2), stats.MostViewed[0].ClickCount)
}
