package service

import (
	"AutosValle-Backend/internal/domain"
	"AutosValle-Backend/internal/repository"
	"context"
	"fmt"
	"time"
)

// DashboardStats aggregates the admin dashboard numbers.
type DashboardStats struct {
	ActiveVehicles  int64                         `json:"active_vehicles"`
	PendingRequests int64                         `json:"pending_requests"`
	TotalViews      int64                         `json:"total_views"`
	WhatsAppClicks  int64                         `json:"whatsapp_clicks"`
	OfferClicks     int64                         `json:"offer_clicks"`
	IndexVisits     int64                         `json:"index_visits"`
	VisitsToday     int64                         `json:"visits_today"`
	ClicksByDevice  map[string]int64              `json:"clicks_by_device"`
	MostViewed      []*repository.VehicleWithStats `json:"most_viewed"`
}

// StatsService computes the admin dashboard aggregates.
type StatsService struct {
	storage repository.Storage
}

func NewStatsService(storage repository.Storage) *StatsService {
	return &StatsService{storage: storage}
}

// Dashboard gathers every dashboard aggregate in one call. "Today" starts at
// midnight UTC.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.ActiveVehicles, err = s.storage.CountActiveVehicles(ctx); err != nil {
		return nil, fmt.Errorf("failed to count active vehicles: %w", err)
	}
	if stats.PendingRequests, err = s.storage.CountRequestsByStatus(ctx, domain.RequestStatusPending); err != nil {
		return nil, fmt.Errorf("failed to count pending requests: %w", err)
	}
	if stats.TotalViews, err = s.storage.CountViews(ctx); err != nil {
		return nil, fmt.Errorf("failed to count views: %w", err)
	}
	if stats.WhatsAppClicks, err = s.storage.CountClicksByType(ctx, domain.ClickTypeWhatsApp); err != nil {
		return nil, fmt.Errorf("failed to count whatsapp clicks: %w", err)
	}
	if stats.OfferClicks, err = s.storage.CountClicksByType(ctx, domain.ClickTypeOffer); err != nil {
		return nil, fmt.Errorf("failed to count offer clicks: %w", err)
	}
	if stats.IndexVisits, err = s.storage.CountPageVisits(ctx, domain.PageIndex); err != nil {
		return nil, fmt.Errorf("failed to count page visits: %w", err)
	}

	now := time.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if stats.VisitsToday, err = s.storage.CountPageVisitsSince(ctx, domain.PageIndex, midnight); err != nil {
		return nil, fmt.Errorf("failed to count today's visits: %w", err)
	}

	if stats.ClicksByDevice, err = s.storage.ClicksByDevice(ctx); err != nil {
		return nil, fmt.Errorf("failed to aggregate clicks by device: %w", err)
	}
	if stats.MostViewed, err = s.storage.MostViewed(ctx, false, 10); err != nil {
		return nil, fmt.Errorf("failed to rank most viewed vehicles: %w", err)
	}

	return stats, nil
}
