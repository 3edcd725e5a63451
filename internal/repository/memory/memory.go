package memory

import (
	"AutosValle-Backend/internal/domain"
	"AutosValle-Backend/internal/repository"
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemStorage is an in-memory Storage implementation used in tests and local
// development. It mirrors the transactional guarantees of the PostgreSQL
// implementation under a single mutex.
type MemStorage struct {
	mu             sync.RWMutex
	admins         map[int64]*domain.Admin
	vehicles       map[int64]*domain.Vehicle
	requests       map[int64]*domain.ClientRequest
	clicks         []*domain.Click
	views          []*domain.View
	pageVisits     []*domain.PageVisit
	adminCounter   int64
	vehicleCounter int64
	requestCounter int64
	clickCounter   int64
	viewCounter    int64
	visitCounter   int64
}

func New() *MemStorage {
	return &MemStorage{
		admins:   make(map[int64]*domain.Admin),
		vehicles: make(map[int64]*domain.Vehicle),
		requests: make(map[int64]*domain.ClientRequest),
	}
}

// --- Admin Methods ---

func (s *MemStorage) GetAdminByUsername(_ context.Context, username string) (*domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, admin := range s.admins {
		if admin.Username == username {
			copied := *admin
			return &copied, nil
		}
	}
	return nil, repository.ErrAdminNotFound
}

func (s *MemStorage) CreateAdmin(_ context.Context, admin *domain.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adminCounter++
	admin.ID = s.adminCounter
	copied := *admin
	s.admins[admin.ID] = &copied
	return nil
}

// --- Vehicle Methods ---

func (s *MemStorage) CreateVehicle(_ context.Context, vehicle *domain.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createVehicleLocked(vehicle)
	return nil
}

func (s *MemStorage) createVehicleLocked(vehicle *domain.Vehicle) {
	s.vehicleCounter++
	vehicle.ID = s.vehicleCounter
	now := time.Now().UTC()
	vehicle.CreatedAt = now
	vehicle.UpdatedAt = now
	copied := *vehicle
	s.vehicles[vehicle.ID] = &copied
}

func (s *MemStorage) GetVehicle(_ context.Context, id int64) (*domain.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vehicle, ok := s.vehicles[id]
	if !ok {
		return nil, repository.ErrVehicleNotFound
	}
	copied := *vehicle
	return &copied, nil
}

func (s *MemStorage) UpdateVehicle(_ context.Context, vehicle *domain.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vehicles[vehicle.ID]; !ok {
		return repository.ErrVehicleNotFound
	}
	vehicle.UpdatedAt = time.Now().UTC()
	copied := *vehicle
	s.vehicles[vehicle.ID] = &copied
	return nil
}

func (s *MemStorage) DeleteVehicle(_ context.Context, id int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vehicle, ok := s.vehicles[id]
	if !ok {
		return nil, repository.ErrVehicleNotFound
	}
	images := vehicle.ImagesList()
	delete(s.vehicles, id)

	remainingClicks := s.clicks[:0]
	for _, click := range s.clicks {
		if click.VehicleID != id {
			remainingClicks = append(remainingClicks, click)
		}
	}
	s.clicks = remainingClicks

	remainingViews := s.views[:0]
	for _, view := range s.views {
		if view.VehicleID != id {
			remainingViews = append(remainingViews, view)
		}
	}
	s.views = remainingViews

	return images, nil
}

func (s *MemStorage) SearchVehicles(_ context.Context, filter repository.VehicleFilter) ([]*domain.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.vehicles))
	for id := range s.vehicles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var matched []*domain.Vehicle
	for _, id := range ids {
		vehicle := s.vehicles[id]
		if !vehicle.IsActive || !matchesFilter(vehicle, filter) {
			continue
		}
		copied := *vehicle
		matched = append(matched, &copied)
	}
	return matched, nil
}

func matchesFilter(v *domain.Vehicle, f repository.VehicleFilter) bool {
	if f.Search != "" && !containsFold(v.Title, f.Search) && !containsFold(v.Brand, f.Search) &&
		!containsFold(v.Model, f.Search) && !containsFold(v.Description, f.Search) {
		return false
	}
	if f.PriceMin != nil && v.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && v.Price > *f.PriceMax {
		return false
	}
	if f.Brand != "" && !containsFold(v.Brand, f.Brand) {
		return false
	}
	if f.YearMin != nil && (v.Year == nil || *v.Year < *f.YearMin) {
		return false
	}
	if f.YearMax != nil && (v.Year == nil || *v.Year > *f.YearMax) {
		return false
	}
	if f.Location != "" && !containsFold(v.Title, f.Location) {
		return false
	}
	if f.FuelType != "" && v.FuelType != f.FuelType {
		return false
	}
	if f.Transmission != "" && v.Transmission != f.Transmission {
		return false
	}
	if f.KmMin != nil && (v.Kilometers == nil || *v.Kilometers < *f.KmMin) {
		return false
	}
	if f.KmMax != nil && (v.Kilometers == nil || *v.Kilometers > *f.KmMax) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func (s *MemStorage) DistinctBrands(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, vehicle := range s.vehicles {
		if vehicle.IsActive && vehicle.Brand != "" {
			seen[vehicle.Brand] = struct{}{}
		}
	}

	brands := make([]string, 0, len(seen))
	for brand := range seen {
		brands = append(brands, brand)
	}
	sort.Strings(brands)
	return brands, nil
}

func (s *MemStorage) MostViewed(_ context.Context, onlyPlus bool, limit int) ([]*repository.VehicleWithStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	viewCounts := make(map[int64]int64)
	for _, view := range s.views {
		viewCounts[view.VehicleID]++
	}
	clickCounts := make(map[int64]int64)
	for _, click := range s.clicks {
		clickCounts[click.VehicleID]++
	}

	var results []*repository.VehicleWithStats
	for _, vehicle := range s.vehicles {
		if !vehicle.IsActive {
			continue
		}
		if onlyPlus && !vehicle.IsPlus {
			continue
		}
		copied := *vehicle
		results = append(results, &repository.VehicleWithStats{
			Vehicle:    &copied,
			ViewCount:  viewCounts[vehicle.ID],
			ClickCount: clickCounts[vehicle.ID],
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].ViewCount != results[j].ViewCount {
			return results[i].ViewCount > results[j].ViewCount
		}
		return results[i].Vehicle.ID < results[j].Vehicle.ID
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// --- Client Request Methods ---

func (s *MemStorage) CreateRequest(_ context.Context, request *domain.ClientRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestCounter++
	request.ID = s.requestCounter
	now := time.Now().UTC()
	request.CreatedAt = now
	request.UpdatedAt = now
	copied := *request
	s.requests[request.ID] = &copied
	return nil
}

func (s *MemStorage) GetRequest(_ context.Context, id int64) (*domain.ClientRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	request, ok := s.requests[id]
	if !ok {
		return nil, repository.ErrRequestNotFound
	}
	copied := *request
	return &copied, nil
}

func (s *MemStorage) UpdateRequest(_ context.Context, request *domain.ClientRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[request.ID]; !ok {
		return repository.ErrRequestNotFound
	}
	request.UpdatedAt = time.Now().UTC()
	copied := *request
	s.requests[request.ID] = &copied
	return nil
}

func (s *MemStorage) ListRequestsByStatus(_ context.Context, status domain.RequestStatus) ([]*domain.ClientRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var requests []*domain.ClientRequest
	for _, request := range s.requests {
		if request.Status == status {
			copied := *request
			requests = append(requests, &copied)
		}
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests, nil
}

func (s *MemStorage) CountRequestsByStatus(_ context.Context, status domain.RequestStatus) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, request := range s.requests {
		if request.Status == status {
			count++
		}
	}
	return count, nil
}

func (s *MemStorage) ApproveRequest(_ context.Context, requestID, adminID int64, vehicle *domain.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.requests[requestID]
	if !ok {
		return repository.ErrRequestNotFound
	}
	if request.Status != domain.RequestStatusPending {
		return repository.ErrRequestProcessed
	}

	now := time.Now().UTC()
	request.Status = domain.RequestStatusApproved
	request.ProcessedAt = &now
	request.ProcessedByAdminID = &adminID
	request.UpdatedAt = now

	vehicle.ClientRequestID = &requestID
	s.createVehicleLocked(vehicle)
	return nil
}

func (s *MemStorage) RejectRequest(_ context.Context, requestID, adminID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.requests[requestID]
	if !ok {
		return repository.ErrRequestNotFound
	}
	if request.Status != domain.RequestStatusPending {
		return repository.ErrRequestProcessed
	}

	now := time.Now().UTC()
	request.Status = domain.RequestStatusRejected
	request.ProcessedAt = &now
	request.ProcessedByAdminID = &adminID
	request.UpdatedAt = now
	return nil
}

// --- Analytics Methods ---

func (s *MemStorage) CreateView(_ context.Context, view *domain.View) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewCounter++
	view.ID = s.viewCounter
	if view.Timestamp.IsZero() {
		view.Timestamp = time.Now().UTC()
	}
	copied := *view
	s.views = append(s.views, &copied)
	return nil
}

func (s *MemStorage) CreateClick(_ context.Context, click *domain.Click) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clickCounter++
	click.ID = s.clickCounter
	if click.Timestamp.IsZero() {
		click.Timestamp = time.Now().UTC()
	}
	copied := *click
	s.clicks = append(s.clicks, &copied)
	return nil
}

func (s *MemStorage) CreatePageVisit(_ context.Context, visit *domain.PageVisit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visitCounter++
	visit.ID = s.visitCounter
	if visit.CreatedAt.IsZero() {
		visit.CreatedAt = time.Now().UTC()
	}
	copied := *visit
	s.pageVisits = append(s.pageVisits, &copied)
	return nil
}

func (s *MemStorage) CountActiveVehicles(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, vehicle := range s.vehicles {
		if vehicle.IsActive {
			count++
		}
	}
	return count, nil
}

func (s *MemStorage) CountViews(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.views)), nil
}

func (s *MemStorage) CountClicksByType(_ context.Context, clickType string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, click := range s.clicks {
		if click.ClickType == clickType {
			count++
		}
	}
	return count, nil
}

func (s *MemStorage) ClicksByDevice(_ context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int64)
	for _, click := range s.clicks {
		device := "unknown"
		if click.DeviceType != nil {
			device = *click.DeviceType
		}
		counts[device]++
	}
	return counts, nil
}

func (s *MemStorage) CountPageVisits(_ context.Context, page string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, visit := range s.pageVisits {
		if visit.Page == page {
			count++
		}
	}
	return count, nil
}

func (s *MemStorage) CountPageVisitsSince(_ context.Context, page string, since time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, visit := range s.pageVisits {
		if visit.Page == page && !visit.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}
