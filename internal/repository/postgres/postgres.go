package postgres

import (
	"AutosValle-Backend/internal/domain"
	"AutosValle-Backend/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostgresStorage implements the Storage interface for PostgreSQL.
type PostgresStorage struct {
	db  *gorm.DB
	log *zap.Logger
}

// New creates a new PostgreSQL storage instance.
func New(db *gorm.DB, log *zap.Logger) *PostgresStorage {
	return &PostgresStorage{
		db:  db,
		log: log,
	}
}

// --- Admin Methods ---

func (s *PostgresStorage) GetAdminByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	var admin domain.Admin

	err := s.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrAdminNotFound
	}
	if err != nil {
		s.log.Error("failed to get admin by username", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	return &admin, nil
}

func (s *PostgresStorage) CreateAdmin(ctx context.Context, admin *domain.Admin) error {
	if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
		s.log.Error("failed to create admin", zap.String("username", admin.Username), zap.Error(err))
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

// --- Vehicle Methods ---

func (s *PostgresStorage) CreateVehicle(ctx context.Context, vehicle *domain.Vehicle) error {
	if err := s.db.WithContext(ctx).Create(vehicle).Error; err != nil {
		s.log.Error("failed to create vehicle", zap.String("title", vehicle.Title), zap.Error(err))
		return fmt.Errorf("failed to create vehicle: %w", err)
	}

	s.log.Info("created vehicle", zap.Int64("vehicle_id", vehicle.ID), zap.String("title", vehicle.Title))
	return nil
}

func (s *PostgresStorage) GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle

	err := s.db.WithContext(ctx).First(&vehicle, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrVehicleNotFound
	}
	if err != nil {
		s.log.Error("failed to get vehicle", zap.Int64("vehicle_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	return &vehicle, nil
}

func (s *PostgresStorage) UpdateVehicle(ctx context.Context, vehicle *domain.Vehicle) error {
	result := s.db.WithContext(ctx).Save(vehicle)
	if result.Error != nil {
		s.log.Error("failed to update vehicle", zap.Int64("vehicle_id", vehicle.ID), zap.Error(result.Error))
		return fmt.Errorf("failed to update vehicle: %w", result.Error)
	}
	return nil
}

// DeleteVehicle removes the vehicle and all its click and view records in a
// single transaction. The stored image references are returned so the caller
// can request file cleanup.
func (s *PostgresStorage) DeleteVehicle(ctx context.Context, id int64) ([]string, error) {
	var images []string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vehicle domain.Vehicle
		if err := tx.First(&vehicle, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repository.ErrVehicleNotFound
			}
			return fmt.Errorf("failed to get vehicle: %w", err)
		}
		images = vehicle.ImagesList()

		if err := tx.Where("vehicle_id = ?", id).Delete(&domain.Click{}).Error; err != nil {
			return fmt.Errorf("failed to delete clicks: %w", err)
		}
		if err := tx.Where("vehicle_id = ?", id).Delete(&domain.View{}).Error; err != nil {
			return fmt.Errorf("failed to delete views: %w", err)
		}
		if err := tx.Delete(&vehicle).Error; err != nil {
			return fmt.Errorf("failed to delete vehicle: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, repository.ErrVehicleNotFound) {
			s.log.Error("failed to delete vehicle", zap.Int64("vehicle_id", id), zap.Error(err))
		}
		return nil, err
	}

	s.log.Info("deleted vehicle", zap.Int64("vehicle_id", id), zap.Int("image_count", len(images)))
	return images, nil
}

func (s *PostgresStorage) SearchVehicles(ctx context.Context, filter repository.VehicleFilter) ([]*domain.Vehicle, error) {
	query := s.db.WithContext(ctx).Model(&domain.Vehicle{}).Where("is_active = ?", true)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"title ILIKE ? OR brand ILIKE ? OR model ILIKE ? OR description ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if filter.PriceMin != nil {
		query = query.Where("price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		query = query.Where("price <= ?", *filter.PriceMax)
	}
	if filter.Brand != "" {
		query = query.Where("brand ILIKE ?", "%"+filter.Brand+"%")
	}
	if filter.YearMin != nil {
		query = query.Where("year >= ?", *filter.YearMin)
	}
	if filter.YearMax != nil {
		query = query.Where("year <= ?", *filter.YearMax)
	}
	// The schema has no location column; the filter matches title text.
	if filter.Location != "" {
		query = query.Where("title ILIKE ?", "%"+filter.Location+"%")
	}
	if filter.FuelType != "" {
		query = query.Where("fuel_type = ?", filter.FuelType)
	}
	if filter.Transmission != "" {
		query = query.Where("transmission = ?", filter.Transmission)
	}
	if filter.KmMin != nil {
		query = query.Where("kilometers >= ?", *filter.KmMin)
	}
	if filter.KmMax != nil {
		query = query.Where("kilometers <= ?", *filter.KmMax)
	}

	var vehicles []*domain.Vehicle
	if err := query.Find(&vehicles).Error; err != nil {
		s.log.Error("failed to search vehicles", zap.Error(err))
		return nil, fmt.Errorf("failed to search vehicles: %w", err)
	}

	return vehicles, nil
}

func (s *PostgresStorage) DistinctBrands(ctx context.Context) ([]string, error) {
	var brands []string

	err := s.db.WithContext(ctx).Model(&domain.Vehicle{}).
		Where("is_active = ? AND brand IS NOT NULL AND brand <> ''", true).
		Distinct("brand").
		Order("brand").
		Pluck("brand", &brands).Error
	if err != nil {
		s.log.Error("failed to list distinct brands", zap.Error(err))
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}

	return brands, nil
}

func (s *PostgresStorage) MostViewed(ctx context.Context, onlyPlus bool, limit int) ([]*repository.VehicleWithStats, error) {
	type row struct {
		domain.Vehicle
		ViewCount  int64 `gorm:"column:view_count"`
		ClickCount int64 `gorm:"column:click_count"`
	}

	query := s.db.WithContext(ctx).Model(&domain.Vehicle{}).
		Select("vehicles.*, count(DISTINCT views.id) AS view_count, count(DISTINCT clicks.id) AS click_count").
		Joins("LEFT JOIN views ON views.vehicle_id = vehicles.id").
		Joins("LEFT JOIN clicks ON clicks.vehicle_id = vehicles.id").
		Where("vehicles.is_active = ?", true).
		Group("vehicles.id").
		Order("view_count DESC, vehicles.id").
		Limit(limit)
	if onlyPlus {
		query = query.Where("vehicles.is_plus = ?", true)
	}

	var rows []row
	if err := query.Find(&rows).Error; err != nil {
		s.log.Error("failed to get most viewed vehicles", zap.Error(err))
		return nil, fmt.Errorf("failed to get most viewed vehicles: %w", err)
	}

	results := make([]*repository.VehicleWithStats, len(rows))
	for i := range rows {
		vehicle := rows[i].Vehicle
		results[i] = &repository.VehicleWithStats{
			Vehicle:    &vehicle,
			ViewCount:  rows[i].ViewCount,
			ClickCount: rows[i].ClickCount,
		}
	}

	return results, nil
}

// --- Client Request Methods ---

func (s *PostgresStorage) CreateRequest(ctx context.Context, request *domain.ClientRequest) error {
	if err := s.db.WithContext(ctx).Create(request).Error; err != nil {
		s.log.Error("failed to create client request", zap.String("full_name", request.FullName), zap.Error(err))
		return fmt.Errorf("failed to create client request: %w", err)
	}

	s.log.Info("created client request",
		zap.Int64("request_id", request.ID),
		zap.String("title", request.Title),
		zap.String("publication_type", request.PublicationType))
	return nil
}

func (s *PostgresStorage) GetRequest(ctx context.Context, id int64) (*domain.ClientRequest, error) {
	var request domain.ClientRequest

	err := s.db.WithContext(ctx).First(&request, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrRequestNotFound
	}
	if err != nil {
		s.log.Error("failed to get client request", zap.Int64("request_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get client request: %w", err)
	}

	return &request, nil
}

func (s *PostgresStorage) UpdateRequest(ctx context.Context, request *domain.ClientRequest) error {
	if err := s.db.WithContext(ctx).Save(request).Error; err != nil {
		s.log.Error("failed to update client request", zap.Int64("request_id", request.ID), zap.Error(err))
		return fmt.Errorf("failed to update client request: %w", err)
	}
	return nil
}

func (s *PostgresStorage) ListRequestsByStatus(ctx context.Context, status domain.RequestStatus) ([]*domain.ClientRequest, error) {
	var requests []*domain.ClientRequest

	err := s.db.WithContext(ctx).Where("status = ?", status).
		Order("created_at DESC").Find(&requests).Error
	if err != nil {
		s.log.Error("failed to list client requests", zap.String("status", string(status)), zap.Error(err))
		return nil, fmt.Errorf("failed to list client requests: %w", err)
	}

	return requests, nil
}

func (s *PostgresStorage) CountRequestsByStatus(ctx context.Context, status domain.RequestStatus) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.ClientRequest{}).
		Where("status = ?", status).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count client requests: %w", err)
	}
	return count, nil
}

// ApproveRequest marks the request approved and creates the vehicle in one
// transaction. The guarded status update serializes concurrent approvals:
// whoever loses the race observes zero affected rows and gets
// ErrRequestProcessed instead of creating a duplicate vehicle.
func (s *PostgresStorage) ApproveRequest(ctx context.Context, requestID, adminID int64, vehicle *domain.Vehicle) error {
	now := time.Now().UTC()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.ClientRequest{}).
			Where("id = ? AND status = ?", requestID, domain.RequestStatusPending).
			Updates(map[string]interface{}{
				"status":                domain.RequestStatusApproved,
				"processed_at":          now,
				"processed_by_admin_id": adminID,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update request status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&domain.ClientRequest{}).Where("id = ?", requestID).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check request existence: %w", err)
			}
			if count == 0 {
				return repository.ErrRequestNotFound
			}
			return repository.ErrRequestProcessed
		}

		vehicle.ClientRequestID = &requestID
		if err := tx.Create(vehicle).Error; err != nil {
			return fmt.Errorf("failed to create vehicle from request: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrRequestProcessed) || errors.Is(err, repository.ErrRequestNotFound) {
			return err
		}
		s.log.Error("failed to approve client request", zap.Int64("request_id", requestID), zap.Error(err))
		return err
	}

	s.log.Info("approved client request",
		zap.Int64("request_id", requestID),
		zap.Int64("vehicle_id", vehicle.ID),
		zap.Int64("admin_id", adminID))
	return nil
}

func (s *PostgresStorage) RejectRequest(ctx context.Context, requestID, adminID int64) error {
	now := time.Now().UTC()

	result := s.db.WithContext(ctx).Model(&domain.ClientRequest{}).
		Where("id = ? AND status = ?", requestID, domain.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":                domain.RequestStatusRejected,
			"processed_at":          now,
			"processed_by_admin_id": adminID,
		})
	if result.Error != nil {
		s.log.Error("failed to reject client request", zap.Int64("request_id", requestID), zap.Error(result.Error))
		return fmt.Errorf("failed to reject client request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&domain.ClientRequest{}).Where("id = ?", requestID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check request existence: %w", err)
		}
		if count == 0 {
			return repository.ErrRequestNotFound
		}
		return repository.ErrRequestProcessed
	}

	s.log.Info("rejected client request", zap.Int64("request_id", requestID), zap.Int64("admin_id", adminID))
	return nil
}

// --- Analytics Methods ---

func (s *PostgresStorage) CreateView(ctx context.Context, view *domain.View) error {
	if err := s.db.WithContext(ctx).Create(view).Error; err != nil {
		return fmt.Errorf("failed to create view record: %w", err)
	}
	return nil
}

func (s *PostgresStorage) CreateClick(ctx context.Context, click *domain.Click) error {
	if err := s.db.WithContext(ctx).Create(click).Error; err != nil {
		return fmt.Errorf("failed to create click record: %w", err)
	}
	return nil
}

func (s *PostgresStorage) CreatePageVisit(ctx context.Context, visit *domain.PageVisit) error {
	if err := s.db.WithContext(ctx).Create(visit).Error; err != nil {
		return fmt.Errorf("failed to create page visit record: %w", err)
	}
	return nil
}

func (s *PostgresStorage) CountActiveVehicles(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Vehicle{}).
		Where("is_active = ?", true).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active vehicles: %w", err)
	}
	return count, nil
}

func (s *PostgresStorage) CountViews(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&domain.View{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count views: %w", err)
	}
	return count, nil
}

func (s *PostgresStorage) CountClicksByType(ctx context.Context, clickType string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.Click{}).
		Where("click_type = ?", clickType).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count clicks: %w", err)
	}
	return count, nil
}

func (s *PostgresStorage) ClicksByDevice(ctx context.Context) (map[string]int64, error) {
	var results []struct {
		DeviceType string `gorm:"column:device_type"`
		Count      int64  `gorm:"column:count"`
	}

	err := s.db.WithContext(ctx).
		Model(&domain.Click{}).
		Select("COALESCE(device_type, 'unknown') as device_type, count(*) as count").
		Group("COALESCE(device_type, 'unknown')").
		Find(&results).Error
	if err != nil {
		s.log.Error("failed to get clicks by device", zap.Error(err))
		return nil, fmt.Errorf("failed to get clicks by device: %w", err)
	}

	clicksByDevice := make(map[string]int64)
	for _, result := range results {
		clicksByDevice[result.DeviceType] = result.Count
	}

	return clicksByDevice, nil
}

func (s *PostgresStorage) CountPageVisits(ctx context.Context, page string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.PageVisit{}).
		Where("page = ?", page).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count page visits: %w", err)
	}
	return count, nil
}

func (s *PostgresStorage) CountPageVisitsSince(ctx context.Context, page string, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&domain.PageVisit{}).
		Where("page = ? AND created_at >= ?", page, since).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count page visits: %w", err)
	}
	return count, nil
}
