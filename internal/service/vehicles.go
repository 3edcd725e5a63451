package service

import (
	"AutosValle-Backend/internal/domain"
	"AutosValle-Backend/internal/repository"
	"AutosValle-Backend/pkg/validator"
	"context"
	"fmt"

	"go.uber.org/zap"
)

// VehicleInput carries the full attribute set for direct admin creation or
// edits of a listing. A nil/empty image set on update keeps the stored
// sequence; a non-empty set wholly replaces it.
type VehicleInput struct {
	Title                 string   `json:"title" validate:"required,max=200"`
	Description           string   `json:"description" validate:"required"`
	Price                 int64    `json:"price" validate:"required,gt=0"`
	Currency              string   `json:"currency" validate:"required,oneof=ARS USD"`
	Year                  *int     `json:"year,omitempty" validate:"omitempty,gte=1900,lte=2100"`
	Brand                 string   `json:"brand" validate:"max=100"`
	Model                 string   `json:"model" validate:"max=100"`
	Kilometers            *int     `json:"kilometers,omitempty" validate:"omitempty,gte=0"`
	FuelType              string   `json:"fuel_type" validate:"max=50"`
	Transmission          string   `json:"transmission" validate:"max=50"`
	Color                 string   `json:"color" validate:"max=50"`
	Images                []string `json:"images,omitempty"`
	MainImageIndex        int      `json:"main_image_index"`
	WhatsAppNumber        *string  `json:"whatsapp_number,omitempty" validate:"omitempty,max=20"`
	CallNumber            *string  `json:"call_number,omitempty" validate:"omitempty,max=20"`
	IsActive              bool     `json:"is_active"`
	IsPlus                bool     `json:"is_plus"`
	PremiumDurationMonths int      `json:"premium_duration_months" validate:"omitempty,gte=1,lte=12"`
}

// VehicleService covers direct admin management of listings.
type VehicleService struct {
	storage repository.Storage
	log     *zap.Logger
}

func NewVehicleService(storage repository.Storage, log *zap.Logger) *VehicleService {
	return &VehicleService{
		storage: storage,
		log:     log,
	}
}

// Get returns a single vehicle by id.
func (s *VehicleService) Get(ctx context.Context, id int64) (*domain.Vehicle, error) {
	return s.storage.GetVehicle(ctx, id)
}

// Create validates and stores a new listing.
func (s *VehicleService) Create(ctx context.Context, input *VehicleInput) (*domain.Vehicle, error) {
	if err := validator.ValidateStruct(input); err != nil {
		return nil, err
	}

	months := input.PremiumDurationMonths
	if months == 0 {
		months = 1
	}

	vehicle := &domain.Vehicle{
		Title:                 input.Title,
		Description:           input.Description,
		Price:                 input.Price,
		Currency:              input.Currency,
		Year:                  input.Year,
		Brand:                 input.Brand,
		Model:                 input.Model,
		Kilometers:            input.Kilometers,
		FuelType:              input.FuelType,
		Transmission:          input.Transmission,
		Color:                 input.Color,
		WhatsAppNumber:        input.WhatsAppNumber,
		CallNumber:            input.CallNumber,
		IsActive:              input.IsActive,
		IsPlus:                input.IsPlus,
		PremiumDurationMonths: months,
	}
	vehicle.SetImagesList(input.Images)
	vehicle.MainImageIndex = clampImageIndex(input.MainImageIndex, len(input.Images))

	if err := s.storage.CreateVehicle(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	s.log.Info("vehicle created",
		zap.Int64("vehicle_id", vehicle.ID),
		zap.String("title", vehicle.Title),
		zap.Bool("is_plus", vehicle.IsPlus))

	return vehicle, nil
}

// Update replaces a listing's attributes.
func (s *VehicleService) Update(ctx context.Context, id int64, input *VehicleInput) (*domain.Vehicle, error) {
	if err := validator.ValidateStruct(input); err != nil {
		return nil, err
	}

	vehicle, err := s.storage.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}

	vehicle.Title = input.Title
	vehicle.Description = input.Description
	vehicle.Price = input.Price
	vehicle.Currency = input.Currency
	vehicle.Year = input.Year
	vehicle.Brand = input.Brand
	vehicle.Model = input.Model
	vehicle.Kilometers = input.Kilometers
	vehicle.FuelType = input.FuelType
	vehicle.Transmission = input.Transmission
	vehicle.Color = input.Color
	vehicle.WhatsAppNumber = input.WhatsAppNumber
	vehicle.CallNumber = input.CallNumber
	vehicle.IsActive = input.IsActive
	vehicle.IsPlus = input.IsPlus
	if input.PremiumDurationMonths != 0 {
		vehicle.PremiumDurationMonths = input.PremiumDurationMonths
	}
	if len(input.Images) > 0 {
		vehicle.SetImagesList(input.Images)
	}
	vehicle.MainImageIndex = clampImageIndex(input.MainImageIndex, len(vehicle.ImagesList()))

	if err := s.storage.UpdateVehicle(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to update vehicle: %w", err)
	}

	s.log.Info("vehicle updated", zap.Int64("vehicle_id", id))
	return vehicle, nil
}

// ToggleActive flips a listing between paused and published.
func (s *VehicleService) ToggleActive(ctx context.Context, id int64) (*domain.Vehicle, error) {
	vehicle, err := s.storage.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}

	vehicle.IsActive = !vehicle.IsActive
	if err := s.storage.UpdateVehicle(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to toggle vehicle: %w", err)
	}

	s.log.Info("vehicle active state toggled",
		zap.Int64("vehicle_id", id),
		zap.Bool("is_active", vehicle.IsActive))

	return vehicle, nil
}

// Delete removes a listing with its click and view records and returns the
// image references that were stored on it so the caller can clean up files.
func (s *VehicleService) Delete(ctx context.Context, id int64) ([]string, error) {
	refs, err := s.storage.DeleteVehicle(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info("vehicle deleted",
		zap.Int64("vehicle_id", id),
		zap.Int("image_count", len(refs)))

	return refs, nil
}

// clampImageIndex treats an out-of-range main image index as index 0.
func clampImageIndex(idx, count int) int {
	if idx < 0 || idx >= count {
		return 0
	}
	return idx
}
