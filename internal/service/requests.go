package service

import (
	"AutosValle-Backend/internal/domain"
	"AutosValle-Backend/internal/repository"
	"AutosValle-Backend/pkg/validator"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrInvalidDuration is returned when a premium duration falls outside the
// accepted 1..12 month range.
var ErrInvalidDuration = errors.New("premium duration must be between 1 and 12 months")

// Approximate month used for premium windows. Deliberately not
// calendar-accurate.
const premiumMonth = 30 * 24 * time.Hour

// SubmitRequestInput carries a visitor's publication request.
type SubmitRequestInput struct {
	FullName    string  `json:"full_name" validate:"required,max=200"`
	DNI         string  `json:"dni" validate:"required,max=20"`
	PhoneNumber string  `json:"phone_number" validate:"required,max=20"`
	Location    string  `json:"location" validate:"required,max=50"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=500"`

	Title           string   `json:"title" validate:"required,max=200"`
	Description     string   `json:"description" validate:"required"`
	Price           int64    `json:"price" validate:"required,gt=0"`
	Currency        string   `json:"currency" validate:"required,oneof=ARS USD"`
	Year            *int     `json:"year,omitempty" validate:"omitempty,gte=1900,lte=2100"`
	Brand           string   `json:"brand" validate:"required,max=100"`
	Model           string   `json:"model" validate:"required,max=100"`
	Kilometers      *int     `json:"kilometers,omitempty" validate:"omitempty,gte=0"`
	FuelType        string   `json:"fuel_type" validate:"required,max=50"`
	Transmission    string   `json:"transmission" validate:"required,max=50"`
	Color           string   `json:"color" validate:"required,max=50"`
	Images          []string `json:"images,omitempty"`
	PublicationType string   `json:"publication_type" validate:"omitempty,oneof=free plus"`
}

// EditRequestInput carries an admin correction of a stored request. A nil or
// empty image set leaves the stored sequence untouched; a non-empty set wholly
// replaces it.
type EditRequestInput struct {
	FullName    string  `json:"full_name" validate:"required,max=200"`
	DNI         string  `json:"dni" validate:"required,max=20"`
	PhoneNumber string  `json:"phone_number" validate:"required,max=20"`
	Location    string  `json:"location" validate:"required,max=50"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=500"`

	Title        string   `json:"title" validate:"required,max=200"`
	Description  string   `json:"description" validate:"required"`
	Price        int64    `json:"price" validate:"required,gt=0"`
	Currency     string   `json:"currency" validate:"required,oneof=ARS USD"`
	Year         *int     `json:"year,omitempty" validate:"omitempty,gte=1900,lte=2100"`
	Brand        string   `json:"brand" validate:"required,max=100"`
	Model        string   `json:"model" validate:"required,max=100"`
	Kilometers   *int     `json:"kilometers,omitempty" validate:"omitempty,gte=0"`
	FuelType     string   `json:"fuel_type" validate:"required,max=50"`
	Transmission string   `json:"transmission" validate:"required,max=50"`
	Color        string   `json:"color" validate:"required,max=50"`
	Images       []string `json:"images,omitempty"`

	PublicationType string  `json:"publication_type" validate:"omitempty,oneof=free plus"`
	AdminNotes      *string `json:"admin_notes,omitempty"`
}

// RequestService drives the publication-request workflow: submission, the
// pending review queue, and the terminal approve/reject transitions.
type RequestService struct {
	storage repository.Storage
	log     *zap.Logger
}

func NewRequestService(storage repository.Storage, log *zap.Logger) *RequestService {
	return &RequestService{
		storage: storage,
		log:     log,
	}
}

// Submit validates and stores a new publication request in pending state.
func (s *RequestService) Submit(ctx context.Context, input *SubmitRequestInput) (*domain.ClientRequest, error) {
	if err := validator.ValidateStruct(input); err != nil {
		return nil, err
	}

	publicationType := input.PublicationType
	if publicationType == "" {
		publicationType = domain.PublicationTypePlus
	}

	request := &domain.ClientRequest{
		FullName:        input.FullName,
		DNI:             input.DNI,
		PhoneNumber:     input.PhoneNumber,
		Location:        input.Location,
		Address:         input.Address,
		Title:           input.Title,
		Description:     input.Description,
		Price:           input.Price,
		Currency:        input.Currency,
		Year:            input.Year,
		Brand:           input.Brand,
		Model:           input.Model,
		Kilometers:      input.Kilometers,
		FuelType:        input.FuelType,
		Transmission:    input.Transmission,
		Color:           input.Color,
		PublicationType: publicationType,
		Status:          domain.RequestStatusPending,
	}
	request.SetImagesList(input.Images)

	if err := s.storage.CreateRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to submit client request: %w", err)
	}

	s.log.Info("client request submitted",
		zap.Int64("request_id", request.ID),
		zap.String("title", request.Title),
		zap.String("publication_type", request.PublicationType))

	return request, nil
}

// Get returns a single request by id.
func (s *RequestService) Get(ctx context.Context, id int64) (*domain.ClientRequest, error) {
	return s.storage.GetRequest(ctx, id)
}

// ListPending returns the review queue, newest first.
func (s *RequestService) ListPending(ctx context.Context) ([]*domain.ClientRequest, error) {
	return s.storage.ListRequestsByStatus(ctx, domain.RequestStatusPending)
}

// Approve promotes a pending request into a published vehicle. The request's
// vehicle attributes are copied verbatim, the WhatsApp contact comes from the
// client's phone number, and the premium window starts now. The status flip
// and the vehicle insert commit atomically: a concurrent duplicate approval
// observes the terminal status and gets ErrRequestProcessed instead of
// creating a second vehicle.
func (s *RequestService) Approve(ctx context.Context, requestID, adminID int64, durationMonths int) (*domain.Vehicle, error) {
	if durationMonths < 1 || durationMonths > 12 {
		return nil, ErrInvalidDuration
	}

	request, err := s.storage.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !request.IsPending() {
		return nil, repository.ErrRequestProcessed
	}

	whatsapp := request.PhoneNumber
	expiresAt := time.Now().UTC().Add(time.Duration(durationMonths) * premiumMonth)

	vehicle := &domain.Vehicle{
		Title:                 request.Title,
		Description:           request.Description,
		Price:                 request.Price,
		Currency:              request.Currency,
		Year:                  request.Year,
		Brand:                 request.Brand,
		Model:                 request.Model,
		Kilometers:            request.Kilometers,
		FuelType:              request.FuelType,
		Transmission:          request.Transmission,
		Color:                 request.Color,
		Images:                request.Images,
		MainImageIndex:        0,
		WhatsAppNumber:        &whatsapp,
		IsActive:              true,
		IsPlus:                request.IsPlus(),
		PremiumDurationMonths: durationMonths,
		PremiumExpiresAt:      &expiresAt,
		ClientRequestID:       &request.ID,
	}

	if err := s.storage.ApproveRequest(ctx, requestID, adminID, vehicle); err != nil {
		return nil, err
	}

	s.log.Info("client request approved",
		zap.Int64("request_id", requestID),
		zap.Int64("admin_id", adminID),
		zap.Int64("vehicle_id", vehicle.ID),
		zap.Int("duration_months", durationMonths))

	return vehicle, nil
}

// Reject marks a pending request rejected. No vehicle is created.
func (s *RequestService) Reject(ctx context.Context, requestID, adminID int64) error {
	if err := s.storage.RejectRequest(ctx, requestID, adminID); err != nil {
		return err
	}

	s.log.Info("client request rejected",
		zap.Int64("request_id", requestID),
		zap.Int64("admin_id", adminID))

	return nil
}

// Edit replaces a request's mutable attributes. Editing is allowed in any
// status so admins can correct data before (or after) processing. Image
// replacement is all-or-nothing: an empty upload keeps the stored sequence.
func (s *RequestService) Edit(ctx context.Context, id int64, input *EditRequestInput) (*domain.ClientRequest, error) {
	if err := validator.ValidateStruct(input); err != nil {
		return nil, err
	}

	request, err := s.storage.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	request.FullName = input.FullName
	request.DNI = input.DNI
	request.PhoneNumber = input.PhoneNumber
	request.Location = input.Location
	request.Address = input.Address
	request.Title = input.Title
	request.Description = input.Description
	request.Price = input.Price
	request.Currency = input.Currency
	request.Year = input.Year
	request.Brand = input.Brand
	request.Model = input.Model
	request.Kilometers = input.Kilometers
	request.FuelType = input.FuelType
	request.Transmission = input.Transmission
	request.Color = input.Color
	if input.PublicationType != "" {
		request.PublicationType = input.PublicationType
	}
	request.AdminNotes = input.AdminNotes
	if len(input.Images) > 0 {
		request.SetImagesList(input.Images)
	}

	if err := s.storage.UpdateRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to update client request: %w", err)
	}

	s.log.Info("client request updated", zap.Int64("request_id", id))
	return request, nil
}
