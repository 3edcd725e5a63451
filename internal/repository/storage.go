package repository

import (
	"AutosValle-Backend/internal/domain"
	"context"
	"errors"
	"time"
)

var (
	ErrVehicleNotFound  = errors.New("vehicle not found")
	ErrRequestNotFound  = errors.New("client request not found")
	ErrRequestProcessed = errors.New("client request already processed")
	ErrAdminNotFound    = errors.New("admin not found")
)

// VehicleFilter holds the independently optional search filters. Zero values
// mean "not set". The location filter matches against the title text only;
// the schema carries no location column.
type VehicleFilter struct {
	Search       string
	PriceMin     *int64
	PriceMax     *int64
	Brand        string
	YearMin      *int
	YearMax      *int
	Location     string
	FuelType     string
	Transmission string
	KmMin        *int
	KmMax        *int
}

// VehicleWithStats pairs a vehicle with its aggregated engagement counts.
type VehicleWithStats struct {
	Vehicle    *domain.Vehicle
	ViewCount  int64
	ClickCount int64
}

type Storage interface {
	// Admin methods
	GetAdminByUsername(ctx context.Context, username string) (*domain.Admin, error)
	CreateAdmin(ctx context.Context, admin *domain.Admin) error

	// Vehicle methods
	CreateVehicle(ctx context.Context, vehicle *domain.Vehicle) error
	GetVehicle(ctx context.Context, id int64) (*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, vehicle *domain.Vehicle) error
	// DeleteVehicle removes the vehicle together with its click and view
	// records and returns the image references that were stored on it.
	DeleteVehicle(ctx context.Context, id int64) ([]string, error)
	SearchVehicles(ctx context.Context, filter VehicleFilter) ([]*domain.Vehicle, error)
	DistinctBrands(ctx context.Context) ([]string, error)
	MostViewed(ctx context.Context, onlyPlus bool, limit int) ([]*VehicleWithStats, error)

	// Client request methods
	CreateRequest(ctx context.Context, request *domain.ClientRequest) error
	GetRequest(ctx context.Context, id int64) (*domain.ClientRequest, error)
	UpdateRequest(ctx context.Context, request *domain.ClientRequest) error
	ListRequestsByStatus(ctx context.Context, status domain.RequestStatus) ([]*domain.ClientRequest, error)
	CountRequestsByStatus(ctx context.Context, status domain.RequestStatus) (int64, error)
	// ApproveRequest atomically marks the request approved and creates the
	// vehicle. A non-pending request yields ErrRequestProcessed and no vehicle.
	ApproveRequest(ctx context.Context, requestID, adminID int64, vehicle *domain.Vehicle) error
	RejectRequest(ctx context.Context, requestID, adminID int64) error

	// Analytics methods
	CreateView(ctx context.Context, view *domain.View) error
	CreateClick(ctx context.Context, click *domain.Click) error
	CreatePageVisit(ctx context.Context, visit *domain.PageVisit) error
	CountActiveVehicles(ctx context.Context) (int64, error)
	CountViews(ctx context.Context) (int64, error)
	CountClicksByType(ctx context.Context, clickType string) (int64, error)
	ClicksByDevice(ctx context.Context) (map[string]int64, error)
	CountPageVisits(ctx context.Context, page string) (int64, error)
	CountPageVisitsSince(ctx context.Context, page string, since time.Time) (int64, error)
}
