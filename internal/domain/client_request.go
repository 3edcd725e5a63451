package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// RequestStatus represents the lifecycle state of a client request.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// Publication tiers for client requests.
const (
	PublicationTypeFree = "free"
	PublicationTypePlus = "plus"
)

// ClientRequest represents a visitor's publication request awaiting admin
// review before becoming a Vehicle.
type ClientRequest struct {
	ID          int64   `gorm:"primaryKey;column:id" json:"id"`
	FullName    string  `gorm:"column:full_name;size:200;not null" json:"full_name"`
	DNI         string  `gorm:"column:dni;size:20;not null" json:"dni"`
	PhoneNumber string  `gorm:"column:phone_number;size:20;not null" json:"phone_number"`
	Location    string  `gorm:"column:location;size:50;not null" json:"location"`
	Address     *string `gorm:"column:address;size:500" json:"address,omitempty"`

	Title           string  `gorm:"column:title;size:200;not null" json:"title"`
	Description     string  `gorm:"column:description;type:text;not null" json:"description"`
	Price           int64   `gorm:"column:price;not null" json:"price"`
	Currency        string  `gorm:"column:currency;size:3;not null" json:"currency"`
	Year            *int    `gorm:"column:year" json:"year,omitempty"`
	Brand           string  `gorm:"column:brand;size:100" json:"brand"`
	Model           string  `gorm:"column:model;size:100" json:"model"`
	Kilometers      *int    `gorm:"column:kilometers" json:"kilometers,omitempty"`
	FuelType        string  `gorm:"column:fuel_type;size:50" json:"fuel_type"`
	Transmission    string  `gorm:"column:transmission;size:50" json:"transmission"`
	Color           string  `gorm:"column:color;size:50" json:"color"`
	Images          string  `gorm:"column:images;type:text" json:"-"`
	PublicationType string  `gorm:"column:publication_type;size:10;not null;default:'plus'" json:"publication_type"`

	Status             RequestStatus `gorm:"column:status;size:20;not null;default:'pending';index" json:"status"`
	AdminNotes         *string       `gorm:"column:admin_notes;type:text" json:"admin_notes,omitempty"`
	CreatedAt          time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	ProcessedAt        *time.Time    `gorm:"column:processed_at" json:"processed_at,omitempty"`
	ProcessedByAdminID *int64        `gorm:"column:processed_by_admin_id" json:"processed_by_admin_id,omitempty"`

	// Relationships. The back-reference to the created vehicle is a weak,
	// non-owning association: deleting a request never deletes the vehicle.
	ProcessedByAdmin *Admin   `gorm:"foreignKey:ProcessedByAdminID" json:"processed_by_admin,omitempty"`
	CreatedVehicle   *Vehicle `gorm:"foreignKey:ClientRequestID" json:"created_vehicle,omitempty"`
}

// TableName returns the table name for GORM
func (ClientRequest) TableName() string {
	return "client_requests"
}

// IsPending reports whether the request can still be processed.
func (r *ClientRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// IsPlus reports whether the request asks for a plus publication.
func (r *ClientRequest) IsPlus() bool {
	return r.PublicationType == PublicationTypePlus
}

// ImagesList decodes the stored image sequence.
func (r *ClientRequest) ImagesList() []string {
	return decodeImages(r.Images)
}

// SetImagesList encodes the image sequence for storage.
func (r *ClientRequest) SetImagesList(images []string) {
	r.Images = encodeImages(images)
}

// FormatPrice formats the requested price with its currency glyph.
func (r *ClientRequest) FormatPrice() string {
	symbol := "$"
	if r.Currency != CurrencyARS {
		symbol = "USD $"
	}
	return symbol + formatThousands(r.Price)
}

// WhatsAppContactURL builds the wa.me link an admin uses to contact the
// requesting client. Only the "+" is stripped from the number.
func (r *ClientRequest) WhatsAppContactURL() string {
	message := fmt.Sprintf("Hola %s! Te contacto sobre tu solicitud de publicación del vehículo: %s. ¿Podemos hablar sobre algunos detalles?",
		r.FullName, r.Title)
	number := strings.ReplaceAll(r.PhoneNumber, "+", "")
	return fmt.Sprintf("https://wa.me/%s?text=%s", number, url.QueryEscape(message))
}
