package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Currency codes accepted for listing prices.
const (
	CurrencyARS = "ARS"
	CurrencyUSD = "USD"
)

// Vehicle represents a published vehicle advertisement.
type Vehicle struct {
	ID                    int64      `gorm:"primaryKey;column:id" json:"id"`
	Title                 string     `gorm:"column:title;size:200;not null" json:"title"`
	Description           string     `gorm:"column:description;type:text;not null" json:"description"`
	Price                 int64      `gorm:"column:price;not null" json:"price"`
	Currency              string     `gorm:"column:currency;size:3;not null;default:'ARS'" json:"currency"`
	Year                  *int       `gorm:"column:year" json:"year,omitempty"`
	Brand                 string     `gorm:"column:brand;size:100" json:"brand"`
	Model                 string     `gorm:"column:model;size:100" json:"model"`
	Kilometers            *int       `gorm:"column:kilometers" json:"kilometers,omitempty"`
	FuelType              string     `gorm:"column:fuel_type;size:50" json:"fuel_type"`
	Transmission          string     `gorm:"column:transmission;size:50" json:"transmission"`
	Color                 string     `gorm:"column:color;size:50" json:"color"`
	Images                string     `gorm:"column:images;type:text" json:"-"` // JSON array of image references
	MainImageIndex        int        `gorm:"column:main_image_index;not null;default:0" json:"main_image_index"`
	WhatsAppNumber        *string    `gorm:"column:whatsapp_number;size:20" json:"whatsapp_number,omitempty"`
	CallNumber            *string    `gorm:"column:call_number;size:20" json:"call_number,omitempty"`
	IsActive              bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	IsPlus                bool       `gorm:"column:is_plus;not null;default:true" json:"is_plus"`
	PremiumDurationMonths int        `gorm:"column:premium_duration_months;not null;default:1" json:"premium_duration_months"`
	PremiumExpiresAt      *time.Time `gorm:"column:premium_expires_at" json:"premium_expires_at,omitempty"`
	ClientRequestID       *int64     `gorm:"column:client_request_id;index" json:"client_request_id,omitempty"`
	CreatedAt             time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	Clicks []Click `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"clicks,omitempty"`
	Views  []View  `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"views,omitempty"`
}

// TableName returns the table name for GORM
func (Vehicle) TableName() string {
	return "vehicles"
}

// ContactButton describes one available contact channel for a listing.
type ContactButton struct {
	Type   string `json:"type"`
	Number string `json:"number"`
	Text   string `json:"text"`
	Icon   string `json:"icon"`
	Class  string `json:"class"`
}

// ImagesList decodes the stored image sequence. A malformed column yields an
// empty list, never an error.
func (v *Vehicle) ImagesList() []string {
	return decodeImages(v.Images)
}

// SetImagesList encodes the image sequence for storage.
func (v *Vehicle) SetImagesList(images []string) {
	v.Images = encodeImages(images)
}

// MainImage returns the selected main image. Free publications never expose
// imagery, regardless of what is stored.
func (v *Vehicle) MainImage() *string {
	if !v.IsPlus {
		return nil
	}
	images := v.ImagesList()
	if len(images) == 0 {
		return nil
	}
	idx := v.MainImageIndex
	if idx < 0 || idx >= len(images) {
		idx = 0
	}
	return &images[idx]
}

// FormatPrice formats the price with its currency glyph, e.g. "$1.500.000".
func (v *Vehicle) FormatPrice() string {
	symbol := "$"
	if v.Currency != CurrencyARS {
		symbol = "USD $"
	}
	return symbol + formatThousands(v.Price)
}

// FormatPriceOnly formats the grouped price without any currency glyph.
func (v *Vehicle) FormatPriceOnly() string {
	return formatThousands(v.Price)
}

// CurrencyClass returns the presentation discriminator for the price color.
func (v *Vehicle) CurrencyClass() string {
	if v.Currency == CurrencyARS {
		return "price-ars"
	}
	return "price-usd"
}

// CurrencyBadgeClass returns the presentation discriminator for the price badge.
func (v *Vehicle) CurrencyBadgeClass() string {
	if v.Currency == CurrencyARS {
		return "price-badge-ars"
	}
	return "price-badge-usd"
}

// HasWhatsApp reports whether the listing carries a WhatsApp contact number.
func (v *Vehicle) HasWhatsApp() bool {
	return v.WhatsAppNumber != nil && *v.WhatsAppNumber != ""
}

// HasCall reports whether the listing carries a call contact number.
func (v *Vehicle) HasCall() bool {
	return v.CallNumber != nil && *v.CallNumber != ""
}

// ContactButtons returns the ordered contact channels available for the
// listing: WhatsApp first, then call.
func (v *Vehicle) ContactButtons() []ContactButton {
	buttons := make([]ContactButton, 0, 2)
	if v.HasWhatsApp() {
		buttons = append(buttons, ContactButton{
			Type:   "whatsapp",
			Number: *v.WhatsAppNumber,
			Text:   "Contacto WhatsApp",
			Icon:   "fab fa-whatsapp",
			Class:  "btn-success",
		})
	}
	if v.HasCall() {
		buttons = append(buttons, ContactButton{
			Type:   "call",
			Number: *v.CallNumber,
			Text:   "Llamar Ahora",
			Icon:   "fas fa-phone",
			Class:  "btn-primary",
		})
	}
	return buttons
}

// IsPremiumActive reports whether the premium visibility window is active.
// A plus listing without an expiration is perpetually premium.
func (v *Vehicle) IsPremiumActive() bool {
	if !v.IsPlus {
		return false
	}
	if v.PremiumExpiresAt == nil {
		return true
	}
	return v.PremiumExpiresAt.After(time.Now().UTC())
}

// DetailURL returns the canonical detail-page URL for the listing.
func (v *Vehicle) DetailURL(baseURL string) string {
	return fmt.Sprintf("%s/vehicle/%d", baseURL, v.ID)
}

// WhatsAppContactMessage builds the interest message sent by visitors.
func (v *Vehicle) WhatsAppContactMessage(baseURL string) string {
	return fmt.Sprintf("Hola! Me interesa el vehículo: %s - Precio: %s %s. Link: %s",
		v.Title, v.FormatPrice(), v.Currency, v.DetailURL(baseURL))
}

// WhatsAppOfferMessage builds the offer message, formatting the offer amount
// with the same grouping rule as the price.
func (v *Vehicle) WhatsAppOfferMessage(baseURL string, offerAmount int64) string {
	return fmt.Sprintf("Hola! Quiero hacer una oferta por: %s - Precio de venta: %s %s - Mi oferta: $%s %s. Link: %s",
		v.Title, v.FormatPrice(), v.Currency, formatThousands(offerAmount), v.Currency, v.DetailURL(baseURL))
}

// formatThousands groups digits with "." separators (es-AR convention).
func formatThousands(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return sign + digits
	}
	var out []byte
	head := len(digits) % 3
	if head > 0 {
		out = append(out, digits[:head]...)
	}
	for i := head; i < len(digits); i += 3 {
		if len(out) > 0 {
			out = append(out, '.')
		}
		out = append(out, digits[i:i+3]...)
	}
	return sign + string(out)
}

func decodeImages(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var images []string
	if err := json.Unmarshal([]byte(raw), &images); err != nil {
		return []string{}
	}
	return images
}

func encodeImages(images []string) string {
	if images == nil {
		images = []string{}
	}
	data, err := json.Marshal(images)
	if err != nil {
		return "[]"
	}
	return string(data)
}
