package domain

import "time"

// Click types recorded for contact-button activations.
const (
	ClickTypeWhatsApp = "whatsapp"
	ClickTypeOffer    = "offer"
	ClickTypeCall     = "call"
)

// Click represents a recorded activation of a contact channel on a listing.
type Click struct {
	ID         int64     `gorm:"primaryKey;column:id" json:"id"`
	VehicleID  int64     `gorm:"column:vehicle_id;not null;index" json:"vehicle_id"`
	ClickType  string    `gorm:"column:click_type;size:20;not null;index" json:"click_type"`
	IPAddress  *string   `gorm:"column:ip_address;size:45" json:"ip_address,omitempty"`
	UserAgent  *string   `gorm:"column:user_agent;size:500" json:"user_agent,omitempty"`
	DeviceType *string   `gorm:"column:device_type;size:10" json:"device_type,omitempty"` // 'desktop', 'mobile', 'tablet', 'bot'
	Timestamp  time.Time `gorm:"column:timestamp;autoCreateTime;index" json:"timestamp"`
}

// TableName returns the table name for GORM
func (Click) TableName() string {
	return "clicks"
}
