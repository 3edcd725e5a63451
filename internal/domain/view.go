package domain

import "time"

// View represents a recorded detail-page load for a listing. Every load
// counts; repeat visits from the same visitor are never deduplicated.
type View struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"id"`
	VehicleID int64     `gorm:"column:vehicle_id;not null;index" json:"vehicle_id"`
	IPAddress *string   `gorm:"column:ip_address;size:45" json:"ip_address,omitempty"`
	UserAgent *string   `gorm:"column:user_agent;size:500" json:"user_agent,omitempty"`
	Timestamp time.Time `gorm:"column:timestamp;autoCreateTime;index" json:"timestamp"`
}

// TableName returns the table name for GORM
func (View) TableName() string {
	return "views"
}
