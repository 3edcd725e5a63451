package domain

import "time"

// Tracked page names.
const (
	PageIndex = "index"
)

// PageVisit is an append-only analytics record for a tracked page load.
type PageVisit struct {
	ID        int64     `gorm:"primaryKey;column:id" json:"id"`
	Page      string    `gorm:"column:page;size:100;not null;index" json:"page"`
	IPAddress *string   `gorm:"column:ip_address;size:45" json:"ip_address,omitempty"`
	UserAgent *string   `gorm:"column:user_agent;type:text" json:"user_agent,omitempty"`
	Referrer  *string   `gorm:"column:referrer;size:500" json:"referrer,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

// TableName returns the table name for GORM
func (PageVisit) TableName() string {
	return "page_visits"
}
