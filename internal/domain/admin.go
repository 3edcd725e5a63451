package domain

// Admin represents the administrator identity used by the panel.
type Admin struct {
	ID           int64  `gorm:"primaryKey;column:id" json:"id"`
	Username     string `gorm:"column:username;size:80;uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"column:password_hash;size:256;not null" json:"-"`
}

// TableName returns the table name for GORM
func (Admin) TableName() string {
	return "admins"
}
