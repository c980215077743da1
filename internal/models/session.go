package models

import "time"

// Session represents a hospital or driver refresh token
type Session struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	HospitalID  uint      `gorm:"not null;index" json:"hospital_id"`
	AmbulanceID *uint     `gorm:"index" json:"ambulance_id,omitempty"`
	Role        string    `gorm:"size:20;not null" json:"role"`
	TokenHash   string    `gorm:"not null;size:255;uniqueIndex" json:"-"`
	ExpiresAt   time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
	Revoked     bool      `gorm:"default:false" json:"revoked"`
}

// TableName specifies the table name for Session model
func (Session) TableName() string {
	return "sessions"
}
