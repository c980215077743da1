package models

import "time"

// Hospital owns a fleet of ambulances and responds to requests
type Hospital struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	PasswordHash    string    `gorm:"size:255;not null" json:"-"`
	LocationLat     float64   `gorm:"not null" json:"location_lat"`
	LocationLng     float64   `gorm:"not null" json:"location_lng"`
	ContactNumber   string    `gorm:"size:32;index" json:"contact_number"`
	TotalAmbulances int       `gorm:"not null;default:0" json:"total_ambulances"`
	CreatedAt       time.Time `json:"created_at"`

	// Relationships
	Ambulances []Ambulance `gorm:"foreignKey:HospitalID" json:"ambulances,omitempty"`
}

// TableName specifies the table name for Hospital model
func (Hospital) TableName() string {
	return "hospitals"
}
