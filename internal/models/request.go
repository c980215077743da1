package models

import (
	"fmt"
	"time"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "Pending"
	RequestAccepted  RequestStatus = "Accepted"
	RequestCompleted RequestStatus = "Completed"
	RequestRejected  RequestStatus = "Rejected"
)

func ParseRequestStatus(s string) (RequestStatus, error) {
	switch RequestStatus(s) {
	case RequestPending, RequestAccepted, RequestCompleted, RequestRejected:
		return RequestStatus(s), nil
	}
	return "", fmt.Errorf("invalid request status %q: must be one of Pending, Accepted, Completed, Rejected", s)
}

// IsActive reports whether the request still holds its ambulance.
func (s RequestStatus) IsActive() bool {
	return s == RequestPending || s == RequestAccepted
}

// Request binds a user to one hospital and one of its ambulances
type Request struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	UserID       uint          `gorm:"not null;index:idx_requests_user_status,priority:1" json:"user_id"`
	HospitalID   uint          `gorm:"not null;index:idx_requests_hospital_status,priority:1" json:"hospital_id"`
	AmbulanceID  uint          `gorm:"not null;index:idx_requests_ambulance_status,priority:1" json:"ambulance_id"`
	Status       RequestStatus `gorm:"size:20;not null;default:'Pending';index:idx_requests_user_status,priority:2;index:idx_requests_hospital_status,priority:2;index:idx_requests_ambulance_status,priority:2" json:"status"`
	UserLat      float64       `gorm:"not null" json:"user_lat"`
	UserLng      float64       `gorm:"not null" json:"user_lng"`
	AmbulanceLat *float64      `json:"ambulance_lat,omitempty"`
	AmbulanceLng *float64      `json:"ambulance_lng,omitempty"`
	CaseDetails  string        `gorm:"type:text" json:"case_details,omitempty"`
	CreatedAt    time.Time     `gorm:"index" json:"created_at"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
	UpdatedAt    time.Time     `json:"updated_at"`

	// Relationships
	User      *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Hospital  *Hospital  `gorm:"foreignKey:HospitalID" json:"hospital,omitempty"`
	Ambulance *Ambulance `gorm:"foreignKey:AmbulanceID" json:"ambulance,omitempty"`
}

// TableName specifies the table name for Request model
func (Request) TableName() string {
	return "requests"
}

// UserRequests splits a user's history into requests still in progress and finished ones
type UserRequests struct {
	Active    []Request `json:"active"`
	Completed []Request `json:"completed"`
}
