package models

import (
	"fmt"
	"strings"
	"time"
)

type AmbulanceStatus string

const (
	AmbulanceFree        AmbulanceStatus = "Free"
	AmbulanceBusy        AmbulanceStatus = "Busy"
	AmbulanceMaintenance AmbulanceStatus = "Maintenance"
)

// legacyAmbulanceStatuses maps vocabulary written by older clients onto the canonical enum.
var legacyAmbulanceStatuses = map[string]AmbulanceStatus{
	"available":   AmbulanceFree,
	"free":        AmbulanceFree,
	"busy":        AmbulanceBusy,
	"off duty":    AmbulanceMaintenance,
	"off_duty":    AmbulanceMaintenance,
	"maintenance": AmbulanceMaintenance,
}

// ParseAmbulanceStatus accepts the canonical values and the legacy aliases.
func ParseAmbulanceStatus(s string) (AmbulanceStatus, error) {
	switch AmbulanceStatus(s) {
	case AmbulanceFree, AmbulanceBusy, AmbulanceMaintenance:
		return AmbulanceStatus(s), nil
	}
	if status, ok := legacyAmbulanceStatuses[strings.ToLower(strings.TrimSpace(s))]; ok {
		return status, nil
	}
	return "", fmt.Errorf("invalid ambulance status %q: must be one of Free, Busy, Maintenance", s)
}

// LegacyAmbulanceStatuses returns the stored values that should be migrated, grouped by target.
func LegacyAmbulanceStatuses() map[AmbulanceStatus][]string {
	return map[AmbulanceStatus][]string{
		AmbulanceFree:        {"available", "Available", "free"},
		AmbulanceBusy:        {"busy"},
		AmbulanceMaintenance: {"Off Duty", "off duty", "off_duty", "maintenance"},
	}
}

// Ambulance belongs to exactly one hospital
type Ambulance struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	HospitalID    uint            `gorm:"not null;index:idx_ambulances_hospital_status,priority:1" json:"hospital_id"`
	DriverName    string          `gorm:"size:255" json:"driver_name"`
	DriverContact string          `gorm:"size:32" json:"driver_contact"`
	Status        AmbulanceStatus `gorm:"size:20;not null;default:'Free';index:idx_ambulances_hospital_status,priority:2" json:"status"`
	LocationLat   float64         `json:"location_lat"`
	LocationLng   float64         `json:"location_lng"`
	TotalRides    int             `gorm:"not null;default:0" json:"total_rides"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Ambulance model
func (Ambulance) TableName() string {
	return "ambulances"
}
