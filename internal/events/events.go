// Package events fans request lifecycle changes out to hospital and user subscribers.
package events

import (
	"context"
	"fmt"
	"time"

	"ambulance-request-backend/internal/models"

	"github.com/google/uuid"
)

const (
	TypeRequestCreated  = "request.created"
	TypeRequestStatus   = "request.status_changed"
	TypeAmbulanceMoved  = "request.ambulance_location"
	subscriberQueueSize = 32
)

// RequestEvent is the payload streamed to dashboards.
type RequestEvent struct {
	ID              string                 `json:"id"`
	Type            string                 `json:"type"`
	RequestID       uint                   `json:"request_id"`
	HospitalID      uint                   `json:"hospital_id"`
	UserID          uint                   `json:"user_id"`
	AmbulanceID     uint                   `json:"ambulance_id"`
	Status          models.RequestStatus   `json:"status"`
	AmbulanceStatus models.AmbulanceStatus `json:"ambulance_status,omitempty"`
	AmbulanceLat    *float64               `json:"ambulance_lat,omitempty"`
	AmbulanceLng    *float64               `json:"ambulance_lng,omitempty"`
	OccurredAt      time.Time              `json:"occurred_at"`
}

// NewRequestEvent snapshots a request (and its loaded ambulance, if any).
func NewRequestEvent(eventType string, request *models.Request) *RequestEvent {
	event := &RequestEvent{
		ID:           uuid.NewString(),
		Type:         eventType,
		RequestID:    request.ID,
		HospitalID:   request.HospitalID,
		UserID:       request.UserID,
		AmbulanceID:  request.AmbulanceID,
		Status:       request.Status,
		AmbulanceLat: request.AmbulanceLat,
		AmbulanceLng: request.AmbulanceLng,
		OccurredAt:   time.Now().UTC(),
	}
	if request.Ambulance != nil {
		event.AmbulanceStatus = request.Ambulance.Status
	}
	return event
}

// Channels returns every channel an event is delivered on.
func (e *RequestEvent) Channels() []string {
	return []string{HospitalChannel(e.HospitalID), UserChannel(e.UserID)}
}

func HospitalChannel(hospitalID uint) string {
	return fmt.Sprintf("requests:hospital:%d", hospitalID)
}

func UserChannel(userID uint) string {
	return fmt.Sprintf("requests:user:%d", userID)
}

// Bus publishes request events and streams them back per channel.
// Subscribe's channel is closed once ctx is done.
type Bus interface {
	Publish(ctx context.Context, event *RequestEvent) error
	Subscribe(ctx context.Context, channel string) (<-chan *RequestEvent, error)
	Close() error
}
