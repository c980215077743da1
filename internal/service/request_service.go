package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ambulance-request-backend/internal/apperrors"
	"ambulance-request-backend/internal/events"
	"ambulance-request-backend/internal/matching"
	"ambulance-request-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// transition describes what a request status change does to its ambulance.
type transition struct {
	ambulance models.AmbulanceStatus
	complete  bool
}

// transitions lists every allowed request status change. Completed and
// Rejected are terminal.
var transitions = map[models.RequestStatus]map[models.RequestStatus]transition{
	models.RequestPending: {
		models.RequestAccepted: {ambulance: models.AmbulanceBusy},
		models.RequestRejected: {ambulance: models.AmbulanceFree},
	},
	models.RequestAccepted: {
		models.RequestCompleted: {ambulance: models.AmbulanceFree, complete: true},
	},
}

type RequestService struct {
	requestRepo  RequestStore
	userRepo     UserStore
	hospitalRepo HospitalStore
	auditRepo    AuditStore
	bus          events.Bus
	now          func() time.Time
}

func NewRequestService(
	requestRepo RequestStore,
	userRepo UserStore,
	hospitalRepo HospitalStore,
	auditRepo AuditStore,
	bus events.Bus,
) *RequestService {
	return &RequestService{
		requestRepo:  requestRepo,
		userRepo:     userRepo,
		hospitalRepo: hospitalRepo,
		auditRepo:    auditRepo,
		bus:          bus,
		now:          time.Now,
	}
}

type CreateRequestInput struct {
	UserID      uint
	HospitalID  uint
	AmbulanceID uint
	UserLat     float64
	UserLng     float64
	CaseDetails string
}

// CreateRequest books the given ambulance for the user. The ambulance must
// belong to the hospital and be Free; it leaves the call Busy.
func (s *RequestService) CreateRequest(ctx context.Context, in CreateRequestInput) (*models.Request, error) {
	if err := validateCoordinates(in.UserLat, in.UserLng); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetUserByID(ctx, in.UserID); err != nil {
		return nil, err
	}
	hospital, err := s.hospitalRepo.GetHospitalByID(ctx, in.HospitalID)
	if err != nil {
		return nil, err
	}

	request := &models.Request{
		UserID:      in.UserID,
		HospitalID:  in.HospitalID,
		AmbulanceID: in.AmbulanceID,
		Status:      models.RequestPending,
		UserLat:     in.UserLat,
		UserLng:     in.UserLng,
		CaseDetails: strings.TrimSpace(in.CaseDetails),
	}

	err = s.requestRepo.CreateRequest(ctx, request, func(ambulance *models.Ambulance) error {
		if ambulance.HospitalID != in.HospitalID {
			return apperrors.ErrAmbulanceNotInHospital
		}
		if ambulance.Status != models.AmbulanceFree {
			return apperrors.ErrAmbulanceUnavailable
		}
		ambulance.Status = models.AmbulanceBusy
		return nil
	})
	if err != nil {
		return nil, err
	}
	request.Hospital = hospital

	log.Info().
		Uint("request_id", request.ID).
		Uint("user_id", request.UserID).
		Uint("hospital_id", request.HospitalID).
		Uint("ambulance_id", request.AmbulanceID).
		Msg("request created")

	publish(ctx, s.bus, events.NewRequestEvent(events.TypeRequestCreated, request))

	return request, nil
}

// DispatchResult is a request created by the matcher and how far the chosen
// hospital is from the caller.
type DispatchResult struct {
	Request  *models.Request `json:"request"`
	Distance float64         `json:"distance"`
}

// Dispatch picks the nearest hospital with a Free ambulance and books it.
func (s *RequestService) Dispatch(ctx context.Context, userID uint, lat, lng float64, caseDetails string) (*DispatchResult, error) {
	if err := validateCoordinates(lat, lng); err != nil {
		return nil, err
	}

	fleet, err := s.hospitalRepo.ListFleet(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load fleet: %w", err)
	}

	match, ok := matching.NearestFreeAmbulance(matching.Point{Lat: lat, Lng: lng}, fleet)
	if !ok {
		return nil, apperrors.ErrNoAmbulanceAvailable
	}

	request, err := s.CreateRequest(ctx, CreateRequestInput{
		UserID:      userID,
		HospitalID:  match.Hospital.ID,
		AmbulanceID: match.Ambulance.ID,
		UserLat:     lat,
		UserLng:     lng,
		CaseDetails: caseDetails,
	})
	if err != nil {
		return nil, err
	}

	return &DispatchResult{Request: request, Distance: match.Distance}, nil
}

// UpdateRequestStatus moves a request along its lifecycle and applies the
// matching change to its ambulance in the same transaction.
func (s *RequestService) UpdateRequestStatus(ctx context.Context, actor Actor, id uint, rawStatus string) (*models.Request, error) {
	target, err := models.ParseRequestStatus(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	var previous models.RequestStatus
	request, err := s.requestRepo.Transition(ctx, id, func(request *models.Request, ambulance *models.Ambulance) error {
		if err := actor.CanOperateAmbulance(ambulance); err != nil {
			return err
		}
		if err := actor.CanViewHospital(request.HospitalID); err != nil {
			return err
		}

		step, ok := transitions[request.Status][target]
		if !ok {
			return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, request.Status, target)
		}

		previous = request.Status
		request.Status = target
		ambulance.Status = step.ambulance
		if step.complete {
			completedAt := s.now().UTC()
			request.CompletedAt = &completedAt
			ambulance.TotalRides++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	details := fmt.Sprintf("Request %d %s -> %s", request.ID, previous, request.Status)
	_ = s.auditRepo.CreateAuditLog(ctx, &request.HospitalID, "request_status", details)

	publish(ctx, s.bus, events.NewRequestEvent(events.TypeRequestStatus, request))

	return request, nil
}

// GetUserRequests splits a user's requests into active and finished ones, newest first
func (s *RequestService) GetUserRequests(ctx context.Context, userID uint) (*models.UserRequests, error) {
	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.requestRepo.GetRequestsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load requests: %w", err)
	}

	result := &models.UserRequests{
		Active:    []models.Request{},
		Completed: []models.Request{},
	}
	for _, request := range requests {
		if request.Status.IsActive() {
			result.Active = append(result.Active, request)
		} else {
			result.Completed = append(result.Completed, request)
		}
	}
	return result, nil
}

// GetHospitalRequests lists a hospital's requests, optionally filtered by status
func (s *RequestService) GetHospitalRequests(ctx context.Context, actor Actor, hospitalID uint, rawStatus string) ([]models.Request, error) {
	if err := actor.CanViewHospital(hospitalID); err != nil {
		return nil, err
	}
	status, err := parseRequestFilter(rawStatus)
	if err != nil {
		return nil, err
	}
	return s.requestRepo.GetRequestsByHospitalID(ctx, hospitalID, status)
}

func parseRequestFilter(raw string) (*models.RequestStatus, error) {
	if raw == "" {
		return nil, nil
	}
	status, err := models.ParseRequestStatus(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return &status, nil
}

// publish delivers an event without failing the operation that produced it.
func publish(ctx context.Context, bus events.Bus, event *events.RequestEvent) {
	if bus == nil {
		return
	}
	if err := bus.Publish(ctx, event); err != nil {
		log.Error().Err(err).Str("event_type", event.Type).Uint("request_id", event.RequestID).Msg("failed to publish request event")
	}
}
