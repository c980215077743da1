package service

import (
	"context"
	"fmt"
	"strings"

	"ambulance-request-backend/internal/apperrors"
	"ambulance-request-backend/internal/events"
	"ambulance-request-backend/internal/models"
	"ambulance-request-backend/pkg/utils"
)

type AmbulanceService struct {
	ambulanceRepo AmbulanceStore
	requestRepo   RequestStore
	auditRepo     AuditStore
	bus           events.Bus
}

func NewAmbulanceService(
	ambulanceRepo AmbulanceStore,
	requestRepo RequestStore,
	auditRepo AuditStore,
	bus events.Bus,
) *AmbulanceService {
	return &AmbulanceService{
		ambulanceRepo: ambulanceRepo,
		requestRepo:   requestRepo,
		auditRepo:     auditRepo,
		bus:           bus,
	}
}

type CreateAmbulanceInput struct {
	DriverName    string
	DriverContact string
	Status        string
	LocationLat   float64
	LocationLng   float64
}

// CreateAmbulance adds a vehicle to the caller's fleet. Status defaults to Free
// and may not be Busy, since no request is bound to it yet.
func (s *AmbulanceService) CreateAmbulance(ctx context.Context, actor Actor, hospitalID uint, in CreateAmbulanceInput) (*models.Ambulance, error) {
	if err := actor.CanManageHospital(hospitalID); err != nil {
		return nil, err
	}

	status := models.AmbulanceFree
	if in.Status != "" {
		parsed, err := models.ParseAmbulanceStatus(in.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		status = parsed
	}
	if status == models.AmbulanceBusy {
		return nil, fmt.Errorf("%w: a new ambulance cannot start Busy", apperrors.ErrValidation)
	}
	if in.DriverContact != "" && !utils.ValidPhone(in.DriverContact) {
		return nil, fmt.Errorf("%w: invalid driver contact", apperrors.ErrValidation)
	}
	if err := validateCoordinates(in.LocationLat, in.LocationLng); err != nil {
		return nil, err
	}

	ambulance := &models.Ambulance{
		HospitalID:    hospitalID,
		DriverName:    strings.TrimSpace(in.DriverName),
		DriverContact: strings.TrimSpace(in.DriverContact),
		Status:        status,
		LocationLat:   in.LocationLat,
		LocationLng:   in.LocationLng,
	}
	if err := s.ambulanceRepo.CreateAmbulance(ctx, ambulance); err != nil {
		return nil, fmt.Errorf("failed to create ambulance: %w", err)
	}

	_ = s.auditRepo.CreateAuditLog(ctx, &hospitalID, "ambulance_create", fmt.Sprintf("Created ambulance %d", ambulance.ID))

	return ambulance, nil
}

// UpdateAmbulanceStatus sets a status by hand. Busy belongs to the request
// lifecycle: an ambulance with an active request cannot leave Busy, and one
// without cannot be put into it. The check and the write share a row lock.
func (s *AmbulanceService) UpdateAmbulanceStatus(ctx context.Context, actor Actor, id uint, rawStatus string) (*models.Ambulance, error) {
	status, err := models.ParseAmbulanceStatus(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	var previous models.AmbulanceStatus
	ambulance, err := s.ambulanceRepo.SetStatus(ctx, id, func(ambulance *models.Ambulance, active int64) error {
		if err := actor.CanManageHospital(ambulance.HospitalID); err != nil {
			return err
		}
		switch {
		case active > 0 && status != models.AmbulanceBusy:
			return apperrors.ErrAmbulanceEngaged
		case active == 0 && status == models.AmbulanceBusy:
			return fmt.Errorf("%w: Busy is only set by an active request", apperrors.ErrValidation)
		}
		previous = ambulance.Status
		ambulance.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	details := fmt.Sprintf("Ambulance %d status %s -> %s", id, previous, status)
	_ = s.auditRepo.CreateAuditLog(ctx, &ambulance.HospitalID, "ambulance_status", details)

	return ambulance, nil
}

// UpdateAmbulanceLocation moves an ambulance and notifies every user it is
// currently driving to.
func (s *AmbulanceService) UpdateAmbulanceLocation(ctx context.Context, actor Actor, id uint, lat, lng float64) (*models.Ambulance, error) {
	if err := validateCoordinates(lat, lng); err != nil {
		return nil, err
	}

	ambulance, err := s.ambulanceRepo.GetAmbulanceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.CanOperateAmbulance(ambulance); err != nil {
		return nil, err
	}

	requests, err := s.ambulanceRepo.UpdateLocation(ctx, id, lat, lng)
	if err != nil {
		return nil, err
	}

	ambulance.LocationLat = lat
	ambulance.LocationLng = lng
	for i := range requests {
		requests[i].Ambulance = ambulance
		publish(ctx, s.bus, events.NewRequestEvent(events.TypeAmbulanceMoved, &requests[i]))
	}

	return ambulance, nil
}

// ListAmbulances lists a hospital's fleet, optionally filtered by status
func (s *AmbulanceService) ListAmbulances(ctx context.Context, actor Actor, hospitalID uint, rawStatus string) ([]models.Ambulance, error) {
	if err := actor.CanViewHospital(hospitalID); err != nil {
		return nil, err
	}

	var status *models.AmbulanceStatus
	if rawStatus != "" {
		parsed, err := models.ParseAmbulanceStatus(rawStatus)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		status = &parsed
	}

	return s.ambulanceRepo.GetAmbulancesByHospitalID(ctx, hospitalID, status)
}

// GetAmbulanceRequests lists the requests served by one ambulance for its
// hospital or its driver.
func (s *AmbulanceService) GetAmbulanceRequests(ctx context.Context, actor Actor, id uint, rawStatus string) ([]models.Request, error) {
	ambulance, err := s.ambulanceRepo.GetAmbulanceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.CanOperateAmbulance(ambulance); err != nil {
		return nil, err
	}
	status, err := parseRequestFilter(rawStatus)
	if err != nil {
		return nil, err
	}
	return s.requestRepo.GetRequestsByAmbulanceID(ctx, id, status)
}
