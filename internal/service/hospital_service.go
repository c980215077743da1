package service

import (
	"context"
	"fmt"
	"strings"

	"ambulance-request-backend/internal/apperrors"
	"ambulance-request-backend/internal/models"
	"ambulance-request-backend/pkg/utils"
)

// MaxFleetSize caps the placeholder ambulances created at registration.
const MaxFleetSize = 500

type HospitalService struct {
	hospitalRepo HospitalStore
	auditRepo    AuditStore
}

func NewHospitalService(hospitalRepo HospitalStore, auditRepo AuditStore) *HospitalService {
	return &HospitalService{
		hospitalRepo: hospitalRepo,
		auditRepo:    auditRepo,
	}
}

type RegisterHospitalInput struct {
	Name            string
	Password        string
	LocationLat     float64
	LocationLng     float64
	ContactNumber   string
	TotalAmbulances int
}

func (in RegisterHospitalInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	case len(in.Password) < 6:
		return fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrValidation)
	case in.ContactNumber != "" && !utils.ValidPhone(in.ContactNumber):
		return fmt.Errorf("%w: invalid contact number", apperrors.ErrValidation)
	case in.TotalAmbulances < 0 || in.TotalAmbulances > MaxFleetSize:
		return fmt.Errorf("%w: total_ambulances must be between 0 and %d", apperrors.ErrValidation, MaxFleetSize)
	}
	return validateCoordinates(in.LocationLat, in.LocationLng)
}

// RegisterHospital creates the hospital and one Free placeholder ambulance per
// declared vehicle, parked at the hospital's coordinates.
func (s *HospitalService) RegisterHospital(ctx context.Context, in RegisterHospitalInput) (*models.Hospital, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	passwordHash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	hospital := &models.Hospital{
		Name:            strings.TrimSpace(in.Name),
		PasswordHash:    passwordHash,
		LocationLat:     in.LocationLat,
		LocationLng:     in.LocationLng,
		ContactNumber:   strings.TrimSpace(in.ContactNumber),
		TotalAmbulances: in.TotalAmbulances,
	}

	fleet := make([]models.Ambulance, in.TotalAmbulances)
	for i := range fleet {
		fleet[i] = models.Ambulance{
			Status:      models.AmbulanceFree,
			LocationLat: in.LocationLat,
			LocationLng: in.LocationLng,
		}
	}

	if err := s.hospitalRepo.CreateHospitalWithFleet(ctx, hospital, fleet); err != nil {
		return nil, err
	}

	details := fmt.Sprintf("Registered hospital: %s with %d ambulances", hospital.Name, in.TotalAmbulances)
	_ = s.auditRepo.CreateAuditLog(ctx, &hospital.ID, "hospital_register", details)

	return hospital, nil
}

// ListHospitals retrieves every registered hospital
func (s *HospitalService) ListHospitals(ctx context.Context) ([]models.Hospital, error) {
	return s.hospitalRepo.GetAllHospitals(ctx)
}

// GetHospital retrieves a hospital by ID
func (s *HospitalService) GetHospital(ctx context.Context, id uint) (*models.Hospital, error) {
	return s.hospitalRepo.GetHospitalByID(ctx, id)
}

func validateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", apperrors.ErrValidation)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", apperrors.ErrValidation)
	}
	return nil
}
