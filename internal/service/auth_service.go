package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ambulance-request-backend/internal/apperrors"
	"ambulance-request-backend/internal/models"
	"ambulance-request-backend/pkg/utils"

	"github.com/rs/zerolog/log"
)

type AuthService struct {
	hospitalRepo  HospitalStore
	ambulanceRepo AmbulanceStore
	sessionRepo   SessionStore
	auditRepo     AuditStore
	now           func() time.Time
}

func NewAuthService(
	hospitalRepo HospitalStore,
	ambulanceRepo AmbulanceStore,
	sessionRepo SessionStore,
	auditRepo AuditStore,
) *AuthService {
	return &AuthService{
		hospitalRepo:  hospitalRepo,
		ambulanceRepo: ambulanceRepo,
		sessionRepo:   sessionRepo,
		auditRepo:     auditRepo,
		now:           time.Now,
	}
}

// LoginResponse represents the response structure for hospital and driver logins
type LoginResponse struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"-"`
	Hospital     HospitalSummary   `json:"hospital"`
	Ambulance    *models.Ambulance `json:"ambulance,omitempty"`
}

type HospitalSummary struct {
	ID   uint   `json:"hospital_id"`
	Name string `json:"name"`
}

// LoginHospital authenticates a hospital admin by name and password
func (s *AuthService) LoginHospital(ctx context.Context, name, password string) (*LoginResponse, error) {
	hospital, err := s.hospitalRepo.GetHospitalByName(ctx, name)
	if err != nil {
		if errors.Is(err, apperrors.ErrHospitalNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.ComparePassword(hospital.PasswordHash, password) {
		log.Warn().Uint("hospital_id", hospital.ID).Msg("failed hospital login")
		return nil, apperrors.ErrInvalidCredentials
	}

	response, err := s.openSession(ctx, hospital, nil)
	if err != nil {
		return nil, err
	}

	_ = s.auditRepo.CreateAuditLog(ctx, &hospital.ID, "hospital_login", fmt.Sprintf("Hospital %s logged in", hospital.Name))

	return response, nil
}

// LoginDriver matches a driver against the hospital's fleet and opens a session
// scoped to that one ambulance.
func (s *AuthService) LoginDriver(ctx context.Context, hospitalID uint, driverName, driverContact string) (*LoginResponse, error) {
	hospital, err := s.hospitalRepo.GetHospitalByID(ctx, hospitalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrHospitalNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	ambulance, err := s.ambulanceRepo.FindDriver(ctx, hospitalID, driverName, driverContact)
	if err != nil {
		if errors.Is(err, apperrors.ErrAmbulanceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	return s.openSession(ctx, hospital, ambulance)
}

func (s *AuthService) openSession(ctx context.Context, hospital *models.Hospital, ambulance *models.Ambulance) (*LoginResponse, error) {
	role := utils.RoleHospital
	var ambulanceID uint
	var sessionAmbulanceID *uint
	if ambulance != nil {
		role = utils.RoleDriver
		ambulanceID = ambulance.ID
		sessionAmbulanceID = &ambulance.ID
	}

	accessToken, err := utils.GenerateAccessToken(hospital.ID, ambulanceID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken := utils.GenerateRefreshToken()
	session := &models.Session{
		HospitalID:  hospital.ID,
		AmbulanceID: sessionAmbulanceID,
		Role:        role,
		TokenHash:   utils.HashRefreshToken(refreshToken),
		ExpiresAt:   s.now().Add(utils.GetRefreshTokenExpiry()),
	}
	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Hospital:     HospitalSummary{ID: hospital.ID, Name: hospital.Name},
		Ambulance:    ambulance,
	}, nil
}

// RefreshAccessToken issues a new access token for a live refresh token
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	session, err := s.sessionRepo.FindSessionByHash(ctx, utils.HashRefreshToken(refreshToken))
	if err != nil {
		return "", err
	}

	if s.now().After(session.ExpiresAt) {
		return "", apperrors.ErrSessionExpired
	}

	var ambulanceID uint
	if session.AmbulanceID != nil {
		ambulanceID = *session.AmbulanceID
	}

	accessToken, err := utils.GenerateAccessToken(session.HospitalID, ambulanceID, session.Role)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout revokes a refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.sessionRepo.RevokeSessionByHash(ctx, utils.HashRefreshToken(refreshToken)); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}
