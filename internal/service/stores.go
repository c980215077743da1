package service

import (
	"context"
	"time"

	"ambulance-request-backend/internal/models"
	"ambulance-request-backend/internal/repository"
)

// The interfaces below are satisfied by the gorm repositories in internal/repository.

type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByPhone(ctx context.Context, phone string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}

type HospitalStore interface {
	GetAllHospitals(ctx context.Context) ([]models.Hospital, error)
	ListFleet(ctx context.Context) ([]models.Hospital, error)
	GetHospitalByID(ctx context.Context, id uint) (*models.Hospital, error)
	GetHospitalByName(ctx context.Context, name string) (*models.Hospital, error)
	CreateHospitalWithFleet(ctx context.Context, hospital *models.Hospital, fleet []models.Ambulance) error
}

type AmbulanceStore interface {
	CreateAmbulance(ctx context.Context, ambulance *models.Ambulance) error
	GetAmbulanceByID(ctx context.Context, id uint) (*models.Ambulance, error)
	GetAmbulancesByHospitalID(ctx context.Context, hospitalID uint, status *models.AmbulanceStatus) ([]models.Ambulance, error)
	FindDriver(ctx context.Context, hospitalID uint, driverName, driverContact string) (*models.Ambulance, error)
	SetStatus(ctx context.Context, id uint, fn repository.StatusFunc) (*models.Ambulance, error)
	UpdateLocation(ctx context.Context, id uint, lat, lng float64) ([]models.Request, error)
}

type RequestStore interface {
	CreateRequest(ctx context.Context, request *models.Request, reserve repository.ReserveFunc) error
	Transition(ctx context.Context, id uint, fn repository.TransitionFunc) (*models.Request, error)
	GetRequestByID(ctx context.Context, id uint) (*models.Request, error)
	GetRequestsByUserID(ctx context.Context, userID uint) ([]models.Request, error)
	GetRequestsByHospitalID(ctx context.Context, hospitalID uint, status *models.RequestStatus) ([]models.Request, error)
	GetRequestsByAmbulanceID(ctx context.Context, ambulanceID uint, status *models.RequestStatus) ([]models.Request, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, session *models.Session) error
	FindSessionByHash(ctx context.Context, hash string) (*models.Session, error)
	RevokeSessionByHash(ctx context.Context, hash string) error
	DeleteStaleSessions(ctx context.Context, now time.Time) (int64, error)
}

type AuditStore interface {
	CreateAuditLog(ctx context.Context, hospitalID *uint, action string, details string) error
}

var (
	_ UserStore      = (*repository.UserRepository)(nil)
	_ HospitalStore  = (*repository.HospitalRepository)(nil)
	_ AmbulanceStore = (*repository.AmbulanceRepository)(nil)
	_ RequestStore   = (*repository.RequestRepository)(nil)
	_ SessionStore   = (*repository.SessionRepository)(nil)
	_ AuditStore     = (*repository.AuditRepository)(nil)
)
