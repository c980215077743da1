package repository

import (
	"context"
	"fmt"

	"ambulance-request-backend/internal/apperrors"
	"ambulance-request-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReserveFunc inspects the locked ambulance and mutates it before the request is inserted.
type ReserveFunc func(ambulance *models.Ambulance) error

// TransitionFunc mutates the locked request and its ambulance. Returning an error rolls back.
type TransitionFunc func(request *models.Request, ambulance *models.Ambulance) error

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepo(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// CreateRequest locks the bound ambulance, lets reserve claim it and inserts the
// request, all in one transaction. Two callers racing for the same ambulance are
// serialized on the row lock.
func (r *RequestRepository) CreateRequest(ctx context.Context, request *models.Request, reserve ReserveFunc) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ambulance models.Ambulance
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ambulance, request.AmbulanceID).Error; err != nil {
			return translate(err, apperrors.ErrAmbulanceNotFound)
		}

		if err := reserve(&ambulance); err != nil {
			return err
		}

		if err := tx.Model(&models.Ambulance{}).
			Where("id = ?", ambulance.ID).
			Update("status", ambulance.Status).Error; err != nil {
			return fmt.Errorf("failed to reserve ambulance: %w", err)
		}

		if err := tx.Omit(clause.Associations).Create(request).Error; err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		request.Ambulance = &ambulance
		return nil
	})
}

// Transition locks the request and its ambulance, applies fn and persists the
// status fields of both rows in one transaction.
func (r *RequestRepository) Transition(ctx context.Context, id uint, fn TransitionFunc) (*models.Request, error) {
	var request models.Request

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&request, id).Error; err != nil {
			return translate(err, apperrors.ErrRequestNotFound)
		}

		var ambulance models.Ambulance
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ambulance, request.AmbulanceID).Error; err != nil {
			return translate(err, apperrors.ErrAmbulanceNotFound)
		}

		if err := fn(&request, &ambulance); err != nil {
			return err
		}

		if err := tx.Model(&models.Ambulance{}).
			Where("id = ?", ambulance.ID).
			Updates(map[string]interface{}{
				"status":      ambulance.Status,
				"total_rides": ambulance.TotalRides,
			}).Error; err != nil {
			return fmt.Errorf("failed to update ambulance: %w", err)
		}

		if err := tx.Model(&models.Request{}).
			Where("id = ?", request.ID).
			Updates(map[string]interface{}{
				"status":       request.Status,
				"completed_at": request.CompletedAt,
			}).Error; err != nil {
			return fmt.Errorf("failed to update request: %w", err)
		}

		request.Ambulance = &ambulance
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// GetRequestByID retrieves a request by ID
func (r *RequestRepository) GetRequestByID(ctx context.Context, id uint) (*models.Request, error) {
	var request models.Request
	err := r.db.WithContext(ctx).First(&request, id).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrRequestNotFound)
	}
	return &request, nil
}

// GetRequestsByUserID retrieves a user's requests, newest first, with hospital and ambulance preloaded
func (r *RequestRepository) GetRequestsByUserID(ctx context.Context, userID uint) ([]models.Request, error) {
	var requests []models.Request
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Hospital").
		Preload("Ambulance").
		Order("created_at DESC, id DESC").
		Find(&requests).Error
	return requests, err
}

// GetRequestsByHospitalID retrieves a hospital's requests, newest first
func (r *RequestRepository) GetRequestsByHospitalID(ctx context.Context, hospitalID uint, status *models.RequestStatus) ([]models.Request, error) {
	var requests []models.Request
	query := r.db.WithContext(ctx).Where("hospital_id = ?", hospitalID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.
		Preload("User").
		Preload("Ambulance").
		Order("created_at DESC, id DESC").
		Find(&requests).Error
	return requests, err
}

// GetRequestsByAmbulanceID retrieves the requests served by one ambulance, newest first
func (r *RequestRepository) GetRequestsByAmbulanceID(ctx context.Context, ambulanceID uint, status *models.RequestStatus) ([]models.Request, error) {
	var requests []models.Request
	query := r.db.WithContext(ctx).Where("ambulance_id = ?", ambulanceID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.
		Preload("User").
		Order("created_at DESC, id DESC").
		Find(&requests).Error
	return requests, err
}
