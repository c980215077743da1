package repository

import (
	"context"
	"fmt"

	"ambulance-request-backend/internal/apperrors"
	"ambulance-request-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AmbulanceRepository struct {
	db *gorm.DB
}

func NewAmbulanceRepo(db *gorm.DB) *AmbulanceRepository {
	return &AmbulanceRepository{db: db}
}

// CreateAmbulance creates a new ambulance
func (r *AmbulanceRepository) CreateAmbulance(ctx context.Context, ambulance *models.Ambulance) error {
	return r.db.WithContext(ctx).Create(ambulance).Error
}

// GetAmbulanceByID retrieves an ambulance by ID
func (r *AmbulanceRepository) GetAmbulanceByID(ctx context.Context, id uint) (*models.Ambulance, error) {
	var ambulance models.Ambulance
	err := r.db.WithContext(ctx).First(&ambulance, id).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrAmbulanceNotFound)
	}
	return &ambulance, nil
}

// GetAmbulancesByHospitalID lists a hospital's fleet, optionally filtered by status
func (r *AmbulanceRepository) GetAmbulancesByHospitalID(ctx context.Context, hospitalID uint, status *models.AmbulanceStatus) ([]models.Ambulance, error) {
	var ambulances []models.Ambulance
	query := r.db.WithContext(ctx).Where("hospital_id = ?", hospitalID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Order("id ASC").Find(&ambulances).Error
	return ambulances, err
}

// FindDriver matches a driver by name and contact within one hospital, ignoring case
func (r *AmbulanceRepository) FindDriver(ctx context.Context, hospitalID uint, driverName, driverContact string) (*models.Ambulance, error) {
	var ambulance models.Ambulance
	err := r.db.WithContext(ctx).
		Where("hospital_id = ? AND LOWER(driver_name) = LOWER(?) AND LOWER(driver_contact) = LOWER(?)",
			hospitalID, driverName, driverContact).
		Order("id ASC").
		First(&ambulance).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrAmbulanceNotFound)
	}
	return &ambulance, nil
}

// StatusFunc decides a manual status change for the locked ambulance, given how
// many Pending or Accepted requests are bound to it. Returning an error rolls back.
type StatusFunc func(ambulance *models.Ambulance, activeRequests int64) error

// SetStatus locks the ambulance, counts its active requests and applies fn in
// one transaction. A booking for the same ambulance waits on the row lock, so
// the count cannot go stale before the write.
func (r *AmbulanceRepository) SetStatus(ctx context.Context, id uint, fn StatusFunc) (*models.Ambulance, error) {
	var ambulance models.Ambulance

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ambulance, id).Error; err != nil {
			return translate(err, apperrors.ErrAmbulanceNotFound)
		}

		var active int64
		if err := tx.Model(&models.Request{}).
			Where("ambulance_id = ? AND status IN ?", id,
				[]models.RequestStatus{models.RequestPending, models.RequestAccepted}).
			Count(&active).Error; err != nil {
			return fmt.Errorf("failed to count active requests: %w", err)
		}

		if err := fn(&ambulance, active); err != nil {
			return err
		}

		if err := tx.Model(&models.Ambulance{}).
			Where("id = ?", ambulance.ID).
			Update("status", ambulance.Status).Error; err != nil {
			return fmt.Errorf("failed to update ambulance status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ambulance, nil
}

// UpdateLocation moves the ambulance and mirrors the position onto every Accepted
// request it is serving. The affected requests are returned with the new position.
func (r *AmbulanceRepository) UpdateLocation(ctx context.Context, id uint, lat, lng float64) ([]models.Request, error) {
	var requests []models.Request

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Ambulance{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{"location_lat": lat, "location_lng": lng})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrAmbulanceNotFound
		}

		if err := tx.Where("ambulance_id = ? AND status = ?", id, models.RequestAccepted).
			Find(&requests).Error; err != nil {
			return err
		}
		if len(requests) == 0 {
			return nil
		}

		ids := make([]uint, len(requests))
		for i := range requests {
			ids[i] = requests[i].ID
			requests[i].AmbulanceLat = &lat
			requests[i].AmbulanceLng = &lng
		}
		return tx.Model(&models.Request{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{"ambulance_lat": lat, "ambulance_lng": lng}).Error
	})
	if err != nil {
		return nil, err
	}
	return requests, nil
}
