package repository

import (
	"context"
	"errors"
	"fmt"

	"ambulance-request-backend/internal/apperrors"
	"ambulance-request-backend/internal/models"

	"gorm.io/gorm"
)

type HospitalRepository struct {
	db *gorm.DB
}

func NewHospitalRepo(db *gorm.DB) *HospitalRepository {
	return &HospitalRepository{db: db}
}

// GetAllHospitals retrieves all hospitals ordered by name
func (r *HospitalRepository) GetAllHospitals(ctx context.Context) ([]models.Hospital, error) {
	var hospitals []models.Hospital
	err := r.db.WithContext(ctx).Order("name ASC").Find(&hospitals).Error
	return hospitals, err
}

// ListFleet returns every hospital with its ambulances in insertion order,
// which is the order the matcher scans them in.
func (r *HospitalRepository) ListFleet(ctx context.Context) ([]models.Hospital, error) {
	var hospitals []models.Hospital
	err := r.db.WithContext(ctx).
		Preload("Ambulances", func(db *gorm.DB) *gorm.DB {
			return db.Order("ambulances.id ASC")
		}).
		Order("hospitals.id ASC").
		Find(&hospitals).Error
	return hospitals, err
}

// GetHospitalByID retrieves a hospital by ID
func (r *HospitalRepository) GetHospitalByID(ctx context.Context, id uint) (*models.Hospital, error) {
	var hospital models.Hospital
	err := r.db.WithContext(ctx).First(&hospital, id).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrHospitalNotFound)
	}
	return &hospital, nil
}

// GetHospitalByName retrieves a hospital by its unique name
func (r *HospitalRepository) GetHospitalByName(ctx context.Context, name string) (*models.Hospital, error) {
	var hospital models.Hospital
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&hospital).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrHospitalNotFound)
	}
	return &hospital, nil
}

// CreateHospitalWithFleet inserts the hospital and its placeholder ambulances in one transaction.
func (r *HospitalRepository) CreateHospitalWithFleet(ctx context.Context, hospital *models.Hospital, fleet []models.Ambulance) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Ambulances").Create(hospital).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrHospitalExists
			}
			return fmt.Errorf("failed to create hospital: %w", err)
		}

		if len(fleet) == 0 {
			return nil
		}
		for i := range fleet {
			fleet[i].HospitalID = hospital.ID
		}
		if err := tx.Create(&fleet).Error; err != nil {
			return fmt.Errorf("failed to create ambulances: %w", err)
		}
		hospital.Ambulances = fleet
		return nil
	})
}
