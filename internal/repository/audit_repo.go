package repository

import (
	"context"

	"ambulance-request-backend/internal/models"

	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateAuditLog creates a new audit log entry
func (r *AuditRepository) CreateAuditLog(ctx context.Context, hospitalID *uint, action string, details string) error {
	log := &models.AuditLog{
		HospitalID: hospitalID,
		Action:     action,
		Details:    details,
	}
	return r.db.WithContext(ctx).Create(log).Error
}
