package repository

import (
	"context"
	"time"

	"ambulance-request-backend/internal/apperrors"
	"ambulance-request-backend/internal/models"

	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// CreateSession stores a new refresh token session
func (r *SessionRepository) CreateSession(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// FindSessionByHash finds a live session by its token hash
func (r *SessionRepository) FindSessionByHash(ctx context.Context, hash string) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).
		Where("token_hash = ? AND revoked = ?", hash, false).
		First(&session).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrSessionNotFound)
	}
	return &session, nil
}

// RevokeSessionByHash marks a session as revoked by its token hash
func (r *SessionRepository) RevokeSessionByHash(ctx context.Context, hash string) error {
	return r.db.WithContext(ctx).Model(&models.Session{}).
		Where("token_hash = ?", hash).
		Update("revoked", true).Error
}

// DeleteStaleSessions removes sessions that expired before now or were revoked
func (r *SessionRepository) DeleteStaleSessions(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ? OR revoked = ?", now, true).
		Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
