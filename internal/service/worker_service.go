package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// SessionSweeper periodically deletes expired and revoked sessions.
type SessionSweeper struct {
	sessionRepo SessionStore
	interval    time.Duration
	now         func() time.Time
}

func NewSessionSweeper(sessionRepo SessionStore, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{
		sessionRepo: sessionRepo,
		interval:    interval,
		now:         time.Now,
	}
}

// Start runs the sweeper until ctx is cancelled
func (w *SessionSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", w.interval).Msg("session sweeper started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("session sweeper stopped")
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep removes stale sessions once and returns how many were deleted
func (w *SessionSweeper) Sweep(ctx context.Context) int64 {
	deleted, err := w.sessionRepo.DeleteStaleSessions(ctx, w.now())
	if err != nil {
		log.Error().Err(err).Msg("failed to sweep sessions")
		return 0
	}
	if deleted > 0 {
		log.Debug().Int64("deleted", deleted).Msg("swept stale sessions")
	}
	return deleted
}
