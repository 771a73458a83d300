package service

import (
	"context"
	"go-blog-api/logger"
	"go-blog-api/repository"
	"time"
)

// RefreshTokenSweeper periodically deletes expired refresh token records so
// the table does not grow without bound.
type RefreshTokenSweeper struct {
	tokens   repository.ITokenRepository
	interval time.Duration
	now      func() time.Time
}

// NewRefreshTokenSweeper defaults a non-positive interval to one hour.
func NewRefreshTokenSweeper(tokens repository.ITokenRepository, interval time.Duration) *RefreshTokenSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &RefreshTokenSweeper{tokens: tokens, interval: interval, now: time.Now}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (s *RefreshTokenSweeper) Run(ctx context.Context) {
	logger.Log.WithField("interval", s.interval.String()).Info("Refresh token sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweepAndLog(ctx)
	for {
		select {
		case <-ticker.C:
			s.sweepAndLog(ctx)
		case <-ctx.Done():
			logger.Log.Info("Refresh token sweeper stopped")
			return
		}
	}
}

// Sweep deletes records expired as of now and returns how many were removed.
func (s *RefreshTokenSweeper) Sweep(ctx context.Context) (int64, error) {
	return s.tokens.DeleteExpired(ctx, s.now())
}

func (s *RefreshTokenSweeper) sweepAndLog(ctx context.Context) {
	n, err := s.Sweep(ctx)
	if err != nil {
		if ctx.Err() == nil {
			logger.Log.WithError(err).Error("Failed to sweep expired refresh tokens")
		}
		return
	}
	if n > 0 {
		logger.Log.WithField("deleted", n).Info("Swept expired refresh tokens")
	}
}
