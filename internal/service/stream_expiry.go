package service

import (
	"context"
	"time"

	"rap-for-money-be/internal/pkg/logger"
)

// StreamExpirySweeper is the active half of stream expiry. The lazy check on
// the request path already ends overdue streams that still receive traffic;
// the sweeper catches the ones everybody walked away from.
type StreamExpirySweeper struct {
	service  ILivestreamService
	interval time.Duration
	logger   logger.ILogger
}

func NewStreamExpirySweeper(svc ILivestreamService, interval time.Duration, log logger.ILogger) *StreamExpirySweeper {
	return &StreamExpirySweeper{
		service:  svc,
		interval: interval,
		logger:   log,
	}
}

// Run blocks until ctx is cancelled. Callers start it on its own goroutine.
func (s *StreamExpirySweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			expired, err := s.service.ExpireStale(ctx)
			if err != nil {
				s.logger.Error("sweeper", "Expiry sweep failed", map[string]interface{}{
					"error": err.Error(),
				})
				continue
			}
			if expired > 0 {
				s.logger.Info("sweeper", "Expired stale streams", map[string]interface{}{
					"count": expired,
				})
			}
		case <-ctx.Done():
			return
		}
	}
}
