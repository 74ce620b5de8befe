package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"token-forge.backend/internal/domain/repositories"
	"token-forge.backend/internal/metrics"
	"token-forge.backend/pkg/logger"
)

const sweepBatchSize = 200

// SessionSweepJob deletes expired temporary metadata sessions. Lookups
// already skip expired rows, so the sweep is purely garbage collection:
// correctness never depends on it having run.
type SessionSweepJob struct {
	repo     repositories.SessionRepository
	interval time.Duration
	stop     chan struct{}
}

// NewSessionSweepJob creates a new session sweep job
func NewSessionSweepJob(repo repositories.SessionRepository, interval time.Duration) *SessionSweepJob {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &SessionSweepJob{
		repo:     repo,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start runs the sweep loop until the context is cancelled or Stop is
// called.
func (j *SessionSweepJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting metadata session sweep", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Session sweep stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Session sweep stopped")
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Stop signals the sweep loop to exit
func (j *SessionSweepJob) Stop() {
	close(j.stop)
}

// Sweep removes one batch of expired sessions
func (j *SessionSweepJob) Sweep(ctx context.Context) {
	purged, err := j.repo.PurgeExpired(ctx, time.Now(), sweepBatchSize)
	if err != nil {
		logger.Error(ctx, "Failed to purge expired sessions", zap.Error(err))
		return
	}
	if purged > 0 {
		metrics.SessionsPurged.Add(float64(purged))
		logger.Info(ctx, "Purged expired metadata sessions", zap.Int64("count", purged))
	}
}
