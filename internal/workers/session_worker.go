package workers

import (
	"context"
	"time"

	"feedback_backend/internal/logger"
)

const DefaultSweepInterval = 10 * time.Minute

// Sweeper removes expired sessions and reports how many it removed.
type Sweeper interface {
	Sweep() int
}

type SessionWorker struct {
	sessions Sweeper
	interval time.Duration
}

func NewSessionWorker(sessions Sweeper, interval time.Duration) *SessionWorker {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &SessionWorker{sessions: sessions, interval: interval}
}

// Start runs the sweeper in the background until ctx is cancelled.
func (w *SessionWorker) Start(ctx context.Context) {
	go w.sweepExpiredSessions(ctx)
}

func (w *SessionWorker) sweepExpiredSessions(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Session worker stopped")
			return
		case <-ticker.C:
			if removed := w.sessions.Sweep(); removed > 0 {
				logger.Info("Expired sessions removed", "count", removed)
			}
			logger.WorkerLog("session_worker", "sweep_expired_sessions", nil)
		}
	}
}
