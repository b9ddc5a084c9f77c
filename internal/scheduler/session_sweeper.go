package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/lombahub/internal/logger"
)

// Sweeper drops idle sessions.
type Sweeper interface {
	Sweep(now time.Time) int
}

// SessionSweeper periodically evicts idle list sessions from memory
type SessionSweeper struct {
	sessions Sweeper
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewSessionSweeper creates a new session sweeper
func NewSessionSweeper(sessions Sweeper, log logger.Logger, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{
		sessions: sessions,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep
func (ss *SessionSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(ss.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				ss.Sweep(now)
			case <-ss.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the sweeper
func (ss *SessionSweeper) Stop() {
	close(ss.stopCh)
}

// Sweep runs one eviction pass and returns the number of dropped sessions
func (ss *SessionSweeper) Sweep(now time.Time) int {
	removed := ss.sessions.Sweep(now)
	if removed > 0 {
		ss.logger.Info("Evicted idle sessions", logger.Int("count", removed))
	} else {
		ss.logger.Debug("No idle sessions to evict")
	}
	return removed
}
