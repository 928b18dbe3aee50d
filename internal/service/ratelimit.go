package service

import (
	"sync"
	"time"

	"cashbackhelp/internal/config"

	"go.uber.org/zap"
)

// RateLimiter enforces a per-user sliding-window request budget. Pro users
// get the larger budget. Idle users are swept out of memory once their whole
// window plus a minute of grace has passed.
type RateLimiter struct {
	cfg    config.RateLimitConfig
	logger *zap.Logger

	mu      sync.Mutex
	windows map[int64][]time.Time

	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

const sweepGrace = time.Minute

// NewRateLimiter creates a limiter and starts its background sweep
func NewRateLimiter(cfg config.RateLimitConfig, logger *zap.Logger) *RateLimiter {
	l := &RateLimiter{
		cfg:     cfg,
		logger:  logger,
		windows: make(map[int64][]time.Time),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go l.sweepLoop()
	return l
}

// Allow records one request and reports whether it fits the user's budget.
// When refused, retryAfter says how long until the oldest counted request
// leaves the window.
func (l *RateLimiter) Allow(userID int64, pro bool) (allowed bool, retryAfter time.Duration) {
	limit := l.cfg.FreeRequests
	if pro {
		limit = l.cfg.ProRequests
	}
	if limit <= 0 {
		return true, 0
	}

	now := l.now()
	cutoff := now.Add(-l.cfg.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	window := l.windows[userID]
	kept := window[:0]
	for _, t := range window {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= limit {
		l.windows[userID] = kept
		return false, kept[0].Sub(cutoff)
	}

	l.windows[userID] = append(kept, now)
	return true, 0
}

// Stop terminates the background sweep
func (l *RateLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(l.cfg.Window)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

// sweep drops users whose most recent request is already outside the window
// plus grace, so the map does not grow with every user ever seen
func (l *RateLimiter) sweep() {
	cutoff := l.now().Add(-l.cfg.Window - sweepGrace)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for userID, window := range l.windows {
		if len(window) == 0 || !window[len(window)-1].After(cutoff) {
			delete(l.windows, userID)
			removed++
		}
	}

	if removed > 0 {
		l.logger.Debug("Rate limiter swept idle users", zap.Int("removed", removed))
	}
}
