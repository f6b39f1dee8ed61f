package shared

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// RenderRateLimiter enforces a minimum delay between expensive operations.
// It serializes headless-browser renders of JS-drawn display boards: plain
// HTTP fetches run concurrently within a scrape batch, but each Chrome
// render holds a whole browser process, so renders are paced one at a time.
type RenderRateLimiter struct {
	minimumDelay time.Duration
	lastRunTime  time.Time
	mutex        sync.Mutex
	runCount     int64
}

// NewRenderRateLimiter creates a rate limiter with the given minimum delay.
func NewRenderRateLimiter(minimumDelay time.Duration) *RenderRateLimiter {
	return &RenderRateLimiter{
		minimumDelay: minimumDelay,
		lastRunTime:  time.Now().Add(-minimumDelay),
	}
}

// Wait blocks until the minimum delay has elapsed since the previous run.
func (limiter *RenderRateLimiter) Wait() {
	limiter.mutex.Lock()
	defer limiter.mutex.Unlock()

	elapsed := time.Since(limiter.lastRunTime)
	if elapsed < limiter.minimumDelay {
		remaining := limiter.minimumDelay - elapsed

		logrus.WithFields(logrus.Fields{
			"component":       "RenderRateLimiter",
			"elapsed_time":    elapsed,
			"minimum_delay":   limiter.minimumDelay,
			"remaining_delay": remaining,
			"run_count":       limiter.runCount + 1,
		}).Debug("Enforcing render rate limit delay")

		time.Sleep(remaining)
	}

	limiter.lastRunTime = time.Now()
	limiter.runCount++
}

// RunCount returns the total number of runs that passed through the limiter.
func (limiter *RenderRateLimiter) RunCount() int64 {
	limiter.mutex.Lock()
	defer limiter.mutex.Unlock()
	return limiter.runCount
}
