package adapter

import (
	"time"

	"golang.org/x/time/rate"
)

// DefaultMinInterval is the minimum spacing between consecutive outbound
// GitHub calls. GitHub's secondary abuse limit is velocity based and applies
// across the whole client, so the spacing is shared by every call site.
const DefaultMinInterval = time.Second

// NewPacer builds the shared dispatch pacer: one token, refilled every
// minInterval, so no two dispatches start closer together than the interval.
// Construct it once per process and hand it to every Client.
func NewPacer(minInterval time.Duration) *rate.Limiter {
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	return rate.NewLimiter(rate.Every(minInterval), 1)
}
