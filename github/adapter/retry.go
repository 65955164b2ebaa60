package adapter

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"
)

// RetryPolicy bounds how a single logical call is re-attempted on transient
// failure. The zero value is not usable; DefaultRetryPolicy supplies the
// defaults.
type RetryPolicy struct {
	// MaxAttempts is the total attempt budget, including the first call.
	MaxAttempts int
	// InitialDelay seeds the exponential backoff schedule.
	InitialDelay time.Duration
	// MaxJitter is the upper bound of the random delay added to each
	// backoff step to decorrelate concurrent retriers.
	MaxJitter time.Duration
}

// DefaultRetryPolicy returns the production schedule: three attempts,
// 1s/2s backoff plus up to 500ms jitter.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, InitialDelay: time.Second, MaxJitter: 500 * time.Millisecond}
}

// backoff returns the delay preceding retry n (zero-indexed retry count).
func (p RetryPolicy) backoff(n int) time.Duration {
	d := p.InitialDelay << n
	if p.MaxJitter > 0 {
		d += time.Duration(rand.Int64N(int64(p.MaxJitter)))
	}
	return d
}

// withRetry runs attempt up to p.MaxAttempts times, sleeping the backoff
// schedule between retryable failures. The last error is surfaced unchanged
// once the budget is exhausted; terminal errors return immediately.
func withRetry[T any](ctx context.Context, p RetryPolicy, op string, attempt func() (T, error)) (T, error) {
	var zero T
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for n := 0; n < attempts; n++ {
		if n > 0 {
			delay := p.backoff(n - 1)
			slog.Debug("retrying github call", "op", op, "attempt", n+1, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return zero, netError(op, ctx.Err())
			}
		}
		out, err := attempt()
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !retryable(err) {
			return zero, err
		}
	}
	return zero, lastErr
}
