package port

import (
	"context"
	"time"
)

// RateLimitStore tracks authentication attempts per identifier inside a
// sliding window. Used to throttle credential guessing ahead of the
// per-account lockout counter.
type RateLimitStore interface {
	RecordAttempt(ctx context.Context, identifier string, at time.Time) error
	CountAttempts(ctx context.Context, identifier string, window time.Duration, reference time.Time) (int, error)
}
