// Package clock provides the time sources used to schedule playback.
//
// Playback never reads the wall clock directly; it asks a Clock for the
// current instant and for one-shot timers, so tests and the offline GIF
// recorder can step time deterministically with MockTimeProvider.
package clock

import "time"

// Clock is the time source consumed by playback
type Clock interface {
	// Now returns the current instant
	Now() time.Time

	// After returns a channel that receives once d has elapsed.
	// A non-positive d fires immediately
	After(d time.Duration) <-chan time.Time
}

// Until returns the duration from c.Now() to t, negative when t has passed
func Until(c Clock, t time.Time) time.Duration {
	return t.Sub(c.Now())
}

// TimeProvider provides the real system time with monotonic clock readings
type TimeProvider struct{}

// NewTimeProvider creates a new monotonic time provider
func NewTimeProvider() *TimeProvider {
	return &TimeProvider{}
}

// Now returns the current time with monotonic clock reading
func (p *TimeProvider) Now() time.Time {
	return time.Now()
}

// After delegates to time.After
func (p *TimeProvider) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
