package scheduler

import "time"

// Clock supplies the frame loop's notion of time
type Clock interface {
	// Now returns the current time
	Now() time.Time
	// After returns a channel receiving the fire time once deadline is reached
	After(deadline time.Time) <-chan time.Time
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

// After arms a timer for an absolute deadline; past deadlines fire immediately
func (p *TimeProvider) After(deadline time.Time) <-chan time.Time {
	return time.After(time.Until(deadline))
}
