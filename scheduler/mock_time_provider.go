package scheduler

import (
	"sync"
	"time"
)

// MockTimeProvider provides a controllable time source for testing
// Timers armed through After only fire when Fire is called
type MockTimeProvider struct {
	mu          sync.RWMutex
	currentTime time.Time
	deadlines   []time.Time
	fire        chan time.Time
}

// NewMockTimeProvider creates a new mock time provider with the given start time
func NewMockTimeProvider(startTime time.Time) *MockTimeProvider {
	return &MockTimeProvider{
		currentTime: startTime,
		fire:        make(chan time.Time),
	}
}

// Now returns the current mocked time
func (m *MockTimeProvider) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentTime
}

// SetTime sets the current time for the mock
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
}

// Advance advances the current time by the given duration
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
}

// After records the deadline and returns the shared fire channel
func (m *MockTimeProvider) After(deadline time.Time) <-chan time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deadlines = append(m.deadlines, deadline)
	return m.fire
}

// Fire advances the mock to t and delivers t to the armed timer
// Blocks until the receiver takes it
func (m *MockTimeProvider) Fire(t time.Time) {
	m.SetTime(t)
	m.fire <- t
}

// Deadlines returns every deadline armed so far, in order
func (m *MockTimeProvider) Deadlines() []time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]time.Time, len(m.deadlines))
	copy(out, m.deadlines)
	return out
}
