package sim

import (
	"sync"
	"time"
)

// TimeSource provides the current time to the clock.
type TimeSource interface {
	Now() time.Time
}

// SystemTime reads the real monotonic clock.
type SystemTime struct{}

// Now returns time.Now.
func (SystemTime) Now() time.Time { return time.Now() }

// MockTime is a controllable time source for tests and headless runs.
type MockTime struct {
	mu  sync.RWMutex
	now time.Time
}

// NewMockTime creates a mock time source starting at start.
func NewMockTime(start time.Time) *MockTime {
	return &MockTime{now: start}
}

// Now returns the current mocked time.
func (m *MockTime) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Set sets the current time.
func (m *MockTime) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the current time forward by d.
func (m *MockTime) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
