package clock

import (
	"sort"
	"sync"
	"time"
)

// waiter is a pending one-shot timer on the mock clock
type waiter struct {
	deadline time.Time
	ch       chan time.Time
}

// MockTimeProvider provides a controllable time source for testing and offline rendering.
// Timers only fire when the owner advances time
type MockTimeProvider struct {
	mu          sync.Mutex
	currentTime time.Time
	waiters     []waiter
}

// NewMockTimeProvider creates a new mock time provider with the given start time
func NewMockTimeProvider(startTime time.Time) *MockTimeProvider {
	return &MockTimeProvider{
		currentTime: startTime,
	}
}

// Now returns the current mocked time
func (m *MockTimeProvider) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTime
}

// After registers a timer relative to the mocked time
func (m *MockTimeProvider) After(d time.Duration) <-chan time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Buffered so firing never blocks Advance
	ch := make(chan time.Time, 1)
	deadline := m.currentTime.Add(d)
	if !deadline.After(m.currentTime) {
		ch <- m.currentTime
		return ch
	}
	m.waiters = append(m.waiters, waiter{deadline: deadline, ch: ch})
	return ch
}

// SetTime sets the current time and fires every timer that became due
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = t
	m.fireLocked()
}

// Advance advances the current time by the given duration and fires due timers in deadline order
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentTime = m.currentTime.Add(d)
	m.fireLocked()
}

// Pending returns the number of timers not yet fired
func (m *MockTimeProvider) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.waiters)
}

// BlockUntil waits in real time until at least n timers are pending or timeout elapses.
// Returns false on timeout
func (m *MockTimeProvider) BlockUntil(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if m.Pending() >= n {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
}

func (m *MockTimeProvider) fireLocked() {
	if len(m.waiters) == 0 {
		return
	}
	sort.SliceStable(m.waiters, func(i, j int) bool {
		return m.waiters[i].deadline.Before(m.waiters[j].deadline)
	})

	kept := m.waiters[:0]
	for _, w := range m.waiters {
		if w.deadline.After(m.currentTime) {
			kept = append(kept, w)
			continue
		}
		w.ch <- w.deadline
	}
	// Clear tail references for GC
	for i := len(kept); i < len(m.waiters); i++ {
		m.waiters[i] = waiter{}
	}
	m.waiters = kept
}
