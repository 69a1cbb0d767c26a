package test

import (
	"sync"
	"time"

	"github.com/aquafit/pixreminder/internal/scheduler"
)

// ArmedTimer is one timer captured by ManualTimer.
type ArmedTimer struct {
	Duration time.Duration
	fire     func()
	mu       *sync.Mutex
	stopped  bool
	fired    bool
}

// Stop marks the timer cancelled. Mirrors time.Timer semantics: returns
// false when the timer already fired or was already stopped.
func (a *ArmedTimer) Stop() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fired || a.stopped {
		return false
	}
	a.stopped = true
	return true
}

// ManualTimer implements scheduler.Timer with explicit firing so tests do
// not sleep through grace periods.
type ManualTimer struct {
	mu     sync.Mutex
	Timers []*ArmedTimer
}

// Arm captures the callback instead of scheduling it.
func (m *ManualTimer) Arm(d time.Duration, onFire func()) scheduler.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	armed := &ArmedTimer{Duration: d, fire: onFire, mu: &m.mu}
	m.Timers = append(m.Timers, armed)
	return armed
}

// Fire runs the callback of timer i unless it was stopped. The callback is
// invoked outside the internal lock, matching time.AfterFunc behaviour.
func (m *ManualTimer) Fire(i int) {
	m.mu.Lock()
	if i >= len(m.Timers) {
		m.mu.Unlock()
		return
	}
	armed := m.Timers[i]
	if armed.stopped || armed.fired {
		m.mu.Unlock()
		return
	}
	armed.fired = true
	fire := armed.fire
	m.mu.Unlock()

	fire()
}

// Armed reports how many timers were armed in total, stopped or not.
func (m *ManualTimer) Armed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Timers)
}
