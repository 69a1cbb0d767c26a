package scheduler

import "time"

// Token cancels an armed timer. Stop reports whether the timer was stopped
// before firing; stopping an already-fired timer is a no-op returning false.
type Token interface {
	Stop() bool
}

// Timer arms one-shot timers. Extracted as an interface so tests can fire
// timers deterministically instead of sleeping through grace periods.
type Timer interface {
	Arm(d time.Duration, onFire func()) Token
}

type wallTimer struct{}

// NewWallTimer returns a Timer backed by time.AfterFunc.
func NewWallTimer() Timer {
	return wallTimer{}
}

type wallToken struct {
	t *time.Timer
}

func (w wallToken) Stop() bool {
	return w.t.Stop()
}

func (wallTimer) Arm(d time.Duration, onFire func()) Token {
	return wallToken{t: time.AfterFunc(d, onFire)}
}
