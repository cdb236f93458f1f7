// Package clockx abstracts wall-clock time and deadline scheduling so the
// attempt window and session expiry can be driven by a fake clock in tests.
package clockx

import "time"

// Timer is a cancellable scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the stop
	// happened before the timer fired.
	Stop() bool
}

// Clock supplies the current time, blocking sleeps, and deadline callbacks.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
	// AfterFunc schedules f to run once after d. The returned Timer can be
	// stopped before it fires.
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// New returns a Clock backed by the system clock.
func New() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
