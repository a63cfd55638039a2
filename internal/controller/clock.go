package controller

import "time"

// Timer is a cancelable scheduled callback. Stop reports whether the call
// was prevented; stopping an already-fired or already-stopped timer is a
// harmless no-op, which makes cancellation idempotent.
type Timer interface {
	Stop() bool
}

// Clock abstracts time for the debounce and undo windows so tests can drive
// them without sleeping.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock returns the wall-clock implementation.
func SystemClock() Clock { return systemClock{} }
