package diffmodel

import "time"

// Clock schedules the debounced recomputation. Tests substitute a manual
// clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}

// Timer is a scheduled callback
type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (realClock) Now() time.Time {
	return time.Now()
}

// RealClock returns a Clock backed by the time package
func RealClock() Clock {
	return realClock{}
}
