package ads

import "time"

// Timer represents a scheduled call that can be stopped.
type Timer interface {
	Stop() bool
}

// Clock provides time-related operations.
// Slots only read the time; the simulated network also schedules callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock is the default Clock backed by the time package.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
