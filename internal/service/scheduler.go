package service

import "time"

// Timer is a pending scheduled task.
type Timer interface {
	// Stop cancels the task and reports whether it had not yet run.
	Stop() bool
}

// Scheduler runs a function once after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type clockScheduler struct{}

// NewClockScheduler returns a Scheduler backed by the runtime timers.
func NewClockScheduler() Scheduler {
	return clockScheduler{}
}

func (clockScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
