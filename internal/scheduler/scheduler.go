package scheduler

import "time"

// CancelHandle references a scheduled task. Cancel may be called any number
// of times, also after the task has already run.
type CancelHandle interface {
	Cancel()
}

// Scheduler runs delayed and recurring tasks. All tasks of one scheduler are
// executed sequentially, never concurrently with each other.
type Scheduler interface {
	Now() time.Time
	// Schedule runs fn once after delay
	Schedule(delay time.Duration, fn func()) CancelHandle
	// Every runs fn repeatedly, every period, starting one period from now
	Every(period time.Duration, fn func()) CancelHandle
}

// Cancel cancels the given handle, nil handles are ignored
func Cancel(handle CancelHandle) {
	if handle != nil {
		handle.Cancel()
	}
}
