// Package scheduler runs named, cancellable delayed tasks.
package scheduler

import "time"

// Scheduler runs fn once after delay. Scheduling a name that is already pending
// replaces the pending task.
type Scheduler interface {
	Schedule(name string, delay time.Duration, fn func())
	Cancel(name string)
	CancelAll()
}
