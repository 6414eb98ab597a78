// Package pool holds reusable timers for response deadlines.
package pool

import (
	"sync"
	"time"
)

var timerPool sync.Pool

// GetTimer returns a stopped-and-rearmed timer firing after d.
// Hand it back with PutTimer once the wait is over.
func GetTimer(d time.Duration) *time.Timer {
	v := timerPool.Get()
	if v == nil {
		return time.NewTimer(d)
	}

	t, _ := v.(*time.Timer)
	t.Reset(d)

	return t
}

// GetDeadlineTimer returns a timer firing at deadline. A deadline in the
// past yields a timer that fires immediately.
func GetDeadlineTimer(deadline time.Time) *time.Timer {
	return GetTimer(time.Until(deadline))
}

// PutTimer stops t, drains a pending tick and returns t to the pool.
// t must not be used afterwards.
func PutTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	timerPool.Put(t)
}
