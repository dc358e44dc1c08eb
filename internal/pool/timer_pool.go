// Package pool keeps reusable timers for reply and delay waits.
package pool

import (
	"sync"
	"time"
)

var timers sync.Pool

// GetTimer returns a started timer that fires after d.
//
// Hand it back with PutTimer once the wait is over.
func GetTimer(d time.Duration) *time.Timer {
	v := timers.Get()
	if v == nil {
		return time.NewTimer(d)
	}

	t, _ := v.(*time.Timer)
	if t.Reset(d) {
		select {
		case <-t.C:
		default:
		}
	}

	return t
}

// PutTimer stops t and returns it to the pool. The caller must not use t afterwards.
func PutTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	timers.Put(t)
}

// Sleep blocks for d using a pooled timer. It returns at once when d <= 0.
func Sleep(d time.Duration) {
	if d <= 0 {
		return
	}

	t := GetTimer(d)
	<-t.C
	PutTimer(t)
}
