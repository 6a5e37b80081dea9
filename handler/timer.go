package handler

import (
	"sync"
	"time"
)

// NewStoppedTimer returns a timer that is stopped and drained, ready
// for Reset without the usual Stop/drain dance at the call site.
func NewStoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	stopTimer(t)
	return t
}

// stopTimer stops a timer and drains its channel if it already fired.
func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

// timerPool recycles timers for the blocking enqueue path, keeping it
// allocation-free under concurrent producers.
var timerPool = sync.Pool{
	New: func() any { return NewStoppedTimer() },
}
