package core

import (
	"sync"
	"sync/atomic"
	"time"
	"unsafe"
)

var (
	coarseClockOnce sync.Once
	coarseNow       unsafe.Pointer // *time.Time
)

// StartCoarseClock starts the background goroutine that caches
// time.Now() every 500µs, trading sub-millisecond timestamp accuracy
// for a cheaper read on the log hot path. Safe to call any number of
// times; the goroutine starts exactly once and runs for the life of
// the process, which matches how long logging is needed.
func StartCoarseClock() {
	coarseClockOnce.Do(func() {
		t := time.Now()
		atomic.StorePointer(&coarseNow, unsafe.Pointer(&t))
		go coarseClockLoop()
	})
}

// coarseClockLoop refreshes the cached time until the process exits.
func coarseClockLoop() {
	ticker := time.NewTicker(500 * time.Microsecond)
	for range ticker.C {
		t := time.Now()
		atomic.StorePointer(&coarseNow, unsafe.Pointer(&t))
	}
}

// CoarseNow returns the most recently cached time. StartCoarseClock
// must have been called first.
func CoarseNow() time.Time {
	return *(*time.Time)(atomic.LoadPointer(&coarseNow))
}
