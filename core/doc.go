// Package core defines the types shared across rotolog: the Level
// severity scale, the Entry that represents a single log event, and
// the Field type for zero-allocation structured key-value pairs.
//
// Entry objects are pooled via sync.Pool. Callers obtain one with
// GetEntry and hand it back with PutEntry once the handler has
// consumed it; the pool pre-allocates the Fields slice with capacity
// 8, enough for most call sites without a slice growth.
//
// Field packs values into fixed-size numeric slots (Int64, Float64)
// wherever possible so that ints, bools, times and durations never
// escape to the heap. AppendValue renders a value into a caller
// provided buffer; only the Any fallback allocates.
//
// The coarse clock caches time.Now in a background goroutine for
// callers that log hot enough for the syscall to matter. It is off by
// default and opted into per logger.
package core
