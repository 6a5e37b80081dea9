// Package handler defines the Handler interface plus the shared
// machinery its implementations build on: per-level overflow
// policies, atomic counters, and the async entry queue.
//
// Asynchronous handlers push entries onto a bounded Queue drained by
// a background goroutine, which keeps the caller's hot path fast even
// under slow I/O. When the queue is full, each entry is treated
// according to its level's OverflowPolicy: DropNewest (the default
// for Warn and below), DropOldest, or Block with a configurable
// timeout (the default for Error and above). Low-priority records
// never stall the application while critical ones are never silently
// dropped.
//
// The implementations live in subpackages:
//
//   - filehandler writes formatted entries through a sink.Sink, so
//     file output gets size-based or daily rotation for free.
//   - consolehandler writes to any io.Writer (stdout by default).
//   - multihandler fans a single entry out to several children.
//   - sloghandler adapts a Handler to log/slog, letting rotolog serve
//     as a backend for the standard library's structured logger.
//
// Handlers track dropped, blocked, processed, and failed-write counts
// via Stats, queryable at runtime through the StatsProvider
// interface.
package handler
