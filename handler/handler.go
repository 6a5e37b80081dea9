package handler

import (
	"time"

	"github.com/rotolog/rotolog/core"
)

// Handler consumes log entries.
type Handler interface {
	// Handle processes one log entry.
	Handle(entry *core.Entry) error

	// Close releases the handler's resources. Async handlers drain
	// their queue first.
	Close() error
}

// FastHandler is an optional interface for processing log data
// without a pooled Entry. Loggers detect it once at construction and
// use it whenever the call site adds no extra fields.
type FastHandler interface {
	HandleLog(t time.Time, level core.Level, msg string, loggerFields, callFields []core.Field, caller core.CallerInfo) error
}

// Flusher is an optional interface for handlers whose output is
// buffered. Logger.Flush forwards to every handler that implements
// it.
type Flusher interface {
	Flush() error
}

// EntryRecycler is an optional interface telling the caller whether
// an Entry may go back to the pool as soon as Handle returns. A
// handler that retains the entry past Handle must answer false.
type EntryRecycler interface {
	CanRecycleEntry() bool
}

// StatsProvider is an optional interface exposing a handler's
// counters.
type StatsProvider interface {
	Stats() Snapshot
}
