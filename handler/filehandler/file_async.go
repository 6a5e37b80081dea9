package filehandler

import (
	"time"

	"github.com/rotolog/rotolog/core"
	"github.com/rotolog/rotolog/handler"
	"github.com/rotolog/rotolog/sink"
)

var (
	_ handler.Handler       = (*AsyncFileHandler)(nil)
	_ handler.FastHandler   = (*AsyncFileHandler)(nil)
	_ handler.Flusher       = (*AsyncFileHandler)(nil)
	_ handler.EntryRecycler = (*AsyncFileHandler)(nil)
	_ handler.StatsProvider = (*AsyncFileHandler)(nil)
)

// AsyncFileHandler decouples callers from file I/O with a bounded
// queue and a dedicated writer goroutine. Entries handed to Handle
// are copied before queueing, so the caller keeps ownership of its
// entry.
type AsyncFileHandler struct {
	fileBase
	q *handler.Queue
}

// newAsyncFileHandler creates a new asynchronous file handler.
func newAsyncFileHandler(cfg FileConfig, s sink.Sink) *AsyncFileHandler {
	h := &AsyncFileHandler{}
	initFileBase(&h.fileBase, cfg, s)
	h.q = handler.NewQueue(handler.QueueConfig{
		Capacity:     cfg.BufferSize,
		Policies:     cfg.OverflowPolicy,
		BlockTimeout: cfg.BlockTimeout,
		DrainTimeout: cfg.DrainTimeout,
		Stats:        h.stats,
	}, h.write)
	return h
}

// HandleLog builds a pooled entry from the raw log data and queues
// it.
func (h *AsyncFileHandler) HandleLog(t time.Time, level core.Level, msg string, loggerFields, callFields []core.Field, caller core.CallerInfo) error {
	entry := core.GetEntry()
	entry.Time = t
	entry.Level = level
	entry.Message = msg
	entry.Caller = caller
	if len(loggerFields) > 0 {
		entry.Fields = append(entry.Fields, loggerFields...)
	}
	if len(callFields) > 0 {
		entry.Fields = append(entry.Fields, callFields...)
	}
	return h.q.Push(entry)
}

// Handle queues a copy of the entry according to its level's overflow
// policy. The queue owns the copy; the caller's entry is untouched.
func (h *AsyncFileHandler) Handle(entry *core.Entry) error {
	return h.q.Push(core.CopyEntry(entry))
}

// CanRecycleEntry returns true: Handle copies the entry before
// queueing, so the caller may recycle its own immediately.
func (h *AsyncFileHandler) CanRecycleEntry() bool {
	return true
}

// Close drains the queue, bounded by the drain timeout, then closes
// the sink.
func (h *AsyncFileHandler) Close() error {
	if err := h.q.Close(); err != nil {
		return err
	}
	return h.closeSink()
}
