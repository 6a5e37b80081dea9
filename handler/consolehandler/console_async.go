package consolehandler

import (
	"sync"
	"time"

	"github.com/rotolog/rotolog/core"
	"github.com/rotolog/rotolog/handler"
)

var (
	_ handler.Handler       = (*AsyncConsoleHandler)(nil)
	_ handler.FastHandler   = (*AsyncConsoleHandler)(nil)
	_ handler.EntryRecycler = (*AsyncConsoleHandler)(nil)
	_ handler.StatsProvider = (*AsyncConsoleHandler)(nil)
)

// AsyncConsoleHandler decouples callers from console I/O with a
// bounded queue and a dedicated writer goroutine. Entries handed to
// Handle are copied before queueing, so the caller keeps ownership of
// its entry.
type AsyncConsoleHandler struct {
	consoleBase
	q          *handler.Queue
	parBufPool sync.Pool
}

// newAsyncConsoleHandler creates a new asynchronous console handler.
func newAsyncConsoleHandler(cfg ConsoleConfig) *AsyncConsoleHandler {
	h := &AsyncConsoleHandler{}
	initConsoleBase(&h.consoleBase, cfg)
	if h.bufferFormatter != nil {
		h.parBufPool = newParallelBufPool()
	}
	h.q = handler.NewQueue(handler.QueueConfig{
		Capacity:     cfg.BufferSize,
		Policies:     cfg.OverflowPolicy,
		BlockTimeout: cfg.BlockTimeout,
		DrainTimeout: cfg.DrainTimeout,
		Stats:        h.stats,
	}, func(entry *core.Entry) error {
		return h.processWrite(entry, &h.parBufPool)
	})
	return h
}

// HandleLog builds a pooled entry from the raw log data and queues
// it.
func (h *AsyncConsoleHandler) HandleLog(t time.Time, level core.Level, msg string, loggerFields, callFields []core.Field, caller core.CallerInfo) error {
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
func (h *AsyncConsoleHandler) Handle(entry *core.Entry) error {
	return h.q.Push(core.CopyEntry(entry))
}

// CanRecycleEntry returns true: Handle copies the entry before
// queueing, so the caller may recycle its own immediately.
func (h *AsyncConsoleHandler) CanRecycleEntry() bool {
	return true
}

// Close drains the queue, bounded by the drain timeout. The writer is
// left open: the handler does not own it.
func (h *AsyncConsoleHandler) Close() error {
	return h.q.Close()
}
