package consolehandler

import (
	"sync"
	"time"

	"github.com/rotolog/rotolog/core"
	"github.com/rotolog/rotolog/handler"
)

var (
	_ handler.Handler       = (*SyncConsoleHandler)(nil)
	_ handler.FastHandler   = (*SyncConsoleHandler)(nil)
	_ handler.EntryRecycler = (*SyncConsoleHandler)(nil)
	_ handler.StatsProvider = (*SyncConsoleHandler)(nil)
)

// SyncConsoleHandler writes each entry on the calling goroutine,
// optimized for the single-goroutine hot path while staying correct
// under parallel callers.
type SyncConsoleHandler struct {
	consoleBase
	syncEntry  core.Entry
	parBufPool sync.Pool
}

// newSyncConsoleHandler creates a new synchronous console handler.
func newSyncConsoleHandler(cfg ConsoleConfig) *SyncConsoleHandler {
	h := &SyncConsoleHandler{}
	initConsoleBase(&h.consoleBase, cfg)
	if h.bufferFormatter != nil {
		h.syncEntry.Fields = make([]core.Field, 0, 16)
		h.parBufPool = newParallelBufPool()
	}
	return h
}

// HandleLog formats and writes log data without touching the entry
// pool. When uncontended, the handler-owned scratch entry and buffer
// are used under TryLock; parallel callers fall back to a combined
// entry+buffer pool formatted outside the lock.
func (h *SyncConsoleHandler) HandleLog(t time.Time, level core.Level, msg string, loggerFields, callFields []core.Field, caller core.CallerInfo) error {
	if h.bufferFormatter != nil {
		if h.mu.TryLock() {
			h.syncEntry.Time = t
			h.syncEntry.Level = level
			h.syncEntry.Message = msg
			h.syncEntry.Caller = caller
			h.syncEntry.Fields = h.syncEntry.Fields[:0]
			if len(loggerFields) > 0 {
				h.syncEntry.Fields = append(h.syncEntry.Fields, loggerFields...)
			}
			if len(callFields) > 0 {
				h.syncEntry.Fields = append(h.syncEntry.Fields, callFields...)
			}

			h.syncBuf.Reset()
			h.bufferFormatter.FormatEntry(&h.syncEntry, &h.syncBuf)
			_, err := h.writer.Write(h.syncBuf.Bytes())
			h.mu.Unlock()
			if err == nil {
				h.stats.IncrementProcessed()
			}
			return err
		}

		pb := h.parBufPool.Get().(*parallelBuf)
		pb.entry.Time = t
		pb.entry.Level = level
		pb.entry.Message = msg
		pb.entry.Caller = caller
		pb.entry.Fields = pb.entry.Fields[:0]
		if len(loggerFields) > 0 {
			pb.entry.Fields = append(pb.entry.Fields, loggerFields...)
		}
		if len(callFields) > 0 {
			pb.entry.Fields = append(pb.entry.Fields, callFields...)
		}

		pb.buf.Reset()
		h.bufferFormatter.FormatEntry(&pb.entry, &pb.buf)
		var err error
		if h.concurrentSafe {
			_, err = h.writer.Write(pb.buf.Bytes())
		} else {
			h.mu.Lock()
			_, err = h.writer.Write(pb.buf.Bytes())
			h.mu.Unlock()
		}

		pb.entry.Fields = pb.entry.Fields[:0]
		if pb.entry.Caller.Defined {
			pb.entry.Caller = core.CallerInfo{}
		}
		h.parBufPool.Put(pb)

		if err == nil {
			h.stats.IncrementProcessed()
		}
		return err
	}

	// Fallback for formatters without the buffer interface: go
	// through a pooled entry.
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
	err := h.Handle(entry)
	core.PutEntry(entry)
	return err
}

// Handle writes a log entry synchronously.
func (h *SyncConsoleHandler) Handle(entry *core.Entry) error {
	return h.write(entry, &h.parBufPool)
}

// CanRecycleEntry returns true: entries are fully written before
// Handle returns.
func (h *SyncConsoleHandler) CanRecycleEntry() bool {
	return true
}

// Close is a no-op: the handler does not own its writer.
func (h *SyncConsoleHandler) Close() error {
	return nil
}
