package filehandler

import (
	"time"

	"github.com/rotolog/rotolog/core"
	"github.com/rotolog/rotolog/handler"
	"github.com/rotolog/rotolog/sink"
)

var (
	_ handler.Handler       = (*SyncFileHandler)(nil)
	_ handler.FastHandler   = (*SyncFileHandler)(nil)
	_ handler.Flusher       = (*SyncFileHandler)(nil)
	_ handler.EntryRecycler = (*SyncFileHandler)(nil)
	_ handler.StatsProvider = (*SyncFileHandler)(nil)
)

// SyncFileHandler writes each entry on the calling goroutine. It
// avoids async queue overhead and eliminates branches that would be
// needed to support both modes.
type SyncFileHandler struct {
	fileBase
	syncEntry core.Entry
}

// newSyncFileHandler creates a new synchronous file handler.
func newSyncFileHandler(cfg FileConfig, s sink.Sink) *SyncFileHandler {
	h := &SyncFileHandler{}
	initFileBase(&h.fileBase, cfg, s)
	if h.bufferFormatter != nil {
		h.syncEntry.Fields = make([]core.Field, 0, 16)
	}
	return h
}

// HandleLog formats and writes log data without touching the entry
// pool. The handler-owned scratch entry is reused under the lock.
func (h *SyncFileHandler) HandleLog(t time.Time, level core.Level, msg string, loggerFields, callFields []core.Field, caller core.CallerInfo) error {
	if h.bufferFormatter != nil {
		h.mu.Lock()
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
		err := h.writeRecord(h.syncBuf.Bytes())
		h.mu.Unlock()
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
func (h *SyncFileHandler) Handle(entry *core.Entry) error {
	return h.write(entry)
}

// CanRecycleEntry returns true: entries are fully written before
// Handle returns.
func (h *SyncFileHandler) CanRecycleEntry() bool {
	return true
}

// Close flushes and closes the underlying sink.
func (h *SyncFileHandler) Close() error {
	return h.closeSink()
}
