package multihandler

import (
	"time"

	"go.uber.org/multierr"

	"github.com/rotolog/rotolog/core"
	"github.com/rotolog/rotolog/handler"
)

var (
	_ handler.Handler       = (*MultiHandler)(nil)
	_ handler.FastHandler   = (*MultiHandler)(nil)
	_ handler.Flusher       = (*MultiHandler)(nil)
	_ handler.EntryRecycler = (*MultiHandler)(nil)
)

// MultiHandler dispatches every log entry to all child handlers.
type MultiHandler struct {
	handlers     []handler.Handler
	fastHandlers []handler.FastHandler // nil slot when the child doesn't implement FastHandler
	allFast      bool                  // true when every child implements FastHandler
	recycleEntry bool                  // true when every child supports entry recycling
}

// NewMultiHandler creates a handler that fans out to the given children.
// Errors from children are collected, not short-circuited: every child
// sees every entry even when an earlier sibling fails.
func NewMultiHandler(handlers ...handler.Handler) *MultiHandler {
	m := &MultiHandler{
		handlers:     handlers,
		fastHandlers: make([]handler.FastHandler, len(handlers)),
		allFast:      true,
		recycleEntry: true,
	}
	for i, h := range handlers {
		if fh, ok := h.(handler.FastHandler); ok {
			m.fastHandlers[i] = fh
		} else {
			m.allFast = false
		}
		if rc, ok := h.(handler.EntryRecycler); ok {
			if !rc.CanRecycleEntry() {
				m.recycleEntry = false
			}
		} else {
			m.recycleEntry = false
		}
	}
	return m
}

// HandleLog processes log data directly without requiring a pooled Entry.
// When all children implement FastHandler, entry allocation is avoided
// entirely.
func (m *MultiHandler) HandleLog(t time.Time, level core.Level, msg string, loggerFields, callFields []core.Field, caller core.CallerInfo) error {
	if m.allFast {
		var err error
		for _, fh := range m.fastHandlers {
			err = multierr.Append(err, fh.HandleLog(t, level, msg, loggerFields, callFields, caller))
		}
		return err
	}

	// Mixed path: build a pooled entry for the children that need one.
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
	var err error
	for i, h := range m.handlers {
		if fh := m.fastHandlers[i]; fh != nil {
			err = multierr.Append(err, fh.HandleLog(t, level, msg, loggerFields, callFields, caller))
		} else {
			err = multierr.Append(err, h.Handle(entry))
		}
	}
	if m.recycleEntry {
		core.PutEntry(entry)
	}
	return err
}

// Handle sends the entry to every child handler.
func (m *MultiHandler) Handle(entry *core.Entry) error {
	var err error
	for _, h := range m.handlers {
		err = multierr.Append(err, h.Handle(entry))
	}
	return err
}

// CanRecycleEntry reports whether the caller may recycle an entry after
// Handle returns. True only when every child allows it.
func (m *MultiHandler) CanRecycleEntry() bool {
	return m.recycleEntry
}

// Flush flushes every child that supports flushing.
func (m *MultiHandler) Flush() error {
	var err error
	for _, h := range m.handlers {
		if f, ok := h.(handler.Flusher); ok {
			err = multierr.Append(err, f.Flush())
		}
	}
	return err
}

// Close closes all child handlers. Every child is closed even when an
// earlier one fails.
func (m *MultiHandler) Close() error {
	var err error
	for _, h := range m.handlers {
		err = multierr.Append(err, h.Close())
	}
	return err
}
