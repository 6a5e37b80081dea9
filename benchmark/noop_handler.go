package benchmark

import (
	"time"

	"github.com/rotolog/rotolog/core"
	"github.com/rotolog/rotolog/handler"
)

// noopHandler accepts log data without formatting or I/O, isolating
// the dispatch pipeline in benchmarks.
type noopHandler struct{}

func newNoopHandler() handler.Handler {
	return &noopHandler{}
}

func (h *noopHandler) Handle(e *core.Entry) error {
	_ = len(e.Message)
	return nil
}

func (h *noopHandler) HandleLog(t time.Time, level core.Level, msg string, loggerFields, callFields []core.Field, caller core.CallerInfo) error {
	_ = len(msg)
	return nil
}

// CanRecycleEntry returns true: nothing is retained past Handle.
func (h *noopHandler) CanRecycleEntry() bool {
	return true
}

func (h *noopHandler) Close() error {
	return nil
}
