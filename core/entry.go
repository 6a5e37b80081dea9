package core

import (
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// Level is the severity of a log entry.
type Level int8

const (
	// TraceLevel for the most verbose diagnostics
	TraceLevel Level = iota
	// DebugLevel for detailed debugging information
	DebugLevel
	// InfoLevel for general informational messages (default)
	InfoLevel
	// WarnLevel for warning messages
	WarnLevel
	// ErrorLevel for error messages
	ErrorLevel
	// FatalLevel for fatal messages (causes os.Exit(1))
	FatalLevel
	// PanicLevel for panic messages (causes panic)
	PanicLevel
)

// String returns the upper-case name of the level.
func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	case PanicLevel:
		return "PANIC"
	default:
		return "UNKNOWN"
	}
}

// Entry is one log event on its way to the handlers.
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
	Fields  []Field
	Caller  CallerInfo
}

// CallerInfo locates the log call site. Defined reports whether the
// lookup succeeded; the zero value means no caller was captured.
type CallerInfo struct {
	File      string
	ShortFile string
	Line      int
	Function  string
	Defined   bool
}

// entryPool recycles Entry objects so the hot path stays allocation
// free. The Fields slice keeps its backing array across uses.
var entryPool = sync.Pool{
	New: func() interface{} {
		return &Entry{
			Fields: make([]Field, 0, 8),
		}
	},
}

// GetEntry returns a pooled Entry stamped with the current time.
func GetEntry() *Entry {
	e := entryPool.Get().(*Entry)
	e.Time = time.Now()
	e.Fields = e.Fields[:0]
	e.Caller = CallerInfo{}
	return e
}

// PutEntry hands an Entry back to the pool. The entry must not be
// used afterward.
func PutEntry(e *Entry) {
	if e == nil {
		return
	}
	e.Fields = e.Fields[:0]
	e.Message = ""
	e.Caller = CallerInfo{}
	entryPool.Put(e)
}

// CopyEntry returns a pooled copy of e with its own Fields slice.
// Handlers that keep entries past the Handle call copy them first, so
// the original stays free to recycle.
func CopyEntry(e *Entry) *Entry {
	c := entryPool.Get().(*Entry)
	c.Time = e.Time
	c.Level = e.Level
	c.Message = e.Message
	c.Caller = e.Caller
	c.Fields = append(c.Fields[:0], e.Fields...)
	return c
}

// GetCaller captures the call site skip frames above the caller.
func GetCaller(skip int) CallerInfo {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return CallerInfo{}
	}

	var funcName string
	if fn := runtime.FuncForPC(pc); fn != nil {
		funcName = fn.Name()
	}

	return CallerInfo{
		File:      file,
		ShortFile: filepath.Base(file),
		Line:      line,
		Function:  funcName,
		Defined:   true,
	}
}
