package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/rotolog/rotolog/core"
	"github.com/rotolog/rotolog/handler"
)

// osExit is a variable so tests can intercept Fatal.
var osExit = os.Exit

// defaultCallerSkip is the number of frames between core.GetCaller and
// the user's call site when logging through Info, Debug, Log, etc.
const defaultCallerSkip = 3

// Logger is the main logging interface. A Logger is immutable: all
// configuration is fixed at Build time, which makes every method safe
// for concurrent use without locking.
type Logger struct {
	handler       handler.Handler
	fastHandler   handler.FastHandler
	level         core.Level
	fields        []core.Field
	includeCaller bool
	callerSkip    int
	recycleEntry  bool
	now           func() time.Time
}

// Builder provides a fluent API for building Logger instances.
type Builder struct {
	handler       handler.Handler
	fastHandler   handler.FastHandler
	level         core.Level
	fields        []core.Field
	includeCaller bool
	callerSkip    int
	recycleEntry  bool
	coarseClock   bool
}

// NewBuilder creates a logger builder with InfoLevel defaults.
func NewBuilder() *Builder {
	return &Builder{
		level:      core.InfoLevel,
		callerSkip: defaultCallerSkip,
	}
}

// WithHandler sets the handler.
func (b *Builder) WithHandler(h handler.Handler) *Builder {
	b.handler = h
	// Pre-compute the recycling decision and the FastHandler cache so
	// the hot path never does an interface assertion.
	if rc, ok := h.(handler.EntryRecycler); ok {
		b.recycleEntry = rc.CanRecycleEntry()
	} else {
		b.recycleEntry = false
	}
	b.fastHandler, _ = h.(handler.FastHandler)
	return b
}

// WithLevel sets the log level.
func (b *Builder) WithLevel(level core.Level) *Builder {
	b.level = level
	return b
}

// WithFields adds default fields to all log entries.
func (b *Builder) WithFields(fields ...core.Field) *Builder {
	b.fields = append(b.fields, fields...)
	return b
}

// WithCaller enables call site capture on every entry.
func (b *Builder) WithCaller(enabled bool) *Builder {
	b.includeCaller = enabled
	return b
}

// WithCallerSkip adds extra stack frames to skip when resolving the
// call site. Use this when wrapping the Logger in another layer.
func (b *Builder) WithCallerSkip(extra int) *Builder {
	b.callerSkip = defaultCallerSkip + extra
	return b
}

// WithCoarseClock trades sub-millisecond timestamp accuracy for a
// cheaper time source on the hot path. The shared background clock is
// started on Build.
func (b *Builder) WithCoarseClock(enabled bool) *Builder {
	b.coarseClock = enabled
	return b
}

// Build creates the Logger instance.
func (b *Builder) Build() *Logger {
	now := time.Now
	if b.coarseClock {
		core.StartCoarseClock()
		now = core.CoarseNow
	}
	return &Logger{
		handler:       b.handler,
		fastHandler:   b.fastHandler,
		level:         b.level,
		fields:        b.fields,
		includeCaller: b.includeCaller,
		callerSkip:    b.callerSkip,
		recycleEntry:  b.recycleEntry,
		now:           now,
	}
}

// With creates a new Logger carrying additional default fields. The
// receiver is not modified.
func (l *Logger) With(fields ...core.Field) *Logger {
	newFields := make([]core.Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	return &Logger{
		handler:       l.handler,
		fastHandler:   l.fastHandler,
		level:         l.level,
		fields:        newFields,
		includeCaller: l.includeCaller,
		callerSkip:    l.callerSkip,
		recycleEntry:  l.recycleEntry,
		now:           l.now,
	}
}

// Log logs a message at the specified level.
func (l *Logger) Log(level core.Level, msg string, fields ...core.Field) {
	// Level gate before any allocation.
	if level < l.level {
		return
	}

	l.log(level, msg, fields)
}

// log is the internal logging method. fields is the call-site slice,
// already materialized by the exported wrapper.
func (l *Logger) log(level core.Level, msg string, fields []core.Field) {
	if l.handler == nil {
		return
	}

	// Fast path: hand the raw pieces to a FastHandler when there are
	// no call-site fields. Passing variadic fields through the
	// interface would force them to escape, so the fast path only
	// covers the no-fields case.
	if l.fastHandler != nil && len(fields) == 0 {
		t := l.now()
		var caller core.CallerInfo
		if l.includeCaller {
			caller = core.GetCaller(l.callerSkip)
		}
		_ = l.fastHandler.HandleLog(t, level, msg, l.fields, nil, caller)
		return
	}

	entry := core.GetEntry()
	entry.Time = l.now()
	entry.Level = level
	entry.Message = msg

	if len(l.fields) > 0 {
		entry.Fields = append(entry.Fields, l.fields...)
	}
	if len(fields) > 0 {
		entry.Fields = append(entry.Fields, fields...)
	}

	if l.includeCaller {
		entry.Caller = core.GetCaller(l.callerSkip)
	}

	// Handler errors are tracked by the handler's own stats; the entry
	// goes back to the pool either way.
	_ = l.handler.Handle(entry)
	if l.recycleEntry {
		core.PutEntry(entry)
	}
}

// Trace logs a trace message.
func (l *Logger) Trace(msg string, fields ...core.Field) {
	if core.TraceLevel < l.level {
		return
	}
	l.log(core.TraceLevel, msg, fields)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...core.Field) {
	if core.DebugLevel < l.level {
		return
	}
	l.log(core.DebugLevel, msg, fields)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...core.Field) {
	if core.InfoLevel < l.level {
		return
	}
	l.log(core.InfoLevel, msg, fields)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...core.Field) {
	if core.WarnLevel < l.level {
		return
	}
	l.log(core.WarnLevel, msg, fields)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...core.Field) {
	if core.ErrorLevel < l.level {
		return
	}
	l.log(core.ErrorLevel, msg, fields)
}

// Fatal logs a fatal message and exits the program with os.Exit(1).
func (l *Logger) Fatal(msg string, fields ...core.Field) {
	l.log(core.FatalLevel, msg, fields)
	osExit(1)
}

// Panic logs a panic message and panics.
func (l *Logger) Panic(msg string, fields ...core.Field) {
	l.log(core.PanicLevel, msg, fields)
	panic(msg)
}

// Tracef logs a trace message with formatting.
func (l *Logger) Tracef(format string, args ...interface{}) {
	if core.TraceLevel < l.level {
		return
	}
	l.log(core.TraceLevel, fmt.Sprintf(format, args...), nil)
}

// Debugf logs a debug message with formatting.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if core.DebugLevel < l.level {
		return
	}
	l.log(core.DebugLevel, fmt.Sprintf(format, args...), nil)
}

// Infof logs an info message with formatting.
func (l *Logger) Infof(format string, args ...interface{}) {
	if core.InfoLevel < l.level {
		return
	}
	l.log(core.InfoLevel, fmt.Sprintf(format, args...), nil)
}

// Warnf logs a warning message with formatting.
func (l *Logger) Warnf(format string, args ...interface{}) {
	if core.WarnLevel < l.level {
		return
	}
	l.log(core.WarnLevel, fmt.Sprintf(format, args...), nil)
}

// Errorf logs an error message with formatting.
func (l *Logger) Errorf(format string, args ...interface{}) {
	if core.ErrorLevel < l.level {
		return
	}
	l.log(core.ErrorLevel, fmt.Sprintf(format, args...), nil)
}

// Fatalf logs a fatal message with formatting and exits the program
// with os.Exit(1).
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.log(core.FatalLevel, fmt.Sprintf(format, args...), nil)
	osExit(1)
}

// Panicf logs a panic message with formatting and panics.
func (l *Logger) Panicf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	l.log(core.PanicLevel, msg, nil)
	panic(msg)
}

// Enabled reports whether messages at the given level would be logged.
func (l *Logger) Enabled(level core.Level) bool {
	return level >= l.level
}

// Flush flushes the logger's handler if it supports flushing. Async
// handlers drain their queue on Close, not on Flush.
func (l *Logger) Flush() error {
	if f, ok := l.handler.(handler.Flusher); ok {
		return f.Flush()
	}
	return nil
}

// Close closes the logger's handler.
func (l *Logger) Close() error {
	if l.handler != nil {
		return l.handler.Close()
	}
	return nil
}
