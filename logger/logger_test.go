package logger

import (
	"bytes"
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotolog/rotolog/core"
	"github.com/rotolog/rotolog/formatter"
	"github.com/rotolog/rotolog/handler/consolehandler"
)

func newBufferLogger(t *testing.T, level Level) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := consolehandler.NewConsoleHandler(consolehandler.ConsoleConfig{
		Writer:    &buf,
		Formatter: formatter.NewTextFormatter(formatter.Config{}),
	})
	log := NewBuilder().
		WithHandler(h).
		WithLevel(level).
		Build()
	return log, &buf
}

// captureCallerHandler copies the caller out of each entry at Handle
// time.
type captureCallerHandler struct {
	callers []core.CallerInfo
}

func (h *captureCallerHandler) Handle(entry *core.Entry) error {
	h.callers = append(h.callers, entry.Caller)
	return nil
}

func (h *captureCallerHandler) Close() error { return nil }

// flushCounter implements Handler plus Flush.
type flushCounter struct {
	captureCallerHandler
	flushes int
	err     error
}

func (h *flushCounter) Flush() error {
	h.flushes++
	return h.err
}

func TestLogger_LevelGate(t *testing.T) {
	log, buf := newBufferLogger(t, InfoLevel)

	log.Trace("trace message")
	log.Debug("debug message")
	assert.Zero(t, buf.Len(), "messages below the level must not reach the handler")

	log.Info("info message")
	assert.Contains(t, buf.String(), "info message")

	buf.Reset()
	log.Warn("warn message")
	assert.Contains(t, buf.String(), "warn message")

	buf.Reset()
	log.Error("error message")
	assert.Contains(t, buf.String(), "error message")
}

func TestLogger_TraceEnabled(t *testing.T) {
	log, buf := newBufferLogger(t, TraceLevel)

	log.Trace("very verbose", String("step", "parse"))

	out := buf.String()
	assert.Contains(t, out, "TRACE")
	assert.Contains(t, out, "very verbose")
	assert.Contains(t, out, "step=parse")
}

func TestLogger_Log(t *testing.T) {
	log, buf := newBufferLogger(t, InfoLevel)

	log.Log(DebugLevel, "filtered")
	assert.Zero(t, buf.Len())

	log.Log(ErrorLevel, "direct", String("k", "v"))
	assert.Contains(t, buf.String(), "direct")
	assert.Contains(t, buf.String(), "k=v")
}

func TestLogger_With(t *testing.T) {
	log, buf := newBufferLogger(t, InfoLevel)
	log = log.With(String("app", "test"))

	child := log.With(String("request_id", "123"))
	child.Info("handled")

	out := buf.String()
	assert.Contains(t, out, "app=test")
	assert.Contains(t, out, "request_id=123")
}

func TestLogger_ImmutableWith(t *testing.T) {
	var buf bytes.Buffer
	h := consolehandler.NewConsoleHandler(consolehandler.ConsoleConfig{
		Writer:    &buf,
		Formatter: formatter.NewTextFormatter(formatter.Config{}),
	})
	parent := NewBuilder().
		WithHandler(h).
		WithLevel(InfoLevel).
		WithFields(String("parent", "value")).
		Build()

	child := parent.With(String("child", "value"))

	parent.Info("parent message")
	out := buf.String()
	assert.Contains(t, out, "parent=value")
	assert.NotContains(t, out, "child=value")

	buf.Reset()
	child.Info("child message")
	out = buf.String()
	assert.Contains(t, out, "parent=value")
	assert.Contains(t, out, "child=value")
}

func TestLogger_Fields(t *testing.T) {
	log, buf := newBufferLogger(t, InfoLevel)

	log.Info("typed fields",
		String("str", "value"),
		Int("int", 42),
		Bool("bool", true),
		Float64("float", 3.14),
		Err(errors.New("boom")),
	)

	out := buf.String()
	assert.Contains(t, out, "str=value")
	assert.Contains(t, out, "int=42")
	assert.Contains(t, out, "bool=true")
	assert.Contains(t, out, "float=3.14")
	assert.Contains(t, out, "error=boom")
}

func TestLogger_FormattedLogging(t *testing.T) {
	log, buf := newBufferLogger(t, InfoLevel)

	log.Infof("user %s logged in with id %d", "alice", 123)

	assert.Contains(t, buf.String(), "user alice logged in with id 123")
}

func TestLogger_FormattedFiltered(t *testing.T) {
	log, buf := newBufferLogger(t, WarnLevel)

	log.Tracef("t %d", 1)
	log.Debugf("d %d", 2)
	log.Infof("i %d", 3)
	assert.Zero(t, buf.Len())

	log.Warnf("w %d", 4)
	assert.Contains(t, buf.String(), "w 4")
}

func TestLogger_NilHandler(t *testing.T) {
	log := NewBuilder().Build()

	assert.NotPanics(t, func() {
		log.Info("nowhere", String("k", "v"))
		log.Errorf("nowhere %d", 1)
	})
	assert.NoError(t, log.Flush())
	assert.NoError(t, log.Close())
}

func TestLogger_Enabled(t *testing.T) {
	log, _ := newBufferLogger(t, WarnLevel)

	assert.False(t, log.Enabled(TraceLevel))
	assert.False(t, log.Enabled(InfoLevel))
	assert.True(t, log.Enabled(WarnLevel))
	assert.True(t, log.Enabled(PanicLevel))
}

func TestLogger_Fatal(t *testing.T) {
	log, buf := newBufferLogger(t, DebugLevel)

	exitCode := -1
	origExit := osExit
	osExit = func(code int) { exitCode = code }
	defer func() { osExit = origExit }()

	log.Fatal("fatal error", String("key", "value"))

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, buf.String(), "fatal error")
	assert.Contains(t, buf.String(), "FATAL")
}

func TestLogger_Fatalf(t *testing.T) {
	log, buf := newBufferLogger(t, DebugLevel)

	exitCode := -1
	origExit := osExit
	osExit = func(code int) { exitCode = code }
	defer func() { osExit = origExit }()

	log.Fatalf("fatal %s", "formatted")

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, buf.String(), "fatal formatted")
}

func TestLogger_Panic(t *testing.T) {
	log, buf := newBufferLogger(t, DebugLevel)

	assert.PanicsWithValue(t, "panic message", func() {
		log.Panic("panic message")
	})
	assert.Contains(t, buf.String(), "panic message")
	assert.Contains(t, buf.String(), "PANIC")
}

func TestLogger_Panicf(t *testing.T) {
	log, buf := newBufferLogger(t, DebugLevel)

	assert.PanicsWithValue(t, "panic 7", func() {
		log.Panicf("panic %d", 7)
	})
	assert.Contains(t, buf.String(), "panic 7")
}

func TestLogger_CallerDefaultSkip(t *testing.T) {
	capture := &captureCallerHandler{}
	log := NewBuilder().
		WithHandler(capture).
		WithLevel(InfoLevel).
		WithCaller(true).
		Build()

	_, _, line, ok := runtime.Caller(0)
	require.True(t, ok)
	log.Info("where am I")

	require.Len(t, capture.callers, 1)
	caller := capture.callers[0]
	require.True(t, caller.Defined)
	assert.Equal(t, "logger_test.go", caller.ShortFile)
	assert.Equal(t, line+2, caller.Line)
	assert.Contains(t, caller.Function, "TestLogger_CallerDefaultSkip")
}

func logThrough(l *Logger, msg string) {
	l.Info(msg)
}

func TestLogger_WithCallerSkip(t *testing.T) {
	capture := &captureCallerHandler{}
	log := NewBuilder().
		WithHandler(capture).
		WithLevel(InfoLevel).
		WithCaller(true).
		WithCallerSkip(1).
		Build()

	_, _, line, ok := runtime.Caller(0)
	require.True(t, ok)
	logThrough(log, "wrapped")

	require.Len(t, capture.callers, 1)
	caller := capture.callers[0]
	require.True(t, caller.Defined)
	assert.Contains(t, caller.Function, "TestLogger_WithCallerSkip")
	assert.Equal(t, line+2, caller.Line)
}

func TestLogger_NoCallerByDefault(t *testing.T) {
	capture := &captureCallerHandler{}
	log := NewBuilder().
		WithHandler(capture).
		WithLevel(InfoLevel).
		Build()

	log.Info("anonymous")

	require.Len(t, capture.callers, 1)
	assert.False(t, capture.callers[0].Defined)
}

func TestLogger_Flush(t *testing.T) {
	fc := &flushCounter{}
	log := NewBuilder().WithHandler(fc).Build()

	require.NoError(t, log.Flush())
	require.NoError(t, log.Flush())
	assert.Equal(t, 2, fc.flushes)

	fc.err = errors.New("disk full")
	assert.ErrorIs(t, log.Flush(), fc.err)
}

func TestLogger_FlushWithoutFlusher(t *testing.T) {
	capture := &captureCallerHandler{}
	log := NewBuilder().WithHandler(capture).Build()

	assert.NoError(t, log.Flush())
}

func TestBuilder_FastHandlerCache(t *testing.T) {
	console := consolehandler.NewConsoleHandler(consolehandler.ConsoleConfig{
		Writer:    &bytes.Buffer{},
		Formatter: formatter.NewTextFormatter(formatter.Config{}),
	})

	fast := NewBuilder().WithHandler(console).Build()
	assert.NotNil(t, fast.fastHandler)
	assert.True(t, fast.recycleEntry)

	slow := NewBuilder().WithHandler(&captureCallerHandler{}).Build()
	assert.Nil(t, slow.fastHandler)
	assert.False(t, slow.recycleEntry)
}

func TestLogger_WithCoarseClock(t *testing.T) {
	var buf bytes.Buffer
	h := consolehandler.NewConsoleHandler(consolehandler.ConsoleConfig{
		Writer:    &buf,
		Formatter: formatter.NewTextFormatter(formatter.Config{}),
	})
	log := NewBuilder().
		WithHandler(h).
		WithLevel(InfoLevel).
		WithCoarseClock(true).
		Build()

	log.Info("coarse clock message")
	assert.Contains(t, buf.String(), "coarse clock message")

	buf.Reset()

	// Fields force the pooled-entry path, which stamps time the same
	// way.
	log.Info("with field", String("key", "value"))
	out := buf.String()
	assert.Contains(t, out, "with field")
	assert.Contains(t, out, "key=value")
}

func TestLogger_CoarseClockWith(t *testing.T) {
	var buf bytes.Buffer
	h := consolehandler.NewConsoleHandler(consolehandler.ConsoleConfig{
		Writer:    &buf,
		Formatter: formatter.NewTextFormatter(formatter.Config{}),
	})
	parent := NewBuilder().
		WithHandler(h).
		WithLevel(InfoLevel).
		WithCoarseClock(true).
		Build()

	child := parent.With(String("child", "value"))
	child.Info("child message")

	assert.Contains(t, buf.String(), "child message")
	assert.Contains(t, buf.String(), "child=value")
}

func TestDefault_SetDefault(t *testing.T) {
	var buf bytes.Buffer
	h := consolehandler.NewConsoleHandler(consolehandler.ConsoleConfig{
		Writer:    &buf,
		Formatter: formatter.NewTextFormatter(formatter.Config{}),
	})
	custom := NewBuilder().WithHandler(h).WithLevel(DebugLevel).Build()

	orig := Default()
	SetDefault(custom)
	defer SetDefault(orig)

	require.Same(t, custom, Default())

	Info("through the default", String("k", "v"))
	assert.Contains(t, buf.String(), "through the default")
	assert.Contains(t, buf.String(), "k=v")

	buf.Reset()
	Debugf("formatted %d", 9)
	assert.Contains(t, buf.String(), "formatted 9")

	buf.Reset()
	With(String("scoped", "yes")).Warn("scoped warning")
	assert.Contains(t, buf.String(), "scoped=yes")
	assert.Contains(t, buf.String(), "scoped warning")

	assert.NoError(t, Flush())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"TRACE", TraceLevel},
		{"trace", TraceLevel},
		{"DEBUG", DebugLevel},
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"WARN", WarnLevel},
		{"WARNING", WarnLevel},
		{"ERROR", ErrorLevel},
		{"FATAL", FatalLevel},
		{"PANIC", PanicLevel},
		{"garbage", InfoLevel},
		{"", InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "ParseLevel(%q)", tt.in)
	}
}
