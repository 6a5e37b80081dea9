package sloghandler

import (
	"context"
	"log/slog"
	"math"

	"github.com/rotolog/rotolog/core"
	"github.com/rotolog/rotolog/handler"
)

var _ slog.Handler = (*SlogHandler)(nil)

// SlogHandler adapts a handler.Handler to the slog.Handler interface,
// so rotolog can serve as the backend of a standard library slog.Logger.
type SlogHandler struct {
	target  handler.Handler
	level   core.Level
	attrs   []core.Field
	group   string
	recycle bool
}

// NewSlogHandler wraps h in a slog.Handler that drops records below
// the given level.
func NewSlogHandler(h handler.Handler, level core.Level) *SlogHandler {
	s := &SlogHandler{
		target: h,
		level:  level,
	}
	if rc, ok := h.(handler.EntryRecycler); ok {
		s.recycle = rc.CanRecycleEntry()
	}
	return s
}

// Enabled reports whether records at the given level are handled.
func (s *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return slogLevelToCore(level) >= s.level
}

// Handle converts the record to a core.Entry and passes it to the
// wrapped handler.
func (s *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	entry := core.GetEntry()
	if !record.Time.IsZero() {
		entry.Time = record.Time
	}
	entry.Level = slogLevelToCore(record.Level)
	entry.Message = record.Message

	if len(s.attrs) > 0 {
		entry.Fields = append(entry.Fields, s.attrs...)
	}
	record.Attrs(func(a slog.Attr) bool {
		entry.Fields = appendAttr(entry.Fields, s.group, a)
		return true
	})

	err := s.target.Handle(entry)
	if s.recycle {
		core.PutEntry(entry)
	}
	return err
}

// WithAttrs returns a handler whose entries carry the given attributes.
func (s *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return s
	}
	fields := make([]core.Field, len(s.attrs), len(s.attrs)+len(attrs))
	copy(fields, s.attrs)
	for _, a := range attrs {
		fields = appendAttr(fields, s.group, a)
	}
	return &SlogHandler{
		target:  s.target,
		level:   s.level,
		attrs:   fields,
		group:   s.group,
		recycle: s.recycle,
	}
}

// WithGroup returns a handler that qualifies subsequent attribute keys
// with the given group name. Nested groups join with dots.
func (s *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	fields := make([]core.Field, len(s.attrs))
	copy(fields, s.attrs)
	return &SlogHandler{
		target:  s.target,
		level:   s.level,
		attrs:   fields,
		group:   qualify(s.group, name),
		recycle: s.recycle,
	}
}

// slogLevelToCore maps a slog.Level onto the core levels. Levels below
// slog.LevelDebug map to Trace.
func slogLevelToCore(level slog.Level) core.Level {
	switch {
	case level >= slog.LevelError:
		return core.ErrorLevel
	case level >= slog.LevelWarn:
		return core.WarnLevel
	case level >= slog.LevelInfo:
		return core.InfoLevel
	case level >= slog.LevelDebug:
		return core.DebugLevel
	default:
		return core.TraceLevel
	}
}

// qualify joins a group prefix and a key. Either side may be empty, per
// the slog contract for inlined groups.
func qualify(group, key string) string {
	switch {
	case group == "":
		return key
	case key == "":
		return group
	default:
		return group + "." + key
	}
}

// appendAttr converts a slog.Attr to core fields and appends them.
// Group attrs are flattened, each member keyed under the group prefix.
func appendAttr(fields []core.Field, group string, a slog.Attr) []core.Field {
	if a.Equal(slog.Attr{}) {
		return fields
	}
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		if len(attrs) == 0 {
			return fields
		}
		prefix := qualify(group, a.Key)
		for _, ga := range attrs {
			fields = appendAttr(fields, prefix, ga)
		}
		return fields
	}

	key := qualify(group, a.Key)
	switch a.Value.Kind() {
	case slog.KindString:
		return append(fields, core.Field{Key: key, Type: core.StringType, Str: a.Value.String()})
	case slog.KindInt64:
		return append(fields, core.Field{Key: key, Type: core.Int64Type, Int64: a.Value.Int64()})
	case slog.KindUint64:
		u := a.Value.Uint64()
		if u > math.MaxInt64 {
			return append(fields, core.Field{Key: key, Type: core.AnyType, Any: u})
		}
		return append(fields, core.Field{Key: key, Type: core.Int64Type, Int64: int64(u)})
	case slog.KindFloat64:
		return append(fields, core.Field{Key: key, Type: core.Float64Type, Float64: a.Value.Float64()})
	case slog.KindBool:
		val := int64(0)
		if a.Value.Bool() {
			val = 1
		}
		return append(fields, core.Field{Key: key, Type: core.BoolType, Int64: val})
	case slog.KindTime:
		return append(fields, core.Field{Key: key, Type: core.TimeType, Int64: a.Value.Time().UnixNano()})
	case slog.KindDuration:
		return append(fields, core.Field{Key: key, Type: core.DurationType, Int64: int64(a.Value.Duration())})
	default:
		return append(fields, core.Field{Key: key, Type: core.AnyType, Any: a.Value.Any()})
	}
}
