package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{TraceLevel, "TRACE"},
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{FatalLevel, "FATAL"},
		{PanicLevel, "PANIC"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.level.String())
		})
	}
}

func TestEntryPool(t *testing.T) {
	e1 := GetEntry()
	require.NotNil(t, e1)
	assert.Empty(t, e1.Fields)
	assert.False(t, e1.Time.IsZero())

	e1.Message = "test"
	e1.Fields = append(e1.Fields, Field{Key: "test", Str: "value"})
	e1.Caller = CallerInfo{File: "x.go", Defined: true}
	PutEntry(e1)

	// The next entry from the pool must come back clean.
	e2 := GetEntry()
	require.NotNil(t, e2)
	assert.Empty(t, e2.Message)
	assert.Empty(t, e2.Fields)
	assert.False(t, e2.Caller.Defined)
}

func TestPutEntry_Nil(t *testing.T) {
	assert.NotPanics(t, func() { PutEntry(nil) })
}

func TestCopyEntry(t *testing.T) {
	orig := GetEntry()
	orig.Level = WarnLevel
	orig.Message = "disk almost full"
	orig.Caller = CallerInfo{ShortFile: "disk.go", Line: 7, Defined: true}
	orig.Fields = append(orig.Fields, Field{Key: "used", Type: IntType, Int64: 97})

	c := CopyEntry(orig)
	require.NotSame(t, orig, c)
	assert.Equal(t, orig.Time, c.Time)
	assert.Equal(t, orig.Level, c.Level)
	assert.Equal(t, orig.Message, c.Message)
	assert.Equal(t, orig.Caller, c.Caller)
	require.Len(t, c.Fields, 1)
	assert.Equal(t, "used", c.Fields[0].Key)

	// Mutating the original must not reach the copy.
	orig.Fields[0].Int64 = 1
	assert.EqualValues(t, 97, c.Fields[0].Int64)

	PutEntry(orig)
	assert.Equal(t, "disk almost full", c.Message)
	PutEntry(c)
}

func TestGetCaller(t *testing.T) {
	// Skip 1: the frame above GetCaller itself is this test.
	caller := GetCaller(1)
	require.True(t, caller.Defined)

	assert.NotEmpty(t, caller.File)
	assert.Equal(t, "entry_test.go", caller.ShortFile)
	assert.NotZero(t, caller.Line)
	assert.Contains(t, caller.Function, "TestGetCaller")
}

func TestGetCaller_TooDeep(t *testing.T) {
	caller := GetCaller(1000)
	assert.False(t, caller.Defined)
}

func BenchmarkGetEntry(b *testing.B) {
	for i := 0; i < b.N; i++ {
		e := GetEntry()
		PutEntry(e)
	}
}

func BenchmarkGetEntryWithFields(b *testing.B) {
	for i := 0; i < b.N; i++ {
		e := GetEntry()
		e.Message = "test message"
		e.Level = InfoLevel
		e.Fields = append(e.Fields, Field{Key: "key1", Str: "value1"})
		e.Fields = append(e.Fields, Field{Key: "key2", Int64: 42})
		PutEntry(e)
	}
}
