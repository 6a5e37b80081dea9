package formatter

import (
	"bytes"
	"io"
	"sync"

	"github.com/rotolog/rotolog/core"
)

// Formatter renders a log entry into bytes.
type Formatter interface {
	// Format returns the serialized entry, terminated with a newline.
	Format(entry *core.Entry) ([]byte, error)
}

// WriterFormatter is an optional interface for writing the rendered
// entry straight to a writer, skipping the returned byte slice.
// Handlers detect it once at construction time.
type WriterFormatter interface {
	FormatTo(entry *core.Entry, w io.Writer) error
}

// BufferFormatter is an optional interface for rendering into a
// caller-owned buffer. It is the cheapest path: no pool round trip,
// no intermediate slice.
type BufferFormatter interface {
	FormatEntry(entry *core.Entry, buf *bytes.Buffer)
}

// Config holds the knobs shared by the built-in formatters.
type Config struct {
	// IncludeCaller renders the call site when the entry carries one.
	IncludeCaller bool
	// TimestampFormat is a time layout string (empty selects the
	// formatter's default).
	TimestampFormat string
}

// bufferPool backs the Format and FormatTo paths.
var bufferPool = &sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// putBuffer returns a buffer to the pool unless a giant log line
// inflated it past 64 KiB.
func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 {
		return
	}
	bufferPool.Put(buf)
}
