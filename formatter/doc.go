// Package formatter serializes log entries into the byte records the
// sinks persist.
//
// Three interfaces cover three call shapes: Formatter returns a
// []byte, WriterFormatter writes straight to an io.Writer, and
// BufferFormatter renders into a caller-owned bytes.Buffer. Handlers
// type-assert for the richer interfaces once at construction and take
// the cheapest path available, so a formatter only pays for the
// capability it actually implements.
//
// Both built-in formatters (TextFormatter and JSONFormatter)
// implement all three. They render with Append-style calls
// (time.AppendFormat, strconv.AppendInt, Field.AppendValue) into
// pooled buffers; the TextFormatter additionally pre-renders the
// level brackets (" [INFO] " and friends) so the common case is a
// single WriteString.
//
// Buffers larger than 64 KiB are not returned to the pool, keeping
// one oversized log line from permanently inflating memory.
package formatter
