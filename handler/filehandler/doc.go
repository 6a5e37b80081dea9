// Package filehandler provides file output handlers that write
// formatted entries through a sink.Sink, picking up size-based or
// daily file rotation from the sink layer.
//
// Handlers are split into specialized sync and async variants:
//
//   - SyncFileHandler writes on the calling goroutine, with a
//     zero-allocation path for formatters that render into a caller
//     buffer.
//   - AsyncFileHandler queues entries for a dedicated writer
//     goroutine, applying a per-level OverflowPolicy when the queue
//     fills.
//
// The NewFileHandler factory chooses the variant from the Async field
// and the sink from the rotation fields in FileConfig.
package filehandler
