// Package sink implements append-only file sinks with three rotation
// strategies: size-triggered rotation through a numbered backup chain,
// time-triggered rotation onto dated filenames, and a passthrough sink
// that never rotates.
//
// Sinks receive already-formatted records as byte slices and never
// inspect them beyond their length. They perform no locking: the
// caller is responsible for serializing all calls on a sink instance,
// either with a mutex or by confining the sink to a single goroutine.
// The handler/filehandler package provides both arrangements.
//
// All filesystem access goes through the FileHelper capability. The
// OS-backed implementation buffers writes through a bufio.Writer;
// tests inject failing implementations to drive the rotation error
// paths without touching a real filesystem.
package sink
