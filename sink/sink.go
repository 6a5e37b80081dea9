package sink

import "io"

// Compile-time assertion: every Sink is an io.WriteCloser.
var _ io.WriteCloser = (Sink)(nil)

// Sink receives formatted log records and persists them to a file.
//
// Write appends one record. A sink may retire the active file and open
// a new one before appending; which records share a file is therefore
// decided per call, never mid-record. Flush pushes buffered bytes to
// the operating system. Close flushes, syncs and releases the file
// handle; a closed sink reports ErrNotOpen on subsequent writes.
//
// Sinks are not safe for concurrent use. At most one call may be in
// flight per instance; the caller picks the exclusion mechanism.
type Sink interface {
	// Write appends one formatted record to the active file,
	// rotating first when the strategy calls for it.
	Write(p []byte) (n int, err error)

	// Flush forwards buffered bytes to the operating system.
	Flush() error

	// Close flushes, syncs and closes the active file.
	Close() error
}
