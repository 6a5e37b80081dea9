// Package consolehandler provides console output handlers that write
// formatted log entries to any io.Writer (default: os.Stdout).
//
// Handlers are split into specialized sync and async variants:
//
//   - SyncConsoleHandler eliminates async queue overhead for a leaner
//     hot path, using TryLock for zero-alloc parallel formatting.
//   - AsyncConsoleHandler queues entries for a dedicated writer
//     goroutine, applying a per-level OverflowPolicy when the queue
//     fills.
//
// The NewConsoleHandler factory chooses the variant from the Async
// field in ConsoleConfig.
package consolehandler
