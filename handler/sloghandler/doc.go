// Package sloghandler adapts a handler.Handler to the log/slog.Handler
// interface, allowing rotolog to serve as a drop-in backend for the
// standard library's structured logging.
package sloghandler
