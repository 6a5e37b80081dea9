// Package multihandler provides a fan-out handler that dispatches log
// entries to multiple child handlers. Child errors are collected with
// multierr rather than short-circuiting, so every child sees every
// entry. When all children implement handler.FastHandler, entry
// allocation is avoided entirely.
package multihandler
