package sink

import (
	"errors"
	"fmt"
)

// Configuration validation errors. Construction fails with one of
// these before any file is opened.
var (
	// ErrEmptyPath the configured path is empty.
	ErrEmptyPath = errors.New("sink: path is required")

	// ErrInvalidMaxFileBytes the rotation threshold is zero or negative.
	ErrInvalidMaxFileBytes = errors.New("sink: MaxFileBytes must be positive")

	// ErrInvalidMaxBackups the backup count is negative.
	ErrInvalidMaxBackups = errors.New("sink: MaxBackups must not be negative")

	// ErrInvalidRotationTime the rotation hour is outside [0,23] or the
	// minute outside [0,59].
	ErrInvalidRotationTime = errors.New("sink: invalid rotation time")
)

// ErrNotOpen an operation needed an open file but none was opened, or
// the sink was already closed.
var ErrNotOpen = errors.New("sink: no file has been opened")

// RotationError reports a failed step of a size-triggered rotation
// pass. The pass stops at the failing step; files beyond it are left
// untouched.
type RotationError struct {
	// Op is the step that failed, "remove" or "rename".
	Op string
	// Path is the file the step was acting on.
	Path string
	// Err is the underlying OS error.
	Err error
}

func (e *RotationError) Error() string {
	return fmt.Sprintf("sink: rotation %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *RotationError) Unwrap() error { return e.Err }
