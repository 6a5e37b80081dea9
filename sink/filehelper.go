package sink

import (
	"bufio"
	"os"
	"path/filepath"
)

// fileBufferSize is the bufio.Writer size in front of the file.
const fileBufferSize = 4096

// FileHelper is the filesystem capability sinks are built on. The
// default is OSFileHelper; tests substitute implementations that
// record calls or fail on demand.
//
// Open and Reopen close any previously opened file first. Exists,
// Remove and Rename act on paths independent of the open file.
type FileHelper interface {
	Open(path string, truncate bool) error
	Reopen(truncate bool) error
	Write(p []byte) (n int, err error)
	Flush() error
	Close() error
	Size() (int64, error)
	Exists(path string) bool
	Remove(path string) error
	Rename(src, dst string) error
}

var _ FileHelper = (*OSFileHelper)(nil)

// OSFileHelper is the FileHelper backed by the real filesystem.
// Writes go through a bufio.Writer; Flush empties it, Close
// additionally syncs before closing. The zero value is ready to use.
type OSFileHelper struct {
	path string
	file *os.File
	buf  *bufio.Writer
}

// NewOSFileHelper returns an empty OS-backed file helper.
func NewOSFileHelper() *OSFileHelper {
	return &OSFileHelper{}
}

// Open closes any open file, creates missing parent directories and
// opens path for appending, or truncated when truncate is set.
func (h *OSFileHelper) Open(path string, truncate bool) error {
	if err := h.Close(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	flag := os.O_CREATE | os.O_WRONLY
	if truncate {
		flag |= os.O_TRUNC
	} else {
		flag |= os.O_APPEND
	}
	file, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return err
	}
	h.path = path
	h.file = file
	if h.buf == nil {
		h.buf = bufio.NewWriterSize(file, fileBufferSize)
	} else {
		h.buf.Reset(file)
	}
	return nil
}

// Reopen opens the most recently opened path again. It fails with
// ErrNotOpen when no path was ever opened.
func (h *OSFileHelper) Reopen(truncate bool) error {
	if h.path == "" {
		return ErrNotOpen
	}
	return h.Open(h.path, truncate)
}

func (h *OSFileHelper) Write(p []byte) (int, error) {
	if h.file == nil {
		return 0, ErrNotOpen
	}
	return h.buf.Write(p)
}

func (h *OSFileHelper) Flush() error {
	if h.file == nil {
		return nil
	}
	return h.buf.Flush()
}

// Close flushes buffered bytes, syncs and closes the file. Closing an
// already closed helper is a no-op.
func (h *OSFileHelper) Close() error {
	if h.file == nil {
		return nil
	}
	file := h.file
	h.file = nil
	if err := h.buf.Flush(); err != nil {
		file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Size reports the on-disk size of the open file. Buffered bytes are
// flushed first so the answer is exact.
func (h *OSFileHelper) Size() (int64, error) {
	if h.file == nil {
		return 0, ErrNotOpen
	}
	if err := h.buf.Flush(); err != nil {
		return 0, err
	}
	info, err := h.file.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (h *OSFileHelper) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (h *OSFileHelper) Remove(path string) error {
	return os.Remove(path)
}

func (h *OSFileHelper) Rename(src, dst string) error {
	return os.Rename(src, dst)
}
