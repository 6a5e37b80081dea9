package sink

// defaultRotatingExt is applied when the configured path has no
// extension.
const defaultRotatingExt = "log"

var _ Sink = (*RotatingFileSink)(nil)

// RotatingFileSink appends to base.ext until the cumulative bytes
// written exceed the threshold, then cascades the backup chain
// base.1.ext .. base.N.ext and starts over with a truncated active
// file. The record whose write crossed the threshold lands in the new
// file, so no file ever exceeds the threshold by more than one record.
//
// The byte counter tracks records written since the last open or
// rotation. It starts from the real file size, probed once at
// construction; external truncation afterward is not observed.
type RotatingFileSink struct {
	parts        FilenameParts
	maxFileBytes int64
	maxBackups   int
	currentBytes int64
	forceFlush   bool
	fh           FileHelper
}

// RotatingConfig configures a RotatingFileSink.
type RotatingConfig struct {
	// Path is the active file. Backups derive from it by inserting the
	// index before the extension; a path without extension gets ".log".
	Path string
	// MaxFileBytes is the size threshold that triggers rotation.
	MaxFileBytes int64
	// MaxBackups is how many rotated files to keep. Zero keeps none:
	// the active file is truncated in place when the threshold trips.
	MaxBackups int
	// ForceFlush flushes after every write.
	ForceFlush bool
	// FileHelper overrides the OS-backed file capability. Used in tests.
	FileHelper FileHelper
}

// NewRotatingFileSink opens the active file in append mode and probes
// its size once so the byte counter continues where a previous run
// left off. The probe is the only stat the sink ever performs.
func NewRotatingFileSink(cfg RotatingConfig) (*RotatingFileSink, error) {
	if cfg.Path == "" {
		return nil, ErrEmptyPath
	}
	if cfg.MaxFileBytes <= 0 {
		return nil, ErrInvalidMaxFileBytes
	}
	if cfg.MaxBackups < 0 {
		return nil, ErrInvalidMaxBackups
	}
	fh := cfg.FileHelper
	if fh == nil {
		fh = NewOSFileHelper()
	}
	s := &RotatingFileSink{
		parts:        SplitPath(cfg.Path, defaultRotatingExt),
		maxFileBytes: cfg.MaxFileBytes,
		maxBackups:   cfg.MaxBackups,
		forceFlush:   cfg.ForceFlush,
		fh:           fh,
	}
	if err := fh.Open(s.parts.Indexed(0), false); err != nil {
		return nil, err
	}
	size, err := fh.Size()
	if err != nil {
		fh.Close()
		return nil, err
	}
	s.currentBytes = size
	return s, nil
}

// Write appends one record, rotating first when the record would push
// the current file past the threshold. A failed rotation aborts the
// write; the counter stays past the threshold, so the next write
// attempts the rotation again.
func (s *RotatingFileSink) Write(p []byte) (int, error) {
	s.currentBytes += int64(len(p))
	if s.currentBytes > s.maxFileBytes {
		if err := s.rotate(); err != nil {
			return 0, err
		}
		s.currentBytes = int64(len(p))
	}
	n, err := s.fh.Write(p)
	if err != nil {
		return n, err
	}
	if s.forceFlush {
		return n, s.fh.Flush()
	}
	return n, nil
}

// Rotate cascades the backup chain immediately, regardless of the
// threshold, and resets the byte counter.
func (s *RotatingFileSink) Rotate() error {
	if err := s.rotate(); err != nil {
		return err
	}
	s.currentBytes = 0
	return nil
}

// rotate closes the active file, shifts every surviving backup up one
// index from the oldest down, and reopens the active file truncated.
// The descending order guarantees no file is overwritten before it has
// been relocated. A remove or rename failure stops the pass at that
// step; files beyond it are not touched.
func (s *RotatingFileSink) rotate() error {
	if err := s.fh.Close(); err != nil {
		return err
	}
	for i := s.maxBackups; i > 0; i-- {
		src := s.parts.Indexed(i - 1)
		target := s.parts.Indexed(i)
		if s.fh.Exists(target) {
			if err := s.fh.Remove(target); err != nil {
				return &RotationError{Op: "remove", Path: target, Err: err}
			}
		}
		if s.fh.Exists(src) {
			if err := s.fh.Rename(src, target); err != nil {
				return &RotationError{Op: "rename", Path: src, Err: err}
			}
		}
	}
	return s.fh.Reopen(true)
}

// SetForceFlush toggles flushing after every write. Like all sink
// calls it must be serialized by the caller.
func (s *RotatingFileSink) SetForceFlush(force bool) {
	s.forceFlush = force
}

func (s *RotatingFileSink) Flush() error {
	return s.fh.Flush()
}

func (s *RotatingFileSink) Close() error {
	return s.fh.Close()
}

// Path returns the active filename, index 0 of the backup chain.
func (s *RotatingFileSink) Path() string {
	return s.parts.Indexed(0)
}
