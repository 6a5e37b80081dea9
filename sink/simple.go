package sink

var _ Sink = (*SimpleFileSink)(nil)

// SimpleFileSink appends every record to one fixed file. No rotation,
// no name derivation; the configured path is opened verbatim.
type SimpleFileSink struct {
	path       string
	forceFlush bool
	fh         FileHelper
}

// SimpleConfig configures a SimpleFileSink.
type SimpleConfig struct {
	// Path is the file all records are appended to.
	Path string
	// Truncate discards existing content at open instead of appending.
	Truncate bool
	// ForceFlush flushes after every write.
	ForceFlush bool
	// FileHelper overrides the OS-backed file capability. Used in tests.
	FileHelper FileHelper
}

// NewSimpleFileSink opens cfg.Path and returns a passthrough sink.
func NewSimpleFileSink(cfg SimpleConfig) (*SimpleFileSink, error) {
	if cfg.Path == "" {
		return nil, ErrEmptyPath
	}
	fh := cfg.FileHelper
	if fh == nil {
		fh = NewOSFileHelper()
	}
	if err := fh.Open(cfg.Path, cfg.Truncate); err != nil {
		return nil, err
	}
	return &SimpleFileSink{
		path:       cfg.Path,
		forceFlush: cfg.ForceFlush,
		fh:         fh,
	}, nil
}

func (s *SimpleFileSink) Write(p []byte) (int, error) {
	n, err := s.fh.Write(p)
	if err != nil {
		return n, err
	}
	if s.forceFlush {
		return n, s.fh.Flush()
	}
	return n, nil
}

// SetForceFlush toggles flushing after every write. Like all sink
// calls it must be serialized by the caller.
func (s *SimpleFileSink) SetForceFlush(force bool) {
	s.forceFlush = force
}

func (s *SimpleFileSink) Flush() error {
	return s.fh.Flush()
}

func (s *SimpleFileSink) Close() error {
	return s.fh.Close()
}

// Path returns the file the sink writes to.
func (s *SimpleFileSink) Path() string {
	return s.path
}
