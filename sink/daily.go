package sink

import "time"

// defaultDailyExt is applied when the configured path has no
// extension.
const defaultDailyExt = "txt"

var _ Sink = (*DailyFileSink)(nil)

// DailyFileSink opens a new dated file once per day at a configured
// wall-clock time. Old dated files are simply abandoned: this strategy
// never renames or deletes anything, so retention of historic files is
// the operator's concern.
type DailyFileSink struct {
	parts          FilenameParts
	rotationHour   int
	rotationMinute int
	rotateAt       time.Time
	currentPath    string
	calc           NameCalculator
	clock          func() time.Time
	fh             FileHelper
}

// DailyConfig configures a DailyFileSink.
type DailyConfig struct {
	// Path supplies the base and extension for dated names; a path
	// without extension gets ".txt".
	Path string
	// RotationHour is the local hour of day to rotate at, 0 to 23.
	RotationHour int
	// RotationMinute is the minute within the hour, 0 to 59.
	RotationMinute int
	// NameCalculator derives the dated filename (default:
	// MinuteNameCalculator).
	NameCalculator NameCalculator
	// Clock supplies the current time (default: time.Now). Used in tests.
	Clock func() time.Time
	// FileHelper overrides the OS-backed file capability. Used in tests.
	FileHelper FileHelper
}

// NewDailyFileSink validates the rotation time, computes the first
// rotation instant and opens the dated file for the current time in
// append mode. An out-of-range hour or minute fails before any file
// is touched.
func NewDailyFileSink(cfg DailyConfig) (*DailyFileSink, error) {
	if cfg.Path == "" {
		return nil, ErrEmptyPath
	}
	if cfg.RotationHour < 0 || cfg.RotationHour > 23 ||
		cfg.RotationMinute < 0 || cfg.RotationMinute > 59 {
		return nil, ErrInvalidRotationTime
	}
	calc := cfg.NameCalculator
	if calc == nil {
		calc = MinuteNameCalculator
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	fh := cfg.FileHelper
	if fh == nil {
		fh = NewOSFileHelper()
	}
	s := &DailyFileSink{
		parts:          SplitPath(cfg.Path, defaultDailyExt),
		rotationHour:   cfg.RotationHour,
		rotationMinute: cfg.RotationMinute,
		calc:           calc,
		clock:          clock,
		fh:             fh,
	}
	now := clock()
	s.rotateAt = s.nextRotationTime(now)
	s.currentPath = calc(s.parts, now)
	if err := fh.Open(s.currentPath, false); err != nil {
		return nil, err
	}
	return s, nil
}

// Write appends one record. When the rotation instant has passed, a
// file named for the current time is opened first and the next
// instant is computed, exactly once per rotation.
func (s *DailyFileSink) Write(p []byte) (int, error) {
	now := s.clock()
	if !now.Before(s.rotateAt) {
		path := s.calc(s.parts, now)
		if err := s.fh.Open(path, false); err != nil {
			return 0, err
		}
		s.currentPath = path
		s.rotateAt = s.nextRotationTime(now)
	}
	return s.fh.Write(p)
}

// nextRotationTime returns the next instant the configured wall-clock
// time occurs strictly after now: today's occurrence when still ahead,
// otherwise the same time plus 24 hours. Month and year boundaries
// fall out of the calendar arithmetic.
func (s *DailyFileSink) nextRotationTime(now time.Time) time.Time {
	at := time.Date(now.Year(), now.Month(), now.Day(),
		s.rotationHour, s.rotationMinute, 0, 0, now.Location())
	if at.After(now) {
		return at
	}
	return at.Add(24 * time.Hour)
}

func (s *DailyFileSink) Flush() error {
	return s.fh.Flush()
}

func (s *DailyFileSink) Close() error {
	return s.fh.Close()
}

// Path returns the dated file currently being written.
func (s *DailyFileSink) Path() string {
	return s.currentPath
}
