package filehandler

import (
	"bytes"
	"errors"
	"sync"
	"time"

	"github.com/rotolog/rotolog/core"
	"github.com/rotolog/rotolog/formatter"
	"github.com/rotolog/rotolog/handler"
	"github.com/rotolog/rotolog/sink"
)

var (
	// ErrMissingFilename is returned when neither Filename nor Sink is
	// configured.
	ErrMissingFilename = errors.New("filehandler: filename is required")
	// ErrConflictingRotation is returned when both size-based and
	// daily rotation are requested. A file follows one naming scheme.
	ErrConflictingRotation = errors.New("filehandler: MaxSize and Daily are mutually exclusive")
)

// fileBase contains fields and methods shared by both file handlers.
type fileBase struct {
	s               sink.Sink
	formatter       formatter.Formatter
	bufferFormatter formatter.BufferFormatter
	forceFlush      bool
	mu              sync.Mutex
	syncBuf         bytes.Buffer
	stats           *handler.Stats
}

// writeRecord hands one complete record to the sink. The sink treats
// every Write call as a single record when deciding whether to
// rotate. Callers hold mu.
func (b *fileBase) writeRecord(p []byte) error {
	if _, err := b.s.Write(p); err != nil {
		return err
	}
	b.stats.IncrementProcessed()
	if b.forceFlush {
		return b.s.Flush()
	}
	return nil
}

// write formats an entry and writes it as one record.
func (b *fileBase) write(entry *core.Entry) error {
	// BufferFormatter fast path: format into the handler-owned buffer,
	// skipping the formatter's buffer pool.
	if b.bufferFormatter != nil {
		b.mu.Lock()
		b.syncBuf.Reset()
		b.bufferFormatter.FormatEntry(entry, &b.syncBuf)
		err := b.writeRecord(b.syncBuf.Bytes())
		b.mu.Unlock()
		return err
	}

	data, err := b.formatter.Format(entry)
	if err != nil {
		return err
	}

	b.mu.Lock()
	err = b.writeRecord(data)
	b.mu.Unlock()
	return err
}

// Flush pushes buffered bytes down to the operating system.
func (b *fileBase) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.s.Flush()
}

// Stats returns a snapshot of the current counters.
func (b *fileBase) Stats() handler.Snapshot {
	return b.stats.GetSnapshot()
}

// closeSink flushes and closes the sink. Safe to call more than once.
func (b *fileBase) closeSink() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.s.Close()
}

// FileConfig holds configuration for file handlers.
type FileConfig struct {
	// Filename is the path of the log file. With Daily set it is the
	// stem that date stamps are spliced into. Ignored when Sink is
	// set.
	Filename string
	// Formatter renders entries (default: TextFormatter).
	Formatter formatter.Formatter
	// Async enables asynchronous logging.
	Async bool
	// BufferSize is the capacity of the async queue (default: 1000).
	BufferSize int
	// MaxSize is the file size in bytes above which the file is
	// rotated (0 = no size rotation). A record that would push the
	// file past this limit lands in the fresh file instead.
	MaxSize int64
	// MaxBackups is the number of rotated files to keep when MaxSize
	// is set. 0 keeps none: rotation truncates in place.
	MaxBackups int
	// Daily starts a new date-stamped file at the configured
	// wall-clock time each day. Mutually exclusive with MaxSize.
	Daily bool
	// RotationHour and RotationMinute set the daily switch time
	// (default: midnight).
	RotationHour   int
	RotationMinute int
	// DateOnly drops the hour and minute from daily file names.
	DateOnly bool
	// ForceFlush flushes buffered bytes to the OS after every record.
	ForceFlush bool
	// Truncate empties an existing file on open instead of appending.
	// Applies only when no rotation is configured.
	Truncate bool
	// Sink overrides the sink built from the fields above.
	Sink sink.Sink
	// OverflowPolicy defines per-level overflow behavior (default:
	// DefaultLevelPolicy).
	OverflowPolicy map[core.Level]handler.OverflowPolicy
	// BlockTimeout is the timeout for the Block policy (default: 100ms).
	BlockTimeout time.Duration
	// DrainTimeout is the timeout for draining the queue on Close
	// (default: 5s).
	DrainTimeout time.Duration
}

// applyFileDefaults fills in zero-value fields with defaults.
func applyFileDefaults(cfg *FileConfig) {
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewTextFormatter(formatter.Config{})
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1000
	}
	if cfg.OverflowPolicy == nil {
		cfg.OverflowPolicy = handler.DefaultLevelPolicy()
	}
	if cfg.BlockTimeout == 0 {
		cfg.BlockTimeout = 100 * time.Millisecond
	}
	if cfg.DrainTimeout == 0 {
		cfg.DrainTimeout = 5 * time.Second
	}
}

// buildSink selects the sink matching the configured rotation scheme.
func buildSink(cfg FileConfig) (sink.Sink, error) {
	if cfg.Sink != nil {
		return cfg.Sink, nil
	}
	switch {
	case cfg.MaxSize > 0 && cfg.Daily:
		return nil, ErrConflictingRotation
	case cfg.MaxSize > 0:
		return sink.NewRotatingFileSink(sink.RotatingConfig{
			Path:         cfg.Filename,
			MaxFileBytes: cfg.MaxSize,
			MaxBackups:   cfg.MaxBackups,
		})
	case cfg.Daily:
		var calc sink.NameCalculator
		if cfg.DateOnly {
			calc = sink.DateOnlyNameCalculator
		}
		return sink.NewDailyFileSink(sink.DailyConfig{
			Path:           cfg.Filename,
			RotationHour:   cfg.RotationHour,
			RotationMinute: cfg.RotationMinute,
			NameCalculator: calc,
		})
	default:
		return sink.NewSimpleFileSink(sink.SimpleConfig{
			Path:     cfg.Filename,
			Truncate: cfg.Truncate,
		})
	}
}

// initFileBase initializes a fileBase in place with the given config
// and sink.
func initFileBase(b *fileBase, cfg FileConfig, s sink.Sink) {
	b.s = s
	b.formatter = cfg.Formatter
	b.forceFlush = cfg.ForceFlush
	b.stats = handler.NewStats()

	// Cache BufferFormatter for the handler-owned format path.
	b.bufferFormatter, _ = cfg.Formatter.(formatter.BufferFormatter)
	if b.bufferFormatter != nil {
		b.syncBuf.Grow(256)
	}
}

// NewFileHandler creates a file handler writing through a sink chosen
// by the rotation fields: size-based with MaxSize, daily with Daily,
// plain append otherwise. Returns a SyncFileHandler when Async is
// false, or an AsyncFileHandler when Async is true. Both implement
// Handler, FastHandler, Flusher, and StatsProvider.
func NewFileHandler(cfg FileConfig) (handler.Handler, error) {
	if cfg.Filename == "" && cfg.Sink == nil {
		return nil, ErrMissingFilename
	}
	applyFileDefaults(&cfg)

	s, err := buildSink(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Async {
		return newAsyncFileHandler(cfg, s), nil
	}
	return newSyncFileHandler(cfg, s), nil
}
