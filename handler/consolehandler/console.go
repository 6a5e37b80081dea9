package consolehandler

import (
	"bytes"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rotolog/rotolog/core"
	"github.com/rotolog/rotolog/formatter"
	"github.com/rotolog/rotolog/handler"
)

// lockedWriter wraps an io.Writer with a mutex, acquiring the lock
// only for Write calls. Formatters prepare data in their own pooled
// buffers and call Write once, so the lock is held only during the
// actual I/O. Shares the handler's mu to serialize all writes.
type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (n int, err error) {
	lw.mu.Lock()
	n, err = lw.w.Write(p)
	lw.mu.Unlock()
	return
}

// isConcurrentSafeWriter returns true if the writer is known to be
// safe for concurrent Write calls, letting the handler skip
// write-level locking.
func isConcurrentSafeWriter(w io.Writer) bool {
	if w == io.Discard {
		return true
	}
	_, ok := w.(*os.File)
	return ok
}

// consoleBase contains shared fields and methods for console
// handlers.
type consoleBase struct {
	writer          io.Writer
	formatter       formatter.Formatter
	writerFormatter formatter.WriterFormatter
	bufferFormatter formatter.BufferFormatter
	concurrentSafe  bool
	stats           *handler.Stats
	mu              sync.Mutex // protects syncBuf and writer
	lw              lockedWriter
	syncBuf         bytes.Buffer
}

// initConsoleBase initializes a consoleBase in place with the given
// config.
func initConsoleBase(b *consoleBase, cfg ConsoleConfig) {
	b.writer = cfg.Writer
	b.formatter = cfg.Formatter
	b.concurrentSafe = cfg.ConcurrentWriter || isConcurrentSafeWriter(cfg.Writer)
	b.stats = handler.NewStats()
	b.lw = lockedWriter{mu: &b.mu, w: b.writer}

	b.writerFormatter, _ = cfg.Formatter.(formatter.WriterFormatter)
	b.bufferFormatter, _ = cfg.Formatter.(formatter.BufferFormatter)
	if b.bufferFormatter != nil {
		b.syncBuf.Grow(256)
	}
}

// write formats and writes an entry.
//
// With a BufferFormatter it tries the handler-owned buffer first via
// TryLock, falling back under contention to a pooled buffer formatted
// outside the lock. Other formatters go through the lockedWriter or a
// direct write for concurrent-safe writers.
func (b *consoleBase) write(entry *core.Entry, parBufPool *sync.Pool) error {
	if b.bufferFormatter != nil {
		if b.mu.TryLock() {
			b.syncBuf.Reset()
			b.bufferFormatter.FormatEntry(entry, &b.syncBuf)
			_, err := b.writer.Write(b.syncBuf.Bytes())
			b.mu.Unlock()
			if err == nil {
				b.stats.IncrementProcessed()
			}
			return err
		}

		pb := parBufPool.Get().(*parallelBuf)
		pb.buf.Reset()
		b.bufferFormatter.FormatEntry(entry, &pb.buf)
		var err error
		if b.concurrentSafe {
			_, err = b.writer.Write(pb.buf.Bytes())
		} else {
			b.mu.Lock()
			_, err = b.writer.Write(pb.buf.Bytes())
			b.mu.Unlock()
		}
		if err == nil {
			b.stats.IncrementProcessed()
		}
		parBufPool.Put(pb)
		return err
	}

	if b.writerFormatter != nil {
		var err error
		if b.concurrentSafe {
			err = b.writerFormatter.FormatTo(entry, b.writer)
		} else {
			err = b.writerFormatter.FormatTo(entry, &b.lw)
		}
		if err == nil {
			b.stats.IncrementProcessed()
		}
		return err
	}

	data, err := b.formatter.Format(entry)
	if err != nil {
		return err
	}

	if b.concurrentSafe {
		_, writeErr := b.writer.Write(data)
		if writeErr == nil {
			b.stats.IncrementProcessed()
		}
		return writeErr
	}

	b.mu.Lock()
	_, writeErr := b.writer.Write(data)
	b.mu.Unlock()

	if writeErr == nil {
		b.stats.IncrementProcessed()
	}
	return writeErr
}

// processWrite formats and writes using the handler-owned buffer
// under a plain Lock. Used by the queue consumer, where the lock is
// uncontended in the common case.
func (b *consoleBase) processWrite(entry *core.Entry, parBufPool *sync.Pool) error {
	if b.bufferFormatter != nil {
		b.mu.Lock()
		b.syncBuf.Reset()
		b.bufferFormatter.FormatEntry(entry, &b.syncBuf)
		_, err := b.writer.Write(b.syncBuf.Bytes())
		b.mu.Unlock()
		if err == nil {
			b.stats.IncrementProcessed()
		}
		return err
	}
	return b.write(entry, parBufPool)
}

// Stats returns a snapshot of the current counters.
func (b *consoleBase) Stats() handler.Snapshot {
	return b.stats.GetSnapshot()
}

// parallelBuf combines an entry and a buffer for pool-friendly
// parallel formatting. Pooling them together halves the pool
// operations of the contended path.
type parallelBuf struct {
	buf   bytes.Buffer
	entry core.Entry
}

func newParallelBufPool() sync.Pool {
	return sync.Pool{
		New: func() any {
			pb := &parallelBuf{}
			pb.buf.Grow(256)
			pb.entry.Fields = make([]core.Field, 0, 16)
			return pb
		},
	}
}

// ConsoleConfig holds configuration for console handlers.
type ConsoleConfig struct {
	// Writer to write to (default: os.Stdout). The handler never
	// closes it.
	Writer io.Writer
	// Formatter renders entries (default: TextFormatter).
	Formatter formatter.Formatter
	// Async enables asynchronous logging.
	Async bool
	// BufferSize is the capacity of the async queue (default: 1000).
	BufferSize int
	// OverflowPolicy defines per-level overflow behavior (default:
	// DefaultLevelPolicy).
	OverflowPolicy map[core.Level]handler.OverflowPolicy
	// BlockTimeout is the timeout for the Block policy (default: 100ms).
	BlockTimeout time.Duration
	// DrainTimeout is the timeout for draining the queue on Close
	// (default: 5s).
	DrainTimeout time.Duration
	// ConcurrentWriter marks the Writer as safe for concurrent Write
	// calls, letting parallel log entries skip write-level locking.
	// Detected automatically for io.Discard and *os.File; set true
	// for other goroutine-safe writers.
	ConcurrentWriter bool
}

// applyConsoleDefaults fills in zero-value fields with defaults.
func applyConsoleDefaults(cfg *ConsoleConfig) {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
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

// NewConsoleHandler creates a console handler. Returns a
// SyncConsoleHandler when Async is false, or an AsyncConsoleHandler
// when Async is true. Both implement Handler, FastHandler, and
// StatsProvider.
func NewConsoleHandler(cfg ConsoleConfig) handler.Handler {
	applyConsoleDefaults(&cfg)
	if cfg.Async {
		return newAsyncConsoleHandler(cfg)
	}
	return newSyncConsoleHandler(cfg)
}
