package handler

import (
	"sync"
	"time"

	"github.com/rotolog/rotolog/core"
)

// QueueConfig configures an async entry queue.
type QueueConfig struct {
	// Capacity is the channel buffer size.
	Capacity int
	// Policies maps levels to overflow behavior. Levels without an
	// entry fall back to DropNewest.
	Policies map[core.Level]OverflowPolicy
	// BlockTimeout bounds the wait of the Block policy.
	BlockTimeout time.Duration
	// DrainTimeout bounds how long Close waits for queued entries.
	DrainTimeout time.Duration
	// Stats receives drop, block, and write-error counts. A nil value
	// gets a fresh instance.
	Stats *Stats
}

// Queue is the async machinery shared by the asynchronous handlers:
// a bounded entry channel, a consumer goroutine with batch draining,
// and per-level overflow policies. The queue owns every entry passed
// to Push and returns it to the pool once it has been written or
// dropped.
type Queue struct {
	ch           chan *core.Entry
	policies     map[core.Level]OverflowPolicy
	blockTimeout time.Duration
	drainTimeout time.Duration
	stats        *Stats
	write        func(*core.Entry) error
	closed       chan struct{}
	closeOnce    sync.Once
	wg           sync.WaitGroup
}

// NewQueue creates a queue and starts its consumer goroutine. The
// write function is invoked from the consumer, and from producer
// goroutines when the Block policy times out, so it must be safe for
// concurrent use.
func NewQueue(cfg QueueConfig, write func(*core.Entry) error) *Queue {
	if cfg.Stats == nil {
		cfg.Stats = NewStats()
	}
	q := &Queue{
		ch:           make(chan *core.Entry, cfg.Capacity),
		policies:     cfg.Policies,
		blockTimeout: cfg.BlockTimeout,
		drainTimeout: cfg.DrainTimeout,
		stats:        cfg.Stats,
		write:        write,
		closed:       make(chan struct{}),
	}
	q.wg.Add(1)
	go q.process()
	return q
}

// Push enqueues an entry according to its level's overflow policy.
// After Close it falls back to writing synchronously.
func (q *Queue) Push(entry *core.Entry) error {
	select {
	case <-q.closed:
		return q.consumeNow(entry)
	default:
	}

	switch PolicyFor(q.policies, entry.Level) {
	case Block:
		select {
		case q.ch <- entry:
			return nil
		default:
		}
		// Queue full: wait for space, bounded by the block timeout.
		t := timerPool.Get().(*time.Timer)
		t.Reset(q.blockTimeout)
		select {
		case q.ch <- entry:
			stopTimer(t)
			timerPool.Put(t)
			return nil
		case <-t.C:
			timerPool.Put(t)
			q.stats.IncrementBlocked()
			return q.consumeNow(entry)
		case <-q.closed:
			stopTimer(t)
			timerPool.Put(t)
			return q.consumeNow(entry)
		}

	case DropOldest:
		select {
		case q.ch <- entry:
			return nil
		default:
		}
		// Queue full: evict the oldest queued entry, then retry once.
		select {
		case old := <-q.ch:
			q.stats.IncrementDropped(old.Level)
			core.PutEntry(old)
		default:
		}
		select {
		case q.ch <- entry:
			return nil
		default:
			q.stats.IncrementDropped(entry.Level)
			core.PutEntry(entry)
			return nil
		}

	default: // DropNewest
		select {
		case q.ch <- entry:
			return nil
		default:
			q.stats.IncrementDropped(entry.Level)
			core.PutEntry(entry)
			return nil
		}
	}
}

// consumeNow writes an entry on the calling goroutine and recycles
// it.
func (q *Queue) consumeNow(entry *core.Entry) error {
	err := q.write(entry)
	if err != nil {
		q.stats.IncrementWriteErrors()
	}
	core.PutEntry(entry)
	return err
}

// consume writes an entry from the consumer goroutine. Write errors
// are counted rather than stopping the consumer, so a transient
// failure does not silence the queue for good.
func (q *Queue) consume(entry *core.Entry) {
	if err := q.write(entry); err != nil {
		q.stats.IncrementWriteErrors()
	}
	core.PutEntry(entry)
}

func (q *Queue) process() {
	defer q.wg.Done()

	for {
		select {
		case entry := <-q.ch:
			q.consume(entry)
			// Batch drain: keep writing while entries are ready.
		batchDrain:
			for {
				select {
				case entry := <-q.ch:
					q.consume(entry)
				default:
					break batchDrain
				}
			}
		case <-q.closed:
			deadline := time.After(q.drainTimeout)
		drainLoop:
			for {
				select {
				case entry := <-q.ch:
					q.consume(entry)
				case <-deadline:
					break drainLoop
				default:
					break drainLoop
				}
			}
			return
		}
	}
}

// Len returns the number of entries currently queued.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Close stops the consumer after draining queued entries, bounded by
// the drain timeout. It is idempotent; every call waits for the
// consumer to finish.
func (q *Queue) Close() error {
	q.closeOnce.Do(func() { close(q.closed) })
	q.wg.Wait()
	return nil
}
