package handler

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotolog/rotolog/core"
)

func queueEntry(level core.Level, msg string) *core.Entry {
	entry := core.GetEntry()
	entry.Level = level
	entry.Message = msg
	return entry
}

// queueRecorder collects written messages and can hold the consumer
// inside the write of a chosen message, so tests control exactly when
// the queue fills.
type queueRecorder struct {
	mu      sync.Mutex
	got     []string
	holdMsg string
	entered chan struct{}
	release chan struct{}
}

func newQueueRecorder(holdMsg string) *queueRecorder {
	return &queueRecorder{
		holdMsg: holdMsg,
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (r *queueRecorder) write(entry *core.Entry) error {
	r.mu.Lock()
	r.got = append(r.got, entry.Message)
	r.mu.Unlock()
	if entry.Message == r.holdMsg {
		r.entered <- struct{}{}
		<-r.release
	}
	return nil
}

func (r *queueRecorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.got...)
}

func TestQueue_DeliversInOrder(t *testing.T) {
	rec := newQueueRecorder("")
	q := NewQueue(QueueConfig{Capacity: 16}, rec.write)

	for _, msg := range []string{"one", "two", "three"} {
		require.NoError(t, q.Push(queueEntry(core.InfoLevel, msg)))
	}
	require.NoError(t, q.Close())

	assert.Equal(t, []string{"one", "two", "three"}, rec.messages())
}

func TestQueue_DropNewest(t *testing.T) {
	rec := newQueueRecorder("a")
	stats := NewStats()
	q := NewQueue(QueueConfig{
		Capacity: 2,
		Policies: map[core.Level]OverflowPolicy{core.InfoLevel: DropNewest},
		Stats:    stats,
	}, rec.write)

	require.NoError(t, q.Push(queueEntry(core.InfoLevel, "a")))
	<-rec.entered // consumer is now held inside the write of "a"

	require.NoError(t, q.Push(queueEntry(core.InfoLevel, "b")))
	require.NoError(t, q.Push(queueEntry(core.InfoLevel, "c")))
	// Queue full: the incoming entry is the one dropped.
	require.NoError(t, q.Push(queueEntry(core.InfoLevel, "d")))

	assert.EqualValues(t, 1, stats.GetDropped(core.InfoLevel))

	close(rec.release)
	require.NoError(t, q.Close())
	assert.Equal(t, []string{"a", "b", "c"}, rec.messages())
}

func TestQueue_DropOldest(t *testing.T) {
	rec := newQueueRecorder("a")
	stats := NewStats()
	q := NewQueue(QueueConfig{
		Capacity: 2,
		Policies: map[core.Level]OverflowPolicy{core.WarnLevel: DropOldest},
		Stats:    stats,
	}, rec.write)

	require.NoError(t, q.Push(queueEntry(core.WarnLevel, "a")))
	<-rec.entered

	require.NoError(t, q.Push(queueEntry(core.WarnLevel, "b")))
	require.NoError(t, q.Push(queueEntry(core.WarnLevel, "c")))
	// Queue full: "b" is evicted to make room for "d".
	require.NoError(t, q.Push(queueEntry(core.WarnLevel, "d")))

	assert.EqualValues(t, 1, stats.GetDropped(core.WarnLevel))

	close(rec.release)
	require.NoError(t, q.Close())
	assert.Equal(t, []string{"a", "c", "d"}, rec.messages())
}

func TestQueue_BlockTimeoutFallsBackToSyncWrite(t *testing.T) {
	rec := newQueueRecorder("a")
	stats := NewStats()
	q := NewQueue(QueueConfig{
		Capacity:     1,
		Policies:     map[core.Level]OverflowPolicy{core.ErrorLevel: Block},
		BlockTimeout: 20 * time.Millisecond,
		Stats:        stats,
	}, rec.write)

	require.NoError(t, q.Push(queueEntry(core.ErrorLevel, "a")))
	<-rec.entered

	require.NoError(t, q.Push(queueEntry(core.ErrorLevel, "b")))
	// Queue full and the consumer is held: the block timeout expires
	// and "c" is written on this goroutine.
	require.NoError(t, q.Push(queueEntry(core.ErrorLevel, "c")))

	assert.EqualValues(t, 1, stats.GetBlocked())
	assert.Equal(t, []string{"a", "c"}, rec.messages())

	close(rec.release)
	require.NoError(t, q.Close())
	assert.Equal(t, []string{"a", "c", "b"}, rec.messages())
	assert.Zero(t, stats.GetTotalDropped())
}

func TestQueue_BlockSucceedsWhenSpaceFrees(t *testing.T) {
	rec := newQueueRecorder("a")
	stats := NewStats()
	q := NewQueue(QueueConfig{
		Capacity:     1,
		Policies:     map[core.Level]OverflowPolicy{core.ErrorLevel: Block},
		BlockTimeout: 5 * time.Second,
		Stats:        stats,
	}, rec.write)

	require.NoError(t, q.Push(queueEntry(core.ErrorLevel, "a")))
	<-rec.entered
	require.NoError(t, q.Push(queueEntry(core.ErrorLevel, "b")))

	go func() {
		time.Sleep(10 * time.Millisecond)
		close(rec.release)
	}()

	// Blocks until the consumer frees a slot, well inside the
	// timeout.
	require.NoError(t, q.Push(queueEntry(core.ErrorLevel, "c")))
	require.NoError(t, q.Close())

	assert.Equal(t, []string{"a", "b", "c"}, rec.messages())
	assert.Zero(t, stats.GetBlocked())
}

func TestQueue_PushAfterCloseWritesSync(t *testing.T) {
	rec := newQueueRecorder("")
	q := NewQueue(QueueConfig{Capacity: 4}, rec.write)

	require.NoError(t, q.Push(queueEntry(core.InfoLevel, "before")))
	require.NoError(t, q.Close())
	require.NoError(t, q.Push(queueEntry(core.InfoLevel, "after")))

	assert.Equal(t, []string{"before", "after"}, rec.messages())
}

func TestQueue_WriteErrorsDoNotStopConsumer(t *testing.T) {
	stats := NewStats()
	var calls int
	var mu sync.Mutex
	failing := func(entry *core.Entry) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return errors.New("disk gone")
	}
	q := NewQueue(QueueConfig{Capacity: 8, Stats: stats}, failing)

	for i := 0; i < 3; i++ {
		require.NoError(t, q.Push(queueEntry(core.InfoLevel, "doomed")))
	}
	require.NoError(t, q.Close())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, calls)
	assert.EqualValues(t, 3, stats.GetWriteErrors())
}

func TestQueue_DrainTimeoutBoundsClose(t *testing.T) {
	var mu sync.Mutex
	var written int
	slow := func(entry *core.Entry) error {
		time.Sleep(10 * time.Millisecond)
		mu.Lock()
		written++
		mu.Unlock()
		return nil
	}
	q := NewQueue(QueueConfig{Capacity: 100, DrainTimeout: 50 * time.Millisecond}, slow)

	for i := 0; i < 100; i++ {
		require.NoError(t, q.Push(queueEntry(core.InfoLevel, "slow")))
	}

	start := time.Now()
	require.NoError(t, q.Close())
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 2*time.Second)
	mu.Lock()
	defer mu.Unlock()
	assert.Less(t, written, 100)
	assert.Greater(t, written, 0)
}

func TestQueue_CloseIdempotent(t *testing.T) {
	rec := newQueueRecorder("")
	q := NewQueue(QueueConfig{Capacity: 4}, rec.write)
	require.NoError(t, q.Close())
	require.NoError(t, q.Close())
}

func TestQueue_Len(t *testing.T) {
	rec := newQueueRecorder("a")
	q := NewQueue(QueueConfig{Capacity: 8}, rec.write)

	require.NoError(t, q.Push(queueEntry(core.InfoLevel, "a")))
	<-rec.entered
	require.NoError(t, q.Push(queueEntry(core.InfoLevel, "b")))
	assert.Equal(t, 1, q.Len())

	close(rec.release)
	require.NoError(t, q.Close())
	assert.Equal(t, 0, q.Len())
}

func BenchmarkQueue_DropNewest(b *testing.B) {
	q := NewQueue(QueueConfig{
		Capacity: 1000,
		Policies: map[core.Level]OverflowPolicy{core.InfoLevel: DropNewest},
	}, func(entry *core.Entry) error { return nil })
	defer q.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		entry := core.GetEntry()
		entry.Level = core.InfoLevel
		entry.Message = "benchmark"
		q.Push(entry)
	}
}

func BenchmarkQueue_Block(b *testing.B) {
	q := NewQueue(QueueConfig{
		Capacity:     1000,
		Policies:     map[core.Level]OverflowPolicy{core.ErrorLevel: Block},
		BlockTimeout: 100 * time.Millisecond,
	}, func(entry *core.Entry) error { return nil })
	defer q.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		entry := core.GetEntry()
		entry.Level = core.ErrorLevel
		entry.Message = "benchmark"
		q.Push(entry)
	}
}
