package handler

import (
	"sync/atomic"

	"github.com/rotolog/rotolog/core"
)

// OverflowPolicy defines how a full async queue treats an incoming
// entry.
type OverflowPolicy int

const (
	// DropNewest drops the incoming entry when the queue is full.
	DropNewest OverflowPolicy = iota
	// DropOldest evicts the oldest queued entry to make room.
	DropOldest
	// Block waits for queue space, up to the configured timeout.
	Block
)

// String returns the string representation of the policy.
func (p OverflowPolicy) String() string {
	switch p {
	case DropNewest:
		return "DropNewest"
	case DropOldest:
		return "DropOldest"
	case Block:
		return "Block"
	default:
		return "Unknown"
	}
}

// DefaultLevelPolicy returns the default level-based overflow
// policies: low-severity entries are droppable, errors and above
// block.
func DefaultLevelPolicy() map[core.Level]OverflowPolicy {
	return map[core.Level]OverflowPolicy{
		core.TraceLevel: DropNewest,
		core.DebugLevel: DropNewest,
		core.InfoLevel:  DropNewest,
		core.WarnLevel:  DropNewest,
		core.ErrorLevel: Block,
		core.FatalLevel: Block,
		core.PanicLevel: Block,
	}
}

// PolicyFor resolves the policy for a level, falling back to
// DropNewest when the map has no entry for it.
func PolicyFor(policies map[core.Level]OverflowPolicy, level core.Level) OverflowPolicy {
	if p, ok := policies[level]; ok {
		return p
	}
	return DropNewest
}

// levelCount sizes the per-level counter array. PanicLevel is the
// highest defined level.
const levelCount = int(core.PanicLevel) + 1

// Stats tracks handler counters. All methods are safe for concurrent
// use.
type Stats struct {
	dropped [levelCount]atomic.Uint64

	blockedTotal   atomic.Uint64
	processedTotal atomic.Uint64
	writeErrors    atomic.Uint64
}

// NewStats creates a new Stats instance.
func NewStats() *Stats {
	return &Stats{}
}

// IncrementDropped increments the dropped counter for a level.
func (s *Stats) IncrementDropped(level core.Level) {
	if level >= 0 && int(level) < levelCount {
		s.dropped[level].Add(1)
	}
}

// IncrementBlocked increments the count of calls that timed out
// waiting for queue space.
func (s *Stats) IncrementBlocked() {
	s.blockedTotal.Add(1)
}

// IncrementProcessed increments the processed counter.
func (s *Stats) IncrementProcessed() {
	s.processedTotal.Add(1)
}

// IncrementWriteErrors increments the count of entries whose write
// failed after dequeuing.
func (s *Stats) IncrementWriteErrors() {
	s.writeErrors.Add(1)
}

// GetDropped returns the dropped count for a level.
func (s *Stats) GetDropped(level core.Level) uint64 {
	if level >= 0 && int(level) < levelCount {
		return s.dropped[level].Load()
	}
	return 0
}

// GetBlocked returns the blocked count.
func (s *Stats) GetBlocked() uint64 {
	return s.blockedTotal.Load()
}

// GetProcessed returns the processed count.
func (s *Stats) GetProcessed() uint64 {
	return s.processedTotal.Load()
}

// GetWriteErrors returns the count of failed writes.
func (s *Stats) GetWriteErrors() uint64 {
	return s.writeErrors.Load()
}

// GetTotalDropped returns the dropped count summed across all levels.
func (s *Stats) GetTotalDropped() uint64 {
	var total uint64
	for i := range s.dropped {
		total += s.dropped[i].Load()
	}
	return total
}

// Reset resets all counters to zero.
func (s *Stats) Reset() {
	for i := range s.dropped {
		s.dropped[i].Store(0)
	}
	s.blockedTotal.Store(0)
	s.processedTotal.Store(0)
	s.writeErrors.Store(0)
}

// Snapshot is a point-in-time copy of handler counters.
type Snapshot struct {
	DroppedTotal   map[core.Level]uint64
	BlockedTotal   uint64
	ProcessedTotal uint64
	WriteErrors    uint64
}

// GetSnapshot returns a snapshot of the current counters. Levels with
// a zero count are omitted from DroppedTotal.
func (s *Stats) GetSnapshot() Snapshot {
	dropped := make(map[core.Level]uint64)
	for i := range s.dropped {
		if n := s.dropped[i].Load(); n > 0 {
			dropped[core.Level(i)] = n
		}
	}
	return Snapshot{
		DroppedTotal:   dropped,
		BlockedTotal:   s.GetBlocked(),
		ProcessedTotal: s.GetProcessed(),
		WriteErrors:    s.GetWriteErrors(),
	}
}
