package timingtest

import (
	"sync/atomic"
)

// Snapshot is a read-only copy of a Simulation. All times are seconds.
type Snapshot struct {
	Ticks   uint64
	Renders uint64
	Elapsed float64
	Highest float64
	Last    float64
	Degrees float64
	Budget  float64
	// History is oldest first.
	History [HistorySize]float64
	Mean    float64
	StdDev  float64
}

// SnapshotBuffer hands snapshots from the loop goroutine to a reader on
// another goroutine. The reader always sees a whole snapshot, never one
// being written.
type SnapshotBuffer struct {
	front atomic.Pointer[Snapshot]
}

// Publish replaces the current snapshot.
func (b *SnapshotBuffer) Publish(s Snapshot) {
	b.front.Store(&s)
}

// Load returns the most recent snapshot. ok is false until the first
// Publish.
func (b *SnapshotBuffer) Load() (s Snapshot, ok bool) {
	p := b.front.Load()
	if p == nil {
		return Snapshot{}, false
	}
	return *p, true
}
