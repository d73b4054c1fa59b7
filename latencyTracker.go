package timingtest

import (
	"time"
)

// latencyTracker compares the amount of work a callback has accounted
// for against the wall clock.
type latencyTracker struct {
	start        time.Time
	finishedWork time.Duration
}

func newLatencyTracker(start time.Time) latencyTracker {
	return latencyTracker{
		start:        start,
		finishedWork: time.Duration(0),
	}
}

func (lt *latencyTracker) MarkDone(workDone time.Duration) {
	lt.finishedWork += workDone
}

// Latency reports how far the accounted work trails now, then rebases
// the tracker on now so the counters stay small.
func (lt *latencyTracker) Latency(now time.Time) time.Duration {
	current := lt.start.Add(lt.finishedWork)
	latency := now.Sub(current)
	lt.start = now.Add(-1 * latency)
	lt.finishedWork = time.Duration(0)
	return latency
}
