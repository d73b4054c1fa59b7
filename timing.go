package timingtest

import (
	"time"
)

// Hz60Delay is 1/60th of a second.
const Hz60Delay time.Duration = time.Duration(int64(time.Second) / 60)

// Hz120Delay is 1/120th of a second.
const Hz120Delay time.Duration = time.Duration(int64(time.Second) / 120)

// Timing is what the loop knows about a single Simulate call.
type Timing struct {
	// FixedTimeStep is the constant step every Simulate call advances by.
	FixedTimeStep time.Duration
	// Delta is the wall-clock time since the previous Simulate call.
	Delta time.Duration
	// Updates counts Simulate calls, including this one.
	Updates uint64
	// Renders counts completed Render calls.
	Renders uint64
	Now       time.Time
	StartedAt time.Time
}

// Elapsed is the wall-clock time since the loop started.
func (t Timing) Elapsed() time.Duration {
	return t.Now.Sub(t.StartedAt)
}
