package timingtest

import (
	"time"
)

// LatencySample is a measure of how far behind Simulate and Render are
// relative to the wall clock.
type LatencySample struct {
	RenderLatency   time.Duration
	SimulateLatency time.Duration
}
