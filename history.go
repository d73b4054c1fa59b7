package timingtest

import (
	"math"
)

// HistorySize is how many deltas the rolling window keeps.
const HistorySize = 120

// History is a fixed-size window of recent tick deltas plus the largest
// delta ever recorded.
type History struct {
	samples  [HistorySize]float64
	curIndex int
	last     float64
	highest  float64
}

// Record pushes delta into the window, dropping the oldest sample.
// The highest delta is kept for the lifetime of the History, even after
// the sample that set it has left the window.
func (h *History) Record(delta float64) {
	h.samples[h.curIndex] = delta
	h.curIndex = (h.curIndex + 1) % len(h.samples)
	h.highest = math.Max(h.highest, delta)
	h.last = delta
}

// Last is the most recently recorded delta.
func (h *History) Last() float64 {
	return h.last
}

// Highest is the largest delta recorded so far, or 0.
func (h *History) Highest() float64 {
	return h.highest
}

// Values copies the window oldest first.
func (h *History) Values() [HistorySize]float64 {
	var out [HistorySize]float64
	n := copy(out[:], h.samples[h.curIndex:])
	copy(out[n:], h.samples[:h.curIndex])
	return out
}

// Report is the mean and standard deviation of the window.
func (h *History) Report() (mean, stdDev float64) {
	sum := 0.0
	for _, s := range h.samples {
		sum += s
	}
	mean = sum / float64(len(h.samples))
	varNumerator := 0.0
	for _, s := range h.samples {
		varNumerator += (s - mean) * (s - mean)
	}
	stdDev = math.Sqrt(varNumerator / float64(len(h.samples)))
	return
}
