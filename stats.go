package timingtest

import (
	"math"
	"time"
)

const statSampleCount = 100

type statWindow struct {
	samples  []time.Duration
	curIndex int
	count    int
}

func newStatWindow(samples int) statWindow {
	return statWindow{
		samples:  make([]time.Duration, samples),
		curIndex: 0,
	}
}

func (p *statWindow) AddSample(sample time.Duration) {
	p.samples[p.curIndex] = sample
	p.curIndex = (p.curIndex + 1) % len(p.samples)
	if p.count < len(p.samples) {
		p.count++
	}
}

// Report only looks at filled slots.
func (p *statWindow) Report() (mean, stdDev time.Duration) {
	if p.count == 0 {
		return 0, 0
	}
	filled := p.samples[:p.count]
	sum := time.Duration(0)
	for _, s := range filled {
		sum += s
	}
	mean = sum / time.Duration(p.count)
	varNumerator := 0.0
	for _, s := range filled {
		d := float64(s - mean)
		varNumerator += d * d
	}
	stdDev = time.Duration(int64(math.Sqrt(varNumerator / float64(p.count))))
	return
}

type statProfile struct {
	// arrivalWindow is how often the function is invoked.
	arrivalWindow statWindow
	// serviceWindow is how long the function takes.
	serviceWindow statWindow
	lastStart     time.Time
}

func newStatProfile(samples int, now time.Time) statProfile {
	return statProfile{
		arrivalWindow: newStatWindow(samples),
		serviceWindow: newStatWindow(samples),
		lastStart:     now,
	}
}

func (p *statProfile) MarkStart(now time.Time) {
	p.arrivalWindow.AddSample(now.Sub(p.lastStart))
	p.lastStart = now
}

func (p *statProfile) MarkEnd(now time.Time) {
	p.serviceWindow.AddSample(now.Sub(p.lastStart))
}

func (p *statProfile) RuntimeStats() (mean, stdDev time.Duration) {
	return p.serviceWindow.Report()
}

func (p *statProfile) FrequencyStats() (mean, stdDev time.Duration) {
	return p.arrivalWindow.Report()
}

// LoopStats profiles runtime and frequency of game loop functions.
type LoopStats struct {
	Updates                 uint64
	Renders                 uint64
	RenderRuntimeMean       time.Duration
	RenderRuntimeStdDev     time.Duration
	RenderFrequencyMean     time.Duration
	RenderFrequencyStdDev   time.Duration
	SimulateRuntimeMean     time.Duration
	SimulateRuntimeStdDev   time.Duration
	SimulateFrequencyMean   time.Duration
	SimulateFrequencyStdDev time.Duration
}

func newLoopStats(updates, renders uint64, render *statProfile, simulate *statProfile) LoopStats {
	ls := LoopStats{}
	ls.Updates = updates
	ls.Renders = renders
	ls.RenderFrequencyMean, ls.RenderFrequencyStdDev = render.FrequencyStats()
	ls.RenderRuntimeMean, ls.RenderRuntimeStdDev = render.RuntimeStats()
	ls.SimulateFrequencyMean, ls.SimulateFrequencyStdDev = simulate.FrequencyStats()
	ls.SimulateRuntimeMean, ls.SimulateRuntimeStdDev = simulate.RuntimeStats()
	return ls
}
