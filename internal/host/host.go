// Package host runs a timingtest simulation on a Loop and hands its
// snapshots to whoever draws them.
package host

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/erinpentecost/timingtest"
	"github.com/erinpentecost/timingtest/internal/config"
	"github.com/erinpentecost/timingtest/internal/metrics"
	"github.com/erinpentecost/timingtest/internal/plot"
)

// Host owns the simulation. Only the loop goroutine touches it; everyone
// else reads the snapshot buffer.
type Host struct {
	cfg     config.Config
	log     zerolog.Logger
	sim     *timingtest.Simulation
	frames  timingtest.SnapshotBuffer
	loop    *timingtest.Loop
	metrics *metrics.Server
}

// New wires a simulation into a loop configured by cfg.
func New(cfg config.Config, log zerolog.Logger) (*Host, error) {
	h := &Host{
		cfg: cfg,
		log: log,
		sim: timingtest.NewSimulation(),
	}
	if cfg.Metrics.Addr != "" {
		h.metrics = metrics.NewServer(log.With().Str("component", "metrics").Logger())
	}

	loop, err := timingtest.NewLoop(h.render, h.sim.Simulate, cfg.RenderLatency(), cfg.SimulationLatency())
	if err != nil {
		return nil, fmt.Errorf("create loop: %w", err)
	}
	loop.Logger = log.With().Str("component", "loop").Logger()
	h.loop = loop
	return h, nil
}

func (h *Host) render(step time.Duration) error {
	snap := h.sim.Snapshot()
	h.frames.Publish(snap)
	if h.metrics != nil {
		h.metrics.Observe(snap)
	}
	return nil
}

// Start starts the loop, the heartbeat reader and the metrics server.
func (h *Host) Start() error {
	if err := h.loop.Start(); err != nil {
		return err
	}
	if h.metrics != nil {
		if _, err := h.metrics.Serve(h.cfg.Metrics.Addr, h.loop.Done()); err != nil {
			h.loop.Stop(err)
			return fmt.Errorf("serve metrics: %w", err)
		}
	}
	heartbeat := h.loop.Heartbeat()
	go func() {
		for sample := range heartbeat {
			h.log.Debug().
				Dur("simulateLatency", sample.SimulateLatency).
				Dur("renderLatency", sample.RenderLatency).
				Msg("heartbeat")
			if h.metrics != nil {
				h.metrics.Publish(sample)
			}
		}
	}()
	return nil
}

// Stop stops the loop.
func (h *Host) Stop(err error) {
	h.loop.Stop(err)
}

// Done closes once the loop has stopped.
func (h *Host) Done() <-chan interface{} {
	return h.loop.Done()
}

// Err is why the loop stopped, if it failed.
func (h *Host) Err() error {
	return h.loop.Err()
}

// Load returns the latest published snapshot.
func (h *Host) Load() (timingtest.Snapshot, bool) {
	return h.frames.Load()
}

// Stats returns the loop's profile.
func (h *Host) Stats() timingtest.LoopStats {
	return h.loop.Stats()
}

// RunFor runs the loop until d elapses, ctx is cancelled or the loop
// stops on its own, and returns the last snapshot.
func (h *Host) RunFor(ctx context.Context, d time.Duration) (timingtest.Snapshot, error) {
	if err := h.Start(); err != nil {
		return timingtest.Snapshot{}, err
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		h.log.Info().Msg("interrupted")
	case <-h.Done():
	}
	h.Stop(nil)
	<-h.Done()
	if err := h.Err(); err != nil {
		return timingtest.Snapshot{}, err
	}
	snap, _ := h.Load()
	return snap, nil
}

// Summarize logs the snapshot and loop stats.
func (h *Host) Summarize(snap timingtest.Snapshot) {
	stats := h.Stats()
	h.log.Info().
		Uint64("ticks", snap.Ticks).
		Uint64("draws", snap.Renders).
		Float64("secs", snap.Elapsed).
		Float64("degrees", snap.Degrees).
		Float64("budget", snap.Budget).
		Float64("lastDelta", snap.Last).
		Float64("highestDelta", snap.Highest).
		Float64("meanDelta", snap.Mean).
		Float64("stdDevDelta", snap.StdDev).
		Dur("simulateEvery", stats.SimulateFrequencyMean).
		Dur("simulateTakes", stats.SimulateRuntimeMean).
		Dur("renderEvery", stats.RenderFrequencyMean).
		Msg("summary")
}

// WritePlot renders snap to path as a PNG.
func (h *Host) WritePlot(snap timingtest.Snapshot, path string) error {
	if err := plot.WriteFile(snap, path); err != nil {
		return fmt.Errorf("write plot: %w", err)
	}
	h.log.Info().Str("path", path).Msg("wrote plot")
	return nil
}
