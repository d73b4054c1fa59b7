// Package timingtest measures how evenly a fixed-update, variable-render
// game loop runs. It drives a reference hand that turns once per second
// of real time and keeps a rolling history of tick deltas to plot next
// to it.
package timingtest

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type state int

const (
	stateInit state = iota
	stateRun  state = iota
	stateStop state = iota
)

// LoopFn is a function that is called inside the game loop.
// step should be treated as if it was the amount of time that
// elapsed since the last call.
type LoopFn func(step time.Duration) error

// SimulateFn is the fixed-step function called inside the game loop.
type SimulateFn func(t Timing) error

// Loop is a game loop.
type Loop struct {
	// Render is an elastic-step function.
	Render LoopFn
	// Simulate is a fixed-step function.
	Simulate SimulateFn
	// RenderLatency controls how often Render will be called.
	// This is the time delay between calls.
	RenderLatency time.Duration
	// SimulationLatency controls how often Simulate will be called.
	// This is the time delay between calls and the fixed step
	// handed to Simulate.
	SimulationLatency time.Duration
	// Logger receives start and stop events. Defaults to a no-op logger.
	Logger    zerolog.Logger
	mu        sync.Mutex
	done      chan interface{}
	err       error
	heartbeat chan LatencySample
	curState  state
	statsMu   sync.Mutex
	stats     LoopStats
}

// NewLoop creates a new game loop.
func NewLoop(render LoopFn, simulate SimulateFn, renderLatency, simulationLatency time.Duration) (*Loop, error) {
	if renderLatency <= 0 {
		return nil, wrapLoopError(nil, TokenLoop, "RenderLatency can't be lte 0")
	}
	if simulationLatency <= 0 {
		return nil, wrapLoopError(nil, TokenLoop, "SimulationLatency can't be lte 0")
	}
	if render == nil || simulate == nil {
		return nil, wrapLoopError(nil, TokenLoop, "Render and Simulate must be set")
	}

	return &Loop{
		Render:            render,
		Simulate:          simulate,
		SimulationLatency: simulationLatency,
		RenderLatency:     renderLatency,
		Logger:            zerolog.Nop(),
		done:              make(chan interface{}),
		err:               nil,
		heartbeat:         make(chan LatencySample),
		curState:          stateInit,
	}, nil
}

// Heartbeat returns the heartbeat channel which
// can be used to monitor the health of the game loop.
// A pulse will be sent every second with current simulation
// and render latency. Pulses nobody is waiting for are dropped.
func (l *Loop) Heartbeat() <-chan LatencySample {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.heartbeat
}

// Done returns a chan that indicates when the loop is stopped.
// When this finishes, you should do cleanup.
func (l *Loop) Done() <-chan interface{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.done
}

// Stop halts the loop and sets Err().
// Only the first call has any effect.
func (l *Loop) Stop(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.curState == stateStop {
		return
	}
	close(l.done)
	l.err = err
	l.curState = stateStop
	if err != nil {
		l.Logger.Error().Err(err).Msg("loop stopped")
	} else {
		l.Logger.Info().Msg("loop stopped")
	}
}

// Err returns the the reason why the loop closed if there was an error.
// Err will return nil if the loop has not yet run, is currently running,
// or closed without an error.
func (l *Loop) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Stats returns runtime and frequency profiles of Simulate and Render.
func (l *Loop) Stats() LoopStats {
	l.statsMu.Lock()
	defer l.statsMu.Unlock()
	return l.stats
}

func (l *Loop) setStats(ls LoopStats) {
	l.statsMu.Lock()
	l.stats = ls
	l.statsMu.Unlock()
}

// Start initiates a game loop. This call does not block.
// To stop the loop, call Stop.
// If either Render or Simulate return an error, the loop stops and the
// error is made available through Err.
func (l *Loop) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.curState != stateInit {
		return wrapLoopError(nil, TokenLoop, "Loop is already running or is done")
	}
	l.curState = stateRun

	var wg sync.WaitGroup
	wg.Add(1)
	done := l.done
	startedAt := time.Now()

	l.Logger.Info().
		Dur("simulationLatency", l.SimulationLatency).
		Dur("renderLatency", l.RenderLatency).
		Msg("loop starting")

	go func() {
		heartTick := time.NewTicker(time.Second)
		sendBeat := func(ps LatencySample) {
			select {
			case l.heartbeat <- ps:
			default: // Throw it away if no one is listening.
			}
		}

		// simTimer has an internal limiter, and I need to make sure the
		// delay isn't accidentally doubled.
		simTimer := time.NewTimer(time.Duration(0))
		// rendTick has no internal limiter, the Ticker controls
		// the execution rate.
		rendTick := time.NewTicker(l.RenderLatency)

		defer simTimer.Stop()
		defer rendTick.Stop()
		defer heartTick.Stop()
		defer close(l.heartbeat)
		defer l.Stop(nil)

		// Time tracking.
		simAccumulator := time.Duration(0)
		simLatency := newLatencyTracker(startedAt)
		previousSim := startedAt
		lastSimulate := startedAt
		rendLatency := newLatencyTracker(startedAt)
		previousRend := startedAt
		simProfile := newStatProfile(statSampleCount, startedAt)
		rendProfile := newStatProfile(statSampleCount, startedAt)
		var updates, renders uint64

		wg.Done()

		for {
			select {
			case <-done:
				return
			case now := <-heartTick.C:
				sendBeat(LatencySample{
					RenderLatency:   rendLatency.Latency(now),
					SimulateLatency: simLatency.Latency(now),
				})
			case curTime := <-simTimer.C:
				// How much are we behind?
				simAccumulator += curTime.Sub(previousSim)
				previousSim = curTime
				// Call Simulate() once per fixed step of built up lag.
				for simAccumulator >= l.SimulationLatency {
					select {
					case <-done:
						return
					default:
					}
					now := time.Now()
					updates++
					timing := Timing{
						FixedTimeStep: l.SimulationLatency,
						Delta:         now.Sub(lastSimulate),
						Updates:       updates,
						Renders:       renders,
						Now:           now,
						StartedAt:     startedAt,
					}
					lastSimulate = now

					simProfile.MarkStart(now)
					if er := l.Simulate(timing); er != nil {
						wrapped := wrapLoopError(er, TokenSimulate, "Error returned by Simulate(%s)", l.SimulationLatency.String())
						wrapped.Misc["curTime"] = curTime
						wrapped.Misc["updates"] = updates
						l.Stop(wrapped)
						return
					}
					simProfile.MarkEnd(time.Now())

					simLatency.MarkDone(l.SimulationLatency)
					// Keep track of leftover time.
					simAccumulator -= l.SimulationLatency
				}
				l.setStats(newLoopStats(updates, renders, &rendProfile, &simProfile))
				// Set up next call to Simulate()...
				simTimer.Reset(l.SimulationLatency - simAccumulator)
			case curTime := <-rendTick.C:
				frameTime := curTime.Sub(previousRend)
				previousRend = curTime

				// Unlike Simulate(), we can skip calls by varying the input time delta.
				rendProfile.MarkStart(curTime)
				if er := l.Render(frameTime); er != nil {
					wrapped := wrapLoopError(er, TokenRender, "Error returned by Render(%s)", frameTime.String())
					wrapped.Misc["curTime"] = curTime
					wrapped.Misc["renders"] = renders
					l.Stop(wrapped)
					return
				}
				rendProfile.MarkEnd(time.Now())
				renders++

				rendLatency.MarkDone(frameTime)
				l.setStats(newLoopStats(updates, renders, &rendProfile, &simProfile))
			}
		}
	}()
	// Don't return until timer goroutine is actually starting.
	wg.Wait()
	return nil
}
