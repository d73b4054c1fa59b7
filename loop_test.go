package timingtest_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/erinpentecost/timingtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopRender(step time.Duration) error {
	return nil
}

func noopSimulate(t timingtest.Timing) error {
	return nil
}

func TestInitialization(t *testing.T) {
	loop, err := timingtest.NewLoop(noopRender, noopSimulate, timingtest.Hz60Delay, timingtest.Hz120Delay)
	assert.Nil(t, err)
	assert.NotNil(t, loop)
}

func TestInitializationError(t *testing.T) {
	loop, err := timingtest.NewLoop(noopRender, noopSimulate, time.Duration(0), timingtest.Hz60Delay)
	assert.NotNil(t, err)
	assert.Nil(t, loop)

	loop, err = timingtest.NewLoop(noopRender, noopSimulate, timingtest.Hz60Delay, -time.Second)
	assert.NotNil(t, err)
	assert.Nil(t, loop)

	var le timingtest.LoopError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, timingtest.TokenLoop, le.ErrorSource)
}

func TestInitializationNilCallback(t *testing.T) {
	loop, err := timingtest.NewLoop(nil, noopSimulate, timingtest.Hz60Delay, timingtest.Hz60Delay)
	assert.NotNil(t, err)
	assert.Nil(t, loop)
}

func TestStartAndStop(t *testing.T) {
	loop, err := timingtest.NewLoop(noopRender, noopSimulate, timingtest.Hz60Delay, timingtest.Hz60Delay)
	assert.Nil(t, err)
	assert.NotNil(t, loop)
	err = loop.Start()
	assert.Nil(t, err)
	loop.Stop(nil)
	<-loop.Done()
	assert.Nil(t, loop.Err())
}

func TestPrematureStop(t *testing.T) {
	loop, err := timingtest.NewLoop(noopRender, noopSimulate, timingtest.Hz60Delay, timingtest.Hz60Delay)
	assert.Nil(t, err)
	assert.NotNil(t, loop)
	loop.Stop(nil)
	err = loop.Start()
	assert.NotNil(t, err)
	<-loop.Done()
	assert.Nil(t, loop.Err())
}

func TestDoubleStart(t *testing.T) {
	loop, err := timingtest.NewLoop(noopRender, noopSimulate, timingtest.Hz60Delay, timingtest.Hz60Delay)
	require.Nil(t, err)
	require.Nil(t, loop.Start())
	assert.NotNil(t, loop.Start())
	loop.Stop(nil)
	<-loop.Done()
}

func TestDoubleStop(t *testing.T) {
	loop, err := timingtest.NewLoop(noopRender, noopSimulate, timingtest.Hz60Delay, timingtest.Hz60Delay)
	assert.Nil(t, err)
	assert.NotNil(t, loop)
	err = loop.Start()
	assert.Nil(t, err)
	loop.Stop(nil)
	loop.Stop(nil)
	<-loop.Done()
	loop.Stop(nil)
	assert.Nil(t, loop.Err())
}

func TestRenderError(t *testing.T) {
	intentional := fmt.Errorf("Intentional error")
	render := func(step time.Duration) error {
		return intentional
	}
	loop, err := timingtest.NewLoop(render, noopSimulate, timingtest.Hz60Delay, timingtest.Hz60Delay)
	assert.Nil(t, err)
	assert.NotNil(t, loop)
	err = loop.Start()
	assert.Nil(t, err)
	<-loop.Done()
	require.NotNil(t, loop.Err())
	assert.True(t, errors.Is(loop.Err(), intentional))

	var le timingtest.LoopError
	require.True(t, errors.As(loop.Err(), &le))
	assert.Equal(t, timingtest.TokenRender, le.ErrorSource)
}

func TestSimulateError(t *testing.T) {
	intentional := fmt.Errorf("Intentional error")
	simulate := func(timing timingtest.Timing) error {
		return intentional
	}
	loop, err := timingtest.NewLoop(noopRender, simulate, timingtest.Hz60Delay, timingtest.Hz60Delay)
	assert.Nil(t, err)
	assert.NotNil(t, loop)
	err = loop.Start()
	assert.Nil(t, err)
	<-loop.Done()
	require.NotNil(t, loop.Err())
	assert.True(t, errors.Is(loop.Err(), intentional))

	var le timingtest.LoopError
	require.True(t, errors.As(loop.Err(), &le))
	assert.Equal(t, timingtest.TokenSimulate, le.ErrorSource)
	assert.NotEmpty(t, le.StackTrace)
}

func TestSimulateTiming(t *testing.T) {
	var timings []timingtest.Timing
	var loop *timingtest.Loop
	simulate := func(timing timingtest.Timing) error {
		timings = append(timings, timing)
		if len(timings) == 5 {
			loop.Stop(nil)
		}
		return nil
	}
	loop, err := timingtest.NewLoop(noopRender, simulate, timingtest.Hz60Delay, timingtest.Hz120Delay)
	require.Nil(t, err)
	require.Nil(t, loop.Start())
	<-loop.Done()
	require.Nil(t, loop.Err())

	require.Len(t, timings, 5)
	for i, timing := range timings {
		assert.Equal(t, timingtest.Hz120Delay, timing.FixedTimeStep)
		assert.Equal(t, uint64(i+1), timing.Updates)
		assert.True(t, timing.Delta > 0)
		assert.False(t, timing.Now.Before(timing.StartedAt))
		assert.Equal(t, timings[0].StartedAt, timing.StartedAt)
		if i > 0 {
			assert.False(t, timing.Now.Before(timings[i-1].Now))
			assert.GreaterOrEqual(t, timing.Renders, timings[i-1].Renders)
		}
	}
}

func TestSimulationDrivenByLoop(t *testing.T) {
	sim := timingtest.NewSimulation()
	var buf timingtest.SnapshotBuffer
	render := func(step time.Duration) error {
		buf.Publish(sim.Snapshot())
		return nil
	}
	loop, err := timingtest.NewLoop(render, sim.Simulate, timingtest.Hz60Delay, timingtest.Hz120Delay)
	require.Nil(t, err)
	require.Nil(t, loop.Start())
	time.Sleep(250 * time.Millisecond)
	loop.Stop(nil)
	<-loop.Done()
	require.Nil(t, loop.Err())

	snap, ok := buf.Load()
	require.True(t, ok)
	assert.True(t, snap.Ticks > 0)
	assert.True(t, snap.Highest > 0)
	assert.True(t, snap.Elapsed > 0)
	assert.True(t, snap.Degrees >= 0 && snap.Degrees < 360)

	stats := loop.Stats()
	assert.True(t, stats.Updates >= snap.Ticks)
	assert.True(t, stats.Renders > 0)
	assert.True(t, stats.SimulateFrequencyMean > 0)
}

func TestMetricPublication(t *testing.T) {
	loop, err := timingtest.NewLoop(noopRender, noopSimulate, timingtest.Hz60Delay, timingtest.Hz60Delay)
	assert.Nil(t, err)
	assert.NotNil(t, loop)
	err = loop.Start()
	assert.Nil(t, err)

	sample := <-loop.Heartbeat()

	loop.Stop(nil)
	<-loop.Done()
	assert.Nil(t, loop.Err())

	assert.NotNil(t, sample)
}
