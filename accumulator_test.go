package timingtest_test

import (
	"testing"
	"time"

	"github.com/erinpentecost/timingtest"
	"github.com/stretchr/testify/assert"
)

const budgetDelta = 1e-9

func TestAccumulatorStartState(t *testing.T) {
	acc := timingtest.NewAccumulator()
	assert.Equal(t, 0.0, acc.Degrees())
	assert.Equal(t, timingtest.DegreePeriod, acc.Budget())
}

func TestAccumulatorSingleDegree(t *testing.T) {
	acc := timingtest.NewAccumulator()
	// Spending the initial budget exactly lands on zero without moving.
	acc.Advance(timingtest.DegreePeriod)
	assert.Equal(t, 0.0, acc.Degrees())
	assert.InDelta(t, 0.0, acc.Budget(), budgetDelta)

	acc.Advance(timingtest.DegreePeriod)
	assert.Equal(t, 1.0, acc.Degrees())
	assert.InDelta(t, 0.0, acc.Budget(), budgetDelta)
}

func TestAccumulatorMultiDegreeCarry(t *testing.T) {
	acc := timingtest.NewAccumulator()
	acc.Advance(timingtest.DegreePeriod / 2)
	assert.Equal(t, 0.0, acc.Degrees())

	acc.Advance(10 * timingtest.DegreePeriod)
	assert.Equal(t, 10.0, acc.Degrees())
	assert.InDelta(t, timingtest.DegreePeriod/2, acc.Budget(), budgetDelta)
}

func TestAccumulatorPartialStep(t *testing.T) {
	acc := timingtest.NewAccumulator()
	acc.Advance(0.01)
	assert.Equal(t, 3.0, acc.Degrees())
	assert.InDelta(t, 4*timingtest.DegreePeriod-0.01, acc.Budget(), budgetDelta)
}

func TestAccumulatorZeroStep(t *testing.T) {
	acc := timingtest.NewAccumulator()
	acc.Advance(0)
	assert.Equal(t, 0.0, acc.Degrees())
	assert.Equal(t, timingtest.DegreePeriod, acc.Budget())
}

func TestAccumulatorWraparound(t *testing.T) {
	acc := timingtest.NewAccumulator()
	acc.Advance(timingtest.DegreePeriod / 2)
	for i := 0; i < 359; i++ {
		acc.Advance(timingtest.DegreePeriod)
	}
	assert.Equal(t, 359.0, acc.Degrees())

	acc.Advance(timingtest.DegreePeriod)
	assert.Equal(t, 0.0, acc.Degrees())
}

func TestAccumulatorStaysInRange(t *testing.T) {
	acc := timingtest.NewAccumulator()
	steps := []float64{0, 0.001, 0.0083333, 0.0166667, 0.05, 0.25, 1.3, 0.0027778, 2.9}
	for i := 0; i < 500; i++ {
		acc.Advance(steps[i%len(steps)])
		assert.GreaterOrEqual(t, acc.Degrees(), 0.0)
		assert.Less(t, acc.Degrees(), 360.0)
		assert.GreaterOrEqual(t, acc.Budget(), 0.0)
		assert.Less(t, acc.Budget(), timingtest.DegreePeriod+budgetDelta)
	}
}

func TestAccumulatorOneRevolutionPerSecond(t *testing.T) {
	acc := timingtest.NewAccumulator()
	// 120 fixed steps of 1/120s is one second of real time.
	for i := 0; i < 120; i++ {
		acc.Advance(1.0 / 120)
	}
	// A full turn takes 360*DegreePeriod, a hair over one second.
	assert.InDelta(t, 359.0, acc.Degrees(), 1)
}

func TestAccumulatorHugeStep(t *testing.T) {
	acc := timingtest.NewAccumulator()
	done := make(chan struct{})
	go func() {
		defer close(done)
		acc.Advance(1e17)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Advance did not return")
	}
	assert.GreaterOrEqual(t, acc.Degrees(), 0.0)
	assert.Less(t, acc.Degrees(), 360.0)
	assert.Equal(t, acc.Degrees(), float64(int(acc.Degrees())))
	assert.GreaterOrEqual(t, acc.Budget(), 0.0)
	assert.Less(t, acc.Budget(), timingtest.DegreePeriod)
}

func TestAccumulatorLargeStepMatchesSmallSteps(t *testing.T) {
	big := timingtest.NewAccumulator()
	small := timingtest.NewAccumulator()
	// Start half a period off the boundary so rounding can't tip a degree.
	big.Advance(timingtest.DegreePeriod / 2)
	small.Advance(timingtest.DegreePeriod / 2)
	big.Advance(1000 * timingtest.DegreePeriod)
	for i := 0; i < 1000; i++ {
		small.Advance(timingtest.DegreePeriod)
	}
	assert.Equal(t, 280.0, big.Degrees())
	assert.Equal(t, small.Degrees(), big.Degrees())
	assert.InDelta(t, small.Budget(), big.Budget(), budgetDelta)
}
