package timingtest

import "math"

// DegreePeriod is the real time, in seconds, the reference hand takes
// to move one degree. 360 of them make a revolution of about one second.
const DegreePeriod = 0.0027778

// Accumulator turns fixed simulation steps into a hand angle that moves
// at a constant real-time rate no matter how often it is stepped.
type Accumulator struct {
	degrees float64
	budget  float64
}

// NewAccumulator returns an accumulator at 0 degrees with a full budget.
func NewAccumulator() Accumulator {
	return Accumulator{
		degrees: 0,
		budget:  DegreePeriod,
	}
}

// Advance spends step seconds of budget. Every time the budget goes
// negative it is topped up by DegreePeriod and the hand moves a degree,
// so one large step may move the hand many degrees. The top-ups are
// computed in one go, so the cost does not grow with the step.
func (a *Accumulator) Advance(step float64) {
	a.budget -= step
	if a.budget >= 0 {
		return
	}
	n := math.Ceil(-a.budget / DegreePeriod)
	a.budget += n * DegreePeriod
	if a.budget < 0 {
		// Rounding left us a hair short of zero.
		n++
		a.budget += DegreePeriod
	}
	if a.budget >= DegreePeriod {
		// Steps far larger than the period lose the budget's low bits.
		a.budget = math.Mod(a.budget, DegreePeriod)
	}
	a.degrees = math.Mod(a.degrees+n, 360)
}

// Degrees is the hand angle in [0, 360).
func (a *Accumulator) Degrees() float64 {
	return a.degrees
}

// Budget is the time left before the next degree.
func (a *Accumulator) Budget() float64 {
	return a.budget
}
