package timingtest

// Simulation is the state behind the overlay: the reference hand and the
// rolling delta history. It is not safe for concurrent use; the loop
// goroutine owns it and hands copies out through Snapshot.
type Simulation struct {
	history     History
	accumulator Accumulator
	ticks       uint64
	renders     uint64
	elapsed     float64
}

// NewSimulation returns a simulation in its start state.
func NewSimulation() *Simulation {
	return &Simulation{
		accumulator: NewAccumulator(),
	}
}

// Update applies one fixed update tick.
func (s *Simulation) Update(t Timing) {
	s.history.Record(t.Delta.Seconds())
	s.ticks = t.Updates
	s.renders = t.Renders
	s.elapsed = t.Elapsed().Seconds()
	s.accumulator.Advance(t.FixedTimeStep.Seconds())
}

// Simulate adapts Update to the loop's SimulateFn.
func (s *Simulation) Simulate(t Timing) error {
	s.Update(t)
	return nil
}

// Snapshot copies out everything the overlay draws.
func (s *Simulation) Snapshot() Snapshot {
	mean, stdDev := s.history.Report()
	return Snapshot{
		Ticks:   s.ticks,
		Renders: s.renders,
		Elapsed: s.elapsed,
		Highest: s.history.Highest(),
		Last:    s.history.Last(),
		Degrees: s.accumulator.Degrees(),
		Budget:  s.accumulator.Budget(),
		History: s.history.Values(),
		Mean:    mean,
		StdDev:  stdDev,
	}
}
