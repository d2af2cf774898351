package board

import "time"

// DefaultInterval is the time between simulated moves.
const DefaultInterval = time.Second

// Simulation advances every player one cell per elapsed interval of driver
// time.
type Simulation struct {
	Interval time.Duration

	next    time.Duration
	started bool
}

func NewSimulation(interval time.Duration) *Simulation {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Simulation{Interval: interval}
}

// Advance fires once per interval elapsed up to now and returns the number of
// steps applied. The first call only arms the timer. Whole laps of a backlog
// are skipped since they leave every position unchanged. While the session is
// paused the timer keeps running but no steps are applied.
func (sim *Simulation) Advance(now time.Duration, s *Session) int {
	if !sim.started {
		sim.started = true
		sim.next = now + sim.Interval
		return 0
	}
	if now < sim.next {
		return 0
	}
	fired := int((now-sim.next)/sim.Interval) + 1
	sim.next += time.Duration(fired) * sim.Interval
	fired %= Cells
	if s.Paused() {
		return 0
	}
	for i := 0; i < fired; i++ {
		s.Step()
	}
	return fired
}
