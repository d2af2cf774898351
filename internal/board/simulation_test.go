package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSimulationTicks(t *testing.T) {
	s := NewSession(DefaultPlayers(), nil)
	sim := NewSimulation(time.Second)

	assert.Equal(t, 0, sim.Advance(0, s))
	assert.Equal(t, 0, sim.Advance(999*time.Millisecond, s))
	assert.Equal(t, []int{1, 10, 20}, s.Positions())

	assert.Equal(t, 1, sim.Advance(time.Second, s))
	assert.Equal(t, []int{2, 11, 21}, s.Positions())

	assert.Equal(t, 0, sim.Advance(1500*time.Millisecond, s))
	assert.Equal(t, 2, sim.Advance(3*time.Second, s))
	assert.Equal(t, []int{4, 13, 23}, s.Positions())
}

func TestSimulationCatchUpWholeLaps(t *testing.T) {
	s := NewSession(DefaultPlayers(), nil)
	sim := NewSimulation(time.Second)
	sim.Advance(0, s)
	// 3600 intervals are 90 whole laps.
	assert.Equal(t, 0, sim.Advance(time.Hour, s))
	assert.Equal(t, []int{1, 10, 20}, s.Positions())
	assert.Equal(t, 0, sim.Advance(time.Hour+500*time.Millisecond, s))
	assert.Equal(t, 1, sim.Advance(time.Hour+time.Second, s))
}

func TestSimulationBacklogKeepsRemainder(t *testing.T) {
	for _, tc := range []struct {
		stall time.Duration
		steps int
		want  []int
	}{
		{41 * time.Second, 1, []int{2, 11, 21}},
		{45 * time.Second, 5, []int{6, 15, 25}},
		{85 * time.Second, 5, []int{6, 15, 25}},
	} {
		s := NewSession(DefaultPlayers(), nil)
		sim := NewSimulation(time.Second)
		sim.Advance(0, s)
		assert.Equal(t, tc.steps, sim.Advance(tc.stall, s), "stall %v", tc.stall)
		assert.Equal(t, tc.want, s.Positions(), "stall %v", tc.stall)
	}
}

func TestSimulationPaused(t *testing.T) {
	s := NewSession(DefaultPlayers(), nil)
	sim := NewSimulation(0)
	assert.Equal(t, DefaultInterval, sim.Interval)
	sim.Advance(0, s)

	s.SetPaused(true)
	assert.Equal(t, 0, sim.Advance(5*time.Second, s))
	assert.Equal(t, []int{1, 10, 20}, s.Positions())

	s.SetPaused(false)
	assert.Equal(t, 0, sim.Advance(5500*time.Millisecond, s), "intervals elapsed while paused are dropped")
	assert.Equal(t, 1, sim.Advance(6*time.Second, s))
}
