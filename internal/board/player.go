package board

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Player is a token on the track.
type Player struct {
	ID       int
	Position int        // 1..Cells
	Color    mgl32.Vec3 // channels in [0,1]
}

// DefaultPlayers returns the built-in roster: red, green and blue tokens at
// positions 1, 10 and 20.
func DefaultPlayers() []Player {
	return []Player{
		{ID: 1, Position: 1, Color: mgl32.Vec3{1, 0, 0}},
		{ID: 2, Position: 10, Color: mgl32.Vec3{0, 1, 0}},
		{ID: 3, Position: 20, Color: mgl32.Vec3{0, 0, 1}},
	}
}

// Advance returns the position one step further along the track. Position 40
// wraps to 1, never to 0.
func Advance(position int) int {
	return ((position%Cells)+Cells)%Cells + 1
}

// Step advances every player by one position.
func Step(players []Player) {
	for i := range players {
		players[i].Position = Advance(players[i].Position)
	}
}

// Validate reports the first out-of-range field of p.
func (p Player) Validate() error {
	if p.Position < 1 || p.Position > Cells {
		return fmt.Errorf("player %d: position %d outside 1..%d", p.ID, p.Position, Cells)
	}
	for i, ch := range p.Color {
		if ch < 0 || ch > 1 {
			return fmt.Errorf("player %d: color channel %d = %v outside [0,1]", p.ID, i, ch)
		}
	}
	return nil
}

func formatPositions(players []Player) string {
	var b strings.Builder
	for i, p := range players {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d@%d", p.ID, p.Position)
	}
	return b.String()
}
