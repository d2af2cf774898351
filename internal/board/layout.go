package board

import "github.com/go-gl/mathgl/mgl32"

const (
	// Cells is the number of positions on the track.
	Cells = 40
	// CellsPerSide is the number of steps along one edge.
	CellsPerSide = Cells / 4
	// TrackHalfExtent is the half-size of the square the track runs around.
	TrackHalfExtent float32 = 0.8
	// CellStep is the world distance between consecutive positions.
	CellStep = 2 * TrackHalfExtent / CellsPerSide
)

// Position maps a board-space position (1..40) to the world point a token
// rests on. The track runs clockwise seen from above: south edge west to east,
// east edge south to north, north edge east to west, west edge north to south.
// Every side starts at its corner, so consecutive positions (40→1 included)
// are exactly one CellStep apart along a single axis.
//
// Out-of-range positions map to the origin.
func Position(p int) mgl32.Vec3 {
	if p < 1 || p > Cells {
		return mgl32.Vec3{}
	}
	side := (p - 1) / CellsPerSide
	step := float32((p-1)%CellsPerSide) * CellStep
	h := TrackHalfExtent
	switch side {
	case 0:
		return mgl32.Vec3{-h + step, 0, -h}
	case 1:
		return mgl32.Vec3{h, 0, -h + step}
	case 2:
		return mgl32.Vec3{h - step, 0, h}
	default:
		return mgl32.Vec3{-h, 0, h - step}
	}
}
