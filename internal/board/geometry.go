package board

const (
	// DefaultBoardSize is the half-extent of the board plane.
	DefaultBoardSize float32 = 0.95

	// BoardVertexStride is the float count of one board vertex (xyz + uv).
	BoardVertexStride = 5

	// TokenHalfWidth is the half-extent of a token along x and z.
	TokenHalfWidth float32 = 0.05
	// TokenHeight is the height of a token above its resting point.
	TokenHeight float32 = 0.1
	// TokenIndexCount is the length of TokenIndices.
	TokenIndexCount = 36
)

// BoardVertices returns the board plane as a 4-vertex triangle strip, a unit
// square scaled by size with texture coordinates at the corners.
func BoardVertices(size float32) []float32 {
	s := size
	return []float32{
		-s, 0, -s, 0, 0,
		s, 0, -s, 1, 0,
		-s, 0, s, 0, 1,
		s, 0, s, 1, 1,
	}
}

// TokenVertices returns the 8 corners of a token cuboid resting on y=0.
func TokenVertices() []float32 {
	w, h := TokenHalfWidth, TokenHeight
	return []float32{
		// front (z+)
		-w, 0, w, // 0
		w, 0, w, // 1
		w, h, w, // 2
		-w, h, w, // 3
		// back (z-)
		-w, 0, -w, // 4
		w, 0, -w, // 5
		w, h, -w, // 6
		-w, h, -w, // 7
	}
}

// TokenIndices returns 12 triangles, two per face, counter-clockwise seen
// from outside the cuboid.
func TokenIndices() []uint16 {
	return []uint16{
		0, 1, 2, 0, 2, 3, // front
		5, 4, 7, 5, 7, 6, // back
		4, 0, 3, 4, 3, 7, // left
		1, 5, 6, 1, 6, 2, // right
		3, 2, 6, 3, 6, 7, // top
		4, 5, 1, 4, 1, 0, // bottom
	}
}
