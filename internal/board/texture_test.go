package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultImageCells(t *testing.T) {
	const px = 200
	img := DefaultImage(px, DefaultBoardSize)
	assert.Equal(t, px, img.Bounds().Dx())

	for p := 1; p <= Cells; p++ {
		c := Position(p)
		x := int((c.X()/DefaultBoardSize + 1) / 2 * px)
		y := int((c.Z()/DefaultBoardSize + 1) / 2 * px)
		assert.Equal(t, CellColor(p), img.NRGBAAt(x, y), "cell %d", p)
	}
	assert.Equal(t, feltColor, img.NRGBAAt(px/2, px/2))
}

func TestCellColorCorners(t *testing.T) {
	for _, p := range []int{1, 11, 21, 31} {
		assert.Equal(t, cornerColor, CellColor(p))
	}
	assert.Equal(t, CellColor(2), CellColor(3))
	assert.NotEqual(t, CellColor(5), CellColor(6))
}
