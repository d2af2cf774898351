package board

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// DefaultImageSize is the edge length of the generated board image.
const DefaultImageSize = 256

var (
	feltColor   = color.NRGBA{R: 0xc8, G: 0xe6, B: 0xc9, A: 0xff}
	borderColor = color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
	cornerColor = color.NRGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xff}
	groupColors = [8]color.NRGBA{
		{R: 0x8b, G: 0x45, B: 0x13, A: 0xff},
		{R: 0x87, G: 0xce, B: 0xeb, A: 0xff},
		{R: 0xda, G: 0x70, B: 0xd6, A: 0xff},
		{R: 0xff, G: 0xa5, B: 0x00, A: 0xff},
		{R: 0xff, G: 0x00, B: 0x00, A: 0xff},
		{R: 0xff, G: 0xff, B: 0x00, A: 0xff},
		{R: 0x00, G: 0x80, B: 0x00, A: 0xff},
		{R: 0x00, G: 0x00, B: 0xcd, A: 0xff},
	}
)

// CellColor returns the fill of a track cell in the generated board image.
// Corner cells are gray; the rest fall into eight groups of five.
func CellColor(p int) color.NRGBA {
	if (p-1)%CellsPerSide == 0 {
		return cornerColor
	}
	return groupColors[((p-1)/5)%len(groupColors)]
}

// DefaultImage draws a board image of px×px pixels for a board of the given
// half-extent, with every track cell centered on its Position.
func DefaultImage(px int, size float32) *image.NRGBA {
	if px <= 0 {
		px = DefaultImageSize
	}
	if size <= 0 {
		size = DefaultBoardSize
	}
	img := image.NewNRGBA(image.Rect(0, 0, px, px))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: feltColor}, image.Point{}, draw.Src)

	toPixel := func(w float32) int {
		return int((w/size + 1) / 2 * float32(px))
	}
	half := CellStep / 2
	for p := 1; p <= Cells; p++ {
		c := Position(p)
		outer := image.Rect(toPixel(c.X()-half), toPixel(c.Z()-half), toPixel(c.X()+half), toPixel(c.Z()+half))
		draw.Draw(img, outer, &image.Uniform{C: borderColor}, image.Point{}, draw.Src)
		inner := outer.Inset(max(1, outer.Dx()/12))
		draw.Draw(img, inner, &image.Uniform{C: CellColor(p)}, image.Point{}, draw.Src)
	}
	return img
}
