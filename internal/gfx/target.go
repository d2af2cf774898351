package gfx

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Target is a pixel surface the context draws into.
//
// Implementations should ignore out-of-bounds coordinates.
type Target interface {
	Size() (w, h int)
	SetPixel(x, y int, c color.RGBA)
	Pixel(x, y int) color.RGBA
	Clear(c color.RGBA)
}

// RGBATarget renders into an RGBA8888 buffer, row 0 at the top.
//
// Callers provide the backing buffer and layout (stride).
type RGBATarget struct {
	Pix    []byte
	Stride int // bytes per row
	W      int
	H      int
}

// NewRGBATarget allocates a tightly packed w×h target.
func NewRGBATarget(w, h int) *RGBATarget {
	return &RGBATarget{Pix: make([]byte, w*h*4), Stride: w * 4, W: w, H: h}
}

func (t *RGBATarget) Size() (w, h int) { return t.W, t.H }

func (t *RGBATarget) valid() bool {
	return t != nil && t.Pix != nil && t.Stride > 0 && t.W > 0 && t.H > 0
}

func (t *RGBATarget) offset(x, y int) int {
	if x < 0 || y < 0 || x >= t.W || y >= t.H {
		return -1
	}
	off := y*t.Stride + x*4
	if off+3 >= len(t.Pix) {
		return -1
	}
	return off
}

func (t *RGBATarget) Clear(c color.RGBA) {
	if !t.valid() {
		return
	}
	for y := 0; y < t.H; y++ {
		for x := 0; x < t.W; x++ {
			off := t.offset(x, y)
			if off < 0 {
				continue
			}
			t.Pix[off+0] = c.R
			t.Pix[off+1] = c.G
			t.Pix[off+2] = c.B
			t.Pix[off+3] = c.A
		}
	}
}

func (t *RGBATarget) SetPixel(x, y int, c color.RGBA) {
	if !t.valid() {
		return
	}
	off := t.offset(x, y)
	if off < 0 {
		return
	}
	t.Pix[off+0] = c.R
	t.Pix[off+1] = c.G
	t.Pix[off+2] = c.B
	t.Pix[off+3] = c.A
}

func (t *RGBATarget) Pixel(x, y int) color.RGBA {
	if !t.valid() {
		return color.RGBA{}
	}
	off := t.offset(x, y)
	if off < 0 {
		return color.RGBA{}
	}
	return color.RGBA{R: t.Pix[off], G: t.Pix[off+1], B: t.Pix[off+2], A: t.Pix[off+3]}
}

// ToRGBA quantizes a [0,1] float color.
func ToRGBA(c mgl32.Vec4) color.RGBA {
	return color.RGBA{R: unorm8(c[0]), G: unorm8(c[1]), B: unorm8(c[2]), A: unorm8(c[3])}
}

// FromRGBA expands an 8-bit color to [0,1] floats.
func FromRGBA(c color.RGBA) mgl32.Vec4 {
	return mgl32.Vec4{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}

func unorm8(v float32) uint8 {
	return uint8(clampF32(v, 0, 1)*255 + 0.5)
}

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
