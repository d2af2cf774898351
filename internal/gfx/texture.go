package gfx

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
)

// Filter selects how a texture is sampled.
type Filter uint8

const (
	FilterLinear Filter = iota
	FilterNearest
	// FilterLinearMipmapNearest samples linearly from the nearest mip level.
	// It is only valid as a minification filter.
	FilterLinearMipmapNearest
)

// ParseFilter maps a config name to a minification filter.
func ParseFilter(name string) (Filter, bool) {
	switch name {
	case "", "linear":
		return FilterLinear, true
	case "nearest":
		return FilterNearest, true
	case "mipmap":
		return FilterLinearMipmapNearest, true
	}
	return 0, false
}

var incompleteSample = mgl32.Vec4{0, 0, 0, 1}

// Texture is a 2D texture with an optional mip chain. Texels are stored
// non-premultiplied; coordinates clamp to the edge.
type Texture struct {
	MinFilter Filter
	MagFilter Filter

	levels []*image.NRGBA
}

// NewTexture returns an empty (incomplete) texture with linear filtering.
func NewTexture() *Texture {
	return &Texture{MinFilter: FilterLinear, MagFilter: FilterLinear}
}

// SetImage replaces level 0 with a copy of img and drops the mip chain.
func (t *Texture) SetImage(img image.Image) {
	if img == nil {
		t.levels = nil
		return
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	t.levels = []*image.NRGBA{dst}
}

// GenerateMipmap builds the chain of half-size levels down to 1×1.
func (t *Texture) GenerateMipmap() {
	if len(t.levels) == 0 {
		return
	}
	t.levels = t.levels[:1]
	src := t.levels[0]
	for {
		w, h := src.Bounds().Dx(), src.Bounds().Dy()
		if w <= 1 && h <= 1 {
			return
		}
		dst := image.NewNRGBA(image.Rect(0, 0, max(w/2, 1), max(h/2, 1)))
		draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		t.levels = append(t.levels, dst)
		src = dst
	}
}

// Levels returns the number of uploaded levels including level 0.
func (t *Texture) Levels() int { return len(t.levels) }

// Size returns the size of level 0.
func (t *Texture) Size() (w, h int) {
	if len(t.levels) == 0 {
		return 0, 0
	}
	b := t.levels[0].Bounds()
	return b.Dx(), b.Dy()
}

// Complete reports whether sampling returns texel data.
func (t *Texture) Complete() bool {
	if t == nil || len(t.levels) == 0 {
		return false
	}
	if t.MinFilter == FilterLinearMipmapNearest {
		w, h := t.Size()
		want := 1 + int(math.Log2(float64(max(w, h))))
		return len(t.levels) >= want
	}
	return true
}

// sample returns the filtered texel at (u, v). lod is log2 of texels per
// pixel at level 0; lod <= 0 is magnification.
func (t *Texture) sample(u, v, lod float32) mgl32.Vec4 {
	if !t.Complete() {
		return incompleteSample
	}
	if lod <= 0 {
		if t.MagFilter == FilterNearest {
			return sampleNearest(t.levels[0], u, v)
		}
		return sampleBilinear(t.levels[0], u, v)
	}
	switch t.MinFilter {
	case FilterNearest:
		return sampleNearest(t.levels[0], u, v)
	case FilterLinearMipmapNearest:
		level := int(lod + 0.5)
		if level >= len(t.levels) {
			level = len(t.levels) - 1
		}
		return sampleBilinear(t.levels[level], u, v)
	default:
		return sampleBilinear(t.levels[0], u, v)
	}
}

func texel(img *image.NRGBA, x, y int) mgl32.Vec4 {
	b := img.Bounds()
	x = min(max(x, 0), b.Dx()-1)
	y = min(max(y, 0), b.Dy()-1)
	off := y*img.Stride + x*4
	p := img.Pix[off : off+4 : off+4]
	return mgl32.Vec4{float32(p[0]) / 255, float32(p[1]) / 255, float32(p[2]) / 255, float32(p[3]) / 255}
}

func sampleNearest(img *image.NRGBA, u, v float32) mgl32.Vec4 {
	b := img.Bounds()
	x := int(math.Floor(float64(clampF32(u, 0, 1) * float32(b.Dx()))))
	y := int(math.Floor(float64(clampF32(v, 0, 1) * float32(b.Dy()))))
	return texel(img, x, y)
}

func sampleBilinear(img *image.NRGBA, u, v float32) mgl32.Vec4 {
	b := img.Bounds()
	fx := clampF32(u, 0, 1)*float32(b.Dx()) - 0.5
	fy := clampF32(v, 0, 1)*float32(b.Dy()) - 0.5
	x0 := int(math.Floor(float64(fx)))
	y0 := int(math.Floor(float64(fy)))
	ax := fx - float32(x0)
	ay := fy - float32(y0)

	c00 := texel(img, x0, y0)
	c10 := texel(img, x0+1, y0)
	c01 := texel(img, x0, y0+1)
	c11 := texel(img, x0+1, y0+1)

	top := c00.Mul(1 - ax).Add(c10.Mul(ax))
	bottom := c01.Mul(1 - ax).Add(c11.Mul(ax))
	return top.Mul(1 - ay).Add(bottom.Mul(ay))
}
