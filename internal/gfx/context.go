package gfx

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrNoTarget      = errors.New("gfx: no render target")
	ErrNoProgram     = errors.New("gfx: no valid program in use")
	ErrNoBuffer      = errors.New("gfx: no buffer bound")
	ErrInvalidValue  = errors.New("gfx: invalid value")
	ErrUniformType   = errors.New("gfx: uniform type mismatch")
	ErrVertexFetch   = errors.New("gfx: vertex fetch out of buffer range")
	ErrInvalidEnum   = errors.New("gfx: invalid enum")
	ErrIndexOverflow = errors.New("gfx: index out of buffer range")
)

// Capability is a toggleable pipeline feature.
type Capability uint8

const (
	DepthTest Capability = 1 << iota
	// Blend enables SRC_ALPHA, ONE_MINUS_SRC_ALPHA blending.
	Blend
)

// ClearMask selects the buffers Clear resets.
type ClearMask uint8

const (
	ColorBufferBit ClearMask = 1 << iota
	DepthBufferBit
)

// Mode is a primitive assembly mode.
type Mode uint8

const (
	Triangles Mode = iota + 1
	TriangleStrip
)

// MaxTextureUnits is the number of texture binding points.
const MaxTextureUnits = 4

type attribState struct {
	enabled bool
	buf     *Buffer
	size    int
	stride  int
	offset  int
}

// Stats counts work done since the last color clear.
type Stats struct {
	DrawCalls int
	Triangles int
	Fragments int
}

// Context is the graphics state machine. It is not safe for concurrent use.
type Context struct {
	target Target

	vx, vy, vw, vh int

	clearColor mgl32.Vec4
	caps       Capability

	depth  []float32
	depthW int
	depthH int

	program *Program
	array   *Buffer
	element *Buffer
	attribs [MaxVertexAttribs]attribState

	activeUnit int
	units      [MaxTextureUnits]*Texture

	err   error
	stats Stats

	scratch rasterScratch
}

// NewContext creates a context drawing into t with the viewport covering t.
func NewContext(t Target) (*Context, error) {
	if t == nil {
		return nil, ErrNoTarget
	}
	c := &Context{clearColor: mgl32.Vec4{0, 0, 0, 0}}
	c.SetTarget(t)
	w, h := t.Size()
	c.Viewport(0, 0, w, h)
	return c, nil
}

// SetTarget swaps the surface. The viewport is left unchanged.
func (c *Context) SetTarget(t Target) { c.target = t }

func (c *Context) Target() Target { return c.target }

func (c *Context) record(err error) {
	if c.err == nil {
		c.err = err
	}
}

// Err returns the first error recorded by a state call since the previous Err
// call, and clears it.
func (c *Context) Err() error {
	err := c.err
	c.err = nil
	return err
}

// Viewport sets the drawing rectangle; y counts from the bottom of the target.
func (c *Context) Viewport(x, y, w, h int) {
	if w < 0 || h < 0 {
		c.record(ErrInvalidValue)
		return
	}
	c.vx, c.vy, c.vw, c.vh = x, y, w, h
}

// ViewportSize returns the current viewport width and height.
func (c *Context) ViewportSize() (w, h int) { return c.vw, c.vh }

func (c *Context) ClearColor(r, g, b, a float32) {
	c.clearColor = mgl32.Vec4{clampF32(r, 0, 1), clampF32(g, 0, 1), clampF32(b, 0, 1), clampF32(a, 0, 1)}
}

// Clear resets the selected buffers over the whole target.
func (c *Context) Clear(mask ClearMask) {
	if c.target == nil {
		c.record(ErrNoTarget)
		return
	}
	if mask&ColorBufferBit != 0 {
		c.target.Clear(ToRGBA(c.clearColor))
		c.stats = Stats{}
	}
	if mask&DepthBufferBit != 0 {
		c.ensureDepth()
		for i := range c.depth {
			c.depth[i] = 1
		}
	}
}

func (c *Context) ensureDepth() {
	w, h := c.target.Size()
	if w == c.depthW && h == c.depthH && len(c.depth) == w*h {
		return
	}
	if cap(c.depth) < w*h {
		c.depth = make([]float32, w*h)
	} else {
		c.depth = c.depth[:w*h]
	}
	for i := range c.depth {
		c.depth[i] = 1
	}
	c.depthW, c.depthH = w, h
}

func (c *Context) Enable(capability Capability)  { c.caps |= capability }
func (c *Context) Disable(capability Capability) { c.caps &^= capability }

func (c *Context) IsEnabled(capability Capability) bool { return c.caps&capability == capability }

// UseProgram installs p for subsequent draws. A nil program clears it.
func (c *Context) UseProgram(p *Program) { c.program = p }

// BindBuffer attaches b to the binding point of its target.
func (c *Context) BindBuffer(b *Buffer) {
	if b == nil {
		c.record(ErrInvalidValue)
		return
	}
	switch b.target {
	case ArrayBuffer:
		c.array = b
	case ElementArrayBuffer:
		c.element = b
	default:
		c.record(ErrInvalidEnum)
	}
}

func (c *Context) EnableVertexAttribArray(loc int) {
	if loc < 0 || loc >= MaxVertexAttribs {
		c.record(ErrInvalidValue)
		return
	}
	c.attribs[loc].enabled = true
}

func (c *Context) DisableVertexAttribArray(loc int) {
	if loc < 0 || loc >= MaxVertexAttribs {
		c.record(ErrInvalidValue)
		return
	}
	c.attribs[loc].enabled = false
}

// VertexAttribPointer points loc at the currently bound array buffer. size is
// the component count (1..4); stride and offset count float32 elements, and a
// zero stride means tightly packed.
func (c *Context) VertexAttribPointer(loc, size, stride, offset int) {
	if loc < 0 || loc >= MaxVertexAttribs || size < 1 || size > 4 || stride < 0 || offset < 0 {
		c.record(ErrInvalidValue)
		return
	}
	if c.array == nil {
		c.record(ErrNoBuffer)
		return
	}
	if stride == 0 {
		stride = size
	}
	a := &c.attribs[loc]
	a.buf = c.array
	a.size = size
	a.stride = stride
	a.offset = offset
}

// ActiveTexture selects the unit BindTexture affects.
func (c *Context) ActiveTexture(unit int) {
	if unit < 0 || unit >= MaxTextureUnits {
		c.record(ErrInvalidEnum)
		return
	}
	c.activeUnit = unit
}

func (c *Context) BindTexture(t *Texture) { c.units[c.activeUnit] = t }

func (c *Context) uniformSlot(loc int, want ...Type) *uniformSlot {
	if loc == -1 {
		return nil
	}
	if c.program == nil {
		c.record(ErrNoProgram)
		return nil
	}
	s := c.program.values.slot(loc)
	if s == nil {
		c.record(ErrInvalidValue)
		return nil
	}
	for _, t := range want {
		if s.typ == t {
			return s
		}
	}
	c.record(ErrUniformType)
	return nil
}

func (c *Context) UniformMatrix4fv(loc int, m mgl32.Mat4) {
	if s := c.uniformSlot(loc, TypeMat4); s != nil {
		s.v = [16]float32(m)
	}
}

func (c *Context) Uniform1i(loc int, v int32) {
	if s := c.uniformSlot(loc, TypeInt, TypeBool, TypeSampler2D); s != nil {
		s.i = v
	}
}

func (c *Context) Uniform1f(loc int, v float32) {
	if s := c.uniformSlot(loc, TypeFloat); s != nil {
		s.v[0] = v
	}
}

func (c *Context) Uniform3fv(loc int, v mgl32.Vec3) {
	if s := c.uniformSlot(loc, TypeVec3); s != nil {
		copy(s.v[:3], v[:])
	}
}

func (c *Context) Uniform4fv(loc int, v mgl32.Vec4) {
	if s := c.uniformSlot(loc, TypeVec4); s != nil {
		copy(s.v[:4], v[:])
	}
}

// Stats returns counters accumulated since the last color clear.
func (c *Context) Stats() Stats { return c.stats }

// DrawArrays draws count consecutive vertices starting at first.
func (c *Context) DrawArrays(mode Mode, first, count int) error {
	if first < 0 || count < 0 {
		return ErrInvalidValue
	}
	return c.draw(mode, count, func(i int) int { return first + i })
}

// DrawElements draws count indices read from the bound element buffer,
// starting at offset (in indices).
func (c *Context) DrawElements(mode Mode, count, offset int) error {
	if count < 0 || offset < 0 {
		return ErrInvalidValue
	}
	if c.element == nil {
		return ErrNoBuffer
	}
	idx := c.element.indices
	if offset+count > len(idx) {
		return ErrIndexOverflow
	}
	return c.draw(mode, count, func(i int) int { return int(idx[offset+i]) })
}
