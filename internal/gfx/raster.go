package gfx

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type clipVertex struct {
	pos  mgl32.Vec4
	vary []float32
}

type screenVertex struct {
	x, y float32
	z    float32 // window depth in [0,1]
	iw   float32
}

type rasterScratch struct {
	attribs []mgl32.Vec4
	verts   []clipVertex
	vary    []float32
	poly    []clipVertex
	frag    []float32
	ddx     []float32
	ddy     []float32
}

func (s *rasterScratch) reset(attribs, count, width int) {
	if cap(s.attribs) < attribs {
		s.attribs = make([]mgl32.Vec4, attribs)
	}
	s.attribs = s.attribs[:attribs]
	if cap(s.vary) < count*width {
		s.vary = make([]float32, count*width)
	}
	s.vary = s.vary[:count*width]
	clear(s.vary)
	s.verts = s.verts[:0]
	if cap(s.frag) < width {
		s.frag = make([]float32, width)
		s.ddx = make([]float32, width)
		s.ddy = make([]float32, width)
	}
	s.frag = s.frag[:width]
	s.ddx = s.ddx[:width]
	s.ddy = s.ddy[:width]
}

// FragmentInput is what a fragment kernel reads for one fragment.
type FragmentInput struct {
	// Varyings holds the perspective-correct interpolated varying block.
	Varyings []float32
	Uniforms *Uniforms

	ctx *Context
	ddx []float32
	ddy []float32
}

// Texture2D samples the texture bound to unit at the vec2 varying that
// starts at offset coord. Incomplete or unbound textures sample opaque black.
func (in *FragmentInput) Texture2D(unit int32, coord int) mgl32.Vec4 {
	if in.ctx == nil || unit < 0 || int(unit) >= MaxTextureUnits || coord < 0 || coord+1 >= len(in.Varyings) {
		return incompleteSample
	}
	t := in.ctx.units[unit]
	if !t.Complete() {
		return incompleteSample
	}
	tw, th := t.Size()
	dx := math.Hypot(float64(in.ddx[coord]*float32(tw)), float64(in.ddx[coord+1]*float32(th)))
	dy := math.Hypot(float64(in.ddy[coord]*float32(tw)), float64(in.ddy[coord+1]*float32(th)))
	lod := float32(-1)
	if rho := math.Max(dx, dy); rho > 0 {
		lod = float32(math.Log2(rho))
	}
	return t.sample(in.Varyings[coord], in.Varyings[coord+1], lod)
}

func (c *Context) draw(mode Mode, count int, index func(i int) int) error {
	if c.target == nil {
		return ErrNoTarget
	}
	p := c.program
	if p == nil {
		return ErrNoProgram
	}
	if mode != Triangles && mode != TriangleStrip {
		return ErrInvalidEnum
	}
	c.stats.DrawCalls++
	if count < 3 {
		return nil
	}
	c.ensureDepth()

	s := &c.scratch
	s.reset(p.Attribs(), count, p.width)

	in := VertexInput{Attribs: s.attribs, Uniforms: &p.values}
	for i := 0; i < count; i++ {
		if err := c.fetch(index(i), in.Attribs); err != nil {
			return err
		}
		vary := s.vary[i*p.width : (i+1)*p.width : (i+1)*p.width]
		out := VertexOutput{Varyings: vary}
		p.vs.Vertex(&in, &out)
		s.verts = append(s.verts, clipVertex{pos: out.Position, vary: vary})
	}

	v := s.verts
	switch mode {
	case Triangles:
		for i := 0; i+2 < count; i += 3 {
			c.triangle(p, v[i], v[i+1], v[i+2])
		}
	case TriangleStrip:
		for i := 2; i < count; i++ {
			if i%2 == 0 {
				c.triangle(p, v[i-2], v[i-1], v[i])
			} else {
				c.triangle(p, v[i-1], v[i-2], v[i])
			}
		}
	}
	return nil
}

func (c *Context) fetch(vertex int, dst []mgl32.Vec4) error {
	for loc := range dst {
		v := mgl32.Vec4{0, 0, 0, 1}
		a := &c.attribs[loc]
		if a.enabled {
			if a.buf == nil {
				return ErrNoBuffer
			}
			base := a.offset + vertex*a.stride
			if vertex < 0 || base+a.size > len(a.buf.floats) {
				return ErrVertexFetch
			}
			copy(v[:a.size], a.buf.floats[base:base+a.size])
		}
		dst[loc] = v
	}
	return nil
}

// nearDist is positive on the visible side of the near plane (z >= -w).
func nearDist(v clipVertex) float32 { return v.pos[2] + v.pos[3] }

func (c *Context) triangle(p *Program, v0, v1, v2 clipVertex) {
	c.stats.Triangles++
	d0, d1, d2 := nearDist(v0), nearDist(v1), nearDist(v2)
	if d0 >= 0 && d1 >= 0 && d2 >= 0 {
		c.raster(p, v0, v1, v2)
		return
	}
	if d0 < 0 && d1 < 0 && d2 < 0 {
		return
	}

	in := [3]clipVertex{v0, v1, v2}
	poly := c.scratch.poly[:0]
	for i := 0; i < 3; i++ {
		cur, next := in[i], in[(i+1)%3]
		dc, dn := nearDist(cur), nearDist(next)
		if dc >= 0 {
			poly = append(poly, cur)
		}
		if (dc >= 0) != (dn >= 0) {
			poly = append(poly, lerpVertex(cur, next, dc/(dc-dn)))
		}
	}
	c.scratch.poly = poly
	for i := 1; i+1 < len(poly); i++ {
		c.raster(p, poly[0], poly[i], poly[i+1])
	}
}

func lerpVertex(a, b clipVertex, t float32) clipVertex {
	out := clipVertex{
		pos:  a.pos.Add(b.pos.Sub(a.pos).Mul(t)),
		vary: make([]float32, len(a.vary)),
	}
	for k := range out.vary {
		out.vary[k] = a.vary[k] + (b.vary[k]-a.vary[k])*t
	}
	return out
}

func (c *Context) toScreen(v clipVertex, targetH int) (screenVertex, bool) {
	w := v.pos[3]
	if w <= 0 {
		return screenVertex{}, false
	}
	iw := 1 / w
	nx, ny, nz := v.pos[0]*iw, v.pos[1]*iw, v.pos[2]*iw
	return screenVertex{
		x:  float32(c.vx) + (nx*0.5+0.5)*float32(c.vw),
		y:  float32(targetH) - (float32(c.vy) + (ny*0.5+0.5)*float32(c.vh)),
		z:  nz*0.5 + 0.5,
		iw: iw,
	}, true
}

func edgeFn(a, b screenVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// covers applies the top-left rule: a sample exactly on edge a→b belongs to
// the triangle only if the edge is a top or left edge, so pixels on an edge
// shared by two triangles are drawn once.
func covers(e float32, a, b screenVertex) bool {
	if e != 0 {
		return e > 0
	}
	dx, dy := b.x-a.x, b.y-a.y
	return dy < 0 || (dy == 0 && dx > 0)
}

func (c *Context) raster(p *Program, v0, v1, v2 clipVertex) {
	tw, th := c.target.Size()
	s0, ok0 := c.toScreen(v0, th)
	s1, ok1 := c.toScreen(v1, th)
	s2, ok2 := c.toScreen(v2, th)
	if !ok0 || !ok1 || !ok2 {
		return
	}

	area := edgeFn(s0, s1, s2.x, s2.y)
	if area == 0 {
		return
	}
	if area < 0 {
		s1, s2 = s2, s1
		v1, v2 = v2, v1
		area = -area
	}
	invArea := 1 / area

	left := max(c.vx, 0)
	right := min(c.vx+c.vw, tw)
	top := max(th-(c.vy+c.vh), 0)
	bottom := min(th-c.vy, th)

	minX := max(int(math.Floor(float64(min(s0.x, s1.x, s2.x)))), left)
	maxX := min(int(math.Ceil(float64(max(s0.x, s1.x, s2.x)))), right-1)
	minY := max(int(math.Floor(float64(min(s0.y, s1.y, s2.y)))), top)
	maxY := min(int(math.Ceil(float64(max(s0.y, s1.y, s2.y)))), bottom-1)
	if minX > maxX || minY > maxY {
		return
	}

	s := &c.scratch
	for k := range s.ddx {
		a, b, d := v0.vary[k], v1.vary[k], v2.vary[k]
		s.ddx[k] = ((b-a)*(s2.y-s0.y) - (d-a)*(s1.y-s0.y)) * invArea
		s.ddy[k] = ((d-a)*(s1.x-s0.x) - (b-a)*(s2.x-s0.x)) * invArea
	}

	depthTest := c.IsEnabled(DepthTest)
	blend := c.IsEnabled(Blend)
	in := FragmentInput{Varyings: s.frag, Uniforms: &p.values, ctx: c, ddx: s.ddx, ddy: s.ddy}

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			e0 := edgeFn(s1, s2, px, py)
			e1 := edgeFn(s2, s0, px, py)
			e2 := edgeFn(s0, s1, px, py)
			if !covers(e0, s1, s2) || !covers(e1, s2, s0) || !covers(e2, s0, s1) {
				continue
			}
			b0, b1, b2 := e0*invArea, e1*invArea, e2*invArea
			z := b0*s0.z + b1*s1.z + b2*s2.z
			if z < 0 || z > 1 {
				continue
			}
			di := y*tw + x
			if depthTest && z >= c.depth[di] {
				continue
			}

			q0, q1, q2 := b0*s0.iw, b1*s1.iw, b2*s2.iw
			q := q0 + q1 + q2
			q0, q1, q2 = q0/q, q1/q, q2/q
			for k := range s.frag {
				s.frag[k] = q0*v0.vary[k] + q1*v1.vary[k] + q2*v2.vary[k]
			}

			col, discard := p.fs.Fragment(&in)
			if discard {
				continue
			}
			if depthTest {
				c.depth[di] = z
			}
			if blend {
				a := clampF32(col[3], 0, 1)
				dst := FromRGBA(c.target.Pixel(x, y))
				col = col.Mul(a).Add(dst.Mul(1 - a))
			}
			c.target.SetPixel(x, y, ToRGBA(col))
			c.stats.Fragments++
		}
	}
}
