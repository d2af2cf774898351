package gfx

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxVertexAttribs is the number of attribute locations a program may use.
const MaxVertexAttribs = 8

// LinkError reports an incompatible stage pair.
type LinkError struct {
	Msg string
}

func (e *LinkError) Error() string { return "link: " + e.Msg }

// InfoLog returns the diagnostic in the usual driver log format.
func (e *LinkError) InfoLog() string { return "ERROR: " + e.Msg }

// Program is a linked vertex/fragment pair with assigned locations.
type Program struct {
	attribs  []Decl
	uniforms []Decl
	varyings []Decl
	offsets  []int
	width    int

	vs VertexKernel
	fs FragmentKernel

	values Uniforms
}

// LinkProgram validates vs and fs against each other and assigns locations.
//
// Attribute and uniform locations follow declaration order, vertex stage
// first. Each kernel's Link runs last; a kernel error fails the link.
func LinkProgram(vs, fs *Shader) (*Program, error) {
	if vs == nil || vs.kind != VertexShader {
		return nil, &LinkError{Msg: "missing vertex shader"}
	}
	if fs == nil || fs.kind != FragmentShader {
		return nil, &LinkError{Msg: "missing fragment shader"}
	}

	p := &Program{vs: vs.vertex, fs: fs.fragment}
	uniformType := make(map[string]Type)
	vertexVaryings := make(map[string]Type)

	for _, d := range vs.decls {
		switch d.Qual {
		case Attribute:
			p.attribs = append(p.attribs, d)
		case Uniform:
			uniformType[d.Name] = d.Type
			p.uniforms = append(p.uniforms, d)
		case Varying:
			vertexVaryings[d.Name] = d.Type
			p.offsets = append(p.offsets, p.width)
			p.width += d.Type.Components()
			p.varyings = append(p.varyings, d)
		}
	}
	if len(p.attribs) > MaxVertexAttribs {
		return nil, &LinkError{Msg: fmt.Sprintf("too many attributes: %d > %d", len(p.attribs), MaxVertexAttribs)}
	}

	for _, d := range fs.decls {
		switch d.Qual {
		case Uniform:
			if t, ok := uniformType[d.Name]; ok {
				if t != d.Type {
					return nil, &LinkError{Msg: fmt.Sprintf("uniform '%s' declared as %s and %s", d.Name, t, d.Type)}
				}
				continue
			}
			uniformType[d.Name] = d.Type
			p.uniforms = append(p.uniforms, d)
		case Varying:
			t, ok := vertexVaryings[d.Name]
			if !ok {
				return nil, &LinkError{Msg: fmt.Sprintf("varying '%s' is not written by the vertex shader", d.Name)}
			}
			if t != d.Type {
				return nil, &LinkError{Msg: fmt.Sprintf("varying '%s' declared as %s and %s", d.Name, t, d.Type)}
			}
		}
	}

	p.values.slots = make([]uniformSlot, len(p.uniforms))
	for i, d := range p.uniforms {
		p.values.slots[i].typ = d.Type
	}

	if err := p.vs.Link(p); err != nil {
		return nil, &LinkError{Msg: fmt.Sprintf("vertex kernel: %v", err)}
	}
	if err := p.fs.Link(p); err != nil {
		return nil, &LinkError{Msg: fmt.Sprintf("fragment kernel: %v", err)}
	}
	return p, nil
}

// AttribLocation returns the location of a named attribute, or -1.
func (p *Program) AttribLocation(name string) int {
	for i, d := range p.attribs {
		if d.Name == name {
			return i
		}
	}
	return -1
}

// UniformLocation returns the location of a named uniform, or -1.
func (p *Program) UniformLocation(name string) int {
	for i, d := range p.uniforms {
		if d.Name == name {
			return i
		}
	}
	return -1
}

// VaryingOffset returns the float offset of a named varying in the varying
// block, or -1.
func (p *Program) VaryingOffset(name string) int {
	for i, d := range p.varyings {
		if d.Name == name {
			return p.offsets[i]
		}
	}
	return -1
}

// Attribs returns the number of attribute locations in use.
func (p *Program) Attribs() int { return len(p.attribs) }

// Uniforms returns the program's current uniform values.
func (p *Program) Uniforms() *Uniforms { return &p.values }

type uniformSlot struct {
	typ Type
	v   [16]float32
	i   int32
}

// Uniforms holds the values of a program's uniforms, indexed by location.
// Out-of-range locations read as zero values.
type Uniforms struct {
	slots []uniformSlot
}

func (u *Uniforms) slot(loc int) *uniformSlot {
	if u == nil || loc < 0 || loc >= len(u.slots) {
		return nil
	}
	return &u.slots[loc]
}

func (u *Uniforms) Mat4(loc int) mgl32.Mat4 {
	s := u.slot(loc)
	if s == nil {
		return mgl32.Mat4{}
	}
	return mgl32.Mat4(s.v)
}

func (u *Uniforms) Vec3(loc int) mgl32.Vec3 {
	s := u.slot(loc)
	if s == nil {
		return mgl32.Vec3{}
	}
	return mgl32.Vec3{s.v[0], s.v[1], s.v[2]}
}

func (u *Uniforms) Vec4(loc int) mgl32.Vec4 {
	s := u.slot(loc)
	if s == nil {
		return mgl32.Vec4{}
	}
	return mgl32.Vec4{s.v[0], s.v[1], s.v[2], s.v[3]}
}

func (u *Uniforms) Float(loc int) float32 {
	s := u.slot(loc)
	if s == nil {
		return 0
	}
	return s.v[0]
}

func (u *Uniforms) Int(loc int) int32 {
	s := u.slot(loc)
	if s == nil {
		return 0
	}
	return s.i
}

func (u *Uniforms) Bool(loc int) bool { return u.Int(loc) != 0 }
