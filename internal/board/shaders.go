package board

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog/log"

	"boardview/internal/gfx"
)

// ErrMissingHandle is returned when a linked program lacks an attribute or
// uniform the renderer needs.
var ErrMissingHandle = errors.New("board: missing shader handle")

// VertexSource declares the board vertex stage.
const VertexSource = `
attribute vec3 position;
attribute vec2 texCoord;
uniform mat4 matrix;
varying vec2 vTexCoord;
`

// FragmentSource declares the board fragment stage.
const FragmentSource = `
precision mediump float;
varying vec2 vTexCoord;
uniform sampler2D texture;
uniform bool useTexture;
uniform vec3 color;
`

// Handles are the resolved locations of the board program.
type Handles struct {
	Position   int
	TexCoord   int
	Matrix     int
	UseTexture int
	Color      int
	Texture    int
}

// ShaderProgram is a linked board program with its handles.
type ShaderProgram struct {
	Program *gfx.Program
	Handles Handles
}

type boardVertex struct {
	position, texCoord, matrix, vTexCoord int
}

func (k *boardVertex) Link(p *gfx.Program) error {
	k.position = p.AttribLocation("position")
	k.texCoord = p.AttribLocation("texCoord")
	k.matrix = p.UniformLocation("matrix")
	k.vTexCoord = p.VaryingOffset("vTexCoord")
	if k.position < 0 || k.matrix < 0 {
		return errors.New("position and matrix must be declared")
	}
	return nil
}

func (k *boardVertex) Vertex(in *gfx.VertexInput, out *gfx.VertexOutput) {
	pos := in.Attribs[k.position]
	pos[3] = 1
	out.Position = in.Uniforms.Mat4(k.matrix).Mul4x1(pos)
	if k.texCoord >= 0 && k.vTexCoord >= 0 {
		tc := in.Attribs[k.texCoord]
		out.Varyings[k.vTexCoord] = tc[0]
		out.Varyings[k.vTexCoord+1] = tc[1]
	}
}

type boardFragment struct {
	texture, useTexture, color, vTexCoord int
}

func (k *boardFragment) Link(p *gfx.Program) error {
	k.texture = p.UniformLocation("texture")
	k.useTexture = p.UniformLocation("useTexture")
	k.color = p.UniformLocation("color")
	k.vTexCoord = p.VaryingOffset("vTexCoord")
	return nil
}

func (k *boardFragment) Fragment(in *gfx.FragmentInput) (mgl32.Vec4, bool) {
	if in.Uniforms.Bool(k.useTexture) && k.vTexCoord >= 0 {
		return in.Texture2D(in.Uniforms.Int(k.texture), k.vTexCoord), false
	}
	return in.Uniforms.Vec3(k.color).Vec4(1), false
}

// CompileProgram compiles and links the board program from the given stage
// sources and resolves its handles. Diagnostics are logged before the error
// is returned.
func CompileProgram(vertexSrc, fragmentSrc string) (*ShaderProgram, error) {
	vs, err := gfx.CompileVertexShader(vertexSrc, &boardVertex{})
	if err != nil {
		logShaderError(err)
		return nil, fmt.Errorf("compile vertex shader: %w", err)
	}
	fs, err := gfx.CompileFragmentShader(fragmentSrc, &boardFragment{})
	if err != nil {
		logShaderError(err)
		return nil, fmt.Errorf("compile fragment shader: %w", err)
	}
	prog, err := gfx.LinkProgram(vs, fs)
	if err != nil {
		logShaderError(err)
		return nil, fmt.Errorf("link board program: %w", err)
	}

	h := Handles{
		Position:   prog.AttribLocation("position"),
		TexCoord:   prog.AttribLocation("texCoord"),
		Matrix:     prog.UniformLocation("matrix"),
		UseTexture: prog.UniformLocation("useTexture"),
		Color:      prog.UniformLocation("color"),
		Texture:    prog.UniformLocation("texture"),
	}
	for _, c := range []struct {
		name string
		loc  int
	}{
		{"position", h.Position},
		{"texCoord", h.TexCoord},
		{"matrix", h.Matrix},
		{"useTexture", h.UseTexture},
		{"color", h.Color},
		{"texture", h.Texture},
	} {
		if c.loc < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingHandle, c.name)
		}
	}
	return &ShaderProgram{Program: prog, Handles: h}, nil
}

func logShaderError(err error) {
	var ce *gfx.CompileError
	if errors.As(err, &ce) {
		log.Error().Str("stage", ce.Kind.String()).Int("line", ce.Line).Msg(ce.InfoLog())
		return
	}
	var le *gfx.LinkError
	if errors.As(err, &le) {
		log.Error().Str("stage", "link").Msg(le.InfoLog())
		return
	}
	log.Error().Err(err).Msg("shader")
}
