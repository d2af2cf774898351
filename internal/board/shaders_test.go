package board

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boardview/internal/gfx"
)

func TestCompileProgramHandles(t *testing.T) {
	p, err := CompileProgram(VertexSource, FragmentSource)
	require.NoError(t, err)
	h := p.Handles
	assert.Equal(t, 0, h.Position)
	assert.Equal(t, 1, h.TexCoord)
	for _, loc := range []int{h.Matrix, h.UseTexture, h.Color, h.Texture} {
		assert.GreaterOrEqual(t, loc, 0)
	}
}

func TestCompileProgramSyntaxError(t *testing.T) {
	_, err := CompileProgram(VertexSource, strings.Replace(FragmentSource, "uniform vec3 color;", "uniform vec3 color", 1))
	require.Error(t, err)
	var ce *gfx.CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, gfx.FragmentShader, ce.Kind)
}

func TestCompileProgramMissingHandle(t *testing.T) {
	_, err := CompileProgram(VertexSource, strings.Replace(FragmentSource, "uniform vec3 color;", "", 1))
	assert.ErrorIs(t, err, ErrMissingHandle)

	_, err = CompileProgram(strings.Replace(VertexSource, "attribute vec2 texCoord;", "", 1), FragmentSource)
	assert.ErrorIs(t, err, ErrMissingHandle)
}

func TestCompileProgramLinkError(t *testing.T) {
	_, err := CompileProgram(VertexSource, strings.Replace(FragmentSource, "varying vec2 vTexCoord;", "varying vec3 vTexCoord;", 1))
	var le *gfx.LinkError
	assert.True(t, errors.As(err, &le))

	_, err = CompileProgram(strings.Replace(VertexSource, "uniform mat4 matrix;", "", 1), FragmentSource)
	assert.True(t, errors.As(err, &le))
}
