// Package gfx provides a small, immediate-mode software graphics context with a
// GL-shaped API.
//
// It is not a general engine. It implements exactly the fixed pipeline a board
// view needs:
//
//	vertex fetch → vertex kernel → near-plane clip → viewport → raster
//	→ fragment kernel → depth test → blend → target.
//
// Shaders are split in two halves. The interface of a stage (attributes,
// uniforms, varyings) is written as GLSL-like declaration source and compiled by
// CompileVertexShader / CompileFragmentShader; the body is a Go kernel bound to
// that interface. LinkProgram validates a stage pair and assigns locations.
//
// All calls on a Context must happen on one goroutine. Errors from state
// setters are recorded and reported by Context.Err; draw calls return errors
// directly.
package gfx
