package board

import (
	"fmt"
	"image"

	"boardview/internal/gfx"
)

// Options configures a Renderer. Zero fields take defaults.
type Options struct {
	BoardSize   float32
	FOVYDegrees float32
	Near        float32
	Far         float32
	Filter      gfx.Filter
}

func (o *Options) setDefaults() {
	if o.BoardSize == 0 {
		o.BoardSize = DefaultBoardSize
	}
	if o.FOVYDegrees == 0 {
		o.FOVYDegrees = DefaultFOVYDegrees
	}
	if o.Near == 0 {
		o.Near = DefaultNear
	}
	if o.Far == 0 {
		o.Far = DefaultFar
	}
}

// Renderer draws a Session: the textured board plane, then one flat-colored
// cuboid per player.
type Renderer struct {
	// Overlay, when set, draws over the finished 3D frame.
	Overlay func(t gfx.Target, s *Session)

	ctx        *gfx.Context
	prog       *ShaderProgram
	boardVBO   *gfx.Buffer
	tokenVBO   *gfx.Buffer
	tokenIBO   *gfx.Buffer
	texture    *gfx.Texture
	transforms *Transforms
}

// NewRenderer compiles the board program and uploads the static geometry.
// A shader failure is returned; the renderer never draws without a program.
func NewRenderer(target gfx.Target, opts Options) (*Renderer, error) {
	opts.setDefaults()
	ctx, err := gfx.NewContext(target)
	if err != nil {
		return nil, err
	}
	prog, err := CompileProgram(VertexSource, FragmentSource)
	if err != nil {
		return nil, err
	}
	tex := gfx.NewTexture()
	tex.MinFilter = opts.Filter
	if opts.Filter == gfx.FilterNearest {
		tex.MagFilter = gfx.FilterNearest
	}
	return &Renderer{
		ctx:        ctx,
		prog:       prog,
		boardVBO:   gfx.NewVertexBuffer(BoardVertices(opts.BoardSize)),
		tokenVBO:   gfx.NewVertexBuffer(TokenVertices()),
		tokenIBO:   gfx.NewIndexBuffer(TokenIndices()),
		texture:    tex,
		transforms: NewTransforms(opts.FOVYDegrees, opts.Near, opts.Far),
	}, nil
}

// SetTexture uploads the board image. Mipmaps are generated for every image.
func (r *Renderer) SetTexture(img image.Image) {
	r.texture.SetImage(img)
	r.texture.GenerateMipmap()
}

// Textured reports whether a board image has been uploaded.
func (r *Renderer) Textured() bool { return r.texture.Complete() }

func (r *Renderer) Transforms() *Transforms { return r.transforms }

func (r *Renderer) Stats() gfx.Stats { return r.ctx.Stats() }

// Draw renders s into target.
func (r *Renderer) Draw(target gfx.Target, s *Session) error {
	if target == nil {
		return gfx.ErrNoTarget
	}
	r.ctx.SetTarget(target)
	w, h := target.Size()
	if vw, vh := r.ctx.ViewportSize(); vw != w || vh != h {
		r.ctx.Viewport(0, 0, w, h)
	}
	r.transforms.Resize(w, h)
	r.transforms.SetView(s.View())

	c := r.ctx
	c.ClearColor(0, 0, 0, 1)
	c.Clear(gfx.ColorBufferBit | gfx.DepthBufferBit)
	c.Enable(gfx.DepthTest)
	c.Enable(gfx.Blend)

	hd := r.prog.Handles
	c.UseProgram(r.prog.Program)

	c.BindBuffer(r.boardVBO)
	c.EnableVertexAttribArray(hd.Position)
	c.VertexAttribPointer(hd.Position, 3, BoardVertexStride, 0)
	c.EnableVertexAttribArray(hd.TexCoord)
	c.VertexAttribPointer(hd.TexCoord, 2, BoardVertexStride, 3)
	c.ActiveTexture(0)
	c.BindTexture(r.texture)
	c.Uniform1i(hd.Texture, 0)
	c.Uniform1i(hd.UseTexture, 1)
	c.UniformMatrix4fv(hd.Matrix, r.transforms.MVP(BoardModel()))
	if err := c.DrawArrays(gfx.TriangleStrip, 0, 4); err != nil {
		return fmt.Errorf("draw board: %w", err)
	}

	c.BindBuffer(r.tokenVBO)
	c.VertexAttribPointer(hd.Position, 3, 0, 0)
	c.DisableVertexAttribArray(hd.TexCoord)
	c.BindBuffer(r.tokenIBO)
	c.Uniform1i(hd.UseTexture, 0)
	for _, p := range s.Players {
		c.Uniform3fv(hd.Color, p.Color)
		c.UniformMatrix4fv(hd.Matrix, r.transforms.MVP(TokenModel(p.Position)))
		if err := c.DrawElements(gfx.Triangles, TokenIndexCount, 0); err != nil {
			return fmt.Errorf("draw player %d: %w", p.ID, err)
		}
	}
	if err := c.Err(); err != nil {
		return fmt.Errorf("render state: %w", err)
	}

	if r.Overlay != nil {
		r.Overlay(target, s)
	}
	return nil
}
