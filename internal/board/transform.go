package board

import "github.com/go-gl/mathgl/mgl32"

const (
	DefaultFOVYDegrees float32 = 60
	DefaultNear        float32 = 0.1
	DefaultFar         float32 = 10

	// BoardOffset lowers the board plane below the tokens' resting plane.
	BoardOffset float32 = -0.01
)

// Transforms holds the projection and view of the current frame and builds
// per-object MVP matrices. Nothing is accumulated: every matrix is rebuilt
// from state.
type Transforms struct {
	FOVYDegrees float32
	Near        float32
	Far         float32

	width      int
	height     int
	projection mgl32.Mat4
	view       mgl32.Mat4
}

// NewTransforms returns transforms with an identity view and no viewport.
func NewTransforms(fovYDegrees, near, far float32) *Transforms {
	return &Transforms{
		FOVYDegrees: fovYDegrees,
		Near:        near,
		Far:         far,
		projection:  mgl32.Ident4(),
		view:        mgl32.Ident4(),
	}
}

// Resize recomputes the projection when the viewport size changed. It reports
// whether it did.
func (t *Transforms) Resize(w, h int) bool {
	if w == t.width && h == t.height {
		return false
	}
	t.width, t.height = w, h
	aspect := float32(1)
	if h > 0 {
		aspect = float32(w) / float32(h)
	}
	t.projection = mgl32.Perspective(mgl32.DegToRad(t.FOVYDegrees), aspect, t.Near, t.Far)
	return true
}

func (t *Transforms) SetView(view mgl32.Mat4) { t.view = view }

func (t *Transforms) Projection() mgl32.Mat4 { return t.projection }
func (t *Transforms) View() mgl32.Mat4       { return t.view }

// MVP returns projection × view × model.
func (t *Transforms) MVP(model mgl32.Mat4) mgl32.Mat4 {
	mv := t.view.Mul4(model)
	return t.projection.Mul4(mv)
}

// BoardModel places the board plane.
func BoardModel() mgl32.Mat4 {
	return mgl32.Translate3D(0, BoardOffset, 0)
}

// TokenModel places a token at a board position.
func TokenModel(position int) mgl32.Mat4 {
	p := Position(position)
	return mgl32.Translate3D(p.X(), p.Y(), p.Z())
}
