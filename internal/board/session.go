package board

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Session is the mutable scene: roster, camera and redraw state. It is owned
// by the frame loop and must not be shared between goroutines.
type Session struct {
	Scheduler

	Players []Player
	Camera  *Camera

	view   mgl32.Mat4
	paused bool
}

// NewSession copies players and requests the first frame.
func NewSession(players []Player, cam *Camera) *Session {
	if cam == nil {
		cam = NewCamera(0, 0, 0)
	}
	s := &Session{
		Players: append([]Player(nil), players...),
		Camera:  cam,
	}
	s.view = cam.View()
	s.Request()
	return s
}

// Step advances every player one cell and requests a redraw.
func (s *Session) Step() {
	Step(s.Players)
	s.Request()
}

// View returns the view matrix for the current camera angle.
func (s *Session) View() mgl32.Mat4 { return s.view }

func (s *Session) updateView() {
	s.view = s.Camera.View()
	s.Request()
}

func (s *Session) PointerDown(x float32) { s.Camera.PointerDown(x) }
func (s *Session) PointerUp()            { s.Camera.PointerUp() }

// PointerMove rotates the camera while dragging.
func (s *Session) PointerMove(x float32) {
	if s.Camera.PointerMove(x) {
		s.updateView()
	}
}

// Rotate turns the camera by delta radians.
func (s *Session) Rotate(delta float32) {
	s.Camera.Rotate(delta)
	s.updateView()
}

func (s *Session) ResetCamera() {
	s.Camera.Reset()
	s.updateView()
}

func (s *Session) Paused() bool { return s.paused }

func (s *Session) SetPaused(paused bool) {
	if s.paused != paused {
		s.paused = paused
		s.Request()
	}
}

func (s *Session) TogglePause() { s.SetPaused(!s.paused) }

// Positions returns the current board position of every player.
func (s *Session) Positions() []int {
	out := make([]int, len(s.Players))
	for i, p := range s.Players {
		out[i] = p.Position
	}
	return out
}

// Summary is a one-line status of the scene.
func (s *Session) Summary() string {
	var b strings.Builder
	b.WriteString(formatPositions(s.Players))
	fmt.Fprintf(&b, " angle=%.2f", s.Camera.Angle)
	if s.paused {
		b.WriteString(" paused")
	}
	return b.String()
}
