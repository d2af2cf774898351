// Package hud draws the status overlay on top of a rendered frame.
package hud

import (
	"fmt"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"boardview/internal/board"
	"boardview/internal/gfx"
)

const margin = 4

// Overlay writes the roster, camera angle and key help in the top-left corner.
type Overlay struct {
	Font  tinyfont.Fonter
	Color color.RGBA
	Dim   color.RGBA
	Help  bool
}

func New() *Overlay {
	return &Overlay{
		Font:  &proggy.TinySZ8pt7b,
		Color: color.RGBA{R: 0xE0, G: 0xE8, B: 0xFF, A: 0xFF},
		Dim:   color.RGBA{R: 0x90, G: 0xA0, B: 0xB8, A: 0xFF},
		Help:  true,
	}
}

// Lines returns the overlay text for s.
func Lines(s *board.Session) []string {
	state := "running"
	if s.Paused() {
		state = "paused"
	}
	lines := make([]string, 0, len(s.Players)+1)
	lines = append(lines, fmt.Sprintf("angle %.2f rad  %s", s.Camera.Angle, state))
	for _, p := range s.Players {
		lines = append(lines, fmt.Sprintf("player %d  cell %2d", p.ID, p.Position))
	}
	return lines
}

const helpLine = "drag orbit  p pause  r reset  c copy  q quit"

// Draw implements the renderer overlay hook.
func (o *Overlay) Draw(t gfx.Target, s *board.Session) {
	d := &Displayer{Target: t}
	step := int16(o.Font.GetYAdvance())
	y := int16(margin) + step
	for _, line := range Lines(s) {
		tinyfont.WriteLine(d, o.Font, margin, y, line, o.Color)
		y += step
	}
	if o.Help {
		_, h := t.Size()
		tinyfont.WriteLine(d, o.Font, margin, int16(h)-margin, helpLine, o.Dim)
	}
}

// Displayer adapts a gfx target to the tinyfont drawing contract.
type Displayer struct {
	Target gfx.Target
}

var _ drivers.Displayer = (*Displayer)(nil)

func (d *Displayer) Size() (x, y int16) {
	w, h := d.Target.Size()
	return int16(w), int16(h)
}

func (d *Displayer) SetPixel(x, y int16, c color.RGBA) {
	d.Target.SetPixel(int(x), int(y), c)
}

func (d *Displayer) Display() error { return nil }
