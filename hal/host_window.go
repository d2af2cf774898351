//go:build cgo

package hal

import (
	"context"
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
)

// WindowConfig sets up the desktop window.
type WindowConfig struct {
	Host  HostConfig
	Title string
	TPS   int
}

// RunWindow starts a desktop window that displays the framebuffer and forwards
// keyboard and pointer input. It blocks until the window closes or the app
// returns ErrExit.
func RunWindow(newApp func(HAL) (func() error, error), cfg WindowConfig) error {
	h := newHost(context.Background(), cfg.Host)
	defer h.stop()
	step, err := newApp(h)
	if err != nil {
		return err
	}

	g := &hostGame{h: h, step: step, scale: max(cfg.Host.Scale, 1)}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(h.fb.width*g.scale, h.fb.height*g.scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	return ebiten.RunGame(g)
}

type hostGame struct {
	h     *hostHAL
	scale int
	fbImg *ebiten.Image
	pix   []byte
	step  func() error
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	g.h.ptr.poll()
	g.h.t.step()
	if g.step != nil {
		if err := g.step(); err != nil {
			if errors.Is(err, ErrExit) {
				return ebiten.Termination
			}
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.fbImg == nil || g.fbImg.Bounds().Dx() != fb.width || g.fbImg.Bounds().Dy() != fb.height {
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
		g.pix = make([]byte, fb.width*fb.height*4)
	}

	fb.snapshot(g.pix)
	g.fbImg.WritePixels(g.pix)
	screen.DrawImage(g.fbImg, nil)
}

// Layout follows the window size so a resize changes the render resolution.
func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.h.fb.resize(outsideWidth/g.scale, outsideHeight/g.scale)
	return g.h.fb.width, g.h.fb.height
}
