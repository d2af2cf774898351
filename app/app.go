// Package app wires the board scene to a HAL: it owns the session, feeds it
// input and time, and presents frames.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/rs/zerolog/log"

	"boardview/hal"
	"boardview/internal/assets"
	"boardview/internal/board"
	"boardview/internal/config"
	"boardview/internal/gfx"
	"boardview/internal/hud"
)

// ErrNoGraphics is returned when the HAL has no usable framebuffer.
var ErrNoGraphics = errors.New("app: no graphics framebuffer available")

// keyRotateStep is the camera turn per arrow key press, in radians.
const keyRotateStep float32 = 0.1

const textureLoad = "texture"

type boardApp struct {
	h   hal.HAL
	cfg config.Config
	fb  hal.Framebuffer

	session  *board.Session
	renderer *board.Renderer
	sim      *board.Simulation
	loader   *assets.Loader
	cancel   context.CancelFunc

	now       time.Duration
	fbW, fbH  int
	presented int
}

// LoadBoard builds the board scene on h and returns the per-frame step.
//
// Initialization fails when the HAL has no framebuffer (ErrNoGraphics) or the
// board program does not compile. game only labels the session in logs.
func LoadBoard(h hal.HAL, cfg config.Config, game any) (func() error, error) {
	a, err := newBoardApp(h, cfg, game)
	if err != nil {
		return nil, err
	}
	return a.step, nil
}

func newBoardApp(h hal.HAL, cfg config.Config, game any) (*boardApp, error) {
	log.Info().Interface("game", game).Int("players", len(cfg.Players)).Msg("loading board")
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if h == nil || h.Display() == nil {
		return nil, ErrNoGraphics
	}
	fb := h.Display().Framebuffer()
	if fb == nil || fb.Format() != hal.PixelFormatRGBA8888 {
		return nil, ErrNoGraphics
	}

	r, err := board.NewRenderer(frameTarget(fb), board.Options{
		BoardSize:   cfg.Board.Size,
		FOVYDegrees: cfg.Camera.FOVDegrees,
		Near:        cfg.Camera.Near,
		Far:         cfg.Camera.Far,
		Filter:      cfg.Filter(),
	})
	if err != nil {
		return nil, fmt.Errorf("init renderer: %w", err)
	}
	if cfg.Board.ShowHUD {
		r.Overlay = hud.New().Draw
	}

	cam := board.NewCamera(cfg.Camera.Radius, cfg.Camera.Height, cfg.Camera.Sensitivity)
	s := board.NewSession(cfg.BoardPlayers(), cam)
	s.SetPaused(cfg.Simulation.Paused)

	parent := h.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	a := &boardApp{
		h:        h,
		cfg:      cfg,
		fb:       fb,
		session:  s,
		renderer: r,
		sim:      board.NewSimulation(cfg.Simulation.Interval),
		loader:   assets.NewLoader(ctx),
		cancel:   cancel,
	}
	a.startLoads()
	return a, nil
}

func (a *boardApp) startLoads() {
	path := a.cfg.Board.TexturePath
	size := a.cfg.Board.Size
	a.loader.Go(textureLoad, a.cfg.Board.WaitForTexture, func(ctx context.Context) (any, error) {
		if path == "" {
			return board.DefaultImage(board.DefaultImageSize, size), nil
		}
		return assets.DecodeImage(ctx, path)
	})
}

func (a *boardApp) apply(r assets.Result) error {
	switch r.Name {
	case textureLoad:
		if r.Err != nil {
			log.Warn().Err(r.Err).Msg("board texture unavailable, drawing untextured")
			return nil
		}
		img, ok := r.Value.(image.Image)
		if !ok {
			return fmt.Errorf("texture load returned %T", r.Value)
		}
		a.renderer.SetTexture(img)
		a.session.Request()
		b := img.Bounds()
		log.Debug().Int("width", b.Dx()).Int("height", b.Dy()).Msg("board texture uploaded")
	}
	return nil
}

// step runs one frame. Any error ends the session and cancels pending loads.
func (a *boardApp) step() (err error) {
	defer func() {
		if err != nil {
			a.cancel()
		}
	}()
	defer a.recoverPanic(&err)

	a.drainTime()
	if err := a.drainKeys(); err != nil {
		return err
	}
	a.drainPointer()

	if err := a.loader.Poll(a.apply); err != nil {
		return err
	}
	if !a.loader.Ready() {
		return nil
	}

	if n := a.sim.Advance(a.now, a.session); n > 0 {
		log.Debug().Int("steps", n).Ints("positions", a.session.Positions()).Msg("players moved")
	}

	if w, h := a.fb.Width(), a.fb.Height(); w != a.fbW || h != a.fbH {
		a.fbW, a.fbH = w, h
		a.session.Request()
	}
	if _, err := a.session.Frame(a.draw); err != nil {
		return fmt.Errorf("draw frame: %w", err)
	}
	return nil
}

func (a *boardApp) draw() error {
	if err := a.renderer.Draw(frameTarget(a.fb), a.session); err != nil {
		return err
	}
	a.presented++
	return a.fb.Present()
}

// drainTime takes the newest host tick as the current time.
func (a *boardApp) drainTime() {
	t := a.h.Time()
	if t == nil {
		return
	}
	ch := t.Ticks()
	for {
		select {
		case seq := <-ch:
			a.now = time.Duration(seq) * time.Millisecond
		default:
			return
		}
	}
}

func (a *boardApp) drainKeys() error {
	in := a.h.Input()
	if in == nil || in.Keyboard() == nil {
		return nil
	}
	ch := in.Keyboard().Events()
	for {
		select {
		case ev := <-ch:
			if err := a.handleKey(ev); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (a *boardApp) handleKey(ev hal.KeyEvent) error {
	if !ev.Press {
		return nil
	}
	switch ev.Code {
	case hal.KeyEscape:
		return hal.ErrExit
	case hal.KeyLeft:
		a.session.Rotate(-keyRotateStep)
		return nil
	case hal.KeyRight:
		a.session.Rotate(keyRotateStep)
		return nil
	}

	switch ev.Rune {
	case 'q':
		return hal.ErrExit
	case 'p':
		a.session.TogglePause()
		log.Info().Bool("paused", a.session.Paused()).Msg("simulation toggled")
	case 'r':
		a.session.ResetCamera()
	case 'c':
		a.copyStatus()
	}
	return nil
}

func (a *boardApp) copyStatus() {
	status := a.session.Summary()
	clip := a.h.Clipboard()
	if clip == nil {
		log.Warn().Msg("no clipboard")
		return
	}
	if err := clip.WriteText(status); err != nil {
		log.Warn().Err(err).Msg("copy status")
		return
	}
	log.Info().Str("status", status).Msg("status copied")
}

func (a *boardApp) drainPointer() {
	in := a.h.Input()
	if in == nil || in.Pointer() == nil {
		return
	}
	ch := in.Pointer().Events()
	for {
		select {
		case ev := <-ch:
			switch ev.Kind {
			case hal.PointerDown:
				a.session.PointerDown(float32(ev.X))
			case hal.PointerUp:
				a.session.PointerUp()
			case hal.PointerMove:
				a.session.PointerMove(float32(ev.X))
			}
		default:
			return
		}
	}
}

func frameTarget(fb hal.Framebuffer) *gfx.RGBATarget {
	return &gfx.RGBATarget{
		Pix:    fb.Buffer(),
		Stride: fb.StrideBytes(),
		W:      fb.Width(),
		H:      fb.Height(),
	}
}
