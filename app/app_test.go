package app

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boardview/hal"
	"boardview/internal/board"
	"boardview/internal/config"
	"boardview/internal/gfx"
)

type fakeFramebuffer struct {
	w, h     int
	buf      []byte
	presents int
}

func newFakeFramebuffer(w, h int) *fakeFramebuffer {
	return &fakeFramebuffer{w: w, h: h, buf: make([]byte, w*h*4)}
}

func (f *fakeFramebuffer) Width() int              { return f.w }
func (f *fakeFramebuffer) Height() int             { return f.h }
func (f *fakeFramebuffer) Format() hal.PixelFormat { return hal.PixelFormatRGBA8888 }
func (f *fakeFramebuffer) StrideBytes() int        { return f.w * 4 }
func (f *fakeFramebuffer) Buffer() []byte          { return f.buf }
func (f *fakeFramebuffer) Present() error          { f.presents++; return nil }

func (f *fakeFramebuffer) ClearRGB(r, g, b uint8) {
	for i := 0; i+3 < len(f.buf); i += 4 {
		f.buf[i], f.buf[i+1], f.buf[i+2], f.buf[i+3] = r, g, b, 0xFF
	}
}

func (f *fakeFramebuffer) Snapshot() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.w, f.h))
	copy(img.Pix, f.buf)
	return img
}

func (f *fakeFramebuffer) resize(w, h int) {
	f.w, f.h = w, h
	f.buf = make([]byte, w*h*4)
}

type fakeHAL struct {
	ctx     context.Context
	fb      hal.Framebuffer
	keys    chan hal.KeyEvent
	pointer chan hal.PointerEvent
	ticks   chan uint64
	copied  []string
}

func newFakeHAL(fb hal.Framebuffer) *fakeHAL {
	return &fakeHAL{
		ctx:     context.Background(),
		fb:      fb,
		keys:    make(chan hal.KeyEvent, 16),
		pointer: make(chan hal.PointerEvent, 16),
		ticks:   make(chan uint64, 16),
	}
}

func (h *fakeHAL) Context() context.Context { return h.ctx }

func (h *fakeHAL) Display() hal.Display {
	if h.fb == nil {
		return nil
	}
	return h
}
func (h *fakeHAL) Framebuffer() hal.Framebuffer { return h.fb }
func (h *fakeHAL) Input() hal.Input             { return h }
func (h *fakeHAL) Keyboard() hal.Keyboard       { return h }
func (h *fakeHAL) Pointer() hal.Pointer         { return (*fakePointer)(h) }
func (h *fakeHAL) Events() <-chan hal.KeyEvent  { return h.keys }
func (h *fakeHAL) Time() hal.Time               { return h }
func (h *fakeHAL) Ticks() <-chan uint64         { return h.ticks }
func (h *fakeHAL) Clipboard() hal.Clipboard     { return h }
func (h *fakeHAL) WriteText(s string) error     { h.copied = append(h.copied, s); return nil }

type fakePointer fakeHAL

func (p *fakePointer) Events() <-chan hal.PointerEvent { return p.pointer }

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Board.WaitForTexture = true
	cfg.Board.ShowHUD = false
	return cfg
}

// ready builds the app and waits for its startup loads.
func ready(t *testing.T, h *fakeHAL, cfg config.Config) *boardApp {
	t.Helper()
	a, err := newBoardApp(h, cfg, "test")
	require.NoError(t, err)
	require.NoError(t, a.loader.Wait())
	return a
}

func TestLoadBoardNoGraphics(t *testing.T) {
	_, err := LoadBoard(newFakeHAL(nil), testConfig(), nil)
	assert.ErrorIs(t, err, ErrNoGraphics)
}

func TestLoadBoardInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Camera.Near = -1
	_, err := LoadBoard(newFakeHAL(newFakeFramebuffer(8, 8)), cfg, nil)
	assert.Error(t, err)
}

func TestFirstFrameWaitsForTexture(t *testing.T) {
	fb := newFakeFramebuffer(64, 48)
	h := newFakeHAL(fb)
	a, err := newBoardApp(h, testConfig(), "test")
	require.NoError(t, err)

	if !a.loader.Ready() {
		// nothing is drawn before the texture is applied
		require.NoError(t, a.step())
		if !a.loader.Ready() {
			assert.Zero(t, fb.presents)
		}
	}
	require.NoError(t, a.loader.Wait())
	require.NoError(t, a.step())
	assert.Equal(t, 1, fb.presents)
	assert.True(t, a.renderer.Textured())
}

func TestTickMovesPlayers(t *testing.T) {
	fb := newFakeFramebuffer(64, 48)
	h := newFakeHAL(fb)
	a := ready(t, h, testConfig())

	h.ticks <- 0
	require.NoError(t, a.step())
	assert.Equal(t, []int{1, 10, 20}, a.session.Positions())
	assert.Equal(t, 1, fb.presents)

	h.ticks <- 500
	require.NoError(t, a.step())
	assert.Equal(t, 1, fb.presents, "nothing changed, nothing drawn")

	h.ticks <- 999
	h.ticks <- 1000
	require.NoError(t, a.step())
	assert.Equal(t, []int{2, 11, 21}, a.session.Positions())
	assert.Equal(t, 2, fb.presents)
}

func TestDragRotatesCamera(t *testing.T) {
	fb := newFakeFramebuffer(32, 32)
	h := newFakeHAL(fb)
	a := ready(t, h, testConfig())
	require.NoError(t, a.step())

	h.pointer <- hal.PointerEvent{Kind: hal.PointerMove, X: 500}
	h.pointer <- hal.PointerEvent{Kind: hal.PointerDown, X: 10}
	h.pointer <- hal.PointerEvent{Kind: hal.PointerMove, X: 60}
	h.pointer <- hal.PointerEvent{Kind: hal.PointerMove, X: 110}
	h.pointer <- hal.PointerEvent{Kind: hal.PointerUp, X: 110}
	h.pointer <- hal.PointerEvent{Kind: hal.PointerMove, X: 900}
	require.NoError(t, a.step())

	assert.InDelta(t, 0.5, a.session.Camera.Angle, 1e-6)
	assert.Equal(t, 2, fb.presents, "two moves coalesce into one frame")
}

func TestKeys(t *testing.T) {
	h := newFakeHAL(newFakeFramebuffer(32, 32))
	a := ready(t, h, testConfig())

	h.keys <- hal.KeyEvent{Press: true, Rune: 'p'}
	h.keys <- hal.KeyEvent{Press: true, Code: hal.KeyRight}
	h.keys <- hal.KeyEvent{Press: false, Code: hal.KeyRight}
	h.keys <- hal.KeyEvent{Press: true, Rune: 'c'}
	require.NoError(t, a.step())
	assert.True(t, a.session.Paused())
	assert.InDelta(t, keyRotateStep, a.session.Camera.Angle, 1e-6)
	assert.Equal(t, []string{"1@1 2@10 3@20 angle=0.10 paused"}, h.copied)

	h.keys <- hal.KeyEvent{Press: true, Rune: 'r'}
	require.NoError(t, a.step())
	assert.Zero(t, a.session.Camera.Angle)

	h.keys <- hal.KeyEvent{Press: true, Rune: 'q'}
	assert.ErrorIs(t, a.step(), hal.ErrExit)

	h.keys <- hal.KeyEvent{Press: true, Code: hal.KeyEscape}
	assert.ErrorIs(t, a.step(), hal.ErrExit)
}

func TestPausedSimulationHoldsPlayers(t *testing.T) {
	h := newFakeHAL(newFakeFramebuffer(16, 16))
	cfg := testConfig()
	cfg.Simulation.Paused = true
	a := ready(t, h, cfg)

	h.ticks <- 0
	require.NoError(t, a.step())
	h.ticks <- 5000
	require.NoError(t, a.step())
	assert.Equal(t, []int{1, 10, 20}, a.session.Positions())
}

func TestResizeRedraws(t *testing.T) {
	fb := newFakeFramebuffer(16, 16)
	h := newFakeHAL(fb)
	a := ready(t, h, testConfig())
	require.NoError(t, a.step())
	require.NoError(t, a.step())
	assert.Equal(t, 1, fb.presents)

	before := a.renderer.Transforms().Projection()
	fb.resize(32, 16)
	require.NoError(t, a.step())
	assert.Equal(t, 2, fb.presents)
	assert.False(t, before.ApproxEqual(a.renderer.Transforms().Projection()))
}

func writePNG(t *testing.T, c color.NRGBA) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "board.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestTextureFromFile(t *testing.T) {
	fb := newFakeFramebuffer(48, 32)
	h := newFakeHAL(fb)
	cfg := testConfig()
	cfg.Board.TexturePath = writePNG(t, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	a := ready(t, h, cfg)
	require.NoError(t, a.step())

	center := fb.Snapshot().RGBAAt(24, 16)
	assert.Equal(t, color.RGBA{R: 200, G: 100, B: 50, A: 255}, center)
}

func TestRequiredTextureMissing(t *testing.T) {
	h := newFakeHAL(newFakeFramebuffer(16, 16))
	cfg := testConfig()
	cfg.Board.TexturePath = filepath.Join(t.TempDir(), "missing.png")
	a, err := newBoardApp(h, cfg, nil)
	require.NoError(t, err)
	assert.Error(t, a.loader.Wait())
	assert.ErrorIs(t, a.step(), os.ErrNotExist)
}

func TestOptionalTextureMissing(t *testing.T) {
	fb := newFakeFramebuffer(16, 16)
	h := newFakeHAL(fb)
	cfg := testConfig()
	cfg.Board.WaitForTexture = false
	cfg.Board.TexturePath = filepath.Join(t.TempDir(), "missing.png")
	a := ready(t, h, cfg)
	require.NoError(t, a.step())
	assert.Equal(t, 1, fb.presents)
	assert.False(t, a.renderer.Textured())
}

func TestStepRecoversPanic(t *testing.T) {
	fb := newFakeFramebuffer(200, 100)
	h := newFakeHAL(fb)
	a := ready(t, h, testConfig())
	a.renderer.Overlay = func(gfx.Target, *board.Session) { panic("overlay exploded") }

	err := a.step()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlay exploded")
	assert.Equal(t, 1, fb.presents, "panic screen is presented")
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, fb.Snapshot().RGBAAt(199, 99))
}

func TestHUDOverlayDrawn(t *testing.T) {
	fb := newFakeFramebuffer(200, 120)
	h := newFakeHAL(fb)
	cfg := testConfig()
	cfg.Board.ShowHUD = true
	a := ready(t, h, cfg)
	require.NoError(t, a.step())
	require.NotNil(t, a.renderer.Overlay)
	assert.Equal(t, 1, fb.presents)
}

// startBlockingLoad adds a load that finishes only when its context is
// cancelled, and returns a channel closed at that point.
func startBlockingLoad(a *boardApp) <-chan struct{} {
	stopped := make(chan struct{})
	a.loader.Go("blocking", false, func(ctx context.Context) (any, error) {
		<-ctx.Done()
		close(stopped)
		return nil, ctx.Err()
	})
	return stopped
}

func waitClosed(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("%s: load context was not cancelled", what)
	}
}

func TestStepErrorCancelsLoads(t *testing.T) {
	h := newFakeHAL(newFakeFramebuffer(64, 48))
	a := ready(t, h, testConfig())
	require.NoError(t, a.step())

	stopped := startBlockingLoad(a)
	h.keys <- hal.KeyEvent{Rune: 'q', Press: true}
	assert.ErrorIs(t, a.step(), hal.ErrExit)
	waitClosed(t, stopped, "exit key")
}

func TestHostStopCancelsLoads(t *testing.T) {
	ctx, stop := context.WithCancel(context.Background())
	h := newFakeHAL(newFakeFramebuffer(64, 48))
	h.ctx = ctx
	a := ready(t, h, testConfig())

	stopped := startBlockingLoad(a)
	stop()
	waitClosed(t, stopped, "host stop")
}
