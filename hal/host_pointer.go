//go:build cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type hostPointer struct {
	ch    chan PointerEvent
	scale int

	lastX, lastY int
	seen         bool
}

func newHostPointer(scale int) *hostPointer {
	return &hostPointer{ch: make(chan PointerEvent, 64), scale: max(scale, 1)}
}

func (p *hostPointer) Events() <-chan PointerEvent { return p.ch }

func (p *hostPointer) emit(kind PointerKind, x, y int) {
	select {
	case p.ch <- PointerEvent{Kind: kind, X: x, Y: y}:
	default:
	}
}

// poll reports the left button and cursor in window pixels. The cursor
// position ebiten returns is in framebuffer pixels.
func (p *hostPointer) poll() {
	cx, cy := ebiten.CursorPosition()
	x, y := cx*p.scale, cy*p.scale

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		p.emit(PointerDown, x, y)
	}
	if p.seen && (x != p.lastX || y != p.lastY) {
		p.emit(PointerMove, x, y)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		p.emit(PointerUp, x, y)
	}
	p.lastX, p.lastY, p.seen = x, y, true
}
