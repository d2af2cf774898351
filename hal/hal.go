package hal

import (
	"context"
	"errors"
	"image"
)

var ErrNotImplemented = errors.New("not implemented")

// ErrExit is returned by an app step to stop the host loop cleanly.
var ErrExit = errors.New("exit requested")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGBA8888 is 32bpp, bytes in R, G, B, A order.
	PixelFormatRGBA8888 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
//
// The size may change between frames when the host window is resized; callers
// re-read Width, Height and Buffer every frame.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
	// Snapshot returns a copy of the last presented frame.
	Snapshot() *image.RGBA
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyLeft
	KeyRight
	KeyEscape
)

// KeyEvent is a keyboard event. Text input arrives with Code KeyUnknown and
// the typed Rune.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// PointerKind is the kind of a pointer event.
type PointerKind uint8

const (
	PointerDown PointerKind = iota + 1
	PointerUp
	PointerMove
)

// PointerEvent is a mouse or touch event in window pixels.
type PointerEvent struct {
	Kind PointerKind
	X, Y int
}

// Pointer provides pointer events.
type Pointer interface {
	Events() <-chan PointerEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
	Pointer() Pointer
}

// Time provides a base tick stream.
//
// One tick is one millisecond of host time.
type Time interface {
	Ticks() <-chan uint64
}

// Clipboard accepts text for the system clipboard.
type Clipboard interface {
	WriteText(s string) error
}

// HAL is the only contact point between the app and the outside world.
type HAL interface {
	// Context is cancelled when the host loop stops.
	Context() context.Context
	Display() Display
	Input() Input
	Time() Time
	Clipboard() Clipboard
}
