//go:build !cgo

package hal

type hostPointer struct {
	ch chan PointerEvent
}

func newHostPointer(int) *hostPointer {
	return &hostPointer{ch: make(chan PointerEvent, 64)}
}

func (p *hostPointer) Events() <-chan PointerEvent { return p.ch }

func (p *hostPointer) poll() {
	// No pointer support without the window backend.
}
