package hal

import "context"

// HostConfig sizes the host framebuffer.
type HostConfig struct {
	Width  int
	Height int
	// Scale is the number of window pixels per framebuffer pixel.
	Scale int
}

func (c *HostConfig) setDefaults() {
	if c.Width <= 0 {
		c.Width = 480
	}
	if c.Height <= 0 {
		c.Height = 320
	}
	if c.Scale <= 0 {
		c.Scale = 1
	}
}

type hostHAL struct {
	ctx  context.Context
	stop context.CancelFunc

	fb   *hostFramebuffer
	kbd  *hostKeyboard
	ptr  *hostPointer
	t    *hostTime
	clip hostClipboard
}

// New returns a host HAL implementation. Its Context lives until ctx is done.
func New(ctx context.Context, cfg HostConfig) HAL {
	return newHost(ctx, cfg)
}

func newHost(ctx context.Context, cfg HostConfig) *hostHAL {
	cfg.setDefaults()
	ctx, stop := context.WithCancel(ctx)
	return &hostHAL{
		ctx:  ctx,
		stop: stop,
		fb:   newHostFramebuffer(cfg.Width, cfg.Height),
		kbd:  newHostKeyboard(),
		ptr:  newHostPointer(cfg.Scale),
		t:    newHostTime(),
	}
}

func (h *hostHAL) Context() context.Context { return h.ctx }
func (h *hostHAL) Display() Display         { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input             { return hostInput{kbd: h.kbd, ptr: h.ptr} }
func (h *hostHAL) Time() Time               { return h.t }
func (h *hostHAL) Clipboard() Clipboard     { return h.clip }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd *hostKeyboard
	ptr *hostPointer
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }
func (in hostInput) Pointer() Pointer   { return in.ptr }
