package hal

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunHeadlessAdvancesTime(t *testing.T) {
	var (
		h     HAL
		steps int
		now   uint64
	)
	newApp := func(hh HAL) (func() error, error) {
		h = hh
		return func() error {
			steps++
			for {
				select {
				case v := <-h.Time().Ticks():
					now = v
					continue
				default:
				}
				return nil
			}
		}, nil
	}

	err := RunHeadless(context.Background(), newApp, HeadlessConfig{Hz: 10, Ticks: 25, NoPacing: true})
	if err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if steps != 25 {
		t.Fatalf("steps = %d, want 25", steps)
	}
	if now != 2500 {
		t.Fatalf("time = %dms, want 2500", now)
	}
}

func TestRunHeadlessExit(t *testing.T) {
	steps := 0
	newApp := func(HAL) (func() error, error) {
		return func() error {
			steps++
			if steps == 3 {
				return ErrExit
			}
			return nil
		}, nil
	}
	if err := RunHeadless(context.Background(), newApp, HeadlessConfig{NoPacing: true}); err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if steps != 3 {
		t.Fatalf("steps = %d, want 3", steps)
	}
}

func TestRunHeadlessStopsHostContext(t *testing.T) {
	var hostCtx context.Context
	newApp := func(h HAL) (func() error, error) {
		hostCtx = h.Context()
		return func() error { return nil }, nil
	}
	if err := RunHeadless(context.Background(), newApp, HeadlessConfig{Ticks: 3, NoPacing: true}); err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if hostCtx == nil || hostCtx.Err() == nil {
		t.Fatal("host context still live after the run ended")
	}
}

func TestRunHeadlessInitError(t *testing.T) {
	boom := errors.New("no shaders")
	newApp := func(HAL) (func() error, error) { return nil, boom }
	if err := RunHeadless(context.Background(), newApp, HeadlessConfig{}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestRunHeadlessCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	newApp := func(HAL) (func() error, error) { return func() error { return nil }, nil }
	if err := RunHeadless(ctx, newApp, HeadlessConfig{Hz: 1000}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestFramebufferPresentAndResize(t *testing.T) {
	fb := newHostFramebuffer(4, 2)
	if fb.Format() != PixelFormatRGBA8888 || fb.StrideBytes() != 16 || len(fb.Buffer()) != 32 {
		t.Fatalf("unexpected layout: stride %d len %d", fb.StrideBytes(), len(fb.Buffer()))
	}

	fb.ClearRGB(10, 20, 30)
	if got := fb.Snapshot().Pix[0]; got != 0 {
		t.Fatalf("snapshot before Present = %d, want 0", got)
	}
	if err := fb.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}
	img := fb.Snapshot()
	if c := img.RGBAAt(3, 1); c.R != 10 || c.G != 20 || c.B != 30 || c.A != 0xFF {
		t.Fatalf("pixel = %v", c)
	}

	if !fb.resize(8, 8) {
		t.Fatal("resize reported no change")
	}
	if fb.resize(8, 8) {
		t.Fatal("second resize reported a change")
	}
	if fb.Width() != 8 || fb.Height() != 8 || len(fb.Buffer()) != 8*8*4 {
		t.Fatalf("size after resize = %dx%d", fb.Width(), fb.Height())
	}
	fb.resize(0, 0)
	if fb.Width() != 1 || fb.Height() != 1 {
		t.Fatalf("zero resize = %dx%d, want 1x1", fb.Width(), fb.Height())
	}
}

func TestHostTimeFullChannelKeepsNewest(t *testing.T) {
	ht := newHostTime()
	n := cap(ht.ch) + 10
	for i := 0; i < n; i++ {
		ht.stepN(1)
	}
	var last uint64
	for len(ht.Ticks()) > 0 {
		last = <-ht.Ticks()
	}
	if last != uint64(n) {
		t.Fatalf("newest tick = %d, want %d", last, n)
	}
}

func TestHostTimeAdvance(t *testing.T) {
	ht := newHostTime()
	ht.advance(1500 * time.Microsecond)
	ht.advance(600 * time.Microsecond)
	var last uint64
	for len(ht.Ticks()) > 0 {
		last = <-ht.Ticks()
	}
	if last != 2 {
		t.Fatalf("ticks = %d, want 2", last)
	}
}
