package hal

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Host HostConfig
	// Hz is the step rate. Every step advances host time by 1/Hz.
	Hz    int
	Ticks uint64
	// NoPacing runs steps back to back instead of waiting on a wall clock.
	NoPacing bool
}

// RunHeadless runs the app without opening a window. It returns nil after
// cfg.Ticks steps or when the app returns ErrExit.
func RunHeadless(ctx context.Context, newApp func(HAL) (func() error, error), cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	h := newHost(ctx, cfg.Host)
	defer h.stop()
	step, err := newApp(h)
	if err != nil {
		return err
	}

	var tickC <-chan time.Time
	if !cfg.NoPacing {
		t := time.NewTicker(d)
		defer t.Stop()
		tickC = t.C
	}

	var tick uint64
	for {
		if tickC != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tickC:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		h.t.advance(d)
		if step != nil {
			if err := step(); err != nil {
				if errors.Is(err, ErrExit) {
					return nil
				}
				return err
			}
		}
		tick++
		if cfg.Ticks > 0 && tick >= cfg.Ticks {
			return nil
		}
	}
}
