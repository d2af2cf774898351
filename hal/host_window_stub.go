//go:build !cgo

package hal

import "errors"

// WindowConfig sets up the desktop window.
type WindowConfig struct {
	Host  HostConfig
	Title string
	TPS   int
}

func RunWindow(_ func(HAL) (func() error, error), _ WindowConfig) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
