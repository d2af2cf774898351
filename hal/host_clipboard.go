package hal

import (
	"fmt"

	"github.com/atotto/clipboard"
)

type hostClipboard struct{}

func (hostClipboard) WriteText(s string) error {
	if clipboard.Unsupported {
		return ErrNotImplemented
	}
	if err := clipboard.WriteAll(s); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}
