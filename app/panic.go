package app

import (
	"fmt"
	"image/color"
	"runtime/debug"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"boardview/hal"
	"boardview/internal/hud"
)

// recoverPanic turns a panic in the frame step into an error and leaves a
// panic screen in the framebuffer.
func (a *boardApp) recoverPanic(err *error) {
	v := recover()
	if v == nil {
		return
	}
	stack := debug.Stack()
	log.Error().Interface("panic", v).Str("stack", string(stack)).Msg("board step panicked")
	drawPanic(a.fb, v)
	*err = fmt.Errorf("panic: %v", v)
}

func drawPanic(fb hal.Framebuffer, v any) {
	if fb == nil {
		return
	}
	fb.ClearRGB(255, 255, 255)

	font := &proggy.TinySZ8pt7b
	lineHeight := int16(font.GetYAdvance())
	_, outboxWidth := tinyfont.LineWidth(font, "0")
	charWidth := int16(outboxWidth)
	if charWidth <= 0 || lineHeight <= 0 {
		_ = fb.Present()
		return
	}

	d := &hud.Displayer{Target: frameTarget(fb)}
	fg := color.RGBA{A: 255}
	cols := max(int16(fb.Width())/charWidth, 1)

	lines := []string{
		"boardview panic:",
		fmt.Sprint(v),
		"stack trace is in the log",
	}
	y := lineHeight
	for _, line := range lines {
		for len(line) > 0 {
			if y > int16(fb.Height()) {
				_ = fb.Present()
				return
			}
			chunk, rest := takeRunes(line, cols)
			tinyfont.WriteLine(d, font, 0, y, chunk, fg)
			y += lineHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = fb.Present()
}

// takeRunes splits s after at most n runes.
func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
