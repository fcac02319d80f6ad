package terminal

import (
	"os"

	"golang.org/x/term"
)

// Default size used when the output is not a terminal.
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// Size returns the terminal size of f, or the defaults when unknown.
func Size(f *os.File) (width, height int) {
	if !IsTerminal(f) {
		return DefaultWidth, DefaultHeight
	}
	width, height, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 || height <= 0 {
		return DefaultWidth, DefaultHeight
	}
	return width, height
}
