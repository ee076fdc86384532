// Package draw renders game frames to ANSI terminals using half-block characters.
package draw

import (
	"fmt"
	"io"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// ANSI sequences used by the HUD.
const (
	ColorReset      = "\033[0m"
	ColorBold       = "\033[1m"
	ColorRed        = "\033[31m"
	ColorGreen      = "\033[32m"
	ColorYellow     = "\033[33m"
	ColorBrightCyan = "\033[96m"
)

// Ink is the color of a canvas pixel. The zero value is an unset pixel.
type Ink uint8

// Inks available to objects. InkDefault uses the terminal's foreground color.
const (
	InkNone Ink = iota
	InkDefault
	InkRed
	InkGreen
	InkYellow
	InkBlue
	InkMagenta
	InkCyan
	InkWhite
	InkGray
)

var inkFg = [...]string{
	InkNone:    "\033[39m",
	InkDefault: "\033[39m",
	InkRed:     "\033[91m",
	InkGreen:   "\033[32m",
	InkYellow:  "\033[93m",
	InkBlue:    "\033[94m",
	InkMagenta: "\033[95m",
	InkCyan:    "\033[96m",
	InkWhite:   "\033[97m",
	InkGray:    "\033[90m",
}

var inkBg = [...]string{
	InkNone:    "\033[49m",
	InkDefault: "\033[49m",
	InkRed:     "\033[101m",
	InkGreen:   "\033[42m",
	InkYellow:  "\033[103m",
	InkBlue:    "\033[104m",
	InkMagenta: "\033[105m",
	InkCyan:    "\033[106m",
	InkWhite:   "\033[107m",
	InkGray:    "\033[100m",
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
