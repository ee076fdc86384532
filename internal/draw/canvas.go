package draw

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// maxChunkSize is the largest write handed to the underlying writer,
// kept under a typical MTU so SSH frames go out smoothly.
const maxChunkSize = 1400

// cell is what the terminal shows at one column and row.
type cell struct {
	ch     rune
	fg, bg Ink
}

// Canvas is a drawing buffer with 2x vertical resolution using half-block characters.
// Objects draw in logical coordinates; the canvas scales them to terminal sub-pixels.
type Canvas struct {
	cols, rows int
	pixels     []Ink  // [y*cols + x], y in sub-pixels (rows*2)
	shown      []cell // [row*cols + col], last cell written to the terminal
	redraw     bool
	pen        Ink

	logicalW, logicalH float64
	scaleX, scaleY     float64

	// 0-based terminal offset of the canvas when the terminal is larger than it
	offsetCol, offsetRow int

	out       strings.Builder
	num       []byte
	fillPts   []Point
	crossings []float64
	borrowPts []Point
}

// NewCanvas creates an unscaled canvas of width columns and height rows.
func NewCanvas(width, height int) *Canvas {
	return NewScaledCanvas(width, height, float64(width), float64(height*2))
}

// NewScaledCanvas creates a canvas of termWidth x termHeight cells whose drawing
// coordinates span logicalWidth x logicalHeight (height in sub-pixels).
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalW: logicalWidth,
		logicalH: logicalHeight,
		pen:      InkDefault,
	}
	c.allocate(termWidth, termHeight)
	return c
}

func (c *Canvas) allocate(cols, rows int) {
	c.cols, c.rows = cols, rows
	c.pixels = make([]Ink, cols*rows*2)
	c.shown = make([]cell, cols*rows)
	c.redraw = true
	c.scaleX = float64(cols) / c.logicalW
	c.scaleY = float64(rows*2) / c.logicalH
}

// Resize adapts the canvas to a new terminal size, keeping its logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth == c.cols && termHeight == c.rows {
		return
	}
	c.allocate(termWidth, termHeight)
}

// SetOffset places the canvas at terminal position (col+1, row+1).
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol, c.offsetRow = col, row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// SetPen selects the ink used by subsequent drawing calls.
func (c *Canvas) SetPen(ink Ink) {
	if ink == InkNone {
		ink = InkDefault
	}
	c.pen = ink
}

// Pen returns the current ink.
func (c *Canvas) Pen() Ink { return c.pen }

// Clear unsets every pixel and resets the pen.
func (c *Canvas) Clear() {
	clear(c.pixels)
	c.pen = InkDefault
}

func (c *Canvas) toPixel(x, y float64) (int, int) {
	return int(math.Round(x * c.scaleX)), int(math.Round(y * c.scaleY))
}

func (c *Canvas) plot(px, py int) {
	if px < 0 || px >= c.cols || py < 0 || py >= c.rows*2 {
		return
	}
	c.pixels[py*c.cols+px] = c.pen
}

// Set sets the pixel at integer logical coordinates.
func (c *Canvas) Set(x, y int) {
	c.SetFloat(float64(x), float64(y))
}

// SetFloat sets the pixel at logical coordinates.
func (c *Canvas) SetFloat(x, y float64) {
	c.plot(c.toPixel(x, y))
}

// ForceRedraw makes the next Render write every cell, e.g. after the terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.redraw = true
}

// MarkTextDirty invalidates n cells starting at the 1-based canvas position (col, row)
// so the next Render overwrites text drawn there by the HUD.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	if row < 1 || row > c.rows {
		return
	}
	base := (row - 1) * c.cols
	for x := max(col-1, 0); x < min(col-1+n, c.cols); x++ {
		c.shown[base+x] = cell{}
	}
}

// compose picks the glyph and colors for a cell from its two sub-pixels.
func compose(top, bottom Ink) cell {
	switch {
	case top == InkNone && bottom == InkNone:
		return cell{ch: BlockEmpty}
	case bottom == InkNone:
		return cell{ch: BlockUpperHalf, fg: top}
	case top == InkNone:
		return cell{ch: BlockLowerHalf, fg: bottom}
	case top == bottom:
		return cell{ch: BlockFull, fg: top}
	default:
		return cell{ch: BlockUpperHalf, fg: top, bg: bottom}
	}
}

// Render writes the cells that changed since the previous Render to w.
// The terminal is assumed to be in its default colors before and after.
func (c *Canvas) Render(w io.Writer) {
	c.out.Reset()

	fg, bg := InkDefault, InkNone
	nextCol, nextRow := -1, -1
	for row := 0; row < c.rows; row++ {
		upper := c.pixels[row*2*c.cols : (row*2+1)*c.cols]
		lower := c.pixels[(row*2+1)*c.cols : (row*2+2)*c.cols]
		for col := 0; col < c.cols; col++ {
			cur := compose(upper[col], lower[col])
			idx := row*c.cols + col
			if !c.redraw && c.shown[idx] == cur {
				continue
			}
			c.shown[idx] = cur

			if row != nextRow || col != nextCol {
				c.moveTo(col+1+c.offsetCol, row+1+c.offsetRow)
			}
			if cur.ch != BlockEmpty && cur.fg != fg {
				c.out.WriteString(inkFg[cur.fg])
				fg = cur.fg
			}
			if cur.bg != bg {
				c.out.WriteString(inkBg[cur.bg])
				bg = cur.bg
			}
			c.out.WriteRune(cur.ch)
			nextCol, nextRow = col+1, row
		}
	}
	if fg != InkDefault || bg != InkNone {
		c.out.WriteString(ColorReset)
	}
	c.redraw = false

	io.WriteString(w, c.out.String())
}

func (c *Canvas) moveTo(col, row int) {
	c.num = append(c.num[:0], "\033["...)
	c.num = strconv.AppendInt(c.num, int64(row), 10)
	c.num = append(c.num, ';')
	c.num = strconv.AppendInt(c.num, int64(col), 10)
	c.num = append(c.num, 'H')
	c.out.Write(c.num)
}

// RenderBorder frames the canvas when the terminal has room around it:
// side bars need a column offset, top and bottom bars a row offset.
func (c *Canvas) RenderBorder(w io.Writer) {
	sides := c.offsetCol >= 1
	caps := c.offsetRow >= 1
	if !sides && !caps {
		return
	}

	left, right := c.offsetCol, c.offsetCol+c.cols+1
	top, bottom := c.offsetRow, c.offsetRow+c.rows+1
	bar := strings.Repeat("─", c.cols)

	var b strings.Builder
	if caps {
		if sides {
			fmt.Fprintf(&b, "\033[%d;%dH┌%s┐\033[%d;%dH└%s┘", top, left, bar, bottom, left, bar)
		} else {
			fmt.Fprintf(&b, "\033[%d;%dH%s\033[%d;%dH%s", top, left+1, bar, bottom, left+1, bar)
		}
	}
	if sides {
		for row := top + 1; row < bottom; row++ {
			fmt.Fprintf(&b, "\033[%d;%dH│\033[%d;%dH│", row, left, row, right)
		}
	}
	io.WriteString(w, b.String())
}

// LogicalWidth returns the width of the drawing coordinate space.
func (c *Canvas) LogicalWidth() float64 { return c.logicalW }

// LogicalHeight returns the height of the drawing coordinate space, in sub-pixels.
func (c *Canvas) LogicalHeight() float64 { return c.logicalH }

// TerminalWidth returns the canvas width in terminal columns.
func (c *Canvas) TerminalWidth() int { return c.cols }

// TerminalHeight returns the canvas height in terminal rows.
func (c *Canvas) TerminalHeight() int { return c.rows }

// LogicalToTerminal converts logical coordinates to a 1-based canvas position (col, row).
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px, py := c.toPixel(x, y)
	return px + 1, py/2 + 1
}
