package draw

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strconv"

	"golang.org/x/term"
)

// ErrNoTerminalSize is returned when a size function reports an unusable size.
var ErrNoTerminalSize = errors.New("terminal size unavailable")

// ChunkWriter collects one frame of terminal output and sends it in MTU-sized
// writes on Flush. Cursor positions are canvas-relative; the offset that
// centers the canvas on the terminal is added to every position.
type ChunkWriter struct {
	dst      io.Writer
	frame    bytes.Buffer
	seq      []byte
	col, row int
}

// NewChunkWriter creates a ChunkWriter sending frames to w with the canvas
// placed at terminal offset (offsetCol, offsetRow).
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{dst: w, col: offsetCol, row: offsetRow}
}

// SetOffset moves the canvas origin, e.g. after a terminal resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.col, cw.row = offsetCol, offsetRow
}

// MoveCursor queues a cursor move to the 1-based canvas position (col, row).
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.seq = append(cw.seq[:0], "\033["...)
	cw.seq = strconv.AppendInt(cw.seq, int64(row+cw.row), 10)
	cw.seq = append(cw.seq, ';')
	cw.seq = strconv.AppendInt(cw.seq, int64(col+cw.col), 10)
	cw.seq = append(cw.seq, 'H')
	cw.frame.Write(cw.seq)
}

// Write queues p. It never fails.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	return cw.frame.Write(p)
}

// WriteString queues s. It never fails.
func (cw *ChunkWriter) WriteString(s string) (int, error) {
	return cw.frame.WriteString(s)
}

// WriteAt queues s at the 1-based canvas position (col, row).
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.frame.WriteString(s)
}

// WriteStyled queues s at (col, row) wrapped in an ANSI style and a reset.
func (cw *ChunkWriter) WriteStyled(col, row int, style, s string) {
	cw.MoveCursor(col, row)
	cw.frame.WriteString(style)
	cw.frame.WriteString(s)
	cw.frame.WriteString(ColorReset)
}

// Pending returns the number of bytes queued since the last Flush.
func (cw *ChunkWriter) Pending() int {
	return cw.frame.Len()
}

// Flush sends the queued frame in chunks of at most maxChunkSize bytes.
// The frame is dropped even if a write fails.
func (cw *ChunkWriter) Flush() error {
	defer cw.frame.Reset()
	for data := cw.frame.Bytes(); len(data) > 0; {
		n := min(len(data), maxChunkSize)
		if _, err := cw.dst.Write(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

var (
	_ io.Writer       = (*ChunkWriter)(nil)
	_ io.StringWriter = (*ChunkWriter)(nil)
)

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// QuerySize calls sizeFunc, or DefaultTermSizeFunc when it is nil, and
// rejects sizes without at least one column and row.
func QuerySize(sizeFunc TermSizeFunc) (width, height int, err error) {
	if sizeFunc == nil {
		sizeFunc = DefaultTermSizeFunc
	}
	width, height, err = sizeFunc()
	if err != nil {
		return 0, 0, err
	}
	if width < 1 || height < 1 {
		return 0, 0, ErrNoTerminalSize
	}
	return width, height, nil
}
