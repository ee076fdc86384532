// Package input turns a raw terminal byte stream into per-frame key state.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
const keyHoldDuration = 30 * time.Millisecond

// Input represents the current frame's input state.
// Held keys stay true for keyHoldDuration after their last byte so
// simultaneous keys can be combined. Jump and Shoot are edge-triggered:
// true only on the frame whose bytes contained the key.
type Input struct {
	Quit   bool
	Left   bool
	Right  bool
	Up     bool
	Down   bool
	Space  bool
	Enter  bool
	Escape bool

	Jump  bool // Space or W pressed this frame
	Shoot bool // F or X pressed this frame

	Pressed []byte
}

// key is a held key tracked by the stream.
type key int

const (
	keyNone key = iota
	keyQuit
	keyLeft
	keyRight
	keyUp
	keyDown
	keySpace
	keyEnter
	keyEscape
	numKeys
)

// keymap maps single bytes to held keys. Letters follow WASD and vi keys.
var keymap = buildKeymap(map[key]string{
	keyQuit:   "qQ",
	keyLeft:   "aAhH",
	keyRight:  "dDlL",
	keyUp:     "wWkK",
	keyDown:   "sSjJ",
	keySpace:  " ",
	keyEnter:  "\r\n",
	keyEscape: "\x1b",
})

func buildKeymap(groups map[key]string) (m [256]key) {
	for k, bs := range groups {
		for i := 0; i < len(bs); i++ {
			m[bs[i]] = k
		}
	}
	return m
}

// arrows maps the final byte of an ESC [ sequence to an arrow key.
var arrows = map[byte]key{
	'A': keyUp,
	'B': keyDown,
	'C': keyRight,
	'D': keyLeft,
}

// Stream delivers input bytes via a channel and tracks when each key was last seen.
type Stream struct {
	ch   chan byte
	seen [numKeys]time.Time
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		defer close(s.ch)
		for {
			b, err := r.ReadByte()
			if err != nil {
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains every byte available on the stream without blocking
// and returns the resulting frame input.
func ReadInput(s *Stream) Input {
	var buf []byte
	for {
		select {
		case b, ok := <-s.ch:
			if ok {
				buf = append(buf, b)
				continue
			}
		default:
		}
		return s.apply(buf, time.Now())
	}
}

// ResetKeyInput clears held key state and discards buffered bytes, so a key
// pressed on a menu screen doesn't leak into gameplay.
func ResetKeyInput(s *Stream) {
	s.seen = [numKeys]time.Time{}
	for {
		select {
		case _, ok := <-s.ch:
			if ok {
				continue
			}
		default:
		}
		return
	}
}

// apply parses one frame's bytes at time now and builds the frame input.
func (s *Stream) apply(buf []byte, now time.Time) Input {
	in := Input{Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			if k, ok := arrows[buf[i+2]]; ok {
				s.seen[k] = now
				i += 2
				continue
			}
		}

		switch b {
		case ' ', 'w', 'W':
			in.Jump = true
		case 'f', 'F', 'x', 'X':
			in.Shoot = true
		}
		if k := keymap[b]; k != keyNone {
			s.seen[k] = now
		}
	}

	held := func(k key) bool { return now.Sub(s.seen[k]) < keyHoldDuration }
	in.Quit = held(keyQuit)
	in.Left = held(keyLeft)
	in.Right = held(keyRight)
	in.Up = held(keyUp)
	in.Down = held(keyDown)
	in.Space = held(keySpace)
	in.Enter = held(keyEnter)
	in.Escape = held(keyEscape)
	return in
}
