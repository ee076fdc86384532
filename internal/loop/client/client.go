// Package client runs one connection: it reads keys, drives the
// connection's own game session and draws frames to the terminal.
package client

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/balloonpop/internal/draw"
	"github.com/tomz197/balloonpop/internal/game"
	"github.com/tomz197/balloonpop/internal/input"
	"github.com/tomz197/balloonpop/internal/loop/config"
	"github.com/tomz197/balloonpop/internal/loop/server"
	"github.com/tomz197/balloonpop/internal/object"
)

// noticeSeconds is how long a high score notice stays on screen.
const noticeSeconds = 4.0

// Client plays rounds on one terminal.
type Client struct {
	server   server.GameServer
	handle   *server.ClientHandle
	state    *ClientState
	session  *game.Session // nil outside a round
	settings game.Settings
	sound    object.SoundPlayer
	logger   *log.Logger

	canvas *draw.Canvas
	out    *draw.ChunkWriter // One frame of output, flushed at the end of the frame
	term   io.Writer
	keys   *input.Stream
	idle   idleTimer
	size   draw.TermSizeFunc
	layout layout
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc // nil reads the size of os.Stdout
	Username     string
	Settings     *game.Settings     // nil uses game.DefaultSettings
	Sound        object.SoundPlayer // nil disables sound effects
	Logger       *log.Logger
}

// layout places the canvas on the terminal: the canvas is capped at the
// maximum render size and centered in the remaining room.
type layout struct {
	cols, rows     int
	offCol, offRow int
}

func fit(termWidth, termHeight int) layout {
	cols := min(termWidth, config.MaxTermWidth)
	rows := min(termHeight, config.MaxTermHeight)
	return layout{
		cols:   cols,
		rows:   rows,
		offCol: (termWidth - cols) / 2,
		offRow: (termHeight - rows) / 2,
	}
}

type idleLevel int

const (
	idleActive idleLevel = iota
	idleWarned
	idleExpired
)

// idleTimer measures the time since the last key press.
type idleTimer struct {
	last time.Time
}

func (t *idleTimer) touch(now time.Time) { t.last = now }

func (t idleTimer) level(now time.Time) idleLevel {
	switch idle := now.Sub(t.last).Seconds(); {
	case idle > config.InactivityDisconnectUser:
		return idleExpired
	case idle > config.InactivityWarnUser:
		return idleWarned
	default:
		return idleActive
	}
}

// remaining returns whole seconds until an idle client is disconnected.
func (t idleTimer) remaining(now time.Time) int {
	return max(0, int(config.InactivityDisconnectUser-now.Sub(t.last).Seconds()))
}

// NewClient registers a client with gs. Keys are read from r and frames written to w.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	settings := game.DefaultSettings()
	if opts.Settings != nil {
		settings = *opts.Settings
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	handle := gs.RegisterClient(opts.Username)

	termWidth, termHeight, _ := draw.QuerySize(opts.TermSizeFunc)
	l := fit(termWidth, termHeight)

	// The logical canvas keeps the scene's aspect ratio at any terminal size
	canvas := draw.NewScaledCanvas(l.cols, l.rows, config.ViewWidth, config.ViewWidth/settings.View.Aspect)
	canvas.SetOffset(l.offCol, l.offRow)

	return &Client{
		server:   gs,
		handle:   handle,
		state:    NewClientState(),
		settings: settings,
		sound:    opts.Sound,
		logger:   logger.With("client", handle.ID, "user", handle.Username),
		canvas:   canvas,
		out:      draw.NewChunkWriter(w, l.offCol, l.offRow),
		term:     w,
		keys:     input.StartStream(r),
		idle:     idleTimer{last: time.Now()},
		size:     opts.TermSizeFunc,
		layout:   l,
	}
}

// Run plays until the user quits, goes idle or the server shuts down.
func (c *Client) Run() error {
	defer c.server.UnregisterClient(c.handle.ID)

	draw.HideCursor(c.term)
	draw.ClearScreen(c.term)
	defer func() {
		draw.ClearScreen(c.term)
		draw.ShowCursor(c.term)
	}()

	ticker := time.NewTicker(config.ClientTargetFrameTime)
	defer ticker.Stop()

	last := time.Now()
	for c.state.Running {
		now := time.Now()
		if err := c.frame(now.Sub(last)); err != nil {
			return err
		}
		last = now
		<-ticker.C
	}
	return nil
}

// frame runs one iteration of the client loop.
func (c *Client) frame(delta time.Duration) error {
	c.state.delta = delta

	c.readKeys(time.Now())
	c.drainEvents()
	c.fitTerminal()

	switch c.state.GameState {
	case GameStateStart:
		if c.state.Input.Space || c.state.Input.Enter {
			c.startRound()
		}
	case GameStatePlaying:
		if err := c.playRound(); err != nil {
			return err
		}
	case GameStateShutdown:
		c.state.shutdownTimer -= delta.Seconds()
		if c.state.shutdownTimer <= 0 {
			c.state.Running = false
		}
	}

	c.state.noticeTimer = max(0, c.state.noticeTimer-delta.Seconds())
	return c.drawFrame()
}

// readKeys takes this frame's input and applies quit and the idle policy.
func (c *Client) readKeys(now time.Time) {
	in := input.ReadInput(c.keys)
	c.state.Input = in
	if len(in.Pressed) > 0 {
		c.idle.touch(now)
	}

	switch c.idle.level(now) {
	case idleExpired:
		c.logger.Info("disconnecting inactive client")
		c.state.Running = false
	case idleWarned:
		c.state.isInactive = true
	default:
		c.state.isInactive = false
	}

	if in.Quit {
		c.state.Running = false
	}
}

// drainEvents applies every pending server event.
func (c *Client) drainEvents() {
	for {
		select {
		case ev, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			c.handleEvent(ev)
		default:
			return
		}
	}
}

func (c *Client) handleEvent(ev server.ClientEvent) {
	switch ev.Type {
	case server.EventServerShutdown:
		c.state.GameState = GameStateShutdown
		c.state.shutdownTimer = config.ShutdownDisplaySeconds
	case server.EventHighScore:
		c.state.notice = fmt.Sprintf("New high score: %s with %d", ev.Username, ev.Score)
		c.state.noticeTimer = noticeSeconds
	}
}

// fitTerminal follows terminal resizes. A new layout clears the terminal so
// old borders or content outside the canvas don't linger.
func (c *Client) fitTerminal() {
	termWidth, termHeight, err := draw.QuerySize(c.size)
	if err != nil {
		return
	}
	l := fit(termWidth, termHeight)
	if l == c.layout {
		return
	}
	c.layout = l

	draw.ClearScreen(c.out)
	c.canvas.Resize(l.cols, l.rows)
	c.canvas.SetOffset(l.offCol, l.offRow)
	c.canvas.ForceRedraw()
	c.out.SetOffset(l.offCol, l.offRow)
}

// startRound gives this connection a fresh session.
func (c *Client) startRound() {
	input.ResetKeyInput(c.keys)

	c.session = game.NewSession(game.Options{
		Settings:   c.settings,
		Logger:     c.logger,
		Rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
		Sound:      c.sound,
		OnRoundEnd: c.onRoundEnd,
	})
	c.state.GameState = GameStatePlaying
}

// playRound advances the session by one frame. A lone ESC byte (not an
// arrow sequence) leaves the round for the title screen.
func (c *Client) playRound() error {
	if in := c.state.Input; in.Escape && len(in.Pressed) == 1 {
		c.logger.Info("round abandoned", "score", c.session.Director().Score())
		c.session = nil
		c.state.GameState = GameStateStart
		return nil
	}

	if err := c.session.Tick(c.state.delta, c.state.Input); err != nil {
		return fmt.Errorf("tick: %w", err)
	}
	return nil
}

// onRoundEnd records a finished round on the leaderboard.
func (c *Client) onRoundEnd(outcome game.Outcome, score int) {
	c.logger.Debug("score submitted", "outcome", outcome, "score", score)
	c.state.lastResult = roundResult{outcome: outcome, score: score}
	c.state.hasLastResult = true
	c.server.SubmitScore(c.handle.ID, score)
}
