package client

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/balloonpop/internal/game"
	"github.com/tomz197/balloonpop/internal/loop/config"
	"github.com/tomz197/balloonpop/internal/loop/server"
)

const testFrame = 16 * time.Millisecond

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func newTestClient(t *testing.T, r io.Reader) (*Client, *server.Server, *bytes.Buffer) {
	t.Helper()
	logger := log.New(io.Discard)
	srv := server.NewServer(logger)
	out := &bytes.Buffer{}
	c := NewClient(srv, bufio.NewReader(r), out, ClientOptions{
		TermSizeFunc: fixedSize(100, 40),
		Username:     "tester",
		Logger:       logger,
	})
	return c, srv, out
}

// frameUntil runs frames until cond holds, giving the input goroutine time to deliver bytes.
func frameUntil(t *testing.T, c *Client, cond func() bool) {
	t.Helper()
	for i := 0; i < 200; i++ {
		if err := c.frame(testFrame); err != nil {
			t.Fatalf("frame() error = %v", err)
		}
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not reached")
}

func TestFitLayout(t *testing.T) {
	tests := []struct {
		w, h int
		want layout
	}{
		{80, 24, layout{cols: 80, rows: 24}},
		{config.MaxTermWidth + 20, config.MaxTermHeight + 10, layout{cols: config.MaxTermWidth, rows: config.MaxTermHeight, offCol: 10, offRow: 5}},
		{config.MaxTermWidth + 1, 30, layout{cols: config.MaxTermWidth, rows: 30}},
	}
	for _, tt := range tests {
		if got := fit(tt.w, tt.h); got != tt.want {
			t.Errorf("fit(%d, %d) = %+v, want %+v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestIdleTimer(t *testing.T) {
	now := time.Now()
	idle := idleTimer{last: now}

	if got := idle.level(now.Add(time.Second)); got != idleActive {
		t.Errorf("level after 1s = %v, want active", got)
	}
	warn := time.Duration(config.InactivityWarnUser+1) * time.Second
	if got := idle.level(now.Add(warn)); got != idleWarned {
		t.Errorf("level after %v = %v, want warned", warn, got)
	}
	gone := time.Duration(config.InactivityDisconnectUser+1) * time.Second
	if got := idle.level(now.Add(gone)); got != idleExpired {
		t.Errorf("level after %v = %v, want expired", gone, got)
	}
	if got := idle.remaining(now.Add(gone)); got != 0 {
		t.Errorf("remaining after expiry = %d, want 0", got)
	}

	idle.touch(now.Add(gone))
	if got := idle.level(now.Add(gone)); got != idleActive {
		t.Errorf("level after touch = %v, want active", got)
	}
}

func TestResizeMovesCanvas(t *testing.T) {
	w, h := 100, 40
	logger := log.New(io.Discard)
	c := NewClient(server.NewServer(logger), bufio.NewReader(strings.NewReader("")), io.Discard, ClientOptions{
		TermSizeFunc: func() (int, int, error) { return w, h, nil },
		Logger:       logger,
	})

	w, h = config.MaxTermWidth+40, config.MaxTermHeight+20
	if err := c.frame(testFrame); err != nil {
		t.Fatal(err)
	}
	if c.canvas.TerminalWidth() != config.MaxTermWidth || c.canvas.OffsetCol() != 20 || c.canvas.OffsetRow() != 10 {
		t.Fatalf("canvas %dx%d at (%d, %d) after resize", c.canvas.TerminalWidth(), c.canvas.TerminalHeight(),
			c.canvas.OffsetCol(), c.canvas.OffsetRow())
	}
}

func TestSpaceStartsRound(t *testing.T) {
	c, srv, out := newTestClient(t, strings.NewReader(" "))

	if srv.PlayerCount() != 1 {
		t.Fatalf("PlayerCount() = %d, want 1", srv.PlayerCount())
	}
	frameUntil(t, c, func() bool { return c.state.GameState == GameStatePlaying })
	if c.session == nil {
		t.Fatal("no session after starting")
	}

	out.Reset()
	if err := c.frame(testFrame); err != nil {
		t.Fatal(err)
	}
	hud := out.String()
	for _, want := range []string{"Score: 0", "Lives: 3", "Balloons:", "Players: 1"} {
		if !strings.Contains(hud, want) {
			t.Errorf("HUD missing %q", want)
		}
	}
}

func TestStartScreenShowsControls(t *testing.T) {
	c, _, out := newTestClient(t, strings.NewReader(""))
	if err := c.frame(testFrame); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Controls") {
		t.Fatal("start screen missing controls")
	}
}

func TestQuitStopsClient(t *testing.T) {
	c, _, _ := newTestClient(t, strings.NewReader("q"))
	frameUntil(t, c, func() bool { return !c.state.Running })
}

func TestEscapeLeavesRound(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	c, _, _ := newTestClient(t, pr)

	pw.Write([]byte(" "))
	frameUntil(t, c, func() bool { return c.state.GameState == GameStatePlaying })

	pw.Write([]byte("\x1b"))
	frameUntil(t, c, func() bool { return c.state.GameState == GameStateStart })
	if c.session != nil {
		t.Fatal("session kept after leaving the round")
	}
}

func TestShutdownEventEndsClient(t *testing.T) {
	c, _, out := newTestClient(t, strings.NewReader(""))
	c.handle.EventsCh <- server.ClientEvent{Type: server.EventServerShutdown}

	if err := c.frame(testFrame); err != nil {
		t.Fatal(err)
	}
	if c.state.GameState != GameStateShutdown {
		t.Fatalf("state = %v, want shutdown", c.state.GameState)
	}
	if !strings.Contains(out.String(), "SERVER SHUTTING DOWN") {
		t.Fatal("shutdown screen not drawn")
	}

	if err := c.frame(time.Duration(config.ShutdownDisplaySeconds+1) * time.Second); err != nil {
		t.Fatal(err)
	}
	if c.state.Running {
		t.Fatal("client still running after the shutdown countdown")
	}
}

func TestHighScoreNotice(t *testing.T) {
	c, _, out := newTestClient(t, strings.NewReader(""))
	c.handle.EventsCh <- server.ClientEvent{Type: server.EventHighScore, Username: "rival", Score: 900}

	if err := c.frame(testFrame); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "New high score: rival with 900") {
		t.Fatal("high score notice not drawn")
	}
}

func TestRoundEndSubmitsScore(t *testing.T) {
	c, srv, _ := newTestClient(t, strings.NewReader(""))
	c.onRoundEnd(game.OutcomeWon, 700)

	top := srv.TopScores(1)
	if len(top) != 1 || top[0].Username != "tester" || top[0].Score != 700 {
		t.Fatalf("TopScores(1) = %+v, want tester with 700", top)
	}
	if !c.state.hasLastResult || c.state.lastResult.outcome != game.OutcomeWon {
		t.Fatalf("last result = %+v", c.state.lastResult)
	}
}

func TestRunUnregistersOnExit(t *testing.T) {
	c, srv, _ := newTestClient(t, strings.NewReader("q"))

	done := make(chan error, 1)
	go func() { done <- c.Run() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after quit")
	}
	if srv.PlayerCount() != 0 {
		t.Fatal("client still registered after Run returned")
	}
}
