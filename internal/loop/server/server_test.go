package server

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func newTestServer() *Server {
	return NewServer(log.New(io.Discard))
}

func TestRegisterAndUnregister(t *testing.T) {
	s := newTestServer()
	a := s.RegisterClient("alice")
	b := s.RegisterClient("bob")

	if a.ID == b.ID {
		t.Fatal("clients share an ID")
	}
	if got := s.PlayerCount(); got != 2 {
		t.Fatalf("PlayerCount() = %d, want 2", got)
	}

	s.UnregisterClient(a.ID)
	s.UnregisterClient(a.ID)
	if got := s.PlayerCount(); got != 1 {
		t.Fatalf("PlayerCount() = %d after unregister, want 1", got)
	}
	if _, ok := <-a.EventsCh; ok {
		t.Fatal("events channel still open after unregister")
	}
}

func TestDisplayName(t *testing.T) {
	s := newTestServer()
	if got := s.RegisterClient("").Username; got != "anonymous" {
		t.Errorf("empty name = %q, want anonymous", got)
	}
	long := strings.Repeat("x", 40)
	if got := s.RegisterClient(long).Username; len(got) != 16 {
		t.Errorf("long name kept %d characters, want 16", len(got))
	}
}

func TestTopScoresKeepsBestPerUser(t *testing.T) {
	s := newTestServer()
	alice := s.RegisterClient("alice")
	bob := s.RegisterClient("bob")
	carol := s.RegisterClient("carol")

	s.SubmitScore(alice.ID, 900)
	s.SubmitScore(alice.ID, 300) // Worse, ignored
	s.SubmitScore(bob.ID, 1200)
	s.SubmitScore(carol.ID, 900)
	s.SubmitScore(carol.ID, 0) // Nothing to record

	top := s.TopScores(5)
	want := []TopScoreEntry{{Username: "bob", Score: 1200}, {Username: "alice", Score: 900}, {Username: "carol", Score: 900}}
	if len(top) != len(want) {
		t.Fatalf("TopScores() = %v, want %d entries", top, len(want))
	}
	for i := range want {
		if top[i].Username != want[i].Username || top[i].Score != want[i].Score {
			t.Errorf("TopScores()[%d] = %+v, want %+v", i, top[i], want[i])
		}
	}

	if got := s.TopScores(1); len(got) != 1 || got[0].Username != "bob" {
		t.Errorf("TopScores(1) = %v", got)
	}
}

func TestHighScoreNotifiesOthers(t *testing.T) {
	s := newTestServer()
	alice := s.RegisterClient("alice")
	bob := s.RegisterClient("bob")

	s.SubmitScore(alice.ID, 500)
	select {
	case ev := <-bob.EventsCh:
		if ev.Type != EventHighScore || ev.Username != "alice" || ev.Score != 500 {
			t.Fatalf("event = %+v", ev)
		}
	default:
		t.Fatal("bob was not told about the new high score")
	}
	select {
	case ev := <-alice.EventsCh:
		t.Fatalf("scorer received own event %+v", ev)
	default:
	}

	// Not first place, no event
	s.SubmitScore(bob.ID, 400)
	select {
	case ev := <-alice.EventsCh:
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func TestShutdownNotifiesAndWaits(t *testing.T) {
	s := newTestServer()
	h := s.RegisterClient("alice")

	go func() {
		ev := <-h.EventsCh
		if ev.Type == EventServerShutdown {
			s.UnregisterClient(h.ID)
		}
	}()

	done := make(chan struct{})
	go func() {
		s.Shutdown(5 * time.Second)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Shutdown did not return after the client left")
	}
	if s.PlayerCount() != 0 {
		t.Fatal("client still registered")
	}
}

func TestShutdownTimesOut(t *testing.T) {
	s := newTestServer()
	s.RegisterClient("stubborn")

	start := time.Now()
	s.Shutdown(100 * time.Millisecond)
	if time.Since(start) > 2*time.Second {
		t.Fatal("Shutdown ignored its timeout")
	}
}
