// Package server tracks the connected players: their handles, the shared
// leaderboard and shutdown notices. Every connection plays its own scene;
// the server holds no game state.
package server

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/tomz197/balloonpop/internal/loop/config"
)

// GameServer is what a client needs from the registry.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID uuid.UUID)
	PlayerCount() int
	SubmitScore(clientID uuid.UUID, score int)
	TopScores(n int) []TopScoreEntry
}

var _ GameServer = (*Server)(nil)

// ClientHandle is a registered connection.
type ClientHandle struct {
	ID       uuid.UUID
	Username string           // Display name for this client
	EventsCh chan ClientEvent // Events sent to the client
}

// ClientEvent is pushed to a client's EventsCh.
type ClientEvent struct {
	Type     ClientEventType
	Username string // Holder of a new high score
	Score    int
}

type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
	EventHighScore                      // Someone took first place on the leaderboard
)

// TopScoreEntry is one leaderboard line.
type TopScoreEntry struct {
	Username string
	Score    int
	seq      int // Used for deterministic tie-break when scores are equal
}

// Server is the registry shared by all connections.
type Server struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*ClientHandle
	best    map[string]TopScoreEntry // Best round per username
	seq     int
	logger  *log.Logger

	// Closed when the last client leaves after Shutdown began
	drained chan struct{}
}

// NewServer creates an empty registry.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		clients: make(map[uuid.UUID]*ClientHandle),
		best:    make(map[string]TopScoreEntry),
		logger:  logger,
	}
}

// RegisterClient adds a connection under a fresh ID.
// Long names are truncated and an empty name becomes "anonymous".
func (s *Server) RegisterClient(username string) *ClientHandle {
	h := &ClientHandle{
		ID:       uuid.New(),
		Username: displayName(username),
		EventsCh: make(chan ClientEvent, 16),
	}

	s.mu.Lock()
	s.clients[h.ID] = h
	count := len(s.clients)
	s.mu.Unlock()

	s.logger.Info("client registered", "client", h.ID, "user", h.Username, "players", count)
	return h
}

// UnregisterClient removes a client and closes its event channel. Unknown IDs are ignored.
func (s *Server) UnregisterClient(clientID uuid.UUID) {
	s.mu.Lock()
	h, ok := s.clients[clientID]
	if ok {
		close(h.EventsCh)
		delete(s.clients, clientID)
	}
	count := len(s.clients)
	if count == 0 && s.drained != nil {
		close(s.drained)
		s.drained = nil
	}
	s.mu.Unlock()

	if ok {
		s.logger.Info("client unregistered", "client", clientID, "players", count)
	}
}

// PlayerCount returns the number of connected clients.
func (s *Server) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// SubmitScore records a finished round. Only a user's best score is kept.
// Taking first place notifies every other client.
func (s *Server) SubmitScore(clientID uuid.UUID, score int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.clients[clientID]
	if !ok || score <= 0 {
		return
	}

	prev, had := s.best[h.Username]
	if had && prev.Score >= score {
		return
	}

	leader, hasLeader := s.leaderLocked()
	s.seq++
	entry := TopScoreEntry{Username: h.Username, Score: score, seq: s.seq}
	s.best[h.Username] = entry

	if hasLeader && score <= leader.Score {
		return
	}

	s.logger.Info("new high score", "user", entry.Username, "score", score)
	for id, other := range s.clients {
		if id == clientID {
			continue
		}
		select {
		case other.EventsCh <- ClientEvent{Type: EventHighScore, Username: entry.Username, Score: score}:
		default:
		}
	}
}

// TopScores returns up to n leaderboard entries, best first. Equal scores
// keep the order in which they were set.
func (s *Server) TopScores(n int) []TopScoreEntry {
	s.mu.RLock()
	entries := make([]TopScoreEntry, 0, len(s.best))
	for _, e := range s.best {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	slices.SortFunc(entries, compareEntries)
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func compareEntries(a, b TopScoreEntry) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.seq, b.seq)
}

// leaderLocked returns the current first place. Must be called with lock held.
func (s *Server) leaderLocked() (TopScoreEntry, bool) {
	var leader TopScoreEntry
	found := false
	for _, e := range s.best {
		if !found || compareEntries(e, leader) < 0 {
			leader = e
			found = true
		}
	}
	return leader, found
}

// Shutdown sends every client the shutdown notice and blocks until all of
// them have left or timeout passes.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.Lock()
	if len(s.clients) == 0 {
		s.mu.Unlock()
		return
	}
	if s.drained == nil {
		s.drained = make(chan struct{})
	}
	drained := s.drained
	for _, h := range s.clients {
		select {
		case h.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-drained:
	case <-timer.C:
		s.logger.Warn("shutdown timed out", "remaining", s.PlayerCount())
	}
}

// displayName normalizes a username for display.
func displayName(username string) string {
	if username == "" {
		return "anonymous"
	}
	r := []rune(username)
	if len(r) > config.MaxUsernameLength {
		r = r[:config.MaxUsernameLength]
	}
	return string(r)
}
