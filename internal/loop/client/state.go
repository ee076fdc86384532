package client

import (
	"time"

	"github.com/tomz197/balloonpop/internal/game"
	"github.com/tomz197/balloonpop/internal/input"
)

// GameState represents the current game phase for a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Active gameplay
	GameStateShutdown                  // Server is shutting down
)

// roundResult is the outcome of the last finished round, shown on the title screen.
type roundResult struct {
	outcome game.Outcome
	score   int
}

// ClientState holds per-connection state (input, phase, timers, notices).
type ClientState struct {
	Input         input.Input
	GameState     GameState     // This client's game phase
	prevGameState GameState     // Phase drawn last frame
	Running       bool          // Client loop running
	delta         time.Duration // Frame delta time
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state
	wasInactive   bool

	notice      string  // Transient message shown over the HUD
	noticeTimer float64 // Seconds left for notice

	lastResult    roundResult
	hasLastResult bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Running:   true,
	}
}
