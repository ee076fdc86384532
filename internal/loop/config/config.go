// Package config centralizes the client loop parameters and loads the
// designer tuning of a scene.
package config

import "time"

// View resolution - the canvas width in logical units. The logical height
// follows the scene viewport's aspect ratio.
// Actual rendering scales to fit terminal size.
const ViewWidth = 120.0

// Maximum render area in terminal cells. Larger terminals get a border.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 50
)

// Player
const (
	MaxUsernameLength = 16 // Maximum display length for player usernames
	LeaderboardSize   = 5  // Entries shown on the start screen
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)
