package game

import (
	"github.com/tomz197/balloonpop/internal/object"
	"github.com/tomz197/balloonpop/internal/physics"
)

// Settings is every designer-tunable value of a scene.
type Settings struct {
	View        object.Viewport          `yaml:"view"`
	Ground      []object.Surface         `yaml:"ground"`
	PlayerStart physics.Vec2             `yaml:"playerStart"`
	Director    DirectorConfig           `yaml:"director"`
	Balloon     object.BalloonConfig     `yaml:"balloon"`
	Pin         object.PinConfig         `yaml:"pin"`
	Player      object.PlayerConfig      `yaml:"player"`
	Crow        object.CrowConfig        `yaml:"crow"`
	CrowSpawner object.CrowSpawnerConfig `yaml:"crowSpawner"`
}

// DefaultSettings returns the stock scene: a 16:9 view ten units tall with
// the ground one unit above the bottom edge.
func DefaultSettings() Settings {
	view := object.Viewport{HalfHeight: 5, Aspect: 16.0 / 9.0}
	lo, hi := view.Min(), view.Max()
	groundTop := lo.Y + 1

	player := object.DefaultPlayerConfig()

	return Settings{
		View: view,
		// Two overlapping tiles, so the player can touch both at once in the middle
		Ground: []object.Surface{
			{Top: groundTop, MinX: lo.X - 1, MaxX: 0.5},
			{Top: groundTop, MinX: -0.5, MaxX: hi.X + 1},
		},
		PlayerStart: physics.Vec2{X: 0, Y: groundTop + player.HalfExtent.Y},
		Director:    DefaultDirectorConfig(),
		Balloon:     object.DefaultBalloonConfig(),
		Pin:         object.DefaultPinConfig(),
		Player:      player,
		Crow:        object.DefaultCrowConfig(),
		CrowSpawner: object.DefaultCrowSpawnerConfig(),
	}
}
