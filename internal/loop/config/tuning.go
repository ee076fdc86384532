package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tomz197/balloonpop/internal/game"
	"gopkg.in/yaml.v3"
)

// ErrInvalidTuning is wrapped by every validation failure.
var ErrInvalidTuning = errors.New("invalid tuning")

// LoadTuning reads a YAML overlay from path on top of game.DefaultSettings.
// Keys missing from the file keep their defaults; unknown keys are rejected.
// An empty path returns the defaults.
func LoadTuning(path string) (game.Settings, error) {
	settings := game.DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("read tuning: %w", err)
	}
	return ParseTuning(data)
}

// ParseTuning applies a YAML overlay to the default settings and validates the result.
func ParseTuning(data []byte) (game.Settings, error) {
	settings := game.DefaultSettings()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
		return game.DefaultSettings(), fmt.Errorf("parse tuning: %w", err)
	}

	if err := Validate(settings); err != nil {
		return game.DefaultSettings(), err
	}
	return settings, nil
}

// Validate reports every setting that would break the scene.
func Validate(s game.Settings) error {
	var problems []string
	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	check(s.View.HalfHeight > 0, "view.halfHeight must be positive")
	check(s.View.Aspect > 0, "view.aspect must be positive")

	check(len(s.Ground) > 0, "ground needs at least one surface")
	for i, g := range s.Ground {
		check(g.MinX < g.MaxX, fmt.Sprintf("ground[%d]: minX must be below maxX", i))
	}

	d := s.Director
	check(d.Lives > 0, "director.lives must be positive")
	check(d.BalloonsToWin > 0, "director.balloonsToWin must be positive")
	check(d.SpawnInterval > 0, "director.spawnInterval must be positive")
	check(d.SpawnAreaMin.X <= d.SpawnAreaMax.X && d.SpawnAreaMin.Y <= d.SpawnAreaMax.Y,
		"director.spawnAreaMin must not exceed spawnAreaMax")
	check(d.RestartDelay >= 0, "director.restartDelay must not be negative")

	b := s.Balloon
	check(b.MoveSpeed >= 0, "balloon.moveSpeed must not be negative")
	check(b.GrowthInterval >= 0, "balloon.growthInterval must not be negative")
	check(b.GrowthAmount >= 0, "balloon.growthAmount must not be negative")
	check(b.InitialScale > 0, "balloon.initialScale must be positive")
	check(b.MaxSize > b.InitialScale, "balloon.maxSize must exceed initialScale")

	check(s.Pin.MoveSpeed > 0, "pin.moveSpeed must be positive")
	check(s.Pin.Lifetime > 0, "pin.lifetime must be positive")

	check(s.Player.MoveSpeed >= 0, "player.moveSpeed must not be negative")
	check(s.Player.JumpForce >= 0, "player.jumpForce must not be negative")

	check(s.Crow.Speed > 0, "crow.speed must be positive")

	cs := s.CrowSpawner
	check(cs.MinSpawnInterval > 0, "crowSpawner.minSpawnInterval must be positive")
	check(cs.MinSpawnInterval <= cs.MaxSpawnInterval, "crowSpawner.minSpawnInterval must not exceed maxSpawnInterval")

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTuning, strings.Join(problems, "; "))
	}
	return nil
}
