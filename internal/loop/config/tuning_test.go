package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomz197/balloonpop/internal/game"
)

func TestLoadTuningEmptyPathReturnsDefaults(t *testing.T) {
	s, err := LoadTuning("")
	if err != nil {
		t.Fatalf("LoadTuning(\"\") error = %v", err)
	}
	if err := Validate(s); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if s.Director != game.DefaultDirectorConfig() {
		t.Fatalf("director = %+v, want defaults", s.Director)
	}
}

func TestLoadTuningOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	yml := `
director:
  lives: 5
  balloonsToWin: 3
balloon:
  moveSpeed: 1.5
crowSpawner:
  minSpawnInterval: 2
  maxSpawnInterval: 4
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning() error = %v", err)
	}

	def := game.DefaultSettings()
	if s.Director.Lives != 5 || s.Director.BalloonsToWin != 3 {
		t.Errorf("director = %+v, want lives 5 and target 3", s.Director)
	}
	if s.Director.BasePoints != def.Director.BasePoints {
		t.Errorf("basePoints = %d, want default %d", s.Director.BasePoints, def.Director.BasePoints)
	}
	if s.Balloon.MoveSpeed != 1.5 || s.Balloon.MaxSize != def.Balloon.MaxSize {
		t.Errorf("balloon = %+v", s.Balloon)
	}
	if s.CrowSpawner.MinSpawnInterval != 2 || s.CrowSpawner.MaxSpawnInterval != 4 {
		t.Errorf("crowSpawner = %+v", s.CrowSpawner)
	}
	if len(s.Ground) != len(def.Ground) {
		t.Errorf("ground replaced: %d surfaces", len(s.Ground))
	}
}

func TestParseTuningErrors(t *testing.T) {
	tests := []struct {
		name    string
		yml     string
		invalid bool
	}{
		{"unknown key", "director:\n  livez: 2\n", false},
		{"bad type", "pin:\n  lifetime: soon\n", false},
		{"zero lives", "director:\n  lives: 0\n", true},
		{"inverted crow interval", "crowSpawner:\n  minSpawnInterval: 9\n  maxSpawnInterval: 1\n", true},
		{"max size below initial", "balloon:\n  maxSize: 0.5\n", true},
		{"empty ground", "ground: []\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTuning([]byte(tt.yml))
			if err == nil {
				t.Fatal("ParseTuning() returned no error")
			}
			if got := errors.Is(err, ErrInvalidTuning); got != tt.invalid {
				t.Fatalf("errors.Is(err, ErrInvalidTuning) = %v, want %v (err = %v)", got, tt.invalid, err)
			}
		})
	}
}

func TestParseTuningEmptyDocument(t *testing.T) {
	s, err := ParseTuning(nil)
	if err != nil {
		t.Fatalf("ParseTuning(nil) error = %v", err)
	}
	if s.Pin != game.DefaultSettings().Pin {
		t.Fatalf("pin = %+v, want defaults", s.Pin)
	}
}

func TestValidateListsEveryProblem(t *testing.T) {
	s := game.DefaultSettings()
	s.Pin.Lifetime = 0
	s.Crow.Speed = -1

	err := Validate(s)
	if err == nil {
		t.Fatal("Validate() accepted broken settings")
	}
	for _, want := range []string{"pin.lifetime", "crow.speed"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadTuningMissingFile(t *testing.T) {
	_, err := LoadTuning(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("LoadTuning() error = %v, want not-exist", err)
	}
}
