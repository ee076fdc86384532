package game

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/tomz197/balloonpop/internal/input"
	"github.com/tomz197/balloonpop/internal/object"
	"github.com/tomz197/balloonpop/internal/physics"
)

const tick = 50 * time.Millisecond

func newTestSession(t *testing.T, settings Settings) *Session {
	t.Helper()
	return NewSession(Options{
		Settings: settings,
		Logger:   quietLogger(),
		Rand:     rand.New(rand.NewSource(1)),
	})
}

// quietSettings disables the periodic producers so tests control every entity.
func quietSettings() Settings {
	s := DefaultSettings()
	s.Director.SpawnInterval = 1e9
	s.CrowSpawner.MinSpawnInterval = 1e9
	s.CrowSpawner.MaxSpawnInterval = 1e9
	return s
}

func countTag(s *Session, tag object.Tag) int {
	n := 0
	for _, obj := range s.Objects() {
		if c, ok := obj.(object.Collider); ok && c.Tag() == tag {
			n++
		}
	}
	return n
}

func TestSessionRejectsSecondDirector(t *testing.T) {
	s := newTestSession(t, quietSettings())
	first := s.Director()

	err := s.SetDirector(NewDirector(DefaultDirectorConfig(), NewScheduler(0), quietLogger()))
	if !errors.Is(err, ErrDirectorExists) {
		t.Fatalf("SetDirector() error = %v, want ErrDirectorExists", err)
	}
	if s.Director() != first {
		t.Fatal("duplicate director replaced the first")
	}
}

func TestSessionPlayerLandsAndJumps(t *testing.T) {
	s := newTestSession(t, quietSettings())
	p := s.Player()
	groundTop := s.Settings().Ground[0].Top

	s.Tick(tick, input.Input{})
	if !p.Grounded() {
		t.Fatal("player not grounded after first tick")
	}
	if feet := p.Position.Y - p.FootOffset(); math.Abs(feet-groundTop) > 1e-9 {
		t.Fatalf("feet at %v, want ground %v", feet, groundTop)
	}

	s.Tick(tick, input.Input{Jump: true})
	if p.Grounded() || p.Position.Y-p.FootOffset() <= groundTop {
		t.Fatal("player did not leave the ground on jump")
	}

	// Falls back and lands again
	for i := 0; i < 60 && !p.Grounded(); i++ {
		s.Tick(tick, input.Input{})
	}
	if !p.Grounded() {
		t.Fatal("player never landed after jump")
	}
}

func TestSessionPlayerStaysGroundedAcrossTiles(t *testing.T) {
	s := newTestSession(t, quietSettings())
	p := s.Player()

	// Start on the overlap of both tiles, walk right onto the second only
	s.Tick(tick, input.Input{})
	for i := 0; i < 10; i++ {
		s.Tick(tick, input.Input{Right: true})
		if !p.Grounded() {
			t.Fatalf("lost ground at x=%v", p.Position.X)
		}
	}
	if p.Position.X <= s.Settings().Ground[0].MaxX {
		t.Fatalf("player at x=%v never left the first tile", p.Position.X)
	}
}

func TestSessionPinPopsBalloon(t *testing.T) {
	s := newTestSession(t, quietSettings())
	cfg := object.DefaultBalloonConfig()
	cfg.MoveSpeed = 0

	s.Spawn(object.NewBalloon(physics.Vec2{X: 0, Y: 2}, cfg, s.Director()))
	s.Spawn(object.NewPin(physics.Vec2{X: 0, Y: 1.9}, object.DefaultPinConfig()))
	s.Tick(tick, input.Input{})

	if got := s.Director().BalloonsPopped(); got != 1 {
		t.Fatalf("BalloonsPopped() = %d, want 1", got)
	}
	if got := s.Director().Score(); got != 150 {
		t.Fatalf("Score() = %d, want 150", got)
	}
	if countTag(s, object.TagBalloon) != 0 || countTag(s, object.TagPin) != 0 {
		t.Fatal("popped balloon or spent pin still in the scene")
	}
}

func TestSessionPinPopsOneBalloon(t *testing.T) {
	s := newTestSession(t, quietSettings())
	cfg := object.DefaultBalloonConfig()
	cfg.MoveSpeed = 0

	s.Spawn(object.NewBalloon(physics.Vec2{X: 0, Y: 2}, cfg, s.Director()))
	s.Spawn(object.NewBalloon(physics.Vec2{X: 0.1, Y: 2.1}, cfg, s.Director()))
	s.Spawn(object.NewPin(physics.Vec2{X: 0, Y: 2}, object.DefaultPinConfig()))
	s.Tick(tick, input.Input{})

	if got := s.Director().BalloonsPopped(); got != 1 {
		t.Fatalf("one pin popped %d balloons", got)
	}
	if countTag(s, object.TagBalloon) != 1 {
		t.Fatalf("balloons left = %d, want 1", countTag(s, object.TagBalloon))
	}
}

func TestSessionShootingFromPlayer(t *testing.T) {
	s := newTestSession(t, quietSettings())
	s.Tick(tick, input.Input{Shoot: true})

	if countTag(s, object.TagPin) != 1 {
		t.Fatalf("pins = %d after shooting, want 1", countTag(s, object.TagPin))
	}
}

func TestSessionRestartAfterLoss(t *testing.T) {
	settings := quietSettings()
	settings.Director.Lives = 1
	var ended []Outcome
	s := NewSession(Options{
		Settings:   settings,
		Logger:     quietLogger(),
		Rand:       rand.New(rand.NewSource(1)),
		OnRoundEnd: func(o Outcome, _ int) { ended = append(ended, o) },
	})
	first := s.Director()
	still := object.DefaultBalloonConfig()
	still.MoveSpeed = 0
	s.Spawn(object.NewBalloon(physics.Vec2{X: 0, Y: 2}, still, first))

	s.Tick(tick, input.Input{})
	first.LoseLife()
	if first.Outcome() != OutcomeLost {
		t.Fatalf("outcome = %v, want lost", first.Outcome())
	}

	start := s.Now()
	for s.Round() == 1 && s.Now()-start < 3 {
		s.Tick(tick, input.Input{})
	}

	if s.Round() != 2 {
		t.Fatal("scene did not restart")
	}
	if elapsed := s.Now() - start; elapsed < settings.Director.RestartDelay-1e-9 {
		t.Fatalf("restarted after %vs, want %vs", elapsed, settings.Director.RestartDelay)
	}
	d := s.Director()
	if d == first || d.Outcome() != OutcomePlaying || d.Lives() != 1 || d.Score() != 0 {
		t.Fatalf("restarted director = %+v", d)
	}
	if countTag(s, object.TagBalloon) != 0 {
		t.Fatal("entities from the previous round survived the restart")
	}
	if len(ended) != 1 || ended[0] != OutcomeLost {
		t.Fatalf("round ends = %v, want [lost]", ended)
	}
}

func TestSessionClampsFrameDelta(t *testing.T) {
	s := newTestSession(t, quietSettings())
	s.Tick(5*time.Second, input.Input{})
	if got := s.Now(); math.Abs(got-MaxFrameDelta.Seconds()) > 1e-9 {
		t.Fatalf("Now() = %v after a long frame, want %v", got, MaxFrameDelta.Seconds())
	}
}

func TestSessionCrowDespawnReschedules(t *testing.T) {
	settings := quietSettings()
	settings.CrowSpawner.MinSpawnInterval = 0.5
	settings.CrowSpawner.MaxSpawnInterval = 0.5
	settings.Crow.Speed = 100
	s := newTestSession(t, settings)
	spawner := s.CrowSpawner()

	for i := 0; i < 100 && spawner.Current() == nil; i++ {
		s.Tick(tick, input.Input{})
	}
	if spawner.Current() == nil {
		t.Fatal("no crow spawned")
	}

	for i := 0; i < 100 && spawner.Current() != nil; i++ {
		s.Tick(tick, input.Input{})
		if n := countTag(s, object.TagCrow); n > 1 {
			t.Fatalf("%d crows live at once", n)
		}
	}
	if spawner.Current() != nil || countTag(s, object.TagCrow) != 0 {
		t.Fatal("crow never despawned")
	}
	if gap := spawner.NextSpawn() - s.Now(); math.Abs(gap-0.5) > 1e-9 {
		t.Fatalf("next spawn %vs after despawn, want 0.5s", gap)
	}
}

func TestSessionCrowCostsLife(t *testing.T) {
	settings := quietSettings()
	settings.CrowSpawner.MinSpawnInterval = 0.1
	settings.CrowSpawner.MaxSpawnInterval = 0.1
	settings.CrowSpawner.SpawnHeight = settings.PlayerStart.Y
	settings.Crow.Speed = 20
	s := newTestSession(t, settings)

	lives := s.Director().Lives()
	for i := 0; i < 40 && s.Director().Lives() == lives; i++ {
		s.Tick(tick, input.Input{})
	}
	if got := s.Director().Lives(); got != lives-1 {
		t.Fatalf("lives = %d after a crow pass, want %d", got, lives-1)
	}
}
