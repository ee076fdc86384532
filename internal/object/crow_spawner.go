package object

import "github.com/tomz197/balloonpop/internal/physics"

// CrowSpawnerConfig controls when and where crows appear.
type CrowSpawnerConfig struct {
	MinSpawnInterval float64 `yaml:"minSpawnInterval"`
	MaxSpawnInterval float64 `yaml:"maxSpawnInterval"`
	SpawnHeight      float64 `yaml:"spawnHeight"`  // World Y of the flight path
	SpawnOffsetX     float64 `yaml:"spawnOffsetX"` // Distance outside the screen edge
}

// DefaultCrowSpawnerConfig returns the stock spawner settings.
func DefaultCrowSpawnerConfig() CrowSpawnerConfig {
	return CrowSpawnerConfig{
		MinSpawnInterval: 5,
		MaxSpawnInterval: 12,
		SpawnHeight:      0,
		SpawnOffsetX:     1,
	}
}

// SpawnerState is the crow spawner's phase.
type SpawnerState int

const (
	SpawnerIdle   SpawnerState = iota // No live crow, waiting for the next spawn time
	SpawnerActive                     // One crow in flight
)

// CrowSpawner keeps at most one crow in flight, waiting a random delay
// after each crow leaves before sending the next one.
type CrowSpawner struct {
	// CrowPrefab is the template for spawned crows. A nil prefab skips spawns.
	CrowPrefab *CrowConfig

	cfg       CrowSpawnerConfig
	current   *Crow
	nextSpawn float64
	started   bool
}

// NewCrowSpawner creates a spawner using prefab for its crows.
func NewCrowSpawner(cfg CrowSpawnerConfig, prefab *CrowConfig) *CrowSpawner {
	return &CrowSpawner{
		CrowPrefab: prefab,
		cfg:        cfg,
	}
}

// State reports whether a crow is currently in flight.
func (s *CrowSpawner) State() SpawnerState {
	if s.current != nil {
		return SpawnerActive
	}
	return SpawnerIdle
}

// Current returns the crow in flight, or nil.
func (s *CrowSpawner) Current() *Crow {
	return s.current
}

// NextSpawn returns the game time at which the next crow may spawn.
func (s *CrowSpawner) NextSpawn() float64 {
	return s.nextSpawn
}

// Update schedules the first spawn and releases a crow when it is due.
func (s *CrowSpawner) Update(ctx UpdateContext) (bool, error) {
	if !s.started {
		s.started = true
		s.schedule(ctx)
	}

	if s.current == nil && ctx.Now >= s.nextSpawn {
		s.spawn(ctx)
	}
	return false, nil
}

// Draw is a no-op; spawner is not visible.
func (s *CrowSpawner) Draw(_ DrawContext) error {
	return nil
}

func (s *CrowSpawner) spawn(ctx UpdateContext) {
	if s.CrowPrefab == nil {
		ctx.Logger().Warn("crow prefab not assigned, spawn skipped")
		s.schedule(ctx)
		return
	}
	if ctx.Spawner == nil {
		return
	}

	fromLeft := ctx.Float64() > 0.5
	lo, hi := ctx.View.Min(), ctx.View.Max()

	var pos physics.Vec2
	if fromLeft {
		pos = physics.Vec2{X: lo.X - s.cfg.SpawnOffsetX, Y: s.cfg.SpawnHeight}
	} else {
		pos = physics.Vec2{X: hi.X + s.cfg.SpawnOffsetX, Y: s.cfg.SpawnHeight}
	}

	crow := NewCrow(pos, *s.CrowPrefab, fromLeft)
	crow.OnDespawn(s.handleDespawn)
	s.current = crow
	ctx.Spawner.Spawn(crow)

	ctx.Logger().Debug("crow spawned", "fromLeft", fromLeft)
}

// handleDespawn frees the slot and schedules the next crow.
func (s *CrowSpawner) handleDespawn(ctx UpdateContext) {
	s.current = nil
	s.schedule(ctx)
}

func (s *CrowSpawner) schedule(ctx UpdateContext) {
	s.nextSpawn = ctx.Now + ctx.Range(s.cfg.MinSpawnInterval, s.cfg.MaxSpawnInterval)
}
