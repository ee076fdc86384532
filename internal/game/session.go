// Package game runs one scene of Balloon Pop: the object list, the tick
// order, contact passes, the round director and scene restarts.
package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/balloonpop/internal/draw"
	"github.com/tomz197/balloonpop/internal/input"
	"github.com/tomz197/balloonpop/internal/object"
	"github.com/tomz197/balloonpop/internal/physics"
)

// MaxFrameDelta caps a single tick so a stalled terminal doesn't push
// entities through the screen edges.
const MaxFrameDelta = 100 * time.Millisecond

// ErrDirectorExists is returned when a second director is attached to a scene.
var ErrDirectorExists = errors.New("game: scene already has a director")

// Options configures a Session.
type Options struct {
	Settings Settings
	Logger   *log.Logger
	Rand     *rand.Rand         // nil seeds from the clock
	Sound    object.SoundPlayer // nil disables sound effects
	// OnRoundEnd is called once per round with its outcome and final score.
	OnRoundEnd func(outcome Outcome, score int)
}

// Session is a single-player scene. It is not safe for concurrent use;
// one goroutine drives Tick and Draw.
type Session struct {
	opts     Options
	settings Settings
	logger   *log.Logger
	rand     *rand.Rand

	sched    *Scheduler
	objects  []object.Object
	spawned  []object.Object
	director *Director
	player   *object.Player
	crows    *object.CrowSpawner

	// prefabs are per-round copies so entities never alias Settings
	balloonPrefab object.BalloonConfig
	pinPrefab     object.PinConfig
	crowPrefab    object.CrowConfig

	contacts *contactTracker
	triggers *triggerTracker

	restartPending bool
	round          int
}

// NewSession creates a session and starts its first round.
func NewSession(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &Session{
		opts:     opts,
		settings: opts.Settings,
		logger:   logger,
		rand:     rng,
		sched:    NewScheduler(0),
		contacts: newContactTracker(),
		triggers: newTriggerTracker(opts.Settings.View),
	}
	s.reset()
	return s
}

// Spawn queues an object to join the scene after the current pass (implements object.Spawner).
func (s *Session) Spawn(obj object.Object) {
	s.spawned = append(s.spawned, obj)
}

// SetDirector attaches the scene's director. A scene has exactly one; later
// attempts are rejected and the extra director is discarded.
func (s *Session) SetDirector(d *Director) error {
	if s.director != nil {
		s.logger.Warn("director already attached, discarding duplicate")
		return ErrDirectorExists
	}
	s.director = d
	s.objects = append(s.objects, d)
	return nil
}

// reset tears the scene down and builds a fresh round. The game clock carries over.
func (s *Session) reset() {
	for _, obj := range s.objects {
		object.ReleaseObject(obj)
	}
	for _, obj := range s.spawned {
		object.ReleaseObject(obj)
	}
	clear(s.objects)
	clear(s.spawned)
	s.objects = s.objects[:0]
	s.spawned = s.spawned[:0]
	s.contacts.reset()
	s.triggers.reset()

	s.sched = NewScheduler(s.sched.Now())
	s.round++

	cfg := s.settings
	s.balloonPrefab = cfg.Balloon
	s.pinPrefab = cfg.Pin
	s.crowPrefab = cfg.Crow

	s.director = nil
	d := NewDirector(cfg.Director, s.sched, s.logger)
	d.BalloonPrefab = &s.balloonPrefab
	d.Sound = s.opts.Sound
	d.OnRestart = s.requestRestart
	d.OnRoundEnd = s.opts.OnRoundEnd
	// Cannot fail: the previous director was just dropped
	_ = s.SetDirector(d)

	s.player = object.NewPlayer(cfg.PlayerStart, cfg.Player, &s.pinPrefab, d)
	s.crows = object.NewCrowSpawner(cfg.CrowSpawner, &s.crowPrefab)
	s.objects = append(s.objects, s.crows, s.player)

	s.logger.Info("round started", "round", s.round)
}

func (s *Session) requestRestart() {
	s.restartPending = true
}

// Tick advances the scene by dt: timers, entity updates, physics, trigger
// contacts, then removal of destroyed entities.
func (s *Session) Tick(dt time.Duration, in input.Input) error {
	if dt < 0 {
		dt = 0
	}
	if dt > MaxFrameDelta {
		dt = MaxFrameDelta
	}

	s.sched.Advance(dt.Seconds())
	if s.restartPending {
		s.restartPending = false
		s.reset()
	}

	ctx := object.UpdateContext{
		Delta:   dt,
		Now:     s.sched.Now(),
		Input:   in,
		View:    s.settings.View,
		Spawner: s,
		Rand:    s.rand,
		Sound:   s.opts.Sound,
		Log:     s.logger,
	}

	// Update all objects with in-place compaction
	n := 0
	for _, obj := range s.objects {
		remove, err := obj.Update(ctx)
		if err != nil {
			return fmt.Errorf("update %T: %w", obj, err)
		}
		if remove {
			s.remove(ctx, obj)
			continue
		}
		s.objects[n] = obj
		n++
	}
	clear(s.objects[n:])
	s.objects = s.objects[:n]

	s.flushSpawned()

	s.contacts.step(ctx, s.objects, s.settings.Ground)
	s.triggers.step(ctx, s.objects)

	s.sweepDestroyed(ctx)
	s.flushSpawned()
	return nil
}

// flushSpawned moves queued objects into the scene.
func (s *Session) flushSpawned() {
	if len(s.spawned) == 0 {
		return
	}
	s.objects = append(s.objects, s.spawned...)
	clear(s.spawned)
	s.spawned = s.spawned[:0]
}

// sweepDestroyed removes objects marked destroyed during the contact passes.
func (s *Session) sweepDestroyed(ctx object.UpdateContext) {
	n := 0
	for _, obj := range s.objects {
		if d, ok := obj.(object.Destructible); ok && d.IsDestroyed() {
			s.remove(ctx, obj)
			continue
		}
		s.objects[n] = obj
		n++
	}
	clear(s.objects[n:])
	s.objects = s.objects[:n]
}

// remove notifies a departing object and returns pooled objects.
func (s *Session) remove(ctx object.UpdateContext, obj object.Object) {
	if d, ok := obj.(object.Despawner); ok {
		d.Despawned(ctx)
	}
	s.contacts.forget(obj)
	s.triggers.forget(obj)
	object.ReleaseObject(obj)
}

// Draw renders the ground and every object onto c.
func (s *Session) Draw(c *draw.Canvas) error {
	ctx := object.DrawContext{Canvas: c, View: s.settings.View}

	c.SetPen(draw.InkGreen)
	for _, g := range s.settings.Ground {
		left := ctx.Point(physics.Vec2{X: g.MinX, Y: g.Top})
		right := ctx.Point(physics.Vec2{X: g.MaxX, Y: g.Top})
		c.DrawLine(left, right)
	}

	for _, obj := range s.objects {
		if err := obj.Draw(ctx); err != nil {
			return fmt.Errorf("draw %T: %w", obj, err)
		}
	}
	return nil
}

// Director returns the current round's director.
func (s *Session) Director() *Director { return s.director }

// Player returns the current round's player.
func (s *Session) Player() *object.Player { return s.player }

// CrowSpawner returns the current round's crow spawner.
func (s *Session) CrowSpawner() *object.CrowSpawner { return s.crows }

// Objects returns the live objects. The slice is only valid until the next Tick.
func (s *Session) Objects() []object.Object { return s.objects }

// Now returns the game clock in seconds.
func (s *Session) Now() float64 { return s.sched.Now() }

// Round returns the 1-based round number.
func (s *Session) Round() int { return s.round }

// Settings returns the scene settings.
func (s *Session) Settings() Settings { return s.settings }
