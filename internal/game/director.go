package game

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/tomz197/balloonpop/internal/object"
	"github.com/tomz197/balloonpop/internal/physics"
)

// DirectorConfig holds the round rules and the balloon spawn settings.
type DirectorConfig struct {
	Lives              int          `yaml:"lives"`
	BalloonsToWin      int          `yaml:"balloonsToWin"`
	BasePoints         int          `yaml:"basePoints"`
	BonusPointsPerSize int          `yaml:"bonusPointsPerSize"`
	SpawnInterval      float64      `yaml:"spawnInterval"` // Seconds between balloon spawns
	SpawnAreaMin       physics.Vec2 `yaml:"spawnAreaMin"`
	SpawnAreaMax       physics.Vec2 `yaml:"spawnAreaMax"`
	RestartDelay       float64      `yaml:"restartDelay"` // Seconds from win/lose to scene restart
}

// DefaultDirectorConfig returns the stock round rules.
func DefaultDirectorConfig() DirectorConfig {
	return DirectorConfig{
		Lives:              3,
		BalloonsToWin:      10,
		BasePoints:         100,
		BonusPointsPerSize: 50,
		SpawnInterval:      3,
		SpawnAreaMin:       physics.Vec2{X: -8, Y: 3},
		SpawnAreaMax:       physics.Vec2{X: 8, Y: 5},
		RestartDelay:       2,
	}
}

// Outcome is the result of a round.
type Outcome int

const (
	OutcomePlaying Outcome = iota
	OutcomeWon
	OutcomeLost
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	default:
		return "playing"
	}
}

// Director owns the round state: lives, score, popped balloons, the balloon
// spawn timer and the win/lose decision.
type Director struct {
	// BalloonPrefab is the template for spawned balloons. A nil prefab skips spawns.
	BalloonPrefab *object.BalloonConfig
	Sound         object.SoundPlayer
	// OnRestart runs when the restart delay after an outcome has elapsed.
	OnRestart func()
	// OnRoundEnd is called once when the round is won or lost.
	OnRoundEnd func(outcome Outcome, score int)

	cfg        DirectorConfig
	sched      *Scheduler
	logger     *log.Logger
	lives      int
	score      int
	popped     int
	spawnTimer float64
	outcome    Outcome
	restartAt  float64
}

// NewDirector creates a director for a fresh round.
func NewDirector(cfg DirectorConfig, sched *Scheduler, logger *log.Logger) *Director {
	if logger == nil {
		logger = log.Default()
	}
	return &Director{
		cfg:        cfg,
		sched:      sched,
		logger:     logger,
		lives:      cfg.Lives,
		spawnTimer: cfg.SpawnInterval,
	}
}

// Lives returns the remaining lives.
func (d *Director) Lives() int { return d.lives }

// Score returns the current score.
func (d *Director) Score() int { return d.score }

// BalloonsPopped returns the number of balloons popped this round.
func (d *Director) BalloonsPopped() int { return d.popped }

// Target returns the number of pops needed to win.
func (d *Director) Target() int { return d.cfg.BalloonsToWin }

// Outcome returns the round result so far.
func (d *Director) Outcome() Outcome { return d.outcome }

// RestartIn returns the seconds left until the scene restarts, or 0 while playing.
func (d *Director) RestartIn() float64 {
	if d.outcome == OutcomePlaying {
		return 0
	}
	return math.Max(0, d.restartAt-d.sched.Now())
}

// Points returns the score for popping a balloon of the given size.
// Larger balloons earn a smaller bonus.
func Points(base, bonusPerSize int, size float64) int {
	if size <= 0 {
		size = 1
	}
	return base + int(math.RoundToEven(float64(bonusPerSize)/size))
}

// BalloonPopped records a pop and checks the win condition.
func (d *Director) BalloonPopped(size float64) {
	d.popped++
	points := Points(d.cfg.BasePoints, d.cfg.BonusPointsPerSize, size)
	d.score += points

	d.logger.Info("balloon popped",
		"points", points,
		"size", size,
		"score", d.score,
		"popped", d.popped,
		"target", d.cfg.BalloonsToWin,
	)

	if d.popped >= d.cfg.BalloonsToWin {
		d.finish(OutcomeWon)
	}
}

// BalloonEscaped costs a life.
func (d *Director) BalloonEscaped() {
	d.logger.Info("balloon escaped")
	d.LoseLife()
}

// LoseLife removes a life and ends the round when none are left.
func (d *Director) LoseLife() {
	if d.lives > 0 {
		d.lives--
	}
	d.logger.Info("life lost", "lives", d.lives)

	if d.lives <= 0 {
		d.finish(OutcomeLost)
	}
}

// finish records the first outcome of the round and schedules the restart.
func (d *Director) finish(o Outcome) {
	if d.outcome != OutcomePlaying {
		return
	}
	d.outcome = o

	if o == OutcomeWon {
		d.logger.Info("round won", "score", d.score)
		d.play(object.SoundWin)
	} else {
		d.logger.Info("round lost", "score", d.score)
		d.play(object.SoundLose)
	}

	if d.OnRoundEnd != nil {
		d.OnRoundEnd(o, d.score)
	}

	d.restartAt = d.sched.Now() + d.cfg.RestartDelay
	d.sched.After(d.cfg.RestartDelay, func() {
		if d.OnRestart != nil {
			d.OnRestart()
		}
	})
}

func (d *Director) play(s object.Sound) {
	if d.Sound != nil {
		d.Sound.Play(s)
	}
}

// Update runs the balloon spawn timer. Spawning stops once the round has an outcome.
func (d *Director) Update(ctx object.UpdateContext) (bool, error) {
	if d.outcome != OutcomePlaying {
		return false, nil
	}

	d.spawnTimer -= ctx.Seconds()
	if d.spawnTimer <= 0 {
		d.spawnBalloon(ctx)
		d.spawnTimer = d.cfg.SpawnInterval
	}
	return false, nil
}

// Draw is a no-op; the HUD shows the director state.
func (d *Director) Draw(_ object.DrawContext) error {
	return nil
}

func (d *Director) spawnBalloon(ctx object.UpdateContext) {
	if d.BalloonPrefab == nil {
		d.logger.Warn("balloon prefab not assigned, spawn skipped")
		return
	}
	if ctx.Spawner == nil {
		return
	}

	lo, hi := d.cfg.SpawnAreaMin, d.cfg.SpawnAreaMax
	pos := physics.Vec2{X: ctx.Range(lo.X, hi.X), Y: ctx.Range(lo.Y, hi.Y)}

	cfg := *d.BalloonPrefab
	if cfg.RandomizeDirection {
		if ctx.Float64() < 0.5 {
			cfg.Direction.X = -cfg.Direction.X
		}
		if ctx.Float64() < 0.5 {
			cfg.Direction.Y = -cfg.Direction.Y
		}
	}

	ctx.Spawner.Spawn(object.NewBalloon(pos, cfg, d))
	d.logger.Debug("balloon spawned", "x", pos.X, "y", pos.Y)
}
