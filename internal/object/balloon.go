package object

import (
	"math"

	"github.com/tomz197/balloonpop/internal/draw"
	"github.com/tomz197/balloonpop/internal/physics"
)

// growthEpsilon absorbs float drift from repeated growth steps so a balloon
// that should sit exactly on MaxSize escapes on that step.
const growthEpsilon = 1e-9

// BalloonConfig is the balloon prefab.
type BalloonConfig struct {
	MoveSpeed      float64      `yaml:"moveSpeed"`
	Direction      physics.Vec2 `yaml:"direction"`
	GrowthInterval float64      `yaml:"growthInterval"` // Seconds between growth steps
	GrowthAmount   float64      `yaml:"growthAmount"`   // Scale added per step
	MaxSize        float64      `yaml:"maxSize"`        // Scale at which the balloon escapes
	InitialScale   float64      `yaml:"initialScale"`
	HalfExtent     physics.Vec2 `yaml:"halfExtent"` // Sprite half-extents at scale 1
	// RandomizeDirection mirrors each axis of Direction with probability 1/2 on spawn.
	RandomizeDirection bool `yaml:"randomizeDirection"`
}

// DefaultBalloonConfig returns the stock balloon prefab.
func DefaultBalloonConfig() BalloonConfig {
	return BalloonConfig{
		MoveSpeed:          3,
		Direction:          physics.Vec2{X: 1, Y: 0},
		GrowthInterval:     2,
		GrowthAmount:       0.1,
		MaxSize:            3,
		InitialScale:       1,
		HalfExtent:         physics.Vec2{X: 0.5, Y: 0.6},
		RandomizeDirection: false,
	}
}

// Balloon drifts across the screen, bouncing off the edges and growing until
// it is popped by a pin or escapes by growing too big.
type Balloon struct {
	Position  physics.Vec2
	Direction physics.Vec2 // Unit vector
	Scale     float64
	FlipX     bool

	cfg           BalloonConfig
	keeper        ScoreKeeper
	initialScale  float64
	halfExtent    physics.Vec2
	growthElapsed float64
	growthSteps   int
	destroyed     bool
}

// NewBalloon creates a balloon at pos that reports pops and escapes to keeper.
func NewBalloon(pos physics.Vec2, cfg BalloonConfig, keeper ScoreKeeper) *Balloon {
	scale := cfg.InitialScale
	if scale <= 0 {
		scale = 1
	}
	return &Balloon{
		Position:     pos,
		Direction:    cfg.Direction.Normalized(),
		Scale:        scale,
		cfg:          cfg,
		keeper:       keeper,
		initialScale: scale,
		halfExtent:   cfg.HalfExtent.Scale(scale),
	}
}

// Size returns the current scale relative to the spawn scale (always >= 1).
func (b *Balloon) Size() float64 {
	return b.Scale / b.initialScale
}

// Update moves the balloon, applies growth and bounces it off the screen edges.
func (b *Balloon) Update(ctx UpdateContext) (bool, error) {
	if b.destroyed {
		return true, nil
	}

	dt := ctx.Seconds()
	b.Position = b.Position.Add(b.Direction.Scale(b.cfg.MoveSpeed * dt))

	// Escaping inside a growth step ends the tick for this balloon
	if b.grow(ctx, dt) {
		return true, nil
	}

	b.bounce(ctx.View)
	return false, nil
}

// grow advances the growth timer and applies one step per elapsed interval.
// Returns true if the balloon escaped.
func (b *Balloon) grow(ctx UpdateContext, dt float64) bool {
	if b.cfg.GrowthInterval <= 0 {
		return false
	}

	b.growthElapsed += dt
	for b.growthElapsed >= b.cfg.GrowthInterval {
		b.growthElapsed -= b.cfg.GrowthInterval
		b.growthSteps++
		b.Scale = b.initialScale + float64(b.growthSteps)*b.cfg.GrowthAmount
		b.halfExtent = b.cfg.HalfExtent.Scale(b.Scale)

		if b.Scale >= b.cfg.MaxSize-growthEpsilon {
			b.escape(ctx)
			return true
		}
	}
	return false
}

func (b *Balloon) escape(ctx UpdateContext) {
	b.destroyed = true
	ctx.Logger().Debug("balloon got too big", "scale", b.Scale)
	if b.keeper != nil {
		b.keeper.BalloonEscaped()
	}
}

// bounce clamps the balloon inside the view and points the direction back
// inward on every axis whose edge was crossed.
func (b *Balloon) bounce(view Viewport) {
	lo, hi := view.Min(), view.Max()
	hw, hh := b.halfExtent.X, b.halfExtent.Y

	if b.Position.X-hw <= lo.X {
		b.Direction.X = math.Abs(b.Direction.X)
		b.Position.X = lo.X + hw
		b.FlipX = false
	} else if b.Position.X+hw >= hi.X {
		b.Direction.X = -math.Abs(b.Direction.X)
		b.Position.X = hi.X - hw
		b.FlipX = true
	}

	if b.Position.Y-hh <= lo.Y {
		b.Direction.Y = math.Abs(b.Direction.Y)
		b.Position.Y = lo.Y + hh
	} else if b.Position.Y+hh >= hi.Y {
		b.Direction.Y = -math.Abs(b.Direction.Y)
		b.Position.Y = hi.Y - hh
	}
}

// OnTrigger pops the balloon when a pin touches it.
func (b *Balloon) OnTrigger(ctx UpdateContext, other Collider) {
	if b.destroyed || other.Tag() != TagPin {
		return
	}
	b.destroyed = true

	Burst{Count: 10 + int(b.Size()*6), Speed: 4 * b.Size(), Lifetime: 0.5, Ink: draw.InkRed}.Emit(b.Position, ctx)
	ctx.Play(SoundPop)

	if b.keeper != nil {
		b.keeper.BalloonPopped(b.Size())
	}
}

// Tag implements Collider.
func (b *Balloon) Tag() Tag {
	return TagBalloon
}

// Bounds returns the balloon's current bounding box.
func (b *Balloon) Bounds() physics.AABB {
	return physics.AABB{Center: b.Position, Half: b.halfExtent}
}

// MarkDestroyed marks the balloon for removal (implements Destructible).
func (b *Balloon) MarkDestroyed() {
	b.destroyed = true
}

// IsDestroyed returns true if the balloon is marked for removal (implements Destructible).
func (b *Balloon) IsDestroyed() bool {
	return b.destroyed
}

// Draw renders the balloon as an ellipse with a knot and a trailing string.
func (b *Balloon) Draw(ctx DrawContext) error {
	center := ctx.Point(b.Position)
	rx, ry := ctx.Size(b.halfExtent)

	ctx.Canvas.SetPen(draw.InkRed)
	ctx.Canvas.DrawEllipse(center, rx, ry*0.85, false)

	// Knot at the bottom, string swings toward the trailing side
	knot := draw.Point{X: center.X, Y: center.Y + ry*0.85}
	sway := 1.0
	if b.FlipX {
		sway = -1.0
	}
	tail := draw.Point{X: knot.X - sway*rx*0.3, Y: knot.Y + ry*0.6}
	ctx.Canvas.SetPen(draw.InkWhite)
	ctx.Canvas.DrawLine(knot, tail)
	return nil
}
