package object

import (
	"math"

	"github.com/tomz197/balloonpop/internal/draw"
	"github.com/tomz197/balloonpop/internal/physics"
)

// CrowConfig is the crow prefab.
type CrowConfig struct {
	Speed         float64      `yaml:"speed"`
	DespawnMargin float64      `yaml:"despawnMargin"` // Viewport X distance past either edge before removal
	HalfExtent    physics.Vec2 `yaml:"halfExtent"`
}

// DefaultCrowConfig returns the stock crow prefab.
func DefaultCrowConfig() CrowConfig {
	return CrowConfig{
		Speed:         3,
		DespawnMargin: 0.2,
		HalfExtent:    physics.Vec2{X: 0.5, Y: 0.3},
	}
}

// Crow flies horizontally across the screen and removes itself once it has left.
type Crow struct {
	Position    physics.Vec2
	MovingRight bool
	FlipX       bool // Sprite faces right by default

	cfg       CrowConfig
	onDespawn func(ctx UpdateContext)
	flap      float64
	destroyed bool
	notified  bool
	struck    bool
}

// NewCrow creates a crow at pos heading in the given direction.
func NewCrow(pos physics.Vec2, cfg CrowConfig, movingRight bool) *Crow {
	c := &Crow{
		Position: pos,
		cfg:      cfg,
	}
	c.SetDirection(movingRight)
	return c
}

// SetDirection sets the flight direction and mirrors the sprite to match.
func (c *Crow) SetDirection(movingRight bool) {
	c.MovingRight = movingRight
	c.FlipX = !movingRight
}

// OnDespawn registers the observer notified once when the crow is removed.
func (c *Crow) OnDespawn(fn func(ctx UpdateContext)) {
	c.onDespawn = fn
}

// Strike records a hit on the player. Returns false if this crow already hit.
func (c *Crow) Strike() bool {
	if c.struck {
		return false
	}
	c.struck = true
	return true
}

// Update moves the crow and removes it once it is past the view edge margin.
func (c *Crow) Update(ctx UpdateContext) (bool, error) {
	if c.destroyed {
		return true, nil
	}

	dt := ctx.Seconds()
	dir := 1.0
	if !c.MovingRight {
		dir = -1.0
	}
	c.Position.X += dir * c.cfg.Speed * dt
	c.flap += dt

	vx := ctx.View.WorldToViewport(c.Position).X
	if vx < -c.cfg.DespawnMargin || vx > 1+c.cfg.DespawnMargin {
		c.destroyed = true
		return true, nil
	}
	return false, nil
}

// Despawned notifies the observer. Only the first call has an effect.
func (c *Crow) Despawned(ctx UpdateContext) {
	if c.notified {
		return
	}
	c.notified = true
	if c.onDespawn != nil {
		c.onDespawn(ctx)
	}
}

// Tag implements Collider.
func (c *Crow) Tag() Tag {
	return TagCrow
}

// Bounds returns the crow's bounding box.
func (c *Crow) Bounds() physics.AABB {
	return physics.AABB{Center: c.Position, Half: c.cfg.HalfExtent}
}

// MarkDestroyed marks the crow for removal.
func (c *Crow) MarkDestroyed() {
	c.destroyed = true
}

// IsDestroyed returns true if the crow is marked for removal.
func (c *Crow) IsDestroyed() bool {
	return c.destroyed
}

// Draw renders the crow as a body with flapping wings and a beak.
func (c *Crow) Draw(ctx DrawContext) error {
	center := ctx.Point(c.Position)
	rx, ry := ctx.Size(c.cfg.HalfExtent)

	ctx.Canvas.SetPen(draw.InkGray)
	ctx.Canvas.DrawEllipse(center, rx*0.5, ry*0.45, true)

	// Wings alternate between up and down strokes
	wingY := center.Y - ry
	if math.Sin(c.flap*12) < 0 {
		wingY = center.Y + ry
	}
	ctx.Canvas.DrawLine(draw.Point{X: center.X - rx*0.2, Y: center.Y}, draw.Point{X: center.X - rx, Y: wingY})
	ctx.Canvas.DrawLine(draw.Point{X: center.X + rx*0.2, Y: center.Y}, draw.Point{X: center.X + rx*0.4, Y: wingY})

	beak := 1.0
	if c.FlipX {
		beak = -1.0
	}
	ctx.Canvas.SetPen(draw.InkYellow)
	ctx.Canvas.DrawLine(
		draw.Point{X: center.X + beak*rx*0.5, Y: center.Y},
		draw.Point{X: center.X + beak*rx, Y: center.Y + ry*0.2},
	)
	return nil
}
