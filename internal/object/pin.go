package object

import (
	"github.com/tomz197/balloonpop/internal/draw"
	"github.com/tomz197/balloonpop/internal/physics"
)

// PinConfig is the pin prefab.
type PinConfig struct {
	MoveSpeed  float64      `yaml:"moveSpeed"`
	Lifetime   float64      `yaml:"lifetime"`  // Seconds before the pin removes itself
	TopMargin  float64      `yaml:"topMargin"` // Viewport Y above which the pin is gone
	HalfExtent physics.Vec2 `yaml:"halfExtent"`
}

// DefaultPinConfig returns the stock pin prefab.
func DefaultPinConfig() PinConfig {
	return PinConfig{
		MoveSpeed:  10,
		Lifetime:   5,
		TopMargin:  1.5,
		HalfExtent: physics.Vec2{X: 0.08, Y: 0.3},
	}
}

// Pin flies straight up from the player and pops the first balloon it touches.
type Pin struct {
	Position physics.Vec2
	Age      float64

	cfg     PinConfig
	removed bool
}

// NewPin creates a pin at pos.
func NewPin(pos physics.Vec2, cfg PinConfig) *Pin {
	return &Pin{
		Position: pos,
		cfg:      cfg,
	}
}

// Remove marks the pin as gone. Returns true only for the call that removed it.
func (p *Pin) Remove() bool {
	if p.removed {
		return false
	}
	p.removed = true
	return true
}

// Update moves the pin upward and expires it by age or by leaving the view.
func (p *Pin) Update(ctx UpdateContext) (bool, error) {
	if p.removed {
		return true, nil
	}

	dt := ctx.Seconds()
	p.Position.Y += p.cfg.MoveSpeed * dt
	p.Age += dt

	if p.Age >= p.cfg.Lifetime {
		p.Remove()
		return true, nil
	}

	if ctx.View.WorldToViewport(p.Position).Y > p.cfg.TopMargin {
		p.Remove()
		return true, nil
	}

	return false, nil
}

// OnTrigger removes the pin once it hits a balloon. The balloon does the scoring.
func (p *Pin) OnTrigger(_ UpdateContext, other Collider) {
	if other.Tag() == TagBalloon {
		p.Remove()
	}
}

// Tag implements Collider.
func (p *Pin) Tag() Tag {
	return TagPin
}

// Bounds returns the pin's bounding box.
func (p *Pin) Bounds() physics.AABB {
	return physics.AABB{Center: p.Position, Half: p.cfg.HalfExtent}
}

// MarkDestroyed marks the pin for removal.
func (p *Pin) MarkDestroyed() {
	p.Remove()
}

// IsDestroyed returns true if the pin has been removed.
func (p *Pin) IsDestroyed() bool {
	return p.removed
}

// Draw renders the pin as a short vertical needle.
func (p *Pin) Draw(ctx DrawContext) error {
	top := ctx.Point(p.Position.Add(physics.Vec2{Y: p.cfg.HalfExtent.Y}))
	bottom := ctx.Point(p.Position.Sub(physics.Vec2{Y: p.cfg.HalfExtent.Y}))
	ctx.Canvas.SetPen(draw.InkWhite)
	ctx.Canvas.DrawLine(top, bottom)
	return nil
}
