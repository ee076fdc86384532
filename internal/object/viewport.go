// Package object implements the game entities and the contract between them
// and the host loop that ticks, collides and draws them.
package object

import "github.com/tomz197/balloonpop/internal/physics"

// Viewport is the visible world area of an orthographic camera.
// Viewport coordinates run from (0,0) at the bottom-left to (1,1) at the top-right.
type Viewport struct {
	Center     physics.Vec2 `yaml:"center"`
	HalfHeight float64      `yaml:"halfHeight"` // Orthographic size
	Aspect     float64      `yaml:"aspect"`     // Width / height
}

// Size returns the full width and height of the visible area.
func (v Viewport) Size() physics.Vec2 {
	return physics.Vec2{X: 2 * v.HalfHeight * v.Aspect, Y: 2 * v.HalfHeight}
}

// Min returns the bottom-left corner in world space.
func (v Viewport) Min() physics.Vec2 {
	return v.ViewportToWorld(physics.Vec2{X: 0, Y: 0})
}

// Max returns the top-right corner in world space.
func (v Viewport) Max() physics.Vec2 {
	return v.ViewportToWorld(physics.Vec2{X: 1, Y: 1})
}

// ViewportToWorld converts viewport coordinates to a world position.
func (v Viewport) ViewportToWorld(p physics.Vec2) physics.Vec2 {
	size := v.Size()
	return physics.Vec2{
		X: v.Center.X + (p.X-0.5)*size.X,
		Y: v.Center.Y + (p.Y-0.5)*size.Y,
	}
}

// WorldToViewport converts a world position to viewport coordinates.
func (v Viewport) WorldToViewport(p physics.Vec2) physics.Vec2 {
	size := v.Size()
	if size.X == 0 || size.Y == 0 {
		return physics.Vec2{}
	}
	return physics.Vec2{
		X: (p.X-v.Center.X)/size.X + 0.5,
		Y: (p.Y-v.Center.Y)/size.Y + 0.5,
	}
}
