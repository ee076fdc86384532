package physics

// Gravity is the downward acceleration applied to bodies with GravityScale 1.
const Gravity = -9.81

// Body is a point mass moved by the host physics step.
// Objects set the velocity components they own and leave the rest to Step.
type Body struct {
	Position     Vec2
	Velocity     Vec2
	GravityScale float64
}

// Step applies gravity and integrates velocity into position over dt seconds.
func (b *Body) Step(dt float64) {
	b.Velocity.Y += Gravity * b.GravityScale * dt
	b.Position = b.Position.Add(b.Velocity.Scale(dt))
}

// LandOn resolves penetration into a horizontal surface at height top.
// halfHeight is the distance from the body's position to its feet.
// Returns true if the body is resting on the surface after resolution.
func (b *Body) LandOn(top, halfHeight float64) bool {
	feet := b.Position.Y - halfHeight
	if feet > top {
		return false
	}
	b.Position.Y = top + halfHeight
	if b.Velocity.Y < 0 {
		b.Velocity.Y = 0
	}
	return true
}
