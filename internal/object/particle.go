package object

import (
	"math"
	"sync"

	"github.com/tomz197/balloonpop/internal/draw"
	"github.com/tomz197/balloonpop/internal/physics"
)

var particlePool = sync.Pool{
	New: func() any { return &Particle{} },
}

// Particle is a pooled speck of a burst. It falls slowly and fades out.
type Particle struct {
	physics.Body
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64
	Drag        float64 // Velocity kept per 1/60 s
	Ink         draw.Ink
}

// NewParticle takes a particle from the pool.
func NewParticle(pos, vel physics.Vec2, lifetime float64, ink draw.Ink) *Particle {
	p := particlePool.Get().(*Particle)
	*p = Particle{
		Body:        physics.Body{Position: pos, Velocity: vel, GravityScale: 0.3},
		Lifetime:    lifetime,
		MaxLifetime: lifetime,
		Drag:        0.92,
		Ink:         ink,
	}
	return p
}

// Release returns the particle to the pool for reuse.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// Burst describes a ring of particles thrown out from a point.
// Speeds vary from 50% to 150% of Speed, lifetimes from 50% to 100% of Lifetime.
type Burst struct {
	Count    int
	Speed    float64
	Lifetime float64
	Ink      draw.Ink
}

// Emit spawns the burst at pos.
func (b Burst) Emit(pos physics.Vec2, ctx UpdateContext) {
	if ctx.Spawner == nil {
		return
	}
	for range b.Count {
		sin, cos := math.Sincos(ctx.Float64() * 2 * math.Pi)
		speed := b.Speed * (0.5 + ctx.Float64())
		life := b.Lifetime * (0.5 + ctx.Float64()*0.5)
		vel := physics.Vec2{X: cos * speed, Y: sin * speed}
		ctx.Spawner.Spawn(NewParticle(pos, vel, life, b.Ink))
	}
}

// Update moves the particle and checks lifetime.
func (p *Particle) Update(ctx UpdateContext) (bool, error) {
	dt := ctx.Seconds()
	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true, nil
	}
	p.Velocity = p.Velocity.Scale(math.Pow(p.Drag, dt*60))
	p.Step(dt)
	return false, nil
}

// Draw plots the particle until its last quarter of life.
func (p *Particle) Draw(ctx DrawContext) error {
	if p.MaxLifetime > 0 && p.Lifetime < p.MaxLifetime/4 {
		return nil
	}
	pt := ctx.Point(p.Position)
	ctx.Canvas.SetPen(p.Ink)
	ctx.Canvas.SetFloat(pt.X, pt.Y)
	return nil
}
