package object

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/balloonpop/internal/draw"
	"github.com/tomz197/balloonpop/internal/input"
	"github.com/tomz197/balloonpop/internal/physics"
)

// Spawner queues objects created during a tick.
type Spawner interface {
	Spawn(obj Object)
}

type Input = input.Input

// UpdateContext is handed to every object once per tick.
type UpdateContext struct {
	Delta   time.Duration
	Now     float64 // Game clock in seconds, advanced once per tick
	Input   Input
	View    Viewport
	Spawner Spawner
	Rand    *rand.Rand
	Sound   SoundPlayer // nil disables sound effects
	Log     *log.Logger
}

// Seconds returns the tick delta in seconds.
func (c UpdateContext) Seconds() float64 {
	return c.Delta.Seconds()
}

// Float64 returns a uniform random number in [0, 1).
func (c UpdateContext) Float64() float64 {
	if c.Rand != nil {
		return c.Rand.Float64()
	}
	return rand.Float64()
}

// Range returns a uniform random number in [lo, hi).
func (c UpdateContext) Range(lo, hi float64) float64 {
	return lo + c.Float64()*(hi-lo)
}

// Play plays a sound effect if a sound player is attached.
func (c UpdateContext) Play(s Sound) {
	if c.Sound != nil {
		c.Sound.Play(s)
	}
}

// Logger returns the context logger, falling back to the default logger.
func (c UpdateContext) Logger() *log.Logger {
	if c.Log != nil {
		return c.Log
	}
	return log.Default()
}

// DrawContext maps the world onto one client's canvas.
type DrawContext struct {
	Canvas *draw.Canvas
	View   Viewport // World area shown on the canvas
}

// Point converts a world position to canvas logical coordinates.
func (c DrawContext) Point(p physics.Vec2) draw.Point {
	v := c.View.WorldToViewport(p)
	return draw.Point{
		X: v.X * c.Canvas.LogicalWidth(),
		Y: (1 - v.Y) * c.Canvas.LogicalHeight(),
	}
}

// Size converts world half-extents to canvas logical half-extents.
func (c DrawContext) Size(half physics.Vec2) (rx, ry float64) {
	size := c.View.Size()
	return half.X / size.X * c.Canvas.LogicalWidth(), half.Y / size.Y * c.Canvas.LogicalHeight()
}

// Object is anything living in a scene.
type Object interface {
	// Update advances the object by ctx.Delta. remove drops it from the scene.
	Update(ctx UpdateContext) (remove bool, err error)

	// Draw draws the object onto ctx.Canvas.
	Draw(ctx DrawContext) error
}

// Destructible objects can be killed by other objects mid-tick.
type Destructible interface {
	// MarkDestroyed marks the object for removal at the end of the tick.
	MarkDestroyed()
	IsDestroyed() bool
}

// Releasable objects come from a sync.Pool.
type Releasable interface {
	Release()
}

// ReleaseObject returns pooled objects to their pool and ignores the rest.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// Despawner is notified once by the host after the object has been removed.
type Despawner interface {
	Despawned(ctx UpdateContext)
}

// Tag identifies the category of a collider for contact filtering.
type Tag int

const (
	TagNone Tag = iota
	TagPlayer
	TagPin
	TagBalloon
	TagCrow
)

func (t Tag) String() string {
	switch t {
	case TagPlayer:
		return "Player"
	case TagPin:
		return "Pin"
	case TagBalloon:
		return "Balloon"
	case TagCrow:
		return "Crow"
	default:
		return "None"
	}
}

// Collider is an object that takes part in trigger contacts.
type Collider interface {
	Object
	Tag() Tag
	Bounds() physics.AABB
}

// TriggerReceiver is notified when a trigger contact with another collider begins.
type TriggerReceiver interface {
	OnTrigger(ctx UpdateContext, other Collider)
}

// Surface is a solid horizontal platform the host resolves rigid bodies against.
type Surface struct {
	Top  float64 `yaml:"top"`
	MinX float64 `yaml:"minX"`
	MaxX float64 `yaml:"maxX"`
}

// Rigid is an object moved by the host physics step.
type Rigid interface {
	Object
	RigidBody() *physics.Body
	// FootOffset is the distance from the body's position down to its feet.
	FootOffset() float64
	// AfterPhysics runs after the physics step (position constraints).
	AfterPhysics(ctx UpdateContext)
}

// ContactReceiver is notified when solid contact with a surface begins or ends.
type ContactReceiver interface {
	OnContactBegin(ctx UpdateContext, s Surface)
	OnContactEnd(ctx UpdateContext, s Surface)
}

// ScoreKeeper receives gameplay outcomes from entities.
type ScoreKeeper interface {
	BalloonPopped(size float64)
	BalloonEscaped()
	LoseLife()
}

// Facing is the horizontal direction a sprite is looking.
type Facing int

const (
	FacingRight Facing = iota
	FacingLeft
)

// Sound identifies a sound effect.
type Sound int

const (
	SoundPop Sound = iota
	SoundShoot
	SoundJump
	SoundHit
	SoundWin
	SoundLose
)

// SoundPlayer plays sound effects. Implementations must not block.
type SoundPlayer interface {
	Play(s Sound)
}
