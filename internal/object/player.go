package object

import (
	"github.com/tomz197/balloonpop/internal/draw"
	"github.com/tomz197/balloonpop/internal/physics"
)

// PlayerConfig holds the player's movement tuning.
type PlayerConfig struct {
	MoveSpeed        float64      `yaml:"moveSpeed"`
	JumpForce        float64      `yaml:"jumpForce"`        // Vertical speed set on jump
	ScreenEdgeBuffer float64      `yaml:"screenEdgeBuffer"` // Allowed overshoot past the inner screen bound
	PinSpawnOffset   float64      `yaml:"pinSpawnOffset"`   // Distance above the player where pins appear
	GravityScale     float64      `yaml:"gravityScale"`
	HalfExtent       physics.Vec2 `yaml:"halfExtent"`
}

// DefaultPlayerConfig returns the stock player tuning.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		MoveSpeed:        5,
		JumpForce:        10,
		ScreenEdgeBuffer: 0.5,
		PinSpawnOffset:   0.5,
		GravityScale:     1,
		HalfExtent:       physics.Vec2{X: 0.5, Y: 0.5},
	}
}

// Player is the character walking along the ground, jumping and shooting pins.
type Player struct {
	physics.Body
	Facing Facing
	FlipX  bool
	Intent physics.Vec2 // Last sampled directional input

	// PinPrefab is the template for fired pins. A nil prefab disables shooting.
	PinPrefab *PinConfig

	cfg            PlayerConfig
	keeper         ScoreKeeper
	groundContacts int
}

// NewPlayer creates a player at pos.
func NewPlayer(pos physics.Vec2, cfg PlayerConfig, pinPrefab *PinConfig, keeper ScoreKeeper) *Player {
	return &Player{
		Body: physics.Body{
			Position:     pos,
			GravityScale: cfg.GravityScale,
		},
		Facing:    FacingRight,
		PinPrefab: pinPrefab,
		cfg:       cfg,
		keeper:    keeper,
	}
}

// Grounded reports whether the player is standing on at least one surface.
func (p *Player) Grounded() bool {
	return p.groundContacts > 0
}

// Update samples input, sets the horizontal velocity and handles jump and shoot.
// The host physics step moves the body afterwards.
func (p *Player) Update(ctx UpdateContext) (bool, error) {
	p.Intent = physics.Vec2{}
	if ctx.Input.Up {
		p.Intent.Y = 1
	} else if ctx.Input.Down {
		p.Intent.Y = -1
	}
	if ctx.Input.Right {
		p.Intent.X = 1
	} else if ctx.Input.Left {
		p.Intent.X = -1
	}

	if ctx.Input.Jump && p.Grounded() {
		p.Velocity.Y = p.cfg.JumpForce
		ctx.Play(SoundJump)
	}

	if ctx.Input.Shoot {
		p.shoot(ctx)
	}

	// Horizontal movement only; vertical velocity belongs to gravity
	p.Velocity.X = p.Intent.X * p.cfg.MoveSpeed

	if p.Intent.X > 0 && p.Facing == FacingLeft {
		p.flip()
	} else if p.Intent.X < 0 && p.Facing == FacingRight {
		p.flip()
	}

	return false, nil
}

// shoot spawns a pin slightly above the player.
func (p *Player) shoot(ctx UpdateContext) {
	if p.PinPrefab == nil {
		ctx.Logger().Warn("pin prefab not assigned, shot skipped")
		return
	}
	if ctx.Spawner == nil {
		return
	}

	pos := p.Position.Add(physics.Up.Scale(p.cfg.PinSpawnOffset))
	ctx.Spawner.Spawn(NewPin(pos, *p.PinPrefab))
	ctx.Play(SoundShoot)
}

func (p *Player) flip() {
	if p.Facing == FacingRight {
		p.Facing = FacingLeft
	} else {
		p.Facing = FacingRight
	}
	p.FlipX = !p.FlipX
}

// RigidBody implements Rigid.
func (p *Player) RigidBody() *physics.Body {
	return &p.Body
}

// FootOffset implements Rigid.
func (p *Player) FootOffset() float64 {
	return p.cfg.HalfExtent.Y
}

// AfterPhysics keeps the player inside the view, allowing a small overshoot.
func (p *Player) AfterPhysics(ctx UpdateContext) {
	lo, hi := ctx.View.Min(), ctx.View.Max()
	hw := p.cfg.HalfExtent.X
	buf := p.cfg.ScreenEdgeBuffer
	p.Position.X = physics.Clamp(p.Position.X, lo.X+hw-buf, hi.X-hw+buf)
}

// OnContactBegin counts a new ground contact.
func (p *Player) OnContactBegin(_ UpdateContext, _ Surface) {
	p.groundContacts++
}

// OnContactEnd releases a ground contact.
func (p *Player) OnContactEnd(_ UpdateContext, _ Surface) {
	if p.groundContacts > 0 {
		p.groundContacts--
	}
}

// OnTrigger costs a life when a crow flies into the player.
func (p *Player) OnTrigger(ctx UpdateContext, other Collider) {
	crow, ok := other.(*Crow)
	if !ok || !crow.Strike() {
		return
	}
	ctx.Play(SoundHit)
	Burst{Count: 12, Speed: 5, Lifetime: 0.6, Ink: draw.InkCyan}.Emit(p.Position, ctx)
	if p.keeper != nil {
		p.keeper.LoseLife()
	}
}

// Tag implements Collider.
func (p *Player) Tag() Tag {
	return TagPlayer
}

// Bounds returns the player's bounding box.
func (p *Player) Bounds() physics.AABB {
	return physics.AABB{Center: p.Position, Half: p.cfg.HalfExtent}
}

// Draw renders the player as a round head over a body with a pin-holding arm.
func (p *Player) Draw(ctx DrawContext) error {
	center := ctx.Point(p.Position)
	rx, ry := ctx.Size(p.cfg.HalfExtent)

	// Body
	ctx.Canvas.SetPen(draw.InkCyan)
	ctx.Canvas.FillRect(
		draw.Point{X: center.X - rx*0.6, Y: center.Y - ry*0.2},
		draw.Point{X: center.X + rx*0.6, Y: center.Y + ry},
	)
	// Head
	ctx.Canvas.SetPen(draw.InkYellow)
	ctx.Canvas.DrawEllipse(draw.Point{X: center.X, Y: center.Y - ry*0.6}, rx*0.45, ry*0.4, true)

	// Arm raised on the facing side
	side := 1.0
	if p.Facing == FacingLeft {
		side = -1.0
	}
	shoulder := draw.Point{X: center.X + side*rx*0.6, Y: center.Y}
	hand := draw.Point{X: center.X + side*rx, Y: center.Y - ry*0.9}
	ctx.Canvas.DrawLine(shoulder, hand)
	return nil
}
