package game

import (
	"github.com/tomz197/balloonpop/internal/object"
	"github.com/tomz197/balloonpop/internal/physics"
)

// gridCellSize is the broad-phase cell edge in world units.
const gridCellSize = 2.0

// landTolerance lets a resting body sink slightly under a surface between
// ticks and still count as standing on it.
const landTolerance = 0.25

// isDestroyed reports whether obj has been marked for removal.
func isDestroyed(obj object.Object) bool {
	d, ok := obj.(object.Destructible)
	return ok && d.IsDestroyed()
}

// contactKey is one rigid object touching one ground surface.
type contactKey struct {
	obj     object.Object
	surface int
}

// contactTracker integrates rigid bodies, resolves them against the ground
// and emits begin/end notifications when a contact set changes.
type contactTracker struct {
	prev map[contactKey]struct{}
	cur  map[contactKey]struct{}
}

func newContactTracker() *contactTracker {
	return &contactTracker{
		prev: make(map[contactKey]struct{}),
		cur:  make(map[contactKey]struct{}),
	}
}

func (t *contactTracker) reset() {
	clear(t.prev)
	clear(t.cur)
}

// forget drops contacts of a removed object without notifying it.
func (t *contactTracker) forget(obj object.Object) {
	for k := range t.prev {
		if k.obj == obj {
			delete(t.prev, k)
		}
	}
}

func (t *contactTracker) step(ctx object.UpdateContext, objects []object.Object, ground []object.Surface) {
	clear(t.cur)

	for _, obj := range objects {
		r, ok := obj.(object.Rigid)
		if !ok || isDestroyed(obj) {
			continue
		}

		body := r.RigidBody()
		foot := r.FootOffset()
		prevFeet := body.Position.Y - foot
		body.Step(ctx.Seconds())

		for i, g := range ground {
			if body.Position.X < g.MinX || body.Position.X > g.MaxX {
				continue
			}
			// Only land from above
			if prevFeet < g.Top-landTolerance {
				continue
			}
			if body.LandOn(g.Top, foot) {
				key := contactKey{obj: obj, surface: i}
				t.cur[key] = struct{}{}
				if _, had := t.prev[key]; !had {
					if cr, ok := obj.(object.ContactReceiver); ok {
						cr.OnContactBegin(ctx, g)
					}
				}
			}
		}

		r.AfterPhysics(ctx)
	}

	for key := range t.prev {
		if _, still := t.cur[key]; still {
			continue
		}
		if cr, ok := key.obj.(object.ContactReceiver); ok && key.surface < len(ground) {
			cr.OnContactEnd(ctx, ground[key.surface])
		}
	}

	t.prev, t.cur = t.cur, t.prev
}

// triggerPair is an ordered pair of overlapping colliders.
type triggerPair struct {
	a, b object.Collider
}

// triggerTracker finds overlapping colliders each tick and notifies both
// sides when an overlap begins.
type triggerTracker struct {
	grid *physics.SpatialGrid
	prev map[triggerPair]struct{}
	cur  map[triggerPair]struct{}

	// Reusable per-tick buffers
	balloons []object.Collider
	pins     []object.Collider
	players  []object.Collider
	crows    []object.Collider
}

func newTriggerTracker(view object.Viewport) *triggerTracker {
	margin := physics.Vec2{X: gridCellSize, Y: gridCellSize}
	return &triggerTracker{
		grid: physics.NewSpatialGrid(view.Min().Sub(margin), view.Max().Add(margin), gridCellSize),
		prev: make(map[triggerPair]struct{}),
		cur:  make(map[triggerPair]struct{}),
	}
}

func (t *triggerTracker) reset() {
	clear(t.prev)
	clear(t.cur)
}

// forget drops pairs involving a removed object.
func (t *triggerTracker) forget(obj object.Object) {
	for k := range t.prev {
		if object.Object(k.a) == obj || object.Object(k.b) == obj {
			delete(t.prev, k)
		}
	}
}

func (t *triggerTracker) step(ctx object.UpdateContext, objects []object.Object) {
	clear(t.cur)
	t.grid.Clear()
	t.balloons = t.balloons[:0]
	t.pins = t.pins[:0]
	t.players = t.players[:0]
	t.crows = t.crows[:0]

	for _, obj := range objects {
		c, ok := obj.(object.Collider)
		if !ok || isDestroyed(obj) {
			continue
		}
		switch c.Tag() {
		case object.TagBalloon:
			t.grid.Insert(c.Bounds(), len(t.balloons))
			t.balloons = append(t.balloons, c)
		case object.TagPin:
			t.pins = append(t.pins, c)
		case object.TagPlayer:
			t.players = append(t.players, c)
		case object.TagCrow:
			t.crows = append(t.crows, c)
		}
	}

	// Pins against balloons, broad phase through the grid.
	// A pin is gone after its first balloon, so it pops at most one.
	for _, pin := range t.pins {
		bounds := pin.Bounds()
		t.grid.Query(bounds, func(i int) bool {
			balloon := t.balloons[i]
			if isDestroyed(balloon) || !bounds.Overlaps(balloon.Bounds()) {
				return false
			}
			t.touch(ctx, pin, balloon)
			return isDestroyed(pin)
		})
	}

	// Players against crows
	for _, player := range t.players {
		bounds := player.Bounds()
		for _, crow := range t.crows {
			if isDestroyed(crow) || !bounds.Overlaps(crow.Bounds()) {
				continue
			}
			t.touch(ctx, player, crow)
		}
	}

	t.prev, t.cur = t.cur, t.prev
}

// touch records an overlap and notifies both colliders if it is new.
func (t *triggerTracker) touch(ctx object.UpdateContext, a, b object.Collider) {
	key := triggerPair{a: a, b: b}
	t.cur[key] = struct{}{}
	if _, seen := t.prev[key]; seen {
		return
	}

	if r, ok := a.(object.TriggerReceiver); ok {
		r.OnTrigger(ctx, b)
	}
	if r, ok := b.(object.TriggerReceiver); ok {
		r.OnTrigger(ctx, a)
	}
}
