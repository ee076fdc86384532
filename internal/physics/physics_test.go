package physics

import (
	"math"
	"sort"
	"testing"
)

func TestAABBOverlaps(t *testing.T) {
	a := AABB{Center: Vec2{X: 0, Y: 0}, Half: Vec2{X: 1, Y: 1}}
	cases := []struct {
		name string
		b    AABB
		want bool
	}{
		{"same", a, true},
		{"inside", AABB{Center: Vec2{X: 0.5, Y: 0.5}, Half: Vec2{X: 0.1, Y: 0.1}}, true},
		{"overlap x and y", AABB{Center: Vec2{X: 1.5, Y: 1.5}, Half: Vec2{X: 1, Y: 1}}, true},
		{"touching edge", AABB{Center: Vec2{X: 2, Y: 0}, Half: Vec2{X: 1, Y: 1}}, false},
		{"separated on y", AABB{Center: Vec2{X: 0, Y: 3}, Half: Vec2{X: 1, Y: 1}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.Overlaps(tc.b); got != tc.want {
				t.Fatalf("Overlaps = %v, want %v", got, tc.want)
			}
			if got := tc.b.Overlaps(a); got != tc.want {
				t.Fatalf("Overlaps not symmetric: %v", got)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(-2, -1, 1); got != -1 {
		t.Errorf("Clamp low = %v", got)
	}
	if got := Clamp(2, -1, 1); got != 1 {
		t.Errorf("Clamp high = %v", got)
	}
	if got := Clamp(0.25, -1, 1); got != 0.25 {
		t.Errorf("Clamp mid = %v", got)
	}
}

func TestVec2Normalized(t *testing.T) {
	n := Vec2{X: 3, Y: 4}.Normalized()
	if math.Abs(n.X-0.6) > 1e-12 || math.Abs(n.Y-0.8) > 1e-12 {
		t.Fatalf("Normalized = %+v", n)
	}
	if z := (Vec2{}).Normalized(); z != (Vec2{}) {
		t.Fatalf("zero vector normalized to %+v", z)
	}
}

func TestBodyStepAndLand(t *testing.T) {
	b := Body{Position: Vec2{X: 0, Y: 1}, GravityScale: 1}
	for i := 0; i < 120; i++ {
		b.Step(1.0 / 60)
		b.LandOn(0, 0.5)
	}
	if b.Position.Y != 0.5 {
		t.Fatalf("body should rest on surface, y=%v", b.Position.Y)
	}
	if b.Velocity.Y != 0 {
		t.Fatalf("resting body has vertical velocity %v", b.Velocity.Y)
	}

	b.Velocity.Y = 5
	b.Step(0.1)
	if b.LandOn(0, 0.5) {
		t.Fatalf("body moving up should have left the surface")
	}
}

func box(x, y, half float64) AABB {
	return AABB{Center: Vec2{X: x, Y: y}, Half: Vec2{X: half, Y: half}}
}

func TestSpatialGridQuery(t *testing.T) {
	g := NewSpatialGrid(Vec2{X: -10, Y: -5}, Vec2{X: 10, Y: 5}, 4)
	boxes := []AABB{
		box(-9, -4, 0.5), // 0: bottom-left cell
		box(-7, -4, 0.5), // 1: same cell as 0
		box(9, 4, 0.5),   // 2: far corner
		box(-50, 0, 1),   // 3: outside, clamped into the left column
		box(0, 0, 6),     // 4: large, spans most of the grid
	}
	for i, b := range boxes {
		g.Insert(b, i)
	}

	var found []int
	g.Query(box(-7, -4, 1.5), func(i int) bool {
		found = append(found, i)
		return false
	})
	sort.Ints(found)
	want := []int{0, 1, 4}
	if len(found) != len(want) {
		t.Fatalf("found %v, want %v", found, want)
	}
	for i := range want {
		if found[i] != want[i] {
			t.Fatalf("found %v, want %v", found, want)
		}
	}

	// A query spanning many cells reports each item once
	counts := map[int]int{}
	g.Query(box(0, 0, 10), func(i int) bool {
		counts[i]++
		return false
	})
	if len(counts) != len(boxes) {
		t.Fatalf("wide query found %v, want all %d boxes", counts, len(boxes))
	}
	for i, n := range counts {
		if n != 1 {
			t.Fatalf("item %d reported %d times", i, n)
		}
	}

	calls := 0
	g.Query(box(-7, -4, 1.5), func(int) bool {
		calls++
		return true
	})
	if calls != 1 {
		t.Fatalf("early stop ignored, %d calls", calls)
	}

	g.Clear()
	g.Query(box(0, 0, 10), func(i int) bool {
		t.Fatalf("grid not cleared, found %d", i)
		return false
	})
}
