package physics

import "math"

// SpatialGrid is a uniform broad-phase grid over a bounded rectangle of the world.
// Items are inserted by their bounding box into every cell the box covers, so
// boxes of any size are found by a query over an overlapping box.
// Boxes reaching outside the rectangle are clamped into the border cells.
type SpatialGrid struct {
	origin     Vec2
	invCell    float64
	cols, rows int
	cells      [][]int

	// Per-item stamp of the last query that reported it
	seen  []uint32
	stamp uint32
}

// NewSpatialGrid creates a grid covering the rectangle [min, max].
func NewSpatialGrid(min, max Vec2, cellSize float64) *SpatialGrid {
	cols := max1(int(math.Ceil((max.X - min.X) / cellSize)))
	rows := max1(int(math.Ceil((max.Y - min.Y) / cellSize)))
	return &SpatialGrid{
		origin:  min,
		invCell: 1 / cellSize,
		cols:    cols,
		rows:    rows,
		cells:   make([][]int, cols*rows),
	}
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// Clear removes all items, keeping cell storage for reuse.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds item index covering box.
func (g *SpatialGrid) Insert(box AABB, index int) {
	c0, r0, c1, r1 := g.span(box)
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			i := r*g.cols + c
			g.cells[i] = append(g.cells[i], index)
		}
	}
}

// Query calls fn once for every item sharing a cell with box.
// Iteration stops early when fn returns true.
func (g *SpatialGrid) Query(box AABB, fn func(index int) bool) {
	g.stamp++
	if g.stamp == 0 {
		clear(g.seen)
		g.stamp = 1
	}

	c0, r0, c1, r1 := g.span(box)
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			for _, item := range g.cells[r*g.cols+c] {
				if item >= len(g.seen) {
					g.seen = append(g.seen, make([]uint32, item+1-len(g.seen))...)
				}
				if g.seen[item] == g.stamp {
					continue
				}
				g.seen[item] = g.stamp
				if fn(item) {
					return
				}
			}
		}
	}
}

// span returns the inclusive cell range covered by box.
func (g *SpatialGrid) span(box AABB) (c0, r0, c1, r1 int) {
	c0, r0 = g.cellAt(box.Min())
	c1, r1 = g.cellAt(box.Max())
	return
}

func (g *SpatialGrid) cellAt(p Vec2) (col, row int) {
	col = int(math.Floor((p.X - g.origin.X) * g.invCell))
	row = int(math.Floor((p.Y - g.origin.Y) * g.invCell))
	return min(max(col, 0), g.cols-1), min(max(row, 0), g.rows-1)
}
