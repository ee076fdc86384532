package draw

import (
	"math"
	"slices"
)

// ellipseSegments is the number of points on an ellipse outline.
const ellipseSegments = 24

// DrawLine draws a line between two logical points using Bresenham's algorithm.
func (c *Canvas) DrawLine(p1, p2 Point) {
	x, y := c.toPixel(p1.X, p1.Y)
	x2, y2 := c.toPixel(p2.X, p2.Y)

	dx, dy := abs(x2-x), -abs(y2-y)
	sx, sy := 1, 1
	if x > x2 {
		sx = -1
	}
	if y > y2 {
		sy = -1
	}

	e := dx + dy
	for {
		c.plot(x, y)
		if x == x2 && y == y2 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

// DrawPolygon outlines a closed polygon, filling its interior when filled is set.
func (c *Canvas) DrawPolygon(points []Point, filled bool) {
	if len(points) < 3 {
		return
	}
	if filled {
		c.fillPolygon(points)
	}
	prev := points[len(points)-1]
	for _, p := range points {
		c.DrawLine(prev, p)
		prev = p
	}
}

// fillPolygon scanline-fills a polygon in pixel space (even-odd rule).
func (c *Canvas) fillPolygon(points []Point) {
	c.fillPts = c.fillPts[:0]
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		q := Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
		c.fillPts = append(c.fillPts, q)
		lo = math.Min(lo, q.Y)
		hi = math.Max(hi, q.Y)
	}

	first := max(int(math.Floor(lo)), 0)
	last := min(int(math.Ceil(hi)), c.rows*2-1)
	for y := first; y <= last; y++ {
		c.fillSpans(y, float64(y)+0.5)
	}
}

func (c *Canvas) fillSpans(py int, scanY float64) {
	xs := c.crossings[:0]
	prev := c.fillPts[len(c.fillPts)-1]
	for _, p := range c.fillPts {
		if (prev.Y <= scanY) != (p.Y <= scanY) {
			t := (scanY - prev.Y) / (p.Y - prev.Y)
			xs = append(xs, prev.X+t*(p.X-prev.X))
		}
		prev = p
	}
	slices.Sort(xs)
	c.crossings = xs

	for i := 0; i+1 < len(xs); i += 2 {
		for px := int(math.Ceil(xs[i])); px <= int(math.Floor(xs[i+1])); px++ {
			c.plot(px, py)
		}
	}
}

// DrawEllipse draws an axis-aligned ellipse centered at center with radii rx and ry.
func (c *Canvas) DrawEllipse(center Point, rx, ry float64, filled bool) {
	points := c.BorrowPoints(ellipseSegments)
	for i := range points {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / ellipseSegments)
		points[i] = Point{X: center.X + cos*rx, Y: center.Y + sin*ry}
	}
	c.DrawPolygon(points, filled)
}

// FillRect fills the axis-aligned rectangle spanned by the corners p1 and p2.
func (c *Canvas) FillRect(p1, p2 Point) {
	points := c.BorrowPoints(4)
	points[0], points[1] = p1, Point{X: p2.X, Y: p1.Y}
	points[2], points[3] = p2, Point{X: p1.X, Y: p2.Y}
	c.DrawPolygon(points, true)
}

// BorrowPoints returns a scratch slice of n points owned by the canvas.
// It is only valid until the next call.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.borrowPts) < n {
		c.borrowPts = make([]Point, n)
	}
	return c.borrowPts[:n]
}
