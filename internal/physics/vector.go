// Package physics provides an axis-aligned 2D motion and collision world:
// dynamic and static bodies (boxes or circles), a broad-phase spatial index,
// pairwise separation and world-boundary containment.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vector is a mutable 2D vector. Components are addressed as v[0] (x) and v[1] (y).
type Vector = mgl64.Vec2

// Vec returns the vector (x, y).
func Vec(x, y float64) Vector {
	return Vector{x, y}
}

// epsilon is added to circle overlaps so separated circles end up strictly apart.
const epsilon = 1e-6

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// PointInCircle checks if a point is within radius of a target position.
func PointInCircle(px, py, cx, cy, radius float64) bool {
	return DistanceSquared(px, py, cx, cy) <= radius*radius
}

// CirclesOverlap checks if two circles touch or overlap.
func CirclesOverlap(x1, y1, r1, x2, y2, r2 float64) bool {
	minDist := r1 + r2
	return DistanceSquared(x1, y1, x2, y2) <= minDist*minDist
}

// CircleIntersectsRect reports whether a circle touches or overlaps a rectangle.
func CircleIntersectsRect(cx, cy, radius float64, r Rect) bool {
	x := Clamp(cx, r.X, r.Right())
	y := Clamp(cy, r.Y, r.Bottom())
	return DistanceSquared(cx, cy, x, y) <= radius*radius
}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Wrap wraps v into the half-open range [lo, hi).
func Wrap(v, lo, hi float64) float64 {
	span := hi - lo
	if span <= 0 {
		return lo
	}
	return lo + math.Mod(math.Mod(v-lo, span)+span, span)
}

func fuzzyEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func fuzzyGreaterThan(a, b, eps float64) bool {
	return a > b-eps
}

func fuzzyLessThan(a, b, eps float64) bool {
	return a < b+eps
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Contains reports whether the point lies inside the rectangle, edges included.
// A rectangle without area contains nothing.
func (r Rect) Contains(x, y float64) bool {
	if r.Width <= 0 || r.Height <= 0 {
		return false
	}
	return r.X <= x && r.Right() >= x && r.Y <= y && r.Bottom() >= y
}

// Intersects reports whether two rectangles share interior area.
// Rectangles that only touch along an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	return !(r.Right() <= o.X || r.Bottom() <= o.Y || r.X >= o.Right() || r.Y >= o.Bottom())
}

// Touches reports whether two rectangles overlap or share an edge.
func (r Rect) Touches(o Rect) bool {
	return !(r.Right() < o.X || r.Bottom() < o.Y || r.X > o.Right() || r.Y > o.Bottom())
}

func (r Rect) min() [2]float64 {
	return [2]float64{r.X, r.Y}
}

func (r Rect) max() [2]float64 {
	return [2]float64{r.Right(), r.Bottom()}
}
