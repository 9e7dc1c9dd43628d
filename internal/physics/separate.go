package physics

import "math"

// Intersects reports whether the shapes of a and b overlap. Boxes must share
// interior area; circles count touching as intersecting. An object never
// intersects itself and bodies without area never intersect anything.
func (w *World) Intersects(a, b Object) bool {
	return intersects(a.core(), b.core())
}

func intersects(b1, b2 *Body) bool {
	if b1 == b2 || b1.shape.Empty() || b2.shape.Empty() {
		return false
	}
	switch {
	case !b1.IsCircle() && !b2.IsCircle():
		return b1.Bounds().Intersects(b2.Bounds())
	case b1.IsCircle() && b2.IsCircle():
		c1, c2 := b1.Center(), b2.Center()
		return Distance(c1[0], c1[1], c2[0], c2[1]) <= b1.HalfWidth()+b2.HalfWidth()
	case b1.IsCircle():
		return circleIntersects(b1, b2.Bounds())
	default:
		return circleIntersects(b2, b1.Bounds())
	}
}

func circleIntersects(circle *Body, r Rect) bool {
	c := circle.Center()
	return CircleIntersectsRect(c[0], c[1], circle.HalfWidth(), r)
}

// intersectsRect is the narrow-phase test of a body against a query rectangle.
func intersectsRect(b *Body, r Rect) bool {
	if b.shape.Empty() || r.Width <= 0 || r.Height <= 0 {
		return false
	}
	if b.IsCircle() {
		return circleIntersects(b, r)
	}
	return b.Bounds().Intersects(r)
}

// Separate resolves an overlap between a and b and reports whether they
// were colliding. It is the one-pair form of Collide without callbacks.
func (w *World) Separate(a, b Object) bool {
	return w.separate(a, b, nil, false)
}

// separate runs the narrow phase for one pair: the intersection test, the
// process callback, and then either circle or per-axis separation.
func (w *World) separate(o1, o2 Object, process ProcessFunc, overlapOnly bool) bool {
	b1, b2 := o1.core(), o2.core()
	if !b1.Enable || !b2.Enable || b1.CheckCollision.None || b2.CheckCollision.None || !intersects(b1, b2) {
		return false
	}
	if process != nil && !process(o1, o2) {
		return false
	}

	var result bool
	handled := false
	if b1.IsCircle() || b2.IsCircle() {
		result, handled = w.separateCircle(b1, b2, overlapOnly)
	}

	if !handled {
		var resultX, resultY bool
		g := w.gravity.Add(b1.Gravity)
		switch {
		case overlapOnly:
			resultX = w.separateAxis(b1, b2, axisX, true)
			resultY = w.separateAxis(b1, b2, axisY, true)
		case w.forceX || math.Abs(g[1]) < math.Abs(g[0]):
			resultX = w.separateAxis(b1, b2, axisX, false)
			if intersects(b1, b2) {
				resultY = w.separateAxis(b1, b2, axisY, false)
			}
		default:
			resultY = w.separateAxis(b1, b2, axisY, false)
			if intersects(b1, b2) {
				resultX = w.separateAxis(b1, b2, axisX, false)
			}
		}
		result = resultX || resultY
	}

	if result {
		switch {
		case overlapOnly:
			if b1.OnOverlap || b2.OnOverlap {
				w.emit(Event{Type: EventOverlap, Body1: o1, Body2: o2})
			}
		case b1.OnCollide || b2.OnCollide:
			w.emit(Event{Type: EventCollide, Body1: o1, Body2: o2})
		}
	}
	if !overlapOnly {
		w.refresh(b1)
		w.refresh(b2)
	}
	return result
}

// separateCircle separates pairs involving a circle along the line between
// their contact points. A circle meeting a box on one of its faces is left to
// the per-axis separation and reported as not handled.
func (w *World) separateCircle(b1, b2 *Body, overlapOnly bool) (result, handled bool) {
	// Run for the touching and blocked flags; the overlaps are replaced below.
	w.overlapAxis(b1, b2, axisX, overlapOnly)
	w.overlapAxis(b1, b2, axisY, overlapOnly)

	c1, c2 := b1.Center(), b2.Center()
	var n Vector
	var overlap float64
	switch {
	case b1.IsCircle() && b2.IsCircle():
		n = c2.Sub(c1)
		overlap = b1.HalfWidth() + b2.HalfWidth() - n.Len()
	case b1.IsCircle():
		corner, ok := nearestCorner(b2.Bounds(), c1)
		if !ok {
			return false, false
		}
		n = corner.Sub(c1)
		overlap = b1.HalfWidth() - n.Len()
	default:
		corner, ok := nearestCorner(b1.Bounds(), c2)
		if !ok {
			return false, false
		}
		n = c2.Sub(corner)
		overlap = b2.HalfWidth() - n.Len()
	}
	overlap = math.Max(overlap, 0)
	b1.OverlapR = overlap
	b2.OverlapR = overlap

	dist := n.Len()
	if overlapOnly || overlap == 0 || dist == 0 || (b1.Immovable && b2.Immovable) || b1.CustomSeparateX || b2.CustomSeparateX {
		return overlap != 0, true
	}

	n = n.Mul(1 / dist)
	inv1, inv2 := inverseMass(b1), inverseMass(b2)
	total := inv1 + inv2
	sep := overlap + epsilon

	b1.OverlapX, b1.OverlapY = sep*n[0], sep*n[1]
	b2.OverlapX, b2.OverlapY = b1.OverlapX, b1.OverlapY
	b1.Position = b1.Position.Sub(n.Mul(sep * inv1 / total))
	b2.Position = b2.Position.Add(n.Mul(sep * inv2 / total))

	// Normal impulse, only while the bodies are still approaching.
	vn := b1.Velocity.Sub(b2.Velocity).Dot(n)
	if vn > 0 {
		j := (1 + restitution(b1, b2)) * vn / total
		b1.Velocity = b1.Velocity.Sub(n.Mul(j * inv1))
		b2.Velocity = b2.Velocity.Add(n.Mul(j * inv2))
	}
	return true, true
}

// nearestCorner returns the corner of r closest to p when p lies outside r on
// both axes, which is when a circle at p can only touch r at that corner.
func nearestCorner(r Rect, p Vector) (Vector, bool) {
	var corner Vector
	switch {
	case p[0] < r.X:
		corner[0] = r.X
	case p[0] > r.Right():
		corner[0] = r.Right()
	default:
		return Vector{}, false
	}
	switch {
	case p[1] < r.Y:
		corner[1] = r.Y
	case p[1] > r.Bottom():
		corner[1] = r.Bottom()
	default:
		return Vector{}, false
	}
	return corner, true
}

func inverseMass(b *Body) float64 {
	if b.Immovable {
		return 0
	}
	return 1 / effectiveMass(b)
}

// restitution is the mean bounce of the movable bodies in the pair.
func restitution(b1, b2 *Body) float64 {
	e1 := (b1.Bounce[0] + b1.Bounce[1]) / 2
	e2 := (b2.Bounce[0] + b2.Bounce[1]) / 2
	switch {
	case b1.Immovable:
		return e2
	case b2.Immovable:
		return e1
	}
	return (e1 + e2) / 2
}
