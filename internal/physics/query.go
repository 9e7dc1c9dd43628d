package physics

import (
	"math"
	"slices"
)

// OverlapRect returns the enabled bodies whose shapes overlap the rectangle:
// matching static bodies first, then dynamic ones, each in ID order. Box
// bodies must share interior area with the rectangle; circles may touch it.
// Bodies added or moved since the last step are tested at their current bounds.
func (w *World) OverlapRect(x, y, width, height float64, includeDynamic, includeStatic bool) []Object {
	r := Rect{X: x, Y: y, Width: width, Height: height}
	return w.query(r, includeDynamic, includeStatic, func(b *Body) bool {
		return intersectsRect(b, r)
	})
}

// OverlapCirc returns the enabled bodies whose shapes touch the circle, in
// the same order as OverlapRect.
func (w *World) OverlapCirc(x, y, radius float64, includeDynamic, includeStatic bool) []Object {
	if radius < 0 {
		return nil
	}
	r := Rect{X: x - radius, Y: y - radius, Width: 2 * radius, Height: 2 * radius}
	return w.query(r, includeDynamic, includeStatic, func(b *Body) bool {
		return circleOverlaps(b, x, y, radius)
	})
}

func circleOverlaps(b *Body, x, y, radius float64) bool {
	if b.shape.Empty() {
		return false
	}
	if b.IsCircle() {
		c := b.Center()
		return CirclesOverlap(c[0], c[1], b.HalfWidth(), x, y, radius)
	}
	return CircleIntersectsRect(x, y, radius, b.Bounds())
}

// query gathers candidates touching r from the indexes (or every body when
// the dynamic index is off) and keeps those matching the exact test.
func (w *World) query(r Rect, includeDynamic, includeStatic bool, match func(*Body) bool) []Object {
	var out []Object
	keep := func(ids []ID) {
		for _, id := range ids {
			obj, ok := w.registered[id]
			if !ok {
				continue
			}
			if b := obj.core(); b.Enable && match(b) {
				out = append(out, obj)
			}
		}
	}

	if includeStatic {
		keep(w.staticTree.Collect(r, nil))
	}
	if includeDynamic {
		var ids []ID
		if w.useTree {
			for _, id := range w.tree.Collect(r, nil) {
				if obj, ok := w.registered[id]; ok && w.indexed(obj.core()) {
					ids = append(ids, id)
				}
			}
			for _, b := range w.bodies {
				if !w.indexed(b) {
					ids = append(ids, b.id)
				}
			}
			slices.Sort(ids)
		} else {
			for _, b := range w.bodies {
				ids = append(ids, b.id)
			}
			slices.Sort(ids)
		}
		keep(ids)
	}
	return out
}

// indexed reports whether the dynamic index holds b at its current bounds.
func (w *World) indexed(b *Body) bool {
	box, ok := w.tree.Box(b.id)
	return ok && box == b.Bounds()
}

// RefreshIndex rebuilds the dynamic index from the current body positions.
func (w *World) RefreshIndex() {
	if w.useTree {
		w.rebuildTree()
	}
}

// Closest returns the enabled object whose center is nearest to point. With
// no targets it searches every dynamic body. Ties go to
// the lowest ID. It returns nil when there is nothing to search.
func (w *World) Closest(point Vector, targets ...Object) Object {
	return w.extreme(point, targets, func(d, best float64) bool { return d < best })
}

// Furthest returns the enabled object whose center is furthest from point.
func (w *World) Furthest(point Vector, targets ...Object) Object {
	return w.extreme(point, targets, func(d, best float64) bool { return d > best })
}

func (w *World) extreme(point Vector, targets []Object, better func(d, best float64) bool) Object {
	var best Object
	bestDist := math.NaN()
	consider := func(obj Object) {
		b := obj.core()
		if !b.Enable {
			return
		}
		c := b.Center()
		d := DistanceSquared(point[0], point[1], c[0], c[1])
		if best == nil || better(d, bestDist) || (d == bestDist && obj.ID() < best.ID()) {
			best, bestDist = obj, d
		}
	}

	switch {
	case len(targets) > 0:
		for _, obj := range targets {
			consider(obj)
		}
	case w.useTree:
		w.tree.Scan(func(id ID, _ Rect) bool {
			if obj, ok := w.registered[id]; ok {
				consider(obj)
			}
			return true
		})
		for _, b := range w.bodies {
			if !w.tree.Contains(b.id) {
				consider(b)
			}
		}
	default:
		for _, b := range w.bodies {
			consider(b)
		}
	}
	return best
}
