package physics

import "slices"

// Target is one side of a collider: a single *Body or *StaticBody, or a *Group.
type Target interface {
	members(dst []Object) []Object
}

// Group is an ordered list of objects used as one side of a collider.
// Pairs are expanded in list order.
type Group struct {
	items []Object
}

// NewGroup creates a group holding objs.
func NewGroup(objs ...Object) *Group {
	g := &Group{}
	g.Add(objs...)
	return g
}

// Add appends objects not already in the group.
func (g *Group) Add(objs ...Object) {
	for _, o := range objs {
		if o != nil && !g.Contains(o) {
			g.items = append(g.items, o)
		}
	}
}

// Remove drops obj and reports whether it was a member.
func (g *Group) Remove(obj Object) bool {
	i := slices.Index(g.items, obj)
	if i < 0 {
		return false
	}
	g.items = slices.Delete(g.items, i, i+1)
	return true
}

// Contains reports whether obj is a member.
func (g *Group) Contains(obj Object) bool {
	return slices.Contains(g.items, obj)
}

// Len returns the number of members.
func (g *Group) Len() int { return len(g.items) }

// Objects returns a copy of the members.
func (g *Group) Objects() []Object { return slices.Clone(g.items) }

func (g *Group) members(dst []Object) []Object { return append(dst, g.items...) }

// CollideFunc is called for each pair a collider separated or found overlapping.
type CollideFunc func(a, b Object)

// ProcessFunc runs before separation. Returning false skips the pair.
type ProcessFunc func(a, b Object) bool

// Collider pairs two targets and resolves them once per world step while active.
type Collider struct {
	Name   string
	Active bool

	world       *World
	overlapOnly bool
	body1       Target
	body2       Target
	collide     CollideFunc
	process     ProcessFunc
	removed     bool
}

// OverlapOnly reports whether the collider only detects overlaps without separating.
func (c *Collider) OverlapOnly() bool { return c.overlapOnly }

// World returns the owning world, or nil once destroyed.
func (c *Collider) World() *World { return c.world }

// SetName sets a label shown in diagnostics.
func (c *Collider) SetName(name string) *Collider {
	c.Name = name
	return c
}

// Destroy unregisters the collider and drops its references.
// Calling it from the collider's own callback stops the remaining pairs.
func (c *Collider) Destroy() {
	if c.world == nil {
		return
	}
	c.world.RemoveCollider(c)
	c.world = nil
	c.body1 = nil
	c.body2 = nil
	c.collide = nil
	c.process = nil
}

func (c *Collider) update() {
	c.world.runCollider(c)
}

// AddCollider registers a collider that separates every pair drawn from a and
// b. collide and process may be nil. Colliders run in registration order.
func (w *World) AddCollider(a, b Target, collide CollideFunc, process ProcessFunc) *Collider {
	return w.addCollider(a, b, collide, process, false)
}

// AddOverlap registers a collider that only reports overlapping pairs.
func (w *World) AddOverlap(a, b Target, collide CollideFunc, process ProcessFunc) *Collider {
	return w.addCollider(a, b, collide, process, true)
}

func (w *World) addCollider(a, b Target, collide CollideFunc, process ProcessFunc, overlapOnly bool) *Collider {
	c := &Collider{
		Active:      true,
		world:       w,
		overlapOnly: overlapOnly,
		body1:       a,
		body2:       b,
		collide:     collide,
		process:     process,
	}
	if _, isGroup := a.(*Group); !isGroup && a == b {
		w.log.Debug("collider pairs an object with itself and will never fire")
	}
	if w.stepping {
		w.pendingColliders = append(w.pendingColliders, c)
	} else {
		w.colliders = append(w.colliders, c)
	}
	return c
}

// RemoveCollider deactivates c and drops it from the world. While stepping,
// the registry itself is updated at the end of the step.
func (w *World) RemoveCollider(c *Collider) {
	if c == nil || c.removed {
		return
	}
	c.Active = false
	c.removed = true
	w.pendingColliders = slices.DeleteFunc(w.pendingColliders, func(p *Collider) bool { return p == c })
	if !w.stepping {
		w.pruneColliders()
	}
}

// Colliders returns the registered colliders in registration order.
func (w *World) Colliders() []*Collider {
	out := make([]*Collider, 0, len(w.colliders))
	for _, c := range w.colliders {
		if !c.removed {
			out = append(out, c)
		}
	}
	return out
}

// Collide separates every pair drawn from a and b once, outside the collider
// registry, and reports whether any pair collided.
func (w *World) Collide(a, b Target, collide CollideFunc, process ProcessFunc) bool {
	return w.runCollider(&Collider{Active: true, world: w, body1: a, body2: b, collide: collide, process: process})
}

// Overlap reports whether any pair drawn from a and b overlaps, calling
// collide for each overlapping pair.
func (w *World) Overlap(a, b Target, collide CollideFunc, process ProcessFunc) bool {
	return w.runCollider(&Collider{Active: true, world: w, overlapOnly: true, body1: a, body2: b, collide: collide, process: process})
}

// broadPhaseMin is the side length from which pairs are pre-filtered through
// the spatial indexes instead of testing every member.
const broadPhaseMin = 4

// runCollider expands c into pairs and resolves each one. A group paired
// with itself yields each unordered pair once.
func (w *World) runCollider(c *Collider) bool {
	if c.body1 == nil || c.body2 == nil {
		return false
	}
	side1 := c.body1.members(nil)
	side2 := c.body2.members(nil)
	_, isGroup := c.body1.(*Group)
	self := isGroup && c.body1 == c.body2

	filter := len(side2) >= broadPhaseMin
	var near map[ID]struct{}
	if filter {
		near = make(map[ID]struct{})
	}

	hit := false
	for i, a := range side1 {
		if !c.Active {
			break
		}
		if filter {
			clear(near)
			w.nearby(a.core().Bounds(), near)
		}
		start := 0
		if self {
			start = i + 1
		}
		for _, b := range side2[start:] {
			if !c.Active {
				break
			}
			if filter && w.indexed(b) {
				if _, ok := near[b.ID()]; !ok {
					continue
				}
			}
			if w.collidePair(a, b, c) {
				hit = true
			}
		}
	}
	return hit
}

func (w *World) collidePair(a, b Object, c *Collider) bool {
	if a.ID() == b.ID() {
		return false
	}
	if !w.separate(a, b, c.process, c.overlapOnly) {
		return false
	}
	if c.collide != nil {
		c.collide(a, b)
		w.refresh(a.core())
		w.refresh(b.core())
	}
	return true
}

// nearby collects the IDs of indexed bodies whose boxes touch r.
func (w *World) nearby(r Rect, into map[ID]struct{}) {
	add := func(id ID, _ Rect) bool {
		into[id] = struct{}{}
		return true
	}
	if w.useTree {
		w.tree.Search(r, add)
	}
	w.staticTree.Search(r, add)
}

// indexed reports whether obj's current box is held by one of the indexes.
// Dynamic entries only count during a step, since hosts may move bodies
// between steps.
func (w *World) indexed(obj Object) bool {
	if obj.Type() == TypeStatic {
		return w.staticTree.Contains(obj.ID())
	}
	return w.stepping && w.useTree && w.tree.Contains(obj.ID())
}

func (w *World) flushColliders() {
	if len(w.pendingColliders) == 0 {
		return
	}
	w.colliders = append(w.colliders, w.pendingColliders...)
	w.pendingColliders = w.pendingColliders[:0]
}

func (w *World) pruneColliders() {
	w.colliders = slices.DeleteFunc(w.colliders, func(c *Collider) bool { return c.removed })
}
