package physics

// StaticBody is an immovable collision entity. It never integrates motion;
// its position and shape change only through its methods, each of which keeps
// the static spatial index in step with the new geometry.
type StaticBody struct {
	body *Body
	slot indexSlot
}

// indexSlot is a static body's handle into the index it is registered in.
// The zero value means the body is not indexed.
type indexSlot struct {
	index *SpatialIndex
}

// reindex applies mutate to b with the entry removed from the index, then
// reinserts it with the new bounds.
func (s *StaticBody) reindex(mutate func(b *Body)) {
	idx := s.slot.index
	if idx != nil {
		idx.Remove(s.body.id)
	}
	mutate(s.body)
	if idx != nil {
		idx.Insert(s.body.id, s.body.Bounds())
	}
}

// NewStaticBody creates a static box body owned by w. It takes part in the
// simulation once it is added to the world. w must not be nil.
func NewStaticBody(w *World, x, y, width, height float64) *StaticBody {
	b := newBody(w, TypeStatic, x, y)
	b.setShape(w, Box(width, height))
	b.Immovable = true
	b.Pushable = false
	b.Moves = false
	b.AllowGravity = false
	b.AllowDrag = false
	b.AllowRotation = false
	return &StaticBody{body: b}
}

// ID returns the body's world-unique identifier.
func (s *StaticBody) ID() ID { return s.body.id }

// Type returns TypeStatic.
func (s *StaticBody) Type() PhysicsType { return TypeStatic }

// World returns the owning world.
func (s *StaticBody) World() *World { return s.body.world }

func (s *StaticBody) core() *Body { return s.body }

func (s *StaticBody) members(dst []Object) []Object { return append(dst, s) }

// Position returns the top-left corner.
func (s *StaticBody) Position() Vector { return s.body.Position }

func (s *StaticBody) X() float64          { return s.body.Position[0] }
func (s *StaticBody) Y() float64          { return s.body.Position[1] }
func (s *StaticBody) Width() float64      { return s.body.Width() }
func (s *StaticBody) Height() float64     { return s.body.Height() }
func (s *StaticBody) HalfWidth() float64  { return s.body.HalfWidth() }
func (s *StaticBody) HalfHeight() float64 { return s.body.HalfHeight() }
func (s *StaticBody) Center() Vector      { return s.body.Center() }
func (s *StaticBody) Bounds() Rect        { return s.body.Bounds() }
func (s *StaticBody) Shape() Shape        { return s.body.Shape() }
func (s *StaticBody) IsCircle() bool      { return s.body.IsCircle() }
func (s *StaticBody) Radius() float64     { return s.body.Radius() }
func (s *StaticBody) Enabled() bool       { return s.body.Enable }
func (s *StaticBody) Mass() float64       { return s.body.Mass }

// Touching returns the sides touched during the last step.
func (s *StaticBody) Touching() Directions { return s.body.Touching }

// SetPosition moves the body's top-left corner to (x, y).
func (s *StaticBody) SetPosition(x, y float64) *StaticBody {
	s.reindex(func(b *Body) {
		b.Position = Vec(x, y)
		b.Prev = b.Position
		b.PrevFrame = b.Position
	})
	return s
}

func (s *StaticBody) SetX(x float64) *StaticBody { return s.SetPosition(x, s.body.Position[1]) }
func (s *StaticBody) SetY(y float64) *StaticBody { return s.SetPosition(s.body.Position[0], y) }

// SetSize turns the body into a box of the given size, keeping its top-left corner.
func (s *StaticBody) SetSize(width, height float64) *StaticBody {
	s.reindex(func(b *Body) { b.setShape(b.world, Box(width, height)) })
	return s
}

// SetCircle turns the body into a circle of radius r. A non-positive radius
// turns circle mode off and keeps the current size.
func (s *StaticBody) SetCircle(r float64) *StaticBody {
	s.reindex(func(b *Body) {
		if r > 0 {
			b.shape = Circle(r)
		} else {
			b.shape.Kind = ShapeBox
			b.shape.Radius = 0
		}
	})
	return s
}

// SetMass sets the mass used by bodies colliding with this one.
// Non-positive values become 0.1.
func (s *StaticBody) SetMass(m float64) *StaticBody {
	if m <= 0 {
		m = 0.1
	}
	s.body.Mass = m
	return s
}

// SetEnable toggles collision for the body.
func (s *StaticBody) SetEnable(on bool) *StaticBody {
	s.body.Enable = on
	return s
}

// SetCheckCollision selects the sides other bodies can collide with.
func (s *StaticBody) SetCheckCollision(d Directions) *StaticBody {
	s.body.CheckCollision = d
	return s
}

// SetOnCollide toggles collide and overlap events for this body.
func (s *StaticBody) SetOnCollide(collide, overlap bool) *StaticBody {
	s.body.OnCollide = collide
	s.body.OnOverlap = overlap
	return s
}

// SetData attaches a host value to the body.
func (s *StaticBody) SetData(v any) *StaticBody {
	s.body.Data = v
	return s
}

// Data returns the value attached with SetData.
func (s *StaticBody) Data() any { return s.body.Data }

// Reset moves the body to (x, y) and clears its contact state.
func (s *StaticBody) Reset(x, y float64) {
	s.reindex(func(b *Body) {
		b.Position = Vec(x, y)
		b.Prev = b.Position
		b.PrevFrame = b.Position
		b.resetFlags(true)
	})
}

// HitTest reports whether the point lies on the body.
func (s *StaticBody) HitTest(x, y float64) bool {
	return s.body.HitTest(x, y)
}

// Destroy disables the body and removes it from the world at the next safe point.
func (s *StaticBody) Destroy() {
	s.body.world.destroy(s)
}
