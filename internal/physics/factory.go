package physics

// Factory creates bodies and colliders already registered with its world.
type Factory struct {
	world *World
}

// Body creates and adds a dynamic box body.
func (f *Factory) Body(x, y, width, height float64) *Body {
	b := NewBody(f.world, x, y, width, height)
	f.world.Add(b)
	return b
}

// DefaultBody creates and adds a dynamic DefaultBodySize square body.
func (f *Factory) DefaultBody(x, y float64) *Body {
	return f.Body(x, y, DefaultBodySize, DefaultBodySize)
}

// Circle creates and adds a dynamic circle body whose bounding box starts at (x, y).
func (f *Factory) Circle(x, y, radius float64) *Body {
	b := NewBody(f.world, x, y, 2*radius, 2*radius)
	b.SetCircle(radius)
	f.world.Add(b)
	return b
}

// StaticBody creates and adds a static box body.
func (f *Factory) StaticBody(x, y, width, height float64) *StaticBody {
	s := NewStaticBody(f.world, x, y, width, height)
	f.world.Add(s)
	return s
}

// DefaultStaticBody creates and adds a static DefaultBodySize square body.
func (f *Factory) DefaultStaticBody(x, y float64) *StaticBody {
	return f.StaticBody(x, y, DefaultBodySize, DefaultBodySize)
}

// StaticCircle creates and adds a static circle body whose bounding box starts at (x, y).
func (f *Factory) StaticCircle(x, y, radius float64) *StaticBody {
	s := NewStaticBody(f.world, x, y, 2*radius, 2*radius)
	s.SetCircle(radius)
	f.world.Add(s)
	return s
}

// Group creates a group of objs.
func (f *Factory) Group(objs ...Object) *Group {
	return NewGroup(objs...)
}

// Collider registers a separating collider between a and b.
func (f *Factory) Collider(a, b Target, collide CollideFunc, process ProcessFunc) *Collider {
	return f.world.AddCollider(a, b, collide, process)
}

// Overlap registers an overlap-only collider between a and b.
func (f *Factory) Overlap(a, b Target, collide CollideFunc, process ProcessFunc) *Collider {
	return f.world.AddOverlap(a, b, collide, process)
}
