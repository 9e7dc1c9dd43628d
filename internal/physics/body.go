package physics

import "math"

// Object is a body that can be registered with a World and paired by a
// Collider: either a *Body or a *StaticBody.
type Object interface {
	Target
	ID() ID
	Type() PhysicsType
	core() *Body
}

// Body is a dynamic collision entity. Position is the top-left corner of its
// bounding box; the kinematic fields can be set directly or through the
// chainable setters.
type Body struct {
	world     *World
	id        ID
	kind      PhysicsType
	shape     Shape
	destroyed bool

	Position  Vector
	Prev      Vector // position at the start of the last step
	PrevFrame Vector // position at the start of the last frame

	Velocity     Vector
	NewVelocity  Vector // displacement applied by the last step
	Acceleration Vector
	Drag         Vector
	Gravity      Vector
	Bounce       Vector
	WorldBounce  *Vector // overrides Bounce against the world bounds when set
	Friction     Vector  // share of a moving immovable body's motion passed to bodies riding it
	MaxVelocity  Vector
	MaxSpeed     float64 // negative disables the speed limit
	DeltaMax     Vector  // limits the final per-frame delta; zero disables
	Mass         float64
	UseDamping   bool

	Rotation            float64 // degrees
	PreRotation         float64
	AngularVelocity     float64
	AngularAcceleration float64
	AngularDrag         float64
	MaxAngular          float64

	Angle  float64 // direction of travel in radians
	Speed  float64
	Facing Facing

	Enable             bool
	Moves              bool
	Immovable          bool
	Pushable           bool
	AllowGravity       bool
	AllowDrag          bool
	AllowRotation      bool
	CollideWorldBounds bool
	OnWorldBounds      bool // emit worldbounds events
	OnCollide          bool // emit collide events
	OnOverlap          bool // emit overlap events
	CustomSeparateX    bool
	CustomSeparateY    bool

	// CustomBounds replaces the world bounds for this body when set.
	CustomBounds *Rect

	CheckCollision Directions
	Touching       Directions
	WasTouching    Directions
	Blocked        Directions
	Embedded       bool
	OverlapX       float64
	OverlapY       float64
	OverlapR       float64

	// Data is left to the host.
	Data any

	delta Vector // within the last step
	final Vector // within the last frame, after DeltaMax
}

// NewBody creates a dynamic box body owned by w. The body takes part in the
// simulation once it is added to the world. w must not be nil.
func NewBody(w *World, x, y, width, height float64) *Body {
	b := newBody(w, TypeDynamic, x, y)
	b.setShape(w, Box(width, height))
	return b
}

func newBody(w *World, kind PhysicsType, x, y float64) *Body {
	w.lastID++
	pos := Vec(x, y)
	return &Body{
		world:          w,
		id:             w.lastID,
		kind:           kind,
		Position:       pos,
		Prev:           pos,
		PrevFrame:      pos,
		MaxVelocity:    Vec(10000, 10000),
		MaxSpeed:       -1,
		Friction:       Vec(1, 0),
		Mass:           1,
		MaxAngular:     1000,
		Enable:         true,
		Moves:          true,
		Pushable:       true,
		AllowGravity:   true,
		AllowDrag:      true,
		AllowRotation:  true,
		CheckCollision: AllDirections,
		Touching:       NoDirections,
		WasTouching:    NoDirections,
		Blocked:        NoDirections,
	}
}

func (b *Body) setShape(w *World, s Shape) {
	if s.Width < 0 || s.Height < 0 || (s.Kind == ShapeBox && s.Empty()) {
		w.log.Debug("body has no area and will never collide", "id", b.id, "width", s.Width, "height", s.Height)
		s.Width = math.Max(s.Width, 0)
		s.Height = math.Max(s.Height, 0)
	}
	b.shape = s
}

// ID returns the body's world-unique identifier.
func (b *Body) ID() ID { return b.id }

// Type returns TypeDynamic.
func (b *Body) Type() PhysicsType { return b.kind }

// World returns the owning world.
func (b *Body) World() *World { return b.world }

func (b *Body) core() *Body { return b }

func (b *Body) members(dst []Object) []Object { return append(dst, b) }

// Shape returns the current collision shape.
func (b *Body) Shape() Shape { return b.shape }

// Width returns the width of the bounding box.
func (b *Body) Width() float64 { return b.shape.Width }

// Height returns the height of the bounding box.
func (b *Body) Height() float64 { return b.shape.Height }

// HalfWidth returns half the width.
func (b *Body) HalfWidth() float64 { return b.shape.HalfWidth() }

// HalfHeight returns half the height.
func (b *Body) HalfHeight() float64 { return b.shape.HalfHeight() }

// IsCircle reports whether the body collides as a circle.
func (b *Body) IsCircle() bool { return b.shape.Kind == ShapeCircle }

// Radius returns the circle radius, or 0 for boxes.
func (b *Body) Radius() float64 { return b.shape.Radius }

func (b *Body) X() float64      { return b.Position[0] }
func (b *Body) Y() float64      { return b.Position[1] }
func (b *Body) Left() float64   { return b.Position[0] }
func (b *Body) Top() float64    { return b.Position[1] }
func (b *Body) Right() float64  { return b.Position[0] + b.shape.Width }
func (b *Body) Bottom() float64 { return b.Position[1] + b.shape.Height }

// Center returns the center of the bounding box.
func (b *Body) Center() Vector {
	return Vec(b.Position[0]+b.shape.HalfWidth(), b.Position[1]+b.shape.HalfHeight())
}

// Bounds returns the bounding box.
func (b *Body) Bounds() Rect {
	return Rect{X: b.Position[0], Y: b.Position[1], Width: b.shape.Width, Height: b.shape.Height}
}

func (b *Body) size(axis int) float64 {
	if axis == 0 {
		return b.shape.Width
	}
	return b.shape.Height
}

func (b *Body) end(axis int) float64 {
	return b.Position[axis] + b.size(axis)
}

func (b *Body) customSeparate(axis int) bool {
	if axis == 0 {
		return b.CustomSeparateX
	}
	return b.CustomSeparateY
}

func (b *Body) setOverlap(axis int, v float64) {
	if axis == 0 {
		b.OverlapX = v
	} else {
		b.OverlapY = v
	}
}

// SetSize turns the body into a box of the given size, keeping its top-left corner.
func (b *Body) SetSize(width, height float64) *Body {
	b.setShape(b.world, Box(width, height))
	b.world.refresh(b)
	return b
}

// SetCircle turns the body into a circle of radius r, keeping its top-left
// corner. A non-positive radius turns circle mode off and keeps the current size.
func (b *Body) SetCircle(r float64) *Body {
	if r > 0 {
		b.shape = Circle(r)
	} else {
		b.shape.Kind = ShapeBox
		b.shape.Radius = 0
	}
	b.world.refresh(b)
	return b
}

// SetVelocity sets the velocity in px/s and updates Speed.
func (b *Body) SetVelocity(x, y float64) *Body {
	b.Velocity = Vec(x, y)
	b.Speed = b.Velocity.Len()
	return b
}

// SetVelocityX sets the horizontal velocity.
func (b *Body) SetVelocityX(x float64) *Body { return b.SetVelocity(x, b.Velocity[1]) }

// SetVelocityY sets the vertical velocity.
func (b *Body) SetVelocityY(y float64) *Body { return b.SetVelocity(b.Velocity[0], y) }

// SetMaxVelocity caps the absolute velocity on each axis.
func (b *Body) SetMaxVelocity(x, y float64) *Body {
	b.MaxVelocity = Vec(x, y)
	return b
}

// SetMaxSpeed caps the speed. Negative means no cap.
func (b *Body) SetMaxSpeed(v float64) *Body {
	b.MaxSpeed = v
	return b
}

// SetBounce sets the restitution kept after a collision, per axis.
func (b *Body) SetBounce(x, y float64) *Body {
	b.Bounce = Vec(x, y)
	return b
}

// SetAcceleration sets the acceleration in px/s². Drag is skipped on accelerating axes.
func (b *Body) SetAcceleration(x, y float64) *Body {
	b.Acceleration = Vec(x, y)
	return b
}

// SetDrag sets the deceleration applied while not accelerating.
func (b *Body) SetDrag(x, y float64) *Body {
	b.Drag = Vec(x, y)
	return b
}

// SetDamping switches drag between linear (false) and multiplicative (true).
// With damping on, drag components are the fraction of velocity kept per second.
func (b *Body) SetDamping(on bool) *Body {
	b.UseDamping = on
	return b
}

// SetGravity sets gravity added on top of the world's.
func (b *Body) SetGravity(x, y float64) *Body {
	b.Gravity = Vec(x, y)
	return b
}

// SetFriction sets the share of this body's motion passed to bodies riding it while immovable.
func (b *Body) SetFriction(x, y float64) *Body {
	b.Friction = Vec(x, y)
	return b
}

// SetMass sets the mass used to split collision impulses.
func (b *Body) SetMass(m float64) *Body {
	b.Mass = m
	return b
}

// SetImmovable keeps the body in place when other bodies collide with it.
func (b *Body) SetImmovable(on bool) *Body {
	b.Immovable = on
	return b
}

// SetPushable controls whether colliding bodies can push this one.
func (b *Body) SetPushable(on bool) *Body {
	b.Pushable = on
	return b
}

// SetAllowGravity toggles world and body gravity.
func (b *Body) SetAllowGravity(on bool) *Body {
	b.AllowGravity = on
	return b
}

// SetAllowDrag toggles drag.
func (b *Body) SetAllowDrag(on bool) *Body {
	b.AllowDrag = on
	return b
}

// SetAllowRotation toggles angular motion.
func (b *Body) SetAllowRotation(on bool) *Body {
	b.AllowRotation = on
	return b
}

// SetAngularVelocity sets the spin in degrees per second.
func (b *Body) SetAngularVelocity(v float64) *Body {
	b.AngularVelocity = v
	return b
}

// SetCollideWorldBounds toggles containment by the world bounds. A non-nil
// bounce becomes the body's WorldBounce.
func (b *Body) SetCollideWorldBounds(on bool, bounce *Vector, onWorldBounds bool) *Body {
	b.CollideWorldBounds = on
	if bounce != nil {
		wb := *bounce
		b.WorldBounce = &wb
	}
	b.OnWorldBounds = onWorldBounds
	return b
}

// SetBoundsRectangle sets custom containment bounds. Nil restores the world bounds.
func (b *Body) SetBoundsRectangle(r *Rect) *Body {
	if r == nil {
		b.CustomBounds = nil
		return b
	}
	cr := *r
	b.CustomBounds = &cr
	return b
}

// SetEnable toggles simulation of the body without unregistering it.
func (b *Body) SetEnable(on bool) *Body {
	b.Enable = on
	return b
}

// Stop zeroes every velocity and acceleration.
func (b *Body) Stop() *Body {
	b.Velocity = Vector{}
	b.Acceleration = Vector{}
	b.Speed = 0
	b.AngularVelocity = 0
	b.AngularAcceleration = 0
	return b
}

// Reset stops the body, moves it to (x, y) and clears all contact state, so
// the next step behaves as for a freshly created body at (x, y).
func (b *Body) Reset(x, y float64) {
	b.Stop()
	b.Position = Vec(x, y)
	b.Prev = b.Position
	b.PrevFrame = b.Position
	b.PreRotation = b.Rotation
	b.delta = Vector{}
	b.final = Vector{}
	b.Facing = FacingNone
	b.resetFlags(true)
	b.world.refresh(b)
}

// HitTest reports whether the point lies on the body.
func (b *Body) HitTest(x, y float64) bool {
	r := b.Bounds()
	if !b.IsCircle() {
		return r.Contains(x, y)
	}
	if b.shape.Radius <= 0 || !r.Contains(x, y) {
		return false
	}
	c := b.Center()
	return PointInCircle(x, y, c[0], c[1], b.shape.Radius)
}

// OnFloor reports whether the body is blocked from below.
func (b *Body) OnFloor() bool { return b.Blocked.Down }

// OnCeiling reports whether the body is blocked from above.
func (b *Body) OnCeiling() bool { return b.Blocked.Up }

// OnWall reports whether the body is blocked on either side.
func (b *Body) OnWall() bool { return b.Blocked.Left || b.Blocked.Right }

// DeltaX returns the horizontal movement of the last step.
func (b *Body) DeltaX() float64 { return b.delta[0] }

// DeltaY returns the vertical movement of the last step.
func (b *Body) DeltaY() float64 { return b.delta[1] }

// DeltaAbsX returns the absolute horizontal movement of the last step.
func (b *Body) DeltaAbsX() float64 { return math.Abs(b.delta[0]) }
// DeltaAbsY returns the absolute vertical movement of the last step.
func (b *Body) DeltaAbsY() float64 { return math.Abs(b.delta[1]) }

// DeltaXFinal returns the horizontal movement of the last frame, which may
// span several steps. This is the value to apply to a visual transform.
func (b *Body) DeltaXFinal() float64 { return b.final[0] }

// DeltaYFinal returns the vertical movement of the last frame.
func (b *Body) DeltaYFinal() float64 { return b.final[1] }

// DeltaZ returns the rotation change of the last frame.
func (b *Body) DeltaZ() float64 { return b.Rotation - b.PreRotation }

// Destroy disables the body and removes it from the world at the next safe point.
func (b *Body) Destroy() {
	b.world.destroy(b)
}

func (b *Body) resetFlags(clear bool) {
	if clear {
		b.WasTouching = NoDirections
	} else {
		b.WasTouching = b.Touching
	}
	b.Touching = NoDirections
	b.Blocked = NoDirections
	b.OverlapR = 0
	b.OverlapX = 0
	b.OverlapY = 0
	b.Embedded = false
}

// preUpdate starts a frame: it snapshots the previous positions and, when the
// world steps this frame, runs the first step.
func (b *Body) preUpdate(willStep bool, delta float64) {
	if willStep {
		b.resetFlags(false)
	}
	b.PreRotation = b.Rotation
	if b.Moves {
		b.Prev = b.Position
		b.PrevFrame = b.Position
	}
	if willStep {
		b.update(delta)
	}
}

// update integrates one step of delta seconds.
func (b *Body) update(delta float64) {
	b.Prev = b.Position
	if b.Moves {
		b.world.updateMotion(b, delta)
		b.NewVelocity = b.Velocity.Mul(delta)
		b.Position = b.Position.Add(b.NewVelocity)
		b.Angle = math.Atan2(b.Velocity[1], b.Velocity[0])
		b.Speed = math.Sqrt(b.Velocity[0]*b.Velocity[0] + b.Velocity[1]*b.Velocity[1])

		if b.CollideWorldBounds && b.checkWorldBounds() && b.OnWorldBounds {
			b.world.emit(Event{Type: EventWorldBounds, Body1: b, Blocked: b.Blocked})
		}
	}
	b.delta = b.Position.Sub(b.Prev)
}

// postUpdate ends a frame by computing the final per-frame delta and facing.
func (b *Body) postUpdate() {
	d := b.Position.Sub(b.PrevFrame)
	if b.Moves {
		for axis := range 2 {
			if m := b.DeltaMax[axis]; m != 0 {
				d[axis] = Clamp(d[axis], -m, m)
			}
		}
	}

	if d[0] < 0 {
		b.Facing = FacingLeft
	} else if d[0] > 0 {
		b.Facing = FacingRight
	}
	if d[1] < 0 {
		b.Facing = FacingUp
	} else if d[1] > 0 {
		b.Facing = FacingDown
	}
	b.final = d
}

// checkWorldBounds clamps the body into its bounds, reflecting velocity on
// the edges it crossed. Opposite edges are exclusive within one check.
func (b *Body) checkWorldBounds() bool {
	bounds := b.world.bounds
	if b.CustomBounds != nil {
		bounds = *b.CustomBounds
	}
	check := b.world.checkCollision

	bounce := b.Bounce
	if b.WorldBounce != nil {
		bounce = *b.WorldBounce
	}
	bx, by := -bounce[0], -bounce[1]

	set := false
	if b.Position[0] < bounds.X && check.Left {
		b.Position[0] = bounds.X
		b.Velocity[0] *= bx
		b.Blocked.Left = true
		set = true
	} else if b.Right() > bounds.Right() && check.Right {
		b.Position[0] = bounds.Right() - b.shape.Width
		b.Velocity[0] *= bx
		b.Blocked.Right = true
		set = true
	}

	if b.Position[1] < bounds.Y && check.Up {
		b.Position[1] = bounds.Y
		b.Velocity[1] *= by
		b.Blocked.Up = true
		set = true
	} else if b.Bottom() > bounds.Bottom() && check.Down {
		b.Position[1] = bounds.Bottom() - b.shape.Height
		b.Velocity[1] *= by
		b.Blocked.Down = true
		set = true
	}

	if set {
		b.Blocked.None = false
	}
	return set
}
