package physics

// ID identifies a body within its world. IDs are allocated in creation order.
type ID uint64

// PhysicsType distinguishes dynamic bodies from static ones.
type PhysicsType uint8

const (
	TypeDynamic PhysicsType = iota
	TypeStatic
)

func (t PhysicsType) String() string {
	if t == TypeStatic {
		return "static"
	}
	return "dynamic"
}

// ShapeKind is the collision shape of a body.
type ShapeKind uint8

const (
	ShapeBox ShapeKind = iota
	ShapeCircle
)

func (k ShapeKind) String() string {
	if k == ShapeCircle {
		return "circle"
	}
	return "box"
}

// Shape describes the extent of a body. Boxes use Width and Height; circles
// set Radius and report a square extent of twice the radius.
type Shape struct {
	Kind          ShapeKind
	Width, Height float64
	Radius        float64
}

// Box returns a rectangular shape.
func Box(width, height float64) Shape {
	return Shape{Kind: ShapeBox, Width: width, Height: height}
}

// Circle returns a circular shape. A non-positive radius yields an empty box.
func Circle(radius float64) Shape {
	if radius <= 0 {
		return Shape{Kind: ShapeBox}
	}
	return Shape{Kind: ShapeCircle, Width: 2 * radius, Height: 2 * radius, Radius: radius}
}

// HalfWidth returns half the horizontal extent.
func (s Shape) HalfWidth() float64 { return s.Width / 2 }

// HalfHeight returns half the vertical extent.
func (s Shape) HalfHeight() float64 { return s.Height / 2 }

// Empty reports whether the shape has no area and can never collide.
func (s Shape) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Directions is a set of boolean flags for each side of a body. None is true
// when no side flag is set.
type Directions struct {
	None  bool
	Up    bool
	Down  bool
	Left  bool
	Right bool
}

// AllDirections has every side set.
var AllDirections = Directions{Up: true, Down: true, Left: true, Right: true}

// NoDirections has no side set.
var NoDirections = Directions{None: true}

// low returns the flag for the side with the smaller coordinate on axis.
func (d *Directions) low(axis int) bool {
	if axis == 0 {
		return d.Left
	}
	return d.Up
}

// high returns the flag for the side with the larger coordinate on axis.
func (d *Directions) high(axis int) bool {
	if axis == 0 {
		return d.Right
	}
	return d.Down
}

func (d *Directions) setLow(axis int) {
	d.None = false
	if axis == 0 {
		d.Left = true
	} else {
		d.Up = true
	}
}

func (d *Directions) setHigh(axis int) {
	d.None = false
	if axis == 0 {
		d.Right = true
	} else {
		d.Down = true
	}
}

// Facing is the direction a body last moved in.
type Facing uint8

const (
	FacingNone Facing = iota
	FacingUp
	FacingDown
	FacingLeft
	FacingRight
)

func (f Facing) String() string {
	switch f {
	case FacingUp:
		return "up"
	case FacingDown:
		return "down"
	case FacingLeft:
		return "left"
	case FacingRight:
		return "right"
	}
	return "none"
}
