package physics

import "math"

const (
	axisX = 0
	axisY = 1
)

// overlapAxis measures how far b1 penetrates b2 along axis, judged from the
// side their relative motion in the last step came from. It sets the
// touching, blocked, embedded and overlap fields of both bodies. Overlaps
// deeper than the combined step movement plus the world's overlap bias are
// ignored unless overlapOnly is set.
func (w *World) overlapAxis(b1, b2 *Body, axis int, overlapOnly bool) float64 {
	d1, d2 := b1.delta[axis], b2.delta[axis]
	maxOverlap := math.Abs(d1) + math.Abs(d2) + w.overlapBias

	var overlap float64
	switch {
	case d1 == 0 && d2 == 0:
		b1.Embedded = true
		b2.Embedded = true
	case d1 > d2:
		overlap = b1.end(axis) - b2.Position[axis]
		if (overlap > maxOverlap && !overlapOnly) || !b1.CheckCollision.high(axis) || !b2.CheckCollision.low(axis) {
			overlap = 0
			break
		}
		b1.Touching.setHigh(axis)
		b2.Touching.setLow(axis)
		if b2.kind == TypeStatic && !overlapOnly {
			b1.Blocked.setHigh(axis)
		}
		if b1.kind == TypeStatic && !overlapOnly {
			b2.Blocked.setLow(axis)
		}
	case d1 < d2:
		overlap = b1.Position[axis] - b2.size(axis) - b2.Position[axis]
		if (-overlap > maxOverlap && !overlapOnly) || !b1.CheckCollision.low(axis) || !b2.CheckCollision.high(axis) {
			overlap = 0
			break
		}
		b1.Touching.setLow(axis)
		b2.Touching.setHigh(axis)
		if b2.kind == TypeStatic && !overlapOnly {
			b1.Blocked.setLow(axis)
		}
		if b1.kind == TypeStatic && !overlapOnly {
			b2.Blocked.setHigh(axis)
		}
	}

	b1.setOverlap(axis, overlap)
	b2.setOverlap(axis, overlap)
	return overlap
}

// separateAxis resolves the overlap of b1 and b2 along one axis and reports
// whether the bodies were touching on it.
func (w *World) separateAxis(b1, b2 *Body, axis int, overlapOnly bool) bool {
	overlap := w.overlapAxis(b1, b2, axis, overlapOnly)
	custom := b1.customSeparate(axis) || b2.customSeparate(axis)

	if overlapOnly || overlap == 0 || (b1.Immovable && b2.Immovable) || custom {
		return overlap != 0 || (b1.Embedded && b2.Embedded)
	}

	p := newAxisProcess(b1, b2, axis, overlap)
	blocked := p.blockCheck()

	switch {
	case !b1.Immovable && !b2.Immovable:
		if blocked > 0 {
			return true
		}
		return p.check()
	case b1.Immovable:
		p.runImmovable1(blocked)
	default:
		p.runImmovable2(blocked)
	}
	return true
}

// axisProcess holds the per-pair state of one axis separation. "Low" is the
// left side on the X axis and the top side on the Y axis.
type axisProcess struct {
	axis    int
	b1, b2  *Body
	overlap float64

	b1Low, b1High, b1Still bool // direction of b1's movement in the last step
	b2Low, b2High, b2Still bool
	b1First                bool // b1 lies on the low side of b2

	fullImpact1, fullImpact2 float64
	massImpact1, massImpact2 float64
}

func newAxisProcess(b1, b2 *Body, axis int, overlap float64) *axisProcess {
	v1, v2 := b1.Velocity[axis], b2.Velocity[axis]
	d1, d2 := b1.delta[axis], b2.delta[axis]
	return &axisProcess{
		axis:        axis,
		b1:          b1,
		b2:          b2,
		overlap:     math.Abs(overlap),
		b1Low:       d1 < 0,
		b1High:      d1 > 0,
		b1Still:     d1 == 0,
		b2Low:       d2 < 0,
		b2High:      d2 > 0,
		b2Still:     d2 == 0,
		b1First:     math.Abs(b1.end(axis)-b2.Position[axis]) <= math.Abs(b2.end(axis)-b1.Position[axis]),
		fullImpact1: v2 - v1*b1.Bounce[axis],
		fullImpact2: v1 - v2*b2.Bounce[axis],
	}
}

// blockCheck handles a body pushed into one that is already blocked on the
// far side. It returns 1 or 2 for the body it moved, 0 otherwise.
func (p *axisProcess) blockCheck() int {
	a := p.axis
	b1, b2 := p.b1, p.b2
	switch {
	case p.b1High && p.b1First && b2.Blocked.high(a):
		b1.push(a, -p.overlap, p.fullImpact1, false, true)
		return 1
	case p.b1Low && !p.b1First && b2.Blocked.low(a):
		b1.push(a, p.overlap, p.fullImpact1, true, false)
		return 1
	case p.b2High && !p.b1First && b1.Blocked.high(a):
		b2.push(a, -p.overlap, p.fullImpact2, false, true)
		return 2
	case p.b2Low && p.b1First && b1.Blocked.low(a):
		b2.push(a, p.overlap, p.fullImpact2, true, false)
		return 2
	}
	return 0
}

// Contact sides for run.
const (
	sideB1HitsFromHigh = iota // b1 moving low, b2 on the low side
	sideB2HitsFromHigh        // b2 moving low, b1 on the low side
	sideB1HitsFromLow         // b1 moving high, b1 on the low side
	sideB2HitsFromLow         // b2 moving high, b2 on the low side
)

// check exchanges momentum between two movable bodies through mass-weighted
// velocities and separates them by the side they met on.
func (p *axisProcess) check() bool {
	a := p.axis
	b1, b2 := p.b1, p.b2
	v1, v2 := b1.Velocity[a], b2.Velocity[a]
	m1, m2 := effectiveMass(b1), effectiveMass(b2)

	nv1 := math.Sqrt(v2*v2*m2/m1) * sign(v2)
	nv2 := math.Sqrt(v1*v1*m1/m2) * sign(v1)
	avg := (nv1 + nv2) * 0.5
	nv1 -= avg
	nv2 -= avg
	p.massImpact1 = avg + nv1*b1.Bounce[a]
	p.massImpact2 = avg + nv2*b2.Bounce[a]

	switch {
	case p.b1Low && !p.b1First:
		return p.run(sideB1HitsFromHigh)
	case p.b2Low && p.b1First:
		return p.run(sideB2HitsFromHigh)
	case p.b1High && p.b1First:
		return p.run(sideB1HitsFromLow)
	case p.b2High && !p.b1First:
		return p.run(sideB2HitsFromLow)
	}
	return false
}

func (p *axisProcess) run(side int) bool {
	a := p.axis
	b1, b2 := p.b1, p.b2
	ov := p.overlap
	// b1 is on the high side of b2 for these two
	b1OnHighSide := side == sideB1HitsFromHigh || side == sideB2HitsFromLow

	switch {
	case b1.Pushable && b2.Pushable:
		half := ov * 0.5
		if b1OnHighSide {
			b1.push(a, half, p.massImpact1, false, false)
			b2.push(a, -half, p.massImpact2, false, false)
		} else {
			b1.push(a, -half, p.massImpact1, false, false)
			b2.push(a, half, p.massImpact2, false, false)
		}
	case b1.Pushable:
		if b1OnHighSide {
			b1.push(a, ov, p.fullImpact1, true, false)
		} else {
			b1.push(a, -ov, p.fullImpact1, false, true)
		}
	case b2.Pushable:
		if b1OnHighSide {
			b2.push(a, -ov, p.fullImpact2, false, true)
		} else {
			b2.push(a, ov, p.fullImpact2, true, false)
		}
	default:
		p.runUnpushable(side)
	}
	return true
}

// runUnpushable splits the overlap between two unpushable bodies by how
// they were moving.
func (p *axisProcess) runUnpushable(side int) {
	a := p.axis
	b1, b2 := p.b1, p.b2
	ov := p.overlap
	half := ov * 0.5

	switch side {
	case sideB1HitsFromHigh:
		switch {
		case p.b2Still:
			b1.push(a, ov, 0, true, false)
			b2.nudge(a, 0, false, true)
		case p.b2High:
			b1.push(a, half, 0, true, false)
			b2.push(a, -half, 0, false, true)
		default:
			b1.push(a, half, b2.Velocity[a], true, false)
			b2.nudge(a, -half, false, true)
		}
	case sideB2HitsFromHigh:
		switch {
		case p.b1Still:
			b1.nudge(a, 0, false, true)
			b2.push(a, ov, 0, true, false)
		case p.b1High:
			b1.push(a, -half, 0, false, true)
			b2.push(a, half, 0, true, false)
		default:
			b1.nudge(a, -half, false, true)
			b2.push(a, half, b1.Velocity[a], true, false)
		}
	case sideB1HitsFromLow:
		switch {
		case p.b2Still:
			b1.push(a, -ov, 0, false, true)
			b2.nudge(a, 0, true, false)
		case p.b2Low:
			b1.push(a, -half, 0, false, true)
			b2.push(a, half, 0, true, false)
		default:
			b1.push(a, -half, b2.Velocity[a], false, true)
			b2.nudge(a, half, true, false)
		}
	case sideB2HitsFromLow:
		switch {
		case p.b1Still:
			b1.nudge(a, 0, true, false)
			b2.push(a, -ov, 0, false, true)
		case p.b1Low:
			b1.push(a, half, 0, true, false)
			b2.push(a, -half, 0, false, true)
		default:
			b1.nudge(a, half, true, false)
			b2.push(a, -half, b1.Velocity[a], false, true)
		}
	}
}

// runImmovable1 moves b2 out of the immovable b1 and carries it along when b1 moves.
func (p *axisProcess) runImmovable1(blocked int) {
	a := p.axis
	b1, b2 := p.b1, p.b2
	switch {
	case blocked == 1:
		// b2 cannot move either; separation already happened in blockCheck.
		b2.Velocity[a] = 0
	case p.b1First:
		b2.push(a, p.overlap, p.fullImpact2, true, false)
	default:
		b2.push(a, -p.overlap, p.fullImpact2, false, true)
	}
	if b1.Moves {
		carry(b1, b2, 1-a)
	}
}

// runImmovable2 moves b1 out of the immovable b2 and carries it along when b2 moves.
func (p *axisProcess) runImmovable2(blocked int) {
	a := p.axis
	b1, b2 := p.b1, p.b2
	switch {
	case blocked == 2:
		b1.Velocity[a] = 0
	case !p.b1First:
		b1.push(a, p.overlap, p.fullImpact1, true, false)
	default:
		b1.push(a, -p.overlap, p.fullImpact1, false, true)
	}
	if b2.Moves {
		carry(b2, b1, 1-a)
	}
}

// carry moves rider along axis by the platform's movement in the last step,
// scaled by the platform's friction.
func carry(platform, rider *Body, axis int) {
	rider.Position[axis] += (platform.Position[axis] - platform.Prev[axis]) * platform.Friction[axis]
	rider.delta[axis] = rider.Position[axis] - rider.Prev[axis]
}

// push moves the body by d along axis, sets its velocity on that axis to v
// and marks the given sides blocked.
func (b *Body) push(axis int, d, v float64, low, high bool) {
	b.Velocity[axis] = v
	b.nudge(axis, d, low, high)
}

// nudge is push without touching the velocity.
func (b *Body) nudge(axis int, d float64, low, high bool) {
	b.Position[axis] += d
	if low {
		b.Blocked.setLow(axis)
	}
	if high {
		b.Blocked.setHigh(axis)
	}
}

func effectiveMass(b *Body) float64 {
	if b.Mass <= 0 {
		return minMass
	}
	return b.Mass
}

const minMass = 0.1

func sign(v float64) float64 {
	if v > 0 {
		return 1
	}
	return -1
}
