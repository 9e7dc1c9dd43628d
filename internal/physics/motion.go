package physics

import "math"

// updateMotion advances a body's angular and linear velocity by delta seconds.
func (w *World) updateMotion(b *Body, delta float64) {
	if b.AllowRotation {
		computeAngularVelocity(b, delta)
	}
	w.computeVelocity(b, delta)
}

func computeAngularVelocity(b *Body, delta float64) {
	v := b.AngularVelocity
	if a := b.AngularAcceleration; a != 0 {
		v += a * delta
	} else if b.AllowDrag && b.AngularDrag != 0 {
		v = applyLinearDrag(v, b.AngularDrag*delta, 0.1)
	}
	v = Clamp(v, -b.MaxAngular, b.MaxAngular)
	b.AngularVelocity = v
	b.Rotation += v * delta
}

// computeVelocity applies gravity, acceleration and drag to the body's
// velocity, then clamps it to MaxVelocity and MaxSpeed.
func (w *World) computeVelocity(b *Body, delta float64) {
	v := b.Velocity
	speed := b.Speed

	if b.AllowGravity {
		v[0] += (w.gravity[0] + b.Gravity[0]) * delta
		v[1] += (w.gravity[1] + b.Gravity[1]) * delta
	}

	for axis := range 2 {
		if a := b.Acceleration[axis]; a != 0 {
			v[axis] += a * delta
			continue
		}
		drag := b.Drag[axis]
		if !b.AllowDrag || drag == 0 {
			continue
		}
		if b.UseDamping {
			v[axis] *= math.Pow(drag, delta)
			speed = math.Sqrt(v[0]*v[0] + v[1]*v[1])
			if fuzzyEqual(speed, 0, 0.001) {
				v[axis] = 0
			}
		} else {
			v[axis] = applyLinearDrag(v[axis], drag*delta, 0.01)
		}
	}

	v[0] = Clamp(v[0], -b.MaxVelocity[0], b.MaxVelocity[0])
	v[1] = Clamp(v[1], -b.MaxVelocity[1], b.MaxVelocity[1])
	b.Velocity = v

	if b.MaxSpeed >= 0 && v.Len() > b.MaxSpeed {
		b.Velocity = v.Normalize().Mul(b.MaxSpeed)
		speed = b.MaxSpeed
	}
	b.Speed = speed
}

// applyLinearDrag moves v toward zero by drag without crossing it.
func applyLinearDrag(v, drag, eps float64) float64 {
	switch {
	case fuzzyGreaterThan(v-drag, 0, eps):
		return v - drag
	case fuzzyLessThan(v+drag, 0, eps):
		return v + drag
	}
	return 0
}

// MoveTo sets the body's velocity toward (x, y) and returns the angle of
// travel in radians. With maxTime (milliseconds) above zero the speed is
// chosen so the target is reached in that time; otherwise speed is used in
// pixels per second. The body never stops on arrival by itself.
func (w *World) MoveTo(b *Body, x, y, speed, maxTime float64) float64 {
	angle := math.Atan2(y-b.Position[1], x-b.Position[0])
	if maxTime > 0 {
		speed = Distance(b.Position[0], b.Position[1], x, y) / (maxTime / 1000)
	}
	b.Velocity = fromPolar(angle, speed)
	return angle
}

// AccelerateTo sets the body's acceleration toward (x, y) and caps its
// velocity at (maxX, maxY). It returns the angle in radians.
func (w *World) AccelerateTo(b *Body, x, y, accel, maxX, maxY float64) float64 {
	angle := math.Atan2(y-b.Position[1], x-b.Position[0])
	b.Acceleration = fromPolar(angle, accel)
	b.MaxVelocity = Vec(maxX, maxY)
	return angle
}

// VelocityFromAngle returns a velocity of the given speed pointing at angle degrees.
func VelocityFromAngle(angle, speed float64) Vector {
	return fromPolar(angle*math.Pi/180, speed)
}

// VelocityFromRotation returns a velocity of the given speed pointing at rotation radians.
func VelocityFromRotation(rotation, speed float64) Vector {
	return fromPolar(rotation, speed)
}

func fromPolar(angle, length float64) Vector {
	return Vec(math.Cos(angle)*length, math.Sin(angle)*length)
}
