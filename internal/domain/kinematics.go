package domain

import (
	"math"
	"time"
)

// Steer sets the player's acceleration from a direction vector. The caller
// is responsible for normalising diagonals.
func (p *Player) Steer(dir Vec2) {
	p.Accel = Vec2{X: dir.X * Acceleration, Y: dir.Y * Acceleration}
}

// Integrate advances velocity and position by delta and keeps the body inside
// the field. It returns the resulting speed.
func (p *Player) Integrate(delta time.Duration) float64 {
	dt := delta.Seconds()

	p.Vel.X = integrateAxis(p.Vel.X, p.Accel.X, dt)
	p.Vel.Y = integrateAxis(p.Vel.Y, p.Accel.Y, dt)

	p.Pos.X += p.Vel.X * dt
	p.Pos.Y += p.Vel.Y * dt

	p.Pos.X, p.Vel.X = bounceAxis(p.Pos.X, p.Vel.X, FieldWidth)
	p.Pos.Y, p.Vel.Y = bounceAxis(p.Pos.Y, p.Vel.Y, FieldHeight)

	return p.Vel.Len()
}

func integrateAxis(v, a, dt float64) float64 {
	if a != 0 {
		v += a * dt
	} else {
		step := Drag * dt
		switch {
		case v-step > 0:
			v -= step
		case v+step < 0:
			v += step
		default:
			v = 0
		}
	}
	return Clamp(v, -MaxSpeed, MaxSpeed)
}

func bounceAxis(pos, vel, extent float64) (float64, float64) {
	lo, hi := PlayerRadius, extent-PlayerRadius
	switch {
	case pos < lo:
		return lo, math.Abs(vel) * WallBounce
	case pos > hi:
		return hi, -math.Abs(vel) * WallBounce
	default:
		return pos, vel
	}
}
