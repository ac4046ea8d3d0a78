package game

import "math"

// Ball is a single ball's physics state. NextX/NextY are transient: they
// hold the tentative next position during one collision pass and have no
// meaning between frames.
type Ball struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
	NextX float64 `json:"-"`
	NextY float64 `json:"-"`
}

// ClosestLegalPosition places a ball at the resolving distance from a wall
// cap, along the ray from the cap through the ball's tentative position.
// This is the nearest position the ball may occupy when only the cap, not
// the wall body, is in the way.
func ClosestLegalPosition(cap, ballNext Point) Point {
	a := Angle(cap, ballNext)
	return Point{
		X: cap.X + math.Cos(a)*ClearanceRadius,
		Y: cap.Y + math.Sin(a)*ClearanceRadius,
	}
}

// RollAroundCap deflects a ball around a circular wall cap instead of
// stopping it dead. The normal component of the velocity is absorbed and
// the tangential component is redirected around the cap's circumference.
// The rule is deliberately lossy and asymmetric; it is the agreed wire
// behavior shared with the client-side predictor and must not be replaced
// with an energy-conserving bounce.
//
// On return the ball's position is untouched, but VX/VY are repurposed as
// the directional offset toward the resolved position, and NextX/NextY
// point there. The caller's final commit (x += vx) moves the ball.
func RollAroundCap(cap Point, b *Ball) {
	impactAngle := Angle(Point{X: b.X, Y: b.Y}, cap)
	heading := Angle(Point{}, Point{X: b.VX, Y: b.VY})
	impactHeadingAngle := impactAngle - heading

	velocityMagnitude := Distance(Point{}, Point{X: b.VX, Y: b.VY})
	// Tangential share of the velocity: the part that survives the impact.
	diagonal := math.Sin(impactHeadingAngle) * velocityMagnitude

	rotationAngle := math.Atan(diagonal / ClearanceRadius)

	deltaX := math.Cos(impactAngle+math.Pi-rotationAngle) * ClearanceRadius
	deltaY := math.Sin(impactAngle+math.Pi-rotationAngle) * ClearanceRadius

	b.VX = b.X - (cap.X + deltaX)
	b.VY = b.Y - (cap.Y + deltaY)
	b.NextX = b.X + b.VX
	b.NextY = b.Y + b.VY
}

// slow decays v toward zero by delta without ever crossing zero.
func slow(v, delta float64) float64 {
	if v > 0 {
		v -= delta
		if v < 0 {
			v = 0
		}
	} else if v < 0 {
		v += delta
		if v > 0 {
			v = 0
		}
	}
	return v
}

// integrateAxis advances one velocity component under tilt acceleration and
// friction for dt frame units. A zero acceleration means the device is flat
// on that axis: friction then only decays the existing velocity. Otherwise
// the velocity change is applied, hard-limited, reduced by friction in the
// direction of the change, and clamped to maxVelocity.
func integrateAxis(v, accel, friction, dt, maxVelocity float64) float64 {
	change := accel * dt
	frictionDelta := friction * dt

	if change == 0 {
		return slow(v, frictionDelta)
	}

	v += change
	if v > VelocityHardLimit {
		v = VelocityHardLimit
	} else if v < -VelocityHardLimit {
		v = -VelocityHardLimit
	}
	if change > 0 {
		v -= frictionDelta
	} else {
		v += frictionDelta
	}
	return Clamp(v, maxVelocity)
}

// stepBall advances one ball one frame: integrate velocity, compute the
// tentative next position, resolve collisions against every wall, commit.
//
// Every wall is tested unconditionally and in list order; a cap hit
// rewrites the ball's velocity and next position mid-loop, and later walls
// see the rewritten state. That sequential fold is load-bearing for
// determinism — do not early-exit or parallelize it.
func stepBall(b *Ball, walls []Wall, accelX, accelY, frictionX, frictionY, dt, maxVelocity float64) {
	b.VX = integrateAxis(b.VX, accelX, frictionX, dt, maxVelocity)
	b.VY = integrateAxis(b.VY, accelY, frictionY, dt, maxVelocity)

	b.NextX = b.X + b.VX
	b.NextY = b.Y + b.VY

	for _, w := range walls {
		collideWall(b, w)
	}

	// Body hits above already wrote the pushed-out coordinate directly, so
	// for those balls this add applies the damped rebound velocity on top
	// of the wall-surface position: the ball backs off the wall by one
	// extra damped increment each body hit. Known characteristic, kept.
	b.X += b.VX
	b.Y += b.VY
}

// collideWall tests and resolves one ball against one wall. The first
// matching case per wall wins: start cap, then end cap, then body.
func collideWall(b *Ball, w Wall) {
	if w.Horizontal {
		// Strip test: next position overlaps the wall's thickness band.
		if b.NextY <= w.Y-ClearanceRadius || b.NextY >= w.Y+ClearanceRadius {
			return
		}
		switch {
		case b.NextX > w.X-ClearanceRadius && b.NextX < w.X &&
			Distance(w.Start(), Point{X: b.NextX, Y: b.NextY}) < ClearanceRadius:
			RollAroundCap(w.Start(), b)
		case b.NextX > w.X+w.Length && b.NextX < w.X+w.Length+ClearanceRadius &&
			Distance(w.End(), Point{X: b.NextX, Y: b.NextY}) < ClearanceRadius:
			RollAroundCap(w.End(), b)
		case b.NextX >= w.X && b.NextX <= w.X+w.Length:
			if b.Y < w.Y {
				b.Y = w.Y - ClearanceRadius
			} else {
				b.Y = w.Y + ClearanceRadius
			}
			b.VY = b.VY / -6
		}
		return
	}

	if b.NextX <= w.X-ClearanceRadius || b.NextX >= w.X+ClearanceRadius {
		return
	}
	switch {
	case b.NextY > w.Y-ClearanceRadius && b.NextY < w.Y &&
		Distance(w.Start(), Point{X: b.NextX, Y: b.NextY}) < ClearanceRadius:
		RollAroundCap(w.Start(), b)
	case b.NextY > w.Y+w.Length && b.NextY < w.Y+w.Length+ClearanceRadius &&
		Distance(w.End(), Point{X: b.NextX, Y: b.NextY}) < ClearanceRadius:
		RollAroundCap(w.End(), b)
	case b.NextY >= w.Y && b.NextY <= w.Y+w.Length:
		if b.X < w.X {
			b.X = w.X - ClearanceRadius
		} else {
			b.X = w.X + ClearanceRadius
		}
		b.VX = b.VX / -6
	}
}
