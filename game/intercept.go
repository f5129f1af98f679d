package game

import (
	"math"
)

// InterceptSolution contains the result of an intercept calculation
type InterceptSolution struct {
	Direction       Vec3    // Unit vector to fire along
	TimeToIntercept float64 // Seconds until the projectile reaches the target
	InterceptPoint  Vec3    // Where the intercept will occur
}

// InterceptDirection calculates the direction to fire a projectile to intercept a moving target.
// This is the standard intercept formula solved in three dimensions.
//
// Parameters:
//
//	shooterPos: Position of the shooter (meters)
//	targetPos: Position of the target (meters)
//	targetVel: Velocity of target relative to the shooter (m/s)
//	projSpeed: Speed of projectile (m/s)
//
// Returns:
//
//	solution: The intercept solution, or nil if no solution exists
//	ok: true if a valid intercept solution was found
func InterceptDirection(shooterPos, targetPos, targetVel Vec3, projSpeed float64) (*InterceptSolution, bool) {
	if projSpeed <= 0 {
		return nil, false
	}

	rel := targetPos.Sub(shooterPos)
	distSq := rel.Dot(rel)
	if distSq < 1e-9 {
		return &InterceptSolution{
			Direction:       Vec3{0, 0, 1},
			TimeToIntercept: 1e-6,
			InterceptPoint:  shooterPos,
		}, true
	}

	velSq := targetVel.Dot(targetVel)
	if velSq < 1e-9 {
		dir, dist := rel.Normalized()
		return &InterceptSolution{
			Direction:       dir,
			TimeToIntercept: dist / projSpeed,
			InterceptPoint:  targetPos,
		}, true
	}

	// |rel + targetVel*t| = projSpeed*t
	// a*t² + b*t + c = 0
	a := velSq - projSpeed*projSpeed
	b := 2.0 * rel.Dot(targetVel)
	c := distSq

	var t float64
	if math.Abs(a) < 1e-9 {
		if math.Abs(b) < 1e-9 {
			return nil, false
		}
		t = -c / b
		if t < 0 {
			return nil, false
		}
	} else {
		discriminant := b*b - 4*a*c
		if discriminant < 0 {
			// target is too fast to intercept
			return nil, false
		}
		sq := math.Sqrt(discriminant)
		t1 := (-b + sq) / (2 * a)
		t2 := (-b - sq) / (2 * a)
		switch {
		case t1 > 0 && t2 > 0:
			t = math.Min(t1, t2)
		case t1 > 0:
			t = t1
		case t2 > 0:
			t = t2
		default:
			return nil, false
		}
	}

	point := targetPos.Add(targetVel.Scale(t))
	dir, _ := point.Sub(shooterPos).Normalized()
	return &InterceptSolution{
		Direction:       dir,
		TimeToIntercept: t,
		InterceptPoint:  point,
	}, true
}

// LeadPoint returns the point to aim at, falling back to the target's
// current position when no intercept exists.
func LeadPoint(shooterPos, targetPos, targetVel Vec3, projSpeed float64) Vec3 {
	sol, ok := InterceptDirection(shooterPos, targetPos, targetVel, projSpeed)
	if !ok {
		return targetPos
	}
	return sol.InterceptPoint
}

// ClosestApproachTime returns the time at which two bodies moving at
// constant velocity are nearest each other. Negative results mean the
// bodies are already separating.
func ClosestApproachTime(loc1, vel1, loc2, vel2 Vec3) float64 {
	dv := vel1.Sub(vel2)
	dvSq := dv.Dot(dv)
	if dvSq < 1e-9 {
		return 0
	}
	dp := loc1.Sub(loc2)
	return -dp.Dot(dv) / dvSq
}
