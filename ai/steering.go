package ai

import (
	"math"

	"github.com/lab1702/fighter-ai/game"
)

// shiftSeekMemory ages the azimuth and elevation samples by one call.
func (fa *FighterAI) shiftSeekMemory() {
	fa.az[2], fa.az[1] = fa.az[1], fa.az[0]
	fa.el[2], fa.el[1] = fa.el[1], fa.el[0]
}

// Seek steers toward a point given in camera coordinates with a
// proportional law damped by the two previous samples.
func (fa *FighterAI) Seek(p game.Vec3) Steer {
	var s Steer
	gain, damp := fa.tuning.SeekGain, fa.tuning.SeekDamp
	airborne := fa.ship.IsAirborne()

	fa.shiftSeekMemory()

	if p.Z > 0 {
		fa.az[0] = math.Atan2(math.Abs(p.X), p.Z) * gain
		fa.el[0] = math.Atan2(math.Abs(p.Y), p.Z) * gain
		if p.X < 0 {
			fa.az[0] = -fa.az[0]
		}
		if p.Y > 0 {
			fa.el[0] = -fa.el[0]
		}

		s.Yaw = fa.az[0] - damp*(fa.az[1]+fa.az[2]*0.5)
		s.Pitch = fa.el[0] - damp*(fa.el[1]+fa.el[2]*0.5)

		// pull up
		if airborne && p.Y > fa.tuning.ClimbOverride {
			s.Pitch = -1
		}
	} else if airborne {
		switch {
		case p.Y > fa.tuning.ClimbOverride:
			s.Pitch = -1
		case p.Y < -fa.tuning.ClimbOverride:
			s.Pitch = 1
		default:
			s.Yaw = turnToward(p.X)
			s.Brake = 0.5
		}
	} else {
		s.Yaw = turnToward(p.X)
	}

	fa.seeking = true
	return s
}

func turnToward(x float64) float64 {
	if x > 0 {
		return 1
	}
	return -1
}

// SeekFormationSlot keeps a wingman on its slot off the element lead.
// A close, stopped lead puts the wingman into station keeping.
func (fa *FighterAI) SeekFormationSlot() Steer {
	var s Steer
	ship := fa.ship
	damp := fa.tuning.SeekDamp

	fa.shiftSeekMemory()

	lead := fa.elementLead()
	if lead != nil && lead.Region != ship.Region {
		q := ship.QDrive
		if !q.Operational() {
			fa.findObjectiveFarcaster(ship.Region, lead.Region)
		} else if q.Ready() {
			q.SetDestination(lead.Region, lead.Loc)
			q.Engage()
		}
	}

	if lead != nil && fa.distance < ship.Radius()*10 && lead.Speed() < StopSpeed {
		fa.distance = -1
		return s
	}

	obj := fa.objective
	if obj.Z > ship.Radius()*-4 {
		gain := fa.tuning.FormationGain
		fa.az[0] = math.Atan2(math.Abs(obj.X), obj.Z) * gain
		fa.el[0] = math.Atan2(math.Abs(obj.Y), obj.Z) * gain
		if obj.X < 0 {
			fa.az[0] = -fa.az[0]
		}
		if obj.Y > 0 {
			fa.el[0] = -fa.el[0]
		}

		s.Yaw = fa.az[0] - damp*(fa.az[1]+fa.az[2]*0.5)
		s.Pitch = fa.el[0] - damp*(fa.el[1]+fa.el[2]*0.5)
	} else {
		s.Yaw = turnToward(obj.X)
		s.Pitch = -obj.Y * 0.5
	}

	fa.seeking = true
	ship.SetDirectorInfo(InfoFormation)
	return s
}

// Flee turns away from a point in camera coordinates.
func (fa *FighterAI) Flee(p game.Vec3) Steer {
	var s Steer
	p, _ = p.Normalized()

	if p.Z > 0 {
		s.Yaw = -turnToward(p.X)
	} else {
		s.Yaw = -p.X
		s.Pitch = p.Y
	}
	return s
}

// Avoid steers around an obstacle at p with the given clearance radius,
// choosing the shorter of the lateral and vertical detours.
func (fa *FighterAI) Avoid(p game.Vec3, radius float64) Steer {
	var s Steer
	if p.Z <= 0 {
		return s
	}

	gain := fa.tuning.SeekGain
	ax := radius - math.Abs(p.X)
	ay := radius - math.Abs(p.Y)

	if ax < ay {
		s.Yaw = math.Atan2(ax, p.Z) * gain
		if p.X > 0 {
			s.Yaw = -s.Yaw
		}
	} else {
		s.Pitch = math.Atan2(ay, p.Z) * gain
		if p.Y < 0 {
			s.Pitch = -s.Pitch
		}
	}
	return s
}

// accumulate adds a steering contribution until the total turn demand
// saturates. An overflowing contribution is scaled to fit, and so is the
// latest seek sample it came from. It reports whether the demand overflowed.
func (fa *FighterAI) accumulate(st Steer) bool {
	mag := st.Magnitude()

	if fa.magnitude+mag > 1 {
		scale := (1 - fa.magnitude) / mag
		fa.accumulator.Accumulate(st.Scale(scale))
		fa.magnitude = 1

		if fa.seeking {
			fa.az[0] *= scale
			fa.el[0] *= scale
			fa.seeking = false
		}
		return true
	}

	fa.accumulator.Accumulate(st)
	fa.magnitude += mag
	return false
}

func (fa *FighterAI) clearAccumulator() {
	fa.accumulator.Clear()
	fa.magnitude = 0
}
