package ai

import (
	"math"

	"github.com/lab1702/fighter-ai/game"
)

// AvoidTerrain keeps an airborne fighter between the floor and the
// ceiling of its airspace.
func (fa *FighterAI) AvoidTerrain() Steer {
	s := fa.ship
	fa.terrainWarning = false

	if s.Region == nil || !s.Region.Active ||
		(fa.navpt != nil && fa.navpt.Action == game.ActionLaunch) {
		return Steer{}
	}
	if !s.IsAirborne() || s.Phase != game.PhaseActive {
		return Steer{}
	}

	t := fa.tuning
	switch {
	case s.AltitudeMSL() > t.MaxAltitudeMSL:
		if fa.navpt != nil && !(fa.navpt.Region == s.Region && fa.navpt.Location.Y < t.NavptCeilingMSL) {
			return Steer{}
		}
		fa.terrainWarning = true
		s.SetDirectorInfo(InfoTooHigh)

		// head down
		p := s.Loc.Add(s.Vel).Add(game.Vec3{Y: -15e3})
		return fa.Seek(fa.Transform(p))

	case s.AltitudeAGL() < t.MinAltitudeAGL:
		fa.terrainWarning = true
		s.SetDirectorInfo(InfoTooLow)

		if s.AltitudeAGL() < t.FloorAltitudeAGL {
			fa.target = game.NoObject
			fa.dropTime = 5
		}

		// pull up
		p := s.Loc.Add(s.Vel).Add(game.Vec3{Y: 10e3})
		return fa.Seek(fa.Transform(p))
	}
	return Steer{}
}

// AvoidCollision steers around the starship we are most likely to hit
// within the lookahead time, starting with the one already being avoided.
func (fa *FighterAI) AvoidCollision() Steer {
	s := fa.ship
	var avoid Steer

	if s.Region == nil || !s.Region.Active {
		return avoid
	}

	if fa.other != game.NoObject {
		if o := fa.world.Ship(fa.other); o == nil || o.Integrity < 1 {
			fa.other = game.NoObject
			fa.lastAvoidTime = 0 // look for a new obstacle now
		}
	}

	if fa.other == game.NoObject && fa.now()-fa.lastAvoidTime < fa.tuning.AvoidInterval {
		return avoid
	}

	fa.brake = 0

	avoidDist := game.Clamp(5*s.Radius(), 1e3, 12e3)

	avoidTime := fa.tuning.AvoidTime
	if s.Design != nil && s.Design.AvoidTime > 0 {
		avoidTime = s.Design.AvoidTime
	} else if s.IsStarship() {
		avoidTime *= 1.5
	}

	bearing, _ := s.Vel.Normalized()

	found := false
	if o := fa.world.Ship(fa.other); o != nil {
		found = fa.avoidTestSingleObject(o, bearing, avoidDist, &avoidTime, &avoid)
	}

	if !found {
		for _, c := range fa.world.Contacts(s, 25e3) {
			if !c.IsStarship() {
				continue
			}
			if found = fa.avoidTestSingleObject(c, bearing, avoidDist, &avoidTime, &avoid); found {
				break
			}
		}

		if o := fa.world.Ship(fa.other); o != nil && !found {
			avoid = fa.Avoid(fa.obstacle, s.Radius()+o.Radius()+avoidDist*0.9)
			avoid.Brake = fa.brake
			s.SetDirectorInfo(InfoAvoidCollision)
		}
	}

	fa.lastAvoidTime = fa.now()
	return avoid
}

// avoidTestSingleObject checks one obstacle. It returns true with avoid
// set when the obstacle is so close that nothing else matters; otherwise
// it may record the obstacle as the one to steer around.
func (fa *FighterAI) avoidTestSingleObject(obj *game.Ship, bearing game.Vec3, avoidDist float64, avoidTime *float64, avoid *Steer) bool {
	s := fa.ship
	release := func() {
		if fa.other == obj.ID {
			fa.other = game.NoObject
		}
	}

	if fa.tooClose == obj.ID {
		dist := game.Distance(s.Loc, obj.Loc)
		closure := s.Vel.Sub(obj.Vel).Dot(bearing)

		if closure > 1 && dist < avoidDist {
			*avoid = fa.avoidCloseObject(obj)
			return true
		}
		fa.tooClose = game.NoObject
	}

	t := game.ClosestApproachTime(s.Loc, s.Vel, obj.Loc, obj.Vel)
	if t <= 0 {
		// already past it
		release()
		return false
	}

	curDist := game.Distance(s.Loc, obj.Loc) - s.Radius() - obj.Radius()
	if curDist > 25e3 {
		release()
		return false
	}

	// flying through a farcaster on a safe vector
	if obj.Farcaster != nil {
		dir, _ := s.Vel.Normalized()
		angleOff := math.Abs(math.Acos(game.Clamp(dir.Dot(obj.Cam.Forward), -1, 1)))
		if angleOff > 90*degree {
			angleOff = 180*degree - angleOff
		}

		if angleOff < 35*degree {
			d := s.Loc.Add(dir.Scale(curDist + s.Radius() + obj.Radius()))
			if game.Distance(obj.Loc, d) < 0.667*obj.Radius() {
				return false
			}
		}
	}

	closing := s.Vel.Sub(obj.Vel).Dot(bearing)

	if curDist < avoidDist*0.35 && (closing > 1 || curDist < s.Radius()) {
		*avoid = fa.avoidCloseObject(obj)
		return true
	}

	// too far off to worry about
	if (curDist-(avoidDist+obj.Radius()))/closing > *avoidTime {
		release()
		return false
	}

	selfPt := s.Loc.Add(s.Vel.Scale(t))
	testPt := obj.Loc.Add(obj.Vel.Scale(t))
	dist := game.Distance(selfPt, testPt) - s.Radius() - obj.Radius()

	if dist < avoidDist {
		if dist < avoidDist*0.25 && t < *avoidTime*0.5 {
			*avoid = fa.avoidCloseObject(obj)
			return true
		}

		fa.obstacle = fa.Transform(testPt)
		if fa.obstacle.Z > 0 {
			fa.other = obj.ID
			*avoidTime = t
			fa.brake = 0.5
		}
	} else if fa.other == obj.ID && dist > avoidDist*1.25 {
		fa.other = game.NoObject
	}
	return false
}

func (fa *FighterAI) avoidCloseObject(obj *game.Ship) Steer {
	fa.tooClose = obj.ID
	fa.obstacle = fa.Transform(obj.Loc)
	fa.other = obj.ID

	avoid := fa.Flee(fa.obstacle)
	avoid.Brake = 0.3

	fa.ship.SetDirectorInfo(InfoAvoidCollision)
	return avoid
}
