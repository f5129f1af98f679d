package ai

import (
	"github.com/lab1702/fighter-ai/game"
)

// beamPoints returns the two points length either side of p, across vel
// in the horizontal plane. A vertical or zero vel gives no beam line and
// both points collapse onto p.
func beamPoints(p, vel game.Vec3, length float64) (game.Vec3, game.Vec3) {
	beam, n := vel.Cross(game.Vec3{Y: 1}).Normalized()
	if n == 0 {
		return p, p
	}
	beam = beam.Scale(length)
	return p.Add(beam), p.Sub(beam)
}

// fartherOf picks whichever of a and b is farther from loc.
func fartherOf(loc, a, b game.Vec3) game.Vec3 {
	if game.Distance(a, loc) > game.Distance(b, loc) {
		return a
	}
	return b
}

// EvadeThreat reacts to an inbound missile or a nearby hostile. Missiles
// are beamed after a decoy; ships are beamed, fled or jinked depending on
// what they are and whether we are still attacking something.
func (fa *FighterAI) EvadeThreat() Steer {
	s := fa.ship

	if fa.threatMissile != game.NoObject {
		if m := fa.world.Shot(fa.threatMissile); m != nil {
			return fa.evadeMissile(m)
		}
		fa.threatMissile = game.NoObject
	}

	threat := fa.world.Ship(fa.threat)
	if threat == nil || fa.formUp {
		return Steer{}
	}

	threatRange := fa.tuning.ThreatRange
	threatDist := game.Distance(threat.Loc, s.Loc)
	if threat.IsStarship() {
		threatRange = fa.CalcDefensePerimeter(threat)
	}
	if threatDist > threatRange {
		return Steer{}
	}

	s.SetDirectorInfo(InfoEvadeThreat)
	fa.evading = true

	switch {
	case s.IsAirborne():
		p, _ := beamPoints(threat.Loc, threat.Vel, threatRange)
		return fa.Seek(fa.Transform(p))

	case threat.IsStarship():
		return fa.evadeStarship(threat, threatDist, threatRange)
	}
	return fa.evadeFighter(threat, threatDist, threatRange)
}

func (fa *FighterAI) evadeMissile(m *game.Shot) Steer {
	s := fa.ship
	fa.evading = true
	fa.SetTarget(game.NoObject)
	fa.dropTime = 3 * fa.skillFactor()

	// one decoy per missile
	if fa.decoyMissile != fa.threatMissile {
		s.FireDecoy()
		fa.decoyMissile = fa.threatMissile
	}

	s.SetDirectorInfo(InfoEvadeMissile)
	w1, w2 := beamPoints(m.Loc, m.Vel, 1e6)
	return fa.Seek(fa.Transform(fartherOf(s.Loc, w1, w2)))
}

// evadeStarship runs from a capital ship's guns. Without a target we flee
// three seconds in four and jink the fourth; with one we press the attack
// and jink about it the fourth second.
func (fa *FighterAI) evadeStarship(threat *game.Ship, threatDist, threatRange float64) Steer {
	s := fa.ship
	now := fa.now()

	if fa.target == threat.ID && threatDist < threatRange/4 {
		fa.SetTarget(game.NoObject)
		fa.dropTime = 5
	}

	target := fa.world.Ship(fa.target)
	if target == nil {
		s.SetDirectorInfo(InfoEvadeStarship)

		if s.MissionClock&3 != 3 {
			return fa.Flee(fa.Transform(threat.Loc))
		}
		if now-fa.jinkTime > fa.tuning.JinkRateStarship {
			fa.jinkTime = now
			fa.jink = randomJink(fa.rng, 15e3)
		}
		return fa.Seek(fa.Transform(s.Loc.Add(fa.jink)))
	}

	s.SetDirectorInfo(InfoEvadeAndSeek)
	if s.MissionClock&3 < 3 {
		return Steer{}
	}
	if now-fa.jinkTime > fa.tuning.JinkRateEngaged {
		fa.jinkTime = now
		fa.jink = randomJink(fa.rng, 1)
	}
	return fa.Seek(fa.Transform(target.Loc.Add(fa.jink)))
}

// evadeFighter beams a fighter threat, jinking unless we are attacking
// something, in which case only a quarter of the evasion is applied.
func (fa *FighterAI) evadeFighter(threat *game.Ship, threatDist, threatRange float64) Steer {
	s := fa.ship

	if fa.target != game.NoObject {
		if fa.target == threat.ID {
			// break off a target that is shooting back
			if threat.Helm.FirePrimary {
				fa.SetTarget(game.NoObject)
				fa.dropTime = 3
			}
		} else if threatDist < threatRange/2 {
			fa.SetTarget(game.NoObject)
			fa.dropTime = 3
		}
	}

	if fa.target != game.NoObject {
		s.SetDirectorInfo(InfoEvadeAndSeek)
	} else {
		s.SetDirectorInfo(InfoRandomEvade)
	}

	w1, w2 := beamPoints(threat.Loc, threat.Vel, 1e6)
	p := fa.Transform(fartherOf(s.Loc, w1, w2))

	if fa.target == game.NoObject {
		rate := fa.tuning.JinkRateBase + fa.tuning.JinkRatePerSkill*int64(fa.skillFactor())
		if now := fa.now(); now-fa.jinkTime > rate {
			fa.jinkTime = now
			fa.jink = randomJink(fa.rng, 2000)
		}
		p = p.Add(fa.jink)
	}

	st := fa.Seek(p)
	if fa.target != game.NoObject {
		return st.Div(4)
	}
	return st
}

// CalcDefensePerimeter is the range at which a starship's weapons can
// reach us, and at least the default perimeter.
func (fa *FighterAI) CalcDefensePerimeter(starship *game.Ship) float64 {
	perimeter := fa.tuning.DefensePerimeter
	if starship == nil {
		return perimeter
	}

	for _, g := range starship.Groups {
		for _, w := range g.Weapons {
			if !w.HasAmmo() || w.Target != fa.ship.ID || w.BlockedFriendly {
				continue
			}
			if r := w.MaxRange() * fa.tuning.DefenseScale; r > perimeter {
				perimeter = r
			}
		}
	}
	return perimeter
}
