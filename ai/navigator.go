package ai

import (
	"math"

	"go.uber.org/zap"

	"github.com/lab1702/fighter-ai/game"
)

// Navigator composes this tick's steering and drives the helm, throttle,
// weapons and shields from it.
func (fa *FighterAI) Navigator() {
	s := fa.ship
	fa.goManual = false

	if fa.takeoff {
		fa.clearAccumulator()
		fa.brakes = 0
		fa.zShift = 0

		fa.accumulate(fa.SeekTarget())
		fa.HelmControl()
		fa.ThrottleControl()
		return
	}

	if fa.checkOrbitTransition() {
		return
	}

	fa.handleRecoveryNavPoint()

	if fa.target != game.NoObject {
		s.SetDirectorInfo(InfoSeekTarget)
	}

	fa.clearAccumulator()
	fa.brakes = 0
	fa.zShift = 0

	fa.hold = (s.Element != nil && s.Element.HoldTime > 0) ||
		(fa.navpt != nil && fa.navpt.Status == game.StatusComplete && fa.navpt.HoldTime > 0)

	switch {
	case s.MissionClock < LaunchClearTime:
		if s.IsAirborne() {
			fa.accumulate(fa.SeekTarget())
		}

	case (fa.ActiveFarcaster() != nil && fa.distance < FarcasterSeekRange) ||
		(fa.inbound != nil && fa.inbound.Final()):
		fa.accumulate(fa.SeekTarget())

	default:
		if !s.IsAirborne() || s.AltitudeAGL() > 100 {
			s.RaiseGear()
		}

		fa.accumulate(fa.AvoidTerrain())

		// the carrier is not an obstacle once we are cleared to land on it
		avoid := fa.AvoidCollision()
		if !fa.landingOn(fa.other) {
			fa.accumulate(avoid)
		}

		if fa.tooClose == game.NoObject && !fa.hold && !fa.terrainWarning {
			fa.accumulate(fa.SeekTarget())
			fa.accumulate(fa.EvadeThreat())
		}
	}

	fa.HelmControl()
	fa.ThrottleControl()
	fa.FireControl()
	fa.AdjustDefenses()
}

// landingOn reports whether id is the carrier we are cleared to land on.
func (fa *FighterAI) landingOn(id game.ObjectID) bool {
	in := fa.inbound
	if id == game.NoObject || in == nil || in.Deck == nil || !in.Cleared() {
		return false
	}
	return in.Deck.Carrier != nil && in.Deck.Carrier.ID == id
}

// checkOrbitTransition requests a drop or climb between airspace and
// orbit. Wingmen follow the lead; the lead follows its own objective. It
// reports whether a transition was requested.
func (fa *FighterAI) checkOrbitTransition() bool {
	s := fa.ship
	if s.Element == nil {
		return false
	}

	lead := fa.elementLead()
	if lead != nil && lead != s {
		switch {
		case lead.Dropping && !s.Dropping:
			fa.result.Action = ActionDropOrbit
		case lead.Attaining && !s.Attaining:
			fa.result.Action = ActionMakeOrbit
		}
	} else {
		switch {
		case fa.dropState < 0:
			fa.result.Action = ActionDropOrbit
		case fa.dropState > 0:
			fa.result.Action = ActionMakeOrbit
		}
	}
	return fa.result.Action != ActionNone
}

// handleRecoveryNavPoint calls the element inbound once it nears an RTB
// or dock navpoint.
func (fa *FighterAI) handleRecoveryNavPoint() {
	s := fa.ship
	n := fa.navpt
	if fa.rtbCode != 1 || n == nil || n.Status >= game.StatusSkipped ||
		fa.inbound != nil || fa.distance >= fa.tuning.InboundRange {
		return
	}

	isLead := fa.elementIndex == 1
	wing := fa.elementShips()

	switch n.Action {
	case game.ActionRTB:
		controller := fa.world.Ship(s.Controller)
		if controller != nil && controller.Hangar.CanStow(s.Class) {
			for _, w := range wing {
				if w.Director != nil && fa.radio != nil {
					fa.radio.SendQuickMessage(w, game.RadioCallInbound)
				}
			}
			if isLead {
				s.SetNavptStatus(n, game.StatusComplete)
			}
		} else if isLead {
			logger.Warn("rtb navpoint without a hangar", zap.String("ship", s.Name))
			s.SetNavptStatus(n, game.StatusSkipped)
		}

	case game.ActionDock:
		dock := fa.world.Ship(n.Target)
		if dock != nil {
			for _, w := range wing {
				if fa.radio != nil {
					fa.radio.Transmit(game.RadioMessage{
						From:     w.ID,
						To:       dock.ID,
						Action:   game.RadioCallInbound,
						Location: w.Loc,
					})
				}
			}
			if isLead {
				s.SetNavptStatus(n, game.StatusComplete)
			}
		} else if isLead {
			logger.Warn("dock navpoint without a dock target", zap.String("ship", s.Name))
			s.SetNavptStatus(n, game.StatusSkipped)
		}
	}
}

// elementShips lists the live ships of our element, or just us.
func (fa *FighterAI) elementShips() []*game.Ship {
	e := fa.ship.Element
	if e == nil {
		return []*game.Ship{fa.ship}
	}
	out := make([]*game.Ship, 0, len(e.Ships))
	for _, id := range e.Ships {
		if w := fa.world.Ship(id); w != nil {
			out = append(out, w)
		}
	}
	return out
}

// idle reports whether the autopilot has nothing to fly toward.
func (fa *FighterAI) idle() bool {
	return fa.target == game.NoObject && fa.world.Ship(fa.ship.Ward) == nil &&
		fa.navpt == nil && fa.ActiveFarcaster() == nil && !fa.patrol &&
		fa.inbound == nil && fa.rtbCode == 0
}

// SeekTarget steers toward the current objective, shaping the approach
// for what the objective is: a patrol point, a landing, a target or ward,
// or a navpoint.
func (fa *FighterAI) SeekTarget() Steer {
	s := fa.ship

	if s.Phase < game.PhaseActive {
		return fa.Seek(fa.objective)
	}

	if fa.idle() || s.MissionClock < LaunchClearTime {
		if fa.elementIndex > 1 {
			// break formation if threatened
			if fa.threatMissile != game.NoObject {
				return Steer{}
			}
			if fa.threat != game.NoObject && !fa.formUp {
				return Steer{}
			}
			return fa.SeekFormationSlot()
		}
		return Steer{}
	}

	if fa.patrol {
		st := fa.Seek(fa.objective)
		s.SetDirectorInfo(InfoSeekPatrol)

		if fa.distance < 10*s.Radius() {
			fa.patrol = false
			st.Brake = 1
			st.Stop = true
		}
		return st
	}

	if fa.inbound != nil {
		return fa.seekInbound()
	}

	if fa.rtbCode != 0 {
		return fa.Seek(fa.objective)
	}

	tgt := fa.world.Ship(fa.target)
	if tgt == nil {
		tgt = fa.world.Ship(s.Ward)
	}

	switch {
	case tgt != nil && tgt.ID == fa.tooClose:
		fa.dropTime = 4
		return Steer{}

	case fa.navpt != nil && fa.navpt.Action == game.ActionLaunch:
		s.SetDirectorInfo(InfoLaunch)
		return fa.Seek(fa.objective)

	case fa.ActiveFarcaster() != nil:
		if fa.elementIndex > 1 {
			return fa.SeekFormationSlot()
		}
		s.SetDirectorInfo(InfoSeekFarcaster)
		return fa.Seek(fa.objective)

	case fa.dropTime > 0:
		return Steer{}
	}

	if tgt != nil {
		return fa.seekShip(tgt)
	}

	if fa.navpt != nil {
		s.SetDirectorInfo(InfoSeekNavpoint)
	}
	return fa.Seek(fa.objective)
}

// seekInbound flies the approach legs, the marshal point and finals.
func (fa *FighterAI) seekInbound() Steer {
	s := fa.ship
	in := fa.inbound
	st := fa.Seek(fa.objective)

	if fa.overThreshold && fa.objective.Z < 0 {
		return Steer{Brake: 1, Stop: true}
	}

	s.SetDirectorInfo(InfoInbound)

	if in.Approach() > 0 {
		if fa.distance < 20*s.Radius() {
			in.SetApproach(in.Approach() - 1)
		}
		return st
	}

	switch {
	case in.Cleared() && fa.distance < 10*s.Radius():
		if !in.Final() {
			fa.timeToDock = fa.tuning.TimeToDock

			if deck := in.Deck; deck != nil {
				total := game.Distance(deck.EndPoint(), deck.StartPoint())
				current := game.Distance(deck.EndPoint(), s.Loc)
				if total > 1e-3 {
					fa.timeToDock *= current / total
				}
			}

			if fa.radio != nil {
				fa.radio.SendQuickMessage(s, game.RadioCallFinals)
			}
		}

		in.SetFinal(true)
		s.LowerGear()
		st.Brake = 1
		st.Stop = true

	case !in.Cleared() && fa.distance < fa.tuning.HoldShortDist:
		s.SetDirectorInfo(InfoHoldFinal)
		st = Steer{Brake: 1, Stop: true}
	}
	return st
}

// seekShip closes on a target or ward while leaving room to maneuver.
func (fa *FighterAI) seekShip(tgt *game.Ship) Steer {
	s := fa.ship
	gap := fa.distance - (s.Radius() + tgt.Radius())

	// behind us: leave some room for an attack run
	if fa.objective.Z < 0 {
		if gap < 8000 {
			return Steer{Pitch: -0.1, Yaw: 0.1 * turnToward(fa.objective.X)}
		}
		return fa.Seek(fa.objective)
	}

	switch {
	case tgt.IsStatic():
		if gap < 2500 {
			return fa.Flee(fa.objective)
		}
	case tgt.IsStarship():
		if gap < 1000 {
			return fa.Flee(fa.objective)
		}
		if s.FlightModel == game.FlightModelStandard && gap < 20e3 {
			fa.goManual = true
		}
	}

	if tgt.Vel.Dot(s.Vel) < 0 {
		// head to head pass
		if gap < 1250 {
			return fa.Flee(fa.objective)
		}
	} else if gap < 250 {
		return Steer{}
	}

	s.SetDirectorInfo(InfoSeekTarget)
	return fa.Seek(fa.objective)
}

// HelmControl converts the accumulated steering into control surface
// deflections, or flies station keeping when there is nothing to steer for.
func (fa *FighterAI) HelmControl() {
	s := fa.ship
	cam := s.Cam
	deflection := cam.Right.Y
	stationKeeping := fa.distance < 0
	inverted := cam.Up.Y < -0.5
	formation := fa.elementIndex > 1 && !fa.takeoff && fa.inbound == nil && !stationKeeping

	busy := fa.takeoff || fa.navpt != nil || fa.ActiveFarcaster() != nil || fa.patrol ||
		fa.inbound != nil || fa.rtbCode != 0 || fa.target != game.NoObject ||
		fa.world.Ship(s.Ward) != nil || fa.threat != game.NoObject || formation

	acc := &fa.accumulator
	if busy {
		// asked to flee
		if math.Abs(acc.Yaw) == 1 && acc.Pitch == 0 {
			acc.Pitch = -0.7
			acc.Yaw *= 0.25

			if s.IsAirborne() && s.FlightModel == game.FlightModelStandard {
				acc.Pitch = -0.45
			}

			// green pilots turn less hard
			acc.Pitch += 0.1 * float64(2-fa.aiLevel)
		}

		s.ApplyRoll(acc.Yaw * -0.7)
		s.ApplyYaw(acc.Yaw * 0.2)

		if math.Abs(acc.Yaw) > 0.5 && math.Abs(acc.Pitch) < 0.1 {
			acc.Pitch -= 0.1
		}
		s.ApplyPitch(acc.Pitch)
	} else {
		s.SetDirectorInfo(InfoStationKeeping)
		stationKeeping = true

		// slow orbit when airborne
		if s.IsAirborne() && s.Class < game.ClassLCA {
			acc.Brake = 0.2
			acc.Stop = false

			bank := math.Asin(game.Clamp(deflection, -1, 1))
			s.ApplyRoll(-math.Pi/4 - bank)
			s.ApplyPitch(s.CompassPitch() - 0.2*math.Abs(bank))
		} else {
			acc.Brake = 1
			acc.Stop = true
		}
	}

	// not turning: roll level
	if d := s.Design; d != nil && d.AutoRoll > 0 &&
		math.Abs(acc.Pitch) < 0.1 && math.Abs(acc.Yaw) < 0.25 {
		if d.AutoRoll > 1 {
			if (fa.elementIndex+int(s.MissionClock>>10))&4 != 0 {
				s.ApplyRoll(0.6)
			} else {
				s.ApplyRoll(-0.35)
			}
		} else if math.Abs(deflection) > 0.1 || inverted {
			if l := cam.Right.Len(); l > 0 {
				s.ApplyRoll(-math.Asin(game.Clamp(deflection/l, -1, 1)) * 0.5)
			}
		}
	}

	// otherwise idle: pitch level
	if stationKeeping && (!s.IsAirborne() || s.Class < game.ClassLCA) {
		if h := s.Heading().Y; math.Abs(h) > 0.05 {
			s.ApplyPitch(math.Asin(game.Clamp(h, -1, 1)) * 3)
		}
	}

	s.SetTransX(0)
	s.SetTransY(0)
	if s.Design != nil {
		s.SetTransZ(fa.zShift * s.Design.TransZ)
	}
	if fa.goManual {
		s.SetFLCSMode(game.FLCSManual)
	} else {
		s.SetFLCSMode(game.FLCSAuto)
	}
}
