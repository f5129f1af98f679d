package server

import (
	"math"

	"github.com/lab1702/fighter-ai/ai"
	"github.com/lab1702/fighter-ai/game"
)

// Sensor constants
const (
	SensorRange       = 60e3 // meters, target acquisition
	ThreatSensorRange = 20e3 // meters, closing hostiles become the threat
	LineOfFireMargin  = 50   // meters added to a friendly's hull
)

// isHostile reports whether c is an enemy of ship. Rogues are everybody's
// enemy and gates are nobody's.
func isHostile(ship, c *game.Ship) bool {
	if c == nil || c == ship || c.Class == game.ClassFarcaster || c.Phase == game.PhaseDocked {
		return false
	}
	return c.IFF != ship.IFF || c.Rogue
}

// updateSensors feeds every autopilot its flight plan, contacts and
// missile warnings for this frame.
func (s *Server) updateSensors() {
	for _, ship := range s.world.Ships() {
		fa := s.pilots[ship.ID]
		if fa == nil || ship.Phase == game.PhaseDocked {
			continue
		}
		s.assignNavPoint(ship, fa)
		s.scanContacts(ship, fa)
		s.scanMissiles(ship, fa)
		s.updateSeeker(ship)
		s.checkLineOfFire(ship, ship.Primary)
		s.checkLineOfFire(ship, ship.Secondary)
	}
}

// assignNavPoint hands an idle autopilot the element's next navpoint and
// starts the element hold when the lead completes one with a hold time.
func (s *Server) assignNavPoint(ship *game.Ship, fa *ai.FighterAI) {
	fa.SetFormationDelta(formationDelta(ship))
	if c := s.world.Ship(ship.Controller); c != nil {
		fa.SetSupport(c.ID)
	} else {
		fa.SetSupport(game.NoObject)
	}

	e := ship.Element
	if e == nil {
		return
	}
	if ship.ElementIndex == 1 {
		for _, n := range e.NavList {
			if n.Status == game.StatusComplete && n.HoldTime > 0 {
				e.HoldTime = n.HoldTime
				n.HoldTime = 0
			}
		}
	}

	if fa.NavPoint() != nil {
		return
	}
	if n := ship.NextNavPoint(); n != nil {
		if n.Status == game.StatusPending {
			ship.SetNavptStatus(n, game.StatusActive)
		}
		fa.SetNavPoint(n)
	}
}

// scanContacts locks the nearest engageable hostile when the autopilot is
// free to take a new target, and reports the nearest closing hostile as
// the threat.
func (s *Server) scanContacts(ship *game.Ship, fa *ai.FighterAI) {
	var target, threat *game.Ship
	var targetDist, threatDist float64

	for _, c := range s.world.Contacts(ship, SensorRange) {
		if !isHostile(ship, c) || c.InTransition {
			continue
		}
		d := game.Distance(ship.Loc, c.Loc)

		if canEngage(ship, c) && (target == nil || d < targetDist) {
			target, targetDist = c, d
		}
		if d < ThreatSensorRange && closing(ship, c) && (threat == nil || d < threatDist) {
			threat, threatDist = c, d
		}
	}

	if threat != nil {
		fa.SetThreat(threat.ID)
	} else {
		fa.SetThreat(game.NoObject)
	}

	free := fa.Target() == game.NoObject && fa.DropTime() <= 0 &&
		ship.Inbound == nil && fa.RTBCode() == 0 && !formingUp(ship)
	if !free {
		return
	}
	if target != nil {
		ship.LockTarget(target.ID)
	} else if s.world.Ship(ship.Target) == nil {
		ship.DropTarget()
	}
}

func formingUp(ship *game.Ship) bool {
	switch ship.RadioOrders.RadioAction() {
	case game.RadioWepHold, game.RadioFormUp:
		return true
	}
	return false
}

func canEngage(ship, c *game.Ship) bool {
	return ship.Primary.CanTarget(c.Class) || ship.Secondary.CanTarget(c.Class)
}

// closing reports whether c is getting nearer to ship.
func closing(ship, c *game.Ship) bool {
	rel := c.Loc.Sub(ship.Loc)
	return c.Vel.Sub(ship.Vel).Dot(rel) < 0
}

// scanMissiles reports the nearest hostile missile tracking the ship.
func (s *Server) scanMissiles(ship *game.Ship, fa *ai.FighterAI) {
	var nearest *game.Shot
	var nearestDist float64
	for _, m := range s.world.Shots() {
		if m.Decoy || m.Target != ship.ID || m.Region != ship.Region || m.IFF == ship.IFF {
			continue
		}
		if d := game.Distance(m.Loc, ship.Loc); nearest == nil || d < nearestDist {
			nearest, nearestDist = m, d
		}
	}
	if nearest != nil {
		fa.SetThreatMissile(nearest.ID)
	} else {
		fa.SetThreatMissile(game.NoObject)
	}
}

// updateSeeker sets the secondary's lock when the target is inside its
// range and seeker cone.
func (s *Server) updateSeeker(ship *game.Ship) {
	w := ship.Secondary
	if w == nil || w.Design == nil {
		return
	}
	w.Locked = false

	tgt := s.world.Ship(ship.Target)
	if tgt == nil || tgt.Region != ship.Region {
		return
	}
	dir, dist := tgt.Loc.Sub(ship.Loc).Normalized()
	if dist > w.Design.MaxRange || dist < w.Design.MinRange {
		return
	}
	off := math.Acos(game.Clamp(dir.Dot(ship.Heading()), -1, 1))
	w.Locked = off <= w.Design.FiringCone
}

// checkLineOfFire blocks a forward firing weapon while a friendly sits
// along the boresight inside the weapon's range.
func (s *Server) checkLineOfFire(ship *game.Ship, w *game.Weapon) {
	if w == nil || w.Design == nil {
		return
	}
	w.BlockedFriendly = false
	fwd := ship.Heading()
	for _, c := range s.world.Contacts(ship, w.Design.MaxRange) {
		if isHostile(ship, c) || c.Class == game.ClassFarcaster {
			continue
		}
		rel := c.Loc.Sub(ship.Loc)
		along := rel.Dot(fwd)
		if along <= 0 {
			continue
		}
		if rel.Sub(fwd.Scale(along)).Len() < c.Radius()+LineOfFireMargin {
			w.BlockedFriendly = true
			return
		}
	}
}
