package server

import (
	"github.com/lab1702/fighter-ai/game"
)

// Turret constants
const (
	GunCycleTime      = 1.0  // seconds between hitscan turret bursts
	LauncherCycleTime = 10.0 // seconds between guided launches when the design has no salvo delay
)

// updateShipSystems advances per-ship clocks and element hold timers and
// runs capital ship turrets
func (s *Server) updateShipSystems(seconds float64) {
	ms := int64(seconds * 1000)
	for _, ship := range s.world.Ships() {
		if ship.Phase != game.PhaseDocked {
			ship.MissionClock += ms
		}
		if len(ship.Groups) > 0 {
			s.updateTurrets(ship, seconds)
		}
	}

	for _, e := range s.world.Elements {
		if e.HoldTime > 0 {
			e.HoldTime -= seconds
			if e.HoldTime < 0 {
				e.HoldTime = 0
			}
		}
	}
}

// updateTurrets points every turret at the nearest hostile it can engage
// and fires when its cycle allows. Flak is resolved as a hitscan burst,
// launchers put a guided shot in flight.
func (s *Server) updateTurrets(ship *game.Ship, seconds float64) {
	for _, g := range ship.Groups {
		for _, w := range g.Weapons {
			if !w.HasAmmo() || w.Design == nil {
				continue
			}
			if s.cooldowns[w] > 0 {
				s.cooldowns[w] -= seconds
			}

			tgt := s.turretTarget(ship, w)
			if tgt == nil {
				w.Target = game.NoObject
				continue
			}
			w.Target = tgt.ID

			if s.cooldowns[w] > 0 {
				continue
			}

			d := w.Design
			dist := game.Distance(ship.Loc, tgt.Loc)
			if d.Guided {
				s.launchMissile(ship, d, tgt.ID)
				w.Consume()
				cycle := d.SalvoDelay
				if cycle <= 0 {
					cycle = LauncherCycleTime
				}
				s.cooldowns[w] = cycle
				logWeaponDecision(d.Name, "launch", g.Name, ship.Name, dist, d.MaxRange)
				continue
			}

			s.applyDamage(tgt, d.Damage)
			s.cooldowns[w] = GunCycleTime
			logWeaponDecision(d.Name, "hit", g.Name, ship.Name, dist, d.MaxRange)
		}
	}
}

// turretTarget keeps a turret's current target while it is still valid
// and otherwise picks the nearest hostile in range.
func (s *Server) turretTarget(ship *game.Ship, w *game.Weapon) *game.Ship {
	valid := func(c *game.Ship) bool {
		return c != nil && isHostile(ship, c) && c.Region == ship.Region &&
			w.CanTarget(c.Class) && !c.InTransition &&
			game.Distance(ship.Loc, c.Loc) >= w.Design.MinRange &&
			game.Distance(ship.Loc, c.Loc) <= w.Design.MaxRange
	}

	if cur := s.world.Ship(w.Target); valid(cur) {
		return cur
	}

	var best *game.Ship
	bestDist := 0.0
	for _, c := range s.world.Contacts(ship, w.Design.MaxRange) {
		if !valid(c) {
			continue
		}
		if d := game.Distance(ship.Loc, c.Loc); best == nil || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
