package server

import (
	"math"

	"go.uber.org/zap"

	"github.com/lab1702/fighter-ai/game"
)

// Projectile constants
const (
	DefaultMissileLife = 30.0 // seconds, for designs that leave it unset
	DecoyLife          = 8.0  // seconds
	DecoySeduceRange   = 2000 // missiles closer than this ignore a new decoy
	DecoyRadius        = 10
	LaunchClearance    = 10 // meters beyond the hull a missile appears
)

// fireWeapons resolves the triggers an autopilot pulled this frame and
// releases them.
func (s *Server) fireWeapons(ship *game.Ship) {
	h := &ship.Helm
	defer func() {
		h.FirePrimary = false
		h.FireSecondary = false
		h.FireDecoy = false
	}()

	if h.FirePrimary {
		s.fireGuns(ship)
	}
	if h.FireSecondary && ship.Secondary != nil {
		s.launchMissile(ship, ship.Secondary.Design, ship.Target)
	}
	if h.FireDecoy {
		s.launchDecoy(ship)
	}
}

// fireGuns resolves one burst of the primary as a hitscan bolt against
// the locked target.
func (s *Server) fireGuns(ship *game.Ship) {
	w := ship.Primary
	if w == nil || w.Design == nil {
		return
	}
	d := w.Design

	tgt := s.world.Ship(ship.Target)
	if tgt == nil || tgt.Region != ship.Region {
		logWeaponDecision(d.Name, "miss", "no target", ship.Name, 0, d.MaxRange)
		return
	}

	dir, dist := tgt.Loc.Sub(ship.Loc).Normalized()
	if dist > d.MaxRange {
		logWeaponDecision(d.Name, "miss", "out of range", ship.Name, dist, d.MaxRange)
		return
	}

	// the bolt must pass within the target's hull
	off := math.Acos(game.Clamp(dir.Dot(ship.Heading()), -1, 1))
	if off > math.Pi/2 || (off > d.FiringCone/2 && math.Sin(off)*dist > tgt.Radius()) {
		logWeaponDecision(d.Name, "miss", "off boresight", ship.Name, dist, d.MaxRange)
		return
	}

	logWeaponDecision(d.Name, "hit", "in cone", ship.Name, dist, d.MaxRange)
	s.applyDamage(tgt, d.Damage)
}

// launchMissile puts a guided shot in flight toward target.
func (s *Server) launchMissile(ship *game.Ship, d *game.WeaponDesign, target game.ObjectID) *game.Shot {
	if d == nil {
		return nil
	}
	life := d.Life
	if life <= 0 {
		life = DefaultMissileLife
	}

	fwd := ship.Heading()
	m := &game.Shot{
		Owner:  ship.ID,
		IFF:    ship.IFF,
		Region: ship.Region,
		Loc:    ship.Loc.Add(fwd.Scale(ship.Radius() + LaunchClearance)),
		Vel:    ship.Vel.Add(fwd.Scale(d.Speed)),
		Target: target,
		Speed:  d.Speed,
		Damage: d.Damage,
		Life:   life,
	}
	s.world.AddShot(m)

	logger.Debug("missile away",
		zap.String("ship", ship.Name),
		zap.String("weapon", d.Name),
		zap.Uint64("target", uint64(target)))
	return m
}

// launchDecoy ejects a decoy. Missiles tracking the ship from outside the
// seduction range switch to it.
func (s *Server) launchDecoy(ship *game.Ship) *game.Shot {
	decoy := &game.Shot{
		Owner:  ship.ID,
		IFF:    ship.IFF,
		Region: ship.Region,
		Loc:    ship.Loc,
		Vel:    ship.Vel.Scale(0.5),
		Life:   DecoyLife,
		Decoy:  true,
	}
	s.world.AddShot(decoy)

	for _, m := range s.world.Shots() {
		if m.Decoy || m.Target != ship.ID {
			continue
		}
		if game.Distance(m.Loc, ship.Loc) > DecoySeduceRange {
			m.Target = decoy.ID
		}
	}
	return decoy
}

// updateProjectiles flies every shot for seconds. Guided shots use pure
// pursuit and hit whatever they reach this frame.
func (s *Server) updateProjectiles(seconds float64) {
	w := s.world
	for _, m := range w.Shots() {
		m.Life -= seconds
		if m.Life <= 0 {
			w.RemoveShot(m.ID)
			continue
		}
		if m.Decoy {
			m.Loc = m.Loc.Add(m.Vel.Scale(seconds))
			continue
		}

		aim, radius, ok := s.missileAimPoint(m)
		if !ok {
			// lost the target, fly on ballistic
			m.Loc = m.Loc.Add(m.Vel.Scale(seconds))
			continue
		}

		dir, dist := aim.Sub(m.Loc).Normalized()
		if dist <= m.Speed*seconds+radius {
			s.missileImpact(m)
			w.RemoveShot(m.ID)
			continue
		}
		m.Vel = dir.Scale(m.Speed)
		m.Loc = m.Loc.Add(m.Vel.Scale(seconds))
	}
}

// missileAimPoint resolves what a missile is tracking: a ship in its
// region or a decoy.
func (s *Server) missileAimPoint(m *game.Shot) (game.Vec3, float64, bool) {
	if tgt := s.world.Ship(m.Target); tgt != nil {
		if tgt.Region != m.Region || tgt.Phase == game.PhaseDocked {
			return game.Zero, 0, false
		}
		return tgt.Loc, tgt.Radius(), true
	}
	if d := s.world.Shot(m.Target); d != nil && d.Decoy {
		return d.Loc, DecoyRadius, true
	}
	return game.Zero, 0, false
}

func (s *Server) missileImpact(m *game.Shot) {
	tgt := s.world.Ship(m.Target)
	if tgt == nil {
		// spent on a decoy
		return
	}
	s.applyDamage(tgt, m.Damage)

	shooter := "unknown"
	if owner := s.world.Ship(m.Owner); owner != nil {
		shooter = owner.Name
	}
	logger.Debug("missile hit",
		zap.String("shooter", shooter),
		zap.String("target", tgt.Name),
		zap.Float64("damage", m.Damage),
		zap.Float64("integrity", tgt.Integrity))
}

// applyDamage reduces a hull's integrity after its shield takes its
// share. Full shield power halves the damage.
func (s *Server) applyDamage(ship *game.Ship, damage float64) {
	if ship.Shield != nil {
		damage *= 1 - game.Clamp(ship.Shield.Power, 0, 100)/200
	}
	ship.Integrity -= damage
}
