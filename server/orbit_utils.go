package server

import (
	"go.uber.org/zap"

	"github.com/lab1702/fighter-ai/ai"
	"github.com/lab1702/fighter-ai/game"
)

const (
	// Entry altitude above the datum after dropping out of orbit
	dropAltitude = 20e3

	// Seconds the dropping and attaining flags stay raised, long enough
	// for the rest of the element to follow the lead
	transitionTime = 2.0
)

// transitionRegion finds the region sharing from's primary that a drop
// (airspace) or climb (orbit) leads into.
func (s *Server) transitionRegion(from *game.Region, action ai.TerminalAction) *game.Region {
	want := game.RegionOrbital
	if action == ai.ActionDropOrbit {
		want = game.RegionAirSpace
	}
	for _, r := range s.world.Regions {
		if r != from && r.Type == want && game.SamePrimary(from, r) {
			return r
		}
	}
	return nil
}

// orbitTransition moves ship between orbit and the airspace below it and
// gives it a new autopilot, which is what dropping or making orbit does to
// the old one.
func (s *Server) orbitTransition(ship *game.Ship, action ai.TerminalAction) {
	from := ship.Region
	to := s.transitionRegion(from, action)
	if from == nil || to == nil {
		logger.Debug("no region for orbit transition",
			zap.String("ship", ship.Name),
			zap.Stringer("action", action))
		return
	}

	// keep the ground track, replace the altitude
	loc := from.Location.Add(ship.Loc).Sub(to.Location)
	if action == ai.ActionDropOrbit {
		loc.Y = dropAltitude
		ship.Dropping = true
	} else {
		loc.Y = 0
		ship.Attaining = true
	}

	speed := ship.Speed()
	ship.Cam = game.CameraFromHeading(ship.CompassHeading())
	ship.Vel = ship.Cam.Forward.Scale(speed)
	ship.Region = to
	ship.Loc = loc
	ship.InTransition = true
	ship.DropTarget()
	s.transitions[ship.ID] = transitionTime

	s.attachPilot(ship)

	logger.Info("orbit transition",
		zap.String("ship", ship.Name),
		zap.Stringer("action", action),
		zap.String("from", from.Name),
		zap.String("to", to.Name))
}

// updateTransitions lowers the transition flags once they have been up
// long enough.
func (s *Server) updateTransitions(seconds float64) {
	for id, left := range s.transitions {
		left -= seconds
		if left > 0 {
			s.transitions[id] = left
			continue
		}
		delete(s.transitions, id)
		if ship := s.world.Ship(id); ship != nil {
			ship.Dropping = false
			ship.Attaining = false
			ship.InTransition = false
		}
	}
}
