package server

import (
	"go.uber.org/zap"

	"github.com/lab1702/fighter-ai/ai"
	"github.com/lab1702/fighter-ai/game"
)

// Formation spacing in ship radii between wingmen
const formationSpacing = 20

// step advances the world by one tick of the given duration. The order
// matters: sensors feed the autopilots, the autopilots write the helm, and
// the integrator consumes the helm. Caller must hold simMu.
func (s *Server) step(seconds float64) {
	w := s.world
	s.frame++
	w.GameTime += int64(seconds * 1000)
	s.traffic = s.traffic[:0]

	s.updateShipSystems(seconds)
	s.updateSensors()
	s.runPilots(seconds)
	s.updateRadioTraffic()

	for _, ship := range w.Ships() {
		s.fireWeapons(ship)
		s.updateShipPhysics(ship, seconds)
	}
	s.updateJumps(seconds)
	s.updateProjectiles(seconds)
	s.removeDestroyed()
	s.updateTransitions(seconds)

	w.IndexContacts()
}

// attachPilot installs a fresh fighter autopilot in ship, carrying over
// the skill of any autopilot it replaces.
func (s *Server) attachPilot(ship *game.Ship) *ai.FighterAI {
	fa := ai.New(ship, s.world, s.tuning)
	if old := s.pilots[ship.ID]; old != nil {
		fa.SetAILevel(old.AILevel())
	}
	fa.SetFormationDelta(formationDelta(ship))
	s.pilots[ship.ID] = fa
	return fa
}

// formationDelta is a wingman's slot in echelon right of the lead, in the
// lead's frame with +X to the left and +Z aft.
func formationDelta(ship *game.Ship) game.Vec3 {
	if ship.ElementIndex < 2 {
		return game.Zero
	}
	d := ship.Radius() * formationSpacing * float64(ship.ElementIndex-1)
	return game.Vec3{X: -d, Z: d}
}

// runPilots executes every autopilot once, then performs the orbit
// transitions they asked for. A transition replaces the autopilot, so none
// is performed while the others are still running.
func (s *Server) runPilots(seconds float64) {
	type request struct {
		ship   *game.Ship
		action ai.TerminalAction
	}
	var requests []request

	for _, ship := range s.world.Ships() {
		fa := s.pilots[ship.ID]
		if fa == nil || ship.Phase == game.PhaseDocked {
			continue
		}
		if res := fa.ExecFrame(seconds); res.Action != ai.ActionNone {
			requests = append(requests, request{ship: ship, action: res.Action})
		}
	}

	for _, r := range requests {
		s.orbitTransition(r.ship, r.action)
	}
}

// killShip removes a destroyed ship and its autopilot.
func (s *Server) killShip(ship *game.Ship, reason string) {
	logger.Info("ship destroyed",
		zap.String("ship", ship.Name),
		zap.String("class", ship.Class.String()),
		zap.String("reason", reason))
	s.world.RemoveShip(ship.ID)
	delete(s.pilots, ship.ID)
	delete(s.transitions, ship.ID)
	for _, w := range ship.Weapons() {
		delete(s.cooldowns, w)
	}
}

func (s *Server) removeDestroyed() {
	for _, ship := range s.world.Ships() {
		if ship.Integrity <= 0 {
			s.killShip(ship, "damage")
		}
	}
}
