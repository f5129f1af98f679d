package server

import (
	"math"

	"go.uber.org/zap"

	"github.com/lab1702/fighter-ai/game"
)

// Flight model constants
const (
	AugmenterThrust = 1.5  // thrust multiplier with the afterburner lit
	AugmenterSpeed  = 1.2  // velocity limit multiplier with the afterburner lit
	FuelBurnRate    = 0.02 // percent per second at full military throttle
	AugmenterBurn   = 4.0  // fuel multiplier with the afterburner lit
	SideslipDamping = 1.5  // per second, FLCS auto only
	AutoLevelRate   = 2.0  // per second, wings leveling when not rolling
	YawRollCoupling = 0.5  // bank adds this much of the roll rate to the yaw
)

// updateShipPhysics integrates one ship's helm over seconds: rotation from
// the control surfaces, then thrust, then position. Ships under autopilot
// control that are on the deck or riding the landing rails are positioned
// by their autopilot and skipped.
func (s *Server) updateShipPhysics(ship *game.Ship, seconds float64) {
	defer clearThrusters(ship)

	if ship.Phase == game.PhaseDocked || ship.IsStatic() {
		return
	}
	if ship.Director == nil {
		ship.Loc = ship.Loc.Add(ship.Vel.Scale(seconds))
		return
	}
	if fa := s.pilots[ship.ID]; fa != nil && (fa.TimeToDock() > 0 || ship.Phase == game.PhaseDocking) {
		return
	}

	d := ship.Design
	h := &ship.Helm

	// attitude
	rate := d.TurnRate * seconds
	ship.Cam.Yaw((h.Yaw - YawRollCoupling*h.Roll) * rate)
	ship.Cam.Pitch(-h.Pitch * rate)
	ship.Cam.Roll(h.Roll * rate)
	if d.AutoRoll > 0 && math.Abs(h.Roll) < 0.1 {
		bank := math.Asin(game.Clamp(ship.Cam.Right.Y, -1, 1))
		ship.Cam.Roll(-bank * math.Min(1, AutoLevelRate*seconds))
	}
	ship.Cam.Orthonormalize()

	cam := ship.Cam
	oldVel := ship.Vel

	if h.FullStop {
		// everything into stopping
		dir, speed := ship.Vel.Normalized()
		decel := (d.Thrust + d.TransY) * seconds
		if decel >= speed {
			ship.Vel = game.Zero
		} else {
			ship.Vel = ship.Vel.Sub(dir.Scale(decel))
		}
	} else {
		thrust := d.Thrust * float64(h.Throttle) / 100
		if h.Augmenter {
			thrust *= AugmenterThrust
		}
		accel := cam.Forward.Scale(thrust + h.TransY).
			Add(cam.Right.Scale(h.TransX)).
			Add(cam.Up.Scale(h.TransZ))
		ship.Vel = ship.Vel.Add(accel.Scale(seconds))

		if h.FLCS == game.FLCSAuto {
			// bleed off sideslip so the ship flies where it points
			along := cam.Forward.Scale(ship.Vel.Dot(cam.Forward))
			slip := ship.Vel.Sub(along)
			ship.Vel = along.Add(slip.Scale(math.Max(0, 1-SideslipDamping*seconds)))
		}
	}

	limit := d.VelocityLimit
	if h.Augmenter {
		limit *= AugmenterSpeed
	}
	if dir, speed := ship.Vel.Normalized(); speed > limit {
		ship.Vel = dir.Scale(limit)
	}

	if seconds > 0 {
		ship.Accel = ship.Vel.Sub(oldVel).Scale(1 / seconds)
	}
	ship.Loc = ship.Loc.Add(ship.Vel.Scale(seconds))

	burnFuel(ship, seconds)
}

// clearThrusters drops the momentary demands an autopilot renews every
// frame.
func clearThrusters(ship *game.Ship) {
	h := &ship.Helm
	h.FullStop = false
	h.TransX = 0
	h.TransY = 0
	h.TransZ = 0
}

func burnFuel(ship *game.Ship, seconds float64) {
	h := ship.Helm
	burn := FuelBurnRate * float64(h.Throttle) / 100
	if h.Augmenter {
		burn *= AugmenterBurn
	}
	ship.Fuel = math.Max(0, ship.Fuel-burn*seconds)
}

// updateJumps counts down quantum drives and carries ships through
// farcasters.
func (s *Server) updateJumps(seconds float64) {
	for _, ship := range s.world.Ships() {
		if q := ship.QDrive; q != nil && q.State == game.QuantumCountdown {
			q.Countdown -= seconds
			if q.Countdown <= 0 {
				s.quantumJump(ship)
			}
		}
		s.checkFarcaster(ship)
	}
}

func (s *Server) quantumJump(ship *game.Ship) {
	q := ship.QDrive
	from := ship.Region
	q.State = game.QuantumReady
	q.Countdown = 0
	if q.DestRegion == nil {
		return
	}

	// wingmen arrive on their formation slot
	ship.Region = q.DestRegion
	ship.Loc = q.DestLoc.Add(formationDelta(ship).RotateY(ship.CompassHeading() + math.Pi))
	q.DestRegion = nil

	fromName := ""
	if from != nil {
		fromName = from.Name
	}
	logger.Info("quantum jump",
		zap.String("ship", ship.Name),
		zap.String("from", fromName),
		zap.String("to", ship.Region.Name))
}

// checkFarcaster transfers a ship routed through a gate once the gate
// captures it. It leaves the paired gate's end point on that gate's
// heading at its entry speed.
func (s *Server) checkFarcaster(ship *game.Ship) {
	if ship.Director == nil {
		return
	}
	fc := ship.Director.ActiveFarcaster()
	if fc == nil || fc.Host == nil || !fc.Captures(ship) {
		return
	}
	dest := s.world.Ship(fc.Dest)
	if dest == nil || dest.Farcaster == nil {
		return
	}

	from := ship.Region
	speed := ship.Speed()
	ship.Region = dest.Region
	ship.Cam = dest.Cam
	ship.Loc = dest.Farcaster.EndPoint()
	ship.Vel = ship.Cam.Forward.Scale(speed)

	logger.Info("farcaster transit",
		zap.String("ship", ship.Name),
		zap.String("from", from.Name),
		zap.String("to", dest.Region.Name))
}
