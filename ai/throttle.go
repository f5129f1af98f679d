package ai

import (
	"math"

	"github.com/lab1702/fighter-ai/game"
)

// throttleContext carries the per-tick inputs of the throttle rules and
// collects the afterburner demand.
type throttleContext struct {
	speed          float64 // along the boresight
	formation      bool
	stationKeeping bool
	augmenter      bool
	ward           *game.Ship
}

type throttleRule struct {
	name  string
	when  func(fa *FighterAI, c *throttleContext) bool
	apply func(fa *FighterAI, c *throttleContext)
}

var throttleRules = []throttleRule{
	{
		name: "launch",
		when: func(fa *FighterAI, _ *throttleContext) bool { return fa.ship.MissionClock < LaunchClearTime },
		apply: func(fa *FighterAI, _ *throttleContext) {
			fa.throttle = 100
			fa.brakes = 0
		},
	},
	{
		name:  "station keeping",
		when:  func(_ *FighterAI, c *throttleContext) bool { return c.stationKeeping },
		apply: throttleOrbit(30),
	},
	{
		// stay airborne
		name: "stall",
		when: func(fa *FighterAI, c *throttleContext) bool {
			s := fa.ship
			return s.IsAirborne() && c.speed < 250 && s.Class < game.ClassLCA
		},
		apply: func(fa *FighterAI, c *throttleContext) {
			fa.throttle = 100
			fa.brakes = 0
			if c.speed < 200 {
				c.augmenter = true
			}
		},
	},
	{
		name:  "inbound",
		when:  func(fa *FighterAI, _ *throttleContext) bool { return fa.inbound != nil },
		apply: (*FighterAI).throttleInbound,
	},
	{
		name: "transit",
		when: func(fa *FighterAI, _ *throttleContext) bool {
			return fa.rtbCode != 0 || fa.ActiveFarcaster() != nil
		},
		apply: (*FighterAI).throttleTransit,
	},
	{
		name: "evade",
		when: func(fa *FighterAI, _ *throttleContext) bool { return fa.evading },
		apply: func(fa *FighterAI, c *throttleContext) {
			fa.throttle = 100
			if fa.threatMissile == game.NoObject && fa.ship.Fuel > 15 {
				c.augmenter = true
			}
		},
	},
	{
		name: "patrol and formation",
		when: func(fa *FighterAI, c *throttleContext) bool {
			return fa.navpt == nil && fa.target == game.NoObject && c.ward == nil
		},
		apply: func(fa *FighterAI, c *throttleContext) {
			if fa.ship.Element == nil || !c.formation {
				fa.throttleLead(c)
			} else {
				fa.throttleWingman(c)
			}
		},
	},
	{
		name:  "seek",
		when:  func(*FighterAI, *throttleContext) bool { return true },
		apply: (*FighterAI).throttleSeek,
	},
}

// ThrottleControl sets throttle, afterburner and braking thrust for the
// current objective. Throttle changes are ramped from the previous tick
// wherever the ship is braking.
func (fa *FighterAI) ThrottleControl() {
	s := fa.ship
	c := &throttleContext{
		speed:          s.Vel.Dot(s.Heading()),
		formation:      fa.elementIndex > 1,
		stationKeeping: fa.distance < 0,
		ward:           fa.world.Ship(s.Ward),
	}
	if fa.inbound != nil || c.stationKeeping {
		c.formation = false
	}

	for _, r := range throttleRules {
		if r.when(fa, c) {
			r.apply(fa, c)
			break
		}
	}

	if fa.throttle > 100 {
		fa.throttle = 100
	}

	autoRoll := 0
	if s.Design != nil {
		autoRoll = s.Design.AutoRoll
	}

	switch {
	case s.IsAirborne() && fa.throttle < 20 && s.Class < game.ClassLCA:
		fa.throttle = 20
	case autoRoll > 1 && fa.throttle < 5:
		fa.throttle = 5
	case fa.throttle < 0:
		fa.throttle = 0
	}

	fa.oldThrottle = fa.throttle

	s.SetThrottle(int(fa.throttle))
	s.SetAugmenter(c.augmenter)

	var transY float64
	if s.Design != nil {
		transY = s.Design.TransY
	}

	switch {
	case fa.accumulator.Stop:
		s.FullStop()
	case c.speed > 1 && fa.brakes > 0:
		s.SetTransY(-fa.brakes * transY)
	case fa.throttle > 10 && (s.EMCON < 2 || s.Fuel < 10):
		s.SetTransY(transY)
	}
}

func (fa *FighterAI) rampStep() float64 { return float64(fa.tuning.ThrottleRampStep) }

// throttleOrbit loiters in a slow circle when airborne and stops
// otherwise.
func throttleOrbit(orbit float64) func(fa *FighterAI, c *throttleContext) {
	return func(fa *FighterAI, _ *throttleContext) {
		s := fa.ship
		if s.IsAirborne() && s.Class < game.ClassLCA {
			fa.throttle = orbit
			fa.brakes = 0
		} else {
			fa.throttle = 0
			fa.brakes = 1
		}
	}
}

// trackSpeed holds desired within a ±5 band. Over the band the ship brakes
// and the throttle ramps down one step; far under it the throttle opens.
func (fa *FighterAI) trackSpeed(c *throttleContext, desired float64, creep bool) {
	switch {
	case c.speed > desired+5:
		fa.brakes = 0.25
		fa.throttle = fa.oldThrottle - fa.rampStep()

	case creep:
		fa.throttle = fa.oldThrottle + 1

	case c.speed < 0.85*desired:
		fa.throttle = 100
		if c.speed < 0 && fa.ship.Fuel > 10 {
			c.augmenter = true
		}

	case c.speed < desired-5:
		fa.throttle = 30

	default:
		fa.throttle = fa.oldThrottle - fa.rampStep()
	}
}

func (fa *FighterAI) throttleInbound(c *throttleContext) {
	s := fa.ship
	in := fa.inbound

	var carrierSpeed float64
	if in.Deck != nil && in.Deck.Carrier != nil {
		carrierSpeed = in.Deck.Carrier.Speed()
	}

	desired := 250 + carrierSpeed
	switch {
	case fa.distance > 25e3:
		desired = fa.tuning.TransitSpeed + carrierSpeed
	case s.IsAirborne():
		desired = 300
	case in.Final():
		desired = 75 + carrierSpeed
	}

	// holding short
	if in.Approach() == 0 && !in.Cleared() && fa.distance < fa.tuning.HoldShortDist && !s.IsAirborne() {
		desired = 0
	}

	fa.throttle = fa.oldThrottle
	fa.trackSpeed(c, desired, s.IsAirborne() || s.FlightModel != game.FlightModelStandard)
}

func (fa *FighterAI) throttleTransit(c *throttleContext) {
	s := fa.ship
	if fa.threat != game.NoObject || fa.threatMissile != game.NoObject {
		fa.throttle = 100
		if fa.threatMissile == game.NoObject && s.Fuel > 15 {
			c.augmenter = true
		}
		return
	}

	fa.throttle = fa.oldThrottle
	fa.trackSpeed(c, fa.tuning.TransitSpeed, s.FlightModel != game.FlightModelStandard)
}

// throttleLead flies an element lead with no navpoint: toward the patrol
// point if there is one, else idling.
func (fa *FighterAI) throttleLead(c *throttleContext) {
	s := fa.ship
	fa.throttle = fa.oldThrottle

	if !fa.patrol {
		fa.throttle = float64(fa.tuning.IdleThrottle)
		if fa.threat != game.NoObject {
			fa.throttle = 100
		}
		fa.brakes = fa.accumulator.Brake
		if fa.brakes > 0.1 {
			fa.throttle = 0
		}
		return
	}

	desired := fa.tuning.PatrolSpeed
	if fa.distance > 10e3 {
		desired = fa.tuning.TransitSpeed
	}

	switch {
	case c.speed > desired+5:
		fa.brakes = 0.25
		fa.throttle = fa.oldThrottle - fa.rampStep()
	case c.speed < 0.85*desired:
		fa.throttle = 100
		if c.speed < 0 && s.Fuel > 10 {
			c.augmenter = true
		}
	case c.speed < desired-5:
		fa.throttle = fa.oldThrottle + fa.rampStep()
	}
}

// throttleWingman holds the formation slot against the lead's speed. A
// dead band around the slot keeps the wingman from porpoising.
func (fa *FighterAI) throttleWingman(c *throttleContext) {
	s := fa.ship
	lead := fa.elementLead()
	zone := s.Radius() * 3

	var desired float64
	if lead != nil {
		desired = lead.Vel.Dot(lead.Heading())
	}

	switch {
	case math.Abs(fa.slotDist) < fa.distance/4:
		fa.throttle = fa.oldThrottle

	case fa.slotDist > zone*2:
		fa.throttle = 100
		if fa.objective.Z > 10e3 && c.speed < desired && s.Fuel > 25 {
			c.augmenter = true
		}

	case fa.slotDist > zone:
		fa.throttle = fa.oldThrottle
		if lead != nil {
			fa.throttle = float64(lead.Helm.Throttle) + 10
		}

	case fa.slotDist < -zone*2:
		fa.throttle = fa.oldThrottle - 10
		fa.brakes = 1

	case fa.slotDist < -zone:
		fa.throttle = fa.oldThrottle
		fa.brakes = 0.5

	case lead != nil:
		dv := lead.Speed() - c.speed
		var dt float64
		if dv > 0 {
			dt = dv * 1e-5 * fa.seconds
		} else if dv < 0 {
			dt = dv * 1e-2 * fa.seconds
		}
		fa.throttle = fa.oldThrottle + dt

	default:
		fa.throttle = fa.oldThrottle
	}
}

// throttleSeek flies toward a target, ward or navpoint.
func (fa *FighterAI) throttleSeek(c *throttleContext) {
	s := fa.ship
	fa.throttle = fa.oldThrottle

	switch {
	case fa.target != game.NoObject:
		const desired = 1250.0

		switch {
		case fa.aiLevel < 1:
			fa.throttle = 70

		case s.IsAirborne():
			fa.throttle = 100
			if fa.threatMissile == game.NoObject && math.Abs(fa.objective.Z) > 6e3 && s.Fuel > 25 {
				c.augmenter = true
			}

		default:
			fa.throttle = 100
			if fa.objective.Z > 20e3 && c.speed < desired && s.Fuel > 35 {
				c.augmenter = true
			} else if fa.objective.Z > 0 && fa.objective.Z < 10e3 {
				fa.throttle = 50
			}
		}

	case c.ward != nil:
		if game.Distance(s.Loc, c.ward.Loc) > 5000 {
			fa.throttle = 80
			if fa.aiLevel < 1 {
				fa.throttle = 50
			}
			return
		}

		speed := c.ward.Speed()
		if speed > 0 {
			if c.speed > speed {
				fa.throttle = fa.oldThrottle - fa.rampStep()
				fa.brakes = 0.25
			} else if c.speed < speed-10 {
				fa.throttle = fa.oldThrottle + 1
			}
		}

	case fa.navpt != nil:
		desired := fa.navpt.Speed

		if fa.hold {
			throttleOrbit(25)(fa, c)
			return
		}
		if desired <= 0 {
			return
		}

		switch {
		case c.speed > desired:
			fa.throttle = fa.oldThrottle - fa.rampStep()
			fa.brakes = 0.25
		case c.speed < 0.85*desired:
			fa.throttle = 100
			if (s.IsAirborne() || c.speed < 0.35*desired) && s.Fuel > 30 {
				c.augmenter = true
			}
		case c.speed < desired-10:
			fa.throttle = fa.oldThrottle + 1
		}

	default:
		fa.throttle = 0
		fa.brakes = 1
	}
}
