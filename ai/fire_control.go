package ai

import (
	"math"

	"github.com/lab1702/fighter-ai/game"
)

// FireControl pulls the triggers when the target sits in the gun basket
// or the missile envelope. Weapons on automatic orders are left to their
// own fire control.
func (fa *FighterAI) FireControl() {
	s := fa.ship
	tgt := fa.world.Ship(fa.target)
	if tgt == nil || tgt.Integrity < 1 {
		return
	}

	// the objective is a navpoint or a deck, not a target
	if fa.inbound != nil || fa.ActiveFarcaster() != nil ||
		(fa.navpt != nil && fa.navpt.Action < game.ActionDefend) {
		return
	}

	if fa.objective.Z < 0 || fa.distance < 4*s.Radius() {
		logFireDecision("all", "hold", "behind or too close", s.Name, fa.distance, 0)
		return
	}
	if tgt.InTransition {
		return
	}

	fa.firePrimary(tgt)
	fa.fireSecondary(tgt)
}

func (fa *FighterAI) firePrimary(tgt *game.Ship) {
	s := fa.ship
	w := s.Primary
	if w == nil || w.Design == nil {
		return
	}
	d := w.Design

	crossSection := 2 * tgt.Radius() / fa.distance
	basket := crossSection * 2
	if d.AimAzMax > 5*degree && fa.distance > d.MaxRange/2 {
		basket = crossSection * 4
	}
	basket *= fa.skillFactor()

	if !w.CanTarget(tgt.Class) {
		logFireDecision(d.Name, "hold", "cannot target class", s.Name, fa.distance, d.MaxRange)
		return
	}
	if w.Orders != game.OrdersManual {
		return
	}

	dx := math.Abs(fa.objective.X / fa.distance)
	dy := math.Abs(fa.objective.Y / fa.distance)

	switch {
	case dx >= basket || dy >= basket:
		logFireDecision(d.Name, "hold", "outside basket", s.Name, fa.distance, d.MaxRange)
	case fa.distance <= d.MinRange || fa.distance >= d.MaxRange:
		logFireDecision(d.Name, "hold", "out of range", s.Name, fa.distance, d.MaxRange)
	case w.BlockedFriendly:
		logFireDecision(d.Name, "hold", "friendly in line of fire", s.Name, fa.distance, d.MaxRange)
	default:
		s.FirePrimary()
		logFireDecision(d.Name, "fire", "in basket", s.Name, fa.distance, d.MaxRange)
	}
}

func (fa *FighterAI) fireSecondary(tgt *game.Ship) {
	s := fa.ship
	w := s.Secondary
	if w == nil || w.Design == nil || w.Orders != game.OrdersManual {
		return
	}
	d := w.Design

	if fa.missileTime > 0 || !w.HasAmmo() || w.BlockedFriendly {
		return
	}
	if !w.Locked && d.SelfAiming {
		logFireDecision(d.Name, "hold", "no lock", s.Name, fa.distance, d.MaxRange)
		return
	}

	aim, rng := fa.AimTransform(tgt.Loc).Normalized()

	factor := float64(2 - fa.aiLevel)
	sRange := 0.5 + 0.2*factor
	sBasket := 0.3 + 0.2*factor
	extraTime := 10*factor*factor + 5

	if !d.SelfAiming {
		sBasket *= 0.33
	}

	switch {
	case tgt.Class == game.ClassMine:
		extraTime = 10
		sRange = 0.75
	case !tgt.IsDropship():
		extraTime = 0.5*factor + 0.5
		sRange = 0.9
	}

	if rng >= d.MaxRange*sRange {
		logFireDecision(d.Name, "hold", "out of range", s.Name, rng, d.MaxRange)
		return
	}
	if math.Abs(aim.X) >= sBasket || math.Abs(aim.Y) >= sBasket || aim.Z <= 0 {
		logFireDecision(d.Name, "hold", "outside basket", s.Name, rng, d.MaxRange)
		return
	}
	if !s.FireSecondary() {
		return
	}

	fa.missileTime = d.SalvoDelay + extraTime
	logFireDecision(d.Name, "fire", "in envelope", s.Name, rng, d.MaxRange)

	if now := fa.now(); now-fa.lastCallTime > fa.tuning.FoxCallInterval {
		call := game.RadioFox3
		switch {
		case w.CanTarget(game.GroundUnits):
			call = game.RadioFox1
		case w.CanTarget(game.ClassDestroyer):
			call = game.RadioFox2
		}
		if fa.radio != nil {
			fa.radio.SendQuickMessage(s, call)
		}
		fa.lastCallTime = now
	}
}
