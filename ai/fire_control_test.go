package ai

import (
	"testing"

	"github.com/lab1702/fighter-ai/game"
)

func newFireControlFighter(t *testing.T, dist float64) (*game.World, *game.Ship, *game.Ship, *FighterAI) {
	t.Helper()
	w, r := newTestWorld()
	tgt := addTestShip(w, r, "viper", 2, game.Vec3{Z: dist}, nil)
	s := addTestShip(w, r, "viper", 1, game.Zero, nil)
	fa := newTestFighter(w, s)
	fa.SetTarget(tgt.ID)
	fa.objW = tgt.Loc
	fa.objective = fa.AimTransform(tgt.Loc)
	fa.distance = dist
	return w, s, tgt, fa
}

func TestFireControlHoldsTooClose(t *testing.T) {
	_, s, _, fa := newFireControlFighter(t, 30)
	fa.FireControl()
	if s.Helm.FirePrimary || s.Helm.FireSecondary {
		t.Error("fired inside four radii of the target")
	}
}

func TestFireControlPrimaryInBasket(t *testing.T) {
	_, s, _, fa := newFireControlFighter(t, 5000)
	fa.FireControl()

	if !s.Helm.FirePrimary {
		t.Error("gun not fired with the target on the nose in range")
	}
	if s.Helm.FireSecondary {
		t.Error("missile fired without a seeker lock")
	}
	if s.Secondary.Ammo != 6 {
		t.Errorf("ammo = %d, want 6", s.Secondary.Ammo)
	}
}

func TestFireControlPrimaryOutsideBasket(t *testing.T) {
	_, s, _, fa := newFireControlFighter(t, 5000)
	fa.objective = game.Vec3{X: 2000, Z: 4500}
	fa.FireControl()
	if s.Helm.FirePrimary {
		t.Error("gun fired well off boresight")
	}
}

func TestFireControlSecondary(t *testing.T) {
	w, s, _, fa := newFireControlFighter(t, 5000)
	w.GameTime = 10000
	s.Secondary.Locked = true

	fa.FireControl()
	if !s.Helm.FireSecondary {
		t.Fatal("missile not fired with a lock inside the envelope")
	}
	if s.Secondary.Ammo != 5 {
		t.Errorf("ammo = %d, want 5", s.Secondary.Ammo)
	}
	if !approxEqual(fa.missileTime, 47, 1e-9) {
		t.Errorf("missile time = %f, want 47", fa.missileTime)
	}

	msgs := w.Radio.Drain()
	if len(msgs) != 1 || msgs[0].Action != game.RadioFox2 {
		t.Errorf("calls = %+v, want one fox two", msgs)
	}

	// next frame the salvo delay holds fire
	s.Helm.FireSecondary = false
	fa.FireControl()
	if s.Helm.FireSecondary {
		t.Error("fired again inside the salvo delay")
	}
}

func TestFireControlAutoWeaponsLeftAlone(t *testing.T) {
	_, s, _, fa := newFireControlFighter(t, 5000)
	s.Primary.Orders = game.OrdersAuto
	fa.FireControl()
	if s.Helm.FirePrimary {
		t.Error("autopilot pulled the trigger on an automatic weapon")
	}
}

func TestFireControlNavpointObjective(t *testing.T) {
	_, s, _, fa := newFireControlFighter(t, 5000)
	fa.SetNavPoint(&game.Instruction{Action: game.ActionVector, Status: game.StatusActive})
	fa.FireControl()
	if s.Helm.FirePrimary {
		t.Error("fired while flying to a vector navpoint")
	}
}
