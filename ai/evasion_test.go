package ai

import (
	"testing"

	"github.com/lab1702/fighter-ai/game"
)

func addTestMissile(w *game.World, r *game.Region, loc, vel game.Vec3, target game.ObjectID) *game.Shot {
	m := &game.Shot{Owner: game.NoObject, IFF: 2, Region: r, Loc: loc, Vel: vel, Target: target, Speed: vel.Len(), Life: 30}
	w.AddShot(m)
	return m
}

func TestEvadeMissileOneDecoyPerMissile(t *testing.T) {
	w, r := newTestWorld()
	s := addTestShip(w, r, "viper", 1, game.Zero, nil)
	fa := newTestFighter(w, s)

	m1 := addTestMissile(w, r, game.Vec3{Z: 5000}, game.Vec3{Z: -1200}, s.ID)
	fa.SetThreatMissile(m1.ID)

	for i := 0; i < 3; i++ {
		fa.EvadeThreat()
	}
	if s.Decoys != 3 {
		t.Errorf("decoys = %d after one missile, want 3", s.Decoys)
	}
	if !fa.Evading() {
		t.Error("not evading an inbound missile")
	}
	if s.DirectorInfo != InfoEvadeMissile {
		t.Errorf("info = %q, want %q", s.DirectorInfo, InfoEvadeMissile)
	}
	if fa.DropTime() <= 0 {
		t.Errorf("drop time = %f, want target reacquisition blocked", fa.DropTime())
	}

	m2 := addTestMissile(w, r, game.Vec3{X: 5000}, game.Vec3{X: -1200}, s.ID)
	fa.SetThreatMissile(m2.ID)
	fa.EvadeThreat()
	if s.Decoys != 2 {
		t.Errorf("decoys = %d after second missile, want 2", s.Decoys)
	}
}

func TestEvadeMissileGone(t *testing.T) {
	w, r := newTestWorld()
	s := addTestShip(w, r, "viper", 1, game.Zero, nil)
	fa := newTestFighter(w, s)

	m := addTestMissile(w, r, game.Vec3{Z: 5000}, game.Vec3{Z: -1200}, s.ID)
	fa.SetThreatMissile(m.ID)
	w.RemoveShot(m.ID)

	if st := fa.EvadeThreat(); !st.IsZero() {
		t.Errorf("steer = %+v, want zero once the missile is gone", st)
	}
	if fa.ThreatMissile() != game.NoObject {
		t.Error("stale missile threat not cleared")
	}
}

func TestEvadeMissileBeamsAway(t *testing.T) {
	w, r := newTestWorld()
	s := addTestShip(w, r, "viper", 1, game.Vec3{X: 200}, nil)
	fa := newTestFighter(w, s)

	// missile straight ahead, ship slightly right of its track
	m := addTestMissile(w, r, game.Vec3{Z: 8000}, game.Vec3{Z: -1200}, s.ID)
	fa.SetThreatMissile(m.ID)

	st := fa.EvadeThreat()
	if st.Yaw >= 0 {
		t.Errorf("yaw = %f, want a turn toward the far beam point", st.Yaw)
	}
}

func TestBeamPointsDegenerate(t *testing.T) {
	p := game.Vec3{X: 1, Y: 2, Z: 3}
	for _, vel := range []game.Vec3{game.Zero, {Y: 300}} {
		a, b := beamPoints(p, vel, 1000)
		if a != p || b != p {
			t.Errorf("beamPoints(vel %v) = %v %v, want both at %v", vel, a, b, p)
		}
	}
}

func TestCalcDefensePerimeter(t *testing.T) {
	w, r := newTestWorld()
	destroyer := addTestShip(w, r, "destroyer", 2, game.Vec3{Z: 20000}, nil)
	s := addTestShip(w, r, "viper", 1, game.Zero, nil)
	fa := newTestFighter(w, s)

	if got := fa.CalcDefensePerimeter(destroyer); got != 15000 {
		t.Errorf("idle guns: perimeter = %f, want default 15000", got)
	}

	for _, wpn := range destroyer.Weapons() {
		wpn.Target = s.ID
	}
	if got := fa.CalcDefensePerimeter(destroyer); !approxEqual(got, 36000, 1e-6) {
		t.Errorf("torpedoes on us: perimeter = %f, want 36000", got)
	}

	if got := fa.CalcDefensePerimeter(nil); got != 15000 {
		t.Errorf("nil starship: perimeter = %f, want 15000", got)
	}
}

func TestEvadeStarship(t *testing.T) {
	w, r := newTestWorld()
	destroyer := addTestShip(w, r, "destroyer", 2, game.Vec3{Z: 5000}, nil)
	s := addTestShip(w, r, "viper", 1, game.Zero, nil)
	fa := newTestFighter(w, s)
	fa.SetThreat(destroyer.ID)

	st := fa.EvadeThreat()
	if s.DirectorInfo != InfoEvadeStarship {
		t.Errorf("info = %q, want %q", s.DirectorInfo, InfoEvadeStarship)
	}
	if st.Yaw == 0 {
		t.Errorf("steer = %+v, want a turn away", st)
	}

	// outside the perimeter it is not a threat
	destroyer.Loc = game.Vec3{Z: 50000}
	if st := fa.EvadeThreat(); !st.IsZero() {
		t.Errorf("distant starship steer = %+v, want zero", st)
	}
}

func TestEvadeFighterBreaksOffShootingTarget(t *testing.T) {
	w, r := newTestWorld()
	bandit := addTestShip(w, r, "viper", 2, game.Vec3{Z: 3000}, nil)
	bandit.Vel = game.Vec3{Z: -400}
	s := addTestShip(w, r, "viper", 1, game.Zero, nil)
	fa := newTestFighter(w, s)
	fa.SetTarget(bandit.ID)
	fa.SetThreat(bandit.ID)

	fa.EvadeThreat()
	if fa.Target() != bandit.ID {
		t.Fatal("dropped a target that is not shooting")
	}
	if s.DirectorInfo != InfoEvadeAndSeek {
		t.Errorf("info = %q, want %q", s.DirectorInfo, InfoEvadeAndSeek)
	}

	bandit.Helm.FirePrimary = true
	fa.EvadeThreat()
	if fa.Target() != game.NoObject {
		t.Error("kept a target that is shooting back")
	}
	if fa.DropTime() != 3 {
		t.Errorf("drop time = %f, want 3", fa.DropTime())
	}
	if s.DirectorInfo != InfoRandomEvade {
		t.Errorf("info = %q, want %q", s.DirectorInfo, InfoRandomEvade)
	}
}

func TestEvadeThreatSuppressedInFormation(t *testing.T) {
	w, r := newTestWorld()
	bandit := addTestShip(w, r, "viper", 2, game.Vec3{Z: 3000}, nil)
	s := addTestShip(w, r, "viper", 1, game.Zero, nil)
	fa := newTestFighter(w, s)
	fa.SetThreat(bandit.ID)
	fa.formUp = true

	if st := fa.EvadeThreat(); !st.IsZero() {
		t.Errorf("steer = %+v, want zero under form up orders", st)
	}
}

func TestEvadeJinkRefreshesOnRate(t *testing.T) {
	tests := []struct {
		name   string
		design string
		loc    game.Vec3
		rate   func(fa *FighterAI) int64
	}{
		{"fighter threat", "viper", game.Vec3{Z: 3000}, func(fa *FighterAI) int64 {
			return fa.tuning.JinkRateBase + fa.tuning.JinkRatePerSkill*int64(fa.skillFactor())
		}},
		{"starship threat", "destroyer", game.Vec3{Z: 5000}, func(fa *FighterAI) int64 {
			return fa.tuning.JinkRateStarship
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, r := newTestWorld()
			threat := addTestShip(w, r, tt.design, 2, tt.loc, nil)
			threat.Vel = game.Vec3{Z: -400}
			s := addTestShip(w, r, "viper", 1, game.Zero, nil)
			// jink second of the starship cycle
			s.MissionClock = 60003
			fa := newTestFighter(w, s)
			fa.SetThreat(threat.ID)
			rate := tt.rate(fa)

			w.GameTime = 10000
			fa.EvadeThreat()
			first := fa.jink
			if first == game.Zero {
				t.Fatal("no jink drawn on the first evasion")
			}

			w.GameTime += rate
			fa.EvadeThreat()
			if fa.jink != first {
				t.Errorf("jink redrawn after %d ms, want it held for %d ms", rate, rate)
			}

			w.GameTime++
			fa.EvadeThreat()
			if fa.jink == first {
				t.Error("jink not redrawn once the rate elapsed")
			}
			if fa.jinkTime != w.GameTime {
				t.Errorf("jink time = %d, want %d", fa.jinkTime, w.GameTime)
			}
		})
	}
}

func TestEvadeFighterWhileAttackingIsDamped(t *testing.T) {
	w, r := newTestWorld()
	// far enough that the target is kept
	bandit := addTestShip(w, r, "viper", 2, game.Vec3{Z: 12000}, nil)
	bandit.Vel = game.Vec3{Z: -400}
	tgt := addTestShip(w, r, "viper", 2, game.Vec3{Z: 30000}, nil)
	s := addTestShip(w, r, "viper", 1, game.Vec3{X: 100}, nil)
	fa := newTestFighter(w, s)
	fa.SetTarget(tgt.ID)
	fa.SetThreat(bandit.ID)

	st := fa.EvadeThreat()

	if fa.Target() != tgt.ID {
		t.Fatal("dropped a target while the threat is still at arm's length")
	}
	if s.DirectorInfo != InfoEvadeAndSeek {
		t.Errorf("info = %q, want %q", s.DirectorInfo, InfoEvadeAndSeek)
	}
	if fa.jink != game.Zero {
		t.Errorf("jink = %v, want none while attacking", fa.jink)
	}

	ref := newTestFighter(w, s)
	w1, w2 := beamPoints(bandit.Loc, bandit.Vel, 1e6)
	full := ref.Seek(ref.Transform(fartherOf(s.Loc, w1, w2)))
	if full.Yaw == 0 {
		t.Fatal("reference evasion should turn")
	}
	want := full.Div(4)
	if !approxEqual(st.Yaw, want.Yaw, 1e-12) || !approxEqual(st.Pitch, want.Pitch, 1e-12) {
		t.Errorf("steer = %+v, want a quarter of the full evasion %+v", st, full)
	}
}
