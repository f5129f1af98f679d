package ai

import (
	"testing"

	"github.com/lab1702/fighter-ai/game"
)

func newAirspaceFighter(t *testing.T, alt float64) (*game.World, *game.Region, *game.Ship, *FighterAI) {
	t.Helper()
	w := game.NewWorld()
	air := &game.Region{Name: "Air", Type: game.RegionAirSpace, Primary: "Kalon", Active: true}
	w.Regions = append(w.Regions, air)
	s := addTestShip(w, air, "viper", 1, game.Vec3{Y: alt}, nil)
	return w, air, s, newTestFighter(w, s)
}

func TestAvoidTerrainTooLow(t *testing.T) {
	w, air, s, fa := newAirspaceFighter(t, 1000)
	bandit := addTestShip(w, air, "viper", 2, game.Vec3{Y: 1000, Z: 8000}, nil)
	fa.SetTarget(bandit.ID)

	st := fa.AvoidTerrain()
	if st.Pitch != -1 {
		t.Errorf("pitch = %f, want full pull up", st.Pitch)
	}
	if s.DirectorInfo != InfoTooLow {
		t.Errorf("info = %q, want %q", s.DirectorInfo, InfoTooLow)
	}
	if fa.Target() != game.NoObject || fa.DropTime() != 5 {
		t.Errorf("target %d drop %f, want target dropped for 5s below the floor", fa.Target(), fa.DropTime())
	}
	if !fa.terrainWarning {
		t.Error("terrain warning not raised")
	}
}

func TestAvoidTerrainTooHigh(t *testing.T) {
	_, air, s, fa := newAirspaceFighter(t, 30000)

	st := fa.AvoidTerrain()
	if st.Pitch != 1 {
		t.Errorf("pitch = %f, want full push over", st.Pitch)
	}
	if s.DirectorInfo != InfoTooHigh {
		t.Errorf("info = %q, want %q", s.DirectorInfo, InfoTooHigh)
	}

	// climbing out to a navpoint in another region is allowed
	other := &game.Region{Name: "Orbit", Type: game.RegionOrbital, Primary: air.Primary}
	fa.SetNavPoint(&game.Instruction{Action: game.ActionVector, Region: other})
	if st := fa.AvoidTerrain(); !st.IsZero() {
		t.Errorf("steer = %+v, want no ceiling when leaving the airspace", st)
	}
}

func TestAvoidTerrainInBand(t *testing.T) {
	_, _, _, fa := newAirspaceFighter(t, 10000)
	if st := fa.AvoidTerrain(); !st.IsZero() {
		t.Errorf("steer = %+v, want zero between floor and ceiling", st)
	}
	if fa.terrainWarning {
		t.Error("terrain warning raised in band")
	}
}

func TestAvoidTerrainIgnoredInSpace(t *testing.T) {
	w, r := newTestWorld()
	s := addTestShip(w, r, "viper", 1, game.Vec3{Y: -50000}, nil)
	fa := newTestFighter(w, s)
	if st := fa.AvoidTerrain(); !st.IsZero() {
		t.Errorf("steer = %+v, want zero in space", st)
	}
}

func TestAvoidCollision(t *testing.T) {
	tests := []struct {
		name      string
		dist      float64
		wantBrake float64
		tooClose  bool
	}{
		{"obstacle ahead", 3000, 0.5, false},
		{"obstacle very close", 400, 0.3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, r := newTestWorld()
			w.GameTime = 1000
			destroyer := addTestShip(w, r, "destroyer", 2, game.Vec3{Z: tt.dist}, nil)
			s := addTestShip(w, r, "viper", 1, game.Zero, nil)
			s.Vel = game.Vec3{Z: 300}
			fa := newTestFighter(w, s)

			st := fa.AvoidCollision()
			if st.IsZero() {
				t.Fatal("no avoidance steer")
			}
			if st.Brake != tt.wantBrake {
				t.Errorf("brake = %f, want %f", st.Brake, tt.wantBrake)
			}
			if fa.other != destroyer.ID {
				t.Errorf("obstacle = %d, want %d", fa.other, destroyer.ID)
			}
			if got := fa.tooClose == destroyer.ID; got != tt.tooClose {
				t.Errorf("too close = %v, want %v", got, tt.tooClose)
			}
			if s.DirectorInfo != InfoAvoidCollision {
				t.Errorf("info = %q, want %q", s.DirectorInfo, InfoAvoidCollision)
			}
		})
	}
}

func TestAvoidCollisionInterval(t *testing.T) {
	w, r := newTestWorld()
	w.GameTime = 1000
	addTestShip(w, r, "destroyer", 2, game.Vec3{X: 20000, Z: 3000}, nil)
	s := addTestShip(w, r, "viper", 1, game.Zero, nil)
	s.Vel = game.Vec3{Z: 300}
	fa := newTestFighter(w, s)

	// nothing on our track
	if st := fa.AvoidCollision(); !st.IsZero() {
		t.Fatalf("steer = %+v, want zero", st)
	}
	if fa.lastAvoidTime != 1000 {
		t.Errorf("last avoid time = %d, want 1000", fa.lastAvoidTime)
	}

	// a new obstacle is not looked for until the interval passes
	w.GameTime = 1200
	addTestShip(w, r, "destroyer", 2, game.Vec3{Z: 3000}, nil)
	if st := fa.AvoidCollision(); !st.IsZero() {
		t.Errorf("steer = %+v, want zero inside the interval", st)
	}
}
