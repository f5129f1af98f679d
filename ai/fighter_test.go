package ai

import (
	"testing"

	"github.com/lab1702/fighter-ai/game"
)

func TestNewInstallsDirector(t *testing.T) {
	w, r := newTestWorld()
	s := addTestShip(w, r, "viper", 1, game.Zero, nil)
	s.AILevel = 2
	fa := newTestFighter(w, s)

	if s.Director != fa {
		t.Error("autopilot not installed as the ship's director")
	}
	if fa.Kind() != game.DirectorFighter {
		t.Errorf("kind = %v, want fighter", fa.Kind())
	}
	if fa.AILevel() != 2 {
		t.Errorf("ai level = %d, want 2", fa.AILevel())
	}
}

func TestSetAILevelClamps(t *testing.T) {
	w, r := newTestWorld()
	s := addTestShip(w, r, "viper", 1, game.Zero, nil)
	fa := newTestFighter(w, s)

	for _, tt := range []struct{ in, want int }{{-3, 0}, {1, 1}, {9, 2}} {
		fa.SetAILevel(tt.in)
		if fa.AILevel() != tt.want || s.AILevel != tt.want {
			t.Errorf("SetAILevel(%d) = %d/%d, want %d", tt.in, fa.AILevel(), s.AILevel, tt.want)
		}
	}
}

func TestActivationDelay(t *testing.T) {
	w, r := newTestWorld()
	bandit := addTestShip(w, r, "viper", 2, game.Vec3{Z: 20000}, nil)
	s := addTestShip(w, r, "viper", 1, game.Zero, nil)
	s.MissionClock = 2000
	s.Target = bandit.ID
	fa := newTestFighter(w, s)

	fa.ExecFrame(0.1)
	if fa.Target() != game.NoObject {
		t.Error("autopilot acted before the activation delay")
	}
	if s.DirectorInfo != InfoNone {
		t.Errorf("info = %q, want none", s.DirectorInfo)
	}

	s.MissionClock = ActivationDelay + 1
	fa.ExecFrame(0.1)
	if fa.Target() != bandit.ID {
		t.Error("sensor lock not adopted once active")
	}
}

func TestCheckTarget(t *testing.T) {
	tests := []struct {
		name  string
		iff   int
		rogue bool
		dead  bool
		keep  bool
	}{
		{"hostile", 2, false, false, true},
		{"friendly", 1, false, false, false},
		{"rogue friendly", 1, true, false, true},
		{"destroyed", 2, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, r := newTestWorld()
			other := addTestShip(w, r, "viper", tt.iff, game.Vec3{Z: 5000}, nil)
			other.Rogue = tt.rogue
			s := addTestShip(w, r, "viper", 1, game.Zero, nil)
			fa := newTestFighter(w, s)
			fa.SetTarget(other.ID)
			if tt.dead {
				w.RemoveShip(other.ID)
			}

			fa.CheckTarget()
			if got := fa.Target() != game.NoObject; got != tt.keep {
				t.Errorf("kept = %v, want %v", got, tt.keep)
			}
		})
	}
}

func TestEngagingCall(t *testing.T) {
	w, r := newTestWorld()
	w.GameTime = 20000
	elem := &game.Element{Name: "Alpha", IFF: 1}
	bandit := addTestShip(w, r, "viper", 2, game.Vec3{Z: 50000}, nil)
	s := addTestShip(w, r, "viper", 1, game.Zero, elem)
	fa := newTestFighter(w, s)
	fa.SetTarget(bandit.ID)

	fa.ExecFrame(0.1)
	if s.Target != bandit.ID {
		t.Fatalf("sensor target = %d, want %d", s.Target, bandit.ID)
	}

	msgs := w.Radio.Drain()
	if len(msgs) != 1 {
		t.Fatalf("calls = %d, want 1", len(msgs))
	}
	m := msgs[0]
	if m.Action != game.RadioCallEngaging || m.ToElement != elem {
		t.Errorf("call = %+v, want engaging to the element", m)
	}
	if len(m.Targets) != 1 || m.Targets[0] != bandit.ID {
		t.Errorf("call targets = %v, want [%d]", m.Targets, bandit.ID)
	}

	w.GameTime += 100
	fa.ExecFrame(0.1)
	if w.Radio.Pending() != 0 {
		t.Error("engaging call repeated for the same target")
	}
}

func TestDropTargetBlocksReacquisition(t *testing.T) {
	w, r := newTestWorld()
	bandit := addTestShip(w, r, "viper", 2, game.Vec3{Z: 50000}, nil)
	s := addTestShip(w, r, "viper", 1, game.Zero, nil)
	fa := newTestFighter(w, s)
	fa.SetTarget(bandit.ID)
	fa.ExecFrame(0.1)

	fa.DropTarget(1)
	if s.Target != game.NoObject {
		t.Error("sensor lock kept after DropTarget")
	}

	s.Target = bandit.ID
	fa.ExecFrame(0.1)
	if fa.Target() != game.NoObject {
		t.Error("target reacquired inside the drop time")
	}
}

func TestCheatLandingDocks(t *testing.T) {
	w, r := newTestWorld()
	carrier := addTestShip(w, r, "archon", 1, game.Zero, nil)
	s := addTestShip(w, r, "viper", 1, game.Zero, nil)
	s.Controller = carrier.ID
	s.Loc = carrier.Deck.StartPoint()
	fa := newTestFighter(w, s)

	slot := carrier.Deck.Inbound(s)
	slot.Clear(true)
	slot.SetFinal(true)
	fa.timeToDock = 0.5

	fa.ExecFrame(1)
	if s.Phase != game.PhaseDocked {
		t.Errorf("phase = %v, want docked", s.Phase)
	}
	if s.Inbound != nil {
		t.Error("recovery slot not released")
	}
	if len(carrier.Hangar.Stowed) != 1 || carrier.Hangar.Stowed[0] != s.ID {
		t.Errorf("hangar = %v, want [%d]", carrier.Hangar.Stowed, s.ID)
	}
}

func TestCheatLandingGlides(t *testing.T) {
	w, r := newTestWorld()
	carrier := addTestShip(w, r, "archon", 1, game.Zero, nil)
	s := addTestShip(w, r, "viper", 1, game.Zero, nil)
	s.Loc = carrier.Deck.StartPoint()
	fa := newTestFighter(w, s)

	slot := carrier.Deck.Inbound(s)
	slot.Clear(true)
	slot.SetFinal(true)
	fa.timeToDock = fa.tuning.TimeToDock

	fa.ExecFrame(1)
	if s.Phase == game.PhaseDocked {
		t.Fatal("docked on the first frame of the glide")
	}
	if s.DirectorInfo != InfoDocking {
		t.Errorf("info = %q, want %q", s.DirectorInfo, InfoDocking)
	}
	if !approxEqual(fa.TimeToDock(), fa.tuning.TimeToDock-1, 1e-9) {
		t.Errorf("time to dock = %f, want %f", fa.TimeToDock(), fa.tuning.TimeToDock-1)
	}

	fa.ExecFrame(1)
	if d := game.Distance(s.Loc, carrier.Deck.EndPoint()); d >= 500 {
		t.Errorf("distance to deck end = %f, want less than the full deck", d)
	}
}
