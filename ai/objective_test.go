package ai

import (
	"testing"

	"github.com/lab1702/fighter-ai/game"
)

func TestLimitFlightPath(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{2 * degree, 2 * degree},
		{5 * degree, 4 * degree},
		{20 * degree, 15 * degree},
		{-5 * degree, -4 * degree},
		{-40 * degree, -15 * degree},
		{0, 0},
	}

	for _, tt := range tests {
		if got := limitFlightPath(tt.in); !approxEqual(got, tt.want, 1e-12) {
			t.Errorf("limitFlightPath(%.1f°) = %.3f°, want %.3f°", tt.in/degree, got/degree, tt.want/degree)
		}
	}
}

func TestTransformWithoutDriftIsProjection(t *testing.T) {
	w, r := newTestWorld()
	s := addTestShip(w, r, "viper", 1, game.Vec3{X: 100, Y: 50, Z: -20}, nil)
	s.Cam = game.CameraFromHeading(0.7)
	fa := newTestFighter(w, s)

	p := game.Vec3{X: 3000, Y: -200, Z: 8000}
	want := s.Cam.Project(p.Sub(s.Loc))
	if got := fa.Transform(p); !vecApproxEqual(got, want, 1e-9) {
		t.Errorf("Transform = %v, want %v", got, want)
	}
}

func TestTransformLeadsTowardFlightPath(t *testing.T) {
	w, r := newTestWorld()
	s := addTestShip(w, r, "viper", 1, game.Zero, nil)
	// sliding 10° to the right of the boresight
	s.Vel = game.Vec3{X: 500 * 0.17364817766, Z: 500 * 0.98480775301}
	fa := newTestFighter(w, s)

	p := game.Vec3{Z: 10000}
	if got := fa.Transform(p); got.X >= 0 {
		t.Errorf("point on boresight appears at X = %f, want left of the drifted frame", got.X)
	}
	if got := fa.AimTransform(p); !vecApproxEqual(got, p, 1e-9) {
		t.Errorf("AimTransform = %v, want boresight frame %v", got, p)
	}
}

func TestReturnToBase(t *testing.T) {
	orbit := &game.Region{Name: "Kalon", Type: game.RegionOrbital, Primary: "Kalon", Active: true}
	surface := &game.Region{Name: "Kalon Surface", Type: game.RegionAirSpace, Primary: "Kalon", Location: game.Vec3{Y: -400000}}
	janus := &game.Region{Name: "Janus", Type: game.RegionOrbital, Primary: "Janus"}

	t.Run("same region", func(t *testing.T) {
		w := game.NewWorld()
		w.Regions = []*game.Region{orbit}
		carrier := addTestShip(w, orbit, "archon", 1, game.Vec3{Z: 40000}, nil)
		s := addTestShip(w, orbit, "viper", 1, game.Zero, nil)
		fa := newTestFighter(w, s)

		fa.ReturnToBase(carrier)
		if fa.RTBCode() != 1 {
			t.Fatalf("rtb code = %d, want 1", fa.RTBCode())
		}
		if fa.ObjectiveWorld() != carrier.Loc {
			t.Errorf("objective = %v, want carrier at %v", fa.ObjectiveWorld(), carrier.Loc)
		}
		if s.DirectorInfo != InfoReturnToBase {
			t.Errorf("info = %q, want %q", s.DirectorInfo, InfoReturnToBase)
		}
	})

	t.Run("same primary", func(t *testing.T) {
		w := game.NewWorld()
		w.Regions = []*game.Region{orbit, surface}
		carrier := addTestShip(w, surface, "archon", 1, game.Zero, nil)
		s := addTestShip(w, orbit, "viper", 1, game.Zero, nil)
		fa := newTestFighter(w, s)

		fa.ReturnToBase(carrier)
		if fa.RTBCode() != 2 {
			t.Fatalf("rtb code = %d, want 2", fa.RTBCode())
		}
		if want := (game.Vec3{Y: -400000}); fa.ObjectiveWorld() != want {
			t.Errorf("objective = %v, want region origin %v", fa.ObjectiveWorld(), want)
		}
		if fa.DropState() != -1 {
			t.Errorf("drop state = %d, want -1 (descend)", fa.DropState())
		}
	})

	t.Run("no way home", func(t *testing.T) {
		w := game.NewWorld()
		w.Regions = []*game.Region{orbit, janus}
		carrier := addTestShip(w, janus, "archon", 1, game.Zero, nil)
		s := addTestShip(w, orbit, "viper", 1, game.Zero, nil)
		s.RadioOrders = &game.Instruction{Radio: game.RadioRTB}
		fa := newTestFighter(w, s)

		fa.ReturnToBase(carrier)
		if fa.RTBCode() != 0 {
			t.Errorf("rtb code = %d, want 0", fa.RTBCode())
		}
		if s.RadioOrders != nil {
			t.Error("orders should be cleared when no route exists")
		}
	})

	t.Run("quantum drive", func(t *testing.T) {
		w := game.NewWorld()
		w.Regions = []*game.Region{orbit, janus}
		carrier := addTestShip(w, janus, "archon", 1, game.Vec3{X: 5000}, nil)
		s := addTestShip(w, orbit, "viper", 1, game.Zero, nil)
		s.QDrive = game.NewQuantumDrive()
		fa := newTestFighter(w, s)

		fa.ReturnToBase(carrier)
		if fa.RTBCode() != 3 {
			t.Fatalf("rtb code = %d, want 3", fa.RTBCode())
		}
		if s.QDrive.State != game.QuantumCountdown {
			t.Errorf("drive state = %v, want countdown", s.QDrive.State)
		}
		if s.QDrive.DestRegion != janus || s.QDrive.DestLoc != carrier.Loc {
			t.Errorf("drive destination = %v %v, want carrier in Janus", s.QDrive.DestRegion, s.QDrive.DestLoc)
		}
	})

	t.Run("drive bound elsewhere", func(t *testing.T) {
		w := game.NewWorld()
		w.Regions = []*game.Region{orbit, janus}
		carrier := addTestShip(w, janus, "archon", 1, game.Zero, nil)
		s := addTestShip(w, orbit, "viper", 1, game.Zero, nil)
		s.QDrive = game.NewQuantumDrive()
		s.QDrive.SetDestination(surface, game.Zero)
		s.QDrive.Engage()
		s.RadioOrders = &game.Instruction{Radio: game.RadioRTB}
		fa := newTestFighter(w, s)

		fa.ReturnToBase(carrier)
		if fa.RTBCode() != 0 {
			t.Errorf("rtb code = %d, want 0", fa.RTBCode())
		}
		if s.RadioOrders != nil {
			t.Error("orders should be cleared when the drive is committed elsewhere")
		}
		if s.QDrive.DestRegion != surface {
			t.Error("drive retargeted mid-countdown")
		}
	})

	t.Run("drive already bound home", func(t *testing.T) {
		w := game.NewWorld()
		w.Regions = []*game.Region{orbit, janus}
		carrier := addTestShip(w, janus, "archon", 1, game.Zero, nil)
		s := addTestShip(w, orbit, "viper", 1, game.Zero, nil)
		s.QDrive = game.NewQuantumDrive()
		s.QDrive.SetDestination(janus, carrier.Loc)
		s.QDrive.Engage()
		s.RadioOrders = &game.Instruction{Radio: game.RadioRTB}
		fa := newTestFighter(w, s)

		fa.ReturnToBase(carrier)
		if fa.RTBCode() != 3 {
			t.Errorf("rtb code = %d, want 3", fa.RTBCode())
		}
		if s.RadioOrders == nil {
			t.Error("orders should survive while the jump home spools up")
		}
	})

	t.Run("unpowered drive", func(t *testing.T) {
		w := game.NewWorld()
		w.Regions = []*game.Region{orbit, janus}
		carrier := addTestShip(w, janus, "archon", 1, game.Zero, nil)
		s := addTestShip(w, orbit, "viper", 1, game.Zero, nil)
		s.QDrive = game.NewQuantumDrive()
		s.QDrive.PowerOn = false
		fa := newTestFighter(w, s)

		fa.ReturnToBase(carrier)
		if fa.RTBCode() != 0 || s.QDrive.State != game.QuantumReady {
			t.Errorf("rtb code = %d drive %v, want 0 and an idle drive", fa.RTBCode(), s.QDrive.State)
		}
	})

	t.Run("farcaster", func(t *testing.T) {
		w := game.NewWorld()
		w.Regions = []*game.Region{orbit, janus}
		carrier := addTestShip(w, janus, "archon", 1, game.Zero, nil)
		gate := addGatePair(w, orbit, janus)
		s := addTestShip(w, orbit, "viper", 1, game.Vec3{Z: -200e3}, nil)
		s.QDrive = game.NewQuantumDrive()
		fa := newTestFighter(w, s)

		fa.ReturnToBase(carrier)
		if fa.RTBCode() != 3 {
			t.Fatalf("rtb code = %d, want 3", fa.RTBCode())
		}
		if fa.ActiveFarcaster() != gate.Farcaster {
			t.Error("Expected routing through the Kalon gate")
		}
		if want := (game.Vec3{Z: -10e3}); !vecApproxEqual(fa.ObjectiveWorld(), want, 1e-6) {
			t.Errorf("objective = %v, want approach point %v", fa.ObjectiveWorld(), want)
		}
		if s.DirectorInfo != InfoSeekFarcaster {
			t.Errorf("info = %q, want %q", s.DirectorInfo, InfoSeekFarcaster)
		}
		if !s.QDrive.Ready() {
			t.Error("a gate route should leave the drive idle")
		}
	})

	t.Run("same primary ignores gates and drives", func(t *testing.T) {
		w := game.NewWorld()
		w.Regions = []*game.Region{orbit, surface}
		carrier := addTestShip(w, surface, "archon", 1, game.Zero, nil)
		addGatePair(w, orbit, surface)
		s := addTestShip(w, orbit, "viper", 1, game.Zero, nil)
		s.QDrive = game.NewQuantumDrive()
		fa := newTestFighter(w, s)

		fa.ReturnToBase(carrier)
		if fa.RTBCode() != 2 {
			t.Fatalf("rtb code = %d, want 2", fa.RTBCode())
		}
		if fa.ActiveFarcaster() != nil {
			t.Error("same primary transit should not pick a gate")
		}
		if !s.QDrive.Ready() || s.QDrive.DestRegion != nil {
			t.Errorf("same primary transit should not touch the drive, state %v", s.QDrive.State)
		}
	})

	t.Run("nil controller", func(t *testing.T) {
		w, r := newTestWorld()
		s := addTestShip(w, r, "viper", 1, game.Zero, nil)
		fa := newTestFighter(w, s)
		fa.ReturnToBase(nil)
		if fa.RTBCode() != 0 {
			t.Errorf("rtb code = %d, want 0", fa.RTBCode())
		}
	})
}

func TestFindObjectiveFarcaster(t *testing.T) {
	kalon := &game.Region{Name: "Kalon", Type: game.RegionOrbital, Primary: "Kalon", Active: true}
	janus := &game.Region{Name: "Janus", Type: game.RegionOrbital, Primary: "Janus"}
	apt := game.Vec3{Z: -10e3}
	npt := game.Vec3{Z: 800}

	tests := []struct {
		name     string
		loc      game.Vec3
		wantObj  game.Vec3
		wantDist float64
	}{
		{"far out", game.Vec3{Z: -200e3}, apt, 200800},
		{"lined up", game.Vec3{Z: -9000}, npt, 9800},
		{"inside the approach", game.Vec3{}, npt, 800},
		{"off axis", game.Vec3{X: 30000}, apt, 31622.7766},
		{"near but behind the approach", game.Vec3{Z: -49000}, apt, 39000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := game.NewWorld()
			w.Regions = []*game.Region{kalon, janus}
			gate := addGatePair(w, kalon, janus)
			s := addTestShip(w, kalon, "viper", 1, tt.loc, nil)
			fa := newTestFighter(w, s)

			if !fa.findObjectiveFarcaster(kalon, janus) {
				t.Fatal("Expected the Kalon gate to be found")
			}
			if fa.ActiveFarcaster() != gate.Farcaster {
				t.Error("gate not remembered as the active farcaster")
			}
			if !vecApproxEqual(fa.ObjectiveWorld(), tt.wantObj, 1e-6) {
				t.Errorf("objective = %v, want %v", fa.ObjectiveWorld(), tt.wantObj)
			}
			if !approxEqual(fa.Distance(), tt.wantDist, 1e-3) {
				t.Errorf("distance = %.4f, want %.4f", fa.Distance(), tt.wantDist)
			}
		})
	}

	t.Run("gate to elsewhere", func(t *testing.T) {
		other := &game.Region{Name: "Ilon", Type: game.RegionOrbital, Primary: "Ilon"}
		w := game.NewWorld()
		w.Regions = []*game.Region{kalon, janus, other}
		addGatePair(w, kalon, other)
		s := addTestShip(w, kalon, "viper", 1, game.Zero, nil)
		fa := newTestFighter(w, s)

		if fa.findObjectiveFarcaster(kalon, janus) || fa.ActiveFarcaster() != nil {
			t.Error("a gate into another region should not be used")
		}
	})
}

func TestFindObjectiveFollowsRTBOrder(t *testing.T) {
	w, r := newTestWorld()
	carrier := addTestShip(w, r, "archon", 1, game.Vec3{Z: 20000}, nil)
	s := addTestShip(w, r, "viper", 1, game.Zero, nil)
	s.Controller = carrier.ID
	s.RadioOrders = &game.Instruction{Radio: game.RadioRTB}
	fa := newTestFighter(w, s)

	fa.FindObjective()

	if fa.RTBCode() != 1 {
		t.Errorf("rtb code = %d, want 1", fa.RTBCode())
	}
	if !approxEqual(fa.Distance(), 20000, 1e-6) {
		t.Errorf("distance = %f, want 20000", fa.Distance())
	}
	if fa.Objective().Z <= 0 {
		t.Errorf("objective = %v, want ahead", fa.Objective())
	}
}

func TestFindObjectiveFormation(t *testing.T) {
	t.Run("lone ship keeps station", func(t *testing.T) {
		w, r := newTestWorld()
		s := addTestShip(w, r, "viper", 1, game.Zero, nil)
		fa := newTestFighter(w, s)

		fa.FindObjectiveFormation()
		if fa.Distance() != -1 {
			t.Errorf("distance = %f, want -1", fa.Distance())
		}
	})

	t.Run("stopped ward nearby", func(t *testing.T) {
		w, r := newTestWorld()
		ward := addTestShip(w, r, "corvette", 1, game.Vec3{Z: 10000}, nil)
		s := addTestShip(w, r, "viper", 1, game.Zero, nil)
		s.Ward = ward.ID
		fa := newTestFighter(w, s)

		fa.FindObjectiveFormation()
		if fa.Distance() != -1 {
			t.Errorf("distance = %f, want -1", fa.Distance())
		}
	})

	t.Run("wingman slot", func(t *testing.T) {
		w, r := newTestWorld()
		elem := &game.Element{Name: "Alpha", IFF: 1}
		w.Elements = append(w.Elements, elem)
		addTestShip(w, r, "viper", 1, game.Zero, elem)
		s := addTestShip(w, r, "viper", 1, game.Vec3{X: -2000, Z: -3000}, elem)
		fa := newTestFighter(w, s)
		fa.SetFormationDelta(game.Vec3{X: -100, Z: 100})

		fa.FindObjectiveFormation()
		if want := (game.Vec3{X: 100, Z: -100}); !vecApproxEqual(fa.ObjectiveWorld(), want, 1e-6) {
			t.Errorf("slot = %v, want %v behind and right of the lead", fa.ObjectiveWorld(), want)
		}
		if fa.Distance() <= 0 {
			t.Errorf("distance = %f, want positive", fa.Distance())
		}
	})
}

func TestFindObjectiveTargetBracket(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  game.Vec3
	}{
		{"even index goes left", 2, game.Vec3{X: -15000, Z: 50000}},
		{"odd index goes right", 1, game.Vec3{X: 15000, Z: 50000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, r := newTestWorld()
			tgt := addTestShip(w, r, "corvette", 2, game.Vec3{Z: 50000}, nil)
			s := addTestShip(w, r, "viper", 1, game.Zero, nil)
			s.ElementIndex = tt.index
			fa := newTestFighter(w, s)
			fa.SetTarget(tgt.ID)
			fa.SetBracket(true)

			fa.FindObjectiveTarget(tgt)
			if !vecApproxEqual(fa.ObjectiveWorld(), tt.want, 1e-6) {
				t.Errorf("objective = %v, want %v", fa.ObjectiveWorld(), tt.want)
			}
		})
	}
}

func TestSetTargetCancelsBracket(t *testing.T) {
	w, r := newTestWorld()
	a := addTestShip(w, r, "corvette", 2, game.Vec3{Z: 50000}, nil)
	b := addTestShip(w, r, "corvette", 2, game.Vec3{X: 50000}, nil)
	s := addTestShip(w, r, "viper", 1, game.Zero, nil)
	fa := newTestFighter(w, s)

	fa.SetTarget(a.ID)
	fa.SetBracket(true)
	fa.SetTarget(a.ID)
	if !fa.bracket {
		t.Error("reselecting the same target should keep the bracket")
	}
	fa.SetTarget(b.ID)
	if fa.bracket {
		t.Error("a new target should cancel the bracket")
	}
}

func TestFindObjectivePatrolArrival(t *testing.T) {
	w, r := newTestWorld()
	s := addTestShip(w, r, "viper", 1, game.Zero, nil)
	s.RadioOrders = &game.Instruction{Radio: game.RadioMovePatrol}
	fa := newTestFighter(w, s)

	fa.SetPatrol(game.Vec3{Z: 5000})
	fa.FindObjectivePatrol()
	if _, on := fa.Patrolling(); !on {
		t.Fatal("patrol ended before arrival")
	}

	s.Loc = game.Vec3{Z: 4500}
	fa.FindObjectivePatrol()
	if _, on := fa.Patrolling(); on {
		t.Error("patrol still active on arrival")
	}
	if s.RadioOrders != nil {
		t.Error("patrol orders not cleared on arrival")
	}
}

func TestNavPointCompletion(t *testing.T) {
	tests := []struct {
		name   string
		action game.InstructionAction
		loc    game.Vec3
		want   game.InstructionStatus
	}{
		{"vector arrived", game.ActionVector, game.Vec3{Z: 500}, game.StatusComplete},
		{"vector far", game.ActionVector, game.Vec3{Z: 5000}, game.StatusActive},
		{"launch departed", game.ActionLaunch, game.Vec3{Z: 30000}, game.StatusComplete},
		{"launch still close", game.ActionLaunch, game.Vec3{Z: 10000}, game.StatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, r := newTestWorld()
			n := &game.Instruction{Action: tt.action, Status: game.StatusActive, Location: tt.loc}
			elem := &game.Element{Name: "Alpha", IFF: 1, NavList: []*game.Instruction{n}}
			s := addTestShip(w, r, "viper", 1, game.Zero, elem)
			fa := newTestFighter(w, s)
			fa.SetNavPoint(n)

			fa.findObjectiveNavPoint()
			if n.Status != tt.want {
				t.Errorf("status = %v, want %v", n.Status, tt.want)
			}
			if n.Region != r {
				t.Error("navpoint region not defaulted to the ship's region")
			}
		})
	}
}

func TestFindObjectiveRulesOrder(t *testing.T) {
	w, r := newTestWorld()
	tgt := addTestShip(w, r, "viper", 2, game.Vec3{Z: 8000}, nil)
	threat := addTestShip(w, r, "viper", 2, game.Vec3{X: 5000}, nil)
	s := addTestShip(w, r, "viper", 1, game.Zero, nil)
	fa := newTestFighter(w, s)

	fa.SetTarget(tgt.ID)
	fa.findObjectiveRules()
	if s.DirectorInfo != InfoSeekTarget {
		t.Errorf("info = %q, want %q", s.DirectorInfo, InfoSeekTarget)
	}

	// an undirected threat that is not the target means retreat
	fa.SetThreat(threat.ID)
	fa.findObjectiveRules()
	if s.DirectorInfo != InfoRetreat {
		t.Errorf("info = %q, want %q", s.DirectorInfo, InfoRetreat)
	}
	if fa.ObjectiveWorld().X >= 0 {
		t.Errorf("retreat objective = %v, want away from the threat", fa.ObjectiveWorld())
	}

	// a directed attack presses on
	s.RadioOrders = &game.Instruction{Radio: game.RadioAttack, Target: tgt.ID}
	fa.findObjectiveRules()
	if s.DirectorInfo != InfoSeekTarget {
		t.Errorf("directed info = %q, want %q", s.DirectorInfo, InfoSeekTarget)
	}

	s.RadioOrders = nil
	fa.SetThreat(game.NoObject)
	fa.SetTarget(game.NoObject)
	fa.findObjectiveRules()
	if fa.Objective() != game.Zero {
		t.Errorf("objective = %v, want zero with nothing to do", fa.Objective())
	}
}
