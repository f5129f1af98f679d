package server

import (
	"math"
	"testing"

	"github.com/lab1702/fighter-ai/game"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// newPilotedShip returns a viper under autopilot at the origin, heading +Z
func newPilotedShip(t *testing.T) (*Server, *game.Ship) {
	t.Helper()
	w, r := newTestWorld()
	ship := addShip(w, r, "Alpha 1", "viper", 1, game.Zero)
	s := newTestServer(w)
	if s.Pilot(ship.ID) == nil {
		t.Fatal("expected an autopilot")
	}
	return s, ship
}

func TestThrust(t *testing.T) {
	tests := []struct {
		name      string
		throttle  int
		augmenter bool
		seconds   float64
		wantSpeed float64
		wantFuel  float64
	}{
		{"idle", 0, false, 1, 0, 100},
		{"half throttle", 50, false, 1, 60, 99.99},
		{"military", 100, false, 1, 120, 99.98},
		{"augmenter", 100, true, 1, 180, 99.92},
		{"short frame", 100, false, 0.1, 12, 99.998},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ship := newPilotedShip(t)
			ship.SetThrottle(tt.throttle)
			ship.SetAugmenter(tt.augmenter)

			s.updateShipPhysics(ship, tt.seconds)

			if !approxEqual(ship.Vel.Z, tt.wantSpeed, 1e-9) || ship.Vel.X != 0 || ship.Vel.Y != 0 {
				t.Errorf("Expected velocity (0, 0, %.1f), got %v", tt.wantSpeed, ship.Vel)
			}
			if !approxEqual(ship.Loc.Z, tt.wantSpeed*tt.seconds, 1e-9) {
				t.Errorf("Expected to travel %.2f m, got %v", tt.wantSpeed*tt.seconds, ship.Loc)
			}
			if !approxEqual(ship.Fuel, tt.wantFuel, 1e-9) {
				t.Errorf("Expected fuel %.3f, got %.5f", tt.wantFuel, ship.Fuel)
			}
		})
	}
}

func TestVelocityLimit(t *testing.T) {
	tests := []struct {
		name      string
		augmenter bool
		want      float64
	}{
		{"military", false, 1000},
		{"augmenter", true, 1200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ship := newPilotedShip(t)
			ship.Vel = game.V(0, 0, 1190)
			ship.SetThrottle(100)
			ship.SetAugmenter(tt.augmenter)

			s.updateShipPhysics(ship, 1)

			if !approxEqual(ship.Speed(), tt.want, 1e-9) {
				t.Errorf("Expected speed %.0f, got %.3f", tt.want, ship.Speed())
			}
		})
	}
}

func TestFullStop(t *testing.T) {
	tests := []struct {
		name  string
		speed float64
		want  float64
	}{
		// viper stops at thrust + fore and aft thrusters, 180 m/s²
		{"stops", 100, 0},
		{"exactly", 180, 0},
		{"slows", 500, 320},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ship := newPilotedShip(t)
			ship.Vel = game.V(0, 0, tt.speed)
			ship.SetThrottle(100)
			ship.FullStop()

			s.updateShipPhysics(ship, 1)

			if !approxEqual(ship.Speed(), tt.want, 1e-9) {
				t.Errorf("Expected speed %.0f, got %.3f", tt.want, ship.Speed())
			}
			if ship.Helm.FullStop {
				t.Error("full stop should be cleared after the frame")
			}
		})
	}
}

func TestAttitude(t *testing.T) {
	tests := []struct {
		name        string
		yaw         float64
		pitch       float64
		roll        float64
		seconds     float64
		wantForward game.Vec3
	}{
		// viper turns at 1.4 rad/s
		{"yaw right", 1, 0, 0, 0.5, game.V(math.Sin(0.7), 0, math.Cos(0.7))},
		{"yaw left", -1, 0, 0, 0.5, game.V(-math.Sin(0.7), 0, math.Cos(0.7))},
		{"nose up", 0, -1, 0, 0.5, game.V(0, math.Sin(0.7), math.Cos(0.7))},
		{"nose down", 0, 1, 0, 0.5, game.V(0, -math.Sin(0.7), math.Cos(0.7))},
		// banked right, the bank pulls the nose around
		{"bank coupling", 0, 0, -0.4, 1, game.V(math.Sin(0.28), 0, math.Cos(0.28))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ship := newPilotedShip(t)
			ship.ApplyYaw(tt.yaw)
			ship.ApplyPitch(tt.pitch)
			ship.ApplyRoll(tt.roll)

			s.updateShipPhysics(ship, tt.seconds)

			f := ship.Cam.Forward
			if !approxEqual(f.X, tt.wantForward.X, 1e-9) ||
				!approxEqual(f.Y, tt.wantForward.Y, 1e-9) ||
				!approxEqual(f.Z, tt.wantForward.Z, 1e-9) {
				t.Errorf("Expected forward %v, got %v", tt.wantForward, f)
			}
		})
	}
}

func TestWingsLevel(t *testing.T) {
	s, ship := newPilotedShip(t)
	ship.Cam.Roll(0.3)

	for i := 0; i < 50; i++ {
		s.updateShipPhysics(ship, 0.1)
	}

	if bank := math.Asin(ship.Cam.Right.Y); math.Abs(bank) > 0.01 {
		t.Errorf("Expected wings level, bank is %.3f rad", bank)
	}
}

func TestSideslipDamping(t *testing.T) {
	tests := []struct {
		name  string
		flcs  game.FLCSMode
		wantX float64
	}{
		{"manual keeps sideslip", game.FLCSManual, 100},
		{"auto bleeds sideslip", game.FLCSAuto, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ship := newPilotedShip(t)
			ship.Vel = game.V(100, 0, 0)
			ship.SetFLCSMode(tt.flcs)

			s.updateShipPhysics(ship, 0.5)

			if !approxEqual(ship.Vel.X, tt.wantX, 1e-9) {
				t.Errorf("Expected lateral velocity %.0f, got %.3f", tt.wantX, ship.Vel.X)
			}
		})
	}
}

func TestThrustersClearedAfterFrame(t *testing.T) {
	s, ship := newPilotedShip(t)
	ship.SetTransX(10)
	ship.SetTransY(-60)
	ship.SetTransZ(5)

	s.updateShipPhysics(ship, 0.1)

	h := ship.Helm
	if h.TransX != 0 || h.TransY != 0 || h.TransZ != 0 {
		t.Errorf("Expected thrusters cleared, got %.1f %.1f %.1f", h.TransX, h.TransY, h.TransZ)
	}
	// fore and aft thrusters act along the boresight
	if !approxEqual(ship.Vel.Z, -6, 1e-9) {
		t.Errorf("Expected braking to -6 m/s, got %v", ship.Vel)
	}
}

func TestShipsWithoutAutopilot(t *testing.T) {
	w, r := newTestWorld()
	corvette := addShip(w, r, "Berents", "corvette", 1, game.Zero)
	docked := addShip(w, r, "Spare", "viper", 1, game.V(0, 0, 500))
	gate := addShip(w, r, "Gate", "farcaster", 1, game.V(0, 0, 9000))
	s := newTestServer(w)

	corvette.Vel = game.V(0, 0, 40)
	corvette.SetThrottle(100)
	corvette.ApplyYaw(1)
	docked.Phase = game.PhaseDocked
	docked.Vel = game.V(0, 0, 40)
	gate.Vel = game.V(0, 0, 40)

	for _, ship := range w.Ships() {
		s.updateShipPhysics(ship, 1)
	}

	if corvette.Loc != game.V(0, 0, 40) {
		t.Errorf("Expected corvette to coast to (0, 0, 40), got %v", corvette.Loc)
	}
	if corvette.Cam != game.NewCamera() {
		t.Error("a ship with no director should not turn")
	}
	if docked.Loc != game.V(0, 0, 500) {
		t.Errorf("docked ship moved to %v", docked.Loc)
	}
	if gate.Loc != game.V(0, 0, 9000) {
		t.Errorf("static ship moved to %v", gate.Loc)
	}
}

func TestQuantumJump(t *testing.T) {
	w, r := newTestWorld()
	dest := &game.Region{Name: "Janus", Type: game.RegionOrbital, Primary: "Janus", Active: true}
	w.Regions = append(w.Regions, dest)
	ship := addShip(w, r, "Berents", "corvette", 1, game.V(100, 0, 100))
	s := newTestServer(w)

	ship.QDrive.SetDestination(dest, game.V(0, 0, 5000))
	ship.QDrive.Engage()

	s.updateJumps(1)
	if ship.Region != r || ship.QDrive.State != game.QuantumCountdown {
		t.Fatal("jump happened before the countdown ran out")
	}

	s.updateJumps(1.5)
	if ship.Region != dest {
		t.Fatalf("Expected ship in %s, got %s", dest.Name, ship.Region.Name)
	}
	if ship.Loc != game.V(0, 0, 5000) {
		t.Errorf("Expected arrival at (0, 0, 5000), got %v", ship.Loc)
	}
	if ship.QDrive.State != game.QuantumReady || ship.QDrive.DestRegion != nil {
		t.Error("drive should be ready with no destination after the jump")
	}
}

// gateDirector is a director routed through a fixed farcaster
type gateDirector struct {
	gate *game.Farcaster
}

func (d gateDirector) Kind() game.DirectorKind          { return game.DirectorFighter }
func (d gateDirector) ActiveFarcaster() *game.Farcaster { return d.gate }

func TestFarcasterTransit(t *testing.T) {
	w, r := newTestWorld()
	far := &game.Region{Name: "Ostara", Type: game.RegionOrbital, Primary: "Ostara", Active: true}
	w.Regions = append(w.Regions, far)

	entry := addShip(w, r, "Gate A", "farcaster", 1, game.Zero)
	exit := addShip(w, far, "Gate B", "farcaster", 1, game.Zero)
	exit.Cam = game.CameraFromHeading(math.Pi / 2)
	entry.Farcaster.Dest = exit.ID
	exit.Farcaster.Dest = entry.ID

	tests := []struct {
		name     string
		loc      game.Vec3
		wantGone bool
	}{
		{"captured", game.V(0, 0, 700), true},
		{"outside capture radius", game.V(0, 0, -5000), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ship := addShip(w, r, "Alpha 1", "viper", 1, tt.loc)
			ship.Vel = game.V(0, 0, 300)
			ship.Director = gateDirector{gate: entry.Farcaster}
			s := &Server{world: w}

			s.checkFarcaster(ship)

			if !tt.wantGone {
				if ship.Region != r || ship.Loc != tt.loc {
					t.Errorf("ship moved to %s %v", ship.Region.Name, ship.Loc)
				}
				return
			}
			if ship.Region != far {
				t.Fatalf("Expected ship in %s, got %s", far.Name, ship.Region.Name)
			}
			end := exit.Farcaster.EndPoint()
			if game.Distance(ship.Loc, end) > 1e-6 {
				t.Errorf("Expected exit at %v, got %v", end, ship.Loc)
			}
			if !approxEqual(ship.Vel.X, 300, 1e-6) || !approxEqual(ship.Speed(), 300, 1e-6) {
				t.Errorf("Expected to leave on the gate heading at 300 m/s, got %v", ship.Vel)
			}
		})
	}
}
