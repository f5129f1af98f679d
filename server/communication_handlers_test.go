package server

import (
	"testing"

	"github.com/lab1702/fighter-ai/game"
)

// newRecoveryWorld returns a carrier and a fighter assigned to it
func newRecoveryWorld(t *testing.T, carrierDesign string) (*Server, *game.Ship, *game.Ship) {
	t.Helper()
	w, r := newTestWorld()
	carrier := addShip(w, r, "Carrier", carrierDesign, 1, game.Zero)
	ship := game.NewShip("Alpha 1", game.Designs["viper"], 1)
	ship.Region = r
	ship.Loc = game.V(0, 0, -30e3)
	ship.Controller = carrier.ID
	w.AddShip(ship)
	return newTestServer(w), carrier, ship
}

func TestInboundCall(t *testing.T) {
	s, carrier, ship := newRecoveryWorld(t, "archon")
	w := s.World()

	w.Radio.SendQuickMessage(ship, game.RadioCallInbound)
	s.updateRadioTraffic()

	if ship.Inbound == nil || ship.Inbound.Deck != carrier.Deck {
		t.Fatal("Expected the fighter queued on the carrier's deck")
	}
	if ship.Phase != game.PhaseApproach {
		t.Errorf("Expected approach phase, got %s", ship.Phase)
	}
	if got := ship.Inbound.Approach(); got != 2 {
		t.Errorf("Expected to start at the outer approach leg 2, got %d", got)
	}
	if len(s.traffic) != 1 || s.traffic[0].Action != game.RadioCallInbound {
		t.Errorf("Expected the inbound call in this frame's traffic, got %v", s.traffic)
	}

	replies := w.Radio.Drain()
	if len(replies) != 1 {
		t.Fatalf("Expected 1 reply, got %d", len(replies))
	}
	if replies[0].Action != game.RadioAck || replies[0].To != ship.ID || replies[0].From != carrier.ID {
		t.Errorf("unexpected reply %+v", replies[0])
	}
}

func TestInboundRefused(t *testing.T) {
	tests := []struct {
		name    string
		design  string
		prepare func(carrier *game.Ship)
	}{
		{"no flight deck", "corvette", nil},
		{"hangar full", "archon", func(carrier *game.Ship) {
			for i := 0; i < carrier.Hangar.Capacity; i++ {
				carrier.Hangar.Stow(game.ObjectID(1000 + i))
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, carrier, ship := newRecoveryWorld(t, tt.design)
			if tt.prepare != nil {
				tt.prepare(carrier)
			}

			s.World().Radio.SendQuickMessage(ship, game.RadioCallInbound)
			s.updateRadioTraffic()

			if ship.Inbound != nil {
				t.Error("fighter should not be queued")
			}
			replies := s.World().Radio.Drain()
			if len(replies) != 1 || replies[0].Action != game.RadioNack || replies[0].To != ship.ID {
				t.Errorf("Expected a single unable reply, got %+v", replies)
			}
		})
	}
}

func TestLandingClearance(t *testing.T) {
	s, carrier, ship := newRecoveryWorld(t, "archon")
	w := s.World()
	slot := carrier.Deck.Inbound(ship)

	// still on the outer legs
	s.updateRadioTraffic()
	if slot.Cleared() || w.Radio.Pending() != 0 {
		t.Fatal("cleared before reaching the marshal point")
	}

	slot.SetApproach(0)
	s.updateRadioTraffic()
	if !slot.Cleared() {
		t.Fatal("Expected clearance at the marshal point")
	}
	calls := w.Radio.Drain()
	if len(calls) != 1 || calls[0].Action != game.RadioCallClearance || calls[0].To != ship.ID {
		t.Errorf("Expected a clearance call to the fighter, got %+v", calls)
	}

	// cleared once only
	s.updateRadioTraffic()
	for _, msg := range w.Radio.Drain() {
		if msg.Action == game.RadioCallClearance {
			t.Error("clearance repeated")
		}
	}
}

func TestRecoverDocked(t *testing.T) {
	s, carrier, ship := newRecoveryWorld(t, "archon")
	w := s.World()
	spare := addShip(w, ship.Region, "Spare", "corvette", 1, game.V(0, 0, 9000))
	spare.Phase = game.PhaseDocked

	carrier.Deck.Dock(ship)
	s.updateRadioTraffic()

	if w.Ship(ship.ID) != nil || s.Pilot(ship.ID) != nil {
		t.Error("recovered fighter should leave the simulation")
	}
	if len(carrier.Hangar.Stowed) != 1 || carrier.Hangar.Stowed[0] != ship.ID {
		t.Errorf("Expected the fighter stowed in the hangar, got %v", carrier.Hangar.Stowed)
	}
	if w.Ship(spare.ID) == nil {
		t.Error("ships without an autopilot are left alone")
	}
}
