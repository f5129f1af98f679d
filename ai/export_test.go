package ai

import (
	"math"
	"math/rand"

	"github.com/lab1702/fighter-ai/game"
)

// Test helpers to build small worlds around a single autopilot.
// This file should only be used for testing and not in production

// newTestWorld returns a world with one active deep space region
func newTestWorld() (*game.World, *game.Region) {
	w := game.NewWorld()
	r := &game.Region{Name: "Test", Type: game.RegionSpace, Primary: "Test", Active: true}
	w.Regions = append(w.Regions, r)
	return w, r
}

// addTestShip adds a ship of the named design, past its launch window
func addTestShip(w *game.World, r *game.Region, design string, iff int, loc game.Vec3, elem *game.Element) *game.Ship {
	s := game.NewShip(design, game.Designs[design], iff)
	s.Region = r
	s.Element = elem
	s.Loc = loc
	s.MissionClock = 60000
	w.AddShip(s)
	w.IndexContacts()
	return s
}

// newTestFighter attaches an autopilot with a fixed random source
func newTestFighter(w *game.World, s *game.Ship) *FighterAI {
	fa := New(s, w, DefaultTuning())
	fa.SetRand(rand.New(rand.NewSource(1)))
	return fa
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func vecApproxEqual(a, b game.Vec3, tol float64) bool {
	return approxEqual(a.X, b.X, tol) && approxEqual(a.Y, b.Y, tol) && approxEqual(a.Z, b.Z, tol)
}

// addGatePair links a farcaster at the origin of from to a partner in to,
// returning the near gate
func addGatePair(w *game.World, from, to *game.Region) *game.Ship {
	near := addTestShip(w, from, "farcaster", 1, game.Zero, nil)
	far := addTestShip(w, to, "farcaster", 1, game.Zero, nil)
	near.Farcaster.Dest = far.ID
	far.Farcaster.Dest = near.ID
	return near
}
