package server

import (
	"github.com/lab1702/fighter-ai/ai"
	"github.com/lab1702/fighter-ai/game"
)

// Test helpers to expose private methods for testing purposes
// This file should only be used for testing and not in production

// Step advances the simulation by seconds
func (s *Server) Step(seconds float64) {
	s.simMu.Lock()
	defer s.simMu.Unlock()
	s.step(seconds)
}

// World returns the simulated world
func (s *Server) World() *game.World {
	return s.world
}

// Pilot returns the autopilot flying a ship
func (s *Server) Pilot(id game.ObjectID) *ai.FighterAI {
	return s.pilots[id]
}

// Paused reports whether the clock is stopped
func (s *Server) Paused() bool {
	s.simMu.RLock()
	defer s.simMu.RUnlock()
	return s.paused
}

// Snapshot captures a telemetry frame
func (s *Server) Snapshot() Frame {
	s.simMu.RLock()
	defer s.simMu.RUnlock()
	return s.snapshot()
}
