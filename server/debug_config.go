package server

import (
	"go.uber.org/zap"

	"github.com/lab1702/fighter-ai/game"
)

// Debug flags for various subsystems
var (
	DebugWeapons = false // Set to true to enable detailed weapon hit logs
	DebugTraffic = false // Set to true to log every radio call
)

var logger = zap.NewNop()

// SetLogger installs the logger used by the simulation server. A nil
// logger silences output.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l.Named("server")
}

// logWeaponDecision logs weapon resolution when debugging is enabled
func logWeaponDecision(weapon, decision, reason, ship string, dist, maxRange float64) {
	if DebugWeapons {
		logger.Debug("weapon",
			zap.String("weapon", weapon),
			zap.String("decision", decision),
			zap.String("reason", reason),
			zap.String("ship", ship),
			zap.Float64("dist", dist),
			zap.Float64("maxRange", maxRange))
	}
}

// logRadioCall logs a radio message when debugging is enabled
func logRadioCall(msg game.RadioMessage, from string) {
	if DebugTraffic {
		logger.Debug("radio",
			zap.String("from", from),
			zap.String("call", msg.Action.String()),
			zap.Uint64("to", uint64(msg.To)),
			zap.Int64("time", msg.Time))
	}
}
