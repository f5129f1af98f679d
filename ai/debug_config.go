package ai

import "go.uber.org/zap"

// Debug flags for various subsystems
var (
	DebugFireControl = false // Set to true to log every trigger decision
)

var logger = zap.NewNop()

// SetLogger installs the logger used by every autopilot. A nil logger
// silences output.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l.Named("ai")
}

// logFireDecision logs fire control decisions when debugging is enabled
func logFireDecision(weapon, decision, reason, ship string, dist, maxRange float64) {
	if DebugFireControl {
		logger.Debug("fire control",
			zap.String("weapon", weapon),
			zap.String("decision", decision),
			zap.String("reason", reason),
			zap.String("ship", ship),
			zap.Float64("dist", dist),
			zap.Float64("maxRange", maxRange))
	}
}
