package ai

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the numeric constants of the fighter control laws.
// DefaultTuning reproduces the stock autopilot; a YAML file may override
// any subset of the fields.
type Tuning struct {
	// Seek law
	SeekGain      float64 `yaml:"seek_gain"`
	SeekDamp      float64 `yaml:"seek_damp"`
	FormationGain float64 `yaml:"formation_gain"`
	ClimbOverride float64 `yaml:"climb_override"` // vertical offset that forces full pitch

	// Skill scaling: factors are SkillScaleBase - ai_level
	SkillScaleBase float64 `yaml:"skill_scale_base"`

	// Threat handling
	ThreatRange       float64 `yaml:"threat_range"`
	DefensePerimeter  float64 `yaml:"defense_perimeter"`
	DefenseScale      float64 `yaml:"defense_scale"`
	SupportRange      float64 `yaml:"support_range"`
	JinkRateStarship  int64   `yaml:"jink_rate_starship"`  // ms, no target held
	JinkRateEngaged   int64   `yaml:"jink_rate_engaged"`   // ms, attacking a starship
	JinkRateBase      int64   `yaml:"jink_rate_base"`      // ms, fighter threat
	JinkRatePerSkill  int64   `yaml:"jink_rate_per_skill"` // ms added per missing skill level
	FoxCallInterval   int64   `yaml:"fox_call_interval"`   // ms
	EngageCallTimeout int64   `yaml:"engage_call_timeout"` // ms

	// Altitude limits
	MaxAltitudeMSL   float64 `yaml:"max_altitude_msl"`
	NavptCeilingMSL  float64 `yaml:"navpt_ceiling_msl"`
	MinAltitudeAGL   float64 `yaml:"min_altitude_agl"`
	FloorAltitudeAGL float64 `yaml:"floor_altitude_agl"`

	// Recovery
	TimeToDock    float64 `yaml:"time_to_dock"` // seconds of scripted glide
	InboundRange  float64 `yaml:"inbound_range"`
	HoldShortDist float64 `yaml:"hold_short_distance"`

	// Throttle
	ThrottleRampStep int     `yaml:"throttle_ramp_step"`
	TransitSpeed     float64 `yaml:"transit_speed"`
	PatrolSpeed      float64 `yaml:"patrol_speed"`
	IdleThrottle     int     `yaml:"idle_throttle"`

	// Collision avoidance
	AvoidTime     float64 `yaml:"avoid_time"` // seconds of lookahead
	AvoidInterval int64   `yaml:"avoid_interval"`
}

// DefaultTuning returns the stock constants.
func DefaultTuning() Tuning {
	return Tuning{
		SeekGain:      22,
		SeekDamp:      0.55,
		FormationGain: 50,
		ClimbOverride: 5e3,

		SkillScaleBase: 3,

		ThreatRange:       20e3,
		DefensePerimeter:  15e3,
		DefenseScale:      1.2,
		SupportRange:      35e3,
		JinkRateStarship:  1500,
		JinkRateEngaged:   1000,
		JinkRateBase:      400,
		JinkRatePerSkill:  200,
		FoxCallInterval:   6000,
		EngageCallTimeout: 10000,

		MaxAltitudeMSL:   25e3,
		NavptCeilingMSL:  27e3,
		MinAltitudeAGL:   2500,
		FloorAltitudeAGL: 1500,

		TimeToDock:    30,
		InboundRange:  35e3,
		HoldShortDist: 2000,

		ThrottleRampStep: 5,
		TransitSpeed:     750,
		PatrolSpeed:      250,
		IdleThrottle:     35,

		AvoidTime:     15,
		AvoidInterval: 500,
	}
}

// LoadTuning reads a YAML override on top of DefaultTuning.
func LoadTuning(r io.Reader) (Tuning, error) {
	t := DefaultTuning()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return t, fmt.Errorf("decode tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// LoadTuningFile reads a tuning override from disk.
func LoadTuningFile(path string) (Tuning, error) {
	f, err := os.Open(path)
	if err != nil {
		return DefaultTuning(), fmt.Errorf("open tuning: %w", err)
	}
	defer f.Close()
	return LoadTuning(f)
}

// Validate rejects constants that would make the control laws diverge.
func (t Tuning) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"seek_gain", t.SeekGain},
		{"formation_gain", t.FormationGain},
		{"skill_scale_base", t.SkillScaleBase},
		{"threat_range", t.ThreatRange},
		{"defense_perimeter", t.DefensePerimeter},
		{"defense_scale", t.DefenseScale},
		{"time_to_dock", t.TimeToDock},
		{"transit_speed", t.TransitSpeed},
		{"patrol_speed", t.PatrolSpeed},
		{"avoid_time", t.AvoidTime},
	}
	for _, p := range positive {
		if p.v <= 0 {
			return fmt.Errorf("tuning %s must be positive, got %g", p.name, p.v)
		}
	}
	if t.SeekDamp < 0 || t.SeekDamp >= 1 {
		return fmt.Errorf("tuning seek_damp must be in [0,1), got %g", t.SeekDamp)
	}
	if t.MinAltitudeAGL < t.FloorAltitudeAGL {
		return fmt.Errorf("tuning min_altitude_agl %g below floor_altitude_agl %g", t.MinAltitudeAGL, t.FloorAltitudeAGL)
	}
	if t.ThrottleRampStep <= 0 || t.ThrottleRampStep > 100 {
		return fmt.Errorf("tuning throttle_ramp_step must be in 1-100, got %d", t.ThrottleRampStep)
	}
	if t.IdleThrottle < 0 || t.IdleThrottle > 100 {
		return fmt.Errorf("tuning idle_throttle must be in 0-100, got %d", t.IdleThrottle)
	}
	if t.JinkRateStarship < 0 || t.JinkRateEngaged < 0 || t.JinkRateBase < 0 || t.AvoidInterval < 0 {
		return errors.New("tuning intervals must not be negative")
	}
	return nil
}
