package ai

import "math"

// Steer is one steering contribution. Yaw and Pitch are normalized rates
// (pitch -1 is full nose-up). Brake is a 0..1 braking demand and Stop asks
// the flight control system for a full stop.
type Steer struct {
	Yaw   float64
	Pitch float64
	Roll  float64
	Brake float64
	Stop  bool
}

// Add sums the rates and keeps the stronger brake.
func (s Steer) Add(o Steer) Steer {
	return Steer{
		Yaw:   s.Yaw + o.Yaw,
		Pitch: s.Pitch + o.Pitch,
		Roll:  s.Roll + o.Roll,
		Brake: math.Max(s.Brake, o.Brake),
	}
}

// Sub subtracts the rates and keeps the weaker brake.
func (s Steer) Sub(o Steer) Steer {
	return Steer{
		Yaw:   s.Yaw - o.Yaw,
		Pitch: s.Pitch - o.Pitch,
		Roll:  s.Roll - o.Roll,
		Brake: math.Min(s.Brake, o.Brake),
	}
}

// Scale multiplies the rates. Brake and Stop are unchanged.
func (s Steer) Scale(f float64) Steer {
	return Steer{Yaw: s.Yaw * f, Pitch: s.Pitch * f, Roll: s.Roll * f, Brake: s.Brake, Stop: s.Stop}
}

// Div divides the rates. Brake and Stop are unchanged.
func (s Steer) Div(f float64) Steer {
	return Steer{Yaw: s.Yaw / f, Pitch: s.Pitch / f, Roll: s.Roll / f, Brake: s.Brake, Stop: s.Stop}
}

// Accumulate adds o in place. Stop is sticky.
func (s *Steer) Accumulate(o Steer) {
	s.Yaw += o.Yaw
	s.Pitch += o.Pitch
	s.Roll += o.Roll
	if o.Brake > s.Brake {
		s.Brake = o.Brake
	}
	if o.Stop {
		s.Stop = true
	}
}

// Magnitude is the turn demand, ignoring roll.
func (s Steer) Magnitude() float64 {
	return math.Sqrt(s.Yaw*s.Yaw + s.Pitch*s.Pitch)
}

func (s *Steer) Clear() { *s = Steer{} }

// IsZero reports whether the steer makes no demand at all.
func (s Steer) IsZero() bool { return s == Steer{} }
