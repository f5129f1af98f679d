package game

// Farcaster is a gate linking two regions. Ships enter at the start point
// after flying the approach legs, and leave the paired gate at its end point.
// Points are in the host station's camera frame.
type Farcaster struct {
	Host *Ship
	Dest ObjectID // host of the paired gate

	Start    Vec3
	End      Vec3
	Approach []Vec3
	Radius   float64 // capture radius around the start point
}

func (f *Farcaster) toWorld(rel Vec3) Vec3 {
	h := f.Host
	return h.Loc.
		Add(h.Cam.Right.Scale(rel.X)).
		Add(h.Cam.Up.Scale(rel.Y)).
		Add(h.Cam.Forward.Scale(rel.Z))
}

func (f *Farcaster) StartPoint() Vec3 { return f.toWorld(f.Start) }

func (f *Farcaster) EndPoint() Vec3 { return f.toWorld(f.End) }

// ApproachPoint returns approach leg i, or the start point when the gate
// has no approach legs.
func (f *Farcaster) ApproachPoint(i int) Vec3 {
	if i < 0 || i >= len(f.Approach) {
		return f.StartPoint()
	}
	return f.toWorld(f.Approach[i])
}

// Captures reports whether a ship is close enough to the entry to transit.
func (f *Farcaster) Captures(s *Ship) bool {
	if s.Region != f.Host.Region {
		return false
	}
	r := f.Radius
	if r <= 0 {
		r = 1000
	}
	return Distance(s.Loc, f.StartPoint()) < r
}
