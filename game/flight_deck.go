package game

// FlightDeck is a recovery deck or runway mounted on a carrier. All points
// are stored in the carrier's camera frame and resolved on demand, so they
// follow the carrier as it moves.
type FlightDeck struct {
	Carrier *Ship

	Start    Vec3   // touchdown end of the deck
	End      Vec3   // stopping point
	Mount    Vec3   // parking spot
	Approach []Vec3 // approach legs, index 0 nearest the deck
	Azimuth  float64
	Radius   float64
	Runway   [2]Vec3 // threshold markers for airfields

	slots []*InboundSlot
}

// InboundSlot is a ship's place in the recovery queue
type InboundSlot struct {
	Deck     *FlightDeck
	Ship     ObjectID
	approach int
	cleared  bool
	final    bool
	offset   Vec3
}

func (s *InboundSlot) Approach() int { return s.approach }
func (s *InboundSlot) SetApproach(a int) { s.approach = a }
func (s *InboundSlot) Cleared() bool { return s.cleared }
func (s *InboundSlot) Clear(cleared bool) { s.cleared = cleared }
func (s *InboundSlot) Final() bool { return s.final }
func (s *InboundSlot) SetFinal(final bool) { s.final = final }
func (s *InboundSlot) Offset() Vec3 { return s.offset }
func (s *InboundSlot) SetOffset(o Vec3) { s.offset = o }

func (d *FlightDeck) toWorld(rel Vec3) Vec3 {
	c := d.Carrier
	return c.Loc.
		Add(c.Cam.Right.Scale(rel.X)).
		Add(c.Cam.Up.Scale(rel.Y)).
		Add(c.Cam.Forward.Scale(rel.Z))
}

func (d *FlightDeck) StartPoint() Vec3    { return d.toWorld(d.Start) }
func (d *FlightDeck) EndPoint() Vec3      { return d.toWorld(d.End) }
func (d *FlightDeck) MountLocation() Vec3 { return d.toWorld(d.Mount) }

// ApproachPoint returns approach leg i, clamped to the legs that exist.
func (d *FlightDeck) ApproachPoint(i int) Vec3 {
	if len(d.Approach) == 0 {
		return d.StartPoint()
	}
	if i < 0 {
		i = 0
	} else if i >= len(d.Approach) {
		i = len(d.Approach) - 1
	}
	return d.toWorld(d.Approach[i])
}

// LandingCamera is the attitude a ship holds while on the deck.
func (d *FlightDeck) LandingCamera() Camera {
	cam := d.Carrier.Cam
	cam.Yaw(d.Azimuth)
	return cam
}

// OverThreshold reports whether a ship on finals has crossed onto the deck.
func (d *FlightDeck) OverThreshold(s *Ship) bool {
	if d.Carrier.IsAirborne() {
		if s.AltitudeAGL() > s.Radius()*4 {
			return false
		}
		sp := s.Loc
		r0 := d.toWorld(d.Runway[0])
		r1 := d.toWorld(d.Runway[1])
		d0 := Distance(sp, r0)
		d1 := Distance(sp, r1)
		return d0 < Distance(r0, r1) && d1 < Distance(r0, r1)
	}
	return Distance(s.Loc, d.MountLocation()) < s.Radius()+d.Radius
}

// Inbound queues a ship for recovery. A ship already queued keeps its slot.
func (d *FlightDeck) Inbound(s *Ship) *InboundSlot {
	for _, slot := range d.slots {
		if slot.Ship == s.ID {
			return slot
		}
	}
	slot := &InboundSlot{
		Deck:     d,
		Ship:     s.ID,
		approach: len(d.Approach) - 1,
	}
	if slot.approach < 0 {
		slot.approach = 0
	}
	// stack later arrivals above and to the side of the first
	n := float64(len(d.slots))
	slot.offset = Vec3{X: n * 500, Y: n * 250}
	d.slots = append(d.slots, slot)
	s.Inbound = slot
	s.Phase = PhaseApproach
	return slot
}

// Release removes a slot from the queue.
func (d *FlightDeck) Release(slot *InboundSlot) {
	for i, x := range d.slots {
		if x == slot {
			d.slots = append(d.slots[:i], d.slots[i+1:]...)
			return
		}
	}
}

// Slots returns the current recovery queue in arrival order.
func (d *FlightDeck) Slots() []*InboundSlot { return d.slots }

// ClearNext grants landing clearance to the first ship holding at the
// marshal point, provided nobody is already cleared.
func (d *FlightDeck) ClearNext() *InboundSlot {
	for _, slot := range d.slots {
		if slot.cleared {
			return nil
		}
	}
	for _, slot := range d.slots {
		if slot.approach == 0 {
			slot.cleared = true
			return slot
		}
	}
	return nil
}

// Dock completes a recovery, stowing the ship in the carrier's hangar.
func (d *FlightDeck) Dock(s *Ship) {
	if s.Inbound != nil {
		d.Release(s.Inbound)
		s.Inbound = nil
	}
	s.Phase = PhaseDocked
	s.Vel = Zero
	s.Loc = d.MountLocation()
	s.Cam = d.LandingCamera()
	if d.Carrier.Hangar != nil {
		d.Carrier.Hangar.Stow(s.ID)
	}
}
