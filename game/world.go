package game

import (
	"sort"
)

// World owns every live ship, shot and region. Other objects refer to
// ships only by ObjectID and resolve them here, so destroyed objects are
// observed as nil.
type World struct {
	Regions  []*Region
	Elements []*Element
	Radio    *RadioTraffic

	GameTime int64 // ms

	nextID ObjectID
	ships  map[ObjectID]*Ship
	shots  map[ObjectID]*Shot
	grid   *SpatialGrid
}

// NewWorld creates an empty world
func NewWorld() *World {
	w := &World{
		ships: make(map[ObjectID]*Ship),
		shots: make(map[ObjectID]*Shot),
		grid:  NewSpatialGrid(),
	}
	w.Radio = NewRadioTraffic(func() int64 { return w.GameTime })
	return w
}

func (w *World) allocID() ObjectID {
	w.nextID++
	return w.nextID
}

// AddShip registers a ship and assigns its handle.
func (w *World) AddShip(s *Ship) ObjectID {
	s.ID = w.allocID()
	w.ships[s.ID] = s
	if s.Element != nil {
		s.ElementIndex = s.Element.Add(s.ID)
	}
	return s.ID
}

// RemoveShip destroys a ship. Handles to it resolve to nil from now on.
func (w *World) RemoveShip(id ObjectID) {
	s, ok := w.ships[id]
	if !ok {
		return
	}
	delete(w.ships, id)
	if s.Inbound != nil && s.Inbound.Deck != nil {
		s.Inbound.Deck.Release(s.Inbound)
		s.Inbound = nil
	}
	if s.Element != nil {
		s.Element.Remove(id)
		w.reindex(s.Element)
	}
	if s.Deck != nil {
		// anyone queued on a lost deck has nowhere to land
		for _, slot := range s.Deck.Slots() {
			if other := w.ships[slot.Ship]; other != nil {
				other.Inbound = nil
				other.Phase = PhaseActive
			}
		}
		s.Deck.slots = nil
	}
}

func (w *World) reindex(e *Element) {
	for i, id := range e.Ships {
		if s := w.ships[id]; s != nil {
			s.ElementIndex = i + 1
		}
	}
}

// Ship resolves a handle. It returns nil for NoObject or a dead ship.
func (w *World) Ship(id ObjectID) *Ship {
	if id == NoObject {
		return nil
	}
	return w.ships[id]
}

// Ships returns every live ship ordered by handle.
func (w *World) Ships() []*Ship {
	out := make([]*Ship, 0, len(w.ships))
	for _, s := range w.ships {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ShipsIn returns the live ships in a region ordered by handle.
func (w *World) ShipsIn(r *Region) []*Ship {
	var out []*Ship
	for _, s := range w.Ships() {
		if s.Region == r {
			out = append(out, s)
		}
	}
	return out
}

// FindShip looks a ship up by name.
func (w *World) FindShip(name string) *Ship {
	for _, s := range w.Ships() {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// AddShot registers a missile or decoy.
func (w *World) AddShot(s *Shot) ObjectID {
	s.ID = w.allocID()
	w.shots[s.ID] = s
	return s.ID
}

func (w *World) RemoveShot(id ObjectID) { delete(w.shots, id) }

// Shot resolves a shot handle, nil when it has expired.
func (w *World) Shot(id ObjectID) *Shot {
	if id == NoObject {
		return nil
	}
	return w.shots[id]
}

// Shots returns every live shot ordered by handle.
func (w *World) Shots() []*Shot {
	out := make([]*Shot, 0, len(w.shots))
	for _, s := range w.shots {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FindRegion looks a region up by name.
func (w *World) FindRegion(name string) *Region {
	for _, r := range w.Regions {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// FindElement looks an element up by name.
func (w *World) FindElement(name string) *Element {
	for _, e := range w.Elements {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// IndexContacts rebuilds the spatial index. Call once per frame after
// ships have moved.
func (w *World) IndexContacts() {
	w.grid.IndexShips(w.Ships())
}

// Contacts returns the ships within radius of s, excluding s itself.
func (w *World) Contacts(s *Ship, radius float64) []*Ship {
	var out []*Ship
	for _, id := range w.grid.GetWithin(s.Region, s.Loc, radius) {
		if id == s.ID {
			continue
		}
		c := w.ships[id]
		if c == nil || c.Region != s.Region {
			continue
		}
		if Distance(c.Loc, s.Loc) <= radius {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ElementShip returns the ship at a 1-based index in an element.
func (w *World) ElementShip(e *Element, index int) *Ship {
	if e == nil || index < 1 || index > len(e.Ships) {
		return nil
	}
	return w.Ship(e.Ships[index-1])
}
