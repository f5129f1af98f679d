package game

import "strings"

// RegionType distinguishes open space from atmospheric regions
type RegionType int

const (
	RegionSpace RegionType = iota
	RegionOrbital
	RegionAirSpace
)

// Region is a coordinate frame in the star system. Positions of ships in
// the region are relative to Location.
type Region struct {
	Name          string
	Type          RegionType
	Primary       string  // orbital body the region belongs to, empty for deep space
	Location      Vec3    // system coordinates of the region origin
	TerrainHeight float64 // terrain elevation for airspace regions
	Active        bool    // true while the region is simulated at full fidelity
}

func (r *Region) IsAirSpace() bool { return r != nil && r.Type == RegionAirSpace }
func (r *Region) IsOrbital() bool  { return r != nil && r.Type == RegionOrbital }

// SamePrimary reports whether two regions orbit the same body, which
// allows in-system travel between them without a jump.
func SamePrimary(a, b *Region) bool {
	if a == nil || b == nil {
		return false
	}
	if a == b {
		return true
	}
	return a.Primary != "" && a.Primary == b.Primary
}

// InstructionAction is the kind of task attached to a navpoint or order
type InstructionAction int

const (
	ActionNone InstructionAction = iota
	ActionVector
	ActionLaunch
	ActionDock
	ActionRTB
	ActionDefend
	ActionEscort
	ActionPatrol
	ActionSweep
	ActionIntercept
	ActionStrike
	ActionAssault
	ActionRecon
	ActionRecall
	ActionDeploy
)

var actionNames = [...]string{
	"none", "vector", "launch", "dock", "rtb", "defend", "escort", "patrol",
	"sweep", "intercept", "strike", "assault", "recon", "recall", "deploy",
}

func (a InstructionAction) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// ParseAction maps a name to an action. Unknown names map to ActionNone.
func ParseAction(name string) InstructionAction {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range actionNames {
		if n == name {
			return InstructionAction(i)
		}
	}
	return ActionNone
}

// InstructionStatus is the progress of a navpoint
type InstructionStatus int

const (
	StatusNone InstructionStatus = iota
	StatusPending
	StatusActive
	StatusSkipped
	StatusAborted
	StatusFailed
	StatusComplete
)

// Instruction is a navpoint in an element's flight plan, or a radio order.
type Instruction struct {
	Action   InstructionAction
	Status   InstructionStatus
	Region   *Region // nil means the flying ship's region
	Location Vec3    // region-relative
	Speed    float64 // requested speed, zero for default
	HoldTime float64 // seconds to loiter after arrival
	Farcast  bool    // route through a farcaster
	Target   ObjectID

	// Radio is set on orders delivered by radio
	Radio RadioAction
}

// RadioAction reports the radio action this instruction corresponds to.
func (n *Instruction) RadioAction() RadioAction {
	if n == nil {
		return RadioNone
	}
	if n.Radio != RadioNone {
		return n.Radio
	}
	switch n.Action {
	case ActionDock:
		return RadioDockWith
	case ActionRTB:
		return RadioRTB
	}
	return RadioNone
}

// Element is a flight of ships sharing a flight plan
type Element struct {
	Name     string
	IFF      int
	Ships    []ObjectID // index 0 is the lead
	NavList  []*Instruction
	HoldTime float64
}

// NextNavPoint returns the first navpoint that is neither complete nor skipped.
func (e *Element) NextNavPoint() *Instruction {
	if e == nil {
		return nil
	}
	for _, n := range e.NavList {
		if n.Status <= StatusActive {
			return n
		}
	}
	return nil
}

// NavIndex returns the 1-based index of n in the flight plan, or 0.
func (e *Element) NavIndex(n *Instruction) int {
	if e == nil {
		return 0
	}
	for i, x := range e.NavList {
		if x == n {
			return i + 1
		}
	}
	return 0
}

// Add appends a ship and returns its 1-based element index.
func (e *Element) Add(id ObjectID) int {
	e.Ships = append(e.Ships, id)
	return len(e.Ships)
}

// Remove drops a ship from the element.
func (e *Element) Remove(id ObjectID) {
	for i, x := range e.Ships {
		if x == id {
			e.Ships = append(e.Ships[:i], e.Ships[i+1:]...)
			return
		}
	}
}

// Lead returns the handle of the element lead, or NoObject.
func (e *Element) Lead() ObjectID {
	if e == nil || len(e.Ships) == 0 {
		return NoObject
	}
	return e.Ships[0]
}
