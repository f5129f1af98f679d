package game

import (
	"math"
	"time"
)

// Simulation constants
const (
	// Default simulation step (10 ticks per second)
	UpdateInterval = time.Millisecond * 100

	// Altitude above which an airborne craft is considered out of the atmosphere
	CeilingMSL = 25e3
)

// ObjectID is a weak handle to a ship or shot. IDs are never reused, so a
// stale handle resolves to nil once the object has been removed.
type ObjectID uint64

// NoObject is the empty handle
const NoObject ObjectID = 0

// Classification is a ship class bitmask
type Classification uint32

const (
	ClassDrone       Classification = 0x0001
	ClassFighter     Classification = 0x0002
	ClassAttack      Classification = 0x0004
	ClassLCA         Classification = 0x0008
	ClassCourier     Classification = 0x0010
	ClassCargo       Classification = 0x0020
	ClassCorvette    Classification = 0x0040
	ClassFreighter   Classification = 0x0080
	ClassFrigate     Classification = 0x0100
	ClassDestroyer   Classification = 0x0200
	ClassCruiser     Classification = 0x0400
	ClassBattleship  Classification = 0x0800
	ClassCarrier     Classification = 0x1000
	ClassDreadnaught Classification = 0x2000
	ClassStation     Classification = 0x4000
	ClassFarcaster   Classification = 0x8000
	ClassMine        Classification = 0x10000
	ClassComsat      Classification = 0x20000
	ClassDefsat      Classification = 0x40000
	ClassSWACS       Classification = 0x80000
	ClassBuilding    Classification = 0x100000
	ClassFactory     Classification = 0x200000
	ClassSAM         Classification = 0x400000
	ClassEWR         Classification = 0x800000
	ClassC3I         Classification = 0x1000000
	ClassStarbase    Classification = 0x2000000

	DropShips   Classification = 0x0000000f
	Starships   Classification = 0x0000fff0
	SpaceUnits  Classification = 0x000f0000
	GroundUnits Classification = 0xfff00000
)

func (c Classification) IsDropship() bool   { return c&DropShips != 0 }
func (c Classification) IsStarship() bool   { return c&Starships != 0 }
func (c Classification) IsGroundUnit() bool { return c&GroundUnits != 0 }

var classNames = map[Classification]string{
	ClassDrone:       "drone",
	ClassFighter:     "fighter",
	ClassAttack:      "attack",
	ClassLCA:         "lca",
	ClassCourier:     "courier",
	ClassCargo:       "cargo",
	ClassCorvette:    "corvette",
	ClassFreighter:   "freighter",
	ClassFrigate:     "frigate",
	ClassDestroyer:   "destroyer",
	ClassCruiser:     "cruiser",
	ClassBattleship:  "battleship",
	ClassCarrier:     "carrier",
	ClassDreadnaught: "dreadnaught",
	ClassStation:     "station",
	ClassFarcaster:   "farcaster",
	ClassMine:        "mine",
	ClassComsat:      "comsat",
	ClassDefsat:      "defsat",
	ClassSWACS:       "swacs",
	ClassBuilding:    "building",
	ClassFactory:     "factory",
	ClassSAM:         "sam",
	ClassEWR:         "ewr",
	ClassC3I:         "c3i",
	ClassStarbase:    "starbase",
}

func (c Classification) String() string {
	if n, ok := classNames[c]; ok {
		return n
	}
	return "unknown"
}

// ParseClassification maps a class name to its bit. Unknown names return 0.
func ParseClassification(name string) Classification {
	for c, n := range classNames {
		if n == name {
			return c
		}
	}
	return 0
}

// FlightPhase tracks a ship's launch and recovery cycle
type FlightPhase int

const (
	PhaseDocked FlightPhase = iota
	PhaseAlert
	PhaseLocked
	PhaseLaunch
	PhaseTakeoff
	PhaseActive
	PhaseApproach
	PhaseRecovery
	PhaseDocking
)

var phaseNames = [...]string{"docked", "alert", "locked", "launch", "takeoff", "active", "approach", "recovery", "docking"}

func (p FlightPhase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// SystemStatus is the health of a ship subsystem
type SystemStatus int

const (
	SystemDestroyed SystemStatus = iota
	SystemCritical
	SystemDegraded
	SystemNominal
	SystemMaintenance
)

// FLCSMode selects the flight control system's handling
type FLCSMode int

const (
	FLCSManual FLCSMode = iota
	FLCSAuto
	FLCSHelm
)

// FlightModel selects how velocity follows attitude
type FlightModel int

const (
	FlightModelStandard FlightModel = iota
	FlightModelRelaxed
	FlightModelArcade
)

// SensorMode is the active sensor scan mode
type SensorMode int

const (
	SensorStandard SensorMode = iota
	SensorGroundMovingTarget
	SensorGroundTarget
)

// Controls are the helm outputs written by a director each frame and
// consumed by the flight integrator. Rates are normalized to [-1, 1].
type Controls struct {
	Yaw    float64 `json:"yaw"`
	Pitch  float64 `json:"pitch"` // negative is nose up
	Roll   float64 `json:"roll"`
	TransX float64 `json:"transX"`
	TransY float64 `json:"transY"`
	TransZ float64 `json:"transZ"`

	Throttle  int      `json:"throttle"` // percent
	Augmenter bool     `json:"augmenter"`
	FullStop  bool     `json:"fullStop"`
	GearDown  bool     `json:"gearDown"`
	FLCS      FLCSMode `json:"flcs"`

	// Trigger state, cleared by the integrator after each frame
	FirePrimary   bool `json:"-"`
	FireSecondary bool `json:"-"`
	FireDecoy     bool `json:"-"`
}

// Shield is a ship's deflector
type Shield struct {
	Power float64 `json:"power"` // percent
}

// ShipDesign holds the specifications shared by every hull of a type
type ShipDesign struct {
	Name          string
	Class         Classification
	Radius        float64 // meters
	VelocityLimit float64 // m/s, zero for static objects
	Thrust        float64 // m/s²
	TurnRate      float64 // rad/s at full deflection
	TransX        float64 // lateral thruster acceleration
	TransY        float64 // fore and aft thruster acceleration
	TransZ        float64 // vertical thruster acceleration
	AutoRoll      int     // 0 off, 1 level wings when not turning, 2 ground-aligned
	AvoidTime     float64 // seconds of lookahead for collision avoidance, zero for class default
	Integrity     float64
	Decoys        int
	Primary       *WeaponDesign
	Secondary     *WeaponDesign
	SecondaryAmmo int
	Hangar        int             // stowage capacity
	HangarClasses Classification  // classes that may land
	Turrets       []*WeaponDesign // capital ship weapon groups, one per group
	Quantum       bool            // fitted with a quantum drive
	Deck          *FlightDeck     // recovery deck layout, Carrier unset
	Gate          *Farcaster      // farcaster layout, Host unset
}

// Ship is a single hull in the world
type Ship struct {
	ID     ObjectID       `json:"id"`
	Name   string         `json:"name"`
	IFF    int            `json:"iff"` // team code
	Class  Classification `json:"class"`
	Design *ShipDesign    `json:"-"`

	Region       *Region  `json:"-"`
	Element      *Element `json:"-"`
	ElementIndex int      `json:"elementIndex"` // 1-based position in the element

	// Kinematics
	Loc   Vec3   `json:"loc"`
	Vel   Vec3   `json:"vel"`
	Accel Vec3   `json:"accel"`
	Cam   Camera `json:"cam"`

	// Status
	Integrity    float64     `json:"integrity"`
	Fuel         float64     `json:"fuel"`         // percent
	MissionClock int64       `json:"missionClock"` // ms since activation
	Phase        FlightPhase `json:"phase"`
	EMCON        int         `json:"emcon"`
	Rogue        bool        `json:"rogue"`
	Dropping     bool        `json:"dropping"`
	Attaining    bool        `json:"attaining"`
	InTransition bool        `json:"inTransition"`
	FlightModel  FlightModel `json:"flightModel"`
	Sensor       SensorMode  `json:"sensor"`
	Decoys       int         `json:"decoys"`
	AILevel      int         `json:"aiLevel"` // autopilot skill, 0 (green) to 2 (ace)
	DirectorInfo string      `json:"directorInfo"`

	// Relationships, resolved through the World
	Controller ObjectID `json:"controller"` // carrier or station to return to
	Ward       ObjectID `json:"ward"`       // ship to escort
	Target     ObjectID `json:"target"`     // sensor lock

	// Orders and traffic control
	RadioOrders *Instruction `json:"-"`
	Inbound     *InboundSlot `json:"-"`

	// Subsystems
	Primary   *Weapon        `json:"-"`
	Secondary *Weapon        `json:"-"`
	Groups    []*WeaponGroup `json:"-"`
	Shield    *Shield        `json:"-"`
	QDrive    *QuantumDrive  `json:"-"`
	Deck      *FlightDeck    `json:"-"`
	Hangar    *Hangar        `json:"-"`
	Farcaster *Farcaster     `json:"-"`

	Helm     Controls `json:"helm"`
	Director Director `json:"-"`
}

// DirectorKind identifies the class of autopilot driving a ship
type DirectorKind int

const (
	DirectorNone DirectorKind = iota
	DirectorStarship
	DirectorFighter
)

// Director is the autopilot attached to a ship
type Director interface {
	Kind() DirectorKind
	ActiveFarcaster() *Farcaster
}

func (s *Ship) Radius() float64 {
	if s.Design == nil {
		return 10
	}
	return s.Design.Radius
}

func (s *Ship) Speed() float64 { return s.Vel.Len() }

func (s *Ship) Heading() Vec3 { return s.Cam.Forward }

func (s *Ship) IsDropship() bool   { return s.Class.IsDropship() }
func (s *Ship) IsStarship() bool   { return s.Class.IsStarship() }
func (s *Ship) IsGroundUnit() bool { return s.Class.IsGroundUnit() }

// IsStatic reports whether the hull cannot move on its own.
func (s *Ship) IsStatic() bool {
	return s.Design == nil || s.Design.VelocityLimit <= 0
}

// IsAirborne reports whether the ship is inside an atmosphere.
func (s *Ship) IsAirborne() bool {
	return s.Region != nil && s.Region.IsAirSpace()
}

// AltitudeMSL is height above the region datum.
func (s *Ship) AltitudeMSL() float64 { return s.Loc.Y }

// AltitudeAGL is height above the terrain under the ship.
func (s *Ship) AltitudeAGL() float64 {
	if s.Region == nil {
		return s.Loc.Y
	}
	return s.Loc.Y - s.Region.TerrainHeight
}

// CompassHeading is the boresight bearing in the horizontal plane.
func (s *Ship) CompassHeading() float64 {
	return math.Atan2(s.Cam.Forward.X, s.Cam.Forward.Z)
}

// CompassPitch is the boresight elevation above the horizon.
func (s *Ship) CompassPitch() float64 {
	return math.Asin(Clamp(s.Cam.Forward.Y, -1, 1))
}

// FlightPathYawAngle is the lateral angle between boresight and velocity.
func (s *Ship) FlightPathYawAngle() float64 {
	if s.Speed() < 1 {
		return 0
	}
	v := s.Cam.Project(s.Vel)
	return math.Atan2(v.X, v.Z)
}

// FlightPathPitchAngle is the vertical angle between boresight and velocity.
func (s *Ship) FlightPathPitchAngle() float64 {
	if s.Speed() < 1 {
		return 0
	}
	v := s.Cam.Project(s.Vel)
	return math.Atan2(v.Y, v.Z)
}

// NextNavPoint returns the first element navpoint not yet complete.
func (s *Ship) NextNavPoint() *Instruction {
	if s.Element == nil {
		return nil
	}
	return s.Element.NextNavPoint()
}

// SetNavptStatus updates a navpoint shared by the ship's element.
func (s *Ship) SetNavptStatus(n *Instruction, status InstructionStatus) {
	if n == nil {
		return
	}
	n.Status = status
}

func (s *Ship) ClearRadioOrders() { s.RadioOrders = nil }

// Helm inputs

func (s *Ship) ApplyYaw(v float64)   { s.Helm.Yaw = Clamp(v, -1, 1) }
func (s *Ship) ApplyPitch(v float64) { s.Helm.Pitch = Clamp(v, -1, 1) }
func (s *Ship) ApplyRoll(v float64)  { s.Helm.Roll = Clamp(v, -1, 1) }

func (s *Ship) SetTransX(v float64) { s.Helm.TransX = v }
func (s *Ship) SetTransY(v float64) { s.Helm.TransY = v }
func (s *Ship) SetTransZ(v float64) { s.Helm.TransZ = v }

func (s *Ship) SetThrottle(t int) {
	if t < 0 {
		t = 0
	} else if t > 100 {
		t = 100
	}
	s.Helm.Throttle = t
}

func (s *Ship) SetAugmenter(on bool) { s.Helm.Augmenter = on }
func (s *Ship) FullStop()            { s.Helm.FullStop = true }
func (s *Ship) SetFLCSMode(m FLCSMode) {
	s.Helm.FLCS = m
}
func (s *Ship) RaiseGear() { s.Helm.GearDown = false }
func (s *Ship) LowerGear() { s.Helm.GearDown = true }

func (s *Ship) SetDirectorInfo(info string) { s.DirectorInfo = info }
func (s *Ship) SetSensorMode(m SensorMode)  { s.Sensor = m }

// LockTarget points the sensors and all auto weapons at target.
func (s *Ship) LockTarget(target ObjectID) {
	s.Target = target
	for _, w := range s.Weapons() {
		if w.Orders != OrdersPointDefense {
			w.Target = target
		}
	}
}

// DropTarget releases the sensor lock.
func (s *Ship) DropTarget() { s.LockTarget(NoObject) }

// Weapons lists every weapon on the ship.
func (s *Ship) Weapons() []*Weapon {
	var out []*Weapon
	if s.Primary != nil {
		out = append(out, s.Primary)
	}
	if s.Secondary != nil {
		out = append(out, s.Secondary)
	}
	for _, g := range s.Groups {
		out = append(out, g.Weapons...)
	}
	return out
}

// FirePrimary pulls the gun trigger for this frame.
func (s *Ship) FirePrimary() bool {
	if s.Primary == nil || !s.Primary.HasAmmo() {
		return false
	}
	s.Helm.FirePrimary = true
	return true
}

// FireSecondary launches one missile. It reports false when empty.
func (s *Ship) FireSecondary() bool {
	if s.Secondary == nil || !s.Secondary.HasAmmo() || s.Helm.FireSecondary {
		return false
	}
	s.Secondary.Consume()
	s.Helm.FireSecondary = true
	return true
}

// FireDecoy ejects one decoy. It reports false when none remain.
func (s *Ship) FireDecoy() bool {
	if s.Decoys <= 0 {
		return false
	}
	s.Decoys--
	s.Helm.FireDecoy = true
	return true
}

// Shot is a guided missile or decoy in flight
type Shot struct {
	ID     ObjectID `json:"id"`
	Owner  ObjectID `json:"owner"`
	IFF    int      `json:"iff"`
	Region *Region  `json:"-"`
	Loc    Vec3     `json:"loc"`
	Vel    Vec3     `json:"vel"`
	Target ObjectID `json:"target"`
	Speed  float64  `json:"speed"`
	Damage float64  `json:"damage"`
	Life   float64  `json:"life"` // seconds remaining
	Decoy  bool     `json:"decoy"`
}
