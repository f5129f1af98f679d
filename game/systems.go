package game

// FiringOrders controls how a weapon picks and engages targets
type FiringOrders int

const (
	OrdersManual FiringOrders = iota
	OrdersAuto
	OrdersPointDefense
)

// WeaponDesign holds the ballistics shared by every mount of a weapon type
type WeaponDesign struct {
	Name          string
	MinRange      float64        // meters
	MaxRange      float64        // meters
	Speed         float64        // projectile speed, m/s
	Damage        float64        // per hit
	AimAzMax      float64        // radians of off-boresight aim
	FiringCone    float64        // radians
	SalvoDelay    float64        // seconds between launches
	SelfAiming    bool           // guided or turreted
	Guided        bool           // fires a tracking Shot rather than a hitscan bolt
	TargetClasses Classification // classes the weapon can engage
	Life          float64        // seconds of flight for guided shots
}

// Weapon is one mounted weapon
type Weapon struct {
	Design          *WeaponDesign
	Ammo            int // -1 for unlimited
	Orders          FiringOrders
	Target          ObjectID
	BlockedFriendly bool
	Locked          bool // seeker has the target
	Status          SystemStatus
}

// NewWeapon mounts a weapon with the given ammunition load.
func NewWeapon(d *WeaponDesign, ammo int) *Weapon {
	return &Weapon{Design: d, Ammo: ammo, Orders: OrdersAuto, Status: SystemNominal}
}

func (w *Weapon) HasAmmo() bool {
	return w != nil && w.Status > SystemCritical && (w.Ammo < 0 || w.Ammo > 0)
}

func (w *Weapon) Consume() {
	if w.Ammo > 0 {
		w.Ammo--
	}
}

// CanTarget reports whether the weapon may engage the given class.
func (w *Weapon) CanTarget(c Classification) bool {
	return w != nil && w.Design != nil && w.Design.TargetClasses&c != 0
}

// MaxRange is the weapon's effective range, zero when unmounted.
func (w *Weapon) MaxRange() float64 {
	if w == nil || w.Design == nil {
		return 0
	}
	return w.Design.MaxRange
}

// WeaponGroup is a named bank of turrets on a capital ship
type WeaponGroup struct {
	Name    string
	Weapons []*Weapon
}

// QuantumState is the jump cycle of a quantum drive
type QuantumState int

const (
	QuantumReady QuantumState = iota
	QuantumCountdown
	QuantumJump
)

// QuantumDrive moves a ship between regions that share no orbital primary
type QuantumDrive struct {
	PowerOn    bool
	Status     SystemStatus
	State      QuantumState
	Countdown  float64 // seconds until jump
	DestRegion *Region
	DestLoc    Vec3
}

// NewQuantumDrive returns a powered, ready drive.
func NewQuantumDrive() *QuantumDrive {
	return &QuantumDrive{PowerOn: true, Status: SystemNominal, State: QuantumReady}
}

// Operational reports whether the drive can be used at all.
func (q *QuantumDrive) Operational() bool {
	return q != nil && q.PowerOn && q.Status >= SystemDegraded
}

// Ready reports whether a new jump may be started.
func (q *QuantumDrive) Ready() bool {
	return q != nil && q.State == QuantumReady
}

// SetDestination stores the jump target.
func (q *QuantumDrive) SetDestination(r *Region, loc Vec3) {
	q.DestRegion = r
	q.DestLoc = loc
}

// Engage starts the jump countdown.
func (q *QuantumDrive) Engage() {
	if q.State != QuantumReady || q.DestRegion == nil {
		return
	}
	q.State = QuantumCountdown
	q.Countdown = QuantumCountdownTime
}

// QuantumCountdownTime is the spool-up before a jump
const QuantumCountdownTime = 2.0

// Hangar holds ships recovered by a carrier
type Hangar struct {
	Capacity int
	Classes  Classification
	Stowed   []ObjectID
}

// CanStow reports whether a ship of class c fits.
func (h *Hangar) CanStow(c Classification) bool {
	return h != nil && len(h.Stowed) < h.Capacity && h.Classes&c != 0
}

func (h *Hangar) Stow(id ObjectID) {
	h.Stowed = append(h.Stowed, id)
}
