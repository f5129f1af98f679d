package game

import "math"

// Weapon designs
var (
	WeaponLaser = &WeaponDesign{
		Name:          "Laser Cannon",
		MaxRange:      10e3,
		Speed:         4000,
		Damage:        4,
		AimAzMax:      0,
		FiringCone:    5 * math.Pi / 180,
		TargetClasses: DropShips | Starships | SpaceUnits | GroundUnits,
	}

	WeaponMissile = &WeaponDesign{
		Name:          "Javelin Missile",
		MinRange:      1e3,
		MaxRange:      25e3,
		Speed:         1200,
		Damage:        60,
		AimAzMax:      30 * math.Pi / 180,
		FiringCone:    30 * math.Pi / 180,
		SalvoDelay:    2,
		SelfAiming:    true,
		Guided:        true,
		TargetClasses: DropShips | Starships,
		Life:          30,
	}

	WeaponStrikeMissile = &WeaponDesign{
		Name:          "Harpoon Strike Missile",
		MinRange:      2e3,
		MaxRange:      35e3,
		Speed:         900,
		Damage:        250,
		AimAzMax:      20 * math.Pi / 180,
		FiringCone:    20 * math.Pi / 180,
		SalvoDelay:    4,
		SelfAiming:    true,
		Guided:        true,
		TargetClasses: Starships | GroundUnits,
		Life:          45,
	}

	WeaponFlak = &WeaponDesign{
		Name:          "Flak Turret",
		MaxRange:      8e3,
		Speed:         3000,
		Damage:        3,
		AimAzMax:      math.Pi,
		FiringCone:    math.Pi,
		SelfAiming:    true,
		TargetClasses: DropShips,
	}

	WeaponTorpedo = &WeaponDesign{
		Name:          "Plasma Torpedo",
		MinRange:      3e3,
		MaxRange:      30e3,
		Speed:         800,
		Damage:        400,
		AimAzMax:      math.Pi / 4,
		FiringCone:    math.Pi / 4,
		SelfAiming:    true,
		Guided:        true,
		TargetClasses: Starships,
		Life:          60,
	}
)

// Designs is the catalog of hull types, keyed by scenario name
var Designs = map[string]*ShipDesign{
	"viper": {
		Name:          "Viper",
		Class:         ClassFighter,
		Radius:        12,
		VelocityLimit: 1000,
		Thrust:        120,
		TurnRate:      1.4,
		TransX:        40,
		TransY:        60,
		TransZ:        40,
		AutoRoll:      1,
		Integrity:     100,
		Decoys:        4,
		Primary:       WeaponLaser,
		Secondary:     WeaponMissile,
		SecondaryAmmo: 6,
	},
	"falcon": {
		Name:          "Falcon",
		Class:         ClassAttack,
		Radius:        16,
		VelocityLimit: 800,
		Thrust:        90,
		TurnRate:      1.0,
		TransX:        30,
		TransY:        50,
		TransZ:        30,
		AutoRoll:      1,
		Integrity:     160,
		Decoys:        6,
		Primary:       WeaponLaser,
		Secondary:     WeaponStrikeMissile,
		SecondaryAmmo: 4,
	},
	"archon": {
		Name:          "Archon",
		Class:         ClassCarrier,
		Radius:        400,
		VelocityLimit: 200,
		Thrust:        15,
		TurnRate:      0.1,
		Integrity:     12000,
		Turrets:       []*WeaponDesign{WeaponFlak, WeaponFlak},
		Hangar:        16,
		HangarClasses: DropShips,
		Quantum:       true,
		Deck: &FlightDeck{
			Start:    Vec3{X: 0, Y: 40, Z: -350},
			End:      Vec3{X: 0, Y: 40, Z: 150},
			Mount:    Vec3{X: 0, Y: 40, Z: 200},
			Approach: []Vec3{{X: 0, Y: 200, Z: -4000}, {X: 0, Y: 1000, Z: -12000}, {X: 3000, Y: 2000, Z: -20000}},
			Radius:   60,
		},
	},
	"corvette": {
		Name:          "Berents",
		Class:         ClassCorvette,
		Radius:        90,
		VelocityLimit: 450,
		Thrust:        35,
		TurnRate:      0.35,
		Integrity:     2500,
		Turrets:       []*WeaponDesign{WeaponFlak},
		Quantum:       true,
	},
	"destroyer": {
		Name:          "Zolon",
		Class:         ClassDestroyer,
		Radius:        180,
		VelocityLimit: 300,
		Thrust:        20,
		TurnRate:      0.2,
		Integrity:     6000,
		Turrets:       []*WeaponDesign{WeaponFlak, WeaponTorpedo},
		Quantum:       true,
	},
	"farcaster": {
		Name:      "Farcaster",
		Class:     ClassFarcaster,
		Radius:    600,
		Integrity: 50000,
		Gate: &Farcaster{
			Start:    Vec3{Z: 800},
			End:      Vec3{Z: 4000},
			Approach: []Vec3{{Z: -10e3}},
			Radius:   1000,
		},
	},
	"sam": {
		Name:      "SAM Site",
		Class:     ClassSAM,
		Radius:    40,
		Integrity: 800,
		Turrets:   []*WeaponDesign{WeaponFlak},
	},
}

// NewShip builds a hull from a design, fully fuelled and armed.
func NewShip(name string, d *ShipDesign, iff int) *Ship {
	s := &Ship{
		Name:      name,
		IFF:       iff,
		Class:     d.Class,
		Design:    d,
		Cam:       NewCamera(),
		Integrity: d.Integrity,
		Fuel:      100,
		Phase:     PhaseActive,
		Decoys:    d.Decoys,
		Shield:    &Shield{Power: 50},
	}
	// pilot-aimed weapons stay under manual control
	if d.Primary != nil {
		s.Primary = NewWeapon(d.Primary, -1)
		s.Primary.Orders = OrdersManual
	}
	if d.Secondary != nil {
		s.Secondary = NewWeapon(d.Secondary, d.SecondaryAmmo)
		s.Secondary.Orders = OrdersManual
	}
	for i, t := range d.Turrets {
		g := &WeaponGroup{Name: t.Name}
		w := NewWeapon(t, -1)
		if t.TargetClasses&DropShips != 0 && !t.Guided {
			w.Orders = OrdersPointDefense
		}
		g.Weapons = append(g.Weapons, w)
		if i == 0 || s.Groups[len(s.Groups)-1].Name != t.Name {
			s.Groups = append(s.Groups, g)
		} else {
			last := s.Groups[len(s.Groups)-1]
			last.Weapons = append(last.Weapons, w)
		}
	}
	if d.Quantum {
		s.QDrive = NewQuantumDrive()
	}
	if d.Hangar > 0 {
		s.Hangar = &Hangar{Capacity: d.Hangar, Classes: d.HangarClasses}
	}
	if d.Deck != nil {
		deck := *d.Deck
		deck.Approach = append([]Vec3(nil), d.Deck.Approach...)
		deck.Carrier = s
		deck.slots = nil
		s.Deck = &deck
	}
	if d.Gate != nil {
		gate := *d.Gate
		gate.Approach = append([]Vec3(nil), d.Gate.Approach...)
		gate.Host = s
		s.Farcaster = &gate
	}
	return s
}
