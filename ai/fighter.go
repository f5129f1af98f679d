package ai

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/lab1702/fighter-ai/game"
)

// TerminalAction is an orbit transition requested by the autopilot. The
// simulation driver performs it after the tick, replacing the ship's
// autopilot in the process.
type TerminalAction int

const (
	ActionNone TerminalAction = iota
	ActionDropOrbit
	ActionMakeOrbit
)

func (a TerminalAction) String() string {
	switch a {
	case ActionDropOrbit:
		return "drop orbit"
	case ActionMakeOrbit:
		return "make orbit"
	}
	return "none"
}

// TickResult is the outcome of one ExecFrame call.
type TickResult struct {
	Action TerminalAction
}

// FighterAI is the autopilot of a single fighter or attack craft. It is
// owned by one ship and advanced once per simulation tick by ExecFrame.
// All references to other objects are handles resolved through the world
// each time they are used.
type FighterAI struct {
	ship   *game.Ship
	world  *game.World
	radio  *game.RadioTraffic
	tuning Tuning
	rng    *rand.Rand

	seconds float64 // duration of the current frame
	result  TickResult

	// objective in camera coordinates and in region coordinates
	objective game.Vec3
	objW      game.Vec3
	distance  float64 // -1 while station keeping
	slotDist  float64

	formationDelta game.Vec3
	patrolLoc      game.Vec3
	patrol         bool
	bracket        bool

	navpt         *game.Instruction
	inbound       *game.InboundSlot
	target        game.ObjectID
	threat        game.ObjectID
	threatMissile game.ObjectID
	support       game.ObjectID
	rumor         game.ObjectID
	farcasterHost game.ObjectID
	other         game.ObjectID
	tooClose      game.ObjectID
	decoyMissile  game.ObjectID
	engagedShip   game.ObjectID

	aiLevel      int
	elementIndex int

	takeoff        bool
	hold           bool
	evading        bool
	formUp         bool
	overThreshold  bool
	terrainWarning bool
	goManual       bool

	rtbCode     int
	dropState   int
	dropTime    float64
	missileTime float64
	timeToDock  float64

	// seek filter memory, index 0 is the latest sample
	az      [3]float64
	el      [3]float64
	seeking bool

	accumulator Steer
	magnitude   float64
	brakes      float64
	brake       float64 // collision avoidance demand
	zShift      float64
	obstacle    game.Vec3

	throttle    float64
	oldThrottle float64

	jink          game.Vec3
	jinkTime      int64
	lastAvoidTime int64
	lastCallTime  int64
}

// New attaches a fighter autopilot to ship and installs it as the ship's
// director.
func New(ship *game.Ship, world *game.World, tuning Tuning) *FighterAI {
	fa := &FighterAI{
		ship:   ship,
		world:  world,
		tuning: tuning,
		rng:    newRand(),
	}
	if world != nil {
		fa.radio = world.Radio
	}
	if ship != nil {
		fa.aiLevel = ship.AILevel
		fa.elementIndex = ship.ElementIndex
		ship.Director = fa
	}
	return fa
}

// SetRand replaces the random source used for jinking.
func (fa *FighterAI) SetRand(r *rand.Rand) { fa.rng = r }

// SetRadio replaces the radio queue calls are transmitted on.
func (fa *FighterAI) SetRadio(r *game.RadioTraffic) { fa.radio = r }

func (fa *FighterAI) Kind() game.DirectorKind { return game.DirectorFighter }

// ActiveFarcaster returns the gate the autopilot is routing through, or nil.
func (fa *FighterAI) ActiveFarcaster() *game.Farcaster {
	host := fa.world.Ship(fa.farcasterHost)
	if host == nil || host.Farcaster == nil {
		fa.farcasterHost = game.NoObject
		return nil
	}
	return host.Farcaster
}

func (fa *FighterAI) setFarcaster(f *game.Farcaster) {
	if f == nil || f.Host == nil {
		fa.farcasterHost = game.NoObject
		return
	}
	fa.farcasterHost = f.Host.ID
}

func (fa *FighterAI) Ship() *game.Ship                  { return fa.ship }
func (fa *FighterAI) Objective() game.Vec3              { return fa.objective }
func (fa *FighterAI) ObjectiveWorld() game.Vec3         { return fa.objW }
func (fa *FighterAI) Distance() float64                 { return fa.distance }
func (fa *FighterAI) RTBCode() int                      { return fa.rtbCode }
func (fa *FighterAI) DropState() int                    { return fa.dropState }
func (fa *FighterAI) Target() game.ObjectID             { return fa.target }
func (fa *FighterAI) Threat() game.ObjectID             { return fa.threat }
func (fa *FighterAI) ThreatMissile() game.ObjectID      { return fa.threatMissile }
func (fa *FighterAI) NavPoint() *game.Instruction       { return fa.navpt }
func (fa *FighterAI) Evading() bool                     { return fa.evading }
func (fa *FighterAI) DropTime() float64                 { return fa.dropTime }
func (fa *FighterAI) AILevel() int                      { return fa.aiLevel }
func (fa *FighterAI) Steering() Steer                   { return fa.accumulator }
func (fa *FighterAI) TimeToDock() float64               { return fa.timeToDock }
func (fa *FighterAI) Patrolling() (game.Vec3, bool)     { return fa.patrolLoc, fa.patrol }
func (fa *FighterAI) SetFormationDelta(d game.Vec3)     { fa.formationDelta = d }
func (fa *FighterAI) SetNavPoint(n *game.Instruction)   { fa.navpt = n }
func (fa *FighterAI) SetThreat(id game.ObjectID)        { fa.threat = id }
func (fa *FighterAI) SetThreatMissile(id game.ObjectID) { fa.threatMissile = id }
func (fa *FighterAI) SetSupport(id game.ObjectID)       { fa.support = id }
func (fa *FighterAI) SetRumor(id game.ObjectID)         { fa.rumor = id }
func (fa *FighterAI) SetBracket(b bool)                 { fa.bracket = b }

// SetAILevel changes the pilot skill, 0 (green) to 2 (ace).
func (fa *FighterAI) SetAILevel(level int) {
	if level < 0 {
		level = 0
	} else if level > 2 {
		level = 2
	}
	fa.aiLevel = level
	fa.ship.AILevel = level
}

func (fa *FighterAI) SetPatrol(loc game.Vec3) {
	fa.patrol = true
	fa.patrolLoc = loc
}

func (fa *FighterAI) ClearPatrol() { fa.patrol = false }

// SetTarget selects a new target. Changing target cancels a bracket.
func (fa *FighterAI) SetTarget(id game.ObjectID) {
	if id != fa.target {
		fa.bracket = false
	}
	fa.target = id
}

// DropTarget releases the target and blocks reacquisition for dtime seconds.
func (fa *FighterAI) DropTarget(dtime float64) {
	fa.SetTarget(game.NoObject)
	fa.dropTime = dtime
	fa.ship.DropTarget()
}

func (fa *FighterAI) now() int64 { return fa.world.GameTime }

func (fa *FighterAI) skillFactor() float64 {
	return fa.tuning.SkillScaleBase - float64(fa.aiLevel)
}

func (fa *FighterAI) elementLead() *game.Ship {
	return fa.world.ElementShip(fa.ship.Element, 1)
}

// ExecFrame advances the autopilot by one tick of the given duration and
// writes the ship's helm controls. When the result carries a terminal
// action the caller must perform it and discard this autopilot.
func (fa *FighterAI) ExecFrame(seconds float64) TickResult {
	fa.result = TickResult{}
	s := fa.ship
	if s == nil || fa.world == nil {
		return fa.result
	}

	fa.seconds = seconds
	fa.evading = false
	fa.inbound = s.Inbound
	fa.missileTime -= seconds

	order := game.ActionNone
	if fa.navpt != nil {
		order = fa.navpt.Action
	}

	if fa.inbound != nil {
		fa.formUp = false
		fa.rtbCode = 1

		if fa.inbound.Final() && fa.timeToDock > 0 && fa.inbound.Deck != nil {
			fa.cheatLanding(seconds)
			return fa.result
		}
		if s.Phase == game.PhaseDocking {
			if fa.inbound.Deck != nil {
				fa.holdOnDeck()
			}
			return fa.result
		}
	} else {
		switch s.RadioOrders.RadioAction() {
		case game.RadioWepHold, game.RadioFormUp:
			fa.formUp = true
			fa.rtbCode = 0
		default:
			fa.formUp = false
		}
	}

	if fa.target == game.NoObject && order != game.ActionStrike {
		s.SetSensorMode(game.SensorStandard)
	}

	fa.execBase(seconds)
	return fa.result
}

// cheatLanding flies the last part of a recovery on rails along the deck.
func (fa *FighterAI) cheatLanding(seconds float64) {
	s := fa.ship
	deck := fa.inbound.Deck
	dst := deck.EndPoint()
	approach := deck.StartPoint().Sub(dst)
	carrier := deck.Carrier

	cam := deck.LandingCamera()
	if fa.timeToDock > fa.tuning.TimeToDock/2 {
		work := s.Cam
		work.Blend(cam, seconds)
		cam = work
	}
	s.Cam = cam
	s.Loc = dst.Add(approach.Scale(fa.timeToDock / fa.tuning.TimeToDock))
	s.Vel = carrier.Vel.Add(s.Heading().Scale(CheatLandSpeed))
	s.SetThrottle(50)
	s.SetDirectorInfo(InfoDocking)

	fa.timeToDock -= seconds
	if fa.timeToDock <= 0 {
		deck.Dock(s)
		fa.timeToDock = 0
		logger.Debug("docked", zap.String("ship", s.Name), zap.String("carrier", carrier.Name))
	}
}

// holdOnDeck pins a docking ship to the deck of a possibly moving carrier.
func (fa *FighterAI) holdOnDeck() {
	s := fa.ship
	deck := fa.inbound.Deck
	dst := deck.EndPoint()
	if s.IsAirborne() {
		alt := dst.Y
		dst = s.Loc
		dst.Y = alt
	}

	cam := deck.LandingCamera()
	s.Cam = cam
	s.Loc = dst
	if s.IsAirborne() {
		s.Vel = cam.Forward.Scale(DockingTaxiSpeed)
	} else {
		s.Vel = deck.Carrier.Vel
	}
	s.SetThrottle(0)
}

func (fa *FighterAI) execBase(seconds float64) {
	s := fa.ship

	if fa.dropTime > 0 {
		fa.dropTime -= seconds
	}
	s.SetDirectorInfo(InfoNone)

	// the element may have moved on since the last tick
	if fa.navpt != nil {
		fa.navpt = s.NextNavPoint()
	}

	if s.Phase == game.PhaseTakeoff || s.Phase == game.PhaseLaunch {
		fa.takeoff = true
	}

	if fa.takeoff {
		fa.FindObjective()
		fa.Navigator()

		if s.MissionClock > LaunchClearTime {
			fa.takeoff = false
		}
		return
	}

	if s.MissionClock < ActivationDelay {
		return
	}

	fa.elementIndex = s.ElementIndex
	fa.CheckTarget()
	fa.acquireTarget()

	fa.FindObjective()
	fa.Navigator()
}

// acquireTarget keeps the sensor lock and the autopilot target in step and
// calls the engagement on a newly locked ship.
func (fa *FighterAI) acquireTarget() {
	s := fa.ship

	if fa.target != game.NoObject && fa.target != s.Target {
		s.LockTarget(fa.target)

		if s.Target == fa.target && fa.target != fa.engagedShip &&
			fa.now()-fa.lastCallTime > fa.tuning.EngageCallTimeout {
			if fa.radio != nil {
				fa.radio.Transmit(game.RadioMessage{
					From:      s.ID,
					ToElement: s.Element,
					Action:    game.RadioCallEngaging,
					Targets:   []game.ObjectID{fa.target},
					Location:  s.Loc,
				})
			}
			fa.lastCallTime = fa.now()
			fa.engagedShip = fa.target
		}
		return
	}

	if fa.target == game.NoObject {
		if fa.dropTime <= 0 && fa.world.Ship(s.Target) != nil {
			fa.target = s.Target
		}
		if fa.engagedShip != game.NoObject && fa.target == game.NoObject {
			fa.engagedShip = game.NoObject
		}
	}
}

// CheckTarget forgets a target that has been destroyed or turned out to
// be friendly.
func (fa *FighterAI) CheckTarget() {
	if fa.target == game.NoObject {
		return
	}
	tgt := fa.world.Ship(fa.target)
	if tgt == nil {
		fa.target = game.NoObject
		return
	}
	if tgt.IFF == fa.ship.IFF && !tgt.Rogue {
		fa.target = game.NoObject
	}
}

// AdjustDefenses raises the shield under any threat.
func (fa *FighterAI) AdjustDefenses() {
	sh := fa.ship.Shield
	if sh == nil {
		return
	}
	desire := 50.0
	if fa.threat != game.NoObject || fa.threatMissile != game.NoObject {
		desire = 100
	}
	sh.Power = desire
}
