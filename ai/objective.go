package ai

import (
	"math"

	"go.uber.org/zap"

	"github.com/lab1702/fighter-ai/game"
)

// FindObjective selects this tick's objective. Launch navpoints come
// first, then runway takeoff, then carrier recovery, then return to base
// orders, and finally the general objective rules.
func (fa *FighterAI) FindObjective() {
	s := fa.ship
	fa.distance = 0

	// always complete the initial launch navpoint
	if fa.navpt == nil {
		if n := s.NextNavPoint(); n != nil && n.Action == game.ActionLaunch && n.Status != game.StatusComplete {
			fa.navpt = n
		}
	}

	switch {
	case fa.navpt != nil && fa.navpt.Action == game.ActionLaunch:
		if fa.navpt.Status != game.StatusComplete {
			fa.findObjectiveNavPoint()
			fa.objective = fa.Transform(fa.objW)
			s.SetDirectorInfo(InfoLaunch)
			return
		}
		fa.navpt = nil

	case fa.takeoff:
		fa.objW = s.Loc.Add(s.Heading().Scale(TakeoffLeadDist))
		fa.objW.Y = s.Loc.Y + TakeoffClimb
		fa.objective = fa.Transform(fa.objW)
		s.SetDirectorInfo(InfoTakeoff)
		return

	case fa.inbound != nil:
		fa.findObjectiveInbound()
		return

	default:
		if fa.checkReturnToBase() {
			return
		}
	}

	fa.findObjectiveRules()
}

func (fa *FighterAI) findObjectiveInbound() {
	s := fa.ship
	deck := fa.inbound.Deck
	if deck == nil {
		fa.objective = game.Zero
		return
	}

	if fa.inbound.Approach() > 0 || !fa.inbound.Cleared() {
		fa.objW = deck.ApproachPoint(fa.inbound.Approach()).Add(fa.inbound.Offset())
		fa.distance = game.Distance(fa.objW, s.Loc)
		fa.objective = fa.Transform(fa.objW)
		s.SetDirectorInfo(InfoInbound)
		return
	}

	s.SetDirectorInfo(InfoFinals)
	fa.objW = deck.StartPoint()
	if fa.inbound.Final() {
		fa.objW = deck.EndPoint()
		if deck.OverThreshold(s) {
			fa.objW = deck.MountLocation()
			fa.overThreshold = true
		}
	}
	fa.distance = game.Distance(fa.objW, s.Loc)
	fa.objective = fa.Transform(fa.objW)
}

// checkReturnToBase follows RTB and dock orders, from the radio or from a
// navpoint the ship has reached. It reports whether the objective is set.
func (fa *FighterAI) checkReturnToBase() bool {
	s := fa.ship
	orders := s.RadioOrders
	action := orders.RadioAction()

	if fa.navpt != nil && action == game.RadioNone {
		fa.findObjectiveNavPoint()
		if fa.distance < RegionVectorRange {
			action = fa.navpt.RadioAction()
		}
	}

	if action != game.RadioRTB && action != game.RadioDockWith {
		return false
	}

	controller := fa.world.Ship(s.Controller)
	switch {
	case orders.RadioAction() == game.RadioDockWith && orders.Target != game.NoObject:
		controller = fa.world.Ship(orders.Target)
	case fa.navpt != nil && fa.navpt.RadioAction() == game.RadioDockWith && fa.navpt.Target != game.NoObject:
		controller = fa.world.Ship(fa.navpt.Target)
	}

	fa.ReturnToBase(controller)
	return fa.rtbCode != 0
}

// ReturnToBase sets the objective toward controller and records how the
// ship is getting there in the RTB code: 1 direct, 2 crossing into a
// region of the same primary, 3 farcaster or quantum transit. The drive
// counts only when ready or already bound for the carrier's region. With
// no way home the orders are cleared and the code stays 0.
func (fa *FighterAI) ReturnToBase(controller *game.Ship) {
	s := fa.ship
	fa.rtbCode = 0
	if controller == nil {
		return
	}

	selfRgn := s.Region
	rtbRgn := controller.Region
	if selfRgn != nil && rtbRgn == nil {
		rtbRgn = selfRgn
	}

	if selfRgn == nil || rtbRgn == nil || selfRgn == rtbRgn {
		fa.objW = controller.Loc
		fa.distance = game.Distance(fa.objW, s.Loc)
		fa.objective = fa.Transform(fa.objW)
		s.SetDirectorInfo(InfoReturnToBase)
		fa.rtbCode = 1
		return
	}

	// carrier in orbit above us, or on the ground below
	if game.SamePrimary(selfRgn, rtbRgn) {
		fa.vectorToRegion(rtbRgn)
		fa.rtbCode = 2
		return
	}

	if fa.findObjectiveFarcaster(selfRgn, rtbRgn) {
		fa.rtbCode = 3
		return
	}

	// a drive spooling toward some other region is no way home
	if q := s.QDrive; q.Operational() && (q.Ready() || q.DestRegion == rtbRgn) {
		if q.Ready() {
			q.SetDestination(rtbRgn, controller.Loc)
			q.Engage()
		}
		s.SetDirectorInfo(InfoQuantumJump)
		fa.rtbCode = 3
		return
	}

	logger.Debug("rtb abandoned",
		zap.String("ship", s.Name),
		zap.String("from", selfRgn.Name),
		zap.String("to", rtbRgn.Name))
	s.ClearRadioOrders()
}

// vectorToRegion points at the origin of a region sharing our primary and
// records the orbit transition needed to enter it.
func (fa *FighterAI) vectorToRegion(rgn *game.Region) {
	s := fa.ship
	fa.objW = rgn.Location.Sub(s.Region.Location)
	fa.distance = game.Distance(fa.objW, s.Loc)
	fa.objective = fa.Transform(fa.objW)

	switch {
	case rgn.IsAirSpace():
		fa.dropState = -1
	case rgn.IsOrbital():
		fa.dropState = 1
	}
}

func (fa *FighterAI) findObjectiveNavPoint() {
	s := fa.ship
	n := fa.navpt
	if n == nil {
		return
	}

	selfRgn := s.Region
	if selfRgn != nil && n.Region == nil {
		n.Region = selfRgn
	}

	if selfRgn != nil && n.Region != nil && selfRgn != n.Region {
		if game.SamePrimary(selfRgn, n.Region) {
			fa.vectorToRegion(n.Region)
			return
		}
		if q := s.QDrive; q.Operational() && q.Ready() && !n.Farcast {
			q.SetDestination(n.Region, n.Location)
			q.Engage()
			return
		}
	}

	fa.routeToNavPoint()
}

// usesFarcaster reports whether travel to dst must go through a gate.
func (fa *FighterAI) usesFarcaster(dst *game.Region, farcast bool) bool {
	return fa.ship.Region != dst && (farcast || !fa.ship.QDrive.Operational())
}

// followFarcaster keeps the active gate current after a transit and
// returns it, or nil when no gate is being used.
func (fa *FighterAI) followFarcaster() *game.Farcaster {
	fc := fa.ActiveFarcaster()
	if fc != nil && fc.Host.Region != fa.ship.Region {
		var next *game.Farcaster
		if dest := fa.world.Ship(fc.Dest); dest != nil {
			next = dest.Farcaster
		}
		fa.setFarcaster(next)
		fc = next
	}
	return fc
}

// routeToNavPoint resolves the navpoint in our region's coordinates and
// marks it complete on arrival.
func (fa *FighterAI) routeToNavPoint() {
	s := fa.ship
	n := fa.navpt
	selfRgn := s.Region
	if selfRgn == nil || n == nil {
		return
	}
	if n.Region == nil {
		n.Region = selfRgn
	}

	if fa.usesFarcaster(n.Region, n.Farcast) {
		fa.findObjectiveFarcaster(selfRgn, n.Region)
		return
	}

	fc := fa.followFarcaster()
	if fc != nil {
		fa.objW = fc.EndPoint()
	} else {
		fa.objW = n.Region.Location.Add(n.Location).Sub(selfRgn.Location)
	}

	fa.distance = game.Distance(fa.objW, s.Loc)
	if fc != nil && fa.distance < NavptArrival {
		fa.setFarcaster(nil)
	}

	if fa.distance < NavptArrival || (n.Action == game.ActionLaunch && fa.distance > LaunchDepartRange) {
		s.SetNavptStatus(n, game.StatusComplete)
	}
}

// FindObjectiveQuantum follows QUANTUM_TO and FARCAST_TO orders.
func (fa *FighterAI) FindObjectiveQuantum() {
	s := fa.ship
	orders := s.RadioOrders
	selfRgn := s.Region
	if orders == nil || selfRgn == nil || orders.Region == nil {
		return
	}
	navRgn := orders.Region

	if fa.usesFarcaster(navRgn, orders.Farcast || orders.Radio == game.RadioFarcastTo) {
		fa.findObjectiveFarcaster(selfRgn, navRgn)
		return
	}

	fc := fa.followFarcaster()
	if fc != nil {
		fa.objW = fc.EndPoint()
	} else {
		fa.objW = navRgn.Location.Add(orders.Location).Sub(selfRgn.Location)

		if q := s.QDrive; q.Operational() && q.Ready() {
			q.SetDestination(navRgn, orders.Location)
			q.Engage()
			s.SetDirectorInfo(InfoQuantumJump)
			return
		}
	}

	fa.distance = game.Distance(fa.objW, s.Loc)
	if fc != nil {
		if fa.distance < NavptArrival {
			fa.setFarcaster(nil)
			s.ClearRadioOrders()
		}
	} else if selfRgn == navRgn {
		s.ClearRadioOrders()
	}
}

// searchFarcaster finds a gate in src whose partner lies in dst.
func (fa *FighterAI) searchFarcaster(src, dst *game.Region) *game.Farcaster {
	for _, c := range fa.world.ShipsIn(src) {
		if c.Farcaster == nil {
			continue
		}
		if dest := fa.world.Ship(c.Farcaster.Dest); dest != nil && dest.Region == dst {
			return c.Farcaster
		}
	}
	return nil
}

// findObjectiveFarcaster heads for a gate into dst: the approach point
// while far out or off axis, the entry point once lined up. It reports
// whether a gate was found.
func (fa *FighterAI) findObjectiveFarcaster(src, dst *game.Region) bool {
	fc := fa.ActiveFarcaster()
	if fc == nil {
		fc = fa.searchFarcaster(src, dst)
		fa.setFarcaster(fc)
	}
	if fc == nil {
		return false
	}

	s := fa.ship
	apt := fc.ApproachPoint(0)
	npt := fc.StartPoint()
	r1 := game.Distance(s.Loc, npt)

	if r1 > FarcasterFarRange {
		fa.objW = apt
		fa.distance = r1
	} else {
		r2 := game.Distance(s.Loc, apt)
		r3 := game.Distance(npt, apt)

		if r1+r2 < FarcasterRatio*r3 {
			fa.objW = npt
			fa.distance = r1
		} else {
			fa.objW = apt
			fa.distance = r2
		}
	}

	fa.objective = fa.Transform(fa.objW)
	s.SetDirectorInfo(InfoSeekFarcaster)
	return true
}

// FindObjectiveTarget leads a moving target by the time it takes to close
// on it, corrected for our own drift.
func (fa *FighterAI) FindObjectiveTarget(tgt *game.Ship) {
	s := fa.ship
	if tgt == nil {
		fa.objW = game.Zero
		return
	}

	// chasing a target, not a navpoint
	fa.navpt = nil

	cv := fa.ClosingVelocity()
	cvl := cv.Len()

	fa.objW = tgt.Loc
	if cvl > 50 {
		fa.distance = game.Distance(tgt.Loc, s.Loc)
		t := fa.distance / cvl

		if t < LeadMaxTime {
			fa.objW = tgt.Loc.Add(tgt.Vel.Scale(t))
			if t < LeadAccelTime {
				fa.objW = fa.objW.Add(tgt.Accel.Scale(0.33 * t * t))
			}
		}
	}

	fa.distance = game.Distance(fa.objW, s.Loc)

	if cvl > 50 {
		t := fa.distance / cvl

		// where we will be when the target gets there
		if t < LeadMaxTime {
			selfDest := s.Loc.Add(cv.Scale(t))
			fa.objW = fa.objW.Add(fa.objW.Sub(selfDest))
		}
	}

	approach := fa.objW.Sub(s.Loc)
	fa.distance = approach.Len()

	if fa.bracket && fa.distance > BracketRange {
		offset, _ := approach.Cross(game.Vec3{Y: 1}).Normalized()
		offset = offset.Scale(BracketOffset)

		if s.ElementIndex&1 != 0 {
			fa.objW = fa.objW.Sub(offset)
		} else {
			fa.objW = fa.objW.Add(offset)
		}
	}
}

// FindObjectivePatrol heads for the patrol point and ends the patrol on
// arrival.
func (fa *FighterAI) FindObjectivePatrol() {
	s := fa.ship
	fa.navpt = nil
	fa.objW = fa.patrolLoc
	fa.distance = game.Distance(fa.objW, s.Loc)

	if fa.distance < NavptArrival {
		s.ClearRadioOrders()
		fa.ClearPatrol()
	}
}

// FindObjectiveFormation puts the objective on our slot off the element
// lead, or off the ward when we lead the element.
func (fa *FighterAI) FindObjectiveFormation() {
	s := fa.ship
	lead := fa.elementLead()

	if lead == nil || lead == s {
		lead = fa.world.Ship(s.Ward)
		if lead == nil {
			fa.objW = s.Loc.Add(s.Heading().Scale(1e6))
			fa.distance = -1
			return
		}

		fa.distance = game.Distance(lead.Loc, s.Loc)
		if fa.distance < WardNearRange && lead.Speed() < StopSpeed {
			fa.objW = s.Loc.Add(lead.Heading().Scale(1e6))
			fa.distance = -1
			return
		}
	}

	fa.objW = lead.Loc.Add(lead.Vel.Scale(FormationLeadTime))
	fa.objW = fa.objW.Add(fa.formationDelta.RotateY(lead.CompassHeading() - math.Pi))

	// try to avoid smacking into the ground
	if s.IsAirborne() && (s.AltitudeAGL() < FormationAGLFloor || lead.AltitudeAGL() < FormationAGLFloor) {
		fa.objW.Y += FormationLift
	}

	predicted := s.Loc.Add(s.Vel.Scale(FormationLeadTime))
	delta := fa.objW.Sub(predicted)
	fa.distance = delta.Len()
	fa.slotDist = fa.Transform(delta.Add(s.Loc)).Z

	if d := lead.Director; d != nil && (d.Kind() == game.DirectorFighter || d.Kind() == game.DirectorStarship) {
		fa.setFarcaster(d.ActiveFarcaster())
		return
	}

	n := s.NextNavPoint()
	if n == nil {
		fa.setFarcaster(nil)
		return
	}
	if s.Region != nil && n.Region == nil {
		n.Region = s.Region
	}

	if fa.usesFarcaster(n.Region, n.Farcast) {
		if fa.ActiveFarcaster() == nil {
			fa.setFarcaster(fa.searchFarcaster(s.Region, n.Region))
		}
		return
	}

	if fc := fa.followFarcaster(); fc != nil {
		fa.objW = fc.EndPoint()
		fa.distance = game.Distance(fa.objW, s.Loc)
		if fa.distance < NavptArrival {
			fa.setFarcaster(nil)
		}
	}
}

// ClosingVelocity is the rate at which our guns close on the target.
func (fa *FighterAI) ClosingVelocity() game.Vec3 {
	s := fa.ship
	tgt := fa.world.Ship(fa.target)

	switch {
	case tgt != nil && s.Primary != nil && s.Primary.Design != nil:
		aim, _ := s.Heading().Normalized()
		shot := s.Vel.Add(aim.Scale(s.Primary.Design.Speed))
		return shot.Sub(tgt.Vel)
	case tgt != nil:
		return s.Vel.Sub(tgt.Vel)
	}
	return s.Vel
}

// limitFlightPath bounds the flight path lead used by Transform. Angles
// past the threshold count half, and nothing counts past the limit.
func limitFlightPath(a float64) float64 {
	switch {
	case a > FlightPathLimit:
		return FlightPathLimit
	case a < -FlightPathLimit:
		return -FlightPathLimit
	case a > FlightPathThreshold:
		return FlightPathThreshold + (a-FlightPathThreshold)/2
	case a < -FlightPathThreshold:
		return -FlightPathThreshold + (a+FlightPathThreshold)/2
	}
	return a
}

// Transform expresses a region point in the ship's steering frame: the
// camera turned part way toward the flight path.
func (fa *FighterAI) Transform(p game.Vec3) game.Vec3 {
	s := fa.ship
	rel := p.Sub(s.Loc)
	az := s.FlightPathYawAngle()
	el := s.FlightPathPitchAngle()

	if az == 0 && el == 0 {
		return s.Cam.Project(rel)
	}

	cam := s.Cam
	cam.Yaw(limitFlightPath(az))
	cam.Pitch(limitFlightPath(el))
	return cam.Project(rel)
}

// AimTransform expresses a region point along the boresight, for aiming.
func (fa *FighterAI) AimTransform(p game.Vec3) game.Vec3 {
	return fa.ship.Cam.Project(p.Sub(fa.ship.Loc))
}
