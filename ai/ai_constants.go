package ai

// Director info strings
// These are narration keys shown on the HUD and in telemetry. They never
// feed back into control decisions.
const (
	InfoNone           = " "
	InfoLaunch         = "Launch"
	InfoTakeoff        = "Takeoff"
	InfoInbound        = "Inbound"
	InfoFinals         = "Finals"
	InfoHoldFinal      = "Hold Final"
	InfoReturnToBase   = "Return to Base"
	InfoSeekTarget     = "Seek Target"
	InfoSeekWard       = "Seek Ward"
	InfoSeekNavpoint   = "Seek Navpoint"
	InfoSeekFarcaster  = "Seek Farcaster"
	InfoFormation      = "Formation"
	InfoPatrol         = "Patrol"
	InfoRegroup        = "Regroup"
	InfoRetreat        = "Retreat"
	InfoQuantumJump    = "Quantum Jump"
	InfoTooHigh        = "Too High"
	InfoTooLow         = "Too Low"
	InfoAvoidCollision = "Avoid Collision"
	InfoEvadeMissile   = "Evade Missile"
	InfoEvadeThreat    = "Evade Threat"
	InfoEvadeStarship  = "Evade Starship"
	InfoEvadeAndSeek   = "Evade and Seek"
	InfoRandomEvade    = "Random Evade"
	InfoDocking        = "Docking"
	InfoSearch         = "Search"
	InfoStationKeeping = "Station Keeping"
	InfoSeekPatrol     = "Seek Patrol Point"
)

// Geometry and timing constants of the fighter autopilot
const (
	// Mission clock gates (ms)
	LaunchClearTime  = 10000 // full throttle and takeoff handling end
	ActivationDelay  = 5000  // no decisions before this
	DockingTaxiSpeed = 95.0  // m/s along the deck while airborne-docking
	CheatLandSpeed   = 50.0  // m/s added along heading during the glide

	// Objective resolution
	NavptArrival       = 1000.0 // navpoint counts as reached
	LaunchDepartRange  = 25e3   // launch navpoint completes past this
	TakeoffLeadDist    = 10e3   // climb-out point ahead of the runway
	TakeoffClimb       = 2e3    // climb-out point above the runway
	RegionVectorRange  = 5e3    // navpoint action adopted within this
	BracketRange       = 25e3   // bracket only beyond this
	BracketOffset      = 15e3   // lateral bracket displacement
	LeadMaxTime        = 15.0   // s of target prediction
	LeadAccelTime      = 10.0   // s under which acceleration is added
	FarcasterFarRange  = 50e3   // always fly to the approach point beyond this
	FarcasterRatio     = 1.2    // start point once closer than this detour
	FarcasterSeekRange = 20e3   // navigator seeks only inside this
	WardNearRange      = 30e3   // stopped ward inside this means station keeping
	FormationLeadTime  = 5.0    // s of lead prediction
	FormationAGLFloor  = 3000.0 // lift the slot when below this
	FormationLift      = 500.0
	RetreatFactor      = 100.0

	// Steering
	FlightPathLimit     = 15 * degree
	FlightPathThreshold = 3 * degree
	StopSpeed           = 50.0 // lead slower than this is considered stopped
)

const degree = 0.017453292519943295
