package game

import "sync"

// RadioAction is the content of a radio message
type RadioAction int

const (
	RadioNone RadioAction = iota
	RadioDockWith
	RadioRTB
	RadioQuantumTo
	RadioFarcastTo

	RadioAck
	RadioNack

	RadioAttack
	RadioEscort
	RadioBracket
	RadioIdentify

	RadioCoverMe
	RadioWepFree
	RadioWepHold
	RadioFormUp
	RadioSayPosition

	RadioMovePatrol
	RadioSkipNavpoint
	RadioResumeMission

	RadioCallEngaging
	RadioFox1
	RadioFox2
	RadioFox3
	RadioSplash1
	RadioSplash2
	RadioSplash3

	RadioCallInbound
	RadioCallApproach
	RadioCallClearance
	RadioCallFinals
	RadioCallWaveOff

	RadioDistress
	RadioWarning
)

var radioNames = map[RadioAction]string{
	RadioNone:          "none",
	RadioDockWith:      "dock with",
	RadioRTB:           "return to base",
	RadioQuantumTo:     "quantum to",
	RadioFarcastTo:     "farcast to",
	RadioAck:           "acknowledge",
	RadioNack:          "unable",
	RadioAttack:        "attack",
	RadioEscort:        "escort",
	RadioBracket:       "bracket",
	RadioIdentify:      "identify",
	RadioCoverMe:       "cover me",
	RadioWepFree:       "weapons free",
	RadioWepHold:       "weapons hold",
	RadioFormUp:        "form up",
	RadioSayPosition:   "say position",
	RadioMovePatrol:    "move patrol",
	RadioSkipNavpoint:  "skip navpoint",
	RadioResumeMission: "resume mission",
	RadioCallEngaging:  "engaging",
	RadioFox1:          "fox one",
	RadioFox2:          "fox two",
	RadioFox3:          "fox three",
	RadioSplash1:       "splash one",
	RadioSplash2:       "splash two",
	RadioSplash3:       "splash three",
	RadioCallInbound:   "inbound",
	RadioCallApproach:  "approach",
	RadioCallClearance: "cleared",
	RadioCallFinals:    "on finals",
	RadioCallWaveOff:   "wave off",
	RadioDistress:      "distress",
	RadioWarning:       "warning",
}

func (a RadioAction) String() string {
	if n, ok := radioNames[a]; ok {
		return n
	}
	return "unknown"
}

// RadioMessage is one transmission. A message addressed to an element
// reaches every ship in it; otherwise it goes to the single ship To.
type RadioMessage struct {
	From      ObjectID    `json:"from"`
	To        ObjectID    `json:"to"`
	ToElement *Element    `json:"-"`
	Action    RadioAction `json:"action"`
	Targets   []ObjectID  `json:"targets,omitempty"`
	Location  Vec3        `json:"location"`
	Time      int64       `json:"time"` // game time in ms
}

// RadioTraffic is the shared message queue drained by the simulation each tick
type RadioTraffic struct {
	mu    sync.Mutex
	queue []RadioMessage
	now   func() int64
}

// NewRadioTraffic creates a queue stamping messages with clock().
func NewRadioTraffic(clock func() int64) *RadioTraffic {
	return &RadioTraffic{now: clock}
}

// Transmit queues a message.
func (r *RadioTraffic) Transmit(msg RadioMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg.Time == 0 && r.now != nil {
		msg.Time = r.now()
	}
	r.queue = append(r.queue, msg)
}

// SendQuickMessage transmits a canned call. Traffic control calls go to
// the sender's controller, everything else to its element.
func (r *RadioTraffic) SendQuickMessage(from *Ship, action RadioAction) {
	if from == nil {
		return
	}
	msg := RadioMessage{From: from.ID, Action: action, Location: from.Loc}
	switch action {
	case RadioCallInbound, RadioCallApproach, RadioCallFinals, RadioCallWaveOff:
		msg.To = from.Controller
	default:
		msg.ToElement = from.Element
	}
	r.Transmit(msg)
}

// Drain returns and clears all queued messages.
func (r *RadioTraffic) Drain() []RadioMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.queue
	r.queue = nil
	return out
}

// Pending returns the number of queued messages.
func (r *RadioTraffic) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}
