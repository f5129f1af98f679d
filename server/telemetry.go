package server

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/brunoga/deep"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lab1702/fighter-ai/game"
)

// Frame is one tick of telemetry
type Frame struct {
	RunID  string       `json:"run"`
	Frame  int64        `json:"frame"`
	Time   int64        `json:"time"` // game time in ms
	Paused bool         `json:"paused"`
	Ships  []ShipState  `json:"ships"`
	Shots  []ShotState  `json:"shots"`
	Radio  []RadioState `json:"radio,omitempty"`
}

// ShipState is a ship as seen by a telemetry viewer
type ShipState struct {
	ID        game.ObjectID `json:"id"`
	Name      string        `json:"name"`
	Class     string        `json:"class"`
	IFF       int           `json:"iff"`
	Region    string        `json:"region"`
	Element   string        `json:"element,omitempty"`
	Index     int           `json:"index,omitempty"`
	Loc       game.Vec3     `json:"loc"`
	Vel       game.Vec3     `json:"vel"`
	Heading   float64       `json:"heading"` // degrees
	Integrity float64       `json:"integrity"`
	Fuel      float64       `json:"fuel"`
	Phase     string        `json:"phase"`
	Helm      game.Controls `json:"helm"`
	Hangar    int           `json:"hangar,omitempty"` // ships recovered
	Pilot     *PilotState   `json:"pilot,omitempty"`
}

// PilotState is what a fighter autopilot is doing
type PilotState struct {
	Info      string        `json:"info"`
	Skill     int           `json:"skill"`
	Target    game.ObjectID `json:"target,omitempty"`
	Threat    game.ObjectID `json:"threat,omitempty"`
	Missile   game.ObjectID `json:"missile,omitempty"`
	RTB       int           `json:"rtb,omitempty"`
	Evading   bool          `json:"evading,omitempty"`
	Distance  float64       `json:"distance"`
	Objective game.Vec3     `json:"objective"`
	NavPoint  string        `json:"navpoint,omitempty"`
}

// ShotState is a missile or decoy in flight
type ShotState struct {
	ID     game.ObjectID `json:"id"`
	Owner  game.ObjectID `json:"owner"`
	Target game.ObjectID `json:"target,omitempty"`
	Region string        `json:"region"`
	Loc    game.Vec3     `json:"loc"`
	Decoy  bool          `json:"decoy,omitempty"`
}

// RadioState is one radio call
type RadioState struct {
	Time int64  `json:"time"`
	From string `json:"from"`
	To   string `json:"to,omitempty"`
	Call string `json:"call"`
}

// snapshot captures the world for telemetry. Caller must hold simMu.
func (s *Server) snapshot() Frame {
	w := s.world
	f := Frame{
		RunID:  s.runID.String(),
		Frame:  s.frame,
		Time:   w.GameTime,
		Paused: s.paused,
	}

	for _, ship := range w.Ships() {
		st := ShipState{
			ID:        ship.ID,
			Name:      ship.Name,
			Class:     ship.Class.String(),
			IFF:       ship.IFF,
			Region:    regionName(ship.Region),
			Index:     ship.ElementIndex,
			Loc:       ship.Loc,
			Vel:       ship.Vel,
			Heading:   ship.CompassHeading() * 180 / math.Pi,
			Integrity: ship.Integrity,
			Fuel:      ship.Fuel,
			Phase:     ship.Phase.String(),
			Helm:      ship.Helm,
		}
		if ship.Element != nil {
			st.Element = ship.Element.Name
		}
		if ship.Hangar != nil {
			st.Hangar = len(ship.Hangar.Stowed)
		}
		if fa := s.pilots[ship.ID]; fa != nil {
			p := &PilotState{
				Info:      ship.DirectorInfo,
				Skill:     fa.AILevel(),
				Target:    fa.Target(),
				Threat:    fa.Threat(),
				Missile:   fa.ThreatMissile(),
				RTB:       fa.RTBCode(),
				Evading:   fa.Evading(),
				Distance:  fa.Distance(),
				Objective: fa.ObjectiveWorld(),
			}
			if n := fa.NavPoint(); n != nil {
				p.NavPoint = n.Action.String()
			}
			st.Pilot = p
		}
		f.Ships = append(f.Ships, st)
	}

	for _, m := range w.Shots() {
		f.Shots = append(f.Shots, ShotState{
			ID:     m.ID,
			Owner:  m.Owner,
			Target: m.Target,
			Region: regionName(m.Region),
			Loc:    m.Loc,
			Decoy:  m.Decoy,
		})
	}

	for _, msg := range s.traffic {
		rs := RadioState{
			Time: msg.Time,
			From: shipName(w.Ship(msg.From)),
			Call: msg.Action.String(),
		}
		switch {
		case msg.To != game.NoObject:
			rs.To = shipName(w.Ship(msg.To))
		case msg.ToElement != nil:
			rs.To = msg.ToElement.Name
		}
		f.Radio = append(f.Radio, rs)
	}
	return f
}

func regionName(r *game.Region) string {
	if r == nil {
		return ""
	}
	return r.Name
}

// sendGameState sends the current frame to all clients and the recorder.
// A frame is read-only once built and shared by every reader.
func (s *Server) sendGameState() {
	s.simMu.RLock()
	frame := s.snapshot()
	rec := s.recorder
	s.simMu.RUnlock()

	if rec != nil {
		if err := rec.Record(frame); err != nil {
			logger.Warn("recording frame", zap.Int64("frame", frame.Frame), zap.Error(err))
		}
	}

	select {
	case s.broadcast <- ServerMessage{Type: MsgTypeUpdate, Data: frame}:
	case <-s.done:
	}
}

// redactFrame returns f as seen by one side: autopilot state of every
// other side's ships is dropped from a private copy. Side 0 sees
// everything and gets f itself.
func redactFrame(f Frame, side int) (Frame, error) {
	if side == 0 {
		return f, nil
	}
	cp, err := deep.Copy(f)
	if err != nil {
		return Frame{}, fmt.Errorf("copy frame: %w", err)
	}
	for i := range cp.Ships {
		if cp.Ships[i].IFF != side {
			cp.Ships[i].Pilot = nil
		}
	}
	return cp, nil
}

// EncodeFrameProto encodes a frame as a protobuf Struct for binary
// clients. The field names match the JSON encoding.
func EncodeFrameProto(f Frame) ([]byte, error) {
	raw, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal frame: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("unmarshal frame: %w", err)
	}
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("frame struct: %w", err)
	}
	data, err := proto.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("marshal error: %w", err)
	}
	return data, nil
}

// DecodeFrameProto decodes a binary frame back into its generic form.
func DecodeFrameProto(data []byte) (map[string]interface{}, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}
	return st.AsMap(), nil
}
