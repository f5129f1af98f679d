package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/lab1702/fighter-ai/game"
)

// SkillData represents a pilot skill change
type SkillData struct {
	Ship  string `json:"ship"`
	Level int    `json:"level"`
}

// RTBData represents a return to base order
type RTBData struct {
	Ship string `json:"ship"`
}

// ErrorData is sent back to a client whose request failed
type ErrorData struct {
	Message string `json:"message"`
}

// AckData confirms a request
type AckData struct {
	Type string `json:"type"`
	Ship string `json:"ship,omitempty"`
}

// validateSkill ensures a skill level is in range
func validateSkill(level int) bool {
	return level >= 0 && level <= 2
}

// handlePause stops or restarts the simulation clock
func (c *Client) handlePause(pause bool) {
	s := c.server
	s.simMu.Lock()
	s.paused = pause
	s.simMu.Unlock()

	if pause {
		logger.Info("simulation paused", zap.Stringer("client", c.ID))
		c.reply(MsgTypeAck, AckData{Type: MsgTypePause})
		return
	}
	logger.Info("simulation resumed", zap.Stringer("client", c.ID))
	c.reply(MsgTypeAck, AckData{Type: MsgTypeResume})
}

// handleSkill changes the skill of a ship's autopilot
func (c *Client) handleSkill(data json.RawMessage) {
	var req SkillData
	if err := json.Unmarshal(data, &req); err != nil {
		c.reply(MsgTypeError, ErrorData{Message: "invalid skill request"})
		return
	}
	if !validateSkill(req.Level) {
		c.reply(MsgTypeError, ErrorData{Message: fmt.Sprintf("skill must be 0 to 2, got %d", req.Level)})
		return
	}

	s := c.server
	s.simMu.Lock()
	defer s.simMu.Unlock()

	ship := s.world.FindShip(req.Ship)
	if ship == nil || s.pilots[ship.ID] == nil {
		c.reply(MsgTypeError, ErrorData{Message: "no autopilot on " + req.Ship})
		return
	}
	s.pilots[ship.ID].SetAILevel(req.Level)

	logger.Info("skill changed", zap.String("ship", ship.Name), zap.Int("level", req.Level))
	c.reply(MsgTypeAck, AckData{Type: MsgTypeSkill, Ship: ship.Name})
}

// handleRTB orders a ship's element home
func (c *Client) handleRTB(data json.RawMessage) {
	var req RTBData
	if err := json.Unmarshal(data, &req); err != nil {
		c.reply(MsgTypeError, ErrorData{Message: "invalid rtb request"})
		return
	}

	s := c.server
	s.simMu.Lock()
	defer s.simMu.Unlock()

	ship := s.world.FindShip(req.Ship)
	if ship == nil || s.pilots[ship.ID] == nil {
		c.reply(MsgTypeError, ErrorData{Message: "no autopilot on " + req.Ship})
		return
	}
	if err := s.orderRTB(ship); err != nil {
		c.reply(MsgTypeError, ErrorData{Message: err.Error()})
		return
	}
	c.reply(MsgTypeAck, AckData{Type: MsgTypeRTB, Ship: ship.Name})
}

// orderRTB replaces the rest of the element's flight plan with a return
// to its controller. Caller must hold simMu.
func (s *Server) orderRTB(ship *game.Ship) error {
	controller := s.world.Ship(ship.Controller)
	if controller == nil {
		return fmt.Errorf("%s has no carrier to return to", ship.Name)
	}
	e := ship.Element
	if e == nil {
		return fmt.Errorf("%s is not in an element", ship.Name)
	}

	for _, n := range e.NavList {
		if n.Status <= game.StatusActive {
			n.Status = game.StatusSkipped
		}
	}
	e.NavList = append(e.NavList, &game.Instruction{
		Action:   game.ActionRTB,
		Status:   game.StatusActive,
		Region:   controller.Region,
		Location: controller.Loc,
	})

	// pilots pick the new navpoint up on the next sensor pass
	for _, id := range e.Ships {
		if fa := s.pilots[id]; fa != nil {
			fa.SetNavPoint(nil)
		}
	}

	logger.Info("rtb ordered",
		zap.String("element", e.Name),
		zap.String("controller", controller.Name))
	return nil
}

// HandleShips returns the current ship list
func (s *Server) HandleShips(w http.ResponseWriter, r *http.Request) {
	// Enable CORS for cross-origin requests
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")

	s.simMu.RLock()
	frame := s.snapshot()
	s.simMu.RUnlock()

	// Count ships per team
	teams := make(map[int]int)
	for _, st := range frame.Ships {
		teams[st.IFF]++
	}

	response := map[string]interface{}{
		"run":   frame.RunID,
		"time":  frame.Time,
		"total": len(frame.Ships),
		"teams": teams,
		"ships": frame.Ships,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Warn("encoding ship list", zap.Error(err))
	}
}
