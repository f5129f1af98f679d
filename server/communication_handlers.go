package server

import (
	"go.uber.org/zap"

	"github.com/lab1702/fighter-ai/game"
)

// updateRadioTraffic drains the radio, answers traffic control calls,
// clears the next ship to land on every deck and retires ships that have
// been recovered.
func (s *Server) updateRadioTraffic() {
	w := s.world
	for _, msg := range w.Radio.Drain() {
		s.traffic = append(s.traffic, msg)

		from := w.Ship(msg.From)
		logRadioCall(msg, shipName(from))

		switch msg.Action {
		case game.RadioCallInbound:
			s.handleInbound(from, w.Ship(msg.To))
		case game.RadioCallFinals:
			logger.Debug("on finals", zap.String("ship", shipName(from)))
		}
	}

	for _, carrier := range w.Ships() {
		if carrier.Deck == nil {
			continue
		}
		if slot := carrier.Deck.ClearNext(); slot != nil {
			w.Radio.Transmit(game.RadioMessage{
				From:     carrier.ID,
				To:       slot.Ship,
				Action:   game.RadioCallClearance,
				Location: carrier.Loc,
			})
			logger.Debug("cleared to land",
				zap.String("carrier", carrier.Name),
				zap.String("ship", shipName(w.Ship(slot.Ship))))
		}
	}

	s.recoverDocked()
}

// handleInbound queues a ship on the carrier's deck, or turns it away
// when the carrier has no deck or no room for it.
func (s *Server) handleInbound(ship, carrier *game.Ship) {
	if ship == nil {
		return
	}
	if carrier == nil || carrier.Deck == nil ||
		(carrier.Hangar != nil && !carrier.Hangar.CanStow(ship.Class)) {
		s.world.Radio.Transmit(game.RadioMessage{
			From:   carrierID(carrier),
			To:     ship.ID,
			Action: game.RadioNack,
		})
		logger.Warn("inbound refused",
			zap.String("ship", ship.Name),
			zap.String("carrier", shipName(carrier)))
		return
	}

	slot := carrier.Deck.Inbound(ship)
	s.world.Radio.Transmit(game.RadioMessage{
		From:     carrier.ID,
		To:       ship.ID,
		Action:   game.RadioAck,
		Location: carrier.Deck.ApproachPoint(slot.Approach()),
	})
	logger.Info("inbound",
		zap.String("ship", ship.Name),
		zap.String("carrier", carrier.Name),
		zap.Int("approach", slot.Approach()),
		zap.Int("queue", len(carrier.Deck.Slots())))
}

// recoverDocked takes ships that have come to rest on a deck out of the
// simulation. They stay counted in the carrier's hangar.
func (s *Server) recoverDocked() {
	for _, ship := range s.world.Ships() {
		if ship.Phase != game.PhaseDocked || s.pilots[ship.ID] == nil {
			continue
		}
		logger.Info("recovered", zap.String("ship", ship.Name))
		s.world.RemoveShip(ship.ID)
		delete(s.pilots, ship.ID)
		delete(s.transitions, ship.ID)
	}
}

func shipName(ship *game.Ship) string {
	if ship == nil {
		return ""
	}
	return ship.Name
}

func carrierID(ship *game.Ship) game.ObjectID {
	if ship == nil {
		return game.NoObject
	}
	return ship.ID
}
