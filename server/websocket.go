package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/lab1702/fighter-ai/ai"
	"github.com/lab1702/fighter-ai/game"
)

// DefaultTick is the simulation step when none is configured
const DefaultTick = game.UpdateInterval

// checkOrigin admits same-host viewers, loopback tooling and the hosts
// listed in Options.Origins. Requests without an Origin header are not
// from a browser and are always admitted.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		logger.Warn("invalid origin", zap.String("origin", origin))
		return false
	}
	if u.Host == r.Host {
		return true
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	for _, host := range s.origins {
		if strings.EqualFold(host, u.Host) || strings.EqualFold(host, u.Hostname()) {
			return true
		}
	}

	logger.Warn("rejected websocket origin", zap.String("origin", origin))
	return false
}

// Message types
const (
	MsgTypePause  = "pause"
	MsgTypeResume = "resume"
	MsgTypeSkill  = "skill"
	MsgTypeRTB    = "rtb"
	MsgTypeUpdate = "update"
	MsgTypeAck    = "ack"
	MsgTypeError  = "error"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Client represents a connected telemetry viewer
type Client struct {
	ID     uuid.UUID
	conn   *websocket.Conn
	send   chan ServerMessage
	server *Server
	binary bool // frames are sent as protobuf
	side   int  // IFF whose autopilots are shown, 0 for all
}

// Options configure a Server
type Options struct {
	Tuning   ai.Tuning
	Tick     time.Duration
	Recorder *Recorder
	Origins  []string // extra viewer hosts allowed to open the websocket
}

// Server drives the simulation and fans telemetry out to clients
type Server struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan ServerMessage

	// simMu guards everything below it
	simMu       sync.RWMutex
	world       *game.World
	pilots      map[game.ObjectID]*ai.FighterAI
	transitions map[game.ObjectID]float64 // seconds until orbit transition flags clear
	cooldowns   map[*game.Weapon]float64
	traffic     []game.RadioMessage // radio calls heard this frame
	tuning      ai.Tuning
	tick        time.Duration
	frame       int64
	paused      bool

	runID    uuid.UUID
	recorder *Recorder
	upgrader websocket.Upgrader
	origins  []string
	done     chan struct{}
	stopOnce sync.Once
}

// NewServer creates a simulation server for world and puts a fighter
// autopilot in every fighter and attack craft.
func NewServer(world *game.World, opts Options) *Server {
	if opts.Tick <= 0 {
		opts.Tick = DefaultTick
	}
	s := &Server{
		clients:     make(map[uuid.UUID]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan ServerMessage, 256),
		world:       world,
		pilots:      make(map[game.ObjectID]*ai.FighterAI),
		transitions: make(map[game.ObjectID]float64),
		cooldowns:   make(map[*game.Weapon]float64),
		tuning:      opts.Tuning,
		tick:        opts.Tick,
		runID:       uuid.New(),
		recorder:    opts.Recorder,
		origins:     opts.Origins,
		done:        make(chan struct{}),
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin:       s.checkOrigin,
		EnableCompression: true,
	}
	for _, ship := range world.Ships() {
		if ship.IsDropship() {
			s.attachPilot(ship)
		}
	}
	logger.Info("simulation ready",
		zap.String("run", s.runID.String()),
		zap.Int("ships", len(world.Ships())),
		zap.Int("pilots", len(s.pilots)),
		zap.Duration("tick", s.tick))
	return s
}

// RunID identifies this simulation run in telemetry and recordings.
func (s *Server) RunID() uuid.UUID { return s.runID }

// Run starts the server main loop
func (s *Server) Run() {
	// Start game loop
	go s.gameLoop()

	// Handle client events
	for {
		select {
		case client := <-s.register:
			s.mu.Lock()
			s.clients[client.ID] = client
			s.mu.Unlock()
			logger.Info("client connected", zap.Stringer("client", client.ID), zap.Bool("proto", client.binary))

		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client.ID]; ok {
				delete(s.clients, client.ID)
				close(client.send)
			}
			s.mu.Unlock()
			logger.Info("client disconnected", zap.Stringer("client", client.ID))

		case message := <-s.broadcast:
			s.mu.RLock()
			for _, client := range s.clients {
				select {
				case client.send <- message:
				default:
					// Client send channel is full, skip this message
					logger.Warn("client send buffer full, skipping broadcast", zap.Stringer("client", client.ID))
				}
			}
			s.mu.RUnlock()

		case <-s.done:
			return
		}
	}
}

// gameLoop runs the main game simulation
func (s *Server) gameLoop() {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.updateGame()
			s.sendGameState()
		case <-s.done:
			return
		}
	}
}

// updateGame advances the simulation one tick unless paused
func (s *Server) updateGame() {
	s.simMu.Lock()
	defer s.simMu.Unlock()

	if s.paused {
		return
	}
	s.step(s.tick.Seconds())
}

// Shutdown stops the game loop and closes the flight recorder.
func (s *Server) Shutdown() {
	s.stopOnce.Do(func() {
		close(s.done)

		s.simMu.Lock()
		defer s.simMu.Unlock()
		if s.recorder != nil {
			if err := s.recorder.Close(); err != nil {
				logger.Error("closing recorder", zap.Error(err))
			}
			s.recorder = nil
		}
		logger.Info("simulation stopped", zap.Int64("frames", s.frame))
	})
}

// HandleWebSocket handles WebSocket connections. Viewers asking for
// ?format=proto receive binary protobuf frames instead of JSON, and
// ?side=N restricts autopilot state to that side's ships.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	side := 0
	if v := r.URL.Query().Get("side"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid side", http.StatusBadRequest)
			return
		}
		side = n
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		ID:     uuid.New(),
		conn:   conn,
		send:   make(chan ServerMessage, 256),
		server: s,
		binary: r.URL.Query().Get("format") == "proto",
		side:   side,
	}

	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump handles incoming messages from the client
func (c *Client) readPump() {
	defer func() {
		select {
		case c.server.unregister <- c:
		case <-c.server.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg ClientMessage
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read", zap.Stringer("client", c.ID), zap.Error(err))
			}
			break
		}

		c.handleMessage(msg)
	}
}

// writePump sends messages to the client
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.write(message); err != nil {
				logger.Debug("websocket write", zap.Stringer("client", c.ID), zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.server.done:
			c.conn.SetWriteDeadline(time.Now().Add(time.Second))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "simulation stopped"))
			return
		}
	}
}

func (c *Client) write(message ServerMessage) error {
	frame, ok := message.Data.(Frame)
	if ok && c.side != 0 {
		var err error
		if frame, err = redactFrame(frame, c.side); err != nil {
			return err
		}
		message.Data = frame
	}
	if !c.binary || !ok {
		return c.conn.WriteJSON(message)
	}
	data, err := EncodeFrameProto(frame)
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.BinaryMessage, data)
}

// reply queues a direct answer to this client only.
func (c *Client) reply(msgType string, data interface{}) {
	select {
	case c.send <- ServerMessage{Type: msgType, Data: data}:
	default:
		logger.Warn("client send buffer full, dropping reply", zap.Stringer("client", c.ID), zap.String("type", msgType))
	}
}

// handleMessage processes a message from the client
func (c *Client) handleMessage(msg ClientMessage) {
	// Recover from any panic to prevent disconnection
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic in handleMessage",
				zap.Stringer("client", c.ID),
				zap.String("type", msg.Type),
				zap.Any("panic", r))
		}
	}()

	switch msg.Type {
	case MsgTypePause:
		c.handlePause(true)
	case MsgTypeResume:
		c.handlePause(false)
	case MsgTypeSkill:
		c.handleSkill(msg.Data)
	case MsgTypeRTB:
		c.handleRTB(msg.Data)
	default:
		logger.Debug("unknown message type", zap.String("type", msg.Type))
		c.reply(MsgTypeError, ErrorData{Message: "unknown message type: " + msg.Type})
	}
}
