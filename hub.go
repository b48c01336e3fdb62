package server

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"ai-village/server/internal/behavior"
	"ai-village/server/internal/directive"
	"ai-village/server/logging"
)

// Subscriber serializes websocket writes for one connection.
type Subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *Subscriber) WriteMessage(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(messageType, data)
}

func (s *Subscriber) Close() error {
	return s.conn.Close()
}

// HubConfig wires the hub's collaborators. Zero-value fields fall back to
// defaults: a generated world, a mock-only dispatcher, and a nop publisher.
type HubConfig struct {
	World          WorldConfig
	Directives     *directive.Dispatcher
	Publisher      logging.Publisher
	UpdateInterval time.Duration
	Logger         *log.Logger
}

func DefaultHubConfig() HubConfig {
	return HubConfig{
		World:          DefaultWorldConfig(),
		UpdateInterval: behavior.DefaultUpdateInterval,
	}
}

// Hub owns all mutable simulation state: players, agents, and subscribers.
// A single mutex guards the lot; the tick loop, websocket sessions, and HTTP
// handlers all funnel through it.
type Hub struct {
	logger         *log.Logger
	pub            logging.Publisher
	directives     *directive.Dispatcher
	updateInterval time.Duration

	mu          sync.Mutex
	world       *World
	players     map[string]*playerState
	agents      []*behavior.Actor
	subscribers map[string]*Subscriber
	tick        uint64
	behaviorRNG *rand.Rand

	nextID atomic.Uint64
}

func NewHub(cfg HubConfig) *Hub {
	worldCfg := cfg.World.Normalized()
	world := NewWorld(worldCfg)

	directives := cfg.Directives
	if directives == nil {
		directives = directive.NewDispatcher(directive.DispatcherConfig{})
	}
	pub := cfg.Publisher
	if pub == nil {
		pub = logging.NopPublisher()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	interval := cfg.UpdateInterval
	if interval <= 0 {
		interval = behavior.DefaultUpdateInterval
	}

	return &Hub{
		logger:         logger,
		pub:            pub,
		directives:     directives,
		updateInterval: interval,
		world:          world,
		players:        make(map[string]*playerState),
		agents:         world.spawnAgents(),
		subscribers:    make(map[string]*Subscriber),
		behaviorRNG:    newDeterministicRNG(worldCfg.Seed, "behavior"),
	}
}

// CurrentConfig returns the normalized world config the hub runs with.
func (h *Hub) CurrentConfig() WorldConfig {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.world.Config()
}

func (h *Hub) playersSnapshotLocked() []Player {
	players := make([]Player, 0, len(h.players))
	for _, player := range h.players {
		players = append(players, player.Player)
	}
	return players
}

func (h *Hub) agentsSnapshotLocked() []Agent {
	agents := make([]Agent, 0, len(h.agents))
	for _, actor := range h.agents {
		agents = append(agents, agentSnapshot(actor))
	}
	return agents
}

// Join registers a new player at the spawn point and returns the full world
// snapshot so the client can render before its websocket is up.
func (h *Hub) Join() JoinResponse {
	id := h.nextID.Add(1)
	playerID := fmt.Sprintf("player-%d", id)
	now := time.Now()
	player := &playerState{
		Player:        Player{ID: playerID, X: defaultSpawnX, Y: defaultSpawnY},
		lastHeartbeat: now,
	}

	h.mu.Lock()
	h.players[playerID] = player
	players := h.playersSnapshotLocked()
	agents := h.agentsSnapshotLocked()
	config := h.world.Config()
	objects := h.world.Objects()
	h.mu.Unlock()

	go h.BroadcastState(players, agents)

	return JoinResponse{
		Ver:     ProtocolVersion,
		ID:      playerID,
		Players: players,
		Agents:  agents,
		Objects: objects,
		Config:  config,
	}
}

// Subscribe attaches a websocket connection to a joined player, replacing any
// previous connection for the same player.
func (h *Hub) Subscribe(playerID string, conn *websocket.Conn) (*Subscriber, []Player, []Agent, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, ok := h.players[playerID]
	if !ok {
		return nil, nil, nil, false
	}

	state.lastHeartbeat = time.Now()

	if existing, ok := h.subscribers[playerID]; ok {
		existing.conn.Close()
	}

	sub := &Subscriber{conn: conn}
	h.subscribers[playerID] = sub
	return sub, h.playersSnapshotLocked(), h.agentsSnapshotLocked(), true
}

// Disconnect removes the player and its subscription. Returns the remaining
// snapshots for broadcast, or nils when the player was already gone.
func (h *Hub) Disconnect(playerID string) ([]Player, []Agent) {
	h.mu.Lock()
	sub, subOK := h.subscribers[playerID]
	if subOK {
		delete(h.subscribers, playerID)
	}

	_, playerOK := h.players[playerID]
	if playerOK {
		delete(h.players, playerID)
	}

	var players []Player
	var agents []Agent
	if playerOK {
		players = h.playersSnapshotLocked()
		agents = h.agentsSnapshotLocked()
	}
	h.mu.Unlock()

	if subOK {
		sub.conn.Close()
	}

	if !playerOK {
		return nil, nil
	}
	return players, agents
}

// UpdateIntent records a player's normalized movement intent.
func (h *Hub) UpdateIntent(playerID string, dx, dy float64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, ok := h.players[playerID]
	if !ok {
		return false
	}

	length := math.Hypot(dx, dy)
	if length > 1 {
		dx /= length
		dy /= length
	}

	state.intentX = dx
	state.intentY = dy
	state.lastInput = time.Now()
	return true
}

func (h *Hub) UpdateHeartbeat(playerID string, receivedAt time.Time, clientSent int64) (time.Duration, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	state, ok := h.players[playerID]
	if !ok {
		return 0, false
	}

	state.lastHeartbeat = receivedAt

	if clientSent > 0 {
		clientTime := time.UnixMilli(clientSent)
		if clientTime.Before(receivedAt.Add(5 * time.Second)) {
			rtt := receivedAt.Sub(clientTime)
			if rtt < 0 {
				rtt = 0
			}
			state.lastRTT = rtt
		}
	}

	return state.lastRTT, true
}

// advance runs one simulation step: cull timed-out players, integrate player
// movement, and update every agent's directive state machine and behavior.
func (h *Hub) advance(now time.Time, dt float64) ([]Player, []Agent, []*Subscriber) {
	h.mu.Lock()

	toClose := make([]*Subscriber, 0)
	for id, state := range h.players {
		if now.Sub(state.lastHeartbeat) > disconnectAfter {
			if sub, ok := h.subscribers[id]; ok {
				toClose = append(toClose, sub)
				delete(h.subscribers, id)
			}
			delete(h.players, id)
			h.logger.Printf("disconnecting %s due to heartbeat timeout", id)
			continue
		}

		if state.intentX != 0 || state.intentY != 0 {
			dx, dy := state.intentX, state.intentY
			length := math.Hypot(dx, dy)
			if length != 0 {
				dx /= length
				dy /= length
			}

			width, height := h.world.Bounds()
			state.X += dx * playerMoveSpeed * dt
			state.Y += dy * playerMoveSpeed * dt
			state.X = math.Max(playerHalf, math.Min(width-playerHalf, state.X))
			state.Y = math.Max(playerHalf, math.Min(height-playerHalf, state.Y))
		}
	}

	h.updateAgentsLocked(now)
	h.tick++

	players := h.playersSnapshotLocked()
	agents := h.agentsSnapshotLocked()
	h.mu.Unlock()

	return players, agents, toClose
}

func (h *Hub) updateAgentsLocked(now time.Time) {
	infos := make([]behavior.AgentInfo, 0, len(h.agents))
	for _, actor := range h.agents {
		infos = append(infos, behavior.AgentInfo{
			ID:       actor.ID,
			Type:     actor.Type,
			Position: actor.Position,
		})
	}
	playerPositions := make([]behavior.Vec2, 0, len(h.players))
	for _, state := range h.players {
		playerPositions = append(playerPositions, behavior.Vec2{X: state.X, Y: state.Y})
	}

	view := &tickView{world: h.world, agents: infos}
	env := behavior.Env{
		Now:            now,
		Tick:           h.tick,
		World:          view,
		Directives:     h.directives,
		RNG:            h.behaviorRNG,
		Publisher:      h.pub,
		UpdateInterval: h.updateInterval,
	}

	width, height := h.world.Bounds()
	half := agentSize / 2
	for _, actor := range h.agents {
		env.Player = nearestPlayerRef(actor.Position, playerPositions)
		actor.Update(env)
		actor.Position.X = math.Max(half, math.Min(width-half, actor.Position.X))
		actor.Position.Y = math.Max(half, math.Min(height-half, actor.Position.Y))
	}
}

// tickView is the per-tick read-only world handed to agents. The agent list
// is snapshotted once so every agent observes the same tick-start positions.
type tickView struct {
	world  *World
	agents []behavior.AgentInfo
}

func (v *tickView) ObjectsNear(pos behavior.Vec2, radius float64) []behavior.Object {
	return v.world.ObjectsNear(pos, radius)
}

func (v *tickView) AgentsNear(pos behavior.Vec2, radius float64) []behavior.AgentInfo {
	nearby := make([]behavior.AgentInfo, 0, len(v.agents))
	for _, info := range v.agents {
		if vecDistance(pos, info.Position) <= radius {
			nearby = append(nearby, info)
		}
	}
	return nearby
}

func (v *tickView) Bounds() (float64, float64) {
	return v.world.Bounds()
}

type vecRef behavior.Vec2

func (r vecRef) Position() behavior.Vec2 { return behavior.Vec2(r) }

func nearestPlayerRef(pos behavior.Vec2, players []behavior.Vec2) behavior.PlayerRef {
	if len(players) == 0 {
		return nil
	}
	best := players[0]
	bestDist := vecDistance(pos, best)
	for _, p := range players[1:] {
		if d := vecDistance(pos, p); d < bestDist {
			best = p
			bestDist = d
		}
	}
	return vecRef(best)
}

// BroadcastState sends a state snapshot to every subscriber. Passing nil
// snapshots re-reads current state under the lock.
func (h *Hub) BroadcastState(players []Player, agents []Agent) {
	h.mu.Lock()
	if players == nil {
		players = h.playersSnapshotLocked()
	}
	if agents == nil {
		agents = h.agentsSnapshotLocked()
	}
	tick := h.tick
	subs := make(map[string]*Subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	msg := stateMessage{
		Ver:        ProtocolVersion,
		Type:       "state",
		Players:    players,
		Agents:     agents,
		Tick:       tick,
		ServerTime: time.Now().UnixMilli(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Printf("failed to marshal state message: %v", err)
		return
	}

	for id, sub := range subs {
		if err := sub.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Printf("failed to send update to %s: %v", id, err)
			players, agents := h.Disconnect(id)
			if players != nil {
				go h.BroadcastState(players, agents)
			}
		}
	}
}

// MarshalInitialState builds the first state message sent on a fresh
// subscription.
func (h *Hub) MarshalInitialState(players []Player, agents []Agent) ([]byte, error) {
	msg := stateMessage{
		Ver:        ProtocolVersion,
		Type:       "state",
		Players:    players,
		Agents:     agents,
		ServerTime: time.Now().UnixMilli(),
	}
	return json.Marshal(msg)
}

// RunSimulation drives the fixed-rate tick loop until stop closes.
func (h *Hub) RunSimulation(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			if dt <= 0 {
				dt = 1.0 / float64(tickRate)
			}
			last = now

			players, agents, toClose := h.advance(now, dt)
			for _, sub := range toClose {
				sub.conn.Close()
			}
			h.BroadcastState(players, agents)
		}
	}
}

// DiagnosticsSnapshot reports live state for the diagnostics endpoint.
func (h *Hub) DiagnosticsSnapshot() DiagnosticsReport {
	h.mu.Lock()
	report := DiagnosticsReport{
		Tick:    h.tick,
		Players: make([]diagnosticsPlayer, 0, len(h.players)),
		Agents:  make([]diagnosticsAgent, 0, len(h.agents)),
	}
	for _, state := range h.players {
		report.Players = append(report.Players, diagnosticsPlayer{
			Ver:           ProtocolVersion,
			ID:            state.ID,
			LastHeartbeat: state.lastHeartbeat.UnixMilli(),
			RTTMillis:     state.lastRTT.Milliseconds(),
		})
	}
	for _, actor := range h.agents {
		report.Agents = append(report.Agents, diagnosticsAgent{
			ID:      actor.ID,
			Type:    actor.Type,
			Task:    actor.Directive.CurrentTask,
			Waiting: actor.Directive.Waiting,
		})
	}
	h.mu.Unlock()

	report.DirectiveQueue = h.directives.QueueDepth()
	report.DirectiveMode = string(h.directives.Client().Mode())
	return report
}
