package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/ten-ki/proto-games/config"
	"github.com/ten-ki/proto-games/game"
	"github.com/ten-ki/proto-games/utils/logger"

	"gorm.io/gorm"
)

const chatHistoryKeep = 200

// Hub is the transport side of the server: it owns the websocket clients,
// routes their actions into rooms, and implements game.Broadcaster so the
// engines can push authoritative state back out.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client            // session id -> client
	members map[string]map[string]*Client // room id -> session id -> client

	registry *game.Registry
	ledger   Wallet
	settings *config.Settings

	stop chan struct{}
}

func NewHub(settings *config.Settings, db *gorm.DB) *Hub {
	h := &Hub{
		clients:  make(map[string]*Client),
		members:  make(map[string]map[string]*Client),
		ledger:   NewLedgerService(db, settings),
		settings: settings,
		stop:     make(chan struct{}),
	}
	rules := game.DefaultRules()
	rules.SeatCaps = settings.SeatCaps
	rules.BuyIn = settings.DefaultBuyIn
	rules.BlackjackRounds = settings.BlackjackRounds
	rules.OverrideRounds = settings.OverrideRounds
	rules.UnoForfeit = settings.UnoForfeit
	rules.TeardownDelay = settings.TeardownDelay
	rules.NextRoundDelay = settings.NextRoundDelay
	rules.CPUThinkMin = settings.CPUThinkMin
	rules.CPUThinkMax = settings.CPUThinkMax
	h.registry = game.NewRegistry(rules, h, h.ledger)
	return h
}

func (h *Hub) Registry() *game.Registry { return h.registry }
func (h *Hub) Ledger() Wallet           { return h.ledger }

// -------------------- Broadcaster --------------------

type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func (h *Hub) ToRoom(roomID, event string, payload any) {
	b, err := json.Marshal(envelope{Type: event, Data: payload})
	if err != nil {
		logger.Errorf("[Hub] marshal %s for room %s: %v", event, roomID, err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.members[roomID] {
		c.enqueue(b)
	}
}

func (h *Hub) ToPlayer(playerID, event string, payload any) {
	b, err := json.Marshal(envelope{Type: event, Data: payload})
	if err != nil {
		logger.Errorf("[Hub] marshal %s for player %s: %v", event, playerID, err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.clients[playerID]; ok {
		c.enqueue(b)
	}
}

// Fanout builds one payload per recipient so each member gets its own
// masked view.
func (h *Hub) Fanout(roomID, event string, view func(playerID string) any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.members[roomID] {
		b, err := json.Marshal(envelope{Type: event, Data: view(id)})
		if err != nil {
			logger.Errorf("[Hub] marshal %s for %s: %v", event, id, err)
			continue
		}
		c.enqueue(b)
	}
}

// Closed detaches every member of a torn-down room.
func (h *Hub) Closed(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.members[roomID] {
		c.room = ""
	}
	delete(h.members, roomID)
}

// -------------------- Client lifecycle --------------------

func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	go c.writePump()
	go c.readPump()
	logger.Infof("[Hub] client %s connected (total=%d)", c.id, h.clientCount())
}

func (h *Hub) removeClient(c *Client) {
	h.leaveRoom(c)
	h.mu.Lock()
	if cur, ok := h.clients[c.id]; ok && cur == c {
		delete(h.clients, c.id)
	}
	h.mu.Unlock()
	c.Close()
	logger.Infof("[Hub] client %s disconnected", c.id)
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) leaveRoom(c *Client) {
	h.mu.Lock()
	roomID := c.room
	c.room = ""
	if roomID != "" {
		if m, ok := h.members[roomID]; ok {
			delete(m, c.id)
			if len(m) == 0 {
				delete(h.members, roomID)
			}
		}
	}
	h.mu.Unlock()

	if roomID == "" {
		return
	}
	if r, ok := h.registry.Get(roomID); ok {
		r.Leave(c.id)
	}
}

// -------------------- Inbound actions --------------------

type inbound struct {
	Action   string   `json:"action"`
	Username string   `json:"username"`
	Room     string   `json:"room"`
	GameType string   `json:"game_type"`
	BuyIn    int64    `json:"buy_in"`
	Amount   int64    `json:"amount"`
	Row      int      `json:"row"`
	Col      int      `json:"col"`
	Move     string   `json:"move"` // hit | stand | high | low
	Cards    []string `json:"cards"`
	Color    string   `json:"color"`
	Text     string   `json:"text"`
}

// handleMessage routes one inbound client message. A panic while
// handling it is recovered here so one bad message cannot take down the
// other rooms.
func (h *Hub) handleMessage(c *Client, raw []byte) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[Client %s] recovered from panic: %v", c.id, r)
		}
	}()

	var msg inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		logger.Warnf("[Client %s] invalid message: %v", c.id, err)
		return
	}

	switch msg.Action {
	case "join":
		h.handleJoin(c, msg)
	case "set_ready":
		h.withRoom(c, func(r *game.Room) error { return r.SetReady(c.id) })
	case "place_bet":
		h.withRoom(c, func(r *game.Room) error { return r.PlaceBet(c.id, msg.Amount) })
	case "play_move":
		h.handleMove(c, msg)
	case "draw_card":
		h.withRoom(c, func(r *game.Room) error { return r.DrawUno(c.id) })
	case "call_uno":
		h.withRoom(c, func(r *game.Room) error { return r.CallUno(c.id) })
	case "chat":
		h.handleChat(c, msg)
	case "leave":
		h.leaveRoom(c)
	default:
		logger.Warnf("[Client %s] unknown action: %q", c.id, msg.Action)
	}
}

func (h *Hub) handleJoin(c *Client, msg inbound) {
	if msg.Username == "" || msg.Room == "" {
		h.sendError(c, "username and room are required")
		return
	}

	h.mu.RLock()
	cur := c.room
	h.mu.RUnlock()
	if cur == msg.Room {
		h.sendError(c, "already in room "+cur)
		return
	}
	if cur != "" {
		// switching rooms: vacate the old seat so it cannot stall a turn
		h.leaveRoom(c)
	}

	r, err := h.registry.GetOrCreate(msg.Room, msg.GameType)
	if err != nil {
		h.sendError(c, "unknown game type")
		return
	}
	if msg.GameType != "" && msg.GameType != r.GameType {
		h.sendError(c, "room "+r.ID+" is running "+r.GameType)
		return
	}

	p := &game.Player{ID: c.id, Name: msg.Username, AccountID: c.accountID}

	if game.MoneyGame(r.GameType) {
		buyIn := msg.BuyIn
		if buyIn <= 0 {
			buyIn = h.settings.DefaultBuyIn
		}
		if _, err := h.ledger.EnsureUser(msg.Username, c.accountID); err != nil {
			h.sendError(c, "ledger unavailable")
			return
		}
		if err := h.ledger.Debit(msg.Username, c.accountID, buyIn); err != nil {
			h.sendError(c, "insufficient funds for buy-in")
			return
		}
		p.Score = buyIn
		p.InitialScore = buyIn
	} else {
		// board and uno seats still get a ledger row for the leaderboard
		if _, err := h.ledger.EnsureUser(msg.Username, c.accountID); err != nil {
			logger.Warnf("[Hub] ensure user %s: %v", msg.Username, err)
		}
	}

	if err := r.Join(p); err != nil {
		if game.MoneyGame(r.GameType) && p.InitialScore > 0 {
			h.ledger.Credit(msg.Username, c.accountID, p.InitialScore)
		}
		switch err {
		case game.ErrRoomFull:
			h.sendError(c, "room is full")
		case game.ErrWrongPhase:
			h.sendError(c, "match already in progress")
		default:
			h.sendError(c, "could not join room")
		}
		return
	}

	c.name = msg.Username
	h.mu.Lock()
	c.room = r.ID
	if h.members[r.ID] == nil {
		h.members[r.ID] = make(map[string]*Client)
	}
	h.members[r.ID][c.id] = c
	h.mu.Unlock()

	h.ToPlayer(c.id, "joined", map[string]any{
		"room":      r.ID,
		"game_type": r.GameType,
		"color":     p.Color,
	})
}

func (h *Hub) handleMove(c *Client, msg inbound) {
	h.withRoom(c, func(r *game.Room) error {
		switch r.GameType {
		case game.GameOthello:
			return r.ApplyOthelloMove(c.id, msg.Row, msg.Col)
		case game.GameConnect4:
			return r.ApplyConnect4Move(c.id, msg.Col)
		case game.GameBlackjack:
			switch msg.Move {
			case "hit":
				return r.Hit(c.id)
			case "stand":
				return r.Stand(c.id)
			}
			return game.ErrIllegalMove
		case game.GameUno:
			return r.PlayUno(c.id, msg.Cards, msg.Color)
		case game.GameOverride:
			return r.Guess(c.id, msg.Move)
		}
		return game.ErrIllegalMove
	})
}

func (h *Hub) handleChat(c *Client, msg inbound) {
	h.mu.RLock()
	roomID := c.room
	h.mu.RUnlock()
	if roomID == "" || msg.Text == "" {
		return
	}
	h.ToRoom(roomID, "chat", map[string]string{"from": c.name, "text": msg.Text})
	h.ledger.SaveChat(roomID, c.name, msg.Text)
}

// withRoom runs fn against the client's current room. Rejected moves
// never mutate state; the actor just gets told.
func (h *Hub) withRoom(c *Client, fn func(r *game.Room) error) {
	h.mu.RLock()
	roomID := c.room
	h.mu.RUnlock()
	if roomID == "" {
		h.sendError(c, "join a room first")
		return
	}
	r, ok := h.registry.Get(roomID)
	if !ok {
		h.sendError(c, "room no longer exists")
		return
	}
	if err := fn(r); err != nil {
		switch err {
		case game.ErrIllegalMove, game.ErrNotYourTurn, game.ErrGameInactive,
			game.ErrWrongPhase, game.ErrNotSeated:
			// idempotent reject; tell only the actor
			h.sendError(c, err.Error())
		default:
			logger.Errorf("[Room %s] action failed for %s: %v", roomID, c.id, err)
			h.sendError(c, "action failed")
		}
	}
}

func (h *Hub) sendError(c *Client, message string) {
	h.ToPlayer(c.id, "error", map[string]string{"message": message})
}

// -------------------- Snapshot loop --------------------

// StartSnapshotLoop periodically trims persisted chat history and keeps
// the flush cadence the storage contract asks for.
func (h *Hub) StartSnapshotLoop() {
	go func() {
		ticker := time.NewTicker(h.settings.SnapshotInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				h.ledger.PruneChat(chatHistoryKeep)
			case <-h.stop:
				return
			}
		}
	}()
}

// Shutdown runs the final snapshot pass.
func (h *Hub) Shutdown() {
	close(h.stop)
	h.ledger.PruneChat(chatHistoryKeep)
	logger.Sync()
}
