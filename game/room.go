package game

import (
	"sync"
	"time"

	"github.com/ten-ki/proto-games/utils/logger"
)

// Room is one table. All mutations go through methods that hold mu, so
// actions for a room are applied strictly in arrival order. Exactly one
// of the per-game state pointers is non-nil once a match starts,
// selected by GameType.
type Room struct {
	ID       string
	GameType string

	mu         sync.Mutex
	players    []*Player
	gameActive bool
	gen        uint64 // bumped on reset/teardown; stale timer callbacks check it

	othello  *OthelloState
	connect4 *Connect4State
	bj       *BlackjackState
	uno      *UnoState
	override *OverrideState

	reg *Registry
}

// Registry owns the room table. It is the only cross-room shared state in
// the game package; everything else lives inside a single room's mutex.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	rules  Rules
	cast   Broadcaster
	ledger Ledger
}

func NewRegistry(rules Rules, cast Broadcaster, ledger Ledger) *Registry {
	return &Registry{
		rooms:  make(map[string]*Room),
		rules:  rules,
		cast:   cast,
		ledger: ledger,
	}
}

// GetOrCreate returns the room with the given id, creating it with
// gameType if absent. An existing room keeps its own game type regardless
// of what the joiner asked for.
func (reg *Registry) GetOrCreate(id, gameType string) (*Room, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if r, ok := reg.rooms[id]; ok {
		return r, nil
	}
	if !ValidGameType(gameType) {
		return nil, ErrUnknownGameType
	}
	r := &Room{ID: id, GameType: gameType, reg: reg}
	reg.rooms[id] = r
	logger.Infof("[Room %s] created (game=%s)", id, gameType)
	return r, nil
}

func (reg *Registry) Get(id string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[id]
	return r, ok
}

// Remove drops the room and tells the transport to detach its members.
func (reg *Registry) Remove(id string) {
	reg.mu.Lock()
	_, ok := reg.rooms[id]
	delete(reg.rooms, id)
	reg.mu.Unlock()

	if !ok {
		return
	}
	logger.Infof("[Room %s] destroyed", id)
	reg.cast.ToRoom(id, "room_destroyed", map[string]string{"room": id})
	reg.cast.Closed(id)
}

// RoomSummary is the lobby listing entry.
type RoomSummary struct {
	ID       string `json:"id"`
	GameType string `json:"game_type"`
	Players  int    `json:"players"`
	Active   bool   `json:"active"`
}

func (reg *Registry) List() []RoomSummary {
	reg.mu.RLock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	reg.mu.RUnlock()

	out := make([]RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		r.mu.Lock()
		out = append(out, RoomSummary{
			ID:       r.ID,
			GameType: r.GameType,
			Players:  len(r.players),
			Active:   r.gameActive,
		})
		r.mu.Unlock()
	}
	return out
}

// after schedules fn on the room's timeline. The callback re-checks that
// the room is still registered and the generation unchanged, so a fired
// timer no-ops if the room was torn down or reset meanwhile. fn runs with
// the room lock held.
func (r *Room) after(d time.Duration, fn func()) {
	gen := r.gen
	time.AfterFunc(d, func() {
		r.mu.Lock()
		cur, ok := r.reg.Get(r.ID)
		if !ok || cur != r || r.gen != gen {
			r.mu.Unlock()
			return
		}
		fn()
		r.mu.Unlock()
	})
}

// Join seats a player. For money games the caller has already debited the
// buy-in and set Score/InitialScore on p.
func (r *Room) Join(p *Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cap := r.reg.rules.SeatCaps[r.GameType]
	if len(r.players) >= cap {
		return ErrRoomFull
	}
	if r.gameActive {
		return ErrWrongPhase
	}

	if r.GameType == GameOthello || r.GameType == GameConnect4 {
		if len(r.players) == 0 {
			if r.GameType == GameOthello {
				p.Color = "black"
			} else {
				p.Color = "red"
			}
		} else {
			if r.GameType == GameOthello {
				p.Color = "white"
			} else {
				p.Color = "yellow"
			}
		}
	}
	p.Status = StatusPlaying
	r.players = append(r.players, p)
	logger.Infof("[Room %s] %s joined (seat %d)", r.ID, p.Name, len(r.players)-1)

	if (r.GameType == GameOthello || r.GameType == GameConnect4) && len(r.players) == 2 {
		r.startBoardGame()
	} else {
		r.broadcastState()
	}
	return nil
}

// startBoardGame begins othello/connect4 as soon as the second seat
// fills. Lock held by caller.
func (r *Room) startBoardGame() {
	r.gameActive = true
	var turn string
	if r.GameType == GameOthello {
		r.othello = newOthello()
		turn = othelloColorName(r.othello.turn)
	} else {
		r.connect4 = newConnect4()
		turn = connect4ColorName(r.connect4.turn)
	}
	r.reg.cast.ToRoom(r.ID, "game_start", map[string]any{
		"game_type": r.GameType,
		"p1":        r.players[0].Name,
		"p2":        r.players[1].Name,
		"turn":      turn,
	})
	r.broadcastState()
}

// SetReady flags a card-game seat as ready; when every human seat is
// ready the match starts. Board games start on the second join instead.
func (r *Room) SetReady(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.playerByID(playerID)
	if p == nil {
		return ErrNotSeated
	}
	if r.gameActive {
		return ErrWrongPhase
	}
	p.Ready = true

	if r.allHumansReady() {
		switch r.GameType {
		case GameBlackjack:
			r.startBlackjack()
		case GameOverride:
			r.startOverride()
		case GameUno:
			r.startUno()
		default:
			r.broadcastState()
		}
		return nil
	}
	r.broadcastState()
	return nil
}

func (r *Room) allHumansReady() bool {
	if len(r.players) == 0 {
		return false
	}
	for _, p := range r.players {
		if !p.IsCPU && !p.Ready {
			return false
		}
	}
	return true
}

// Leave removes a player. Mid-game the match aborts (board games) or the
// table drops back to lobby with bots removed (card games). The room is
// destroyed once no human remains.
func (r *Room) Leave(playerID string) {
	r.mu.Lock()

	idx := -1
	for i, p := range r.players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx == -1 {
		r.mu.Unlock()
		return
	}
	p := r.players[idx]
	p.Score += p.CurrentBet // outstanding bet returns to the table score
	p.CurrentBet = 0
	if !p.IsCPU {
		r.reconcilePlayer(p)
	}
	r.players = append(r.players[:idx], r.players[idx+1:]...)
	logger.Infof("[Room %s] %s left", r.ID, p.Name)

	humans := 0
	for _, q := range r.players {
		if !q.IsCPU {
			humans++
		}
	}
	if humans == 0 {
		r.gen++
		r.mu.Unlock()
		r.reg.Remove(r.ID)
		return
	}

	wasActive := r.gameActive
	r.resetToLobby()
	if wasActive {
		r.reg.cast.ToRoom(r.ID, "notification",
			map[string]string{"message": p.Name + " left, returning to lobby"})
	}
	r.broadcastState()
	r.mu.Unlock()
}

// reconcilePlayer hands a human seat's table result to the ledger.
// Board games carry no table score, so there is nothing to settle.
func (r *Room) reconcilePlayer(p *Player) {
	if p.InitialScore == 0 && p.Score == 0 {
		return
	}
	r.reg.ledger.Reconcile(ReconcileEntry{
		Name:         p.Name,
		AccountID:    p.AccountID,
		Score:        p.Score,
		Initial:      p.InitialScore,
		WealthBacked: MoneyGame(r.GameType),
	})
	p.Score, p.InitialScore = 0, 0
}

// resetToLobby aborts whatever was running: bots out, hands and bets
// cleared, ready flags down, pending timers invalidated.
func (r *Room) resetToLobby() {
	r.gen++
	r.gameActive = false
	r.othello, r.connect4, r.bj, r.uno, r.override = nil, nil, nil, nil, nil

	kept := r.players[:0]
	for _, p := range r.players {
		if p.IsCPU {
			continue
		}
		p.Ready = false
		p.Status = StatusPlaying
		p.Score += p.CurrentBet
		p.CurrentBet = 0
		p.Hand = nil
		p.UnoHand = nil
		p.Guess = ""
		p.UnoCalled = false
		kept = append(kept, p)
	}
	r.players = kept
}

func (r *Room) playerByID(id string) *Player {
	for _, p := range r.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// endMatch settles every human seat, records the result and schedules the
// delayed teardown that leaves the result on screen for a while.
func (r *Room) endMatch(winner, summary string) {
	r.broadcastState()
	scores := make(map[string]int64, len(r.players))
	for _, p := range r.players {
		scores[p.Name] = p.Score
	}
	for _, p := range r.players {
		if !p.IsCPU {
			r.reconcilePlayer(p)
		}
	}
	r.gameActive = false
	r.reg.ledger.RecordMatch(r.ID, r.GameType, winner, scores)
	r.reg.cast.ToRoom(r.ID, "game_over", map[string]any{
		"winner":  winner,
		"scores":  scores,
		"summary": summary,
	})
	r.after(r.reg.rules.TeardownDelay, func() {
		r.gen++
		go r.reg.Remove(r.ID)
	})
}
