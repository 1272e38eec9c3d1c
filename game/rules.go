package game

import (
	"errors"
	"time"
)

// Supported game types.
const (
	GameOthello   = "othello"
	GameConnect4  = "connect4"
	GameBlackjack = "blackjack"
	GameUno       = "uno"
	GameOverride  = "override"
)

// ValidGameType reports whether t names a supported game.
func ValidGameType(t string) bool {
	switch t {
	case GameOthello, GameConnect4, GameBlackjack, GameUno, GameOverride:
		return true
	}
	return false
}

// MoneyGame reports whether the game takes a wealth-backed buy-in.
func MoneyGame(t string) bool {
	return t == GameBlackjack || t == GameOverride
}

// Rules carries the tunables the engines read. Defaults mirror the legacy
// ladders; the server overrides them from config at boot.
type Rules struct {
	SeatCaps map[string]int

	BuyIn           int64
	BlackjackRounds int
	OverrideRounds  int
	UnoForfeit      int64
	UnoStartPoints  int64

	TeardownDelay  time.Duration
	NextRoundDelay time.Duration
	CPUThinkMin    time.Duration // zero disables bot pacing
	CPUThinkMax    time.Duration
}

// DefaultRules returns the stock configuration.
func DefaultRules() Rules {
	return Rules{
		SeatCaps: map[string]int{
			GameOthello:   2,
			GameConnect4:  2,
			GameUno:       4,
			GameBlackjack: 6,
			GameOverride:  6,
		},
		BuyIn:           500,
		BlackjackRounds: 5,
		OverrideRounds:  7,
		UnoForfeit:      200,
		UnoStartPoints:  500,
		TeardownDelay:   15 * time.Second,
		NextRoundDelay:  5 * time.Second,
		CPUThinkMin:     400 * time.Millisecond,
		CPUThinkMax:     2400 * time.Millisecond,
	}
}

// Engine errors. Illegal moves never mutate state; the transport layer
// decides which of these are reported back and which stay silent.
var (
	ErrRoomFull        = errors.New("room is full")
	ErrUnknownGameType = errors.New("unknown game type")
	ErrGameInactive    = errors.New("game is not active")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrIllegalMove     = errors.New("illegal move")
	ErrWrongPhase      = errors.New("action not allowed in this phase")
	ErrNotSeated       = errors.New("player not seated in this room")
)

// Broadcaster is the transport collaborator the engines push authoritative
// state through. Fanout builds a per-recipient payload so hidden
// information (uno hands, the dealer hole card) can be masked per viewer.
type Broadcaster interface {
	ToRoom(roomID, event string, payload any)
	ToPlayer(playerID, event string, payload any)
	Fanout(roomID, event string, view func(playerID string) any)
	// Closed tells the transport a room is gone so it can detach members.
	Closed(roomID string)
}

// ReconcileEntry is one seat's final table result handed to the ledger.
type ReconcileEntry struct {
	Name      string
	AccountID string
	Score     int64 // final table score to credit
	Initial   int64 // buy-in snapshot
	// WealthBacked moves Score back into wealth (blackjack/override);
	// otherwise only the net delta feeds the cumulative score (uno).
	WealthBacked bool
}

// Ledger is the persistent economy collaborator. All calls are best
// effort: failures are logged by the implementation and never surface
// back into the engines.
type Ledger interface {
	Reconcile(e ReconcileEntry)
	RecordMatch(roomID, gameType, winner string, scores map[string]int64)
}
