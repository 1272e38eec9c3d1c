package game

// Player statuses. Board games only use StatusPlaying; the card tables
// move seats through the rest.
const (
	StatusPlaying   = "playing"
	StatusStand     = "stand"
	StatusBust      = "bust"
	StatusBlackjack = "blackjack"
	StatusBankrupt  = "bankrupt"
	StatusLocked    = "locked"   // override: guess locked in
	StatusFinished  = "finished" // uno: hand emptied
)

// Player is a seat in a room. Join order is seat order is turn order.
type Player struct {
	ID        string
	Name      string
	AccountID string
	Color     string // othello/connect4 marker

	Ready        bool
	Score        int64 // table chips / points for the active match
	InitialScore int64 // buy-in snapshot, for net delta on leave
	CurrentBet   int64
	Status       string
	IsCPU        bool

	Hand    []Card    // blackjack
	UnoHand []UnoCard // uno

	Guess     string // override: "high" | "low"
	UnoCalled bool   // verbal UNO flag, cleared at each turn start
}

// Active reports whether the seat takes part in the current round.
func (p *Player) Active() bool {
	return p.Status != StatusBankrupt && p.Status != StatusFinished
}

// PlayerView is the per-recipient projection of a seat. Hands are only
// populated where the viewer is allowed to see them.
type PlayerView struct {
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	Ready     bool      `json:"ready"`
	Score     int64     `json:"score"`
	Bet       int64     `json:"bet"`
	Status    string    `json:"status"`
	IsCPU     bool      `json:"is_cpu,omitempty"`
	Hand      []Card    `json:"hand,omitempty"`
	UnoHand   []UnoCard `json:"uno_hand,omitempty"`
	HandCount int       `json:"hand_count"`
	Guess     string    `json:"guess,omitempty"`
}
