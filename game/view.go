package game

// RoomView is the authoritative snapshot pushed to one recipient. Hidden
// information is masked per viewer: uno hands collapse to counts and the
// dealer hole card stays out until reveal.
type RoomView struct {
	Room     string       `json:"room"`
	GameType string       `json:"game_type"`
	Active   bool         `json:"active"`
	Phase    string       `json:"phase,omitempty"`
	Players  []PlayerView `json:"players"`
	Turn     string       `json:"turn,omitempty"`

	Board [][]int8 `json:"board,omitempty"` // othello / connect4

	Dealer     []Card `json:"dealer,omitempty"`
	HoleHidden bool   `json:"hole_hidden,omitempty"`

	Discard     *UnoCard `json:"discard,omitempty"`
	ActiveColor string   `json:"active_color,omitempty"`
	Direction   int      `json:"direction,omitempty"`
	Pending     int      `json:"pending,omitempty"`

	BaseCard *Card `json:"base_card,omitempty"`
	NextCard *Card `json:"next_card,omitempty"`

	Round     int `json:"round,omitempty"`
	MaxRounds int `json:"max_rounds,omitempty"`
}

// broadcastState fans the current snapshot out to every member, one view
// per recipient. Must be called with the room lock held.
func (r *Room) broadcastState() {
	r.reg.cast.Fanout(r.ID, "room_state", func(viewerID string) any {
		return r.snapshot(viewerID)
	})
}

// snapshot builds the view for one recipient. Lock held by caller.
func (r *Room) snapshot(viewerID string) RoomView {
	v := RoomView{
		Room:     r.ID,
		GameType: r.GameType,
		Active:   r.gameActive,
		Players:  make([]PlayerView, 0, len(r.players)),
	}

	for _, p := range r.players {
		pv := PlayerView{
			Name:   p.Name,
			Color:  p.Color,
			Ready:  p.Ready,
			Score:  p.Score,
			Bet:    p.CurrentBet,
			Status: p.Status,
			IsCPU:  p.IsCPU,
		}
		switch r.GameType {
		case GameBlackjack, GameOverride:
			// card-game hands are face up between seats
			pv.Hand = p.Hand
			pv.HandCount = len(p.Hand)
			pv.Guess = p.Guess
		case GameUno:
			pv.HandCount = len(p.UnoHand)
			if p.ID == viewerID {
				pv.UnoHand = p.UnoHand
			}
		}
		v.Players = append(v.Players, pv)
	}

	switch r.GameType {
	case GameOthello:
		if r.othello != nil {
			v.Board = r.othello.rows()
			v.Turn = othelloColorName(r.othello.turn)
		}
	case GameConnect4:
		if r.connect4 != nil {
			v.Board = r.connect4.rows()
			v.Turn = connect4ColorName(r.connect4.turn)
		}
	case GameBlackjack:
		if r.bj != nil {
			v.Phase = r.bj.phase
			v.Round = r.bj.round
			v.MaxRounds = r.bj.maxRounds
			v.Dealer, v.HoleHidden = r.bj.dealerView()
			if r.bj.phase == phasePlaying && r.bj.turnIdx < len(r.players) {
				v.Turn = r.players[r.bj.turnIdx].Name
			}
		}
	case GameUno:
		if r.uno != nil {
			v.Phase = phasePlaying
			if top := r.uno.top(); top != nil {
				c := *top
				v.Discard = &c
			}
			v.ActiveColor = r.uno.active
			v.Direction = r.uno.dir
			v.Pending = r.uno.pending
			if r.uno.turnIdx < len(r.players) {
				v.Turn = r.players[r.uno.turnIdx].Name
			}
		}
	case GameOverride:
		if r.override != nil {
			v.Phase = r.override.phase
			v.Round = r.override.round
			v.MaxRounds = r.override.maxRounds
			if r.override.base != nil {
				c := *r.override.base
				v.BaseCard = &c
			}
			if r.override.next != nil {
				c := *r.override.next
				v.NextCard = &c
			}
		}
	}
	return v
}
