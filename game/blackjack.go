package game

import "fmt"

// Card-table phases, shared by blackjack and override.
const (
	phaseBetting   = "betting"
	phasePlaying   = "playing"
	phaseGuessing  = "guessing"
	phaseRoundOver = "roundOver"
)

// BlackjackState runs a fixed-round match against a house dealer.
type BlackjackState struct {
	deck      []Card
	dealer    []Card
	round     int
	maxRounds int
	phase     string
	turnIdx   int
	revealed  bool
}

func (s *BlackjackState) draw() Card {
	if len(s.deck) == 0 {
		s.deck = NewDeck()
	}
	c := s.deck[len(s.deck)-1]
	s.deck = s.deck[:len(s.deck)-1]
	return c
}

// dealerView hides the hole card until every seat has acted.
func (s *BlackjackState) dealerView() ([]Card, bool) {
	if s.revealed || len(s.dealer) == 0 {
		return s.dealer, false
	}
	return s.dealer[:1], true
}

func (s *BlackjackState) dealerNatural() bool {
	return len(s.dealer) == 2 && HandValue(s.dealer) == 21
}

// blackjackPayoutHalves returns the payout multiplier in halves, so the
// 2.5x natural pays bet*5/2 with integer math. The final credit is
// floor(bet * multiplier).
func blackjackPayoutHalves(p *Player, dealer []Card, dealerNatural bool) int64 {
	switch {
	case p.Status == StatusBust:
		return 0
	case p.Status == StatusBlackjack && dealerNatural:
		return 2 // push
	case p.Status == StatusBlackjack:
		return 5 // 2.5x
	}
	dealerVal := HandValue(dealer)
	playerVal := HandValue(p.Hand)
	switch {
	case dealerVal > 21:
		return 4
	case playerVal > dealerVal:
		return 4
	case playerVal == dealerVal:
		return 2
	default:
		return 0
	}
}

// startBlackjack begins the match once every seat readied up. Lock held.
func (r *Room) startBlackjack() {
	r.gameActive = true
	r.bj = &BlackjackState{maxRounds: r.reg.rules.BlackjackRounds}
	r.bjStartRound()
}

// bjStartRound resets the shoe, clears hands and bets, benches broke
// seats and opens betting. Lock held.
func (r *Room) bjStartRound() {
	s := r.bj
	s.round++
	s.deck = NewDeck()
	s.dealer = nil
	s.revealed = false
	s.phase = phaseBetting
	s.turnIdx = 0

	active := 0
	for _, p := range r.players {
		p.Hand = nil
		p.CurrentBet = 0
		if p.Score <= 0 {
			p.Status = StatusBankrupt
		} else {
			p.Status = StatusPlaying
			active++
		}
	}
	if active == 0 {
		r.bjEndMatch()
		return
	}
	r.reg.cast.ToRoom(r.ID, "round_start", map[string]any{
		"round":      s.round,
		"max_rounds": s.maxRounds,
	})
	r.broadcastState()
}

func (r *Room) bjBet(p *Player, amount int64) error {
	s := r.bj
	if s.phase != phaseBetting {
		return ErrWrongPhase
	}
	if p.Status != StatusPlaying {
		return ErrIllegalMove
	}
	if p.CurrentBet > 0 {
		return ErrIllegalMove // one bet per round
	}
	if amount < 1 {
		return ErrIllegalMove
	}
	if amount > p.Score {
		amount = p.Score
	}
	p.CurrentBet = amount
	p.Score -= amount

	for _, q := range r.players {
		if q.Status == StatusPlaying && q.CurrentBet == 0 {
			r.broadcastState()
			return nil
		}
	}
	r.bjDeal()
	return nil
}

// bjDeal hands two cards to every bettor and two to the dealer, flags
// naturals and opens the first turn.
func (r *Room) bjDeal() {
	s := r.bj
	for _, p := range r.players {
		if p.Status != StatusPlaying {
			continue
		}
		p.Hand = []Card{s.draw(), s.draw()}
		if HandValue(p.Hand) == 21 {
			p.Status = StatusBlackjack
		}
	}
	s.dealer = []Card{s.draw(), s.draw()}
	s.phase = phasePlaying
	s.turnIdx = -1
	r.bjAdvanceTurn()
	r.broadcastState()
}

// bjAdvanceTurn moves to the next seat still able to act; bankrupt,
// natural, busted and standing seats are skipped. Past the last seat the
// dealer plays out.
func (r *Room) bjAdvanceTurn() {
	s := r.bj
	for i := s.turnIdx + 1; i < len(r.players); i++ {
		if r.players[i].Status == StatusPlaying {
			s.turnIdx = i
			r.reg.cast.ToRoom(r.ID, "turn_change", map[string]string{"turn": r.players[i].Name})
			return
		}
	}
	r.bjDealerPlay()
}

// Hit draws one card for the acting blackjack seat.
func (r *Room) Hit(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.bjActing(playerID)
	if err != nil {
		return err
	}
	s := r.bj
	p.Hand = append(p.Hand, s.draw())
	if HandValue(p.Hand) > 21 {
		p.Status = StatusBust
		r.bjAdvanceTurn()
	}
	r.broadcastState()
	return nil
}

// Stand ends the acting seat's turn.
func (r *Room) Stand(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.bjActing(playerID)
	if err != nil {
		return err
	}
	p.Status = StatusStand
	r.bjAdvanceTurn()
	r.broadcastState()
	return nil
}

func (r *Room) bjActing(playerID string) (*Player, error) {
	if !r.gameActive || r.bj == nil {
		return nil, ErrGameInactive
	}
	s := r.bj
	if s.phase != phasePlaying {
		return nil, ErrWrongPhase
	}
	if s.turnIdx < 0 || s.turnIdx >= len(r.players) || r.players[s.turnIdx].ID != playerID {
		return nil, ErrNotYourTurn
	}
	return r.players[s.turnIdx], nil
}

// bjDealerPlay reveals the hole card, draws to a hard 17 and settles.
func (r *Room) bjDealerPlay() {
	s := r.bj
	s.revealed = true
	for HandValue(s.dealer) < 17 {
		s.dealer = append(s.dealer, s.draw())
	}
	r.bjSettle()
}

func (r *Room) bjSettle() {
	s := r.bj
	natural := s.dealerNatural()
	results := make(map[string]int64, len(r.players))
	for _, p := range r.players {
		if p.Status == StatusBankrupt {
			continue
		}
		payout := p.CurrentBet * blackjackPayoutHalves(p, s.dealer, natural) / 2
		p.Score += payout
		results[p.Name] = payout - p.CurrentBet
		p.CurrentBet = 0
	}
	s.phase = phaseRoundOver
	r.reg.cast.ToRoom(r.ID, "round_over", map[string]any{
		"round":      s.round,
		"dealer":     s.dealer,
		"dealer_val": HandValue(s.dealer),
		"results":    results,
	})
	r.broadcastState()

	broke := true
	for _, p := range r.players {
		if p.Score > 0 {
			broke = false
			break
		}
	}
	if s.round >= s.maxRounds || broke {
		r.bjEndMatch()
		return
	}
	r.after(r.reg.rules.NextRoundDelay, r.bjStartRound)
}

func (r *Room) bjEndMatch() {
	var best *Player
	for _, p := range r.players {
		if best == nil || p.Score > best.Score {
			best = p
		}
	}
	winner := "nobody"
	summary := "Match over"
	if best != nil {
		winner = best.Name
		summary = fmt.Sprintf("%s wins with %d chips", best.Name, best.Score)
	}
	r.endMatch(winner, summary)
}
