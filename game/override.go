package game

import "fmt"

// OverrideState is the high/low table: bet, see a base card, lock a
// direction guess, then the next card decides the payout.
type OverrideState struct {
	deck      []Card
	base      *Card
	next      *Card
	round     int
	maxRounds int
	phase     string
}

func (s *OverrideState) draw() Card {
	if len(s.deck) == 0 {
		s.deck = NewDeck()
	}
	c := s.deck[len(s.deck)-1]
	s.deck = s.deck[:len(s.deck)-1]
	return c
}

// overridePayoutHalves scores one locked guess against the revealed pair.
// Power tie pushes, a correct direction doubles, a miss loses the bet.
func overridePayoutHalves(base, next Card, guess string) int64 {
	switch {
	case next.Power == base.Power:
		return 2
	case next.Power > base.Power && guess == "high":
		return 4
	case next.Power < base.Power && guess == "low":
		return 4
	default:
		return 0
	}
}

// PlaceBet handles the betting phase for both money tables.
func (r *Room) PlaceBet(playerID string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.gameActive {
		return ErrGameInactive
	}
	p := r.playerByID(playerID)
	if p == nil {
		return ErrNotSeated
	}
	switch r.GameType {
	case GameBlackjack:
		if r.bj == nil {
			return ErrGameInactive
		}
		return r.bjBet(p, amount)
	case GameOverride:
		if r.override == nil {
			return ErrGameInactive
		}
		return r.ovBet(p, amount)
	}
	return ErrIllegalMove
}

// startOverride begins the match once every seat readied up. Lock held.
func (r *Room) startOverride() {
	r.gameActive = true
	r.override = &OverrideState{maxRounds: r.reg.rules.OverrideRounds}
	r.ovStartRound()
}

func (r *Room) ovStartRound() {
	s := r.override
	s.round++
	s.deck = NewDeck()
	s.base, s.next = nil, nil
	s.phase = phaseBetting

	active := 0
	for _, p := range r.players {
		p.CurrentBet = 0
		p.Guess = ""
		if p.Score <= 0 {
			p.Status = StatusBankrupt
		} else {
			p.Status = StatusPlaying
			active++
		}
	}
	if active == 0 {
		r.ovEndMatch()
		return
	}
	r.reg.cast.ToRoom(r.ID, "round_start", map[string]any{
		"round":      s.round,
		"max_rounds": s.maxRounds,
	})
	r.broadcastState()
}

func (r *Room) ovBet(p *Player, amount int64) error {
	s := r.override
	if s.phase != phaseBetting {
		return ErrWrongPhase
	}
	if p.Status != StatusPlaying || p.CurrentBet > 0 || amount < 1 {
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
	// all bets in: reveal the base card and open guessing
	base := s.draw()
	s.base = &base
	s.phase = phaseGuessing
	r.broadcastState()
	return nil
}

// Guess locks in high or low for the acting seat. One guess per player,
// no re-guessing; the round resolves once every bettor has locked.
func (r *Room) Guess(playerID, dir string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.gameActive || r.override == nil {
		return ErrGameInactive
	}
	s := r.override
	if s.phase != phaseGuessing {
		return ErrWrongPhase
	}
	if dir != "high" && dir != "low" {
		return ErrIllegalMove
	}
	p := r.playerByID(playerID)
	if p == nil {
		return ErrNotSeated
	}
	if p.Status != StatusPlaying {
		return ErrIllegalMove // already locked, busted out, or benched
	}
	p.Guess = dir
	p.Status = StatusLocked

	for _, q := range r.players {
		if q.Status == StatusPlaying {
			r.broadcastState()
			return nil
		}
	}
	r.ovResolve()
	return nil
}

func (r *Room) ovResolve() {
	s := r.override
	next := s.draw()
	s.next = &next

	results := make(map[string]int64, len(r.players))
	for _, p := range r.players {
		if p.Status != StatusLocked {
			continue
		}
		payout := p.CurrentBet * overridePayoutHalves(*s.base, next, p.Guess) / 2
		p.Score += payout
		results[p.Name] = payout - p.CurrentBet
		p.CurrentBet = 0
	}
	s.phase = phaseRoundOver
	r.reg.cast.ToRoom(r.ID, "round_over", map[string]any{
		"round":   s.round,
		"base":    *s.base,
		"next":    next,
		"results": results,
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
		r.ovEndMatch()
		return
	}
	r.after(r.reg.rules.NextRoundDelay, r.ovStartRound)
}

func (r *Room) ovEndMatch() {
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
