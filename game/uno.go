package game

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// UnoState tracks the pile, the turn pointer and direction, and the
// forced-draw accumulator that draw-two/draw-four chains stack onto.
type UnoState struct {
	deck          []UnoCard
	discard       []UnoCard
	active        string // active color
	turnIdx       int
	dir           int // +1 or -1
	pending       int
	pendingType   string // draw2 | draw4 while pending > 0
	drawnThisTurn bool
}

func (s *UnoState) top() *UnoCard {
	if len(s.discard) == 0 {
		return nil
	}
	return &s.discard[len(s.discard)-1]
}

// drawOne refills the deck from the discard pile (minus its top card)
// when it runs dry.
func (s *UnoState) drawOne() UnoCard {
	if len(s.deck) == 0 && len(s.discard) > 1 {
		top := s.discard[len(s.discard)-1]
		s.deck = append(s.deck, s.discard[:len(s.discard)-1]...)
		s.discard = []UnoCard{top}
		rand.Shuffle(len(s.deck), func(i, j int) { s.deck[i], s.deck[j] = s.deck[j], s.deck[i] })
	}
	if len(s.deck) == 0 {
		// pathological: everything is in hands; mint a fresh deck
		s.deck = NewUnoDeck()
	}
	c := s.deck[len(s.deck)-1]
	s.deck = s.deck[:len(s.deck)-1]
	return c
}

// playable checks a single card against the current pile state. While a
// forced draw is pending only an in-kind answer is playable.
func (s *UnoState) playable(c UnoCard) bool {
	if s.pending > 0 {
		return c.Type == s.pendingType
	}
	if c.IsWild() {
		return true
	}
	top := s.top()
	return c.Color == s.active || (top != nil && c.Type == top.Type)
}

// startUno fills empty seats with CPU players up to four, deals seven
// cards each and flips a non-wild starter. Lock held by caller.
func (r *Room) startUno() {
	for i := len(r.players); i < 4; i++ {
		r.players = append(r.players, &Player{
			ID:     "cpu-" + uuid.NewString(),
			Name:   fmt.Sprintf("CPU %d", i+1),
			IsCPU:  true,
			Status: StatusPlaying,
			Ready:  true,
		})
	}

	s := &UnoState{dir: 1}
	s.deck = NewUnoDeck()

	// flip the starter; wilds go back in for a reshuffle and redraw
	for {
		c := s.drawOne()
		if !c.IsWild() {
			s.discard = append(s.discard, c)
			s.active = c.Color
			break
		}
		s.deck = append(s.deck, c)
		rand.Shuffle(len(s.deck), func(i, j int) { s.deck[i], s.deck[j] = s.deck[j], s.deck[i] })
	}

	for _, p := range r.players {
		p.Score = r.reg.rules.UnoStartPoints
		p.InitialScore = r.reg.rules.UnoStartPoints
		p.Status = StatusPlaying
		p.UnoCalled = false
		p.UnoHand = nil
		for i := 0; i < 7; i++ {
			p.UnoHand = append(p.UnoHand, s.drawOne())
		}
	}

	r.uno = s
	r.gameActive = true
	r.reg.cast.ToRoom(r.ID, "game_start", map[string]any{
		"game_type": r.GameType,
		"turn":      r.players[0].Name,
	})
	r.broadcastState()
	r.scheduleCPU()
}

func (r *Room) unoCurrent() *Player {
	return r.players[r.uno.turnIdx]
}

// PlayUno plays one or more cards from the acting hand in a single turn.
// Every card in the batch must share the first card's type and each must
// be legal against the evolving top of the pile; a play that would empty
// the hand must end on a plain digit.
func (r *Room) PlayUno(playerID string, cardIDs []string, declaredColor string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.gameActive || r.uno == nil {
		return ErrGameInactive
	}
	p := r.unoCurrent()
	if p.ID != playerID {
		return ErrNotYourTurn
	}
	if len(cardIDs) == 0 {
		return ErrIllegalMove
	}

	// resolve ids against a working copy so a repeated id cannot claim
	// the same card instance twice
	remaining := make([]UnoCard, len(p.UnoHand))
	copy(remaining, p.UnoHand)
	cards := make([]UnoCard, 0, len(cardIDs))
	for _, id := range cardIDs {
		found := false
		for i, c := range remaining {
			if c.ID == id {
				cards = append(cards, c)
				remaining = append(remaining[:i], remaining[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			return ErrIllegalMove
		}
	}
	return r.unoPlayCards(p, cards, declaredColor)
}

// unoPlayCards validates and applies a batch. Lock held by caller.
func (r *Room) unoPlayCards(p *Player, cards []UnoCard, declaredColor string) error {
	s := r.uno
	first := cards[0]

	for _, c := range cards[1:] {
		if c.Type != first.Type {
			return ErrIllegalMove // chain plays share one type
		}
	}
	if !s.playable(first) {
		return ErrIllegalMove
	}
	if len(cards) == len(p.UnoHand) && !cards[len(cards)-1].IsDigit() {
		return ErrIllegalMove // cannot finish on an action or wild card
	}
	if first.IsWild() {
		if !validUnoColor(declaredColor) {
			return ErrIllegalMove
		}
	}

	// apply: pull the cards from the hand onto the pile
	for _, c := range cards {
		for i, h := range p.UnoHand {
			if h.ID == c.ID {
				p.UnoHand = append(p.UnoHand[:i], p.UnoHand[i+1:]...)
				break
			}
		}
	}
	s.discard = append(s.discard, cards...)

	skips := 0
	for _, c := range cards {
		switch c.Type {
		case TypeSkip:
			skips++
		case TypeReverse:
			if r.seatedCount() > 2 {
				s.dir = -s.dir
			} else {
				skips++ // two-player reverse acts as skip
			}
		case TypeDrawTwo:
			s.pending += 2
			s.pendingType = TypeDrawTwo
		case TypeDrawFour:
			s.pending += 4
			s.pendingType = TypeDrawFour
		}
	}
	if first.IsWild() {
		s.active = declaredColor
	} else {
		s.active = cards[len(cards)-1].Color
	}

	r.reg.cast.ToRoom(r.ID, "move_applied", map[string]any{
		"player": p.Name,
		"cards":  cards,
		"color":  s.active,
	})

	if len(p.UnoHand) == 0 {
		if r.unoFinishSeat(p) {
			return nil // match over
		}
	} else if len(p.UnoHand) == 1 && !p.UnoCalled {
		// missed the verbal call: two penalty cards at turn advance
		p.UnoHand = append(p.UnoHand, s.drawOne(), s.drawOne())
		r.reg.cast.ToRoom(r.ID, "notification",
			map[string]string{"message": p.Name + " forgot to call UNO, +2 cards"})
	}

	r.unoAdvance(1 + skips)
	r.broadcastState()
	return nil
}

func (r *Room) seatedCount() int {
	n := 0
	for _, p := range r.players {
		if p.Active() {
			n++
		}
	}
	return n
}

// unoAdvance moves the turn pointer steps seats along the current
// direction, skipping finished seats, and wakes a CPU seat if one is up.
func (r *Room) unoAdvance(steps int) {
	s := r.uno
	n := len(r.players)
	for k := 0; k < steps; k++ {
		for {
			s.turnIdx = (s.turnIdx + s.dir + n) % n
			if r.players[s.turnIdx].Active() {
				break
			}
		}
	}
	cur := r.unoCurrent()
	cur.UnoCalled = false
	s.drawnThisTurn = false
	r.reg.cast.ToRoom(r.ID, "turn_change", map[string]string{"turn": cur.Name})
	r.scheduleCPU()
}

// DrawUno resolves the draw action: paying off a pending forced draw
// forfeits the turn; otherwise one voluntary draw per turn is allowed,
// and a second draw request passes.
func (r *Room) DrawUno(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.gameActive || r.uno == nil {
		return ErrGameInactive
	}
	s := r.uno
	p := r.unoCurrent()
	if p.ID != playerID {
		return ErrNotYourTurn
	}

	if s.pending > 0 {
		n := s.pending
		for i := 0; i < n; i++ {
			p.UnoHand = append(p.UnoHand, s.drawOne())
		}
		s.pending = 0
		s.pendingType = ""
		r.reg.cast.ToRoom(r.ID, "notification",
			map[string]string{"message": fmt.Sprintf("%s draws %d", p.Name, n)})
		r.unoAdvance(1)
		r.broadcastState()
		return nil
	}

	if s.drawnThisTurn {
		// already drew and chose not to play: pass
		r.unoAdvance(1)
		r.broadcastState()
		return nil
	}

	c := s.drawOne()
	p.UnoHand = append(p.UnoHand, c)
	s.drawnThisTurn = true
	r.reg.cast.ToPlayer(p.ID, "card_drawn", map[string]any{"card": c})
	if !s.playable(c) {
		r.unoAdvance(1)
	}
	r.broadcastState()
	return nil
}

// CallUno flags the verbal call that spares the one-card penalty.
func (r *Room) CallUno(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.gameActive || r.uno == nil {
		return ErrGameInactive
	}
	p := r.playerByID(playerID)
	if p == nil {
		return ErrNotSeated
	}
	p.UnoCalled = true
	r.reg.cast.ToRoom(r.ID, "notification", map[string]string{"message": p.Name + " calls UNO!"})
	return nil
}

// unoFinishSeat empties a hand: the finisher collects up to the forfeit
// cap from every seat still holding cards. Returns true when the match
// ended.
func (r *Room) unoFinishSeat(p *Player) bool {
	p.Status = StatusFinished
	var pool int64
	for _, q := range r.players {
		if q == p || !q.Active() {
			continue
		}
		take := r.reg.rules.UnoForfeit
		if q.Score < take {
			take = q.Score
		}
		q.Score -= take
		pool += take
	}
	p.Score += pool
	r.reg.cast.ToRoom(r.ID, "notification",
		map[string]string{"message": fmt.Sprintf("%s is out and collects %d points", p.Name, pool)})

	humansLeft := 0
	for _, q := range r.players {
		if !q.IsCPU && q.Active() {
			humansLeft++
		}
	}
	if humansLeft > 1 {
		return false
	}

	var best *Player
	for _, q := range r.players {
		if q.IsCPU {
			continue
		}
		if best == nil || q.Score > best.Score {
			best = q
		}
	}
	winner := "nobody"
	summary := "Match over"
	if best != nil {
		winner = best.Name
		summary = fmt.Sprintf("%s wins with %d points", best.Name, best.Score)
	}
	r.endMatch(winner, summary)
	return true
}

func validUnoColor(c string) bool {
	for _, v := range unoColors {
		if c == v {
			return true
		}
	}
	return false
}
