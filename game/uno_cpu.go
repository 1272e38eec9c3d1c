package game

import (
	"math/rand"
	"time"
)

// scheduleCPU wakes the current seat after a short think delay when it is
// a bot. The delay is cosmetic pacing for spectators; with both bounds
// zeroed the bot acts on the next timer tick.
func (r *Room) scheduleCPU() {
	if r.uno == nil || !r.gameActive {
		return
	}
	if !r.unoCurrent().IsCPU {
		return
	}
	think := r.reg.rules.CPUThinkMin
	if d := r.reg.rules.CPUThinkMax - r.reg.rules.CPUThinkMin; d > 0 {
		think += time.Duration(rand.Int63n(int64(d)))
	}
	r.after(think, r.cpuAct)
}

// cpuAct plays one bot turn: answer a pending draw in kind or pay it,
// else prefer a legal non-wild of the bot's most-held color, then any
// legal non-wild, then a wild, then draw. Lock held via Room.after.
func (r *Room) cpuAct() {
	if !r.gameActive || r.uno == nil {
		return
	}
	s := r.uno
	p := r.unoCurrent()
	if !p.IsCPU {
		return
	}

	if s.pending > 0 {
		for _, c := range p.UnoHand {
			if c.Type == s.pendingType {
				if r.cpuPlay(p, c) == nil {
					return
				}
				break
			}
		}
		r.cpuPayPending(p)
		return
	}

	fav := cpuFavoriteColor(p)
	var favLegal, anyLegal, wild *UnoCard
	for i := range p.UnoHand {
		c := p.UnoHand[i]
		if !s.playable(c) {
			continue
		}
		if c.IsWild() {
			if wild == nil {
				wild = &p.UnoHand[i]
			}
			continue
		}
		if c.Color == fav && favLegal == nil {
			favLegal = &p.UnoHand[i]
		}
		if anyLegal == nil {
			anyLegal = &p.UnoHand[i]
		}
	}

	var pick *UnoCard
	switch {
	case favLegal != nil:
		pick = favLegal
	case anyLegal != nil:
		pick = anyLegal
	case wild != nil:
		pick = wild
	}
	if pick != nil && r.cpuPlay(p, *pick) == nil {
		return
	}

	// nothing playable (or the last card was an unplayable finisher):
	// draw once, play the draw if it fits, otherwise pass
	c := s.drawOne()
	p.UnoHand = append(p.UnoHand, c)
	if s.playable(c) && r.cpuPlay(p, c) == nil {
		return
	}
	r.unoAdvance(1)
	r.broadcastState()
}

func (r *Room) cpuPayPending(p *Player) {
	s := r.uno
	n := s.pending
	for i := 0; i < n; i++ {
		p.UnoHand = append(p.UnoHand, s.drawOne())
	}
	s.pending = 0
	s.pendingType = ""
	r.unoAdvance(1)
	r.broadcastState()
}

func (r *Room) cpuPlay(p *Player, c UnoCard) error {
	if len(p.UnoHand) <= 2 {
		p.UnoCalled = true // bots never forget the call
	}
	declared := ""
	if c.IsWild() {
		declared = cpuFavoriteColor(p)
	}
	return r.unoPlayCards(p, []UnoCard{c}, declared)
}

func cpuFavoriteColor(p *Player) string {
	counts := make(map[string]int, 4)
	for _, c := range p.UnoHand {
		if c.Color != "" {
			counts[c.Color]++
		}
	}
	best := ColorRed
	bestN := -1
	for _, color := range unoColors {
		if counts[color] > bestN {
			best = color
			bestN = counts[color]
		}
	}
	return best
}
