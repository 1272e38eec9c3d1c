package game

import (
	"math/rand"

	"github.com/google/uuid"
)

// Card is a standard playing card used by blackjack and override tables.
// Value is the blackjack value (face cards 10, ace 11 before devaluation);
// Power is the high/low ordering rank (2 low, ace high).
type Card struct {
	Suit  string `json:"suit"`
	Rank  string `json:"rank"`
	Value int    `json:"value"`
	Power int    `json:"power"`
}

var suits = []string{"spades", "hearts", "diamonds", "clubs"}

var ranks = []struct {
	name  string
	value int
	power int
}{
	{"2", 2, 2}, {"3", 3, 3}, {"4", 4, 4}, {"5", 5, 5},
	{"6", 6, 6}, {"7", 7, 7}, {"8", 8, 8}, {"9", 9, 9},
	{"10", 10, 10}, {"J", 10, 11}, {"Q", 10, 12}, {"K", 10, 13},
	{"A", 11, 14},
}

// NewDeck returns a shuffled 52-card deck.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for _, s := range suits {
		for _, r := range ranks {
			deck = append(deck, Card{Suit: s, Rank: r.name, Value: r.value, Power: r.power})
		}
	}
	rand.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}

// HandValue sums blackjack values with aces devalued from 11 to 1 one at a
// time while the total exceeds 21. Devaluation never raises the total.
func HandValue(hand []Card) int {
	total := 0
	aces := 0
	for _, c := range hand {
		total += c.Value
		if c.Rank == "A" {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// UNO colors and card types. A wild card carries no color until played.
const (
	ColorRed    = "red"
	ColorYellow = "yellow"
	ColorGreen  = "green"
	ColorBlue   = "blue"

	TypeSkip     = "skip"
	TypeReverse  = "reverse"
	TypeDrawTwo  = "draw2"
	TypeWild     = "wild"
	TypeDrawFour = "draw4"
)

var unoColors = []string{ColorRed, ColorYellow, ColorGreen, ColorBlue}

// UnoCard is a single deck instance. Duplicates of the same color+type
// exist as distinct cards, so every instance gets its own id.
type UnoCard struct {
	ID    string `json:"id"`
	Color string `json:"color"`
	Type  string `json:"type"`
}

// IsDigit reports whether the card is a plain number card.
func (c UnoCard) IsDigit() bool {
	return len(c.Type) == 1 && c.Type[0] >= '0' && c.Type[0] <= '9'
}

// IsWild reports whether the card is a wild or wild-draw-four.
func (c UnoCard) IsWild() bool {
	return c.Type == TypeWild || c.Type == TypeDrawFour
}

// NewUnoDeck returns a shuffled 108-card UNO deck: per color one 0, two
// each of 1-9/skip/reverse/draw-two, plus four wilds and four draw-fours.
func NewUnoDeck() []UnoCard {
	deck := make([]UnoCard, 0, 108)
	add := func(color, typ string) {
		deck = append(deck, UnoCard{ID: uuid.NewString(), Color: color, Type: typ})
	}
	for _, color := range unoColors {
		add(color, "0")
		for i := 0; i < 2; i++ {
			for d := '1'; d <= '9'; d++ {
				add(color, string(d))
			}
			add(color, TypeSkip)
			add(color, TypeReverse)
			add(color, TypeDrawTwo)
		}
	}
	for i := 0; i < 4; i++ {
		add("", TypeWild)
		add("", TypeDrawFour)
	}
	rand.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}
