package game

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func card(rank string) Card {
	for _, r := range ranks {
		if r.name == rank {
			return Card{Suit: "spades", Rank: rank, Value: r.value, Power: r.power}
		}
	}
	panic("unknown rank " + rank)
}

func TestNewDeck(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, 52)

	seen := make(map[string]int)
	for _, c := range deck {
		seen[c.Suit+c.Rank]++
	}
	assert.Len(t, seen, 52, "every suit+rank combination appears exactly once")
}

func TestHandValue(t *testing.T) {
	tests := []struct {
		name  string
		hand  []Card
		value int
	}{
		{"simple", []Card{card("2"), card("9")}, 11},
		{"faces count ten", []Card{card("K"), card("Q")}, 20},
		{"natural", []Card{card("10"), card("A")}, 21},
		{"ace devalues once", []Card{card("A"), card("9"), card("5")}, 15},
		{"both aces devalue", []Card{card("A"), card("A"), card("K")}, 12},
		{"one of two aces devalues", []Card{card("A"), card("A")}, 12},
		{"bust stays bust", []Card{card("K"), card("Q"), card("5")}, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.value, HandValue(tt.hand))
		})
	}
}

// Devaluation may only ever lower the total.
func TestHandValueNeverIncreases(t *testing.T) {
	deck := NewDeck()
	hand := []Card{}
	for _, c := range deck[:10] {
		raw := 0
		for _, h := range hand {
			raw += h.Value
		}
		hand = append(hand, c)
		raw += c.Value
		assert.LessOrEqual(t, HandValue(hand), raw)
	}
}

func TestNewUnoDeck(t *testing.T) {
	deck := NewUnoDeck()
	require.Len(t, deck, 108)

	byKey := make(map[string]int)
	ids := make(map[string]bool)
	for _, c := range deck {
		byKey[c.Color+"/"+c.Type]++
		ids[c.ID] = true
	}
	assert.Len(t, ids, 108, "card instances are distinct")

	for _, color := range unoColors {
		assert.Equal(t, 1, byKey[color+"/0"])
		assert.Equal(t, 2, byKey[color+"/7"])
		assert.Equal(t, 2, byKey[color+"/"+TypeSkip])
		assert.Equal(t, 2, byKey[color+"/"+TypeReverse])
		assert.Equal(t, 2, byKey[color+"/"+TypeDrawTwo])
	}
	assert.Equal(t, 4, byKey["/"+TypeWild])
	assert.Equal(t, 4, byKey["/"+TypeDrawFour])
}

// Every room shuffles on its own goroutines; deck construction must be
// safe under the race detector.
func TestConcurrentShuffles(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if got := len(NewDeck()); got != 52 {
					t.Errorf("deck size = %d", got)
					return
				}
				if got := len(NewUnoDeck()); got != 108 {
					t.Errorf("uno deck size = %d", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestUnoCardKinds(t *testing.T) {
	assert.True(t, UnoCard{Type: "5"}.IsDigit())
	assert.False(t, UnoCard{Type: TypeSkip}.IsDigit())
	assert.True(t, UnoCard{Type: TypeWild}.IsWild())
	assert.True(t, UnoCard{Type: TypeDrawFour}.IsWild())
	assert.False(t, UnoCard{Type: TypeDrawTwo}.IsWild())
}
