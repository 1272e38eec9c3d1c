package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverridePayoutHalves(t *testing.T) {
	seven := card("7")
	king := card("K")
	sevenHearts := Card{Suit: "hearts", Rank: "7", Value: seven.Value, Power: seven.Power}

	assert.Equal(t, int64(4), overridePayoutHalves(seven, king, "high"))
	assert.Equal(t, int64(0), overridePayoutHalves(seven, king, "low"))
	assert.Equal(t, int64(4), overridePayoutHalves(king, seven, "low"))
	assert.Equal(t, int64(0), overridePayoutHalves(king, seven, "high"))
	// equal power pushes no matter the guess
	assert.Equal(t, int64(2), overridePayoutHalves(seven, sevenHearts, "high"))
	assert.Equal(t, int64(2), overridePayoutHalves(seven, sevenHearts, "low"))
	// ace outranks the king on power
	assert.Equal(t, int64(4), overridePayoutHalves(king, card("A"), "high"))
}

func TestOverrideRoundFlow(t *testing.T) {
	reg, cast, _ := newTestRegistry()
	alice := moneySeat("alice", 500)
	bob := moneySeat("bob", 500)
	r := readyTable(t, reg, "ov-1", GameOverride, alice, bob)

	require.NotNil(t, r.override)
	assert.Equal(t, phaseBetting, r.override.phase)
	assert.ErrorIs(t, r.Guess(alice.ID, "high"), ErrWrongPhase)

	// base 7 revealed after all bets, then K decides the round
	r.override.deck = []Card{card("K"), card("7")}

	require.NoError(t, r.PlaceBet(alice.ID, 100))
	assert.Equal(t, phaseBetting, r.override.phase, "waiting on bob's bet")
	require.NoError(t, r.PlaceBet(bob.ID, 200))

	assert.Equal(t, phaseGuessing, r.override.phase)
	require.NotNil(t, r.override.base)
	assert.Equal(t, "7", r.override.base.Rank)
	assert.Nil(t, r.override.next, "next card stays hidden until everyone locks")

	assert.ErrorIs(t, r.Guess(alice.ID, "sideways"), ErrIllegalMove)
	require.NoError(t, r.Guess(alice.ID, "high"))
	assert.ErrorIs(t, r.Guess(alice.ID, "low"), ErrIllegalMove, "locked seats cannot re-guess")

	require.NoError(t, r.Guess(bob.ID, "low"))
	assert.Equal(t, phaseRoundOver, r.override.phase)
	assert.True(t, cast.has("round_over"))

	assert.Equal(t, int64(600), alice.Score, "correct call doubles the stake")
	assert.Equal(t, int64(300), bob.Score)
	assert.True(t, r.gameActive, "round one of seven, match continues")
}

func TestOverrideTieRefundsStakes(t *testing.T) {
	reg, _, _ := newTestRegistry()
	alice := moneySeat("alice", 500)
	bob := moneySeat("bob", 500)
	r := readyTable(t, reg, "ov-2", GameOverride, alice, bob)

	seven := card("7")
	r.override.deck = []Card{
		{Suit: "hearts", Rank: "7", Value: seven.Value, Power: seven.Power},
		seven,
	}
	require.NoError(t, r.PlaceBet(alice.ID, 150))
	require.NoError(t, r.PlaceBet(bob.ID, 150))
	require.NoError(t, r.Guess(alice.ID, "high"))
	require.NoError(t, r.Guess(bob.ID, "low"))

	assert.Equal(t, int64(500), alice.Score)
	assert.Equal(t, int64(500), bob.Score)
}

func TestOverrideAllBrokeEndsMatch(t *testing.T) {
	reg, cast, ledger := newTestRegistry()
	alice := moneySeat("alice", 100)
	r := readyTable(t, reg, "ov-3", GameOverride, alice)

	r.override.deck = []Card{card("2"), card("K")}
	require.NoError(t, r.PlaceBet(alice.ID, 100))
	require.NoError(t, r.Guess(alice.ID, "high"))

	assert.False(t, r.gameActive)
	assert.True(t, cast.has("game_over"))

	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	assert.Equal(t, 1, ledger.matches)
	require.Len(t, ledger.entries, 1)
	assert.Equal(t, int64(0), ledger.entries[0].Score)
	assert.Equal(t, int64(100), ledger.entries[0].Initial)
	assert.True(t, ledger.entries[0].WealthBacked)
}