package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGetOrCreate(t *testing.T) {
	reg, _, _ := newTestRegistry()

	_, err := reg.GetOrCreate("bad", "poker")
	assert.ErrorIs(t, err, ErrUnknownGameType)

	r1, err := reg.GetOrCreate("t1", GameOthello)
	require.NoError(t, err)

	// an existing room keeps its game type no matter what the joiner asked
	r2, err := reg.GetOrCreate("t1", GameBlackjack)
	require.NoError(t, err)
	assert.Same(t, r1, r2)
	assert.Equal(t, GameOthello, r2.GameType)

	got, ok := reg.Get("t1")
	assert.True(t, ok)
	assert.Same(t, r1, got)
	_, ok = reg.Get("t2")
	assert.False(t, ok)
}

func TestRoomSeatCapAndActiveJoin(t *testing.T) {
	reg, _, _ := newTestRegistry()
	r, _ := reg.GetOrCreate("t1", GameOthello)

	require.NoError(t, r.Join(seat("alice")))
	require.NoError(t, r.Join(seat("bob")))
	assert.ErrorIs(t, r.Join(seat("carol")), ErrRoomFull)

	// card tables refuse late joins once the match started
	r2, _ := reg.GetOrCreate("t2", GameBlackjack)
	alice := moneySeat("alice", 500)
	require.NoError(t, r2.Join(alice))
	require.NoError(t, r2.SetReady(alice.ID))
	assert.True(t, r2.gameActive)
	assert.ErrorIs(t, r2.Join(moneySeat("dave", 500)), ErrWrongPhase)
}

func TestRoomListSummaries(t *testing.T) {
	reg, _, _ := newTestRegistry()
	r, _ := reg.GetOrCreate("t1", GameConnect4)
	require.NoError(t, r.Join(seat("alice")))

	list := reg.List()
	require.Len(t, list, 1)
	assert.Equal(t, "t1", list[0].ID)
	assert.Equal(t, GameConnect4, list[0].GameType)
	assert.Equal(t, 1, list[0].Players)
	assert.False(t, list[0].Active)
}

func TestLastHumanLeaveDestroysRoom(t *testing.T) {
	reg, cast, _ := newTestRegistry()
	r, _ := reg.GetOrCreate("t1", GameOthello)
	alice := seat("alice")
	require.NoError(t, r.Join(alice))

	r.Leave(alice.ID)
	_, ok := reg.Get("t1")
	assert.False(t, ok)
	assert.True(t, cast.has("room_destroyed"))
	assert.True(t, cast.has("closed"))

	// leaving twice is harmless
	r.Leave(alice.ID)
}

func TestMidGameLeaveResetsToLobby(t *testing.T) {
	reg, cast, _ := newTestRegistry()
	r, _ := reg.GetOrCreate("t1", GameOthello)
	alice := seat("alice")
	bob := seat("bob")
	require.NoError(t, r.Join(alice))
	require.NoError(t, r.Join(bob))
	assert.True(t, r.gameActive)

	r.Leave(bob.ID)

	_, ok := reg.Get("t1")
	assert.True(t, ok, "a human remains, the room survives")
	assert.False(t, r.gameActive)
	assert.Nil(t, r.othello)
	assert.False(t, alice.Ready)
	assert.True(t, cast.has("notification"))
}

// A seat walking out mid-round gets its outstanding bet folded back in
// before the ledger settles it.
func TestLeaveRefundsOutstandingBet(t *testing.T) {
	reg, _, ledger := newTestRegistry()
	alice := moneySeat("alice", 500)
	bob := moneySeat("bob", 500)
	r := readyTable(t, reg, "t1", GameBlackjack, alice, bob)

	require.NoError(t, r.PlaceBet(alice.ID, 100))
	assert.Equal(t, int64(400), alice.Score)

	r.Leave(alice.ID)

	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	require.Len(t, ledger.entries, 1)
	e := ledger.entries[0]
	assert.Equal(t, "alice", e.Name)
	assert.Equal(t, int64(500), e.Score)
	assert.Equal(t, int64(500), e.Initial)
	assert.True(t, e.WealthBacked)
}

func TestUnoLeaveDropsCPUSeats(t *testing.T) {
	reg, _, _ := newTestRegistry()
	alice := seat("alice")
	bob := seat("bob")
	r := readyTable(t, reg, "t1", GameUno, alice, bob)
	require.Len(t, r.players, 4)

	r.Leave(bob.ID)
	_, ok := reg.Get("t1")
	assert.True(t, ok)
	require.Len(t, r.players, 1, "bots leave with the match")
	assert.Equal(t, "alice", r.players[0].Name)
	assert.Nil(t, r.uno)
}

func TestTeardownTimerRemovesRoom(t *testing.T) {
	reg, cast, _ := newTestRegistry()
	reg.rules.TeardownDelay = 5 * time.Millisecond
	r, _ := reg.GetOrCreate("t1", GameOthello)
	alice := seat("alice")
	bob := seat("bob")
	require.NoError(t, r.Join(alice))
	require.NoError(t, r.Join(bob))

	// final capture leaves neither side a move
	var b [8][8]int8
	b[0][0] = othBlack
	b[0][1] = othWhite
	r.othello.board = b
	r.othello.turn = othBlack
	require.NoError(t, r.ApplyOthelloMove(alice.ID, 0, 2))
	assert.True(t, cast.has("game_over"))

	require.Eventually(t, func() bool {
		_, ok := reg.Get("t1")
		return !ok
	}, time.Second, 5*time.Millisecond)
	assert.True(t, cast.has("room_destroyed"))
}

// A lobby reset invalidates timers scheduled by the previous match.
func TestStaleTimerIsIgnoredAfterReset(t *testing.T) {
	reg, _, _ := newTestRegistry()
	r, _ := reg.GetOrCreate("t1", GameOthello)
	require.NoError(t, r.Join(seat("alice")))

	fired := make(chan struct{}, 1)
	r.mu.Lock()
	r.after(10*time.Millisecond, func() { fired <- struct{}{} })
	r.gen++
	r.mu.Unlock()

	select {
	case <-fired:
		t.Fatal("stale timer callback ran after the generation bumped")
	case <-time.After(50 * time.Millisecond):
	}
}