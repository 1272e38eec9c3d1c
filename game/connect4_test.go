package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect4DropGravity(t *testing.T) {
	var b [c4Rows][c4Cols]int8
	assert.Equal(t, 5, connect4Drop(&b, 3))
	b[5][3] = c4Red
	assert.Equal(t, 4, connect4Drop(&b, 3))
	b[4][3] = c4Yellow
	b[3][3] = c4Red
	b[2][3] = c4Yellow
	b[1][3] = c4Red
	b[0][3] = c4Yellow
	assert.Equal(t, -1, connect4Drop(&b, 3), "full column")
	assert.Equal(t, -1, connect4Drop(&b, -1))
	assert.Equal(t, -1, connect4Drop(&b, 7))
}

func TestConnect4WinAxes(t *testing.T) {
	// horizontal
	var b [c4Rows][c4Cols]int8
	for x := 0; x < 4; x++ {
		b[5][x] = c4Red
	}
	assert.True(t, connect4Win(&b, 5, 2), "scan finds the run from a middle cell")

	// vertical
	b = [c4Rows][c4Cols]int8{}
	for y := 2; y < 6; y++ {
		b[y][0] = c4Yellow
	}
	assert.True(t, connect4Win(&b, 2, 0))

	// down-right diagonal
	b = [c4Rows][c4Cols]int8{}
	for i := 0; i < 4; i++ {
		b[2+i][1+i] = c4Red
	}
	assert.True(t, connect4Win(&b, 5, 4))

	// down-left diagonal
	b = [c4Rows][c4Cols]int8{}
	for i := 0; i < 4; i++ {
		b[2+i][4-i] = c4Yellow
	}
	assert.True(t, connect4Win(&b, 3, 3))

	// three in a row is not a win
	b = [c4Rows][c4Cols]int8{}
	for x := 0; x < 3; x++ {
		b[5][x] = c4Red
	}
	assert.False(t, connect4Win(&b, 5, 1))
}

func TestConnect4RoomFlow(t *testing.T) {
	reg, cast, _ := newTestRegistry()
	r, err := reg.GetOrCreate("c4-1", GameConnect4)
	require.NoError(t, err)

	red := seat("alice")
	yellow := seat("bob")
	require.NoError(t, r.Join(red))
	require.NoError(t, r.Join(yellow))
	assert.Equal(t, "red", red.Color)
	assert.Equal(t, "yellow", yellow.Color)
	assert.True(t, r.gameActive)

	// yellow cannot open
	assert.ErrorIs(t, r.ApplyConnect4Move(yellow.ID, 3), ErrNotYourTurn)

	require.NoError(t, r.ApplyConnect4Move(red.ID, 3))
	assert.Equal(t, c4Red, r.connect4.board[5][3])
	assert.Equal(t, c4Yellow, r.connect4.turn)
	assert.True(t, cast.has("turn_change"))
}

// Alternating drops into one column stack bottom-up and must not produce
// a false vertical win for either color.
func TestConnect4AlternatingColumnNoFalseWin(t *testing.T) {
	reg, cast, _ := newTestRegistry()
	r, _ := reg.GetOrCreate("c4-2", GameConnect4)
	red := seat("alice")
	yellow := seat("bob")
	require.NoError(t, r.Join(red))
	require.NoError(t, r.Join(yellow))

	players := []*Player{red, yellow, red, yellow}
	wantRows := []int{5, 4, 3, 2}
	for i, p := range players {
		require.NoError(t, r.ApplyConnect4Move(p.ID, 3))
		want := c4Red
		if i%2 == 1 {
			want = c4Yellow
		}
		assert.Equal(t, want, r.connect4.board[wantRows[i]][3])
	}
	assert.True(t, r.gameActive, "mixed column is no win")
	assert.False(t, cast.has("game_over"))
}

func TestConnect4VerticalWinEndsMatch(t *testing.T) {
	reg, cast, ledger := newTestRegistry()
	r, _ := reg.GetOrCreate("c4-3", GameConnect4)
	red := seat("alice")
	yellow := seat("bob")
	require.NoError(t, r.Join(red))
	require.NoError(t, r.Join(yellow))

	// red stacks column 0, yellow wastes moves across columns 1-3
	moves := []struct {
		p   *Player
		col int
	}{
		{red, 0}, {yellow, 1}, {red, 0}, {yellow, 2}, {red, 0}, {yellow, 3}, {red, 0},
	}
	for _, m := range moves {
		require.NoError(t, r.ApplyConnect4Move(m.p.ID, m.col))
	}
	assert.False(t, r.gameActive)
	assert.True(t, cast.has("game_over"))
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	assert.Equal(t, 1, ledger.matches)
}

func TestConnect4DrawOnFullTopRow(t *testing.T) {
	reg, cast, _ := newTestRegistry()
	r, _ := reg.GetOrCreate("c4-4", GameConnect4)
	red := seat("alice")
	yellow := seat("bob")
	require.NoError(t, r.Join(red))
	require.NoError(t, r.Join(yellow))

	// hand-build a drawn position with one empty slot at the top of col 6;
	// columns alternate colors so no axis ever carries a run of four
	r.connect4.board = [c4Rows][c4Cols]int8{
		{2, 2, 1, 1, 2, 2, 0},
		{1, 1, 2, 2, 1, 1, 1},
		{2, 2, 1, 1, 2, 2, 2},
		{1, 1, 2, 2, 1, 1, 1},
		{2, 2, 1, 1, 2, 2, 2},
		{1, 1, 2, 2, 1, 1, 1},
	}
	r.connect4.turn = c4Yellow

	require.NoError(t, r.ApplyConnect4Move(yellow.ID, 6))
	assert.False(t, r.gameActive)
	assert.True(t, cast.has("game_over"))
}