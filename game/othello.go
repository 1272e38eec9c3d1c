package game

import "strconv"

// Othello cell occupants.
const (
	othEmpty int8 = 0
	othBlack int8 = 1
	othWhite int8 = 2
)

const othelloSize = 8

var othelloDirs = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// OthelloState holds the 8x8 board and whose turn it is. Black moves
// first on the standard four-center start.
type OthelloState struct {
	board [othelloSize][othelloSize]int8
	turn  int8
}

func newOthello() *OthelloState {
	s := &OthelloState{turn: othBlack}
	s.board[3][3] = othWhite
	s.board[3][4] = othBlack
	s.board[4][3] = othBlack
	s.board[4][4] = othWhite
	return s
}

func othelloColorName(c int8) string {
	if c == othBlack {
		return "black"
	}
	return "white"
}

func othelloColorOf(name string) int8 {
	if name == "black" {
		return othBlack
	}
	return othWhite
}

func othelloOpponent(c int8) int8 {
	if c == othBlack {
		return othWhite
	}
	return othBlack
}

// othelloFlips returns every cell flipped by color playing (row, col):
// the union over the 8 rays of contiguous opponent runs terminated by one
// of the mover's own stones. Empty result means the move is illegal.
func othelloFlips(b *[othelloSize][othelloSize]int8, row, col int, color int8) [][2]int {
	if row < 0 || row >= othelloSize || col < 0 || col >= othelloSize || b[row][col] != othEmpty {
		return nil
	}
	opp := othelloOpponent(color)
	var flips [][2]int
	for _, d := range othelloDirs {
		var run [][2]int
		y, x := row+d[0], col+d[1]
		for y >= 0 && y < othelloSize && x >= 0 && x < othelloSize && b[y][x] == opp {
			run = append(run, [2]int{y, x})
			y += d[0]
			x += d[1]
		}
		if len(run) == 0 {
			continue
		}
		if y >= 0 && y < othelloSize && x >= 0 && x < othelloSize && b[y][x] == color {
			flips = append(flips, run...)
		}
	}
	return flips
}

// othelloHasMove reports whether color has at least one legal move.
func othelloHasMove(b *[othelloSize][othelloSize]int8, color int8) bool {
	for y := 0; y < othelloSize; y++ {
		for x := 0; x < othelloSize; x++ {
			if len(othelloFlips(b, y, x, color)) > 0 {
				return true
			}
		}
	}
	return false
}

func othelloCounts(b *[othelloSize][othelloSize]int8) (black, white int) {
	for y := 0; y < othelloSize; y++ {
		for x := 0; x < othelloSize; x++ {
			switch b[y][x] {
			case othBlack:
				black++
			case othWhite:
				white++
			}
		}
	}
	return
}

func (s *OthelloState) rows() [][]int8 {
	out := make([][]int8, othelloSize)
	for y := 0; y < othelloSize; y++ {
		row := make([]int8, othelloSize)
		copy(row, s.board[y][:])
		out[y] = row
	}
	return out
}

// ApplyOthelloMove places a stone at (row, col) for the acting player.
// Moves that flip nothing are rejected without touching state. After a
// legal move the turn goes to the opponent if they can move, stays with
// the mover (with a pass notice) if only the mover can, and otherwise the
// game ends on stone count.
func (r *Room) ApplyOthelloMove(playerID string, row, col int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.gameActive || r.othello == nil {
		return ErrGameInactive
	}
	p := r.playerByID(playerID)
	if p == nil {
		return ErrNotSeated
	}
	color := othelloColorOf(p.Color)
	if r.othello.turn != color {
		return ErrNotYourTurn
	}

	flips := othelloFlips(&r.othello.board, row, col, color)
	if len(flips) == 0 {
		return ErrIllegalMove
	}

	r.othello.board[row][col] = color
	for _, f := range flips {
		r.othello.board[f[0]][f[1]] = color
	}

	r.reg.cast.ToRoom(r.ID, "move_applied", map[string]any{
		"row":   row,
		"col":   col,
		"color": p.Color,
		"flips": flips,
	})

	opp := othelloOpponent(color)
	switch {
	case othelloHasMove(&r.othello.board, opp):
		r.othello.turn = opp
		r.reg.cast.ToRoom(r.ID, "turn_change", map[string]string{"turn": othelloColorName(opp)})
	case othelloHasMove(&r.othello.board, color):
		// opponent is stuck; mover goes again
		r.reg.cast.ToRoom(r.ID, "pass_notice", map[string]string{
			"passed": othelloColorName(opp),
			"turn":   othelloColorName(color),
		})
	default:
		r.finishOthello()
	}
	r.broadcastState()
	return nil
}

func (r *Room) finishOthello() {
	black, white := othelloCounts(&r.othello.board)
	for _, p := range r.players {
		if p.Color == "black" {
			p.Score = int64(black)
		} else {
			p.Score = int64(white)
		}
	}
	winner := "draw"
	summary := "Draw"
	if black > white {
		winner = r.playerByColor("black")
		summary = winner + " wins " + strconv.Itoa(black) + " - " + strconv.Itoa(white)
	} else if white > black {
		winner = r.playerByColor("white")
		summary = winner + " wins " + strconv.Itoa(white) + " - " + strconv.Itoa(black)
	}
	r.endMatch(winner, summary)
}

func (r *Room) playerByColor(color string) string {
	for _, p := range r.players {
		if p.Color == color {
			return p.Name
		}
	}
	return color
}
