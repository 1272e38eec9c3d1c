package game

// Connect-4 cell occupants.
const (
	c4Empty  int8 = 0
	c4Red    int8 = 1
	c4Yellow int8 = 2
)

const (
	c4Rows = 6
	c4Cols = 7
)

// The four axes; the win scan walks each both ways from the placed cell.
var c4Axes = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// Connect4State holds the 6x7 grid. Red moves first.
type Connect4State struct {
	board [c4Rows][c4Cols]int8
	turn  int8
}

func newConnect4() *Connect4State {
	return &Connect4State{turn: c4Red}
}

func connect4ColorName(c int8) string {
	if c == c4Red {
		return "red"
	}
	return "yellow"
}

func connect4ColorOf(name string) int8 {
	if name == "red" {
		return c4Red
	}
	return c4Yellow
}

// connect4Drop finds the lowest empty row in col. Returns -1 when the
// column is full or out of range.
func connect4Drop(b *[c4Rows][c4Cols]int8, col int) int {
	if col < 0 || col >= c4Cols {
		return -1
	}
	for row := c4Rows - 1; row >= 0; row-- {
		if b[row][col] == c4Empty {
			return row
		}
	}
	return -1
}

// connect4Win checks for four in a row through (row, col), scanning each
// of the four axes in both directions.
func connect4Win(b *[c4Rows][c4Cols]int8, row, col int) bool {
	color := b[row][col]
	if color == c4Empty {
		return false
	}
	for _, a := range c4Axes {
		count := 1
		for _, sign := range [2]int{1, -1} {
			y, x := row+a[0]*sign, col+a[1]*sign
			for y >= 0 && y < c4Rows && x >= 0 && x < c4Cols && b[y][x] == color {
				count++
				y += a[0] * sign
				x += a[1] * sign
			}
		}
		if count >= 4 {
			return true
		}
	}
	return false
}

func connect4TopFull(b *[c4Rows][c4Cols]int8) bool {
	for x := 0; x < c4Cols; x++ {
		if b[0][x] == c4Empty {
			return false
		}
	}
	return true
}

func (s *Connect4State) rows() [][]int8 {
	out := make([][]int8, c4Rows)
	for y := 0; y < c4Rows; y++ {
		row := make([]int8, c4Cols)
		copy(row, s.board[y][:])
		out[y] = row
	}
	return out
}

// ApplyConnect4Move drops the acting player's piece into col.
func (r *Room) ApplyConnect4Move(playerID string, col int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.gameActive || r.connect4 == nil {
		return ErrGameInactive
	}
	p := r.playerByID(playerID)
	if p == nil {
		return ErrNotSeated
	}
	color := connect4ColorOf(p.Color)
	if r.connect4.turn != color {
		return ErrNotYourTurn
	}

	row := connect4Drop(&r.connect4.board, col)
	if row == -1 {
		return ErrIllegalMove
	}
	r.connect4.board[row][col] = color

	r.reg.cast.ToRoom(r.ID, "move_applied", map[string]any{
		"row":   row,
		"col":   col,
		"color": p.Color,
	})

	switch {
	case connect4Win(&r.connect4.board, row, col):
		p.Score = 1
		r.endMatch(p.Name, p.Name+" connects four")
	case connect4TopFull(&r.connect4.board):
		r.endMatch("draw", "Board full, draw")
	default:
		next := c4Red
		if color == c4Red {
			next = c4Yellow
		}
		r.connect4.turn = next
		r.reg.cast.ToRoom(r.ID, "turn_change", map[string]string{"turn": connect4ColorName(next)})
	}
	r.broadcastState()
	return nil
}
