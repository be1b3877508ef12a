package entity

import (
	"fmt"
	"strings"
)

type Mark string

const (
	MarkEmpty Mark = ""
	MarkX     Mark = "X"
	MarkO     Mark = "O"
)

const (
	statusTurnFormat = "it is %s's turn"
	statusGameOver   = "game over"
)

// WinCombos lists the winning lines in evaluation order: rows, columns, diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Other returns the opposite marker. Empty stays empty.
func (that Mark) Other() Mark {
	switch that {
	case MarkX:
		return MarkO
	case MarkO:
		return MarkX
	default:
		return MarkEmpty
	}
}

type Board [9]Mark

// Evaluate reports the winner and winning line, or whether the board is a tie.
func (that Board) Evaluate() (Mark, []int, bool) {
	for _, combo := range WinCombos {
		a, b, c := that[combo[0]], that[combo[1]], that[combo[2]]
		if a != MarkEmpty && a == b && b == c {
			return a, []int{combo[0], combo[1], combo[2]}, true
		}
	}

	// the game will continue until all the squares are full
	return MarkEmpty, nil, that.Full()
}

func (that Board) Full() bool {
	for _, cell := range that {
		if cell == MarkEmpty {
			return false
		}
	}

	return true
}

func (that Board) EmptyCells() []int {
	cells := make([]int, 0, len(that))
	for i, cell := range that {
		if cell == MarkEmpty {
			cells = append(cells, i)
		}
	}

	return cells
}

// String renders the board as three rows, using "." for empty cells.
func (that Board) String() string {
	var sb strings.Builder

	for i, cell := range that {
		if cell == MarkEmpty {
			sb.WriteByte('.')
		} else {
			sb.WriteString(string(cell))
		}

		if i%3 == 2 && i != len(that)-1 {
			sb.WriteByte('/')
		}
	}

	return sb.String()
}

// GameEnded is emitted by the move that makes a game terminal. Winner is empty on a tie.
type GameEnded struct {
	Winner Mark  `json:"winner,omitempty"`
	Line   []int `json:"line,omitempty"`
}

func (that GameEnded) IsTie() bool {
	return that.Winner == MarkEmpty
}

type Game struct {
	Board    Board `json:"board"`
	Turn     Mark  `json:"turn"`
	Finished bool  `json:"finished"`
	Winner   Mark  `json:"winner,omitempty"`
}

func NewGame() Game {
	return Game{
		Turn: MarkX,
	}
}

// ApplyMove places the current turn's mark on cell. Moves on a finished game, an
// occupied cell or an index outside the board leave the game unchanged.
func (that Game) ApplyMove(cell int) (Game, *GameEnded) {
	if that.Finished || cell < 0 || cell >= len(that.Board) {
		return that, nil
	}

	if that.Board[cell] != MarkEmpty {
		return that, nil
	}

	next := that
	next.Board[cell] = that.Turn
	next.Turn = that.Turn.Other()

	winner, line, finished := next.Board.Evaluate()
	if !finished {
		return next, nil
	}

	next.Finished = true
	next.Winner = winner

	return next, &GameEnded{Winner: winner, Line: line}
}

// Restart returns a fresh game whatever the current state is.
func (that Game) Restart() Game {
	return NewGame()
}

func (that Game) IsTie() bool {
	return that.Finished && that.Winner == MarkEmpty
}

func (that Game) Status() string {
	if that.Finished {
		return statusGameOver
	}

	return fmt.Sprintf(statusTurnFormat, that.Turn)
}
