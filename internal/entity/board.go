package entity

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Cell values match the wire encoding: 0 empty, 1 player, -1 computer.
type Cell int8

const (
	CellEmpty    Cell = 0
	CellPlayer   Cell = 1
	CellComputer Cell = -1
)

type GameStatus string

const (
	StatusOngoing     GameStatus = "ongoing"
	StatusPlayerWon   GameStatus = "player_won"
	StatusComputerWon GameStatus = "computer_won"
	StatusDraw        GameStatus = "draw"
)

const BoardSize = 3

var (
	ErrInvalidBoard      = errors.New("invalid board")
	ErrInvalidTransition = errors.New("invalid board transition")

	// The 8 winning lines over flattened cell indexes: 3 rows, 3 columns, 2 diagonals.
	WinCombos = [][3]int{
		{0, 1, 2},
		{3, 4, 5},
		{6, 7, 8},
		{0, 3, 6},
		{1, 4, 7},
		{2, 5, 8},
		{0, 4, 8},
		{2, 4, 6},
	}
)

type Board [BoardSize][BoardSize]Cell

// Move is the single cell that changed between two consecutive boards.
type Move struct {
	Row  int
	Col  int
	Mark Cell
}

func (that Board) cellAt(index int) Cell {
	return that[index/BoardSize][index%BoardSize]
}

// UnmarshalJSON decodes the wire 3x3 number grid, rejecting any other shape
// and any value outside {-1, 0, 1}.
func (that *Board) UnmarshalJSON(data []byte) error {
	var raw [][]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBoard, err)
	}

	if len(raw) != BoardSize {
		return fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidBoard, BoardSize, len(raw))
	}

	var board Board
	for row, cells := range raw {
		if len(cells) != BoardSize {
			return fmt.Errorf("%w: row %d has %d cells", ErrInvalidBoard, row, len(cells))
		}

		for col, value := range cells {
			// checked as int before narrowing: Cell(256) would alias onto a legal mark
			if value < int(CellComputer) || value > int(CellPlayer) {
				return fmt.Errorf("%w: cell (%d,%d) holds %d", ErrInvalidBoard, row, col, value)
			}

			board[row][col] = Cell(value)
		}
	}

	*that = board

	return nil
}

// Validate checks that the cell counts could have arisen from an alternating
// sequence of moves on an empty board.
func (that Board) Validate() error {
	var players, computers int
	for i := 0; i < BoardSize*BoardSize; i++ {
		switch that.cellAt(i) {
		case CellPlayer:
			players++
		case CellComputer:
			computers++
		}
	}

	if diff := players - computers; diff < -1 || diff > 1 {
		return fmt.Errorf("%w: mark counts %d/%d do not alternate", ErrInvalidBoard, players, computers)
	}

	return nil
}

// Evaluate reports the terminal status of a board: a completed line wins,
// a full board with no line is a draw, anything else is ongoing.
func (that Board) Evaluate() GameStatus {
	for _, combo := range WinCombos {
		a, b, c := that.cellAt(combo[0]), that.cellAt(combo[1]), that.cellAt(combo[2])
		if a != CellEmpty && a == b && b == c {
			if a == CellPlayer {
				return StatusPlayerWon
			}
			return StatusComputerWon
		}
	}

	for i := 0; i < BoardSize*BoardSize; i++ {
		if that.cellAt(i) == CellEmpty {
			return StatusOngoing
		}
	}

	return StatusDraw
}

// Diff validates that next extends prev by exactly one new mark on a
// previously empty cell and returns that move.
func Diff(prev, next Board) (Move, error) {
	var (
		move  Move
		found bool
	)

	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			before, after := prev[row][col], next[row][col]
			if before == after {
				continue
			}

			if before != CellEmpty {
				return Move{}, fmt.Errorf("%w: cell (%d,%d) was overwritten", ErrInvalidTransition, row, col)
			}

			if found {
				return Move{}, fmt.Errorf("%w: more than one cell changed", ErrInvalidTransition)
			}

			move = Move{Row: row, Col: col, Mark: after}
			found = true
		}
	}

	if !found {
		return Move{}, fmt.Errorf("%w: no cell changed", ErrInvalidTransition)
	}

	return move, nil
}
