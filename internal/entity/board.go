package entity

import (
	"encoding/json"
	"fmt"
)

const BoardSize = 15

type Symbol string

const (
	EmptyCell Symbol = ""
	PlayerX   Symbol = "X"
	PlayerO   Symbol = "O"
)

// Opponent - returns the other player's symbol.
func (that Symbol) Opponent() Symbol {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

type Winner string

const (
	WinnerNone Winner = ""
	WinnerX    Winner = "X"
	WinnerO    Winner = "O"
	WinnerDraw Winner = "draw"
)

// WinnerOf - converts the symbol that completed a line into a Winner.
func WinnerOf(symbol Symbol) Winner {
	return Winner(symbol)
}

func (that Winner) MarshalJSON() ([]byte, error) {
	if that == WinnerNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(that))
}

func (that *Winner) UnmarshalJSON(data []byte) error {
	var value *string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("failed to unmarshal winner: %w", err)
	}

	if value == nil {
		*that = WinnerNone
		return nil
	}

	*that = Winner(*value)
	return nil
}

// Board is a BoardSize x BoardSize grid indexed as [row][col].
type Board [BoardSize][BoardSize]Symbol

// InBounds - reports whether (row, col) addresses a cell on the board.
func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// MarshalJSON - encodes empty cells as null so clients see the same shape as before a move.
func (that Board) MarshalJSON() ([]byte, error) {
	rows := make([][]*string, BoardSize)
	for r := range that {
		rows[r] = make([]*string, BoardSize)
		for c, cell := range that[r] {
			if cell == EmptyCell {
				continue
			}
			value := string(cell)
			rows[r][c] = &value
		}
	}

	return json.Marshal(rows)
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var rows [][]*string
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("failed to unmarshal board: %w", err)
	}

	if len(rows) != BoardSize {
		return fmt.Errorf("board must have %d rows, got %d", BoardSize, len(rows))
	}

	var board Board
	for r, row := range rows {
		if len(row) != BoardSize {
			return fmt.Errorf("board row %d must have %d cells, got %d", r, BoardSize, len(row))
		}
		for c, cell := range row {
			if cell != nil {
				board[r][c] = Symbol(*cell)
			}
		}
	}

	*that = board
	return nil
}
