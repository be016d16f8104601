// Package caro implements the 15x15 five-in-a-row rules over entity.Room.
package caro

import (
	"fmt"

	"github.com/rocketscienceinc/caro-backend/internal/apperror"
	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

const WinLength = 5

// directions are the four axes scanned from the last stone: horizontal, vertical, diagonal ↘, diagonal ↗.
var directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{-1, 1},
}

// MakeMove - validates and applies a move, then settles winner, draw or the next turn.
// On error the room is left untouched.
func MakeMove(room *entity.Room, playerID string, row, col int) error {
	player, err := validateMove(room, playerID, row, col)
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrIllegalMove, err)
	}

	room.Board[row][col] = player.Symbol
	updateGameStatus(room, player.Symbol, row, col)

	return nil
}

// validateMove - checks if the move is valid.
func validateMove(room *entity.Room, playerID string, row, col int) (*entity.Player, error) {
	if !room.IsGameActive {
		return nil, apperror.ErrGameNotActive
	}

	if !entity.InBounds(row, col) {
		return nil, fmt.Errorf("%w: (%d, %d)", apperror.ErrInvalidCell, row, col)
	}

	if room.Board[row][col] != entity.EmptyCell {
		return nil, apperror.ErrCellOccupied
	}

	player := room.PlayerByID(playerID)
	if player == nil {
		return nil, apperror.ErrPlayerNotInRoom
	}

	if player.Symbol != room.CurrentPlayer {
		return nil, apperror.ErrNotYourTurn
	}

	return player, nil
}

// updateGameStatus - checks the game status after a move.
func updateGameStatus(room *entity.Room, symbol entity.Symbol, row, col int) {
	switch {
	case CheckWinner(&room.Board, row, col):
		room.Winner = entity.WinnerOf(symbol)
		room.IsGameActive = false
	case IsBoardFull(&room.Board):
		room.Winner = entity.WinnerDraw
		room.IsGameActive = false
	default:
		room.CurrentPlayer = symbol.Opponent()
	}
}

// CheckWinner - reports whether the stone at (row, col) is part of a run of at least WinLength.
// Only cells within WinLength-1 steps of the stone are inspected.
func CheckWinner(board *entity.Board, row, col int) bool {
	if !entity.InBounds(row, col) {
		return false
	}

	symbol := board[row][col]
	if symbol == entity.EmptyCell {
		return false
	}

	for _, dir := range directions {
		count := 1 + countRun(board, symbol, row, col, dir[0], dir[1]) + countRun(board, symbol, row, col, -dir[0], -dir[1])
		if count >= WinLength {
			return true
		}
	}

	return false
}

func countRun(board *entity.Board, symbol entity.Symbol, row, col, dRow, dCol int) int {
	count := 0
	for step := 1; step < WinLength; step++ {
		r, c := row+dRow*step, col+dCol*step
		if !entity.InBounds(r, c) || board[r][c] != symbol {
			break
		}
		count++
	}

	return count
}

// IsBoardFull - true when no empty cell remains.
func IsBoardFull(board *entity.Board) bool {
	for _, row := range board {
		for _, cell := range row {
			if cell == entity.EmptyCell {
				return false
			}
		}
	}

	return true
}

// Reset - clears the board for a new game. The game is active only with both seats taken.
func Reset(room *entity.Room) {
	room.Board = entity.Board{}
	room.CurrentPlayer = entity.PlayerX
	room.Winner = entity.WinnerNone
	room.IsGameActive = room.IsFull()
}

// Start - activates a room once its second player is seated. A finished board is cleared first,
// an interrupted one is resumed as is.
func Start(room *entity.Room) {
	if room.Winner != entity.WinnerNone {
		Reset(room)
		return
	}

	room.IsGameActive = room.IsFull()
}

// Pause - deactivates the game after a player leaves.
func Pause(room *entity.Room) {
	room.IsGameActive = false
}
