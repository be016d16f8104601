package apperror

import "errors"

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomFull            = errors.New("room is full")
	ErrDuplicateRoom       = errors.New("room already exists")
	ErrPlayerAlreadyInRoom = errors.New("player is already in the room")
	ErrConnectionInRoom    = errors.New("connection is already in a room")
	ErrMalformedMessage    = errors.New("malformed message")
	ErrUnknownMessageType  = errors.New("unknown message type")

	// ErrIllegalMove wraps every reason a move is rejected by the game engine.
	ErrIllegalMove     = errors.New("illegal move")
	ErrGameNotActive   = errors.New("game is not active")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrInvalidCell     = errors.New("invalid cell")
	ErrPlayerNotInRoom = errors.New("player is not in the room")
)

var messages = []struct {
	err error
	msg string
}{
	{ErrRoomNotFound, "Room does not exist!"},
	{ErrRoomFull, "Room is full!"},
	{ErrDuplicateRoom, "Room already exists!"},
	{ErrPlayerAlreadyInRoom, "Player is already in this room!"},
	{ErrConnectionInRoom, "Leave your current room first!"},
	{ErrUnknownMessageType, "Unknown message type!"},
	{ErrMalformedMessage, "Failed to process message!"},
	{ErrCellOccupied, "Cell is already occupied!"},
	{ErrNotYourTurn, "It's not your turn!"},
	{ErrInvalidCell, "Cell is outside the board!"},
	{ErrGameNotActive, "Game is not active!"},
	{ErrPlayerNotInRoom, "You are not in this room!"},
}

// Message - returns the human-readable text sent to clients in error events.
func Message(err error) string {
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}

	return "Failed to process message!"
}
