package websocket

import (
	"fmt"

	"github.com/rocketscienceinc/caro-backend/internal/apperror"
)

// Inbound message types.
const (
	typeCreateRoom = "create_room"
	typeJoinRoom   = "join_room"
	typeMoveMade   = "move_made"
	typeResetGame  = "reset_game"
	typeLeaveRoom  = "leave_room"
)

// Message - a flat inbound command, e.g. {"type":"move_made","roomId":"R1","playerId":"p1","row":7,"col":7}.
// Row and Col are pointers so a missing coordinate is told apart from zero.
type Message struct {
	Type     string `json:"type"`
	RoomID   string `json:"roomId,omitempty"`
	PlayerID string `json:"playerId,omitempty"`
	Row      *int   `json:"row,omitempty"`
	Col      *int   `json:"col,omitempty"`
}

func (that *Message) requireRoom() error {
	if that.RoomID == "" {
		return fmt.Errorf("%w: roomId is required", apperror.ErrMalformedMessage)
	}

	return nil
}

func (that *Message) requireRoomAndPlayer() error {
	if err := that.requireRoom(); err != nil {
		return err
	}

	if that.PlayerID == "" {
		return fmt.Errorf("%w: playerId is required", apperror.ErrMalformedMessage)
	}

	return nil
}

func (that *Message) requireMove() error {
	if err := that.requireRoomAndPlayer(); err != nil {
		return err
	}

	if that.Row == nil || that.Col == nil {
		return fmt.Errorf("%w: row and col are required", apperror.ErrMalformedMessage)
	}

	return nil
}
