package entity

import (
	"fmt"

	"github.com/rocketscienceinc/caro-backend/internal/apperror"
)

const MaxPlayers = 2

// Player is a seat in a room. ConnID is an opaque transport token, never serialized.
type Player struct {
	ID     string `json:"id"`
	Symbol Symbol `json:"symbol"`
	ConnID string `json:"-"`
}

type Room struct {
	ID            string
	Players       []*Player
	Board         Board
	CurrentPlayer Symbol
	Winner        Winner
	IsGameActive  bool
}

// NewRoom - creates a room seated with its creator as X, waiting for an opponent.
func NewRoom(id, creatorID, connID string) *Room {
	return &Room{
		ID:            id,
		Players:       []*Player{{ID: creatorID, Symbol: PlayerX, ConnID: connID}},
		CurrentPlayer: PlayerX,
		Winner:        WinnerNone,
	}
}

// AddPlayer - seats a second player. The newcomer takes whichever symbol is free,
// so a remaining player never has their symbol reassigned.
func (that *Room) AddPlayer(playerID, connID string) (*Player, error) {
	if len(that.Players) >= MaxPlayers {
		return nil, fmt.Errorf("%w: room %s", apperror.ErrRoomFull, that.ID)
	}

	if that.PlayerByID(playerID) != nil {
		return nil, fmt.Errorf("%w: player %s", apperror.ErrPlayerAlreadyInRoom, playerID)
	}

	symbol := PlayerX
	if len(that.Players) == 1 {
		symbol = that.Players[0].Symbol.Opponent()
	}

	player := &Player{ID: playerID, Symbol: symbol, ConnID: connID}
	that.Players = append(that.Players, player)

	return player, nil
}

// RemovePlayer - removes the player with the given id, returning it or nil if absent.
func (that *Room) RemovePlayer(playerID string) *Player {
	return that.removeWhere(func(p *Player) bool { return p.ID == playerID })
}

// RemoveConn - removes the player seated through the given connection.
func (that *Room) RemoveConn(connID string) *Player {
	return that.removeWhere(func(p *Player) bool { return p.ConnID == connID })
}

func (that *Room) removeWhere(match func(*Player) bool) *Player {
	for i, player := range that.Players {
		if match(player) {
			that.Players = append(that.Players[:i:i], that.Players[i+1:]...)
			return player
		}
	}

	return nil
}

func (that *Room) PlayerByID(playerID string) *Player {
	for _, player := range that.Players {
		if player.ID == playerID {
			return player
		}
	}

	return nil
}

func (that *Room) IsFull() bool {
	return len(that.Players) == MaxPlayers
}

func (that *Room) IsEmpty() bool {
	return len(that.Players) == 0
}

// ConnIDs - returns the connections currently associated with the room.
func (that *Room) ConnIDs() []string {
	ids := make([]string, 0, len(that.Players))
	for _, player := range that.Players {
		ids = append(ids, player.ConnID)
	}

	return ids
}

// RoomView is the serialized room sent to clients. It is a copy and safe to use after the room changes.
type RoomView struct {
	RoomID        string   `json:"roomId"`
	Players       []Player `json:"players"`
	Board         Board    `json:"board"`
	CurrentPlayer Symbol   `json:"currentPlayer"`
	Winner        Winner   `json:"winner"`
	IsGameActive  bool     `json:"isGameActive"`
}

func (that *Room) View() *RoomView {
	players := make([]Player, 0, len(that.Players))
	for _, player := range that.Players {
		players = append(players, Player{ID: player.ID, Symbol: player.Symbol})
	}

	return &RoomView{
		RoomID:        that.ID,
		Players:       players,
		Board:         that.Board,
		CurrentPlayer: that.CurrentPlayer,
		Winner:        that.Winner,
		IsGameActive:  that.IsGameActive,
	}
}
