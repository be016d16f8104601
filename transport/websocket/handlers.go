package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/caro-backend/internal/apperror"
	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

const (
	metricMalformed   = "malformed"
	metricUnknownType = "unknown"
)

// OnConnect - a new connection belongs to no room until it sends create_room or join_room.
func (that *Server) OnConnect(connID string) {
	that.recorder.ConnectionOpened()
	that.logger.Info("client connected", "connID", connID)
}

// OnMessage - decodes and dispatches one inbound payload. Any failure, including a panic in a handler,
// ends as an error event to this connection only.
func (that *Server) OnMessage(connID string, raw []byte) {
	log := that.logger.With("method", "OnMessage", "connID", connID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("recovered from panic while handling message", "panic", r)
			that.sendError(connID, fmt.Errorf("panic: %v", r))
		}
	}()

	var message Message
	if err := json.Unmarshal(raw, &message); err != nil {
		that.recorder.MessageReceived(metricMalformed)
		log.Warn("failed to unmarshal message", "error", err)
		that.sendError(connID, fmt.Errorf("%w: %w", apperror.ErrMalformedMessage, err))
		return
	}

	handler, ok := that.handlers[message.Type]
	if !ok {
		that.recorder.MessageReceived(metricUnknownType)
		log.Warn("unknown message type", "type", message.Type)
		that.sendError(connID, fmt.Errorf("%w: %q", apperror.ErrUnknownMessageType, message.Type))
		return
	}

	that.recorder.MessageReceived(message.Type)

	if err := handler(connID, &message); err != nil {
		log.Info("message rejected", "type", message.Type, "roomID", message.RoomID, "error", err)
		that.sendError(connID, err)
	}
}

// OnDisconnect - applies leave semantics to the connection's room and releases the connection.
func (that *Server) OnDisconnect(connID string) {
	that.rooms.Disconnect(connID)
	that.hub.remove(connID)
	that.recorder.ConnectionClosed()

	that.logger.Info("client disconnected", "connID", connID)
}

// OnTransportError - transport failures are logged only.
func (that *Server) OnTransportError(connID string, err error) {
	that.logger.Warn("transport error", "connID", connID, "error", err)
}

func (that *Server) handleCreateRoom(connID string, message *Message) error {
	if err := message.requireRoomAndPlayer(); err != nil {
		return err
	}

	if _, err := that.rooms.CreateRoom(message.RoomID, message.PlayerID, connID); err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	return nil
}

func (that *Server) handleJoinRoom(connID string, message *Message) error {
	if err := message.requireRoomAndPlayer(); err != nil {
		return err
	}

	if _, err := that.rooms.JoinRoom(message.RoomID, message.PlayerID, connID); err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	return nil
}

func (that *Server) handleMoveMade(_ string, message *Message) error {
	if err := message.requireMove(); err != nil {
		return err
	}

	return that.rooms.ApplyMove(message.RoomID, message.PlayerID, *message.Row, *message.Col)
}

func (that *Server) handleResetGame(_ string, message *Message) error {
	if err := message.requireRoom(); err != nil {
		return err
	}

	that.rooms.ResetGame(message.RoomID)

	return nil
}

func (that *Server) handleLeaveRoom(_ string, message *Message) error {
	if err := message.requireRoomAndPlayer(); err != nil {
		return err
	}

	that.rooms.LeaveRoom(message.RoomID, message.PlayerID)

	return nil
}

func (that *Server) sendError(connID string, err error) {
	if sendErr := that.hub.Send(connID, entity.NewErrorEvent(apperror.Message(err))); sendErr != nil {
		that.logger.Warn("failed to send error event", "connID", connID, "error", sendErr)
	}
}
