package usecase

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/caro-backend/internal/apperror"
	"github.com/rocketscienceinc/caro-backend/internal/caro"
	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

type notifier interface {
	Send(connID string, event *entity.Event) error
}

type roomObserver interface {
	RoomUpdated(view *entity.RoomView)
	RoomDeleted(roomID string)
}

type recorder interface {
	RoomsActive(count int)
	MoveRejected()
	SendFailed()
}

type Option func(*RoomManager)

// WithObserver - registers an observer notified after every room change. It must not block.
func WithObserver(observer roomObserver) Option {
	return func(that *RoomManager) {
		that.observer = observer
	}
}

func WithRecorder(recorder recorder) Option {
	return func(that *RoomManager) {
		that.recorder = recorder
	}
}

// WithIllegalMoveReports - send an error event to the mover instead of dropping illegal moves silently.
func WithIllegalMoveReports(enabled bool) Option {
	return func(that *RoomManager) {
		that.reportIllegalMoves = enabled
	}
}

// RoomManager is the room registry. Every operation holds the registry lock for its whole
// duration, so each inbound event is applied and fanned out before the next one starts.
type RoomManager struct {
	logger   *slog.Logger
	notifier notifier
	observer roomObserver
	recorder recorder

	reportIllegalMoves bool

	mu        sync.Mutex
	rooms     map[string]*entity.Room
	connRooms map[string]string // connID → roomID
}

func NewRoomManager(logger *slog.Logger, notifier notifier, options ...Option) *RoomManager {
	manager := &RoomManager{
		logger:    logger.With("component", "room_manager"),
		notifier:  notifier,
		observer:  nopObserver{},
		recorder:  nopRecorder{},
		rooms:     make(map[string]*entity.Room),
		connRooms: make(map[string]string),
	}

	for _, option := range options {
		option(manager)
	}

	return manager
}

// CreateRoom - registers a new room with the creator seated as X and acknowledges it to the creator only.
func (that *RoomManager) CreateRoom(roomID, playerID, connID string) (*entity.RoomView, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.rooms[roomID]; ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrDuplicateRoom, roomID)
	}

	if current, ok := that.connRooms[connID]; ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrConnectionInRoom, current)
	}

	room := entity.NewRoom(roomID, playerID, connID)
	that.rooms[roomID] = room
	that.connRooms[connID] = roomID

	that.logger.Info("room created", "roomID", roomID, "playerID", playerID)

	that.send(connID, entity.NewRoomCreatedEvent(roomID))
	that.roomChanged(room)
	that.recorder.RoomsActive(len(that.rooms))

	return room.View(), nil
}

// JoinRoom - seats the second player, starts the game and broadcasts player_joined to the room.
func (that *RoomManager) JoinRoom(roomID, playerID, connID string) (*entity.RoomView, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, roomID)
	}

	if current, ok := that.connRooms[connID]; ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrConnectionInRoom, current)
	}

	if _, err := room.AddPlayer(playerID, connID); err != nil {
		return nil, fmt.Errorf("failed to join room: %w", err)
	}

	that.connRooms[connID] = roomID
	caro.Start(room)

	that.logger.Info("player joined", "roomID", roomID, "playerID", playerID)

	that.broadcast(room, entity.NewRoomEvent(entity.EventPlayerJoined, room))
	that.roomChanged(room)

	return room.View(), nil
}

// ApplyMove - plays (row, col) for the player and broadcasts move_made. Illegal moves are dropped
// without a broadcast; the returned error is non-nil only when illegal move reports are enabled.
func (that *RoomManager) ApplyMove(roomID, playerID string, row, col int) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "ApplyMove", "roomID", roomID, "playerID", playerID)

	room, ok := that.rooms[roomID]
	if !ok {
		return that.rejectMove(log, fmt.Errorf("%w: %w", apperror.ErrIllegalMove, apperror.ErrRoomNotFound))
	}

	if err := caro.MakeMove(room, playerID, row, col); err != nil {
		return that.rejectMove(log, err)
	}

	if room.Winner != entity.WinnerNone {
		log.Info("game finished", "winner", string(room.Winner))
	}

	that.broadcast(room, entity.NewMoveMadeEvent(room, row, col))
	that.roomChanged(room)

	return nil
}

func (that *RoomManager) rejectMove(log *slog.Logger, err error) error {
	that.recorder.MoveRejected()
	log.Debug("move rejected", "error", err)

	if !that.reportIllegalMoves {
		return nil
	}

	return err
}

// ResetGame - clears the board and broadcasts game_reset. Unknown rooms are ignored.
func (that *RoomManager) ResetGame(roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[roomID]
	if !ok {
		return
	}

	caro.Reset(room)

	that.broadcast(room, entity.NewRoomEvent(entity.EventGameReset, room))
	that.roomChanged(room)
}

// LeaveRoom - removes the player from the room. Unknown rooms and players are ignored.
func (that *RoomManager) LeaveRoom(roomID, playerID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[roomID]
	if !ok {
		return
	}

	player := room.RemovePlayer(playerID)
	if player == nil {
		return
	}

	delete(that.connRooms, player.ConnID)

	that.logger.Info("player left", "roomID", roomID, "playerID", playerID)

	that.afterLeave(room)
}

// Disconnect - applies leave semantics to whichever room the connection is seated in.
func (that *RoomManager) Disconnect(connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	roomID, ok := that.connRooms[connID]
	if !ok {
		return
	}

	delete(that.connRooms, connID)

	room, ok := that.rooms[roomID]
	if !ok {
		return
	}

	player := room.RemoveConn(connID)
	if player == nil {
		return
	}

	that.logger.Info("player disconnected", "roomID", roomID, "playerID", player.ID)

	that.afterLeave(room)
}

func (that *RoomManager) afterLeave(room *entity.Room) {
	if room.IsEmpty() {
		delete(that.rooms, room.ID)
		that.observer.RoomDeleted(room.ID)
		that.recorder.RoomsActive(len(that.rooms))

		that.logger.Info("room deleted", "roomID", room.ID)
		return
	}

	caro.Pause(room)

	that.broadcast(room, entity.NewRoomEvent(entity.EventPlayerLeft, room))
	that.roomChanged(room)
}

// Snapshot - returns a copy of the room state.
func (that *RoomManager) Snapshot(roomID string) (*entity.RoomView, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, roomID)
	}

	return room.View(), nil
}

func (that *RoomManager) RoomCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.rooms)
}

// broadcast - delivers the event to every connection in the room; one failed send does not stop the rest.
func (that *RoomManager) broadcast(room *entity.Room, event *entity.Event) {
	for _, connID := range room.ConnIDs() {
		that.send(connID, event)
	}
}

func (that *RoomManager) send(connID string, event *entity.Event) {
	if err := that.notifier.Send(connID, event); err != nil {
		that.recorder.SendFailed()
		that.logger.Warn("failed to send event", "connID", connID, "event", event.Type, "error", err)
	}
}

func (that *RoomManager) roomChanged(room *entity.Room) {
	that.observer.RoomUpdated(room.View())
}

type nopObserver struct{}

func (nopObserver) RoomUpdated(*entity.RoomView) {}
func (nopObserver) RoomDeleted(string)           {}

type nopRecorder struct{}

func (nopRecorder) RoomsActive(int) {}
func (nopRecorder) MoveRejected()   {}
func (nopRecorder) SendFailed()     {}
