package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/caro-backend/internal/entity"
	"github.com/rocketscienceinc/caro-backend/internal/repository"
)

const (
	defaultMirrorQueue = 256
	mirrorWriteTimeout = 2 * time.Second
)

type roomRepo interface {
	Save(ctx context.Context, room *entity.RoomView) error
	DeleteByID(ctx context.Context, id string) error
}

type mirrorOp struct {
	roomID string
	room   *entity.RoomView // nil means delete
}

// RoomMirror - copies room snapshots into redis from its own goroutine. Callbacks never block:
// when the queue is full the update is dropped and the next change of that room overwrites it.
type RoomMirror struct {
	logger *slog.Logger
	repo   roomRepo

	queue chan mirrorOp
}

func NewRoomMirror(logger *slog.Logger, repo roomRepo, queueSize int) *RoomMirror {
	if queueSize <= 0 {
		queueSize = defaultMirrorQueue
	}

	return &RoomMirror{
		logger: logger.With("component", "room_mirror"),
		repo:   repo,
		queue:  make(chan mirrorOp, queueSize),
	}
}

// RoomUpdated - queues a snapshot write.
func (that *RoomMirror) RoomUpdated(view *entity.RoomView) {
	that.enqueue(mirrorOp{roomID: view.RoomID, room: view})
}

// RoomDeleted - queues a snapshot removal.
func (that *RoomMirror) RoomDeleted(roomID string) {
	that.enqueue(mirrorOp{roomID: roomID})
}

func (that *RoomMirror) enqueue(op mirrorOp) {
	select {
	case that.queue <- op:
	default:
		that.logger.Warn("mirror queue full, dropping update", "roomID", op.roomID)
	}
}

// Run - drains the queue until ctx is canceled.
func (that *RoomMirror) Run(ctx context.Context) {
	log := that.logger.With("method", "Run")
	log.Info("room mirror started")

	for {
		select {
		case <-ctx.Done():
			log.Info("room mirror stopped")
			return
		case op := <-that.queue:
			that.apply(ctx, op)
		}
	}
}

func (that *RoomMirror) apply(ctx context.Context, op mirrorOp) {
	log := that.logger.With("method", "apply", "roomID", op.roomID)

	ctx, cancel := context.WithTimeout(ctx, mirrorWriteTimeout)
	defer cancel()

	if op.room == nil {
		err := that.repo.DeleteByID(ctx, op.roomID)
		if err != nil && !errors.Is(err, repository.ErrRoomNotFound) {
			log.Error("failed to delete room snapshot", "error", err)
		}
		return
	}

	if err := that.repo.Save(ctx, op.room); err != nil {
		log.Error("failed to save room snapshot", "error", err)
	}
}
