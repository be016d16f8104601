package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/caro-backend/internal/entity"
)

const roomKeyPrefix = "room:"

var ErrRoomNotFound = errors.New("room not found")

type RoomRepository interface {
	Save(ctx context.Context, room *entity.RoomView) error
	GetByID(ctx context.Context, id string) (*entity.RoomView, error)
	DeleteByID(ctx context.Context, id string) error
}

// dbRoom - keeps a JSON snapshot of every live room, expiring after ttl without updates.
type dbRoom struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRoomRepository(client *redis.Client, ttl time.Duration) RoomRepository {
	return &dbRoom{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbRoom) Save(ctx context.Context, room *entity.RoomView) error {
	roomJSON, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("could not marshal room: %w", err)
	}

	if err = that.client.Set(ctx, roomKeyPrefix+room.RoomID, roomJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set room: %w", err)
	}

	return nil
}

func (that *dbRoom) GetByID(ctx context.Context, id string) (*entity.RoomView, error) {
	response, err := that.client.Get(ctx, roomKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRoomNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get room by id: %w", err)
	}

	var room entity.RoomView
	if err = json.Unmarshal(response, &room); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}

	return &room, nil
}

func (that *dbRoom) DeleteByID(ctx context.Context, id string) error {
	deleted, err := that.client.Del(ctx, roomKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete room by id: %w", err)
	}

	if deleted == 0 {
		return ErrRoomNotFound
	}

	return nil
}
