package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/healthmate-app/gomoku-backend/internal/entity"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomCodeTaken   = errors.New("room code already taken")
	ErrVersionConflict = errors.New("room version conflict")
)

type RoomRepository interface {
	Create(ctx context.Context, room *entity.Room) error
	GetByID(ctx context.Context, id string) (*entity.Room, error)
	GetWaitingByCode(ctx context.Context, code string) (*entity.Room, error)
	Update(ctx context.Context, room *entity.Room) error
	DeleteByID(ctx context.Context, id string) error
}

type dbRoom struct {
	client *redis.Client
}

func NewRoomRepository(client *redis.Client) RoomRepository {
	return &dbRoom{
		client: client,
	}
}

func roomKey(id string) string {
	return "room:" + id
}

// codeKey - index entry mapping an open room's code to its id. The entry
// exists only while the room is waiting, which is what makes codes unique
// among open rooms.
func codeKey(code string) string {
	return "room:code:" + code
}

func (that *dbRoom) Create(ctx context.Context, room *entity.Room) error {
	roomJSON, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("could not marshal room: %w", err)
	}

	reserved, err := that.client.SetNX(ctx, codeKey(room.Code), room.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to reserve room code: %w", err)
	}

	if !reserved {
		return fmt.Errorf("%w: %s", ErrRoomCodeTaken, room.Code)
	}

	if err = that.client.Set(ctx, roomKey(room.ID), roomJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set room: %w", err)
	}

	return nil
}

func (that *dbRoom) GetByID(ctx context.Context, id string) (*entity.Room, error) {
	response, err := that.client.Get(ctx, roomKey(id)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrRoomNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get room by id: %w", err)
	}

	var existingRoom entity.Room
	if err = json.Unmarshal([]byte(response), &existingRoom); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}

	return &existingRoom, nil
}

func (that *dbRoom) GetWaitingByCode(ctx context.Context, code string) (*entity.Room, error) {
	id, err := that.client.Get(ctx, codeKey(code)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrRoomNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to resolve room code: %w", err)
	}

	room, err := that.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// stale index entry: the room has already left the waiting state
	if !room.IsOpen() {
		return nil, ErrRoomNotFound
	}

	return room, nil
}

// Update - compare-and-swap write. The room is stored only if the persisted
// version still equals the version the caller read; otherwise
// ErrVersionConflict is returned and the caller must re-fetch. On success
// the room's Version is incremented.
func (that *dbRoom) Update(ctx context.Context, room *entity.Room) error {
	key := roomKey(room.ID)

	err := that.client.Watch(ctx, func(tx *redis.Tx) error {
		response, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return ErrRoomNotFound
		}

		if err != nil {
			return fmt.Errorf("failed to get room for update: %w", err)
		}

		var stored entity.Room
		if err = json.Unmarshal([]byte(response), &stored); err != nil {
			return fmt.Errorf("failed to unmarshal room: %w", err)
		}

		if stored.Version != room.Version {
			return ErrVersionConflict
		}

		next := room.Clone()
		next.Version = room.Version + 1

		roomJSON, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("could not marshal room: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, roomJSON, 0)

			if !next.IsOpen() {
				pipe.Del(ctx, codeKey(next.Code))
			}

			return nil
		})

		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return ErrVersionConflict
	}

	if err != nil {
		return err
	}

	room.Version++

	return nil
}

func (that *dbRoom) DeleteByID(ctx context.Context, id string) error {
	room, err := that.GetByID(ctx, id)
	if err != nil {
		return err
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, roomKey(id))

		// the code reservation belongs to this room only while it is open;
		// a non-open room already gave it up in Update, and the entry may
		// now point at a newer room
		if room.IsOpen() {
			pipe.Del(ctx, codeKey(room.Code))
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete room by id: %w", err)
	}

	return nil
}
