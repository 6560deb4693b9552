package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/healthmate-app/gomoku-backend/internal/entity"
)

// In-memory implementations of the repositories, used by unit tests and by
// local development without redis. Reads and writes exchange deep copies so
// two callers never share a Room instance, matching the isolation of two
// independent client processes talking to a remote store.

type memoryRoomRepository struct {
	mu    sync.RWMutex
	rooms map[string]*entity.Room
	codes map[string]string
}

func NewMemoryRoomRepository() RoomRepository {
	return &memoryRoomRepository{
		rooms: make(map[string]*entity.Room),
		codes: make(map[string]string),
	}
}

func (that *memoryRoomRepository) Create(_ context.Context, room *entity.Room) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, taken := that.codes[room.Code]; taken {
		return fmt.Errorf("%w: %s", ErrRoomCodeTaken, room.Code)
	}

	that.codes[room.Code] = room.ID
	that.rooms[room.ID] = room.Clone()

	return nil
}

func (that *memoryRoomRepository) GetByID(_ context.Context, id string) (*entity.Room, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}

	return room.Clone(), nil
}

func (that *memoryRoomRepository) GetWaitingByCode(_ context.Context, code string) (*entity.Room, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	id, ok := that.codes[code]
	if !ok {
		return nil, ErrRoomNotFound
	}

	room, ok := that.rooms[id]
	if !ok || !room.IsOpen() {
		return nil, ErrRoomNotFound
	}

	return room.Clone(), nil
}

func (that *memoryRoomRepository) Update(_ context.Context, room *entity.Room) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored, ok := that.rooms[room.ID]
	if !ok {
		return ErrRoomNotFound
	}

	if stored.Version != room.Version {
		return ErrVersionConflict
	}

	next := room.Clone()
	next.Version = room.Version + 1
	that.rooms[room.ID] = next

	if !next.IsOpen() {
		delete(that.codes, next.Code)
	}

	room.Version++

	return nil
}

func (that *memoryRoomRepository) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, ok := that.rooms[id]
	if !ok {
		return ErrRoomNotFound
	}

	// a non-open room gave up its code in Update; the entry may now
	// point at a newer room
	if room.IsOpen() {
		delete(that.codes, room.Code)
	}
	delete(that.rooms, id)

	return nil
}

type memoryPlayerRepository struct {
	mu      sync.RWMutex
	players map[string]*entity.Player
}

func NewMemoryPlayerRepository() PlayerRepository {
	return &memoryPlayerRepository{
		players: make(map[string]*entity.Player),
	}
}

func (that *memoryPlayerRepository) CreateOrUpdate(_ context.Context, player *entity.Player) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	cloned := *player
	that.players[player.ID] = &cloned

	return nil
}

func (that *memoryPlayerRepository) GetByID(_ context.Context, id string) (*entity.Player, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	player, ok := that.players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}

	cloned := *player

	return &cloned, nil
}
