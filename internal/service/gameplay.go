package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/healthmate-app/gomoku-backend/internal/apperror"
	"github.com/healthmate-app/gomoku-backend/internal/entity"
	"github.com/healthmate-app/gomoku-backend/internal/gomoku"
	"github.com/healthmate-app/gomoku-backend/internal/notifier"
	"github.com/healthmate-app/gomoku-backend/internal/repository"
)

// maxConflictRetries bounds how often a move is re-validated and re-applied
// after losing a compare-and-swap race before the conflict is surfaced.
const maxConflictRetries = 3

// GameplayService - validates and applies single moves against the shared
// room document.
type GameplayService interface {
	MakeMove(ctx context.Context, roomID string, row, col int, player string) (*entity.GameState, error)
	GetRoom(ctx context.Context, roomID string) (*entity.Room, error)
}

type gameplayService struct {
	logger *slog.Logger

	roomRepo repository.RoomRepository
	notifier notifier.RoomNotifier
}

func NewGameplayService(logger *slog.Logger, roomRepo repository.RoomRepository, roomNotifier notifier.RoomNotifier) GameplayService {
	return &gameplayService{
		logger: logger,

		roomRepo: roomRepo,
		notifier: roomNotifier,
	}
}

// MakeMove - reads the room, validates the move, computes the next state
// and writes it back with a version check. Losing the version race means
// another write landed between read and write; the move is then re-run
// against the fresh document so every precondition is enforced against what
// actually got stored. A move that keeps losing surfaces ErrConflict.
func (that *gameplayService) MakeMove(ctx context.Context, roomID string, row, col int, player string) (*entity.GameState, error) {
	log := that.logger.With("method", "MakeMove", "roomID", roomID)

	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		room, err := that.GetRoom(ctx, roomID)
		if err != nil {
			return nil, err
		}

		if err = gomoku.ApplyMove(room.Game, row, col, player, time.Now().UTC()); err != nil {
			return nil, err
		}

		room.Status = room.Game.Status
		room.UpdatedAt = time.Now().UTC()

		err = that.roomRepo.Update(ctx, room)
		if errors.Is(err, repository.ErrVersionConflict) {
			log.Info("lost update race, retrying move", "attempt", attempt+1)
			continue
		}

		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, apperror.ErrRoomNotFound
		}

		if err != nil {
			return nil, fmt.Errorf("%w: failed to update room: %v", apperror.ErrStore, err)
		}

		if err = that.notifier.Publish(ctx, room); err != nil {
			log.Error("failed to publish room update", "error", err)
		}

		if room.Game.IsFinished() {
			log.Info("game finished", "winner", room.Game.Winner)
		}

		return room.Game, nil
	}

	return nil, apperror.ErrConflict
}

func (that *gameplayService) GetRoom(ctx context.Context, roomID string) (*entity.Room, error) {
	room, err := that.roomRepo.GetByID(ctx, roomID)

	if errors.Is(err, repository.ErrRoomNotFound) {
		return nil, apperror.ErrRoomNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("%w: failed to get room: %v", apperror.ErrStore, err)
	}

	return room, nil
}
