package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/healthmate-app/gomoku-backend/internal/apperror"
	"github.com/healthmate-app/gomoku-backend/internal/entity"
	"github.com/healthmate-app/gomoku-backend/internal/notifier"
	"github.com/healthmate-app/gomoku-backend/internal/pkg"
	"github.com/healthmate-app/gomoku-backend/internal/repository"
)

// maxCodeAttempts bounds the retry loop when a freshly generated room code
// collides with an already open room.
const maxCodeAttempts = 5

// RoomService - manages the room lifecycle: creation by the host, admission
// of a guest by code, and voluntary departure of either side.
type RoomService interface {
	Create(ctx context.Context, callerID string) (*entity.Room, error)
	Join(ctx context.Context, roomCode, callerID string) (*entity.Room, error)
	Leave(ctx context.Context, roomID, callerID string) error
}

type roomService struct {
	logger *slog.Logger

	roomRepo   repository.RoomRepository
	playerRepo repository.PlayerRepository
	notifier   notifier.RoomNotifier
}

func NewRoomService(
	logger *slog.Logger,
	roomRepo repository.RoomRepository,
	playerRepo repository.PlayerRepository,
	roomNotifier notifier.RoomNotifier,
) RoomService {
	return &roomService{
		logger: logger,

		roomRepo:   roomRepo,
		playerRepo: playerRepo,
		notifier:   roomNotifier,
	}
}

func (that *roomService) Create(ctx context.Context, callerID string) (*entity.Room, error) {
	log := that.logger.With("method", "Create")

	if callerID == "" {
		return nil, apperror.ErrAuth
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := pkg.GenerateRoomCode()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperror.ErrStore, err)
		}

		room := entity.NewRoom(pkg.GenerateRoomID(), code, callerID, time.Now().UTC())

		err = that.roomRepo.Create(ctx, room)
		if errors.Is(err, repository.ErrRoomCodeTaken) {
			log.Info("room code collision, retrying", "code", code)
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("%w: failed to create room: %v", apperror.ErrStore, err)
		}

		if err = that.attachPlayer(ctx, callerID, room.ID, entity.PlayerHost); err != nil {
			return nil, err
		}

		log.Info("room created", "roomID", room.ID, "code", room.Code)

		return room, nil
	}

	return nil, fmt.Errorf("%w: could not allocate a unique room code", apperror.ErrStore)
}

func (that *roomService) Join(ctx context.Context, roomCode, callerID string) (*entity.Room, error) {
	log := that.logger.With("method", "Join")

	if callerID == "" {
		return nil, apperror.ErrAuth
	}

	// codes are stored uppercased; accept whatever casing the guest typed
	roomCode = strings.ToUpper(strings.TrimSpace(roomCode))

	room, err := that.roomRepo.GetWaitingByCode(ctx, roomCode)
	if errors.Is(err, repository.ErrRoomNotFound) {
		return nil, apperror.ErrRoomNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("%w: failed to look up room by code: %v", apperror.ErrStore, err)
	}

	if room.HostID == callerID {
		return nil, fmt.Errorf("%w: host cannot join their own room as guest", apperror.ErrIllegalJoin)
	}

	if room.HasGuest() {
		return nil, fmt.Errorf("%w: room is full", apperror.ErrIllegalJoin)
	}

	room.GuestID = callerID
	room.SetStatus(entity.StatusPlaying)
	room.UpdatedAt = time.Now().UTC()

	if err = that.updateRoom(ctx, room); err != nil {
		return nil, err
	}

	if err = that.attachPlayer(ctx, callerID, room.ID, entity.PlayerGuest); err != nil {
		return nil, err
	}

	that.publishRoom(ctx, room)
	log.Info("guest joined room", "roomID", room.ID, "guestID", callerID)

	return room, nil
}

// Leave - a host departure deletes the room outright and ends the match for
// both sides; a guest departure keeps the room record but demotes it to
// abandoned so the host's client can observe it.
func (that *roomService) Leave(ctx context.Context, roomID, callerID string) error {
	log := that.logger.With("method", "Leave", "roomID", roomID)

	room, err := that.roomRepo.GetByID(ctx, roomID)
	if errors.Is(err, repository.ErrRoomNotFound) {
		return apperror.ErrRoomNotFound
	}

	if err != nil {
		return fmt.Errorf("%w: failed to get room: %v", apperror.ErrStore, err)
	}

	switch callerID {
	case room.HostID:
		if err = that.roomRepo.DeleteByID(ctx, roomID); err != nil {
			return fmt.Errorf("%w: failed to delete room: %v", apperror.ErrStore, err)
		}

		// the document is gone; push a terminal state so the guest's
		// client learns the match is over
		closed := room.Clone()
		closed.SetStatus(entity.StatusAbandoned)
		closed.UpdatedAt = time.Now().UTC()
		that.publishRoom(ctx, closed)

		that.detachPlayer(ctx, room.HostID)
		that.detachPlayer(ctx, room.GuestID)

		log.Info("host left, room deleted")

		return nil
	case room.GuestID:
		room.GuestID = ""
		room.SetStatus(entity.StatusAbandoned)
		room.UpdatedAt = time.Now().UTC()

		if err = that.updateRoom(ctx, room); err != nil {
			return err
		}

		that.publishRoom(ctx, room)
		that.detachPlayer(ctx, callerID)

		log.Info("guest left, room abandoned")

		return nil
	default:
		return apperror.ErrNotInRoom
	}
}

func (that *roomService) updateRoom(ctx context.Context, room *entity.Room) error {
	err := that.roomRepo.Update(ctx, room)

	if errors.Is(err, repository.ErrVersionConflict) {
		return apperror.ErrConflict
	}

	if errors.Is(err, repository.ErrRoomNotFound) {
		return apperror.ErrRoomNotFound
	}

	if err != nil {
		return fmt.Errorf("%w: failed to update room: %v", apperror.ErrStore, err)
	}

	return nil
}

func (that *roomService) attachPlayer(ctx context.Context, playerID, roomID, role string) error {
	player := &entity.Player{
		ID:     playerID,
		RoomID: roomID,
		Role:   role,
	}

	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return fmt.Errorf("%w: failed to update player: %v", apperror.ErrStore, err)
	}

	return nil
}

// detachPlayer - best effort; a stale player record never blocks leaving.
func (that *roomService) detachPlayer(ctx context.Context, playerID string) {
	if playerID == "" {
		return
	}

	player := &entity.Player{ID: playerID}
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		that.logger.Error("failed to detach player", "playerID", playerID, "error", err)
	}
}

func (that *roomService) publishRoom(ctx context.Context, room *entity.Room) {
	if err := that.notifier.Publish(ctx, room); err != nil {
		that.logger.Error("failed to publish room update", "roomID", room.ID, "error", err)
	}
}
