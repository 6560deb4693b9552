package apperror

import "errors"

// All errors below are ordinary gameplay outcomes between two independent
// human players. They are returned to the caller, never treated as fatal.
var (
	ErrAuth          = errors.New("caller identity could not be resolved")
	ErrRoomNotFound  = errors.New("room not found")
	ErrIllegalJoin   = errors.New("cannot join this room")
	ErrNotInRoom     = errors.New("caller is not a participant of this room")
	ErrGameNotActive = errors.New("game is not active")
	ErrNotYourTurn   = errors.New("it's not your turn")
	ErrCellOccupied  = errors.New("cell is already occupied")
	ErrInvalidCell   = errors.New("cell is outside the board")
	ErrStore         = errors.New("storage failure")
	ErrConflict      = errors.New("room was updated concurrently")
)
