package entity

import (
	"fmt"
	"time"

	"github.com/healthmate-app/gomoku-backend/internal/apperror"
)

const (
	StatusWaiting   = "waiting"
	StatusPlaying   = "playing"
	StatusFinished  = "finished"
	StatusAbandoned = "abandoned"

	PlayerHost  = "host"
	PlayerGuest = "guest"
	PlayerDraw  = "draw"

	EmptyCell = ""
)

// BoardSize is the side length of the Gomoku grid.
const BoardSize = 15

type Board [BoardSize][BoardSize]string

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Move struct {
	Row       int       `json:"row"`
	Col       int       `json:"col"`
	Player    string    `json:"player"`
	Timestamp time.Time `json:"timestamp"`
}

type GameState struct {
	Board         Board     `json:"board"`
	CurrentPlayer string    `json:"current_player"`
	Status        string    `json:"status"`
	Winner        string    `json:"winner,omitempty"`
	MoveHistory   []Move    `json:"move_history"`
	LastMove      *Position `json:"last_move,omitempty"`
}

// NewGameState - returns the canonical initial state of a fresh match:
// empty board, host to move, no winner, no history.
func NewGameState() *GameState {
	return &GameState{
		CurrentPlayer: PlayerHost,
		Status:        StatusWaiting,
		MoveHistory:   []Move{},
	}
}

func (that *GameState) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *GameState) IsPlaying() bool {
	return that.Status == StatusPlaying
}

func (that *GameState) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *GameState) IsAbandoned() bool {
	return that.Status == StatusAbandoned
}

// ConfirmPlayingState - reports whether a move may be attempted at all.
// Every non-playing status, known or not, rejects the move.
func (that *GameState) ConfirmPlayingState() error {
	if that.IsPlaying() {
		return nil
	}

	return fmt.Errorf("%w: status %q", apperror.ErrGameNotActive, that.Status)
}

func (that *GameState) IsBoardFull() bool {
	for row := range that.Board {
		for col := range that.Board[row] {
			if that.Board[row][col] == EmptyCell {
				return false
			}
		}
	}

	return true
}

// StoneCount - number of occupied cells, which must always equal the
// length of the move history.
func (that *GameState) StoneCount() int {
	count := 0
	for row := range that.Board {
		for col := range that.Board[row] {
			if that.Board[row][col] != EmptyCell {
				count++
			}
		}
	}

	return count
}

func (that *GameState) Clone() *GameState {
	cloned := *that

	cloned.MoveHistory = make([]Move, len(that.MoveHistory))
	copy(cloned.MoveHistory, that.MoveHistory)

	if that.LastMove != nil {
		lastMove := *that.LastMove
		cloned.LastMove = &lastMove
	}

	return &cloned
}

// Opponent - the other side for a given player role.
func Opponent(player string) string {
	if player == PlayerHost {
		return PlayerGuest
	}

	return PlayerHost
}
