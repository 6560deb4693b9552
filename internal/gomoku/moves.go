package gomoku

import (
	"fmt"
	"time"

	"github.com/healthmate-app/gomoku-backend/internal/apperror"
	"github.com/healthmate-app/gomoku-backend/internal/entity"
)

// ApplyMove - validates and applies a single move in place.
//
// Preconditions are checked in a fixed order so each violation surfaces as
// its own error: bounds, game active, turn order, cell occupancy. On success
// the stone is placed, the history entry appended, and the game resolved:
// a detected win finishes the game for player without advancing the turn,
// a full board finishes it as a draw, otherwise the turn passes to the
// other side. LastMove is set in every accepted case.
func ApplyMove(game *entity.GameState, row, col int, player string, playedAt time.Time) error {
	if row < 0 || row >= entity.BoardSize || col < 0 || col >= entity.BoardSize {
		return fmt.Errorf("%w: row %d, col %d", apperror.ErrInvalidCell, row, col)
	}

	if err := game.ConfirmPlayingState(); err != nil {
		return err
	}

	if game.CurrentPlayer != player {
		return apperror.ErrNotYourTurn
	}

	if game.Board[row][col] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	game.Board[row][col] = player
	game.MoveHistory = append(game.MoveHistory, entity.Move{
		Row:       row,
		Col:       col,
		Player:    player,
		Timestamp: playedAt,
	})
	game.LastMove = &entity.Position{Row: row, Col: col}

	switch {
	case HasFiveInARow(game.Board, row, col, player):
		game.Winner = player
		game.Status = entity.StatusFinished
	case game.IsBoardFull():
		game.Winner = entity.PlayerDraw
		game.Status = entity.StatusFinished
	default:
		game.CurrentPlayer = entity.Opponent(player)
	}

	return nil
}
