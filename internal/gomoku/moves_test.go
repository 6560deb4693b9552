package gomoku

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthmate-app/gomoku-backend/internal/apperror"
	"github.com/healthmate-app/gomoku-backend/internal/entity"
)

func playingGame() *entity.GameState {
	game := entity.NewGameState()
	game.Status = entity.StatusPlaying

	return game
}

func TestApplyMove_Preconditions(t *testing.T) {
	now := time.Now().UTC()

	t.Run("rejects a move outside the board", func(t *testing.T) {
		game := playingGame()

		err := ApplyMove(game, entity.BoardSize, 0, entity.PlayerHost, now)

		require.ErrorIs(t, err, apperror.ErrInvalidCell)
	})

	t.Run("rejects a move before the game started", func(t *testing.T) {
		// Given: a room still waiting for a guest
		game := entity.NewGameState()

		err := ApplyMove(game, 7, 7, entity.PlayerHost, now)

		require.ErrorIs(t, err, apperror.ErrGameNotActive)
	})

	t.Run("rejects a move on an abandoned game", func(t *testing.T) {
		game := entity.NewGameState()
		game.Status = entity.StatusAbandoned

		err := ApplyMove(game, 7, 7, entity.PlayerHost, now)

		require.ErrorIs(t, err, apperror.ErrGameNotActive)
	})

	t.Run("rejects a move by the non-current player", func(t *testing.T) {
		// Given: a fresh game where host moves first
		game := playingGame()

		err := ApplyMove(game, 7, 7, entity.PlayerGuest, now)

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, entity.EmptyCell, game.Board[7][7])
	})

	t.Run("rejects a move onto an occupied cell", func(t *testing.T) {
		game := playingGame()

		require.NoError(t, ApplyMove(game, 7, 7, entity.PlayerHost, now))

		err := ApplyMove(game, 7, 7, entity.PlayerGuest, now)

		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		// the cell keeps its original owner
		assert.Equal(t, entity.PlayerHost, game.Board[7][7])
	})
}

func TestApplyMove_TurnAlternation(t *testing.T) {
	now := time.Now().UTC()

	// Given: an active game
	game := playingGame()

	moves := [][2]int{{7, 7}, {0, 0}, {8, 8}, {0, 1}, {9, 9}, {0, 2}}

	// When: a sequence of legal moves is applied
	for i, cell := range moves {
		player := entity.PlayerHost
		if i%2 == 1 {
			player = entity.PlayerGuest
		}

		// Then: the expected side is always on turn
		require.Equal(t, player, game.CurrentPlayer)
		require.NoError(t, ApplyMove(game, cell[0], cell[1], player, now))

		// Then: history always matches the number of stones on the board
		assert.Len(t, game.MoveHistory, i+1)
		assert.Equal(t, i+1, game.StoneCount())
		assert.Equal(t, &entity.Position{Row: cell[0], Col: cell[1]}, game.LastMove)
	}

	assert.Equal(t, entity.StatusPlaying, game.Status)
	assert.Empty(t, game.Winner)
}

func TestApplyMove_HostWinsWithFifthAlignedStone(t *testing.T) {
	now := time.Now().UTC()

	// Given: host builds a row-7 line while guest plays elsewhere
	game := playingGame()

	sequence := []struct {
		player string
		row    int
		col    int
	}{
		{entity.PlayerHost, 7, 7},
		{entity.PlayerGuest, 7, 8},
		{entity.PlayerHost, 7, 6},
		{entity.PlayerGuest, 0, 0},
		{entity.PlayerHost, 7, 5},
		{entity.PlayerGuest, 0, 1},
		{entity.PlayerHost, 7, 4},
		{entity.PlayerGuest, 0, 2},
	}

	for _, move := range sequence {
		require.NoError(t, ApplyMove(game, move.row, move.col, move.player, now))
	}

	// When: host completes the line at (7,3)
	require.NoError(t, ApplyMove(game, 7, 3, entity.PlayerHost, now))

	// Then: the game is finished, host wins, turn is not advanced
	assert.Equal(t, entity.StatusFinished, game.Status)
	assert.Equal(t, entity.PlayerHost, game.Winner)
	assert.Equal(t, entity.PlayerHost, game.CurrentPlayer)
	assert.Equal(t, &entity.Position{Row: 7, Col: 3}, game.LastMove)

	// Then: no further move is accepted
	err := ApplyMove(game, 10, 10, entity.PlayerGuest, now)
	require.ErrorIs(t, err, apperror.ErrGameNotActive)
}

// drawPatternOwner tiles the board so that no orientation ever reaches five
// in a row: runs are capped at three horizontally, two vertically, one on
// the main diagonal and three on the anti-diagonal.
func drawPatternOwner(row, col int) string {
	if ((col+2*row)/3)%2 == 0 {
		return entity.PlayerHost
	}

	return entity.PlayerGuest
}

func TestApplyMove_FullBoardIsADraw(t *testing.T) {
	now := time.Now().UTC()

	// Given: a board full except one cell, with no five-in-a-row anywhere
	game := playingGame()
	for row := 0; row < entity.BoardSize; row++ {
		for col := 0; col < entity.BoardSize; col++ {
			if row == entity.BoardSize-1 && col == entity.BoardSize-1 {
				continue
			}
			game.Board[row][col] = drawPatternOwner(row, col)
		}
	}

	lastOwner := drawPatternOwner(entity.BoardSize-1, entity.BoardSize-1)
	game.CurrentPlayer = lastOwner

	// When: the final cell is filled
	require.NoError(t, ApplyMove(game, entity.BoardSize-1, entity.BoardSize-1, lastOwner, now))

	// Then: the game finishes as a draw
	assert.Equal(t, entity.StatusFinished, game.Status)
	assert.Equal(t, entity.PlayerDraw, game.Winner)
	assert.True(t, game.IsBoardFull())
}

func TestApplyMove_RecordsTimestamps(t *testing.T) {
	playedAt := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

	game := playingGame()

	require.NoError(t, ApplyMove(game, 7, 7, entity.PlayerHost, playedAt))

	require.Len(t, game.MoveHistory, 1)
	assert.Equal(t, playedAt, game.MoveHistory[0].Timestamp)
	assert.Equal(t, entity.PlayerHost, game.MoveHistory[0].Player)
}
