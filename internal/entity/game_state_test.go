package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthmate-app/gomoku-backend/internal/apperror"
)

func TestNewGameState(t *testing.T) {
	// Given/When: a fresh game state
	game := NewGameState()

	// Then: host moves first on an empty waiting board
	assert.Equal(t, PlayerHost, game.CurrentPlayer)
	assert.Equal(t, StatusWaiting, game.Status)
	assert.Empty(t, game.Winner)
	assert.Empty(t, game.MoveHistory)
	assert.Nil(t, game.LastMove)
	assert.Equal(t, 0, game.StoneCount())
}

func TestGameStateStatusMethods(t *testing.T) {
	t.Run("IsWaiting returns true when status is waiting", func(t *testing.T) {
		game := &GameState{Status: StatusWaiting}

		assert.True(t, game.IsWaiting())
		assert.False(t, game.IsPlaying())
	})

	t.Run("IsPlaying returns true when status is playing", func(t *testing.T) {
		game := &GameState{Status: StatusPlaying}

		assert.True(t, game.IsPlaying())
	})

	t.Run("IsFinished returns true when status is finished", func(t *testing.T) {
		game := &GameState{Status: StatusFinished}

		assert.True(t, game.IsFinished())
	})

	t.Run("IsAbandoned returns true when status is abandoned", func(t *testing.T) {
		game := &GameState{Status: StatusAbandoned}

		assert.True(t, game.IsAbandoned())
	})
}

func TestConfirmPlayingState(t *testing.T) {
	t.Run("accepts a playing game", func(t *testing.T) {
		game := &GameState{Status: StatusPlaying}

		require.NoError(t, game.ConfirmPlayingState())
	})

	t.Run("rejects every non-playing status", func(t *testing.T) {
		for _, status := range []string{StatusWaiting, StatusFinished, StatusAbandoned, "bogus"} {
			game := &GameState{Status: status}

			err := game.ConfirmPlayingState()

			require.ErrorIs(t, err, apperror.ErrGameNotActive, "status %q", status)
		}
	})
}

func TestOpponent(t *testing.T) {
	assert.Equal(t, PlayerGuest, Opponent(PlayerHost))
	assert.Equal(t, PlayerHost, Opponent(PlayerGuest))
}

func TestGameStateClone(t *testing.T) {
	// Given: a game with history and a last move
	game := NewGameState()
	game.Status = StatusPlaying
	game.Board[7][7] = PlayerHost
	game.MoveHistory = append(game.MoveHistory, Move{Row: 7, Col: 7, Player: PlayerHost, Timestamp: time.Now().UTC()})
	game.LastMove = &Position{Row: 7, Col: 7}

	// When: cloning and mutating the clone
	cloned := game.Clone()
	cloned.Board[0][0] = PlayerGuest
	cloned.MoveHistory[0].Player = PlayerGuest
	cloned.LastMove.Row = 0

	// Then: the original is untouched
	assert.Equal(t, EmptyCell, game.Board[0][0])
	assert.Equal(t, PlayerHost, game.MoveHistory[0].Player)
	assert.Equal(t, 7, game.LastMove.Row)
}

func TestRoom(t *testing.T) {
	now := time.Now().UTC()

	t.Run("NewRoom starts waiting with an initial game state", func(t *testing.T) {
		room := NewRoom("room-1", "ABC234", "host-1", now)

		assert.Equal(t, StatusWaiting, room.Status)
		assert.Equal(t, StatusWaiting, room.Game.Status)
		assert.Equal(t, "host-1", room.HostID)
		assert.False(t, room.HasGuest())
		assert.True(t, room.IsOpen())
		assert.Equal(t, int64(0), room.Version)
	})

	t.Run("SetStatus mirrors the status into the embedded game", func(t *testing.T) {
		room := NewRoom("room-1", "ABC234", "host-1", now)

		room.SetStatus(StatusPlaying)

		assert.Equal(t, StatusPlaying, room.Status)
		assert.Equal(t, StatusPlaying, room.Game.Status)
		assert.False(t, room.IsOpen())
	})

	t.Run("Clone detaches the embedded game", func(t *testing.T) {
		room := NewRoom("room-1", "ABC234", "host-1", now)

		cloned := room.Clone()
		cloned.Game.Board[7][7] = PlayerHost
		cloned.GuestID = "guest-1"

		assert.Equal(t, EmptyCell, room.Game.Board[7][7])
		assert.False(t, room.HasGuest())
	})
}
