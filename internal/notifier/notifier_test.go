package notifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthmate-app/gomoku-backend/internal/entity"
	"github.com/healthmate-app/gomoku-backend/testing/suite"
)

func TestRedisNotifier_PublishSubscribe(t *testing.T) {
	ctx, st := suite.New(t)

	roomNotifier := NewRedisNotifier(st.Logger, st.Storage)

	// Given: a client subscribed to a room
	updates, err := roomNotifier.Subscribe(ctx, "room-1")
	require.NoError(t, err)

	// When: a state-changing write publishes the room
	room := entity.NewRoom("room-1", "ABC234", "host-1", time.Now().UTC())
	room.SetStatus(entity.StatusPlaying)
	require.NoError(t, roomNotifier.Publish(ctx, room))

	// Then: the subscriber receives the full updated document
	select {
	case received := <-updates:
		assert.Equal(t, room.ID, received.ID)
		assert.Equal(t, entity.StatusPlaying, received.Status)
		assert.Equal(t, entity.StatusPlaying, received.Game.Status)
	case <-time.After(10 * time.Second):
		t.Fatal("expected a room update")
	}
}
