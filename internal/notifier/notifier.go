package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/healthmate-app/gomoku-backend/internal/entity"
)

// subscriptionBuffer bounds how many unconsumed updates a slow subscriber
// may lag behind before newer ones are dropped in its favor.
const subscriptionBuffer = 8

// RoomNotifier - push mechanism that delivers the latest Room document to
// every client subscribed to that room. Writers publish after each
// state-changing store write; the transport forwards updates to the UI.
type RoomNotifier interface {
	Publish(ctx context.Context, room *entity.Room) error
	Subscribe(ctx context.Context, roomID string) (<-chan *entity.Room, error)
}

type redisNotifier struct {
	logger *slog.Logger
	client *redis.Client
}

func NewRedisNotifier(logger *slog.Logger, client *redis.Client) RoomNotifier {
	return &redisNotifier{
		logger: logger,
		client: client,
	}
}

func roomChannel(roomID string) string {
	return "room:events:" + roomID
}

func (that *redisNotifier) Publish(ctx context.Context, room *entity.Room) error {
	roomJSON, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("could not marshal room: %w", err)
	}

	if err = that.client.Publish(ctx, roomChannel(room.ID), roomJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish room update: %w", err)
	}

	return nil
}

// Subscribe - delivers updated Room documents until ctx is canceled.
func (that *redisNotifier) Subscribe(ctx context.Context, roomID string) (<-chan *entity.Room, error) {
	log := that.logger.With("method", "Subscribe", "roomID", roomID)

	sub := that.client.Subscribe(ctx, roomChannel(roomID))

	// force the subscription to be established before returning
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to room channel: %w", err)
	}

	out := make(chan *entity.Room, subscriptionBuffer)

	go func() {
		defer close(out)
		defer func() {
			if err := sub.Close(); err != nil {
				log.Error("failed to close subscription", "error", err)
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}

				var room entity.Room
				if err := json.Unmarshal([]byte(msg.Payload), &room); err != nil {
					log.Error("failed to unmarshal room update", "error", err)
					continue
				}

				select {
				case out <- &room:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
