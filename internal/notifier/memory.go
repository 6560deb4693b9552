package notifier

import (
	"context"
	"sync"

	"github.com/healthmate-app/gomoku-backend/internal/entity"
)

// memoryNotifier - in-process fan-out with the same contract as the redis
// notifier, for unit tests and local development.
type memoryNotifier struct {
	mu          sync.Mutex
	subscribers map[string][]chan *entity.Room
}

func NewMemoryNotifier() RoomNotifier {
	return &memoryNotifier{
		subscribers: make(map[string][]chan *entity.Room),
	}
}

func (that *memoryNotifier) Publish(_ context.Context, room *entity.Room) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, sub := range that.subscribers[room.ID] {
		select {
		case sub <- room.Clone():
		default: // drop for slow subscribers rather than block the writer
		}
	}

	return nil
}

func (that *memoryNotifier) Subscribe(ctx context.Context, roomID string) (<-chan *entity.Room, error) {
	sub := make(chan *entity.Room, subscriptionBuffer)

	that.mu.Lock()
	that.subscribers[roomID] = append(that.subscribers[roomID], sub)
	that.mu.Unlock()

	go func() {
		<-ctx.Done()

		that.mu.Lock()
		defer that.mu.Unlock()

		subs := that.subscribers[roomID]
		for i, existing := range subs {
			if existing == sub {
				that.subscribers[roomID] = append(subs[:i], subs[i+1:]...)
				break
			}
		}

		close(sub)
	}()

	return sub, nil
}
