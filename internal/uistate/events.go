package uistate

import (
	"context"
	"sync"
)

const subscriberBuffer = 8

// broadcaster fans change events out to subscribers. Slow subscribers miss
// events instead of blocking writers.
type broadcaster struct {
	mu     sync.Mutex
	subs   map[int]chan ChangeEvent
	nextID int
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: map[int]chan ChangeEvent{}}
}

func (b *broadcaster) subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ch := make(chan ChangeEvent, subscriberBuffer)
	if ctx.Err() != nil {
		close(ch)
		return ch, nil
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	context.AfterFunc(ctx, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
		close(ch)
	})
	return ch, nil
}

func (b *broadcaster) publish(evt ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}
