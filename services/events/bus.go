package events

import (
	"sync"

	"cinemind/models"
)

// RatingCommitted is published after the API has accepted a rating. List
// screens subscribe to refetch instead of being hard-wired through a
// per-screen callback.
type RatingCommitted struct {
	MovieID models.MovieID
	Rating  int
}

// Bus is a minimal in-process observer registry for rating commits.
// Subscribers run synchronously on the publishing goroutine; handlers must
// not block.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(RatingCommitted)
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]func(RatingCommitted))}
}

// Subscribe registers fn and returns a cancel function that removes it.
func (b *Bus) Subscribe(fn func(RatingCommitted)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Publish delivers ev to every current subscriber.
func (b *Bus) Publish(ev RatingCommitted) {
	b.mu.RLock()
	handlers := make([]func(RatingCommitted), 0, len(b.subs))
	for _, fn := range b.subs {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}
