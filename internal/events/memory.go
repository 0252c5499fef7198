package events

import (
	"context"
	"sync"
)

// MemoryBus is an in-process Bus for tests and single-node deployments.
// Publish never blocks: subscribers that fall behind lose events.
type MemoryBus struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Event
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[int]chan Event)}
}

func (b *MemoryBus) Publish(_ context.Context, event Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(_ context.Context) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++

	ch := make(chan Event, 16)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}

	return ch, cancel
}
