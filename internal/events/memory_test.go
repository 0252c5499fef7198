package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemoryBusDelivers(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	ch, cancel := bus.Subscribe(ctx)
	defer cancel()

	event := Event{
		Entity:     "complaint",
		Action:     ActionCreated,
		ID:         uuid.New(),
		TicketCode: "CMP-2026-001",
		At:         time.Now().UTC(),
	}
	if err := bus.Publish(ctx, event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case got := <-ch:
		if got.ID != event.ID || got.TicketCode != event.TicketCode {
			t.Errorf("got %+v, expected %+v", got, event)
		}
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestMemoryBusFanout(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	first, cancelFirst := bus.Subscribe(ctx)
	defer cancelFirst()
	second, cancelSecond := bus.Subscribe(ctx)
	defer cancelSecond()

	bus.Publish(ctx, Event{Entity: "complaint", Action: ActionUpdated, ID: uuid.New()})

	for name, ch := range map[string]<-chan Event{"first": first, "second": second} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Errorf("%s subscriber did not receive the event", name)
		}
	}
}

func TestMemoryBusCancelClosesChannel(t *testing.T) {
	bus := NewMemoryBus()

	ch, cancel := bus.Subscribe(context.Background())
	cancel()

	if _, open := <-ch; open {
		t.Error("channel should be closed after cancel")
	}

	// Cancel is idempotent.
	cancel()

	if err := bus.Publish(context.Background(), Event{}); err != nil {
		t.Errorf("publish after cancel: %v", err)
	}
}

func TestMemoryBusPublishNeverBlocks(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	_, cancel := bus.Subscribe(ctx)
	defer cancel()

	// Fill well past the subscriber buffer without draining.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			bus.Publish(ctx, Event{ID: uuid.New()})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
