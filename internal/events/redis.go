package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/campusdesk/campusdesk/pkg/lifecycle"
)

// RedisBus fans events out across service instances over a single redis
// pub/sub channel.
type RedisBus struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

func NewRedisBus(cfg Config, logger *slog.Logger) *RedisBus {
	return &RedisBus{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		channel: cfg.Channel,
		logger:  logger.With("system", "events"),
	}
}

// Start registers startup and shutdown hooks with the lifecycle coordinator.
func (b *RedisBus) Start(lc *lifecycle.Coordinator) error {
	b.logger.Info("starting event bus", "channel", b.channel)

	lc.OnStartup(func() {
		if err := b.client.Ping(lc.Context()).Err(); err != nil {
			b.logger.Error("redis ping failed", "error", err)
			return
		}
		b.logger.Info("event bus connected")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		b.logger.Info("closing event bus")

		if err := b.client.Close(); err != nil {
			b.logger.Error("event bus close failed", "error", err)
		}
	})

	return nil
}

func (b *RedisBus) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context) (<-chan Event, func()) {
	sub := b.client.Subscribe(ctx, b.channel)
	events := make(chan Event, 16)

	go func() {
		defer close(events)

		for msg := range sub.Channel() {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warn("dropping undecodable event", "error", err)
				continue
			}

			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() {
		if err := sub.Close(); err != nil {
			b.logger.Warn("subscription close failed", "error", err)
		}
	}

	return events, cancel
}
