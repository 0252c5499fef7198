// Package events broadcasts change notifications for dashboard consumers.
// Delivery is best-effort with no ordering guarantee; consumers reload
// current state rather than replaying events.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Actions emitted on complaint mutations.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// Event describes a single entity change.
type Event struct {
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	ID         uuid.UUID `json:"id"`
	TicketCode string    `json:"ticketCode,omitempty"`
	At         time.Time `json:"at"`
}

// Bus is the publish/subscribe contract. Subscribe returns a receive channel
// and a cancel func that releases the subscription; the channel is closed
// once the subscription ends.
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(ctx context.Context) (<-chan Event, func())
}
