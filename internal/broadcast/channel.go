// Package broadcast is the cross-context notification channel: the control
// service announces a state change once and every open viewer reacts
// immediately instead of waiting for its next poll tick. Delivery is
// best-effort; the polling fallback guarantees convergence for anyone who
// missed a message.
package broadcast

import (
	"context"
	"time"

	"github.com/showrunr/feud/internal/models"
)

// EventType tags a channel message.
type EventType string

const (
	// EventStateChange announces a game-state transition.
	EventStateChange EventType = "state-change"

	// EventPing is the liveness sentinel the control side emits on a fixed
	// interval so viewers can show a connected/disconnected indicator.
	EventPing EventType = "ping"
)

// Event is the small tagged payload carried on the channel.
type Event struct {
	Type      EventType        `json:"type"`
	GameState models.GameState `json:"gameState,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// Handler receives events in publish order for the lifetime of the
// subscription.
type Handler func(Event)

// Unsubscribe detaches a handler. Viewers must call it on teardown to avoid
// leaking subscriptions.
type Unsubscribe func()

// Channel is the pub/sub mechanism shared by the control side and viewers.
// Implementations are best-effort: a subscriber that was not attached when a
// message fired simply never sees it.
type Channel interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(handler Handler) (Unsubscribe, error)
	Close() error
}

// StateChange builds a transition event.
func StateChange(state models.GameState) Event {
	return Event{Type: EventStateChange, GameState: state, Timestamp: time.Now().UTC()}
}

// Ping builds a liveness event.
func Ping() Event {
	return Event{Type: EventPing, Timestamp: time.Now().UTC()}
}
