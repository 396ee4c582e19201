package broadcast

import (
	"context"
	"errors"
	"testing"

	"github.com/showrunr/feud/internal/models"
)

func TestMemoryChannelDeliversInOrder(t *testing.T) {
	ch := NewMemoryChannel()
	ctx := context.Background()

	var got []models.GameState
	unsubscribe, err := ch.Subscribe(func(e Event) {
		if e.Type == EventStateChange {
			got = append(got, e.GameState)
		}
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer unsubscribe()

	states := []models.GameState{models.StateTeamVs, models.StateGamePlay, models.StateMatchWinner}
	for _, s := range states {
		if err := ch.Publish(ctx, StateChange(s)); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}

	if len(got) != len(states) {
		t.Fatalf("delivered %d events, want %d", len(got), len(states))
	}
	for i, s := range states {
		if got[i] != s {
			t.Errorf("event %d = %s, want %s", i, got[i], s)
		}
	}
}

func TestMemoryChannelFansOut(t *testing.T) {
	ch := NewMemoryChannel()

	counts := make([]int, 3)
	for i := range counts {
		i := i
		if _, err := ch.Subscribe(func(Event) { counts[i]++ }); err != nil {
			t.Fatalf("Subscribe: %v", err)
		}
	}

	ch.Publish(context.Background(), Ping())
	for i, c := range counts {
		if c != 1 {
			t.Errorf("subscriber %d got %d events, want 1", i, c)
		}
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	ch := NewMemoryChannel()

	var count int
	unsubscribe, _ := ch.Subscribe(func(Event) { count++ })

	ch.Publish(context.Background(), Ping())
	unsubscribe()
	ch.Publish(context.Background(), Ping())

	if count != 1 {
		t.Errorf("delivered %d events, want 1", count)
	}
}

func TestClosedChannelRejectsUse(t *testing.T) {
	ch := NewMemoryChannel()

	var count int
	ch.Subscribe(func(Event) { count++ })
	if err := ch.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := ch.Publish(context.Background(), Ping()); !errors.Is(err, ErrChannelClosed) {
		t.Errorf("Publish after close = %v, want ErrChannelClosed", err)
	}
	if _, err := ch.Subscribe(func(Event) {}); !errors.Is(err, ErrChannelClosed) {
		t.Errorf("Subscribe after close = %v, want ErrChannelClosed", err)
	}
	if count != 0 {
		t.Errorf("delivered %d events after close, want 0", count)
	}
}

func TestEventConstructors(t *testing.T) {
	e := StateChange(models.StateBracketShow)
	if e.Type != EventStateChange || e.GameState != models.StateBracketShow {
		t.Errorf("StateChange event = %+v", e)
	}
	if e.Timestamp.IsZero() {
		t.Error("StateChange timestamp not set")
	}

	p := Ping()
	if p.Type != EventPing {
		t.Errorf("Ping type = %s", p.Type)
	}
}
