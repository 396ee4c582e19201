// Package viewsync is the one state-sync module every viewer depends on. It
// combines a channel subscription for low latency with a short-interval poll
// of the snapshot store for convergence, so the dual-path logic is never
// reimplemented per display page.
package viewsync

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/showrunr/feud/internal/broadcast"
	"github.com/showrunr/feud/internal/models"
	"github.com/showrunr/feud/internal/snapshot"
)

// DefaultPollInterval is how often a viewer re-reads the snapshot store as a
// fallback. 100ms keeps a viewer that missed a broadcast within one frame of
// the control panel; anything up to 250ms is acceptable.
const DefaultPollInterval = 100 * time.Millisecond

// Update is delivered to the viewer whenever the observable state changed.
type Update struct {
	Snapshot *models.GameSnapshot
	// View is the display page resolved from the snapshot's game state;
	// unknown states resolve to the idle view.
	View string
}

// UpdateFunc receives deduplicated state updates.
type UpdateFunc func(Update)

// Config wires a Syncer.
type Config struct {
	Store        snapshot.Store
	Channel      broadcast.Channel
	PollInterval time.Duration
	PingTimeout  time.Duration
	Clock        clockwork.Clock
}

// Syncer keeps one viewer converged with the shared snapshot. Re-reading
// identical data fires nothing, so one-shot overlays are never replayed by
// the poll loop.
type Syncer struct {
	store        snapshot.Store
	channel      broadcast.Channel
	pollInterval time.Duration
	clock        clockwork.Clock
	liveness     *Liveness

	onUpdate UpdateFunc

	mu           sync.Mutex
	lastRevision uint64
	seen         bool

	// wake coalesces channel notifications into the run loop.
	wake chan struct{}
}

// New builds a Syncer. Store and Channel are required; zero intervals take
// defaults and a nil clock uses the real one.
func New(cfg Config, onUpdate UpdateFunc) *Syncer {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return &Syncer{
		store:        cfg.Store,
		channel:      cfg.Channel,
		pollInterval: cfg.PollInterval,
		clock:        cfg.Clock,
		liveness:     NewLiveness(cfg.Clock, cfg.PingTimeout),
		onUpdate:     onUpdate,
		wake:         make(chan struct{}, 1),
	}
}

// Liveness exposes the connected/disconnected indicator for this viewer.
func (s *Syncer) Liveness() *Liveness {
	return s.liveness
}

// Run blocks until ctx is cancelled, delivering updates as they are detected.
// The channel subscription and the poll ticker are both released on return.
func (s *Syncer) Run(ctx context.Context) error {
	unsubscribe, err := s.channel.Subscribe(func(event broadcast.Event) {
		switch event.Type {
		case broadcast.EventPing:
			s.liveness.Observe()
		case broadcast.EventStateChange:
			s.liveness.Observe()
			select {
			case s.wake <- struct{}{}:
			default:
			}
		}
	})
	if err != nil {
		// Channel unavailable is not fatal: degrade to polling only.
		log.Warn().Err(err).Msg("notification channel unavailable, polling only")
		unsubscribe = func() {}
	}
	defer unsubscribe()

	ticker := s.clock.NewTicker(s.pollInterval)
	defer ticker.Stop()

	// Initial read so a viewer mounted mid-show renders immediately.
	s.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
			s.refresh(ctx)
		case <-ticker.Chan():
			s.refresh(ctx)
		}
	}
}

// refresh re-reads the store and delivers an update if anything changed.
func (s *Syncer) refresh(ctx context.Context) {
	snap, err := s.store.Read(ctx)
	if err != nil {
		// Degrade to the last delivered state; the next tick retries.
		log.Warn().Err(err).Msg("snapshot read failed")
		return
	}

	s.mu.Lock()
	changed := !s.seen || snap.Revision != s.lastRevision
	s.lastRevision = snap.Revision
	s.seen = true
	s.mu.Unlock()

	if !changed {
		return
	}
	s.onUpdate(Update{Snapshot: snap, View: models.ResolveView(snap.GameState)})
}
