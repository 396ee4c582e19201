// Package snapshot persists the shared game snapshot: one serialized record
// that the control service writes and every viewer reads. Implementations
// must make writes atomic from a reader's point of view, which in practice
// means serializing the whole snapshot to a single value under a single key.
package snapshot

import (
	"context"
	"errors"

	"github.com/showrunr/feud/internal/models"
)

// DefaultMaxSnapshotBytes caps a serialized snapshot write. Team logos can be
// embedded as data URLs, so the record can reach tens of kilobytes; anything
// past this is a host mistake that should be surfaced, not silently dropped.
const DefaultMaxSnapshotBytes = 1 << 20

// ErrSnapshotTooLarge is returned when a write exceeds the configured cap.
var ErrSnapshotTooLarge = errors.New("snapshot exceeds size limit")

// Store is the authoritative home of the game snapshot. It is injected into
// everything that needs it so tests can swap in the in-memory implementation.
type Store interface {
	// Write replaces the persisted snapshot. The stored Revision is bumped
	// past the previously persisted one.
	Write(ctx context.Context, snap *models.GameSnapshot) error

	// Read returns the last written snapshot, or a default snapshot when
	// nothing has been persisted yet. A corrupt record falls back to the
	// backup copy and then to the default; it never fails a reader.
	Read(ctx context.Context) (*models.GameSnapshot, error)

	// Clear removes the persisted snapshot. Only explicit host reset uses it.
	Clear(ctx context.Context) error
}

// reduced strips the heavyweight optional payloads for the backup copy. The
// backup is a resilience measure, not a second source of truth; on conflict
// the primary always wins.
func reduced(snap *models.GameSnapshot) *models.GameSnapshot {
	r := *snap
	r.CurrentQuestion = nil
	r.Tournament = nil
	return &r
}
