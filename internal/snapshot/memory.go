package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/showrunr/feud/internal/models"
)

// MemoryStore implements Store in process memory. It serializes through the
// same JSON path as the Redis store so tests exercise identical semantics,
// including recovery from a corrupted primary record.
type MemoryStore struct {
	mu       sync.RWMutex
	primary  []byte
	backup   []byte
	maxBytes int
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{maxBytes: DefaultMaxSnapshotBytes}
}

// SetMaxBytes overrides the serialized snapshot size cap.
func (s *MemoryStore) SetMaxBytes(n int) { s.maxBytes = n }

// Corrupt overwrites the primary record with garbage. Test hook for the
// malformed-snapshot recovery path.
func (s *MemoryStore) Corrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.primary = []byte("{not json")
}

// CorruptBackup overwrites the backup record with garbage.
func (s *MemoryStore) CorruptBackup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backup = []byte("{not json")
}

func (s *MemoryStore) Write(_ context.Context, snap *models.GameSnapshot) error {
	snap.Revision++

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if s.maxBytes > 0 && len(data) > s.maxBytes {
		return fmt.Errorf("%w: %d bytes > %d", ErrSnapshotTooLarge, len(data), s.maxBytes)
	}
	backup, err := json.Marshal(reduced(snap))
	if err != nil {
		return fmt.Errorf("marshal backup snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.primary = data
	s.backup = backup
	return nil
}

func (s *MemoryStore) Read(_ context.Context) (*models.GameSnapshot, error) {
	s.mu.RLock()
	primary, backup := s.primary, s.backup
	s.mu.RUnlock()

	if primary == nil {
		return models.DefaultSnapshot(), nil
	}

	var snap models.GameSnapshot
	if err := json.Unmarshal(primary, &snap); err == nil {
		return &snap, nil
	}

	log.Warn().Msg("primary snapshot corrupt, trying backup")
	if backup != nil {
		if err := json.Unmarshal(backup, &snap); err == nil {
			return &snap, nil
		}
	}
	return models.DefaultSnapshot(), nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.primary = nil
	s.backup = nil
	return nil
}
