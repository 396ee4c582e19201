package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/showrunr/feud/internal/models"
)

const (
	primaryKey = "feud:game:state"
	backupKey  = "feud:game:state:backup"
)

// RedisStore keeps the snapshot in Redis under a single well-known key, with
// a reduced backup copy under a second key. SET of one value is atomic, so a
// reader never observes a half-written record.
type RedisStore struct {
	client   *redis.Client
	maxBytes int
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	log.Info().Str("addr", addr).Int("db", db).Msg("connected to redis snapshot store")
	return &RedisStore{client: client, maxBytes: DefaultMaxSnapshotBytes}, nil
}

// SetMaxBytes overrides the serialized snapshot size cap.
func (s *RedisStore) SetMaxBytes(n int) { s.maxBytes = n }

// Write persists the snapshot to the primary key and a reduced copy to the
// backup key. Oversized snapshots are rejected so the host hears about it
// instead of the write silently vanishing.
func (s *RedisStore) Write(ctx context.Context, snap *models.GameSnapshot) error {
	snap.Revision++

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if s.maxBytes > 0 && len(data) > s.maxBytes {
		return fmt.Errorf("%w: %d bytes > %d", ErrSnapshotTooLarge, len(data), s.maxBytes)
	}

	if err := s.client.Set(ctx, primaryKey, data, 0).Err(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	backup, err := json.Marshal(reduced(snap))
	if err == nil {
		if err := s.client.Set(ctx, backupKey, backup, 0).Err(); err != nil {
			log.Warn().Err(err).Msg("backup snapshot write failed")
		}
	}
	return nil
}

// Read loads the snapshot from the primary key. A missing record yields the
// default snapshot; a corrupt one falls back to the backup, then the default.
func (s *RedisStore) Read(ctx context.Context) (*models.GameSnapshot, error) {
	data, err := s.client.Get(ctx, primaryKey).Bytes()
	if err == redis.Nil {
		return models.DefaultSnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap models.GameSnapshot
	if err := json.Unmarshal(data, &snap); err == nil {
		return &snap, nil
	}

	log.Warn().Msg("primary snapshot corrupt, trying backup")
	backup, berr := s.client.Get(ctx, backupKey).Bytes()
	if berr == nil {
		if err := json.Unmarshal(backup, &snap); err == nil {
			return &snap, nil
		}
		log.Warn().Msg("backup snapshot corrupt as well")
	}
	return models.DefaultSnapshot(), nil
}

// Clear drops both keys.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, primaryKey, backupKey).Err(); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping verifies the Redis connection for health checks.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
