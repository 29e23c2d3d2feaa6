package repository

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/reshetovitsme/news-highlights/internal/modules/headline/domain"
	"github.com/reshetovitsme/news-highlights/internal/shared/errors"
	"github.com/samber/oops"
)

// DefaultRedisKey holds the mirrored snapshot.
const DefaultRedisKey = "highlights:snapshot"

// RedisStorage implements Repository on a single Redis key.
type RedisStorage struct {
	client *redis.Client
	key    string
}

// NewRedisStorage connects to addr and fails if the server does not answer a ping.
func NewRedisStorage(ctx context.Context, addr, key string) (Repository, error) {
	if key == "" {
		key = DefaultRedisKey
	}
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, oops.With("redis_addr", addr, "context", "failed to ping redis").Wrap(err)
	}

	return NewRedisStorageWithClient(client, key), nil
}

// NewRedisStorageWithClient wraps an existing client.
func NewRedisStorageWithClient(client *redis.Client, key string) *RedisStorage {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStorage{client: client, key: key}
}

func (s *RedisStorage) Load(ctx context.Context) (*domain.Snapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, errors.ErrSnapshotNotFound
		}
		return nil, oops.With("key", s.key, "context", "failed to read snapshot").Wrap(err)
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, oops.With("key", s.key, "context", "failed to unmarshal snapshot").Wrap(err)
	}
	return &snapshot, nil
}

func (s *RedisStorage) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return oops.With("context", "failed to marshal snapshot").Wrap(err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return oops.With("key", s.key, "context", "failed to write snapshot").Wrap(err)
	}
	return nil
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}
