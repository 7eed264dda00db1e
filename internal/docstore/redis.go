package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	pkglogger "github.com/talkwave/talkwave-backend/pkg/logger"
)

const (
	redisKeyPrefix     = "doc:"
	redisChannelPrefix = "docchange:"
)

// RedisStore keeps one JSON document per path key. Writes are plain
// SET (last-writer-wins); every write publishes the new document on a
// per-path pub/sub channel, which backs Subscribe.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Store backed by Redis
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, path string, dest interface{}) (err error) {
	defer func() { observe("redis", "get", err) }()

	raw, err := s.client.Get(ctx, redisKeyPrefix+path).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFetchFailed, path, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFetchFailed, path, err)
	}
	return nil
}

func (s *RedisStore) Set(ctx context.Context, path string, value interface{}) (err error) {
	defer func() { observe("redis", "set", err) }()

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, redisKeyPrefix+path, raw, 0).Err(); err != nil {
		return err
	}

	// Change notification is best effort; a missed publish only delays
	// live updates, the document itself is already written.
	if err := s.client.Publish(ctx, redisChannelPrefix+path, raw).Err(); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("path", path).Msg("docstore: publish change failed")
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, path string) (err error) {
	defer func() { observe("redis", "delete", err) }()

	if err := s.client.Del(ctx, redisKeyPrefix+path).Err(); err != nil {
		return err
	}
	if err := s.client.Publish(ctx, redisChannelPrefix+path, []byte("null")).Err(); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("path", path).Msg("docstore: publish delete failed")
	}
	return nil
}

func (s *RedisStore) Subscribe(ctx context.Context, path string, fn func(data []byte)) (UnsubscribeFunc, error) {
	pubsub := s.client.Subscribe(ctx, redisChannelPrefix+path)

	// Confirm the subscription before returning so callers never miss
	// changes made after Subscribe returns.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	go func() {
		for msg := range pubsub.Channel() {
			fn([]byte(msg.Payload))
		}
	}()

	return func() {
		if err := pubsub.Close(); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Str("path", path).Msg("docstore: close subscription failed")
		}
	}, nil
}
