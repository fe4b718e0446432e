package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/retailflow/plm-console/internal/core/ports"
)

// Commander is the subset of *redis.Client the session storage needs.
type Commander interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// SessionStorage keeps the session entries in one Redis hash per console
// namespace. The hash expires after ttl, bounding the secret's lifetime.
// Key format: plm:session:<namespace>
type SessionStorage struct {
	client Commander
	key    string
	ttl    time.Duration
	sealer *sealer
}

// NewSessionStorage creates a SessionStorage. A non-empty sealKey encrypts
// every stored value.
func NewSessionStorage(client Commander, namespace string, ttl time.Duration, sealKey string) *SessionStorage {
	if namespace == "" {
		namespace = "default"
	}
	key := fmt.Sprintf("plm:session:%s", namespace)
	return &SessionStorage{
		client: client,
		key:    key,
		ttl:    ttl,
		sealer: newSealer(sealKey, key),
	}
}

var _ ports.SessionStorage = (*SessionStorage)(nil)

func (s *SessionStorage) Get(ctx context.Context, field string) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session get %s: %w", field, err)
	}
	if s.sealer != nil {
		if v, err = s.sealer.open(v); err != nil {
			return "", false, fmt.Errorf("session get %s: %w", field, err)
		}
	}
	return v, true, nil
}

func (s *SessionStorage) Set(ctx context.Context, field, value string) error {
	if s.sealer != nil {
		sealed, err := s.sealer.seal(value)
		if err != nil {
			return err
		}
		value = sealed
	}
	if err := s.client.HSet(ctx, s.key, field, value).Err(); err != nil {
		return fmt.Errorf("session set %s: %w", field, err)
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, s.key, s.ttl).Err(); err != nil {
			return fmt.Errorf("session expire: %w", err)
		}
	}
	return nil
}

func (s *SessionStorage) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}
