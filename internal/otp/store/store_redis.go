package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"domainwatch/internal/otp/models"
	"domainwatch/internal/platform/redis"
	"domainwatch/pkg/platform/sentinel"
)

const keyPrefix = "otp:pending:"

// RedisStore keeps pending codes in Redis with native key TTLs, so the
// growth bound and expiry are enforced by the backend itself.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, email string, entry *models.Entry) error {
	if entry == nil {
		return fmt.Errorf("otp entry is required")
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode otp entry: %w", err)
	}
	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := s.client.Set(ctx, keyPrefix+email, payload, ttl).Err(); err != nil {
		return fmt.Errorf("store otp for %s: %w", email, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, email string) (*models.Entry, error) {
	raw, err := s.client.Get(ctx, keyPrefix+email).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("otp for %q: %w", email, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load otp for %s: %w", email, err)
	}
	var entry models.Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("decode otp entry: %w", err)
	}
	return &entry, nil
}

func (s *RedisStore) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, keyPrefix+email).Err(); err != nil {
		return fmt.Errorf("delete otp for %s: %w", email, err)
	}
	return nil
}

// DeleteExpired is a no-op: Redis evicts expired keys itself.
func (s *RedisStore) DeleteExpired(context.Context, time.Time) (int, error) {
	return 0, nil
}
